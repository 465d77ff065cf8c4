package statuses

// Query params for status listing endpoints.
type ListStatusQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type ListCompletedQuery struct {
	Search *string `query:"search" json:"search,omitempty" mod:"trim" validate:"omitempty,max=200"`
	Year   *string `query:"year" json:"year,omitempty" validate:"omitempty,len=4,numeric"`
	Rating *int    `query:"rating" json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Sort   *string `query:"sort" json:"sort,omitempty" validate:"omitempty,oneof=completion_date title rating"`
	Limit  int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

// Payloads for status transitions.
type StartTrackingPayload struct {
	BookID      int     `json:"book_id" validate:"required,min=1"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,date,ne="`
	CurrentPage *int    `json:"current_page,omitempty" validate:"omitempty,min=0"`
}

type UpdateProgressPayload struct {
	CurrentPage int `json:"current_page" validate:"min=0"`
}

type CompleteBookPayload struct {
	CompletionDate *string `json:"completion_date,omitempty" validate:"omitempty,date,ne="`
	StartDate      *string `json:"start_date,omitempty" validate:"omitempty,date,ne="`
	Rating         *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Review         *string `json:"review,omitempty" validate:"omitempty,max=10000"`
}

type AbandonBookPayload struct {
	PageAtAbandonment int     `json:"page_at_abandonment" validate:"min=0"`
	AbandonedDate     *string `json:"abandoned_date,omitempty" validate:"omitempty,date,ne="`
	StartDate         *string `json:"start_date,omitempty" validate:"omitempty,date,ne="`
	Reason            *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}

type UpdateCompletedPayload struct {
	StartDate      *string `json:"start_date,omitempty" validate:"omitempty,date,ne="`
	CompletionDate *string `json:"completion_date,omitempty" validate:"omitempty,date,ne="`
	Rating         *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Review         *string `json:"review,omitempty" validate:"omitempty,max=10000"`
}

type UpdateAbandonedPayload struct {
	StartDate         *string `json:"start_date,omitempty" validate:"omitempty,date,ne="`
	AbandonedDate     *string `json:"abandoned_date,omitempty" validate:"omitempty,date,ne="`
	PageAtAbandonment *int    `json:"page_at_abandonment,omitempty" validate:"omitempty,min=0"`
	Reason            *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}
