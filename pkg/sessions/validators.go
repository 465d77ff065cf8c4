package sessions

import "time"

// Query params for session endpoints.
type ListSessionsQuery struct {
	BookID *int `query:"book_id" json:"book_id,omitempty" validate:"omitempty,min=1"`
	Limit  int  `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int  `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type WeekSummaryQuery struct {
	Date *string `query:"date" json:"date,omitempty" validate:"omitempty,date,ne="`
}

// Payloads for session endpoints.
type StartSessionPayload struct {
	BookID int `json:"book_id" validate:"required,min=1"`
}

type LogSessionPayload struct {
	BookID    int       `json:"book_id" validate:"required,min=1"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtefield=StartTime"`
	StartPage int       `json:"start_page" validate:"min=0"`
	EndPage   int       `json:"end_page" validate:"min=0"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
