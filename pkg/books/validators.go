package books

// Query params for book endpoints.
type ListBooksQuery struct {
	Author *string `query:"author" json:"author,omitempty"`
	Genre  *string `query:"genre" json:"genre,omitempty"`
	Series *string `query:"series" json:"series,omitempty"`
	Status *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=library tracking completed abandoned"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,min=1,max=200"`
	Limit  int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

// Payloads for create/update endpoints.
type CreateBookPayload struct {
	Title        string   `json:"title" mod:"trim" validate:"required,min=1,max=500"`
	Author       string   `json:"author" mod:"trim" validate:"required,min=1,max=200"`
	PageCount    int      `json:"page_count" validate:"required,min=1"`
	CoverURL     *string  `json:"cover_url,omitempty" mod:"trim" validate:"omitempty,max=1000"`
	Genre        *string  `json:"genre,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Subgenre     *string  `json:"subgenre,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Publisher    *string  `json:"publisher,omitempty" mod:"trim" validate:"omitempty,max=200"`
	PublishYear  *int     `json:"publish_year,omitempty" validate:"omitempty,min=0,max=9999"`
	Series       *string  `json:"series,omitempty" mod:"trim" validate:"omitempty,max=200"`
	SeriesNumber *float64 `json:"series_number,omitempty" validate:"omitempty,min=0"`
	Synopsis     *string  `json:"synopsis,omitempty" validate:"omitempty,max=10000"`
	Notes        *string  `json:"notes,omitempty" validate:"omitempty,max=10000"`
}

type UpdateBookPayload struct {
	Title        *string  `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=500"`
	Author       *string  `json:"author,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
	PageCount    *int     `json:"page_count,omitempty" validate:"omitempty,min=1"`
	CoverURL     *string  `json:"cover_url,omitempty" mod:"trim" validate:"omitempty,max=1000"`
	Genre        *string  `json:"genre,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Subgenre     *string  `json:"subgenre,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Publisher    *string  `json:"publisher,omitempty" mod:"trim" validate:"omitempty,max=200"`
	PublishYear  *int     `json:"publish_year,omitempty" validate:"omitempty,min=0,max=9999"`
	Series       *string  `json:"series,omitempty" mod:"trim" validate:"omitempty,max=200"`
	SeriesNumber *float64 `json:"series_number,omitempty" validate:"omitempty,min=0"`
	Synopsis     *string  `json:"synopsis,omitempty" validate:"omitempty,max=10000"`
	Notes        *string  `json:"notes,omitempty" validate:"omitempty,max=10000"`
}
