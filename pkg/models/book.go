package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reading status values derived from the status tables. A book with no row in
// any status table is in the library.
const (
	StatusLibrary   = "library"
	StatusTracking  = "tracking"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Title        string    `bun:",nullzero" json:"title"`
	SortTitle    string    `json:"sort_title"`
	Author       string    `bun:",nullzero" json:"author"`
	SortAuthor   string    `json:"sort_author"`
	PageCount    int       `json:"page_count"`
	CoverURL     *string   `json:"cover_url"`
	Genre        *string   `json:"genre"`
	Subgenre     *string   `json:"subgenre"`
	Publisher    *string   `json:"publisher"`
	PublishYear  *int      `json:"publish_year"`
	Series       *string   `json:"series"`
	SeriesNumber *float64  `json:"series_number"`
	Synopsis     *string   `json:"synopsis"`
	Notes        *string   `json:"notes"`

	// Status is derived from the status tables when listings ask for it.
	Status string `bun:",scanonly" json:"status,omitempty"`
}
