package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ReadingSession is one sitting with a book. PagesRead is derived from the
// start and end pages and may be negative when a reader flips backwards.
type ReadingSession struct {
	bun.BaseModel `bun:"table:reading_sessions,alias:rs"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	BookID          int       `bun:",nullzero" json:"book_id"`
	Book            *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	SessionDate     string    `bun:",nullzero" json:"session_date"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	StartPage       int       `json:"start_page"`
	EndPage         int       `json:"end_page"`
	PagesRead       int       `json:"pages_read"`
	DurationSeconds int       `json:"duration_seconds"`
	Notes           *string   `json:"notes"`
}
