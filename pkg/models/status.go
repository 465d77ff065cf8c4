package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TrackingRecord marks a book as currently being read. At most one row exists
// per book, and a book can't simultaneously hold a row in any other status
// table.
type TrackingRecord struct {
	bun.BaseModel `bun:"table:tracking_records,alias:tr"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	BookID      int       `bun:",nullzero" json:"book_id"`
	Book        *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	StartDate   string    `bun:",nullzero" json:"start_date"`
	CurrentPage int       `json:"current_page"`
}

type CompletedRecord struct {
	bun.BaseModel `bun:"table:completed_records,alias:cr"`

	ID             int       `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	BookID         int       `bun:",nullzero" json:"book_id"`
	Book           *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	StartDate      *string   `json:"start_date"`
	CompletionDate string    `bun:",nullzero" json:"completion_date"`
	Rating         *int      `json:"rating"`
	Review         *string   `json:"review"`

	// DurationDays is computed from start_date and completion_date on read.
	DurationDays *int `bun:",scanonly" json:"duration_days,omitempty"`
}

type AbandonedRecord struct {
	bun.BaseModel `bun:"table:abandoned_records,alias:ar"`

	ID                int       `bun:",pk,nullzero" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	BookID            int       `bun:",nullzero" json:"book_id"`
	Book              *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	StartDate         *string   `json:"start_date"`
	AbandonedDate     string    `bun:",nullzero" json:"abandoned_date"`
	PageAtAbandonment int       `json:"page_at_abandonment"`
	Reason            *string   `json:"reason"`
}
