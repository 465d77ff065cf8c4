package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TBRList struct {
	bun.BaseModel `bun:"table:tbr_lists,alias:tl"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `bun:",nullzero" json:"name"`
	Description *string   `json:"description"`

	// Relations
	ListBooks []*TBRListBook `bun:"rel:has-many,join:id=list_id" json:"list_books,omitempty"`
}

// TBRListBook is a membership row. The unique constraint on book_id alone is
// what keeps a book on at most one list.
type TBRListBook struct {
	bun.BaseModel `bun:"table:tbr_list_books,alias:tlb"`

	ID       int       `bun:",pk,nullzero" json:"id"`
	ListID   int       `bun:",nullzero" json:"list_id"`
	List     *TBRList  `bun:"rel:belongs-to,join:list_id=id" json:"list,omitempty"`
	BookID   int       `bun:",nullzero" json:"book_id"`
	Book     *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	AddedAt  time.Time `json:"added_at"`
	Position int       `json:"position"`
}
