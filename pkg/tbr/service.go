package tbr

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/bookletapp/booklet/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

type CreateListOptions struct {
	Name        string
	Description *string
}

func (svc *Service) CreateList(ctx context.Context, opts CreateListOptions) (*models.TBRList, error) {
	now := time.Now()

	list := &models.TBRList{
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        opts.Name,
		Description: opts.Description,
	}

	_, err := svc.db.
		NewInsert().
		Model(list).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return list, nil
}

type RetrieveListOptions struct {
	ID *int
}

func (svc *Service) RetrieveList(ctx context.Context, opts RetrieveListOptions) (*models.TBRList, error) {
	list := &models.TBRList{}

	q := svc.db.
		NewSelect().
		Model(list).
		Relation("ListBooks", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("tlb.position ASC")
		}).
		Relation("ListBooks.Book")

	if opts.ID != nil {
		q = q.Where("tl.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("List")
		}
		return nil, errors.WithStack(err)
	}

	return list, nil
}

func (svc *Service) ListLists(ctx context.Context) ([]*models.TBRList, error) {
	var lists []*models.TBRList

	err := svc.db.
		NewSelect().
		Model(&lists).
		Order("tl.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return lists, nil
}

// GetListBookCount returns the number of books on a list.
func (svc *Service) GetListBookCount(ctx context.Context, listID int) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.TBRListBook)(nil)).
		Where("tlb.list_id = ?", listID).
		Count(ctx)
	return count, errors.WithStack(err)
}

type UpdateListOptions struct {
	Columns []string
}

func (svc *Service) UpdateList(ctx context.Context, list *models.TBRList, opts UpdateListOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	list.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(list).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("List")
	}
	return nil
}

func (svc *Service) DeleteList(ctx context.Context, listID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.TBRListBook)(nil)).
			Where("list_id = ?", listID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.TBRList)(nil)).
			Where("id = ?", listID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			return errcodes.NotFound("List")
		}
		return nil
	})
}

type ListBooksOptions struct {
	ListID int
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.TBRListBook, error) {
	var listBooks []*models.TBRListBook

	err := svc.db.
		NewSelect().
		Model(&listBooks).
		Relation("Book").
		Where("tlb.list_id = ?", opts.ListID).
		Order("tlb.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return listBooks, nil
}

type AddBookOptions struct {
	ListID int
	BookID int
}

// AddBook puts a book at the end of a list. Adding a book that's already on
// the list is a no-op; adding one that sits on another list moves it, since a
// book can only be on one list at a time.
func (svc *Service) AddBook(ctx context.Context, opts AddBookOptions) (*models.TBRListBook, error) {
	var membership *models.TBRListBook

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		listExists, err := tx.NewSelect().
			Model((*models.TBRList)(nil)).
			Where("id = ?", opts.ListID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !listExists {
			return errcodes.NotFound("List")
		}

		bookExists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("id = ?", opts.BookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !bookExists {
			return errcodes.NotFound("Book")
		}

		existing := &models.TBRListBook{}
		err = tx.NewSelect().
			Model(existing).
			Where("tlb.book_id = ?", opts.BookID).
			Scan(ctx)
		if err == nil {
			if existing.ListID == opts.ListID {
				membership = existing
				return nil
			}
			_, err = tx.NewDelete().
				Model((*models.TBRListBook)(nil)).
				Where("id = ?", existing.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return errors.WithStack(err)
		}

		var maxPosition int
		err = tx.NewSelect().
			Model((*models.TBRListBook)(nil)).
			ColumnExpr("COALESCE(MAX(position), 0)").
			Where("list_id = ?", opts.ListID).
			Scan(ctx, &maxPosition)
		if err != nil {
			return errors.WithStack(err)
		}

		membership = &models.TBRListBook{
			ListID:   opts.ListID,
			BookID:   opts.BookID,
			AddedAt:  time.Now(),
			Position: maxPosition + 1,
		}

		_, err = tx.NewInsert().
			Model(membership).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

type RemoveBookOptions struct {
	ListID int
	BookID int
}

func (svc *Service) RemoveBook(ctx context.Context, opts RemoveBookOptions) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.TBRListBook)(nil)).
		Where("list_id = ?", opts.ListID).
		Where("book_id = ?", opts.BookID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}

type MoveBookOptions struct {
	ListID int
	BookID int
}

// MoveBookUp swaps a book with the one positioned directly above it. Moving
// the top book is a conflict rather than a silent no-op.
func (svc *Service) MoveBookUp(ctx context.Context, opts MoveBookOptions) error {
	return svc.moveBook(ctx, opts, true)
}

// MoveBookDown is the mirror of MoveBookUp.
func (svc *Service) MoveBookDown(ctx context.Context, opts MoveBookOptions) error {
	return svc.moveBook(ctx, opts, false)
}

func (svc *Service) moveBook(ctx context.Context, opts MoveBookOptions, up bool) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		current := &models.TBRListBook{}
		err := tx.NewSelect().
			Model(current).
			Where("tlb.list_id = ?", opts.ListID).
			Where("tlb.book_id = ?", opts.BookID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Book")
			}
			return errors.WithStack(err)
		}

		// Positions can have gaps after removals, so the neighbor is found by
		// ordering rather than position arithmetic.
		neighbor := &models.TBRListBook{}
		q := tx.NewSelect().
			Model(neighbor).
			Where("tlb.list_id = ?", opts.ListID)
		if up {
			q = q.Where("tlb.position < ?", current.Position).
				Order("tlb.position DESC")
		} else {
			q = q.Where("tlb.position > ?", current.Position).
				Order("tlb.position ASC")
		}
		err = q.Limit(1).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if up {
					return errcodes.Conflict("Book is already at the top of the list.")
				}
				return errcodes.Conflict("Book is already at the bottom of the list.")
			}
			return errors.WithStack(err)
		}

		now := time.Now()
		for _, swap := range []struct {
			id       int
			position int
		}{
			{current.ID, neighbor.Position},
			{neighbor.ID, current.Position},
		} {
			_, err := tx.NewUpdate().
				Model((*models.TBRListBook)(nil)).
				Set("position = ?", swap.position).
				Where("id = ?", swap.id).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		_, err = tx.NewUpdate().
			Model((*models.TBRList)(nil)).
			Set("updated_at = ?", now).
			Where("id = ?", opts.ListID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// RetrieveBookList returns the membership row for a book, wherever it is.
func (svc *Service) RetrieveBookList(ctx context.Context, bookID int) (*models.TBRListBook, error) {
	membership := &models.TBRListBook{}

	err := svc.db.
		NewSelect().
		Model(membership).
		Relation("List").
		Where("tlb.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return membership, nil
}
