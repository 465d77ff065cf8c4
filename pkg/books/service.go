package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/bookletapp/booklet/pkg/models"
	"github.com/bookletapp/booklet/pkg/sortname"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// statusExpr derives the reading status of a book from the status tables.
// Priority order matters: a tracking row wins over a stale completed row.
const statusExpr = `CASE
	WHEN EXISTS (SELECT 1 FROM tracking_records tr WHERE tr.book_id = b.id) THEN 'tracking'
	WHEN EXISTS (SELECT 1 FROM completed_records cr WHERE cr.book_id = b.id) THEN 'completed'
	WHEN EXISTS (SELECT 1 FROM abandoned_records ar WHERE ar.book_id = b.id) THEN 'abandoned'
	ELSE 'library'
END`

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

type CreateBookOptions struct {
	Title        string
	Author       string
	PageCount    int
	CoverURL     *string
	Genre        *string
	Subgenre     *string
	Publisher    *string
	PublishYear  *int
	Series       *string
	SeriesNumber *float64
	Synopsis     *string
	Notes        *string
}

func (svc *Service) CreateBook(ctx context.Context, opts CreateBookOptions) (*models.Book, error) {
	now := time.Now()

	book := &models.Book{
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:        opts.Title,
		SortTitle:    sortname.ForTitle(opts.Title),
		Author:       opts.Author,
		SortAuthor:   sortname.ForAuthor(opts.Author),
		PageCount:    opts.PageCount,
		CoverURL:     opts.CoverURL,
		Genre:        opts.Genre,
		Subgenre:     opts.Subgenre,
		Publisher:    opts.Publisher,
		PublishYear:  opts.PublishYear,
		Series:       opts.Series,
		SeriesNumber: opts.SeriesNumber,
		Synopsis:     opts.Synopsis,
		Notes:        opts.Notes,
	}

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	book.Status = models.StatusLibrary
	return book, nil
}

type RetrieveBookOptions struct {
	ID *int
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		ColumnExpr("b.*").
		ColumnExpr(statusExpr + " AS status")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

type ListBooksOptions struct {
	Author       *string
	Genre        *string
	Series       *string
	Status       *string
	Search       *string
	Limit        *int
	Offset       *int
	includeTotal bool
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	books, _, err := svc.listBooksWithTotal(ctx, opts)
	return books, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		ColumnExpr("b.*").
		ColumnExpr(statusExpr + " AS status").
		Order("b.sort_title ASC", "b.title ASC")

	if opts.Author != nil {
		q = q.Where("b.author = ?", *opts.Author)
	}
	if opts.Genre != nil {
		q = q.Where("b.genre = ?", *opts.Genre)
	}
	if opts.Series != nil {
		q = q.Where("b.series = ?", *opts.Series)
	}
	if opts.Status != nil {
		q = q.Where(statusExpr+" = ?", *opts.Status)
	}
	if opts.Search != nil {
		search := "%" + *opts.Search + "%"
		q = q.Where("(b.title LIKE ? OR b.author LIKE ?)", search, search)
	}

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

type UpdateBookOptions struct {
	Columns []string
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	book.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	// Sort keys follow their display fields.
	for _, column := range opts.Columns {
		switch column {
		case "title":
			book.SortTitle = sortname.ForTitle(book.Title)
			columns = append(columns, "sort_title")
		case "author":
			book.SortAuthor = sortname.ForAuthor(book.Author)
			columns = append(columns, "sort_author")
		}
	}

	res, err := svc.db.
		NewUpdate().
		Model(book).
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
		return errcodes.NotFound("Book")
	}
	return nil
}

// DeleteBook removes a book and everything hanging off of it. The deletes are
// explicit rather than relying on ON DELETE CASCADE so the behavior doesn't
// depend on the foreign_keys pragma of the connection.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Book")
		}

		for _, model := range []interface{}{
			(*models.TrackingRecord)(nil),
			(*models.CompletedRecord)(nil),
			(*models.AbandonedRecord)(nil),
			(*models.ReadingSession)(nil),
			(*models.TBRListBook)(nil),
		} {
			_, err := tx.NewDelete().
				Model(model).
				Where("book_id = ?", bookID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// RandomPick suggests an unread book while steering away from what was just
// finished: same-author and same-genre books are excluded, and after a long
// read (over 800 pages) only books under 600 pages are considered. The
// exclusions are dropped when they would leave nothing to suggest.
func (svc *Service) RandomPick(ctx context.Context) (*models.Book, error) {
	lastCompleted := &models.Book{}
	err := svc.db.
		NewSelect().
		Model(lastCompleted).
		Join("JOIN completed_records cr ON cr.book_id = b.id").
		Order("cr.completion_date DESC").
		Limit(1).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}
	hasLastCompleted := err == nil

	book := &models.Book{}
	q := svc.randomCandidates()
	if hasLastCompleted {
		q = q.Where("b.author != ?", lastCompleted.Author)
		if lastCompleted.Genre != nil {
			q = q.Where("b.genre IS NULL OR b.genre != ?", *lastCompleted.Genre)
		}
		if lastCompleted.PageCount > 800 {
			q = q.Where("b.page_count < 600")
		}
	}

	err = q.Scan(ctx, book)
	if err == nil {
		book.Status = models.StatusLibrary
		return book, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	// Nothing matched the exclusions, fall back to any unread book.
	err = svc.randomCandidates().Scan(ctx, book)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	book.Status = models.StatusLibrary
	return book, nil
}

func (svc *Service) randomCandidates() *bun.SelectQuery {
	return svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("b.*").
		Where(statusExpr + " = 'library'").
		OrderExpr("RANDOM()").
		Limit(1)
}

// ListAuthors returns distinct authors with how many books each has.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

func (svc *Service) ListAuthors(ctx context.Context) ([]*AuthorCount, error) {
	var authors []*AuthorCount
	err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("b.author AS author").
		ColumnExpr("COUNT(*) AS count").
		Group("b.author").
		OrderExpr("MIN(b.sort_author) ASC, b.author ASC").
		Scan(ctx, &authors)
	return authors, errors.WithStack(err)
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

func (svc *Service) ListGenres(ctx context.Context) ([]*GenreCount, error) {
	var genres []*GenreCount
	err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("b.genre AS genre").
		ColumnExpr("COUNT(*) AS count").
		Where("b.genre IS NOT NULL").
		Group("b.genre").
		Order("b.genre ASC").
		Scan(ctx, &genres)
	return genres, errors.WithStack(err)
}

type SeriesCount struct {
	Series string `json:"series"`
	Count  int    `json:"count"`
}

func (svc *Service) ListSeries(ctx context.Context) ([]*SeriesCount, error) {
	var series []*SeriesCount
	err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("b.series AS series").
		ColumnExpr("COUNT(*) AS count").
		Where("b.series IS NOT NULL").
		Group("b.series").
		Order("b.series ASC").
		Scan(ctx, &series)
	return series, errors.WithStack(err)
}
