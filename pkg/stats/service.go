package stats

import (
	"context"
	"database/sql"

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

// Dashboard is the quick-glance breakdown of the whole catalog by status.
type Dashboard struct {
	TotalBooks     int `bun:"total_books" json:"total_books"`
	LibraryCount   int `bun:"library_count" json:"library_count"`
	TrackingCount  int `bun:"tracking_count" json:"tracking_count"`
	CompletedCount int `bun:"completed_count" json:"completed_count"`
	AbandonedCount int `bun:"abandoned_count" json:"abandoned_count"`

	LastCompleted *models.Book `bun:"-" json:"last_completed,omitempty"`
}

func (svc *Service) RetrieveDashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{}

	err := svc.db.
		NewSelect().
		ColumnExpr("(SELECT COUNT(*) FROM books) AS total_books").
		ColumnExpr(`(SELECT COUNT(*) FROM books
			WHERE id NOT IN (SELECT book_id FROM tracking_records)
			AND id NOT IN (SELECT book_id FROM completed_records)
			AND id NOT IN (SELECT book_id FROM abandoned_records)) AS library_count`).
		ColumnExpr("(SELECT COUNT(*) FROM tracking_records) AS tracking_count").
		ColumnExpr("(SELECT COUNT(*) FROM completed_records) AS completed_count").
		ColumnExpr("(SELECT COUNT(*) FROM abandoned_records) AS abandoned_count").
		Scan(ctx, dashboard)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	last := &models.Book{}
	err = svc.db.
		NewSelect().
		Model(last).
		ColumnExpr("b.*").
		Join("JOIN completed_records cr ON cr.book_id = b.id").
		Order("cr.completion_date DESC").
		Limit(1).
		Scan(ctx)
	if err == nil {
		last.Status = models.StatusCompleted
		dashboard.LastCompleted = last
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	return dashboard, nil
}

// YearStats summarizes finished reading for one year, or all time when no
// year is given.
type YearStats struct {
	CompletedCount  int     `bun:"completed_count" json:"completed_count"`
	PagesRead       int     `bun:"pages_read" json:"pages_read"`
	AbandonedCount  int     `bun:"abandoned_count" json:"abandoned_count"`
	AvgDaysToFinish float64 `bun:"avg_days_to_finish" json:"avg_days_to_finish"`
}

func (svc *Service) RetrieveYearStats(ctx context.Context, year *string) (*YearStats, error) {
	stats := &YearStats{}

	q := svc.db.NewSelect()
	if year != nil {
		q = q.
			ColumnExpr(`(SELECT COUNT(*) FROM completed_records
				WHERE strftime('%Y', completion_date) = ?) AS completed_count`, *year).
			ColumnExpr(`(SELECT COALESCE(SUM(b.page_count), 0) FROM completed_records cr
				JOIN books b ON cr.book_id = b.id
				WHERE strftime('%Y', cr.completion_date) = ?) AS pages_read`, *year).
			ColumnExpr(`(SELECT COUNT(*) FROM abandoned_records
				WHERE strftime('%Y', abandoned_date) = ?) AS abandoned_count`, *year).
			ColumnExpr(`(SELECT COALESCE(ROUND(AVG(JULIANDAY(completion_date) - JULIANDAY(start_date)), 1), 0)
				FROM completed_records
				WHERE start_date IS NOT NULL
				AND strftime('%Y', completion_date) = ?) AS avg_days_to_finish`, *year)
	} else {
		q = q.
			ColumnExpr("(SELECT COUNT(*) FROM completed_records) AS completed_count").
			ColumnExpr(`(SELECT COALESCE(SUM(b.page_count), 0) FROM completed_records cr
				JOIN books b ON cr.book_id = b.id) AS pages_read`).
			ColumnExpr("(SELECT COUNT(*) FROM abandoned_records) AS abandoned_count").
			ColumnExpr(`(SELECT COALESCE(ROUND(AVG(JULIANDAY(completion_date) - JULIANDAY(start_date)), 1), 0)
				FROM completed_records
				WHERE start_date IS NOT NULL) AS avg_days_to_finish`)
	}

	err := q.Scan(ctx, stats)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return stats, nil
}

// MonthlyData is one month's worth of finished books within a year.
type MonthlyData struct {
	Month          string `bun:"month" json:"month"`
	BooksCompleted int    `bun:"books_completed" json:"books_completed"`
	PagesRead      int    `bun:"pages_read" json:"pages_read"`
}

func (svc *Service) ListMonthlyData(ctx context.Context, year string) ([]*MonthlyData, error) {
	var data []*MonthlyData

	err := svc.db.
		NewSelect().
		Model((*models.CompletedRecord)(nil)).
		ColumnExpr("strftime('%m', cr.completion_date) AS month").
		ColumnExpr("COUNT(*) AS books_completed").
		ColumnExpr("COALESCE(SUM(b.page_count), 0) AS pages_read").
		Join("JOIN books b ON cr.book_id = b.id").
		Where("strftime('%Y', cr.completion_date) = ?", year).
		Group("month").
		Order("month ASC").
		Scan(ctx, &data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

type AuthorStat struct {
	Author    string `bun:"author" json:"author"`
	BookCount int    `bun:"book_count" json:"book_count"`
}

func (svc *Service) ListTopAuthors(ctx context.Context, year *string, limit int) ([]*AuthorStat, error) {
	var authors []*AuthorStat

	q := svc.db.
		NewSelect().
		Model((*models.CompletedRecord)(nil)).
		ColumnExpr("b.author AS author").
		ColumnExpr("COUNT(*) AS book_count").
		Join("JOIN books b ON cr.book_id = b.id").
		Group("b.author").
		OrderExpr("book_count DESC").
		Limit(limit)

	if year != nil {
		q = q.Where("strftime('%Y', cr.completion_date) = ?", *year)
	}

	err := q.Scan(ctx, &authors)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return authors, nil
}

type GenreStat struct {
	Genre     string `bun:"genre" json:"genre"`
	BookCount int    `bun:"book_count" json:"book_count"`
}

func (svc *Service) ListTopGenres(ctx context.Context, year *string, limit int) ([]*GenreStat, error) {
	var genres []*GenreStat

	q := svc.db.
		NewSelect().
		Model((*models.CompletedRecord)(nil)).
		ColumnExpr("b.genre AS genre").
		ColumnExpr("COUNT(*) AS book_count").
		Join("JOIN books b ON cr.book_id = b.id").
		Where("b.genre IS NOT NULL").
		Group("b.genre").
		OrderExpr("book_count DESC").
		Limit(limit)

	if year != nil {
		q = q.Where("strftime('%Y', cr.completion_date) = ?", *year)
	}

	err := q.Scan(ctx, &genres)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genres, nil
}

type RatingStat struct {
	Rating int `bun:"rating" json:"rating"`
	Count  int `bun:"count" json:"count"`
}

func (svc *Service) ListRatingDistribution(ctx context.Context, year *string) ([]*RatingStat, error) {
	var ratings []*RatingStat

	q := svc.db.
		NewSelect().
		Model((*models.CompletedRecord)(nil)).
		ColumnExpr("cr.rating AS rating").
		ColumnExpr("COUNT(*) AS count").
		Where("cr.rating IS NOT NULL").
		Group("cr.rating").
		Order("rating ASC")

	if year != nil {
		q = q.Where("strftime('%Y', cr.completion_date) = ?", *year)
	}

	err := q.Scan(ctx, &ratings)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return ratings, nil
}

// ListYears returns every year a book was completed in, newest first, for
// driving year filters.
func (svc *Service) ListYears(ctx context.Context) ([]string, error) {
	var years []string

	err := svc.db.
		NewSelect().
		Model((*models.CompletedRecord)(nil)).
		ColumnExpr("DISTINCT strftime('%Y', cr.completion_date) AS year").
		OrderExpr("year DESC").
		Scan(ctx, &years)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return years, nil
}
