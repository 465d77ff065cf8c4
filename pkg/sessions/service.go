package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/bookletapp/booklet/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const dateLayout = "2006-01-02"

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// StartSession validates that a book is being tracked before the reading
// timer starts. Nothing is persisted until the session is logged.
func (svc *Service) StartSession(ctx context.Context, bookID int) (*models.TrackingRecord, error) {
	record := &models.TrackingRecord{}

	err := svc.db.
		NewSelect().
		Model(record).
		Relation("Book").
		Where("tr.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Tracking record")
		}
		return nil, errors.WithStack(err)
	}

	return record, nil
}

type LogSessionOptions struct {
	BookID    int
	StartTime time.Time
	EndTime   time.Time
	StartPage int
	EndPage   int
	Notes     *string
}

// LogSession saves a finished reading session. Pages read and duration are
// derived rather than trusted from the client, and the session date comes
// from the start time. If the book is still being tracked, its progress is
// advanced to the session's end page.
func (svc *Service) LogSession(ctx context.Context, opts LogSessionOptions) (*models.ReadingSession, error) {
	now := time.Now()

	session := &models.ReadingSession{
		CreatedAt:       now,
		UpdatedAt:       now,
		BookID:          opts.BookID,
		SessionDate:     opts.StartTime.Format(dateLayout),
		StartTime:       opts.StartTime,
		EndTime:         opts.EndTime,
		StartPage:       opts.StartPage,
		EndPage:         opts.EndPage,
		PagesRead:       opts.EndPage - opts.StartPage,
		DurationSeconds: int(opts.EndTime.Sub(opts.StartTime).Seconds()),
		Notes:           opts.Notes,
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("id = ?", opts.BookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Book")
		}

		_, err = tx.NewInsert().
			Model(session).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewUpdate().
			Model((*models.TrackingRecord)(nil)).
			Set("current_page = ?", opts.EndPage).
			Set("updated_at = ?", now).
			Where("book_id = ?", opts.BookID).
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

type ListSessionsOptions struct {
	BookID       *int
	Limit        *int
	Offset       *int
	includeTotal bool
}

func (svc *Service) ListSessions(ctx context.Context, opts ListSessionsOptions) ([]*models.ReadingSession, error) {
	sessions, _, err := svc.listSessionsWithTotal(ctx, opts)
	return sessions, errors.WithStack(err)
}

func (svc *Service) ListSessionsWithTotal(ctx context.Context, opts ListSessionsOptions) ([]*models.ReadingSession, int, error) {
	opts.includeTotal = true
	return svc.listSessionsWithTotal(ctx, opts)
}

func (svc *Service) listSessionsWithTotal(ctx context.Context, opts ListSessionsOptions) ([]*models.ReadingSession, int, error) {
	var sessions []*models.ReadingSession
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&sessions).
		Relation("Book").
		Order("rs.session_date DESC", "rs.start_time DESC")

	if opts.BookID != nil {
		q = q.Where("rs.book_id = ?", *opts.BookID)
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

	return sessions, total, nil
}

func (svc *Service) DeleteSession(ctx context.Context, sessionID int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.ReadingSession)(nil)).
		Where("id = ?", sessionID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Session")
	}
	return nil
}

// WeekSummary aggregates one Sunday-to-Saturday week of reading and compares
// it to the week before.
type WeekSummary struct {
	WeekStart    string                   `json:"week_start"`
	WeekEnd      string                   `json:"week_end"`
	TotalPages   int                      `json:"total_pages"`
	TotalMinutes int                      `json:"total_minutes"`
	ReadingDays  int                      `json:"reading_days"`
	PagesPerHour float64                  `json:"pages_per_hour"`
	Sessions     []*models.ReadingSession `json:"sessions"`

	PagesDelta       int `json:"pages_delta"`
	MinutesDelta     int `json:"minutes_delta"`
	ReadingDaysDelta int `json:"reading_days_delta"`
}

type weekTotals struct {
	TotalPages   int `bun:"total_pages"`
	TotalSeconds int `bun:"total_seconds"`
	ReadingDays  int `bun:"reading_days"`
}

// weekStart returns the Sunday on or before the given day.
func weekStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func (svc *Service) RetrieveWeekSummary(ctx context.Context, day time.Time) (*WeekSummary, error) {
	start := weekStart(day)
	end := start.AddDate(0, 0, 6)
	prevStart := start.AddDate(0, 0, -7)
	prevEnd := start.AddDate(0, 0, -1)

	current, err := svc.weekTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	previous, err := svc.weekTotals(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	var sessions []*models.ReadingSession
	err = svc.db.
		NewSelect().
		Model(&sessions).
		Relation("Book").
		Where("rs.session_date BETWEEN ? AND ?", start.Format(dateLayout), end.Format(dateLayout)).
		Order("rs.session_date ASC", "rs.start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	summary := &WeekSummary{
		WeekStart:        start.Format(dateLayout),
		WeekEnd:          end.Format(dateLayout),
		TotalPages:       current.TotalPages,
		TotalMinutes:     current.TotalSeconds / 60,
		ReadingDays:      current.ReadingDays,
		Sessions:         sessions,
		PagesDelta:       current.TotalPages - previous.TotalPages,
		MinutesDelta:     (current.TotalSeconds - previous.TotalSeconds) / 60,
		ReadingDaysDelta: current.ReadingDays - previous.ReadingDays,
	}
	if current.TotalSeconds > 0 {
		summary.PagesPerHour = float64(current.TotalPages) / (float64(current.TotalSeconds) / 3600)
	}

	return summary, nil
}

func (svc *Service) weekTotals(ctx context.Context, start, end time.Time) (*weekTotals, error) {
	totals := &weekTotals{}

	err := svc.db.
		NewSelect().
		Model((*models.ReadingSession)(nil)).
		ColumnExpr("COALESCE(SUM(pages_read), 0) AS total_pages").
		ColumnExpr("COALESCE(SUM(duration_seconds), 0) AS total_seconds").
		ColumnExpr("COUNT(DISTINCT session_date) AS reading_days").
		Where("session_date BETWEEN ? AND ?", start.Format(dateLayout), end.Format(dateLayout)).
		Scan(ctx, totals)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return totals, nil
}
