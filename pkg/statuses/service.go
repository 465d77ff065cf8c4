package statuses

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

func today() string {
	return time.Now().Format(dateLayout)
}

func (svc *Service) ensureBookExists(ctx context.Context, tx bun.Tx, bookID int) error {
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
	return nil
}

type StartTrackingOptions struct {
	BookID      int
	StartDate   *string
	CurrentPage *int
}

// StartTracking moves a book into the tracking state. Any completed or
// abandoned rows for the book are cleared first so a re-read starts clean, but
// a book that is already being tracked is a conflict.
func (svc *Service) StartTracking(ctx context.Context, opts StartTrackingOptions) (*models.TrackingRecord, error) {
	now := time.Now()

	record := &models.TrackingRecord{
		CreatedAt: now,
		UpdatedAt: now,
		BookID:    opts.BookID,
		StartDate: today(),
	}
	if opts.StartDate != nil {
		record.StartDate = *opts.StartDate
	}
	if opts.CurrentPage != nil {
		record.CurrentPage = *opts.CurrentPage
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := svc.ensureBookExists(ctx, tx, opts.BookID); err != nil {
			return err
		}

		tracked, err := tx.NewSelect().
			Model((*models.TrackingRecord)(nil)).
			Where("book_id = ?", opts.BookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if tracked {
			return errcodes.Conflict("Book is already being tracked.")
		}

		for _, model := range []interface{}{
			(*models.CompletedRecord)(nil),
			(*models.AbandonedRecord)(nil),
		} {
			_, err := tx.NewDelete().
				Model(model).
				Where("book_id = ?", opts.BookID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		_, err = tx.NewInsert().
			Model(record).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

type UpdateProgressOptions struct {
	BookID      int
	CurrentPage int
}

func (svc *Service) UpdateProgress(ctx context.Context, opts UpdateProgressOptions) (*models.TrackingRecord, error) {
	record := &models.TrackingRecord{}

	err := svc.db.
		NewSelect().
		Model(record).
		Where("tr.book_id = ?", opts.BookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Tracking record")
		}
		return nil, errors.WithStack(err)
	}

	record.CurrentPage = opts.CurrentPage
	record.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(record).
		Column("current_page", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return record, nil
}

type CompleteBookOptions struct {
	BookID         int
	CompletionDate *string
	StartDate      *string
	Rating         *int
	Review         *string
}

// CompleteBook moves a book into the completed state regardless of where it
// currently sits. The start date is inherited from an active tracking record
// when one exists and none is given.
func (svc *Service) CompleteBook(ctx context.Context, opts CompleteBookOptions) (*models.CompletedRecord, error) {
	now := time.Now()

	record := &models.CompletedRecord{
		CreatedAt:      now,
		UpdatedAt:      now,
		BookID:         opts.BookID,
		CompletionDate: today(),
		Rating:         opts.Rating,
		Review:         opts.Review,
	}
	if opts.CompletionDate != nil {
		record.CompletionDate = *opts.CompletionDate
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := svc.ensureBookExists(ctx, tx, opts.BookID); err != nil {
			return err
		}

		record.StartDate = opts.StartDate
		if record.StartDate == nil {
			record.StartDate = svc.inheritedStartDate(ctx, tx, opts.BookID)
		}

		if err := svc.clearStatuses(ctx, tx, opts.BookID); err != nil {
			return err
		}

		_, err := tx.NewInsert().
			Model(record).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

type AbandonBookOptions struct {
	BookID            int
	PageAtAbandonment int
	AbandonedDate     *string
	StartDate         *string
	Reason            *string
}

// AbandonBook mirrors CompleteBook for the abandoned state, recording where
// the reader gave up.
func (svc *Service) AbandonBook(ctx context.Context, opts AbandonBookOptions) (*models.AbandonedRecord, error) {
	now := time.Now()

	record := &models.AbandonedRecord{
		CreatedAt:         now,
		UpdatedAt:         now,
		BookID:            opts.BookID,
		AbandonedDate:     today(),
		PageAtAbandonment: opts.PageAtAbandonment,
		Reason:            opts.Reason,
	}
	if opts.AbandonedDate != nil {
		record.AbandonedDate = *opts.AbandonedDate
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := svc.ensureBookExists(ctx, tx, opts.BookID); err != nil {
			return err
		}

		record.StartDate = opts.StartDate
		if record.StartDate == nil {
			record.StartDate = svc.inheritedStartDate(ctx, tx, opts.BookID)
		}

		if err := svc.clearStatuses(ctx, tx, opts.BookID); err != nil {
			return err
		}

		_, err := tx.NewInsert().
			Model(record).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// inheritedStartDate pulls the start date off an active tracking record, if
// any. A missing record just means no start date is carried over.
func (svc *Service) inheritedStartDate(ctx context.Context, tx bun.Tx, bookID int) *string {
	tracking := &models.TrackingRecord{}
	err := tx.NewSelect().
		Model(tracking).
		Where("tr.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		return nil
	}
	return &tracking.StartDate
}

func (svc *Service) clearStatuses(ctx context.Context, tx bun.Tx, bookID int) error {
	for _, model := range []interface{}{
		(*models.TrackingRecord)(nil),
		(*models.CompletedRecord)(nil),
		(*models.AbandonedRecord)(nil),
	} {
		_, err := tx.NewDelete().
			Model(model).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Each status exposes its own removal back to the library state. The delete
// is scoped to that one table and missing rows are an error, so removing a
// book through the wrong status surface can never touch another record.

func (svc *Service) RemoveTracking(ctx context.Context, bookID int) error {
	return svc.removeStatus(ctx, (*models.TrackingRecord)(nil), bookID, "Tracking record")
}

func (svc *Service) RemoveCompleted(ctx context.Context, bookID int) error {
	return svc.removeStatus(ctx, (*models.CompletedRecord)(nil), bookID, "Completed record")
}

func (svc *Service) RemoveAbandoned(ctx context.Context, bookID int) error {
	return svc.removeStatus(ctx, (*models.AbandonedRecord)(nil), bookID, "Abandoned record")
}

func (svc *Service) removeStatus(ctx context.Context, model interface{}, bookID int, name string) error {
	res, err := svc.db.
		NewDelete().
		Model(model).
		Where("book_id = ?", bookID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound(name)
	}
	return nil
}

// BookStatus is the full status picture for a single book.
type BookStatus struct {
	BookID    int                     `json:"book_id"`
	Status    string                  `json:"status"`
	Tracking  *models.TrackingRecord  `json:"tracking,omitempty"`
	Completed *models.CompletedRecord `json:"completed,omitempty"`
	Abandoned *models.AbandonedRecord `json:"abandoned,omitempty"`
}

func (svc *Service) RetrieveStatus(ctx context.Context, bookID int) (*BookStatus, error) {
	exists, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("id = ?", bookID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound("Book")
	}

	status := &BookStatus{BookID: bookID, Status: models.StatusLibrary}

	tracking := &models.TrackingRecord{}
	err = svc.db.NewSelect().Model(tracking).Where("tr.book_id = ?", bookID).Scan(ctx)
	if err == nil {
		status.Status = models.StatusTracking
		status.Tracking = tracking
		return status, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	completed := &models.CompletedRecord{}
	err = svc.db.NewSelect().
		Model(completed).
		ColumnExpr("cr.*").
		ColumnExpr(durationExpr + " AS duration_days").
		Where("cr.book_id = ?", bookID).
		Scan(ctx)
	if err == nil {
		status.Status = models.StatusCompleted
		status.Completed = completed
		return status, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	abandoned := &models.AbandonedRecord{}
	err = svc.db.NewSelect().Model(abandoned).Where("ar.book_id = ?", bookID).Scan(ctx)
	if err == nil {
		status.Status = models.StatusAbandoned
		status.Abandoned = abandoned
		return status, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	return status, nil
}

// durationExpr computes whole days between start and completion.
const durationExpr = `CAST(JULIANDAY(cr.completion_date) - JULIANDAY(cr.start_date) AS INTEGER)`

type ListStatusOptions struct {
	Limit        *int
	Offset       *int
	includeTotal bool
}

func (svc *Service) ListTracking(ctx context.Context, opts ListStatusOptions) ([]*models.TrackingRecord, error) {
	records, _, err := svc.listTrackingWithTotal(ctx, opts)
	return records, errors.WithStack(err)
}

func (svc *Service) ListTrackingWithTotal(ctx context.Context, opts ListStatusOptions) ([]*models.TrackingRecord, int, error) {
	opts.includeTotal = true
	return svc.listTrackingWithTotal(ctx, opts)
}

func (svc *Service) listTrackingWithTotal(ctx context.Context, opts ListStatusOptions) ([]*models.TrackingRecord, int, error) {
	var records []*models.TrackingRecord
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&records).
		Relation("Book").
		Order("tr.start_date DESC")

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

	return records, total, nil
}

type ListCompletedOptions struct {
	Search       *string
	Year         *string
	Rating       *int
	Sort         *string
	Limit        *int
	Offset       *int
	includeTotal bool
}

func (svc *Service) ListCompleted(ctx context.Context, opts ListCompletedOptions) ([]*models.CompletedRecord, error) {
	records, _, err := svc.listCompletedWithTotal(ctx, opts)
	return records, errors.WithStack(err)
}

func (svc *Service) ListCompletedWithTotal(ctx context.Context, opts ListCompletedOptions) ([]*models.CompletedRecord, int, error) {
	opts.includeTotal = true
	return svc.listCompletedWithTotal(ctx, opts)
}

func (svc *Service) listCompletedWithTotal(ctx context.Context, opts ListCompletedOptions) ([]*models.CompletedRecord, int, error) {
	var records []*models.CompletedRecord
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&records).
		ColumnExpr("cr.*").
		ColumnExpr(durationExpr+" AS duration_days").
		Relation("Book")

	if opts.Search != nil {
		search := "%" + *opts.Search + "%"
		q = q.Where("(book.title LIKE ? OR book.author LIKE ?)", search, search)
	}
	if opts.Year != nil {
		q = q.Where("strftime('%Y', cr.completion_date) = ?", *opts.Year)
	}
	if opts.Rating != nil {
		q = q.Where("cr.rating = ?", *opts.Rating)
	}

	// Sort values are whitelisted at the binding layer.
	switch {
	case opts.Sort != nil && *opts.Sort == "title":
		q = q.OrderExpr("book.sort_title ASC, book.title ASC")
	case opts.Sort != nil && *opts.Sort == "rating":
		q = q.OrderExpr("cr.rating DESC, cr.completion_date DESC")
	default:
		q = q.Order("cr.completion_date DESC")
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

	return records, total, nil
}

type UpdateCompletedOptions struct {
	BookID         int
	StartDate      *string
	CompletionDate *string
	Rating         *int
	Review         *string
}

// UpdateCompleted edits a finished book's record in place without changing
// its status membership.
func (svc *Service) UpdateCompleted(ctx context.Context, opts UpdateCompletedOptions) (*models.CompletedRecord, error) {
	record := &models.CompletedRecord{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(record).
			Where("cr.book_id = ?", opts.BookID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Completed record")
			}
			return errors.WithStack(err)
		}

		record.UpdatedAt = time.Now()
		columns := []string{"updated_at"}
		if opts.StartDate != nil {
			record.StartDate = opts.StartDate
			columns = append(columns, "start_date")
		}
		if opts.CompletionDate != nil {
			record.CompletionDate = *opts.CompletionDate
			columns = append(columns, "completion_date")
		}
		if opts.Rating != nil {
			record.Rating = opts.Rating
			columns = append(columns, "rating")
		}
		if opts.Review != nil {
			record.Review = opts.Review
			columns = append(columns, "review")
		}

		_, err = tx.NewUpdate().
			Model(record).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return errors.WithStack(tx.NewSelect().
			Model(record).
			ColumnExpr("cr.*").
			ColumnExpr(durationExpr + " AS duration_days").
			Where("cr.id = ?", record.ID).
			Scan(ctx))
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

type UpdateAbandonedOptions struct {
	BookID            int
	StartDate         *string
	AbandonedDate     *string
	PageAtAbandonment *int
	Reason            *string
}

func (svc *Service) UpdateAbandoned(ctx context.Context, opts UpdateAbandonedOptions) (*models.AbandonedRecord, error) {
	record := &models.AbandonedRecord{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(record).
			Where("ar.book_id = ?", opts.BookID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Abandoned record")
			}
			return errors.WithStack(err)
		}

		record.UpdatedAt = time.Now()
		columns := []string{"updated_at"}
		if opts.StartDate != nil {
			record.StartDate = opts.StartDate
			columns = append(columns, "start_date")
		}
		if opts.AbandonedDate != nil {
			record.AbandonedDate = *opts.AbandonedDate
			columns = append(columns, "abandoned_date")
		}
		if opts.PageAtAbandonment != nil {
			record.PageAtAbandonment = *opts.PageAtAbandonment
			columns = append(columns, "page_at_abandonment")
		}
		if opts.Reason != nil {
			record.Reason = opts.Reason
			columns = append(columns, "reason")
		}

		_, err = tx.NewUpdate().
			Model(record).
			Column(columns...).
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (svc *Service) ListAbandoned(ctx context.Context, opts ListStatusOptions) ([]*models.AbandonedRecord, error) {
	records, _, err := svc.listAbandonedWithTotal(ctx, opts)
	return records, errors.WithStack(err)
}

func (svc *Service) ListAbandonedWithTotal(ctx context.Context, opts ListStatusOptions) ([]*models.AbandonedRecord, int, error) {
	opts.includeTotal = true
	return svc.listAbandonedWithTotal(ctx, opts)
}

func (svc *Service) listAbandonedWithTotal(ctx context.Context, opts ListStatusOptions) ([]*models.AbandonedRecord, int, error) {
	var records []*models.AbandonedRecord
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&records).
		Relation("Book").
		Order("ar.abandoned_date DESC")

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

	return records, total, nil
}
