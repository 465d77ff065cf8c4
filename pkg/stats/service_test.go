package stats

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/bookletapp/booklet/pkg/migrations"
	"github.com/bookletapp/booklet/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

type testBookOptions struct {
	title  string
	author string
	genre  *string
	pages  int
}

func createTestBook(t *testing.T, db *bun.DB, opts testBookOptions) *models.Book {
	t.Helper()
	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     opts.title,
		Author:    opts.author,
		Genre:     opts.genre,
		PageCount: opts.pages,
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

func completeBook(t *testing.T, db *bun.DB, bookID int, startDate *string, completionDate string) {
	t.Helper()
	completeBookRated(t, db, bookID, startDate, completionDate, nil)
}

func completeBookRated(t *testing.T, db *bun.DB, bookID int, startDate *string, completionDate string, rating *int) {
	t.Helper()
	record := &models.CompletedRecord{
		BookID:         bookID,
		StartDate:      startDate,
		CompletionDate: completionDate,
		Rating:         rating,
	}
	_, err := db.NewInsert().Model(record).Exec(context.Background())
	require.NoError(t, err)
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestService_RetrieveDashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createTestBook(t, db, testBookOptions{title: "Library Book", author: "A"})
	tracked := createTestBook(t, db, testBookOptions{title: "Tracked Book", author: "B"})
	finished := createTestBook(t, db, testBookOptions{title: "Finished Book", author: "C"})

	tracking := &models.TrackingRecord{BookID: tracked.ID, StartDate: "2026-08-01"}
	_, err := db.NewInsert().Model(tracking).Exec(ctx)
	require.NoError(t, err)
	completeBook(t, db, finished.ID, nil, "2026-08-20")

	dashboard, err := svc.RetrieveDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dashboard.TotalBooks)
	assert.Equal(t, 1, dashboard.LibraryCount)
	assert.Equal(t, 1, dashboard.TrackingCount)
	assert.Equal(t, 1, dashboard.CompletedCount)
	assert.Zero(t, dashboard.AbandonedCount)
	require.NotNil(t, dashboard.LastCompleted)
	assert.Equal(t, finished.ID, dashboard.LastCompleted.ID)
}

func TestService_RetrieveYearStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	b1 := createTestBook(t, db, testBookOptions{title: "One", author: "A", pages: 300})
	b2 := createTestBook(t, db, testBookOptions{title: "Two", author: "B", pages: 200})
	b3 := createTestBook(t, db, testBookOptions{title: "Old", author: "C", pages: 500})

	completeBook(t, db, b1.ID, strptr("2026-01-01"), "2026-01-11")
	completeBook(t, db, b2.ID, nil, "2026-02-01")
	completeBook(t, db, b3.ID, strptr("2025-05-01"), "2025-05-21")

	abandoned := &models.AbandonedRecord{BookID: b1.ID, AbandonedDate: "2025-03-01"}
	_, err := db.NewInsert().Model(abandoned).Exec(ctx)
	require.NoError(t, err)

	t.Run("scoped to a year", func(t *testing.T) {
		year := "2026"
		stats, err := svc.RetrieveYearStats(ctx, &year)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.CompletedCount)
		assert.Equal(t, 500, stats.PagesRead)
		assert.Zero(t, stats.AbandonedCount)
		assert.InDelta(t, 10.0, stats.AvgDaysToFinish, 0.001)
	})

	t.Run("all time", func(t *testing.T) {
		stats, err := svc.RetrieveYearStats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.CompletedCount)
		assert.Equal(t, 1000, stats.PagesRead)
		assert.Equal(t, 1, stats.AbandonedCount)
		assert.InDelta(t, 15.0, stats.AvgDaysToFinish, 0.001)
	})
}

func TestService_ListMonthlyData(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	b1 := createTestBook(t, db, testBookOptions{title: "One", author: "A", pages: 300})
	b2 := createTestBook(t, db, testBookOptions{title: "Two", author: "B", pages: 200})
	b3 := createTestBook(t, db, testBookOptions{title: "Three", author: "C", pages: 100})

	completeBook(t, db, b1.ID, nil, "2026-01-11")
	completeBook(t, db, b2.ID, nil, "2026-01-25")
	completeBook(t, db, b3.ID, nil, "2026-03-02")

	data, err := svc.ListMonthlyData(ctx, "2026")
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, "01", data[0].Month)
	assert.Equal(t, 2, data[0].BooksCompleted)
	assert.Equal(t, 500, data[0].PagesRead)
	assert.Equal(t, "03", data[1].Month)
	assert.Equal(t, 1, data[1].BooksCompleted)
}

func TestService_ListTopAuthors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	b1 := createTestBook(t, db, testBookOptions{title: "One", author: "Frank Herbert"})
	b2 := createTestBook(t, db, testBookOptions{title: "Two", author: "Frank Herbert"})
	b3 := createTestBook(t, db, testBookOptions{title: "Three", author: "Dan Simmons"})

	completeBook(t, db, b1.ID, nil, "2026-01-11")
	completeBook(t, db, b2.ID, nil, "2026-02-11")
	completeBook(t, db, b3.ID, nil, "2026-03-11")

	authors, err := svc.ListTopAuthors(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Frank Herbert", authors[0].Author)
	assert.Equal(t, 2, authors[0].BookCount)

	authors, err = svc.ListTopAuthors(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, authors, 1)
}

func TestService_ListRatingDistribution(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	b1 := createTestBook(t, db, testBookOptions{title: "One", author: "A"})
	b2 := createTestBook(t, db, testBookOptions{title: "Two", author: "B"})
	b3 := createTestBook(t, db, testBookOptions{title: "Three", author: "C"})
	unrated := createTestBook(t, db, testBookOptions{title: "Four", author: "D"})

	completeBookRated(t, db, b1.ID, nil, "2026-01-11", intptr(5))
	completeBookRated(t, db, b2.ID, nil, "2026-02-11", intptr(5))
	completeBookRated(t, db, b3.ID, nil, "2026-03-11", intptr(3))
	completeBook(t, db, unrated.ID, nil, "2026-04-11")

	ratings, err := svc.ListRatingDistribution(ctx, nil)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, 3, ratings[0].Rating)
	assert.Equal(t, 1, ratings[0].Count)
	assert.Equal(t, 5, ratings[1].Rating)
	assert.Equal(t, 2, ratings[1].Count)
}

func TestService_ListYears(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	b1 := createTestBook(t, db, testBookOptions{title: "One", author: "A"})
	b2 := createTestBook(t, db, testBookOptions{title: "Two", author: "B"})

	completeBook(t, db, b1.ID, nil, "2025-05-21")
	completeBook(t, db, b2.ID, nil, "2026-01-11")

	years, err := svc.ListYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026", "2025"}, years)
}
