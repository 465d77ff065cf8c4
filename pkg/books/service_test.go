package books

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/bookletapp/booklet/pkg/migrations"
	"github.com/bookletapp/booklet/pkg/models"
	"github.com/bookletapp/booklet/pkg/sortname"
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

func createTestBook(t *testing.T, db *bun.DB, title, author string) *models.Book {
	t.Helper()
	now := time.Now()
	book := &models.Book{
		CreatedAt:  now,
		UpdatedAt:  now,
		Title:      title,
		SortTitle:  sortname.ForTitle(title),
		Author:     author,
		SortAuthor: sortname.ForAuthor(author),
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

func TestService_CreateBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := "Science Fiction"
	coverURL := "https://covers.example.com/dune.jpg"
	synopsis := "A desert planet, a fallen house, and a spice that bends minds."
	seriesNumber := 1.0

	book, err := svc.CreateBook(ctx, CreateBookOptions{
		Title:        "Dune",
		Author:       "Frank Herbert",
		PageCount:    412,
		Genre:        &genre,
		CoverURL:     &coverURL,
		SeriesNumber: &seriesNumber,
		Synopsis:     &synopsis,
	})
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, 412, book.PageCount)
	assert.Equal(t, models.StatusLibrary, book.Status)
	require.NotNil(t, book.Genre)
	assert.Equal(t, genre, *book.Genre)
	require.NotNil(t, book.CoverURL)
	assert.Equal(t, coverURL, *book.CoverURL)
	require.NotNil(t, book.SeriesNumber)
	assert.Equal(t, 1.0, *book.SeriesNumber)
	require.NotNil(t, book.Synopsis)
	assert.Equal(t, synopsis, *book.Synopsis)

	t.Run("derives sort keys", func(t *testing.T) {
		book, err := svc.CreateBook(ctx, CreateBookOptions{
			Title:     "The Dispossessed",
			Author:    "Ursula K. Le Guin",
			PageCount: 387,
		})
		require.NoError(t, err)
		assert.Equal(t, "Dispossessed, The", book.SortTitle)
		assert.Equal(t, "Guin, Ursula K. Le", book.SortAuthor)
	})
}

func TestService_RetrieveBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(t, db, "Dune", "Frank Herbert")

	t.Run("retrieves with derived status", func(t *testing.T) {
		got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
		require.NoError(t, err)
		assert.Equal(t, book.ID, got.ID)
		assert.Equal(t, models.StatusLibrary, got.Status)
	})

	t.Run("status reflects the status tables", func(t *testing.T) {
		record := &models.TrackingRecord{BookID: book.ID, StartDate: "2026-08-01"}
		_, err := db.NewInsert().Model(record).Exec(ctx)
		require.NoError(t, err)

		got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
		require.NoError(t, err)
		assert.Equal(t, models.StatusTracking, got.Status)
	})

	t.Run("returns not found for missing book", func(t *testing.T) {
		id := 9999
		_, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
		assert.EqualError(t, err, "Book not found.")
	})
}

func TestService_ListBooks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createTestBook(t, db, "Dune", "Frank Herbert")
	createTestBook(t, db, "Dune Messiah", "Frank Herbert")
	createTestBook(t, db, "Hyperion", "Dan Simmons")

	t.Run("lists all books sorted by title", func(t *testing.T) {
		books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, books, 3)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("filters by author", func(t *testing.T) {
		author := "Frank Herbert"
		books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{Author: &author})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, books, 2)
	})

	t.Run("searches by title", func(t *testing.T) {
		search := "Messiah"
		books, err := svc.ListBooks(ctx, ListBooksOptions{Search: &search})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune Messiah", books[0].Title)
	})

	t.Run("filters by status", func(t *testing.T) {
		status := models.StatusLibrary
		books, err := svc.ListBooks(ctx, ListBooksOptions{Status: &status})
		require.NoError(t, err)
		assert.Len(t, books, 3)
	})

	t.Run("ignores leading articles when sorting", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, CreateBookOptions{Title: "The Hobbit", Author: "J.R.R. Tolkien"})
		require.NoError(t, err)

		books, err := svc.ListBooks(ctx, ListBooksOptions{})
		require.NoError(t, err)
		require.Len(t, books, 4)
		// "Hobbit, The" files between Dune Messiah and Hyperion.
		assert.Equal(t, "The Hobbit", books[2].Title)
	})
}

func TestService_UpdateBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(t, db, "Dune", "Frank Herbert")

	t.Run("updates only the given columns", func(t *testing.T) {
		notes := "Signed first edition."
		book.Notes = &notes
		book.Title = "should not be written"

		err := svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: []string{"notes"}})
		require.NoError(t, err)

		got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
		require.NotNil(t, got.Notes)
		assert.Equal(t, notes, *got.Notes)
	})

	t.Run("no columns is a no-op", func(t *testing.T) {
		err := svc.UpdateBook(ctx, book, UpdateBookOptions{})
		require.NoError(t, err)
	})
}

func TestService_DeleteBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(t, db, "Dune", "Frank Herbert")

	record := &models.TrackingRecord{BookID: book.ID, StartDate: "2026-08-01"}
	_, err := db.NewInsert().Model(record).Exec(ctx)
	require.NoError(t, err)

	session := &models.ReadingSession{
		BookID:      book.ID,
		SessionDate: "2026-08-01",
		StartTime:   time.Now(),
		EndTime:     time.Now(),
	}
	_, err = db.NewInsert().Model(session).Exec(ctx)
	require.NoError(t, err)

	err = svc.DeleteBook(ctx, book.ID)
	require.NoError(t, err)

	for _, model := range []interface{}{
		(*models.Book)(nil),
		(*models.TrackingRecord)(nil),
		(*models.ReadingSession)(nil),
	} {
		count, err := db.NewSelect().Model(model).Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	}

	t.Run("deleting again returns not found", func(t *testing.T) {
		err := svc.DeleteBook(ctx, book.ID)
		assert.EqualError(t, err, "Book not found.")
	})
}

func TestService_RandomPick(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("errors when the library is empty", func(t *testing.T) {
		_, err := svc.RandomPick(ctx)
		assert.EqualError(t, err, "Book not found.")
	})

	herbert := createTestBook(t, db, "Dune Messiah", "Frank Herbert")
	simmons := createTestBook(t, db, "Hyperion", "Dan Simmons")

	t.Run("picks an unread book", func(t *testing.T) {
		book, err := svc.RandomPick(ctx)
		require.NoError(t, err)
		assert.Contains(t, []int{herbert.ID, simmons.ID}, book.ID)
	})

	t.Run("avoids the author of the last completed book", func(t *testing.T) {
		finished := createTestBook(t, db, "Dune", "Frank Herbert")
		record := &models.CompletedRecord{BookID: finished.ID, CompletionDate: "2026-08-20"}
		_, err := db.NewInsert().Model(record).Exec(ctx)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			book, err := svc.RandomPick(ctx)
			require.NoError(t, err)
			assert.Equal(t, simmons.ID, book.ID)
		}
	})

	t.Run("falls back when the exclusions empty the pool", func(t *testing.T) {
		record := &models.CompletedRecord{BookID: simmons.ID, CompletionDate: "2026-08-25"}
		_, err := db.NewInsert().Model(record).Exec(ctx)
		require.NoError(t, err)

		done := createTestBook(t, db, "Children of Dune", "Frank Herbert")
		record2 := &models.CompletedRecord{BookID: done.ID, CompletionDate: "2026-08-26"}
		_, err = db.NewInsert().Model(record2).Exec(ctx)
		require.NoError(t, err)

		// The only library book left shares its author with the last
		// completed book, so the exclusion is dropped.
		book, err := svc.RandomPick(ctx)
		require.NoError(t, err)
		assert.Equal(t, herbert.ID, book.ID)
	})
}

func TestService_ListAuthors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createTestBook(t, db, "Dune", "Frank Herbert")
	createTestBook(t, db, "Dune Messiah", "Frank Herbert")
	createTestBook(t, db, "Hyperion", "Dan Simmons")

	// Ordered by surname: Herbert before Simmons.
	authors, err := svc.ListAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Frank Herbert", authors[0].Author)
	assert.Equal(t, 2, authors[0].Count)
	assert.Equal(t, "Dan Simmons", authors[1].Author)
	assert.Equal(t, 1, authors[1].Count)
}
