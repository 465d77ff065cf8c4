package tbr

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

func createTestBook(t *testing.T, db *bun.DB, title string) *models.Book {
	t.Helper()
	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		Author:    "Test Author",
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

// listBookIDs returns the book IDs on a list in position order.
func listBookIDs(t *testing.T, svc *Service, listID int) []int {
	t.Helper()
	listBooks, err := svc.ListBooks(context.Background(), ListBooksOptions{ListID: listID})
	require.NoError(t, err)
	ids := make([]int, len(listBooks))
	for i, lb := range listBooks {
		ids[i] = lb.BookID
	}
	return ids
}

func TestService_CreateList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	description := "Books for the beach"
	list, err := svc.CreateList(ctx, CreateListOptions{Name: "Summer", Description: &description})
	require.NoError(t, err)
	assert.NotZero(t, list.ID)
	assert.Equal(t, "Summer", list.Name)
}

func TestService_UpdateList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, CreateListOptions{Name: "Summer"})
	require.NoError(t, err)

	list.Name = "Autumn"
	err = svc.UpdateList(ctx, list, UpdateListOptions{Columns: []string{"name"}})
	require.NoError(t, err)

	got, err := svc.RetrieveList(ctx, RetrieveListOptions{ID: &list.ID})
	require.NoError(t, err)
	assert.Equal(t, "Autumn", got.Name)
}

func TestService_AddBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	list1, err := svc.CreateList(ctx, CreateListOptions{Name: "List One"})
	require.NoError(t, err)
	list2, err := svc.CreateList(ctx, CreateListOptions{Name: "List Two"})
	require.NoError(t, err)

	book1 := createTestBook(t, db, "Dune")
	book2 := createTestBook(t, db, "Hyperion")

	t.Run("appends at the end of the list", func(t *testing.T) {
		m1, err := svc.AddBook(ctx, AddBookOptions{ListID: list1.ID, BookID: book1.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, m1.Position)

		m2, err := svc.AddBook(ctx, AddBookOptions{ListID: list1.ID, BookID: book2.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, m2.Position)
	})

	t.Run("adding to the same list is a no-op", func(t *testing.T) {
		m, err := svc.AddBook(ctx, AddBookOptions{ListID: list1.ID, BookID: book1.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, m.Position)
		assert.Equal(t, []int{book1.ID, book2.ID}, listBookIDs(t, svc, list1.ID))
	})

	t.Run("adding to another list moves the book", func(t *testing.T) {
		m, err := svc.AddBook(ctx, AddBookOptions{ListID: list2.ID, BookID: book1.ID})
		require.NoError(t, err)
		assert.Equal(t, list2.ID, m.ListID)
		assert.Equal(t, 1, m.Position)

		assert.Equal(t, []int{book2.ID}, listBookIDs(t, svc, list1.ID))
		assert.Equal(t, []int{book1.ID}, listBookIDs(t, svc, list2.ID))
	})

	t.Run("missing list or book is not found", func(t *testing.T) {
		_, err := svc.AddBook(ctx, AddBookOptions{ListID: 9999, BookID: book1.ID})
		assert.EqualError(t, err, "List not found.")

		_, err = svc.AddBook(ctx, AddBookOptions{ListID: list1.ID, BookID: 9999})
		assert.EqualError(t, err, "Book not found.")
	})
}

func TestService_MoveBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, CreateListOptions{Name: "Ordered"})
	require.NoError(t, err)

	book1 := createTestBook(t, db, "First")
	book2 := createTestBook(t, db, "Second")
	book3 := createTestBook(t, db, "Third")
	for _, b := range []*models.Book{book1, book2, book3} {
		_, err := svc.AddBook(ctx, AddBookOptions{ListID: list.ID, BookID: b.ID})
		require.NoError(t, err)
	}

	t.Run("moving up swaps with the neighbor above", func(t *testing.T) {
		err := svc.MoveBookUp(ctx, MoveBookOptions{ListID: list.ID, BookID: book3.ID})
		require.NoError(t, err)
		assert.Equal(t, []int{book1.ID, book3.ID, book2.ID}, listBookIDs(t, svc, list.ID))
	})

	t.Run("moving the top book up is a conflict", func(t *testing.T) {
		err := svc.MoveBookUp(ctx, MoveBookOptions{ListID: list.ID, BookID: book1.ID})
		assert.EqualError(t, err, "Book is already at the top of the list.")
	})

	t.Run("moving the bottom book down is a conflict", func(t *testing.T) {
		err := svc.MoveBookDown(ctx, MoveBookOptions{ListID: list.ID, BookID: book2.ID})
		assert.EqualError(t, err, "Book is already at the bottom of the list.")
	})

	t.Run("moving down swaps with the neighbor below", func(t *testing.T) {
		err := svc.MoveBookDown(ctx, MoveBookOptions{ListID: list.ID, BookID: book1.ID})
		require.NoError(t, err)
		assert.Equal(t, []int{book3.ID, book1.ID, book2.ID}, listBookIDs(t, svc, list.ID))
	})

	t.Run("book not on the list is not found", func(t *testing.T) {
		other := createTestBook(t, db, "Elsewhere")
		err := svc.MoveBookUp(ctx, MoveBookOptions{ListID: list.ID, BookID: other.ID})
		assert.EqualError(t, err, "Book not found.")
	})
}

func TestService_RemoveBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, CreateListOptions{Name: "Summer"})
	require.NoError(t, err)
	book := createTestBook(t, db, "Dune")

	_, err = svc.AddBook(ctx, AddBookOptions{ListID: list.ID, BookID: book.ID})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveBook(ctx, RemoveBookOptions{ListID: list.ID, BookID: book.ID}))
	assert.EqualError(t, svc.RemoveBook(ctx, RemoveBookOptions{ListID: list.ID, BookID: book.ID}), "Book not found.")
}

func TestService_RetrieveBookList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, CreateListOptions{Name: "Summer"})
	require.NoError(t, err)
	book := createTestBook(t, db, "Dune")

	t.Run("book on no list is not found", func(t *testing.T) {
		_, err := svc.RetrieveBookList(ctx, book.ID)
		assert.EqualError(t, err, "Book not found.")
	})

	t.Run("returns the membership with its list", func(t *testing.T) {
		_, err := svc.AddBook(ctx, AddBookOptions{ListID: list.ID, BookID: book.ID})
		require.NoError(t, err)

		membership, err := svc.RetrieveBookList(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, list.ID, membership.ListID)
		require.NotNil(t, membership.List)
		assert.Equal(t, "Summer", membership.List.Name)
	})
}

func TestService_DeleteList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, CreateListOptions{Name: "Summer"})
	require.NoError(t, err)
	book := createTestBook(t, db, "Dune")
	_, err = svc.AddBook(ctx, AddBookOptions{ListID: list.ID, BookID: book.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteList(ctx, list.ID))

	count, err := db.NewSelect().Model((*models.TBRListBook)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.EqualError(t, svc.DeleteList(ctx, list.ID), "List not found.")
}
