package backup

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bookletapp/booklet/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestService(t *testing.T) (*Service, string) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "booklet.sqlite")

	sqldb, err := sql.Open(sqliteshim.ShimName, databasePath)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return NewService(db, databasePath), databasePath
}

func uploadedFile(t *testing.T, name string, contents []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(contents)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() {
		form.RemoveAll()
	})

	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func TestService_PrepareBackup(t *testing.T) {
	svc, databasePath := setupTestService(t)

	path, filename, err := svc.PrepareBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, databasePath, path)
	assert.True(t, strings.HasPrefix(filename, "booklet-backup-"))
	assert.True(t, strings.HasSuffix(filename, ".sqlite"))
}

func TestService_Restore(t *testing.T) {
	t.Run("rejects a file that is not a SQLite database", func(t *testing.T) {
		svc, databasePath := setupTestService(t)

		before, err := os.ReadFile(databasePath)
		require.NoError(t, err)

		file := uploadedFile(t, "notes.txt", []byte("definitely not a database"))
		err = svc.Restore(context.Background(), file)
		require.EqualError(t, err, "Uploaded file is not a SQLite database.")

		// The live database must be untouched.
		after, err := os.ReadFile(databasePath)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("replaces the database and keeps a safety copy", func(t *testing.T) {
		svc, databasePath := setupTestService(t)

		backup, err := os.ReadFile(databasePath)
		require.NoError(t, err)

		file := uploadedFile(t, "booklet-backup.sqlite", backup)
		err = svc.Restore(context.Background(), file)
		require.NoError(t, err)

		restored, err := os.ReadFile(databasePath)
		require.NoError(t, err)
		assert.Equal(t, backup, restored)

		matches, err := filepath.Glob(databasePath + ".pre-restore-*")
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})
}
