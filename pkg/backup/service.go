package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"time"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// sqliteHeader is the magic string at the start of every SQLite database
// file.
var sqliteHeader = []byte("SQLite format 3\x00")

type Service struct {
	db           *bun.DB
	databasePath string
}

func NewService(db *bun.DB, databasePath string) *Service {
	return &Service{db, databasePath}
}

// PrepareBackup flushes the WAL into the main database file and returns the
// path to serve along with a timestamped download name.
func (svc *Service) PrepareBackup(ctx context.Context) (path, filename string, err error) {
	_, err = svc.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	if err != nil {
		return "", "", errors.Wrap(err, "failed to checkpoint WAL")
	}

	if _, err := os.Stat(svc.databasePath); err != nil {
		return "", "", errors.WithStack(err)
	}

	filename = fmt.Sprintf("booklet-backup-%s.sqlite", time.Now().Format("20060102-150405"))
	return svc.databasePath, filename, nil
}

// Restore replaces the live database with an uploaded backup. The current
// file is kept next to the database so a bad upload can be undone by hand.
func (svc *Service) Restore(ctx context.Context, file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer src.Close()

	uploaded, err := io.ReadAll(src)
	if err != nil {
		return errors.WithStack(err)
	}

	if len(uploaded) < len(sqliteHeader) || !bytes.Equal(uploaded[:len(sqliteHeader)], sqliteHeader) {
		return errcodes.ValidationError("Uploaded file is not a SQLite database.")
	}

	// Flush and then move the WAL out of the way so the restored file is the
	// only source of truth.
	_, err = svc.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	if err != nil {
		return errors.Wrap(err, "failed to checkpoint WAL")
	}

	safetyPath := fmt.Sprintf("%s.pre-restore-%s", svc.databasePath, time.Now().Format("20060102-150405"))
	if err := copyFile(svc.databasePath, safetyPath); err != nil {
		return errors.Wrap(err, "failed to create safety copy")
	}

	if err := os.WriteFile(svc.databasePath, uploaded, 0600); err != nil {
		return errors.Wrap(err, "failed to write restored database")
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(out.Sync())
}
