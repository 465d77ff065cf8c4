package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				sort_title TEXT NOT NULL DEFAULT '',
				author TEXT NOT NULL,
				sort_author TEXT NOT NULL DEFAULT '',
				page_count INTEGER NOT NULL,
				cover_url TEXT,
				genre TEXT,
				subgenre TEXT,
				publisher TEXT,
				publish_year INTEGER,
				series TEXT,
				series_number REAL,
				synopsis TEXT,
				notes TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_books_author ON books (author)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_books_sort_title ON books (sort_title)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_books_genre ON books (genre)`)
		if err != nil {
			return errors.WithStack(err)
		}

		// One row per book in each status table. The UNIQUE constraints back
		// the mutual exclusivity that the status services enforce in
		// transactions.
		_, err = db.Exec(`
			CREATE TABLE tracking_records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				start_date TEXT NOT NULL,
				current_page INTEGER NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_tracking_records_book_id ON tracking_records (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE completed_records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				start_date TEXT,
				completion_date TEXT NOT NULL,
				rating INTEGER,
				review TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_completed_records_book_id ON completed_records (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE abandoned_records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				start_date TEXT,
				abandoned_date TEXT NOT NULL,
				page_at_abandonment INTEGER NOT NULL DEFAULT 0,
				reason TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_abandoned_records_book_id ON abandoned_records (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE reading_sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				session_date TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ NOT NULL,
				start_page INTEGER NOT NULL,
				end_page INTEGER NOT NULL,
				pages_read INTEGER NOT NULL,
				duration_seconds INTEGER NOT NULL,
				notes TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_reading_sessions_book_id ON reading_sessions (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_reading_sessions_session_date ON reading_sessions (session_date)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE tbr_lists (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				description TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_tbr_lists_name ON tbr_lists (name COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}

		// A book can be on at most one TBR list at a time, so book_id is
		// unique on its own.
		_, err = db.Exec(`
			CREATE TABLE tbr_list_books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				list_id INTEGER REFERENCES tbr_lists (id) ON DELETE CASCADE NOT NULL,
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				added_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				position INTEGER NOT NULL
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_tbr_list_books_book_id ON tbr_list_books (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_tbr_list_books_list_id ON tbr_list_books (list_id)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{
			"tbr_list_books",
			"tbr_lists",
			"reading_sessions",
			"abandoned_records",
			"completed_records",
			"tracking_records",
			"books",
		} {
			_, err := db.Exec("DROP TABLE IF EXISTS " + table)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
