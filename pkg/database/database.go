package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/bookletapp/booklet/pkg/config"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type key int

const ctxKey key = 0

func WithLogging(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey, true)
}

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	enabled, ok := ctx.Value(ctxKey).(bool)
	if !ok || !enabled {
		return
	}

	qh.log.Debug(event.Query)
}

func New(cfg *config.Config) (*bun.DB, error) {
	// Get the underlying SQLite driver and create a connector with retry logic.
	drv := sqliteshim.Driver()
	drvCtx, ok := drv.(interface {
		OpenConnector(name string) (driver.Connector, error)
	})
	if !ok {
		return nil, errors.New("sqlite driver does not support OpenConnector")
	}
	connector, err := drvCtx.OpenConnector(cfg.DatabaseFilePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Wrap the connector with retry logic for SQLITE_BUSY errors.
	sqldb := sql.OpenDB(newRetryConnector(connector, cfg.DatabaseMaxRetries))

	db := bun.NewDB(sqldb, sqlitedialect.New())

	// print out all queries in debug mode
	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	// Retry up to a few times to ensure that the database can connect.
	for i := 0; i < cfg.DatabaseConnectRetryCount; i++ {
		_, err = db.Exec("SELECT 1")
		if err != nil {
			time.Sleep(cfg.DatabaseConnectRetryDelay)
			continue
		}
		// We've successfully connected.
		break
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// WAL mode allows concurrent reads during writes.
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}

	// busy_timeout makes SQLite wait before returning SQLITE_BUSY under
	// short-term lock contention.
	_, err = db.Exec("PRAGMA busy_timeout=?", cfg.DatabaseBusyTimeout.Milliseconds())
	if err != nil {
		return nil, errors.Wrap(err, "failed to set busy_timeout")
	}

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	if err != nil {
		return nil, errors.Wrap(err, "failed to enable foreign keys")
	}

	return db, nil
}
