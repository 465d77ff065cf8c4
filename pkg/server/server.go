package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bookletapp/booklet/pkg/backup"
	"github.com/bookletapp/booklet/pkg/binder"
	"github.com/bookletapp/booklet/pkg/books"
	"github.com/bookletapp/booklet/pkg/config"
	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/bookletapp/booklet/pkg/sessions"
	"github.com/bookletapp/booklet/pkg/stats"
	"github.com/bookletapp/booklet/pkg/statuses"
	"github.com/bookletapp/booklet/pkg/tbr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	booksGroup := e.Group("/books")
	books.RegisterRoutesWithGroup(booksGroup, db)

	statuses.RegisterRoutes(e, db)

	sessionsGroup := e.Group("/sessions")
	sessions.RegisterRoutesWithGroup(sessionsGroup, db)

	tbrGroup := e.Group("/tbr")
	tbr.RegisterRoutesWithGroup(tbrGroup, db)

	statsGroup := e.Group("/stats")
	stats.RegisterRoutesWithGroup(statsGroup, db)

	backup.RegisterRoutes(e, db, cfg.DatabaseFilePath)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
