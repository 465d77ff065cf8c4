package statuses

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers status ledger routes. The transitions all live
// under /reading since that's where a book enters the ledger.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{
		statusService: NewService(db),
	}

	reading := e.Group("/reading")
	reading.GET("", h.listTracking)
	reading.POST("", h.startTracking)
	reading.PATCH("/:bookId/progress", h.updateProgress)
	reading.POST("/:bookId/complete", h.complete)
	reading.POST("/:bookId/abandon", h.abandon)
	reading.DELETE("/:bookId", h.removeTracking)

	completed := e.Group("/completed")
	completed.GET("", h.listCompleted)
	completed.PATCH("/:bookId", h.updateCompleted)
	completed.DELETE("/:bookId", h.removeCompleted)

	abandoned := e.Group("/abandoned")
	abandoned.GET("", h.listAbandoned)
	abandoned.PATCH("/:bookId", h.updateAbandoned)
	abandoned.DELETE("/:bookId", h.removeAbandoned)

	e.GET("/books/:id/status", h.retrieveStatus)
}
