package backup

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the backup and restore endpoints.
func RegisterRoutes(e *echo.Echo, db *bun.DB, databasePath string) {
	h := &handler{
		backupService: NewService(db, databasePath),
	}

	e.GET("/backup", h.download)
	e.POST("/restore", h.restore)
}
