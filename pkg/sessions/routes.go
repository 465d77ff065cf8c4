package sessions

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers session routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		sessionService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/start", h.start)
	g.GET("/week", h.week)
	g.DELETE("/:id", h.delete)
}
