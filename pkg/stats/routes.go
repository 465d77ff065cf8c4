package stats

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers stats routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		statsService: NewService(db),
	}

	g.GET("/dashboard", h.dashboard)
	g.GET("/year", h.year)
	g.GET("/monthly", h.monthly)
	g.GET("/authors", h.authors)
	g.GET("/genres", h.genres)
	g.GET("/ratings", h.ratings)
	g.GET("/years", h.years)
}
