package books

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		bookService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/random", h.random)

	// Catalog browse endpoints
	g.GET("/authors", h.listAuthors)
	g.GET("/authors/:name", h.listByAuthor)
	g.GET("/genres", h.listGenres)
	g.GET("/genres/:name", h.listByGenre)
	g.GET("/series", h.listSeries)
	g.GET("/series/:name", h.listBySeries)

	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}
