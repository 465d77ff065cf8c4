package tbr

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers TBR routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		tbrService: NewService(db),
	}

	// List CRUD
	g.GET("/lists", h.listLists)
	g.POST("/lists", h.createList)
	g.GET("/lists/:id", h.retrieveList)
	g.PATCH("/lists/:id", h.updateList)
	g.DELETE("/lists/:id", h.deleteList)

	// List books
	g.GET("/lists/:id/books", h.listBooks)
	g.POST("/lists/:id/books", h.addBook)
	g.DELETE("/lists/:id/books/:bookId", h.removeBook)
	g.PATCH("/lists/:id/books/:bookId/move-up", h.moveBookUp)
	g.PATCH("/lists/:id/books/:bookId/move-down", h.moveBookDown)

	// Membership lookup
	g.GET("/books/:bookId/list", h.retrieveBookList)
}
