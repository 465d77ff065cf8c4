package tbr

import (
	"net/http"
	"strconv"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/bookletapp/booklet/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	tbrService *Service
}

func (h *handler) listLists(c echo.Context) error {
	ctx := c.Request().Context()

	lists, err := h.tbrService.ListLists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	// Augment with book counts
	type ListWithCount struct {
		*models.TBRList
		BookCount int `json:"book_count"`
	}

	result := make([]ListWithCount, len(lists))
	for i, l := range lists {
		count, err := h.tbrService.GetListBookCount(ctx, l.ID)
		if err != nil {
			return errors.WithStack(err)
		}
		result[i] = ListWithCount{l, count}
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"lists": result}))
}

func (h *handler) createList(c echo.Context) error {
	ctx := c.Request().Context()

	payload := CreateListPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	list, err := h.tbrService.CreateList(ctx, CreateListOptions{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, list))
}

func (h *handler) retrieveList(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List")
	}

	list, err := h.tbrService.RetrieveList(ctx, RetrieveListOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, list))
}

func (h *handler) updateList(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List")
	}

	payload := UpdateListPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	list, err := h.tbrService.RetrieveList(ctx, RetrieveListOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	columns := []string{}
	if payload.Name != nil {
		list.Name = *payload.Name
		columns = append(columns, "name")
	}
	if payload.Description != nil {
		list.Description = payload.Description
		columns = append(columns, "description")
	}

	if err := h.tbrService.UpdateList(ctx, list, UpdateListOptions{Columns: columns}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, list))
}

func (h *handler) deleteList(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List")
	}

	if err := h.tbrService.DeleteList(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) listBooks(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List")
	}

	books, err := h.tbrService.ListBooks(ctx, ListBooksOptions{ListID: id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"books": books}))
}

func (h *handler) addBook(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List")
	}

	payload := AddBookPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	membership, err := h.tbrService.AddBook(ctx, AddBookOptions{
		ListID: id,
		BookID: payload.BookID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, membership))
}

func (h *handler) removeBook(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List")
	}
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.tbrService.RemoveBook(ctx, RemoveBookOptions{ListID: id, BookID: bookID}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) moveBook(c echo.Context, up bool) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List")
	}
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	opts := MoveBookOptions{ListID: id, BookID: bookID}
	if up {
		err = h.tbrService.MoveBookUp(ctx, opts)
	} else {
		err = h.tbrService.MoveBookDown(ctx, opts)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	books, err := h.tbrService.ListBooks(ctx, ListBooksOptions{ListID: id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"books": books}))
}

func (h *handler) moveBookUp(c echo.Context) error {
	return h.moveBook(c, true)
}

func (h *handler) moveBookDown(c echo.Context) error {
	return h.moveBook(c, false)
}

func (h *handler) retrieveBookList(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	membership, err := h.tbrService.RetrieveBookList(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, membership))
}
