package books

import (
	"net/http"
	"strconv"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListBooksOptions{
		Author: params.Author,
		Genre:  params.Genre,
		Series: params.Series,
		Status: params.Status,
		Search: params.Search,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"books": books,
		"total": total,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	payload := CreateBookPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.CreateBook(ctx, CreateBookOptions{
		Title:        payload.Title,
		Author:       payload.Author,
		PageCount:    payload.PageCount,
		CoverURL:     payload.CoverURL,
		Genre:        payload.Genre,
		Subgenre:     payload.Subgenre,
		Publisher:    payload.Publisher,
		PublishYear:  payload.PublishYear,
		Series:       payload.Series,
		SeriesNumber: payload.SeriesNumber,
		Synopsis:     payload.Synopsis,
		Notes:        payload.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	payload := UpdateBookPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	columns := []string{}
	if payload.Title != nil {
		book.Title = *payload.Title
		columns = append(columns, "title")
	}
	if payload.Author != nil {
		book.Author = *payload.Author
		columns = append(columns, "author")
	}
	if payload.Genre != nil {
		book.Genre = payload.Genre
		columns = append(columns, "genre")
	}
	if payload.Subgenre != nil {
		book.Subgenre = payload.Subgenre
		columns = append(columns, "subgenre")
	}
	if payload.PageCount != nil {
		book.PageCount = *payload.PageCount
		columns = append(columns, "page_count")
	}
	if payload.CoverURL != nil {
		book.CoverURL = payload.CoverURL
		columns = append(columns, "cover_url")
	}
	if payload.Publisher != nil {
		book.Publisher = payload.Publisher
		columns = append(columns, "publisher")
	}
	if payload.PublishYear != nil {
		book.PublishYear = payload.PublishYear
		columns = append(columns, "publish_year")
	}
	if payload.Series != nil {
		book.Series = payload.Series
		columns = append(columns, "series")
	}
	if payload.SeriesNumber != nil {
		book.SeriesNumber = payload.SeriesNumber
		columns = append(columns, "series_number")
	}
	if payload.Synopsis != nil {
		book.Synopsis = payload.Synopsis
		columns = append(columns, "synopsis")
	}
	if payload.Notes != nil {
		book.Notes = payload.Notes
		columns = append(columns, "notes")
	}

	if err := h.bookService.UpdateBook(ctx, book, UpdateBookOptions{Columns: columns}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) random(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.bookService.RandomPick(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) listAuthors(c echo.Context) error {
	ctx := c.Request().Context()

	authors, err := h.bookService.ListAuthors(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"authors": authors}))
}

func (h *handler) listByAuthor(c echo.Context) error {
	return h.listBy(c, func(name string) ListBooksOptions {
		return ListBooksOptions{Author: &name}
	})
}

func (h *handler) listGenres(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.bookService.ListGenres(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"genres": genres}))
}

func (h *handler) listByGenre(c echo.Context) error {
	return h.listBy(c, func(name string) ListBooksOptions {
		return ListBooksOptions{Genre: &name}
	})
}

func (h *handler) listSeries(c echo.Context) error {
	ctx := c.Request().Context()

	series, err := h.bookService.ListSeries(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"series": series}))
}

func (h *handler) listBySeries(c echo.Context) error {
	return h.listBy(c, func(name string) ListBooksOptions {
		return ListBooksOptions{Series: &name}
	})
}

func (h *handler) listBy(c echo.Context, mkOpts func(name string) ListBooksOptions) error {
	ctx := c.Request().Context()

	name := c.Param("name")
	if name == "" {
		return errcodes.NotFound("Book")
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, mkOpts(name))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"books": books,
		"total": total,
	}))
}
