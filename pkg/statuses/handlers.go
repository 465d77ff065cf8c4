package statuses

import (
	"net/http"
	"strconv"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	statusService *Service
}

func bookIDParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, errcodes.NotFound("Book")
	}
	return id, nil
}

func (h *handler) listTracking(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListStatusQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	records, total, err := h.statusService.ListTrackingWithTotal(ctx, ListStatusOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"reading": records,
		"total":   total,
	}))
}

func (h *handler) startTracking(c echo.Context) error {
	ctx := c.Request().Context()

	payload := StartTrackingPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.statusService.StartTracking(ctx, StartTrackingOptions{
		BookID:      payload.BookID,
		StartDate:   payload.StartDate,
		CurrentPage: payload.CurrentPage,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, record))
}

func (h *handler) updateProgress(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "bookId")
	if err != nil {
		return err
	}

	payload := UpdateProgressPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.statusService.UpdateProgress(ctx, UpdateProgressOptions{
		BookID:      bookID,
		CurrentPage: payload.CurrentPage,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, record))
}

func (h *handler) complete(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "bookId")
	if err != nil {
		return err
	}

	c.Set("disallow_empty_body", false)
	payload := CompleteBookPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.statusService.CompleteBook(ctx, CompleteBookOptions{
		BookID:         bookID,
		CompletionDate: payload.CompletionDate,
		StartDate:      payload.StartDate,
		Rating:         payload.Rating,
		Review:         payload.Review,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, record))
}

func (h *handler) abandon(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "bookId")
	if err != nil {
		return err
	}

	payload := AbandonBookPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.statusService.AbandonBook(ctx, AbandonBookOptions{
		BookID:            bookID,
		PageAtAbandonment: payload.PageAtAbandonment,
		AbandonedDate:     payload.AbandonedDate,
		StartDate:         payload.StartDate,
		Reason:            payload.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, record))
}

func (h *handler) removeTracking(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "bookId")
	if err != nil {
		return err
	}

	if err := h.statusService.RemoveTracking(ctx, bookID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) removeCompleted(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "bookId")
	if err != nil {
		return err
	}

	if err := h.statusService.RemoveCompleted(ctx, bookID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) removeAbandoned(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "bookId")
	if err != nil {
		return err
	}

	if err := h.statusService.RemoveAbandoned(ctx, bookID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) listCompleted(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListCompletedQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	records, total, err := h.statusService.ListCompletedWithTotal(ctx, ListCompletedOptions{
		Search: params.Search,
		Year:   params.Year,
		Rating: params.Rating,
		Sort:   params.Sort,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"completed": records,
		"total":     total,
	}))
}

func (h *handler) updateCompleted(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "bookId")
	if err != nil {
		return err
	}

	payload := UpdateCompletedPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.statusService.UpdateCompleted(ctx, UpdateCompletedOptions{
		BookID:         bookID,
		StartDate:      payload.StartDate,
		CompletionDate: payload.CompletionDate,
		Rating:         payload.Rating,
		Review:         payload.Review,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, record))
}

func (h *handler) updateAbandoned(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "bookId")
	if err != nil {
		return err
	}

	payload := UpdateAbandonedPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.statusService.UpdateAbandoned(ctx, UpdateAbandonedOptions{
		BookID:            bookID,
		StartDate:         payload.StartDate,
		AbandonedDate:     payload.AbandonedDate,
		PageAtAbandonment: payload.PageAtAbandonment,
		Reason:            payload.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, record))
}

func (h *handler) listAbandoned(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListStatusQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	records, total, err := h.statusService.ListAbandonedWithTotal(ctx, ListStatusOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"abandoned": records,
		"total":     total,
	}))
}

func (h *handler) retrieveStatus(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := bookIDParam(c, "id")
	if err != nil {
		return err
	}

	status, err := h.statusService.RetrieveStatus(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, status))
}
