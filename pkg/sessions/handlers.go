package sessions

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	sessionService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSessionsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sessions, total, err := h.sessionService.ListSessionsWithTotal(ctx, ListSessionsOptions{
		BookID: params.BookID,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"sessions": sessions,
		"total":    total,
	}))
}

func (h *handler) start(c echo.Context) error {
	ctx := c.Request().Context()

	payload := StartSessionPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.sessionService.StartSession(ctx, payload.BookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"tracking":   record,
		"start_time": time.Now(),
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	payload := LogSessionPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	session, err := h.sessionService.LogSession(ctx, LogSessionOptions{
		BookID:    payload.BookID,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		StartPage: payload.StartPage,
		EndPage:   payload.EndPage,
		Notes:     payload.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, session))
}

func (h *handler) week(c echo.Context) error {
	ctx := c.Request().Context()

	params := WeekSummaryQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	day := time.Now()
	if params.Date != nil {
		parsed, err := time.Parse(dateLayout, *params.Date)
		if err != nil {
			return errcodes.ValidationError(`"date" should be in the format of YYYY-MM-DD`)
		}
		day = parsed
	}

	summary, err := h.sessionService.RetrieveWeekSummary(ctx, day)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, summary))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Session")
	}

	if err := h.sessionService.DeleteSession(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
