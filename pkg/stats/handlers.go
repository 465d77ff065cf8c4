package stats

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	statsService *Service
}

func (h *handler) dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	dashboard, err := h.statsService.RetrieveDashboard(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, dashboard))
}

func (h *handler) year(c echo.Context) error {
	ctx := c.Request().Context()

	params := YearQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	stats, err := h.statsService.RetrieveYearStats(ctx, params.Year)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, stats))
}

func (h *handler) monthly(c echo.Context) error {
	ctx := c.Request().Context()

	params := MonthlyQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	data, err := h.statsService.ListMonthlyData(ctx, params.Year)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"months": data}))
}

func (h *handler) authors(c echo.Context) error {
	ctx := c.Request().Context()

	params := TopQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	authors, err := h.statsService.ListTopAuthors(ctx, params.Year, params.Limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"authors": authors}))
}

func (h *handler) genres(c echo.Context) error {
	ctx := c.Request().Context()

	params := TopQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	genres, err := h.statsService.ListTopGenres(ctx, params.Year, params.Limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"genres": genres}))
}

func (h *handler) ratings(c echo.Context) error {
	ctx := c.Request().Context()

	params := YearQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	ratings, err := h.statsService.ListRatingDistribution(ctx, params.Year)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"ratings": ratings}))
}

func (h *handler) years(c echo.Context) error {
	ctx := c.Request().Context()

	years, err := h.statsService.ListYears(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"years": years}))
}
