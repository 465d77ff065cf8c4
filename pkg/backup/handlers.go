package backup

import (
	"net/http"

	"github.com/bookletapp/booklet/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	backupService *Service
}

func (h *handler) download(c echo.Context) error {
	ctx := c.Request().Context()

	path, filename, err := h.backupService.PrepareBackup(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Attachment(path, filename))
}

func (h *handler) restore(c echo.Context) error {
	ctx := c.Request().Context()

	payload := RestorePayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	file, ok := payload.FormFiles["file"]
	if !ok {
		return errcodes.ValidationError(`"file" is required`)
	}

	if err := h.backupService.Restore(ctx, file); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"restored": true}))
}
