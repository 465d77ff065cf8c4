package errcodes

import (
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

// Handler turns errors bubbling out of route handlers into the JSON error
// envelope clients see. Anything that isn't an *Error or an echo.HTTPError
// is treated as an internal server error.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	httpCode, payload := h.payloadFor(err)

	if httpCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if err := c.JSON(httpCode, payload); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
	}
}

func (h *Handler) payloadFor(err error) (int, map[string]interface{}) {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	// Errors raised by echo itself, like 404s from the router.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		httpCode = he.Code
		msg = he.Message.(string)
		code = strcase.ToSnake(msg)
	}

	var e *Error
	if errors.As(err, &e) {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	// Everything else is opaque to the client.
	if httpCode == http.StatusInternalServerError && msg == "" {
		code = "internal_server_error"
		msg = "Internal Server Error"
	}

	return httpCode, map[string]interface{}{
		"error": map[string]interface{}{
			"code":        code,
			"message":     msg,
			"status_code": httpCode,
		},
	}
}
