package errcodes

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_PayloadFor(t *testing.T) {
	h := NewHandler()

	t.Run("custom errors keep their code and message", func(t *testing.T) {
		httpCode, payload := h.payloadFor(NotFound("Book"))
		assert.Equal(t, http.StatusNotFound, httpCode)

		body, ok := payload["error"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "not_found", body["code"])
		assert.Equal(t, "Book not found.", body["message"])
		assert.Equal(t, http.StatusNotFound, body["status_code"])
	})

	t.Run("echo errors get a snake case code", func(t *testing.T) {
		httpCode, payload := h.payloadFor(echo.NewHTTPError(http.StatusNotFound, "Not Found"))
		assert.Equal(t, http.StatusNotFound, httpCode)

		body := payload["error"].(map[string]interface{})
		assert.Equal(t, "not_found", body["code"])
	})

	t.Run("unknown errors are opaque", func(t *testing.T) {
		httpCode, payload := h.payloadFor(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, httpCode)

		body := payload["error"].(map[string]interface{})
		assert.Equal(t, "internal_server_error", body["code"])
		assert.Equal(t, "Internal Server Error", body["message"])
	})
}
