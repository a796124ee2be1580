package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ndanilov/inventory_api/internal/apperror"
	"github.com/ndanilov/inventory_api/internal/logging"
	"github.com/ndanilov/inventory_api/internal/transport"
)

// ErrorHandler is the single place errors become responses. Typed errors keep
// their category message; everything else is logged in full and reported to
// the client as a generic internal error.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	l := logging.FromContext(c.Request().Context())

	status := http.StatusInternalServerError
	msg := "internal server error"

	if appErr, ok := apperror.As(err); ok {
		status = appErr.Status()
		msg = appErr.Message
	} else if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		msg = fmt.Sprintf("%v", he.Message)
	}

	if status >= 500 {
		l.Error("unhandled error", "error", err)
		msg = "internal server error"
	}

	if c.Request().Method == http.MethodHead {
		if werr := c.NoContent(status); werr != nil {
			l.Error("error response write failed", "error", werr)
		}
		return
	}
	if werr := c.JSON(status, transport.Fail(msg)); werr != nil {
		l.Error("error response write failed", "error", werr)
	}
}
