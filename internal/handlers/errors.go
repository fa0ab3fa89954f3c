package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every failed request as {"error": "..."}. Errors that
// are not echo.HTTPErrors are logged and reported as a bare 500.
func ErrorHandler(logger echo.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		} else {
			logger.Errorf("%s %s [%s]: %v",
				c.Request().Method,
				c.Request().URL.Path,
				c.Response().Header().Get(echo.HeaderXRequestID),
				err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, &errorResponse{message})
		}
		if err != nil {
			logger.Errorf("writing error response: %v", err)
		}
	}
}
