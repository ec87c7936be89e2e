package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"inkwell/internal/auth"
)

// pageData assembles the common template context: page title, the current
// user and any pending flash messages, merged with page-specific values.
func pageData(c echo.Context, mgr *auth.Manager, title string, extra echo.Map) echo.Map {
	data := echo.Map{
		"Title":   title,
		"User":    auth.CurrentUser(c),
		"Flashes": mgr.ConsumeFlashes(c),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// paramID parses a positive integer path parameter. A malformed id is treated
// the same as a missing record.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return uint(id), nil
}
