package http

import (
	"errors"
	"net/http"

	"conversational-commerce/internal/analytics"
	pkgErrors "conversational-commerce/pkg/errors"
)

var (
	errInvalidWindow = pkgErrors.NewHTTPError(http.StatusBadRequest, "invalid date range: use start_date/end_date (YYYY-MM-DD) or days (1-365)")
	errInvalidLimit  = pkgErrors.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 100")
)

// mapError translates use-case errors into HTTP errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, analytics.ErrInvalidWindow):
		return errInvalidWindow
	case errors.Is(err, analytics.ErrInvalidLimit):
		return errInvalidLimit
	default:
		return pkgErrors.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
