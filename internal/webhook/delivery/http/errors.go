package http

import (
	"errors"
	"net/http"

	"conversational-commerce/internal/webhook"
	pkgErrors "conversational-commerce/pkg/errors"
)

// mapError translates gate and parse errors into HTTP errors and a metrics outcome label.
func (h *handler) mapError(err error) (*pkgErrors.HTTPError, string) {
	switch {
	case errors.Is(err, webhook.ErrUnauthenticated):
		return pkgErrors.NewHTTPError(http.StatusUnauthorized, "Unauthenticated"), "unauthenticated"
	case errors.Is(err, webhook.ErrIPNotAllowed):
		return pkgErrors.NewHTTPError(http.StatusForbidden, "IP not allowed"), "forbidden"
	case errors.Is(err, webhook.ErrRateLimited):
		return pkgErrors.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), "rate_limited"
	case errors.Is(err, webhook.ErrMalformed):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "Malformed"), "malformed"
	default:
		return pkgErrors.NewHTTPError(http.StatusInternalServerError, "failed to record notification"), "error"
	}
}
