package http

import (
	"errors"
	"net/http"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/internal/tracking"
	pkgErrors "conversational-commerce/pkg/errors"
)

var (
	errInvalidBody  = pkgErrors.NewHTTPError(http.StatusBadRequest, "invalid request body")
	errInvalidPrice = pkgErrors.NewHTTPError(http.StatusBadRequest, "price must be a decimal amount")
)

// mapError translates use-case errors into HTTP errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		return pkgErrors.NewHTTPError(http.StatusNotFound, "no live conversation for user")
	case errors.Is(err, conversation.ErrEmptyUserID):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "user_id is required")
	case errors.Is(err, conversation.ErrInvalidRole):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "role must be user or assistant")
	case errors.Is(err, tracking.ErrInvalidOperation):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "unknown operation")
	case errors.Is(err, tracking.ErrInvalidInput):
		return errInvalidBody
	case errors.Is(err, tracking.ErrCartCreateFailed):
		return pkgErrors.NewHTTPError(http.StatusBadGateway, "commerce backend rejected the cart")
	case errors.Is(err, conversation.ErrPersistence):
		return pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "context storage unavailable")
	default:
		return pkgErrors.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
