package http

import (
	"errors"
	"net/http"

	"conversational-commerce/internal/conversation"
	pkgErrors "conversational-commerce/pkg/errors"
)

var errUserIDRequired = pkgErrors.NewHTTPError(http.StatusBadRequest, "user_id is required")

// mapError translates use-case errors into HTTP errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		return pkgErrors.NewHTTPError(http.StatusNotFound, "context not found")
	case errors.Is(err, conversation.ErrEmptyUserID):
		return errUserIDRequired
	case errors.Is(err, conversation.ErrPersistence):
		return pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "context storage unavailable")
	default:
		return pkgErrors.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
