package httpapi

import (
	"errors"
	"net/http"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/service"
)

// statusFor maps command and query errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTabNotFound),
		errors.Is(err, service.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTabNotOpened),
		errors.Is(err, domain.ErrTabIsOpen),
		errors.Is(err, domain.ErrTabClosed),
		errors.Is(err, service.ErrRetriesExhausted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFoodNotOutstanding),
		errors.Is(err, domain.ErrDrinkNotOutstanding),
		errors.Is(err, domain.ErrFoodNotPrepared),
		errors.Is(err, domain.ErrMustPayEnough):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}
