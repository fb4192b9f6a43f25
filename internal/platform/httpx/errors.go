package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/gevapp/gevapp/internal/shared"
)

// RespondError maps domain errors to HTTP statuses. Failures always carry a
// non-2xx status; unexpected errors hide their detail behind a generic message.
func RespondError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrValidation), errors.As(err, &verrs):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrDuplicateEmail):
		Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrInsufficientStock):
		Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, shared.ErrInvalidOrExpiredToken):
		Fail(w, http.StatusUnauthorized, err.Error())
	default:
		Fail(w, http.StatusInternalServerError, "internal server error")
	}
}
