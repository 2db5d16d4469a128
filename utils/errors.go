package utils

import (
	"errors"
	"net/http"
)

// Error categories matched by RespondFromError. Wrap with fmt.Errorf("%w: ...")
// where the handler needs a specific status code.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// RespondFromError maps an error category to an HTTP status. Anything
// uncategorized becomes a 500 with only the error message exposed.
func RespondFromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		RespondWithError(w, http.StatusConflict, err.Error())
	default:
		RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
