package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrBadRequest, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w: recipe missing", ErrNotFound), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		RespondFromError(w, c.err)
		if w.Code != c.want {
			t.Errorf("RespondFromError(%v) wrote %d, want %d", c.err, w.Code, c.want)
		}
	}
}
