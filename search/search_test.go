package search

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecipesRequiresQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/search/recipes", nil)
	w := httptest.NewRecorder()

	Recipes(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", w.Code)
	}
}

func TestRecipesRelaysProviderJSON(t *testing.T) {
	const payload = `{"results":[{"id":716429,"title":"Pasta"}],"totalResults":1}`

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "pasta" {
			t.Errorf("provider got query %q, want pasta", got)
		}
		if got := r.URL.Query().Get("number"); got != "10" {
			t.Errorf("provider got number %q, want 10", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
	defer provider.Close()

	oldBase := spoonacularBase
	spoonacularBase = provider.URL
	defer func() { spoonacularBase = oldBase }()

	r := httptest.NewRequest("GET", "/api/v1/search/recipes?query=pasta", nil)
	w := httptest.NewRecorder()
	Recipes(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if string(body) != payload {
		t.Errorf("got body %s, want provider payload unchanged", body)
	}
}

func TestRecipesProviderFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer provider.Close()

	oldBase := spoonacularBase
	spoonacularBase = provider.URL
	defer func() { spoonacularBase = oldBase }()

	r := httptest.NewRequest("GET", "/api/v1/search/recipes?query=pasta", nil)
	w := httptest.NewRecorder()
	Recipes(w, r, nil)

	if w.Code != http.StatusBadGateway {
		t.Errorf("got status %d, want 502", w.Code)
	}
}

func TestRecipesProviderUnreachable(t *testing.T) {
	oldBase := spoonacularBase
	spoonacularBase = "http://127.0.0.1:1"
	defer func() { spoonacularBase = oldBase }()

	r := httptest.NewRequest("GET", "/api/v1/search/recipes?query=pasta", nil)
	w := httptest.NewRecorder()
	Recipes(w, r, nil)

	if w.Code != http.StatusBadGateway {
		t.Errorf("got status %d, want 502", w.Code)
	}
}
