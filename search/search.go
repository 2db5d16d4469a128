package search

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"tarifplus/utils"

	"github.com/julienschmidt/httprouter"
)

// Overridable in tests.
var spoonacularBase = "https://api.spoonacular.com"

var client = &http.Client{Timeout: 10 * time.Second}

// Recipes proxies Spoonacular's complexSearch and relays the JSON as-is.
func Recipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("query")
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	apiKey := os.Getenv("SPOONACULAR_API_KEY")
	searchURL := fmt.Sprintf("%s/recipes/complexSearch?query=%s&number=10&apiKey=%s",
		spoonacularBase, url.QueryEscape(query), url.QueryEscape(apiKey))

	resp, err := client.Get(searchURL)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Search provider unreachable")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.RespondWithError(w, http.StatusBadGateway, fmt.Sprintf("Search provider returned %d", resp.StatusCode))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	io.Copy(w, resp.Body)
}
