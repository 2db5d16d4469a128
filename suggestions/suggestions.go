package suggestions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"tarifplus/db"
	"tarifplus/models"
	"tarifplus/utils"
)

var openRouterBase = "https://openrouter.ai/api/v1"

const aiModel = "deepseek/deepseek-chat-v3-0324:free"

var aiClient = &http.Client{Timeout: 20 * time.Second}

const maxDBSuggestions = 50

type searchRequest struct {
	Ingredients []string `json:"ingredients"`
}

// IngredientSearch suggests recipes for a list of ingredients: matching
// recipes from the database plus model-generated ideas. The AI call is best
// effort and a failure degrades the response to database results only.
func IngredientSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Ingredients) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "ingredients list required")
		return
	}

	dbRecipes := matchFromDB(req.Ingredients)

	aiRecipes, err := askAI(req.Ingredients)
	if err != nil {
		log.Printf("ai suggestion failed: %v", err)
		aiRecipes = nil
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"dbRecipes": dbRecipes,
		"aiRecipes": aiRecipes,
	})
}

// matchFromDB keeps recipes whose ingredient list or title mentions any of
// the wanted ingredients, most popular first.
func matchFromDB(wanted []string) []models.Recipe {
	var all []models.Recipe
	if err := db.PG.Order("popularity_score DESC").Find(&all).Error; err != nil {
		log.Printf("suggestion query failed: %v", err)
		return []models.Recipe{}
	}

	lowered := make([]string, 0, len(wanted))
	for _, ing := range wanted {
		if trimmed := strings.ToLower(strings.TrimSpace(ing)); trimmed != "" {
			lowered = append(lowered, trimmed)
		}
	}

	matched := make([]models.Recipe, 0)
	for _, recipe := range all {
		if matchesAny(recipe, lowered) {
			matched = append(matched, recipe)
			if len(matched) == maxDBSuggestions {
				break
			}
		}
	}
	return matched
}

func matchesAny(recipe models.Recipe, wanted []string) bool {
	title := strings.ToLower(recipe.Title)
	for _, ing := range wanted {
		if strings.Contains(title, ing) {
			return true
		}
		for _, have := range recipe.Ingredients {
			if strings.Contains(strings.ToLower(have), ing) {
				return true
			}
		}
	}
	return false
}

func askAI(ingredients []string) ([]AIRecipe, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}

	prompt := fmt.Sprintf(
		"Elimde şu malzemeler var: %s. Bu malzemelerle yapılabilecek 3 yemek tarifi öner. "+
			"Cevabı şu JSON formatında ver: [{\"title\": \"...\", \"ingredients\": \"...\", \"steps\": \"...\"}]",
		strings.Join(ingredients, ", "),
	)

	body, err := json.Marshal(utils.M{
		"model": aiModel,
		"messages": []utils.M{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, openRouterBase+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := aiClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openrouter returned %d: %s", resp.StatusCode, raw)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}
	return ParseAIRecipes(completion.Choices[0].Message.Content), nil
}
