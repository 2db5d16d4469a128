package suggestions

import (
	"encoding/json"
	"strings"
)

// AIRecipe is one model-generated suggestion.
type AIRecipe struct {
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
}

// ParseAIRecipes extracts suggestions from a completion. The model is asked
// for a JSON array but frequently answers in prose, so a line-oriented
// fallback parser handles the rest.
func ParseAIRecipes(content string) []AIRecipe {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var recipes []AIRecipe
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &recipes); err == nil {
		return recipes
	}
	return parseLoose(content)
}

// parseLoose walks a prose answer section by section, switching between
// ingredient and step collection on the usual Turkish headings.
func parseLoose(response string) []AIRecipe {
	response = strings.NewReplacer("**", "", "###", "", "#", "").Replace(response)
	response = strings.ReplaceAll(response, "\r\n", "\n")

	var recipes []AIRecipe
	for _, section := range strings.Split(response, "\n\n") {
		if strings.TrimSpace(section) == "" {
			continue
		}
		lines := nonEmptyLines(section)
		if len(lines) < 3 {
			continue
		}

		var recipe AIRecipe
		var ingredients, steps []string
		part := ""

		for _, line := range lines {
			lower := strings.ToLower(line)
			switch {
			case recipe.Title == "" && strings.Contains(line, ":") && !strings.Contains(line, "."):
				recipe.Title = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
			case strings.Contains(lower, "malzeme") || strings.Contains(lower, "içindekiler"):
				part = "ingredients"
			case strings.Contains(lower, "yapılış") || strings.Contains(lower, "hazırlanış") || strings.Contains(lower, "adım"):
				part = "steps"
			case part == "ingredients":
				ingredients = append(ingredients, line)
			case part == "steps":
				steps = append(steps, line)
			}
		}

		if recipe.Title == "" {
			recipe.Title = lines[0]
		}
		recipe.Ingredients = strings.Join(ingredients, "\n")
		recipe.Steps = strings.Join(steps, "\n")

		if recipe.Title != "" && (recipe.Ingredients != "" || recipe.Steps != "") {
			recipes = append(recipes, recipe)
		}
	}
	return recipes
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
