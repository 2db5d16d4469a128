package recipes

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tarifplus/db"
	"tarifplus/models"
	"tarifplus/mq"
	"tarifplus/rdx"
	"tarifplus/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// Get all recipes
func GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	const cacheKey = "recipes:all"
	var cached []models.Recipe
	if rdx.GetJSON(ctx, cacheKey, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	var recipes []models.Recipe
	if err := db.PG.Order("created_at desc").Find(&recipes).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	rdx.SetJSON(ctx, cacheKey, recipes, rdx.DefaultTTL)
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

// Filter recipes by category, max duration and ingredient. Results are
// cached per parameter combination.
func FilterRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	categoryID := r.URL.Query().Get("categoryId")
	maxDurationStr := r.URL.Query().Get("maxDuration")
	ingredient := r.URL.Query().Get("ingredient")

	cacheKey := fmt.Sprintf("recipes:filter:cat_%s:dur_%s:ing_%s", categoryID, maxDurationStr, ingredient)
	var cached []models.Recipe
	if rdx.GetJSON(ctx, cacheKey, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	query := db.PG.Model(&models.Recipe{})
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if maxDurationStr != "" {
		maxDuration, err := strconv.Atoi(maxDurationStr)
		if err != nil || maxDuration < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid maxDuration")
			return
		}
		query = query.Where("duration <= ?", maxDuration)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if ingredient != "" {
		recipes = filterByIngredient(recipes, ingredient)
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	rdx.SetJSON(ctx, cacheKey, recipes, rdx.DefaultTTL)
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

func filterByIngredient(recipes []models.Recipe, ingredient string) []models.Recipe {
	needle := strings.ToLower(ingredient)
	out := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			if strings.Contains(strings.ToLower(ing), needle) {
				out = append(out, recipe)
				break
			}
		}
	}
	return out
}

// Get one recipe
func GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	id := ps.ByName("id")

	cacheKey := "recipes:detail:" + id
	var cached models.Recipe
	if rdx.GetJSON(ctx, cacheKey, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	var recipe models.Recipe
	if err := db.PG.First(&recipe, "id = ?", id).Error; err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	rdx.SetJSON(ctx, cacheKey, recipe, rdx.DefaultTTL)
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// Create
func CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	userID := utils.GetUserIDFromContext(ctx)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	var recipe models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if recipe.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	var count int64
	db.PG.Model(&models.Category{}).Where("id = ?", recipe.CategoryID).Count(&count)
	if count == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Category not found")
		return
	}

	recipe.ID = uuid.NewString()
	recipe.AuthorID = userID
	recipe.CreatedAt = time.Now().UTC()
	recipe.ViewCount = 0
	recipe.LikeCount = 0
	recipe.CommentCount = 0
	recipe.PopularityScore = 0

	if err := db.PG.Create(&recipe).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB insert failed")
		return
	}

	rdx.Invalidate(ctx, "recipes:*")

	if err := mq.Emit(ctx, mq.Event{
		Type:      mq.EventRecipeCreated,
		RecipeID:  recipe.ID,
		Title:     recipe.Title,
		AuthorID:  recipe.AuthorID,
		CreatedAt: recipe.CreatedAt,
	}); err != nil {
		log.Printf("Failed to publish recipe.created for %s: %v", recipe.ID, err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, recipe)
}

// Update
func UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	id := ps.ByName("id")

	userID := utils.GetUserIDFromContext(ctx)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	var recipe models.Recipe
	if err := db.PG.First(&recipe, "id = ?", id).Error; err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if recipe.AuthorID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not the recipe author")
		return
	}

	var body struct {
		Title       string               `json:"title"`
		Ingredients []string             `json:"ingredients"`
		Steps       []string             `json:"steps"`
		Duration    int                  `json:"duration"`
		CategoryID  string               `json:"categoryId"`
		Media       []models.RecipeMedia `json:"media"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	if body.Title != "" {
		recipe.Title = body.Title
	}
	if body.Ingredients != nil {
		recipe.Ingredients = body.Ingredients
	}
	if body.Steps != nil {
		recipe.Steps = body.Steps
	}
	if body.Duration > 0 {
		recipe.Duration = body.Duration
	}
	if body.CategoryID != "" {
		recipe.CategoryID = body.CategoryID
	}
	if body.Media != nil {
		recipe.Media = body.Media
	}

	// Only the edited columns. The counter columns are owned by the atomic
	// increments in interactions.go; writing them back here would overwrite
	// any increment that landed after the First above.
	err := db.PG.Model(&models.Recipe{}).Where("id = ?", id).
		Select("title", "ingredients", "steps", "duration", "category_id", "media").
		Updates(recipe).Error
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rdx.Invalidate(ctx, "recipes:*")
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// Delete
func DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	id := ps.ByName("id")

	var recipe models.Recipe
	if err := db.PG.First(&recipe, "id = ?", id).Error; err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	if err := db.PG.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rdx.Invalidate(ctx, "recipes:*")
	w.WriteHeader(http.StatusNoContent)
}

// exists reports whether the recipe row is present; shared by the
// interaction endpoints.
func exists(id string) (bool, error) {
	var count int64
	err := db.PG.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
