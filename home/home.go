package home

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"tarifplus/db"
	"tarifplus/models"
	"tarifplus/rdx"
	"tarifplus/utils"
)

// Popular lists churn quickly, so they get a much shorter TTL than the
// regular recipe caches.
const popularTTL = 5 * time.Minute

// GetHomeContent handles all of the landing page endpoints under /home/:apiRoute
func GetHomeContent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	apiRoute := strings.ToLower(ps.ByName("apiRoute"))
	ctx := r.Context()

	var (
		data interface{}
		err  error
	)

	switch apiRoute {
	case "popular":
		data, err = getPopularRecipes(ctx)
	case "categories":
		data, err = getCategories(ctx)
	case "latest-comments":
		data, err = getLatestComments(ctx)
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Invalid API route")
		return
	}

	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch data: "+err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

// getPopularRecipes returns the five highest scoring recipes.
func getPopularRecipes(ctx context.Context) ([]models.Recipe, error) {
	const key = "recipes:popular"

	var recipes []models.Recipe
	if rdx.GetJSON(ctx, key, &recipes) {
		return recipes, nil
	}
	if err := db.PG.Order("popularity_score DESC").Limit(5).Find(&recipes).Error; err != nil {
		return nil, err
	}
	rdx.SetJSON(ctx, key, recipes, popularTTL)
	return recipes, nil
}

func getCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := db.PG.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// getLatestComments returns the newest comments across all recipes.
func getLatestComments(ctx context.Context) ([]models.Comment, error) {
	cursor, err := db.CommentsCollection.Find(ctx, bson.M{}, db.OptionsFindLatest(10))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := make([]models.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
