package admin

import (
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"tarifplus/db"
	"tarifplus/models"
	"tarifplus/utils"
)

// Status confirms that the caller holds an admin token. Route wrapping does
// the actual check, this just echoes the verdict.
func Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"admin":  true,
		"userId": userID,
		"role":   utils.GetRoleFromContext(r.Context()),
	})
}

// Overview reports entity counts across both stores. Counts that fail come
// back as zero rather than failing the whole report.
func Overview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	var recipes, categories, views, likes int64
	countPG(&recipes, &models.Recipe{})
	countPG(&categories, &models.Category{})
	countPG(&views, &models.RecipeView{})
	countPG(&likes, &models.RecipeLike{})

	users, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("user count failed: %v", err)
	}
	comments, err := db.CommentsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("comment count failed: %v", err)
	}
	notifications, err := db.NotificationsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("notification count failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"recipes":       recipes,
		"categories":    categories,
		"views":         views,
		"likes":         likes,
		"users":         users,
		"comments":      comments,
		"notifications": notifications,
	})
}

func countPG(dest *int64, model interface{}) {
	if err := db.PG.Model(model).Count(dest).Error; err != nil {
		log.Printf("count failed: %v", err)
	}
}
