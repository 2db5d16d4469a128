package comments

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"tarifplus/db"
	"tarifplus/models"
	"tarifplus/mq"
	"tarifplus/rdx"
	"tarifplus/recipes"
	"tarifplus/users"
	"tarifplus/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A user may leave at most this many comments on one recipe.
const maxCommentsPerRecipe = 5

func invalidateFor(r *http.Request, recipeID, userID string) {
	ctx := r.Context()
	rdx.Invalidate(ctx, "comments:recipe:"+recipeID)
	rdx.Invalidate(ctx, "comments:count:"+recipeID)
	rdx.Invalidate(ctx, "comments:user:"+userID)
	rdx.Invalidate(ctx, "comments:popular")
}

func GetComments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	recipeID := ps.ByName("recipeId")
	if recipeID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "recipeId is required")
		return
	}

	cacheKey := "comments:recipe:" + recipeID
	var cached []models.Comment
	if rdx.GetJSON(ctx, cacheKey, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	cursor, err := db.CommentsCollection.Find(ctx, bson.M{"recipeId": recipeID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	// Backfill missing display names, best effort.
	for i := range comments {
		if comments[i].UserName == "" {
			comments[i].UserName = users.DisplayName(ctx, comments[i].UserID)
		}
	}

	rdx.SetJSON(ctx, cacheKey, comments, rdx.DefaultTTL)
	utils.RespondWithJSON(w, http.StatusOK, comments)
}

func AddComment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	userID := utils.GetUserIDFromContext(ctx)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if strings.TrimSpace(comment.Content) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Content cannot be empty")
		return
	}
	if comment.RecipeID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "recipeId is required")
		return
	}

	existing, err := db.CommentsCollection.CountDocuments(ctx, bson.M{"recipeId": comment.RecipeID, "userId": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing >= maxCommentsPerRecipe {
		utils.RespondWithError(w, http.StatusBadRequest, "Comment limit reached for this recipe")
		return
	}

	comment.ID = primitive.NewObjectID()
	comment.UserID = userID
	comment.CreatedAt = time.Now().UTC()
	comment.UserName = users.DisplayName(ctx, userID)

	if _, err := db.CommentsCollection.InsertOne(ctx, comment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB insert failed")
		return
	}

	invalidateFor(r, comment.RecipeID, userID)

	// Mirror the count onto the recipe. Best effort: a failed bump is
	// logged, the comment stays.
	if err := recipes.AdjustCommentCount(ctx, comment.RecipeID, 1); err != nil {
		log.Printf("Failed to bump comment count for recipe %s: %v", comment.RecipeID, err)
	}

	if err := mq.Emit(ctx, mq.Event{
		Type:      mq.EventCommentCreated,
		CommentID: comment.ID.Hex(),
		RecipeID:  comment.RecipeID,
		UserID:    comment.UserID,
		CreatedAt: comment.CreatedAt,
	}); err != nil {
		log.Printf("Failed to publish comment.created for %s: %v", comment.ID.Hex(), err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, comment)
}

func DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var comment models.Comment
	if err := db.CommentsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}

	if _, err := db.CommentsCollection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	invalidateFor(r, comment.RecipeID, comment.UserID)

	if err := recipes.AdjustCommentCount(ctx, comment.RecipeID, -1); err != nil {
		log.Printf("Failed to drop comment count for recipe %s: %v", comment.RecipeID, err)
	}

	w.WriteHeader(http.StatusNoContent)
}
