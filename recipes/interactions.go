package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tarifplus/db"
	"tarifplus/models"
	"tarifplus/rdx"
	"tarifplus/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"gorm.io/gorm"
)

// Popularity weights. Any path that touches a counter recomputes the score
// with these in the same UPDATE, so concurrent increments cannot interleave
// into a lost update.
const (
	viewWeight    = 0.1
	likeWeight    = 2.0
	commentWeight = 3.0
)

// PopularityScore is the derived ranking value for a recipe.
func PopularityScore(views, likes, comments int) float64 {
	return float64(views)*viewWeight + float64(likes)*likeWeight + float64(comments)*commentWeight
}

// actor identifies who performed a view or like: an authenticated user id,
// or a client-claimed anonymous id. The guarantee is one count per claimed
// identity, nothing stronger.
type actor struct {
	UserID string
	AnonID string
}

func actorFromRequest(r *http.Request) actor {
	if userID := utils.GetUserIDFromContext(r.Context()); userID != "" {
		return actor{UserID: userID}
	}

	var body struct {
		AnonID string `json:"anonId"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}
	if body.AnonID == "" {
		body.AnonID = r.URL.Query().Get("anonId")
	}
	return actor{AnonID: body.AnonID}
}

func (a actor) empty() bool { return a.UserID == "" && a.AnonID == "" }

func (a actor) scope(q *gorm.DB) *gorm.DB {
	if a.UserID != "" {
		return q.Where("user_id = ?", a.UserID)
	}
	return q.Where("anon_id = ?", a.AnonID)
}

// TrackView counts at most one view per (recipe, actor).
func TrackView(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipeID := ps.ByName("id")
	who := actorFromRequest(r)
	if who.empty() {
		utils.RespondWithError(w, http.StatusBadRequest, "anonId or token required")
		return
	}

	ok, err := exists(recipeID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	var count int64
	if err := who.scope(db.PG.Model(&models.RecipeView{}).Where("recipe_id = ?", recipeID)).Count(&count).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Repeat action by the same actor: success, counters unchanged.
	if count > 0 {
		respondCounters(w, r.Context(), recipeID, false)
		return
	}

	view := models.RecipeView{
		ID:       uuid.NewString(),
		RecipeID: recipeID,
		UserID:   who.UserID,
		AnonID:   who.AnonID,
		ViewedAt: time.Now().UTC(),
	}
	if err := db.PG.Create(&view).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	err = db.PG.Model(&models.Recipe{}).Where("id = ?", recipeID).UpdateColumns(map[string]interface{}{
		"view_count":       gorm.Expr("view_count + 1"),
		"popularity_score": gorm.Expr("(view_count + 1) * ? + like_count * ? + comment_count * ?", viewWeight, likeWeight, commentWeight),
	}).Error
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rdx.Invalidate(r.Context(), "recipes:*")
	respondCounters(w, r.Context(), recipeID, true)
}

// TrackLike counts at most one like per (recipe, actor).
func TrackLike(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipeID := ps.ByName("id")
	who := actorFromRequest(r)
	if who.empty() {
		utils.RespondWithError(w, http.StatusBadRequest, "anonId or token required")
		return
	}

	ok, err := exists(recipeID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	var count int64
	if err := who.scope(db.PG.Model(&models.RecipeLike{}).Where("recipe_id = ?", recipeID)).Count(&count).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if count > 0 {
		respondCounters(w, r.Context(), recipeID, false)
		return
	}

	like := models.RecipeLike{
		ID:       uuid.NewString(),
		RecipeID: recipeID,
		UserID:   who.UserID,
		AnonID:   who.AnonID,
		LikedAt:  time.Now().UTC(),
	}
	if err := db.PG.Create(&like).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	err = db.PG.Model(&models.Recipe{}).Where("id = ?", recipeID).UpdateColumns(map[string]interface{}{
		"like_count":       gorm.Expr("like_count + 1"),
		"popularity_score": gorm.Expr("view_count * ? + (like_count + 1) * ? + comment_count * ?", viewWeight, likeWeight, commentWeight),
	}).Error
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rdx.Invalidate(r.Context(), "recipes:*")
	respondCounters(w, r.Context(), recipeID, true)
}

// AdjustCommentCount mirrors the comment collection's size onto the recipe
// row. Called in-process by the comments package; delta is +1 or -1.
func AdjustCommentCount(ctx context.Context, recipeID string, delta int) error {
	res := db.PG.Model(&models.Recipe{}).Where("id = ?", recipeID).UpdateColumns(map[string]interface{}{
		"comment_count":    gorm.Expr("comment_count + ?", delta),
		"popularity_score": gorm.Expr("view_count * ? + like_count * ? + (comment_count + ?) * ?", viewWeight, likeWeight, delta, commentWeight),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}

	rdx.Invalidate(ctx, "recipes:*")
	return nil
}

// IncrementCommentCount keeps the original HTTP surface for the counter
// mirror so the comment flow still works when comments run out of process.
func IncrementCommentCount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipeID := ps.ByName("id")
	if err := AdjustCommentCount(r.Context(), recipeID, 1); err != nil {
		utils.RespondFromError(w, err)
		return
	}
	respondCounters(w, r.Context(), recipeID, true)
}

func respondCounters(w http.ResponseWriter, ctx context.Context, recipeID string, counted bool) {
	var recipe models.Recipe
	if err := db.PG.First(&recipe, "id = ?", recipeID).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"recipeId":        recipe.ID,
		"viewCount":       recipe.ViewCount,
		"likeCount":       recipe.LikeCount,
		"commentCount":    recipe.CommentCount,
		"popularityScore": recipe.PopularityScore,
		"counted":         counted,
	})
}
