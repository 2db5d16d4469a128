package recipes

import (
	"context"
	"encoding/json"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tarifplus/db"
	"tarifplus/globals"
	"tarifplus/models"
	"tarifplus/rdx"
	"tarifplus/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// In-memory sqlite gives every connection its own database.
	sqlDB, err := g.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := g.AutoMigrate(&models.Recipe{}, &models.Category{}, &models.RecipeView{}, &models.RecipeLike{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	old := db.PG
	db.PG = g
	t.Cleanup(func() { db.PG = old })
	return g
}

func setupTestCache(t *testing.T) {
	t.Helper()

	mr := miniredis.RunT(t)
	old := rdx.Conn
	rdx.Conn = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdx.Conn = old })
}

func seedRecipe(t *testing.T, g *gorm.DB, title string) models.Recipe {
	t.Helper()

	cat := models.Category{ID: uuid.NewString(), Name: "Kahvaltılıklar " + uuid.NewString()}
	if err := g.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	recipe := models.Recipe{
		ID:          uuid.NewString(),
		Title:       title,
		Ingredients: []string{"Domates", "Yumurta"},
		Steps:       []string{"Kavur", "Kır"},
		Duration:    15,
		CategoryID:  cat.ID,
		AuthorID:    "u1",
		CreatedAt:   time.Now().UTC(),
	}
	if err := g.Create(&recipe).Error; err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return recipe
}

type counters struct {
	RecipeID        string  `json:"recipeId"`
	ViewCount       int     `json:"viewCount"`
	LikeCount       int     `json:"likeCount"`
	CommentCount    int     `json:"commentCount"`
	PopularityScore float64 `json:"popularityScore"`
	Counted         bool    `json:"counted"`
}

func trackView(t *testing.T, recipeID, anonID string) (int, counters) {
	t.Helper()

	r := httptest.NewRequest("POST", "/api/v1/recipes/recipe/"+recipeID+"/view?anonId="+anonID, nil)
	w := httptest.NewRecorder()
	TrackView(w, r, httprouter.Params{{Key: "id", Value: recipeID}})

	var c counters
	json.NewDecoder(w.Body).Decode(&c)
	return w.Code, c
}

func trackLike(t *testing.T, recipeID, anonID string) (int, counters) {
	t.Helper()

	r := httptest.NewRequest("POST", "/api/v1/recipes/recipe/"+recipeID+"/like?anonId="+anonID, nil)
	w := httptest.NewRecorder()
	TrackLike(w, r, httprouter.Params{{Key: "id", Value: recipeID}})

	var c counters
	json.NewDecoder(w.Body).Decode(&c)
	return w.Code, c
}

func TestTrackViewIdempotentPerAnonID(t *testing.T) {
	g := setupTestDB(t)
	recipe := seedRecipe(t, g, "Menemen")

	code, c := trackView(t, recipe.ID, "anon-1")
	if code != 200 || !c.Counted || c.ViewCount != 1 {
		t.Fatalf("first view: code=%d counted=%v viewCount=%d, want 200/true/1", code, c.Counted, c.ViewCount)
	}
	if math.Abs(c.PopularityScore-0.1) > 1e-9 {
		t.Errorf("popularity after one view = %v, want 0.1", c.PopularityScore)
	}

	code, c = trackView(t, recipe.ID, "anon-1")
	if code != 200 || c.Counted || c.ViewCount != 1 {
		t.Fatalf("repeat view: code=%d counted=%v viewCount=%d, want 200/false/1", code, c.Counted, c.ViewCount)
	}

	_, c = trackView(t, recipe.ID, "anon-2")
	if !c.Counted || c.ViewCount != 2 {
		t.Errorf("second actor: counted=%v viewCount=%d, want true/2", c.Counted, c.ViewCount)
	}
}

func TestTrackLikeIdempotentPerAnonID(t *testing.T) {
	g := setupTestDB(t)
	recipe := seedRecipe(t, g, "Menemen")

	_, c := trackLike(t, recipe.ID, "anon-1")
	if !c.Counted || c.LikeCount != 1 {
		t.Fatalf("first like: counted=%v likeCount=%d, want true/1", c.Counted, c.LikeCount)
	}
	if math.Abs(c.PopularityScore-2.0) > 1e-9 {
		t.Errorf("popularity after one like = %v, want 2", c.PopularityScore)
	}

	_, c = trackLike(t, recipe.ID, "anon-1")
	if c.Counted || c.LikeCount != 1 {
		t.Errorf("repeat like: counted=%v likeCount=%d, want false/1", c.Counted, c.LikeCount)
	}
}

func TestTrackViewUserAndAnonCountSeparately(t *testing.T) {
	g := setupTestDB(t)
	recipe := seedRecipe(t, g, "Menemen")

	r := httptest.NewRequest("POST", "/api/v1/recipes/recipe/"+recipe.ID+"/view", nil)
	r = r.WithContext(context.WithValue(r.Context(), globals.UserIDKey, "user-1"))
	w := httptest.NewRecorder()
	TrackView(w, r, httprouter.Params{{Key: "id", Value: recipe.ID}})

	var c counters
	json.NewDecoder(w.Body).Decode(&c)
	if !c.Counted || c.ViewCount != 1 {
		t.Fatalf("token view: counted=%v viewCount=%d, want true/1", c.Counted, c.ViewCount)
	}

	_, c = trackView(t, recipe.ID, "anon-1")
	if !c.Counted || c.ViewCount != 2 {
		t.Errorf("anon after user: counted=%v viewCount=%d, want true/2", c.Counted, c.ViewCount)
	}
}

func TestTrackViewUnknownRecipe(t *testing.T) {
	setupTestDB(t)

	code, _ := trackView(t, uuid.NewString(), "anon-1")
	if code != 404 {
		t.Errorf("got status %d, want 404", code)
	}
}

func TestPopularityAfterMixedInteractions(t *testing.T) {
	g := setupTestDB(t)
	recipe := seedRecipe(t, g, "Menemen")

	trackView(t, recipe.ID, "anon-1")
	trackLike(t, recipe.ID, "anon-1")
	if err := AdjustCommentCount(context.Background(), recipe.ID, 1); err != nil {
		t.Fatalf("comment bump: %v", err)
	}

	var row models.Recipe
	if err := g.First(&row, "id = ?", recipe.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := PopularityScore(row.ViewCount, row.LikeCount, row.CommentCount)
	if math.Abs(row.PopularityScore-want) > 1e-9 || math.Abs(want-5.1) > 1e-9 {
		t.Errorf("score=%v counters=(%d,%d,%d), want 5.1", row.PopularityScore, row.ViewCount, row.LikeCount, row.CommentCount)
	}
}

func TestAdjustCommentCountUnknownRecipe(t *testing.T) {
	setupTestDB(t)

	err := AdjustCommentCount(context.Background(), uuid.NewString(), 1)
	if err != utils.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// A counter increment that commits between UpdateRecipe's read and its
// write must survive the edit. The update callback below plays the part of
// the concurrent request.
func TestUpdateRecipeKeepsConcurrentCounters(t *testing.T) {
	g := setupTestDB(t)
	recipe := seedRecipe(t, g, "Menemen")
	trackView(t, recipe.ID, "anon-1")

	fired := false
	err := g.Callback().Update().Before("gorm:update").Register("concurrent_view", func(tx *gorm.DB) {
		if fired {
			return
		}
		fired = true
		g.Exec(
			"UPDATE recipes SET view_count = view_count + 1, popularity_score = (view_count + 1) * 0.1 + like_count * 2.0 + comment_count * 3.0 WHERE id = ?",
			recipe.ID,
		)
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer g.Callback().Update().Remove("concurrent_view")

	r := httptest.NewRequest("PUT", "/api/v1/recipes/recipe/"+recipe.ID, strings.NewReader(`{"title":"Menemen Deluxe"}`))
	r = r.WithContext(context.WithValue(r.Context(), globals.UserIDKey, "u1"))
	w := httptest.NewRecorder()
	UpdateRecipe(w, r, httprouter.Params{{Key: "id", Value: recipe.ID}})

	if w.Code != 200 {
		t.Fatalf("update failed with status %d: %s", w.Code, w.Body.String())
	}
	if !fired {
		t.Fatal("interleaved increment never ran")
	}

	var row models.Recipe
	if err := g.First(&row, "id = ?", recipe.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.Title != "Menemen Deluxe" {
		t.Errorf("title = %q, want Menemen Deluxe", row.Title)
	}
	if row.ViewCount != 2 {
		t.Errorf("viewCount = %d, want 2 (concurrent increment lost)", row.ViewCount)
	}
	if math.Abs(row.PopularityScore-0.2) > 1e-9 {
		t.Errorf("popularityScore = %v, want 0.2", row.PopularityScore)
	}
}

func TestGetRecipesCacheAside(t *testing.T) {
	g := setupTestDB(t)
	setupTestCache(t)
	seedRecipe(t, g, "Menemen")

	get := func() []models.Recipe {
		r := httptest.NewRequest("GET", "/api/v1/recipes", nil)
		w := httptest.NewRecorder()
		GetRecipes(w, r, nil)
		var out []models.Recipe
		json.NewDecoder(w.Body).Decode(&out)
		return out
	}

	first := get()
	if len(first) != 1 {
		t.Fatalf("got %d recipes from db, want 1", len(first))
	}

	// Second read hits the cache and must equal the db read that filled it,
	// even after the table changes underneath.
	seedRecipe(t, g, "Omlet")
	if cached := get(); len(cached) != 1 || cached[0].ID != first[0].ID {
		t.Fatalf("cached read diverged: got %d recipes", len(cached))
	}

	// Invalidation restores freshness.
	rdx.Invalidate(context.Background(), "recipes:*")
	if fresh := get(); len(fresh) != 2 {
		t.Errorf("after invalidation got %d recipes, want 2", len(fresh))
	}
}
