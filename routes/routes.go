package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tarifplus/admin"
	"tarifplus/categories"
	"tarifplus/comments"
	"tarifplus/home"
	"tarifplus/media"
	"tarifplus/middleware"
	"tarifplus/notifications"
	"tarifplus/ratelim"
	"tarifplus/recipes"
	"tarifplus/search"
	"tarifplus/suggestions"
	"tarifplus/users"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddRecipeRoutes(router *httprouter.Router) {
	router.GET("/api/v1/recipes", ratelim.RateLimit(middleware.OptionalAuth(recipes.GetRecipes)))
	router.GET("/api/v1/recipes/filter", ratelim.RateLimit(middleware.OptionalAuth(recipes.FilterRecipes)))
	router.GET("/api/v1/recipes/recipe/:id", middleware.WithContext(middleware.OptionalAuth(recipes.GetRecipe)))
	router.POST("/api/v1/recipes", middleware.Authenticate(recipes.CreateRecipe))
	router.PUT("/api/v1/recipes/recipe/:id", middleware.Authenticate(recipes.UpdateRecipe))
	router.DELETE("/api/v1/recipes/recipe/:id", middleware.Authenticate(recipes.DeleteRecipe))

	router.POST("/api/v1/recipes/recipe/:id/view", middleware.OptionalAuth(recipes.TrackView))
	router.POST("/api/v1/recipes/recipe/:id/like", middleware.OptionalAuth(recipes.TrackLike))
	router.POST("/api/v1/recipes/recipe/:id/comment-count", middleware.Authenticate(recipes.IncrementCommentCount))
}

func AddCategoryRoutes(router *httprouter.Router) {
	router.GET("/api/v1/categories", ratelim.RateLimit(categories.GetCategories))
	router.GET("/api/v1/categories/:id", categories.GetCategory)
	router.POST("/api/v1/categories", middleware.AdminOnly(categories.CreateCategory))
	router.DELETE("/api/v1/categories/:id", middleware.AdminOnly(categories.DeleteCategory))
}

func AddCommentsRoutes(router *httprouter.Router) {
	router.GET("/api/v1/comments/recipe/:recipeId", comments.GetComments)
	router.POST("/api/v1/comments", middleware.Authenticate(comments.AddComment))
	router.DELETE("/api/v1/comments/:id", middleware.Authenticate(comments.DeleteComment))
}

func AddUserRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/register", ratelim.RateLimit(users.Register))
	router.POST("/api/v1/auth/login", ratelim.RateLimit(users.Login))
	router.GET("/api/v1/auth/profile", middleware.Authenticate(users.GetProfile))

	router.GET("/api/v1/users", middleware.AdminOnly(users.GetUsers))
	router.GET("/api/v1/users/:id", middleware.OptionalAuth(users.GetUser))
	router.PUT("/api/v1/users", middleware.Authenticate(users.UpdateUser))
	router.DELETE("/api/v1/users/:id", middleware.Authenticate(users.DeleteUser))

	router.GET("/api/v1/favorites", middleware.Authenticate(users.GetFavorites))
	router.POST("/api/v1/favorites/:recipeId", middleware.Authenticate(users.ToggleFavorite))
}

func AddMediaRoutes(router *httprouter.Router) {
	router.POST("/api/v1/media/upload", middleware.Authenticate(media.Upload))
}

func AddNotificationRoutes(router *httprouter.Router, hub *notifications.Hub) {
	router.GET("/api/v1/notifications", middleware.Authenticate(notifications.GetNotifications))
	router.GET("/ws/notifications", hub.ServeWS)
}

func AddSearchRoutes(router *httprouter.Router) {
	router.GET("/api/v1/search/recipes", ratelim.RateLimit(search.Recipes))
}

func AddSuggestionsRoutes(router *httprouter.Router) {
	router.POST("/api/v1/ai/ingredient-search", ratelim.RateLimit(middleware.OptionalAuth(suggestions.IngredientSearch)))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/status", middleware.AdminOnly(admin.Status))
	router.GET("/api/v1/admin/overview", middleware.AdminOnly(admin.Overview))
}

func AddHomeRoutes(router *httprouter.Router) {
	router.GET("/api/v1/home/:apiRoute", ratelim.RateLimit(home.GetHomeContent))
}
