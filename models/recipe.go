package models

import "time"

type RecipeMedia struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Recipe struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string        `gorm:"not null" json:"title"`
	Ingredients []string      `gorm:"serializer:json" json:"ingredients"`
	Steps       []string      `gorm:"serializer:json" json:"steps"`
	Duration    int           `json:"duration"`
	CategoryID  string        `gorm:"type:uuid;index" json:"categoryId"`
	AuthorID    string        `gorm:"index" json:"authorId"`
	Media       []RecipeMedia `gorm:"serializer:json" json:"media"`
	CreatedAt   time.Time     `json:"createdAt"`

	ViewCount       int     `json:"viewCount"`
	LikeCount       int     `json:"likeCount"`
	CommentCount    int     `json:"commentCount"`
	PopularityScore float64 `json:"popularityScore"`
}

type Category struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex" json:"name"`
}

// RecipeView records one counted view per (recipe, actor). Either UserID or
// AnonID is set, never both.
type RecipeView struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID string    `gorm:"type:uuid;index:idx_view_recipe_user;index:idx_view_recipe_anon" json:"recipeId"`
	UserID   string    `gorm:"index:idx_view_recipe_user" json:"userId,omitempty"`
	AnonID   string    `gorm:"index:idx_view_recipe_anon" json:"anonId,omitempty"`
	ViewedAt time.Time `json:"viewedAt"`
}

type RecipeLike struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID string    `gorm:"type:uuid;index:idx_like_recipe_user;index:idx_like_recipe_anon" json:"recipeId"`
	UserID   string    `gorm:"index:idx_like_recipe_user" json:"userId,omitempty"`
	AnonID   string    `gorm:"index:idx_like_recipe_anon" json:"anonId,omitempty"`
	LikedAt  time.Time `json:"likedAt"`
}
