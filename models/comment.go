package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipeID  string             `bson:"recipeId" json:"recipeId"`
	UserID    string             `bson:"userId" json:"userId"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	// Denormalized display name, filled from the users collection on a
	// best-effort basis.
	UserName string `bson:"userName" json:"userName"`
}
