package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      string             `bson:"type" json:"type"`
	Message   string             `bson:"message" json:"message"`
	RecipeID  string             `bson:"recipeId,omitempty" json:"recipeId,omitempty"`
	CommentID string             `bson:"commentId,omitempty" json:"commentId,omitempty"`
	UserID    string             `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
