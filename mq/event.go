package mq

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventRecipeCreated  = "recipe.created"
	EventCommentCreated = "comment.created"
)

// Event is the payload broadcast on the fanout exchange. Consumers dispatch
// on Type; the id fields are filled according to it.
type Event struct {
	Type      string    `json:"type"`
	RecipeID  string    `json:"recipeId,omitempty"`
	CommentID string    `json:"commentId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Title     string    `json:"title,omitempty"`
	AuthorID  string    `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e Event) Encode() ([]byte, error) {
	if e.Type == "" {
		return nil, fmt.Errorf("event without type")
	}
	return json.Marshal(e)
}

func DecodeEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, err
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("event without type: %s", body)
	}
	return e, nil
}
