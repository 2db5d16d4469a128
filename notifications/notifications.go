package notifications

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tarifplus/db"
	"tarifplus/models"
	"tarifplus/mq"
	"tarifplus/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// StartConsumer subscribes to the fanout exchange and keeps retrying while
// the broker is unavailable, redialing when the startup Init failed. Runs
// as a goroutine from main.
func StartConsumer(ctx context.Context, hub *Hub) {
	for {
		if ctx.Err() != nil {
			return
		}
		if !mq.Connected() {
			if err := mq.Init(); err != nil {
				log.Printf("RabbitMQ still unavailable, retrying in 5s: %v", err)
				if !sleepOrDone(ctx, 5*time.Second) {
					return
				}
				continue
			}
		}

		err := mq.Consume(ctx, func(event mq.Event) error {
			return handleEvent(ctx, hub, event)
		})
		if ctx.Err() != nil {
			return
		}
		log.Printf("Notification consumer stopped, retrying in 5s: %v", err)
		if !sleepOrDone(ctx, 5*time.Second) {
			return
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func handleEvent(ctx context.Context, hub *Hub, event mq.Event) error {
	notif := models.Notification{
		Type:      event.Type,
		RecipeID:  event.RecipeID,
		CommentID: event.CommentID,
		UserID:    event.UserID,
		CreatedAt: time.Now().UTC(),
	}

	switch event.Type {
	case mq.EventRecipeCreated:
		notif.Message = "Yeni tarif eklendi!"
		notif.UserID = event.AuthorID
	case mq.EventCommentCreated:
		notif.Message = "Yeni yorum eklendi!"
	default:
		log.Printf("Ignoring unknown event type %q", event.Type)
		return nil
	}

	if _, err := db.NotificationsCollection.InsertOne(ctx, notif); err != nil {
		return err
	}

	if payload, err := json.Marshal(notif); err == nil {
		hub.Broadcast(payload)
	}

	log.Printf("Notification stored (%s): %s", notif.Type, notif.Message)
	return nil
}

// GetNotifications returns the most recent notifications.
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	cursor, err := db.NotificationsCollection.Find(ctx, bson.M{}, db.OptionsFindLatest(50))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(ctx)

	var notifs []models.Notification
	if err := cursor.All(ctx, &notifs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if notifs == nil {
		notifs = []models.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, notifs)
}
