package users

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"tarifplus/db"
	"tarifplus/middleware"
	"tarifplus/models"
	"tarifplus/rdx"
	"tarifplus/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	count, err := db.UserCollection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	user := models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Favorites:    []string{},
	}
	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB insert failed")
		return
	}

	rdx.Invalidate(ctx, "users:*")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Registration successful"})
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(req.Email))}).Decode(&user)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rdx.SetJSON(ctx, "users:token:"+user.ID.Hex(), token, rdx.DefaultTTL)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token})
}

func GetFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cacheKey := "users:favorites:" + userID
	var cached []string
	if rdx.GetJSON(ctx, cacheKey, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	user, err := byID(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.Favorites == nil {
		user.Favorites = []string{}
	}

	rdx.SetJSON(ctx, cacheKey, user.Favorites, rdx.DefaultTTL)
	utils.RespondWithJSON(w, http.StatusOK, user.Favorites)
}

// toggleFavorite flips recipeID's membership and reports whether it was
// added.
func toggleFavorite(favorites []string, recipeID string) ([]string, bool) {
	for i, id := range favorites {
		if id == recipeID {
			return append(favorites[:i], favorites[i+1:]...), false
		}
	}
	return append(favorites, recipeID), true
}

func ToggleFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	recipeID := ps.ByName("recipeId")

	user, err := byID(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.Favorites == nil {
		user.Favorites = []string{}
	}

	favorites, added := toggleFavorite(user.Favorites, recipeID)

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"favorites": favorites}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if added {
		log.Printf("Added favorite %s for user %s", recipeID, userID)
	} else {
		log.Printf("Removed favorite %s for user %s", recipeID, userID)
	}

	rdx.Invalidate(ctx, "users:favorites:"+userID)
	rdx.Invalidate(ctx, "users:profile:"+userID)
	utils.RespondWithJSON(w, http.StatusOK, favorites)
}

func GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := byID(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user.Public())
}

func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	cursor, err := db.UserCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func UpdateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	var body struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	user, err := byID(ctx, body.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	update := bson.M{
		"firstName": body.FirstName,
		"lastName":  body.LastName,
		"email":     strings.ToLower(strings.TrimSpace(body.Email)),
	}
	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": update}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rdx.Invalidate(ctx, "users:*")

	user.FirstName = body.FirstName
	user.LastName = body.LastName
	user.Email = update["email"].(string)
	utils.RespondWithJSON(w, http.StatusOK, user.Public())
}

func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()

	objID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	res, err := db.UserCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	rdx.Invalidate(ctx, "users:*")
	w.WriteHeader(http.StatusNoContent)
}

func byID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", id, err)
	}
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DisplayName resolves a user's full name for denormalized embedding.
// Returns "" when the user cannot be resolved; callers treat that as a
// best-effort blank, never an error.
func DisplayName(ctx context.Context, userID string) string {
	user, err := byID(ctx, userID)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("User lookup failed for %s: %v", userID, err)
		}
		return ""
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
