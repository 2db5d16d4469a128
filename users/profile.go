package users

import (
	"net/http"

	"tarifplus/globals"
	"tarifplus/rdx"
	"tarifplus/utils"

	"github.com/julienschmidt/httprouter"
)

// GetProfile echoes the validated token claims, cached per user.
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	email, _ := ctx.Value(globals.EmailKey).(string)

	cacheKey := "users:profile:" + userID
	var cached utils.M
	if rdx.GetJSON(ctx, cacheKey, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	profile := utils.M{
		"userId": userID,
		"email":  email,
	}
	if user, err := byID(ctx, userID); err == nil {
		profile["firstName"] = user.FirstName
		profile["lastName"] = user.LastName
		profile["favorites"] = user.Favorites
	}

	rdx.SetJSON(ctx, cacheKey, profile, rdx.DefaultTTL)
	utils.RespondWithJSON(w, http.StatusOK, profile)
}
