package categories

import (
	"encoding/json"
	"net/http"

	"tarifplus/db"
	"tarifplus/models"
	"tarifplus/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var cats []models.Category
	if err := db.PG.Order("name").Find(&cats).Error; err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	utils.RespondWithJSON(w, http.StatusOK, cats)
}

func GetCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var cat models.Category
	if err := db.PG.First(&cat, "id = ?", ps.ByName("id")).Error; err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cat)
}

func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var cat models.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil || cat.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	cat.ID = uuid.NewString()
	if err := db.PG.Create(&cat).Error; err != nil {
		utils.RespondWithError(w, http.StatusConflict, "Category already exists")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, cat)
}

func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res := db.PG.Delete(&models.Category{}, "id = ?", ps.ByName("id"))
	if res.Error != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
