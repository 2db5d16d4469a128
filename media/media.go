package media

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"tarifplus/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

const uploadDir = "./static/uploads"

// FileType classifies an upload by its content type the way the recipe
// cards expect it.
func FileType(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return "video"
	}
	return "image"
}

// Upload stores every file from the multipart "files" field and returns
// {medias: [{url, type}]}. Images get a 320px-wide thumbnail next to the
// original; thumbnail failures are logged, never fatal.
func Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "File is empty")
		return
	}

	medias := make([]utils.M, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error reading file")
			return
		}

		savedName, err := utils.SaveFile(file, fileHeader, uploadDir)
		file.Close()
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error saving file")
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if FileType(contentType) == "image" {
			makeThumbnail(savedName)
		}

		medias = append(medias, utils.M{
			"url":  "/static/uploads/" + savedName,
			"type": FileType(contentType),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"medias": medias})
}

func makeThumbnail(name string) {
	src := filepath.Join(uploadDir, name)
	img, err := imaging.Open(src)
	if err != nil {
		log.Printf("Thumbnail skipped for %s: %v", name, err)
		return
	}

	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	dst := filepath.Join(uploadDir, "thumb_"+name)
	if err := imaging.Save(thumb, dst); err != nil {
		log.Printf("Thumbnail save failed for %s: %v", name, err)
	}
}
