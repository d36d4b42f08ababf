package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"refurb/db"
	"refurb/rdx"
	"refurb/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const productUploadDir = "./static/productpic"

// UploadProductImage stores a product photo plus a 300px thumbnail and
// appends the image id to the product document.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	header := files[0]
	if !utils.ValidateImageFileType(w, header) {
		return
	}

	src, err := header.Open()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to open image file")
		return
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to decode image")
		return
	}

	imageID := utils.GenerateID(16)
	originalPath := filepath.Join(productUploadDir, imageID+".jpg")
	thumbDir := filepath.Join(productUploadDir, "thumb")
	thumbPath := filepath.Join(thumbDir, imageID+".jpg")

	if err := utils.EnsureDir(productUploadDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create upload directory")
		return
	}
	if err := utils.EnsureDir(thumbDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create thumbnail directory")
		return
	}

	if err := imaging.Save(img, originalPath); err != nil {
		log.Println("image save error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}
	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbPath); err != nil {
		log.Println("thumbnail save error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save thumbnail")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{
			"$push": bson.M{"images": imageID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		log.Println("UploadProductImage update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to attach image")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	rdx.DelCache("product:" + productID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"imageId": imageID,
		"path":    fmt.Sprintf("/productpic/%s.jpg", imageID),
		"thumb":   fmt.Sprintf("/productpic/thumb/%s.jpg", imageID),
	})
}
