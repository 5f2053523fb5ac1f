package main

import (
	"net/http"

	"souq/internal/uploads"
)

// uploadImagesHandler godoc
//
//	@Summary		Upload images
//	@Description	Uploads up to 100 images of at most 4MB each (jpeg, png, webp, gif) and returns their URLs in order
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			files	formData	file	true	"images"
//	@Success		200		{object}	map[string][]string
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/api/uploads [post]
func (app *application) uploadImagesHandler(w http.ResponseWriter, r *http.Request) {
	defer cleanupMultipart(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxProductBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	urls, err := app.uploader.Upload(r.Context(), r.MultipartForm.File["files"])
	if err != nil {
		if uploads.IsRejected(err) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string][]string{"urls": urls}); err != nil {
		app.internalServerError(w, r, err)
	}
}
