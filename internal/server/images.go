package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/taiwon1/sprint3/internal/db"
	"github.com/taiwon1/sprint3/internal/domain"
	"github.com/taiwon1/sprint3/internal/logging"
	"github.com/taiwon1/sprint3/internal/metrics"
	"github.com/taiwon1/sprint3/internal/storage"
)

const (
	imageFormField = "image"
	// multipartOverhead leaves room for boundaries and part headers around a
	// maximum sized image.
	multipartOverhead = 64 << 10
)

func NewProductImageRouter(images storage.ImageStore) *chi.Mux {
	imageRouter := newRouter()
	imageRouter.Post("/", uploadProductImage(images))
	imageRouter.Get("/", serveProductImage(images))
	return imageRouter
}

func imageKey(productID int64, ext string) string {
	return fmt.Sprintf("images/products/%d/%d-%s%s", productID, productID, uuid.NewString(), ext)
}

func imageURL(productID int64) string {
	return fmt.Sprintf("/products/%d/image", productID)
}

// discardImage removes a blob that is no longer referenced. Failures leave an
// orphan behind and are only logged.
func discardImage(r *http.Request, images storage.ImageStore, key string) {
	err := images.Delete(r.Context(), key)
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		logging.FromContext(r.Context()).WithError(err).WithField("key", key).Warn("failed to delete image blob")
	}
}

func uploadProductImage(images storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseID(r, "id")
		if err != nil {
			badRequest(w, r, err.Error())
			return
		}
		ctx := r.Context()
		repo := GetRepository(r)
		if _, err = repo.FetchProduct(ctx, productID); errors.Is(err, db.ErrNotFound) {
			productNotFound(w, r, productID)
			return
		} else if err != nil {
			internalError(w, r, err, "failed to fetch product")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageSize+multipartOverhead)
		file, header, err := r.FormFile(imageFormField)
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			badRequest(w, r, fmt.Sprintf("image: must be at most %d bytes", domain.MaxImageSize))
			return
		case errors.Is(err, http.ErrMissingFile):
			respondError(w, r, http.StatusBadRequest, domain.ApiError{
				Type:    domain.ApiErrorTypeMissingParam,
				Details: []string{"image: missing required file"},
			})
			return
		case err != nil:
			badRequest(w, r, "body: must be a multipart form")
			return
		}
		defer file.Close()
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		if header.Size > domain.MaxImageSize {
			badRequest(w, r, fmt.Sprintf("image: must be at most %d bytes", domain.MaxImageSize))
			return
		}
		contentType, ok := domain.ImageContentType(header.Filename)
		if !ok {
			badRequest(w, r, "image: only jpeg, jpg, png, gif and webp files are accepted")
			return
		}
		sniffed, err := mimetype.DetectReader(file)
		if err != nil {
			internalError(w, r, err, "failed to sniff uploaded image")
			return
		}
		if !domain.IsImageContentType(sniffed.String()) {
			logging.FromContext(ctx).WithField("sniffed", sniffed.String()).Info("rejected upload with non-image content")
			badRequest(w, r, "image: content is not an accepted image format")
			return
		}
		if _, err = file.Seek(0, io.SeekStart); err != nil {
			internalError(w, r, err, "failed to rewind uploaded image")
			return
		}

		key := imageKey(productID, strings.ToLower(path.Ext(header.Filename)))
		if err = images.Put(ctx, key, file, header.Size, contentType); err != nil {
			internalError(w, r, err, "failed to store image")
			return
		}

		image, previous, err := repo.ReplaceProductImage(ctx, domain.ProductImage{
			ProductID:   productID,
			Name:        path.Base(key),
			Path:        key,
			Size:        header.Size,
			ContentType: contentType,
		})
		if err != nil {
			discardImage(r, images, key)
			if errors.Is(err, db.ErrNotFound) {
				productNotFound(w, r, productID)
				return
			}
			internalError(w, r, err, "failed to record product image")
			return
		}
		if previous != nil && previous.Path != image.Path {
			discardImage(r, images, previous.Path)
		}

		metrics.ImageUploadBytes.Observe(float64(image.Size))
		logging.FromContext(ctx).WithFields(logrus.Fields{
			"product_id": productID,
			"key":        image.Path,
			"size":       image.Size,
			"replaced":   previous != nil,
		}).Info("product image stored")
		respondJSON(w, r, http.StatusOK, domain.ImageUploadResponse{
			Message: "product image uploaded",
			File: domain.UploadedFile{
				Name: image.Name,
				Path: image.Path,
				Size: image.Size,
				URL:  imageURL(productID),
			},
		})
	}
}

func serveProductImage(images storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseID(r, "id")
		if err != nil {
			badRequest(w, r, err.Error())
			return
		}
		ctx := r.Context()
		image, err := GetRepository(r).FetchProductImage(ctx, productID)
		if errors.Is(err, db.ErrNotFound) {
			resourceNotFound(w, r, fmt.Sprintf("product %d has no image", productID))
			return
		}
		if err != nil {
			internalError(w, r, err, "failed to fetch product image")
			return
		}

		object, err := images.Open(ctx, image.Path)
		if errors.Is(err, storage.ErrObjectNotFound) {
			logging.FromContext(ctx).WithField("key", image.Path).Warn("product image record has no blob")
			resourceNotFound(w, r, fmt.Sprintf("product %d has no image", productID))
			return
		}
		if err != nil {
			internalError(w, r, err, "failed to open product image")
			return
		}
		defer object.Close()

		w.Header().Set("Content-Type", image.ContentType)
		http.ServeContent(w, r, image.Name, object.ModTime, object)
	}
}
