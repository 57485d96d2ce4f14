package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/taiwon1/sprint3/internal/db"
	"github.com/taiwon1/sprint3/internal/domain"
	"github.com/taiwon1/sprint3/internal/logging"
	"github.com/taiwon1/sprint3/internal/storage"
)

func NewProductsRouter(images storage.ImageStore) *chi.Mux {
	productsRouter := newRouter()
	productsRouter.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var input domain.ProductInput
		if !decodeBody(w, r, &input) {
			return
		}
		product, err := GetRepository(r).InsertProduct(r.Context(), input)
		if err != nil {
			internalError(w, r, err, "failed to insert product")
			return
		}
		logging.FromContext(r.Context()).WithField("product_id", product.ID).Info("product created")
		respondJSON(w, r, http.StatusCreated, product)
	})
	productsRouter.Get("/", func(w http.ResponseWriter, r *http.Request) {
		params, errs := parseListParams(r)
		if len(errs) > 0 {
			badRequest(w, r, errs...)
			return
		}
		page, err := GetRepository(r).ListProducts(r.Context(), params)
		if err != nil {
			internalError(w, r, err, "failed to list products")
			return
		}
		render.JSON(w, r, domain.PaginatedProductsResponse{
			Products:   page.Items,
			TotalCount: page.Total,
		})
	})
	productsRouter.Route("/{id}", func(r chi.Router) {
		r.Get("/", fetchProduct)
		r.Patch("/", updateProduct)
		r.Delete("/", deleteProduct(images))
		r.Mount("/comments", NewCommentsRouter(domain.CommentTargetProduct))
		r.Mount("/image", NewProductImageRouter(images))
	})
	return productsRouter
}

func productNotFound(w http.ResponseWriter, r *http.Request, id int64) {
	resourceNotFound(w, r, fmt.Sprintf("product %d not found", id))
}

func fetchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	product, err := GetRepository(r).FetchProduct(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		productNotFound(w, r, id)
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to fetch product")
		return
	}
	render.JSON(w, r, product)
}

func updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	var patch domain.ProductPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	product, err := GetRepository(r).UpdateProduct(r.Context(), id, patch)
	if errors.Is(err, db.ErrNotFound) {
		productNotFound(w, r, id)
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to update product")
		return
	}
	render.JSON(w, r, product)
}

// deleteProduct removes the product row, which cascades to its comments and
// image record, and then discards the image blob.
func deleteProduct(images storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			badRequest(w, r, err.Error())
			return
		}
		ctx := r.Context()
		repo := GetRepository(r)
		image, err := repo.FetchProductImage(ctx, id)
		hasImage := err == nil
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			internalError(w, r, err, "failed to fetch product image")
			return
		}

		err = repo.DeleteProduct(ctx, id)
		if errors.Is(err, db.ErrNotFound) {
			productNotFound(w, r, id)
			return
		}
		if err != nil {
			internalError(w, r, err, "failed to delete product")
			return
		}

		log := logging.FromContext(ctx).WithField("product_id", id)
		if hasImage {
			discardImage(r, images, image.Path)
		}
		log.Info("product deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}
