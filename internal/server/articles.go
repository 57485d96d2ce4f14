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
)

func NewArticlesRouter() *chi.Mux {
	articlesRouter := newRouter()
	articlesRouter.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var input domain.ArticleInput
		if !decodeBody(w, r, &input) {
			return
		}
		article, err := GetRepository(r).InsertArticle(r.Context(), input)
		if err != nil {
			internalError(w, r, err, "failed to insert article")
			return
		}
		logging.FromContext(r.Context()).WithField("article_id", article.ID).Info("article created")
		respondJSON(w, r, http.StatusCreated, article)
	})
	articlesRouter.Get("/", func(w http.ResponseWriter, r *http.Request) {
		params, errs := parseListParams(r)
		if len(errs) > 0 {
			badRequest(w, r, errs...)
			return
		}
		page, err := GetRepository(r).ListArticles(r.Context(), params)
		if err != nil {
			internalError(w, r, err, "failed to list articles")
			return
		}
		render.JSON(w, r, domain.PaginatedArticlesResponse{
			Articles:   page.Items,
			TotalCount: page.Total,
		})
	})
	articlesRouter.Route("/{id}", func(r chi.Router) {
		r.Get("/", fetchArticle)
		r.Patch("/", updateArticle)
		r.Delete("/", deleteArticle)
		r.Mount("/comments", NewCommentsRouter(domain.CommentTargetArticle))
	})
	return articlesRouter
}

func articleNotFound(w http.ResponseWriter, r *http.Request, id int64) {
	resourceNotFound(w, r, fmt.Sprintf("article %d not found", id))
}

func fetchArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	article, err := GetRepository(r).FetchArticle(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		articleNotFound(w, r, id)
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to fetch article")
		return
	}
	render.JSON(w, r, article)
}

func updateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	var patch domain.ArticlePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	article, err := GetRepository(r).UpdateArticle(r.Context(), id, patch)
	if errors.Is(err, db.ErrNotFound) {
		articleNotFound(w, r, id)
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to update article")
		return
	}
	render.JSON(w, r, article)
}

func deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	err = GetRepository(r).DeleteArticle(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		articleNotFound(w, r, id)
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to delete article")
		return
	}
	logging.FromContext(r.Context()).WithField("article_id", id).Info("article deleted")
	w.WriteHeader(http.StatusNoContent)
}
