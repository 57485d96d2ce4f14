package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
	"github.com/taiwon1/sprint3/internal/db"
	"github.com/taiwon1/sprint3/internal/domain"
	"github.com/taiwon1/sprint3/internal/logging"
	"github.com/taiwon1/sprint3/internal/metrics"
	"github.com/taiwon1/sprint3/internal/paging"
)

// NewCommentsRouter serves the comments of one kind of parent. It expects the
// parent id in the "id" URL parameter of an enclosing route.
func NewCommentsRouter(target domain.CommentTarget) *chi.Mux {
	comments := commentsHandler{target: target}
	commentsRouter := newRouter()
	commentsRouter.Get("/", comments.list)
	commentsRouter.Post("/", comments.create)
	commentsRouter.Patch("/{commentId}", comments.update)
	commentsRouter.Delete("/{commentId}", comments.delete)
	return commentsRouter
}

type commentsHandler struct {
	target domain.CommentTarget
}

func (h commentsHandler) parentNotFound(w http.ResponseWriter, r *http.Request, id int64) {
	resourceNotFound(w, r, fmt.Sprintf("%s %d not found", h.target, id))
}

func (h commentsHandler) commentNotFound(w http.ResponseWriter, r *http.Request, parentID int64, commentID string) {
	resourceNotFound(w, r, fmt.Sprintf("comment %s not found on %s %d", commentID, h.target, parentID))
}

func (h commentsHandler) checkParent(ctx context.Context, repo db.Repository, id int64) (err error) {
	switch h.target {
	case domain.CommentTargetArticle:
		_, err = repo.FetchArticle(ctx, id)
	case domain.CommentTargetProduct:
		_, err = repo.FetchProduct(ctx, id)
	default:
		err = fmt.Errorf("unsupported comment target %s", h.target)
	}
	return
}

func (h commentsHandler) list(w http.ResponseWriter, r *http.Request) {
	parentID, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	params, errs := parseCommentPageParams(r)
	if len(errs) > 0 {
		badRequest(w, r, errs...)
		return
	}

	ctx := r.Context()
	repo := GetRepository(r)
	err = h.checkParent(ctx, repo, parentID)
	if errors.Is(err, db.ErrNotFound) {
		h.parentNotFound(w, r, parentID)
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to fetch comment parent")
		return
	}

	served := func(outcome string) {
		metrics.CommentPagesTotal.WithLabelValues(h.target.String(), outcome).Inc()
	}
	page, err := paging.FetchPage[domain.Comment](ctx, repo.Comments(h.target), domain.CommentsOf(parentID), domain.CommentOrder, params.Limit, params.Cursor)
	switch {
	case errors.Is(err, paging.ErrInvalidCursor):
		served(metrics.OutcomeInvalidCursor)
		respondError(w, r, http.StatusBadRequest, domain.ApiError{
			Type:    domain.ApiErrorTypeInvalidCursor,
			Details: []string{"cursor: " + err.Error()},
		})
		return
	case errors.Is(err, paging.ErrInvalidLimit), errors.Is(err, paging.ErrInsufficientSortKeys):
		served(metrics.OutcomeError)
		badRequest(w, r, err.Error())
		return
	case err != nil:
		served(metrics.OutcomeError)
		internalError(w, r, err, "failed to fetch comment page")
		return
	}
	served(metrics.OutcomeOK)

	if page.HasNext {
		next := domain.URL{URL: r.URL}.ModifyQuery(func(query url.Values) {
			query.Set("cursor", *page.NextCursor)
			query.Set("limit", strconv.Itoa(params.Limit))
		})
		w.Header().Set("Link", next.Link("next"))
	}
	render.JSON(w, r, page)
}

func (h commentsHandler) create(w http.ResponseWriter, r *http.Request) {
	parentID, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	var input domain.CommentInput
	if !decodeBody(w, r, &input) {
		return
	}
	comment, err := GetRepository(r).InsertComment(r.Context(), h.target, parentID, input)
	if errors.Is(err, db.ErrNotFound) {
		h.parentNotFound(w, r, parentID)
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to insert comment")
		return
	}
	logging.FromContext(r.Context()).WithFields(logrus.Fields{
		"target":     h.target.String(),
		"parent_id":  parentID,
		"comment_id": comment.ID,
	}).Info("comment created")
	respondJSON(w, r, http.StatusCreated, comment)
}

// commentID parses the comment path parameter. A malformed id cannot name an
// existing comment, so it is reported as not found.
func (h commentsHandler) commentID(w http.ResponseWriter, r *http.Request, parentID int64) (id int64, ok bool) {
	id, err := parseID(r, "commentId")
	if err != nil {
		h.commentNotFound(w, r, parentID, chi.URLParam(r, "commentId"))
		return
	}
	ok = true
	return
}

func (h commentsHandler) update(w http.ResponseWriter, r *http.Request) {
	parentID, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	commentID, ok := h.commentID(w, r, parentID)
	if !ok {
		return
	}
	var input domain.CommentInput
	if !decodeBody(w, r, &input) {
		return
	}
	comment, err := GetRepository(r).UpdateComment(r.Context(), h.target, parentID, commentID, input)
	if errors.Is(err, db.ErrNotFound) {
		h.commentNotFound(w, r, parentID, strconv.FormatInt(commentID, 10))
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to update comment")
		return
	}
	render.JSON(w, r, comment)
}

func (h commentsHandler) delete(w http.ResponseWriter, r *http.Request) {
	parentID, err := parseID(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	commentID, ok := h.commentID(w, r, parentID)
	if !ok {
		return
	}
	err = GetRepository(r).DeleteComment(r.Context(), h.target, parentID, commentID)
	if errors.Is(err, db.ErrNotFound) {
		h.commentNotFound(w, r, parentID, strconv.FormatInt(commentID, 10))
		return
	}
	if err != nil {
		internalError(w, r, err, "failed to delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
