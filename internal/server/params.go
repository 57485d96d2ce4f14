package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/taiwon1/sprint3/internal/domain"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// parseID reads a positive integer path parameter.
func parseID(r *http.Request, name string) (id int64, err error) {
	raw := chi.URLParam(r, name)
	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		err = fmt.Errorf("%s: must be a positive integer", name)
	}
	return
}

func parseLimit(query url.Values) (limit int, errs []string) {
	limit = DefaultLimit
	raw := query.Get("limit")
	if raw == "" {
		return
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		errs = append(errs, "limit: must be a positive integer")
		return
	}
	if limit > MaxLimit {
		limit = MaxLimit
		errs = append(errs, fmt.Sprintf("limit: must be less than or equal to %d", MaxLimit))
	}
	return
}

func parseListParams(r *http.Request) (params domain.ListParams, errs []string) {
	query := r.URL.Query()
	params.Limit, errs = parseLimit(query)

	offset := query.Get("offset")
	if offset != "" {
		var err error
		params.Offset, err = strconv.Atoi(offset)
		if err != nil || params.Offset < 0 {
			errs = append(errs, "offset: must be a non-negative integer")
		}
	}

	params.Keyword = strings.TrimSpace(query.Get("keyword"))
	return
}

type commentPageParams struct {
	Limit  int
	Cursor string
}

func parseCommentPageParams(r *http.Request) (params commentPageParams, errs []string) {
	query := r.URL.Query()
	params.Limit, errs = parseLimit(query)
	params.Cursor = query.Get("cursor")
	return
}

// decodeBody reads a JSON payload into target and validates it, answering
// the request with a 400 when either step fails.
func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	defer r.Body.Close()
	if err := render.DecodeJSON(r.Body, target); err != nil {
		badRequest(w, r, "body: must be a valid JSON object")
		return false
	}
	if errs := domain.Validate(target); len(errs) > 0 {
		badRequest(w, r, errs...)
		return false
	}
	return true
}
