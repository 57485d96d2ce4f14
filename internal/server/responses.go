package server

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/taiwon1/sprint3/internal/domain"
	"github.com/taiwon1/sprint3/internal/logging"
)

func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr domain.ApiError) {
	render.Status(r, status)
	render.JSON(w, r, apiErr)
}

func badRequest(w http.ResponseWriter, r *http.Request, details ...string) {
	respondError(w, r, http.StatusBadRequest, domain.ApiError{
		Type:    domain.ApiErrorTypeBadParam,
		Details: details,
	})
}

func resourceNotFound(w http.ResponseWriter, r *http.Request, details ...string) {
	respondError(w, r, http.StatusNotFound, domain.ApiError{
		Type:    domain.ApiErrorTypeNotFound,
		Details: details,
	})
}

// internalError logs err against the request and hides it from the client.
func internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logging.FromContext(r.Context()).WithError(err).Error(msg)
	respondError(w, r, http.StatusInternalServerError, domain.ApiError{
		Type:    domain.ApiErrorTypeUnknown,
		Details: []string{"An unknown error has occurred"},
	})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	render.Status(r, status)
	render.JSON(w, r, body)
}
