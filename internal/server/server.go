//go:generate go run github.com/abice/go-enum@v0.5.6

package server

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/taiwon1/sprint3/internal/db"
	"github.com/taiwon1/sprint3/internal/domain"
	"github.com/taiwon1/sprint3/internal/logging"
	"github.com/taiwon1/sprint3/internal/metrics"
	"github.com/taiwon1/sprint3/internal/storage"
)

// Env holds the collaborators shared by every request.
type Env struct {
	Logger *logrus.Logger
	DB     db.DBConnection
	Images storage.ImageStore
	// PublicKey verifies bearer tokens on mutating requests. Writes are open
	// when it is nil.
	PublicKey      *rsa.PublicKey
	RequestTimeout time.Duration
}

// GetAuthInfo returns the verified caller of a mutating request. It reports
// false for reads and when authentication is disabled.
func GetAuthInfo(r *http.Request) (auth domain.AuthInfo, ok bool) {
	auth, ok = r.Context().Value(ContextKeyAuth).(domain.AuthInfo)
	return
}

func GetRepository(r *http.Request) (repo db.Repository) {
	ctx := r.Context()
	repo, ok := ctx.Value(ContextKeyRepository).(db.Repository)
	if !ok {
		panic("missing required repository")
	}
	return
}

// ENUM(auth, repository)
type contextKey int

func parseBearerToken(r *http.Request) (bearerToken string, err error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		err = fmt.Errorf("missing required Authorization header")
		return
	}
	bearerToken, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		err = fmt.Errorf("unsupported or malformed Authorization header (only Bearer scheme is supported)")
		return
	}
	bearerToken = strings.TrimSpace(bearerToken)
	if bearerToken == "" {
		err = fmt.Errorf("malformed Authorization header missing bearer token")
	}
	return
}

func checkAuthentication(r *http.Request, publicKey *rsa.PublicKey) (authInfo domain.AuthInfo, err error) {
	bearerToken, err := parseBearerToken(r)
	if err != nil {
		return
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name, jwt.SigningMethodRS384.Name, jwt.SigningMethodRS512.Name}))
	var claims jwt.RegisteredClaims
	authToken, err := parser.ParseWithClaims(bearerToken, &claims, func(t *jwt.Token) (interface{}, error) {
		return publicKey, nil
	})
	if err != nil {
		err = fmt.Errorf("invalid auth token: %w", err)
		return
	}
	if !authToken.Valid {
		err = fmt.Errorf("invalid auth token")
		return
	}
	authInfo = domain.AuthInfo{Subject: claims.Subject}
	return
}

func database(conn db.DBConnection) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			repo := db.NewRepository(conn)
			r = r.WithContext(context.WithValue(r.Context(), ContextKeyRepository, repo))
			next.ServeHTTP(w, r)
		})
	}
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func authentication(publicKey *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicKey == nil || isReadOnly(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			authInfo, err := checkAuthentication(r, publicKey)
			if err != nil {
				logging.FromContext(r.Context()).WithError(err).Info("rejected unauthenticated request")
				w.Header().Set("WWW-Authenticate", `Bearer, charset="UTF-8"`)
				respondError(w, r, http.StatusUnauthorized, domain.ApiError{Type: domain.ApiErrorTypeUnauthorized})
				return
			}
			entry := logging.FromContext(r.Context()).WithField("subject", authInfo.Subject)
			ctx := logging.WithEntry(r.Context(), entry)
			r = r.WithContext(context.WithValue(ctx, ContextKeyAuth, authInfo))
			next.ServeHTTP(w, r)
		})
	}
}

func addHostToRequestURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Host = r.Host
		if r.TLS != nil {
			r.URL.Scheme = "https"
		} else {
			r.URL.Scheme = "http"
		}
		next.ServeHTTP(w, r)
	})
}

type rootResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

func root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, rootResponse{
		Message:   "API Server",
		Endpoints: []string{"/products", "/articles"},
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, domain.ApiError{
		Type:    domain.ApiErrorTypeNotFound,
		Details: []string{fmt.Sprintf("no such endpoint: %s %s", r.Method, r.URL.Path)},
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, domain.ApiError{
		Type:    domain.ApiErrorTypeBadParam,
		Details: []string{fmt.Sprintf("method %s is not allowed on %s", r.Method, r.URL.Path)},
	})
}

// newRouter returns a router answering unknown routes and methods with ApiError
// bodies. Every mounted subrouter is built this way so the handlers apply at
// any depth.
func newRouter() *chi.Mux {
	router := chi.NewRouter()
	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)
	return router
}

// FIXME: probably MUCH better to use JWKS here so we don't have to restart the server to change keys.
func New(env Env) (*chi.Mux, error) {
	if env.Logger == nil {
		return nil, errors.New("server requires a logger")
	}
	if env.DB == nil {
		return nil, errors.New("server requires a database connection")
	}
	if env.Images == nil {
		return nil, errors.New("server requires an image store")
	}
	if env.RequestTimeout <= 0 {
		env.RequestTimeout = 15 * time.Second
	}

	router := newRouter()
	router.Use(middleware.RequestID)
	router.Use(logging.RequestLogger(env.Logger))
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(middleware.Heartbeat("/health"))
	router.Use(middleware.Timeout(env.RequestTimeout))
	router.Use(addHostToRequestURL)
	router.Use(authentication(env.PublicKey))
	router.Use(database(env.DB))

	router.Get("/", root)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Mount("/articles", NewArticlesRouter())
	router.Mount("/products", NewProductsRouter(env.Images))

	return router, nil
}
