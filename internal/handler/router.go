package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"github.com/yusufkecer/fitness-tracker-backend/internal/middleware"
	"github.com/yusufkecer/fitness-tracker-backend/internal/token"
)

const maxBodyBytes = 1 << 20

// Deps wires the router to its stores and collaborators.
type Deps struct {
	Users          UserStore
	Activities     ActivityStore
	Tokens         *token.Manager
	Denylist       token.Denylist
	Logger         *zap.Logger
	LoginLimiter   *middleware.RateLimiter
	APIKey         string
	AllowedOrigins string
	// PasswordCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	PasswordCost int
	// Ping reports storage health for /api/health; optional.
	Ping func(ctx context.Context) error
	// Today defaults to domain.Today.
	Today func() domain.Date
}

func NewRouter(d Deps) *mux.Router {
	if d.PasswordCost == 0 {
		d.PasswordCost = bcrypt.DefaultCost
	}
	if d.Today == nil {
		d.Today = domain.Today
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	authHandler := NewAuthHandler(d.Users, d.Tokens, d.Denylist, d.Logger, d.PasswordCost, d.Today)
	userHandler := NewUserHandler(d.Users, d.Logger, d.PasswordCost, d.Today)
	activityHandler := NewActivityHandler(d.Activities, d.Logger, d.Today)

	r := mux.NewRouter()

	// Global middleware: request log → metrics → CORS → security headers → body limit
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORSMiddleware(d.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/health", healthHandler(d.Ping)).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.APIKeyMiddleware(d.APIKey))

	login := http.Handler(http.HandlerFunc(authHandler.Login))
	if d.LoginLimiter != nil {
		login = d.LoginLimiter.Middleware(login)
	}
	handle(api, "/auth/register/", http.HandlerFunc(authHandler.Register), http.MethodPost)
	handle(api, "/auth/login/", login, http.MethodPost)
	handle(api, "/auth/token/refresh/", http.HandlerFunc(authHandler.Refresh), http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(d.Tokens, d.Users, d.Logger))

	handle(protected, "/auth/logout/", http.HandlerFunc(authHandler.Logout), http.MethodPost)

	handle(protected, "/users/me/", http.HandlerFunc(userHandler.Me), http.MethodGet)
	handle(protected, "/users/me/", http.HandlerFunc(userHandler.UpdateMe), http.MethodPut, http.MethodPatch)
	handle(protected, "/users/me/", http.HandlerFunc(userHandler.DeleteMe), http.MethodDelete)
	handle(protected, "/users/change-password/", http.HandlerFunc(userHandler.ChangePassword), http.MethodPost)

	handle(protected, "/activities/metrics/", http.HandlerFunc(activityHandler.Metrics), http.MethodGet)
	handle(protected, "/activities/type-stats/", http.HandlerFunc(activityHandler.TypeStats), http.MethodGet)
	handle(protected, "/activities/recent/", http.HandlerFunc(activityHandler.Recent), http.MethodGet)
	handle(protected, "/activities/", http.HandlerFunc(activityHandler.List), http.MethodGet)
	handle(protected, "/activities/", http.HandlerFunc(activityHandler.Create), http.MethodPost)
	handle(protected, "/activities/{id:[0-9]+}/", http.HandlerFunc(activityHandler.Get), http.MethodGet)
	handle(protected, "/activities/{id:[0-9]+}/", http.HandlerFunc(activityHandler.Update), http.MethodPut)
	handle(protected, "/activities/{id:[0-9]+}/", http.HandlerFunc(activityHandler.Patch), http.MethodPatch)
	handle(protected, "/activities/{id:[0-9]+}/", http.HandlerFunc(activityHandler.Delete), http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// handle registers path both with and without its trailing slash.
func handle(r *mux.Router, path string, h http.Handler, methods ...string) {
	methods = append(methods, http.MethodOptions)
	r.Handle(path, h).Methods(methods...)
	r.Handle(strings.TrimSuffix(path, "/"), h).Methods(methods...)
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
