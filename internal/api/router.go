package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mythcatalog/internal/api/handler"
	"github.com/mcoot/mythcatalog/internal/api/middleware"
	"github.com/mcoot/mythcatalog/internal/api/response"
	"github.com/mcoot/mythcatalog/internal/services/auth"
	"github.com/mcoot/mythcatalog/internal/services/catalog"
	"github.com/mcoot/mythcatalog/internal/storage"
)

// WelcomeMessage is served at the API root
const WelcomeMessage = "Welcome to the myth catalog API."

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	CatalogService *catalog.Service
	Storage        storage.Storage
	// RateLimiter throttles the /api/user endpoints. Nil disables throttling.
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService, cfg.Storage, cfg.Logger)
	creatureHandler := handler.NewCreatureHandler(cfg.CatalogService, cfg.Logger)
	categoryHandler := handler.NewCategoryHandler(cfg.CatalogService, cfg.Logger)
	questionHandler := handler.NewQuestionHandler(cfg.CatalogService, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/", welcomeHandler).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// User routes, rate limited per client
	users := api.PathPrefix("/user").Subrouter()
	users.Use(middleware.RateLimit(cfg.RateLimiter))
	users.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	users.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)
	users.Handle("/me", protected(userHandler.Me)).Methods(http.MethodGet)

	// Creature routes: reads are public, writes need a token
	api.HandleFunc("/creatures", creatureHandler.List).Methods(http.MethodGet)
	api.Handle("/creatures", protected(creatureHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/creatures/{id}", creatureHandler.Get).Methods(http.MethodGet)
	api.Handle("/creatures/{id}", protected(creatureHandler.Update)).Methods(http.MethodPut)
	api.Handle("/creatures/{id}", protected(creatureHandler.Delete)).Methods(http.MethodDelete)

	// Category routes
	api.HandleFunc("/categories", categoryHandler.List).Methods(http.MethodGet)
	api.Handle("/categories", protected(categoryHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", categoryHandler.Get).Methods(http.MethodGet)
	api.Handle("/categories/{id}", protected(categoryHandler.Update)).Methods(http.MethodPut)
	api.Handle("/categories/{id}", protected(categoryHandler.Delete)).Methods(http.MethodDelete)

	// Question routes
	api.HandleFunc("/questions", questionHandler.List).Methods(http.MethodGet)
	api.Handle("/questions", protected(questionHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/questions/{id}", questionHandler.Get).Methods(http.MethodGet)
	api.Handle("/questions/{id}", protected(questionHandler.Update)).Methods(http.MethodPut)
	api.Handle("/questions/{id}", protected(questionHandler.Delete)).Methods(http.MethodDelete)

	// CORS wraps the whole router so preflight requests never hit method matching
	return middleware.CORS()(r)
}

func welcomeHandler(w http.ResponseWriter, _ *http.Request) {
	response.Text(w, http.StatusOK, WelcomeMessage)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
