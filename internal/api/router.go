package api

import (
	"context"
	"encoding/json"
	"net/http"

	"skinpricer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"
)

type InventoryPricer interface {
	PriceInventory(ctx context.Context, steamID string) ([]domain.EnrichedItem, error)
}

// Server holds the HTTP server dependencies
type Server struct {
	pricer InventoryPricer
	router chi.Router
}

// New creates a new API server
func New(pricer InventoryPricer) *Server {
	s := &Server{
		pricer: pricer,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.StandardLogger(), NoColor: true}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/inventory/{steamID}", s.handleGetInventory)
	})
}

type inventoryResponse struct {
	Items []domain.EnrichedItem `json:"items"`
	Count int                   `json:"count"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func (s *Server) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	steamID := chi.URLParam(r, "steamID")

	items, err := s.pricer.PriceInventory(r.Context(), steamID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, inventoryResponse{Items: items, Count: len(items)})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warnf("Failed to write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	reason := domain.Reason(err)

	var status int
	var message string
	switch reason {
	case domain.ReasonInvalidRequest:
		status, message = http.StatusBadRequest, "invalid steam id"
	case domain.ReasonSourceUnavailable:
		status, message = http.StatusBadGateway, "could not load the inventory, try again; it may be private"
	case domain.ReasonNoItems:
		status, message = http.StatusUnprocessableEntity, "no valid items in the inventory"
	case domain.ReasonStoreUnavailable:
		status, message = http.StatusServiceUnavailable, "price service unavailable, try again later"
	default:
		status, message = http.StatusInternalServerError, "internal error"
	}

	if domain.Retryable(err) {
		w.Header().Set("Retry-After", "5")
	}
	respondJSON(w, status, errorResponse{Error: message, Reason: reason})
}
