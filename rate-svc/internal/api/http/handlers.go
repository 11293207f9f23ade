package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"kantin-dashboard/rate-svc/internal/service"
	"kantin-dashboard/session"

	"github.com/gorilla/mux"
)

type Handler struct {
	Ratings service.RatingServiceInterface
}

func NewHandler(ratings service.RatingServiceInterface) *Handler {
	return &Handler{Ratings: ratings}
}

func (h *Handler) RegisterRoutes(r *mux.Router, protect mux.MiddlewareFunc) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	api := r.PathPrefix("/api/ratings").Subrouter()
	api.Use(protect)
	api.HandleFunc("", h.getRestaurantRatings).Methods("GET")
	api.HandleFunc("/summary", h.getSummary).Methods("GET")
	api.HandleFunc("/orders/{orderId:[0-9]+}", h.getOrderRating).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"service":   "rate-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func identity(w http.ResponseWriter, r *http.Request) (session.Identity, bool) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, session.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
	}
	return id, ok
}

func (h *Handler) getRestaurantRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.Ratings.ForRestaurant(r.Context(), id))
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.Ratings.Summary(r.Context(), id))
}

// getOrderRating answers null when the order has not been rated.
func (h *Handler) getOrderRating(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	orderID, _ := strconv.Atoi(mux.Vars(r)["orderId"])
	writeJSON(w, h.Ratings.ByOrder(r.Context(), id, orderID))
}
