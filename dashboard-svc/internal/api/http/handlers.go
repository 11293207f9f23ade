package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"kantin-dashboard/dashboard-svc/internal/service"
	"kantin-dashboard/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxUploadSize = 10 << 20

type Handler struct {
	Orders      service.OrderServiceInterface
	Menus       service.MenuServiceInterface
	Restaurants service.RestaurantServiceInterface
	Auth        service.AuthServiceInterface
	Feed        *Hub
	logger      *zap.Logger
}

func NewHandler(
	orders service.OrderServiceInterface,
	menus service.MenuServiceInterface,
	restaurants service.RestaurantServiceInterface,
	auth service.AuthServiceInterface,
	feed *Hub,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Orders:      orders,
		Menus:       menus,
		Restaurants: restaurants,
		Auth:        auth,
		Feed:        feed,
		logger:      logger,
	}
}

// RegisterRoutes mounts the public auth routes on r and everything else behind
// protect, which must attach a session.Identity to the request context.
func (h *Handler) RegisterRoutes(r *mux.Router, protect mux.MiddlewareFunc) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/signin", h.signIn).Methods("POST")
	r.HandleFunc("/api/auth/password/forgot", h.forgotPassword).Methods("POST")
	r.HandleFunc("/api/auth/password/reset", h.resetPassword).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(protect)

	api.HandleFunc("/auth/signout", h.signOut).Methods("POST")
	api.HandleFunc("/auth/refresh", h.refresh).Methods("POST")
	api.HandleFunc("/auth/password", h.changePassword).Methods("POST")

	api.HandleFunc("/restaurant", h.getRestaurant).Methods("GET")
	api.HandleFunc("/restaurant", h.updateRestaurant).Methods("PUT")
	api.HandleFunc("/restaurant/open", h.setRestaurantOpen).Methods("PATCH")

	api.HandleFunc("/menus", h.getMenus).Methods("GET")
	api.HandleFunc("/menus", h.createMenu).Methods("POST")
	api.HandleFunc("/menus/{id:[0-9]+}", h.updateMenu).Methods("PUT")
	api.HandleFunc("/menus/{id:[0-9]+}", h.deleteMenu).Methods("DELETE")
	api.HandleFunc("/menus/{id:[0-9]+}/availability", h.toggleMenuAvailability).Methods("PATCH")

	api.HandleFunc("/orders", h.getOrders).Methods("GET")
	api.HandleFunc("/orders/feed", h.orderFeed).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}", h.getOrder).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/qrcode", h.getOrderQRCode).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/status", h.updateOrderStatus).Methods("PATCH")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "dashboard-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func identity(w http.ResponseWriter, r *http.Request) (session.Identity, bool) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, session.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
	}
	return id, ok
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	var partial *service.PartialUpdateError
	switch {
	case errors.As(err, &partial):
		return http.StatusInternalServerError
	case service.IsValidation(err), errors.Is(err, service.ErrInvalidOTP):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrMenuNotFound),
		errors.Is(err, service.ErrRestaurantNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStatusConflict),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// formImage returns the optional "image" part of a multipart request.
func formImage(r *http.Request) (*service.Upload, func(), error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	upload := &service.Upload{
		Reader:      file,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}
	return upload, func() { file.Close() }, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
