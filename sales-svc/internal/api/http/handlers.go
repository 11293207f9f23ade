package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"kantin-dashboard/sales-svc/internal/service"
	"kantin-dashboard/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Sales  service.SalesServiceInterface
	loc    *time.Location
	logger *zap.Logger
}

func NewHandler(sales service.SalesServiceInterface, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Sales: sales, loc: loc, logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router, protect mux.MiddlewareFunc) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	api := r.PathPrefix("/api/sales").Subrouter()
	api.Use(protect)
	api.HandleFunc("/summary", h.getSummary).Methods("GET")
	api.HandleFunc("/daily", h.getDaily).Methods("GET")
	api.HandleFunc("/report", h.getReport).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "sales-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
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

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("sales request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var month time.Time
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, h.loc)
		if err != nil {
			http.Error(w, "invalid month parameter: "+strconv.Quote(raw), http.StatusBadRequest)
			return
		}
		month = parsed
	}

	summary, err := h.Sales.Summary(r.Context(), id, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) getDaily(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	daily, err := h.Sales.Daily(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, daily)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	report, err := h.Sales.Report(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteReportCSV(&buf, report); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename()+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
