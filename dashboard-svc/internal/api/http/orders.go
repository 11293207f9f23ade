package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"

	"github.com/gorilla/mux"
)

type orderDetail struct {
	*domain.Order
	AllowedTransitions []domain.OrderStatus `json:"allowed_transitions"`
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	filter, err := parseOrderFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orders, err := h.Orders.List(r.Context(), id, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func parseOrderFilter(r *http.Request) (domain.OrderFilter, error) {
	query := r.URL.Query()
	filter := domain.OrderFilter{Fresh: query.Get("refresh") == "1"}

	if status := query.Get("status"); status != "" {
		filter.Status = domain.OrderStatus(status)
		if !filter.Status.Valid() {
			return filter, &queryError{param: "status", value: status}
		}
	}
	for param, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		t, err := parseTime(raw)
		if err != nil {
			return filter, &queryError{param: param, value: raw}
		}
		*dst = &t
	}
	return filter, nil
}

// parseTime accepts RFC 3339 timestamps or plain dates.
func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

type queryError struct {
	param string
	value string
}

func (e *queryError) Error() string {
	return "invalid " + e.param + " parameter: " + strconv.Quote(e.value)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	order, err := h.Orders.Get(r.Context(), id, orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderDetail{Order: order, AllowedTransitions: domain.NextStatuses(order.Status)})
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	var body struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.UpdateStatus(r.Context(), id, orderID, body.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderDetail{Order: order, AllowedTransitions: domain.NextStatuses(order.Status)})
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	qrCode, err := h.Orders.QRCode(r.Context(), id, orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}
