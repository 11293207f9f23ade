package httpapi

import (
	"encoding/json"
	"net/http"

	"kantin-dashboard/dashboard-svc/internal/service"
)

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	rest, err := h.Restaurants.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var body struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	}
	var image *service.Upload
	closeImage := func() {}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "File too large", http.StatusBadRequest)
			return
		}
		body.Title = r.FormValue("title")
		body.Subtitle = r.FormValue("subtitle")
		var err error
		if image, closeImage, err = formImage(r); err != nil {
			http.Error(w, "Error retrieving file", http.StatusBadRequest)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer closeImage()

	rest, err := h.Restaurants.UpdateProfile(r.Context(), id, body.Title, body.Subtitle, image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) setRestaurantOpen(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var body struct {
		IsOpen *bool `json:"is_open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsOpen == nil {
		http.Error(w, "is_open is required", http.StatusBadRequest)
		return
	}

	rest, err := h.Restaurants.SetOpen(r.Context(), id, *body.IsOpen)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}
