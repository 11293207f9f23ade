package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/gorilla/mux"
)

func (h *Handler) getMenus(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	filter := domain.MenuFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	}

	items, err := h.Menus.List(r.Context(), id, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// readMenuForm accepts either a multipart form with an optional image part or
// a plain JSON body.
func readMenuForm(r *http.Request) (domain.MenuInput, *service.Upload, func(), error) {
	var input domain.MenuInput
	if !isMultipart(r) {
		err := json.NewDecoder(r.Body).Decode(&input)
		return input, nil, func() {}, err
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return input, nil, func() {}, err
	}
	input = domain.MenuInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Category:    r.FormValue("category"),
	}
	image, closeImage, err := formImage(r)
	return input, image, closeImage, err
}

func (h *Handler) createMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	input, image, closeImage, err := readMenuForm(r)
	defer closeImage()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Menus.Create(r.Context(), id, input, image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	menuID, _ := strconv.Atoi(mux.Vars(r)["id"])
	input, image, closeImage, err := readMenuForm(r)
	defer closeImage()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Menus.Update(r.Context(), id, menuID, input, image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	menuID, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Menus.Delete(r.Context(), id, menuID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleMenuAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	menuID, _ := strconv.Atoi(mux.Vars(r)["id"])

	available, err := h.Menus.ToggleAvailability(r.Context(), id, menuID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": menuID, "is_available": available})
}
