package api

import (
	"net/http"

	"pharmasync/m/domain"
	"pharmasync/m/internal/service"
)

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.MedicineFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Stock:    q.Get("stock"),
		Sort:     q.Get("sort"),
	}
	medicines, err := h.svc.ListMedicines(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) inStockMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.svc.InStockMedicines(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) medicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "medicine")
	if !ok {
		return
	}
	detail, err := h.svc.Medicine(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var req service.MedicineInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.svc.CreateMedicine(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "medicine")
	if !ok {
		return
	}
	var req service.MedicineInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.svc.UpdateMedicine(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "medicine")
	if !ok {
		return
	}
	if err := h.svc.DeleteMedicine(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
