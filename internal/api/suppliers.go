package api

import (
	"net/http"

	"pharmasync/m/internal/service"
)

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) supplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "supplier")
	if !ok {
		return
	}
	sp, err := h.svc.Supplier(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sp)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req service.SupplierInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sp, err := h.svc.CreateSupplier(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sp)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "supplier")
	if !ok {
		return
	}
	var req service.SupplierInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sp, err := h.svc.UpdateSupplier(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sp)
}
