package api

import (
	"net/http"

	"pharmasync/m/internal/service"
)

// Purchase orders

func (h *Handler) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListPurchaseOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) purchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "purchase order")
	if !ok {
		return
	}
	order, err := h.svc.PurchaseOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PurchaseOrderInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.svc.CreatePurchaseOrder(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) completePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "purchase order")
	if !ok {
		return
	}
	order, err := h.svc.CompletePurchaseOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) cancelPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "purchase order")
	if !ok {
		return
	}
	order, err := h.svc.CancelPurchaseOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Sales

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) sale(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "sale")
	if !ok {
		return
	}
	sale, err := h.svc.Sale(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req service.SaleInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := h.svc.CreateSale(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}
