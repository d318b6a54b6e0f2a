package api

import (
	"fmt"
	"net/http"
	"strconv"

	"pharmasync/m/domain"
)

func (h *Handler) reportRange(w http.ResponseWriter, r *http.Request) (domain.DateRange, bool) {
	q := r.URL.Query()
	rng, err := h.svc.ParseRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		respondServiceError(w, r, err)
		return rng, false
	}
	return rng, true
}

func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.reportRange(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.SalesSummary(r.Context(), rng)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.reportRange(w, r)
	if !ok {
		return
	}
	l, err := h.svc.Ledger(r.Context(), rng)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (h *Handler) downloadLedger(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.reportRange(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.ExportLedger(r.Context(), rng)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=PharmaSync_Report_%s.pdf", rng.Start.Format("2006-01-02")))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
