package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pharmasync/m/domain"
	"pharmasync/m/internal/service"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	svc         *service.Service
	corsOrigins []string
}

// New constructs a Handler.
func New(svc *service.Service, corsOrigins []string) *Handler {
	return &Handler{svc: svc, corsOrigins: corsOrigins}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !wildcardOrigin(h.corsOrigins),
	}))

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.loginInfo)
		r.Post("/login", h.login)
		r.Post("/register", h.register)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/logout", h.logout)
			protected.Post("/reset-password", h.resetPassword)
			protected.Get("/me", h.me)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Get("/dashboard", h.dashboard)

		pr.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Post("/", h.createMedicine)
			r.Get("/categories", h.categories)
			r.Get("/in-stock", h.inStockMedicines)
			r.Get("/{id}", h.medicine)
			r.Put("/{id}", h.updateMedicine)
			r.Delete("/{id}", h.deleteMedicine)
		})

		pr.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.createSupplier)
			r.Get("/{id}", h.supplier)
			r.Put("/{id}", h.updateSupplier)
		})

		pr.Route("/purchase-orders", func(r chi.Router) {
			r.Get("/", h.listPurchaseOrders)
			r.Post("/", h.createPurchaseOrder)
			r.Get("/{id}", h.purchaseOrder)
			r.Post("/{id}/complete", h.completePurchaseOrder)
			r.Post("/{id}/cancel", h.cancelPurchaseOrder)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Post("/", h.createSale)
			r.Get("/{id}", h.sale)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/", h.salesReport)
			r.Get("/ledger", h.ledger)
			r.Get("/download", h.downloadLedger)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

// wildcardOrigin reports whether origins admits every site. Session cookies
// are only shared with explicitly listed origins.
func wildcardOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

func idParam(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid "+what+" id")
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

var statusByKind = map[domain.Kind]int{
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindRule:         http.StatusUnprocessableEntity,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindPersistence:  http.StatusInternalServerError,
	domain.KindExport:       http.StatusInternalServerError,
}

// respondServiceError maps a service failure onto a status code and message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	switch kind {
	case domain.KindPersistence:
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		respondError(w, status, domain.MessageOf(err))
	case domain.KindExport:
		log.Printf("[%s] export failed: %v", middleware.GetReqID(r.Context()), err)
		respondError(w, status, err.Error())
	default:
		respondError(w, status, domain.MessageOf(err))
	}
}
