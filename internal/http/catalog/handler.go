package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oscarfh/bizdesk/internal/catalog"
	"github.com/oscarfh/bizdesk/internal/http/api"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/import", h.importBatch)
}

type itemRequest struct {
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
}

type itemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(it *catalog.Item) itemResponse {
	return itemResponse{
		ID:         it.ID,
		Name:       it.Name,
		UnitPrice:  it.UnitPrice,
		TaxPercent: it.TaxPercent,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
}

func toResponseList(items []*catalog.Item) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = toResponse(it)
	}

	return resp
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.Create(r.Context(), catalog.CreateParams{
		Name:       req.Name,
		UnitPrice:  req.UnitPrice,
		TaxPercent: req.TaxPercent,
	})
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	api.JSON(w, http.StatusCreated, toResponse(item))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	api.JSON(w, http.StatusOK, toResponseList(items))
}

// suggest returns the catalog entry matching a typed description so
// editors can prefill price and tax.
func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		api.Error(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	item, err := h.svc.Suggest(r.Context(), name)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if item == nil {
		api.Error(w, http.StatusNotFound, "no matching catalog item")
		return
	}

	api.JSON(w, http.StatusOK, toResponse(item))
}

func (h *Handler) importBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []itemRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	params := make([]catalog.CreateParams, len(reqs))
	for i, req := range reqs {
		params[i] = catalog.CreateParams{
			Name:       req.Name,
			UnitPrice:  req.UnitPrice,
			TaxPercent: req.TaxPercent,
		}
	}

	items, err := h.svc.CreateBatch(r.Context(), params)
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	api.JSON(w, http.StatusCreated, toResponseList(items))
}
