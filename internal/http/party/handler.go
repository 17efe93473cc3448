package party

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/http/api"
	"github.com/oscarfh/bizdesk/internal/party"
)

type Handler struct {
	svc *party.Service
}

func NewHandler(svc *party.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

type partyRequest struct {
	Role    party.Role              `json:"role"`
	Name    string                  `json:"name"`
	Email   string                  `json:"email,omitempty"`
	Phone   string                  `json:"phone,omitempty"`
	Address document.AddressPayload `json:"address"`
}

type partyResponse struct {
	ID        uuid.UUID               `json:"id"`
	Role      party.Role              `json:"role"`
	Name      string                  `json:"name"`
	Email     string                  `json:"email,omitempty"`
	Phone     string                  `json:"phone,omitempty"`
	Address   document.AddressPayload `json:"address"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt *time.Time              `json:"updated_at,omitempty"`
}

func toResponse(p *party.Party) partyResponse {
	return partyResponse{
		ID:        p.ID,
		Role:      p.Role,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   document.AddressToPayload(p.Address),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req partyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), party.CreateParams{
		Role:    req.Role,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: document.AddressFromPayload(req.Address),
	})
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	api.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := party.ListFilter{}

	if s := r.URL.Query().Get("role"); s != "" {
		filter.Role = new(party.Role(s))
	}

	parties, err := h.svc.List(r.Context(), filter)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]partyResponse, len(parties))
	for i, p := range parties {
		resp[i] = toResponse(p)
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, party.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "party not found")
			return
		}

		api.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	api.JSON(w, http.StatusOK, toResponse(p))
}
