package document

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/http/api"
)

type Handler struct {
	svc *document.Service
}

func NewHandler(svc *document.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req document.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.svc.Create(r.Context(), document.CreateParams{
		Kind:      req.Kind,
		Number:    req.Number,
		Party:     document.PartyFromPayload(req.Party),
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
		Items:     document.ItemsFromPayload(req.Items),
	})
	if err != nil {
		if errors.Is(err, document.ErrDuplicateNumber) {
			api.Error(w, http.StatusConflict, err.Error())
			return
		}

		api.Error(w, http.StatusBadRequest, err.Error())

		return
	}

	api.JSON(w, http.StatusCreated, document.ToResponse(doc))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := document.ListFilter{}

	if s := r.URL.Query().Get("kind"); s != "" {
		filter.Kind = new(document.Kind(s))
	}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(document.Status(s))
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	docs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	api.JSON(w, http.StatusOK, document.ToResponseList(docs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	doc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "document not found")
			return
		}

		api.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	api.JSON(w, http.StatusOK, document.ToResponse(doc))
}

type updateStatusRequest struct {
	Status document.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "document not found")
			return
		}

		api.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
