package analytics

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oscarfh/bizdesk/internal/analytics"
	"github.com/oscarfh/bizdesk/internal/http/api"
)

type Handler struct {
	svc    *analytics.Service
	broker *analytics.Broker
}

func NewHandler(svc *analytics.Service, broker *analytics.Broker) *Handler {
	return &Handler{svc: svc, broker: broker}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/events", h.events)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	api.JSON(w, http.StatusOK, summary)
}

// events serves the push channel as a Server-Sent Events stream. The
// first message is a snapshot carrying the full summary; afterwards
// each document mutation arrives as a bare update signal telling the
// consumer to refetch.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, cancel := h.broker.Subscribe()
	defer cancel()

	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		slog.Error("failed to build snapshot", "error", err)
		return
	}

	if err := writeEvent(w, analytics.Event{Type: analytics.EventSnapshot, Summary: summary}); err != nil {
		return
	}

	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}

			if err := writeEvent(w, ev); err != nil {
				return
			}

			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev analytics.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	return nil
}
