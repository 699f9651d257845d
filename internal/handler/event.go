package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"ecc-register/internal/live"
	"ecc-register/internal/model"
	"ecc-register/internal/store"
)

type EventHandler struct {
	eventStore *store.EventStore
	feed       *live.Feed
	logger     *slog.Logger
}

func NewEventHandler(es *store.EventStore, feed *live.Feed, logger *slog.Logger) *EventHandler {
	return &EventHandler{eventStore: es, feed: feed, logger: logger}
}

type eventRequest struct {
	Name string `json:"name"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	event, err := h.eventStore.Create(req.Name)
	if err != nil {
		h.logger.Error("create event", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	h.feed.PublishEvents()
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventStore.List()
	if err != nil {
		h.logger.Error("list events", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventStore.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get event", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event == nil {
		errorJSON(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.eventStore.GetByID(id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if existing == nil {
		errorJSON(w, http.StatusNotFound, "event not found")
		return
	}

	if err := h.eventStore.Delete(id); err != nil {
		h.logger.Error("delete event", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	h.feed.PublishEvents()
	w.WriteHeader(http.StatusNoContent)
}
