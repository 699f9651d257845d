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

type TotalHandler struct {
	totalStore *store.TotalStore
	feed       *live.Feed
	logger     *slog.Logger
}

func NewTotalHandler(ts *store.TotalStore, feed *live.Feed, logger *slog.Logger) *TotalHandler {
	return &TotalHandler{totalStore: ts, feed: feed, logger: logger}
}

type totalRequest struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

func (h *TotalHandler) nameExists(eventID, name, excludeID string) (bool, error) {
	totals, err := h.totalStore.ListByEvent(eventID)
	if err != nil {
		return false, err
	}
	for _, t := range totals {
		if t.ID != excludeID && strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (h *TotalHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event_id")

	var req totalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	exists, err := h.nameExists(eventID, req.Name, "")
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to check name")
		return
	}
	if exists {
		errorJSON(w, http.StatusBadRequest, "a total with that name already exists")
		return
	}

	// Category ids are not validated against live categories: a total may
	// reference ids deleted later, and those count as zero at tally time.
	total, err := h.totalStore.Create(eventID, req.Name, req.Categories)
	if err != nil {
		h.logger.Error("create total", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to create total")
		return
	}

	h.feed.PublishTotals(eventID)
	writeJSON(w, http.StatusCreated, total)
}

func (h *TotalHandler) List(w http.ResponseWriter, r *http.Request) {
	totals, err := h.totalStore.ListByEvent(r.PathValue("event_id"))
	if err != nil {
		h.logger.Error("list totals", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to list totals")
		return
	}
	if totals == nil {
		totals = []model.Total{}
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *TotalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.totalStore.GetByID(id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to get total")
		return
	}
	if existing == nil {
		errorJSON(w, http.StatusNotFound, "total not found")
		return
	}

	var req totalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	exists, err := h.nameExists(existing.EventID, req.Name, id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to check name")
		return
	}
	if exists {
		errorJSON(w, http.StatusBadRequest, "a total with that name already exists")
		return
	}

	total, err := h.totalStore.Update(id, req.Name, req.Categories)
	if err != nil {
		h.logger.Error("update total", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to update total")
		return
	}

	h.feed.PublishTotals(existing.EventID)
	writeJSON(w, http.StatusOK, total)
}

func (h *TotalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.totalStore.GetByID(id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to get total")
		return
	}
	if existing == nil {
		errorJSON(w, http.StatusNotFound, "total not found")
		return
	}

	if err := h.totalStore.Delete(id); err != nil {
		h.logger.Error("delete total", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to delete total")
		return
	}

	h.feed.PublishTotals(existing.EventID)
	w.WriteHeader(http.StatusNoContent)
}
