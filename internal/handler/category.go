package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"ecc-register/internal/live"
	"ecc-register/internal/model"
	"ecc-register/internal/reconcile"
	"ecc-register/internal/store"
)

type CategoryHandler struct {
	categoryStore *store.CategoryStore
	reconciler    *reconcile.Reconciler
	feed          *live.Feed
	logger        *slog.Logger
}

func NewCategoryHandler(
	cs *store.CategoryStore,
	rec *reconcile.Reconciler,
	feed *live.Feed,
	logger *slog.Logger,
) *CategoryHandler {
	return &CategoryHandler{categoryStore: cs, reconciler: rec, feed: feed, logger: logger}
}

type categoryRequest struct {
	Name string `json:"name"`
}

// nameExists reports whether another category in the event already carries
// the name, compared case-insensitively. excludeID skips the category being
// renamed.
func (h *CategoryHandler) nameExists(eventID, name, excludeID string) (bool, error) {
	categories, err := h.categoryStore.ListByEvent(eventID)
	if err != nil {
		return false, err
	}
	for _, c := range categories {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event_id")

	var req categoryRequest
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
		errorJSON(w, http.StatusBadRequest, "a category with that name already exists")
		return
	}

	category, err := h.categoryStore.Create(eventID, req.Name)
	if err != nil {
		h.logger.Error("create category", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.feed.PublishCategories(eventID)
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.ListByEvent(r.PathValue("event_id"))
	if err != nil {
		h.logger.Error("list categories", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Update renames a category. Snapshots embedded on attendees keep the old
// name; only new assignments pick up the rename.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.categoryStore.GetByID(id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to get category")
		return
	}
	if existing == nil {
		errorJSON(w, http.StatusNotFound, "category not found")
		return
	}

	var req categoryRequest
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
		errorJSON(w, http.StatusBadRequest, "a category with that name already exists")
		return
	}

	category, err := h.categoryStore.Update(id, req.Name)
	if err != nil {
		h.logger.Error("update category", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	h.feed.PublishCategories(existing.EventID)
	writeJSON(w, http.StatusOK, category)
}

// Delete removes the category and queues reconciliation to clear the refs
// it leaves dangling on attendees. The response does not wait for that.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.categoryStore.GetByID(id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to get category")
		return
	}
	if existing == nil {
		errorJSON(w, http.StatusNotFound, "category not found")
		return
	}

	if err := h.categoryStore.Delete(id); err != nil {
		h.logger.Error("delete category", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	h.feed.PublishCategories(existing.EventID)
	h.reconciler.Enqueue(existing.EventID, id)
	w.WriteHeader(http.StatusNoContent)
}
