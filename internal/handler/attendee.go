package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ecc-register/internal/live"
	"ecc-register/internal/model"
	"ecc-register/internal/store"
	"ecc-register/internal/tally"
)

type AttendeeHandler struct {
	attendeeStore *store.AttendeeStore
	categoryStore *store.CategoryStore
	feed          *live.Feed
	logger        *slog.Logger
}

func NewAttendeeHandler(
	as *store.AttendeeStore,
	cs *store.CategoryStore,
	feed *live.Feed,
	logger *slog.Logger,
) *AttendeeHandler {
	return &AttendeeHandler{attendeeStore: as, categoryStore: cs, feed: feed, logger: logger}
}

type attendeeRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}

// resolveCategory turns a category id into the snapshot ref embedded on the
// attendee. An empty id means "No Category" and resolves to nil.
func (h *AttendeeHandler) resolveCategory(categoryID string) (*model.CategoryRef, error) {
	if categoryID == "" {
		return nil, nil
	}
	category, err := h.categoryStore.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errCategoryNotFound
	}
	return &model.CategoryRef{ID: category.ID, Name: category.Name}, nil
}

var errCategoryNotFound = errors.New("category not found")

func (h *AttendeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event_id")

	var req attendeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	ref, err := h.resolveCategory(req.CategoryID)
	if err == errCategoryNotFound {
		errorJSON(w, http.StatusBadRequest, "category not found")
		return
	}
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to resolve category")
		return
	}

	attendee, err := h.attendeeStore.Create(eventID, req.Name, ref)
	if err != nil {
		h.logger.Error("create attendee", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to create attendee")
		return
	}

	h.feed.PublishAttendees(eventID)
	writeJSON(w, http.StatusCreated, attendee)
}

// List returns the event's attendees, optionally narrowed by the q query
// parameter. Filtering is presentation-only and never affects tallies.
func (h *AttendeeHandler) List(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.attendeeStore.ListByEvent(r.PathValue("event_id"))
	if err != nil {
		h.logger.Error("list attendees", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to list attendees")
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}

	if q := r.URL.Query().Get("q"); q != "" {
		attendees = tally.FilterByName(attendees, q)
	}
	writeJSON(w, http.StatusOK, attendees)
}

func (h *AttendeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.attendeeStore.GetByID(id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to get attendee")
		return
	}
	if existing == nil {
		errorJSON(w, http.StatusNotFound, "attendee not found")
		return
	}

	var req attendeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	ref, err := h.resolveCategory(req.CategoryID)
	if err == errCategoryNotFound {
		errorJSON(w, http.StatusBadRequest, "category not found")
		return
	}
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to resolve category")
		return
	}

	attendee, err := h.attendeeStore.Update(id, req.Name, ref)
	if err != nil {
		h.logger.Error("update attendee", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to update attendee")
		return
	}

	h.feed.PublishAttendees(existing.EventID)
	writeJSON(w, http.StatusOK, attendee)
}

func (h *AttendeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.attendeeStore.GetByID(id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to get attendee")
		return
	}
	if existing == nil {
		errorJSON(w, http.StatusNotFound, "attendee not found")
		return
	}

	if err := h.attendeeStore.Delete(id); err != nil {
		h.logger.Error("delete attendee", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to delete attendee")
		return
	}

	h.feed.PublishAttendees(existing.EventID)
	w.WriteHeader(http.StatusNoContent)
}

// SetPresent toggles one attendee's present flag. Last write wins.
func (h *AttendeeHandler) SetPresent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.attendeeStore.GetByID(id)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to get attendee")
		return
	}
	if existing == nil {
		errorJSON(w, http.StatusNotFound, "attendee not found")
		return
	}

	var req struct {
		Present bool `json:"present"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	attendee, err := h.attendeeStore.SetPresent(id, req.Present)
	if err != nil {
		h.logger.Error("set present", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to update attendance")
		return
	}

	h.feed.PublishAttendees(existing.EventID)
	writeJSON(w, http.StatusOK, attendee)
}

// ClearPresent resets attendance for the whole event in one transaction:
// either every attendee flips to absent or none do.
func (h *AttendeeHandler) ClearPresent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event_id")

	count, err := h.attendeeStore.ClearPresent(eventID)
	if err != nil {
		h.logger.Error("clear present", "event_id", eventID, "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to clear attendance")
		return
	}

	h.feed.PublishAttendees(eventID)
	writeJSON(w, http.StatusOK, map[string]int64{"cleared": count})
}

// Tally returns the current per-category and per-total present counts.
func (h *AttendeeHandler) Tally(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event_id")

	categoryScores, totalScores, err := h.feed.Tally(eventID)
	if err != nil {
		h.logger.Error("tally", "event_id", eventID, "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to compute tally")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": categoryScores,
		"totals":     totalScores,
	})
}
