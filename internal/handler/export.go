package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ecc-register/internal/export"
	"ecc-register/internal/store"
)

type ExportHandler struct {
	attendeeStore *store.AttendeeStore
	archiver      *export.Archiver
	logger        *slog.Logger
}

func NewExportHandler(as *store.AttendeeStore, archiver *export.Archiver, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{attendeeStore: as, archiver: archiver, logger: logger}
}

// Export streams the attendee spreadsheet for one event. The endpoint is
// public and CORS-open so the download works from any origin without a
// session.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		errorJSON(w, http.StatusUnprocessableEntity, "eventId is required")
		return
	}

	attendees, err := h.attendeeStore.ListByEvent(eventID)
	if err != nil {
		h.logger.Error("export list attendees", "event_id", eventID, "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to export")
		return
	}
	if len(attendees) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No Attendees for this event."})
		return
	}

	wb, err := export.Workbook(attendees)
	if err != nil {
		h.logger.Error("export workbook", "event_id", eventID, "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to export")
		return
	}
	defer wb.Close()

	buf, err := wb.WriteToBuffer()
	if err != nil {
		h.logger.Error("export write", "event_id", eventID, "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to export")
		return
	}

	filename := export.Filename(time.Now())
	h.archiver.Archive(fmt.Sprintf("%s/%s", eventID, filename), buf.Bytes())

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
