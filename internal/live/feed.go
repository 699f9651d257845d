// Package live publishes full-collection snapshots to websocket subscribers
// whenever a collection changes, mirroring a document store's real-time
// listeners: no incremental patching, every publish re-reads and re-sends
// the whole collection, and the tally is recomputed on any input change.
package live

import (
	"log/slog"

	"ecc-register/internal/model"
	"ecc-register/internal/store"
	"ecc-register/internal/tally"
	"ecc-register/internal/websocket"
)

type Feed struct {
	hub        *websocket.Hub
	events     *store.EventStore
	categories *store.CategoryStore
	attendees  *store.AttendeeStore
	totals     *store.TotalStore
	logger     *slog.Logger
}

func NewFeed(
	hub *websocket.Hub,
	es *store.EventStore,
	cs *store.CategoryStore,
	as *store.AttendeeStore,
	ts *store.TotalStore,
	logger *slog.Logger,
) *Feed {
	return &Feed{
		hub:        hub,
		events:     es,
		categories: cs,
		attendees:  as,
		totals:     ts,
		logger:     logger,
	}
}

func (f *Feed) broadcast(msg websocket.Message) {
	if f.hub != nil {
		f.hub.Broadcast(msg)
	}
}

// PublishEvents broadcasts the events collection to all clients.
func (f *Feed) PublishEvents() {
	events, err := f.events.List()
	if err != nil {
		// Subscription-level errors are logged, never surfaced; clients
		// keep their last snapshot.
		f.logger.Error("publish events", "error", err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	f.broadcast(websocket.NewSnapshot("events", "", events))
}

// PublishCategories broadcasts the category collection for one event, then
// the recomputed tally.
func (f *Feed) PublishCategories(eventID string) {
	categories, err := f.categories.ListByEvent(eventID)
	if err != nil {
		f.logger.Error("publish categories", "event_id", eventID, "error", err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	f.broadcast(websocket.NewSnapshot("categories", eventID, categories))
	f.PublishTally(eventID)
}

// PublishAttendees broadcasts the attendee collection for one event, then
// the recomputed tally.
func (f *Feed) PublishAttendees(eventID string) {
	attendees, err := f.attendees.ListByEvent(eventID)
	if err != nil {
		f.logger.Error("publish attendees", "event_id", eventID, "error", err)
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	f.broadcast(websocket.NewSnapshot("attendees", eventID, attendees))
	f.PublishTally(eventID)
}

// PublishTotals broadcasts the totals collection for one event, then the
// recomputed tally.
func (f *Feed) PublishTotals(eventID string) {
	totals, err := f.totals.ListByEvent(eventID)
	if err != nil {
		f.logger.Error("publish totals", "event_id", eventID, "error", err)
		return
	}
	if totals == nil {
		totals = []model.Total{}
	}
	f.broadcast(websocket.NewSnapshot("totals", eventID, totals))
	f.PublishTally(eventID)
}

// PublishTally recomputes the aggregation from scratch and broadcasts it.
func (f *Feed) PublishTally(eventID string) {
	categoryScores, totalScores, err := f.Tally(eventID)
	if err != nil {
		f.logger.Error("publish tally", "event_id", eventID, "error", err)
		return
	}
	f.broadcast(websocket.Message{
		Type:    "tally_updated",
		Entity:  "tally",
		Action:  "updated",
		EventID: eventID,
		Extra: map[string]any{
			"categories": categoryScores,
			"totals":     totalScores,
		},
	})
}

// Tally loads the three collections and computes present-counts per
// category and per total.
func (f *Feed) Tally(eventID string) ([]tally.Score, []tally.Score, error) {
	categories, err := f.categories.ListByEvent(eventID)
	if err != nil {
		return nil, nil, err
	}
	attendees, err := f.attendees.ListByEvent(eventID)
	if err != nil {
		return nil, nil, err
	}
	totals, err := f.totals.ListByEvent(eventID)
	if err != nil {
		return nil, nil, err
	}

	categoryScores := tally.CategoryScores(categories, attendees)
	totalScores := tally.TotalScores(totals, categoryScores)
	return categoryScores, totalScores, nil
}

// InitialMessages builds the snapshot burst sent to a client on connect:
// the three event collections plus the current tally, or just the events
// list for unscoped clients.
func (f *Feed) InitialMessages(eventID string) []websocket.Message {
	if eventID == "" {
		events, err := f.events.List()
		if err != nil {
			f.logger.Error("initial events snapshot", "error", err)
			return nil
		}
		if events == nil {
			events = []model.Event{}
		}
		return []websocket.Message{websocket.NewSnapshot("events", "", events)}
	}

	categories, err := f.categories.ListByEvent(eventID)
	if err != nil {
		f.logger.Error("initial categories snapshot", "event_id", eventID, "error", err)
		return nil
	}
	attendees, err := f.attendees.ListByEvent(eventID)
	if err != nil {
		f.logger.Error("initial attendees snapshot", "event_id", eventID, "error", err)
		return nil
	}
	totals, err := f.totals.ListByEvent(eventID)
	if err != nil {
		f.logger.Error("initial totals snapshot", "event_id", eventID, "error", err)
		return nil
	}
	if categories == nil {
		categories = []model.Category{}
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	if totals == nil {
		totals = []model.Total{}
	}

	categoryScores := tally.CategoryScores(categories, attendees)
	totalScores := tally.TotalScores(totals, categoryScores)

	return []websocket.Message{
		websocket.NewSnapshot("categories", eventID, categories),
		websocket.NewSnapshot("attendees", eventID, attendees),
		websocket.NewSnapshot("totals", eventID, totals),
		{
			Type:    "tally_updated",
			Entity:  "tally",
			Action:  "updated",
			EventID: eventID,
			Extra: map[string]any{
				"categories": categoryScores,
				"totals":     totalScores,
			},
		},
	}
}
