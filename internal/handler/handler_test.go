package handler

import (
	"io"
	"log/slog"
	"testing"

	"ecc-register/internal/database"
	"ecc-register/internal/export"
	"ecc-register/internal/live"
	"ecc-register/internal/reconcile"
	"ecc-register/internal/store"
)

// testEnv wires handlers against an in-memory database with no websocket
// hub; publishes become no-ops so tests exercise the HTTP surface alone.
type testEnv struct {
	events     *store.EventStore
	categories *store.CategoryStore
	attendees  *store.AttendeeStore
	totals     *store.TotalStore
	users      *store.UserStore
	sessions   *store.SessionStore
	feed       *live.Feed
	reconciler *reconcile.Reconciler

	authH     *AuthHandler
	eventH    *EventHandler
	categoryH *CategoryHandler
	attendeeH *AttendeeHandler
	totalH    *TotalHandler
	exportH   *ExportHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		events:     store.NewEventStore(db),
		categories: store.NewCategoryStore(db),
		attendees:  store.NewAttendeeStore(db),
		totals:     store.NewTotalStore(db),
		users:      store.NewUserStore(db),
		sessions:   store.NewSessionStore(db),
	}
	env.feed = live.NewFeed(nil, env.events, env.categories, env.attendees, env.totals, logger)
	env.reconciler = reconcile.New(env.attendees, env.feed, logger)
	archiver := export.NewArchiver(export.S3Config{}, logger)

	env.authH = NewAuthHandler(env.users, env.sessions, logger)
	env.eventH = NewEventHandler(env.events, env.feed, logger)
	env.categoryH = NewCategoryHandler(env.categories, env.reconciler, env.feed, logger)
	env.attendeeH = NewAttendeeHandler(env.attendees, env.categories, env.feed, logger)
	env.totalH = NewTotalHandler(env.totals, env.feed, logger)
	env.exportH = NewExportHandler(env.attendees, archiver, logger)
	return env
}
