package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pix/internal/history"
	"pix/internal/testsupport"
)

func TestRecordMoveAssignsIDAndRoundTripsFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	batch := &history.Batch{
		Destination: "/pics/trip",
		Requested:   2,
		Moved:       1,
		Error:       "moved 1 of 2 files",
		Files: []history.FileRecord{
			{Source: "/desk/a.jpg", Target: "/pics/trip/a.jpg"},
			{Source: "/desk/b.jpg", Target: "/pics/trip/b.jpg", Error: "no such file or directory"},
		},
	}
	if err := store.RecordMove(ctx, batch); err != nil {
		t.Fatalf("RecordMove failed: %v", err)
	}
	if batch.ID == "" {
		t.Fatal("expected batch ID to be assigned")
	}
	if batch.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be assigned")
	}

	fetched, err := store.Get(ctx, batch.ShortID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.ID != batch.ID || fetched.Destination != "/pics/trip" {
		t.Fatalf("unexpected batch %#v", fetched)
	}
	if fetched.Succeeded() {
		t.Fatal("partial batch should not report success")
	}
	if len(fetched.Files) != 2 {
		t.Fatalf("expected 2 file records, got %d", len(fetched.Files))
	}
	if fetched.Files[0].Source != "/desk/a.jpg" || fetched.Files[0].Error != "" {
		t.Fatalf("unexpected first record %#v", fetched.Files[0])
	}
	if fetched.Files[1].Error == "" {
		t.Fatalf("expected failure recorded on second file, got %#v", fetched.Files[1])
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, dest := range []string{"beach", "family", "trip"} {
		batch := &history.Batch{
			Destination: dest,
			Requested:   1,
			Moved:       1,
			CreatedAt:   base.Add(time.Duration(i) * 100 * time.Millisecond),
		}
		if err := store.RecordMove(ctx, batch); err != nil {
			t.Fatalf("RecordMove %s failed: %v", dest, err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(recent))
	}
	if recent[0].Destination != "trip" || recent[1].Destination != "family" {
		t.Fatalf("unexpected order: %s, %s", recent[0].Destination, recent[1].Destination)
	}
	if !recent[0].Succeeded() {
		t.Fatal("expected complete batch to report success")
	}

	all, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent(0) failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 batches, got %d", len(all))
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestGetUnknownBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	if _, err := store.Get(context.Background(), "deadbeef"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Get(context.Background(), "  "); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestGetAmbiguousPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"abc-1", "abc-2"} {
		if err := store.RecordMove(ctx, &history.Batch{ID: id, Destination: "x", Requested: 1, Moved: 1}); err != nil {
			t.Fatalf("RecordMove failed: %v", err)
		}
	}
	if _, err := store.Get(ctx, "abc"); err == nil || errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
	batch, err := store.Get(ctx, "abc-2")
	if err != nil {
		t.Fatalf("Get exact failed: %v", err)
	}
	if batch.ID != "abc-2" {
		t.Fatalf("unexpected batch %q", batch.ID)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.RecordMove(context.Background(), &history.Batch{Destination: "x", Requested: 1, Moved: 1}); err != nil {
		t.Fatalf("RecordMove failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenHistory(t, cfg)
	if second.Path() != cfg.HistoryPath() {
		t.Fatalf("unexpected path %q", second.Path())
	}
	count, err := second.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected persisted batch, got count %d", count)
	}
}
