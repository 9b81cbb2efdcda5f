package services

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/ledger"
)

func TestSweepReportsOrphanExactlyOnce(t *testing.T) {
	db, err := ledger.OpenDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	book, err := ledger.New(db)
	if err != nil {
		t.Fatal(err)
	}
	if err := book.Track("file-orphan", "downloads"); err != nil {
		t.Fatal(err)
	}

	core, logs := observer.New(zap.WarnLevel)
	sweeper := NewSweeper(book, zap.New(core), SweeperConfig{
		Interval:  time.Minute,
		Retention: time.Nanosecond,
	})

	time.Sleep(5 * time.Millisecond)
	if err := sweeper.Sweep(); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("orphaned upload detected").All()
	if len(entries) != 1 {
		t.Fatalf("expected one orphan report, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["file_id"] != "file-orphan" || fields["collection"] != "downloads" {
		t.Fatalf("unexpected fields: %v", fields)
	}

	// reported entries are dropped; a second sweep finds nothing
	if err := sweeper.Sweep(); err != nil {
		t.Fatal(err)
	}
	if got := logs.FilterMessage("orphaned upload detected").Len(); got != 1 {
		t.Fatalf("orphan reported %d times, want exactly once", got)
	}

	count, err := book.Count()
	if err != nil || count != 0 {
		t.Fatalf("ledger count = %d, %v", count, err)
	}
}

func TestSweepSparesSettledUploads(t *testing.T) {
	db, err := ledger.OpenDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	book, err := ledger.New(db)
	if err != nil {
		t.Fatal(err)
	}
	if err := book.Track("file-recorded", "notices"); err != nil {
		t.Fatal(err)
	}
	if err := book.Settle("file-recorded"); err != nil {
		t.Fatal(err)
	}

	core, logs := observer.New(zap.WarnLevel)
	sweeper := NewSweeper(book, zap.New(core), SweeperConfig{
		Interval:  time.Minute,
		Retention: time.Nanosecond,
	})

	time.Sleep(5 * time.Millisecond)
	if err := sweeper.Sweep(); err != nil {
		t.Fatal(err)
	}
	if logs.Len() != 0 {
		t.Fatalf("settled upload reported as orphan: %v", logs.All())
	}
}
