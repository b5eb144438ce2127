package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"simlaunch/internal/process"
	"simlaunch/internal/robot"
)

func TestStoreRoundTrip(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "nested", "run.yaml")}
	record := Record{
		RunID:     NewRunID(),
		Robot:     robot.Tiago,
		World:     "empty",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Simulator: FromSlot(process.Some(process.NewHandle(100, 100, "simulator", []string{"roslaunch", "a.launch"}))),
		Planner:   FromSlot(process.None()),
	}
	if err := store.Save(record); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunID != record.RunID || loaded.Robot != robot.Tiago || !loaded.StartedAt.Equal(record.StartedAt) {
		t.Fatalf("unexpected record %+v", loaded)
	}
	if loaded.Planner != nil {
		t.Fatalf("expected no planner, got %+v", loaded.Planner)
	}
	slot := loaded.Simulator.Slot()
	handle, ok := slot.Get()
	if !ok || handle.PID != 100 || handle.Owned() {
		t.Fatalf("unexpected simulator slot %+v", handle)
	}
	if loaded.Planner.Slot().Present() {
		t.Fatalf("expected empty planner slot")
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the record file, got %d entries", len(entries))
	}
}

func TestStoreMissingRecord(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "run.yaml")}
	if _, err := store.Load(); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("expected no record, got %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if err := (Store{}).Save(Record{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestNewRunIDIsUUID(t *testing.T) {
	if _, err := uuid.Parse(NewRunID()); err != nil {
		t.Fatalf("expected uuid run id: %v", err)
	}
}

func TestFromHandle(t *testing.T) {
	if FromHandle(nil) != nil {
		t.Fatalf("expected nil record for nil handle")
	}
	argv := []string{"roslaunch", "b.launch"}
	record := FromHandle(process.NewHandle(200, 200, "planner", argv))
	argv[0] = "changed"
	if record.PID != 200 || record.Name != "planner" || record.Argv[0] != "roslaunch" {
		t.Fatalf("unexpected record %+v", record)
	}
}
