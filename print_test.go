package formstate

import (
	"errors"
	"testing"
	"time"
)

func TestPrintSnapshotIsFrozen(t *testing.T) {
	s := NewStore()
	_ = s.SetValue("1R", "", Record{"value": "A", "items": []any{"x"}})
	snapshot := s.Print()
	hash := snapshot.Hash()

	_ = s.SetValue("1R", "", Record{"value": "B"})
	_ = s.SetValue("2R", "", Record{"value": "C"})

	rec, ok := snapshot.Get("1R")
	if !ok || rec["value"] != "A" {
		t.Fatalf("expected frozen value A, got %#v", rec)
	}
	if snapshot.Has("2R") || snapshot.Size() != 1 {
		t.Fatalf("expected later keys to stay out of the snapshot")
	}
	if snapshot.Hash() != hash {
		t.Fatalf("expected snapshot hash to stay stable")
	}
	if s.Hash() == hash {
		t.Fatalf("expected live store hash to diverge")
	}

	rec["value"] = "mutated"
	rec["items"].([]any)[0] = "y"
	again, _ := snapshot.Get("1R")
	if again["value"] != "A" || again["items"].([]any)[0] != "x" {
		t.Fatalf("expected Get to hand out copies, got %#v", again)
	}

	content := snapshot.Serializable()
	content.Set("3R", Record{"value": 1})
	if snapshot.Serializable().Len() != 1 {
		t.Fatalf("expected Serializable to hand out copies")
	}
}

func TestPrintSnapshotOfEmptyStore(t *testing.T) {
	snapshot := NewStore().Print()
	if snapshot.Serializable() != nil || snapshot.Hash() != "" || snapshot.Size() != 0 {
		t.Fatalf("expected empty snapshot")
	}
}

func TestPrintSnapshotHashMatchesStoreAtCapture(t *testing.T) {
	s := NewStore()
	_ = s.SetValue("1R", "", Record{"value": 1})
	if s.Print().Hash() != s.Hash() {
		t.Fatalf("expected snapshot hash to equal store hash at capture")
	}
}

func TestPrintSnapshotRefusesToPrint(t *testing.T) {
	snapshot := NewStore().Print()
	defer func() {
		recovered := recover()
		err, ok := recovered.(error)
		if !ok || !errors.Is(err, ErrPrintOnSnapshot) {
			t.Fatalf("expected ErrPrintOnSnapshot panic, got %v", recovered)
		}
	}()
	snapshot.Print()
}

func TestPrintSnapshotKeepsOpaqueStructValues(t *testing.T) {
	s := NewStore()
	stamp := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	_ = s.SetValue("5R", "Date", Record{"value": stamp, "nested": map[string]any{"at": &stamp}})

	rec, ok := s.Print().Get("5R")
	if !ok {
		t.Fatalf("expected 5R in snapshot")
	}
	got, _ := rec["value"].(time.Time)
	if !got.Equal(stamp) {
		t.Fatalf("expected %v in snapshot, got %v", stamp, rec["value"])
	}
	at, _ := rec["nested"].(map[string]any)["at"].(*time.Time)
	if at == nil || at == &stamp || !at.Equal(stamp) {
		t.Fatalf("expected copied pointer to %v, got %v", stamp, at)
	}
}
