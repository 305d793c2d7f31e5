package report

import (
	"fmt"
	"testing"
	"time"
)

func newReport(id string) *Report {
	return &Report{
		ID:        id,
		Script:    "script.py",
		Stderr:    "ZeroDivisionError: division by zero",
		ExitCode:  1,
		CreatedAt: time.Now(),
	}
}

func TestDiskStore_RoundTrip(t *testing.T) {
	s := NewDiskStore()
	want := newReport("run-1")

	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load("run-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != want.ID || got.Stderr != want.Stderr || got.ExitCode != want.ExitCode {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestDiskStore_LoadUnknownID(t *testing.T) {
	s := NewDiskStore()
	if _, err := s.Load("no-such-run"); err == nil {
		t.Fatal("expected error for unknown run ID")
	}
}

func TestLRUStore_EvictsToBackingStore(t *testing.T) {
	back := NewDiskStore()
	s := NewLRUStore(2, back)

	for i := 1; i <= 3; i++ {
		if err := s.Save(newReport(fmt.Sprintf("run-%d", i))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	// run-1 was evicted from the cache but survives on disk.
	got, err := s.Load("run-1")
	if err != nil {
		t.Fatalf("Load after eviction: %v", err)
	}
	if got.ID != "run-1" {
		t.Errorf("ID = %q, want run-1", got.ID)
	}
}

func TestLRUStore_Failed(t *testing.T) {
	r := newReport("run-1")
	if !r.Failed() {
		t.Error("Failed() = false, want true for exit code 1")
	}
	r.ExitCode = 0
	if r.Failed() {
		t.Error("Failed() = true, want false for exit code 0")
	}
}
