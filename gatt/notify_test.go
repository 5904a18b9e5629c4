package gatt

import "testing"

func TestNotifyStateTransitions(t *testing.T) {
	var s NotifyState

	if s.Notifying() {
		t.Fatal("new state: notifying, want off")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.Notifying() {
		t.Error("after Start: off, want notifying")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.Notifying() {
		t.Error("after Stop: notifying, want off")
	}
}

func TestNotifyStateIdempotent(t *testing.T) {
	var s NotifyState

	// Stop without a preceding Start succeeds and changes nothing.
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop while off: %v", err)
	}
	if s.Notifying() {
		t.Error("Stop while off: notifying, want off")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if !s.Notifying() {
		t.Error("second Start: off, want notifying")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if s.Notifying() {
		t.Error("second Stop: notifying, want off")
	}
}
