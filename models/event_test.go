package models

import "testing"

func TestAttendancePercent(t *testing.T) {
	e := Event{Attendees: 100, MaxAttendees: 400}
	if got := e.AttendancePercent(); got != 25 {
		t.Errorf("expected 25, got %v", got)
	}

	e = Event{Attendees: 10}
	if got := e.AttendancePercent(); got != 0 {
		t.Errorf("expected 0 for unknown capacity, got %v", got)
	}
}
