package domain

import (
	"testing"
	"time"
)

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	d := 30 * time.Minute

	tests := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{name: "same start", offset: 0, want: true},
		{name: "starts inside", offset: 15 * time.Minute, want: true},
		{name: "one minute before end", offset: 29 * time.Minute, want: true},
		{name: "touches end", offset: 30 * time.Minute, want: false},
		{name: "ends inside", offset: -29 * time.Minute, want: true},
		{name: "touches start", offset: -30 * time.Minute, want: false},
		{name: "far after", offset: 2 * time.Hour, want: false},
	}

	a := OccupiedInterval(base, d)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := OccupiedInterval(base.Add(tt.offset), d)
			if got := a.Overlaps(b); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := b.Overlaps(a); got != tt.want {
				t.Fatalf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppointmentStatus(t *testing.T) {
	for _, s := range []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusCancelled,
		AppointmentStatusCompleted,
	} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if AppointmentStatus("pending").Valid() {
		t.Fatalf("unknown status should be invalid")
	}
	if AppointmentStatusCancelled.OccupiesTime() {
		t.Fatalf("cancelled appointments must not occupy time")
	}
	if !AppointmentStatusCompleted.OccupiesTime() {
		t.Fatalf("completed appointments occupy time")
	}
}

func TestFullName(t *testing.T) {
	d := &Doctor{FirstName: " Amina ", LastName: "Diallo"}
	if got := d.FullName(); got != "Amina Diallo" {
		t.Fatalf("FullName = %q, want %q", got, "Amina Diallo")
	}
	var p *Patient
	if got := p.FullName(); got != "" {
		t.Fatalf("nil FullName = %q, want empty", got)
	}
}
