package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hospital/backend/internal/domain"
)

const DefaultAppointmentDuration = 30 * time.Minute

type Dimension string

const (
	DimensionDoctor  Dimension = "doctor"
	DimensionPatient Dimension = "patient"
)

// Tentative is a proposed appointment that has not been committed yet.
// ExcludeID is the appointment's own id when it is being edited in place.
type Tentative struct {
	ExcludeID uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	StartTime time.Time
}

// Query asks for non-cancelled appointments of one party whose start time
// falls in [WindowStart, WindowEnd).
type Query struct {
	Dimension   Dimension
	PartyID     uuid.UUID
	WindowStart time.Time
	WindowEnd   time.Time
	ExcludeID   uuid.UUID
}

type Candidate struct {
	ID          uuid.UUID
	StartTime   time.Time
	Status      domain.AppointmentStatus
	DoctorName  string
	PatientName string
}

type Finder interface {
	FindCandidates(ctx context.Context, q Query) ([]Candidate, error)
}

type Checker struct {
	duration time.Duration
	loc      *time.Location
}

func NewChecker(duration time.Duration, loc *time.Location) *Checker {
	if duration <= 0 {
		duration = DefaultAppointmentDuration
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Checker{duration: duration, loc: loc}
}

func (c *Checker) Duration() time.Duration {
	return c.duration
}

// PrefetchWindow widens the lookup so that any appointment starting up to one
// duration before start is still fetched.
func (c *Checker) PrefetchWindow(start time.Time) (time.Time, time.Time) {
	return start.Add(-c.duration), start.Add(c.duration)
}

// Check returns nil when t can be committed, or a *ConflictError listing the
// first overlapping appointment for the doctor and for the patient.
func (c *Checker) Check(ctx context.Context, f Finder, t Tentative) error {
	proposed := domain.OccupiedInterval(t.StartTime, c.duration)
	windowStart, windowEnd := c.PrefetchWindow(t.StartTime)

	dims := []struct {
		dim Dimension
		id  uuid.UUID
	}{
		{dim: DimensionDoctor, id: t.DoctorID},
		{dim: DimensionPatient, id: t.PatientID},
	}

	var conflicts []Conflict
	for _, d := range dims {
		candidates, err := f.FindCandidates(ctx, Query{
			Dimension:   d.dim,
			PartyID:     d.id,
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
			ExcludeID:   t.ExcludeID,
		})
		if err != nil {
			return fmt.Errorf("find %s candidates: %w", d.dim, err)
		}

		hit, ok := c.firstOverlap(proposed, candidates, t.ExcludeID)
		if !ok {
			continue
		}
		conflicts = append(conflicts, c.conflictFor(d.dim, hit))
	}

	if len(conflicts) == 0 {
		return nil
	}
	return &ConflictError{Conflicts: conflicts}
}

func (c *Checker) firstOverlap(proposed domain.Interval, candidates []Candidate, excludeID uuid.UUID) (Candidate, bool) {
	for _, cand := range candidates {
		if excludeID != uuid.Nil && cand.ID == excludeID {
			continue
		}
		if cand.Status != "" && !cand.Status.OccupiesTime() {
			continue
		}
		if proposed.Overlaps(domain.OccupiedInterval(cand.StartTime, c.duration)) {
			return cand, true
		}
	}
	return Candidate{}, false
}

func (c *Checker) conflictFor(dim Dimension, cand Candidate) Conflict {
	conflict := Conflict{
		Dimension:     dim,
		AppointmentID: cand.ID,
		StartTime:     cand.StartTime,
		loc:           c.loc,
	}
	switch dim {
	case DimensionDoctor:
		conflict.PartyName = cand.DoctorName
		conflict.OtherPartyName = cand.PatientName
	case DimensionPatient:
		conflict.PartyName = cand.PatientName
		conflict.OtherPartyName = cand.DoctorName
	}
	return conflict
}
