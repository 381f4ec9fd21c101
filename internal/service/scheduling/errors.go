package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const messageTimeLayout = "02/01/2006 at 15:04"

// Conflict describes one existing appointment that overlaps a tentative one.
// PartyName is the doctor or patient being checked, OtherPartyName the
// counterpart on the existing appointment.
type Conflict struct {
	Dimension      Dimension
	AppointmentID  uuid.UUID
	StartTime      time.Time
	PartyName      string
	OtherPartyName string

	loc *time.Location
}

func (c Conflict) Message() string {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	at := c.StartTime.In(loc).Format(messageTimeLayout)

	switch c.Dimension {
	case DimensionDoctor:
		return fmt.Sprintf("Dr. %s already has an appointment on %s with %s.", nameOrUnknown(c.PartyName), at, nameOrUnknown(c.OtherPartyName))
	case DimensionPatient:
		return fmt.Sprintf("The patient already has an appointment on %s with Dr. %s.", at, nameOrUnknown(c.OtherPartyName))
	default:
		return fmt.Sprintf("Scheduling conflict with appointment %s on %s.", c.AppointmentID, at)
	}
}

func nameOrUnknown(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unknown)"
	}
	return name
}

// ConflictError is returned when committing a tentative appointment would
// double-book its doctor, its patient, or both.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.Message())
	}
	return strings.Join(msgs, " ")
}

func (e *ConflictError) Has(dim Dimension) bool {
	_, ok := e.For(dim)
	return ok
}

func (e *ConflictError) For(dim Dimension) (Conflict, bool) {
	for _, c := range e.Conflicts {
		if c.Dimension == dim {
			return c, true
		}
	}
	return Conflict{}, false
}
