package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// OccupiesTime reports whether an appointment in this status blocks its doctor and patient.
func (s AppointmentStatus) OccupiesTime() bool {
	return s != AppointmentStatusCancelled
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID        uuid.UUID         `bun:"id,pk,type:uuid"`
	PatientID uuid.UUID         `bun:"patient_id,notnull,type:uuid"`
	DoctorID  uuid.UUID         `bun:"doctor_id,notnull,type:uuid"`
	StartTime time.Time         `bun:"start_time,notnull"`
	Reason    string            `bun:"reason,notnull"`
	Status    AppointmentStatus `bun:"status,notnull"`
	CreatedAt time.Time         `bun:"created_at,notnull"`
	UpdatedAt time.Time         `bun:"updated_at,notnull"`

	Patient *Patient `bun:"rel:belongs-to,join:patient_id=id"`
	Doctor  *Doctor  `bun:"rel:belongs-to,join:doctor_id=id"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// SameBooking reports whether b books the same slot with the same details as a.
func (a Appointment) SameBooking(b Appointment) bool {
	return a.PatientID == b.PatientID &&
		a.DoctorID == b.DoctorID &&
		a.StartTime.Equal(b.StartTime) &&
		a.Reason == b.Reason &&
		a.Status == b.Status
}
