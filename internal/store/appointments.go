package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hospital/backend/internal/domain"
	"hospital/backend/internal/service/scheduling"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ListFilter narrows a listing. Zero values mean "no constraint".
type ListFilter struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	From      time.Time
	To        time.Time
	Limit     int
}

type AppointmentRepository interface {
	scheduling.Finder

	Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Appointment, error)
	Delete(ctx context.Context, appointmentID uuid.UUID) error

	// InScheduleTransaction runs fn in one transaction that holds an advisory
	// lock for every key until commit or rollback.
	InScheduleTransaction(ctx context.Context, lockKeys []string, fn func(ctx context.Context, tx ScheduleTx) error) error
}

// ScheduleTx is the unit of work a check-then-commit runs in.
type ScheduleTx interface {
	scheduling.Finder

	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}

func DoctorLockKey(id uuid.UUID) string {
	return "doctor:" + id.String()
}

func PatientLockKey(id uuid.UUID) string {
	return "patient:" + id.String()
}
