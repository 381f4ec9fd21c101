package appointments

import (
	"errors"

	"github.com/google/uuid"

	"hospital/backend/internal/auth"
	"hospital/backend/internal/domain"
)

var ErrForbidden = errors.New("forbidden")

// resolveDoctor picks the doctor an appointment is booked with. Doctor
// accounts always book with themselves; staff must name a doctor.
func resolveDoctor(actor auth.Actor, requested uuid.UUID) (uuid.UUID, error) {
	switch {
	case actor.IsDoctor():
		if actor.DoctorID == uuid.Nil {
			return uuid.Nil, ErrForbidden
		}
		return actor.DoctorID, nil
	case actor.Role == auth.RoleAdmin, actor.Role == auth.RoleReceptionist:
		if requested == uuid.Nil {
			return uuid.Nil, validationError("doctor_id is required")
		}
		return requested, nil
	default:
		return uuid.Nil, ErrForbidden
	}
}

func canModify(actor auth.Actor, appt domain.Appointment) bool {
	switch {
	case actor.Role == auth.RoleAdmin, actor.Role == auth.RoleReceptionist:
		return true
	case actor.IsDoctor():
		return actor.DoctorID != uuid.Nil && actor.DoctorID == appt.DoctorID
	default:
		return false
	}
}
