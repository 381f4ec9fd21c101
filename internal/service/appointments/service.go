package appointments

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"hospital/backend/internal/auth"
	"hospital/backend/internal/domain"
	"hospital/backend/internal/service/scheduling"
	"hospital/backend/internal/store"
)

const (
	maxReasonLength         = 500
	maxIdempotencyKeyLength = 256
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	repo    store.AppointmentRepository
	checker *scheduling.Checker
}

func NewService(repo store.AppointmentRepository, checker *scheduling.Checker) *Service {
	if checker == nil {
		checker = scheduling.NewChecker(scheduling.DefaultAppointmentDuration, time.UTC)
	}
	return &Service{repo: repo, checker: checker}
}

type CreateInput struct {
	PatientID      uuid.UUID
	DoctorID       uuid.UUID
	StartTime      time.Time
	Reason         string
	Status         domain.AppointmentStatus
	IdempotencyKey string
}

type UpdateInput struct {
	ID        uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	StartTime time.Time
	Reason    string
	Status    domain.AppointmentStatus
}

type ListInput struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	From      time.Time
	To        time.Time
	Limit     int
}

type CheckInput struct {
	ExcludeID uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	StartTime time.Time
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (domain.Appointment, error) {
	appt, err := s.buildAppointment(actor, in.PatientID, in.DoctorID, in.StartTime, in.Reason, in.Status)
	if err != nil {
		return domain.Appointment{}, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > maxIdempotencyKeyLength {
			return domain.Appointment{}, validationError("idempotency_key too long")
		}
		appt.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("hospital:create_appointment:"+actor.Subject+":"+key))
	}

	var created domain.Appointment
	err = s.repo.InScheduleTransaction(ctx, lockKeys(appt), func(ctx context.Context, tx store.ScheduleTx) error {
		// a replayed create must not collide with its own earlier commit
		if err := s.check(ctx, tx, appt, appt.ID); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateAppointment(ctx, appt)
		return err
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, in UpdateInput) (domain.Appointment, error) {
	if in.ID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	appt, err := s.buildAppointment(actor, in.PatientID, in.DoctorID, in.StartTime, in.Reason, in.Status)
	if err != nil {
		return domain.Appointment{}, err
	}
	appt.ID = in.ID

	var updated domain.Appointment
	err = s.repo.InScheduleTransaction(ctx, lockKeys(appt), func(ctx context.Context, tx store.ScheduleTx) error {
		existing, err := tx.GetAppointment(ctx, appt.ID)
		if err != nil {
			return err
		}
		if !canModify(actor, existing) {
			return ErrForbidden
		}
		if err := s.check(ctx, tx, appt, appt.ID); err != nil {
			return err
		}
		updated, err = tx.UpdateAppointment(ctx, appt)
		return err
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, appointmentID uuid.UUID) error {
	if appointmentID == uuid.Nil {
		return validationError("appointment_id is required")
	}
	existing, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !canModify(actor, existing) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, appointmentID)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, appointmentID uuid.UUID) (domain.Appointment, error) {
	if _, ok := auth.ParseRole(string(actor.Role)); !ok {
		return domain.Appointment{}, ErrForbidden
	}
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	return s.repo.Get(ctx, appointmentID)
}

func (s *Service) List(ctx context.Context, actor auth.Actor, in ListInput) ([]domain.Appointment, error) {
	filter := store.ListFilter{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
		Limit:     in.Limit,
	}
	switch {
	case actor.IsDoctor():
		if actor.DoctorID == uuid.Nil {
			return nil, ErrForbidden
		}
		filter.DoctorID = actor.DoctorID
	case actor.Role == auth.RoleAdmin, actor.Role == auth.RoleReceptionist:
	default:
		return nil, ErrForbidden
	}

	if in.Limit < 0 {
		return nil, validationError("limit must not be negative")
	}
	if !in.From.IsZero() {
		filter.From = in.From.UTC()
	}
	if !in.To.IsZero() {
		filter.To = in.To.UTC()
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.To.After(filter.From) {
		return nil, validationError("to must be after from")
	}
	return s.repo.List(ctx, filter)
}

// CheckConflict is a dry run of the booking check. It takes no locks, so a
// clean result is not a reservation.
func (s *Service) CheckConflict(ctx context.Context, actor auth.Actor, in CheckInput) ([]scheduling.Conflict, error) {
	doctorID, err := resolveDoctor(actor, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if in.PatientID == uuid.Nil {
		return nil, validationError("patient_id is required")
	}
	if in.StartTime.IsZero() {
		return nil, validationError("start_time is required")
	}

	err = s.checker.Check(ctx, s.repo, scheduling.Tentative{
		ExcludeID: in.ExcludeID,
		DoctorID:  doctorID,
		PatientID: in.PatientID,
		StartTime: normalizeStart(in.StartTime),
	})
	var cErr *scheduling.ConflictError
	if errors.As(err, &cErr) {
		return cErr.Conflicts, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Service) buildAppointment(actor auth.Actor, patientID, requestedDoctor uuid.UUID, start time.Time, reason string, status domain.AppointmentStatus) (domain.Appointment, error) {
	doctorID, err := resolveDoctor(actor, requestedDoctor)
	if err != nil {
		return domain.Appointment{}, err
	}
	if patientID == uuid.Nil {
		return domain.Appointment{}, validationError("patient_id is required")
	}
	if start.IsZero() {
		return domain.Appointment{}, validationError("start_time is required")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Appointment{}, validationError("reason is required")
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return domain.Appointment{}, validationError("reason must be at most 500 characters")
	}

	if status == "" {
		status = domain.AppointmentStatusScheduled
	}
	if !status.Valid() {
		return domain.Appointment{}, validationError("invalid status")
	}

	return domain.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		StartTime: normalizeStart(start),
		Reason:    reason,
		Status:    status,
	}, nil
}

// normalizeStart drops sub-microsecond digits, which timestamptz cannot hold,
// so a replayed create compares equal to the stored row.
func normalizeStart(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func (s *Service) check(ctx context.Context, f scheduling.Finder, appt domain.Appointment, excludeID uuid.UUID) error {
	if !appt.Status.OccupiesTime() {
		return nil
	}
	return s.checker.Check(ctx, f, scheduling.Tentative{
		ExcludeID: excludeID,
		DoctorID:  appt.DoctorID,
		PatientID: appt.PatientID,
		StartTime: appt.StartTime,
	})
}

func lockKeys(appt domain.Appointment) []string {
	return []string{store.DoctorLockKey(appt.DoctorID), store.PatientLockKey(appt.PatientID)}
}
