package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	hospitalv1 "hospital/backend/internal/api/hospitalv1"
	"hospital/backend/internal/auth"
	"hospital/backend/internal/domain"
	"hospital/backend/internal/service/appointments"
	"hospital/backend/internal/service/scheduling"
	"hospital/backend/internal/store"
)

const errorDomain = "hospital.v1"

type AppointmentsServer struct {
	hospitalv1.UnimplementedAppointmentsServiceServer

	svc appointmentsService
	log *slog.Logger
}

type appointmentsService interface {
	Create(ctx context.Context, actor auth.Actor, in appointments.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, actor auth.Actor, in appointments.UpdateInput) (domain.Appointment, error)
	Delete(ctx context.Context, actor auth.Actor, appointmentID uuid.UUID) error
	Get(ctx context.Context, actor auth.Actor, appointmentID uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, actor auth.Actor, in appointments.ListInput) ([]domain.Appointment, error)
	CheckConflict(ctx context.Context, actor auth.Actor, in appointments.CheckInput) ([]scheduling.Conflict, error)
}

func NewAppointmentsServer(svc appointmentsService, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.appointments")),
	}
}

func (s *AppointmentsServer) CreateAppointment(ctx context.Context, req *hospitalv1.CreateAppointmentRequest) (*hospitalv1.CreateAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	log = log.With(slog.String("subject", actor.Subject))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartTime == nil {
		log.Warn("invalid request", slog.String("reason", "missing_start_time"))
		return nil, status.Error(codes.InvalidArgument, "start_time is required")
	}
	patientID, err := parseID("patient_id", req.PatientID, true)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "patient_id"))
		return nil, err
	}
	doctorID, err := parseID("doctor_id", req.DoctorID, false)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "doctor_id"))
		return nil, err
	}

	appt, err := s.svc.Create(ctx, actor, appointments.CreateInput{
		PatientID:      patientID,
		DoctorID:       doctorID,
		StartTime:      *req.StartTime,
		Reason:         req.Reason,
		Status:         domain.AppointmentStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, s.toStatus(log, "appointment create", err,
			slog.String("patient_id", patientID.String()),
			slog.Time("start_time", *req.StartTime),
		)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("doctor_id", appt.DoctorID.String()),
		slog.String("patient_id", appt.PatientID.String()),
		slog.Time("start_time", appt.StartTime),
	)

	return &hospitalv1.CreateAppointmentResponse{Appointment: toAPIAppointment(appt)}, nil
}

func (s *AppointmentsServer) UpdateAppointment(ctx context.Context, req *hospitalv1.UpdateAppointmentRequest) (*hospitalv1.UpdateAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateAppointment"))

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	log = log.With(slog.String("subject", actor.Subject))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartTime == nil {
		log.Warn("invalid request", slog.String("reason", "missing_start_time"))
		return nil, status.Error(codes.InvalidArgument, "start_time is required")
	}
	id, err := parseID("id", req.ID, true)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "id"))
		return nil, err
	}
	patientID, err := parseID("patient_id", req.PatientID, true)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "patient_id"))
		return nil, err
	}
	doctorID, err := parseID("doctor_id", req.DoctorID, false)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "doctor_id"))
		return nil, err
	}

	appt, err := s.svc.Update(ctx, actor, appointments.UpdateInput{
		ID:        id,
		PatientID: patientID,
		DoctorID:  doctorID,
		StartTime: *req.StartTime,
		Reason:    req.Reason,
		Status:    domain.AppointmentStatus(strings.ToLower(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		return nil, s.toStatus(log, "appointment update", err, slog.String("appointment_id", id.String()))
	}

	log.Info(
		"appointment updated",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("status", string(appt.Status)),
		slog.Time("start_time", appt.StartTime),
	)

	return &hospitalv1.UpdateAppointmentResponse{Appointment: toAPIAppointment(appt)}, nil
}

func (s *AppointmentsServer) DeleteAppointment(ctx context.Context, req *hospitalv1.DeleteAppointmentRequest) (*hospitalv1.DeleteAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "DeleteAppointment"))

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	log = log.With(slog.String("subject", actor.Subject))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID("id", req.ID, true)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "id"))
		return nil, err
	}

	if err := s.svc.Delete(ctx, actor, id); err != nil {
		return nil, s.toStatus(log, "appointment delete", err, slog.String("appointment_id", id.String()))
	}

	log.Info("appointment deleted", slog.String("appointment_id", id.String()))
	return &hospitalv1.DeleteAppointmentResponse{}, nil
}

func (s *AppointmentsServer) GetAppointment(ctx context.Context, req *hospitalv1.GetAppointmentRequest) (*hospitalv1.GetAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAppointment"))

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID("id", req.ID, true)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "id"))
		return nil, err
	}

	appt, err := s.svc.Get(ctx, actor, id)
	if err != nil {
		return nil, s.toStatus(log, "appointment get", err, slog.String("appointment_id", id.String()))
	}
	return &hospitalv1.GetAppointmentResponse{Appointment: toAPIAppointment(appt)}, nil
}

func (s *AppointmentsServer) ListAppointments(ctx context.Context, req *hospitalv1.ListAppointmentsRequest) (*hospitalv1.ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAppointments"))

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	doctorID, err := parseID("doctor_id", req.DoctorID, false)
	if err != nil {
		return nil, err
	}
	patientID, err := parseID("patient_id", req.PatientID, false)
	if err != nil {
		return nil, err
	}

	in := appointments.ListInput{
		DoctorID:  doctorID,
		PatientID: patientID,
		Limit:     int(req.Limit),
	}
	if req.From != nil {
		in.From = *req.From
	}
	if req.To != nil {
		in.To = *req.To
	}

	appts, err := s.svc.List(ctx, actor, in)
	if err != nil {
		return nil, s.toStatus(log, "appointments list", err)
	}

	out := make([]*hospitalv1.Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAPIAppointment(a))
	}

	log.Debug(
		"appointments listed",
		slog.String("subject", actor.Subject),
		slog.Int("count", len(out)),
	)

	return &hospitalv1.ListAppointmentsResponse{Appointments: out}, nil
}

func (s *AppointmentsServer) CheckConflict(ctx context.Context, req *hospitalv1.CheckConflictRequest) (*hospitalv1.CheckConflictResponse, error) {
	log := s.log.With(slog.String("rpc", "CheckConflict"))

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartTime == nil {
		log.Warn("invalid request", slog.String("reason", "missing_start_time"))
		return nil, status.Error(codes.InvalidArgument, "start_time is required")
	}
	excludeID, err := parseID("exclude_id", req.ExcludeID, false)
	if err != nil {
		return nil, err
	}
	patientID, err := parseID("patient_id", req.PatientID, true)
	if err != nil {
		return nil, err
	}
	doctorID, err := parseID("doctor_id", req.DoctorID, false)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.svc.CheckConflict(ctx, actor, appointments.CheckInput{
		ExcludeID: excludeID,
		PatientID: patientID,
		DoctorID:  doctorID,
		StartTime: *req.StartTime,
	})
	if err != nil {
		return nil, s.toStatus(log, "conflict check", err)
	}

	out := make([]*hospitalv1.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, toAPIConflict(c))
	}
	return &hospitalv1.CheckConflictResponse{HasConflict: len(out) > 0, Conflicts: out}, nil
}

// toStatus logs err at a level matching its cause and converts it to a gRPC
// status. Unknown errors never leak their text to the caller.
func (s *AppointmentsServer) toStatus(log *slog.Logger, op string, err error, attrs ...any) error {
	var cErr *scheduling.ConflictError
	if errors.As(err, &cErr) {
		args := append([]any{slog.Int("conflicts", len(cErr.Conflicts))}, attrs...)
		log.Info(op+" conflict", args...)
		return conflictStatus(cErr)
	}

	var vErr *appointments.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.Is(err, store.ErrUnknownReference):
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.InvalidArgument, "doctor or patient does not exist")
	case errors.Is(err, appointments.ErrForbidden):
		log.Warn(op+" forbidden", attrs...)
		return status.Error(codes.PermissionDenied, "not allowed for this account")
	case errors.Is(err, store.ErrNotFound):
		log.Info("appointment not found", attrs...)
		return status.Error(codes.NotFound, "appointment not found")
	case errors.Is(err, store.ErrIdempotencyConflict):
		log.Info(op+" idempotency conflict", attrs...)
		return status.Error(codes.FailedPrecondition, "This request key was already used for a different appointment. Try again.")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn(op+" timed out", attrs...)
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	}

	log.Error(op+" failed", append([]any{slog.Any("err", err)}, attrs...)...)
	return status.Error(codes.Internal, "internal error")
}

func conflictStatus(cErr *scheduling.ConflictError) error {
	st := status.New(codes.FailedPrecondition, cErr.Error())
	details := make([]*errdetails.ErrorInfo, 0, len(cErr.Conflicts))
	for _, c := range cErr.Conflicts {
		details = append(details, &errdetails.ErrorInfo{
			Reason: conflictReason(c.Dimension),
			Domain: errorDomain,
			Metadata: map[string]string{
				"appointment_id": c.AppointmentID.String(),
				"start_time":     c.StartTime.UTC().Format(time.RFC3339),
				"party":          c.PartyName,
				"other_party":    c.OtherPartyName,
				"message":        c.Message(),
			},
		})
	}
	for _, d := range details {
		withDetail, err := st.WithDetails(d)
		if err != nil {
			break
		}
		st = withDetail
	}
	return st.Err()
}

func conflictReason(dim scheduling.Dimension) string {
	return strings.ToUpper(string(dim)) + "_CONFLICT"
}

func requireActor(ctx context.Context) (auth.Actor, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return auth.Actor{}, status.Error(codes.Unauthenticated, "authentication required")
	}
	return actor, nil
}

func parseID(field, raw string, required bool) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return uuid.Nil, status.Error(codes.InvalidArgument, field+" is required")
		}
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, field+" must be a UUID")
	}
	return id, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func toAPIAppointment(a domain.Appointment) *hospitalv1.Appointment {
	return &hospitalv1.Appointment{
		ID:          a.ID.String(),
		PatientID:   a.PatientID.String(),
		DoctorID:    a.DoctorID.String(),
		StartTime:   a.StartTime.UTC(),
		Reason:      a.Reason,
		Status:      string(a.Status),
		DoctorName:  a.Doctor.FullName(),
		PatientName: a.Patient.FullName(),
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
}

func toAPIConflict(c scheduling.Conflict) *hospitalv1.Conflict {
	return &hospitalv1.Conflict{
		Dimension:      string(c.Dimension),
		AppointmentID:  c.AppointmentID.String(),
		StartTime:      c.StartTime.UTC(),
		PartyName:      c.PartyName,
		OtherPartyName: c.OtherPartyName,
		Message:        c.Message(),
	}
}
