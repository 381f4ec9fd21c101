package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"hospital/backend/internal/domain"
	"hospital/backend/internal/service/scheduling"
	"hospital/backend/internal/store"
)

const pgForeignKeyViolation = "23503"

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type scheduleTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	return getAppointment(ctx, r.db, appointmentID)
}

func (r *AppointmentRepo) List(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := r.db.NewSelect().
		Model(&rows).
		Relation("Doctor").
		Relation("Patient")
	if filter.DoctorID != uuid.Nil {
		q = q.Where("?TableAlias.doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != uuid.Nil {
		q = q.Where("?TableAlias.patient_id = ?", filter.PatientID)
	}
	if !filter.From.IsZero() {
		q = q.Where("?TableAlias.start_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("?TableAlias.start_time < ?", filter.To)
	}
	err := q.OrderExpr("?TableAlias.start_time DESC").
		Limit(normalizeLimit(filter.Limit)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", appointmentID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindCandidates reads outside of any schedule lock; results are advisory.
func (r *AppointmentRepo) FindCandidates(ctx context.Context, q scheduling.Query) ([]scheduling.Candidate, error) {
	return findCandidates(ctx, r.db, q)
}

func (r *AppointmentRepo) InScheduleTransaction(ctx context.Context, lockKeys []string, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	keys := sortedLockKeys(lockKeys)
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, key := range keys {
			if err := lockSchedule(ctx, tx, key); err != nil {
				return err
			}
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockSchedule(ctx context.Context, tx bun.Tx, key string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	return err
}

// sortedLockKeys gives every transaction the same acquisition order so two
// bookings touching the same doctor and patient cannot deadlock.
func sortedLockKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r scheduleTx) FindCandidates(ctx context.Context, q scheduling.Query) ([]scheduling.Candidate, error) {
	return findCandidates(ctx, r.tx, q)
}

func (r scheduleTx) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	return getAppointment(ctx, r.tx, appointmentID)
}

func (r scheduleTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:        appt.ID,
		PatientID: appt.PatientID,
		DoctorID:  appt.DoctorID,
		StartTime: appt.StartTime,
		Reason:    appt.Reason,
		Status:    appt.Status,
		CreatedAt: appt.CreatedAt,
		UpdatedAt: appt.UpdatedAt,
	}

	res, err := r.tx.NewInsert().
		Model(&m).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}

	stored, err := getAppointment(ctx, r.tx, m.ID)
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 && !stored.SameBooking(m) {
		return domain.Appointment{}, store.ErrIdempotencyConflict
	}
	return stored, nil
}

func (r scheduleTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:        appt.ID,
		PatientID: appt.PatientID,
		DoctorID:  appt.DoctorID,
		StartTime: appt.StartTime,
		Reason:    appt.Reason,
		Status:    appt.Status,
	}

	res, err := r.tx.NewUpdate().
		Model(&m).
		Column("patient_id", "doctor_id", "start_time", "reason", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return getAppointment(ctx, r.tx, m.ID)
}

func getAppointment(ctx context.Context, db bun.IDB, appointmentID uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := db.NewSelect().
		Model(&appt).
		Relation("Doctor").
		Relation("Patient").
		Where("?TableAlias.id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

// findCandidates applies only the widened prefetch window; the checker
// decides true overlap.
func findCandidates(ctx context.Context, db bun.IDB, q scheduling.Query) ([]scheduling.Candidate, error) {
	var rows []domain.Appointment
	sel := db.NewSelect().
		Model(&rows).
		Relation("Doctor").
		Relation("Patient").
		Where("?TableAlias.status <> ?", string(domain.AppointmentStatusCancelled)).
		Where("?TableAlias.start_time >= ?", q.WindowStart).
		Where("?TableAlias.start_time < ?", q.WindowEnd)

	switch q.Dimension {
	case scheduling.DimensionDoctor:
		sel = sel.Where("?TableAlias.doctor_id = ?", q.PartyID)
	case scheduling.DimensionPatient:
		sel = sel.Where("?TableAlias.patient_id = ?", q.PartyID)
	default:
		return nil, fmt.Errorf("unknown conflict dimension %q", q.Dimension)
	}
	if q.ExcludeID != uuid.Nil {
		sel = sel.Where("?TableAlias.id <> ?", q.ExcludeID)
	}

	if err := sel.Scan(ctx); err != nil {
		return nil, err
	}
	return toCandidates(rows), nil
}

func toCandidates(rows []domain.Appointment) []scheduling.Candidate {
	out := make([]scheduling.Candidate, 0, len(rows))
	for _, a := range rows {
		out = append(out, scheduling.Candidate{
			ID:          a.ID,
			StartTime:   a.StartTime.UTC(),
			Status:      a.Status,
			DoctorName:  a.Doctor.FullName(),
			PatientName: a.Patient.FullName(),
		})
	}
	return out
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", store.ErrUnknownReference, pgErr.ConstraintName)
	}
	return err
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return store.DefaultListLimit
	}
	if limit > store.MaxListLimit {
		return store.MaxListLimit
	}
	return limit
}
