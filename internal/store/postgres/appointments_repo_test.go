package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/migrate"

	"hospital/backend/internal/domain"
	"hospital/backend/internal/store"
)

func TestSortedLockKeys(t *testing.T) {
	got := sortedLockKeys([]string{"patient:b", "doctor:a", "", "patient:b"})
	want := []string{"doctor:a", "patient:b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sortedLockKeys = %v, want %v", got, want)
	}

	if got := sortedLockKeys(nil); len(got) != 0 {
		t.Fatalf("sortedLockKeys(nil) = %v, want empty", got)
	}
}

func TestToCandidates(t *testing.T) {
	start := time.Date(2026, 3, 2, 11, 0, 0, 0, time.FixedZone("WAT", 3600))
	rows := []domain.Appointment{
		{
			ID:        uuid.MustParse("00000000-0000-0000-0000-000000000101"),
			StartTime: start,
			Status:    domain.AppointmentStatusConfirmed,
			Doctor:    &domain.Doctor{FirstName: "Amina", LastName: "Diallo"},
			Patient:   &domain.Patient{FirstName: "Jean", LastName: "Dupont"},
		},
		{
			ID:        uuid.MustParse("00000000-0000-0000-0000-000000000102"),
			StartTime: start,
			Status:    domain.AppointmentStatusScheduled,
		},
	}

	out := toCandidates(rows)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].DoctorName != "Amina Diallo" || out[0].PatientName != "Jean Dupont" {
		t.Fatalf("names = %q/%q", out[0].DoctorName, out[0].PatientName)
	}
	if out[0].StartTime.Location() != time.UTC || !out[0].StartTime.Equal(start) {
		t.Fatalf("start = %v, want %v in UTC", out[0].StartTime, start)
	}
	if out[1].DoctorName != "" || out[1].PatientName != "" {
		t.Fatalf("missing relations should yield empty names, got %q/%q", out[1].DoctorName, out[1].PatientName)
	}
}

func TestMapWriteError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "appointments_doctor_id_fkey"}
	err := mapWriteError(fmt.Errorf("insert: %w", fk))
	if !errors.Is(err, store.ErrUnknownReference) {
		t.Fatalf("error = %v, want %v", err, store.ErrUnknownReference)
	}
	if !strings.Contains(err.Error(), "appointments_doctor_id_fkey") {
		t.Fatalf("error %q should name the constraint", err.Error())
	}

	other := errors.New("boom")
	if got := mapWriteError(other); got != other {
		t.Fatalf("mapWriteError(other) = %v, want unchanged", got)
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: store.DefaultListLimit},
		{in: -3, want: store.DefaultListLimit},
		{in: 25, want: 25},
		{in: store.MaxListLimit + 1, want: store.MaxListLimit},
	}
	for _, tt := range tests {
		if got := normalizeLimit(tt.in); got != tt.want {
			t.Fatalf("normalizeLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMigrations_EmbeddedInit(t *testing.T) {
	sorted := Migrations.Sorted()
	if len(sorted) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	first := sorted[0]
	if first.String() != "00001_init" {
		t.Fatalf("first migration = %q, want %q", first.String(), "00001_init")
	}
	if first.Up == nil || first.Down == nil {
		t.Fatalf("00001_init needs both up and down files")
	}
}

func TestMigrationFiles_SplitStatements(t *testing.T) {
	up, err := fs.ReadFile(migrationFiles, "migrations/00001_init.tx.up.sql")
	if err != nil {
		t.Fatalf("read up migration: %v", err)
	}
	sql := string(up)
	if strings.Contains(sql, "DROP TABLE") {
		t.Fatalf("up migration must not drop tables")
	}
	if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS appointments") {
		t.Fatalf("up migration missing appointments table")
	}
	// one statement per --bun:split section
	if got, want := strings.Count(sql, "--bun:split"), strings.Count(sql, ";")-1; got != want {
		t.Fatalf("--bun:split count = %d, want %d", got, want)
	}
}

func TestMigrationStates(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	got := migrationStates(migrate.MigrationSlice{
		{Name: "00001", Comment: "init", ID: 1, MigratedAt: at},
		{Name: "00002", Comment: "rooms"},
	})
	want := []MigrationState{
		{Version: "00001_init", Applied: true, MigratedAt: at},
		{Version: "00002_rooms"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("migrationStates = %+v, want %+v", got, want)
	}
	if appliedCount(nil) != 0 {
		t.Fatalf("appliedCount(nil) must be 0")
	}
}
