package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// clearEnv blanks every variable load reads; viper treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GRPC_HOST", "GRPC_PORT", "GRPC_ADDR", "DATABASE_URL", "APPOINTMENT_DURATION",
		"JWT_SECRET", "SHUTDOWN_TIMEOUT", "LOG_LEVEL",
		"HOSPITAL_GRPC_HOST", "HOSPITAL_GRPC_PORT", "HOSPITAL_GRPC_ADDR", "HOSPITAL_GRPC_REQUEST_TIMEOUT",
		"HOSPITAL_DATABASE_URL", "HOSPITAL_APPOINTMENT_DURATION", "HOSPITAL_APPOINTMENT_TIME_ZONE",
		"HOSPITAL_AUTH_JWT_SECRET", "HOSPITAL_AUTH_TOKEN_TTL", "HOSPITAL_RATELIMIT_RPS", "HOSPITAL_RATELIMIT_BURST",
		"HOSPITAL_SHUTDOWN_TIMEOUT", "HOSPITAL_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.GRPCAddr() != "0.0.0.0:50051" {
		t.Fatalf("GRPCAddr = %q", cfg.GRPCAddr())
	}
	if cfg.AppointmentLength != 30*time.Minute {
		t.Fatalf("AppointmentLength = %v, want 30m", cfg.AppointmentLength)
	}
	if cfg.GRPCRequestTimeout != 10*time.Second || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("timeouts = %v/%v", cfg.GRPCRequestTimeout, cfg.ShutdownTimeout)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Fatalf("rate limit = %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !strings.HasPrefix(cfg.DatabaseURL, "postgres://hospital:") {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("Location = %v, %v", loc, err)
	}
}

func TestLoad_EnvAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("APPOINTMENT_DURATION", "45m")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HOSPITAL_APPOINTMENT_TIME_ZONE", "Africa/Lagos")
	t.Setenv("HOSPITAL_RATELIMIT_RPS", "2.5")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.GRPCAddr() != "127.0.0.1:6000" {
		t.Fatalf("GRPCAddr = %q", cfg.GRPCAddr())
	}
	if cfg.DatabaseURL != "postgres://u:p@db:5432/x" {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.AppointmentLength != 45*time.Minute {
		t.Fatalf("AppointmentLength = %v", cfg.AppointmentLength)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
	if cfg.TimeZone != "Africa/Lagos" {
		t.Fatalf("TimeZone = %q", cfg.TimeZone)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad duration", key: "HOSPITAL_SHUTDOWN_TIMEOUT", val: "soon"},
		{name: "zero appointment duration", key: "APPOINTMENT_DURATION", val: "0s"},
		{name: "negative appointment duration", key: "APPOINTMENT_DURATION", val: "-5m"},
		{name: "unknown zone", key: "HOSPITAL_APPOINTMENT_TIME_ZONE", val: "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := load(viper.New()); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
