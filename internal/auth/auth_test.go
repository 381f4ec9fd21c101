package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	doctorID := uuid.MustParse("00000000-0000-0000-0000-00000000d001")
	raw, err := MakeToken(Actor{Subject: "u1", Role: RoleDoctor, DoctorID: doctorID}, "s3cret", time.Hour)
	if err != nil {
		t.Fatalf("MakeToken error: %v", err)
	}

	got, err := ParseToken(raw, "s3cret")
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got.Subject != "u1" || got.Role != RoleDoctor || got.DoctorID != doctorID {
		t.Fatalf("actor = %+v", got)
	}
	if !got.IsDoctor() {
		t.Fatalf("expected doctor actor")
	}
}

func TestParseToken_Rejects(t *testing.T) {
	good, err := MakeToken(Actor{Subject: "u1", Role: RoleAdmin}, "s3cret", time.Hour)
	if err != nil {
		t.Fatalf("MakeToken error: %v", err)
	}
	expired, err := MakeToken(Actor{Subject: "u1", Role: RoleAdmin}, "s3cret", -time.Minute)
	if err != nil {
		t.Fatalf("MakeToken error: %v", err)
	}
	unknownRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "janitor",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}
	badDoctor, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "doctor",
		DoctorID:         "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	tests := []struct {
		name   string
		raw    string
		secret string
	}{
		{name: "wrong secret", raw: good, secret: "other"},
		{name: "expired", raw: expired, secret: "s3cret"},
		{name: "unknown role", raw: unknownRole, secret: "s3cret"},
		{name: "bad doctor id", raw: badDoctor, secret: "s3cret"},
		{name: "garbage", raw: "not.a.token", secret: "s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.raw, tt.secret); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMakeToken_RequiresSecret(t *testing.T) {
	if _, err := MakeToken(Actor{Role: RoleAdmin}, "", time.Hour); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Receptionist "); !ok || r != RoleReceptionist {
		t.Fatalf("ParseRole = %q, %v", r, ok)
	}
	if _, ok := ParseRole("patient"); ok {
		t.Fatalf("patient is not a staff role")
	}
}

func TestActorContext(t *testing.T) {
	if _, ok := ActorFromContext(context.Background()); ok {
		t.Fatalf("expected no actor")
	}
	ctx := WithActor(context.Background(), Actor{Subject: "u1", Role: RoleAdmin})
	a, ok := ActorFromContext(ctx)
	if !ok || a.Subject != "u1" {
		t.Fatalf("actor = %+v, %v", a, ok)
	}
}
