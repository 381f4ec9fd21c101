package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrBadToken = errors.New("invalid token")

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RoleDoctor       Role = "doctor"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleReceptionist, RoleDoctor:
		return r, true
	}
	return "", false
}

// Actor is the authenticated caller. DoctorID is set only for doctor accounts
// linked to a doctor record.
type Actor struct {
	Subject  string
	Role     Role
	DoctorID uuid.UUID
}

func (a Actor) IsDoctor() bool {
	return a.Role == RoleDoctor
}

type Claims struct {
	Role     string `json:"role"`
	DoctorID string `json:"doctor_id,omitempty"`
	jwt.RegisteredClaims
}

func MakeToken(actor Actor, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is required")
	}
	now := time.Now()
	c := Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if actor.DoctorID != uuid.Nil {
		c.DoctorID = actor.DoctorID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func ParseToken(raw, secret string) (Actor, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Actor{}, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return Actor{}, ErrBadToken
	}

	role, ok := ParseRole(c.Role)
	if !ok {
		return Actor{}, ErrBadToken
	}
	actor := Actor{Subject: c.Subject, Role: role}
	if c.DoctorID != "" {
		id, err := uuid.Parse(c.DoctorID)
		if err != nil {
			return Actor{}, ErrBadToken
		}
		actor.DoctorID = id
	}
	return actor, nil
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
