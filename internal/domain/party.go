package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Doctor struct {
	bun.BaseModel `bun:"table:doctors"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	FirstName string    `bun:"first_name,notnull"`
	LastName  string    `bun:"last_name,notnull"`
	Specialty string    `bun:"specialty,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (d *Doctor) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampParty(query, &d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (d *Doctor) FullName() string {
	if d == nil {
		return ""
	}
	return fullName(d.FirstName, d.LastName)
}

type Patient struct {
	bun.BaseModel `bun:"table:patients"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	FirstName   string    `bun:"first_name,notnull"`
	LastName    string    `bun:"last_name,notnull"`
	DateOfBirth time.Time `bun:"date_of_birth,notnull,type:date"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (p *Patient) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampParty(query, &p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (p *Patient) FullName() string {
	if p == nil {
		return ""
	}
	return fullName(p.FirstName, p.LastName)
}

func fullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func stampParty(query bun.Query, id *uuid.UUID, createdAt, updatedAt *time.Time) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if *id == uuid.Nil {
			v, err := uuid.NewV7()
			if err != nil {
				return err
			}
			*id = v
		}
		if createdAt.IsZero() {
			*createdAt = now
		}
		if updatedAt.IsZero() {
			*updatedAt = now
		}
	case *bun.UpdateQuery:
		*updatedAt = now
	}
	return nil
}
