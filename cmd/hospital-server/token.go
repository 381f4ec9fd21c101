package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hospital/backend/internal/auth"
	"hospital/backend/internal/config"
)

// tokenCmd issues a signed bearer token for local use and tests.
func tokenCmd() *cobra.Command {
	var (
		subject  string
		role     string
		doctorID string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("auth.jwt_secret is required")
			}

			actor, err := tokenActor(subject, role, doctorID)
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}

			tok, err := auth.MakeToken(actor, cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "account identifier (required)")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleReceptionist), "admin, receptionist or doctor")
	cmd.Flags().StringVar(&doctorID, "doctor-id", "", "doctor record linked to a doctor account")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	return cmd
}

func tokenActor(subject, role, doctorID string) (auth.Actor, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return auth.Actor{}, errors.New("--subject is required")
	}
	r, ok := auth.ParseRole(role)
	if !ok {
		return auth.Actor{}, fmt.Errorf("unknown role %q", role)
	}

	actor := auth.Actor{Subject: subject, Role: r}
	if strings.TrimSpace(doctorID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(doctorID))
		if err != nil {
			return auth.Actor{}, fmt.Errorf("--doctor-id: %w", err)
		}
		actor.DoctorID = id
	}
	if r == auth.RoleDoctor && actor.DoctorID == uuid.Nil {
		return auth.Actor{}, errors.New("--doctor-id is required for doctor accounts")
	}
	return actor, nil
}
