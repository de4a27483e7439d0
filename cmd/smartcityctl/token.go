package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/smartcity-backend-go/internal/middleware"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		subject, role string
		ttl           time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the admin endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := a.v.GetString("jwt-secret")
			if secret == "" {
				return fmt.Errorf("jwt secret is empty (set --secret or SMARTCITY_JWT_SECRET)")
			}
			tok, err := middleware.IssueToken(secret, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().String("secret", "", "HMAC secret shared with the server (JWT_SECRET)")
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().StringVar(&role, "role", middleware.RoleAdmin, "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "lifetime")
	_ = a.v.BindPFlag("jwt-secret", cmd.Flags().Lookup("secret"))
	return cmd
}
