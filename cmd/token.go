package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Leganyst/class-scheduler/internal/auth"
)

// Выпуск токена для локальной отладки без провайдера идентичности.
func newTokenCmd(root *rootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Development bearer tokens",
	}
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token for users.auth_user_id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := root.bootstrap()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			token, err := auth.Issue(cfg.Auth.JWTSecret, subject, ttl, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "auth_user_id of the user (required)")
	issue.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = issue.MarkFlagRequired("subject")

	cmd.AddCommand(issue)
	return cmd
}
