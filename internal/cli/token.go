package cli

import (
	"fmt"
	"time"

	"roit-learning-service/internal/config"
	"roit-learning-service/internal/domain"
	transport "roit-learning-service/internal/transport/http"

	"github.com/spf13/cobra"
)

// NewTokenCmd prints a signed access token for local testing against the API.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			auth := transport.NewAuthenticator(jwtSecret(cfg), nil)
			tok, err := auth.IssueToken(domain.User{ID: userID, Email: email}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
