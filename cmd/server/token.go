package main

import (
	"fmt"
	"time"

	"edugame/backend/internal/config"
	"edugame/backend/pkg/jwt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newTokenCmd mints a bearer token for local testing.
func newTokenCmd(v *viper.Viper) *cobra.Command {
	var (
		userID uint
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token for a user",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user must be a positive id")
			}
			if role != jwt.RoleTeacher && role != jwt.RoleStudent {
				return fmt.Errorf("--role must be %q or %q", jwt.RoleTeacher, jwt.RoleStudent)
			}

			cfg, err := config.LoadConfig(v)
			if err != nil {
				return err
			}

			token, err := jwt.GenerateToken(cfg.JWTSecret, userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.UintVar(&userID, "user", 0, "user id to put in the subject claim")
	fs.StringVar(&role, "role", jwt.RoleStudent, "role claim, teacher or student")
	fs.DurationVar(&ttl, "ttl", jwt.DefaultTTL, "token lifetime")

	return cmd
}
