package main

import (
	"strings"

	"edugame/backend/internal/config"
	"edugame/backend/internal/ranking"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"database-url":      "DATABASE_URL",
	"jwt-secret":        "JWT_SECRET",
	"port":              "PORT",
	"log-level":         "LOG_LEVEL",
	"log-format":        "LOG_FORMAT",
	"redis-addr":        "REDIS_ADDR",
	"redis-db":          "REDIS_DB",
	"activity-queue":    "ACTIVITY_QUEUE",
	"leaderboard-limit": "LEADERBOARD_LIMIT",
	"max-participants":  "MAX_PARTICIPANTS",
	"allowed-origins":   "ALLOWED_ORIGINS",
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "edugame",
		Short:   "Lobby, ready-check and leaderboard server for classroom mini-games.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.String("database-url", "", "postgres DSN (env: DATABASE_URL)")
	fs.String("jwt-secret", "", "HMAC secret used to verify bearer tokens (env: JWT_SECRET)")
	fs.IntP("port", "p", 8080, "port to listen on (env: PORT)")
	fs.String("log-level", "info", "logrus level (env: LOG_LEVEL)")
	fs.String("log-format", "text", "log output format, text or json (env: LOG_FORMAT)")
	fs.String("redis-addr", "", "redis address for the activity queue; empty disables it (env: REDIS_ADDR)")
	fs.Int("redis-db", 0, "redis database number (env: REDIS_DB)")
	fs.String("activity-queue", "edugame_activity", "redis list receiving activity records (env: ACTIVITY_QUEUE)")
	fs.Int("leaderboard-limit", ranking.DefaultLimit, "default global leaderboard length (env: LEADERBOARD_LIMIT)")
	fs.Int("max-participants", 30, "default lobby capacity (env: MAX_PARTICIPANTS)")
	fs.String("allowed-origins", "*", "comma separated websocket origin patterns (env: ALLOWED_ORIGINS)")

	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})

	cmd.AddCommand(newTokenCmd(v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("edugame v{{.Version}}\n")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
