package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const serviceName = "hospital-server"

func main() {
	log := newLogger("info")
	slog.SetDefault(log)

	if err := execute(rootCmd(), log); err != nil {
		os.Exit(1)
	}
}

// execute runs root and logs its error; cobra's own printing is silenced.
func execute(root *cobra.Command, log *slog.Logger) error {
	err := root.Execute()
	if err != nil {
		log.Error("command failed", slog.String("command", root.Name()), slog.Any("err", err))
	}
	return err
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Hospital appointment scheduling gRPC server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(tokenCmd())
	return root
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(level)})).With(
		slog.String("service", serviceName),
	)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
