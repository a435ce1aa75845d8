package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/config"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/logger"
)

const app = "networking-server"

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "Profiles, projects, endorsements and matchmaking over a document store",
		// With no subcommand the API server starts.
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file; environment variables override it")
	rootCmd.AddCommand(serveCmd, seedCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger every subcommand needs.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}
