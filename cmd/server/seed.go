package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/config"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/seed"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/services"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/storage"
)

var (
	seedCount int
	seedValue int64
	seedFile  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the configured store with generated data or a snapshot file",
	Long: "Generates --count profiles with projects and endorsements between them, " +
		"or, with --file, restores a snapshot written by the export command. " +
		"Records whose id or email already exist are skipped.",
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 50, "number of profiles to generate")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "random seed; 0 uses the current time")
	seedCmd.Flags().StringVar(&seedFile, "file", "", "restore this snapshot instead of generating data")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	backend, err := services.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Database.Driver, err)
	}
	defer backend.Close(ctx)

	if backend.Driver == config.DriverMemory {
		log.Warn("Seeding the memory driver; data is discarded when this command exits")
	}

	if seedFile != "" {
		file, err := storage.NewSnapshotFile(seedFile)
		if err != nil {
			return err
		}
		snap, err := file.Load()
		if err != nil {
			return err
		}
		counts, err := storage.Restore(ctx, backend, snap)
		if err != nil {
			return err
		}
		log.Info("Snapshot restored",
			zap.String("file", file.Path()),
			zap.Int("profiles", counts.Profiles),
			zap.Int("projects", counts.Projects),
			zap.Int("endorsements", counts.Endorsements),
		)
		return nil
	}

	value := seedValue
	if value == 0 {
		value = time.Now().UnixNano()
	}
	_, err = seed.New(backend, value, log).Run(ctx, seedCount)
	return err
}
