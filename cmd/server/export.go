package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/services"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every profile, project and endorsement to a JSON snapshot",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "data/snapshot.json", "snapshot file to write")
}

func runExport(cmd *cobra.Command, _ []string) error {
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

	file, err := storage.NewSnapshotFile(exportOut)
	if err != nil {
		return err
	}
	snap, err := storage.Capture(ctx, backend, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := file.Save(snap); err != nil {
		return err
	}

	log.Info("Snapshot written",
		zap.String("file", file.Path()),
		zap.Int("profiles", len(snap.Profiles)),
		zap.Int("projects", len(snap.Projects)),
		zap.Int("endorsements", len(snap.Endorsements)),
	)
	return nil
}
