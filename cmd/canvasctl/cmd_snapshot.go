package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/archcanvas/archcanvas/internal/persistence"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect canvasd's persisted snapshot offline",
	}
	cmd.AddCommand(newSnapshotDumpCmd())
	cmd.AddCommand(newSnapshotDiffCmd())
	return cmd
}

func newSnapshotDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the current persisted snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshotReadOnly(dataDir)
			if err != nil {
				return err
			}
			return printJSON(snap)
		},
	}
}

func newSnapshotDiffCmd() *cobra.Command {
	var baseFile, targetFile string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Diff two snapshot JSON dumps produced by 'snapshot dump'",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := readSnapshotFile(baseFile)
			if err != nil {
				return err
			}
			target, err := readSnapshotFile(targetFile)
			if err != nil {
				return err
			}
			return printJSON(persistence.Diff(base, target))
		},
	}
	cmd.Flags().StringVar(&baseFile, "base", "", "path to a base snapshot JSON file")
	cmd.Flags().StringVar(&targetFile, "target", "", "path to a target snapshot JSON file")
	cmd.MarkFlagRequired("base")
	cmd.MarkFlagRequired("target")
	return cmd
}

// loadSnapshotReadOnly opens dataDir's BadgerDB with WithReadOnly(true)
// — the same approach the teacher's routing_cache_dump tool uses — and
// returns the persisted snapshot without running canvasd itself.
func loadSnapshotReadOnly(dataDir string) (persistence.Snapshot, error) {
	path := dataDir + "/badger"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return persistence.Snapshot{}, fmt.Errorf("canvasctl: no snapshot store found at %s", path)
	}
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil).WithReadOnly(true))
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("canvasctl: open snapshot store: %w", err)
	}
	defer func() { _ = db.Close() }()

	store, err := persistence.NewStore(db, nil)
	if err != nil {
		return persistence.Snapshot{}, err
	}
	snap, found, err := store.Load(context.Background(), time.Now(), 365*24*time.Hour)
	if err != nil {
		return persistence.Snapshot{}, err
	}
	if !found {
		return persistence.Snapshot{}, fmt.Errorf("canvasctl: no usable snapshot in %s", path)
	}
	return snap, nil
}

func readSnapshotFile(path string) (persistence.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("canvasctl: read %s: %w", path, err)
	}
	var snap persistence.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("canvasctl: parse %s: %w", path, err)
	}
	return snap, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
