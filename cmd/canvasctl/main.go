// Command canvasctl is the operator CLI for a running canvasd instance:
// apply a single edit intent, dump or diff a persisted snapshot, or
// open a live terminal inspector over the render feed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverAddr string
	dataDir    string
)

func main() {
	root := &cobra.Command{
		Use:   "canvasctl",
		Short: "Operate a running archcanvas server",
	}
	root.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "canvasd base URL")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "./canvas-data", "canvasd's BadgerDB/sqlite data directory, for offline snapshot commands")

	root.AddCommand(newApplyCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newInspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
