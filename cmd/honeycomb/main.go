// Command honeycomb is an operator convenience tool over the combinatorial
// map library: it can generate grids, validate flat-text map files,
// inspect a snapshot database, and serve Prometheus metrics. It implements
// no meshing algorithm of its own; every command is a thin wrapper over
// pkg/cmap/builder, pkg/ioformat, pkg/snapshot and pkg/metrics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "honeycomb",
	Short: "honeycomb - combinatorial map generation and inspection",
	Long: `honeycomb builds and inspects combinatorial maps (n-maps): grid
generation, flat-text map validation, and snapshot database inspection.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"honeycomb version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
