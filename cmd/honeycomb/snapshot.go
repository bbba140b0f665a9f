package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect a snapshot database",
}

var snapshotNamesCmd = &cobra.Command{
	Use:   "names",
	Short: "List every snapshot name stored in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		store, err := snapshot.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open snapshot database: %w", err)
		}
		defer store.Close()

		names, err := store.Names()
		if err != nil {
			return fmt.Errorf("failed to list snapshot names: %w", err)
		}
		if len(names) == 0 {
			fmt.Println("No snapshots found")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list NAME",
	Short: "List every saved version of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		store, err := snapshot.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open snapshot database: %w", err)
		}
		defer store.Close()

		metas, err := store.History(args[0])
		if err != nil {
			return fmt.Errorf("failed to list versions: %w", err)
		}

		fmt.Printf("%-8s %-5s %-10s %s\n", "VERSION", "DIM", "SIZE", "CREATED")
		for _, meta := range metas {
			fmt.Printf("%-8d %-5d %-10d %s\n", meta.Version, meta.Dimension, meta.Size,
				meta.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a snapshot version's flat-text representation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		version, _ := cmd.Flags().GetUint32("version")

		store, err := snapshot.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open snapshot database: %w", err)
		}
		defer store.Close()

		rec, err := store.Load(args[0], version)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}

		_, err = os.Stdout.Write(rec.Data)
		return err
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotNamesCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)

	for _, cmd := range []*cobra.Command{snapshotNamesCmd, snapshotListCmd, snapshotShowCmd} {
		cmd.Flags().String("db", "./honeycomb-data", "Data directory holding the snapshot database")
	}
	snapshotShowCmd.Flags().Uint32("version", 0, "Version to show (defaults to latest)")
}
