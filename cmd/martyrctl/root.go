// cmd/martyrctl/root.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "martyrctl",
		Short:         "Operator tool for the martyrs archive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newMigrateCmd(), newSeedCmd(), newMaintenanceCmd())
	return rootCmd
}

// envDefault returns the first non-empty environment variable, or def.
func envDefault(def string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}
