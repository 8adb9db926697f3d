// Command lsnmpmanager is a scriptable manager CLI for L-SNMPvS agents:
// one-shot get/set/reset commands and a beacon-watching subcommand, each
// addressing an agent looked up by name from the endpoints directory.
// This is explicitly not the reference manager's interactive stdin menu
// — every subcommand runs once and exits, so it composes in scripts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lsnmpmanager: %v\n", err)
		os.Exit(1)
	}
}

var endpointsDirFlag string

var rootCmd = &cobra.Command{
	Use:   "lsnmpmanager",
	Short: "manager CLI for L-SNMPvS agents",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpointsDirFlag, "endpoints", "", "Override LSNMPVS_MANAGER_ENDPOINTS_DIRECTORY_PATH")
}
