// Voxtap is a terminal control panel for voxtap audio capture appliances.
//
// It provides appliance discovery, a live telemetry dashboard with an
// inline configuration editor, and direct commands for scripted use. All
// communication with the appliance is over HTTP plus a server-sent event
// stream for telemetry.
//
// Usage:
//
//	voxtap [command] [flags]
//
// Running without arguments launches the interactive control panel.
// See 'voxtap --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxtap/voxtap/internal/logging"
	"github.com/voxtap/voxtap/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voxtap",
	Short: "Voxtap Appliance Control Panel",
	Long: `A terminal control panel for voxtap audio capture appliances.

Provides appliance discovery, a live telemetry dashboard with inline
configuration editing, and direct commands for scripted use.

If no command is specified, the interactive control panel will launch
automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the control panel when no subcommand provided
		return runPanel(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voxtap %s (commit: %s)\n", version.Version, version.Commit)
	},
}
