// Voxtap-sim is a simulated voxtap capture appliance.
//
// It serves the same HTTP and server-sent-event surface as a real
// appliance, with an in-memory configuration store and synthesized audio
// telemetry. Useful for developing and demoing the control panel without
// hardware on the network.
//
// Usage:
//
//	voxtap-sim serve [flags]
//
// See 'voxtap-sim serve --help' for available options.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxtap/voxtap/internal/logging"
	"github.com/voxtap/voxtap/internal/sim"
	"github.com/voxtap/voxtap/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voxtap-sim",
	Short: "Voxtap Appliance Simulator",
	Long: `A simulated voxtap capture appliance.

Serves the full appliance control surface (configuration, devices,
engine control, telemetry stream) with in-memory state and synthesized
audio levels.

Note: For controlling a real appliance, use the separate 'voxtap'
utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	listenAddr   string
	instanceName string
	logLevel     string
	advertise    bool
	autostart    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulated appliance",
	Long: `Start the simulated appliance and serve the control surface.

The simulator boots with a factory-default configuration and a stopped
capture engine. With --advertise it registers itself over mDNS so
'voxtap scan' finds it like a real appliance.`,
	Example: `  # Start on the default appliance port
  voxtap-sim serve

  # Custom port with verbose logging
  voxtap-sim serve --listen :9000 --log-level debug

  # Advertise over mDNS and start capturing immediately
  voxtap-sim serve --advertise --autostart`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8087", "Listen address")
	serveCmd.Flags().StringVar(&instanceName, "name", "voxtap-sim", "mDNS instance name")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the simulator over mDNS")
	serveCmd.Flags().BoolVar(&autostart, "autostart", false, "Start the capture engine immediately")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	srv := sim.NewServer(sim.Options{
		InstanceName: instanceName,
		Advertise:    advertise,
	})
	if autostart {
		srv.StartEngine()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Simulated appliance listening on %s\n", listenAddr)
	err := srv.Run(ctx, listenAddr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voxtap-sim %s (commit: %s)\n", version.Version, version.Commit)
	},
}
