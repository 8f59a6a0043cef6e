package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/voxtap/voxtap/internal/appliance"
	"github.com/voxtap/voxtap/internal/configtree"
	"github.com/voxtap/voxtap/internal/discovery"
	"github.com/voxtap/voxtap/internal/format"
	"github.com/voxtap/voxtap/internal/prefs"
	"github.com/voxtap/voxtap/internal/replicate"
	"github.com/voxtap/voxtap/internal/tui"
)

// Command flags
var (
	applianceURL string
	scanTimeout  int
	outputFormat string
)

func init() {
	// Common flags for appliance commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&applianceURL, "url", "", "Appliance base URL (skips discovery and preferences)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "Output format (yaml, json)")

	// Add subcommands directly to root
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(watchCmd)
}

// panelCmd launches the interactive control panel
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Launch the interactive control panel",
	Long: `Launch the interactive terminal control panel.

The panel shows live telemetry (engine status, RX/REC indicators, audio
level) next to an inline configuration editor. Edits autosave after a
short quiet period; press 's' to save immediately.

This is the recommended interface for most users.`,
	Example: `  # Launch with auto-discovery or saved endpoint
  voxtap panel
  # Or simply (panel is default):
  voxtap

  # Launch against a specific appliance
  voxtap panel --url http://192.168.1.40:8087
  voxtap --url http://192.168.1.40:8087`,
	RunE: runPanel,
}

func runPanel(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the control panel needs an interactive terminal (use 'voxtap show' or 'voxtap watch' for scripted output)")
	}

	client, err := resolveClient()
	if err != nil {
		return err
	}

	// Verify we can connect before taking over the terminal
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	if _, err := client.ReadConfig(ctx); err != nil {
		return fmt.Errorf("failed to connect to appliance at %s: %w", client.BaseURL, err)
	}

	var quiet time.Duration
	if p, err := prefs.Load(); err == nil && p.Settings.AutosaveQuietMS > 0 {
		quiet = time.Duration(p.Settings.AutosaveQuietMS) * time.Millisecond
	}

	if err := tui.Run(cmd.Context(), client, quiet); err != nil {
		return fmt.Errorf("control panel error: %w", err)
	}
	return nil
}

// scanCmd discovers appliances on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for voxtap appliances on the network",
	Long: `Scan for voxtap appliances using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from appliances and displays
all discovered appliances with their addresses and metadata.`,
	Example: `  # Scan for 10 seconds (default)
  voxtap scan

  # Quick 3-second scan
  voxtap scan --timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for voxtap appliances (timeout: %ds)...\n\n", scanTimeout)

	appliances, err := discovery.Scan(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(appliances) == 0 {
		fmt.Println("No appliances found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the appliance is powered on and on the same network")
		fmt.Println("  - Check that your network allows multicast (mDNS, UDP 5353)")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --url to specify the appliance address manually")
		return nil
	}

	fmt.Printf("Found %d appliance(s):\n\n", len(appliances))

	p, _ := prefs.Load()
	for i, a := range appliances {
		fmt.Printf("%d. %s\n", i+1, a.Name)
		fmt.Printf("   Address: %s\n", a.BaseURL())
		if v := a.GetMetadata("version"); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()
		if p != nil {
			p.RememberAppliance(a.Name, a.BaseURL())
		}
	}
	if p != nil {
		if err := p.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save preferences: %v\n", err)
		}
	}

	fmt.Println("Use 'voxtap show --url <address>' to view the configuration")
	fmt.Println("Use 'voxtap panel' for the interactive control panel")

	return nil
}

// showCmd displays the appliance configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show appliance configuration",
	Long: `Display the current configuration of an appliance.

This command connects to the appliance and retrieves its full
configuration tree.`,
	Example: `  # Show config with auto-discovery
  voxtap show

  # Show config for a specific appliance
  voxtap show --url http://192.168.1.40:8087

  # JSON output for scripting
  voxtap show --format json`,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := resolveClient()
	if err != nil {
		return err
	}

	tree, err := client.ReadConfig(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	return printTree(tree)
}

// setCmd writes a single configuration field
var setCmd = &cobra.Command{
	Use:   "set <section.field> <value>",
	Short: "Set a configuration field",
	Long: `Directly write one configuration field without the control panel.

The field is addressed as section.field, e.g. audio.sql_threshold. The
value is parsed as a boolean or number when it looks like one, otherwise
it is sent as a string. The appliance merges the write into its stored
configuration; sibling fields are untouched.`,
	Example: `  # Raise the squelch threshold
  voxtap set audio.sql_threshold 25

  # Enable the Broadcastify uplink
  voxtap set bcfy.enabled true

  # Rename the instance
  voxtap set general.instance_name "garage scanner"`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	section, field, ok := strings.Cut(args[0], ".")
	if !ok || section == "" || field == "" {
		return fmt.Errorf("field must be addressed as section.field, e.g. audio.sql_threshold")
	}

	client, err := resolveClient()
	if err != nil {
		return err
	}

	value := parseScalar(args[1])
	merged, err := client.WritePatch(cmd.Context(), configtree.Set(section, field, value))
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	got, _ := merged.Field(section, field)
	fmt.Printf("✓ %s.%s = %v\n", section, field, got)
	return nil
}

// saveCmd forces a config file rewrite on the appliance
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Force the appliance to persist its configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := resolveClient()
		if err != nil {
			return err
		}
		if err := client.SaveNow(cmd.Context()); err != nil {
			return fmt.Errorf("save failed: %w", err)
		}
		fmt.Println("✓ Configuration saved")
		return nil
	},
}

// devicesCmd lists capture devices
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capture devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := resolveClient()
		if err != nil {
			return err
		}
		list, err := client.ListDevices(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}

		for i, d := range list.Devices {
			marker := "  "
			if d == list.Current {
				marker = "* "
			}
			fmt.Printf("%s%d. %s\n", marker, i, d)
		}
		return nil
	},
}

// selectCmd selects the capture device by name
var selectCmd = &cobra.Command{
	Use:   "select <device name>",
	Short: "Select the capture device",
	Long: `Select the capture device by its name from 'voxtap devices'.

The appliance identifies devices by their position in the enumeration,
so the list is re-fetched immediately before selecting. If devices are
plugged or unplugged at the same moment, re-run 'voxtap devices' and
verify the selection.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := resolveClient()
		if err != nil {
			return err
		}
		if err := client.SelectDevice(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}
		fmt.Printf("✓ Capture device set to %q\n", args[0])
		return nil
	},
}

// startCmd and stopCmd control the capture engine
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the capture engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := resolveClient()
		if err != nil {
			return err
		}
		snap, err := client.StartEngine(cmd.Context())
		if err != nil {
			return fmt.Errorf("start failed: %w", err)
		}
		fmt.Printf("✓ Engine running: %s\n", snap.StatusText)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the capture engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := resolveClient()
		if err != nil {
			return err
		}
		snap, err := client.StopEngine(cmd.Context())
		if err != nil {
			return fmt.Errorf("stop failed: %w", err)
		}
		fmt.Printf("✓ Engine stopped: %s\n", snap.StatusText)
		return nil
	},
}

// watchCmd streams telemetry to stdout
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live telemetry to the terminal",
	Long: `Subscribe to the appliance's telemetry stream and print one line per
snapshot until interrupted. Reconnects automatically if the stream
drops.`,
	Example: `  voxtap watch
  voxtap watch --url http://192.168.1.40:8087`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	client, err := resolveClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep := replicate.New(client)
	rep.OnSnapshot = func(snap appliance.LiveState) {
		running := "stopped"
		if snap.Running {
			running = "running"
		}
		rx, rec := " ", " "
		if snap.LedRX {
			rx = "R"
		}
		if snap.LedRec {
			rec = "●"
		}
		fmt.Printf("%-8s [%s%s] %s %3d%% %9s  %s\n",
			running, rx, rec,
			format.LevelBar(format.ClampPercent(snap.LevelPct), 20),
			format.ClampPercent(snap.LevelPct),
			format.DB(snap.LevelDB),
			snap.StatusText,
		)
	}
	rep.OnTransition = func(_, to replicate.State) {
		fmt.Fprintf(os.Stderr, "link: %s\n", to)
	}
	rep.OnConfig = func(json.RawMessage) {
		fmt.Fprintln(os.Stderr, "config changed on the appliance")
	}

	err = rep.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// resolveClient builds the appliance client from the --url flag, saved
// preferences, or mDNS discovery, in that order.
func resolveClient() (*appliance.Client, error) {
	if applianceURL != "" {
		return appliance.NewClient(applianceURL), nil
	}

	p, err := prefs.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	if p.Settings.ApplianceURL != "" {
		return appliance.NewClient(p.Settings.ApplianceURL), nil
	}

	if !p.Settings.AutoDiscover {
		return nil, fmt.Errorf("no appliance configured. Use --url or enable auto_discover in preferences")
	}

	fmt.Println("No appliance configured, attempting auto-discovery...")
	timeout := time.Duration(p.Settings.DiscoverTimeout) * time.Second
	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}
	appliances, err := discovery.Scan(timeout)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	if len(appliances) == 0 {
		return nil, fmt.Errorf("no appliances found. Use --url to specify the address manually")
	}
	if len(appliances) > 1 {
		fmt.Printf("Found %d appliances:\n", len(appliances))
		for i, a := range appliances {
			fmt.Printf("%d. %s (%s)\n", i+1, a.Name, a.BaseURL())
		}
		return nil, fmt.Errorf("multiple appliances found. Use --url to specify which one")
	}

	a := appliances[0]
	fmt.Printf("Found appliance: %s (%s)\n\n", a.Name, a.BaseURL())
	p.RememberAppliance(a.Name, a.BaseURL())
	if err := p.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save preferences: %v\n", err)
	}
	return appliance.NewClient(a.BaseURL()), nil
}

// printTree writes a configuration tree in the selected output format.
func printTree(tree configtree.Tree) error {
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		fallthrough
	default:
		data, err := yaml.Marshal(tree)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(data))
	}
	return nil
}

// parseScalar interprets CLI text as the most specific scalar it parses as.
func parseScalar(text string) any {
	if b, err := strconv.ParseBool(text); err == nil {
		return b
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}
