// Package prefs provides user preference management for the voxtap tools.
//
// This package manages a YAML-based preferences file that stores the
// appliance endpoint, client-side tuning (autosave quiet period, discovery
// timeout), and user-defined metadata for known appliances. The file follows
// OS-specific conventions for storage location.
//
// # Preferences File Location
//
//   - Linux: $XDG_CONFIG_HOME/voxtap/config.yaml or $HOME/.config/voxtap/config.yaml
//   - macOS: $HOME/.config/voxtap/config.yaml
//   - Windows: %LOCALAPPDATA%\voxtap\config.yaml
//
// # Usage Example
//
//	p, err := prefs.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := appliance.NewClient(p.Settings.ApplianceURL)
//
//	p.RememberAppliance("garage", "http://10.0.0.12:8087")
//	if err := p.Save(); err != nil {
//	    log.Fatal(err)
//	}
package prefs
