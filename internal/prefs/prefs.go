package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "voxtap"
	configFile = "config.yaml"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// Dir returns the OS-appropriate configuration directory for the
// application. This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/voxtap or $HOME/.config/voxtap
//   - macOS: $HOME/.config/voxtap (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\voxtap
func Dir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	default:
		// Linux, macOS, and other Unix-like systems
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// Path returns the full path to the preferences file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// ensureDir creates the preferences directory with user-only permissions
// if it doesn't exist.
func ensureDir() error {
	dir, err := Dir()
	if err != nil {
		return fmt.Errorf("failed to get preferences directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return nil
}

// Load reads the preferences from disk. A missing file returns fresh
// defaults, not an error.
func Load() (*Prefs, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences path: %w", err)
	}
	return loadFrom(path)
}

// loadFrom performs the actual file loading.
func loadFrom(path string) (*Prefs, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences file: %w", err)
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preferences file: %w", err)
	}

	if p.Version != 1 {
		return nil, fmt.Errorf("unsupported preferences version: %d (expected 1)", p.Version)
	}

	// Ensure nested structures are initialized
	if p.Appliances == nil {
		p.Appliances = make(map[string]*Appliance)
	}
	if p.Settings == nil {
		p.Settings = New().Settings
	}

	return &p, nil
}

// Save writes the preferences to disk. Performs an atomic write to prevent
// corruption on crash.
func (p *Prefs) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := ensureDir(); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return fmt.Errorf("failed to get preferences path: %w", err)
	}
	return p.saveTo(path)
}

func (p *Prefs) saveTo(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	header := []byte(`# Voxtap preferences file
# Stores the appliance endpoint and client-side tuning. The appliance's own
# capture configuration lives on the appliance, not here.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary preferences file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save preferences file: %w", err)
	}

	return nil
}
