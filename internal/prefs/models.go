package prefs

import "time"

// Prefs represents the entire user preferences file.
type Prefs struct {
	Version    int                   `yaml:"version"`
	Settings   *Settings             `yaml:"settings,omitempty"`
	Appliances map[string]*Appliance `yaml:"appliances,omitempty"` // keyed by user-chosen name
}

// Settings represents application-wide tuning.
type Settings struct {
	// ApplianceURL is the default appliance endpoint.
	ApplianceURL string `yaml:"appliance_url"`

	// AutosaveQuietMS is the debounce quiet period for config edits, in
	// milliseconds. 0 means the built-in default (400).
	AutosaveQuietMS int `yaml:"autosave_quiet_ms,omitempty"`

	// AutoDiscover enables mDNS discovery when no endpoint is configured.
	AutoDiscover bool `yaml:"auto_discover"`

	// DiscoverTimeout is the mDNS discovery timeout in seconds.
	DiscoverTimeout int `yaml:"discover_timeout"`
}

// Appliance represents user-defined metadata for a known appliance.
type Appliance struct {
	URL      string    `yaml:"url"`
	Nickname string    `yaml:"nickname,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// New creates a Prefs with default values.
func New() *Prefs {
	return &Prefs{
		Version:    1,
		Appliances: make(map[string]*Appliance),
		Settings: &Settings{
			ApplianceURL:    "http://127.0.0.1:8087",
			AutoDiscover:    true,
			DiscoverTimeout: 10,
		},
	}
}

// RememberAppliance records or refreshes a known appliance endpoint.
func (p *Prefs) RememberAppliance(name, url string) {
	if p.Appliances == nil {
		p.Appliances = make(map[string]*Appliance)
	}
	a, ok := p.Appliances[name]
	if !ok {
		a = &Appliance{}
		p.Appliances[name] = a
	}
	a.URL = url
	a.LastSeen = time.Now()
}
