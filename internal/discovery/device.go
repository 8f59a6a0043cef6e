package discovery

import (
	"fmt"
	"time"
)

// Appliance represents a discovered capture appliance on the network
type Appliance struct {
	// Name is the mDNS instance name (e.g., "voxtap-garage")
	Name string

	// Hostname is the mDNS hostname (e.g., "voxtap-garage.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.40")
	IP string

	// Port is the HTTP port (typically 8087)
	Port int

	// Metadata contains additional mDNS TXT record data
	// Common fields: "version=1.2.0", "path=/"
	Metadata map[string]string

	// DiscoveredAt is when the appliance was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the appliance
func (a *Appliance) String() string {
	return fmt.Sprintf("Voxtap appliance %s (%s) at %s:%d", a.Name, a.Hostname, a.IP, a.Port)
}

// BaseURL returns the HTTP base URL for the appliance
func (a *Appliance) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", a.IP, a.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (a *Appliance) GetMetadata(key string) string {
	if a.Metadata == nil {
		return ""
	}
	return a.Metadata[key]
}
