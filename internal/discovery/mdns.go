package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type advertised by capture appliances
	ServiceType = "_voxtap._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for appliance discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port for capture appliances
	DefaultPort = 8087
)

// Scanner handles mDNS appliance discovery
type Scanner struct {
	// Timeout is the maximum time to wait for appliance discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers all capture appliances on the local network
// Returns a list of discovered appliances or an error
func (s *Scanner) Scan() ([]*Appliance, error) {
	return s.ScanWithContext(context.Background())
}

// ScanWithContext discovers appliances with a custom context
func (s *Scanner) ScanWithContext(ctx context.Context) ([]*Appliance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	appliances := make([]*Appliance, 0)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Collect entries in a goroutine while Browse runs
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			appliance := s.parseServiceEntry(entry)
			if appliance != nil {
				appliances = append(appliances, appliance)
			}
		}
	}()

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for the timeout, then for the collector to drain
	<-ctx.Done()
	<-done

	return appliances, nil
}

// WaitForAppliance waits for a specific appliance by instance name
// Returns the appliance or an error if not found within timeout
func (s *Scanner) WaitForAppliance(name string) (*Appliance, error) {
	return s.WaitForApplianceWithContext(context.Background(), name)
}

// WaitForApplianceWithContext waits for a specific appliance with a custom context
func (s *Scanner) WaitForApplianceWithContext(ctx context.Context, name string) (*Appliance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Appliance, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			appliance := s.parseServiceEntry(entry)
			if appliance != nil && appliance.Name == name {
				found <- appliance
				cancel() // Found the appliance, cancel context
				return
			}
		}
	}()

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case appliance := <-found:
		return appliance, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("appliance %q not found within timeout", name)
	}
}

// parseServiceEntry converts a zeroconf service entry to an Appliance
// Returns nil if the entry is unusable (no address)
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Appliance {
	if entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// Parse TXT records into metadata ("key=value" format)
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Appliance{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan for appliances with a custom timeout
func Scan(timeout time.Duration) ([]*Appliance, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan()
}
