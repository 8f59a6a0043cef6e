package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entryFor(instance, hostname string, port int) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{
			Instance: instance,
			Service:  ServiceType,
			Domain:   "local.",
		},
		HostName: hostname,
		Port:     port,
	}
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
		wantPort int
	}{
		{
			name: "valid appliance with IPv4",
			entry: func() *zeroconf.ServiceEntry {
				e := entryFor("voxtap-garage", "voxtap-garage.local.", 8087)
				e.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.40")}
				e.Text = []string{"version=1.2.0", "path=/"}
				return e
			}(),
			wantNil:  false,
			wantName: "voxtap-garage",
			wantIP:   "192.168.1.40",
			wantPort: 8087,
		},
		{
			name: "custom port",
			entry: func() *zeroconf.ServiceEntry {
				e := entryFor("voxtap-bench", "voxtap-bench.local", 9000)
				e.AddrIPv4 = []net.IP{net.ParseIP("10.0.0.5")}
				return e
			}(),
			wantNil:  false,
			wantName: "voxtap-bench",
			wantIP:   "10.0.0.5",
			wantPort: 9000,
		},
		{
			name: "no port specified defaults",
			entry: func() *zeroconf.ServiceEntry {
				e := entryFor("voxtap-attic", "voxtap-attic.local", 0)
				e.AddrIPv4 = []net.IP{net.ParseIP("172.16.0.1")}
				return e
			}(),
			wantNil:  false,
			wantName: "voxtap-attic",
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name:    "empty instance name",
			entry:   entryFor("", "something.local", 8087),
			wantNil: true,
		},
		{
			name:    "no IP address",
			entry:   entryFor("voxtap-ghost", "voxtap-ghost.local", 8087),
			wantNil: true,
		},
		{
			name: "IPv6 only",
			entry: func() *zeroconf.ServiceEntry {
				e := entryFor("voxtap-v6", "voxtap-v6.local", 8087)
				e.AddrIPv6 = []net.IP{net.ParseIP("fe80::1")}
				return e
			}(),
			wantNil:  false,
			wantName: "voxtap-v6",
			wantIP:   "fe80::1",
			wantPort: 8087,
		},
		{
			name: "both IPv4 and IPv6 prefers IPv4",
			entry: func() *zeroconf.ServiceEntry {
				e := entryFor("voxtap-dual", "voxtap-dual.local", 8087)
				e.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.50")}
				e.AddrIPv6 = []net.IP{net.ParseIP("fe80::2")}
				return e
			}(),
			wantNil:  false,
			wantName: "voxtap-dual",
			wantIP:   "192.168.1.50",
			wantPort: 8087,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if got != nil {
					t.Errorf("parseServiceEntry() = %+v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatal("parseServiceEntry() = nil, want appliance")
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %v, want %v", got.Name, tt.wantName)
			}
			if got.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", got.IP, tt.wantIP)
			}
			if got.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", got.Port, tt.wantPort)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	e := entryFor("voxtap-garage", "voxtap-garage.local", 8087)
	e.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.40")}
	e.Text = []string{"version=1.2.0", "flagonly"}

	got := scanner.parseServiceEntry(e)
	if got == nil {
		t.Fatal("parseServiceEntry() = nil")
	}
	if got.GetMetadata("version") != "1.2.0" {
		t.Errorf("metadata version = %q", got.GetMetadata("version"))
	}
	if v, ok := got.Metadata["flagonly"]; !ok || v != "" {
		t.Errorf("bare TXT key should map to empty value, got %q (present=%v)", v, ok)
	}
	if got.GetMetadata("absent") != "" {
		t.Error("absent metadata key should read as empty")
	}
}

func TestNewScanner_Defaults(t *testing.T) {
	s := NewScanner()
	if s.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", s.Timeout, DefaultScanTimeout)
	}
}

func TestScanner_DiscoveredAtSet(t *testing.T) {
	scanner := NewScanner()

	e := entryFor("voxtap-garage", "voxtap-garage.local", 8087)
	e.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.40")}

	before := time.Now()
	got := scanner.parseServiceEntry(e)
	after := time.Now()

	if got.DiscoveredAt.Before(before) || got.DiscoveredAt.After(after) {
		t.Errorf("DiscoveredAt = %v, want between %v and %v", got.DiscoveredAt, before, after)
	}
}
