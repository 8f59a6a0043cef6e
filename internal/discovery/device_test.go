package discovery

import (
	"strings"
	"testing"
)

func TestAppliance_BaseURL(t *testing.T) {
	a := &Appliance{IP: "192.168.1.40", Port: 8087}

	if got := a.BaseURL(); got != "http://192.168.1.40:8087" {
		t.Errorf("BaseURL() = %v", got)
	}
}

func TestAppliance_String(t *testing.T) {
	a := &Appliance{
		Name:     "voxtap-garage",
		Hostname: "voxtap-garage.local",
		IP:       "192.168.1.40",
		Port:     8087,
	}

	s := a.String()
	for _, want := range []string{"voxtap-garage", "192.168.1.40", "8087"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, should contain %q", s, want)
		}
	}
}

func TestAppliance_GetMetadata_NilMap(t *testing.T) {
	a := &Appliance{Metadata: nil}

	if got := a.GetMetadata("anything"); got != "" {
		t.Errorf("GetMetadata() with nil map = %v, want empty string", got)
	}
}
