package appliance

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransportError_BodyIsMessage(t *testing.T) {
	err := NewTransportError("write config patch", 500, []byte("disk full\n"))

	if err.Error() != "disk full" {
		t.Errorf("Error() = %q, want body text", err.Error())
	}
}

func TestTransportError_EmptyBodyFallback(t *testing.T) {
	err := NewTransportError("read state", 502, nil)

	want := "read state failed with status 502"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewNetworkError("read config", cause)

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
}
