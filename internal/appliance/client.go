package appliance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voxtap/voxtap/internal/configtree"
	"github.com/voxtap/voxtap/internal/routes"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second
)

// Client is an HTTP client for the appliance control API.
type Client struct {
	// BaseURL is the appliance base URL (e.g. "http://voxtap.local:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the appliance at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// ReadConfig performs a full read of the configuration tree.
func (c *Client) ReadConfig(ctx context.Context) (configtree.Tree, error) {
	var tree configtree.Tree
	if err := c.do(ctx, http.MethodGet, routes.Config, "read config", nil, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// WritePatch sends a partial configuration write. The appliance merges the
// patch into its durable store and returns the resulting full tree. There is
// no retry: a failed patch is reported once and its content is not re-sent.
func (c *Client) WritePatch(ctx context.Context, patch configtree.Patch) (configtree.Tree, error) {
	var tree configtree.Tree
	if err := c.do(ctx, http.MethodPatch, routes.Config, "write config patch", patch, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// SaveNow asks the appliance to rewrite its config file without any pending
// patch. Used as the "save now" signal when the edit buffer is empty.
func (c *Client) SaveNow(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, routes.ConfigSave, "force save", nil, nil)
}

// ListDevices fetches the capture-device enumeration.
func (c *Client) ListDevices(ctx context.Context) (DeviceList, error) {
	var list DeviceList
	if err := c.do(ctx, http.MethodGet, routes.Devices, "list devices", nil, &list); err != nil {
		return DeviceList{}, err
	}
	return list, nil
}

// ReadState performs a one-shot read of the telemetry snapshot.
func (c *Client) ReadState(ctx context.Context) (*LiveState, error) {
	var state LiveState
	if err := c.do(ctx, http.MethodGet, routes.State, "read state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// engineResponse wraps the snapshot returned by the engine endpoints.
type engineResponse struct {
	State LiveState `json:"state"`
}

// StartEngine starts the capture engine and returns the resulting snapshot.
func (c *Client) StartEngine(ctx context.Context) (*LiveState, error) {
	var resp engineResponse
	if err := c.do(ctx, http.MethodPost, routes.EngineStart, "start engine", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.State, nil
}

// StopEngine stops the capture engine and returns the resulting snapshot.
func (c *Client) StopEngine(ctx context.Context) (*LiveState, error) {
	var resp engineResponse
	if err := c.do(ctx, http.MethodPost, routes.EngineStop, "stop engine", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.State, nil
}

// SelectDevice patches the capture device by name. The wire identifier is
// the device's position in the enumeration, so the list is re-fetched
// immediately before the write to narrow the window in which the appliance
// could re-order it.
func (c *Client) SelectDevice(ctx context.Context, name string) error {
	list, err := c.ListDevices(ctx)
	if err != nil {
		return err
	}
	idx := list.IndexOf(name)
	if idx < 0 {
		return fmt.Errorf("device %q not found (available: %s)", name, strings.Join(list.Devices, ", "))
	}
	_, err = c.WritePatch(ctx, configtree.Set(configtree.SectionAudio, "input_device", idx))
	return err
}

// EventsURL returns the absolute URL of the SSE push channel.
func (c *Client) EventsURL() string {
	return c.BaseURL + routes.Events
}

// do performs a single request and decodes the JSON response into out (when
// out is non-nil). Non-2xx responses become a *TransportError carrying the
// body text.
func (c *Client) do(ctx context.Context, method, path, op string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return NewNetworkError(op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewTransportError(op, resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
