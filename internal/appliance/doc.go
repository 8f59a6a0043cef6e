// Package appliance provides the HTTP client for the audio-capture
// appliance's control API.
//
// The client covers the full REST surface: configuration read and partial
// write, the explicit "save now" call, device enumeration, the one-shot
// telemetry read, and engine start/stop. Every non-success response is
// reported as a *TransportError carrying the status code and the raw
// response body, which the appliance uses for diagnostic text.
//
// Writes are fire-and-forget: there is no retry, backoff, or queueing of
// failed patches. Callers that need those semantics must layer them on top.
//
// Usage example:
//
//	client := appliance.NewClient("http://voxtap.local:8080")
//
//	cfg, err := client.ReadConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = client.WritePatch(ctx, configtree.Set("audio", "record_threshold", 25))
package appliance
