// Package replicate keeps a device telemetry snapshot current by combining
// an initial one-shot read with a long-lived server-push subscription.
//
// The replicator moves through an explicit state machine:
//
//	Uninitialized -> Synced -> Receiving <-> Disconnected
//
// Startup performs one full read of the snapshot (Synced), then opens the
// appliance's SSE channel (Receiving). Every inbound "state" event carries a
// complete snapshot and replaces the previous one wholesale; there is no
// field-wise merging. Malformed events are dropped without affecting the
// subscription. Disconnects transition to Disconnected and the stream is
// reopened under a configurable backoff policy.
//
// A secondary "config" event exists in the protocol for the appliance to
// announce out-of-band configuration changes; handling is optional and off
// by default.
package replicate
