// Package sim implements a simulated capture appliance for development and
// demos.
//
// The simulator exposes the same REST and SSE surface as a real appliance:
// configuration read/patch/save, device enumeration, telemetry, engine
// control, and the push channel. Configuration lives in an in-memory tree
// and patches are merged with the same deep-merge semantics the client
// uses, so the round trip behaves like the real thing.
//
// A background ticker synthesizes audio levels while the engine is running,
// publishing a complete telemetry snapshot on every change. The simulator
// can optionally advertise itself over mDNS so `voxtap scan` finds it.
package sim
