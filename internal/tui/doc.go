// Package tui implements the interactive terminal control panel.
//
// The panel is a single dashboard screen built on Bubble Tea. The left
// side shows live telemetry (engine status, RX/REC indicators, audio
// level) replicated from the appliance's push channel; the right side is
// the configuration editor. Edits do not write through immediately: they
// accumulate in a pending buffer and autosave after a short quiet period,
// so a burst of keystrokes becomes a single write.
//
// Telemetry arrives from a background replicator goroutine and is injected
// into the Bubble Tea loop as messages, so the model itself stays free of
// locking.
package tui
