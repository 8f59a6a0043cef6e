// Package logging provides structured logging for the voxtap tools.
//
// This package wraps zap with convenience functions for the logging patterns
// used throughout the client, the sync engine, and the simulator.
//
// # Log Levels
//
//   - Debug: dropped push-channel messages, reconnect attempts
//   - Info: normal operations (requests, engine state changes)
//   - Warn: non-fatal issues (initial state read failures, retries)
//   - Error: failed writes, startup failures
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Error("autosave failed, edits dropped",
//	    zap.Error(err),
//	)
//
// # Configuration
//
// Logging is silent unless VOXTAP_LOG_LEVEL is set; the dashboard owns the
// terminal, so nothing may write to it uninvited. For CLI debugging:
//
//	VOXTAP_LOG_LEVEL=debug voxtap watch
//
// Initialize at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
