package routes

// Appliance REST surface.
const (
	// Config is the configuration resource: GET for a full read, PATCH for
	// a partial write (the appliance merges the patch into its store).
	Config = "/api/config"

	// ConfigSave forces a rewrite of the config file with no pending patch.
	ConfigSave = "/api/config/save"

	// Devices lists capture devices and the current selection.
	Devices = "/api/devices"

	// State is a one-shot read of the device telemetry snapshot.
	State = "/api/state"

	// EngineStart and EngineStop control the capture engine.
	EngineStart = "/api/engine/start"
	EngineStop  = "/api/engine/stop"

	// Events is the SSE push channel carrying "state" and "config" events.
	Events = "/api/events"
)
