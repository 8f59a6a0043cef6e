package appliance

// LiveState is the device telemetry snapshot published by the appliance.
// The appliance always sends a complete snapshot, so consumers replace the
// whole record on every update rather than merging fields.
type LiveState struct {
	Running      bool     `json:"running"`
	StatusText   string   `json:"status_text"`
	LedRX        bool     `json:"led_rx"`
	LedRec       bool     `json:"led_rec"`
	LevelPct     int      `json:"level_pct"`
	LevelDB      *float64 `json:"level_db"`
	SqlThreshold int      `json:"sql_threshold"`
	UpdatedTS    float64  `json:"updated_ts"`
}

// DeviceList is the ordered capture-device enumeration plus the name the
// appliance currently has selected.
type DeviceList struct {
	Devices []string `json:"devices"`
	Current string   `json:"current"`
}

// IndexOf returns the positional index of name in the enumeration, or -1.
// The index is the wire identifier for device selection: if the appliance
// re-enumerates between the list fetch and the selection, the index can
// silently designate the wrong device. Callers should re-fetch the list
// immediately before selecting.
func (dl DeviceList) IndexOf(name string) int {
	for i, d := range dl.Devices {
		if d == name {
			return i
		}
	}
	return -1
}
