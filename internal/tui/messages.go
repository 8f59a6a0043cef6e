package tui

import (
	"github.com/voxtap/voxtap/internal/appliance"
	"github.com/voxtap/voxtap/internal/configtree"
	"github.com/voxtap/voxtap/internal/replicate"
)

// Messages injected into the Bubble Tea loop, either by commands or by the
// background replicator via Program.Send.

// snapshotMsg carries a complete telemetry snapshot. The dashboard replaces
// its displayed snapshot wholesale.
type snapshotMsg struct {
	snap appliance.LiveState
}

// linkMsg reports a replicator state transition for the link indicator.
type linkMsg struct {
	state replicate.State
}

// configMsg carries a full configuration tree, from the initial read, a
// completed save, or an out-of-band change announced on the push channel.
type configMsg struct {
	tree configtree.Tree
}

// devicesMsg carries a fresh capture-device enumeration.
type devicesMsg struct {
	list appliance.DeviceList
}

// saveResultMsg reports completion of an explicit save.
type saveResultMsg struct {
	err error
}

// engineResultMsg reports completion of an engine start or stop request.
type engineResultMsg struct {
	snap *appliance.LiveState
	err  error
}

// errMsg reports a failed background operation for the status line.
type errMsg struct {
	err error
}
