package tui

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/voxtap/voxtap/internal/appliance"
	"github.com/voxtap/voxtap/internal/configtree"
	"github.com/voxtap/voxtap/internal/logging"
	"github.com/voxtap/voxtap/internal/replicate"
	"github.com/voxtap/voxtap/internal/session"
)

// Run starts the control panel against the given appliance and blocks until
// the user quits or ctx is cancelled. quiet overrides the autosave debounce
// window; zero keeps the default.
//
// Three actors are wired together here: the Bubble Tea program, the edit
// session whose autosaves fire from timer goroutines, and the replicator
// goroutine feeding telemetry. Everything crossing into the UI goes through
// Program.Send, so the model never needs a lock.
func Run(ctx context.Context, client *appliance.Client, quiet time.Duration) error {
	sess := session.New(client)
	if quiet > 0 {
		sess.QuietPeriod = quiet
	}
	model := NewDashboardModel(client, sess)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	sess.OnSaved = func(tree configtree.Tree) {
		p.Send(configMsg{tree: tree})
	}

	rep := replicate.New(client)
	rep.OnSnapshot = func(snap appliance.LiveState) {
		p.Send(snapshotMsg{snap: snap})
	}
	rep.OnTransition = func(_, to replicate.State) {
		p.Send(linkMsg{state: to})
	}
	// Out-of-band config change: re-read the full tree rather than trusting
	// the event payload shape.
	rep.OnConfig = func(json.RawMessage) {
		go func() {
			tree, err := client.ReadConfig(ctx)
			if err != nil {
				logging.Debug("config re-read after push event failed",
					zap.Error(err),
				)
				return
			}
			p.Send(configMsg{tree: tree})
		}()
	}

	repCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := rep.Run(repCtx); err != nil && repCtx.Err() == nil {
			logging.Warn("replicator stopped", zap.Error(err))
		}
	}()

	_, err := p.Run()
	sess.Stop()
	return err
}
