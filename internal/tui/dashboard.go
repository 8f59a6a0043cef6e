package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxtap/voxtap/internal/appliance"
	"github.com/voxtap/voxtap/internal/configtree"
	"github.com/voxtap/voxtap/internal/format"
	"github.com/voxtap/voxtap/internal/replicate"
	"github.com/voxtap/voxtap/internal/session"
)

// requestTimeout bounds the one-shot appliance calls issued from the
// dashboard (save, engine control, device selection).
const requestTimeout = 10 * time.Second

// levelBarWidth is the audio level meter width in cells.
const levelBarWidth = 30

// fieldKind selects the editor behavior for a configuration field.
type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindBool
)

// fieldDef describes one editable configuration field.
type fieldDef struct {
	section string
	field   string
	label   string
	kind    fieldKind
}

// configFields is the editor layout, top to bottom.
var configFields = []fieldDef{
	{configtree.SectionGeneral, "instance_name", "Instance Name", kindText},
	{configtree.SectionGeneral, "log_level", "Log Level", kindText},
	{configtree.SectionAudio, "sql_threshold", "Squelch Threshold", kindInt},
	{configtree.SectionAudio, "sample_rate", "Sample Rate", kindInt},
	{configtree.SectionAudio, "agc_enabled", "Automatic Gain", kindBool},
	{configtree.SectionBcfy, "enabled", "Broadcastify", kindBool},
	{configtree.SectionBcfy, "api_key", "Broadcastify Key", kindText},
	{configtree.SectionBcfy, "feed_id", "Broadcastify Feed", kindInt},
	{configtree.SectionRdio, "enabled", "Rdio Scanner", kindBool},
	{configtree.SectionRdio, "url", "Rdio Scanner URL", kindText},
	{configtree.SectionICad, "enabled", "iCAD Dispatch", kindBool},
	{configtree.SectionICad, "url", "iCAD Dispatch URL", kindText},
	{configtree.SectionOpenMHz, "enabled", "OpenMHz", kindBool},
	{configtree.SectionOpenMHz, "api_key", "OpenMHz Key", kindText},
	{configtree.SectionOpenMHz, "short_name", "OpenMHz System", kindText},
}

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Save   key.Binding
	Engine key.Binding
	Device key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Save, k.Engine, k.Device, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit, k.Cancel},
		{k.Save, k.Engine, k.Device, k.Quit},
	}
}

// DashboardModel is the control panel screen: live telemetry on the left,
// configuration editor on the right.
type DashboardModel struct {
	Client  *appliance.Client
	Session *session.SyncSession

	// Last known full configuration tree. Display reads pending edits
	// first, then falls back to this.
	Tree configtree.Tree

	// Telemetry replicated from the appliance.
	Snapshot appliance.LiveState
	Link     replicate.State
	Devices  appliance.DeviceList

	// UI state
	Width  int
	Height int
	Cursor int

	// Inline editing state
	Editing bool
	Input   textinput.Model

	// Explicit save state. Saving disables the save key until the result
	// arrives.
	Saving    bool
	StatusMsg string
	StatusErr bool

	Help help.Model
	Keys dashboardKeyMap
}

// NewDashboardModel creates the dashboard bound to a client and its edit
// session.
func NewDashboardModel(client *appliance.Client, sess *session.SyncSession) DashboardModel {
	input := textinput.New()
	input.CharLimit = 120
	input.Width = 32

	keys := dashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save now"),
		),
		Engine: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start/stop"),
		),
		Device: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "next device"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return DashboardModel{
		Client:  client,
		Session: sess,
		Link:    replicate.Uninitialized,
		Input:   input,
		Help:    help.New(),
		Keys:    keys,
	}
}

// Init loads the configuration tree and device list.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadConfigCmd(), m.loadDevicesCmd())
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case snapshotMsg:
		m.Snapshot = msg.snap
		return m, nil

	case linkMsg:
		m.Link = msg.state
		return m, nil

	case configMsg:
		m.Tree = msg.tree
		return m, nil

	case devicesMsg:
		m.Devices = msg.list
		return m, nil

	case saveResultMsg:
		m.Saving = false
		if msg.err != nil {
			m.StatusMsg = "save failed: " + msg.err.Error()
			m.StatusErr = true
		} else {
			m.StatusMsg = "✓ saved"
			m.StatusErr = false
		}
		return m, nil

	case engineResultMsg:
		if msg.err != nil {
			m.StatusMsg = "engine request failed: " + msg.err.Error()
			m.StatusErr = true
			return m, nil
		}
		m.Snapshot = *msg.snap
		m.StatusMsg = ""
		return m, nil

	case errMsg:
		m.StatusMsg = msg.err.Error()
		m.StatusErr = true
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Editing {
			return m.updateEditing(msg)
		}
		return m.updateNavigation(msg)
	}

	return m, nil
}

// updateNavigation handles input while no field editor is open.
func (m DashboardModel) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.Cursor--
		if m.Cursor < 0 {
			m.Cursor = len(configFields) - 1
		}

	case key.Matches(msg, m.Keys.Down):
		m.Cursor++
		if m.Cursor >= len(configFields) {
			m.Cursor = 0
		}

	case key.Matches(msg, m.Keys.Edit):
		return m.startEditing()

	case key.Matches(msg, m.Keys.Save):
		if m.Saving {
			return m, nil
		}
		m.Saving = true
		m.StatusMsg = "saving…"
		m.StatusErr = false
		return m, m.saveCmd()

	case key.Matches(msg, m.Keys.Engine):
		return m, m.toggleEngineCmd()

	case key.Matches(msg, m.Keys.Device):
		return m, m.cycleDeviceCmd()
	}

	return m, nil
}

// startEditing opens the inline editor for the focused field. Booleans
// toggle in place instead of opening an input.
func (m DashboardModel) startEditing() (tea.Model, tea.Cmd) {
	f := configFields[m.Cursor]

	if f.kind == kindBool {
		current, _ := m.displayValue(f).(bool)
		m.scheduleEdit(f, !current)
		return m, nil
	}

	m.Editing = true
	m.Input.SetValue(valueString(m.displayValue(f)))
	m.Input.CursorEnd()
	m.Input.Focus()
	return m, textinput.Blink
}

// updateEditing handles input while a field editor is open.
func (m DashboardModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		m.Editing = false
		m.Input.Blur()
		return m, nil

	case key.Matches(msg, m.Keys.Edit):
		f := configFields[m.Cursor]
		value, err := parseValue(f, m.Input.Value())
		if err != nil {
			m.StatusMsg = err.Error()
			m.StatusErr = true
			return m, nil
		}
		m.Editing = false
		m.Input.Blur()
		m.scheduleEdit(f, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// scheduleEdit buffers one field change for autosave.
func (m *DashboardModel) scheduleEdit(f fieldDef, value any) {
	m.Session.Schedule(configtree.Set(f.section, f.field, value))
	m.StatusMsg = ""
	m.StatusErr = false
}

// displayValue resolves a field for display: a pending edit wins over the
// last known tree.
func (m DashboardModel) displayValue(f fieldDef) any {
	if v, ok := m.Session.Pending().Field(f.section, f.field); ok {
		return v
	}
	v, _ := m.Tree.Field(f.section, f.field)
	return v
}

// parseValue converts editor text to the field's wire type.
func parseValue(f fieldDef, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch f.kind {
	case kindInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", f.label)
		}
		return n, nil
	default:
		return text, nil
	}
}

// valueString renders a field value for the editor and the field list.
func valueString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case bool:
		if n {
			return "on"
		}
		return "off"
	case float64:
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	case int:
		return strconv.Itoa(n)
	default:
		return fmt.Sprintf("%v", n)
	}
}

// Commands

func (m DashboardModel) loadConfigCmd() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tree, err := client.ReadConfig(ctx)
		if err != nil {
			return errMsg{err}
		}
		return configMsg{tree}
	}
}

func (m DashboardModel) loadDevicesCmd() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		list, err := client.ListDevices(ctx)
		if err != nil {
			return errMsg{err}
		}
		return devicesMsg{list}
	}
}

func (m DashboardModel) saveCmd() tea.Cmd {
	sess := m.Session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return saveResultMsg{err: sess.ForceFlush(ctx)}
	}
}

func (m DashboardModel) toggleEngineCmd() tea.Cmd {
	client := m.Client
	running := m.Snapshot.Running
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var (
			snap *appliance.LiveState
			err  error
		)
		if running {
			snap, err = client.StopEngine(ctx)
		} else {
			snap, err = client.StartEngine(ctx)
		}
		return engineResultMsg{snap: snap, err: err}
	}
}

// cycleDeviceCmd selects the device after the current one, wrapping at the
// end of the enumeration.
func (m DashboardModel) cycleDeviceCmd() tea.Cmd {
	client := m.Client
	devices := m.Devices
	return func() tea.Msg {
		if len(devices.Devices) == 0 {
			return errMsg{fmt.Errorf("no capture devices enumerated")}
		}
		next := (devices.IndexOf(devices.Current) + 1) % len(devices.Devices)

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.SelectDevice(ctx, devices.Devices[next]); err != nil {
			return errMsg{err}
		}
		list, err := client.ListDevices(ctx)
		if err != nil {
			return errMsg{err}
		}
		return devicesMsg{list}
	}
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	if m.Width == 0 {
		return "loading…"
	}

	telemetry := PanelStyle.Render(m.buildTelemetryPanel())
	editor := PanelStyle.Render(m.buildEditorPanel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, telemetry, " ", editor)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		m.buildStatusLine(),
	)

	return RenderApplicationContainer(content, m.Help.View(m.Keys), m.Width, m.Height)
}

// buildTelemetryPanel renders the live state panel.
func (m DashboardModel) buildTelemetryPanel() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Telemetry"))
	b.WriteString("\n\n")

	status := m.Snapshot.StatusText
	if status == "" {
		status = "—"
	}
	b.WriteString(LabelStyle.Render("Status  ") + ValueStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Link    ") + m.renderLink())
	b.WriteString("\n\n")

	b.WriteString(RenderLed("RX ", m.Snapshot.LedRX, LedOnRXStyle))
	b.WriteString("   ")
	b.WriteString(RenderLed("REC", m.Snapshot.LedRec, LedOnRecStyle))
	b.WriteString("\n\n")

	pct := format.ClampPercent(m.Snapshot.LevelPct)
	b.WriteString(fmt.Sprintf("%s %3d%%  %s",
		format.LevelBar(pct, levelBarWidth),
		pct,
		format.DB(m.Snapshot.LevelDB),
	))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Squelch ") +
		ValueStyle.Render(format.ClampCount(m.Snapshot.SqlThreshold)))
	b.WriteString("\n\n")

	device := m.Devices.Current
	if device == "" {
		device = "—"
	}
	b.WriteString(LabelStyle.Render("Device  ") + ValueStyle.Render(device))

	return b.String()
}

// renderLink renders the push-channel state indicator.
func (m DashboardModel) renderLink() string {
	switch m.Link {
	case replicate.Receiving:
		return SuccessStyle.Render(m.Link.String())
	case replicate.Disconnected:
		return ErrorStyle.Render(m.Link.String())
	default:
		return ValueStyle.Render(m.Link.String())
	}
}

// buildEditorPanel renders the configuration field list.
func (m DashboardModel) buildEditorPanel() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Configuration"))
	b.WriteString("\n\n")

	pending := m.Session.Pending()

	for i, f := range configFields {
		label := f.label
		style := LabelStyle
		marker := "  "
		if i == m.Cursor {
			style = SelectedLabelStyle
			marker = "→ "
		}

		value := valueString(m.displayValue(f))
		if _, dirty := pending.Field(f.section, f.field); dirty {
			value = DirtyStyle.Render(value + " *")
		} else {
			value = ValueStyle.Render(value)
		}

		if m.Editing && i == m.Cursor {
			value = m.Input.View()
		}

		// Pad before styling; ANSI escapes would break %-20s widths.
		b.WriteString(marker + style.Render(fmt.Sprintf("%-20s", label)) + " " + value)
		b.WriteString("\n")
	}

	return b.String()
}

// buildStatusLine renders the dirty indicator and the last operation
// result.
func (m DashboardModel) buildStatusLine() string {
	var parts []string

	if !m.Session.Pending().IsEmpty() {
		parts = append(parts, DirtyStyle.Render("● unsaved edits"))
	}
	if m.StatusMsg != "" {
		if m.StatusErr {
			parts = append(parts, ErrorStyle.Render(m.StatusMsg))
		} else {
			parts = append(parts, SuccessStyle.Render(m.StatusMsg))
		}
	}
	if len(parts) == 0 {
		return SubtitleStyle.Render("all changes saved")
	}
	return strings.Join(parts, "  ")
}
