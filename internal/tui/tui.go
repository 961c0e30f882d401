package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/liftguide/internal/engine"
	"github.com/tatianab/liftguide/internal/models"
	"github.com/tatianab/liftguide/internal/narrator"
	"github.com/tatianab/liftguide/internal/schedule"
	"go.uber.org/zap"
)

// Narrator rewrites guide messages.
type Narrator interface {
	Rephrase(ctx context.Context, scene narrator.Scene) (string, error)
}

// Options wires a terminal session.
type Options struct {
	Building        *models.Building
	MissionState    string
	Narrator        Narrator
	NarratorTimeout time.Duration
	Logger          *zap.Logger
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Digit  key.Binding
	Back   key.Binding
	Clear  key.Binding
	Go     key.Binding
	Submit key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Go, k.Submit, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Digit},
		{k.Go, k.Submit},
		{k.Back, k.Clear, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "+", "="), key.WithHelp("↑/+", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "-", "_"), key.WithHelp("↓/-", "down")),
	Digit:  key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "floors")),
	Back:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
	Clear:  key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "clear")),
	Go:     key.NewBinding(key.WithKeys("enter", "g"), key.WithHelp("enter", "GO")),
	Submit: key.NewBinding(key.WithKeys("tab", "s"), key.WithHelp("tab", "SUBMIT")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

var (
	floorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			PaddingLeft(1)

	carStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#00E676")).
			Bold(true).
			PaddingLeft(1)

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	buildingStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E676")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF1744")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	guideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	boldStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD54F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FF1744")).
			Padding(1, 3)
)

type tickMsg struct {
	gen int
}

type guideMsg struct {
	text string
}

// clock drives the scheduler from wall time with one outstanding tea.Tick.
type clock struct {
	start   time.Time
	now     func() time.Time
	gen     int
	armed   bool
	armedAt time.Duration
}

func newClock() *clock {
	return &clock{start: time.Now(), now: time.Now}
}

func (c *clock) elapsed() time.Duration {
	return c.now().Sub(c.start)
}

// arm schedules a tick for the earliest pending task, unless one is already
// set for that time.
func (c *clock) arm(s *schedule.Scheduler) tea.Cmd {
	next, ok := s.Next()
	if !ok || (c.armed && c.armedAt == next) {
		return nil
	}
	c.gen++
	c.armed, c.armedAt = true, next
	gen := c.gen
	wait := next - c.elapsed()
	if wait < 0 {
		wait = 0
	}
	return tea.Tick(wait, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

type model struct {
	session         *engine.Session
	sched           *schedule.Scheduler
	screen          *screen
	clock           *clock
	narrator        Narrator
	narratorTimeout time.Duration
	narrating       bool
	log             *zap.Logger
	help            help.Model
	viewport        viewport.Model
	spinner         spinner.Model
	width           int
	height          int
}

func NewModel(opts Options) (model, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	scr := newScreen()
	sched := schedule.New()
	session, err := engine.NewSession(opts.Building, scr, sched, engine.WithLogger(log))
	if err != nil {
		return model{}, err
	}
	for _, level := range opts.Building.Levels() {
		scr.labels[level] = session.FloorText(level)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		session:         session,
		sched:           sched,
		screen:          scr,
		clock:           newClock(),
		narrator:        opts.Narrator,
		narratorTimeout: opts.NarratorTimeout,
		log:             log,
		help:            help.New(),
		viewport:        viewport.New(60, 8),
		spinner:         sp,
	}
	if err := session.Start(opts.MissionState); err != nil {
		log.Warn("mission state ignored", zap.Error(err))
	}
	return m, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.clock.arm(m.sched))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Run everything that fell due, so new work is scheduled from now.
	m.sched.AdvanceTo(m.clock.elapsed())

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-buildingHeight(m.session.Building())-8, 4)
		m.help.Width = msg.Width

	case tickMsg:
		if msg.gen == m.clock.gen {
			m.clock.armed = false
		}

	case guideMsg:
		m.narrating = false
		m.addGuide(msg.text)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.flushGuide(), m.clock.arm(m.sched))
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) {
	if m.screen.alert != "" {
		m.screen.alert = ""
		return
	}

	var err error
	mode := m.session.Mode()
	switch {
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Up):
		err = m.session.Press(mode.Symbol(engine.Up))
	case key.Matches(msg, keys.Down):
		err = m.session.Press(mode.Symbol(engine.Down))
	case key.Matches(msg, keys.Digit):
		if mode == engine.Numeric {
			err = m.session.Press(msg.String())
		}
	case key.Matches(msg, keys.Back):
		err = m.session.Backspace()
	case key.Matches(msg, keys.Clear):
		err = m.session.Clear()
	case key.Matches(msg, keys.Go):
		err = m.session.Go()
	case key.Matches(msg, keys.Submit):
		err = m.session.Submit()
	}
	if err != nil {
		m.log.Debug("input not applied", zap.String("key", msg.String()), zap.Error(err))
	}
}

// addGuide appends a message to the transcript and scrolls to it.
func (m *model) addGuide(text string) {
	m.screen.guide = append(m.screen.guide, text)
	m.viewport.SetContent(m.renderGuide())
	m.viewport.GotoBottom()
}

// flushGuide moves queued guide messages to the transcript. With a narrator
// the queue is drained one message at a time so replies keep their order.
func (m *model) flushGuide() tea.Cmd {
	if m.narrator == nil {
		for _, text := range m.screen.takePending() {
			m.addGuide(text)
		}
		return nil
	}
	if m.narrating {
		return nil
	}
	text, ok := m.screen.nextPending()
	if !ok {
		return nil
	}
	m.narrating = true
	return m.narrate(text)
}

func (m model) narrate(text string) tea.Cmd {
	snap := m.session.Snapshot()
	floor, _ := m.session.Building().Floor(snap.Level)
	scene := narrator.Scene{
		Message:  text,
		Level:    snap.Level,
		MinLevel: snap.MinLevel,
		MaxLevel: snap.MaxLevel,
	}
	if m.session.FloorText(snap.Level) != engine.Placeholder {
		scene.FloorName, scene.FloorDescription = floor.Name, floor.Description
	}
	timeout := m.narratorTimeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rewritten, err := m.narrator.Rephrase(ctx, scene)
		if err != nil {
			m.log.Debug("narrator fell back to script", zap.Error(err))
		}
		return guideMsg{text: rewritten}
	}
}

func buildingHeight(b *models.Building) int {
	return len(b.Floors) + 2
}

func (m model) View() string {
	if m.screen.alert != "" {
		return "\n" + alertStyle.Render(m.screen.alert+"\n\n"+helpStyle.Render("Press any key.")) + "\n"
	}

	building := buildingStyle.Render(m.renderBuilding())
	panel := m.renderPanel()
	top := lipgloss.JoinHorizontal(lipgloss.Top, building, "  ", panel)

	guide := titleStyle.Render("GUIDE") + "\n" + m.viewport.View()
	helpLine := helpStyle.Render(m.help.View(keys))

	return "\n" + lipgloss.JoinVertical(lipgloss.Left, top, "", guide, "", helpLine) + "\n"
}

func (m model) renderBuilding() string {
	b := m.session.Building()
	width := 0
	for _, level := range b.Levels() {
		width = max(width, lipgloss.Width(m.screen.labels[level]))
	}

	var rows []string
	for _, level := range b.Levels() {
		label := fmt.Sprintf("%-*s", width, m.screen.labels[level])
		row := floorStyle.Render("  " + label + "  ")
		if level == m.screen.level {
			row = carStyle.Render("▣ " + label + "  ")
		}
		if m.screen.targetOn && m.screen.target == level {
			row += targetStyle.Render(" ◀ target")
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m model) renderPanel() string {
	status := statusStyle.Render(m.screen.status)
	if m.screen.style == engine.StyleError {
		status = errorStyle.Render(m.screen.status)
	}

	panel := m.screen.panel
	if panel == engine.PanelMoving {
		panel = m.spinner.View() + " " + panel
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("DISPLAY") + "\n" + status + "\n\n")
	b.WriteString(titleStyle.Render("LIFT") + "\n" + panel + "\n\n")
	if about := m.floorDescription(); about != "" {
		b.WriteString(titleStyle.Render("HERE") + "\n" + guideStyle.Width(32).Render(about) + "\n\n")
	}
	b.WriteString(titleStyle.Render("COMMAND") + "\n" + m.screen.command + "\n")
	b.WriteString(helpStyle.Render("mode: "+m.session.Mode().String()) + "\n")
	if !m.screen.controls {
		b.WriteString(helpStyle.Render("controls locked") + "\n")
	}
	if m.screen.submit {
		b.WriteString(targetStyle.Render("[SUBMIT] type the floor number, then tab") + "\n")
	}
	return panelStyle.Render(b.String())
}

// floorDescription describes the car's floor, unless its sign is still
// hidden.
func (m model) floorDescription() string {
	if m.session.FloorText(m.screen.level) == engine.Placeholder {
		return ""
	}
	f, ok := m.session.Building().Floor(m.screen.level)
	if !ok {
		return ""
	}
	return f.Description
}

func (m model) renderGuide() string {
	width := max(m.viewport.Width, 20)
	parts := make([]string, len(m.screen.guide))
	for i, text := range m.screen.guide {
		parts[i] = guideStyle.Width(width).Render(renderMarkup(text, boldStyle))
	}
	return strings.Join(parts, "\n\n")
}

// Run starts the terminal UI and blocks until the user quits.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
