package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/liftguide/internal/engine"
)

// screen is the session's view of the terminal. The session writes into it
// through the engine.Renderer methods; View reads it back.
type screen struct {
	level    int
	status   string
	style    engine.StatusStyle
	panel    string
	command  string
	target   int
	targetOn bool
	controls bool
	submit   bool
	labels   map[int]string
	alert    string
	guide    []string
	pending  []string // guide messages not yet in the transcript
}

func newScreen() *screen {
	return &screen{
		panel:    engine.PanelReady,
		command:  engine.EmptyCommand,
		controls: true,
		labels:   make(map[int]string),
	}
}

func (s *screen) Report(level int) { s.level = level }

func (s *screen) ShowStatus(text string, style engine.StatusStyle) {
	s.status, s.style = text, style
}

func (s *screen) ShowPanel(text string) { s.panel = text }

func (s *screen) SetTargetHighlight(level int, on bool) {
	s.target, s.targetOn = level, on
}

func (s *screen) SetControlsEnabled(enabled bool) { s.controls = enabled }
func (s *screen) SetSubmitEnabled(enabled bool)   { s.submit = enabled }
func (s *screen) ShowGuideMessage(text string)    { s.pending = append(s.pending, text) }
func (s *screen) ShowCommand(text string)         { s.command = text }

func (s *screen) ShowFloorLabel(level int, text string) { s.labels[level] = text }

func (s *screen) Alert(text string) { s.alert = text }

// nextPending pops the oldest queued guide message.
func (s *screen) nextPending() (string, bool) {
	if len(s.pending) == 0 {
		return "", false
	}
	text := s.pending[0]
	s.pending = s.pending[1:]
	return text, true
}

// takePending hands over the guide messages queued since the last call.
func (s *screen) takePending() []string {
	p := s.pending
	s.pending = nil
	return p
}

// renderMarkup turns the guide's <b> and <br> markup into terminal text.
func renderMarkup(text string, bold lipgloss.Style) string {
	text = strings.ReplaceAll(text, "<br>", "\n")
	var b strings.Builder
	for {
		open := strings.Index(text, "<b>")
		if open < 0 {
			break
		}
		end := strings.Index(text[open:], "</b>")
		if end < 0 {
			break
		}
		b.WriteString(text[:open])
		b.WriteString(bold.Render(text[open+len("<b>") : open+end]))
		text = text[open+end+len("</b>"):]
	}
	b.WriteString(text)
	return b.String()
}
