package engine

import (
	"testing"

	"github.com/tatianab/liftguide/internal/models"
	"github.com/tatianab/liftguide/internal/schedule"
	"go.uber.org/zap"
)

type statusCall struct {
	text  string
	style StatusStyle
}

// recorder is a Renderer that keeps every call.
type recorder struct {
	reports   []int
	statuses  []statusCall
	panels    []string
	guides    []string
	commands  []string
	alerts    []string
	labels    map[int]string
	target    int
	targetOn  bool
	controls  []bool
	submit    bool
	highlight []int
}

func newRecorder() *recorder {
	return &recorder{labels: make(map[int]string)}
}

func (r *recorder) Report(level int) { r.reports = append(r.reports, level) }

func (r *recorder) ShowStatus(text string, style StatusStyle) {
	r.statuses = append(r.statuses, statusCall{text, style})
}

func (r *recorder) ShowPanel(text string) { r.panels = append(r.panels, text) }

func (r *recorder) SetTargetHighlight(level int, on bool) {
	r.target, r.targetOn = level, on
	if on {
		r.highlight = append(r.highlight, level)
	}
}

func (r *recorder) SetControlsEnabled(enabled bool) { r.controls = append(r.controls, enabled) }
func (r *recorder) SetSubmitEnabled(enabled bool)   { r.submit = enabled }
func (r *recorder) ShowGuideMessage(text string)    { r.guides = append(r.guides, text) }
func (r *recorder) ShowCommand(text string)         { r.commands = append(r.commands, text) }
func (r *recorder) ShowFloorLabel(level int, text string) {
	r.labels[level] = text
}
func (r *recorder) Alert(text string) { r.alerts = append(r.alerts, text) }

func (r *recorder) lastStatus() statusCall {
	if len(r.statuses) == 0 {
		return statusCall{}
	}
	return r.statuses[len(r.statuses)-1]
}

func (r *recorder) lastGuide() string {
	if len(r.guides) == 0 {
		return ""
	}
	return r.guides[len(r.guides)-1]
}

func newTestSession(t *testing.T) (*Session, *recorder, *schedule.Scheduler) {
	t.Helper()
	b, err := models.DefaultBuilding()
	if err != nil {
		t.Fatalf("Failed to load building: %v", err)
	}
	r := newRecorder()
	sched := schedule.New()
	s, err := NewSession(b, r, sched, WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return s, r, sched
}

// resumeAt starts a session directly in state and settles the scheduler.
func resumeAt(t *testing.T, state MissionState) (*Session, *recorder, *schedule.Scheduler) {
	t.Helper()
	s, r, sched := newTestSession(t)
	if err := s.Start(state.String()); err != nil {
		t.Fatalf("Failed to start at %s: %v", state, err)
	}
	settle(t, sched)
	return s, r, sched
}

func settle(t *testing.T, sched *schedule.Scheduler) {
	t.Helper()
	if _, err := sched.RunUntilIdle(10000); err != nil {
		t.Fatalf("Scheduler did not settle: %v", err)
	}
}

func travel(t *testing.T, s *Session, sched *schedule.Scheduler, command string) {
	t.Helper()
	if err := s.Press(command); err != nil {
		t.Fatalf("Press(%q): %v", command, err)
	}
	if err := s.Go(); err != nil {
		t.Fatalf("Go(%q): %v", command, err)
	}
	settle(t, sched)
}
