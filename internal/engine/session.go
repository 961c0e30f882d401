package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tatianab/liftguide/internal/models"
	"github.com/tatianab/liftguide/internal/schedule"
	"github.com/tatianab/liftguide/internal/timing"
	"go.uber.org/zap"
)

// Session owns all state of one lift and its guide. It is not safe for
// concurrent use; every call, including scheduled tasks, must come from the
// goroutine that drives the scheduler.
type Session struct {
	building *models.Building
	render   Renderer
	sched    *schedule.Scheduler
	log      *zap.Logger

	car    Car
	mode   Mode
	buffer Buffer
	labels Labels

	state     MissionState
	advancing bool
	pending   *MissionState // entry waiting for the current journey to finish
	target    int
	targeting bool

	controls   bool
	submit     bool
	journeying bool
	started    bool
	path       []int // planned floors of the running journey

	statusSeq int
	epoch     int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession creates an idle lift on the ground floor of b.
func NewSession(b *models.Building, r Renderer, sched *schedule.Scheduler, opts ...Option) (*Session, error) {
	if b == nil {
		return nil, errors.New("building is required")
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	for state, t := range missions {
		if !t.hasTarget {
			continue
		}
		if _, ok := b.Floor(t.target); !ok {
			return nil, fmt.Errorf("building %q has no level %d needed by %s", b.Name, t.target, state)
		}
	}
	if r == nil {
		r = NopRenderer{}
	}
	if sched == nil {
		sched = schedule.New()
	}

	s := &Session{
		building: b,
		render:   r,
		sched:    sched,
		log:      zap.NewNop(),
		car:      Car{MinLevel: b.MinLevel(), MaxLevel: b.MaxLevel()},
		labels:   newLabels(len(b.Floors)),
		controls: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Press adds input to the command buffer.
func (s *Session) Press(input string) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.buffer.Add(input)
	s.render.ShowCommand(s.buffer.Display())
	return nil
}

// Backspace removes the last character of the command.
func (s *Session) Backspace() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.buffer.Backspace()
	s.render.ShowCommand(s.buffer.Display())
	return nil
}

// Clear empties the command buffer.
func (s *Session) Clear() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.clearBuffer()
	return nil
}

// Go parses the command and, when the whole itinerary fits in the shaft,
// starts a journey. A command without moves returns an ErrNoOp error and
// changes nothing.
func (s *Session) Go() error {
	if err := s.ready(); err != nil {
		return err
	}
	command := s.buffer.String()
	it := ParseItinerary(command, s.mode)
	if len(it) == 0 {
		s.log.Debug("command ignored", zap.String("command", command), zap.Stringer("mode", s.mode))
		return newError(CodeNoOp, map[string]string{"input": command}, "%q has no moves", command)
	}
	path, err := Plan(s.car, it)
	if err != nil {
		s.rejectItinerary(command, err)
		return err
	}
	s.clearBuffer()
	s.startJourney(it, path)
	return nil
}

func (s *Session) rejectItinerary(command string, err error) {
	text := "Error: Cannot go there!"
	switch {
	case errors.Is(err, ErrOutOfRangeHigh):
		text = "Error: Too High!"
	case errors.Is(err, ErrOutOfRangeLow):
		text = "Error: Too Low!"
	}
	s.log.Info("itinerary rejected", zap.String("command", command), zap.Int("level", s.car.Level), zap.Error(err))
	s.showStatus(text, StyleError)
	s.restoreStatusAfter(timing.ErrorRevert, "status:error")
}

func (s *Session) ready() error {
	if s.journeying || !s.controls {
		return newError(CodeControlsDisabled, nil, "the lift is moving")
	}
	return nil
}

func (s *Session) clearBuffer() {
	s.buffer.Clear()
	s.render.ShowCommand(s.buffer.Display())
}

// after schedules fn unless the session is bootstrapped again first.
func (s *Session) after(d time.Duration, name string, fn func()) {
	epoch := s.epoch
	s.sched.After(d, name, func() {
		if s.epoch != epoch {
			return
		}
		fn()
	})
}

func (s *Session) showStatus(text string, style StatusStyle) {
	s.statusSeq++
	s.render.ShowStatus(text, style)
}

func (s *Session) showLevelStatus() {
	s.showStatus(s.levelStatus(), StyleNormal)
}

// restoreStatusAfter puts the level back on the status display after d,
// unless something else was shown in the meantime.
func (s *Session) restoreStatusAfter(d time.Duration, name string) {
	seq := s.statusSeq
	s.after(d, name, func() {
		if s.statusSeq != seq || s.journeying {
			return
		}
		s.showLevelStatus()
	})
}

func (s *Session) levelStatus() string {
	if s.labels.active && !s.labels.Revealed(s.car.Level) {
		return "Level: " + Placeholder
	}
	return "Level: " + FormatLevel(s.car.Level)
}

func (s *Session) showGuide(text string) {
	s.log.Debug("guide", zap.String("text", text))
	s.render.ShowGuideMessage(text)
}

func (s *Session) setControls(enabled bool) {
	s.controls = enabled
	s.render.SetControlsEnabled(enabled)
}

func (s *Session) setSubmit(enabled bool) {
	s.submit = enabled
	s.render.SetSubmitEnabled(enabled)
}

func (s *Session) setTarget(level int) {
	s.target, s.targeting = level, true
	s.render.SetTargetHighlight(level, true)
}

func (s *Session) clearTarget() {
	if !s.targeting {
		return
	}
	s.targeting = false
	s.render.SetTargetHighlight(s.target, false)
}

func (s *Session) floorName(level int) string {
	f, _ := s.building.Floor(level)
	return f.Name
}

// Building returns the building the lift serves.
func (s *Session) Building() *models.Building { return s.building }

// Level is the floor the car is on.
func (s *Session) Level() int { return s.car.Level }

// Mode is the current input mode.
func (s *Session) Mode() Mode { return s.mode }

// State is the active mission state.
func (s *Session) State() MissionState { return s.state }

// Command is the pending command.
func (s *Session) Command() string { return s.buffer.String() }

// Target reports the highlighted target floor, if any.
func (s *Session) Target() (int, bool) { return s.target, s.targeting }

// ControlsEnabled reports whether input is accepted.
func (s *Session) ControlsEnabled() bool { return s.controls && !s.journeying }

// SubmitEnabled reports whether a label guess is expected.
func (s *Session) SubmitEnabled() bool { return s.submit }

// Journeying reports whether the car is moving.
func (s *Session) Journeying() bool { return s.journeying }

// Snapshot is a read-only view of a session.
type Snapshot struct {
	Level           int
	MinLevel        int
	MaxLevel        int
	Mode            Mode
	State           MissionState
	Advancing       bool
	Target          int
	HasTarget       bool
	Command         string
	ControlsEnabled bool
	SubmitEnabled   bool
	Journeying      bool
	Path            []int
	Labeling        bool
	Labeled         []int
	Floors          int
}

// Snapshot copies the observable state of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Level:           s.car.Level,
		MinLevel:        s.car.MinLevel,
		MaxLevel:        s.car.MaxLevel,
		Mode:            s.mode,
		State:           s.state,
		Advancing:       s.advancing || s.pending != nil,
		Target:          s.target,
		HasTarget:       s.targeting,
		Command:         s.buffer.String(),
		ControlsEnabled: s.ControlsEnabled(),
		SubmitEnabled:   s.submit,
		Journeying:      s.journeying,
		Path:            append([]int(nil), s.path...),
		Labeling:        s.labels.active,
		Labeled:         s.labels.Levels(),
		Floors:          len(s.building.Floors),
	}
}
