package engine

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tatianab/liftguide/internal/timing"
	"go.uber.org/zap"
)

// MissionStateParam is the resume parameter name.
const MissionStateParam = "missionState"

// ParseParams extracts the resume state from a query string such as
// "?missionState=MOVING_TO_ART". A missing parameter yields "".
func ParseParams(raw string) (string, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return "", nil
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return "", fmt.Errorf("parse params: %w", err)
	}
	return values.Get(MissionStateParam), nil
}

type labeling int

const (
	labelingOff labeling = iota
	labelingInitial
	labelingDone
)

// prerequisite is the lift as it stands when a mission state is reached
// through the normal sequence.
type prerequisite struct {
	level    int
	mode     Mode
	labeling labeling
}

var prerequisites = map[MissionState]prerequisite{
	StateIntro:            {level: 0, mode: Classic},
	StateMovingToArt:      {level: 0, mode: Classic},
	StateMovingToDinosaur: {level: artLevel, mode: Classic},
	StateNumericUpgrade:   {level: dinosaurLevel, mode: Classic},
	StateMovingToSpace:    {level: teleportLevel, mode: Numeric},
	StateLabelingIntro:    {level: spaceLevel, mode: Numeric},
	StateLabelingTask:     {level: spaceLevel, mode: Numeric, labeling: labelingInitial},
	StateCompleted:        {level: spaceLevel, mode: Numeric, labeling: labelingDone},
}

// Start shows the idle lift and starts the guide. When missionState names a
// mission state the session resumes there; otherwise the guide begins from
// the greeting after a short delay. An unknown missionState is reported but
// is not fatal.
func (s *Session) Start(missionState string) error {
	if s.started {
		return fmt.Errorf("session already started")
	}
	s.started = true
	s.render.Report(s.car.Level)
	s.showLevelStatus()
	s.render.ShowPanel(PanelReady)
	s.render.ShowCommand(s.buffer.Display())
	s.setControls(true)

	if strings.TrimSpace(missionState) == "" {
		s.startDefault()
		return nil
	}
	state, ok := ParseMissionState(missionState)
	if !ok {
		s.log.Warn("unrecognized mission state, starting from the beginning",
			zap.String(MissionStateParam, missionState))
		s.startDefault()
		return newError(CodeUnrecognizedBootstrapState, map[string]string{"state": missionState},
			"unknown mission state %q", missionState)
	}
	return s.Bootstrap(state)
}

func (s *Session) startDefault() {
	s.after(timing.IntroDelay, "mission:"+StateIntro.String(), func() { s.enter(StateIntro) })
}

// Bootstrap puts the session straight into state with the level, mode and
// labels that state expects, dropping anything scheduled before.
func (s *Session) Bootstrap(state MissionState) error {
	p, ok := prerequisites[state]
	if !ok {
		return newError(CodeUnrecognizedBootstrapState, map[string]string{"state": state.String()},
			"cannot resume at %s", state)
	}
	if s.journeying {
		return newError(CodeControlsDisabled, nil, "cannot resume while the lift is moving")
	}

	s.epoch++
	s.started = true
	s.clearTarget()
	s.setSubmit(false)
	s.pending = nil
	s.advancing = false
	s.car = Car{Level: p.level, MinLevel: s.building.MinLevel(), MaxLevel: s.building.MaxLevel()}
	s.mode = p.mode
	s.labels = newLabels(len(s.building.Floors))
	if p.labeling != labelingOff {
		s.labels.Activate(s.building)
	}
	if p.labeling == labelingDone {
		for _, level := range s.building.Levels() {
			s.labels.Reveal(level)
		}
	}
	for _, level := range s.building.Levels() {
		s.render.ShowFloorLabel(level, s.FloorText(level))
	}

	s.log.Info("session resumed",
		zap.Stringer("state", state),
		zap.Int("level", p.level),
		zap.Stringer("mode", p.mode))

	s.clearBuffer()
	s.render.Report(s.car.Level)
	s.showLevelStatus()
	s.render.ShowPanel(PanelReady)
	s.setControls(true)
	s.enter(state)
	return nil
}
