package engine

import (
	"fmt"

	"github.com/tatianab/liftguide/internal/timing"
	"go.uber.org/zap"
)

// startJourney runs it, whose floors Plan has already worked out as path.
func (s *Session) startJourney(it Itinerary, path []int) {
	s.journeying = true
	s.car.Stops = nil
	s.path = path
	s.setControls(false)
	s.render.ShowPanel(PanelMoving)
	s.log.Info("journey started",
		zap.Int("from", s.car.Level),
		zap.Stringer("itinerary", it),
		zap.Ints("path", path),
		zap.Int("to", path[len(path)-1]))
	s.runLeg(it, 0, it[0].Floors)
}

// runLeg moves the car one floor of leg i per step until remaining hits zero.
func (s *Session) runLeg(it Itinerary, i, remaining int) {
	if remaining == 0 {
		s.finishLeg(it, i)
		return
	}
	dir := it[i].Direction
	s.showStatus(movingText(dir), StyleMoving)
	s.after(timing.Step, fmt.Sprintf("journey:leg%d:step", i), func() {
		s.car.Move(dir)
		if step := len(s.car.Stops) - 1; step >= len(s.path) || s.path[step] != s.car.Level {
			s.log.Warn("car left its planned path", zap.Ints("path", s.path), zap.Ints("stops", s.car.Stops))
		}
		s.render.Report(s.car.Level)
		s.showLevelStatus()
		s.runLeg(it, i, remaining-1)
	})
}

func (s *Session) finishLeg(it Itinerary, i int) {
	if i < len(it)-1 {
		s.showStatus("Holding...", StyleHolding)
		s.after(timing.LegHold, fmt.Sprintf("journey:leg%d:hold", i), func() {
			s.runLeg(it, i+1, it[i+1].Floors)
		})
		return
	}
	s.showStatus("Ding! 🔔", StyleArrived)
	s.render.ShowPanel(PanelArrived)
	s.after(timing.Arrival, "journey:arrived", s.finishJourney)
}

func (s *Session) finishJourney() {
	s.journeying = false
	s.path = nil
	s.render.Report(s.car.Level)
	s.showLevelStatus()
	s.render.ShowPanel(PanelReady)
	s.setControls(true)
	s.log.Info("journey finished", zap.Int("level", s.car.Level), zap.Ints("stops", s.car.Stops))

	if s.pending != nil {
		next := *s.pending
		s.pending = nil
		s.enter(next)
	}
	s.CheckAndAdvance()
}

func movingText(d Direction) string {
	if d == Down {
		return "Going Down... ▼"
	}
	return "Going Up... ▲"
}
