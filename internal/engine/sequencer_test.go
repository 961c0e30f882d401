package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/tatianab/liftguide/internal/timing"
)

func TestJourneyVisitsEveryFloorInOrder(t *testing.T) {
	s, r, sched := resumeAt(t, StateMovingToArt)
	r.reports = nil

	if err := s.Press("++-"); err != nil {
		t.Fatal(err)
	}
	if err := s.Go(); err != nil {
		t.Fatalf("Go: %v", err)
	}
	if s.Command() != "" {
		t.Errorf("Buffer should be cleared before motion, got %q", s.Command())
	}
	settle(t, sched)

	want := []int{1, 2, 1, 1} // three steps, then the arrival refresh
	if len(r.reports) != len(want) {
		t.Fatalf("Expected reports %v, got %v", want, r.reports)
	}
	for i := range want {
		if r.reports[i] != want[i] {
			t.Fatalf("Expected reports %v, got %v", want, r.reports)
		}
	}
	if len(s.car.Stops) != 3 || s.car.Stops[0] != 1 || s.car.Stops[1] != 2 || s.car.Stops[2] != 1 {
		t.Errorf("Expected stops [1 2 1], got %v", s.car.Stops)
	}
}

func TestJourneyTiming(t *testing.T) {
	s, r, sched := resumeAt(t, StateMovingToArt)
	start := sched.Now()
	r.reports = nil

	if err := s.Press("+-"); err != nil {
		t.Fatal(err)
	}
	if err := s.Go(); err != nil {
		t.Fatal(err)
	}
	if s.ControlsEnabled() {
		t.Fatal("Controls should be disabled while moving")
	}
	if got := r.panels[len(r.panels)-1]; got != PanelMoving {
		t.Errorf("Expected panel %q, got %q", PanelMoving, got)
	}
	if got := r.lastStatus(); got.text != "Going Up... ▲" {
		t.Errorf("Expected going up status, got %+v", got)
	}

	sched.AdvanceTo(start + timing.Step - time.Millisecond)
	if len(r.reports) != 0 {
		t.Fatalf("Car moved before the step delay")
	}
	sched.AdvanceTo(start + timing.Step)
	if len(r.reports) != 1 || r.reports[0] != 1 {
		t.Fatalf("Expected first step to level 1, got %v", r.reports)
	}
	if got := r.lastStatus(); got.text != "Holding..." || got.style != StyleHolding {
		t.Errorf("Expected holding status between legs, got %+v", got)
	}

	sched.AdvanceTo(start + timing.Step + timing.LegHold)
	if got := r.lastStatus(); got.text != "Going Down... ▼" {
		t.Errorf("Expected going down status, got %+v", got)
	}
	if err := s.Press("+"); !errors.Is(err, ErrControlsDisabled) {
		t.Errorf("Expected input to be refused while moving, got %v", err)
	}

	sched.AdvanceTo(start + 2*timing.Step + timing.LegHold)
	if got := r.lastStatus(); got.text != "Ding! 🔔" {
		t.Errorf("Expected arrival status, got %+v", got)
	}
	if !s.Journeying() {
		t.Error("Journey should last until the arrival delay ends")
	}

	sched.AdvanceTo(start + 2*timing.Step + timing.LegHold + timing.Arrival)
	if s.Journeying() || !s.ControlsEnabled() {
		t.Error("Expected lift to be ready after arrival")
	}
	if got := r.panels[len(r.panels)-1]; got != PanelReady {
		t.Errorf("Expected panel %q, got %q", PanelReady, got)
	}
	if s.Level() != 0 {
		t.Errorf("Expected level 0, got %d", s.Level())
	}
}

func TestJourneyChecksMissionOnce(t *testing.T) {
	s, r, sched := resumeAt(t, StateMovingToArt)
	guides := len(r.guides)

	travel(t, s, sched, "+")

	if len(r.guides) != guides+1 {
		t.Fatalf("Expected one guide message after the journey, got %v", r.guides[guides:])
	}
	if s.State() != StateMovingToArt {
		t.Errorf("Expected state to stay MOVING_TO_ART, got %s", s.State())
	}
}
