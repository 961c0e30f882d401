package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/tatianab/liftguide/internal/timing"
)

func TestValidateRejectsWholeItinerary(t *testing.T) {
	car := Car{Level: 5, MinLevel: -5, MaxLevel: 6}
	err := Validate(car, Itinerary{{Up, 1}, {Up, 1}})
	if !errors.Is(err, ErrOutOfRangeHigh) {
		t.Fatalf("Expected OutOfRange(High), got %v", err)
	}
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Metadata["leg"] != "1" || lerr.Metadata["level"] != "7" {
		t.Errorf("Expected failure on second leg at level 7, got %+v", lerr)
	}
	if car.Level != 5 || len(car.Stops) != 0 {
		t.Errorf("Validate changed the car: %+v", car)
	}
}

func TestValidateLowAndIntermediate(t *testing.T) {
	car := Car{Level: 0, MinLevel: -5, MaxLevel: 6}

	if err := Validate(car, Itinerary{{Down, 6}}); !errors.Is(err, ErrOutOfRangeLow) {
		t.Errorf("Expected OutOfRange(Low), got %v", err)
	}
	// Ends in range but passes above the top floor on the way.
	if err := Validate(car, Itinerary{{Up, 7}, {Down, 3}}); !errors.Is(err, ErrOutOfRangeHigh) {
		t.Errorf("Expected OutOfRange(High) on an intermediate leg, got %v", err)
	}
	if err := Validate(car, Itinerary{{Up, 6}, {Down, 11}}); err != nil {
		t.Errorf("Expected edge-to-edge itinerary to pass, got %v", err)
	}
}

func TestGoOutOfRangeLeavesLevelAndReverts(t *testing.T) {
	s, r, sched := resumeAt(t, StateMovingToArt)
	travel(t, s, sched, "+++++")
	if s.Level() != 5 {
		t.Fatalf("Expected level 5, got %d", s.Level())
	}

	reportsBefore := len(r.reports)
	if err := s.Press("++"); err != nil {
		t.Fatal(err)
	}
	err := s.Go()
	if !errors.Is(err, ErrOutOfRangeHigh) {
		t.Fatalf("Expected OutOfRange(High), got %v", err)
	}
	if s.Level() != 5 || s.Journeying() {
		t.Errorf("Expected lift to stay idle at 5, got level %d journeying %v", s.Level(), s.Journeying())
	}
	if got := r.lastStatus(); got.text != "Error: Too High!" || got.style != StyleError {
		t.Errorf("Expected error status, got %+v", got)
	}
	if !s.ControlsEnabled() {
		t.Error("Controls should stay enabled on a rejected itinerary")
	}
	if s.Command() != "++" {
		t.Errorf("Rejected command should stay in the buffer, got %q", s.Command())
	}

	sched.Advance(timing.ErrorRevert - time.Millisecond)
	if got := r.lastStatus(); got.text != "Error: Too High!" {
		t.Errorf("Error cleared too early: %+v", got)
	}
	sched.Advance(time.Millisecond)
	if got := r.lastStatus(); got.text != "Level: +5" || got.style != StyleNormal {
		t.Errorf("Expected status to revert, got %+v", got)
	}
	if len(r.reports) != reportsBefore {
		t.Errorf("No floor should be reported on rejection")
	}
}

func TestGoWithoutMovesIsNoOp(t *testing.T) {
	s, r, sched := resumeAt(t, StateMovingToArt)
	guides := len(r.guides)

	if err := s.Go(); !errors.Is(err, ErrNoOp) {
		t.Errorf("Expected NoOp for empty command, got %v", err)
	}
	if err := s.Press("x"); err != nil {
		t.Fatal(err)
	}
	if err := s.Go(); !errors.Is(err, ErrNoOp) {
		t.Errorf("Expected NoOp for unparsable command, got %v", err)
	}
	settle(t, sched)

	if s.Journeying() || s.Level() != 0 || len(r.guides) != guides {
		t.Errorf("NoOp changed the session")
	}
}

func TestValidateHugeMagnitudes(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		command string
		want    error
		edge    string
	}{
		{"up from 1", 1, "↑9223372036854775807", ErrOutOfRangeHigh, "7"},
		{"down from -5", -5, "↓9223372036854775807", ErrOutOfRangeLow, "-6"},
		{"down from top", 6, "↓9223372036854775807", ErrOutOfRangeLow, "-6"},
		{"up after a valid leg", 0, "↑3↑9223372036854775807", ErrOutOfRangeHigh, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := ParseItinerary(tt.command, Numeric)
			if len(it) == 0 {
				t.Fatalf("ParseItinerary(%q) gave no legs", tt.command)
			}
			err := Validate(Car{Level: tt.level, MinLevel: -5, MaxLevel: 6}, it)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate(%q from %d) = %v, want %v", tt.command, tt.level, err, tt.want)
			}
			var lerr *Error
			if !errors.As(err, &lerr) || lerr.Metadata["level"] != tt.edge {
				t.Errorf("Expected first level outside the shaft %s, got %+v", tt.edge, lerr)
			}
		})
	}
}

func TestGoHugeMagnitudeShowsTooHigh(t *testing.T) {
	s, r, _ := resumeAt(t, StateMovingToSpace)
	if err := s.Press("↑9223372036854775807"); err != nil {
		t.Fatal(err)
	}
	if err := s.Go(); !errors.Is(err, ErrOutOfRangeHigh) {
		t.Fatalf("Expected OutOfRange(High), got %v", err)
	}
	if got := r.lastStatus(); got.text != "Error: Too High!" {
		t.Errorf("Expected Too High status, got %+v", got)
	}
}

func TestPlanWalksEveryFloor(t *testing.T) {
	car := Car{Level: 0, MinLevel: -5, MaxLevel: 6}
	path, err := Plan(car, Itinerary{{Up, 2}, {Down, 1}})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 1}
	if len(path) != len(want) {
		t.Fatalf("Plan = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("Plan = %v, want %v", path, want)
			break
		}
	}
}

func TestPlanDoesNotShareTheCarsStops(t *testing.T) {
	stops := make([]int, 1, 8)
	stops[0] = 3
	car := Car{Level: 3, MinLevel: -5, MaxLevel: 6, Stops: stops}

	path, err := Plan(car, Itinerary{{Down, 2}})
	if err != nil {
		t.Fatal(err)
	}
	// Appending to the car's slice reuses its spare capacity.
	car.Stops = append(car.Stops, 99, 99)
	if len(path) != 2 || path[0] != 2 || path[1] != 1 {
		t.Errorf("Plan path changed by the car's moves: %v", path)
	}
}

func TestJourneyFollowsPlan(t *testing.T) {
	s, _, sched := resumeAt(t, StateMovingToArt)
	if err := s.Press("++-"); err != nil {
		t.Fatal(err)
	}
	if err := s.Go(); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if len(snap.Path) != 3 || snap.Path[0] != 1 || snap.Path[1] != 2 || snap.Path[2] != 1 {
		t.Fatalf("Expected planned path [1 2 1], got %v", snap.Path)
	}
	settle(t, sched)
	if len(s.Snapshot().Path) != 0 {
		t.Error("Path should be cleared after arrival")
	}
	if len(s.car.Stops) != 3 || s.car.Stops[2] != 1 {
		t.Errorf("Expected stops to match the plan, got %v", s.car.Stops)
	}
}
