package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tatianab/liftguide/internal/timing"
)

func TestLabelingActivationMasksFloors(t *testing.T) {
	s, r, _ := resumeAt(t, StateLabelingTask)

	if s.Level() != 6 || s.Mode() != Numeric {
		t.Fatalf("Unexpected resume point %d %s", s.Level(), s.Mode())
	}
	for _, level := range []int{6, 2, 0, -5} {
		if !s.Labeled(level) {
			t.Errorf("Expected level %d to be labeled initially", level)
		}
	}
	if got := r.labels[2]; got != "+2 Art Centre" {
		t.Errorf("Expected revealed sign, got %q", got)
	}
	if got := r.labels[-5]; got != "-5 Dinosaur Museum" {
		t.Errorf("Expected revealed sign, got %q", got)
	}
	if got := r.labels[0]; got != "0 Ground Floor" {
		t.Errorf("Expected revealed sign, got %q", got)
	}
	if got := r.labels[4]; got != Placeholder {
		t.Errorf("Expected placeholder on level 4, got %q", got)
	}
}

func TestLabelRevealRoundTrip(t *testing.T) {
	s, r, sched := resumeAt(t, StateLabelingTask)

	for _, level := range []int{5, -3} {
		if got := s.FloorText(level); got != Placeholder {
			t.Fatalf("Level %d should be masked before reveal, got %q", level, got)
		}
		travel(t, s, sched, Travel(level-s.Level(), s.Mode()))
		if !s.SubmitEnabled() {
			t.Fatalf("Expected a guess to be requested on level %d", level)
		}
		if got := r.lastStatus().text; got != "Level: ???" {
			t.Errorf("Status should not give the floor away, got %q", got)
		}
		if err := s.Press(Guess(level, s.Mode())); err != nil {
			t.Fatal(err)
		}
		if err := s.Submit(); err != nil {
			t.Fatalf("Submit: %v", err)
		}

		name := s.Building().Floors[6-level].Name
		got := s.FloorText(level)
		if !strings.Contains(got, name) {
			t.Errorf("Expected %q to contain %q", got, name)
		}
		prefix := "+"
		if level < 0 {
			prefix = "-"
		}
		if !strings.HasPrefix(got, prefix+FormatLevel(level)[1:]) {
			t.Errorf("Expected %q to start with %s%d", got, prefix, abs(level))
		}
		if r.labels[level] != got {
			t.Errorf("Renderer shows %q, session %q", r.labels[level], got)
		}
		settle(t, sched)
	}
}

func TestSubmitOutcomes(t *testing.T) {
	s, r, sched := resumeAt(t, StateLabelingTask)

	if err := s.Submit(); !errors.Is(err, ErrSubmitDisabled) {
		t.Errorf("Expected submit to be disabled on a labeled floor, got %v", err)
	}

	travel(t, s, sched, "↓1")
	if !strings.Contains(r.lastGuide(), "Which floor") {
		t.Fatalf("Expected a guess prompt, got %q", r.lastGuide())
	}

	// Unparsable.
	if err := s.Press("x"); err != nil {
		t.Fatal(err)
	}
	if err := s.Submit(); !errors.Is(err, ErrInvalidLabelInput) {
		t.Fatalf("Expected invalid input, got %v", err)
	}
	if len(r.alerts) != 1 || s.Command() != "" || s.Labeled(5) || !s.SubmitEnabled() {
		t.Errorf("Invalid input should alert, clear the buffer and change nothing else")
	}

	// Wrong floor.
	if err := s.Press("4"); err != nil {
		t.Fatal(err)
	}
	if err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if got := r.lastStatus(); got.text != "Not this floor. Try again!" || got.style != StyleError {
		t.Errorf("Expected failure status, got %+v", got)
	}
	if s.Labeled(5) || s.Command() != "" || !s.SubmitEnabled() {
		t.Errorf("Wrong guess should leave the floor unlabeled and clear the buffer")
	}
	sched.Advance(timing.LabelFailure - time.Millisecond)
	if got := r.lastStatus().text; got != "Not this floor. Try again!" {
		t.Errorf("Failure status cleared early: %q", got)
	}
	sched.Advance(time.Millisecond)
	if got := r.lastStatus().text; got != "Level: ???" {
		t.Errorf("Expected neutral status after failure, got %q", got)
	}

	// Right floor, plain digits.
	if err := s.Press("5"); err != nil {
		t.Fatal(err)
	}
	if err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if !s.Labeled(5) || s.SubmitEnabled() || s.Command() != "" {
		t.Errorf("Correct guess should label the floor and close the prompt")
	}
	if got := r.lastStatus(); got.text != "Correct! 🎉" || got.style != StyleSuccess {
		t.Errorf("Expected success status, got %+v", got)
	}
	if !strings.Contains(r.lastGuide(), "7 to go") {
		t.Errorf("Expected keep-exploring prompt, got %q", r.lastGuide())
	}
	sched.Advance(timing.LabelSuccess)
	if got := r.lastStatus().text; got != "Level: +5" {
		t.Errorf("Expected status to show the now known level, got %q", got)
	}
}

func TestLabeledSetOnlyGrows(t *testing.T) {
	l := newLabels(3)
	if !l.Revealed(0) || l.Remaining() != 2 {
		t.Fatalf("Ground floor should be labeled from the start")
	}
	l.Reveal(1)
	l.Reveal(1)
	if l.Remaining() != 1 || l.Complete() {
		t.Errorf("Unexpected labels %v", l.Levels())
	}
	l.Reveal(-1)
	if !l.Complete() {
		t.Errorf("Expected labels complete, got %v", l.Levels())
	}
}

func TestFormatLabel(t *testing.T) {
	tests := map[int]string{
		3:  "+3 Cinema",
		0:  "0 Cinema",
		-2: "-2 Cinema",
	}
	for level, want := range tests {
		if got := FormatLabel(level, "Cinema"); got != want {
			t.Errorf("FormatLabel(%d) = %q, want %q", level, got, want)
		}
	}
}
