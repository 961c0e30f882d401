package engine

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tatianab/liftguide/internal/models"
	"github.com/tatianab/liftguide/internal/timing"
	"go.uber.org/zap"
)

// FormatLevel writes a level with its direction from the ground floor:
// +2, 0, -5.
func FormatLevel(level int) string {
	if level > 0 {
		return "+" + strconv.Itoa(level)
	}
	return strconv.Itoa(level)
}

// FormatLabel is the revealed sign of a floor, such as "+2 Art Centre".
func FormatLabel(level int, name string) string {
	return FormatLevel(level) + " " + name
}

// Labels tracks which floor signs the user has discovered.
type Labels struct {
	active   bool
	original map[int]string
	revealed map[int]bool
	floors   int
}

func newLabels(floors int) Labels {
	return Labels{
		revealed: map[int]bool{0: true},
		floors:   floors,
	}
}

// Activate captures the floor names and reveals the building's initial
// subset. It only has an effect the first time.
func (l *Labels) Activate(b *models.Building) {
	if l.active {
		return
	}
	l.active = true
	l.original = make(map[int]string, len(b.Floors))
	for _, f := range b.Floors {
		l.original[f.Level] = f.Name
	}
	for _, level := range b.InitiallyLabeled {
		l.revealed[level] = true
	}
}

// Revealed reports whether level's sign is known.
func (l *Labels) Revealed(level int) bool {
	return l.revealed[level]
}

// Reveal adds level to the labeled set.
func (l *Labels) Reveal(level int) {
	l.revealed[level] = true
}

// Complete reports whether every floor is labeled.
func (l *Labels) Complete() bool {
	return len(l.revealed) >= l.floors
}

// Remaining is the number of floors still unlabeled.
func (l *Labels) Remaining() int {
	return l.floors - len(l.revealed)
}

// Levels lists the labeled floors, lowest first.
func (l *Labels) Levels() []int {
	levels := make([]int, 0, len(l.revealed))
	for level := range l.revealed {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// Text is what the sign of level shows.
func (l *Labels) Text(level int) string {
	if !l.revealed[level] {
		return Placeholder
	}
	return FormatLabel(level, l.original[level])
}

// FloorText is the sign currently shown for level.
func (s *Session) FloorText(level int) string {
	if !s.labels.active {
		return FormatLabel(level, s.floorName(level))
	}
	return s.labels.Text(level)
}

// Labeled reports whether level's sign has been revealed.
func (s *Session) Labeled(level int) bool {
	return s.labels.Revealed(level)
}

func (s *Session) activateLabeling() {
	s.labels.Activate(s.building)
	for _, level := range s.building.Levels() {
		s.render.ShowFloorLabel(level, s.labels.Text(level))
	}
	s.showLevelStatus()
	s.log.Info("labeling started",
		zap.Ints("labeled", s.labels.Levels()),
		zap.Int("remaining", s.labels.Remaining()))
}

// promptIfUnlabeled asks for a guess when the car is already parked on an
// unlabeled floor. A moving car is prompted on arrival instead.
func (s *Session) promptIfUnlabeled() {
	if s.journeying || s.labels.Revealed(s.car.Level) {
		return
	}
	s.promptLabel()
}

func (s *Session) promptLabel() {
	if !s.labels.Revealed(s.car.Level) {
		s.setSubmit(true)
		s.showGuide("🤔 Which floor is this?<br>Type its number and press <b>SUBMIT</b>.")
		return
	}
	s.setSubmit(false)
	s.showGuide(fmt.Sprintf("You already know this floor.<br>%d to go, keep exploring!", s.labels.Remaining()))
}

// Submit checks the command buffer as a guess of the current floor.
// The buffer is cleared whatever the outcome.
func (s *Session) Submit() error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.submit {
		return newError(CodeSubmitDisabled, nil, "no floor guess was asked for")
	}
	defer s.clearBuffer()

	input := s.buffer.String()
	guess, err := ParseLabelGuess(input)
	if err != nil {
		s.log.Info("label guess rejected", zap.String("input", input), zap.Error(err))
		s.render.Alert("Please type a floor number, like " + Numeric.Symbol(Up) + "3 or " + Numeric.Symbol(Down) + "2.")
		return err
	}

	level := s.car.Level
	if guess != level {
		s.log.Info("label guess wrong", zap.Int("guess", guess), zap.Int("level", level))
		s.showStatus("Not this floor. Try again!", StyleError)
		s.restoreStatusAfter(timing.LabelFailure, "status:label-retry")
		return nil
	}

	s.log.Info("label guess correct", zap.Int("level", level))
	s.labels.Reveal(level)
	s.render.ShowFloorLabel(level, s.labels.Text(level))
	s.setSubmit(false)
	s.showStatus("Correct! 🎉", StyleSuccess)
	s.render.Report(level)
	s.CheckAndAdvance()
	s.restoreStatusAfter(timing.LabelSuccess, "status:label-correct")
	return nil
}
