package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Direction is the way a leg travels.
type Direction int

const (
	Up Direction = iota
	Down
)

// Sign is +1 going up and -1 going down.
func (d Direction) Sign() int {
	if d == Down {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Mode selects how a command string is read.
type Mode int

const (
	// Classic reads every direction symbol as one floor.
	Classic Mode = iota
	// Numeric reads a direction symbol followed by digits as that many floors.
	Numeric
)

func (m Mode) String() string {
	if m == Numeric {
		return "numeric"
	}
	return "classic"
}

// Symbol is the glyph the command buffer uses for d in this mode.
func (m Mode) Symbol(d Direction) string {
	switch {
	case m == Numeric && d == Up:
		return "↑"
	case m == Numeric:
		return "↓"
	case d == Up:
		return "+"
	default:
		return "-"
	}
}

// Leg is a run of travel in one direction.
type Leg struct {
	Direction Direction
	Floors    int
}

// Delta is the signed change in level.
func (l Leg) Delta() int {
	return l.Floors * l.Direction.Sign()
}

func (l Leg) String() string {
	return fmt.Sprintf("%s %d", l.Direction, l.Floors)
}

// Itinerary is the ordered list of legs of one journey.
type Itinerary []Leg

// Net is the total signed displacement.
func (it Itinerary) Net() int {
	net := 0
	for _, leg := range it {
		net += leg.Delta()
	}
	return net
}

func (it Itinerary) String() string {
	parts := make([]string, len(it))
	for i, leg := range it {
		parts[i] = leg.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type tokenKind int

const (
	tokenUp tokenKind = iota
	tokenDown
	tokenDigits
	tokenSpace
	tokenOther
)

type token struct {
	kind tokenKind
	text string
}

func (t token) direction() (Direction, bool) {
	switch t.kind {
	case tokenUp:
		return Up, true
	case tokenDown:
		return Down, true
	}
	return Up, false
}

// tokenize splits a command into direction symbols, digit runs and
// everything else. Every direction symbol is its own token.
func tokenize(s string) []token {
	var tokens []token
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '+' || r == '↑':
			tokens = append(tokens, token{kind: tokenUp, text: string(r)})
		case r == '-' || r == '↓':
			tokens = append(tokens, token{kind: tokenDown, text: string(r)})
		case r >= '0' && r <= '9':
			j := i + size
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			tokens = append(tokens, token{kind: tokenDigits, text: s[i:j]})
			i = j
			continue
		case r == ' ' || r == '\t':
			tokens = append(tokens, token{kind: tokenSpace, text: string(r)})
		default:
			tokens = append(tokens, token{kind: tokenOther, text: string(r)})
		}
		i += size
	}
	return tokens
}

// ParseItinerary reads a command string as an itinerary. Input that matches
// no leg pattern is skipped; a command with no legs yields an empty itinerary.
func ParseItinerary(command string, mode Mode) Itinerary {
	tokens := tokenize(command)
	if mode == Numeric {
		return numericLegs(tokens)
	}
	return classicLegs(tokens)
}

func classicLegs(tokens []token) Itinerary {
	var it Itinerary
	for _, t := range tokens {
		dir, ok := t.direction()
		if !ok {
			continue
		}
		if n := len(it); n > 0 && it[n-1].Direction == dir {
			it[n-1].Floors++
			continue
		}
		it = append(it, Leg{Direction: dir, Floors: 1})
	}
	return it
}

func numericLegs(tokens []token) Itinerary {
	var it Itinerary
	for i := 0; i < len(tokens); i++ {
		dir, ok := tokens[i].direction()
		if !ok || i+1 >= len(tokens) || tokens[i+1].kind != tokenDigits {
			continue
		}
		i++
		floors, err := strconv.Atoi(tokens[i].text)
		if err != nil || floors == 0 {
			continue
		}
		it = append(it, Leg{Direction: dir, Floors: floors})
	}
	return it
}

// ParseLabelGuess reads a floor number from the command buffer. A digit run
// gives the magnitude, negative when a down symbol sits right before it;
// without digits the direction symbols are counted. Digits win when both
// are present.
func ParseLabelGuess(command string) (int, error) {
	tokens := tokenize(command)
	digitsAt := -1
	ups, downs := 0, 0
	for i, t := range tokens {
		switch t.kind {
		case tokenOther:
			return 0, newError(CodeInvalidLabelInput, map[string]string{"input": command},
				"%q is not a floor number", command)
		case tokenDigits:
			if digitsAt >= 0 {
				return 0, newError(CodeInvalidLabelInput, map[string]string{"input": command},
					"%q has more than one number", command)
			}
			digitsAt = i
		case tokenUp:
			ups++
		case tokenDown:
			downs++
		}
	}

	if digitsAt >= 0 {
		n, err := strconv.Atoi(tokens[digitsAt].text)
		if err != nil {
			return 0, wrapError(CodeInvalidLabelInput, err, "%q is not a floor number", command)
		}
		if digitsAt > 0 && tokens[digitsAt-1].kind == tokenDown {
			n = -n
		}
		return n, nil
	}

	switch {
	case ups > 0 && downs > 0:
		return 0, newError(CodeInvalidLabelInput, map[string]string{"input": command},
			"%q mixes up and down", command)
	case ups > 0:
		return ups, nil
	case downs > 0:
		return -downs, nil
	}
	return 0, newError(CodeInvalidLabelInput, map[string]string{"input": command},
		"%q is not a floor number", command)
}
