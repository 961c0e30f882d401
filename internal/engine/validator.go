package engine

import (
	"strconv"

	"github.com/tiendc/go-deepcopy"
)

// Car is the lift car and the shaft it runs in.
type Car struct {
	Level    int
	MinLevel int
	MaxLevel int
	Stops    []int // floors passed during the current journey
}

// Move shifts the car one floor and records the stop.
func (c *Car) Move(d Direction) {
	c.Level += d.Sign()
	c.Stops = append(c.Stops, c.Level)
}

// Plan runs the itinerary floor by floor on a copy of the car and returns
// every floor the car would pass. It fails on the first leg that would leave
// the shaft. The car itself is never changed, and the returned path shares
// no memory with it.
func Plan(car Car, it Itinerary) ([]int, error) {
	sim := new(Car)
	if err := deepcopy.Copy(sim, &car); err != nil {
		return nil, err
	}
	start := len(sim.Stops)
	for i, leg := range it {
		// Compare against the room left so huge magnitudes cannot overflow.
		if leg.Direction == Up && leg.Floors > sim.MaxLevel-sim.Level {
			return nil, newError(CodeOutOfRangeHigh, legMetadata(i, leg, sim.MaxLevel+1),
				"leg %d (%s) from level %d goes past the top floor %d", i+1, leg, sim.Level, sim.MaxLevel)
		}
		if leg.Direction == Down && leg.Floors > sim.Level-sim.MinLevel {
			return nil, newError(CodeOutOfRangeLow, legMetadata(i, leg, sim.MinLevel-1),
				"leg %d (%s) from level %d goes past the bottom floor %d", i+1, leg, sim.Level, sim.MinLevel)
		}
		for range leg.Floors {
			sim.Move(leg.Direction)
		}
	}
	return sim.Stops[start:], nil
}

// Validate reports whether the whole itinerary stays inside the shaft.
func Validate(car Car, it Itinerary) error {
	_, err := Plan(car, it)
	return err
}

// legMetadata describes a failing leg: its 0-based index, its size and the
// first level outside the shaft it would reach.
func legMetadata(i int, leg Leg, level int) map[string]string {
	return map[string]string{
		"leg":    strconv.Itoa(i),
		"floors": strconv.Itoa(leg.Floors),
		"level":  strconv.Itoa(level),
	}
}
