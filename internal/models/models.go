package models

import (
	"fmt"
	"sort"
)

// Floor is one stop of the building.
type Floor struct {
	Level       int    `yaml:"level"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Building describes the floors the lift serves.
type Building struct {
	Name             string  `yaml:"name"`
	Floors           []Floor `yaml:"floors"`
	InitiallyLabeled []int   `yaml:"initially_labeled"` // floors revealed when labeling starts
}

// MinLevel is the lowest floor.
func (b *Building) MinLevel() int {
	lowest := 0
	for i, f := range b.Floors {
		if i == 0 || f.Level < lowest {
			lowest = f.Level
		}
	}
	return lowest
}

// MaxLevel is the highest floor.
func (b *Building) MaxLevel() int {
	highest := 0
	for i, f := range b.Floors {
		if i == 0 || f.Level > highest {
			highest = f.Level
		}
	}
	return highest
}

// Floor looks up a floor by level.
func (b *Building) Floor(level int) (Floor, bool) {
	for _, f := range b.Floors {
		if f.Level == level {
			return f, true
		}
	}
	return Floor{}, false
}

// Levels returns every level from the top floor down.
func (b *Building) Levels() []int {
	levels := make([]int, 0, len(b.Floors))
	for _, f := range b.Floors {
		levels = append(levels, f.Level)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))
	return levels
}

// Validate checks that the floors form one contiguous run that includes the
// ground floor, with a name for each.
func (b *Building) Validate() error {
	if len(b.Floors) == 0 {
		return fmt.Errorf("building %q has no floors", b.Name)
	}
	seen := make(map[int]bool, len(b.Floors))
	for _, f := range b.Floors {
		if seen[f.Level] {
			return fmt.Errorf("building %q: level %d listed twice", b.Name, f.Level)
		}
		if f.Name == "" {
			return fmt.Errorf("building %q: level %d has no name", b.Name, f.Level)
		}
		seen[f.Level] = true
	}
	if !seen[0] {
		return fmt.Errorf("building %q has no ground floor (level 0)", b.Name)
	}
	for level := b.MinLevel(); level <= b.MaxLevel(); level++ {
		if !seen[level] {
			return fmt.Errorf("building %q: missing level %d", b.Name, level)
		}
	}
	for _, level := range b.InitiallyLabeled {
		if !seen[level] {
			return fmt.Errorf("building %q: initially labeled level %d does not exist", b.Name, level)
		}
	}
	return nil
}
