package lift

import (
	"errors"
	"fmt"
	"strconv"
)

// Tick is one unit of simulated time. All durations are tick counts.
type Tick uint64

// The floors start at zero
type Floor int

func (f Floor) String() string { return strconv.Itoa(int(f)) }

func (f Floor) next(dir Direction) Floor {
	return Floor(int(f) + int(dir))
}

func (f Floor) distance(to Floor) int {
	if f > to {
		return int(f - to)
	}
	return int(to - f)
}

func (f Floor) DirectionTo(dest Floor) Direction {
	if f == dest {
		return None
	} else if dest > f {
		return Up
	} else {
		return Down
	}
}

// Direction tags both travel and the call set a request belongs to.
// None is the neutral direction: "anyone waiting here" or a destination call.
type Direction int

const (
	Up   Direction = 1
	None Direction = 0
	Down Direction = -1
)

// directions is the scan order used whenever all call sets are visited.
var directions = [...]Direction{None, Up, Down}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case None:
		return "None"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Tag is the one-letter form used by the console renderer.
func (d Direction) Tag() string {
	switch d {
	case Up:
		return "U"
	case Down:
		return "D"
	default:
		return "N"
	}
}

// Passenger is immutable once created. It is held by exactly one floor queue or
// one elevator manifest at a time.
type Passenger struct {
	Arrival     Tick  `json:"arrival"`
	Origin      Floor `json:"origin"`
	Destination Floor `json:"destination"`
}

// Direction is the direction the passenger asks for at the origin floor.
func (p Passenger) Direction() Direction {
	return p.Origin.DirectionTo(p.Destination)
}

func (p Passenger) String() string {
	return fmt.Sprintf("Passenger(t=%d %s->%s)", p.Arrival, p.Origin, p.Destination)
}

// Settings are supplied once per elevator and never change.
type Settings struct {
	Capacity          int  `yaml:"capacity" json:"capacity"`
	TicksPerFloor     Tick `yaml:"ticks_per_floor" json:"ticks_per_floor"`
	TicksDoorOpen     Tick `yaml:"ticks_door_open" json:"ticks_door_open"`
	TicksDoorClose    Tick `yaml:"ticks_door_close" json:"ticks_door_close"`
	TicksIdleOpen     Tick `yaml:"ticks_idle_open" json:"ticks_idle_open"`
	TicksPerBoarding  Tick `yaml:"ticks_per_boarding" json:"ticks_per_boarding"`
	TicksPerAlighting Tick `yaml:"ticks_per_alighting" json:"ticks_per_alighting"`
}

var ErrInvalidSettings = errors.New("invalid elevator settings")

// Validate rejects settings the tick loop cannot run with. Every phase must last
// at least one tick, otherwise an open/idle/close cycle never consumes progress.
func (s Settings) Validate() error {
	if s.Capacity < 1 {
		return fmt.Errorf("%w: capacity %d < 1", ErrInvalidSettings, s.Capacity)
	}
	durations := []struct {
		name  string
		ticks Tick
	}{
		{"ticks_per_floor", s.TicksPerFloor},
		{"ticks_door_open", s.TicksDoorOpen},
		{"ticks_door_close", s.TicksDoorClose},
		{"ticks_idle_open", s.TicksIdleOpen},
		{"ticks_per_boarding", s.TicksPerBoarding},
		{"ticks_per_alighting", s.TicksPerAlighting},
	}
	for _, d := range durations {
		if d.ticks == 0 {
			return fmt.Errorf("%w: %s must be at least 1", ErrInvalidSettings, d.name)
		}
	}
	return nil
}

// State of one elevator. Exactly one holds at any time.
type State int

const (
	Waiting State = iota // doors closed, deciding
	MovingUp
	MovingDown
	Opening
	Idle // doors open
	Closing
	Embarking
	Disembarking
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case MovingUp:
		return "MovingUp"
	case MovingDown:
		return "MovingDown"
	case Opening:
		return "Opening"
	case Idle:
		return "Idle"
	case Closing:
		return "Closing"
	case Embarking:
		return "Embarking"
	case Disembarking:
		return "Disembarking"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Tag is the one-letter form used by the console renderer.
func (s State) Tag() string {
	switch s {
	case Waiting:
		return "W"
	case MovingUp:
		return "U"
	case MovingDown:
		return "D"
	case Opening:
		return "O"
	case Idle:
		return "I"
	case Closing:
		return "C"
	case Embarking:
		return "e"
	case Disembarking:
		return "d"
	default:
		return "?"
	}
}
