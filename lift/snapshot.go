package lift

import (
	"fmt"
	"strings"
)

// CallsView lists one elevator's pending calls per direction, ascending.
type CallsView struct {
	Up   []Floor `json:"up"`
	Down []Floor `json:"down"`
	None []Floor `json:"none"`
}

// ElevatorView is a copy of one elevator taken under its read lock.
type ElevatorView struct {
	ID         int       `json:"id"`
	Status     Status    `json:"status"`
	Passengers []Floor   `json:"passengers"` // destinations, ascending
	Calls      CallsView `json:"calls"`
}

// Tag is the console cell for this elevator, e.g. "[3 5]UD:1".
func (v ElevatorView) Tag() string {
	dests := make([]string, len(v.Passengers))
	for i, f := range v.Passengers {
		dests[i] = f.String()
	}
	return fmt.Sprintf("[%s]%s%s:%d",
		strings.Join(dests, " "), v.Status.Direction.Tag(), v.Status.State.Tag(), v.Status.Progress)
}

// Snapshot is the whole building after one tick. Renderers must treat it as
// read-only.
type Snapshot struct {
	Tick      Tick           `json:"tick"`
	Floors    int            `json:"floors"`
	Elevators []ElevatorView `json:"elevators"`
	Queues    [][]Floor      `json:"queues"` // per floor, waiting passengers' destinations in arrival order
	Stats     Stats          `json:"stats"`
}

// Renderer consumes one snapshot per tick.
type Renderer interface {
	Render(Snapshot) error
}

// ArrivalSource yields passengers in non-decreasing arrival order and io.EOF
// when exhausted.
type ArrivalSource interface {
	Next() (Passenger, error)
}
