package lift

import "fmt"

// Header is carried by every message. IDs increase per sender and only serve
// tracing; Timestamp is the sender's logical time at send.
type Header struct {
	ID        uint64
	Timestamp Tick
}

// Inbound is a dispatcher -> elevator message. When Respond is set the elevator
// follows its handling with a Response event.
type Inbound struct {
	Header
	Respond bool
	Cmd     Command
}

// Command is one of TickCmd, CallCmd, CancelCmd, EmbarkCmd, DisembarkCmd, StopCmd.
type Command interface {
	command()
	Kind() string
}

type TickCmd struct{ Delta Tick }

type CallCmd struct {
	Floor Floor
	Dir   Direction
}

type CancelCmd struct {
	Floor Floor
	Dir   Direction
}

type EmbarkCmd struct{ Passenger Passenger }

type DisembarkCmd struct{}

// StopCmd wakes an elevator blocked on its inbox so it can see the cleared
// working flag.
type StopCmd struct{}

func (TickCmd) command()      {}
func (CallCmd) command()      {}
func (CancelCmd) command()    {}
func (EmbarkCmd) command()    {}
func (DisembarkCmd) command() {}
func (StopCmd) command()      {}

func (TickCmd) Kind() string      { return "Tick" }
func (CallCmd) Kind() string      { return "Call" }
func (CancelCmd) Kind() string    { return "Cancel" }
func (EmbarkCmd) Kind() string    { return "Embark" }
func (DisembarkCmd) Kind() string { return "Disembark" }
func (StopCmd) Kind() string      { return "Stop" }

// Status is the elevator's mechanical status when it sent a message.
type Status struct {
	Floor     Floor     `json:"floor"`
	Direction Direction `json:"direction"`
	State     State     `json:"state"`
	Progress  Tick      `json:"progress"`
}

func (s Status) String() string {
	return fmt.Sprintf("%s%s@%s:%d", s.Direction.Tag(), s.State.Tag(), s.Floor, s.Progress)
}

// Outbound is an elevator -> dispatcher message.
type Outbound struct {
	Header
	Status Status
	Event  Event
}

// Event is one of Arrived, Departed, Idling, Reply, Response.
type Event interface {
	event()
	Kind() string
}

// Arrived: doors start opening at Floor because of a call tagged Dir (or neutral).
type Arrived struct {
	Floor Floor
	Dir   Direction
}

// Departed: a Moving phase starts from Floor.
type Departed struct{ Floor Floor }

// Idling: doors are fully open at Floor and one boarding action may be requested.
type Idling struct{ Floor Floor }

// Reply answers an EmbarkCmd or DisembarkCmd.
type Reply struct{ Result Result }

// Response terminates the handling of an inbound message sent with Respond.
type Response struct{}

func (Arrived) event()  {}
func (Departed) event() {}
func (Idling) event()   {}
func (Reply) event()    {}
func (Response) event() {}

func (Arrived) Kind() string  { return "Arrived" }
func (Departed) Kind() string { return "Departed" }
func (Idling) Kind() string   { return "Idling" }
func (Reply) Kind() string    { return "Reply" }
func (Response) Kind() string { return "Response" }

// Result of a boarding request. Every request yields exactly one.
type Result int

const (
	Success    Result = iota
	Denied            // doors not open
	Full              // manifest at capacity
	Empty             // nobody to let out at this floor
	InProgress        // a boarding or alighting action is still running
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case Denied:
		return "Denied"
	case Full:
		return "Full"
	case Empty:
		return "Empty"
	case InProgress:
		return "InProgress"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}
