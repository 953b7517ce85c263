package lift

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

var (
	ErrFloorOutOfRange = errors.New("floor out of range")
	ErrDrainBudget     = errors.New("building not empty within tick budget")
	ErrBadBuilding     = errors.New("building needs at least one floor and one elevator")
	ErrNotRunning      = errors.New("elevators not started")
)

// Conveyor is what the System needs from an elevator.
type Conveyor interface {
	Id() int
	Inbox() *Mailbox[Inbound]
	Outbox() *Mailbox[Outbound]
	View() ElevatorView
	Start()
	Stop()
	Done() <-chan struct{}
}

// waiter is one entry of a floor queue.
type waiter struct {
	dir       Direction
	passenger Passenger
}

// Stats count passengers through the building. At any tick
// Arrived == queued + riding + Delivered.
type Stats struct {
	Arrived   int `json:"arrived"`
	Boarded   int `json:"boarded"`
	Delivered int `json:"delivered"`
}

// The System is the dispatcher. It owns the clock and the floor queues and
// drives every elevator through one tick at a time. It is not safe for
// concurrent use; the elevators run on their own goroutines.
type System struct {
	numFloors int
	log       zerolog.Logger
	elevators []Conveyor
	queues    [][]waiter
	renderer  Renderer
	now       Tick
	nextID    uint64
	stats     Stats
	running   bool
}

type Option func(*System)

// WithRenderer installs r to be called with a Snapshot after every tick.
func WithRenderer(r Renderer) Option {
	return func(s *System) { s.renderer = r }
}

func NewSystem(numFloors, numElevators int, settings Settings, log zerolog.Logger, opts ...Option) (*System, error) {
	if numFloors < 1 || numElevators < 1 {
		return nil, fmt.Errorf("%w: floors=%d elevators=%d", ErrBadBuilding, numFloors, numElevators)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	elevators := make([]Conveyor, numElevators)
	for i := range elevators {
		elevators[i] = NewElevator(i, numFloors, settings, log)
	}
	s := &System{
		numFloors: numFloors,
		log:       log.With().Str("component", "dispatcher").Logger(),
		elevators: elevators,
		queues:    make([][]waiter, numFloors),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches every elevator goroutine.
func (s *System) Start() {
	if s.running {
		return
	}
	for _, e := range s.elevators {
		e.Start()
	}
	s.running = true
}

// Stop halts every elevator and waits for its goroutine to exit.
func (s *System) Stop() {
	if !s.running {
		return
	}
	for _, e := range s.elevators {
		e.Stop()
	}
	for _, e := range s.elevators {
		<-e.Done()
	}
	s.running = false
}

func (s *System) Now() Tick    { return s.now }
func (s *System) Stats() Stats { return s.stats }

// Vacant reports whether no passenger is waiting or riding.
func (s *System) Vacant() bool {
	return s.stats.Arrived == s.stats.Delivered
}

// Step advances the clock by one tick and settles every elevator's reaction
// to it before returning.
func (s *System) Step() error {
	if !s.running {
		return ErrNotRunning
	}
	s.now++
	s.broadcast(TickCmd{Delta: 1}, true)
	for _, e := range s.elevators {
		s.drain(e)
	}
	if s.renderer == nil {
		return nil
	}
	if err := s.renderer.Render(s.Snapshot()); err != nil {
		return fmt.Errorf("render tick %d: %w", s.now, err)
	}
	return nil
}

// AddPassenger runs the clock up to p.Arrival, queues p at its origin and
// calls every elevator there. A passenger already at their destination is
// delivered on arrival and never queued.
func (s *System) AddPassenger(p Passenger) error {
	if !s.running {
		return ErrNotRunning
	}
	if !s.valid(p.Origin) || !s.valid(p.Destination) {
		return fmt.Errorf("%w: %s in %d floors", ErrFloorOutOfRange, p, s.numFloors)
	}
	for s.now < p.Arrival {
		if err := s.Step(); err != nil {
			return err
		}
	}
	dir := p.Direction()
	if dir == None {
		s.stats.Arrived++
		s.stats.Delivered++
		s.log.Info().
			Uint64("tick", uint64(s.now)).
			Stringer("passenger", p).
			Msg("arrival already at destination")
		return nil
	}
	s.queues[p.Origin] = append(s.queues[p.Origin], waiter{dir: dir, passenger: p})
	s.stats.Arrived++
	s.log.Info().
		Uint64("tick", uint64(s.now)).
		Stringer("passenger", p).
		Stringer("dir", dir).
		Msg("arrival")
	s.broadcast(CallCmd{Floor: p.Origin, Dir: dir}, false)
	return nil
}

// Feed adds passengers from src until it reports io.EOF.
func (s *System) Feed(ctx context.Context, src ArrivalSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("next arrival: %w", err)
		}
		if err := s.AddPassenger(p); err != nil {
			return err
		}
	}
}

// Drain ticks until everyone has been delivered. maxTicks == 0 means no limit.
func (s *System) Drain(ctx context.Context, maxTicks Tick) error {
	for n := Tick(0); !s.Vacant(); n++ {
		if maxTicks > 0 && n >= maxTicks {
			return fmt.Errorf("%w: %d passengers left after %d ticks",
				ErrDrainBudget, s.stats.Arrived-s.stats.Delivered, maxTicks)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot copies the building for renderers.
func (s *System) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      s.now,
		Floors:    s.numFloors,
		Elevators: make([]ElevatorView, len(s.elevators)),
		Queues:    make([][]Floor, s.numFloors),
		Stats:     s.stats,
	}
	for i, e := range s.elevators {
		snap.Elevators[i] = e.View()
	}
	for f, q := range s.queues {
		dests := make([]Floor, len(q))
		for i, w := range q {
			dests[i] = w.passenger.Destination
		}
		snap.Queues[f] = dests
	}
	return snap
}

func (s *System) valid(f Floor) bool {
	return f >= 0 && int(f) < s.numFloors
}

func (s *System) inbound(cmd Command, respond bool) Inbound {
	msg := Inbound{Header: Header{ID: s.nextID, Timestamp: s.now}, Respond: respond, Cmd: cmd}
	s.nextID++
	return msg
}

func (s *System) send(e Conveyor, cmd Command, respond bool) {
	e.Inbox().Send(s.inbound(cmd, respond))
}

func (s *System) broadcast(cmd Command, respond bool) {
	for _, e := range s.elevators {
		s.send(e, cmd, respond)
	}
}

// drain handles e's events up to the Response that closes its tick. An Idling
// event marks a boarding checkpoint, served once the tick is settled.
func (s *System) drain(e Conveyor) {
	idling := false
	for {
		out := e.Outbox().Receive()
		switch ev := out.Event.(type) {
		case Arrived:
			s.onArrived(e, ev)
		case Departed:
			s.onDeparted(ev)
		case Idling:
			idling = true
		case Response:
			if idling {
				s.board(e, out.Status)
			}
			return
		default:
			s.log.Warn().Int("elevator", e.Id()).Str("event", ev.Kind()).Msg("unexpected event during tick")
		}
	}
}

// onArrived: the directional call is served for the whole building, the
// neutral one only for the elevator that stopped.
func (s *System) onArrived(e Conveyor, ev Arrived) {
	if ev.Dir != None {
		s.broadcast(CancelCmd{Floor: ev.Floor, Dir: ev.Dir}, false)
	}
	s.send(e, CancelCmd{Floor: ev.Floor, Dir: None}, false)
}

// onDeparted renews the calls of passengers left behind at the floor.
func (s *System) onDeparted(ev Departed) {
	var wanted [len(directions)]bool
	for _, w := range s.queues[ev.Floor] {
		for i, d := range directions {
			if w.dir == d {
				wanted[i] = true
			}
		}
	}
	for i, d := range directions {
		if wanted[i] {
			s.broadcast(CallCmd{Floor: ev.Floor, Dir: d}, false)
		}
	}
}

// board performs one boarding action at an open door: let someone out if
// anyone is due here, otherwise let in the first passenger going our way.
func (s *System) board(e Conveyor, st Status) {
	switch res := s.request(e, DisembarkCmd{}); res {
	case Success:
		s.stats.Delivered++
		return
	case Empty:
	default:
		return
	}

	q := s.queues[st.Floor]
	for i, w := range q {
		if w.dir != st.Direction {
			continue
		}
		if s.request(e, EmbarkCmd{Passenger: w.passenger}) == Success {
			s.send(e, CallCmd{Floor: w.passenger.Destination, Dir: None}, false)
			s.queues[st.Floor] = append(q[:i:i], q[i+1:]...)
			s.stats.Boarded++
		}
		return
	}
}

// request sends one boarding command and blocks until e has answered it.
func (s *System) request(e Conveyor, cmd Command) Result {
	s.send(e, cmd, true)
	res := Denied
	for {
		out := e.Outbox().Receive()
		switch ev := out.Event.(type) {
		case Reply:
			res = ev.Result
		case Response:
			s.log.Debug().
				Uint64("tick", uint64(s.now)).
				Int("elevator", e.Id()).
				Str("request", cmd.Kind()).
				Stringer("result", res).
				Msg("boarding")
			return res
		default:
			s.log.Warn().Int("elevator", e.Id()).Str("event", ev.Kind()).Msg("unexpected event during request")
		}
	}
}
