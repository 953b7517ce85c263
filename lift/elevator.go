package lift

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

/*
	Dispatch decision, run whenever the elevator is Waiting (doors closed):

	If a destination is selected
		at it: drop the selection and decide again (doors open below).
		above/below: start moving towards it, report Departed.
	Else if going UP (DOWN)
		Open here for an UP (DOWN) or neutral call on this floor.
		Otherwise head for the nearest UP (DOWN) or neutral call beyond this floor.
		Nothing ahead: forget the direction and decide as undirected.
	Else (undirected)
		Open here for a neutral call on this floor.
		Otherwise select the closest call of any kind and adopt its direction.
		That commitment ignores calls inserted while we travel to it.
*/

// Elevator is one actor. It owns its state machine, its calls and its
// manifest; the only ways in are its inbox and the read-only View.
type Elevator struct {
	id       int
	settings Settings
	log      zerolog.Logger

	inbox   *Mailbox[Inbound]
	outbox  *Mailbox[Outbound]
	working atomic.Bool
	done    chan struct{}

	mu        sync.RWMutex // guards everything below against View
	nextID    uint64
	timestamp Tick
	state     State
	progress  Tick
	floor     Floor     // current floor, or the floor we are leaving while moving
	dir       Direction // committed travel direction, None when undirected
	dest      Floor     // meaningful only when selected
	selected  bool      // a destination is chosen
	ignoring  bool      // the selection must not be displaced by new calls
	calls     *CallSet
	manifest  *Manifest
}

func NewElevator(id int, numFloors int, settings Settings, log zerolog.Logger) *Elevator {
	return &Elevator{
		id:       id,
		settings: settings,
		log:      log.With().Int("elevator", id).Logger(),
		inbox:    NewMailbox[Inbound](),
		outbox:   NewMailbox[Outbound](),
		done:     make(chan struct{}),
		state:    Waiting,
		dir:      None,
		calls:    NewCallSet(numFloors),
		manifest: NewManifest(settings.Capacity),
	}
}

func (e *Elevator) Id() int { return e.id }

func (e *Elevator) Inbox() *Mailbox[Inbound] { return e.inbox }

func (e *Elevator) Outbox() *Mailbox[Outbound] { return e.outbox }

// Done is closed once the actor goroutine has returned.
func (e *Elevator) Done() <-chan struct{} { return e.done }

// Start runs the actor on its own goroutine until Stop.
func (e *Elevator) Start() {
	e.working.Store(true)
	go e.mainLoop()
}

// Stop clears the working flag and wakes the actor if it is blocked on its inbox.
func (e *Elevator) Stop() {
	e.working.Store(false)
	e.inbox.Send(Inbound{Cmd: StopCmd{}})
}

func (e *Elevator) mainLoop() {
	defer close(e.done)
	e.log.Debug().Msg("started")
	for e.working.Load() {
		e.handle(e.inbox.Receive())
	}
	e.log.Debug().Msg("stopped")
}

// handle processes one inbound message to completion.
func (e *Elevator) handle(msg Inbound) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch cmd := msg.Cmd.(type) {
	case TickCmd:
		e.onTick(cmd.Delta)
	case CallCmd:
		e.insertCall(cmd.Floor, cmd.Dir)
	case CancelCmd:
		e.eraseCall(cmd.Floor, cmd.Dir)
	case EmbarkCmd:
		e.emit(Reply{Result: e.onEmbark(cmd.Passenger)})
	case DisembarkCmd:
		e.emit(Reply{Result: e.onDisembark()})
	case StopCmd:
	default:
		e.log.Error().Msgf("unhandled command %T", msg.Cmd)
	}

	if msg.Respond {
		e.emit(Response{})
	}
}

// emit requires e.mu.
func (e *Elevator) emit(ev Event) {
	out := Outbound{
		Header: Header{ID: e.nextID, Timestamp: e.timestamp},
		Status: e.status(),
		Event:  ev,
	}
	e.nextID++
	e.outbox.Send(out)
	if _, ok := ev.(Response); !ok {
		e.log.Debug().
			Uint64("tick", uint64(e.timestamp)).
			Str("event", ev.Kind()).
			Stringer("status", out.Status).
			Interface("payload", ev).
			Msg("emit")
	}
}

func (e *Elevator) status() Status {
	return Status{Floor: e.floor, Direction: e.dir, State: e.state, Progress: e.progress}
}

// decide runs the dispatch decision and reports whether anything changed.
func (e *Elevator) decide() bool {
	if e.selected {
		return e.pursue()
	}
	return e.choose()
}

func (e *Elevator) pursue() bool {
	if e.dest == e.floor {
		e.selected = false
		e.ignoring = false
		return true
	}
	e.depart(e.dest)
	return true
}

func (e *Elevator) choose() bool {
	if e.dir != None {
		if e.calls.Has(e.floor, e.dir) || e.calls.Has(e.floor, None) {
			e.open()
			return true
		}
		if f, ok := e.calls.Ahead(e.floor, e.dir); ok {
			e.selected = true
			e.dest = f
			return true
		}
		e.dir = None
	}

	if e.calls.Has(e.floor, None) {
		e.open()
		return true
	}
	f, dir, ok := e.calls.Closest(e.floor)
	if !ok {
		return false
	}
	e.selected = true
	e.dest = f
	e.dir = dir
	e.ignoring = true
	e.log.Debug().
		Uint64("tick", uint64(e.timestamp)).
		Int("floor", int(e.floor)).
		Int("dest", int(f)).
		Stringer("dir", dir).
		Msg("closest call selected")
	return true
}

func (e *Elevator) insertCall(floor Floor, dir Direction) {
	if !e.calls.Insert(floor, dir) {
		e.log.Warn().Int("floor", int(floor)).Stringer("dir", dir).Msg("call outside building ignored")
		return
	}
	if !e.ignoring {
		e.selected = false
	}
}

func (e *Elevator) eraseCall(floor Floor, dir Direction) {
	e.calls.Erase(floor, dir)
	if e.selected && floor == e.dest {
		e.selected = false
		e.ignoring = false
	}
}

func (e *Elevator) onEmbark(p Passenger) Result {
	switch e.state {
	case Idle:
		if !e.manifest.Add(p) {
			return Full
		}
		e.progress = 0
		e.state = Embarking
		return Success
	case Embarking, Disembarking:
		return InProgress
	default:
		return Denied
	}
}

func (e *Elevator) onDisembark() Result {
	switch e.state {
	case Idle:
		if _, ok := e.manifest.RemoveAt(e.floor); !ok {
			return Empty
		}
		e.progress = 0
		e.state = Disembarking
		return Success
	case Embarking, Disembarking:
		return InProgress
	default:
		return Denied
	}
}

// View is a consistent read-only copy of the elevator for renderers.
func (e *Elevator) View() ElevatorView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ElevatorView{
		ID:         e.id,
		Status:     e.status(),
		Passengers: e.manifest.Destinations(),
		Calls: CallsView{
			Up:   e.calls.Floors(Up),
			Down: e.calls.Floors(Down),
			None: e.calls.Floors(None),
		},
	}
}
