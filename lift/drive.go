package lift

// The drive is the timed half of the elevator: every phase except Waiting lasts
// a fixed number of ticks from Settings. Progress accumulates per tick and a
// phase ends as soon as progress reaches its duration; any surplus carries into
// the next phase. Only a return to Waiting is acted on within the same tick: a
// phase started by the decision, or entered from another timed phase, runs from
// the next tick on.

// duration of the timed phase st. Waiting has none.
func (s Settings) duration(st State) (Tick, bool) {
	switch st {
	case MovingUp, MovingDown:
		return s.TicksPerFloor, true
	case Opening:
		return s.TicksDoorOpen, true
	case Idle:
		return s.TicksIdleOpen, true
	case Closing:
		return s.TicksDoorClose, true
	case Embarking:
		return s.TicksPerBoarding, true
	case Disembarking:
		return s.TicksPerAlighting, true
	default:
		return 0, false
	}
}

// onTick advances time and runs transitions while they lead back to Waiting.
func (e *Elevator) onTick(delta Tick) {
	e.timestamp += delta
	e.progress += delta
	for e.switchState() {
	}
	if e.state == Waiting {
		e.progress = 0
	}
}

// switchState attempts one transition and reports whether the elevator is
// Waiting again and must decide once more within this tick.
func (e *Elevator) switchState() bool {
	if e.state == Waiting {
		return e.decide() && e.state == Waiting
	}
	d, _ := e.settings.duration(e.state)
	if e.progress < d {
		return false
	}
	e.progress -= d

	prev := e.state
	switch e.state {
	case MovingUp:
		e.floor = e.floor.next(Up)
		e.state = Waiting
	case MovingDown:
		e.floor = e.floor.next(Down)
		e.state = Waiting
	case Opening, Embarking, Disembarking:
		e.state = Idle
		e.emit(Idling{Floor: e.floor})
	case Idle:
		// Nobody acted in time: close again.
		e.state = Closing
	case Closing:
		e.state = Waiting
	}
	e.log.Debug().
		Uint64("tick", uint64(e.timestamp)).
		Stringer("from", prev).
		Stringer("to", e.state).
		Int("floor", int(e.floor)).
		Msg("phase complete")
	return e.state == Waiting
}

// depart starts a Moving phase towards dest.
func (e *Elevator) depart(dest Floor) {
	if dest > e.floor {
		e.state = MovingUp
	} else {
		e.state = MovingDown
	}
	e.emit(Departed{Floor: e.floor})
}

// open starts opening the doors at the current floor.
func (e *Elevator) open() {
	e.selected = false
	e.state = Opening
	e.emit(Arrived{Floor: e.floor, Dir: e.dir})
}
