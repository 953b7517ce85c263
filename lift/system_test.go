package lift

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

// recorder keeps every snapshot and checks passenger conservation on each.
type recorder struct {
	t     *testing.T
	snaps []Snapshot
}

func (r *recorder) Render(s Snapshot) error {
	r.t.Helper()
	held := 0
	for _, q := range s.Queues {
		held += len(q)
	}
	for _, v := range s.Elevators {
		held += len(v.Passengers)
	}
	if s.Stats.Arrived != held+s.Stats.Delivered {
		r.t.Errorf("tick %d: arrived %d != held %d + delivered %d", s.Tick, s.Stats.Arrived, held, s.Stats.Delivered)
	}
	r.snaps = append(r.snaps, s)
	return nil
}

func (r *recorder) at(tick Tick) Snapshot {
	for _, s := range r.snaps {
		if s.Tick == tick {
			return s
		}
	}
	r.t.Fatalf("no snapshot for tick %d", tick)
	return Snapshot{}
}

func newTestSystem(t *testing.T, floors, elevators int, s Settings) (*System, *recorder) {
	t.Helper()
	rec := &recorder{t: t}
	sys, err := NewSystem(floors, elevators, s, zerolog.Nop(), WithRenderer(rec))
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	sys.Start()
	t.Cleanup(sys.Stop)
	return sys, rec
}

type sliceSource []Passenger

func (s *sliceSource) Next() (Passenger, error) {
	if len(*s) == 0 {
		return Passenger{}, io.EOF
	}
	p := (*s)[0]
	*s = (*s)[1:]
	return p, nil
}

func TestNewSystemRejects(t *testing.T) {
	if _, err := NewSystem(0, 1, quick, zerolog.Nop()); !errors.Is(err, ErrBadBuilding) {
		t.Errorf("zero floors: error = %v", err)
	}
	bad := quick
	bad.TicksDoorClose = 0
	if _, err := NewSystem(4, 1, bad, zerolog.Nop()); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("zero close time: error = %v", err)
	}
}

func TestSingleRide(t *testing.T) {
	sys, rec := newTestSystem(t, 5, 1, quick)
	if err := sys.AddPassenger(Passenger{Arrival: 0, Origin: 0, Destination: 3}); err != nil {
		t.Fatalf("AddPassenger() error = %v", err)
	}
	if err := sys.Drain(context.Background(), 100); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}

	// Doors start opening at tick 1, are open at tick 2 and the passenger
	// steps in straight away.
	first := rec.at(1).Elevators[0]
	if first.Status.State != Opening || first.Status.Direction != Up || len(first.Passengers) != 0 {
		t.Errorf("tick 1: %+v, want doors opening going up", first)
	}
	if len(rec.at(1).Queues[0]) != 1 {
		t.Errorf("tick 1: passenger no longer queued")
	}
	second := rec.at(2).Elevators[0]
	if second.Status.State != Embarking || !reflect.DeepEqual(second.Passengers, []Floor{3}) {
		t.Errorf("tick 2: %+v, want passenger boarding", second)
	}
	if len(rec.at(2).Queues[0]) != 0 {
		t.Errorf("tick 2: passenger still queued")
	}
	// Idle for 2, close for 1, then 3 floors at 2 ticks each.
	if s := rec.at(6).Elevators[0].Status; s.State != MovingUp || s.Floor != 0 {
		t.Errorf("tick 6: %s, want leaving floor 0", s)
	}
	if s := rec.at(12).Elevators[0].Status; s.State != Opening || s.Floor != 3 {
		t.Errorf("tick 12: %s, want opening at 3", s)
	}
	last := rec.at(13).Elevators[0]
	if last.Status.State != Disembarking || len(last.Passengers) != 0 {
		t.Errorf("tick 13: %+v, want passenger alighting", last)
	}
	if sys.Now() != 13 {
		t.Errorf("Drain() stopped at tick %d, want 13", sys.Now())
	}
	if st := sys.Stats(); st != (Stats{Arrived: 1, Boarded: 1, Delivered: 1}) {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestSameFloorPassenger(t *testing.T) {
	sys, _ := newTestSystem(t, 4, 1, quick)
	if err := sys.AddPassenger(Passenger{Origin: 2, Destination: 2}); err != nil {
		t.Fatalf("AddPassenger() error = %v", err)
	}
	if st := sys.Stats(); st != (Stats{Arrived: 1, Delivered: 1}) {
		t.Errorf("Stats() = %+v, want delivered on arrival", st)
	}
	if q := sys.Snapshot().Queues[2]; len(q) != 0 {
		t.Errorf("queue at 2 = %v, want empty", q)
	}
	if !sys.Vacant() {
		t.Errorf("building not vacant")
	}
}

func TestSameFloorPassengerWhileElevatorPasses(t *testing.T) {
	sys, _ := newTestSystem(t, 5, 1, quick)
	for _, p := range []Passenger{
		{Arrival: 0, Origin: 0, Destination: 3},
		{Arrival: 3, Origin: 3, Destination: 3},
	} {
		if err := sys.AddPassenger(p); err != nil {
			t.Fatalf("AddPassenger(%v) error = %v", p, err)
		}
	}
	if err := sys.Drain(context.Background(), 1000); err != nil {
		t.Fatalf("Drain() error = %v; stats %+v queues %v", err, sys.Stats(), sys.Snapshot().Queues)
	}
	if st := sys.Stats(); st != (Stats{Arrived: 2, Boarded: 1, Delivered: 2}) {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestNotStarted(t *testing.T) {
	sys, err := NewSystem(4, 1, quick, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	if err := sys.Step(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Step() before Start = %v, want ErrNotRunning", err)
	}
	if err := sys.AddPassenger(Passenger{Arrival: 2, Origin: 0, Destination: 1}); !errors.Is(err, ErrNotRunning) {
		t.Errorf("AddPassenger() before Start = %v, want ErrNotRunning", err)
	}
	if sys.Now() != 0 {
		t.Errorf("clock moved to %d without elevators", sys.Now())
	}
	sys.Start()
	defer sys.Stop()
	if err := sys.Step(); err != nil {
		t.Errorf("Step() after Start = %v", err)
	}
}

func TestAddPassengerCatchesUp(t *testing.T) {
	sys, rec := newTestSystem(t, 4, 2, quick)
	if err := sys.AddPassenger(Passenger{Arrival: 5, Origin: 1, Destination: 0}); err != nil {
		t.Fatalf("AddPassenger() error = %v", err)
	}
	if sys.Now() != 5 || len(rec.snaps) != 5 {
		t.Errorf("now=%d after %d renders, want 5 ticks before the arrival", sys.Now(), len(rec.snaps))
	}
	if got := sys.Snapshot().Queues[1]; !reflect.DeepEqual(got, []Floor{0}) {
		t.Errorf("queue at 1 = %v, want [0]", got)
	}

	err := sys.AddPassenger(Passenger{Arrival: 6, Origin: 4, Destination: 0})
	if !errors.Is(err, ErrFloorOutOfRange) {
		t.Errorf("AddPassenger(origin 4 of 4 floors) error = %v, want ErrFloorOutOfRange", err)
	}
	if sys.Now() != 5 {
		t.Errorf("a rejected arrival advanced the clock to %d", sys.Now())
	}
}

func TestDrainBudget(t *testing.T) {
	sys, _ := newTestSystem(t, 10, 1, quick)
	if err := sys.AddPassenger(Passenger{Origin: 9, Destination: 0}); err != nil {
		t.Fatalf("AddPassenger() error = %v", err)
	}
	if err := sys.Drain(context.Background(), 3); !errors.Is(err, ErrDrainBudget) {
		t.Errorf("Drain() error = %v, want ErrDrainBudget", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sys.Drain(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Drain() with cancelled context = %v", err)
	}
}

func TestFullElevatorLeavesPassengersQueued(t *testing.T) {
	s := quick
	s.Capacity = 1
	sys, rec := newTestSystem(t, 6, 1, s)
	for _, dest := range []Floor{4, 5} {
		if err := sys.AddPassenger(Passenger{Origin: 0, Destination: dest}); err != nil {
			t.Fatalf("AddPassenger() error = %v", err)
		}
	}
	if err := sys.Drain(context.Background(), 500); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	// First passenger boards at tick 2; the second is refused at tick 3.
	if got := rec.at(3).Queues[0]; !reflect.DeepEqual(got, []Floor{5}) {
		t.Errorf("tick 3 queue at 0 = %v, want the second passenger still waiting", got)
	}
}

func TestManyPassengersAllDelivered(t *testing.T) {
	const floors, count = 8, 40
	rnd := rand.New(rand.NewSource(42))
	var src sliceSource
	var now Tick
	for i := 0; i < count; i++ {
		now += Tick(rnd.Intn(4))
		o := Floor(rnd.Intn(floors))
		d := Floor(rnd.Intn(floors - 1))
		if d >= o {
			d++
		}
		src = append(src, Passenger{Arrival: now, Origin: o, Destination: d})
	}

	settings := Settings{
		Capacity: 3, TicksPerFloor: 3, TicksDoorOpen: 2, TicksIdleOpen: 4,
		TicksDoorClose: 2, TicksPerBoarding: 1, TicksPerAlighting: 1,
	}
	sys, _ := newTestSystem(t, floors, 3, settings)
	if err := sys.Feed(context.Background(), &src); err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if err := sys.Drain(context.Background(), 20000); err != nil {
		t.Fatalf("Drain() error = %v; stats %+v", err, sys.Stats())
	}
	if st := sys.Stats(); st.Delivered != count || st.Boarded != count {
		t.Errorf("Stats() = %+v, want all %d delivered", st, count)
	}
}
