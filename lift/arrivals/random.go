package arrivals

import (
	"io"
	"math/rand"

	"github.com/delliston/liftsim/lift"
)

// Random generates count passengers with uniformly chosen origin and
// destination. Each tick brings a new passenger with probability rate, so gaps
// are geometric with mean 1/rate ticks and a rate of 1 means one per tick.
type Random struct {
	rnd       *rand.Rand
	numFloors int
	rate      float64
	left      int
	now       lift.Tick
	started   bool
}

// A rate outside (0, 1] is treated as 1: one passenger every tick.
func NewRandom(seed int64, numFloors, count int, rate float64) *Random {
	if rate <= 0 || rate > 1 {
		rate = 1
	}
	return &Random{
		rnd:       rand.New(rand.NewSource(seed)),
		numFloors: numFloors,
		rate:      rate,
		left:      count,
	}
}

func (r *Random) Next() (lift.Passenger, error) {
	if r.left <= 0 {
		return lift.Passenger{}, io.EOF
	}
	r.left--
	if r.started {
		r.now++
	}
	r.started = true
	for r.rnd.Float64() >= r.rate {
		r.now++
	}
	origin := r.rnd.Intn(r.numFloors)
	dest := r.rnd.Intn(r.numFloors)
	if r.numFloors > 1 {
		for dest == origin {
			dest = r.rnd.Intn(r.numFloors)
		}
	}
	return lift.Passenger{Arrival: r.now, Origin: lift.Floor(origin), Destination: lift.Floor(dest)}, nil
}
