package lift

import "sort"

// Manifest holds the passengers inside one elevator, keyed by destination.
type Manifest struct {
	capacity int
	byDest   map[Floor][]Passenger
	size     int
}

func NewManifest(capacity int) *Manifest {
	return &Manifest{capacity: capacity, byDest: make(map[Floor][]Passenger)}
}

func (m *Manifest) Len() int   { return m.size }
func (m *Manifest) Full() bool { return m.size >= m.capacity }

// Add returns false when the elevator is at capacity.
func (m *Manifest) Add(p Passenger) bool {
	if m.Full() {
		return false
	}
	m.byDest[p.Destination] = append(m.byDest[p.Destination], p)
	m.size++
	return true
}

// RemoveAt takes out the earliest boarded passenger destined for floor.
func (m *Manifest) RemoveAt(floor Floor) (Passenger, bool) {
	list := m.byDest[floor]
	if len(list) == 0 {
		return Passenger{}, false
	}
	p := list[0]
	if len(list) == 1 {
		delete(m.byDest, floor)
	} else {
		m.byDest[floor] = list[1:]
	}
	m.size--
	return p, true
}

// Passengers are ordered by destination, then boarding order.
func (m *Manifest) Passengers() []Passenger {
	dests := make([]Floor, 0, len(m.byDest))
	for f := range m.byDest {
		dests = append(dests, f)
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })

	out := make([]Passenger, 0, m.size)
	for _, f := range dests {
		out = append(out, m.byDest[f]...)
	}
	return out
}

// Destinations is the renderer's view: one entry per passenger.
func (m *Manifest) Destinations() []Floor {
	ps := m.Passengers()
	out := make([]Floor, len(ps))
	for i, p := range ps {
		out[i] = p.Destination
	}
	return out
}
