package lift

// Maintains the on/off state of the floors of a building.
// Floors outside [0, count) are never set.
type FloorSet struct {
	arr []bool
	n   int // number of set floors
}

func newFloorSet(count int) *FloorSet {
	return &FloorSet{arr: make([]bool, count)}
}

func (fs *FloorSet) valid(floor Floor) bool {
	return floor >= 0 && int(floor) < len(fs.arr)
}

// set returns the previous value.
func (fs *FloorSet) set(floor Floor) bool {
	if !fs.valid(floor) {
		return false
	}
	prev := fs.arr[floor]
	if !prev {
		fs.arr[floor] = true
		fs.n++
	}
	return prev
}

// clear returns the previous value.
func (fs *FloorSet) clear(floor Floor) bool {
	if !fs.valid(floor) {
		return false
	}
	prev := fs.arr[floor]
	if prev {
		fs.arr[floor] = false
		fs.n--
	}
	return prev
}

func (fs *FloorSet) has(floor Floor) bool {
	return fs.valid(floor) && fs.arr[floor]
}

func (fs *FloorSet) empty() bool { return fs.n == 0 }

// next returns the nearest set floor strictly beyond floor in dir.
func (fs *FloorSet) next(floor Floor, dir Direction) (Floor, bool) {
	if dir != Up && dir != Down {
		return floor, false
	}
	for f := floor.next(dir); f >= 0 && int(f) < len(fs.arr); f = f.next(dir) {
		if fs.arr[f] {
			return f, true
		}
	}
	return floor, false
}

// nearest returns the closest set floor to floor, preferring the lower one on a tie.
func (fs *FloorSet) nearest(floor Floor) (Floor, bool) {
	if fs.has(floor) {
		return floor, true
	}
	below, okBelow := fs.next(floor, Down)
	above, okAbove := fs.next(floor, Up)
	switch {
	case okBelow && okAbove:
		if floor.distance(above) < floor.distance(below) {
			return above, true
		}
		return below, true
	case okBelow:
		return below, true
	case okAbove:
		return above, true
	}
	return floor, false
}

// floors lists the set floors in ascending order.
func (fs *FloorSet) floors() []Floor {
	out := make([]Floor, 0, fs.n)
	for i, on := range fs.arr {
		if on {
			out = append(out, Floor(i))
		}
	}
	return out
}
