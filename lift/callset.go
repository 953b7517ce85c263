package lift

// CallSet is one elevator's own view of pending calls, one FloorSet per
// Direction. Calls are broadcast to every elevator, so two elevators may hold
// the same call.
type CallSet struct {
	byDir map[Direction]*FloorSet
}

func NewCallSet(numFloors int) *CallSet {
	c := &CallSet{byDir: make(map[Direction]*FloorSet, len(directions))}
	for _, d := range directions {
		c.byDir[d] = newFloorSet(numFloors)
	}
	return c
}

func (c *CallSet) calls(dir Direction) *FloorSet {
	fs, ok := c.byDir[dir]
	if !ok {
		return c.byDir[None]
	}
	return fs
}

// Insert returns false if the floor lies outside the building.
func (c *CallSet) Insert(floor Floor, dir Direction) bool {
	fs := c.calls(dir)
	if !fs.valid(floor) {
		return false
	}
	fs.set(floor)
	return true
}

// Erase is a no-op for a call that is not present.
func (c *CallSet) Erase(floor Floor, dir Direction) {
	c.calls(dir).clear(floor)
}

func (c *CallSet) Has(floor Floor, dir Direction) bool {
	return c.calls(dir).has(floor)
}

func (c *CallSet) Empty() bool {
	for _, fs := range c.byDir {
		if !fs.empty() {
			return false
		}
	}
	return true
}

// Ahead finds the nearest call strictly beyond floor in dir, looking at the
// calls tagged dir and the neutral calls: the minimum qualifying floor when
// going up, the maximum when going down.
func (c *CallSet) Ahead(floor Floor, dir Direction) (Floor, bool) {
	if dir == None {
		return floor, false
	}
	tagged, okTagged := c.calls(dir).next(floor, dir)
	neutral, okNeutral := c.calls(None).next(floor, dir)
	switch {
	case okTagged && okNeutral:
		if floor.distance(neutral) < floor.distance(tagged) {
			return neutral, true
		}
		return tagged, true
	case okTagged:
		return tagged, true
	case okNeutral:
		return neutral, true
	}
	return floor, false
}

// Closest picks the pending call nearest to floor across all call sets.
// Ties go to the lower floor, then to the first set in None, Up, Down order.
func (c *CallSet) Closest(floor Floor) (Floor, Direction, bool) {
	var (
		best    Floor
		bestDir Direction
		found   bool
	)
	for _, d := range directions {
		f, ok := c.calls(d).nearest(floor)
		if !ok {
			continue
		}
		if !found || closer(floor, f, best) {
			best, bestDir, found = f, d, true
		}
	}
	return best, bestDir, found
}

func closer(from, a, b Floor) bool {
	da, db := from.distance(a), from.distance(b)
	if da != db {
		return da < db
	}
	return a < b
}

// Floors lists the calls tagged dir in ascending order.
func (c *CallSet) Floors(dir Direction) []Floor {
	return c.calls(dir).floors()
}
