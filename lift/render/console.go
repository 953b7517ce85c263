// Package render draws or ships the per-tick building snapshot.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/delliston/liftsim/lift"
)

// Console draws the building as a grid, top floor first. Each elevator has a
// column showing its cell on the floor it is at; the floor's queue of
// waiting destinations follows the last column.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Render(s lift.Snapshot) error {
	cells := make([]string, len(s.Elevators))
	width := 8
	for i, v := range s.Elevators {
		cells[i] = v.Tag()
		if len(cells[i]) > width {
			width = len(cells[i])
		}
	}

	b := bufio.NewWriter(c.w)
	fmt.Fprintf(b, "tick %d  arrived %d  boarded %d  delivered %d\n",
		s.Tick, s.Stats.Arrived, s.Stats.Boarded, s.Stats.Delivered)
	for f := s.Floors - 1; f >= 0; f-- {
		fmt.Fprintf(b, "%3d |", f)
		for i, v := range s.Elevators {
			cell := ""
			if int(v.Status.Floor) == f {
				cell = cells[i]
			}
			fmt.Fprintf(b, " %-*s |", width, cell)
		}
		if f < len(s.Queues) && len(s.Queues[f]) > 0 {
			fmt.Fprintf(b, " %s", joinFloors(s.Queues[f]))
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

func joinFloors(fs []lift.Floor) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}
