// Package arrivals provides passenger sources for the dispatcher.
package arrivals

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/delliston/liftsim/lift"
)

// Reader parses one "tick origin destination" triple per line. Blank lines
// and lines starting with '#' are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	last    lift.Tick
}

func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns io.EOF at end of input. Arrival ticks must not decrease.
func (r *Reader) Next() (lift.Passenger, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := parse(text)
		if err != nil {
			return lift.Passenger{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		if p.Arrival < r.last {
			return lift.Passenger{}, fmt.Errorf("line %d: arrival tick %d before %d", r.line, p.Arrival, r.last)
		}
		r.last = p.Arrival
		return p, nil
	}
	if err := r.scanner.Err(); err != nil {
		return lift.Passenger{}, err
	}
	return lift.Passenger{}, io.EOF
}

func parse(text string) (lift.Passenger, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return lift.Passenger{}, fmt.Errorf("want 3 fields, found %d in %q", len(fields), text)
	}
	tick, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return lift.Passenger{}, fmt.Errorf("bad tick %q", fields[0])
	}
	origin, err := strconv.Atoi(fields[1])
	if err != nil {
		return lift.Passenger{}, fmt.Errorf("bad origin %q", fields[1])
	}
	dest, err := strconv.Atoi(fields[2])
	if err != nil {
		return lift.Passenger{}, fmt.Errorf("bad destination %q", fields[2])
	}
	return lift.Passenger{Arrival: lift.Tick(tick), Origin: lift.Floor(origin), Destination: lift.Floor(dest)}, nil
}
