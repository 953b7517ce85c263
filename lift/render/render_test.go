package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/delliston/liftsim/lift"
	"github.com/libp2p/go-reuseport"
	"github.com/rs/zerolog"
)

func sample() lift.Snapshot {
	return lift.Snapshot{
		Tick:   12,
		Floors: 3,
		Elevators: []lift.ElevatorView{
			{ID: 0, Status: lift.Status{Floor: 2, Direction: lift.Up, State: lift.Idle, Progress: 1}, Passengers: []lift.Floor{2, 2}},
			{ID: 1, Status: lift.Status{Floor: 0, Direction: lift.None, State: lift.Waiting}},
		},
		Queues: [][]lift.Floor{{1, 2}, nil, {0}},
		Stats:  lift.Stats{Arrived: 5, Boarded: 2},
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := NewConsole(&buf).Render(sample()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Render() wrote %d lines, want header + 3 floors:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "tick 12") {
		t.Errorf("header = %q, want tick 12 first", lines[0])
	}
	top, bottom := lines[1], lines[3]
	if !strings.HasPrefix(top, "  2 |") || !strings.Contains(top, "[2 2]UI:1") || !strings.HasSuffix(top, "| 0") {
		t.Errorf("top floor = %q", top)
	}
	if !strings.Contains(bottom, "[]NW:0") || !strings.HasSuffix(bottom, "| 1 2") {
		t.Errorf("ground floor = %q", bottom)
	}
	if strings.Contains(lines[2], "[") {
		t.Errorf("floor 1 should be empty: %q", lines[2])
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(zerolog.New(&buf), zerolog.InfoLevel)
	if err := l.Render(sample()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("log line is not JSON: %v: %s", err, buf.String())
	}
	if event["tick"] != float64(12) || event["waiting"] != float64(3) {
		t.Errorf("event = %v, want tick 12 and 3 waiting", event)
	}
}

type failing struct{ err error }

func (f failing) Render(lift.Snapshot) error { return f.err }

type counting struct{ n int }

func (c *counting) Render(lift.Snapshot) error { c.n++; return nil }

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	c := &counting{}
	err := Multi{failing{boom}, c}.Render(sample())
	if !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want boom", err)
	}
	if c.n != 1 {
		t.Errorf("renderer after a failing one ran %d times, want 1", c.n)
	}
	if err := (Multi{c}).Render(sample()); err != nil {
		t.Errorf("Render() error = %v, want nil", err)
	}
}

func TestPublisher(t *testing.T) {
	conn, err := reuseport.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("no UDP loopback: %v", err)
	}
	defer conn.Close()

	p, err := NewPublisher(conn.LocalAddr().String(), "run-abc")
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	defer p.Close()

	if err := p.Render(sample()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	buf := make([]byte, 64*1024)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			t.Fatalf("no datagram received")
		}
		t.Fatalf("ReadFrom() error = %v", err)
	}
	var f Frame
	if err := json.Unmarshal(buf[:n], &f); err != nil {
		t.Fatalf("datagram is not a frame: %v", err)
	}
	if f.Run != "run-abc" || f.Snapshot.Tick != 12 || len(f.Snapshot.Elevators) != 2 {
		t.Errorf("frame = %+v", f)
	}
	if f.Snapshot.Elevators[0].Status.State != lift.Idle {
		t.Errorf("elevator 0 state = %v, want Idle", f.Snapshot.Elevators[0].Status.State)
	}
}
