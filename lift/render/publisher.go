package render

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/delliston/liftsim/lift"
	"github.com/libp2p/go-reuseport"
)

// Frame is one published datagram.
type Frame struct {
	Run      string        `json:"run"`
	Snapshot lift.Snapshot `json:"snapshot"`
}

// Publisher sends every snapshot as a JSON datagram to a UDP address, so a
// viewer on another terminal or host can follow the run.
type Publisher struct {
	run  string
	conn net.PacketConn
	dest *net.UDPAddr
}

func NewPublisher(addr, run string) (*Publisher, error) {
	dest, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := reuseport.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("open publisher socket: %w", err)
	}
	return &Publisher{run: run, conn: conn, dest: dest}, nil
}

func (p *Publisher) Render(s lift.Snapshot) error {
	msg, err := json.Marshal(Frame{Run: p.run, Snapshot: s})
	if err != nil {
		return err
	}
	if _, err := p.conn.WriteTo(msg, p.dest); err != nil {
		return fmt.Errorf("publish tick %d: %w", s.Tick, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
