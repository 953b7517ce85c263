package render

import (
	"github.com/delliston/liftsim/lift"
	"github.com/rs/zerolog"
)

// Log writes one structured event per tick.
type Log struct {
	log   zerolog.Logger
	level zerolog.Level
}

func NewLog(log zerolog.Logger, level zerolog.Level) *Log {
	return &Log{log: log.With().Str("component", "render").Logger(), level: level}
}

func (l *Log) Render(s lift.Snapshot) error {
	elevators := make([]string, len(s.Elevators))
	for i, v := range s.Elevators {
		elevators[i] = v.Status.Floor.String() + v.Tag()
	}
	waiting := 0
	for _, q := range s.Queues {
		waiting += len(q)
	}
	l.log.WithLevel(l.level).
		Uint64("tick", uint64(s.Tick)).
		Strs("elevators", elevators).
		Int("waiting", waiting).
		Int("arrived", s.Stats.Arrived).
		Int("delivered", s.Stats.Delivered).
		Msg("tick")
	return nil
}
