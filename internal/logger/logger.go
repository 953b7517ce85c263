package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

var (
	once sync.Once
	Log  zerolog.Logger
)

// Output is where the process logger writes. The console renderer owns
// stdout, so logs go to stderr unless changed before the first Get call.
var Output io.Writer = os.Stderr

func configureLogger() {
	zerolog.TimeFieldFormat = timeFormat
	output := zerolog.ConsoleWriter{
		Out:        Output,
		TimeFormat: timeFormat,
	}
	Log = zerolog.New(output).With().Timestamp().Logger()
}

func GetLoggerConfigured(level zerolog.Level) *zerolog.Logger {
	once.Do(func() {
		configureLogger()
		zerolog.SetGlobalLevel(level)
	})
	return &Log
}

func GetLogger() *zerolog.Logger {
	once.Do(configureLogger)
	return &Log
}

// ParseLevel accepts zerolog level names; an empty string means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(name)
}
