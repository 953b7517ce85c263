package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/delliston/liftsim/lift"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// Arrivals configures the random passenger generator used when no input
// file is given.
type Arrivals struct {
	Count int     `yaml:"count"`
	Rate  float64 `yaml:"rate"` // chance of a new passenger per tick, in (0, 1]
	Seed  int64   `yaml:"seed"`
}

type Config struct {
	Floors    int           `yaml:"floors"`
	Elevators int           `yaml:"elevators"`
	Elevator  lift.Settings `yaml:"elevator"`
	Arrivals  Arrivals      `yaml:"arrivals"`
	MaxTicks  lift.Tick     `yaml:"max_ticks"` // drain budget, 0 for none
	LogLevel  string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Floors:    10,
		Elevators: 3,
		Elevator: lift.Settings{
			Capacity:          5,
			TicksPerFloor:     3,
			TicksDoorOpen:     2,
			TicksDoorClose:    2,
			TicksIdleOpen:     4,
			TicksPerBoarding:  1,
			TicksPerAlighting: 1,
		},
		Arrivals: Arrivals{Count: 20, Rate: 0.3, Seed: 1},
		MaxTicks: 10000,
		LogLevel: "info",
	}
}

// Load decodes the YAML file at path over Default. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	c := Default()
	file, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&c); err != nil {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}
	return c, nil
}

// envPrefix is shared by every override key, e.g. LIFTSIM_FLOORS.
const envPrefix = "LIFTSIM_"

// ApplyEnv overrides c from LIFTSIM_* keys. Keys are looked up in the .env
// file at path first (skipped when path is empty), then in the process
// environment.
func (c *Config) ApplyEnv(path string) error {
	envFile := map[string]string{}
	if path != "" {
		var err error
		if envFile, err = godotenv.Read(path); err != nil {
			return fmt.Errorf("read env file: %w", err)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := envFile[envPrefix+key]; ok {
			return v, true
		}
		return os.LookupEnv(envPrefix + key)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"FLOORS", &c.Floors},
		{"ELEVATORS", &c.Elevators},
		{"CAPACITY", &c.Elevator.Capacity},
		{"ARRIVALS", &c.Arrivals.Count},
	}
	for _, o := range ints {
		v, ok := lookup(o.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalid, envPrefix, o.key, v)
		}
		*o.dst = n
	}

	ticks := []struct {
		key string
		dst *lift.Tick
	}{
		{"TICKS_PER_FLOOR", &c.Elevator.TicksPerFloor},
		{"TICKS_DOOR_OPEN", &c.Elevator.TicksDoorOpen},
		{"TICKS_DOOR_CLOSE", &c.Elevator.TicksDoorClose},
		{"TICKS_IDLE_OPEN", &c.Elevator.TicksIdleOpen},
		{"TICKS_PER_BOARDING", &c.Elevator.TicksPerBoarding},
		{"TICKS_PER_ALIGHTING", &c.Elevator.TicksPerAlighting},
		{"MAX_TICKS", &c.MaxTicks},
	}
	for _, o := range ticks {
		v, ok := lookup(o.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalid, envPrefix, o.key, v)
		}
		*o.dst = lift.Tick(n)
	}

	if v, ok := lookup("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSEED=%q", ErrInvalid, envPrefix, v)
		}
		c.Arrivals.Seed = n
	}
	if v, ok := lookup("RATE"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sRATE=%q", ErrInvalid, envPrefix, v)
		}
		c.Arrivals.Rate = r
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Floors < 1 {
		return fmt.Errorf("%w: floors %d < 1", ErrInvalid, c.Floors)
	}
	if c.Elevators < 1 {
		return fmt.Errorf("%w: elevators %d < 1", ErrInvalid, c.Elevators)
	}
	if c.Arrivals.Count < 0 {
		return fmt.Errorf("%w: arrivals.count %d < 0", ErrInvalid, c.Arrivals.Count)
	}
	if c.Arrivals.Rate <= 0 || c.Arrivals.Rate > 1 {
		return fmt.Errorf("%w: arrivals.rate %v outside (0, 1]", ErrInvalid, c.Arrivals.Rate)
	}
	if err := c.Elevator.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
