package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/delliston/liftsim/internal/config"
	"github.com/delliston/liftsim/internal/logger"
	"github.com/delliston/liftsim/lift"
	"github.com/delliston/liftsim/lift/arrivals"
	"github.com/delliston/liftsim/lift/render"
	"github.com/eiannone/keyboard"
	"github.com/rs/zerolog"
	"github.com/xyproto/randomstring"
)

const runIDLen = 8

type options struct {
	configPath string
	envPath    string
	inputPath  string
	mode       string
	publish    string
	runID      string
	delay      time.Duration
	step       bool
}

func processCmdArgs() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML config file. Defaults to built-in settings")
	flag.StringVar(&o.envPath, "env", "", "Optional .env file with LIFTSIM_* overrides")
	flag.StringVar(&o.inputPath, "input", "", "Arrivals file of 'tick origin destination' lines, '-' for stdin. Defaults to random arrivals")
	flag.StringVar(&o.mode, "render", "console", "Renderer: console, log or none")
	flag.StringVar(&o.publish, "publish", "", "Also publish every tick as JSON to this UDP address, e.g. 127.0.0.1:9999")
	flag.StringVar(&o.runID, "id", "", "Run identifier for logs and published frames. Defaults to random string")
	flag.DurationVar(&o.delay, "delay", 0, "Pause between rendered ticks, e.g. 200ms")
	flag.BoolVar(&o.step, "step", false, "Wait for a key press after every tick (q or Ctrl-C quits)")
	flag.Parse()

	if o.runID == "" {
		o.runID = randomstring.EnglishFrequencyString(runIDLen)
	}
	return o
}

func main() {
	if err := run(processCmdArgs()); err != nil {
		fmt.Fprintln(os.Stderr, "liftsim:", err)
		os.Exit(1)
	}
}

func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(o.envPath); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func run(o options) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log := logger.GetLoggerConfigured(level).With().Str("run", o.runID).Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	renderers := render.Multi{}
	switch o.mode {
	case "console":
		renderers = append(renderers, render.NewConsole(os.Stdout))
	case "log":
		renderers = append(renderers, render.NewLog(log, zerolog.InfoLevel))
	case "none":
	default:
		return fmt.Errorf("unknown renderer %q", o.mode)
	}
	if o.publish != "" {
		pub, err := render.NewPublisher(o.publish, o.runID)
		if err != nil {
			return err
		}
		defer pub.Close()
		renderers = append(renderers, pub)
	}
	if o.step {
		if err := keyboard.Open(); err != nil {
			return fmt.Errorf("step mode: %w", err)
		}
		defer keyboard.Close()
	}
	renderers = append(renderers, &pacer{delay: o.delay, step: o.step, quit: cancel})

	sys, err := lift.NewSystem(cfg.Floors, cfg.Elevators, cfg.Elevator, log, lift.WithRenderer(renderers))
	if err != nil {
		return err
	}
	sys.Start()
	defer sys.Stop()

	src, closeSrc, err := openSource(o.inputPath, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	log.Info().
		Int("floors", cfg.Floors).
		Int("elevators", cfg.Elevators).
		Interface("settings", cfg.Elevator).
		Msg("starting simulation")

	if err := sys.Feed(ctx, src); err != nil {
		return finish(log, sys, err)
	}
	return finish(log, sys, sys.Drain(ctx, cfg.MaxTicks))
}

func finish(log zerolog.Logger, sys *lift.System, err error) error {
	st := sys.Stats()
	log.Info().
		Uint64("tick", uint64(sys.Now())).
		Int("arrived", st.Arrived).
		Int("boarded", st.Boarded).
		Int("delivered", st.Delivered).
		Msg("simulation finished")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func openSource(path string, cfg config.Config) (lift.ArrivalSource, func(), error) {
	switch path {
	case "":
		a := cfg.Arrivals
		return arrivals.NewRandom(a.Seed, cfg.Floors, a.Count, a.Rate), func() {}, nil
	case "-":
		return arrivals.NewReader(os.Stdin), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open arrivals: %w", err)
	}
	return arrivals.NewReader(f), func() { f.Close() }, nil
}

// pacer slows the run down for a human watching the console. It never
// touches the simulation.
type pacer struct {
	delay time.Duration
	step  bool
	quit  context.CancelFunc
}

func (p *pacer) Render(lift.Snapshot) error {
	if !p.step {
		time.Sleep(p.delay)
		return nil
	}
	char, key, err := keyboard.GetKey()
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	if char == 'q' || char == 'Q' || key == keyboard.KeyCtrlC {
		p.quit()
	}
	return nil
}
