// Package config holds the startup settings of the cockpit display and
// the layout of its instruments.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/log"
	"glasscockpit/internal/sim"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Horizon places the artificial horizon frame.
type Horizon struct {
	Center          geom.Point
	Width           float64
	Height          float64
	PixelsPerRadian float64
}

// Layout holds instrument positions in logical pixels.
type Layout struct {
	SpeedDial         geom.Point
	VerticalSpeedDial geom.Point
	Compass           geom.Point
	Altimeter         geom.Point
	SpeedTape         geom.Point
	Horizon           Horizon
}

type Config struct {
	// LogicalWidth and LogicalHeight are the size of the surface the
	// panel is laid out on; ebiten scales it to the window.
	LogicalWidth  int
	LogicalHeight int

	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	TouchButtons bool
	GPIOButtons  bool
	// GPIODriver picks how buttons are read: "periph" or "sysfs".
	GPIODriver string
	Paused     bool

	LogLevel    string
	LogDir      string
	MetricsAddr string

	Layout    Layout
	Initial   sim.State
	Autopilot sim.Autopilot
}

// DefaultLayout lays the panel out on a w×h surface.
func DefaultLayout(w, h float64) Layout {
	return Layout{
		SpeedDial:         geom.Point{X: 280, Y: 180},
		VerticalSpeedDial: geom.Point{X: w - 280, Y: 180},
		Compass:           geom.Point{X: w / 2, Y: h - 160},
		Altimeter:         geom.Point{X: w - 100 - 100, Y: h / 2},
		SpeedTape:         geom.Point{X: 100 + 100, Y: h / 2},
		Horizon: Horizon{
			Center:          geom.Point{X: w / 2, Y: h / 2},
			Width:           350,
			Height:          420,
			PixelsPerRadian: 65 / geom.DegToRad(10),
		},
	}
}

func Default() Config {
	return Config{
		LogicalWidth:  1920,
		LogicalHeight: 1080,
		WindowWidth:   1280,
		WindowHeight:  720,
		GPIODriver:    "periph",
		LogLevel:      "info",
		Layout:        DefaultLayout(1920, 1080),
		Initial:       sim.DefaultState(),
		Autopilot:     sim.DefaultAutopilot(),
	}
}

// RegisterFlags binds the command line flags to c. Values already in c
// are the defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.WindowWidth, "width", c.WindowWidth, "Window width")
	fs.IntVar(&c.WindowHeight, "height", c.WindowHeight, "Window height")
	fs.BoolVar(&c.Fullscreen, "fullscreen", c.Fullscreen, "Start in fullscreen mode")
	fs.BoolVar(&c.TouchButtons, "touch", c.TouchButtons, "Enable on-screen touch buttons")
	fs.BoolVar(&c.GPIOButtons, "gpio", c.GPIOButtons, "Poll GPIO panel buttons")
	fs.StringVar(&c.GPIODriver, "gpio-driver", c.GPIODriver, "GPIO driver: periph or sysfs")
	fs.BoolVar(&c.Paused, "paused", c.Paused, "Start with the simulation paused")
	fs.StringVar(&c.LogLevel, "loglevel", c.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&c.LogDir, "logdir", c.LogDir, "Directory for rotating log files (stderr when empty)")
	fs.StringVar(&c.MetricsAddr, "metrics", c.MetricsAddr, "Serve Prometheus metrics on this address, e.g. :9100")
	fs.Float64Var(&c.Initial.Heading, "heading", c.Initial.Heading, "Initial heading in degrees")
	fs.Float64Var(&c.Initial.Speed, "speed", c.Initial.Speed, "Initial airspeed")
	fs.Float64Var(&c.Initial.Altitude, "altitude", c.Initial.Altitude, "Initial altitude")
	fs.Float64Var(&c.Autopilot.Speed, "ap-speed", c.Autopilot.Speed, "Autopilot speed target")
	fs.Float64Var(&c.Autopilot.Altitude, "ap-altitude", c.Autopilot.Altitude, "Autopilot altitude target")
}

func (c Config) Validate() error {
	var errs []error
	if c.LogicalWidth <= 0 || c.LogicalHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: logical size %dx%d", ErrInvalidConfig, c.LogicalWidth, c.LogicalHeight))
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.WindowWidth, c.WindowHeight))
	}
	if c.GPIODriver != "periph" && c.GPIODriver != "sysfs" {
		errs = append(errs, fmt.Errorf("%w: gpio driver %q", ErrInvalidConfig, c.GPIODriver))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			errs = append(errs, fmt.Errorf("%w: metrics address: %v", ErrInvalidConfig, err))
		}
	}
	if h := c.Layout.Horizon; !(h.Width > 0 && h.Height > 0 && h.PixelsPerRadian > 0) {
		errs = append(errs, fmt.Errorf("%w: horizon %vx%v at %v px/rad", ErrInvalidConfig, h.Width, h.Height, h.PixelsPerRadian))
	}
	return errors.Join(errs...)
}
