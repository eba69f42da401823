package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"glasscockpit/internal/log"
)

// GPIO Button assignments (BCM numbering)
// These are common pins that don't conflict with other interfaces
const (
	GPIO_BTN_PAUSE   = 17 // Pin 11
	GPIO_BTN_RESET   = 27 // Pin 13
	GPIO_BTN_HUD     = 22 // Pin 15
	GPIO_BTN_SPDUP   = 23 // Pin 16
	GPIO_BTN_SPDDOWN = 24 // Pin 18
)

const defaultGPIORoot = "/sys/class/gpio"

// panelCommand is an action requested by a hardware button. The game
// loop applies them so the simulation is only touched from one goroutine.
type panelCommand int

const (
	cmdPause panelCommand = iota
	cmdReset
	cmdHUD
	cmdSpeedUp
	cmdSpeedDown
)

// GPIOButton represents a single GPIO button
type GPIOButton struct {
	pin        int
	name       string
	cmd        panelCommand
	in         gpio.PinIn
	lastState  bool
	debounceMs int64
	lastChange int64
}

// GPIOController polls GPIO buttons and queues their commands. Pins are
// read through periph.io drivers when lookup is set, otherwise through
// sysfs under root.
type GPIOController struct {
	root     string
	lookup   func(pin int) gpio.PinIn
	buttons  []*GPIOButton
	enabled  bool
	commands chan panelCommand
	stopChan chan struct{}
	stopOnce sync.Once
	logger   *log.Logger
}

// NewGPIOController creates a controller reading pins under root,
// normally /sys/class/gpio
func NewGPIOController(root string, logger *log.Logger) *GPIOController {
	return &GPIOController{
		root:     root,
		commands: make(chan panelCommand, 16),
		stopChan: make(chan struct{}),
		logger:   logger,
	}
}

// NewPeriphGPIOController creates a controller reading pins through the
// periph.io host drivers, looked up by BCM name (GPIO17)
func NewPeriphGPIOController(logger *log.Logger) (*GPIOController, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	g := NewGPIOController("", logger)
	g.lookup = func(pin int) gpio.PinIn {
		p := gpioreg.ByName("GPIO" + strconv.Itoa(pin))
		if p == nil {
			return nil
		}
		return p
	}
	return g, nil
}

// newGPIO picks the controller for driver, falling back to sysfs when
// the periph host drivers cannot be loaded
func newGPIO(driver string, logger *log.Logger) *GPIOController {
	if driver == "periph" {
		g, err := NewPeriphGPIOController(logger)
		if err == nil {
			return g
		}
		logger.Warn("periph unavailable, using sysfs GPIO", "error", err)
	}
	return NewGPIOController(defaultGPIORoot, logger)
}

// AddButton adds a GPIO button
func (g *GPIOController) AddButton(pin int, name string, cmd panelCommand) {
	g.buttons = append(g.buttons, &GPIOButton{
		pin:        pin,
		name:       name,
		cmd:        cmd,
		debounceMs: 50,
	})
}

// SetupDefaultButtons configures standard button mappings
func (g *GPIOController) SetupDefaultButtons() {
	g.AddButton(GPIO_BTN_PAUSE, "PAUSE", cmdPause)
	g.AddButton(GPIO_BTN_RESET, "RESET", cmdReset)
	g.AddButton(GPIO_BTN_HUD, "HUD", cmdHUD)
	g.AddButton(GPIO_BTN_SPDUP, "SPD+", cmdSpeedUp)
	g.AddButton(GPIO_BTN_SPDDOWN, "SPD-", cmdSpeedDown)
}

// Commands delivers button presses in order
func (g *GPIOController) Commands() <-chan panelCommand {
	return g.commands
}

// Start begins polling GPIO pins
func (g *GPIOController) Start() error {
	if !g.IsAvailable() {
		g.logger.Info("GPIO not available - GPIO buttons disabled", "root", g.root)
		return nil
	}

	g.setup()
	go g.pollLoop()
	g.logger.Info("GPIO controller started", "buttons", len(g.buttons))
	return nil
}

// setup configures every button as an input. Buttons are active low
// (pressed = 0) with pull-ups.
func (g *GPIOController) setup() {
	for _, btn := range g.buttons {
		if g.lookup != nil {
			if err := g.configurePin(btn); err != nil {
				g.logger.Warn("Could not configure GPIO", "pin", btn.pin, "error", err)
			}
			continue
		}
		if err := g.exportPin(btn.pin); err != nil {
			g.logger.Warn("Could not export GPIO", "pin", btn.pin, "error", err)
			continue
		}
		if err := g.setDirection(btn.pin, "in"); err != nil {
			g.logger.Warn("Could not set GPIO direction", "pin", btn.pin, "error", err)
		}
	}
	g.enabled = true
}

func (g *GPIOController) configurePin(btn *GPIOButton) error {
	in := g.lookup(btn.pin)
	if in == nil {
		return fmt.Errorf("GPIO%d not found", btn.pin)
	}
	if err := in.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return err
	}
	btn.in = in
	return nil
}

// Stop stops the GPIO polling
func (g *GPIOController) Stop() {
	if !g.enabled {
		return
	}
	g.stopOnce.Do(func() {
		close(g.stopChan)
		if g.lookup != nil {
			return
		}
		for _, btn := range g.buttons {
			if err := g.unexportPin(btn.pin); err != nil {
				g.logger.Debug("Could not unexport GPIO", "pin", btn.pin, "error", err)
			}
		}
	})
}

func (g *GPIOController) pollLoop() {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case t := <-ticker.C:
			g.pollButtons(t.UnixMilli())
		}
	}
}

func (g *GPIOController) pollButtons(now int64) {
	for _, btn := range g.buttons {
		value, err := g.readButton(btn)
		if err != nil {
			continue
		}

		// Active low: pressed when value is 0
		pressed := value == 0

		// Debounce
		if pressed == btn.lastState || now-btn.lastChange <= btn.debounceMs {
			continue
		}
		btn.lastState = pressed
		btn.lastChange = now

		// Trigger on press (not release)
		if !pressed {
			continue
		}
		select {
		case g.commands <- btn.cmd:
			g.logger.Debug("GPIO button", "name", btn.name)
		default:
			g.logger.Warn("GPIO command queue full, dropping press", "name", btn.name)
		}
	}
}

func (g *GPIOController) readButton(btn *GPIOButton) (int, error) {
	if g.lookup == nil {
		return g.readPin(btn.pin)
	}
	if btn.in == nil {
		return -1, fmt.Errorf("GPIO%d not configured", btn.pin)
	}
	if btn.in.Read() == gpio.Low {
		return 0, nil
	}
	return 1, nil
}

// GPIO sysfs helpers

func (g *GPIOController) pinPath(pin int, file string) string {
	return filepath.Join(g.root, "gpio"+strconv.Itoa(pin), file)
}

func (g *GPIOController) exportPin(pin int) error {
	// Check if already exported
	if _, err := os.Stat(filepath.Dir(g.pinPath(pin, "value"))); err == nil {
		return nil
	}

	if err := g.writeControl("export", pin); err != nil {
		return err
	}

	// Wait for sysfs to create the pin directory
	time.Sleep(100 * time.Millisecond)
	return nil
}

func (g *GPIOController) unexportPin(pin int) error {
	return g.writeControl("unexport", pin)
}

func (g *GPIOController) writeControl(name string, pin int) error {
	f, err := os.OpenFile(filepath.Join(g.root, name), os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(strconv.Itoa(pin))
	return err
}

func (g *GPIOController) setDirection(pin int, direction string) error {
	return os.WriteFile(g.pinPath(pin, "direction"), []byte(direction), 0644)
}

func (g *GPIOController) readPin(pin int) (int, error) {
	f, err := os.Open(g.pinPath(pin, "value"))
	if err != nil {
		return -1, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		if scanner.Text() == "0" {
			return 0, nil
		}
		return 1, nil
	}
	return -1, fmt.Errorf("gpio%d: could not read pin value", pin)
}

// IsAvailable returns true if GPIO is available on this system
func (g *GPIOController) IsAvailable() bool {
	if g.lookup != nil {
		for _, btn := range g.buttons {
			if g.lookup(btn.pin) != nil {
				return true
			}
		}
		return false
	}
	_, err := os.Stat(g.root)
	return err == nil
}
