package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"glasscockpit/internal/config"
	"glasscockpit/internal/log"
	"glasscockpit/internal/metrics"
	"glasscockpit/internal/sim"
	"glasscockpit/internal/surface/ebitensurface"
)

// HUD modes, cycled with V
const (
	hudPanel = iota
	hudPanelOSD
	hudHorizon
	hudModes
)

const (
	nudgeStep       = 0.01 // radians per tick
	speedTargetStep = 5
)

// App is the main application
type App struct {
	cfg     config.Config
	logger  *log.Logger
	metrics *metrics.FrameCollector

	sim           *sim.Sim
	panel         *Panel
	osd           *OSD
	touchControls *TouchControls
	gpio          *GPIOController
	canvas        *ebitensurface.Canvas

	// HUD mode: 0=panel, 1=panel+OSD, 2=horizon only
	hudMode       int
	showTouchBtns bool

	// UI state
	showHelp   bool
	lastUpdate time.Time

	skyColor color.RGBA
}

// NewApp creates a new application
func NewApp(cfg config.Config, logger *log.Logger, m *metrics.FrameCollector) (*App, error) {
	panel, err := NewPanel(cfg.Layout, logger, m)
	if err != nil {
		return nil, err
	}
	canvas, err := ebitensurface.New(nil)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w", err)
	}

	app := &App{
		cfg:           cfg,
		logger:        logger,
		metrics:       m,
		sim:           sim.New(cfg.Initial, cfg.Autopilot),
		panel:         panel,
		osd:           NewOSD(),
		touchControls: NewTouchControls(),
		canvas:        canvas,
		hudMode:       hudPanel,
		showTouchBtns: cfg.TouchButtons,
		skyColor:      color.RGBA{30, 30, 30, 255},
	}
	app.sim.SetPaused(cfg.Paused)
	m.SetPaused(cfg.Paused)
	app.touchControls.SetupDefaultButtons(app)
	if cfg.GPIOButtons {
		app.gpio = newGPIO(cfg.GPIODriver, logger)
		app.gpio.SetupDefaultButtons()
	}
	return app, nil
}

// Run starts the application
func (a *App) Run() error {
	ebiten.SetWindowSize(a.cfg.WindowWidth, a.cfg.WindowHeight)
	ebiten.SetWindowTitle("Glass Cockpit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if a.cfg.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	// Start GPIO controller (will auto-detect if on Pi)
	if a.gpio != nil {
		if err := a.gpio.Start(); err != nil {
			a.logger.Warn("GPIO controller error", "error", err)
		}
	}

	a.lastUpdate = time.Now()
	return ebiten.RunGame(a)
}

// Shutdown cleans up resources
func (a *App) Shutdown() {
	if a.gpio != nil {
		a.gpio.Stop()
	}
}

// Update handles input and advances the simulation
func (a *App) Update() error {
	// Handle touch input first (before keyboard to allow touch override)
	if a.showTouchBtns {
		a.touchControls.UpdateLayout(a.cfg.LogicalWidth, a.cfg.LogicalHeight)
		a.touchControls.Update()
		a.touchControls.UpdateButtonStates(a)
	}

	// Hardware buttons
	if a.gpio != nil {
		a.drainCommands(a.gpio.Commands())
	}

	// Handle keyboard input
	if err := a.handleKeyboard(); err != nil {
		return err
	}

	now := time.Now()
	dt := now.Sub(a.lastUpdate)
	if a.lastUpdate.IsZero() {
		dt = time.Second / time.Duration(ebiten.TPS())
	}
	a.lastUpdate = now
	a.sim.Step(dt)

	return nil
}

// Draw renders the application
func (a *App) Draw(screen *ebiten.Image) {
	start := time.Now()

	// Clear screen
	screen.Fill(a.skyColor)

	a.canvas.Reset(screen)
	st, ap := a.sim.State(), a.sim.Autopilot()

	// Draw instruments based on mode
	switch a.hudMode {
	case hudPanel:
		a.panel.Draw(a.canvas, st, ap)
	case hudPanelOSD:
		a.panel.Draw(a.canvas, st, ap)
		a.osd.Draw(screen, st, ap, a.sim.Elapsed(), a.sim.Paused())
	case hudHorizon:
		a.panel.DrawHorizon(a.canvas, st)
	}

	// Draw help overlay
	if a.showHelp {
		a.drawHelp(screen)
	}

	// Draw touch buttons
	if a.showTouchBtns {
		a.touchControls.Draw(screen)
	}

	// Draw status bar
	a.drawStatusBar(screen)

	a.metrics.ObserveFrame(time.Since(start))
}

// Layout keeps the panel at its logical size; ebiten scales it to the window
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.LogicalWidth, a.cfg.LogicalHeight
}

func (a *App) togglePause() {
	paused := a.sim.TogglePause()
	a.metrics.SetPaused(paused)
	a.logger.Info("Simulation paused", "paused", paused)
}

func (a *App) reset() {
	a.sim.Reset()
	a.metrics.SetPaused(false)
	a.logger.Info("Simulation reset")
}

func (a *App) cycleHUD() {
	a.hudMode = (a.hudMode + 1) % hudModes
	a.logger.Debug("HUD mode", "mode", hudName(a.hudMode))
}

// drainCommands applies every queued hardware command without blocking
func (a *App) drainCommands(cmds <-chan panelCommand) {
	for {
		select {
		case cmd := <-cmds:
			a.apply(cmd)
		default:
			return
		}
	}
}

func (a *App) apply(cmd panelCommand) {
	switch cmd {
	case cmdPause:
		a.togglePause()
	case cmdReset:
		a.reset()
	case cmdHUD:
		a.cycleHUD()
	case cmdSpeedUp:
		a.sim.AdjustSpeedTarget(speedTargetStep)
	case cmdSpeedDown:
		a.sim.AdjustSpeedTarget(-speedTargetStep)
	}
}

func hudName(mode int) string {
	switch mode {
	case hudPanelOSD:
		return "OSD"
	case hudHorizon:
		return "HORIZON"
	default:
		return "PANEL"
	}
}

func (a *App) handleKeyboard() error {
	// Attitude nudges
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		a.sim.Nudge(nudgeStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		a.sim.Nudge(-nudgeStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		a.sim.Nudge(0, -nudgeStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		a.sim.Nudge(0, nudgeStep)
	}

	// Autopilot speed target
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		a.sim.AdjustSpeedTarget(speedTargetStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		a.sim.AdjustSpeedTarget(-speedTargetStep)
	}

	// Pause and reset
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.reset()
	}

	// Toggle help
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) || inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		a.showHelp = !a.showHelp
	}

	// Cycle HUD mode
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.cycleHUD()
	}

	// Toggle touch buttons
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		a.showTouchBtns = !a.showTouchBtns
	}

	// Fullscreen toggle
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	// Quit
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		a.logger.Info("Quit requested")
		return ebiten.Termination
	}
	return nil
}

func (a *App) statusLine() string {
	run := "RUN"
	if a.sim.Paused() {
		run = "PAUSED"
	}
	ap := a.sim.Autopilot()
	return fmt.Sprintf(" %s | T+%s | HUD:%s | AP SPD %.0f | FPS %.1f | F1=Help",
		run, a.sim.Elapsed().Truncate(time.Second), hudName(a.hudMode), ap.Speed, ebiten.ActualFPS())
}

func (a *App) drawStatusBar(screen *ebiten.Image) {
	// Bottom status bar
	barH := 24
	barY := a.cfg.LogicalHeight - barH

	vector.DrawFilledRect(screen, 0, float32(barY), float32(a.cfg.LogicalWidth), float32(barH), color.RGBA{0, 0, 0, 200}, false)
	ebitenutil.DebugPrintAt(screen, a.statusLine(), 5, barY+5)
}

var helpLines = []string{
	"=== Glass Cockpit ===",
	"",
	"P       Pause/resume simulation",
	"R       Reset simulation",
	"Arrows  Nudge pitch and roll",
	"+/-     Autopilot speed target",
	"V       Cycle HUD (Panel/OSD/Horizon)",
	"T       Toggle touch buttons",
	"F11     Toggle fullscreen",
	"F1/?    Toggle this help",
	"Q/Esc   Quit",
}

func (a *App) drawHelp(screen *ebiten.Image) {
	panelW := 250
	panelH := len(helpLines)*16 + 20
	panelX := 10
	panelY := 10

	vector.DrawFilledRect(screen, float32(panelX), float32(panelY), float32(panelW), float32(panelH), color.RGBA{0, 0, 0, 200}, false)

	y := panelY + 10
	for _, line := range helpLines {
		ebitenutil.DebugPrintAt(screen, line, panelX+10, y)
		y += 16
	}
}
