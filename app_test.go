package main

import (
	"strings"
	"testing"
	"time"

	"glasscockpit/internal/config"
	"glasscockpit/internal/sim"
)

// newTestApp builds an App without a canvas or window.
func newTestApp() *App {
	cfg := config.Default()
	app := &App{
		cfg:           cfg,
		sim:           sim.New(cfg.Initial, cfg.Autopilot),
		osd:           NewOSD(),
		touchControls: NewTouchControls(),
	}
	app.touchControls.SetupDefaultButtons(app)
	return app
}

func TestApplyCommands(t *testing.T) {
	app := newTestApp()
	cmds := make(chan panelCommand, 8)
	for _, c := range []panelCommand{cmdSpeedUp, cmdSpeedUp, cmdSpeedDown, cmdHUD, cmdPause} {
		cmds <- c
	}
	app.drainCommands(cmds)

	if got := app.sim.Autopilot().Speed; got != 180 {
		t.Errorf("speed target = %v, want 180", got)
	}
	if app.hudMode != hudPanelOSD {
		t.Errorf("hud mode = %d", app.hudMode)
	}
	if !app.sim.Paused() {
		t.Error("not paused")
	}
	if len(cmds) != 0 {
		t.Errorf("%d commands left queued", len(cmds))
	}

	app.apply(cmdReset)
	if app.sim.Paused() || app.sim.Autopilot() != sim.DefaultAutopilot() {
		t.Error("reset did not restore the sim")
	}
}

func TestCycleHUD(t *testing.T) {
	app := newTestApp()
	var names []string
	for range hudModes {
		app.cycleHUD()
		names = append(names, hudName(app.hudMode))
	}
	if got := strings.Join(names, ","); got != "OSD,HORIZON,PANEL" {
		t.Errorf("modes = %s", got)
	}
}

func TestLayoutIsLogical(t *testing.T) {
	app := newTestApp()
	w, h := app.Layout(640, 480)
	if w != 1920 || h != 1080 {
		t.Errorf("Layout = %dx%d", w, h)
	}
}

func TestTouchButtons(t *testing.T) {
	app := newTestApp()
	tc := app.touchControls
	tc.UpdateLayout(1920, 1080)

	byLabel := map[string]*TouchButton{}
	for _, b := range tc.buttons {
		byLabel[b.Label] = b
	}
	for _, label := range []string{"PAUSE", "RESET", "HUD", "HELP"} {
		if byLabel[label] == nil {
			t.Fatalf("no %s button", label)
		}
	}
	if byLabel["PAUSE"].X >= byLabel["HELP"].X {
		t.Error("buttons out of order")
	}

	press := func(label string) {
		b := byLabel[label]
		tc.handlePress(b.X+b.W/2, b.Y+b.H/2)
		tc.UpdateButtonStates(app)
	}
	press("PAUSE")
	if !app.sim.Paused() || !byLabel["PAUSE"].Active {
		t.Error("PAUSE did not pause")
	}
	press("HELP")
	if !app.showHelp || !byLabel["HELP"].Active {
		t.Error("HELP did not open help")
	}
	press("HUD")
	if app.hudMode != hudPanelOSD || !byLabel["HUD"].Active {
		t.Error("HUD did not cycle")
	}
	press("RESET")
	if app.sim.Paused() || byLabel["PAUSE"].Active {
		t.Error("RESET did not resume")
	}

	tc.handlePress(0, 0)
	if app.hudMode != hudPanelOSD {
		t.Error("press outside the buttons changed state")
	}
}

func TestStatusLine(t *testing.T) {
	app := newTestApp()
	app.sim.SetPaused(true)
	line := app.statusLine()
	for _, want := range []string{"PAUSED", "HUD:PANEL", "AP SPD 175"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q missing %q", line, want)
		}
	}
}

func TestOSDLines(t *testing.T) {
	lines := NewOSD().Lines(sim.DefaultState(), sim.DefaultAutopilot(), 1500*time.Millisecond)
	want := []string{
		"T+    1.5s",
		"HDG   035.00  (AP 045)",
		"SPD    165.0  (AP 175)",
		"VS    -212.0  (AP +100)",
		"ALT     360.0  (AP 2000)",
		"PITCH   +0.0 deg",
	}
	for _, w := range want {
		found := false
		for _, l := range lines {
			if l == w {
				found = true
			}
		}
		if !found {
			t.Errorf("no line %q in %q", w, lines)
		}
	}
}
