package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// TouchButton represents an on-screen touch button
type TouchButton struct {
	X, Y, W, H int
	Label      string
	Active     bool // Toggle state for toggle buttons
	Visible    bool
	OnPress    func()
}

// TouchControls manages touch UI elements
type TouchControls struct {
	buttons  []*TouchButton
	screenW  int
	screenH  int
	btnColor color.RGBA
	actColor color.RGBA
	txtColor color.RGBA
}

// NewTouchControls creates touch control manager
func NewTouchControls() *TouchControls {
	return &TouchControls{
		buttons:  make([]*TouchButton, 0),
		btnColor: color.RGBA{60, 60, 60, 200},
		actColor: color.RGBA{0, 150, 0, 200},
		txtColor: color.RGBA{255, 255, 255, 255},
	}
}

// AddButton adds a touch button
func (tc *TouchControls) AddButton(x, y, w, h int, label string, onPress func()) *TouchButton {
	btn := &TouchButton{
		X:       x,
		Y:       y,
		W:       w,
		H:       h,
		Label:   label,
		Visible: true,
		OnPress: onPress,
	}
	tc.buttons = append(tc.buttons, btn)
	return btn
}

// Update checks for touch/click events
func (tc *TouchControls) Update() {
	// Handle mouse clicks
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		tc.handlePress(mx, my)
	}

	// Handle touch
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	for _, id := range touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		tc.handlePress(tx, ty)
	}
}

// handlePress fires the first visible button under (x, y)
func (tc *TouchControls) handlePress(x, y int) {
	for _, btn := range tc.buttons {
		if !btn.Visible {
			continue
		}
		if x >= btn.X && x <= btn.X+btn.W && y >= btn.Y && y <= btn.Y+btn.H {
			if btn.OnPress != nil {
				btn.OnPress()
			}
			break
		}
	}
}

// Draw renders all touch buttons
func (tc *TouchControls) Draw(screen *ebiten.Image) {
	for _, btn := range tc.buttons {
		if !btn.Visible {
			continue
		}

		// Background
		bgColor := tc.btnColor
		if btn.Active {
			bgColor = tc.actColor
		}
		vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), bgColor, true)

		// Border
		vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 2, tc.txtColor, true)

		// Label, centered in the debug font's 6x16 cells
		labelX := btn.X + btn.W/2 - len(btn.Label)*3
		labelY := btn.Y + btn.H/2 - 8
		ebitenutil.DebugPrintAt(screen, btn.Label, labelX, labelY)
	}
}

// UpdateLayout repositions buttons based on screen size
func (tc *TouchControls) UpdateLayout(screenW, screenH int) {
	if tc.screenW == screenW && tc.screenH == screenH {
		return // No change
	}
	tc.screenW = screenW
	tc.screenH = screenH

	btnW := 90
	btnH := 60
	margin := 8
	bottomY := screenH - btnH - 30 // Above status bar
	left := screenW/2 - (4*btnW+3*margin)/2

	// Bottom center row, by label
	for _, btn := range tc.buttons {
		btn.W, btn.H = btnW, btnH
		btn.Y = bottomY
		switch btn.Label {
		case "PAUSE":
			btn.X = left
		case "RESET":
			btn.X = left + btnW + margin
		case "HUD":
			btn.X = left + (btnW+margin)*2
		case "HELP":
			btn.X = left + (btnW+margin)*3
		}
	}
}

// SetupDefaultButtons creates the standard control buttons
func (tc *TouchControls) SetupDefaultButtons(app *App) {
	// These will be repositioned in UpdateLayout
	tc.AddButton(0, 0, 90, 60, "PAUSE", app.togglePause)
	tc.AddButton(0, 0, 90, 60, "RESET", app.reset)
	tc.AddButton(0, 0, 90, 60, "HUD", app.cycleHUD)
	tc.AddButton(0, 0, 90, 60, "HELP", func() {
		app.showHelp = !app.showHelp
	})
}

// UpdateButtonStates updates active states based on app state
func (tc *TouchControls) UpdateButtonStates(app *App) {
	for _, btn := range tc.buttons {
		switch btn.Label {
		case "PAUSE":
			btn.Active = app.sim.Paused()
		case "HUD":
			btn.Active = app.hudMode != hudPanel
		case "HELP":
			btn.Active = app.showHelp
		}
	}
}
