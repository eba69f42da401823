package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/sim"
)

// OSD renders the raw simulation state as debug text
type OSD struct {
	// Colors
	textBg    color.RGBA
	warningBg color.RGBA
}

// NewOSD creates a new OSD overlay
func NewOSD() *OSD {
	return &OSD{
		textBg:    color.RGBA{0, 0, 0, 160},
		warningBg: color.RGBA{255, 80, 80, 200},
	}
}

// Lines formats the state one value per line
func (o *OSD) Lines(st sim.State, ap sim.Autopilot, elapsed time.Duration) []string {
	return []string{
		fmt.Sprintf("T+    %s", elapsed.Truncate(100*time.Millisecond)),
		fmt.Sprintf("HDG   %06.2f  (AP %03.0f)", st.Heading, ap.Heading),
		fmt.Sprintf("dHDG  %+.2f", st.HeadingRate),
		fmt.Sprintf("SPD   %6.1f  (AP %3.0f)", st.Speed, ap.Speed),
		fmt.Sprintf("ACC   %+.1f", st.Accel),
		fmt.Sprintf("VS    %+6.1f  (AP %+.0f)", st.VerticalSpeed, ap.VerticalSpeed),
		fmt.Sprintf("VACC  %+.1f", st.VerticalAccel),
		fmt.Sprintf("ALT   %7.1f  (AP %.0f)", st.Altitude, ap.Altitude),
		fmt.Sprintf("PITCH %+6.1f deg", geom.RadToDeg(st.Pitch)),
		fmt.Sprintf("ROLL  %+6.1f deg", geom.RadToDeg(st.Roll)),
	}
}

// Draw renders the OSD overlay in the top left corner
func (o *OSD) Draw(screen *ebiten.Image, st sim.State, ap sim.Autopilot, elapsed time.Duration, paused bool) {
	x, y := 5, 5
	if paused {
		o.drawTextBoxColored(screen, "PAUSED", x, y, o.warningBg)
		y += 17
	}
	for _, line := range o.Lines(st, ap, elapsed) {
		o.drawTextBox(screen, line, x, y)
		y += 17
	}
}

// drawTextBox draws text with semi-transparent background
func (o *OSD) drawTextBox(screen *ebiten.Image, text string, x, y int) {
	o.drawTextBoxColored(screen, text, x, y, o.textBg)
}

// drawTextBoxColored draws text with colored background for warnings
func (o *OSD) drawTextBoxColored(screen *ebiten.Image, text string, x, y int, bgColor color.RGBA) {
	w := len([]rune(text))*6 + 6
	h := 16
	vector.DrawFilledRect(screen, float32(x-2), float32(y-1), float32(w), float32(h), bgColor, true)
	ebitenutil.DebugPrintAt(screen, text, x, y)
}
