package main

import (
	"fmt"
	"image/color"
	"math"

	"glasscockpit/internal/config"
	"glasscockpit/internal/geom"
	"glasscockpit/internal/instrument"
	"glasscockpit/internal/log"
	"glasscockpit/internal/metrics"
	"glasscockpit/internal/sim"
	"glasscockpit/internal/surface"
)

// trendSeconds is how far ahead the trend arcs project the current rate.
const trendSeconds = 10

// Panel draws the full instrument set
type Panel struct {
	layout  config.Layout
	metrics *metrics.FrameCollector

	speedometer         *instrument.AnalogGauge
	verticalSpeedometer *instrument.AnalogGauge
	compass             *instrument.AnalogGauge
	altimeter           *instrument.DigitalTape
	speedTape           *instrument.DigitalTape
	horizon             *instrument.Horizon
	symbols             *Cockpit

	// Colors
	lineColor   color.NRGBA
	needleColor color.NRGBA
}

func dialConfig(start, end float64) instrument.AnalogConfig {
	cfg := instrument.DefaultAnalogConfig()
	cfg.Radius = 110
	cfg.TickStart = 0.75 * math.Pi
	cfg.TickEnd = 0.251 * math.Pi
	cfg.TickStep = math.Pi / 8
	cfg.SmallTicksPerBigTick = 1
	return cfg.LabelBigTicksEvenly(start, end)
}

func compassConfig() instrument.AnalogConfig {
	cfg := instrument.DefaultAnalogConfig()
	cfg.Radius = 110
	cfg.TickStart = 0
	cfg.TickEnd = geom.TwoPi - 0.01
	cfg.TickStep = math.Pi / 36
	cfg.SmallTicksPerBigTick = 5
	cfg.Labels = []string{"N", "3", "6", "E", "12", "15", "S", "21", "24", "W", "30", "33"}
	cfg.LabelAngles = make([]float64, len(cfg.Labels))
	for i := range cfg.LabelAngles {
		// North points up.
		cfg.LabelAngles[i] = geom.NormalizeAngle(float64(i)*math.Pi/6 + 3*math.Pi/2)
	}
	cfg.LabelsRotate = true
	cfg.LabelFontSize = 40
	cfg.DrawCenterDot = false
	return cfg
}

func speedTapeConfig() instrument.TapeConfig {
	lo, hi := 0.0, 999.0
	cfg := instrument.DefaultTapeConfig()
	cfg.SmallTicksPerBigTick = 1
	cfg.PixelsPerTick = 50
	cfg.ValuePerTick = 5
	cfg.WheelDigitSpan = 1
	cfg.MinValue = &lo
	cfg.MaxValue = &hi
	cfg.MaxDigits = 3
	cfg.AllowNegative = false
	return cfg
}

// NewPanel builds the instruments and places them per layout
func NewPanel(layout config.Layout, logger *log.Logger, m *metrics.FrameCollector) (*Panel, error) {
	p := &Panel{
		layout:      layout,
		metrics:     m,
		lineColor:   color.NRGBA{255, 255, 255, 255},
		needleColor: color.NRGBA{255, 80, 80, 255},
	}

	var err error
	if p.speedometer, err = instrument.NewAnalogGauge(dialConfig(0, 300)); err != nil {
		return nil, fmt.Errorf("speedometer: %w", err)
	}
	if p.verticalSpeedometer, err = instrument.NewAnalogGauge(dialConfig(-300, 300)); err != nil {
		return nil, fmt.Errorf("vertical speedometer: %w", err)
	}
	if p.compass, err = instrument.NewAnalogGauge(compassConfig()); err != nil {
		return nil, fmt.Errorf("compass: %w", err)
	}
	if p.altimeter, err = instrument.NewDigitalTape(instrument.DefaultTapeConfig()); err != nil {
		return nil, fmt.Errorf("altimeter: %w", err)
	}
	if p.speedTape, err = instrument.NewDigitalTape(speedTapeConfig()); err != nil {
		return nil, fmt.Errorf("speed tape: %w", err)
	}
	if p.horizon, err = instrument.NewHorizon(instrument.DefaultHorizonConfig()); err != nil {
		return nil, fmt.Errorf("horizon: %w", err)
	}
	p.symbols = NewCockpit(layout, p.compass.Radius())

	logger.Info("Panel ready",
		"instruments", len(p.Instruments()),
		"speed_ticks", len(p.speedometer.Ticks()),
		"compass_ticks", len(p.compass.Ticks()))
	return p, nil
}

// Instruments lists every mounted instrument in draw order
func (p *Panel) Instruments() []instrument.Instrument {
	return []instrument.Instrument{
		p.horizon,
		p.altimeter,
		p.speedTape,
		p.speedometer,
		p.verticalSpeedometer,
		p.compass,
	}
}

// Draw renders every instrument for the given state
func (p *Panel) Draw(s surface.Surface, st sim.State, ap sim.Autopilot) {
	p.DrawHorizon(s, st)

	l := p.layout
	altTarget, speedTarget := ap.Altitude, ap.Speed
	p.altimeter.Draw(s, l.Altimeter.X, l.Altimeter.Y, st.Altitude, &altTarget, instrument.SideLeft)
	p.count(p.altimeter)
	p.speedTape.Draw(s, l.SpeedTape.X, l.SpeedTape.Y, st.Speed, &speedTarget, instrument.SideRight)
	p.count(p.speedTape)

	p.drawDial(s, p.speedometer, l.SpeedDial, st.Speed, st.Accel, 0, 300, 3, false)
	p.drawDial(s, p.verticalSpeedometer, l.VerticalSpeedDial, st.VerticalSpeed, st.VerticalAccel, -300, 300, 4, true)

	p.symbols.DrawLubberLine(s)
	p.drawCompass(s, st)
	p.symbols.DrawPlane(s)
	p.drawHeadingReadout(s, st)
}

// DrawHorizon renders only the attitude indicator and its boresight
func (p *Panel) DrawHorizon(s surface.Surface, st sim.State) {
	hz := p.layout.Horizon
	p.horizon.Draw(s, hz.Center.X, hz.Center.Y, hz.Width, hz.Height, hz.PixelsPerRadian, st.Pitch, st.Roll)
	p.count(p.horizon)
	p.symbols.DrawBoresight(s)
}

// drawDial draws a trend arc, the dial, its needle and the readout plate
func (p *Panel) drawDial(s surface.Surface, g *instrument.AnalogGauge, at geom.Point, value, rate, lo, hi float64, digits int, signed bool) {
	defer surface.Guard(s)()

	g.DrawOuterSpeedLineFromValue(s, at.X, at.Y, value, value+rate*trendSeconds, lo, hi, instrument.TrendStyle{})

	s.SetStrokeColor(p.lineColor)
	s.SetFillColor(p.lineColor)
	s.SetLineWidth(6)
	g.Draw(s, at.X, at.Y, 0)

	s.SetStrokeColor(p.needleColor)
	g.DrawNeedleFromValue(s, at.X, at.Y, value, lo, hi, instrument.NeedleStyle{})
	g.DrawLabelText(s, at.X, at.Y, value, digits, signed, '0')
	p.count(g)
}

func (p *Panel) drawCompass(s surface.Surface, st sim.State) {
	defer surface.Guard(s)()
	at := p.layout.Compass

	p.compass.DrawOuterSpeedLineFromValue(s, at.X, at.Y, -90, -90+st.HeadingRate*trendSeconds, 0, 360,
		instrument.TrendStyle{Close: 6, Far: 20})

	s.SetStrokeColor(p.lineColor)
	s.SetFillColor(p.lineColor)
	s.SetLineWidth(6)
	p.compass.Draw(s, at.X, at.Y, geom.DegToRad(st.Heading))
	p.count(p.compass)
}

// drawHeadingReadout goes after the plane icon so the plate stays on top.
func (p *Panel) drawHeadingReadout(s surface.Surface, st sim.State) {
	at := p.layout.Compass
	p.compass.DrawLabelText(s, at.X, at.Y, st.Heading, 3, false, '0')
}

func (p *Panel) count(inst instrument.Instrument) {
	p.metrics.CountDraw(inst.Kind().String())
}
