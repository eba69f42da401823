// Package instrument computes and draws flight-instrument geometry: dials
// with tick rings and needles, scrolling tapes with rolling digit wheels,
// and the pitch ladder of an artificial horizon.
//
// Every instrument is built once from an immutable configuration and then
// drawn each frame from the values passed to its Draw method. Draw never
// leaves style changes behind on the surface.
package instrument

import (
	"errors"
	"image/color"

	"glasscockpit/internal/surface"
)

// ErrInvalidConfig reports a configuration that cannot be drawn.
var ErrInvalidConfig = errors.New("invalid instrument configuration")

// Kind identifies an instrument variant.
type Kind int

const (
	KindAnalog Kind = iota
	KindTape
	KindHorizon
)

func (k Kind) String() string {
	switch k {
	case KindAnalog:
		return "analog"
	case KindTape:
		return "tape"
	case KindHorizon:
		return "horizon"
	default:
		return "unknown"
	}
}

// Instrument is implemented only by the variants in this package:
// *AnalogGauge, *DigitalTape and *Horizon.
type Instrument interface {
	Kind() Kind
	sealed()
}

var (
	white   = color.NRGBA{255, 255, 255, 255}
	black   = color.NRGBA{0, 0, 0, 255}
	yellow  = color.NRGBA{255, 255, 0, 255}
	green   = color.NRGBA{0, 255, 0, 255}
	magenta = surface.MustHex("#fc03f8")
)
