package surface_test

import (
	"image/color"
	"testing"

	"glasscockpit/internal/surface"
	"glasscockpit/internal/surface/record"
)

func TestGuardRestoresStyle(t *testing.T) {
	s := record.New()
	s.SetLineWidth(2)
	s.SetLineDash([]float64{4, 2}, 1)
	before := s.Style()

	func() {
		defer surface.Guard(s)()
		s.SetLineWidth(9)
		s.SetStrokeColor(color.RGBA{255, 0, 0, 255})
		s.SetLineDash([]float64{1}, 0)
		s.SetFont(surface.Font{Size: 400})
		s.SetTextAlign(surface.AlignRight)
		s.SetTextBaseline(surface.BaselineMiddle)
		s.SetLineJoin(surface.JoinRound)
	}()

	after := s.Style()
	if after.LineWidth != 2 || after.StrokeColor != before.StrokeColor || after.Font != before.Font ||
		after.TextAlign != before.TextAlign || after.TextBaseline != before.TextBaseline ||
		after.LineJoin != before.LineJoin || after.LineDashOffset != 1 {
		t.Errorf("style leaked: before %+v after %+v", before, after)
	}
	if len(after.LineDash) != 2 || after.LineDash[0] != 4 || after.LineDash[1] != 2 {
		t.Errorf("dash leaked: %v", after.LineDash)
	}
}

func TestSnapshotIsolated(t *testing.T) {
	s := record.New()
	s.SetLineDash([]float64{3, 3}, 0)
	sn := surface.Capture(s)

	st := sn.Style()
	st.LineDash[0] = 99
	if sn.Style().LineDash[0] != 3 {
		t.Errorf("snapshot shares its dash slice")
	}
}
