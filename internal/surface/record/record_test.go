package record

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"

	"glasscockpit/internal/geom"
)

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestTransformComposesInUserSpace(t *testing.T) {
	r := New()
	if r.Transform() != matrix.Identity {
		t.Fatalf("initial transform %v", r.Transform())
	}

	r.Translate(10, 20)
	r.Rotate(math.Pi / 2)
	r.Scale(2, 2)
	r.BeginPath()
	r.MoveTo(1, 0)
	r.LineTo(0, 1)
	r.Stroke()

	// scale -> (2,0), rotate -> (0,2), translate -> (10,22)
	pts := r.OpsOf(OpStroke)[0].Path[0].Points
	want := []geom.Point{{X: 10, Y: 22}, {X: 8, Y: 20}}
	for i := range want {
		if !near(pts[i], want[i]) {
			t.Errorf("point %d = %+v, want %+v", i, pts[i], want[i])
		}
	}
}

func TestSaveRestoreTransform(t *testing.T) {
	r := New()
	r.Translate(5, 5)
	before := r.Transform()

	r.Save()
	r.Rotate(1)
	r.Scale(3, 0.5)
	r.Restore()

	if r.Transform() != before {
		t.Errorf("transform %v after restore, want %v", r.Transform(), before)
	}
	r.FillText("x", 1, 2)
	if at := r.Ops()[0].At; !near(at, geom.Point{X: 6, Y: 7}) {
		t.Errorf("text anchored at %+v", at)
	}
}

func TestPathStaysInDeviceSpace(t *testing.T) {
	r := New()
	r.BeginPath()
	r.MoveTo(1, 1)
	r.Translate(100, 0)
	r.LineTo(1, 1)
	r.Fill()

	pts := r.OpsOf(OpFill)[0].Path[0].Points
	if !near(pts[0], geom.Point{X: 1, Y: 1}) || !near(pts[1], geom.Point{X: 101, Y: 1}) {
		t.Errorf("points %+v", pts)
	}
}
