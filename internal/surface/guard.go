package surface

// Snapshot is an immutable capture of a surface's style.
type Snapshot struct {
	style Style
}

// Capture records the current style of s.
func Capture(s StyleState) Snapshot {
	return Snapshot{style: s.Style().Clone()}
}

// Style returns a copy of the captured style.
func (sn Snapshot) Style() Style {
	return sn.style.Clone()
}

// Restore puts the captured style back on s.
func (sn Snapshot) Restore(s StyleState) {
	s.SetStyle(sn.style.Clone())
}

// Guard captures the style of s and returns the function that restores
// it. Draw entry points use it as
//
//	defer surface.Guard(s)()
func Guard(s StyleState) func() {
	sn := Capture(s)
	return func() { sn.Restore(s) }
}
