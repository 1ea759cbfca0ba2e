// Package pen implements the path construction state machine.
//
// A [Machine] turns a stream of pointer events into the points of a path.
// It never touches the scene: every transition returns a [Result] telling
// the caller what to do with the points it accumulated.
//
//	m := pen.New()
//	m.Down(geom.Pt(0, 0))     // Idle -> Drawing, Action None
//	m.Down(geom.Pt(10, 0))    // Materialize [(0,0) (10,0)]
//	m.Move(geom.Pt(20, 5))    // Preview [(0,0) (10,0) (20,5)]
//	m.Down(geom.Pt(20, 0))    // Materialize 3 points
//	m.Up(geom.Pt(1, 1))       // near the start: Commit, closed, Idle
//
// A path closes on pointer-up when it has at least three points and the
// release point lies strictly within the threshold of the first point on
// both axes. The last point is then snapped exactly onto the first.
package pen

import "github.com/matzehuels/vectorstudio/pkg/geom"

// DefaultThreshold is the closing distance in canvas units.
const DefaultThreshold = 20

// State is the machine state.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Action tells the caller how to apply a transition.
type Action int

const (
	// None requires no scene change.
	None Action = iota
	// Preview replaces the preview object with Points. No history.
	Preview
	// Materialize replaces the in-progress committed path with Points.
	// No history.
	Materialize
	// Commit finalizes the path from Points and records one history entry.
	Commit
	// Discard removes the in-progress path and any preview.
	Discard
)

var actionNames = [...]string{"none", "preview", "materialize", "commit", "discard"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Result is the outcome of one transition. Points is owned by the caller.
type Result struct {
	Action Action
	Points []geom.Point
	Closed bool
}

// Machine is the path construction state machine. The zero value is not
// usable; create one with New.
type Machine struct {
	threshold float64
	points    []geom.Point
}

// Option configures a Machine.
type Option func(*Machine)

// WithThreshold sets the closing distance. Non-positive values are ignored.
func WithThreshold(t float64) Option {
	return func(m *Machine) {
		if t > 0 {
			m.threshold = t
		}
	}
}

// New creates an idle machine.
func New(opts ...Option) *Machine {
	m := &Machine{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns Drawing while points are being collected.
func (m *Machine) State() State {
	if m.points == nil {
		return Idle
	}
	return Drawing
}

// Points returns a copy of the accumulated points.
func (m *Machine) Points() []geom.Point {
	return append([]geom.Point(nil), m.points...)
}

// Threshold returns the closing distance.
func (m *Machine) Threshold() float64 { return m.threshold }

// Down handles pointer-down. The first press starts a path; later presses
// add a point and materialize the path.
func (m *Machine) Down(p geom.Point) Result {
	if m.points == nil {
		m.points = []geom.Point{p}
		return Result{Action: None}
	}
	m.points = append(m.points, p)
	return m.result(Materialize, false)
}

// Move handles pointer-move by previewing the path extended to p.
func (m *Machine) Move(p geom.Point) Result {
	if m.points == nil {
		return Result{Action: None}
	}
	pts := make([]geom.Point, len(m.points), len(m.points)+1)
	copy(pts, m.points)
	return Result{Action: Preview, Points: append(pts, p)}
}

// Up handles pointer-release. It closes and commits the path when p is
// near the first point of a path of three or more points; otherwise the
// path stays open and is materialized.
func (m *Machine) Up(p geom.Point) Result {
	if m.points == nil {
		return Result{Action: None}
	}
	m.points = append(m.points, p)
	if len(m.points) >= 3 && m.points[0].Near(p, m.threshold) {
		return m.complete(true)
	}
	return m.result(Materialize, false)
}

// Finish force-completes the path, as when the user switches tools. Two or
// more points commit (closing when the end is near the start); fewer are
// discarded. The machine returns to Idle either way.
func (m *Machine) Finish() Result {
	switch {
	case m.points == nil:
		return Result{Action: None}
	case len(m.points) < 2:
		m.points = nil
		return Result{Action: Discard}
	}
	last := m.points[len(m.points)-1]
	return m.complete(len(m.points) >= 3 && m.points[0].Near(last, m.threshold))
}

// Cancel abandons the path.
func (m *Machine) Cancel() Result {
	if m.points == nil {
		return Result{Action: None}
	}
	m.points = nil
	return Result{Action: Discard}
}

func (m *Machine) complete(closed bool) Result {
	if closed {
		m.points[len(m.points)-1] = m.points[0]
	}
	r := m.result(Commit, closed)
	m.points = nil
	return r
}

func (m *Machine) result(a Action, closed bool) Result {
	return Result{Action: a, Points: m.Points(), Closed: closed}
}
