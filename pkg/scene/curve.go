package scene

import "github.com/matzehuels/vectorstudio/pkg/geom"

// SegmentOp is a path drawing command.
type SegmentOp byte

const (
	MoveTo SegmentOp = 'M'
	QuadTo SegmentOp = 'Q'
	LineTo SegmentOp = 'L'
)

// Segment is one command of a smoothed path. Ctrl is only meaningful for
// QuadTo.
type Segment struct {
	Op   SegmentOp
	Ctrl geom.Point
	To   geom.Point
}

// Segments smooths a polyline with quadratic curves. The first point is a
// move-to; each interior point becomes the control of a curve ending at the
// midpoint to its successor; the last point is a straight line-to. Fewer
// than two points produce nothing drawable.
func Segments(pts []geom.Point) []Segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(pts))
	segs = append(segs, Segment{Op: MoveTo, To: pts[0]})
	for i := 1; i < len(pts)-1; i++ {
		segs = append(segs, Segment{Op: QuadTo, Ctrl: pts[i], To: pts[i].Mid(pts[i+1])})
	}
	return append(segs, Segment{Op: LineTo, To: pts[len(pts)-1]})
}
