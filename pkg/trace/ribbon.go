package trace

import "math"

// Ribbon layout constants.
const (
	BaseRibbons   = 3
	BaseSpacing   = 6.0
	normalEpsilon = 1e-6
)

// RibbonCount returns how many ribbons a trace carries. Never below
// BaseRibbons.
func RibbonCount(ni, nc float64) int {
	return BaseRibbons + int(math.Round(3*ni)) + int(math.Round(2*nc))
}

// RibbonSpacing returns the distance between neighbouring ribbons.
func RibbonSpacing(ni, nc float64) float64 {
	return BaseSpacing + 4*ni - 3*nc
}

// Normals returns the unit normal at every trace point.
//
// The normal at point i is perpendicular to the segment from i-1 to i. A
// degenerate segment reuses the last valid normal, or the x axis when none
// exists yet. The first point always uses the x axis.
func Normals(tr Trace) []Point {
	normals := make([]Point, len(tr))
	if len(tr) == 0 {
		return normals
	}

	unitX := Point{X: 1, Y: 0}
	normals[0] = unitX
	var last Point
	haveLast := false

	for i := 1; i < len(tr); i++ {
		dx := tr[i].X - tr[i-1].X
		dy := tr[i].Y - tr[i-1].Y
		length := math.Hypot(dx, dy)

		switch {
		case length > normalEpsilon:
			last = Point{X: -dy / length, Y: dx / length}
			haveLast = true
			normals[i] = last
		case haveLast:
			normals[i] = last
		default:
			normals[i] = unitX
		}
	}
	return normals
}

// Offset derives count parallel polylines from tr. Ribbon r is displaced by
// (r - count/2) * spacing along the local normal. Traces shorter than two
// points have no drawable geometry and yield nil.
func Offset(tr Trace, count int, spacing float64) Ribbons {
	if len(tr) < 2 || count <= 0 {
		return nil
	}

	normals := Normals(tr)
	ribbons := make(Ribbons, count)
	for r := range count {
		offset := (float64(r) - float64(count)/2) * spacing
		line := make([]Point, len(tr))
		for i, p := range tr {
			line[i] = Point{
				X: p.X + normals[i].X*offset,
				Y: p.Y + normals[i].Y*offset,
			}
		}
		ribbons[r] = line
	}
	return ribbons
}
