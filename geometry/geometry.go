// Package geometry builds the outlines used for pads and interpolations.
// Angles are in degrees at the API boundary, as in Gerber.
package geometry

import (
	"math"
	"sort"
	"strconv"

	"github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultArcSegments is the number of chords a full circle is split into.
const DefaultArcSegments = 72

// Box is a running axis-aligned bounding box. The zero value is empty.
type Box struct {
	Min polyclip.Point
	Max polyclip.Point
	set bool
}

func (b *Box) Empty() bool {
	return !b.set
}

func (b *Box) AddPoint(p polyclip.Point) {
	if !b.set {
		b.Min, b.Max, b.set = p, p, true
		return
	}
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

func (b *Box) AddRect(r polyclip.Rectangle) {
	b.AddPoint(r.Min)
	b.AddPoint(r.Max)
}

func (b *Box) AddBox(another Box) {
	if another.set {
		b.AddPoint(another.Min)
		b.AddPoint(another.Max)
	}
}

func (b *Box) Width() float64 {
	if !b.set {
		return 0
	}
	return b.Max.X - b.Min.X
}

func (b *Box) Height() float64 {
	if !b.set {
		return 0
	}
	return b.Max.Y - b.Min.Y
}

func (b *Box) Rectangle() polyclip.Rectangle {
	return polyclip.Rectangle{Min: b.Min, Max: b.Max}
}

func (b Box) String() string {
	if !b.set {
		return "Box: empty"
	}
	return "Box: " + FormatPoint(b.Min) + " - " + FormatPoint(b.Max)
}

/*
################################ outlines ################################
*/

// CircleContour returns a counter-clockwise polygonal approximation of a circle.
func CircleContour(center polyclip.Point, diameter float64, segments int) polyclip.Contour {
	if segments < 3 {
		segments = DefaultArcSegments
	}
	r := diameter / 2
	retVal := make(polyclip.Contour, 0, segments)
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		angle := step * float64(i)
		retVal = append(retVal, polyclip.Point{X: center.X + r*math.Cos(angle), Y: center.Y + r*math.Sin(angle)})
	}
	return retVal
}

// RectContour returns a rectangle centered at center.
func RectContour(center polyclip.Point, w, h float64) polyclip.Contour {
	hw, hh := w/2, h/2
	return polyclip.Contour{
		{X: center.X - hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y + hh},
		{X: center.X - hw, Y: center.Y + hh},
	}
}

// ObroundContour returns a rectangle with semicircular ends on its shorter sides.
func ObroundContour(center polyclip.Point, w, h float64, segments int) polyclip.Contour {
	if w == h {
		return CircleContour(center, w, segments)
	}
	if segments < 4 {
		segments = DefaultArcSegments
	}
	half := segments / 2
	retVal := make(polyclip.Contour, 0, segments+2)
	if w > h {
		r := h / 2
		dx := w/2 - r
		retVal = append(retVal, arcRun(polyclip.Point{X: center.X + dx, Y: center.Y}, r, -90, 90, half)...)
		retVal = append(retVal, arcRun(polyclip.Point{X: center.X - dx, Y: center.Y}, r, 90, 270, half)...)
	} else {
		r := w / 2
		dy := h/2 - r
		retVal = append(retVal, arcRun(polyclip.Point{X: center.X, Y: center.Y + dy}, r, 0, 180, half)...)
		retVal = append(retVal, arcRun(polyclip.Point{X: center.X, Y: center.Y - dy}, r, 180, 360, half)...)
	}
	return retVal
}

// arcRun includes both ends.
func arcRun(center polyclip.Point, r, fromDeg, toDeg float64, n int) polyclip.Contour {
	retVal := make(polyclip.Contour, 0, n+1)
	from := mgl64.DegToRad(fromDeg)
	step := (mgl64.DegToRad(toDeg) - from) / float64(n)
	for i := 0; i <= n; i++ {
		a := from + step*float64(i)
		retVal = append(retVal, polyclip.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)})
	}
	return retVal
}

// RegularPolygon returns the vertices of a polygon inscribed in a circle,
// the first vertex at rotDeg degrees.
func RegularPolygon(center polyclip.Point, diameter float64, vertices int, rotDeg float64) polyclip.Contour {
	r := diameter / 2
	retVal := make(polyclip.Contour, 0, vertices)
	step := 2 * math.Pi / float64(vertices)
	start := mgl64.DegToRad(rotDeg)
	for i := 0; i < vertices; i++ {
		a := start + step*float64(i)
		retVal = append(retVal, polyclip.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)})
	}
	return retVal
}

// Rotate rotates the contour around the origin, counter-clockwise for positive degrees.
func Rotate(c polyclip.Contour, deg float64) polyclip.Contour {
	if deg == 0 {
		return c
	}
	m := mgl64.Rotate2D(mgl64.DegToRad(deg))
	retVal := make(polyclip.Contour, len(c))
	for i, p := range c {
		v := m.Mul2x1(mgl64.Vec2{p.X, p.Y})
		retVal[i] = polyclip.Point{X: cleanZero(v[0]), Y: cleanZero(v[1])}
	}
	return retVal
}

// RotatePoint rotates a single point around the origin.
func RotatePoint(p polyclip.Point, deg float64) polyclip.Point {
	return Rotate(polyclip.Contour{p}, deg)[0]
}

// Translate moves every point of the polygon by d.
func Translate(poly polyclip.Polygon, d polyclip.Point) polyclip.Polygon {
	retVal := make(polyclip.Polygon, len(poly))
	for i, c := range poly {
		nc := make(polyclip.Contour, len(c))
		for j, p := range c {
			nc[j] = polyclip.Point{X: p.X + d.X, Y: p.Y + d.Y}
		}
		retVal[i] = nc
	}
	return retVal
}

// rotation matrices leave values like 6e-17 where a zero belongs
func cleanZero(v float64) float64 {
	if mgl64.Abs(v) < 1e-12 {
		return 0
	}
	return v
}

/*
################################ arcs ################################
*/

// ArcSweep returns the swept angle in radians (always positive) going from
// start to end around center. Coincident start and end give a full circle.
func ArcSweep(start, end, center polyclip.Point, cw bool, tolerance float64) float64 {
	if math.Hypot(start.X-end.X, start.Y-end.Y) <= tolerance {
		return 2 * math.Pi
	}
	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	a1 := math.Atan2(end.Y-center.Y, end.X-center.X)
	sweep := a1 - a0
	if cw {
		sweep = -sweep
	}
	for sweep <= 0 {
		sweep += 2 * math.Pi
	}
	for sweep > 2*math.Pi {
		sweep -= 2 * math.Pi
	}
	return sweep
}

// ArcPoints tessellates an arc into chords. The result starts after start and
// ends exactly at end; the radius is interpolated between both ends.
func ArcPoints(start, end, center polyclip.Point, cw bool, segments int, tolerance float64) []polyclip.Point {
	if segments < 3 {
		segments = DefaultArcSegments
	}
	sweep := ArcSweep(start, end, center, cw, tolerance)
	n := int(math.Ceil(sweep/(2*math.Pi/float64(segments)) - 1e-9))
	if n < 1 {
		n = 1
	}
	r0 := math.Hypot(start.X-center.X, start.Y-center.Y)
	r1 := math.Hypot(end.X-center.X, end.Y-center.Y)
	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	dir := 1.0
	if cw {
		dir = -1.0
	}
	retVal := make([]polyclip.Point, 0, n)
	for i := 1; i < n; i++ {
		k := float64(i) / float64(n)
		a := a0 + dir*sweep*k
		r := r0 + (r1-r0)*k
		retVal = append(retVal, polyclip.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)})
	}
	retVal = append(retVal, end)
	return retVal
}

// ConvexHull returns the hull of the points counter-clockwise, without
// duplicate or collinear vertices (Andrew's monotone chain).
func ConvexHull(points []polyclip.Point) polyclip.Contour {
	ps := make([]polyclip.Point, len(points))
	copy(ps, points)
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X != ps[j].X {
			return ps[i].X < ps[j].X
		}
		return ps[i].Y < ps[j].Y
	})
	if len(ps) < 3 {
		return polyclip.Contour(ps)
	}
	cross := func(o, a, b polyclip.Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	hull := make(polyclip.Contour, 0, 2*len(ps))
	for _, p := range ps {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(ps) - 2; i >= 0; i-- {
		p := ps[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// FormatPoint is used in log traces.
func FormatPoint(p polyclip.Point) string {
	return "(" + strconv.FormatFloat(p.X, 'f', 5, 64) + "," + strconv.FormatFloat(p.Y, 'f', 5, 64) + ")"
}
