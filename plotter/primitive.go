package plotter

import (
	"strconv"

	"github.com/akavel/polyclip-go"

	"github.com/PLM-MPT/gerber-to-svg/apertures"
	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
	"github.com/PLM-MPT/gerber-to-svg/geometry"
)

type PrimitiveKind int

const (
	PrimPad PrimitiveKind = iota + 1
	PrimStroke
	PrimRegion
)

func (pk PrimitiveKind) String() string {
	switch pk {
	case PrimPad:
		return "pad"
	case PrimStroke:
		return "stroke"
	case PrimRegion:
		return "region"
	default:
	}
	return "unknown primitive"
}

// Primitive is one drawn object. It is never changed after emission.
type Primitive struct {
	Kind     PrimitiveKind
	Line     int
	Polarity PolType

	Aperture *apertures.Aperture // pad
	Position polyclip.Point      // pad

	Points []polyclip.Point // stroke polyline or region contour
	Width  float64          // stroke
}

// Box returns the extents of the primitive: pads with their aperture bounds,
// strokes with half of the width around every point.
func (prim *Primitive) Box() geometry.Box {
	var retVal geometry.Box
	switch prim.Kind {
	case PrimPad:
		b := prim.Aperture.Bounds
		retVal.AddPoint(polyclip.Point{X: prim.Position.X + b.Min.X, Y: prim.Position.Y + b.Min.Y})
		retVal.AddPoint(polyclip.Point{X: prim.Position.X + b.Max.X, Y: prim.Position.Y + b.Max.Y})
	case PrimStroke:
		hw := prim.Width / 2
		for _, p := range prim.Points {
			retVal.AddPoint(polyclip.Point{X: p.X - hw, Y: p.Y - hw})
			retVal.AddPoint(polyclip.Point{X: p.X + hw, Y: p.Y + hw})
		}
	case PrimRegion:
		for _, p := range prim.Points {
			retVal.AddPoint(p)
		}
	}
	return retVal
}

// Translated returns a copy moved by d.
func (prim *Primitive) Translated(d polyclip.Point) Primitive {
	retVal := *prim
	retVal.Position = polyclip.Point{X: prim.Position.X + d.X, Y: prim.Position.Y + d.Y}
	if prim.Points != nil {
		retVal.Points = make([]polyclip.Point, len(prim.Points))
		for i, p := range prim.Points {
			retVal.Points[i] = polyclip.Point{X: p.X + d.X, Y: p.Y + d.Y}
		}
	}
	return retVal
}

func (prim *Primitive) String() string {
	retVal := prim.Kind.String() + " (line " + strconv.Itoa(prim.Line) + ", " + prim.Polarity.String() + ")"
	switch prim.Kind {
	case PrimPad:
		retVal += " D" + strconv.Itoa(prim.Aperture.Code) + " at " + geometry.FormatPoint(prim.Position)
	case PrimStroke:
		retVal += " width " + strconv.FormatFloat(prim.Width, 'f', -1, 64) + ", " + strconv.Itoa(len(prim.Points)) + " points"
	case PrimRegion:
		retVal += " " + strconv.Itoa(len(prim.Points)) + " points"
	}
	return retVal
}
