//
// Apertures support
package apertures

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/akavel/polyclip-go"

	"github.com/PLM-MPT/gerber-to-svg/amprocessor"
	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
	"github.com/PLM-MPT/gerber-to-svg/geometry"
)

// Definition is the parsed form of an AD statement, e.g. "D10C,0.5X0.25".
type Definition struct {
	Code     int
	Template string
	Params   []float64
}

// ParseDefinition parses the body of an AD statement without the "AD" prefix.
func ParseDefinition(body string) (Definition, error) {
	var retVal Definition
	s := strings.TrimSpace(body)
	if !strings.HasPrefix(s, "D") {
		return retVal, errors.New("aperture definition must start with D: " + body)
	}
	var i int
	for i = 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
	}
	code, err := strconv.Atoi(s[1:i])
	if err != nil {
		return retVal, errors.New("bad aperture code in " + body)
	}
	if code < 10 {
		return retVal, fmt.Errorf("aperture code D%d is reserved", code)
	}
	retVal.Code = code
	rest := s[i:]
	commaPos := strings.Index(rest, ",")
	if commaPos == -1 {
		commaPos = len(rest)
	}
	retVal.Template = rest[:commaPos]
	if len(retVal.Template) == 0 {
		return retVal, errors.New("bad aperture " + strconv.Itoa(code) + " name")
	}
	if commaPos < len(rest) {
		for _, p := range strings.Split(rest[commaPos+1:], "X") {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return retVal, fmt.Errorf("bad parameter %q of aperture D%d", p, code)
			}
			retVal.Params = append(retVal.Params, v)
		}
	}
	return retVal, nil
}

type Aperture struct {
	Code         int
	Type         GerberApType
	Params       []float64
	XSize        float64
	YSize        float64
	Diameter     float64
	HoleDiameter float64
	Vertices     int
	RotAngle     float64
	MacroName    string
	// Outline is the flashed shape centered on the origin, a hole is an extra contour
	Outline polyclip.Polygon
	Bounds  polyclip.Rectangle
}

// New resolves a definition into an aperture. Macro templates are looked up
// in macros and instantiated right away.
func New(def Definition, macros map[string]*amprocessor.ApertureMacro, segments int) (*Aperture, error) {
	apert := &Aperture{Code: def.Code, Params: def.Params}
	p := def.Params
	// sizes are the first nSizes parameters, the last one may be a hole
	bad := func(min, max, nSizes int) error {
		if len(p) < min || len(p) > max {
			return fmt.Errorf("bad number of parameters for %s D%d", apert.Type, def.Code)
		}
		for i, v := range p {
			if (i < nSizes || i == max-1) && v < 0 {
				return fmt.Errorf("negative parameter for %s D%d", apert.Type, def.Code)
			}
		}
		return nil
	}
	center := polyclip.Point{}

	switch def.Template {
	case "C":
		apert.Type = AptypeCircle
		if err := bad(1, 2, 1); err != nil {
			return nil, err
		}
		apert.Diameter = p[0]
		if len(p) > 1 {
			apert.HoleDiameter = p[1]
		}
		apert.Outline = polyclip.Polygon{geometry.CircleContour(center, apert.Diameter, segments)}
	case "R":
		apert.Type = AptypeRectangle
		if err := bad(2, 3, 2); err != nil {
			return nil, err
		}
		apert.XSize, apert.YSize = p[0], p[1]
		if len(p) > 2 {
			apert.HoleDiameter = p[2]
		}
		apert.Outline = polyclip.Polygon{geometry.RectContour(center, apert.XSize, apert.YSize)}
	case "O":
		apert.Type = AptypeObround
		if err := bad(2, 3, 2); err != nil {
			return nil, err
		}
		apert.XSize, apert.YSize = p[0], p[1]
		if len(p) > 2 {
			apert.HoleDiameter = p[2]
		}
		apert.Outline = polyclip.Polygon{geometry.ObroundContour(center, apert.XSize, apert.YSize, segments)}
	case "P":
		apert.Type = AptypePoly
		if err := bad(2, 4, 1); err != nil {
			return nil, err
		}
		apert.Diameter = p[0]
		apert.Vertices = int(p[1])
		if apert.Vertices < 3 || apert.Vertices > 12 {
			return nil, fmt.Errorf("polygon aperture D%d has %d vertices", def.Code, apert.Vertices)
		}
		if len(p) > 2 {
			apert.RotAngle = p[2]
		}
		if len(p) > 3 {
			apert.HoleDiameter = p[3]
		}
		apert.Outline = polyclip.Polygon{geometry.RegularPolygon(center, apert.Diameter, apert.Vertices, apert.RotAngle)}
	default:
		apert.Type = AptypeMacro
		apert.MacroName = def.Template
		am, ok := macros[def.Template]
		if !ok {
			return nil, fmt.Errorf("aperture D%d uses undefined macro %s", def.Code, def.Template)
		}
		outline, err := am.Instantiate(p, segments)
		if err != nil {
			return nil, err
		}
		apert.Outline = outline
	}

	if apert.HoleDiameter > 0 {
		apert.Outline = append(apert.Outline, geometry.CircleContour(center, apert.HoleDiameter, segments))
	}
	apert.Bounds = apert.extents()
	return apert, nil
}

func (apert *Aperture) extents() polyclip.Rectangle {
	switch apert.Type {
	case AptypeCircle:
		r := apert.Diameter / 2
		return polyclip.Rectangle{Min: polyclip.Point{X: -r, Y: -r}, Max: polyclip.Point{X: r, Y: r}}
	case AptypeRectangle, AptypeObround:
		return polyclip.Rectangle{
			Min: polyclip.Point{X: -apert.XSize / 2, Y: -apert.YSize / 2},
			Max: polyclip.Point{X: apert.XSize / 2, Y: apert.YSize / 2},
		}
	default:
	}
	if len(apert.Outline) == 0 {
		return polyclip.Rectangle{}
	}
	return apert.Outline.BoundingBox()
}

// StrokeWidth is the width of a line drawn with a circle aperture.
func (apert *Aperture) StrokeWidth() float64 {
	if apert.Type == AptypeCircle {
		return apert.Diameter
	}
	return 0
}

func (apert *Aperture) String() string {
	retVal := "Aperture D" + strconv.Itoa(apert.Code) + ", " + apert.Type.String()
	switch apert.Type {
	case AptypeCircle:
		retVal += ", diameter " + strconv.FormatFloat(apert.Diameter, 'f', -1, 64)
	case AptypeRectangle, AptypeObround:
		retVal += ", size " + strconv.FormatFloat(apert.XSize, 'f', -1, 64) +
			"x" + strconv.FormatFloat(apert.YSize, 'f', -1, 64)
	case AptypePoly:
		retVal += ", diameter " + strconv.FormatFloat(apert.Diameter, 'f', -1, 64) +
			", vertices " + strconv.Itoa(apert.Vertices) +
			", rotation " + strconv.FormatFloat(apert.RotAngle, 'f', -1, 64)
	case AptypeMacro:
		retVal += " " + apert.MacroName
	}
	if apert.HoleDiameter > 0 {
		retVal += ", hole " + strconv.FormatFloat(apert.HoleDiameter, 'f', -1, 64)
	}
	return retVal
}
