// Aperture Macros support
package amprocessor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/akavel/polyclip-go"

	"github.com/PLM-MPT/gerber-to-svg/calculator"
	"github.com/PLM-MPT/gerber-to-svg/geometry"
)

type AMPrimitiveType int

const (
	AMPrimitive_Comment    AMPrimitiveType = 0
	AMPrimitive_Circle     AMPrimitiveType = 1
	AMPrimitive_VectLine   AMPrimitiveType = 20
	AMPrimitive_CenterLine AMPrimitiveType = 21
	AMPrimitive_LowerLeft  AMPrimitiveType = 22
	AMPRimitive_OutLine    AMPrimitiveType = 4
	AMPrimitive_Polygon    AMPrimitiveType = 5
	AMPrimitive_Moire      AMPrimitiveType = 6
	AMPrimitive_Thermal    AMPrimitiveType = 7
)

func (amp AMPrimitiveType) String() string {
	var retVal string
	switch amp {
	case AMPrimitive_Comment:
		retVal = "comment"
	case AMPrimitive_Circle:
		retVal = "circle"
	case AMPrimitive_VectLine:
		retVal = "vector line"
	case AMPrimitive_CenterLine:
		retVal = "center line"
	case AMPrimitive_LowerLeft:
		retVal = "lower left line"
	case AMPRimitive_OutLine:
		retVal = "outline"
	case AMPrimitive_Polygon:
		retVal = "polygon"
	case AMPrimitive_Moire:
		retVal = "moire"
	case AMPrimitive_Thermal:
		retVal = "thermal"
	default:
		retVal = "unknown"
	}
	return retVal
}

// modifier names for the String() dumps and the minimal modifier count
var primitiveLayout = map[AMPrimitiveType]struct {
	names []string
	min   int
}{
	AMPrimitive_Circle:     {[]string{"Exposure", "Diameter", "Center X", "Center Y", "Rotation"}, 4},
	AMPrimitive_VectLine:   {[]string{"Exposure", "Width", "Start X", "Start Y", "End X", "End Y", "Rotation"}, 6},
	AMPrimitive_CenterLine: {[]string{"Exposure", "Width", "Height", "Center X", "Center Y", "Rotation"}, 5},
	AMPrimitive_LowerLeft:  {[]string{"Exposure", "Width", "Height", "Lower left X", "Lower left Y", "Rotation"}, 5},
	AMPRimitive_OutLine:    {[]string{"Exposure", "# vertices", "Start X", "Start Y"}, 4},
	AMPrimitive_Polygon:    {[]string{"Exposure", "# vertices", "Center X", "Center Y", "Diameter", "Rotation"}, 5},
	AMPrimitive_Moire: {[]string{"Center X", "Center Y", "Outer diameter rings", "Ring thickness", "Gap",
		"Max # rings", "Crosshair thickness", "Crosshair length", "Rotation"}, 8},
	AMPrimitive_Thermal: {[]string{"Center X", "Center Y", "Outer diameter", "Inner diameter", "Gap", "Rotation"}, 5},
}

// AMInstruction is one statement of a macro body: a primitive or a variable assignment.
type AMInstruction interface {
	apply(ctx *macroContext) error
	String() string
}

type macroContext struct {
	vars     calculator.Variables
	shape    polyclip.Polygon
	segments int
}

func (ctx *macroContext) expose(on bool, part polyclip.Polygon) {
	if on {
		ctx.shape = ctx.shape.Construct(polyclip.UNION, part)
	} else {
		ctx.shape = ctx.shape.Construct(polyclip.DIFFERENCE, part)
	}
}

/* ##################################### variables ##################################### */

type AMVariable struct {
	Name  string
	Index int
	Value *calculator.Operand
}

func (amv *AMVariable) String() string {
	return amv.Name + "=" + amv.Value.String()
}

func (amv *AMVariable) apply(ctx *macroContext) error {
	ctx.vars[amv.Index] = amv.Value.Calc(ctx.vars)
	return nil
}

/* ##################################### primitives ##################################### */

type AMPrimitive struct {
	PrimitiveType AMPrimitiveType
	AMModifiers   []*calculator.Operand
}

func (amp *AMPrimitive) String() string {
	retVal := "Aperture macro primitive:\t"
	retVal = retVal + amp.PrimitiveType.String() + "\n"
	names := primitiveLayout[amp.PrimitiveType].names
	if amp.PrimitiveType == AMPRimitive_OutLine {
		for i := 4; i < len(amp.AMModifiers)-1; i += 2 {
			n := strconv.Itoa((i - 4) / 2)
			names = append(names, "Vertex "+n+" X", "Vertex "+n+" Y")
		}
		names = append(names, "Rotation")
	}
	return retVal + ArrayInfo(amp.AMModifiers, names)
}

func (amp *AMPrimitive) apply(ctx *macroContext) error {
	mods := make([]float64, len(amp.AMModifiers))
	for i := range amp.AMModifiers {
		mods[i] = amp.AMModifiers[i].Calc(ctx.vars)
		if math.IsInf(mods[i], 0) || math.IsNaN(mods[i]) {
			return fmt.Errorf("%s primitive: modifier %d evaluates to %g", amp.PrimitiveType, i+1, mods[i])
		}
	}
	if len(mods) < primitiveLayout[amp.PrimitiveType].min {
		return fmt.Errorf("%s primitive needs at least %d modifiers, got %d",
			amp.PrimitiveType, primitiveLayout[amp.PrimitiveType].min, len(mods))
	}
	// optional trailing modifier
	opt := func(i int) float64 {
		if i < len(mods) {
			return mods[i]
		}
		return 0
	}

	switch amp.PrimitiveType {
	case AMPrimitive_Circle:
		c := geometry.CircleContour(polyclip.Point{X: mods[2], Y: mods[3]}, mods[1], ctx.segments)
		ctx.expose(mods[0] != 0, polyclip.Polygon{geometry.Rotate(c, opt(4))})
	case AMPrimitive_VectLine:
		c := lineContour(polyclip.Point{X: mods[2], Y: mods[3]}, polyclip.Point{X: mods[4], Y: mods[5]}, mods[1])
		if c != nil {
			ctx.expose(mods[0] != 0, polyclip.Polygon{geometry.Rotate(c, opt(6))})
		}
	case AMPrimitive_CenterLine:
		c := geometry.RectContour(polyclip.Point{X: mods[3], Y: mods[4]}, mods[1], mods[2])
		ctx.expose(mods[0] != 0, polyclip.Polygon{geometry.Rotate(c, opt(5))})
	case AMPrimitive_LowerLeft:
		c := geometry.RectContour(polyclip.Point{X: mods[3] + mods[1]/2, Y: mods[4] + mods[2]/2}, mods[1], mods[2])
		ctx.expose(mods[0] != 0, polyclip.Polygon{geometry.Rotate(c, opt(5))})
	case AMPRimitive_OutLine:
		n := int(mods[1])
		if n < 1 || len(mods) < 4+2*n {
			return fmt.Errorf("outline primitive with %d vertices has %d modifiers", n, len(mods))
		}
		c := make(polyclip.Contour, 0, n+1)
		for i := 0; i <= n; i++ {
			c = append(c, polyclip.Point{X: mods[2+2*i], Y: mods[3+2*i]})
		}
		// the last point repeats the first one
		if c[0] == c[n] {
			c = c[:n]
		}
		ctx.expose(mods[0] != 0, polyclip.Polygon{geometry.Rotate(c, opt(4+2*n))})
	case AMPrimitive_Polygon:
		n := int(mods[1])
		if n < 3 || n > 12 {
			return fmt.Errorf("polygon primitive with %d vertices", n)
		}
		c := geometry.RegularPolygon(polyclip.Point{X: mods[2], Y: mods[3]}, mods[4], n, 0)
		ctx.expose(mods[0] != 0, polyclip.Polygon{geometry.Rotate(c, opt(5))})
	case AMPrimitive_Moire:
		ctx.expose(true, moire(mods, opt(8), ctx.segments))
	case AMPrimitive_Thermal:
		part, err := thermal(mods, opt(5), ctx.segments)
		if err != nil {
			return err
		}
		ctx.expose(true, part)
	}
	return nil
}

func lineContour(start, end polyclip.Point, width float64) polyclip.Contour {
	l := math.Hypot(end.X-start.X, end.Y-start.Y)
	if l == 0 || width <= 0 {
		return nil
	}
	nx := -(end.Y - start.Y) / l * width / 2
	ny := (end.X - start.X) / l * width / 2
	return polyclip.Contour{
		{X: start.X + nx, Y: start.Y + ny},
		{X: start.X - nx, Y: start.Y - ny},
		{X: end.X - nx, Y: end.Y - ny},
		{X: end.X + nx, Y: end.Y + ny},
	}
}

func moire(mods []float64, rot float64, segments int) polyclip.Polygon {
	center := polyclip.Point{X: mods[0], Y: mods[1]}
	outer, thickness, gap, maxRings := mods[2], mods[3], mods[4], int(mods[5])
	var retVal polyclip.Polygon
	for i := 0; i < maxRings; i++ {
		d := outer - 2*float64(i)*(thickness+gap)
		if d <= 0 {
			break
		}
		ring := polyclip.Polygon{geometry.CircleContour(center, d, segments)}
		if inner := d - 2*thickness; inner > 0 {
			ring = ring.Construct(polyclip.DIFFERENCE, polyclip.Polygon{geometry.CircleContour(center, inner, segments)})
		}
		retVal = retVal.Construct(polyclip.UNION, ring)
	}
	ct, cl := mods[6], mods[7]
	if ct > 0 && cl > 0 {
		cross := polyclip.Polygon{geometry.RectContour(center, cl, ct)}
		cross = cross.Construct(polyclip.UNION, polyclip.Polygon{geometry.RectContour(center, ct, cl)})
		retVal = retVal.Construct(polyclip.UNION, cross)
	}
	return rotatePolygon(retVal, rot)
}

func thermal(mods []float64, rot float64, segments int) (polyclip.Polygon, error) {
	center := polyclip.Point{X: mods[0], Y: mods[1]}
	outer, inner, gap := mods[2], mods[3], mods[4]
	if outer <= inner || inner < 0 {
		return nil, errors.New("thermal primitive outer diameter must exceed inner diameter")
	}
	retVal := polyclip.Polygon{geometry.CircleContour(center, outer, segments)}
	if inner > 0 {
		retVal = retVal.Construct(polyclip.DIFFERENCE, polyclip.Polygon{geometry.CircleContour(center, inner, segments)})
	}
	if gap > 0 {
		span := outer * 1.5
		cross := polyclip.Polygon{geometry.RectContour(center, span, gap)}
		cross = cross.Construct(polyclip.UNION, polyclip.Polygon{geometry.RectContour(center, gap, span)})
		retVal = retVal.Construct(polyclip.DIFFERENCE, cross)
	}
	return rotatePolygon(retVal, rot), nil
}

func rotatePolygon(p polyclip.Polygon, deg float64) polyclip.Polygon {
	if deg == 0 {
		return p
	}
	retVal := make(polyclip.Polygon, len(p))
	for i := range p {
		retVal[i] = geometry.Rotate(p[i], deg)
	}
	return retVal
}

/* ##################################### AM container ##################################### */

type ApertureMacro struct {
	Name         string // name from source string
	Comments     []string
	Instructions []AMInstruction
}

func (am *ApertureMacro) String() string {
	retVal := "\nAperture macro name:\t" + am.Name + "\nComments:\n"
	for i := range am.Comments {
		retVal = retVal + "\t\t" + am.Comments[i] + "\n"
	}
	retVal = retVal + "Instructions:\n"
	for i := range am.Instructions {
		retVal = retVal + "\t" + am.Instructions[i].String() + "\n"
	}
	return retVal
}

// NewApertureMacro compiles the body statements of an AM block; the name
// statement is not included.
func NewApertureMacro(name string, statements []string) (*ApertureMacro, error) {
	retVal := &ApertureMacro{Name: name}
	if len(name) == 0 {
		return nil, errors.New("aperture macro name not found")
	}

	for _, s := range statements {
		s = strings.TrimSpace(s)
		if len(s) == 0 {
			continue
		}
		if s == "0" || strings.HasPrefix(s, "0 ") || strings.HasPrefix(s, "0,") {
			retVal.Comments = append(retVal.Comments, strings.TrimSpace(s[1:]))
			continue
		}

		if strings.HasPrefix(s, "$") {
			eqSignPos := strings.Index(s, "=")
			if eqSignPos == -1 {
				return nil, errors.New("problem with variable: " + s)
			}
			idx, err := strconv.Atoi(strings.TrimSpace(s[1:eqSignPos]))
			if err != nil || idx < 1 {
				return nil, errors.New("bad variable name: " + s)
			}
			expr, err := calculator.Compile(s[eqSignPos+1:])
			if err != nil {
				return nil, err
			}
			retVal.Instructions = append(retVal.Instructions,
				&AMVariable{Name: strings.TrimSpace(s[:eqSignPos]), Index: idx, Value: expr})
			continue
		}

		commaPos := strings.Index(s, ",")
		if commaPos == -1 {
			return nil, errors.New("bad aperture macro primitive: " + s)
		}
		primTypeI, err := strconv.Atoi(strings.TrimSpace(s[:commaPos]))
		if err != nil {
			return nil, errors.New("bad aperture macro primitive: " + s)
		}
		// an odd primitive type fix:
		if primTypeI == 2 {
			primTypeI = 20
		}
		primType := AMPrimitiveType(primTypeI)
		if _, ok := primitiveLayout[primType]; !ok {
			return nil, errors.New("unknown aperture macro primitive type " + strconv.Itoa(primTypeI))
		}
		modifiersArr := strings.Split(s[commaPos+1:], ",")
		prim := &AMPrimitive{PrimitiveType: primType, AMModifiers: make([]*calculator.Operand, len(modifiersArr))}
		for i := range modifiersArr {
			if prim.AMModifiers[i], err = calculator.Compile(modifiersArr[i]); err != nil {
				return nil, fmt.Errorf("macro %s: %w", name, err)
			}
		}
		retVal.Instructions = append(retVal.Instructions, prim)
	}
	return retVal, nil
}

// Instantiate evaluates the macro with the aperture parameters bound to $1..$n
// and returns the resulting outline, centered on the flash point.
func (am *ApertureMacro) Instantiate(params []float64, segments int) (polyclip.Polygon, error) {
	ctx := &macroContext{vars: make(calculator.Variables, len(params)), segments: segments}
	for i := range params {
		ctx.vars[i+1] = params[i]
	}
	for i := range am.Instructions {
		if err := am.Instructions[i].apply(ctx); err != nil {
			return nil, fmt.Errorf("macro %s: %w", am.Name, err)
		}
	}
	return ctx.shape, nil
}

/*
	auxiliary functions
*/

func ArrayInfo(inArray []*calculator.Operand, itemNames []string) string {

	// each step constructs the sub-string
	// \t%itemName% = %itemValue%\n
	retVal := ""

	var limIn int = len(inArray)
	var limIt int = len(itemNames)
	var i int = 0

	for i < limIn || i < limIt {
		subStr1 := "\t"
		if i < limIt {
			subStr1 = subStr1 + itemNames[i]
		} else {
			subStr1 = subStr1 + "<unnamed>"
		}

		subStr2 := " = "
		if i < limIn {
			subStr2 = subStr2 + inArray[i].String() + "\n"
		} else {
			subStr2 = subStr2 + "<empty>\n"
		}
		retVal = retVal + subStr1 + subStr2
		i++
	}
	return retVal
}
