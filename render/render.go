/*
Package render serializes plotter primitives into an SVG document.

The document is produced as a sequence of chunks: the opening <svg> tag, the
<defs> block, the body group and the closing tag. Coordinates are scaled by
1000 so that one document unit becomes 1000 user units.
*/
package render

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/akavel/polyclip-go"
	"github.com/golang/glog"
	"golang.org/x/net/html"

	"github.com/PLM-MPT/gerber-to-svg/apertures"
	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
	"github.com/PLM-MPT/gerber-to-svg/geometry"
	"github.com/PLM-MPT/gerber-to-svg/plotter"
)

const (
	// user units per document unit
	Scale = 1000.0
	// decimal places kept in the output
	precision = 3

	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"
)

// PrimitiveSource is implemented by *plotter.Plotter.
type PrimitiveSource interface {
	Next() (plotter.Primitive, error)
	Box() geometry.Box
	Units() Units
}

// Options are the attributes of the root element.
type Options struct {
	ID    string
	Class string
	Color string
}

type mask struct {
	id   string
	body string
}

/*
 ************************** Rendering context ****************************
 */
type Render struct {
	src  PrimitiveSource
	opts Options
	out  *Storage

	pads     map[int]bool
	padDefs  strings.Builder
	body     strings.Builder // dark content so far
	clearRun strings.Builder // consecutive clear primitives
	masks    []mask
	nMasks   int

	rendered bool
}

func NewRender(src PrimitiveSource, opts Options) *Render {
	return &Render{
		src:  src,
		opts: opts,
		out:  NewStorage(),
		pads: make(map[int]bool),
	}
}

// Next returns the next chunk of the document, io.EOF after the closing tag.
// The first call consumes all primitives, the header needs the final box.
func (r *Render) Next() (string, error) {
	if !r.rendered {
		if err := r.render(); err != nil {
			return "", err
		}
		r.rendered = true
	}
	if r.out.Len() == 0 {
		return "", io.EOF
	}
	return r.out.String(), nil
}

func (r *Render) render() error {
	n := 0
	for {
		prim, err := r.src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		r.add(&prim)
		n++
	}
	r.closeClearRun()

	box := r.src.Box()
	r.out.Accept(r.header(box))
	r.out.Accept(r.defs(box))
	if r.body.Len() > 0 {
		r.out.Accept(`<g transform="translate(0,` + Num(box.Min.Y+box.Max.Y) + `) scale(1,-1)" fill="currentColor" stroke="currentColor">` +
			r.body.String() + "</g>")
	}
	r.out.Accept("</svg>")
	if glog.V(2) {
		glog.Infof("render: %d primitives, %d masks, %s", n, len(r.masks), box.String())
	}
	return nil
}

func (r *Render) add(prim *plotter.Primitive) {
	if prim.Kind == plotter.PrimPad {
		r.definePad(prim.Aperture)
	}
	if prim.Polarity == PolTypeClear {
		r.clearRun.WriteString(r.element(prim))
		return
	}
	r.closeClearRun()
	r.body.WriteString(r.element(prim))
}

// closeClearRun turns the pending clear primitives into a mask over the dark
// content drawn so far.
func (r *Render) closeClearRun() {
	if r.clearRun.Len() == 0 {
		return
	}
	run := r.clearRun.String()
	r.clearRun.Reset()
	if r.body.Len() == 0 {
		// nothing to clear
		return
	}
	id := r.opts.ID + "_clear-" + strconv.Itoa(r.nMasks)
	r.nMasks++
	r.masks = append(r.masks, mask{id: id, body: run})
	dark := r.body.String()
	r.body.Reset()
	r.body.WriteString(`<g mask="url(#` + attr(id) + `)">` + dark + "</g>")
}

func (r *Render) header(box geometry.Box) string {
	var sb strings.Builder
	sb.WriteString(`<svg id="` + attr(r.opts.ID) + `" xmlns="` + svgNS + `" version="1.1" xmlns:xlink="` + xlinkNS + `"`)
	sb.WriteString(` stroke-linecap="round" stroke-linejoin="round" stroke-width="0" fill-rule="evenodd"`)
	if r.opts.Class != "" {
		sb.WriteString(` class="` + attr(r.opts.Class) + `"`)
	}
	if r.opts.Color != "" {
		sb.WriteString(` color="` + attr(r.opts.Color) + `"`)
	}
	if box.Empty() {
		sb.WriteString(` width="0" height="0" viewBox="0 0 0 0">`)
		return sb.String()
	}
	units := r.src.Units()
	if units == 0 {
		units = UnitsInch
	}
	sb.WriteString(` width="` + trim(box.Width()) + units.String() + `" height="` + trim(box.Height()) + units.String() + `"`)
	sb.WriteString(` viewBox="` + Num(box.Min.X) + " " + Num(box.Min.Y) + " " + Num(box.Width()) + " " + Num(box.Height()) + `">`)
	return sb.String()
}

func (r *Render) defs(box geometry.Box) string {
	if r.padDefs.Len() == 0 && len(r.masks) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<defs>")
	sb.WriteString(r.padDefs.String())
	for _, m := range r.masks {
		sb.WriteString(`<mask id="` + attr(m.id) + `" fill="#000" stroke="#000">`)
		sb.WriteString(`<rect x="` + Num(box.Min.X) + `" y="` + Num(box.Min.Y) + `" width="` + Num(box.Width()) +
			`" height="` + Num(box.Height()) + `" fill="#fff"/>`)
		sb.WriteString(m.body)
		sb.WriteString("</mask>")
	}
	sb.WriteString("</defs>")
	return sb.String()
}

/*
 ************************** elements ****************************
 */

func (r *Render) padID(code int) string {
	return r.opts.ID + "_pad-" + strconv.Itoa(code)
}

// definePad adds the shape of the aperture to the defs on its first use.
func (r *Render) definePad(ap *apertures.Aperture) {
	if r.pads[ap.Code] {
		return
	}
	r.pads[ap.Code] = true
	id := `id="` + attr(r.padID(ap.Code)) + `"`
	hole := ap.HoleDiameter > 0
	switch {
	case ap.Type == AptypeCircle && !hole:
		r.padDefs.WriteString(`<circle ` + id + ` cx="0" cy="0" r="` + Num(ap.Diameter/2) + `"/>`)
	case ap.Type == AptypeRectangle && !hole:
		r.padDefs.WriteString(`<rect ` + id + ` x="` + Num(-ap.XSize/2) + `" y="` + Num(-ap.YSize/2) +
			`" width="` + Num(ap.XSize) + `" height="` + Num(ap.YSize) + `"/>`)
	case ap.Type == AptypeObround && !hole:
		rad := math.Min(ap.XSize, ap.YSize) / 2
		r.padDefs.WriteString(`<rect ` + id + ` x="` + Num(-ap.XSize/2) + `" y="` + Num(-ap.YSize/2) +
			`" width="` + Num(ap.XSize) + `" height="` + Num(ap.YSize) + `" rx="` + Num(rad) + `" ry="` + Num(rad) + `"/>`)
	case ap.Type == AptypePoly && !hole && len(ap.Outline) == 1:
		r.padDefs.WriteString(`<polygon ` + id + ` points="` + pointList(ap.Outline[0]) + `"/>`)
	default:
		r.padDefs.WriteString(`<path ` + id + ` d="` + polygonPath(ap.Outline) + `"/>`)
	}
}

func (r *Render) element(prim *plotter.Primitive) string {
	switch prim.Kind {
	case plotter.PrimPad:
		return `<use xlink:href="#` + attr(r.padID(prim.Aperture.Code)) + `" x="` + Num(prim.Position.X) +
			`" y="` + Num(prim.Position.Y) + `"/>`
	case plotter.PrimStroke:
		return `<path d="` + polylinePath(prim.Points, false) + `" fill="none" stroke-width="` + Num(prim.Width) + `"/>`
	case plotter.PrimRegion:
		return `<path d="` + polylinePath(prim.Points, true) + `"/>`
	}
	return ""
}

/*
 ************************** number and path formatting ****************************
 */

// Num scales a document coordinate to user units.
func Num(v float64) string {
	return trim(v * Scale)
}

// trim rounds to the output precision and never prints "-0".
func trim(v float64) string {
	p := math.Pow(10, precision)
	v = math.Round(v*p) / p
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pointList(c polyclip.Contour) string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = Num(p.X) + "," + Num(p.Y)
	}
	return strings.Join(parts, " ")
}

func polylinePath(points []polyclip.Point, closed bool) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}
		sb.WriteString(Num(p.X) + " " + Num(p.Y))
	}
	if closed && len(points) > 0 {
		sb.WriteByte('Z')
	}
	return sb.String()
}

func polygonPath(poly polyclip.Polygon) string {
	var sb strings.Builder
	for _, c := range poly {
		sb.WriteString(polylinePath(c, true))
	}
	return sb.String()
}

func attr(s string) string {
	return html.EscapeString(s)
}
