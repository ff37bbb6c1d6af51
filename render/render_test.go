package render

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/akavel/polyclip-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PLM-MPT/gerber-to-svg/apertures"
	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
	"github.com/PLM-MPT/gerber-to-svg/geometry"
	"github.com/PLM-MPT/gerber-to-svg/gerbparser"
	"github.com/PLM-MPT/gerber-to-svg/plotter"
)

const emptySVG = `<svg id="test-id" xmlns="http://www.w3.org/2000/svg" version="1.1" xmlns:xlink="http://www.w3.org/1999/xlink" stroke-linecap="round" stroke-linejoin="round" stroke-width="0" fill-rule="evenodd" width="0" height="0" viewBox="0 0 0 0"></svg>`

type fakeSource struct {
	prims []plotter.Primitive
	box   geometry.Box
	units Units
}

func (fs *fakeSource) Next() (plotter.Primitive, error) {
	if len(fs.prims) == 0 {
		return plotter.Primitive{}, io.EOF
	}
	retVal := fs.prims[0]
	fs.prims = fs.prims[1:]
	fs.box.AddBox(retVal.Box())
	return retVal, nil
}

func (fs *fakeSource) Box() geometry.Box { return fs.box }
func (fs *fakeSource) Units() Units      { return fs.units }

func renderAll(t *testing.T, src PrimitiveSource, opts Options) []string {
	t.Helper()
	r := NewRender(src, opts)
	var chunks []string
	for {
		chunk, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
	return chunks
}

func circle(t *testing.T, code int, dia string) *apertures.Aperture {
	t.Helper()
	def, err := apertures.ParseDefinition(fmt.Sprintf("D%dC,%s", code, dia))
	require.NoError(t, err)
	ap, err := apertures.New(def, nil, 0)
	require.NoError(t, err)
	return ap
}

func TestEmptyDocument(t *testing.T) {
	chunks := renderAll(t, &fakeSource{}, Options{ID: "test-id"})
	require.Len(t, chunks, 2)
	assert.Equal(t, emptySVG, strings.Join(chunks, ""))
}

func TestClassAndColor(t *testing.T) {
	chunks := renderAll(t, &fakeSource{}, Options{ID: "test-id", Class: "foo", Color: `"red"`})
	assert.Contains(t, chunks[0], `fill-rule="evenodd" class="foo" color="&#34;red&#34;" width="0"`)
}

func TestNum(t *testing.T) {
	assert.Equal(t, "1000", Num(1))
	assert.Equal(t, "0.1", Num(0.0001))
	assert.Equal(t, "0", Num(-0.0000001))
	assert.Equal(t, "-2540", Num(-2.54))
	assert.Equal(t, "1.235", Num(0.0012346))
}

func TestPadsAndStrokes(t *testing.T) {
	ap := circle(t, 10, "0.5")
	src := &fakeSource{units: UnitsMM, prims: []plotter.Primitive{
		{Kind: plotter.PrimPad, Polarity: PolTypeDark, Aperture: ap, Position: polyclip.Point{X: 1, Y: 1}},
		{Kind: plotter.PrimPad, Polarity: PolTypeDark, Aperture: ap, Position: polyclip.Point{X: 2, Y: 1}},
		{Kind: plotter.PrimStroke, Polarity: PolTypeDark, Width: 0.5, Points: []polyclip.Point{{X: 1, Y: 1}, {X: 2, Y: 1}}},
	}}
	doc := strings.Join(renderAll(t, src, Options{ID: "x"}), "")

	assert.Contains(t, doc, `width="1.5mm" height="0.5mm" viewBox="750 750 1500 500">`)
	assert.Contains(t, doc, `<defs><circle id="x_pad-10" cx="0" cy="0" r="250"/></defs>`)
	assert.Equal(t, 1, strings.Count(doc, `id="x_pad-10"`))
	assert.Contains(t, doc, `<g transform="translate(0,2000) scale(1,-1)" fill="currentColor" stroke="currentColor">`+
		`<use xlink:href="#x_pad-10" x="1000" y="1000"/><use xlink:href="#x_pad-10" x="2000" y="1000"/>`+
		`<path d="M1000 1000L2000 1000" fill="none" stroke-width="500"/></g></svg>`)
}

func TestClearPolarityMask(t *testing.T) {
	square := []polyclip.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	hole := []polyclip.Point{{X: 0.5, Y: 0.5}, {X: 1.5, Y: 0.5}, {X: 1.5, Y: 1.5}}
	src := &fakeSource{prims: []plotter.Primitive{
		{Kind: plotter.PrimRegion, Polarity: PolTypeDark, Points: square},
		{Kind: plotter.PrimRegion, Polarity: PolTypeClear, Points: hole},
		{Kind: plotter.PrimRegion, Polarity: PolTypeDark, Points: hole},
	}}
	doc := strings.Join(renderAll(t, src, Options{ID: "m"}), "")

	assert.Contains(t, doc, `<defs><mask id="m_clear-0" fill="#000" stroke="#000">`+
		`<rect x="0" y="0" width="2000" height="2000" fill="#fff"/>`+
		`<path d="M500 500L1500 500L1500 1500Z"/></mask></defs>`)
	assert.Contains(t, doc, `<g mask="url(#m_clear-0)"><path d="M0 0L2000 0L2000 2000L0 2000Z"/></g>`+
		`<path d="M500 500L1500 500L1500 1500Z"/></g></svg>`)
	assert.Contains(t, doc, `width="2in"`)
}

func TestClearWithoutDarkIsDropped(t *testing.T) {
	hole := []polyclip.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	src := &fakeSource{prims: []plotter.Primitive{
		{Kind: plotter.PrimRegion, Polarity: PolTypeClear, Points: hole},
	}}
	doc := strings.Join(renderAll(t, src, Options{ID: "m"}), "")
	assert.NotContains(t, doc, "mask")
	assert.NotContains(t, doc, "<path")
	assert.True(t, strings.HasSuffix(doc, `viewBox="0 0 1000 1000"></svg>`))
}

func TestRenderFromGerber(t *testing.T) {
	gerber := "%FSLAX24Y24*%\n%MOIN*%\n%ADD10R,1X0.5*%\n%ADD11C,0.2X0.1*%\nD10*\nX0Y0D03*\nD11*\nX20000Y0D03*\nM02*\n"
	p := gerbparser.NewParser(strings.NewReader(gerber), nil)
	pl := plotter.NewPlotter(p, nil, plotter.Config{})
	doc := strings.Join(renderAll(t, pl, Options{ID: "g"}), "")

	assert.Contains(t, doc, `<rect id="g_pad-10" x="-500" y="-250" width="1000" height="500"/>`)
	// the hole turns the circle into a path
	assert.Contains(t, doc, `<path id="g_pad-11" d="M100 0L`)
	assert.Contains(t, doc, `width="2.6in" height="0.5in" viewBox="-500 -250 2600 500"`)
}

func TestStorage(t *testing.T) {
	s := NewStorage()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.String())
	s.Accept("a")
	s.Accept("")
	s.Accept("b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "a", s.String())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "b", s.String())
	assert.Equal(t, "", s.String())
	assert.Equal(t, 0, s.Len())
}
