package apertures

import (
	"testing"

	"github.com/akavel/polyclip-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PLM-MPT/gerber-to-svg/amprocessor"
	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
)

func TestParseDefinition(t *testing.T) {
	var testData = []struct {
		body string
		want Definition
	}{
		{"D10C,0.5", Definition{10, "C", []float64{0.5}}},
		{"D11R,0.5X0.25X0.1", Definition{11, "R", []float64{0.5, 0.25, 0.1}}},
		{"D123THERMAL80,1.0X0.5", Definition{123, "THERMAL80", []float64{1.0, 0.5}}},
		{"D20MACRO", Definition{20, "MACRO", nil}},
	}
	for _, td := range testData {
		got, err := ParseDefinition(td.body)
		require.NoError(t, err, td.body)
		if diff := cmp.Diff(td.want, got); diff != "" {
			t.Errorf("ParseDefinition(%q) mismatch (-want +got):\n%s", td.body, diff)
		}
	}

	for _, body := range []string{"C,0.5", "D5C,0.5", "D10", "D10C,abc", "DxC"} {
		_, err := ParseDefinition(body)
		assert.Error(t, err, body)
	}
}

func TestNewStandard(t *testing.T) {
	var testData = []struct {
		def      Definition
		apType   GerberApType
		min, max polyclip.Point
	}{
		{Definition{10, "C", []float64{1}}, AptypeCircle, polyclip.Point{X: -0.5, Y: -0.5}, polyclip.Point{X: 0.5, Y: 0.5}},
		{Definition{11, "R", []float64{2, 1}}, AptypeRectangle, polyclip.Point{X: -1, Y: -0.5}, polyclip.Point{X: 1, Y: 0.5}},
		{Definition{12, "O", []float64{2, 1, 0.2}}, AptypeObround, polyclip.Point{X: -1, Y: -0.5}, polyclip.Point{X: 1, Y: 0.5}},
	}
	for _, td := range testData {
		ap, err := New(td.def, nil, 72)
		require.NoError(t, err)
		assert.Equal(t, td.apType, ap.Type)
		assert.Equal(t, td.min, ap.Bounds.Min)
		assert.Equal(t, td.max, ap.Bounds.Max)
		t.Log(ap.String())
	}

	ap, err := New(Definition{13, "P", []float64{2, 4, 45, 0.5}}, nil, 72)
	require.NoError(t, err)
	assert.Equal(t, 4, ap.Vertices)
	assert.Equal(t, 0.5, ap.HoleDiameter)
	assert.Len(t, ap.Outline, 2)
	assert.InDelta(t, 0.7071, ap.Bounds.Max.X, 1e-4)

	c, err := New(Definition{14, "C", []float64{0.3}}, nil, 72)
	require.NoError(t, err)
	assert.Equal(t, 0.3, c.StrokeWidth())
	r, err := New(Definition{15, "R", []float64{0.3, 0.3}}, nil, 72)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.StrokeWidth())
}

func TestNewErrors(t *testing.T) {
	for _, def := range []Definition{
		{10, "C", nil},
		{10, "C", []float64{1, 2, 3}},
		{10, "R", []float64{1}},
		{10, "C", []float64{-1}},
		{10, "P", []float64{1, 2}},
		{10, "UNDEFINED", []float64{1}},
	} {
		_, err := New(def, nil, 72)
		assert.Error(t, err, def.Template)
	}
}

func TestNewMacro(t *testing.T) {
	am, err := amprocessor.NewApertureMacro("BOX", []string{"21,1,$1,$2,0,0,0"})
	require.NoError(t, err)
	macros := map[string]*amprocessor.ApertureMacro{"BOX": am}
	ap, err := New(Definition{20, "BOX", []float64{4, 2}}, macros, 72)
	require.NoError(t, err)
	assert.Equal(t, AptypeMacro, ap.Type)
	assert.Equal(t, "BOX", ap.MacroName)
	assert.Equal(t, polyclip.Point{X: -2, Y: -1}, ap.Bounds.Min)
	assert.Equal(t, polyclip.Point{X: 2, Y: 1}, ap.Bounds.Max)
}

func TestPolygonRotation(t *testing.T) {
	def, err := ParseDefinition("D10P,1X6X-30")
	require.NoError(t, err)
	ap, err := New(def, nil, 72)
	require.NoError(t, err)
	assert.Equal(t, -30.0, ap.RotAngle)
	assert.Equal(t, 6, ap.Vertices)

	_, err = New(Definition{11, "P", []float64{1, 6, -30, -0.2}}, nil, 72)
	assert.Error(t, err)
	_, err = New(Definition{12, "O", []float64{1, 1, -0.2}}, nil, 72)
	assert.Error(t, err)
}
