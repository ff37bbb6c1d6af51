package amprocessor

import (
	"testing"

	"github.com/akavel/polyclip-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

func assertBounds(t *testing.T, poly polyclip.Polygon, minX, minY, maxX, maxY float64) {
	t.Helper()
	require.NotEmpty(t, poly)
	bb := poly.BoundingBox()
	assert.InDelta(t, minX, bb.Min.X, eps)
	assert.InDelta(t, minY, bb.Min.Y, eps)
	assert.InDelta(t, maxX, bb.Max.X, eps)
	assert.InDelta(t, maxY, bb.Max.Y, eps)
}

func TestNewApertureMacro(t *testing.T) {
	am, err := NewApertureMacro("DONUT", []string{"0 donut with a hole", "1,1,$1,0,0", "1,0,$2,0,0"})
	require.NoError(t, err)
	assert.Equal(t, "DONUT", am.Name)
	assert.Equal(t, []string{"donut with a hole"}, am.Comments)
	require.Len(t, am.Instructions, 2)
	t.Log(am.String())

	poly, err := am.Instantiate([]float64{1, 0.5}, 72)
	require.NoError(t, err)
	assertBounds(t, poly, -0.5, -0.5, 0.5, 0.5)
	// outer ring and the hole
	assert.Len(t, poly, 2)
}

func TestMacroVariables(t *testing.T) {
	am, err := NewApertureMacro("VAR", []string{"$3=$1x2", "1,1,$3,$2,0"})
	require.NoError(t, err)
	poly, err := am.Instantiate([]float64{1, 5}, 72)
	require.NoError(t, err)
	assertBounds(t, poly, 4, -1, 6, 1)
}

func TestMacroPrimitives(t *testing.T) {
	var testData = []struct {
		name                   string
		body                   []string
		minX, minY, maxX, maxY float64
	}{
		{"center line rotated", []string{"21,1,1,2,0,0,90"}, -1, -0.5, 1, 0.5},
		{"lower left line", []string{"22,1,2,1,0,0,0"}, 0, 0, 2, 1},
		{"vector line", []string{"20,1,0.2,0,0,1,0,0"}, 0, -0.1, 1, 0.1},
		{"old vector line code", []string{"2,1,0.2,0,0,1,0,0"}, 0, -0.1, 1, 0.1},
		{"outline", []string{"4,1,3,0,0,1,0,1,1,0,0,0"}, 0, 0, 1, 1},
		{"polygon", []string{"5,1,4,0,0,2,0"}, -1, -1, 1, 1},
		{"thermal", []string{"7,0,0,2,1,0.2,45"}, -1, -1, 1, 1},
		{"moire", []string{"6,0,0,2,0.2,0.2,3,0.1,3,0"}, -1.5, -1.5, 1.5, 1.5},
		{"clear part outside", []string{"21,1,2,2,0,0,0", "21,0,1,3,1,0,0"}, -1, -1, 0.5, 1},
	}
	for _, td := range testData {
		am, err := NewApertureMacro("M", td.body)
		require.NoError(t, err, td.name)
		poly, err := am.Instantiate(nil, 72)
		require.NoError(t, err, td.name)
		t.Log(td.name)
		assertBounds(t, poly, td.minX, td.minY, td.maxX, td.maxY)
	}
}

func TestMacroErrors(t *testing.T) {
	_, err := NewApertureMacro("", []string{"1,1,1,0,0"})
	assert.Error(t, err)
	_, err = NewApertureMacro("M", []string{"9,1,1"})
	assert.Error(t, err)
	_, err = NewApertureMacro("M", []string{"$1"})
	assert.Error(t, err)
	_, err = NewApertureMacro("M", []string{"1,1,(1,0,0"})
	assert.Error(t, err)

	am, err := NewApertureMacro("M", []string{"1,1,1"})
	require.NoError(t, err)
	_, err = am.Instantiate(nil, 72)
	assert.Error(t, err)

	am, err = NewApertureMacro("M", []string{"4,1,5,0,0,1,1"})
	require.NoError(t, err)
	_, err = am.Instantiate(nil, 72)
	assert.Error(t, err)
}

func TestMacroDivisionByZero(t *testing.T) {
	am, err := NewApertureMacro("Z", []string{"$3=$1/$2", "1,1,$3,0,0"})
	require.NoError(t, err)
	_, err = am.Instantiate([]float64{1, 0}, 72)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modifier 2")

	poly, err := am.Instantiate([]float64{1, 2}, 72)
	require.NoError(t, err)
	assert.Len(t, poly, 1)
}
