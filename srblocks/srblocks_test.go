package srblocks

import (
	"testing"

	"github.com/akavel/polyclip-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLetterDelimitedFloats(t *testing.T) {
	res, err := ExtractLetterDelimitedFloats("Y2X3J4.5I-1", "XYIJ")
	require.NoError(t, err)
	assert.Equal(t, map[byte]float64{'X': 3, 'Y': 2, 'I': -1, 'J': 4.5}, res)

	res, err = ExtractLetterDelimitedFloats("X1Y1", "XYIJ")
	require.NoError(t, err)
	assert.Equal(t, map[byte]float64{'X': 1, 'Y': 1}, res)

	_, err = ExtractLetterDelimitedFloats("X1Yq", "XYIJ")
	assert.Error(t, err)
	_, err = ExtractLetterDelimitedFloats("1X1", "XYIJ")
	assert.Error(t, err)
	_, err = ExtractLetterDelimitedFloats("X1X2", "XYIJ")
	assert.Error(t, err)
}

func TestSRBlockInit(t *testing.T) {
	var sr SRBlock
	require.NoError(t, sr.Init("X3Y2I5.0J4.0"))
	assert.Equal(t, 3, sr.NumX())
	assert.Equal(t, 2, sr.NumY())
	assert.Equal(t, 5.0, sr.DX())
	assert.Equal(t, 4.0, sr.DY())
	assert.False(t, sr.Trivial())
	t.Log(sr.String())

	assert.Equal(t, []polyclip.Point{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0},
		{X: 0, Y: 4}, {X: 5, Y: 4}, {X: 10, Y: 4},
	}, sr.Offsets())

	var one SRBlock
	require.NoError(t, one.Init("X1Y1"))
	assert.True(t, one.Trivial())
	assert.Equal(t, []polyclip.Point{{}}, one.Offsets())

	for _, bad := range []string{"X0Y1", "X2Y1", "Y2", "X1Y2I1", "garbage"} {
		var b SRBlock
		assert.Error(t, b.Init(bad), bad)
	}
}
