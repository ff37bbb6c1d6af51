package regions

import (
	"testing"

	"github.com/akavel/polyclip-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion(t *testing.T) {
	region := NewRegion(3)
	assert.True(t, region.IsRegionOpened())

	region.Add(polyclip.Point{X: 0, Y: 0})
	region.Add(polyclip.Point{X: 0, Y: 0})
	region.Add(polyclip.Point{X: 1, Y: 0})
	region.Add(polyclip.Point{X: 1, Y: 1})
	assert.Equal(t, 3, region.Len())

	c := region.CloseContour()
	require.Len(t, c, 3)
	assert.Equal(t, 0, region.Len())

	// a lone move point is dropped
	region.Add(polyclip.Point{X: 5, Y: 5})
	assert.Nil(t, region.CloseContour())

	region.Add(polyclip.Point{X: 2, Y: 2})
	region.Add(polyclip.Point{X: 3, Y: 2})
	box := region.Box()
	assert.Equal(t, polyclip.Point{X: 0, Y: 0}, box.Min)
	assert.Equal(t, polyclip.Point{X: 3, Y: 2}, box.Max)

	contours, short := region.Close(10)
	assert.Equal(t, 0, short)
	assert.Len(t, contours, 2)
	assert.False(t, region.IsRegionOpened())
	assert.Equal(t, 10, region.G37StringNumber)
	t.Log(region.String())
}

func TestRegionShort(t *testing.T) {
	region := NewRegion(0)
	region.Add(polyclip.Point{X: 1, Y: 1})
	contours, short := region.Close(1)
	assert.Empty(t, contours)
	assert.Equal(t, 1, short)

	var none *Region
	assert.False(t, none.IsRegionOpened())
	assert.Equal(t, "<nil>", none.String())
}
