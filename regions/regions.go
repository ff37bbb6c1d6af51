package regions

import (
	"strconv"

	"github.com/akavel/polyclip-go"

	"github.com/PLM-MPT/gerber-to-svg/geometry"
)

/*####################  regions ##################################
 */
type Region struct {
	contour         polyclip.Contour // contour under construction
	closed          []polyclip.Contour
	G36StringNumber int // number of the string with G36 cmd
	G37StringNumber int // number of the string with G37 cmd
}

func (region *Region) String() string {
	if region == nil {
		return "<nil>"
	}
	return "Region:\n" +
		"\t\tcontains " + strconv.Itoa(len(region.closed)) + " closed contours\n" +
		"\t\tcurrent contour has " + strconv.Itoa(len(region.contour)) + " vertices\n" +
		"\t\tG36 command is at line " + strconv.Itoa(region.G36StringNumber) + "\n" +
		"\t\tG37 command is at line " + strconv.Itoa(region.G37StringNumber)
}

// creates and initialises a region object
func NewRegion(strNum int) *Region {
	retVal := new(Region)
	retVal.G36StringNumber = strNum
	retVal.G37StringNumber = -1
	return retVal
}

// Add appends a vertex; a repeat of the last vertex is skipped.
func (region *Region) Add(p polyclip.Point) {
	if n := len(region.contour); n > 0 && region.contour[n-1] == p {
		return
	}
	region.contour = append(region.contour, p)
}

// Len is the number of vertices of the current contour.
func (region *Region) Len() int {
	return len(region.contour)
}

// CloseContour finishes the current contour and starts a new one. It returns
// the finished contour; nil means it was too short and has been dropped.
func (region *Region) CloseContour() polyclip.Contour {
	c := region.contour
	region.contour = nil
	if len(c) < 2 {
		return nil
	}
	region.closed = append(region.closed, c)
	return c
}

// Close ends the region at line strnum and returns its contours. A contour
// with fewer than 2 vertices is reported by short.
func (region *Region) Close(strnum int) (contours []polyclip.Contour, short int) {
	region.G37StringNumber = strnum
	if len(region.contour) > 0 {
		if region.CloseContour() == nil {
			short++
		}
	}
	return region.closed, short
}

// returns true if region is opened
func (region *Region) IsRegionOpened() bool {
	return region != nil && region.G37StringNumber == -1
}

// Box returns the extents of all vertices collected so far.
func (region *Region) Box() geometry.Box {
	var retVal geometry.Box
	for _, c := range region.closed {
		for _, p := range c {
			retVal.AddPoint(p)
		}
	}
	for _, p := range region.contour {
		retVal.AddPoint(p)
	}
	return retVal
}
