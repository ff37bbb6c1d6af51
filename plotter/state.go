/*
################################## State machine ######################################
*/
package plotter

import (
	"strconv"

	"github.com/akavel/polyclip-go"

	"github.com/PLM-MPT/gerber-to-svg/apertures"
	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
	"github.com/PLM-MPT/gerber-to-svg/geometry"
	"github.com/PLM-MPT/gerber-to-svg/gerbparser"
	"github.com/PLM-MPT/gerber-to-svg/regions"
	"github.com/PLM-MPT/gerber-to-svg/srblocks"
)

/*
	The State object holds the graphics state carried from one command to the next.
*/
type State struct {
	StepNumber int     // number of commands processed
	Polarity   PolType // %LPD*% or %LPC*%
	QMode      QuadMode
	CurrentAp  *apertures.Aperture
	IpMode     IPmode // interpolation mode
	Point      polyclip.Point
	Region     *regions.Region
	SRBlock    *srblocks.SRBlock

	// the last aperture selection referred to an undefined code
	badSelect bool
	// primitives of the open step and repeat block
	srBuffer []Primitive
}

// creates and initializes the state with default values
func NewState() *State {
	state := new(State)
	state.Polarity = PolTypeDark
	state.IpMode = IPModeLinear
	return state
}

// diagnostic dump
func (step *State) String() string {
	apText := "<nil>"
	if step.CurrentAp != nil {
		apText = step.CurrentAp.String()
	}
	return "Step#" + strconv.Itoa(step.StepNumber) + "\n" +
		"\t" + step.Polarity.String() + "\n" +
		"\t" + step.QMode.String() + "\n" +
		"\t" + step.IpMode.String() + "\n" +
		"\tAperture " + apText + "\n" +
		"\t" + step.Region.String() + "\n" +
		"\t" + step.SRBlock.String() + "\n" +
		"\tCurrent point: " + geometry.FormatPoint(step.Point)
}

// Target resolves the coordinate data of an operation: missing axes keep the
// current value, incremental data is added to the current point.
func (step *State) Target(cmd *gerbparser.Command) polyclip.Point {
	retVal := step.Point
	if cmd.Coord == nil {
		return retVal
	}
	if cmd.Incremental {
		retVal.X += cmd.Coord.GetX()
		retVal.Y += cmd.Coord.GetY()
		return retVal
	}
	if cmd.Coord.HasX() {
		retVal.X = cmd.Coord.GetX()
	}
	if cmd.Coord.HasY() {
		retVal.Y = cmd.Coord.GetY()
	}
	return retVal
}

// Offset returns the I and J values of the operation.
func (step *State) Offset(cmd *gerbparser.Command) polyclip.Point {
	if cmd.Coord == nil {
		return polyclip.Point{}
	}
	return polyclip.Point{X: cmd.Coord.GetI(), Y: cmd.Coord.GetJ()}
}
