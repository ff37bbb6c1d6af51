/*
The file contains functions and structures used for step and repeat blocks
*/
package srblocks

import (
	"errors"
	"strconv"
	"strings"

	"github.com/akavel/polyclip-go"
)

/*
############################## step and repeat blocks #################################
*/
type SRBlock struct {
	srString string
	numX     int
	numY     int
	dX       float64
	dY       float64
	nSteps   int // number of primitives buffered in the block
}

func (srblock *SRBlock) String() string {
	if srblock == nil {
		return "<nil>"
	}
	return "SR " + srblock.srString + ": " + strconv.Itoa(srblock.numX) + "x" + strconv.Itoa(srblock.numY) +
		" copies, step " + strconv.FormatFloat(srblock.dX, 'f', -1, 64) + " by " + strconv.FormatFloat(srblock.dY, 'f', -1, 64)
}

func (srblock *SRBlock) NumX() int {
	return srblock.numX
}

func (srblock *SRBlock) NumY() int {
	return srblock.numY
}

func (srblock *SRBlock) DX() float64 {
	return srblock.dX
}

func (srblock *SRBlock) DY() float64 {
	return srblock.dY
}

func (srblock *SRBlock) NSteps() int {
	return srblock.nSteps
}

func (srblock *SRBlock) IncNSteps() {
	srblock.nSteps++
}

// Trivial is true for a 1x1 block, which is the same as no block at all.
func (srblock *SRBlock) Trivial() bool {
	return srblock.numX == 1 && srblock.numY == 1
}

// Init parses the body of a SR statement without the "SR" prefix, e.g. "X3Y2I5.0J4.0".
// I and J may be omitted when the matching count is 1.
func (srblock *SRBlock) Init(ins string) error {
	ins = strings.TrimSpace(ins)
	res, err := ExtractLetterDelimitedFloats(ins, "XYIJ")
	if err != nil {
		return err
	}
	x, xok := res['X']
	y, yok := res['Y']
	if !xok || !yok {
		return errors.New("SRBlock.Init: missing repeat count(s)")
	}
	srblock.numX = int(x)
	if srblock.numX < 1 {
		return errors.New("SRBlock.Init: X count < 1")
	}
	srblock.numY = int(y)
	if srblock.numY < 1 {
		return errors.New("SRBlock.Init: Y count < 1")
	}
	if _, ok := res['I']; !ok && srblock.numX > 1 {
		return errors.New("SRBlock.Init: missing I step")
	}
	if _, ok := res['J']; !ok && srblock.numY > 1 {
		return errors.New("SRBlock.Init: missing J step")
	}
	srblock.dX = res['I']
	srblock.dY = res['J']
	srblock.srString = ins
	return nil
}

// Offsets lists the displacement of every copy, row by row with X steps first.
// The first offset is always zero.
func (srblock *SRBlock) Offsets() []polyclip.Point {
	retVal := make([]polyclip.Point, 0, srblock.numX*srblock.numY)
	for iy := 0; iy < srblock.numY; iy++ {
		for ix := 0; ix < srblock.numX; ix++ {
			retVal = append(retVal, polyclip.Point{X: float64(ix) * srblock.dX, Y: float64(iy) * srblock.dY})
		}
	}
	return retVal
}

// ExtractLetterDelimitedFloats splits strings like "X3Y2I5.0J4.0" into a
// letter:value map. Letters come from template, in any order, each at most once.
func ExtractLetterDelimitedFloats(ins, template string) (map[byte]float64, error) {
	out := make(map[byte]float64)
	if len(ins) == 0 {
		return out, nil
	}
	if strings.IndexByte(template, ins[0]) == -1 {
		return nil, errors.New("unexpected " + strconv.Quote(ins) + ", expected one of " + template)
	}
	for start := 0; start < len(ins); {
		letter := ins[start]
		end := start + 1
		for end < len(ins) && strings.IndexByte(template, ins[end]) == -1 {
			end++
		}
		if _, dup := out[letter]; dup {
			return nil, errors.New("duplicate " + string(letter) + " in " + strconv.Quote(ins))
		}
		fv, err := strconv.ParseFloat(ins[start+1:end], 64)
		if err != nil {
			return nil, err
		}
		out[letter] = fv
		start = end
	}
	return out, nil
}
