/*
 Interprets the command stream and generates drawing primitives
*/
package plotter

import (
	"fmt"
	"io"
	"math"

	"github.com/akavel/polyclip-go"
	"github.com/golang/glog"

	"github.com/PLM-MPT/gerber-to-svg/amprocessor"
	"github.com/PLM-MPT/gerber-to-svg/apertures"
	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
	"github.com/PLM-MPT/gerber-to-svg/geometry"
	"github.com/PLM-MPT/gerber-to-svg/gerbparser"
	"github.com/PLM-MPT/gerber-to-svg/regions"
)

const (
	// relative difference of start and end radius accepted for an arc
	arcRadiusTolerance = 0.02
	// coordinates closer than this are the same point
	pointTolerance = 1e-9
)

// CommandSource is implemented by *gerbparser.Parser.
type CommandSource interface {
	Next() (gerbparser.Command, error)
}

type Config struct {
	ArcSegments int // chords per full circle
}

// Plotter pulls commands and produces primitives on demand.
type Plotter struct {
	src   CommandSource
	sink  WarningSink
	cfg   Config
	state *State

	apertures map[int]*apertures.Aperture
	macros    map[string]*amprocessor.ApertureMacro

	out      []Primitive
	box      geometry.Box
	units    Units
	lastLine int
	done     bool

	warnedNoAperture bool
	warnedQuadMode   bool
}

func NewPlotter(src CommandSource, sink WarningSink, cfg Config) *Plotter {
	if sink == nil {
		sink = Discard
	}
	if cfg.ArcSegments < 3 {
		cfg.ArcSegments = geometry.DefaultArcSegments
	}
	return &Plotter{
		src:       src,
		sink:      sink,
		cfg:       cfg,
		state:     NewState(),
		apertures: make(map[int]*apertures.Aperture),
		macros:    make(map[string]*amprocessor.ApertureMacro),
	}
}

// Box is the bounding box of the primitives returned so far.
func (pl *Plotter) Box() geometry.Box {
	return pl.box
}

// Units of the document, zero when the input never declared or used any.
func (pl *Plotter) Units() Units {
	return pl.units
}

func (pl *Plotter) warn(line int, format string, args ...interface{}) {
	pl.sink.Warn(Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

// Next returns the next primitive, or io.EOF when the input is exhausted.
func (pl *Plotter) Next() (Primitive, error) {
	for len(pl.out) == 0 {
		if pl.done {
			return Primitive{}, io.EOF
		}
		cmd, err := pl.src.Next()
		if err == io.EOF {
			pl.finish(pl.lastLine)
			continue
		}
		if err != nil {
			return Primitive{}, err
		}
		pl.lastLine = cmd.Line
		pl.execute(&cmd)
	}
	retVal := pl.out[0]
	pl.out = pl.out[1:]
	pl.box.AddBox(retVal.Box())
	return retVal, nil
}

func (pl *Plotter) emit(prim Primitive) {
	if glog.V(3) {
		glog.Infof("plotter: %s", prim.String())
	}
	if pl.state.SRBlock != nil {
		pl.state.srBuffer = append(pl.state.srBuffer, prim)
		pl.state.SRBlock.IncNSteps()
		return
	}
	pl.out = append(pl.out, prim)
}

func (pl *Plotter) execute(cmd *gerbparser.Command) {
	st := pl.state
	st.StepNumber++
	switch cmd.Kind {
	case gerbparser.CmdFormat, gerbparser.CmdNotation:
		// already applied by the parser
	case gerbparser.CmdUnits:
		pl.units = cmd.Units
	case gerbparser.CmdApertureDef:
		pl.defineAperture(cmd)
	case gerbparser.CmdMacroDef:
		if _, ok := pl.macros[cmd.Macro.Name]; ok {
			pl.warn(cmd.Line, "aperture macro %s redefined, the first definition is kept", cmd.Macro.Name)
			return
		}
		pl.macros[cmd.Macro.Name] = cmd.Macro
		if glog.V(2) {
			glog.Infof("plotter: line %d: %s", cmd.Line, cmd.Macro.String())
		}
	case gerbparser.CmdPolarity:
		st.Polarity = cmd.Polarity
	case gerbparser.CmdStepRepeat:
		pl.flushStepRepeat()
		st.SRBlock = cmd.StepRepeat
	case gerbparser.CmdSelectAperture:
		ap, ok := pl.apertures[cmd.ApertureCode]
		if !ok {
			pl.warn(cmd.Line, "aperture D%d is not defined", cmd.ApertureCode)
			st.CurrentAp = nil
			st.badSelect = true
			return
		}
		st.CurrentAp = ap
		st.badSelect = false
	case gerbparser.CmdInterpMode:
		st.IpMode = cmd.IPMode
	case gerbparser.CmdQuadMode:
		st.QMode = cmd.QuadMode
	case gerbparser.CmdRegionStart:
		if st.Region.IsRegionOpened() {
			pl.warn(cmd.Line, "region start inside an open region")
			return
		}
		st.Region = regions.NewRegion(cmd.Line)
	case gerbparser.CmdRegionEnd:
		if !st.Region.IsRegionOpened() {
			pl.warn(cmd.Line, "region end without region start")
			return
		}
		pl.closeRegion(cmd.Line)
	case gerbparser.CmdMove:
		to := st.Target(cmd)
		if st.Region.IsRegionOpened() {
			st.Region.CloseContour()
		}
		st.Point = to
	case gerbparser.CmdInterpolate:
		pl.interpolate(cmd)
	case gerbparser.CmdFlash:
		pl.flash(cmd)
	case gerbparser.CmdStop:
		pl.finish(cmd.Line)
	}
}

func (pl *Plotter) defineAperture(cmd *gerbparser.Command) {
	if _, ok := pl.apertures[cmd.Aperture.Code]; ok {
		pl.warn(cmd.Line, "aperture D%d redefined, the first definition is kept", cmd.Aperture.Code)
		return
	}
	ap, err := apertures.New(cmd.Aperture, pl.macros, pl.cfg.ArcSegments)
	if err != nil {
		pl.warn(cmd.Line, "%v", err)
		return
	}
	pl.apertures[ap.Code] = ap
	if glog.V(2) {
		glog.Infof("plotter: line %d: %s", cmd.Line, ap.String())
	}
}

// aperture returns the active aperture; the caller skips the operation on nil.
func (pl *Plotter) aperture(line int) *apertures.Aperture {
	st := pl.state
	if st.CurrentAp == nil && !st.badSelect && !pl.warnedNoAperture {
		// one warning, the failed selection has already been reported
		pl.warnedNoAperture = true
		pl.warn(line, "no aperture selected")
	}
	return st.CurrentAp
}

func (pl *Plotter) flash(cmd *gerbparser.Command) {
	st := pl.state
	st.Point = st.Target(cmd)
	if st.Region.IsRegionOpened() {
		pl.warn(cmd.Line, "flash inside a region is ignored")
		return
	}
	ap := pl.aperture(cmd.Line)
	if ap == nil {
		return
	}
	pl.emit(Primitive{Kind: PrimPad, Line: cmd.Line, Polarity: st.Polarity, Aperture: ap, Position: st.Point})
}

func (pl *Plotter) interpolate(cmd *gerbparser.Command) {
	st := pl.state
	from := st.Point
	to := st.Target(cmd)
	st.Point = to

	var path []polyclip.Point
	arc := st.IpMode == IPModeCwC || st.IpMode == IPModeCCwC
	if arc {
		pts, ok := pl.arcPoints(cmd, from, to)
		if !ok {
			if !st.Region.IsRegionOpened() {
				return
			}
			// the contour goes on straight
			pts = []polyclip.Point{to}
		}
		path = pts
	} else {
		path = []polyclip.Point{to}
	}

	if st.Region.IsRegionOpened() {
		if st.Region.Len() == 0 {
			st.Region.Add(from)
		}
		for _, p := range path {
			st.Region.Add(p)
		}
		return
	}

	ap := pl.aperture(cmd.Line)
	if ap == nil {
		return
	}
	switch {
	case ap.Type == AptypeCircle:
		pl.emit(Primitive{
			Kind:     PrimStroke,
			Line:     cmd.Line,
			Polarity: st.Polarity,
			Points:   append([]polyclip.Point{from}, path...),
			Width:    ap.StrokeWidth(),
		})
	case ap.Type == AptypeRectangle && !arc:
		var corners []polyclip.Point
		for _, c := range []polyclip.Point{from, to} {
			corners = append(corners, geometry.RectContour(c, ap.XSize, ap.YSize)...)
		}
		pl.emit(Primitive{
			Kind:     PrimRegion,
			Line:     cmd.Line,
			Polarity: st.Polarity,
			Points:   geometry.ConvexHull(corners),
		})
	default:
		what := "line"
		if arc {
			what = "arc"
		}
		pl.warn(cmd.Line, "can not draw %s with %s D%d", what, ap.Type, ap.Code)
	}
}

// arcPoints finds the arc center and tessellates the arc. The points exclude
// from and end exactly at to.
func (pl *Plotter) arcPoints(cmd *gerbparser.Command, from, to polyclip.Point) ([]polyclip.Point, bool) {
	st := pl.state
	cw := st.IpMode == IPModeCwC
	if st.QMode == 0 {
		if !pl.warnedQuadMode {
			pl.warnedQuadMode = true
			pl.warn(cmd.Line, "quadrant mode not set, assuming single quadrant")
		}
		st.QMode = QuadModeSingle
	}
	off := st.Offset(cmd)

	var center polyclip.Point
	if st.QMode == QuadModeMulti {
		center = polyclip.Point{X: from.X + off.X, Y: from.Y + off.Y}
	} else {
		found := false
		bestErr := math.Inf(1)
		for _, sign := range [4][2]float64{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
			c := polyclip.Point{X: from.X + sign[0]*math.Abs(off.X), Y: from.Y + sign[1]*math.Abs(off.Y)}
			sweep := geometry.ArcSweep(from, to, c, cw, pointTolerance)
			if sweep > math.Pi/2+1e-7 {
				continue
			}
			e := math.Abs(math.Hypot(from.X-c.X, from.Y-c.Y) - math.Hypot(to.X-c.X, to.Y-c.Y))
			if e < bestErr {
				bestErr, center, found = e, c, true
			}
		}
		if !found {
			pl.warn(cmd.Line, "malformed arc: no center gives a single quadrant arc")
			return nil, false
		}
	}

	r0 := math.Hypot(from.X-center.X, from.Y-center.Y)
	r1 := math.Hypot(to.X-center.X, to.Y-center.Y)
	if r0 <= pointTolerance || math.Abs(r0-r1) > arcRadiusTolerance*math.Max(r0, r1) {
		pl.warn(cmd.Line, "malformed arc: start radius %g, end radius %g", r0, r1)
		return nil, false
	}
	return geometry.ArcPoints(from, to, center, cw, pl.cfg.ArcSegments, pointTolerance), true
}

func (pl *Plotter) closeRegion(line int) {
	st := pl.state
	contours, short := st.Region.Close(line)
	if short > 0 || len(contours) == 0 {
		pl.warn(line, "region with fewer than 2 points is dropped")
	}
	for _, c := range contours {
		pl.emit(Primitive{Kind: PrimRegion, Line: line, Polarity: st.Polarity, Points: c})
	}
	st.Region = nil
}

// flushStepRepeat emits the copies of the buffered primitives.
func (pl *Plotter) flushStepRepeat() {
	st := pl.state
	sr := st.SRBlock
	if sr == nil {
		return
	}
	buf := st.srBuffer
	st.SRBlock, st.srBuffer = nil, nil
	if glog.V(2) {
		glog.Infof("plotter: %s, %d primitives per copy", sr.String(), sr.NSteps())
	}
	for _, off := range sr.Offsets() {
		for i := range buf {
			pl.emit(buf[i].Translated(off))
		}
	}
}

// finish ends plotting at a stop command or at the end of input.
func (pl *Plotter) finish(line int) {
	st := pl.state
	if st.Region.IsRegionOpened() {
		pl.warn(st.Region.G36StringNumber, "region is not closed")
		st.Region = nil
	}
	pl.flushStepRepeat()
	pl.done = true
	if glog.V(2) {
		glog.Infof("plotter: line %d: finished\n%s", line, st.String())
	}
}
