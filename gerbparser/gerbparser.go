/*
Package gerbparser turns Gerber data blocks into commands for the plotter
*/
package gerbparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PLM-MPT/gerber-to-svg/amprocessor"
	"github.com/PLM-MPT/gerber-to-svg/apertures"
	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
	"github.com/PLM-MPT/gerber-to-svg/gerberlexer"
	"github.com/PLM-MPT/gerber-to-svg/srblocks"
	"github.com/PLM-MPT/gerber-to-svg/xy"
)

type CommandKind int

const (
	CmdFormat CommandKind = iota + 1
	CmdUnits
	CmdApertureDef
	CmdMacroDef
	CmdPolarity
	CmdStepRepeat
	CmdMove
	CmdInterpolate
	CmdFlash
	CmdSelectAperture
	CmdInterpMode
	CmdQuadMode
	CmdRegionStart
	CmdRegionEnd
	CmdNotation
	CmdStop
)

var commandKindNames = map[CommandKind]string{
	CmdFormat:         "format",
	CmdUnits:          "units",
	CmdApertureDef:    "aperture definition",
	CmdMacroDef:       "macro definition",
	CmdPolarity:       "polarity",
	CmdStepRepeat:     "step and repeat",
	CmdMove:           "move",
	CmdInterpolate:    "interpolate",
	CmdFlash:          "flash",
	CmdSelectAperture: "select aperture",
	CmdInterpMode:     "interpolation mode",
	CmdQuadMode:       "quadrant mode",
	CmdRegionStart:    "region start",
	CmdRegionEnd:      "region end",
	CmdNotation:       "notation",
	CmdStop:           "stop",
}

func (ck CommandKind) String() string {
	if s, ok := commandKindNames[ck]; ok {
		return s
	}
	return "unknown command"
}

// Command is one decoded statement. Only the fields of its Kind are set.
type Command struct {
	Kind CommandKind
	Line int

	Coord       *xy.XY // Move, Interpolate, Flash
	Incremental bool   // coordinates are relative to the current point

	ApertureCode int                        // SelectAperture
	Aperture     apertures.Definition       // ApertureDef
	Macro        *amprocessor.ApertureMacro // MacroDef
	Polarity     PolType
	IPMode       IPmode
	QuadMode     QuadMode
	Units        Units
	Notation     Notation
	StepRepeat   *srblocks.SRBlock // nil closes the current block
}

func (cmd Command) String() string {
	retVal := "line " + strconv.Itoa(cmd.Line) + ": " + cmd.Kind.String()
	switch cmd.Kind {
	case CmdMove, CmdInterpolate, CmdFlash:
		if cmd.Coord != nil {
			retVal += " " + cmd.Coord.String()
		}
	case CmdSelectAperture:
		retVal += " D" + strconv.Itoa(cmd.ApertureCode)
	case CmdApertureDef:
		retVal += " D" + strconv.Itoa(cmd.Aperture.Code) + " " + cmd.Aperture.Template
	case CmdMacroDef:
		retVal += " " + cmd.Macro.Name
	case CmdPolarity:
		retVal += " " + cmd.Polarity.String()
	case CmdInterpMode:
		retVal += " " + cmd.IPMode.String()
	case CmdQuadMode:
		retVal += " " + cmd.QuadMode.String()
	case CmdUnits:
		retVal += " " + cmd.Units.String()
	case CmdNotation:
		retVal += " " + cmd.Notation.String()
	}
	return retVal
}

// parameters which are accepted silently when they carry the default value
var defaultParameters = map[string]bool{
	"ASAXBY": true, "MIA0B0": true, "MIA0": true, "MIB0": true, "OFA0B0": true,
	"OFA0.0B0.0": true, "SFA1B1": true, "SFA1.0B1.0": true, "IR0": true,
	"LMN": true, "LR0": true, "LS1": true, "LS1.0": true,
}

// Parser converts blocks into commands on demand. It owns the format context.
type Parser struct {
	lexer  *gerberlexer.Lexer
	sink   WarningSink
	fs     *xy.FormatSpec
	queue  []Command
	lastOp CommandKind // modal D code

	warnedFormat bool
	warnedUnits  bool
	stopped      bool
}

func NewParser(r io.Reader, sink WarningSink) *Parser {
	if sink == nil {
		sink = Discard
	}
	return &Parser{
		lexer: gerberlexer.NewLexer(r, sink),
		sink:  sink,
		fs:    xy.NewFormatSpec(),
	}
}

func (p *Parser) warn(line int, msg string) {
	p.sink.Warn(Warning{Line: line, Message: msg})
}

// Next returns the next command, or io.EOF after the last one. Input past a
// stop command is never read.
func (p *Parser) Next() (Command, error) {
	for len(p.queue) == 0 {
		if p.stopped {
			return Command{}, io.EOF
		}
		b, err := p.lexer.Next()
		if err != nil {
			return Command{}, err
		}
		switch b.Kind {
		case gerberlexer.WordBlock:
			p.wordBlock(b.Words[0], b.Line)
		case gerberlexer.ExtendedBlock:
			p.extendedBlock(b.Words, b.Line)
		}
	}
	retVal := p.queue[0]
	p.queue = p.queue[1:]
	return retVal, nil
}

/* ############################### word blocks ############################### */

type codeWord struct {
	letter byte
	value  string
}

// splitWords splits "G01X100Y-20D01" into letter/value pairs.
func splitWords(s string) []codeWord {
	var retVal []codeWord
	for i := 0; i < len(s); {
		c := s[i]
		j := i + 1
		for j < len(s) && ((s[j] >= '0' && s[j] <= '9') || s[j] == '-' || s[j] == '+' || s[j] == '.' || s[j] == ' ') {
			j++
		}
		retVal = append(retVal, codeWord{c, strings.TrimSpace(s[i+1 : j])})
		i = j
	}
	return retVal
}

func (p *Parser) wordBlock(s string, line int) {
	us := strings.ToUpper(s)
	var cmds []Command
	var coord strings.Builder
	var op CommandKind

	for _, w := range splitWords(us) {
		switch w.letter {
		case 'G':
			n, err := strconv.Atoi(w.value)
			if err != nil {
				p.warn(line, "bad G code in "+s)
				return
			}
			if n == 4 {
				// G04 comment, the rest of the block is ignored
				p.queue = append(p.queue, cmds...)
				return
			}
			cmd, ok := gCommand(n, line)
			if !ok {
				p.warn(line, "unknown "+gerberlexer.FormatGCode("G", w.value)+" in "+s)
				return
			}
			switch cmd.Kind {
			case 0:
				continue
			case CmdUnits:
				p.changeUnits(cmd.Units, line)
			case CmdNotation:
				p.fs.SetNotation(cmd.Notation)
			}
			cmds = append(cmds, cmd)
		case 'M':
			n, err := strconv.Atoi(w.value)
			if err != nil || (n != 0 && n != 1 && n != 2) {
				p.warn(line, "unknown M code in "+s)
				return
			}
			if n != 1 {
				cmds = append(cmds, Command{Kind: CmdStop, Line: line})
			}
		case 'D':
			n, err := strconv.Atoi(w.value)
			if err != nil {
				p.warn(line, "bad D code in "+s)
				return
			}
			switch {
			case n == 1:
				op = CmdInterpolate
			case n == 2:
				op = CmdMove
			case n == 3:
				op = CmdFlash
			case n >= 10:
				cmds = append(cmds, Command{Kind: CmdSelectAperture, Line: line, ApertureCode: n})
			default:
				p.warn(line, "unknown D code "+gerberlexer.FormatGCode("D", w.value))
				return
			}
		case 'X', 'Y', 'I', 'J':
			coord.WriteByte(w.letter)
			coord.WriteString(w.value)
		default:
			p.warn(line, "unrecognized statement "+s)
			return
		}
	}

	if coord.Len() > 0 || op != 0 {
		if op == 0 {
			if p.lastOp == 0 {
				p.warn(line, "coordinate data without operation code")
				p.queue = append(p.queue, cmds...)
				return
			}
			op = p.lastOp
		}
		p.lastOp = op
		if coord.Len() > 0 {
			p.checkContext(line)
		}
		c, err := xy.Parse(coord.String(), p.fs)
		if err != nil {
			p.warn(line, err.Error())
			return
		}
		cmds = append(cmds, Command{
			Kind:        op,
			Line:        line,
			Coord:       c,
			Incremental: p.fs.Notation == NotationIncremental,
		})
	}
	for _, cmd := range cmds {
		if cmd.Kind == CmdStop {
			p.stopped = true
		}
	}
	p.queue = append(p.queue, cmds...)
}

// checkContext reports, once each, a coordinate decoded before the format or units were set.
func (p *Parser) checkContext(line int) {
	if !p.fs.FormatSet() && !p.warnedFormat {
		p.warnedFormat = true
		p.warn(line, "coordinate format not specified, assuming "+p.fs.String())
	}
	if !p.fs.UnitsSet() && !p.warnedUnits {
		p.warnedUnits = true
		p.warn(line, "units not specified, assuming inches")
		p.fs.SetUnits(UnitsInch)
		p.queue = append(p.queue, Command{Kind: CmdUnits, Line: line, Units: UnitsInch})
	}
}

// gCommand maps a G code; a zero Kind means the code has no effect.
func gCommand(n int, line int) (Command, bool) {
	retVal := Command{Line: line}
	switch n {
	case 1:
		retVal.Kind, retVal.IPMode = CmdInterpMode, IPModeLinear
	case 2:
		retVal.Kind, retVal.IPMode = CmdInterpMode, IPModeCwC
	case 3:
		retVal.Kind, retVal.IPMode = CmdInterpMode, IPModeCCwC
	case 36:
		retVal.Kind = CmdRegionStart
	case 37:
		retVal.Kind = CmdRegionEnd
	case 54, 55:
	case 70:
		retVal.Kind, retVal.Units = CmdUnits, UnitsInch
	case 71:
		retVal.Kind, retVal.Units = CmdUnits, UnitsMM
	case 74:
		retVal.Kind, retVal.QuadMode = CmdQuadMode, QuadModeSingle
	case 75:
		retVal.Kind, retVal.QuadMode = CmdQuadMode, QuadModeMulti
	case 90:
		retVal.Kind, retVal.Notation = CmdNotation, NotationAbsolute
	case 91:
		retVal.Kind, retVal.Notation = CmdNotation, NotationIncremental
	default:
		return retVal, false
	}
	return retVal, true
}

/* ############################### extended blocks ############################### */

func (p *Parser) extendedBlock(words []string, line int) {
	for i, w := range words {
		uw := strings.ToUpper(w)
		id := gerberlexer.ExtCommand(uw)
		if id == gerberlexer.AM {
			// the macro takes the rest of the block
			am, err := amprocessor.NewApertureMacro(strings.TrimSpace(w[2:]), words[i+1:])
			if err != nil {
				p.warn(line, err.Error())
				return
			}
			p.queue = append(p.queue, Command{Kind: CmdMacroDef, Line: line, Macro: am})
			return
		}
		p.parameter(id, w, uw, line)
	}
}

func (p *Parser) parameter(id gerberlexer.GerberCommandId, w, uw string, line int) {
	body := uw[min(2, len(uw)):]
	switch id {
	case gerberlexer.FS:
		fs := *p.fs
		if err := fs.Init(body); err != nil {
			p.warn(line, err.Error())
			return
		}
		if p.fs.FormatSet() && !p.fs.SameFormat(&fs) {
			p.warn(line, "format specification redefined")
		}
		*p.fs = fs
		p.queue = append(p.queue, Command{Kind: CmdFormat, Line: line, Notation: fs.Notation})
	case gerberlexer.MO:
		var u Units
		switch body {
		case "IN":
			u = UnitsInch
		case "MM":
			u = UnitsMM
		default:
			p.warn(line, "unknown units "+body)
			return
		}
		p.changeUnits(u, line)
		p.queue = append(p.queue, Command{Kind: CmdUnits, Line: line, Units: u})
	case gerberlexer.AD:
		def, err := apertures.ParseDefinition(strings.TrimSpace(w[2:]))
		if err != nil {
			p.warn(line, err.Error())
			return
		}
		p.queue = append(p.queue, Command{Kind: CmdApertureDef, Line: line, Aperture: def})
	case gerberlexer.LP:
		switch body {
		case "D":
			p.queue = append(p.queue, Command{Kind: CmdPolarity, Line: line, Polarity: PolTypeDark})
		case "C":
			p.queue = append(p.queue, Command{Kind: CmdPolarity, Line: line, Polarity: PolTypeClear})
		default:
			p.warn(line, "unknown polarity "+body)
		}
	case gerberlexer.SR:
		cmd := Command{Kind: CmdStepRepeat, Line: line}
		if len(body) > 0 {
			sr := new(srblocks.SRBlock)
			if err := sr.Init(body); err != nil {
				p.warn(line, err.Error())
				return
			}
			if !sr.Trivial() {
				cmd.StepRepeat = sr
			}
		}
		p.queue = append(p.queue, cmd)
	case gerberlexer.IN, gerberlexer.LN, gerberlexer.TF, gerberlexer.TA, gerberlexer.TO, gerberlexer.TD:
		// names and attributes have no effect on the image
	case gerberlexer.IP:
		if body == "NEG" {
			p.warn(line, "negative image polarity is not supported")
		} else if body != "POS" {
			p.warn(line, "unknown image polarity "+body)
		}
	case gerberlexer.AS, gerberlexer.MI, gerberlexer.OF, gerberlexer.SF, gerberlexer.IR,
		gerberlexer.LM, gerberlexer.LR, gerberlexer.LS, gerberlexer.AB:
		if !defaultParameters[uw] {
			p.warn(line, "unsupported parameter "+id.String())
		}
	default:
		p.warn(line, "unknown parameter "+w)
	}
}

func (p *Parser) changeUnits(u Units, line int) {
	if p.fs.UnitsSet() && p.fs.Units != u {
		p.warn(line, fmt.Sprintf("units changed from %s to %s", p.fs.Units, u))
	}
	p.fs.SetUnits(u)
}
