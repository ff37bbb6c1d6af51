// Package gerberlexer splits a Gerber stream into data blocks.
package gerberlexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
)

/*
FS Format specification. Sets the coordinate format, e.g. the number of decimals.
MO Mode. Sets the unit to inch or mm.
AD Aperture define. Defines a template based aperture and assigns a D code to it.
AM Aperture macro. Defines a macro aperture template.
AB Aperture block. Defines a block aperture and assigns a D-code to it.
Dnn (nn≥10) Sets the current aperture to D code nn.
D01 Interpolate operation.
D02 Move operation.
D03 Flash operation.
G01, G02, G03 Set the interpolation mode to linear, clockwise or counterclockwise circular.
G74, G75 Set quadrant mode to single or multi quadrant.
LP Load polarity.
LM, LR, LS Load mirror, rotation and scale.
G36, G37 Start and end a region statement.
SR Step and repeat.
G04 Comment.
TF, TA, TO, TD Attributes.
M02 End of file.

Historic codes: G54, G55, G70, G71, G90, G91, M00, M01, IP, AS, IR, MI, OF, SF, IN, LN.
*/

type GerberCommandId byte

const (
	AB GerberCommandId = iota
	AD
	AM
	AS
	FS
	IN
	IP
	IR
	LM
	LN
	LP
	LR
	LS
	MI
	MO
	OF
	SF
	SR
	TA
	TD
	TF
	TO
	// must be last
	NOP
)

var extCommandNames = [...]string{
	AB: "AB", AD: "AD", AM: "AM", AS: "AS", FS: "FS", IN: "IN", IP: "IP", IR: "IR",
	LM: "LM", LN: "LN", LP: "LP", LR: "LR", LS: "LS", MI: "MI", MO: "MO", OF: "OF",
	SF: "SF", SR: "SR", TA: "TA", TD: "TD", TF: "TF", TO: "TO", NOP: "NOP",
}

func (id GerberCommandId) String() string {
	if int(id) < len(extCommandNames) {
		return extCommandNames[id]
	}
	return "NOP"
}

// ExtCommand classifies the first statement of an extended block by its two letter code.
func ExtCommand(stmt string) GerberCommandId {
	if len(stmt) < 2 {
		return NOP
	}
	cc := strings.ToUpper(stmt[:2])
	for i := AB; i < NOP; i++ {
		if extCommandNames[i] == cc {
			return i
		}
	}
	return NOP
}

// deletes leading '0'
func FormatGCode(sym string, num string) string {

	if num == "" {
		return sym
	}

	num = strings.TrimLeft(num, "0")

	if len(num) == 1 {
		return sym + "0" + num
	}
	if len(num) == 0 {
		return sym + "00"
	}

	return sym + num
}

type Delim byte

const (
	DataBlockTrailer Delim = '*'
	ExtCmdDelimiter  Delim = '%'
)

func (d Delim) String() string {
	switch d {
	case DataBlockTrailer:
		return "DBEND"
	case ExtCmdDelimiter:
		return "EXTCMD"
	default:
		return string(d)
	}
}

/*
##################################### blocks #####################################
*/

type BlockKind int

const (
	WordBlock BlockKind = iota + 1
	ExtendedBlock
)

func (bk BlockKind) String() string {
	switch bk {
	case WordBlock:
		return "word"
	case ExtendedBlock:
		return "extended"
	default:
	}
	return "unknown block"
}

// Block is one data block. A word block holds a single statement, an extended
// block holds every statement between the % delimiters. Line is 0-based.
type Block struct {
	Kind  BlockKind
	Words []string
	Line  int
}

func (b Block) String() string {
	return fmt.Sprintf("{%s line %d: %q}", b.Kind, b.Line, b.Words)
}

// Lexer reads blocks on demand; no more input is consumed than the block needs.
type Lexer struct {
	r    *bufio.Reader
	sink WarningSink
	line int
}

func NewLexer(r io.Reader, sink WarningSink) *Lexer {
	if sink == nil {
		sink = Discard
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Lexer{r: br, sink: sink}
}

// Line is the current 0-based line.
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) readByte() (byte, error) {
	c, err := l.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, err
		}
		return 0, fmt.Errorf("gerberlexer: read input: %w", err)
	}
	return c, nil
}

// Next returns the next block, or io.EOF at the end of input.
func (l *Lexer) Next() (Block, error) {
	var buf []byte
	startLine := -1
	for {
		c, err := l.readByte()
		if err != nil {
			if err == io.EOF && startLine >= 0 {
				l.sink.Warn(Warning{Line: startLine, Message: "unterminated statement " + string(buf)})
			}
			return Block{}, err
		}
		switch c {
		case '\n':
			l.line++
			continue
		case '\r':
			continue
		case byte(ExtCmdDelimiter):
			if startLine >= 0 {
				l.sink.Warn(Warning{Line: startLine, Message: "unterminated statement " + string(buf)})
				buf, startLine = nil, -1
			}
			b, err := l.extended()
			if err != nil {
				return Block{}, err
			}
			if len(b.Words) == 0 {
				continue
			}
			return b, nil
		case byte(DataBlockTrailer):
			if startLine < 0 {
				// empty block
				continue
			}
			return Block{Kind: WordBlock, Words: []string{strings.TrimSpace(string(buf))}, Line: startLine}, nil
		}
		if startLine < 0 {
			if c == ' ' || c == '\t' {
				continue
			}
			startLine = l.line
		}
		buf = append(buf, c)
	}
}

// extended reads up to the closing delimiter; the opening one is consumed.
func (l *Lexer) extended() (Block, error) {
	retVal := Block{Kind: ExtendedBlock, Line: l.line}
	var buf []byte
	for {
		c, err := l.readByte()
		if err != nil {
			if err == io.EOF {
				l.sink.Warn(Warning{Line: retVal.Line, Message: "unterminated parameter block"})
			}
			return Block{}, err
		}
		switch c {
		case '\n':
			l.line++
		case '\r':
		case byte(DataBlockTrailer):
			if s := strings.TrimSpace(string(buf)); len(s) > 0 {
				retVal.Words = append(retVal.Words, s)
			}
			buf = buf[:0]
		case byte(ExtCmdDelimiter):
			if s := strings.TrimSpace(string(buf)); len(s) > 0 {
				retVal.Words = append(retVal.Words, s)
			}
			return retVal, nil
		default:
			buf = append(buf, c)
		}
	}
}
