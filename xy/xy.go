// Package xy holds the coordinate format context and decodes coordinate data.
package xy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
)

const (
	defaultIntPlaces = 2
	defaultDecPlaces = 4
)

// Function checks against non-number characters in the string
func isNumString(ins string) bool {
	v := []byte(ins)
	for _, c := range v {
		if (c < 0x30) || (c > 0x39) {
			return false
		}
	}
	return true
}

/*
############################ format specification #####################
*/

// FormatSpec is the active rule set for decoding coordinate literals.
type FormatSpec struct {
	Head         string // source of the last FS statement
	ZeroOmission ZeroOmission
	Notation     Notation
	XI           int // digits in the integer part
	XD           int // digits in the fractional part
	YI           int
	YD           int
	Units        Units

	formatSet bool
	unitsSet  bool
}

// NewFormatSpec returns the context used until the first FS statement.
func NewFormatSpec() *FormatSpec {
	return &FormatSpec{
		ZeroOmission: OmitLeading,
		Notation:     NotationAbsolute,
		XI:           defaultIntPlaces,
		XD:           defaultDecPlaces,
		YI:           defaultIntPlaces,
		YD:           defaultDecPlaces,
		Units:        UnitsInch,
	}
}

// Init parses the body of a FS statement such as "LAX24Y24".
// The receiver is only changed when parsing succeeds.
func (fs *FormatSpec) Init(body string) error {
	ins := strings.ToUpper(strings.TrimSpace(body))
	retVal := *fs
	retVal.Head = ins
	retVal.ZeroOmission = OmitLeading
	retVal.Notation = NotationAbsolute
	xFound, yFound := false, false

	for i := 0; i < len(ins); i++ {
		switch c := ins[i]; c {
		case 'L':
			retVal.ZeroOmission = OmitLeading
		case 'T':
			retVal.ZeroOmission = OmitTrailing
		case 'D':
			if i+1 < len(ins) && isNumString(ins[i+1:i+2]) {
				// obsolete draft code digit count
				i++
				continue
			}
			retVal.ZeroOmission = OmitNone
		case 'A':
			retVal.Notation = NotationAbsolute
		case 'I':
			retVal.Notation = NotationIncremental
		case 'X', 'Y':
			if i+2 >= len(ins) {
				return errors.New("format specification: missing digits after " + string(c))
			}
			if !isNumString(ins[i+1 : i+3]) {
				return errors.New("format specification: bad digits after " + string(c))
			}
			n := int(ins[i+1] - '0')
			m := int(ins[i+2] - '0')
			if n+m == 0 || n+m > 16 {
				return fmt.Errorf("format specification: unsupported %c format %d.%d", c, n, m)
			}
			if c == 'X' {
				retVal.XI, retVal.XD = n, m
				xFound = true
			} else {
				retVal.YI, retVal.YD = n, m
				yFound = true
			}
			i += 2
		case 'N', 'G', 'M':
			// obsolete sequence/code digit counts
			if i+1 < len(ins) && isNumString(ins[i+1:i+2]) {
				i++
			}
		default:
			return errors.New("format specification: unexpected character " + strconv.QuoteRune(rune(c)))
		}
	}
	if !xFound && !yFound {
		return errors.New("format specification: no coordinate format found")
	}
	if !yFound {
		retVal.YI, retVal.YD = retVal.XI, retVal.XD
	}
	if !xFound {
		retVal.XI, retVal.XD = retVal.YI, retVal.YD
	}
	retVal.formatSet = true
	*fs = retVal
	return nil
}

// SameFormat reports whether two contexts decode literals identically.
func (fs *FormatSpec) SameFormat(another *FormatSpec) bool {
	return fs.ZeroOmission == another.ZeroOmission &&
		fs.Notation == another.Notation &&
		fs.XI == another.XI && fs.XD == another.XD &&
		fs.YI == another.YI && fs.YD == another.YD
}

func (fs *FormatSpec) FormatSet() bool {
	return fs.formatSet
}

func (fs *FormatSpec) UnitsSet() bool {
	return fs.unitsSet
}

func (fs *FormatSpec) SetUnits(u Units) {
	fs.Units = u
	fs.unitsSet = true
}

func (fs *FormatSpec) SetNotation(n Notation) {
	fs.Notation = n
}

func (fs *FormatSpec) String() string {
	return fmt.Sprintf("X%d.%d Y%d.%d, %s, %s, units %q",
		fs.XI, fs.XD, fs.YI, fs.YD, fs.ZeroOmission, fs.Notation, fs.Units.String())
}

// Decode converts a single coordinate literal using n integer and m fractional places.
func (fs *FormatSpec) Decode(ins string, n, m int) (float64, error) {
	neg := false
	ws := ins
	if strings.HasPrefix(ws, "-") {
		neg = true
		ws = ws[1:]
	} else {
		ws = strings.TrimPrefix(ws, "+")
	}
	if len(ws) == 0 {
		return 0, errors.New("empty coordinate value")
	}
	if strings.Contains(ws, ".") {
		retVal, err := strconv.ParseFloat(ws, 64)
		if err != nil {
			return 0, fmt.Errorf("bad coordinate value %q", ins)
		}
		if neg {
			retVal = -retVal
		}
		return retVal, nil
	}
	if !isNumString(ws) {
		return 0, fmt.Errorf("bad coordinate value %q", ins)
	}
	if len(ws) > n+m {
		return 0, fmt.Errorf("coordinate value %q has more than %d digits", ins, n+m)
	}

	ps := make([]byte, n+m)
	switch fs.ZeroOmission {
	case OmitTrailing:
		copy(ps, ws)
		for i := len(ws); i < len(ps); i++ {
			ps[i] = '0'
		}
	default:
		inso := len(ps) - len(ws)
		for i := 0; i < inso; i++ {
			ps[i] = '0'
		}
		copy(ps[inso:], ws)
	}

	var ipart, fpart int64
	var err error
	if n > 0 {
		if ipart, err = strconv.ParseInt(string(ps[:n]), 10, 64); err != nil {
			return 0, err
		}
	}
	if m > 0 {
		if fpart, err = strconv.ParseInt(string(ps[n:]), 10, 64); err != nil {
			return 0, err
		}
	}
	retVal := float64(ipart) + float64(fpart)/math.Pow10(m)
	if neg {
		retVal = -retVal
	}
	return retVal, nil
}

/*
######################### coordinates #########################################
*/

type axisPoint struct {
	valFloat float64
	present  bool
}

func (ap *axisPoint) set(v float64) {
	ap.valFloat = v
	ap.present = true
}

// XY is the coordinate data of one operation. Absent values are modal and
// resolved by the plotter.
type XY struct {
	coordString string // string representation
	x           axisPoint
	y           axisPoint
	// offsets
	i axisPoint
	j axisPoint
}

// Parse decodes coordinate data such as "X100Y-200I50J0" with the given format.
func Parse(sc string, fs *FormatSpec) (*XY, error) {
	retVal := &XY{coordString: strings.ToUpper(sc)}
	s := retVal.coordString
	if len(s) == 0 {
		return retVal, nil
	}
	if strings.IndexByte("XYIJ", s[0]) == -1 {
		return nil, fmt.Errorf("unexpected %q in coordinate data", s[0])
	}
	for pos := 0; pos < len(s); {
		letter := s[pos]
		end := pos + 1
		for end < len(s) && strings.IndexByte("XYIJ", s[end]) == -1 {
			end++
		}
		lit := s[pos+1 : end]
		var ap *axisPoint
		n, m := fs.XI, fs.XD
		switch letter {
		case 'X':
			ap = &retVal.x
		case 'Y':
			ap = &retVal.y
			n, m = fs.YI, fs.YD
		case 'I':
			ap = &retVal.i
		case 'J':
			ap = &retVal.j
			n, m = fs.YI, fs.YD
		}
		if ap.present {
			return nil, fmt.Errorf("duplicate %c in coordinate data", letter)
		}
		v, err := fs.Decode(lit, n, m)
		if err != nil {
			return nil, err
		}
		ap.set(v)
		pos = end
	}
	return retVal, nil
}

func (xy *XY) String() string {
	return "XY: x,y=(" +
		strconv.FormatFloat(xy.x.valFloat, 'f', 5, 64) +
		"," +
		strconv.FormatFloat(xy.y.valFloat, 'f', 5, 64) +
		") " +
		"i,j=(" +
		strconv.FormatFloat(xy.i.valFloat, 'f', 5, 64) +
		"," +
		strconv.FormatFloat(xy.j.valFloat, 'f', 5, 64) +
		")"
}

func (xy *XY) GetX() float64 { return xy.x.valFloat }
func (xy *XY) GetY() float64 { return xy.y.valFloat }
func (xy *XY) GetI() float64 { return xy.i.valFloat }
func (xy *XY) GetJ() float64 { return xy.j.valFloat }

func (xy *XY) HasX() bool { return xy.x.present }
func (xy *XY) HasY() bool { return xy.y.present }
func (xy *XY) HasI() bool { return xy.i.present }
func (xy *XY) HasJ() bool { return xy.j.present }
