// Base types for Gerber parsing and processing
package gerberbasetypes

import "strconv"

type GerberApType int

const (
	AptypeCircle GerberApType = iota + 1
	AptypeRectangle
	AptypeObround
	AptypePoly
	AptypeMacro
)

func (ga GerberApType) String() string {
	switch ga {
	case AptypeCircle:
		return "circle aperture"
	case AptypeRectangle:
		return "rectangle aperture"
	case AptypeObround:
		return "obround (box) aperture"
	case AptypePoly:
		return "polygon aperture"
	case AptypeMacro:
		return "macro aperture"
	default:
	}
	return "Unknown aperture type"
}

type PolType int

const (
	PolTypeDark PolType = iota + 1
	PolTypeClear
)

func (p PolType) String() string {
	switch p {
	case PolTypeDark:
		return "Polarity: dark"
	case PolTypeClear:
		return "Polarity: clear"
	default:
	}
	return "Unknown polarity"
}

type QuadMode int

const (
	QuadModeSingle QuadMode = iota + 1
	QuadModeMulti
)

func (q QuadMode) String() string {
	switch q {
	case QuadModeSingle:
		return "QuadMode: Single"
	case QuadModeMulti:
		return "QuadMode: Multi"
	default:
	}
	return "Unknown QuadMode"
}

type IPmode int

const (
	IPModeLinear IPmode = iota + 1
	IPModeCwC
	IPModeCCwC
)

func (ipm IPmode) String() string {
	switch ipm {
	case IPModeLinear:
		return "Linear interpolation"
	case IPModeCwC:
		return "Clockwise interpolation"
	case IPModeCCwC:
		return "Counter-clockwise interpolation"
	default:
	}
	return "Unknown interpolation"
}

// Units of the document coordinates.
type Units int

const (
	UnitsInch Units = iota + 1
	UnitsMM
)

// String returns the suffix used for SVG lengths.
func (u Units) String() string {
	switch u {
	case UnitsInch:
		return "in"
	case UnitsMM:
		return "mm"
	default:
	}
	return ""
}

// ZeroOmission tells which zeros a coordinate literal may omit.
type ZeroOmission int

const (
	OmitLeading ZeroOmission = iota + 1
	OmitTrailing
	OmitNone
)

func (z ZeroOmission) String() string {
	switch z {
	case OmitLeading:
		return "leading zeros omitted"
	case OmitTrailing:
		return "trailing zeros omitted"
	case OmitNone:
		return "no zeros omitted"
	default:
	}
	return "Unknown zero omission"
}

type Notation int

const (
	NotationAbsolute Notation = iota + 1
	NotationIncremental
)

func (n Notation) String() string {
	switch n {
	case NotationAbsolute:
		return "absolute notation"
	case NotationIncremental:
		return "incremental notation"
	default:
	}
	return "Unknown notation"
}

/*
################################## warnings ######################################
*/

// Warning is a recoverable problem found in the input. Line is 0-based.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return "line " + strconv.Itoa(w.Line) + ": " + w.Message
}

// WarningSink receives warnings in the order they are produced.
type WarningSink interface {
	Warn(w Warning)
}

// WarningFunc adapts a function to WarningSink.
type WarningFunc func(w Warning)

func (f WarningFunc) Warn(w Warning) {
	f(w)
}

// Discard drops every warning.
var Discard WarningSink = WarningFunc(func(Warning) {})
