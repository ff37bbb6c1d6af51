/*
Package gerber2svg converts Gerber RS-274X data into an SVG document.

The conversion is a pull pipeline: the document is rendered when it is read,
and the input is only consumed as far as the reader asks for output.
*/
package gerber2svg

import (
	"errors"

	"github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
	"github.com/PLM-MPT/gerber-to-svg/render"
)

// ErrIDRequired is returned when Options.ID is empty.
var ErrIDRequired = errors.New("id required")

// Warning is a recoverable problem found in the input. Line is 0-based.
type Warning = gerberbasetypes.Warning

type Options struct {
	ID    string // id of the root element, required
	Class string // class attribute, omitted when empty
	Color string // color attribute, omitted when empty

	// ArcSegments is the number of chords a full circle is drawn with,
	// 72 when zero
	ArcSegments int

	// OnWarning is subscribed before the conversion starts
	OnWarning func(Warning)
}

// IDOptions returns options carrying just the id.
func IDOptions(id string) Options {
	return Options{ID: id}
}

func (opts *Options) validate() error {
	if opts.ID == "" {
		return ErrIDRequired
	}
	return nil
}

func (opts *Options) renderOptions() render.Options {
	return render.Options{ID: opts.ID, Class: opts.Class, Color: opts.Color}
}
