package gerber2svg

import (
	"context"
	"io"
	"strings"
)

// Emitter is the handle of a conversion running in the background. It only
// exposes the warnings, the document goes to the callback.
type Emitter struct {
	conv *Converter
}

// ConvertFunc converts r in a new goroutine and calls fn exactly once, with
// the whole document or with the error that ended the conversion.
func ConvertFunc(ctx context.Context, r io.Reader, opts Options, fn func(doc string, err error)) (*Emitter, error) {
	conv, err := Convert(ctx, r, opts)
	if err != nil {
		return nil, err
	}
	go func() {
		var sb strings.Builder
		for {
			chunk, err := conv.Next()
			if err == io.EOF {
				fn(sb.String(), nil)
				return
			}
			if err != nil {
				fn("", err)
				return
			}
			sb.WriteString(chunk)
		}
	}()
	return &Emitter{conv: conv}, nil
}

func (e *Emitter) OnWarning(fn func(Warning)) {
	e.conv.OnWarning(fn)
}

// Done is closed when the conversion has ended, before the callback is called.
func (e *Emitter) Done() <-chan struct{} {
	return e.conv.Done()
}

// Close cancels the conversion; the callback then gets context.Canceled.
func (e *Emitter) Close() error {
	return e.conv.Close()
}
