package gerber2svg

import (
	"context"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/PLM-MPT/gerber-to-svg/gerbparser"
	"github.com/PLM-MPT/gerber-to-svg/plotter"
	"github.com/PLM-MPT/gerber-to-svg/render"
)

// Converter streams the SVG document. Read and Next must be called from one
// goroutine; OnWarning, Done, Err and Close may be called from any.
type Converter struct {
	ctx    context.Context
	cancel context.CancelFunc
	hub    *hub
	render *render.Render

	pending string // unread part of the current chunk

	done     chan struct{}
	doneOnce sync.Once
	errMu    sync.Mutex
	err      error
}

// ctxReader stops reading the input once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// Convert prepares the conversion of r. Nothing is read before the first call
// of Read or Next.
func Convert(ctx context.Context, r io.Reader, opts Options) (*Converter, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	c := &Converter{
		ctx:    ctx,
		cancel: cancel,
		hub:    new(hub),
		done:   make(chan struct{}),
	}
	c.hub.subscribe(opts.OnWarning)

	in := transform.NewReader(&ctxReader{ctx: ctx, r: r}, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	parser := gerbparser.NewParser(in, c.hub)
	pl := plotter.NewPlotter(parser, c.hub, plotter.Config{ArcSegments: opts.ArcSegments})
	c.render = render.NewRender(pl, opts.renderOptions())
	return c, nil
}

// ConvertString converts a Gerber document held in memory.
func ConvertString(ctx context.Context, s string, opts Options) (*Converter, error) {
	return Convert(ctx, strings.NewReader(s), opts)
}

// OnWarning registers a listener. Warnings produced before the call are
// delivered to it first.
func (c *Converter) OnWarning(fn func(Warning)) {
	c.hub.subscribe(fn)
}

// Done is closed at the end of the document, on failure or on Close.
func (c *Converter) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the conversion, nil after a complete document.
func (c *Converter) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close cancels the conversion. No input is read and no warning is delivered afterwards.
func (c *Converter) Close() error {
	c.cancel()
	c.finish(context.Canceled)
	return nil
}

func (c *Converter) finish(err error) {
	c.doneOnce.Do(func() {
		c.hub.close()
		c.errMu.Lock()
		c.err = err
		c.errMu.Unlock()
		close(c.done)
	})
}

// Next returns the next chunk of the document, io.EOF after the last one.
func (c *Converter) Next() (string, error) {
	select {
	case <-c.done:
		if err := c.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	default:
	}
	if err := c.ctx.Err(); err != nil {
		c.finish(err)
		return "", err
	}
	chunk, err := c.render.Next()
	if err == io.EOF {
		c.finish(nil)
		return "", io.EOF
	}
	if err != nil {
		c.finish(err)
		return "", err
	}
	return chunk, nil
}

// Read implements io.Reader over the chunks.
func (c *Converter) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		chunk, err := c.Next()
		if err != nil {
			return 0, err
		}
		c.pending = chunk
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}
