package gerber2svg

import (
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
)

// hub forwards the warnings of the parser and the plotter to the listeners.
// A listener registered late gets the warnings produced so far first.
type hub struct {
	mu        sync.Mutex
	backlog   []Warning
	listeners []func(Warning)
	closed    atomic.Bool
}

func (h *hub) Warn(w Warning) {
	if h.closed.Load() {
		return
	}
	if glog.V(1) {
		glog.Infof("warning: %s", w.String())
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.backlog = append(h.backlog, w)
	for _, fn := range h.listeners {
		fn(w)
	}
}

// subscribe must not be called from a listener.
func (h *hub) subscribe(fn func(Warning)) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, w := range h.backlog {
		fn(w)
	}
	h.listeners = append(h.listeners, fn)
}

// close stops the delivery of warnings.
func (h *hub) close() {
	h.closed.Store(true)
}
