package bus

import (
	"context"
	"errors"
	"log/slog"
)

// ErrTransportClosed is reported by the pump when the bus connection goes away.
var ErrTransportClosed = errors.New("bus connection closed")

// Handler performs the exposed actions. Its methods run on the pump
// goroutine, one call at a time, and must return before the caller is
// answered.
type Handler interface {
	SetMute(muted bool)
	ToggleMute()
}

const (
	callSetMute    = "SetMute"
	callToggleMute = "ToggleMute"
)

// call is a method invocation handed from a godbus goroutine to the pump.
// done is closed once the handler has returned.
type call struct {
	method string
	muted  bool
	sender string
	done   chan struct{}
}

// pump drains calls and dispatches them to the handler.
//
// Each cycle it tries to process one pending item. If something was handled
// it tries again right away; if nothing was pending it blocks, without a
// timeout, until a call arrives, the connection drops or ctx is canceled.
type pump struct {
	calls     <-chan call
	transport <-chan struct{}
	handler   Handler
	logger    *slog.Logger

	// pending is a call received by wait but not yet dispatched.
	pending *call
}

// run loops until the transport fails or ctx is canceled. On cancellation it
// returns ctx.Err().
func (p *pump) run(ctx context.Context) error {
	for {
		handled, err := p.process()
		if err != nil {
			p.logger.Error("Failed to process bus", "error", err)
			return err
		}
		if handled {
			continue
		}

		if err := p.wait(ctx); err != nil {
			p.logger.Debug("bus pump stopping", "reason", err)
			return err
		}
	}
}

// process handles at most one pending call. It reports whether it did.
func (p *pump) process() (bool, error) {
	select {
	case <-p.transport:
		return false, ErrTransportClosed
	default:
	}

	if p.pending != nil {
		c := *p.pending
		p.pending = nil
		p.dispatch(c)
		return true, nil
	}

	select {
	case c := <-p.calls:
		p.dispatch(c)
		return true, nil
	default:
		return false, nil
	}
}

// wait blocks until there is something for process to look at.
func (p *pump) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.transport:
		return nil
	case c := <-p.calls:
		p.pending = &c
		return nil
	}
}

func (p *pump) dispatch(c call) {
	defer close(c.done)
	defer func() {
		// A panic here would take the whole host process down with it.
		if r := recover(); r != nil {
			p.logger.Error("mute handler panicked", "method", c.method, "panic", r)
		}
	}()

	p.logger.Debug("dispatching bus call", "method", c.method, "sender", c.sender)

	switch c.method {
	case callSetMute:
		p.handler.SetMute(c.muted)
	case callToggleMute:
		p.handler.ToggleMute()
	default:
		p.logger.Warn("unknown bus call", "method", c.method)
	}
}
