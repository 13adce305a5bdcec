package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// ErrNameTaken is returned when another client owns the service name and
// refuses to give it up.
var ErrNameTaken = errors.New("service name owned by another client")

// errStopped answers calls that arrive after the pump has exited.
var errStopped = dbus.MakeFailedError(errors.New("mute service stopped"))

// Service owns the bus connection, the exported object and the pump.
//
// Setup happens in three steps that mirror the plugin's init: Export,
// RequestName, Start. Stop undoes them.
type Service struct {
	conn   Conn
	logger *slog.Logger
	pump   *pump
	calls  chan call

	cancel   context.CancelFunc
	stopped  chan struct{}
	stopOnce sync.Once
	err      error // pump exit error, valid once stopped is closed
}

// NewService wires handler to conn. Nothing is sent on the bus until Export.
func NewService(conn Conn, handler Handler, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	calls := make(chan call)
	return &Service{
		conn:   conn,
		logger: logger,
		calls:  calls,
		pump: &pump{
			calls:     calls,
			transport: conn.Context().Done(),
			handler:   handler,
			logger:    logger,
		},
		stopped: make(chan struct{}),
	}
}

// Export registers the mute object and its introspection data at ObjectPath.
func (s *Service) Export() error {
	if err := s.conn.Export(object{s: s}, ObjectPath, InterfaceName); err != nil {
		return fmt.Errorf("export %s: %w", InterfaceName, err)
	}
	if err := s.conn.Export(introspect.NewIntrospectable(introspectNode()), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("export introspection data: %w", err)
	}
	return nil
}

// RequestName claims ServiceName, replacing an existing owner if it allows
// that and letting a later claimant replace us.
func (s *Service) RequestName() error {
	reply, err := s.conn.RequestName(ServiceName, nameFlags)
	if err != nil {
		return fmt.Errorf("request name %s: %w", ServiceName, err)
	}

	switch reply {
	case dbus.RequestNameReplyPrimaryOwner, dbus.RequestNameReplyAlreadyOwner:
		return nil
	case dbus.RequestNameReplyInQueue:
		s.logger.Warn("service name is owned by another client, waiting in queue", "name", ServiceName)
		return nil
	default:
		return fmt.Errorf("request name %s: %w", ServiceName, ErrNameTaken)
	}
}

// Start runs the pump on its own goroutine until ctx is canceled, Stop is
// called or the connection breaks.
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go func() {
		err := s.pump.run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		s.err = err
		s.markStopped()
	}()
}

// Done is closed when the pump has exited.
func (s *Service) Done() <-chan struct{} {
	return s.stopped
}

// Err returns the error that ended the pump, or nil if it was stopped
// normally. Only meaningful after Done is closed.
func (s *Service) Err() error {
	select {
	case <-s.stopped:
		return s.err
	default:
		return nil
	}
}

// Stop cancels the pump, waits for it (bounded by ctx), releases the name and
// closes the connection.
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel == nil {
		s.markStopped()
	} else {
		s.cancel()
		select {
		case <-s.stopped:
		case <-ctx.Done():
			return fmt.Errorf("wait for bus pump: %w", ctx.Err())
		}
	}

	if _, err := s.conn.ReleaseName(ServiceName); err != nil {
		s.logger.Debug("release service name", "error", err)
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close bus connection: %w", err)
	}
	return nil
}

func (s *Service) markStopped() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

// call hands c to the pump and blocks until it has been handled.
func (s *Service) call(c call) *dbus.Error {
	c.done = make(chan struct{})

	select {
	case s.calls <- c:
	case <-s.stopped:
		return errStopped
	}

	select {
	case <-c.done:
		return nil
	case <-s.stopped:
		select {
		case <-c.done:
			return nil
		default:
			return errStopped
		}
	}
}

// object is what gets exported on the bus. godbus decodes the arguments and
// answers malformed calls with InvalidArgs before these methods run.
type object struct {
	s *Service
}

func (o object) SetMute(sender dbus.Sender, muted bool) *dbus.Error {
	return o.s.call(call{method: callSetMute, muted: muted, sender: string(sender)})
}

func (o object) ToggleMute(sender dbus.Sender) *dbus.Error {
	return o.s.call(call{method: callToggleMute, sender: string(sender)})
}

func introspectNode() *introspect.Node {
	return &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: InterfaceName,
				Methods: []introspect.Method{
					{
						Name: callSetMute,
						Args: []introspect.Arg{{Name: "mute", Type: "b", Direction: "in"}},
					},
					{
						Name: callToggleMute,
					},
				},
			},
		},
	}
}
