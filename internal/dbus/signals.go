package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/noticekit/internal/notice"
)

// emitter is the part of *dbus.Conn used for signal emission.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// Signaler emits NotificationClosed for dismissed notices. Notice keys
// are mapped to the uint32 ids the freedesktop signal carries.
type Signaler struct {
	conn   emitter
	logger *slog.Logger

	mu     sync.Mutex
	nextID uint32
	ids    map[string]uint32
}

// NewSignaler creates a Signaler on an existing connection.
func NewSignaler(conn emitter, logger *slog.Logger) *Signaler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Signaler{
		conn:   conn,
		logger: logger,
		ids:    make(map[string]uint32),
	}
}

// ConnectSessionBus creates a Signaler on the shared session bus.
func ConnectSessionBus(logger *slog.Logger) (*Signaler, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewSignaler(conn, logger), nil
}

// ID returns the signal id for key, assigning the next free one on first use.
func (s *Signaler) ID(key string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.ids[key]; ok {
		return id
	}
	s.nextID++
	s.ids[key] = s.nextID
	return s.nextID
}

func (s *Signaler) release(key string) {
	s.mu.Lock()
	delete(s.ids, key)
	s.mu.Unlock()
}

// EmitNotificationClosed emits the NotificationClosed signal.
func (s *Signaler) EmitNotificationClosed(id uint32, reason CloseReason) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".NotificationClosed", id, uint32(reason))
	if err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// Wrap returns a close callback that emits NotificationClosed and then
// calls next. Emission failures are logged and never block next.
func (s *Signaler) Wrap(next notice.CloseFunc) notice.CloseFunc {
	return func(key string, closeType notice.CloseType) {
		id := s.ID(key)
		s.release(key)

		if err := s.EmitNotificationClosed(id, ReasonFor(closeType)); err != nil {
			s.logger.Warn("failed to signal notice close", "key", key, "error", err)
		}
		if next != nil {
			next(key, closeType)
		}
	}
}
