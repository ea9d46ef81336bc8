package dbus

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/noticekit/internal/notice"
)

type emitted struct {
	path   dbus.ObjectPath
	name   string
	values []interface{}
}

type fakeConn struct {
	signals []emitted
	err     error
}

func (c *fakeConn) Emit(path dbus.ObjectPath, name string, values ...interface{}) error {
	if c.err != nil {
		return c.err
	}
	c.signals = append(c.signals, emitted{path: path, name: name, values: values})
	return nil
}

func TestCloseReasonString(t *testing.T) {
	tests := []struct {
		reason   CloseReason
		expected string
	}{
		{CloseReasonExpired, "expired"},
		{CloseReasonDismissed, "dismissed"},
		{CloseReasonClosed, "closed"},
		{CloseReasonUndefined, "undefined"},
		{CloseReason(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.String())
		})
	}
}

func TestReasonFor(t *testing.T) {
	assert.Equal(t, CloseReasonExpired, ReasonFor(notice.CloseAuto))
	assert.Equal(t, CloseReasonDismissed, ReasonFor(notice.CloseManual))
	assert.Equal(t, CloseReasonUndefined, ReasonFor(notice.CloseType("other")))
}

func TestSignaler_ID(t *testing.T) {
	s := NewSignaler(&fakeConn{}, nil)

	a := s.ID("a")
	b := s.ID("b")

	assert.Equal(t, uint32(1), a)
	assert.Equal(t, uint32(2), b)
	assert.Equal(t, a, s.ID("a"), "ids are stable per key")
}

func TestSignaler_Wrap(t *testing.T) {
	conn := &fakeConn{}
	s := NewSignaler(conn, nil)
	id := s.ID("k1")

	var got []notice.CloseType
	onClose := s.Wrap(func(key string, ct notice.CloseType) {
		assert.Equal(t, "k1", key)
		got = append(got, ct)
	})

	onClose("k1", notice.CloseAuto)

	require.Len(t, conn.signals, 1)
	sig := conn.signals[0]
	assert.Equal(t, dbus.ObjectPath(DBusPath), sig.path)
	assert.Equal(t, "org.freedesktop.Notifications.NotificationClosed", sig.name)
	assert.Equal(t, []interface{}{id, uint32(CloseReasonExpired)}, sig.values)
	assert.Equal(t, []notice.CloseType{notice.CloseAuto}, got)

	// The id is released after the close.
	assert.NotEqual(t, id, s.ID("k1"))
}

func TestSignaler_WrapEmitErrorStillCallsNext(t *testing.T) {
	s := NewSignaler(&fakeConn{err: errors.New("bus gone")}, nil)

	called := false
	s.Wrap(func(string, notice.CloseType) { called = true })("k", notice.CloseManual)

	assert.True(t, called)
}

func TestSignaler_NilConn(t *testing.T) {
	s := NewSignaler(nil, nil)
	assert.Error(t, s.EmitNotificationClosed(1, CloseReasonDismissed))
}
