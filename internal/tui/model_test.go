package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/noticekit/internal/config"
	"github.com/jmylchreest/noticekit/internal/notice"
)

func testNoticeConfig() config.NoticeConfig {
	cfg := config.DefaultConfig().Notice
	cfg.Duration = config.Duration(time.Hour)
	cfg.Closable = true
	cfg.Content = "Build finished"
	return cfg
}

func started(t *testing.T, cfg config.NoticeConfig, opts ...Option) Model {
	t.Helper()
	m := New(cfg, opts...)
	updated, _ := m.Update(newNoticeMsg{})
	m = updated.(Model)
	require.NotNil(t, m.current)
	t.Cleanup(func() {
		if m.current != nil {
			m.current.Destroy()
		}
	})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func nextEvent(t *testing.T, m Model) tea.Msg {
	t.Helper()
	select {
	case msg := <-m.events:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notice event")
		return nil
	}
}

func TestModel_NewNoticeIsPending(t *testing.T) {
	m := started(t, testNoticeConfig())

	assert.Equal(t, notice.StatePending, m.current.State())
	assert.NotEmpty(t, m.current.Key())
	assert.Contains(t, m.View(), "Build finished")
	assert.Contains(t, m.View(), "×")
}

func TestModel_HoverPausesAndRestarts(t *testing.T) {
	m := started(t, testNoticeConfig())

	updated, _ := m.Update(tea.MouseMsg{X: 5, Y: 1, Action: tea.MouseActionMotion})
	m = updated.(Model)
	assert.True(t, m.hovered)
	assert.Equal(t, notice.StateIdle, m.current.State())

	updated, _ = m.Update(tea.MouseMsg{X: 200, Y: 50, Action: tea.MouseActionMotion})
	m = updated.(Model)
	assert.False(t, m.hovered)
	assert.Equal(t, notice.StatePending, m.current.State())
}

func TestModel_HoverKeyToggles(t *testing.T) {
	m := started(t, testNoticeConfig())

	updated, _ := m.Update(keyMsg("h"))
	m = updated.(Model)
	assert.Equal(t, notice.StateIdle, m.current.State())

	updated, _ = m.Update(keyMsg("h"))
	m = updated.(Model)
	assert.Equal(t, notice.StatePending, m.current.State())
}

func TestModel_ClickCloseGlyph(t *testing.T) {
	m := started(t, testNoticeConfig())
	key := m.current.Key()

	box := m.renderNotice()
	require.Contains(t, strings.Split(box, "\n")[1], "×")

	closeX := noticeWidth - 1
	inside, part := m.hitTest(closeX, 1)
	require.True(t, inside)
	require.Equal(t, notice.PartClose, part)

	updated, _ := m.Update(tea.MouseMsg{
		X: closeX, Y: 1,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = updated.(Model)

	msg := nextEvent(t, m)
	closed, ok := msg.(closedMsg)
	require.True(t, ok, "expected closedMsg, got %T", msg)
	assert.Equal(t, key, closed.key)
	assert.Equal(t, notice.CloseManual, closed.closeType)

	updated, _ = m.Update(closed)
	m = updated.(Model)
	assert.Nil(t, m.current)
	require.Len(t, m.closes, 1)
	assert.Contains(t, m.View(), "press n")
}

func TestModel_ClickContentBubbles(t *testing.T) {
	m := started(t, testNoticeConfig())

	updated, _ := m.Update(tea.MouseMsg{
		X: 3, Y: 1,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = updated.(Model)

	msg := nextEvent(t, m)
	clicked, ok := msg.(clickedMsg)
	require.True(t, ok, "expected clickedMsg, got %T", msg)
	assert.Equal(t, notice.PartContent, clicked.part)
	assert.NotEqual(t, notice.StateClosed, m.current.State())

	updated, _ = m.Update(clicked)
	m = updated.(Model)
	assert.Contains(t, m.statusMsg, "clicked")
}

func TestModel_AutoClose(t *testing.T) {
	cfg := testNoticeConfig()
	cfg.Duration = config.Duration(20 * time.Millisecond)
	m := started(t, cfg)

	msg := nextEvent(t, m)
	closed, ok := msg.(closedMsg)
	require.True(t, ok, "expected closedMsg, got %T", msg)
	assert.Equal(t, notice.CloseAuto, closed.closeType)
}

func TestModel_CloseKey(t *testing.T) {
	cfg := testNoticeConfig()
	cfg.Closable = false
	m := started(t, cfg)

	updated, _ := m.Update(keyMsg("x"))
	m = updated.(Model)

	closed, ok := nextEvent(t, m).(closedMsg)
	require.True(t, ok)
	assert.Equal(t, notice.CloseManual, closed.closeType)
}

func TestModel_RestartBumpsUpdateMark(t *testing.T) {
	m := started(t, testNoticeConfig())
	before := m.current.Config().UpdateMark

	updated, _ := m.Update(keyMsg("r"))
	m = updated.(Model)

	assert.NotEqual(t, before, m.current.Config().UpdateMark)
	assert.Equal(t, notice.StatePending, m.current.State())
}

func TestModel_DurationKeys(t *testing.T) {
	cfg := testNoticeConfig()
	cfg.Duration = config.Duration(durationStep)
	m := started(t, cfg)

	updated, _ := m.Update(keyMsg("-"))
	m = updated.(Model)
	assert.Equal(t, time.Duration(0), m.current.Config().Duration)
	assert.Equal(t, notice.StateIdle, m.current.State())

	updated, _ = m.Update(keyMsg("-"))
	m = updated.(Model)
	assert.Equal(t, config.Duration(0), m.cfg.Duration)

	updated, _ = m.Update(keyMsg("+"))
	m = updated.(Model)
	assert.Equal(t, durationStep, m.current.Config().Duration)
	assert.Equal(t, notice.StatePending, m.current.State())
}

func TestModel_ConfigReload(t *testing.T) {
	m := started(t, testNoticeConfig())
	key := m.current.Key()

	reloaded := config.DefaultConfig()
	reloaded.Notice.Duration = config.Duration(2 * time.Hour)
	reloaded.Notice.Content = "Reloaded"

	updated, _ := m.Update(ConfigMsg{Config: reloaded})
	m = updated.(Model)

	assert.Equal(t, key, m.current.Key())
	assert.Equal(t, 2*time.Hour, m.current.Config().Duration)
	assert.Contains(t, m.View(), "Reloaded")
	assert.Equal(t, "configuration reloaded", m.statusMsg)
}

func TestModel_ToggleMount(t *testing.T) {
	m := started(t, testNoticeConfig())

	updated, _ := m.Update(keyMsg("m"))
	m = updated.(Model)
	require.True(t, m.portal)
	require.NotNil(t, m.mount.FirstChild)
	assert.Nil(t, m.current.Render())

	updated, _ = m.Update(keyMsg("m"))
	m = updated.(Model)
	assert.False(t, m.portal)
	assert.Nil(t, m.mount.FirstChild)
	assert.NotNil(t, m.current.Render())
}

func TestModel_CopyHTML(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m := started(t, testNoticeConfig())

	_, cmd := m.Update(keyMsg("c"))
	require.NotNil(t, cmd)
	msg := cmd()

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.statusErr)
	assert.Contains(t, copied, `class="rc-notification-notice rc-notification-notice-closable"`)
	assert.Contains(t, copied, "Build finished")
}

func TestModel_CopyHTMLFailure(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { writeClipboard = orig })

	m := started(t, testNoticeConfig())

	_, cmd := m.Update(keyMsg("c"))
	require.NotNil(t, cmd)

	updated, _ := m.Update(cmd())
	m = updated.(Model)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "no clipboard")
}

func TestModel_CloseWrapper(t *testing.T) {
	var wrapped []notice.CloseType
	wrap := func(next notice.CloseFunc) notice.CloseFunc {
		return func(key string, ct notice.CloseType) {
			wrapped = append(wrapped, ct)
			next(key, ct)
		}
	}

	m := started(t, testNoticeConfig(), WithCloseWrapper(wrap))
	m.current.Close(nil)

	_, ok := nextEvent(t, m).(closedMsg)
	require.True(t, ok)
	assert.Equal(t, []notice.CloseType{notice.CloseManual}, wrapped)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	got := truncate("a much longer line of text", 10)
	assert.LessOrEqual(t, len([]rune(got)), 10)
	assert.True(t, strings.HasSuffix(got, "…"))
}
