// Package tui provides a BubbleTea host that drives a single notice from
// terminal mouse and keyboard events.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/noticekit/internal/config"
	"github.com/jmylchreest/noticekit/internal/notice"
)

const (
	noticeWidth   = 44
	durationStep  = 500 * time.Millisecond
	tickInterval  = 250 * time.Millisecond
	closeLogLimit = 5
	eventBuffer   = 64
)

var (
	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1).
			Width(noticeWidth)
	hoveredStyle = noticeStyle.BorderForeground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// ConfigMsg delivers a reloaded configuration to a running Model.
type ConfigMsg struct {
	Config *config.Config
}

type newNoticeMsg struct{}

type closedMsg struct {
	key       string
	closeType notice.CloseType
	at        time.Time
}

type clickedMsg struct {
	part notice.Part
}

type tickMsg time.Time

// Option configures the Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNoticeOptions passes options to every notice the model creates.
func WithNoticeOptions(opts ...notice.Option) Option {
	return func(m *Model) {
		m.noticeOpts = append(m.noticeOpts, opts...)
	}
}

// WithCloseWrapper decorates the close callback of every notice,
// e.g. to emit a D-Bus signal.
func WithCloseWrapper(wrap func(notice.CloseFunc) notice.CloseFunc) Option {
	return func(m *Model) {
		m.wrapClose = wrap
	}
}

// Model is the main TUI model. It acts as the notice owner: it creates a
// notice, forwards pointer events to it and removes it once it reports a
// close.
type Model struct {
	cfg        config.NoticeConfig
	logger     *slog.Logger
	noticeOpts []notice.Option
	wrapClose  func(notice.CloseFunc) notice.CloseFunc

	// events carries callbacks from notices, which may run on timer goroutines.
	events chan tea.Msg

	current *notice.Notice
	hovered bool
	mark    int
	portal  bool
	mount   *html.Node
	closes  []closedMsg

	keys     KeyMap
	help     help.Model
	showHelp bool

	width     int
	height    int
	statusMsg string
	statusErr bool
}

// New creates a new TUI model.
func New(cfg config.NoticeConfig, opts ...Option) Model {
	m := Model{
		cfg:    cfg,
		logger: slog.Default(),
		events: make(chan tea.Msg, eventBuffer),
		mount:  &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"},
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// NewProgram creates a program with mouse motion tracking enabled.
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return newNoticeMsg{} },
		m.waitForEvent,
		tick(),
	)
}

// waitForEvent waits for the next notice callback.
func (m Model) waitForEvent() tea.Msg {
	return <-m.events
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case newNoticeMsg:
		return m.spawn(), nil

	case closedMsg:
		m.closes = append(m.closes, msg)
		if len(m.closes) > closeLogLimit {
			m.closes = m.closes[len(m.closes)-closeLogLimit:]
		}
		if m.current != nil && m.current.Key() == msg.key {
			m.current.Destroy()
			m.current = nil
			m.hovered = false
		}
		return m, m.waitForEvent

	case clickedMsg:
		m.statusMsg = "notice clicked (" + msg.part.String() + ")"
		m.statusErr = false
		return m, m.waitForEvent

	case ConfigMsg:
		if msg.Config != nil {
			m.cfg = msg.Config.Notice
			m.reconfigure()
			m.statusMsg = "configuration reloaded"
			m.statusErr = false
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = "Copy failed: " + msg.err.Error()
			m.statusErr = true
		} else {
			m.statusMsg = "Copied HTML to clipboard"
			m.statusErr = false
		}
		return m, nil

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.current != nil {
			m.current.Destroy()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.New):
		return m.spawn(), nil

	case key.Matches(msg, m.keys.Close):
		if m.current != nil {
			m.current.Close(nil)
		}

	case key.Matches(msg, m.keys.Restart):
		m.mark++
		m.reconfigure()

	case key.Matches(msg, m.keys.Longer):
		m.cfg.Duration += config.Duration(durationStep)
		m.reconfigure()

	case key.Matches(msg, m.keys.Shorter):
		m.cfg.Duration -= config.Duration(durationStep)
		if m.cfg.Duration < 0 {
			m.cfg.Duration = 0
		}
		m.reconfigure()

	case key.Matches(msg, m.keys.ToggleHover):
		if m.current != nil {
			m = m.setHover(!m.hovered)
		}

	case key.Matches(msg, m.keys.ToggleMount):
		m.portal = !m.portal
		m.reconfigure()

	case key.Matches(msg, m.keys.CopyHTML):
		if node := m.renderedNode(); node != nil {
			return m, copyNode(node)
		}
	}

	return m, nil
}

// handleMouse maps terminal mouse events onto notice events.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.current == nil {
		return m
	}

	inside, part := m.hitTest(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		m = m.setHover(inside)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m
		}
		m = m.setHover(true)
		m.current.HandleEvent(notice.NewEvent(notice.EventClick, part))
	}
	return m
}

func (m Model) setHover(hovered bool) Model {
	if hovered == m.hovered {
		return m
	}
	m.hovered = hovered

	typ := notice.EventMouseLeave
	if hovered {
		typ = notice.EventMouseEnter
	}
	m.current.HandleEvent(notice.NewEvent(typ, notice.PartRoot))
	return m
}

// hitTest locates (x, y) on the notice box drawn at the origin.
func (m Model) hitTest(x, y int) (bool, notice.Part) {
	box := m.renderNotice()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	if x < 0 || y < 0 || x >= w || y >= h {
		return false, notice.PartRoot
	}
	// The close glyph is the last padded cell of the first content row.
	if m.cfg.Closable && y == 1 && x >= w-4 && x <= w-2 {
		return true, notice.PartClose
	}
	if x > 0 && x < w-1 && y > 0 && y < h-1 {
		return true, notice.PartContent
	}
	return true, notice.PartRoot
}

// spawn replaces the current notice with a fresh one.
func (m Model) spawn() Model {
	if m.current != nil {
		m.current.Destroy()
	}

	key, err := notice.NewKey()
	if err != nil {
		m.logger.Warn("failed to generate notice key", "error", err)
	}

	m.hovered = false
	m.current = notice.New(m.noticeConfig(key), m.noticeOpts...)
	m.current.Mount()
	m.current.Render()
	m.logger.Debug("notice created", "key", m.current.Key())
	return m
}

// reconfigure pushes the current settings into the live notice.
func (m Model) reconfigure() {
	if m.current == nil {
		return
	}
	m.current.Reconfigure(m.noticeConfig(m.current.Key()))
	m.current.Render()
}

func (m Model) noticeConfig(key string) notice.Config {
	cfg := m.cfg.ToNotice(key)
	cfg.UpdateMark = fmt.Sprintf("%s#%d", m.cfg.UpdateMark, m.mark)
	if m.portal {
		cfg.MountTarget = m.mount
	}

	events := m.events
	logger := m.logger
	var onClose notice.CloseFunc = func(key string, closeType notice.CloseType) {
		post(events, closedMsg{key: key, closeType: closeType, at: time.Now()}, logger)
	}
	if m.wrapClose != nil {
		onClose = m.wrapClose(onClose)
	}
	cfg.OnClose = onClose
	cfg.OnClick = func(ev *notice.Event) {
		post(events, clickedMsg{part: ev.Part}, logger)
	}
	return cfg
}

// post delivers msg without blocking; callbacks may run inside Update.
func post(events chan<- tea.Msg, msg tea.Msg, logger *slog.Logger) {
	select {
	case events <- msg:
	default:
		logger.Warn("dropping notice event, queue full", "msg", fmt.Sprintf("%T", msg))
	}
}

// renderedNode returns the current markup: the mount target when
// portalled, the inline subtree otherwise.
func (m Model) renderedNode() *html.Node {
	if m.current == nil {
		return nil
	}
	if m.portal {
		return m.mount
	}
	return m.current.Render()
}

// View renders the TUI.
func (m Model) View() string {
	sections := []string{
		m.renderNotice(),
		m.renderStatus(),
		m.renderLog(),
	}
	if m.statusMsg != "" {
		style := dimStyle
		if m.statusErr {
			style = errStyle
		}
		sections = append(sections, style.Render(m.statusMsg))
	}
	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderNotice draws the notice box, or a placeholder when none is live.
func (m Model) renderNotice() string {
	if m.current == nil {
		return dimStyle.Render("no notice, press n to create one")
	}

	inner := noticeWidth - 2
	text := m.cfg.Content
	if m.cfg.Closable {
		text = truncate(text, inner-2)
		text += strings.Repeat(" ", inner-1-lipgloss.Width(text)) + "×"
	}

	style := noticeStyle
	if m.hovered {
		style = hoveredStyle
	}
	return style.Render(text)
}

func (m Model) renderStatus() string {
	if m.current == nil {
		return ""
	}

	state := m.current.State()
	parts := []string{
		"state: " + state.String(),
		"duration: " + m.cfg.Duration.Duration().String(),
	}
	if deadline, ok := m.current.Deadline(); ok {
		parts = append(parts, "closes "+humanize.Time(deadline))
	} else if state == notice.StateIdle && m.hovered {
		parts = append(parts, "paused")
	}
	if m.portal {
		parts = append(parts, "mount target")
	}
	return dimStyle.Render(strings.Join(parts, " · "))
}

func (m Model) renderLog() string {
	if len(m.closes) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.closes))
	for i := len(m.closes) - 1; i >= 0; i-- {
		c := m.closes[i]
		lines = append(lines, fmt.Sprintf("%s  %-6s %s", c.at.Format("15:04:05"), c.closeType, c.key))
	}
	return dimStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
