package tui

import (
	"bytes"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"
)

// copyResultMsg reports the outcome of a clipboard copy.
type copyResultMsg struct {
	err error
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// copyNode copies the serialized markup of node to the system clipboard.
func copyNode(node *html.Node) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := html.Render(&buf, node); err != nil {
			return copyResultMsg{err: err}
		}
		return copyResultMsg{err: writeClipboard(buf.String())}
	}
}
