package notice

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render composes the visual subtree. When the configuration names a
// mount target the subtree replaces any earlier one attached there and
// Render returns nil; otherwise the subtree is returned for inline use.
func (n *Notice) Render() *html.Node {
	n.mu.Lock()
	defer n.mu.Unlock()

	node := Compose(n.cfg)
	target := ResolveTarget(n.cfg.MountTarget)

	n.detachPortalLocked()
	if target.Inline() {
		return node
	}
	target.Mount.AppendChild(node)
	n.portal = node
	return nil
}

// detachPortalLocked removes the subtree previously attached to a mount
// target. Caller must hold the lock.
func (n *Notice) detachPortalLocked() {
	if n.portal == nil {
		return
	}
	if parent := n.portal.Parent; parent != nil {
		parent.RemoveChild(n.portal)
	}
	n.portal = nil
}

// Compose builds the notice markup for cfg:
//
//	<div class="P-notice [class] [P-notice-closable]" style="..." data-*/aria-*/role>
//	  <div class="P-notice-content">children</div>
//	  <a tabindex="0" class="P-notice-close">icon | <span class="P-notice-close-x"></span></a>
//	</div>
//
// Children and the close icon are deep-copied so cfg can be composed
// more than once.
func Compose(cfg Config) *html.Node {
	componentClass := cfg.prefix() + "-notice"

	closableClass := ""
	if cfg.Closable {
		closableClass = componentClass + "-closable"
	}

	root := element(atom.Div, html.Attribute{
		Key: "class",
		Val: classNames(componentClass, cfg.Class, closableClass),
	})
	if style := inlineStyle(cfg.Style); style != "" {
		root.Attr = append(root.Attr, html.Attribute{Key: "style", Val: style})
	}
	root.Attr = append(root.Attr, passthroughAttrs(cfg.Props)...)

	content := element(atom.Div, html.Attribute{Key: "class", Val: componentClass + "-content"})
	for _, child := range cfg.Children {
		if child != nil {
			content.AppendChild(cloneNode(child))
		}
	}
	root.AppendChild(content)

	if cfg.Closable {
		closer := element(atom.A,
			html.Attribute{Key: "tabindex", Val: "0"},
			html.Attribute{Key: "class", Val: componentClass + "-close"},
		)
		if cfg.CloseIcon != nil {
			closer.AppendChild(cloneNode(cfg.CloseIcon))
		} else {
			closer.AppendChild(element(atom.Span, html.Attribute{Key: "class", Val: componentClass + "-close-x"}))
		}
		root.AppendChild(closer)
	}

	return root
}

// WriteHTML serializes the inline output of n to w. A notice rendered
// into a mount target writes nothing.
func (n *Notice) WriteHTML(w io.Writer) error {
	node := n.Render()
	if node == nil {
		return nil
	}
	return html.Render(w, node)
}

// Text returns a text node, handy for Config.Children and CloseIcon.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

// classNames joins the non-empty class names with single spaces.
func classNames(names ...string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

// inlineStyle serializes style declarations in property order.
func inlineStyle(style map[string]string) string {
	if len(style) == 0 {
		return ""
	}
	props := make([]string, 0, len(style))
	for p := range style {
		props = append(props, p)
	}
	sort.Strings(props)

	decls := make([]string, 0, len(props))
	for _, p := range props {
		decls = append(decls, p+": "+style[p])
	}
	return strings.Join(decls, "; ")
}

func passthroughAttrs(props map[string]any) []html.Attribute {
	filtered := FilterAttributes(props)
	names := make([]string, 0, len(filtered))
	for name := range filtered {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]html.Attribute, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, html.Attribute{Key: name, Val: fmt.Sprint(filtered[name])})
	}
	return attrs
}

func cloneNode(src *html.Node) *html.Node {
	dst := &html.Node{
		Type:      src.Type,
		DataAtom:  src.DataAtom,
		Data:      src.Data,
		Namespace: src.Namespace,
		Attr:      append([]html.Attribute(nil), src.Attr...),
	}
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		dst.AppendChild(cloneNode(c))
	}
	return dst
}
