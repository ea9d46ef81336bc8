package notice

import "golang.org/x/net/html"

// RenderTarget says where a notice's visual subtree is attached.
type RenderTarget struct {
	// Mount is the external attachment point, or nil for inline output.
	Mount *html.Node
}

// Inline reports whether the subtree stays in its normal position.
func (t RenderTarget) Inline() bool {
	return t.Mount == nil
}

// ResolveTarget decides between inline rendering and an external mount.
// It holds no state and does not affect event routing.
func ResolveTarget(mount *html.Node) RenderTarget {
	return RenderTarget{Mount: mount}
}
