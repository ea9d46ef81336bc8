package notice

import "strings"

// RoleAttribute is the only non-prefixed passthrough attribute.
const RoleAttribute = "role"

var passthroughPrefixes = []string{"data-", "aria-"}

// IsPassthroughAttribute reports whether name is forwarded to the
// rendered output: data-*, aria-* or role.
func IsPassthroughAttribute(name string) bool {
	if name == RoleAttribute {
		return true
	}
	for _, p := range passthroughPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// FilterAttributes returns the passthrough subset of props with values
// unchanged. The input is not modified.
func FilterAttributes(props map[string]any) map[string]any {
	out := make(map[string]any)
	for name, v := range props {
		if IsPassthroughAttribute(name) {
			out[name] = v
		}
	}
	return out
}
