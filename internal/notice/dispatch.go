package notice

// CloseType classifies why a notice was dismissed.
type CloseType string

const (
	// CloseManual is a dismissal caused by a direct user action.
	CloseManual CloseType = "manual"
	// CloseAuto is a dismissal caused by timer expiry.
	CloseAuto CloseType = "auto"
)

// String returns the close type name.
func (c CloseType) String() string {
	return string(c)
}

// dispatchLocked cancels any pending timer, marks the notice closed and
// returns the owner callback to run once the lock is released.
// Caller must hold the lock.
//
// No deduplication happens here: every call yields exactly one OnClose.
func (n *Notice) dispatchLocked(closeType CloseType) func() {
	n.cancelLocked()
	n.closed = true

	key := n.cfg.Key
	onClose := n.cfg.closeFunc()
	n.observer.Dispatched(key, closeType)
	n.logger.Debug("notice closed", "key", key, "close_type", closeType.String())

	return func() { onClose(key, closeType) }
}
