// Package notice implements a single dismissible, auto-expiring notice.
//
// A Notice owns at most one pending close timer. Lifecycle entry points
// (Mount, Reconfigure, Destroy) and pointer events (PointerEnter,
// PointerLeave) arm and cancel that timer; expiry or a manual close
// reports the dismissal to the owner through Config.OnClose together with
// a CloseType of CloseAuto or CloseManual.
//
// Every path that leaves the pending state cancels the timer before any
// new one is armed, and each armed timer carries a generation number, so
// a timer that already fired on another goroutine cannot dispatch after
// its notice has moved on.
//
// The visual output is composed as a golang.org/x/net/html node tree,
// either returned inline or attached to an external mount target.
package notice
