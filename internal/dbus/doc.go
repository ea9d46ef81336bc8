// Package dbus reports notice dismissals on the session bus using the
// org.freedesktop.Notifications NotificationClosed signal.
package dbus
