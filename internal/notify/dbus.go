//go:build linux

package notify

import (
	"fmt"
	"path/filepath"

	"github.com/godbus/dbus/v5"
)

const (
	busName      = "org.freedesktop.Notifications"
	busPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	busInterface = "org.freedesktop.Notifications"

	appName      = "Record Machine"
	desktopEntry = "recordmachine"
)

type busNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without one it returns Nop so callers
// never need to special-case a headless session.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Nop{}, nil //nolint:nilerr // no session bus: notifications are off
	}
	return &busNotifier{obj: conn.Object(busName, busPath)}, nil
}

// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout) -> id
func (b *busNotifier) Notify(n Notification) (uint32, error) {
	var id uint32
	err := b.obj.Call(busInterface+".Notify", 0,
		appName,
		n.ReplacesID,
		n.Icon,
		n.Title,
		n.Body,
		[]string{},
		hints(n),
		n.Timeout,
	).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	return id, nil
}

func (b *busNotifier) Close(id uint32) error {
	if err := b.obj.Call(busInterface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("close notification %d: %w", id, err)
	}
	return nil
}

func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}
	if n.Urgency == UrgencyLow {
		h["transient"] = dbus.MakeVariant(true)
	}
	if filepath.IsAbs(n.Icon) {
		h["image-path"] = dbus.MakeVariant(n.Icon)
	}
	return h
}
