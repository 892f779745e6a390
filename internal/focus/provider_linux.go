//go:build linux

package focus

import (
	"errors"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
)

// linuxProvider reads the focused window title from GNOME Shell's
// Introspect interface over the session bus. Wayland compositors do not
// expose a portable focused-window query, so this is scoped to GNOME; other
// desktops report unavailable and the guard fails open.
type linuxProvider struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

func newPlatformProvider() Provider {
	return &linuxProvider{}
}

func (p *linuxProvider) bus() (*dbus.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return p.conn, nil
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	p.conn = conn
	return conn, nil
}

func (p *linuxProvider) ActiveWindowTitle() (string, error) {
	conn, err := p.bus()
	if err != nil {
		return "", err
	}

	obj := conn.Object("org.gnome.Shell", dbus.ObjectPath("/org/gnome/Shell/Introspect"))

	var windows map[uint64]map[string]dbus.Variant
	if err := obj.Call("org.gnome.Shell.Introspect.GetWindows", 0).Store(&windows); err != nil {
		return "", err
	}

	for _, props := range windows {
		focused, _ := props["has-focus"].Value().(bool)
		if !focused {
			continue
		}
		title, _ := props["title"].Value().(string)
		return title, nil
	}
	return "", errors.New("no focused window reported")
}

func (p *linuxProvider) Available() (bool, string) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" && os.Getenv("XDG_RUNTIME_DIR") == "" {
		return false, "no session bus available"
	}
	if _, err := p.ActiveWindowTitle(); err != nil {
		return false, "GNOME Shell introspection unavailable: " + err.Error()
	}
	return true, "GNOME Shell introspection available"
}

var _ Provider = (*linuxProvider)(nil)
