//go:build windows

package focus

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow  = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
)

// windowsProvider reads the focused window title through the Win32 API.
type windowsProvider struct{}

func newPlatformProvider() Provider {
	return windowsProvider{}
}

func (windowsProvider) ActiveWindowTitle() (string, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return "", errors.New("no foreground window")
	}

	length, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if length == 0 {
		return "", nil
	}

	buf := make([]uint16, length+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), length+1)
	return windows.UTF16ToString(buf), nil
}

func (windowsProvider) Available() (bool, string) {
	return true, "Win32 focus tracking available"
}

var _ Provider = windowsProvider{}
