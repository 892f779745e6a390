//go:build !linux && !windows

package focus

import "runtime"

// otherProvider is the fallback on platforms without a title source.
type otherProvider struct{}

func newPlatformProvider() Provider {
	return otherProvider{}
}

func (otherProvider) ActiveWindowTitle() (string, error) {
	return "", nil
}

func (otherProvider) Available() (bool, string) {
	return false, "focus tracking not available on " + runtime.GOOS
}

var _ Provider = otherProvider{}
