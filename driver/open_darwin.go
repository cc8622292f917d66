//go:build darwin

package driver

// The darwin backend (Quartz event taps and CGEvent synthesis) needs cgo
// against ApplicationServices and is not built yet.
func open() (*backend, error) {
	return nil, ErrUnsupported
}
