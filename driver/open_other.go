//go:build !linux && !windows && !darwin

package driver

func open() (*backend, error) {
	return nil, ErrUnsupported
}
