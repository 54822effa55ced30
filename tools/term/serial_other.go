//go:build !linux

package term

import (
	"errors"
	"os"
)

var errUnsupported = errors.New("serial lines are only supported on linux")

func OpenSerial(path string, baud int) (*os.File, error) {
	return nil, errUnsupported
}

func MakeRaw(fd int) (restore func() error, err error) {
	return nil, errUnsupported
}
