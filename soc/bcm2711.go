//go:build rpi4

package soc

const (
	Model                  = "BCM2711"
	PeripheralBase uintptr = 0xfe00_0000
)
