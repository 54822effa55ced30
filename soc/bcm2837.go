//go:build !rpi4

package soc

const (
	Model                  = "BCM2837"
	PeripheralBase uintptr = 0x3f00_0000
)
