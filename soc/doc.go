// The soc package describes the peripheral map of the Broadcom SoCs found on
// the Raspberry Pi 3 (BCM2837) and, with the rpi4 build tag, the Raspberry Pi 4
// (BCM2711).
//
// The subpackages implement low-level drivers for single peripherals. They
// expose the hardware directly and assume exclusive ownership of their
// register block. Use the bsp package to obtain initialized instances.
package soc

// BCM2837 ARM Peripherals
// https://github.com/raspberrypi/documentation/files/1888662/BCM2837-ARM-Peripherals.-.Revised.-.V2-1.pdf
