// Package drivers defines the lifecycle shared by all peripheral drivers and
// brings them up in a fixed order.
package drivers

import (
	"errors"
	"fmt"
)

// Driver is implemented by every peripheral driver.
type Driver interface {
	// Init brings the device into its working state. It's called exactly
	// once, before any other method that touches the hardware.
	Init() error

	// Name identifies the driver in diagnostics.
	Name() string
}

// InitError reports the driver that failed to initialize.
type InitError struct {
	Driver string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to load driver %s: %v", e.Driver, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ErrInitialized is returned by InitAll if it was called before.
var ErrInitialized = errors.New("drivers already initialized")

// Registry holds drivers in the order they must be initialized. Later
// drivers may depend on earlier ones, including on whatever diagnostic
// channel they provide.
type Registry struct {
	drivers []Driver
	done    bool
}

// NewRegistry returns a registry initializing drivers in the given order.
func NewRegistry(drivers ...Driver) *Registry {
	return &Registry{drivers: drivers}
}

// Drivers returns the registered drivers in initialization order.
func (r *Registry) Drivers() []Driver { return r.drivers }

// InitAll initializes the drivers in order. It stops at the first failure
// and returns an *InitError naming the driver; drivers after it are never
// initialized and nothing is retried.
func (r *Registry) InitAll() error {
	if r.done {
		return ErrInitialized
	}
	r.done = true

	for _, d := range r.drivers {
		if err := d.Init(); err != nil {
			return &InitError{Driver: d.Name(), Err: err}
		}
	}
	return nil
}
