// Package mmio provides typed access to memory mapped peripheral registers.
//
// A register block is declared as a struct of U32 and R32 fields in the order
// and at the offsets the peripheral documents, and overlaid on the block's
// physical base address:
//
//	var regs = (*registers)(unsafe.Pointer(baseAddr))
//
// Every operation is a single 32 bit atomic load or store. Accesses are never
// cached in software, never merged and never reordered relative to each other,
// so program order equals the order the peripheral observes. Values are not
// validated: writing a value that doesn't fit a field is the caller's problem.
//
// Since registers are ordinary memory as far as this package is concerned,
// tests can declare the same struct on the heap and inspect it.
package mmio

import (
	"sync/atomic"
	"unsafe"

	"github.com/clktmr/rpi/debug"
)

// T32 is the constraint for the flag type of a typed 32 bit register.
type T32 interface{ ~uint32 }

// U32 is a raw 32 bit register.
type U32 struct {
	r uint32
}

func (r *U32) Load() uint32 { return atomic.LoadUint32(&r.r) }

func (r *U32) Store(v uint32) { atomic.StoreUint32(&r.r, v) }

// LoadBits returns the bits of r selected by mask.
func (r *U32) LoadBits(mask uint32) uint32 { return r.Load() & mask }

// StoreBits replaces the bits selected by mask with bits. It's a
// read-modify-write and therefore not suitable for write-only registers.
func (r *U32) StoreBits(mask, bits uint32) {
	r.Store(r.Load()&^mask | bits&mask)
}

func (r *U32) SetBits(mask uint32) { r.Store(r.Load() | mask) }

func (r *U32) ClearBits(mask uint32) { r.Store(r.Load() &^ mask) }

// Addr returns the address of the register.
func (r *U32) Addr() uintptr { return uintptr(unsafe.Pointer(&r.r)) }

// R32 is a 32 bit register whose bits are described by T. Fields of the
// register are declared as Field[T] and their values as FieldValue[T], which
// keeps values of one register from being written to another.
type R32[T T32] struct {
	U32
}

func (r *R32[T]) Load() T { return T(r.U32.Load()) }

func (r *R32[T]) Store(v T) { r.U32.Store(uint32(v)) }

func (r *R32[T]) LoadBits(mask T) T { return T(r.U32.LoadBits(uint32(mask))) }

func (r *R32[T]) StoreBits(mask, bits T) { r.U32.StoreBits(uint32(mask), uint32(bits)) }

func (r *R32[T]) SetBits(mask T) { r.U32.SetBits(uint32(mask)) }

func (r *R32[T]) ClearBits(mask T) { r.U32.ClearBits(uint32(mask)) }

// Read returns the raw value of field f.
func (r *R32[T]) Read(f Field[T]) uint32 {
	return f.Extract(r.Load())
}

// Write stores the combined field values. Bits not covered by any of them are
// written as zero.
func (r *R32[T]) Write(v ...FieldValue[T]) {
	r.Store(Join(v...).Value)
}

// Modify changes only the bits covered by the field values and leaves all
// other bits as they are.
func (r *R32[T]) Modify(v ...FieldValue[T]) {
	fv := Join(v...)
	r.StoreBits(fv.Mask, fv.Value)
}

// Matches reports whether all of the field values currently hold.
func (r *R32[T]) Matches(v ...FieldValue[T]) bool {
	fv := Join(v...)
	return r.LoadBits(fv.Mask) == fv.Value
}

// MatchesAny reports whether at least one of the field values currently
// holds.
func (r *R32[T]) MatchesAny(v ...FieldValue[T]) bool {
	val := r.Load()
	for _, fv := range v {
		if val&fv.Mask == fv.Value {
			return true
		}
	}
	return false
}

// Field is a contiguous range of Width bits starting at bit Shift of a
// register described by T.
type Field[T T32] struct {
	Shift uint8
	Width uint8
}

// Mask returns the bits covered by f.
func (f Field[T]) Mask() T {
	return T((uint64(1)<<f.Width - 1) << f.Shift)
}

// Val returns the field value holding raw.
func (f Field[T]) Val(raw uint32) FieldValue[T] {
	debug.Assert(uint64(raw) < uint64(1)<<f.Width, "mmio: value exceeds field width")
	return FieldValue[T]{Mask: f.Mask(), Value: T(raw<<f.Shift) & f.Mask()}
}

// Set returns the field value with all bits of f set.
func (f Field[T]) Set() FieldValue[T] {
	return FieldValue[T]{Mask: f.Mask(), Value: f.Mask()}
}

// Clear returns the field value with all bits of f cleared.
func (f Field[T]) Clear() FieldValue[T] {
	return FieldValue[T]{Mask: f.Mask()}
}

// Extract returns the raw value of f in register value v.
func (f Field[T]) Extract(v T) uint32 {
	return uint32(v&f.Mask()) >> f.Shift
}

// FieldValue is a value for one or more fields of a register described by T.
type FieldValue[T T32] struct {
	Mask  T
	Value T
}

// Join combines field values. Later values take precedence where fields
// overlap.
func Join[T T32](v ...FieldValue[T]) (fv FieldValue[T]) {
	for _, x := range v {
		fv.Mask |= x.Mask
		fv.Value = fv.Value&^x.Mask | x.Value&x.Mask
	}
	return
}

// Poller blocks while fv matches r. Drivers do all their waiting on hardware
// through a Poller, so the waiting policy can be replaced in a single place.
type Poller[T T32] func(r *R32[T], fv FieldValue[T])

// Spin is the default Poller. It polls r until fv no longer matches and will
// spin forever if the peripheral never changes state.
func Spin[T T32](r *R32[T], fv FieldValue[T]) {
	for r.Matches(fv) {
		// wait
	}
}
