// Package mem implements the Memory region abstraction: a named byte array
// with a fixed base offset, an optional read-only flag, and a randomized
// power-on fill. Cartridge ROM banks, VRAM, and work RAM are all instances
// of this one type.
package mem

import (
	"math/rand"

	"dmgcore/internal/emuerr"
)

// Region is a fixed-length, named byte array addressed by a base offset:
// index i corresponds to address (Base + i). Writes to a ReadOnly region
// fail with a *emuerr.MemoryError.
type Region struct {
	Name     string
	Base     uint16
	ReadOnly bool
	bytes    []uint8
}

// NewRegion allocates a zero-filled region of the given length.
func NewRegion(name string, base uint16, length int, readOnly bool) *Region {
	return &Region{
		Name:     name,
		Base:     base,
		ReadOnly: readOnly,
		bytes:    make([]uint8, length),
	}
}

// NewRandomizedRegion allocates a region filled with pseudo-random bytes
// drawn from rnd, reproducing the deliberate "no implicit zero
// initialisation" power-on behaviour: cartridge code that assumes
// zero-filled RAM is exposed rather than accidentally working.
func NewRandomizedRegion(name string, base uint16, length int, readOnly bool, rnd *rand.Rand) *Region {
	r := NewRegion(name, base, length, readOnly)
	for i := range r.bytes {
		r.bytes[i] = uint8(rnd.Intn(256))
	}
	return r
}

// Len returns the region's fixed length in bytes.
func (r *Region) Len() int { return len(r.bytes) }

// Contains reports whether address falls within [Base, Base+Len).
func (r *Region) Contains(address uint16) bool {
	off := int(address) - int(r.Base)
	return off >= 0 && off < len(r.bytes)
}

// Read returns the byte at address. Address must satisfy Contains: Read
// does not check it and panics on an out-of-range index. ReadErr reports
// the same case as a *emuerr.MemoryError instead.
func (r *Region) Read(address uint16) uint8 {
	return r.bytes[int(address)-int(r.Base)]
}

// ReadErr is Read with explicit out-of-range reporting, for callers at a
// trust boundary (e.g. an external memory dump request) rather than the
// hot bus-dispatch path, which pre-validates the address range itself.
func (r *Region) ReadErr(address uint16) (uint8, error) {
	if !r.Contains(address) {
		return 0, &emuerr.MemoryError{Region: r.Name, Address: address, Write: false}
	}
	return r.Read(address), nil
}

// Write stores value at address. Returns a *emuerr.MemoryError if the
// region is read-only or the address is out of range.
func (r *Region) Write(address uint16, value uint8) error {
	if r.ReadOnly {
		return &emuerr.MemoryError{Region: r.Name, Address: address, Write: true}
	}
	if !r.Contains(address) {
		return &emuerr.MemoryError{Region: r.Name, Address: address, Write: true}
	}
	r.bytes[int(address)-int(r.Base)] = value
	return nil
}

// RawAt indexes the region directly by offset (not address), for callers
// that already computed the offset (the bus's fast path, the display's
// tile decoder). No bounds check: the caller is trusted to have validated
// range via the region's fixed size and the bus's address map.
func (r *Region) RawAt(offset uint16) uint8 {
	return r.bytes[offset]
}

// SetRawAt is RawAt's write counterpart, bypassing the ReadOnly flag for
// internal setup (e.g. loading a boot ROM image into a region before it is
// ever exposed to the bus).
func (r *Region) SetRawAt(offset uint16, value uint8) {
	r.bytes[offset] = value
}

// Bytes exposes the underlying slice read-only, for bulk operations like
// hashing a snapshot of VRAM in tests.
func (r *Region) Bytes() []uint8 {
	return r.bytes
}

// LoadAt copies src into the region starting at offset, used to seed the
// boot ROM image or a cartridge bank's fixed contents.
func (r *Region) LoadAt(offset uint16, src []uint8) {
	copy(r.bytes[offset:], src)
}
