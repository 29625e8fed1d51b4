// Package util holds the small conversions shared across the core: signed
// byte reinterpretation, big/little-endian 16-bit packing, and the
// post-boot register/memory snapshot used to verify that a real boot ROM
// run landed in the expected state. Nothing in the core applies the
// snapshot to skip the boot ROM.
package util

// Pack16 combines a high and low byte into a 16-bit big-endian pair, as used
// by the register file's paired views (AF, BC, DE, HL).
func Pack16(hi, lo uint8) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// Unpack16 splits a 16-bit value into its high and low bytes.
func Unpack16(v uint16) (hi, lo uint8) {
	return uint8(v >> 8), uint8(v)
}

// PackLE combines a high and low byte into a 16-bit value as stored
// little-endian on the bus: low byte at the lower address.
func PackLE(lo, hi uint8) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// UnpackLE splits a 16-bit value into the (low, high) byte pair as written
// little-endian on the bus.
func UnpackLE(v uint16) (lo, hi uint8) {
	return uint8(v), uint8(v >> 8)
}

// ToSigned8 reinterprets an unsigned byte as a signed value in -128..127,
// used for the r8 PC-relative argument kind.
func ToSigned8(v uint8) int8 {
	return int8(v)
}

// RegisterSnapshot is the canonical post-boot register file: what a real
// DMG boot ROM leaves behind just before jumping to 0x0100.
type RegisterSnapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
}

// PostBootRegisters is the register file produced by a correct boot ROM run.
var PostBootRegisters = RegisterSnapshot{
	A: 0x01, F: 0xB0,
	B: 0x00, C: 0x13,
	D: 0x00, E: 0xD8,
	H: 0x01, L: 0xFD,
	SP: 0xFFFE, PC: 0x0100,
}

// MemWrite is one entry of the post-boot memory snapshot: an address and the
// byte the boot ROM is known to leave there.
type MemWrite struct {
	Addr uint16
	Val  uint8
}

// PostBootMemory is the list of memory-mapped register values a correct boot
// ROM run leaves behind. Used by the CPU's post-boot verification to check
// that a real run landed correctly; no code writes it to memory to
// fast-forward past the boot ROM.
var PostBootMemory = []MemWrite{
	{0xFF05, 0x00}, {0xFF06, 0x00}, {0xFF07, 0x00},
	{0xFF10, 0x80}, {0xFF11, 0xBF}, {0xFF12, 0xF3}, {0xFF14, 0xBF},
	{0xFF16, 0x3F}, {0xFF17, 0x00}, {0xFF19, 0xBF}, {0xFF1A, 0x7F},
	{0xFF1B, 0xFF}, {0xFF1C, 0x9F}, {0xFF1E, 0xBF},
	{0xFF20, 0xFF}, {0xFF21, 0x00}, {0xFF22, 0x00}, {0xFF23, 0xBF},
	{0xFF24, 0x77}, {0xFF25, 0xF3}, {0xFF26, 0xF1},
	{0xFF40, 0x91}, {0xFF42, 0x00}, {0xFF43, 0x00}, {0xFF45, 0x00},
	{0xFF47, 0xFC}, {0xFF48, 0xFF}, {0xFF49, 0xFF}, {0xFF4A, 0x00}, {0xFF4B, 0x00},
	{0xFFFF, 0x00},
}
