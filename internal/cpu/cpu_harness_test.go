package cpu

import (
	"math/rand"
	"testing"

	"dmgcore/internal/bus"
	"dmgcore/internal/cartridge"
	"dmgcore/internal/display"
)

const testBankSize = 0x4000

// newTestCPU builds a CPU over a throwaway 2-bank cartridge and a boot ROM
// that immediately disables itself, then parks PC in work RAM (0xC000) so
// tests can write small programs there without touching cartridge banking.
func newTestCPU(t *testing.T) *CPU {
	t.Helper()
	rom := make([]uint8, 2*testBankSize)
	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	boot := make([]uint8, 256)
	disp := display.New(rand.New(rand.NewSource(1)))
	b := bus.New(cart, disp, boot, rand.New(rand.NewSource(2)))
	b.Write(0xFF50, 1) // leave the boot ROM immediately; these tests exercise the CPU, not boot sequencing
	c := New(b)
	c.R.PC = 0xC000
	return c
}

// loadProgram writes bytes starting at 0xC000 and resets PC there.
func loadProgram(c *CPU, bytes ...uint8) {
	for i, v := range bytes {
		c.Bus.Write(0xC000+uint16(i), v)
	}
	c.R.PC = 0xC000
}
