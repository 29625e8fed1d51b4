package bus

import (
	"math/rand"
	"testing"

	"dmgcore/internal/cartridge"
	"dmgcore/internal/display"
)

const testBankSize = 0x4000

func testCart(t *testing.T, banks int) *cartridge.Cartridge {
	t.Helper()
	rom := make([]uint8, banks*testBankSize)
	for b := 0; b < banks; b++ {
		rom[b*testBankSize] = uint8(b) // each bank's first byte identifies it
	}
	c, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	return c
}

func testBus(t *testing.T, banks int) *Bus {
	t.Helper()
	cart := testCart(t, banks)
	disp := display.New(rand.New(rand.NewSource(1)))
	boot := make([]uint8, 256)
	boot[0] = 0xAB
	return New(cart, disp, boot, rand.New(rand.NewSource(2)))
}

func TestBootROMMappedUntilLatchWrite(t *testing.T) {
	b := testBus(t, 2)
	if !b.BootROMActive() {
		t.Fatal("boot ROM should be active at construction")
	}
	if got := b.Read(0x0000); got != 0xAB {
		t.Errorf("Read(0x0000) = 0x%02X, want boot ROM byte 0xAB", got)
	}

	b.Write(0xFF50, 0x01)

	if b.BootROMActive() {
		t.Fatal("boot ROM should be disabled after any write to 0xFF50")
	}
	if got := b.Read(0x0000); got != 0x00 {
		t.Errorf("Read(0x0000) after boot disable = 0x%02X, want cart bank 0 byte 0x00", got)
	}
}

func TestBankSwitchSelectsRequestedBank(t *testing.T) {
	// Scenario S5: a 4-bank cartridge, writing 2 then reading back bank 2's
	// first byte; writing 0 substitutes bank 1, never bank 0.
	b := testBus(t, 4)

	b.Write(0x2000, 0x02)
	if got := b.Read(0x4000); got != 2 {
		t.Errorf("after selecting bank 2, Read(0x4000) = %d, want 2", got)
	}
	if b.CurrentBank() != 2 {
		t.Errorf("CurrentBank() = %d, want 2", b.CurrentBank())
	}

	b.Write(0x2000, 0x00)
	if got := b.Read(0x4000); got != 1 {
		t.Errorf("after selecting bank 0, Read(0x4000) = %d, want 1 (never 0)", got)
	}
}

func TestBankSwitchWrapsModuloBankCount(t *testing.T) {
	b := testBus(t, 4)
	b.Write(0x2000, 0x06) // 6 mod 4 == 2
	if b.CurrentBank() != 2 {
		t.Errorf("CurrentBank() = %d, want 2 (6 mod 4)", b.CurrentBank())
	}
}

func TestWorkRAMMirrorInvariant(t *testing.T) {
	b := testBus(t, 2)
	b.Write(0xFF50, 1) // leave the boot ROM so 0x0000..0x00FF isn't special-cased here

	for addr := uint16(0xC000); addr <= 0xDDFF; addr += 997 {
		b.Write(addr, uint8(addr))
		if got, want := b.Read(addr), b.Read(addr+0x1000); got != want {
			t.Fatalf("mirror broken at 0x%04X: Read(a)=0x%02X Read(a+0x1000)=0x%02X", addr, got, want)
		}
	}

	// And the mirror direction the other way: a write in 0xE000..0xFDFF
	// also lands at address-0x1000.
	b.Write(0xE010, 0x77)
	if got := b.Read(0xD010); got != 0x77 {
		t.Errorf("Read(0xD010) = 0x%02X after writing echo 0xE010, want 0x77", got)
	}
}

func TestWorkRAMMirrorHoldsAtConstruction(t *testing.T) {
	// Invariant 3 must hold even before any write -- the randomized
	// power-on fill must already be mirrored.
	b := testBus(t, 2)
	for addr := uint16(0xC000); addr <= 0xDDFF; addr += 611 {
		if got, want := b.Read(addr), b.Read(addr+0x1000); got != want {
			t.Fatalf("mirror not established at construction for 0x%04X: 0x%02X != 0x%02X", addr, got, want)
		}
	}
}

func TestLCDIODispatchesToDisplay(t *testing.T) {
	b := testBus(t, 2)
	b.Write(0xFF40, 0x91)
	if got := b.Read(0xFF40); got != 0x91 {
		t.Errorf("Read(0xFF40) = 0x%02X, want 0x91", got)
	}
	if got := b.Display.LCDC(); got != 0x91 {
		t.Errorf("Display.LCDC() = 0x%02X, want 0x91", got)
	}
}

func TestLYWriteResetsToZero(t *testing.T) {
	b := testBus(t, 2)
	b.Write(0xFF44, 0x50)
	if got := b.Read(0xFF44); got != 0 {
		t.Errorf("Read(0xFF44) after write = 0x%02X, want 0x00 (LY write always resets)", got)
	}
}

func TestRead16Write16AreLittleEndian(t *testing.T) {
	b := testBus(t, 2)
	b.Write(0xFF50, 1) // disable boot ROM so 0x0000 reads cart RAM-like space isn't relevant here
	b.Write16(0xC100, 0xBEEF)
	if got := b.Read16(0xC100); got != 0xBEEF {
		t.Errorf("Read16(0xC100) = 0x%04X, want 0xBEEF", got)
	}
	if got := b.Read(0xC100); got != 0xEF {
		t.Errorf("low byte at 0xC100 = 0x%02X, want 0xEF", got)
	}
	if got := b.Read(0xC101); got != 0xBE {
		t.Errorf("high byte at 0xC101 = 0x%02X, want 0xBE", got)
	}
}
