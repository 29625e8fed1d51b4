// Package bus implements the Bus / memory controller: it maps the 16-bit
// address space to the boot ROM, cartridge banks, VRAM, work RAM (with its
// echo mirror), and the LCD I/O registers, and performs bank switching on
// writes below 0x8000. Adapted from the donor's internal/memory.Bus, which
// routes the same way (IOHandler-style dispatch keyed on address range) but
// over a fictional bank/I/O layout; here the ranges and the mirror/bank
// rules are the DMG's own.
package bus

import (
	"math/rand"

	"dmgcore/internal/cartridge"
	"dmgcore/internal/display"
	"dmgcore/internal/mem"
)

const (
	bootROMSize = 0x100

	extRAMBase = 0xA000
	extRAMSize = 0x2000

	// wramBase..wramTop together cover the internal work RAM window
	// (0xC000-0xDFFF) and its echo (0xE000-0xFDFF) as one contiguous
	// backing store, so that the mirror writes required by the bus write
	// algorithm land in ordinary slice storage.
	wramBase = 0xC000
	wramSize = 0xFE00 - wramBase

	ioScratchBase = 0xFF00
	ioScratchSize = 0x100

	lcdIOStart = 0xFF40
	lcdIOEnd   = 0xFF4B // inclusive
	bootLatch  = 0xFF50
)

// Bus wires together the boot ROM, cartridge, display (for VRAM and LCD
// I/O), and the two work-RAM windows. It is the sole mutator of cartridge
// bank selection, boot-ROM visibility, and LCD I/O registers.
type Bus struct {
	BootROM       *mem.Region
	bootROMActive bool

	Cart       *cartridge.Cartridge
	bankSelect int

	Display *display.Display

	ExtRAM    *mem.Region
	WRAM      *mem.Region
	IOScratch *mem.Region
}

// New constructs a Bus over cart and disp, loading bootROM (exactly 256
// bytes) into the boot ROM window and randomizing ExtRAM/WRAM from rnd.
func New(cart *cartridge.Cartridge, disp *display.Display, bootROM []uint8, rnd *rand.Rand) *Bus {
	boot := mem.NewRegion("Boot ROM", 0, bootROMSize, true)
	boot.LoadAt(0, bootROM)

	b := &Bus{
		BootROM:       boot,
		bootROMActive: true,
		Cart:          cart,
		bankSelect:    1,
		Display:       disp,
		ExtRAM:        mem.NewRandomizedRegion("External Work RAM", extRAMBase, extRAMSize, false, rnd),
		WRAM:          mem.NewRandomizedRegion("Internal Work RAM", wramBase, wramSize, false, rnd),
		IOScratch:     mem.NewRegion("I/O Registers", ioScratchBase, ioScratchSize, false),
	}
	b.syncWRAMMirror()
	return b
}

// syncWRAMMirror makes the just-randomized C000..DDFF/E000..FDFF pair equal
// byte-for-byte, so invariant 3 (read(a) == read(a+0x1000) for a in
// 0xC000..0xDDFF) already holds at construction, before any write.
func (b *Bus) syncWRAMMirror() {
	for off := uint16(0); off <= 0xDDFF-wramBase; off++ {
		b.WRAM.SetRawAt(off+0x1000, b.WRAM.RawAt(off))
	}
}

// BootROMActive reports whether the boot ROM is still mapped at
// 0x0000..0x00FF.
func (b *Bus) BootROMActive() bool { return b.bootROMActive }

// CurrentBank reports the cartridge bank currently selected for the
// 0x4000..0x7FFF window.
func (b *Bus) CurrentBank() int { return b.bankSelect }

// Read returns the byte mapped at address, per the fixed address map.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address >= lcdIOStart && address <= lcdIOEnd:
		return b.Display.ReadReg(address)
	case address < 0x0100 && b.bootROMActive:
		return b.BootROM.Read(address)
	case address < 0x4000:
		return b.Cart.Bank0().RawAt(address)
	case address < 0x8000:
		return b.Cart.Bank(b.bankSelect).RawAt(address - 0x4000)
	case address < 0xA000:
		return b.Display.VRAM.Read(address)
	case address < 0xC000:
		return b.ExtRAM.Read(address)
	case address < 0xFE00:
		return b.WRAM.Read(address)
	case address == bootLatch:
		if b.bootROMActive {
			return 1
		}
		return 0
	case address >= ioScratchBase:
		return b.IOScratch.Read(address)
	default:
		return 0
	}
}

// Write performs the bus write algorithm: LCD I/O register update, the
// boot-ROM disable latch, bank-switch requests below 0x8000, ordinary
// region writes, and the C000..FDFF echo mirror.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address >= lcdIOStart && address <= lcdIOEnd:
		b.Display.WriteReg(address, value)
		return

	case address == bootLatch:
		if b.bootROMActive {
			b.bootROMActive = false
		}
		b.IOScratch.Write(address, value) //nolint:errcheck // IOScratch is never read-only
		return

	case address < 0x8000:
		banks := b.Cart.BankCount()
		newBank := int(value) % banks
		if newBank == 0 {
			newBank = 1
		}
		b.bankSelect = newBank
		return

	case address < 0xA000:
		_ = b.Display.VRAM.Write(address, value)
		return

	case address < 0xC000:
		_ = b.ExtRAM.Write(address, value)
		return

	case address < 0xFE00:
		b.writeWRAM(address, value)
		return

	case address >= ioScratchBase:
		_ = b.IOScratch.Write(address, value)
		return

	default:
		// 0xFE00..0xFEFF: sprite OAM, out of scope for this core.
		return
	}
}

// writeWRAM applies the write and its echo-mirror counterpart: an address
// in 0xC000..0xDDFF also writes to address+0x1000, and an address in
// 0xE000..0xFDFF also writes to address-0x1000.
func (b *Bus) writeWRAM(address uint16, value uint8) {
	_ = b.WRAM.Write(address, value)
	switch {
	case address <= 0xDDFF:
		_ = b.WRAM.Write(address+0x1000, value)
	case address >= 0xE000:
		_ = b.WRAM.Write(address-0x1000, value)
	}
}

// Read16 reads a little-endian 16-bit value from the bus.
func (b *Bus) Read16(address uint16) uint16 {
	lo := b.Read(address)
	hi := b.Read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a little-endian 16-bit value to the bus.
func (b *Bus) Write16(address uint16, value uint16) {
	b.Write(address, uint8(value))
	b.Write(address+1, uint8(value>>8))
}
