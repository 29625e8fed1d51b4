// Package cartridge parses a DMG ROM image and exposes its fixed bank 0 and
// switchable banks 1..N, the way the donor's own Cartridge type exposes
// fixed-size LoROM-style banks sliced out of a flat ROM image.
package cartridge

import (
	"fmt"

	"dmgcore/internal/mem"
)

const bankSize = 0x4000 // 16 KiB

// Header field offsets within bank 0, per the DMG ROM header layout.
const (
	offTitleStart = 0x0134
	offTitleEnd   = 0x0143 // exclusive
	offCGBFlag    = 0x0143
	offSGBFlag    = 0x0146
	offType       = 0x0147
	offROMBanks   = 0x0148
	offRAMBanks   = 0x0149
	offDest       = 0x014A
)

// romBankCounts maps the ROM-bank-count header code to an actual bank
// count, per §6's catalogue.
var romBankCounts = map[uint8]int{
	0x00: 2, 0x01: 4, 0x02: 8, 0x03: 16, 0x04: 32, 0x05: 64, 0x06: 128,
	0x52: 72, 0x53: 80, 0x54: 96,
}

// ramBankCounts maps the RAM-bank-count header code to an actual bank
// count.
var ramBankCounts = map[uint8]int{
	0: 0, 1: 1, 2: 1, 3: 4, 4: 16,
}

// Cartridge holds the parsed header and the ROM split into fixed-size banks.
type Cartridge struct {
	banks    []*mem.Region
	Title    string
	CGBFlag  uint8
	SGBFlag  uint8
	Type     uint8
	ROMBanks int
	RAMBanks int
	Dest     uint8
}

// New parses rom (a raw binary image, 32 KiB or more) into a Cartridge.
// The image is sliced into fixed 16 KiB banks; each bank is a read-only
// mem.Region so bank 0 and the switchable window share the same access
// path as every other memory-mapped region.
func New(rom []uint8) (*Cartridge, error) {
	if len(rom) < bankSize*2 {
		return nil, fmt.Errorf("cartridge: ROM image too small: %d bytes, need at least %d", len(rom), bankSize*2)
	}

	nBanks := len(rom) / bankSize
	c := &Cartridge{
		banks: make([]*mem.Region, nBanks),
	}
	for i := 0; i < nBanks; i++ {
		r := mem.NewRegion(fmt.Sprintf("Cartridge ROM bank %d", i), 0, bankSize, true)
		r.LoadAt(0, rom[i*bankSize:(i+1)*bankSize])
		c.banks[i] = r
	}

	c.parseHeader()
	return c, nil
}

func (c *Cartridge) parseHeader() {
	bank0 := c.banks[0]

	title := make([]byte, 0, offTitleEnd-offTitleStart)
	for off := uint16(offTitleStart); off < offTitleEnd; off++ {
		b := bank0.RawAt(off)
		if b == 0 {
			break
		}
		title = append(title, b)
	}
	c.Title = string(title)

	c.CGBFlag = bank0.RawAt(offCGBFlag)
	c.SGBFlag = bank0.RawAt(offSGBFlag)
	c.Type = bank0.RawAt(offType)
	c.Dest = bank0.RawAt(offDest)

	romCode := bank0.RawAt(offROMBanks)
	if n, ok := romBankCounts[romCode]; ok {
		c.ROMBanks = n
	} else {
		c.ROMBanks = len(c.banks)
	}

	ramCode := bank0.RawAt(offRAMBanks)
	c.RAMBanks = ramBankCounts[ramCode]
}

// IsColor reports whether the CGB flag marks this cartridge colour-capable.
func (c *Cartridge) IsColor() bool { return c.CGBFlag == 0x80 }

// SupportsSGB reports whether the SGB flag marks Super Game Boy support.
func (c *Cartridge) SupportsSGB() bool { return c.SGBFlag == 0x03 }

// BankCount returns the number of 16 KiB banks physically present in the
// loaded image (which may differ from the header's declared ROMBanks for a
// malformed or homebrew image; bank-switch arithmetic uses this one).
func (c *Cartridge) BankCount() int { return len(c.banks) }

// Bank0 returns the fixed bank mapped at 0x0000..0x3FFF (and 0x0000..0x00FF
// once the boot ROM is disabled).
func (c *Cartridge) Bank0() *mem.Region { return c.banks[0] }

// Bank returns the bank mapped into the switchable 0x4000..0x7FFF window,
// n must be in [0, BankCount).
func (c *Cartridge) Bank(n int) *mem.Region { return c.banks[n] }
