// Package display implements the scanline-driven background renderer: VRAM,
// the LCDC/SCX/SCY/LY/BGP registers, tile decoding, and frame presentation
// through an external host display sink. Adapted from the donor's
// register-offset-switch PPU (internal/ppu in the donor tree), but rebuilt
// around the DMG's real 2bpp tile format and LCDC bit layout instead of the
// donor's fictional 4bpp Mode-7-style PPU.
package display

import (
	"math/rand"

	"dmgcore/internal/mem"
)

const (
	// VRAMBase is where VRAM is mapped on the bus.
	VRAMBase = 0x8000
	// VRAMSize is VRAM's fixed length in bytes.
	VRAMSize = 0x2000

	ScreenWidth  = 160
	ScreenHeight = 144

	// Register offsets within the LCD I/O window (0xFF40..0xFF4B), index
	// into regs by (address - RegBase).
	RegBase = 0xFF40

	regLCDC = 0x00
	regSTAT = 0x01
	regSCY  = 0x02
	regSCX  = 0x03
	regLY   = 0x04
	regLYC  = 0x05
	regDMA  = 0x06
	regBGP  = 0x07
	regOBP0 = 0x08
	regOBP1 = 0x09
	regWY   = 0x0A
	regWX   = 0x0B

	lcdcScreenOn    = 1 << 7
	lcdcTileDataSel = 1 << 4
	lcdcTileMapSel  = 1 << 3
	lcdcBGEnable    = 1 << 0
)

// Sink is the host display collaborator this package draws pixels to. It is
// an external interface (the spec's "host display sink"), never a
// dependency this package links against directly.
type Sink interface {
	Put(x, y int, rgb uint32)
	Line(rgb uint32, x1, y1, x2, y2 int)
	Clear(rgb uint32)
	Present()
	Poll() bool // reports QuitRequested
}

// shadeRGB maps a 2-bit shade index to a host RGB colour, lightest to
// darkest.
var shadeRGB = [4]uint32{0xFFFFFF, 0xAAAAAA, 0x555555, 0x000000}

// Display owns VRAM and the LCD I/O registers and renders one scanline per
// Step call.
type Display struct {
	VRAM *mem.Region
	regs [12]uint8

	sink        Sink
	framebuffer [ScreenHeight][ScreenWidth]uint32
	quit        bool
}

// New constructs a Display with VRAM filled from rnd per the power-on
// randomization policy (no implicit zero initialisation).
func New(rnd *rand.Rand) *Display {
	return &Display{
		VRAM: mem.NewRandomizedRegion("Display RAM", VRAMBase, VRAMSize, false, rnd),
	}
}

// SetSink attaches (or detaches, with nil) the host display sink.
func (d *Display) SetSink(sink Sink) { d.sink = sink }

// ReadReg reads an LCD I/O register by its full bus address
// (0xFF40..0xFF4B).
func (d *Display) ReadReg(addr uint16) uint8 {
	return d.regs[addr-RegBase]
}

// WriteReg writes an LCD I/O register by its full bus address. A write to
// LY (0xFF44) resets the scanline counter to zero rather than storing the
// written value, matching real hardware.
func (d *Display) WriteReg(addr uint16, value uint8) {
	idx := addr - RegBase
	if idx == regLY {
		d.regs[regLY] = 0
		return
	}
	d.regs[idx] = value
}

// LCDC, SCY, SCX, LY, and BGP are convenience accessors over the raw
// register window, used by the renderer and by tests.
func (d *Display) LCDC() uint8 { return d.regs[regLCDC] }
func (d *Display) SCY() uint8  { return d.regs[regSCY] }
func (d *Display) SCX() uint8  { return d.regs[regSCX] }
func (d *Display) LY() uint8   { return d.regs[regLY] }
func (d *Display) BGP() uint8  { return d.regs[regBGP] }

// Quit reports whether the attached sink has ever signalled a quit
// request. Latched, not edge-triggered: once true it stays true.
func (d *Display) Quit() bool { return d.quit }

// Framebuffer exposes the current back buffer read-only, primarily for
// tests asserting on rendered pixel values without a Sink attached.
func (d *Display) Framebuffer() [ScreenHeight][ScreenWidth]uint32 {
	return d.framebuffer
}

// Step advances the display by one scanline budget: renders the current
// scanline (if the screen and background are enabled), then increments LY.
// When LY wraps back to zero the completed frame is presented and the back
// buffer is cleared for the next frame.
func (d *Display) Step() {
	if d.sink != nil && d.sink.Poll() {
		// QuitRequested is a one-way external signal; latched here and
		// observed by the caller (Machine) via Quit() rather than acted on
		// directly, since the display has no business stopping the run loop.
		d.quit = true
	}

	screenOn := d.LCDC()&lcdcScreenOn != 0
	if screenOn {
		ly := d.LY()
		if ly < ScreenHeight && d.LCDC()&lcdcBGEnable != 0 {
			d.renderScanline(int(ly))
		}
	}

	d.regs[regLY]++
	if d.regs[regLY] == 0 {
		d.presentFrame()
	}
}

// renderScanline renders the background at y=line into the back buffer
// (and, if a sink is attached, pushes each pixel to it immediately).
func (d *Display) renderScanline(line int) {
	tileMapBase := uint16(0x9800)
	if d.LCDC()&lcdcTileMapSel != 0 {
		tileMapBase = 0x9C00
	}
	unsignedTiles := d.LCDC()&lcdcTileDataSel != 0

	palette := decodePalette(d.BGP())
	scy, scx := d.SCY(), d.SCX()

	worldY := int(uint8(line) + scy)
	tileRow := worldY / 8
	rowInTile := worldY % 8

	for x := 0; x < ScreenWidth; x++ {
		worldX := int(uint8(x) + scx)
		tileCol := worldX / 8
		colInTile := worldX % 8

		mapOffset := tileMapBase + uint16((tileRow%32)*32+(tileCol%32)) - VRAMBase
		tileIndex := d.VRAM.RawAt(mapOffset)

		var tileDataAddr uint16
		if unsignedTiles {
			tileDataAddr = 0x8000 + uint16(tileIndex)*16
		} else {
			tileDataAddr = uint16(int(0x9000) + int(int8(tileIndex))*16)
		}
		rowAddr := tileDataAddr + uint16(rowInTile)*2 - VRAMBase

		lo := d.VRAM.RawAt(rowAddr)
		hi := d.VRAM.RawAt(rowAddr + 1)

		k := colInTile
		shade := ((hi>>(7-k))&1)<<1 | ((lo >> (7 - k)) & 1)
		rgb := palette[shade]

		d.framebuffer[line][x] = rgb
		if d.sink != nil {
			d.sink.Put(x, line, rgb)
		}
	}
}

// decodePalette expands BGP's four 2-bit fields into host RGB colours;
// field i occupies bits (2i+1, 2i).
func decodePalette(bgp uint8) [4]uint32 {
	var palette [4]uint32
	for i := 0; i < 4; i++ {
		shade := (bgp >> (2 * i)) & 0x03
		palette[i] = shadeRGB[shade]
	}
	return palette
}

func (d *Display) presentFrame() {
	if d.sink != nil {
		d.sink.Present()
		d.sink.Clear(shadeRGB[0])
	}
	d.framebuffer = [ScreenHeight][ScreenWidth]uint32{}
}
