package cpu

import (
	"fmt"
	"math"
	"time"

	"dmgcore/internal/bus"
	"dmgcore/internal/debug"
	"dmgcore/internal/emuerr"
	"dmgcore/internal/util"
)

// DMG timing constants used to derive the per-scanline cycle budget (§4.5):
// the real hardware clock, the scanline count per frame (144 visible +
// 10 vblank), and an approximate refresh rate.
const (
	clockHz       = 4_194_304
	scanlinesPer  = 154
	approxFPS     = 59.7275
)

// scanlineBudget is round(MHz x 1e6 / (fps x scanlines)) -- the
// well-known ~456 cycles/scanline figure, derived rather than hardcoded so
// the provenance of the constant stays visible.
var scanlineBudget = uint32(math.Round(clockHz / (approxFPS * scanlinesPer)))

// CPU drives the fetch/decode/execute loop over the opcode table: it owns
// the register file and IME, borrows the bus (which in turn borrows the
// display and cartridge), and paces the display off accumulated cycles.
type CPU struct {
	R   Registers
	Bus *bus.Bus

	IME bool

	// cyclesAccum is the scanline-budget accumulator (§3): it is
	// decremented, never reset, each time it crosses scanlineBudget, so a
	// single long instruction can trigger more than one display tick's
	// worth of debt across successive Step calls.
	cyclesAccum uint32
	// TotalCycles is the monotone telemetry counter.
	TotalCycles uint64

	startTime time.Time

	Logger *debug.Logger
}

// New constructs a CPU over b with PC at the reset vector implied by the
// bus (0x0000, where the boot ROM or cart ROM bank 0 is mapped).
func New(b *bus.Bus) *CPU {
	return &CPU{
		Bus:       b,
		startTime: time.Now(),
	}
}

// Frequency reports the emulated clock rate actually achieved since
// construction, in Hz -- TotalCycles divided by wall-clock elapsed time.
func (c *CPU) Frequency() float64 {
	elapsed := time.Since(c.startTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(c.TotalCycles) / elapsed
}

// Step implements §4.6's run-loop body: fetch/decode/execute one
// instruction, advance the display when the scanline budget is crossed,
// and verify the post-boot snapshot at the instant the boot ROM disables
// itself.
func (c *CPU) Step() error {
	wasBooting := c.Bus.BootROMActive()

	d, err := Decode(c.Bus, c.R.PC)
	if err != nil {
		return err
	}
	c.R.PC = d.NextPC

	if c.Logger != nil {
		c.Logger.LogCPU(debug.LogLevelTrace, d.PC, c.TotalCycles, d.Entry.Mnemonic, map[string]interface{}{
			"opcode": d.Opcode, "cb": d.CBPrefixed,
		})
	}

	used, err := c.execute(d)
	if err != nil {
		return err
	}

	c.cyclesAccum += uint32(used)
	c.TotalCycles += uint64(used)

	if c.cyclesAccum >= scanlineBudget {
		c.cyclesAccum -= scanlineBudget
		c.Bus.Display.Step()
	}

	if wasBooting && !c.Bus.BootROMActive() {
		if err := c.verifyPostBoot(); err != nil {
			return err
		}
	}
	return nil
}

// Quit reports whether the attached display's host sink has requested
// the run loop stop.
func (c *CPU) Quit() bool {
	return c.Bus.Display.Quit()
}

// verifyPostBoot implements the boot-skip verification named in §6/§8
// (scenario S6): the instant the boot ROM disables itself, the register
// file and the fixed memory-mapped writes it is known to leave behind must
// match exactly.
func (c *CPU) verifyPostBoot() error {
	want := util.PostBootRegisters
	var failed []string

	check := func(name string, got, want uint16) {
		if got != want {
			failed = append(failed, name)
		}
	}
	check("A", uint16(c.R.A), uint16(want.A))
	check("F", uint16(c.R.F), uint16(want.F))
	check("B", uint16(c.R.B), uint16(want.B))
	check("C", uint16(c.R.C), uint16(want.C))
	check("D", uint16(c.R.D), uint16(want.D))
	check("E", uint16(c.R.E), uint16(want.E))
	check("H", uint16(c.R.H), uint16(want.H))
	check("L", uint16(c.R.L), uint16(want.L))
	check("SP", c.R.SP, want.SP)
	check("PC", c.R.PC, want.PC)

	for _, mw := range util.PostBootMemory {
		if got := c.Bus.Read(mw.Addr); got != mw.Val {
			failed = append(failed, fmt.Sprintf("mem@%04X", mw.Addr))
		}
	}

	if len(failed) > 0 {
		if c.Logger != nil {
			c.Logger.LogCPU(debug.LogLevelError, c.R.PC, c.TotalCycles, "post-boot verification failed", map[string]interface{}{"failed": failed})
		}
		return &emuerr.EmulatorError{Reason: "post-boot snapshot mismatch", Failed: failed}
	}
	return nil
}
