// Package machine assembles the bus, CPU, display, and cartridge into the
// one top-level object the rest of the world drives: Run()/Step() per
// §2.7. Adapted from the donor's internal/emulator.Emulator -- same
// "owns every component, wires their cross-references once at
// construction, exposes Run/Step" shape -- over this core's real
// bus/cpu/display trio instead of the donor's cpu/bus/ppu/apu/input set.
package machine

import (
	"fmt"
	"math/rand"
	"os"

	"dmgcore/internal/bus"
	"dmgcore/internal/cartridge"
	"dmgcore/internal/cpu"
	"dmgcore/internal/debug"
	"dmgcore/internal/display"
)

// Machine owns the display and cartridge outright; the bus borrows both,
// and the CPU borrows the bus. There is deliberately no back-pointer from
// display to bus (§9): the bus is the sole mediator of every memory-mapped
// I/O read/write.
type Machine struct {
	Cart    *cartridge.Cartridge
	Display *display.Display
	Bus     *bus.Bus
	CPU     *cpu.CPU

	Logger   *debug.Logger
	Debugger *debug.Debugger
}

// Config bundles the inputs New needs: the raw boot ROM and cartridge ROM
// images, and a seed for the power-on RAM randomization (§3/§9 -- tests
// must seed this to stay reproducible).
type Config struct {
	BootROM []uint8
	CartROM []uint8
	Seed    int64
}

// New parses cfg.CartROM, constructs the display and bus over it and
// cfg.BootROM, and wires a CPU on top. The display's VRAM and the bus's
// external/work RAM are randomized from one PRNG seeded with cfg.Seed.
func New(cfg Config) (*Machine, error) {
	if len(cfg.BootROM) != 256 {
		return nil, fmt.Errorf("machine: boot ROM must be exactly 256 bytes, got %d", len(cfg.BootROM))
	}

	cart, err := cartridge.New(cfg.CartROM)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))
	disp := display.New(rnd)
	b := bus.New(cart, disp, cfg.BootROM, rnd)
	c := cpu.New(b)

	return &Machine{
		Cart:     cart,
		Display:  disp,
		Bus:      b,
		CPU:      c,
		Debugger: debug.NewDebugger(),
	}, nil
}

// NewFromFiles loads the boot ROM and cartridge ROM from disk and
// constructs a Machine, for the demo entrypoint in cmd/.
func NewFromFiles(bootROMPath, cartROMPath string, seed int64) (*Machine, error) {
	boot, err := os.ReadFile(bootROMPath)
	if err != nil {
		return nil, fmt.Errorf("machine: loading boot ROM: %w", err)
	}
	cart, err := os.ReadFile(cartROMPath)
	if err != nil {
		return nil, fmt.Errorf("machine: loading cartridge ROM: %w", err)
	}
	return New(Config{BootROM: boot, CartROM: cart, Seed: seed})
}

// AttachLogger wires a Logger into the CPU's hot path and records it on
// the Machine for the demo entrypoint's -log flag.
func (m *Machine) AttachLogger(l *debug.Logger) {
	m.Logger = l
	m.CPU.Logger = l
}

// AttachSink attaches the host display sink.
func (m *Machine) AttachSink(sink display.Sink) {
	m.Display.SetSink(sink)
}

// Step executes exactly one CPU instruction (and, if its cycle cost
// crosses the scanline budget, advances the display).
func (m *Machine) Step() error {
	return m.CPU.Step()
}

// Run drives Step in a loop, per §5's single-threaded cooperative model:
// no suspension points inside a step, the only exit points are a
// propagated error (§7, fatal for the run) or the host sink signalling
// quit (observed only at the boundary between two steps).
func (m *Machine) Run() error {
	for {
		if m.CPU.Quit() {
			return nil
		}
		if err := m.Step(); err != nil {
			if m.Logger != nil {
				m.Logger.LogSystem(debug.LogLevelError, "run loop stopped", map[string]interface{}{"error": err.Error()})
			}
			return err
		}
	}
}

// Snapshot returns the debugger's read-only register-file view.
func (m *Machine) Snapshot() debug.RegisterSnapshot {
	r := m.CPU.R
	return debug.RegisterSnapshot{
		A: r.A, F: r.F, B: r.B, C: r.C, D: r.D, E: r.E, H: r.H, L: r.L,
		SP: r.SP, PC: r.PC, IME: m.CPU.IME,
	}
}

// ReadMemory dumps length bytes from the bus starting at address, for a
// debugger's memory view.
func (m *Machine) ReadMemory(address uint16, length int) []uint8 {
	return debug.DumpMemory(m.Bus, address, length)
}
