// Package cpu implements the Sharp LR35902 fetch/decode/execute loop: the
// 8- and 16-bit register file, flags, stack, jump/call/ret/rst, and the
// display-pacing cycle budget. Adapted from the donor's internal/cpu.CPU —
// same package shape (a state struct plus a fetch/decode/execute pipeline
// driven by a StepCPU entry point) — but built over the opcode package's
// declarative table and the DMG's real register/flag layout instead of the
// donor's fictional 8-register/bank-switched ISA.
package cpu

import "dmgcore/internal/util"

// Flag bit positions within F.
const (
	flagZ = 1 << 7
	flagN = 1 << 6
	flagH = 1 << 5
	flagC = 1 << 4
)

// Registers is the LR35902 register file: eight 8-bit registers plus the
// two 16-bit registers SP and PC. AF/BC/DE/HL are not stored separately —
// they are computed views over this byte array via Pack16/Unpack16, so the
// eight bytes remain the single source of truth.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
}

func (r *Registers) AF() uint16 { return util.Pack16(r.A, r.F&0xF0) }
func (r *Registers) BC() uint16 { return util.Pack16(r.B, r.C) }
func (r *Registers) DE() uint16 { return util.Pack16(r.D, r.E) }
func (r *Registers) HL() uint16 { return util.Pack16(r.H, r.L) }

func (r *Registers) SetAF(v uint16) { r.A, r.F = util.Unpack16(v); r.F &= 0xF0 }
func (r *Registers) SetBC(v uint16) { r.B, r.C = util.Unpack16(v) }
func (r *Registers) SetDE(v uint16) { r.D, r.E = util.Unpack16(v) }
func (r *Registers) SetHL(v uint16) { r.H, r.L = util.Unpack16(v) }

// Flag readers. F bits 3..0 are always zero, so these are the only four
// bits that ever carry meaning.
func (r *Registers) FlagZ() bool { return r.F&flagZ != 0 }
func (r *Registers) FlagN() bool { return r.F&flagN != 0 }
func (r *Registers) FlagH() bool { return r.F&flagH != 0 }
func (r *Registers) FlagC() bool { return r.F&flagC != 0 }

func setBit(f *uint8, mask uint8, v bool) {
	if v {
		*f |= mask
	} else {
		*f &^= mask
	}
}

func (r *Registers) SetFlagZ(v bool) { setBit(&r.F, flagZ, v) }
func (r *Registers) SetFlagN(v bool) { setBit(&r.F, flagN, v) }
func (r *Registers) SetFlagH(v bool) { setBit(&r.F, flagH, v) }
func (r *Registers) SetFlagC(v bool) { setBit(&r.F, flagC, v) }

// reg8Names lists the eight load/ALU operand slots in opcode-table order:
// B, C, D, E, H, L, (HL), A. Index 6 is never resolved through this array
// directly — callers needing (HL) go through the CPU's bus-aware
// getReg8/setReg8 instead, since it is a memory reference, not a register.
var reg8Names = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
