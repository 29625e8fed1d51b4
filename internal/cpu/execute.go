package cpu

import (
	"dmgcore/internal/emuerr"
	"dmgcore/internal/opcode"
)

// applyFlags writes z/n/h/c into F according to fe: FlagComputed takes the
// supplied bool, FlagForceZero/FlagForceOne clear/set the bit regardless,
// and FlagUnused leaves that bit exactly as it was.
func (c *CPU) applyFlags(fe opcode.Flags, z, n, h, cy bool) {
	apply := func(mask uint8, effect opcode.FlagEffect, computed bool) {
		switch effect {
		case opcode.FlagComputed:
			setBit(&c.R.F, mask, computed)
		case opcode.FlagForceZero:
			setBit(&c.R.F, mask, false)
		case opcode.FlagForceOne:
			setBit(&c.R.F, mask, true)
		}
	}
	apply(flagZ, fe.Z, z)
	apply(flagN, fe.N, n)
	apply(flagH, fe.H, h)
	apply(flagC, fe.C, cy)
	c.R.F &= 0xF0
}

// getReg8/setReg8 resolve one of the eight load/ALU operand slots in
// opcode-table order (B,C,D,E,H,L,(HL),A); index 6 goes through the bus at
// HL rather than a register field.
func (c *CPU) getReg8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.R.B
	case 1:
		return c.R.C
	case 2:
		return c.R.D
	case 3:
		return c.R.E
	case 4:
		return c.R.H
	case 5:
		return c.R.L
	case 6:
		return c.Bus.Read(c.R.HL())
	default:
		return c.R.A
	}
}

func (c *CPU) setReg8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.R.B = v
	case 1:
		c.R.C = v
	case 2:
		c.R.D = v
	case 3:
		c.R.E = v
	case 4:
		c.R.H = v
	case 5:
		c.R.L = v
	case 6:
		c.Bus.Write(c.R.HL(), v)
	default:
		c.R.A = v
	}
}

// getReg16/setReg16 resolve the "dd" register pair group (bits 5:4 of the
// opcode byte): 0=BC, 1=DE, 2=HL, 3=SP.
func (c *CPU) getReg16(group uint8) uint16 {
	switch group {
	case 0:
		return c.R.BC()
	case 1:
		return c.R.DE()
	case 2:
		return c.R.HL()
	default:
		return c.R.SP
	}
}

func (c *CPU) setReg16(group uint8, v uint16) {
	switch group {
	case 0:
		c.R.SetBC(v)
	case 1:
		c.R.SetDE(v)
	case 2:
		c.R.SetHL(v)
	default:
		c.R.SP = v
	}
}

// getReg16Stk/setReg16Stk resolve the "qq" group used by PUSH/POP, which
// substitutes AF for SP at index 3.
func (c *CPU) getReg16Stk(group uint8) uint16 {
	if group == 3 {
		return c.R.AF()
	}
	return c.getReg16(group)
}

func (c *CPU) setReg16Stk(group uint8, v uint16) {
	if group == 3 {
		c.R.SetAF(v)
		return
	}
	c.setReg16(group, v)
}

// push writes hi at SP-1 and lo at SP-2, then leaves SP decremented by 2,
// per §4.3's PUSH rr algorithm.
func (c *CPU) push(v uint16) {
	hi, lo := uint8(v>>8), uint8(v)
	c.Bus.Write(c.R.SP-1, hi)
	c.Bus.Write(c.R.SP-2, lo)
	c.R.SP -= 2
}

// pop reads lo at SP and hi at SP+1, then leaves SP incremented by 2.
func (c *CPU) pop() uint16 {
	lo := c.Bus.Read(c.R.SP)
	hi := c.Bus.Read(c.R.SP + 1)
	c.R.SP += 2
	return uint16(hi)<<8 | uint16(lo)
}

func condTrue(c *CPU, idx uint8) bool {
	switch idx {
	case 0:
		return !c.R.FlagZ()
	case 1:
		return c.R.FlagZ()
	case 2:
		return !c.R.FlagC()
	default:
		return c.R.FlagC()
	}
}

// execute applies d's effect and returns the cycle cost actually incurred
// (Entry.Cycles.Taken or .NotTaken, identical for unconditional ops).
func (c *CPU) execute(d Decoded) (uint8, error) {
	if d.CBPrefixed {
		return c.executeCB(d)
	}

	op := d.Opcode
	e := d.Entry

	switch {
	// 0x40..0x7F: LD r,r' uniformly, except 0x76 = HALT.
	case op >= 0x40 && op <= 0x7F && op != 0x76:
		dst := (op >> 3) & 7
		src := op & 7
		c.setReg8(dst, c.getReg8(src))
		return e.Cycles.Taken, nil

	// 0x80..0xBF: 8-bit ALU against A, 8 ops x 8 operands.
	case op >= 0x80 && op <= 0xBF:
		row := (op >> 3) & 7
		operand := c.getReg8(op & 7)
		c.execALU(row, operand, e)
		return e.Cycles.Taken, nil

	// INC r / DEC r / LD r,d8: regular (opcode & 0xC7) families.
	case op&0xC7 == 0x04:
		idx := (op >> 3) & 7
		v := c.getReg8(idx) + 1
		c.setReg8(idx, v)
		c.applyFlags(e.Flags, v == 0, false, v&0xF == 0, false)
		return e.Cycles.Taken, nil
	case op&0xC7 == 0x05:
		idx := (op >> 3) & 7
		v := c.getReg8(idx) - 1
		c.setReg8(idx, v)
		c.applyFlags(e.Flags, v == 0, true, v&0xF == 0xF, false)
		return e.Cycles.Taken, nil
	case op&0xC7 == 0x06:
		idx := (op >> 3) & 7
		c.setReg8(idx, uint8(d.Arg))
		return e.Cycles.Taken, nil
	}

	switch op {
	case 0x00: // NOP
		return e.Cycles.Taken, nil

	case 0x01, 0x11, 0x21, 0x31: // LD rr,d16
		c.setReg16((op>>4)&3, uint16(d.Arg))
		return e.Cycles.Taken, nil

	case 0x02: // LD (BC),A
		c.Bus.Write(c.R.BC(), c.R.A)
		return e.Cycles.Taken, nil
	case 0x12: // LD (DE),A
		c.Bus.Write(c.R.DE(), c.R.A)
		return e.Cycles.Taken, nil
	case 0x0A: // LD A,(BC)
		c.R.A = c.Bus.Read(c.R.BC())
		return e.Cycles.Taken, nil
	case 0x1A: // LD A,(DE)
		c.R.A = c.Bus.Read(c.R.DE())
		return e.Cycles.Taken, nil

	case 0x22: // LD (HL+),A
		c.Bus.Write(c.R.HL(), c.R.A)
		c.R.SetHL(c.R.HL() + 1)
		return e.Cycles.Taken, nil
	case 0x32: // LD (HL-),A
		c.Bus.Write(c.R.HL(), c.R.A)
		c.R.SetHL(c.R.HL() - 1)
		return e.Cycles.Taken, nil
	case 0x2A: // LD A,(HL+)
		c.R.A = c.Bus.Read(c.R.HL())
		c.R.SetHL(c.R.HL() + 1)
		return e.Cycles.Taken, nil
	case 0x3A: // LD A,(HL-)
		c.R.A = c.Bus.Read(c.R.HL())
		c.R.SetHL(c.R.HL() - 1)
		return e.Cycles.Taken, nil

	case 0x03, 0x13, 0x23, 0x33: // INC rr
		group := (op >> 4) & 3
		c.setReg16(group, c.getReg16(group)+1)
		return e.Cycles.Taken, nil
	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC rr
		group := (op >> 4) & 3
		c.setReg16(group, c.getReg16(group)-1)
		return e.Cycles.Taken, nil

	case 0x09, 0x19, 0x29, 0x39: // ADD HL,rr
		hl := c.R.HL()
		rr := c.getReg16((op >> 4) & 3)
		sum := uint32(hl) + uint32(rr)
		h := (hl&0xFFF)+(rr&0xFFF) > 0xFFF
		cy := sum > 0xFFFF
		c.R.SetHL(uint16(sum))
		c.applyFlags(e.Flags, false, false, h, cy)
		return e.Cycles.Taken, nil

	case 0x07: // RLCA
		co := c.R.A >> 7
		c.R.A = (c.R.A << 1) | co
		c.applyFlags(e.Flags, false, false, false, co != 0)
		return e.Cycles.Taken, nil
	case 0x0F: // RRCA
		co := c.R.A & 1
		c.R.A = (c.R.A >> 1) | (co << 7)
		c.applyFlags(e.Flags, false, false, false, co != 0)
		return e.Cycles.Taken, nil
	case 0x17: // RLA
		var ci uint8
		if c.R.FlagC() {
			ci = 1
		}
		co := c.R.A >> 7
		c.R.A = (c.R.A << 1) | ci
		c.applyFlags(e.Flags, false, false, false, co != 0)
		return e.Cycles.Taken, nil
	case 0x1F: // RRA
		var ci uint8
		if c.R.FlagC() {
			ci = 1
		}
		co := c.R.A & 1
		c.R.A = (c.R.A >> 1) | (ci << 7)
		c.applyFlags(e.Flags, false, false, false, co != 0)
		return e.Cycles.Taken, nil

	case 0x08: // LD (a16),SP
		c.Bus.Write16(uint16(d.Arg), c.R.SP)
		return e.Cycles.Taken, nil

	case 0x10: // STOP
		return 0, &emuerr.NotImplementedError{PC: d.PC, Mnemonic: e.Mnemonic, Opcode: op}

	case 0x18: // JR r8
		c.R.PC = uint16(int32(d.NextPC) + int32(d.SignedArg()))
		return e.Cycles.Taken, nil
	case 0x20, 0x28, 0x30, 0x38: // JR cc,r8
		idx := (op >> 3) & 3
		if condTrue(c, idx) {
			c.R.PC = uint16(int32(d.NextPC) + int32(d.SignedArg()))
			return e.Cycles.Taken, nil
		}
		return e.Cycles.NotTaken, nil

	case 0x27: // DAA
		c.execDAA(e)
		return e.Cycles.Taken, nil
	case 0x2F: // CPL
		c.R.A = ^c.R.A
		c.applyFlags(e.Flags, false, false, false, false)
		return e.Cycles.Taken, nil
	case 0x37: // SCF
		c.applyFlags(e.Flags, false, false, false, true)
		return e.Cycles.Taken, nil
	case 0x3F: // CCF
		c.applyFlags(e.Flags, false, false, false, !c.R.FlagC())
		return e.Cycles.Taken, nil

	case 0x76: // HALT
		return 0, &emuerr.NotImplementedError{PC: d.PC, Mnemonic: e.Mnemonic, Opcode: op}

	case 0xC6: // ADD A,d8
		c.execALU(0, uint8(d.Arg), e)
		return e.Cycles.Taken, nil
	case 0xCE: // ADC A,d8
		c.execALU(1, uint8(d.Arg), e)
		return e.Cycles.Taken, nil
	case 0xD6: // SUB d8
		c.execALU(2, uint8(d.Arg), e)
		return e.Cycles.Taken, nil
	case 0xDE: // SBC A,d8
		c.execALU(3, uint8(d.Arg), e)
		return e.Cycles.Taken, nil
	case 0xE6: // AND d8
		c.execALU(4, uint8(d.Arg), e)
		return e.Cycles.Taken, nil
	case 0xEE: // XOR d8
		c.execALU(5, uint8(d.Arg), e)
		return e.Cycles.Taken, nil
	case 0xF6: // OR d8
		c.execALU(6, uint8(d.Arg), e)
		return e.Cycles.Taken, nil
	case 0xFE: // CP d8
		c.execALU(7, uint8(d.Arg), e)
		return e.Cycles.Taken, nil

	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		idx := (op >> 3) & 3
		if condTrue(c, idx) {
			c.R.PC = c.pop()
			return e.Cycles.Taken, nil
		}
		return e.Cycles.NotTaken, nil
	case 0xC9: // RET
		c.R.PC = c.pop()
		return e.Cycles.Taken, nil
	case 0xD9: // RETI
		c.R.PC = c.pop()
		c.IME = true
		return e.Cycles.Taken, nil

	case 0xC1, 0xD1, 0xE1, 0xF1: // POP rr
		c.setReg16Stk((op>>4)&3, c.pop())
		return e.Cycles.Taken, nil
	case 0xC5, 0xD5, 0xE5, 0xF5: // PUSH rr
		c.push(c.getReg16Stk((op >> 4) & 3))
		return e.Cycles.Taken, nil

	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,a16
		idx := (op >> 3) & 3
		if condTrue(c, idx) {
			c.R.PC = uint16(d.Arg)
			return e.Cycles.Taken, nil
		}
		return e.Cycles.NotTaken, nil
	case 0xC3: // JP a16
		c.R.PC = uint16(d.Arg)
		return e.Cycles.Taken, nil
	case 0xE9: // JP (HL) -- jump to HL itself, never deref memory at HL
		c.R.PC = c.R.HL()
		return e.Cycles.Taken, nil

	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,a16
		idx := (op >> 3) & 3
		if condTrue(c, idx) {
			c.push(d.NextPC)
			c.R.PC = uint16(d.Arg)
			return e.Cycles.Taken, nil
		}
		return e.Cycles.NotTaken, nil
	case 0xCD: // CALL a16
		c.push(d.NextPC)
		c.R.PC = uint16(d.Arg)
		return e.Cycles.Taken, nil

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST n
		c.push(d.NextPC)
		c.R.PC = uint16(op - 0xC7)
		return e.Cycles.Taken, nil

	case 0xE0: // LDH (a8),A
		c.Bus.Write(uint16(d.Arg), c.R.A)
		return e.Cycles.Taken, nil
	case 0xF0: // LDH A,(a8)
		c.R.A = c.Bus.Read(uint16(d.Arg))
		return e.Cycles.Taken, nil
	case 0xE2: // LD (C),A
		c.Bus.Write(0xFF00+uint16(c.R.C), c.R.A)
		return e.Cycles.Taken, nil
	case 0xF2: // LD A,(C)
		c.R.A = c.Bus.Read(0xFF00 + uint16(c.R.C))
		return e.Cycles.Taken, nil
	case 0xEA: // LD (a16),A
		c.Bus.Write(uint16(d.Arg), c.R.A)
		return e.Cycles.Taken, nil
	case 0xFA: // LD A,(a16)
		c.R.A = c.Bus.Read(uint16(d.Arg))
		return e.Cycles.Taken, nil

	case 0xE8: // ADD SP,r8
		result, h, cy := addSPSigned(c.R.SP, uint8(d.Arg))
		c.R.SP = result
		c.applyFlags(e.Flags, false, false, h, cy)
		return e.Cycles.Taken, nil
	case 0xF8: // LD HL,SP+r8
		result, h, cy := addSPSigned(c.R.SP, uint8(d.Arg))
		c.R.SetHL(result)
		c.applyFlags(e.Flags, false, false, h, cy)
		return e.Cycles.Taken, nil
	case 0xF9: // LD SP,HL
		c.R.SP = c.R.HL()
		return e.Cycles.Taken, nil

	case 0xF3: // DI
		c.IME = false
		return e.Cycles.Taken, nil
	case 0xFB: // EI
		c.IME = true
		return e.Cycles.Taken, nil

	default:
		return 0, &emuerr.DecodeError{PC: d.PC, Raw: d.Raw, Prefixed: false}
	}
}

// addSPSigned implements the SP+r8 family's flag rule: the actual result is
// signed addition, but H/C are computed as if SP's low byte and r8 (read
// as an unsigned byte) were added without a sign.
func addSPSigned(sp uint16, r8 uint8) (result uint16, h, cy bool) {
	spLow := uint8(sp)
	h = (spLow&0xF)+(r8&0xF) > 0xF
	cy = uint16(spLow)+uint16(r8) > 0xFF
	result = uint16(int32(sp) + int32(int8(r8)))
	return
}

// execALU implements §4.3's 8-bit ALU family for ADD/ADC/SUB/SBC/AND/XOR/OR/CP.
func (c *CPU) execALU(row uint8, operand uint8, e opcode.Entry) {
	a := c.R.A
	var result uint8
	var z, n, h, cy bool

	switch row {
	case 0: // ADD
		sum := uint16(a) + uint16(operand)
		result = uint8(sum)
		h = (a&0xF)+(operand&0xF) > 0xF
		cy = sum > 0xFF
	case 1: // ADC
		var ci uint16
		if c.R.FlagC() {
			ci = 1
		}
		sum := uint16(a) + uint16(operand) + ci
		result = uint8(sum)
		h = (a&0xF)+(operand&0xF)+uint8(ci) > 0xF
		cy = sum > 0xFF
	case 2: // SUB
		result = a - operand
		h = (a & 0xF) < (operand & 0xF)
		cy = a < operand
		n = true
	case 3: // SBC
		var ci int16
		if c.R.FlagC() {
			ci = 1
		}
		diff := int16(a) - int16(operand) - ci
		result = uint8(diff)
		h = int16(a&0xF)-int16(operand&0xF)-ci < 0
		cy = diff < 0
		n = true
	case 4: // AND
		result = a & operand
		h = true
	case 5: // XOR
		result = a ^ operand
	case 6: // OR
		result = a | operand
	case 7: // CP
		result = a - operand
		h = (a & 0xF) < (operand & 0xF)
		cy = a < operand
		n = true
	}
	z = result == 0

	if row != 7 {
		c.R.A = result
	}
	c.applyFlags(e.Flags, z, n, h, cy)
}

// execDAA adjusts A to valid packed-BCD following the preceding ADD/ADC (N=0)
// or SUB/SBC (N=1), using N/H/C from the prior instruction to pick the
// correction.
func (c *CPU) execDAA(e opcode.Entry) {
	a := c.R.A
	var adjust uint8
	cy := c.R.FlagC()

	if !c.R.FlagN() {
		if c.R.FlagH() || a&0xF > 9 {
			adjust |= 0x06
		}
		if cy || a > 0x99 {
			adjust |= 0x60
			cy = true
		}
		a += adjust
	} else {
		if c.R.FlagH() {
			adjust |= 0x06
		}
		if cy {
			adjust |= 0x60
		}
		a -= adjust
	}

	c.R.A = a
	c.applyFlags(e.Flags, a == 0, false, false, cy)
}
