package cpu

// executeCB implements the CB-prefixed secondary table: the eight
// rotate/shift operations across all 8 operands, then BIT/RES/SET for all
// 8 bit indices, per §4.3's CB-prefixed group.
func (c *CPU) executeCB(d Decoded) (uint8, error) {
	op := d.Opcode
	e := d.Entry
	idx := op & 7

	switch {
	case op < 0x40: // RLC/RRC/RL/RR/SLA/SRA/SWAP/SRL
		row := (op >> 3) & 7
		x := c.getReg8(idx)
		result, co := shiftOp(row, x, c.R.FlagC())
		c.setReg8(idx, result)
		c.applyFlags(e.Flags, result == 0, false, false, co)
		return e.Cycles.Taken, nil

	case op < 0x80: // BIT n,r
		bit := (op - 0x40) >> 3
		x := c.getReg8(idx)
		zero := (x>>bit)&1 == 0
		c.applyFlags(e.Flags, zero, false, true, false)
		return e.Cycles.Taken, nil

	case op < 0xC0: // RES n,r
		bit := (op - 0x80) >> 3
		x := c.getReg8(idx)
		c.setReg8(idx, x&^(1<<bit))
		return e.Cycles.Taken, nil

	default: // SET n,r
		bit := (op - 0xC0) >> 3
		x := c.getReg8(idx)
		c.setReg8(idx, x|(1<<bit))
		return e.Cycles.Taken, nil
	}
}

// shiftOp implements one row of the CB rotate/shift family. carryIn is the
// current C flag, consumed only by RL/RR. The returned carryOut is the bit
// shifted out (SWAP reports false, matching its forced C=0).
func shiftOp(row uint8, x uint8, carryIn bool) (result uint8, carryOut bool) {
	switch row {
	case 0: // RLC
		co := x >> 7
		return (x << 1) | co, co != 0
	case 1: // RRC
		co := x & 1
		return (x >> 1) | (co << 7), co != 0
	case 2: // RL
		var ci uint8
		if carryIn {
			ci = 1
		}
		co := x >> 7
		return (x << 1) | ci, co != 0
	case 3: // RR
		var ci uint8
		if carryIn {
			ci = 1 << 7
		}
		co := x & 1
		return (x >> 1) | ci, co != 0
	case 4: // SLA
		co := x >> 7
		return x << 1, co != 0
	case 5: // SRA
		co := x & 1
		return (x >> 1) | (x & 0x80), co != 0
	case 6: // SWAP
		return (x << 4) | (x >> 4), false
	default: // SRL
		co := x & 1
		return x >> 1, co != 0
	}
}
