package cpu

import (
	"dmgcore/internal/bus"
	"dmgcore/internal/emuerr"
	"dmgcore/internal/opcode"
)

// Decoded is the result of decoding one instruction: everything execute
// needs, plus enough raw material for a disassembler or a decode-error
// diagnostic.
type Decoded struct {
	PC         uint16 // address the opcode byte was fetched from
	Opcode     uint8
	CBPrefixed bool
	Entry      opcode.Entry
	Arg        uint32 // d8/d16/a8/a16 value, or the raw byte for r8 (see SignedArg)
	NextPC     uint16 // PC after consuming the full instruction
	Raw        []uint8
}

// SignedArg reinterprets Arg as the signed r8 displacement. Only valid when
// Entry.Arg == opcode.ArgR8.
func (d Decoded) SignedArg() int8 { return int8(uint8(d.Arg)) }

// fetchEntry reads the opcode byte (and CB secondary byte, if present) at pc and
// returns the matching table entry along with whether this was the
// CB-prefixed space. It does not consume operand bytes.
func fetchEntry(b *bus.Bus, pc uint16) (entry opcode.Entry, op uint8, prefixed bool, next uint16) {
	op = b.Read(pc)
	next = pc + 1
	if op == 0xCB {
		cbOp := b.Read(next)
		next++
		return opcode.CB[cbOp], cbOp, true, next
	}
	return opcode.Primary[op], op, false, next
}

// Decode implements §4.2: fetch the opcode (extending through the CB
// prefix when present), pull in its immediate operand bytes, and advance
// PC by the instruction's total length. Unknown or explicitly illegal
// opcodes yield a *emuerr.DecodeError. A naked 0xCB never reaches this
// far, since fetchEntry always consumes the secondary byte; execute's
// default case rejects one with a DecodeError if it ever did.
func Decode(b *bus.Bus, pc uint16) (Decoded, error) {
	entry, op, prefixed, afterOpcode := fetchEntry(b, pc)

	raw := []uint8{b.Read(pc)}
	if prefixed {
		raw = append(raw, op)
	}

	if !entry.Valid {
		return Decoded{}, &emuerr.DecodeError{PC: pc, Raw: raw, Prefixed: prefixed}
	}

	d := Decoded{
		PC:         pc,
		Opcode:     op,
		CBPrefixed: prefixed,
		Entry:      entry,
	}

	// entry.Length counts the opcode byte(s) already consumed by
	// fetchEntry (1 for primary, 2 for CB-prefixed); the rest are operand
	// bytes read starting at afterOpcode.
	consumed := uint8(1)
	if prefixed {
		consumed = 2
	}
	operandBytes := int(entry.Length) - int(consumed)

	cursor := afterOpcode
	var arg uint32
	for i := 0; i < operandBytes; i++ {
		b2 := b.Read(cursor)
		raw = append(raw, b2)
		arg |= uint32(b2) << (8 * uint(i))
		cursor++
	}

	if entry.Arg == opcode.ArgA8 && opcode.AddsFF00(op) {
		arg = 0xFF00 + (arg & 0xFF)
	}

	d.Arg = arg
	d.NextPC = cursor
	d.Raw = raw
	return d, nil
}
