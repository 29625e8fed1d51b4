// Package emuerr defines the error taxonomy raised by the CPU, bus, and
// display: decode failures, memory-region violations, unimplemented
// instructions, and generic emulator-level mismatches. Every error here
// is a typed struct so a caller can distinguish categories with errors.As
// instead of string-matching a message.
package emuerr

import "fmt"

// DecodeError reports an unknown or explicitly illegal opcode byte.
type DecodeError struct {
	PC       uint16
	Raw      []uint8
	Prefixed bool
}

func (e *DecodeError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("decode error at PC=0x%04X: illegal CB-prefixed opcode 0x%02X (raw=% X)", e.PC, e.Raw[len(e.Raw)-1], e.Raw)
	}
	return fmt.Sprintf("decode error at PC=0x%04X: illegal opcode 0x%02X (raw=% X)", e.PC, e.Raw[0], e.Raw)
}

// MemoryError reports an out-of-range access or a write to a read-only region.
type MemoryError struct {
	Region  string
	Address uint16
	Write   bool
}

func (e *MemoryError) Error() string {
	if e.Write {
		return fmt.Sprintf("memory error: write out of range or to read-only region %q at address 0x%04X", e.Region, e.Address)
	}
	return fmt.Sprintf("memory error: read access out of range in region %q at address 0x%04X", e.Region, e.Address)
}

// NotImplementedError reports HALT, STOP, or an instruction this core
// deliberately declines to execute.
type NotImplementedError struct {
	PC       uint16
	Mnemonic string
	Opcode   uint8
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented at PC=0x%04X: %s (opcode 0x%02X)", e.PC, e.Mnemonic, e.Opcode)
}

// EmulatorError is the generic, catch-all category: post-boot snapshot
// verification failures and similar whole-machine mismatches.
type EmulatorError struct {
	Reason string
	Failed []string
}

func (e *EmulatorError) Error() string {
	if len(e.Failed) == 0 {
		return fmt.Sprintf("emulator error: %s", e.Reason)
	}
	return fmt.Sprintf("emulator error: %s (failed: %v)", e.Reason, e.Failed)
}
