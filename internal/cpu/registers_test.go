package cpu

import "testing"

func TestBCDEHLPackUnpack(t *testing.T) {
	var r Registers
	r.SetBC(0x1234)
	if r.B != 0x12 || r.C != 0x34 || r.BC() != 0x1234 {
		t.Fatalf("SetBC(0x1234): B=%02X C=%02X BC()=%04X", r.B, r.C, r.BC())
	}
	r.SetDE(0xABCD)
	if r.DE() != 0xABCD {
		t.Fatalf("DE() = %04X, want ABCD", r.DE())
	}
	r.SetHL(0xFF00)
	if r.HL() != 0xFF00 {
		t.Fatalf("HL() = %04X, want FF00", r.HL())
	}
}

func TestAFMasksLowNibbleOfF(t *testing.T) {
	var r Registers
	r.SetAF(0x1234)
	if r.F != 0x30 {
		t.Fatalf("SetAF(0x1234).F = %02X, want 0x30 (low nibble forced to 0)", r.F)
	}
	if r.AF() != 0x1230 {
		t.Fatalf("AF() = %04X, want 0x1230", r.AF())
	}
}

func TestFlagGettersMatchBitPositions(t *testing.T) {
	var r Registers
	r.F = flagZ | flagC
	if !r.FlagZ() || r.FlagN() || r.FlagH() || !r.FlagC() {
		t.Fatalf("flags for F=%02X: Z=%v N=%v H=%v C=%v", r.F, r.FlagZ(), r.FlagN(), r.FlagH(), r.FlagC())
	}
}

func TestFlagSettersToggleOnlyTheirBit(t *testing.T) {
	var r Registers
	r.SetFlagZ(true)
	r.SetFlagH(true)
	if r.F != flagZ|flagH {
		t.Fatalf("F = %02X, want %02X", r.F, flagZ|flagH)
	}
	r.SetFlagZ(false)
	if r.F != flagH {
		t.Fatalf("F after clearing Z = %02X, want %02X", r.F, flagH)
	}
}
