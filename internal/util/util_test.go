package util

import "testing"

func TestPack16Unpack16RoundTrip(t *testing.T) {
	for h := 0; h <= 0xFF; h++ {
		for l := 0; l <= 0xFF; l += 17 { // sample the low byte, every combination of high byte
			hi, lo := uint8(h), uint8(l)
			v := Pack16(hi, lo)
			gotHi, gotLo := Unpack16(v)
			if gotHi != hi || gotLo != lo {
				t.Fatalf("Unpack16(Pack16(%02X,%02X)) = (%02X,%02X)", hi, lo, gotHi, gotLo)
			}
		}
	}
}

func TestPack16IsBigEndian(t *testing.T) {
	if got := Pack16(0x12, 0x34); got != 0x1234 {
		t.Errorf("Pack16(0x12,0x34) = 0x%04X, want 0x1234", got)
	}
}

func TestPackLEUnpackLERoundTrip(t *testing.T) {
	for h := 0; h <= 0xFF; h += 3 {
		for l := 0; l <= 0xFF; l += 7 {
			lo, hi := uint8(l), uint8(h)
			v := PackLE(lo, hi)
			gotLo, gotHi := UnpackLE(v)
			if gotLo != lo || gotHi != hi {
				t.Fatalf("UnpackLE(PackLE(%02X,%02X)) = (%02X,%02X)", lo, hi, gotLo, gotHi)
			}
		}
	}
}

func TestToSigned8(t *testing.T) {
	cases := []struct {
		in   uint8
		want int8
	}{
		{0x00, 0}, {0x7F, 127}, {0x80, -128}, {0xFF, -1}, {0xFB, -5},
	}
	for _, c := range cases {
		if got := ToSigned8(c.in); got != c.want {
			t.Errorf("ToSigned8(0x%02X) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPostBootRegistersMatchesSpec(t *testing.T) {
	r := PostBootRegisters
	if r.A != 0x01 || r.F != 0xB0 || r.B != 0x00 || r.C != 0x13 ||
		r.D != 0x00 || r.E != 0xD8 || r.H != 0x01 || r.L != 0xFD ||
		r.SP != 0xFFFE || r.PC != 0x0100 {
		t.Fatalf("PostBootRegisters = %+v, does not match the canonical snapshot", r)
	}
}

func TestPostBootMemoryContainsLCDDefaults(t *testing.T) {
	want := map[uint16]uint8{0xFF40: 0x91, 0xFF47: 0xFC, 0xFFFF: 0x00}
	found := make(map[uint16]uint8)
	for _, mw := range PostBootMemory {
		found[mw.Addr] = mw.Val
	}
	for addr, val := range want {
		if found[addr] != val {
			t.Errorf("PostBootMemory[0x%04X] = 0x%02X, want 0x%02X", addr, found[addr], val)
		}
	}
}
