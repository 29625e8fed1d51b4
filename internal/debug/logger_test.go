package debug

import (
	"strings"
	"testing"
)

func TestLoggingIsOptInPerComponent(t *testing.T) {
	l := NewLogger(100)
	l.LogCPU(LogLevelInfo, 0x0100, 4, "should be dropped", nil)
	l.Shutdown()
	if entries := l.GetEntries(); len(entries) != 0 {
		t.Fatalf("GetEntries() = %+v, want none (CPU component starts disabled)", entries)
	}
}

func TestEnablingAComponentLetsItsEntriesThrough(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentCPU, true)
	l.LogCPU(LogLevelInfo, 0x0100, 4, "fetched opcode", map[string]interface{}{"opcode": 0x00})
	l.Shutdown()
	entries := l.GetEntries()
	if len(entries) != 1 || entries[0].Component != ComponentCPU || entries[0].Message != "fetched opcode" {
		t.Fatalf("GetEntries() = %+v", entries)
	}
	if entries[0].PC != 0x0100 || entries[0].Cycle != 4 {
		t.Fatalf("entry PC/Cycle = %04X/%d, want 0100/4", entries[0].PC, entries[0].Cycle)
	}
}

func TestLogCPUFormatIncludesPCAndCycle(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentCPU, true)
	l.LogCPUf(LogLevelInfo, 0x0150, 28, "executed %s", "NOP")
	l.Shutdown()
	entries := l.GetEntries()
	if len(entries) != 1 {
		t.Fatalf("GetEntries() = %+v, want one entry", entries)
	}
	formatted := entries[0].Format()
	for _, want := range []string{"pc=0150", "cycle=28", "executed NOP"} {
		if !strings.Contains(formatted, want) {
			t.Fatalf("Format() = %q, want it to contain %q", formatted, want)
		}
	}
}

func TestIsComponentEnabledReflectsSetComponentEnabled(t *testing.T) {
	l := NewLogger(100)
	if l.IsComponentEnabled(ComponentBus) {
		t.Fatal("Bus should start disabled")
	}
	l.SetComponentEnabled(ComponentBus, true)
	if !l.IsComponentEnabled(ComponentBus) {
		t.Fatal("Bus should be enabled after SetComponentEnabled(true)")
	}
}

func TestMinLevelFiltersBelowThreshold(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentSystem, true)
	if l.GetMinLevel() != LogLevelInfo {
		t.Fatalf("default min level = %v, want LogLevelInfo", l.GetMinLevel())
	}
	l.LogSystem(LogLevelWarning, "more severe than the default Info threshold", nil) // kept
	l.LogSystem(LogLevelDebug, "less severe than the default Info threshold", nil)   // filtered
	l.Shutdown()
	entries := l.GetEntries()
	if len(entries) != 1 || entries[0].Message != "more severe than the default Info threshold" {
		t.Fatalf("GetEntries() = %+v, want exactly the Warning-level entry", entries)
	}
}

func TestSetMinLevelWidensOrNarrowsTheFilter(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentSystem, true)
	l.SetMinLevel(LogLevelError)
	l.LogSystem(LogLevelWarning, "now less severe than the raised threshold", nil)
	l.Shutdown()
	if entries := l.GetEntries(); len(entries) != 0 {
		t.Fatalf("GetEntries() = %+v, want the Warning-level entry filtered", entries)
	}
}

func TestLogfFormatsTheMessage(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentDisplay, true)
	l.LogDisplayf(LogLevelInfo, "scanline %d presented", 42)
	l.Shutdown()
	entries := l.GetEntries()
	if len(entries) != 1 || entries[0].Message != "scanline 42 presented" {
		t.Fatalf("GetEntries() = %+v", entries)
	}
}

func TestRingBufferWrapsAtCapacity(t *testing.T) {
	l := NewLogger(100) // NewLogger clamps below 100 up to 100
	l.SetComponentEnabled(ComponentSystem, true)
	for i := 0; i < 150; i++ {
		l.LogSystemf(LogLevelInfo, "entry %d", i)
	}
	l.Shutdown()
	entries := l.GetEntries()
	if len(entries) != 100 {
		t.Fatalf("GetEntries() returned %d entries, want 100 (buffer capacity)", len(entries))
	}
	if entries[0].Message != "entry 50" {
		t.Fatalf("oldest retained entry = %q, want %q", entries[0].Message, "entry 50")
	}
	if entries[99].Message != "entry 149" {
		t.Fatalf("newest entry = %q, want %q", entries[99].Message, "entry 149")
	}
}

func TestGetRecentEntriesReturnsTheTail(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentSystem, true)
	for i := 0; i < 5; i++ {
		l.LogSystemf(LogLevelInfo, "entry %d", i)
	}
	l.Shutdown()
	recent := l.GetRecentEntries(2)
	if len(recent) != 2 || recent[0].Message != "entry 3" || recent[1].Message != "entry 4" {
		t.Fatalf("GetRecentEntries(2) = %+v", recent)
	}
}

func TestClearEmptiesTheBuffer(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentSystem, true)
	l.LogSystem(LogLevelInfo, "one", nil)
	l.Shutdown()
	l.Clear()
	if entries := l.GetEntries(); len(entries) != 0 {
		t.Fatalf("GetEntries() after Clear = %+v, want none", entries)
	}
}

func TestNewLoggerEnforcesAMinimumBufferSize(t *testing.T) {
	l := NewLogger(10)
	l.SetComponentEnabled(ComponentSystem, true)
	for i := 0; i < 100; i++ {
		l.LogSystemf(LogLevelInfo, "entry %d", i)
	}
	l.Shutdown()
	if entries := l.GetEntries(); len(entries) != 100 {
		t.Fatalf("GetEntries() returned %d entries, want 100 (NewLogger(10) should clamp to a 100-entry buffer)", len(entries))
	}
}
