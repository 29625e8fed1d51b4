// Package debug is the core's component-gated, level-filtered logging and
// step-debugging facility: a ring-buffer Logger written to by CPU/Bus/
// Display/System, and a Debugger consumed externally by the interactive
// step debugger named in §6 (breakpoints by PC, register/memory snapshot).
// Adapted from the donor's internal/debug package, which is itself built
// entirely on the standard library (sync, time, fmt) -- see DESIGN.md for
// why that shape is kept rather than reached for a third-party structured
// logger.
package debug

import (
	"fmt"
	"time"
)

// LogLevel represents the severity level of a log entry
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "NONE"
	case LogLevelError:
		return "ERROR"
	case LogLevelWarning:
		return "WARNING"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component represents the component that generated the log entry. The
// core has exactly four: the CPU's fetch/decode/execute loop, the bus
// (bank switches, boot-ROM latch), the display (scanline/frame events),
// and System for machine-level lifecycle messages.
type Component string

const (
	ComponentCPU     Component = "CPU"
	ComponentBus     Component = "Bus"
	ComponentDisplay Component = "Display"
	ComponentSystem  Component = "System"
)

// LogEntry is one record in the Logger's ring buffer. PC and Cycle are only
// meaningful for ComponentCPU entries -- they're the fetch address and the
// running cycle count at the instant cpu.CPU.Step logged the instruction
// (see cpu.go's Step and verifyPostBoot), which is exactly the context a
// reader needs to correlate a trace line with a point in the scanline
// budget or a specific boot-ROM failure. Every other component logs through
// Log/Logf, which leave both fields at their zero value.
type LogEntry struct {
	Timestamp time.Time
	Component Component
	Level     LogLevel
	PC        uint16
	Cycle     uint64
	Message   string
	Data      map[string]interface{} // Optional structured data
}

// Format renders the entry as a single line. CPU entries carry their fetch
// address and cycle count inline, since that's the detail a trace reader
// actually wants to line up against a disassembly or a scanline budget
// crossing; other components have no PC/Cycle to show.
func (e *LogEntry) Format() string {
	timestamp := e.Timestamp.Format("15:04:05.000")
	if e.Component == ComponentCPU {
		return fmt.Sprintf("[%s] [%s] pc=%04X cycle=%d %s: %s", timestamp, e.Component, e.PC, e.Cycle, e.Level, e.Message)
	}
	return fmt.Sprintf("[%s] [%s] %s: %s", timestamp, e.Component, e.Level, e.Message)
}
