package debug

import (
	"fmt"
	"sync"
	"time"
)

// Logger represents the centralized logging system
type Logger struct {
	// Circular buffer for log entries
	entries    []LogEntry
	entriesMu  sync.RWMutex
	maxEntries int
	writeIndex int
	entryCount int

	// Component enable/disable flags
	componentEnabled map[Component]bool
	componentMu      sync.RWMutex

	// Minimum severity (entries less severe than this level, i.e. with a
	// higher LogLevel value, are filtered)
	minLevel LogLevel
	levelMu  sync.RWMutex

	// Channel for thread-safe logging
	logChan chan LogEntry

	// Shutdown channel
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewLogger creates a new logger instance
func NewLogger(maxEntries int) *Logger {
	if maxEntries < 100 {
		maxEntries = 100 // Minimum buffer size
	}

	logger := &Logger{
		entries:          make([]LogEntry, maxEntries),
		maxEntries:       maxEntries,
		writeIndex:       0,
		entryCount:       0,
		componentEnabled: make(map[Component]bool),
		minLevel:         LogLevelInfo,              // Default to Info level
		logChan:          make(chan LogEntry, 1000), // Buffered channel
		shutdown:         make(chan struct{}),
	}

	// Disable all components by default (logging is opt-in)
	logger.componentEnabled[ComponentCPU] = false
	logger.componentEnabled[ComponentBus] = false
	logger.componentEnabled[ComponentDisplay] = false
	logger.componentEnabled[ComponentSystem] = false

	// Start log processing goroutine
	logger.wg.Add(1)
	go logger.processLogs()

	return logger
}

// processLogs processes log entries from the channel
func (l *Logger) processLogs() {
	defer l.wg.Done()

	for {
		select {
		case entry := <-l.logChan:
			l.addEntry(entry)
		case <-l.shutdown:
			// Drain remaining logs
			for {
				select {
				case entry := <-l.logChan:
					l.addEntry(entry)
				default:
					return
				}
			}
		}
	}
}

// addEntry adds a log entry to the circular buffer
func (l *Logger) addEntry(entry LogEntry) {
	l.entriesMu.Lock()
	defer l.entriesMu.Unlock()

	// Add entry at current write index
	l.entries[l.writeIndex] = entry
	l.writeIndex = (l.writeIndex + 1) % l.maxEntries

	// Update entry count (don't exceed maxEntries)
	if l.entryCount < l.maxEntries {
		l.entryCount++
	}
}

// logAt is the common path for every Log*/Log*f entry point: it gates on
// component/level and stamps pc/cycle, which only ever carry real values
// from the CPU's fetch/decode/execute loop (see LogCPU below) -- every
// other component logs through Log/Logf with both left at zero.
func (l *Logger) logAt(component Component, level LogLevel, pc uint16, cycle uint64, message string, data map[string]interface{}) {
	// Check if component is enabled
	l.componentMu.RLock()
	enabled := l.componentEnabled[component]
	l.componentMu.RUnlock()

	if !enabled {
		return
	}

	// Check if level is high enough
	l.levelMu.RLock()
	minLevel := l.minLevel
	l.levelMu.RUnlock()

	if level > minLevel {
		return
	}

	// Send to channel (non-blocking if channel is full)
	select {
	case l.logChan <- LogEntry{
		Timestamp: time.Now(),
		Component: component,
		Level:     level,
		PC:        pc,
		Cycle:     cycle,
		Message:   message,
		Data:      data,
	}:
	default:
		// Channel is full, drop entry rather than block the caller.
	}
}

// Log logs a message with the specified component and level.
func (l *Logger) Log(component Component, level LogLevel, message string, data map[string]interface{}) {
	l.logAt(component, level, 0, 0, message, data)
}

// Logf logs a formatted message.
func (l *Logger) Logf(component Component, level LogLevel, format string, args ...interface{}) {
	l.Log(component, level, fmt.Sprintf(format, args...), nil)
}

// LogCPU logs a fetch/decode/execute event. pc and cycle are the values
// cpu.CPU.Step actually has in hand at the call site (the decoded
// instruction's fetch address and the running TotalCycles counter), so a
// CPU trace line can be matched against a disassembly or a scanline-budget
// crossing without digging through the Data bag.
func (l *Logger) LogCPU(level LogLevel, pc uint16, cycle uint64, message string, data map[string]interface{}) {
	l.logAt(ComponentCPU, level, pc, cycle, message, data)
}

// LogCPUf logs a formatted fetch/decode/execute event; see LogCPU.
func (l *Logger) LogCPUf(level LogLevel, pc uint16, cycle uint64, format string, args ...interface{}) {
	l.LogCPU(level, pc, cycle, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) LogBus(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentBus, level, message, data)
}

func (l *Logger) LogDisplay(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentDisplay, level, message, data)
}

func (l *Logger) LogSystem(level LogLevel, message string, data map[string]interface{}) {
	l.Log(ComponentSystem, level, message, data)
}

// Convenience methods with formatted strings
func (l *Logger) LogBusf(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentBus, level, format, args...)
}

func (l *Logger) LogDisplayf(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentDisplay, level, format, args...)
}

func (l *Logger) LogSystemf(level LogLevel, format string, args ...interface{}) {
	l.Logf(ComponentSystem, level, format, args...)
}

// GetEntries returns a copy of all log entries (oldest first)
func (l *Logger) GetEntries() []LogEntry {
	l.entriesMu.RLock()
	defer l.entriesMu.RUnlock()

	if l.entryCount == 0 {
		return []LogEntry{}
	}

	entries := make([]LogEntry, l.entryCount)

	if l.entryCount < l.maxEntries {
		// Buffer not full yet, return entries from 0 to entryCount
		copy(entries, l.entries[:l.entryCount])
	} else {
		// Buffer is full, return entries starting from writeIndex (oldest)
		// and wrapping around
		for i := 0; i < l.entryCount; i++ {
			idx := (l.writeIndex + i) % l.maxEntries
			entries[i] = l.entries[idx]
		}
	}

	return entries
}

// GetRecentEntries returns the most recent N entries
func (l *Logger) GetRecentEntries(count int) []LogEntry {
	allEntries := l.GetEntries()
	if count >= len(allEntries) {
		return allEntries
	}
	return allEntries[len(allEntries)-count:]
}

// Clear clears all log entries
func (l *Logger) Clear() {
	l.entriesMu.Lock()
	defer l.entriesMu.Unlock()

	l.entryCount = 0
	l.writeIndex = 0
}

// SetComponentEnabled enables or disables logging for a component
func (l *Logger) SetComponentEnabled(component Component, enabled bool) {
	l.componentMu.Lock()
	defer l.componentMu.Unlock()
	l.componentEnabled[component] = enabled
}

// IsComponentEnabled returns whether a component is enabled
func (l *Logger) IsComponentEnabled(component Component) bool {
	l.componentMu.RLock()
	defer l.componentMu.RUnlock()
	return l.componentEnabled[component]
}

// SetMinLevel sets the minimum log level
func (l *Logger) SetMinLevel(level LogLevel) {
	l.levelMu.Lock()
	defer l.levelMu.Unlock()
	l.minLevel = level
}

// GetMinLevel returns the minimum log level
func (l *Logger) GetMinLevel() LogLevel {
	l.levelMu.RLock()
	defer l.levelMu.RUnlock()
	return l.minLevel
}

// Shutdown shuts down the logger and waits for all logs to be processed
func (l *Logger) Shutdown() {
	close(l.shutdown)
	l.wg.Wait()
}
