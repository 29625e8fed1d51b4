// Command dmgcore is the minimal demo entrypoint used to exercise
// Machine.Run/Machine.Step outside of tests: load a boot ROM and a
// cartridge ROM, optionally enable logging, and run until the core hits a
// fatal error or the host sink (absent here) requests quit. The
// interactive CLI front-end and host windowing backend named in §1 as
// external collaborators are not implemented by this binary.
package main

import (
	"flag"
	"fmt"
	"os"

	"dmgcore/internal/debug"
	"dmgcore/internal/machine"
)

func main() {
	bootPath := flag.String("boot", "", "path to the 256-byte boot ROM image")
	romPath := flag.String("rom", "", "path to the cartridge ROM image")
	seed := flag.Int64("seed", 1, "seed for power-on RAM randomization")
	logFlag := flag.Bool("log", false, "enable CPU/Bus/Display/System logging to stderr on exit")
	maxSteps := flag.Int64("max-steps", 0, "stop after this many instructions (0 = run until error or quit)")
	flag.Parse()

	if *bootPath == "" || *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: dmgcore -boot <path> -rom <path> [-seed N] [-log] [-max-steps N]")
		os.Exit(2)
	}

	m, err := machine.NewFromFiles(*bootPath, *romPath, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dmgcore: %v\n", err)
		os.Exit(1)
	}

	var logger *debug.Logger
	if *logFlag {
		logger = debug.NewLogger(10000)
		logger.SetComponentEnabled(debug.ComponentCPU, true)
		logger.SetComponentEnabled(debug.ComponentBus, true)
		logger.SetComponentEnabled(debug.ComponentDisplay, true)
		logger.SetComponentEnabled(debug.ComponentSystem, true)
		logger.SetMinLevel(debug.LogLevelInfo)
		m.AttachLogger(logger)
		defer logger.Shutdown()
	}

	fmt.Printf("dmgcore: %s (ROM banks: %d, title: %q)\n", *romPath, m.Cart.BankCount(), m.Cart.Title)

	runErr := runLoop(m, *maxSteps)

	if logger != nil {
		for _, e := range logger.GetRecentEntries(50) {
			fmt.Fprintln(os.Stderr, e.Format())
		}
	}

	if runErr != nil {
		snap := m.Snapshot()
		fmt.Fprintf(os.Stderr, "dmgcore: %v\n%s\n", runErr, debug.FormatSnapshot(snap))
		os.Exit(1)
	}
}

// runLoop drives Machine.Step directly (rather than Machine.Run) so
// -max-steps can bound a demo run; with maxSteps == 0 it delegates to Run.
func runLoop(m *machine.Machine, maxSteps int64) error {
	if maxSteps <= 0 {
		return m.Run()
	}
	for i := int64(0); i < maxSteps; i++ {
		if m.CPU.Quit() {
			return nil
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
