package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/minimips/minimips/msgo/asm"
	"github.com/minimips/minimips/msgo/single"
)

var (
	RunInputFlag = &cli.PathFlag{
		Name:     "input",
		Usage:    "program image to run: .bin (one hex word per line) or .asm (assembled on the fly)",
		Required: true,
	}
	RunOutputFlag = &cli.PathFlag{
		Name:  "output",
		Usage: "JSON file to write the final state and statistics to",
	}
	RunMemSizeFlag = &cli.UintFlag{
		Name:  "mem-size",
		Usage: "memory capacity in bytes",
		Value: 64 * 1024,
	}
	RunStartPCFlag = &cli.UintFlag{
		Name:  "start-pc",
		Usage: "initial program counter (word-aligned byte address)",
		Value: 0,
	}
	RunMaxCyclesFlag = &cli.Uint64Flag{
		Name:  "max-cycles",
		Usage: "stop after this many cycles (0 = run until halt)",
		Value: 0,
	}
	RunInfoAtFlag = &cli.Uint64Flag{
		Name:  "info-at",
		Usage: "log progress every N cycles (0 = never)",
		Value: 0,
	}
	RunStepFlag = &cli.BoolFlag{
		Name:  "step",
		Usage: "interactive single-step mode",
	}
	RunViewFlag = &cli.BoolFlag{
		Name:  "view",
		Usage: "print the scoreboard after every cycle",
	}
	RunViewWordsFlag = &cli.UintFlag{
		Name:  "view-words",
		Usage: "number of memory words shown in the scoreboard window",
		Value: 32,
	}
	RunPProfCPU = &cli.BoolFlag{
		Name:  "pprof.cpu",
		Usage: "enable pprof cpu profiling",
	}
)

var OutFilePerm = os.FileMode(0o644)

func Run(ctx *cli.Context) error {
	if ctx.Bool(RunPProfCPU.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	l := Logger(os.Stderr, log.LevelInfo)

	inputPath := ctx.Path(RunInputFlag.Name)
	words, err := loadWords(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load program %q: %w", inputPath, err)
	}

	state := single.NewState(uint32(ctx.Uint(RunMemSizeFlag.Name)), uint32(ctx.Uint(RunStartPCFlag.Name)))
	if err := state.LoadProgram(words, 0); err != nil {
		return fmt.Errorf("failed to load program into memory: %w", err)
	}

	ins := single.NewInstrumentedState(state)
	if ctx.Bool(RunViewFlag.Name) {
		view := NewTextView(os.Stdout)
		ins.SetWindow(0, uint32(ctx.Uint(RunViewWordsFlag.Name))*single.WordSize)
		ins.Attach(view.OnCycle)
	}

	maxCycles := ctx.Uint64(RunMaxCyclesFlag.Name)
	infoAt := ctx.Uint64(RunInfoAtFlag.Name)

	start := time.Now()
	if ctx.Bool(RunStepFlag.Name) {
		err = stepInteractive(ctx, ins, state, maxCycles)
	} else {
		err = runToCompletion(ctx, l, ins, state, maxCycles, infoAt, start)
	}
	if err != nil {
		return err
	}

	delta := time.Since(start)
	l.Info("simulation stopped",
		"halted", state.Halted,
		"cycles", state.Stats.Cycles,
		"pc", HexU32(state.PC),
		"alu_ops", state.Stats.AluOpTotal(),
		"instr_fetches", state.Stats.InstrReads,
		"data_reads", state.Stats.DataReads,
		"data_writes", state.Stats.DataWrites,
		"elapsed", delta,
	)

	if outPath := ctx.Path(RunOutputFlag.Name); outPath != "" {
		if err := writeJSON(outPath, state); err != nil {
			return fmt.Errorf("failed to write state output: %w", err)
		}
	}
	return nil
}

func runToCompletion(ctx *cli.Context, l log.Logger, ins *single.InstrumentedState, state *single.State, maxCycles, infoAt uint64, start time.Time) error {
	var n uint64
	for !state.Halted {
		if maxCycles != 0 && n >= maxCycles {
			l.Warn("cycle bound reached before halt", "max_cycles", maxCycles)
			break
		}
		if n%100 == 0 { // don't do the ctx err check (includes lock) too often
			if err := ctx.Context.Err(); err != nil {
				return err
			}
		}
		if infoAt != 0 && n != 0 && n%infoAt == 0 {
			delta := time.Since(start)
			l.Info("processing",
				"cycle", state.Stats.Cycles,
				"pc", HexU32(state.PC),
				"insn", HexU32(state.Instr()),
				"ips", float64(n)/(float64(delta)/float64(time.Second)),
			)
		}
		if err := ins.Step(); err != nil {
			return fmt.Errorf("failed at cycle %d (PC: %08x): %w", n, state.PC, err)
		}
		n++
	}
	return nil
}

// stepInteractive runs one cycle per keypress. With a terminal on stdin it
// uses raw mode so a bare Enter or space steps and 'q' quits; otherwise it
// falls back to reading lines.
func stepInteractive(ctx *cli.Context, ins *single.InstrumentedState, state *single.State, maxCycles uint64) error {
	fd := int(os.Stdin.Fd())
	raw := term.IsTerminal(fd)
	lines := bufio.NewReader(os.Stdin)

	next := func() (quit bool, err error) {
		fmt.Fprint(os.Stderr, "[step: Enter/space, quit: q] ")
		if raw {
			oldState, err := term.MakeRaw(fd)
			if err != nil {
				return false, fmt.Errorf("failed to set raw mode: %w", err)
			}
			var buf [1]byte
			_, readErr := os.Stdin.Read(buf[:])
			_ = term.Restore(fd, oldState)
			fmt.Fprintln(os.Stderr)
			if readErr != nil {
				return false, readErr
			}
			// ctrl-c and ctrl-d quit too
			return buf[0] == 'q' || buf[0] == 0x03 || buf[0] == 0x04, nil
		}
		line, readErr := lines.ReadString('\n')
		if readErr != nil {
			return true, nil
		}
		return strings.HasPrefix(strings.TrimSpace(strings.ToLower(line)), "q"), nil
	}

	var n uint64
	for !state.Halted {
		if maxCycles != 0 && n >= maxCycles {
			break
		}
		if err := ctx.Context.Err(); err != nil {
			return err
		}
		quit, err := next()
		if err != nil {
			return err
		}
		if quit {
			break
		}
		if err := ins.Step(); err != nil {
			return fmt.Errorf("failed at cycle %d (PC: %08x): %w", n, state.PC, err)
		}
		n++
	}
	return nil
}

func loadWords(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".asm") {
		return asm.Assemble(f)
	}
	return single.ParseImage(f)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), OutFilePerm)
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run a program image on the single-cycle core.",
	Description: "Run a program image on the single-cycle core until it halts, faults, or hits the cycle bound. See flags for the scoreboard view and interactive stepping.",
	Action:      Run,
	Flags: []cli.Flag{
		RunInputFlag,
		RunOutputFlag,
		RunMemSizeFlag,
		RunStartPCFlag,
		RunMaxCyclesFlag,
		RunInfoAtFlag,
		RunStepFlag,
		RunViewFlag,
		RunViewWordsFlag,
		RunPProfCPU,
	},
}
