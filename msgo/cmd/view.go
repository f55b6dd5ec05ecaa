package cmd

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/minimips/minimips/msgo/mips"
	"github.com/minimips/minimips/msgo/single"
)

// TextView renders a per-cycle scoreboard of the machine state. It is a
// plain cycle listener: it only ever sees snapshots, so it cannot influence
// execution, and it can be swapped for other renderers later.
type TextView struct {
	w io.Writer
}

func NewTextView(w io.Writer) *TextView {
	return &TextView{w: w}
}

// OnCycle is the listener hook; attach it to an InstrumentedState.
func (v *TextView) OnCycle(snap single.Snapshot) {
	v.Render(snap)
}

func (v *TextView) Render(snap single.Snapshot) {
	sep := strings.Repeat("=", 78)
	sub := strings.Repeat("-", 78)
	fmt.Fprintln(v.w, sep)
	fmt.Fprintf(v.w, "Cycle %6d | PC=0x%08X | Halted=%v\n", snap.Stats.Cycles, snap.PC, snap.Halted)
	fmt.Fprintln(v.w, sub)
	fmt.Fprintln(v.w, "Registers:")
	v.renderRegisters(snap.Registers)
	if len(snap.Memory) >= single.WordSize {
		fmt.Fprintln(v.w, sub)
		fmt.Fprintf(v.w, "Memory [0x%x .. 0x%x):\n", snap.MemBase, snap.MemBase+uint32(len(snap.Memory)))
		v.renderMemory(snap.MemBase, snap.Memory)
	}
	fmt.Fprintln(v.w, sub)
	fmt.Fprintln(v.w, "Stats:")
	fmt.Fprintf(v.w, "  cycles=%d  instr_fetches=%d  data_reads=%d  data_writes=%d\n",
		snap.Stats.Cycles, snap.Stats.InstrReads, snap.Stats.DataReads, snap.Stats.DataWrites)
	fmt.Fprintf(v.w, "  alu_ops={ %s }\n", formatCounts(snap.Stats.AluOps))
	fmt.Fprintf(v.w, "  instr_counts={ %s }\n", formatCounts(snap.Stats.InstrCounts))
	fmt.Fprintln(v.w, sep)
}

func (v *TextView) renderRegisters(regs [32]uint32) {
	for i := 0; i < 32; i += 4 {
		cols := make([]string, 0, 4)
		for j := i; j < i+4; j++ {
			cols = append(cols, fmt.Sprintf("%-5s=0x%08x", mips.RegNames[j], regs[j]))
		}
		fmt.Fprintf(v.w, "%s\n", strings.Join(cols, "  "))
	}
}

func (v *TextView) renderMemory(base uint32, data []byte) {
	for i := 0; i+single.WordSize <= len(data); i += single.WordSize {
		fmt.Fprintf(v.w, "%08x: %08x\n", base+uint32(i), binary.BigEndian.Uint32(data[i:]))
	}
}

func formatCounts(counts map[string]uint64) string {
	if len(counts) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
