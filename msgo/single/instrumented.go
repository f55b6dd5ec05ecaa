package single

import (
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Snapshot is a read-only copy of the observable machine state, taken
// between cycles. Mutating it does not affect the engine.
type Snapshot struct {
	PC        uint32     `json:"pc"`
	Halted    bool       `json:"halted"`
	Registers [32]uint32 `json:"registers"`

	// MemBase and Memory describe the bounded memory window chosen when the
	// snapshot was taken.
	MemBase uint32        `json:"memBase"`
	Memory  hexutil.Bytes `json:"memory"`

	Stats Stats `json:"stats"`
}

// Listener receives a snapshot after each completed cycle. Listeners run
// synchronously, in registration order, and never after a fatal abort. They
// cannot mutate engine state: they only ever see the snapshot.
type Listener func(Snapshot)

// InstrumentedState wraps a State with the observer surface the external
// view/controller layer consumes: cycle-completed notifications and
// between-cycle snapshots with a caller-chosen memory window.
type InstrumentedState struct {
	state *State

	listeners []Listener

	windowBase uint32
	windowSize uint32
}

func NewInstrumentedState(state *State) *InstrumentedState {
	return &InstrumentedState{state: state}
}

// Attach registers a cycle listener. Order of registration is the order of
// notification.
func (m *InstrumentedState) Attach(l Listener) {
	m.listeners = append(m.listeners, l)
}

// SetWindow chooses the memory range included in listener snapshots.
func (m *InstrumentedState) SetWindow(base, size uint32) {
	m.windowBase = base
	m.windowSize = size
}

// Snapshot copies the observable state, with a memory window of count bytes
// starting at base (clamped to capacity). Only meaningful between cycles.
func (m *InstrumentedState) Snapshot(base, count uint32) Snapshot {
	window, _ := io.ReadAll(m.state.Memory.ReadMemoryRange(base, count))
	return Snapshot{
		PC:        m.state.PC,
		Halted:    m.state.Halted,
		Registers: [32]uint32(m.state.Registers),
		MemBase:   base,
		Memory:    window,
		Stats:     m.state.Stats.Copy(),
	}
}

// Step runs one cycle and, if it completed, notifies every listener.
func (m *InstrumentedState) Step() error {
	if err := Step(m.state); err != nil {
		return err
	}
	if len(m.listeners) > 0 {
		snap := m.Snapshot(m.windowBase, m.windowSize)
		for _, l := range m.listeners {
			l(snap)
		}
	}
	return nil
}

// Run steps until halt or maxCycles (zero means unbounded), notifying
// listeners each cycle. It returns the number of steps taken.
func (m *InstrumentedState) Run(maxCycles uint64) (uint64, error) {
	var n uint64
	for !m.state.Halted {
		if maxCycles != 0 && n >= maxCycles {
			break
		}
		if err := m.Step(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
