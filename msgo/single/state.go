package single

// State is the complete architectural state of one simulated processor:
// unified memory, register file, program counter and the halt flag, plus the
// statistics the engine accumulates. All state is owned by one explicit
// instance; there are no ambient singletons.
type State struct {
	Memory    *Memory      `json:"memory"`
	Registers RegisterFile `json:"registers"`

	PC     uint32 `json:"pc"`
	Halted bool   `json:"halted"`

	Stats *Stats `json:"stats"`
}

// NewState creates a running machine with memSize bytes of zeroed memory,
// zeroed registers, and PC at startPC.
func NewState(memSize uint32, startPC uint32) *State {
	return &State{
		Memory: NewMemory(memSize),
		PC:     startPC,
		Stats:  NewStats(),
	}
}

// LoadProgram writes words sequentially into memory starting at base, in
// program order.
func (s *State) LoadProgram(words []uint32, base uint32) error {
	addr := base
	for _, w := range words {
		if err := s.Memory.WriteWord(addr, w); err != nil {
			return err
		}
		addr += WordSize
	}
	return nil
}

// Instr returns the word at PC, for logging. Faults read as zero.
func (s *State) Instr() uint32 {
	w, err := s.Memory.FetchWord(s.PC)
	if err != nil {
		return 0
	}
	return w
}
