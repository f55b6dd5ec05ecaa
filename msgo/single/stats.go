package single

// Stats accumulates the architectural counters describing the work the
// engine performed: retired cycles, memory traffic split by kind, and
// per-mnemonic maps for ALU operations and retired instructions. The maps
// include implicit ALU uses (the address-calculation add of lw/sw, the
// comparison sub of beq). Counters only ever grow, and only the engine
// mutates them.
type Stats struct {
	Cycles     uint64 `json:"cycles"`
	InstrReads uint64 `json:"instrReads"`
	DataReads  uint64 `json:"dataReads"`
	DataWrites uint64 `json:"dataWrites"`

	AluOps      map[string]uint64 `json:"aluOps"`
	InstrCounts map[string]uint64 `json:"instrCounts"`
}

func NewStats() *Stats {
	return &Stats{
		AluOps:      make(map[string]uint64),
		InstrCounts: make(map[string]uint64),
	}
}

func (s *Stats) RecordCycle() {
	s.Cycles++
}

func (s *Stats) RecordInstructionFetch() {
	s.InstrReads++
}

func (s *Stats) RecordDataRead() {
	s.DataReads++
}

func (s *Stats) RecordDataWrite() {
	s.DataWrites++
}

func (s *Stats) RecordAluOp(mnemonic string) {
	if s.AluOps == nil {
		s.AluOps = make(map[string]uint64)
	}
	s.AluOps[mnemonic]++
}

func (s *Stats) RecordInstruction(mnemonic string) {
	if s.InstrCounts == nil {
		s.InstrCounts = make(map[string]uint64)
	}
	s.InstrCounts[mnemonic]++
}

// AluOpTotal recomputes the total ALU operation count from the per-mnemonic
// map. No aggregate is cached.
func (s *Stats) AluOpTotal() uint64 {
	var total uint64
	for _, n := range s.AluOps {
		total += n
	}
	return total
}

// Copy returns a deep copy, for snapshots handed to observers.
func (s *Stats) Copy() Stats {
	out := *s
	out.AluOps = make(map[string]uint64, len(s.AluOps))
	for k, v := range s.AluOps {
		out.AluOps[k] = v
	}
	out.InstrCounts = make(map[string]uint64, len(s.InstrCounts))
	for k, v := range s.InstrCounts {
		out.InstrCounts[k] = v
	}
	return out
}
