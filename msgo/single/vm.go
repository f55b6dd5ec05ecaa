package single

import (
	"fmt"

	"github.com/minimips/minimips/msgo/mips"
)

// Step runs a single instruction: fetch, decode, execute, write-back, and
// statistics update, as one atomic unit of work. Any error is fatal to the
// run. The fetch fault path happens before any other side effect of the
// cycle; the address-calculation ALU step of lw/sw precedes (and is counted
// before) the memory access it drives.
//
// There is no branch/jump delay slot: the instruction after a taken branch
// or jump is not executed.
func Step(s *State) error {
	if s.Halted {
		return ErrHalted
	}

	word, err := s.Memory.FetchWord(s.PC)
	if err != nil {
		return err
	}
	s.Stats.RecordInstructionFetch()

	if word == mips.HaltWord {
		s.Stats.RecordInstruction("halt")
		s.Stats.RecordCycle()
		s.Halted = true
		return nil
	}

	op, err := Decode(word)
	if err != nil {
		return fmt.Errorf("pc 0x%08x: %w", s.PC, err)
	}

	nextPC := s.PC + WordSize

	switch op.Kind {
	case KindR:
		a := s.Registers.Read(op.Rs)
		b := s.Registers.Read(op.Rt)
		var res uint32
		switch op.Funct {
		case mips.FunctAdd:
			res = add32(a, b)
		case mips.FunctSub:
			res = sub32(a, b)
		case mips.FunctAnd:
			res = and32(a, b)
		case mips.FunctOr:
			res = or32(a, b)
		case mips.FunctSlt:
			res = slt32(a, b)
		}
		s.Registers.Write(op.Rd, res)
		s.Stats.RecordAluOp(op.Mnemonic)

	case KindI:
		switch op.Opcode {
		case mips.OpAddi:
			v := add32(s.Registers.Read(op.Rs), uint32(op.Imm))
			s.Registers.Write(op.Rt, v)
			s.Stats.RecordAluOp("add")
		case mips.OpLw:
			addr := add32(s.Registers.Read(op.Rs), uint32(op.Imm))
			s.Stats.RecordAluOp("add") // implicit address-calculation add
			v, err := s.Memory.ReadWord(addr)
			if err != nil {
				return err
			}
			s.Stats.RecordDataRead()
			s.Registers.Write(op.Rt, v)
		case mips.OpSw:
			addr := add32(s.Registers.Read(op.Rs), uint32(op.Imm))
			s.Stats.RecordAluOp("add") // implicit address-calculation add
			if err := s.Memory.WriteWord(addr, s.Registers.Read(op.Rt)); err != nil {
				return err
			}
			s.Stats.RecordDataWrite()
		case mips.OpBeq:
			diff := sub32(s.Registers.Read(op.Rs), s.Registers.Read(op.Rt))
			s.Stats.RecordAluOp("sub") // compare is an implicit subtract-and-test-zero
			if diff == 0 {
				nextPC = s.PC + WordSize + uint32(op.Imm)<<2
			}
		}

	case KindJ:
		// Region-confined jump: keep the top 4 bits of PC+4.
		nextPC = (s.PC+WordSize)&0xF0000000 | op.Target<<2
	}

	s.Stats.RecordInstruction(op.Mnemonic)
	s.Stats.RecordCycle()
	s.PC = nextPC
	return nil
}

// Run steps until the machine halts or maxCycles instructions have retired,
// whichever comes first. maxCycles of zero means no bound; the bound is only
// checked between instructions. It returns the number of steps taken.
func Run(s *State, maxCycles uint64) (uint64, error) {
	var n uint64
	for !s.Halted {
		if maxCycles != 0 && n >= maxCycles {
			break
		}
		if err := Step(s); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
