package single

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateJSONRoundTrip(t *testing.T) {
	s := NewState(256, 8)
	s.Registers.Write(5, 0xC0FFEE)
	require.NoError(t, s.Memory.WriteWord(16, 0xDEADBEEF))
	s.Stats.RecordAluOp("add")
	s.Stats.RecordInstruction("addi")
	s.Stats.RecordInstructionFetch()
	s.Stats.RecordCycle()

	dat, err := json.Marshal(s)
	require.NoError(t, err, "must serialize state")
	s2 := &State{}
	require.NoError(t, json.Unmarshal(dat, s2), "must deserialize state")
	require.Equal(t, s, s2, "must roundtrip state")
}

func TestStateInstr(t *testing.T) {
	s := NewState(64, 0)
	require.NoError(t, s.Memory.WriteWord(0, 0x2108002A))
	require.Equal(t, uint32(0x2108002A), s.Instr())

	s.PC = 2 // unaligned fetch reads as zero for logging purposes
	require.Zero(t, s.Instr())
}
