package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minimips/minimips/msgo/mips"
	"github.com/minimips/minimips/msgo/single"
)

const demoProgram = `
# store/load/branch/jump demo
        addi $t0, $zero, 0
        addi $t0, $t0, 42
        sw   $t0, 0x100($zero)
        lw   $t1, 0x100($zero)
        beq  $t0, $t1, skip
        addi $t0, $t0, 1
skip:
        j    end
        add  $t2, $t0, $t1
end:
        halt
`

func TestAssembleDemoProgram(t *testing.T) {
	words, err := Assemble(strings.NewReader(demoProgram))
	require.NoError(t, err)
	require.Equal(t, []uint32{
		mips.EncodeI(mips.OpAddi, 0, 8, 0),
		mips.EncodeI(mips.OpAddi, 8, 8, 42),
		mips.EncodeI(mips.OpSw, 0, 8, 0x100),
		mips.EncodeI(mips.OpLw, 0, 9, 0x100),
		mips.EncodeI(mips.OpBeq, 8, 9, 1),
		mips.EncodeI(mips.OpAddi, 8, 8, 1),
		mips.EncodeJ(mips.OpJ, 32>>2),
		mips.EncodeR(8, 9, 10, mips.FunctAdd),
		mips.HaltWord,
	}, words)
}

func TestAssembledProgramRuns(t *testing.T) {
	words, err := Assemble(strings.NewReader(demoProgram))
	require.NoError(t, err)

	s := single.NewState(4096, 0)
	require.NoError(t, s.LoadProgram(words, 0))
	_, err = single.Run(s, 100)
	require.NoError(t, err)
	require.True(t, s.Halted)
	require.Equal(t, uint32(42), s.Registers.Read(8))
	require.Equal(t, uint32(42), s.Registers.Read(9))
}

func TestAssembleBackwardBranch(t *testing.T) {
	words, err := Assemble(strings.NewReader(`
loop:
        addi $t2, $t2, 1
        beq  $zero, $zero, loop
`))
	require.NoError(t, err)
	require.Len(t, words, 2)
	// offset from the instruction after the branch back to loop: -2 words
	require.Equal(t, mips.EncodeI(mips.OpBeq, 0, 0, -2), words[1])
}

func TestAssembleRegisters(t *testing.T) {
	t.Run("numeric aliases", func(t *testing.T) {
		words, err := Assemble(strings.NewReader("add $r10, $r8, $r9\n"))
		require.NoError(t, err)
		require.Equal(t, []uint32{mips.EncodeR(8, 9, 10, mips.FunctAdd)}, words)
	})

	t.Run("negative and hex immediates", func(t *testing.T) {
		words, err := Assemble(strings.NewReader("addi $t0, $zero, -1\naddi $t0, $zero, 0x2A\n"))
		require.NoError(t, err)
		require.Equal(t, mips.EncodeI(mips.OpAddi, 0, 8, -1), words[0])
		require.Equal(t, mips.EncodeI(mips.OpAddi, 0, 8, 42), words[1])
	})
}

func TestAssembleErrors(t *testing.T) {
	cases := []struct {
		name, src, want string
	}{
		{"unknown mnemonic", "frob $t0, $t1, $t2\n", "unknown mnemonic"},
		{"unknown register", "add $t0, $t1, $bogus\n", "unknown register"},
		{"unknown label", "j nowhere\n", "unknown label"},
		{"bad memory operand", "lw $t0, 4\n", "memory operand"},
		{"duplicate label", "a:\na:\n", "duplicate label"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(strings.NewReader(tc.src))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
