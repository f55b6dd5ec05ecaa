package single

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minimips/minimips/msgo/mips"
)

func TestDecodeRType(t *testing.T) {
	cases := []struct {
		funct    uint32
		mnemonic string
	}{
		{mips.FunctAdd, "add"},
		{mips.FunctSub, "sub"},
		{mips.FunctAnd, "and"},
		{mips.FunctOr, "or"},
		{mips.FunctSlt, "slt"},
	}
	for _, tc := range cases {
		t.Run(tc.mnemonic, func(t *testing.T) {
			word := mips.EncodeR(9, 10, 8, tc.funct)
			op, err := Decode(word)
			require.NoError(t, err)
			require.Equal(t, KindR, op.Kind)
			require.Equal(t, tc.mnemonic, op.Mnemonic)
			require.Equal(t, uint8(9), op.Rs)
			require.Equal(t, uint8(10), op.Rt)
			require.Equal(t, uint8(8), op.Rd)
			require.Equal(t, tc.funct, op.Funct)
			require.Equal(t, word, op.Raw)
		})
	}
}

func TestDecodeIType(t *testing.T) {
	t.Run("addi sign extension", func(t *testing.T) {
		op, err := Decode(mips.EncodeI(mips.OpAddi, 0, 8, -1))
		require.NoError(t, err)
		require.Equal(t, KindI, op.Kind)
		require.Equal(t, "addi", op.Mnemonic)
		require.Equal(t, int32(-1), op.Imm)
	})

	t.Run("positive immediate stays positive", func(t *testing.T) {
		op, err := Decode(mips.EncodeI(mips.OpLw, 4, 8, 0x7FFF))
		require.NoError(t, err)
		require.Equal(t, "lw", op.Mnemonic)
		require.Equal(t, int32(0x7FFF), op.Imm)
		require.Equal(t, uint8(4), op.Rs)
		require.Equal(t, uint8(8), op.Rt)
	})

	t.Run("sw and beq", func(t *testing.T) {
		op, err := Decode(mips.EncodeI(mips.OpSw, 29, 8, 0x100))
		require.NoError(t, err)
		require.Equal(t, "sw", op.Mnemonic)

		op, err = Decode(mips.EncodeI(mips.OpBeq, 8, 9, -2))
		require.NoError(t, err)
		require.Equal(t, "beq", op.Mnemonic)
		require.Equal(t, int32(-2), op.Imm)
	})
}

func TestDecodeJType(t *testing.T) {
	op, err := Decode(mips.EncodeJ(mips.OpJ, 0x3FFFFFF))
	require.NoError(t, err)
	require.Equal(t, KindJ, op.Kind)
	require.Equal(t, "j", op.Mnemonic)
	require.Equal(t, uint32(0x3FFFFFF), op.Target)
}

func TestDecodeHalt(t *testing.T) {
	op, err := Decode(mips.HaltWord)
	require.NoError(t, err)
	require.Equal(t, KindHalt, op.Kind)
	require.Equal(t, "halt", op.Mnemonic)
}

func TestDecodeUnknown(t *testing.T) {
	var decErr *DecodeError

	// unknown opcode
	_, err := Decode(0x3F << 26)
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, uint32(0x3F)<<26, decErr.Word)

	// opcode 0 with an unknown funct (includes the all-zero word)
	_, err = Decode(0)
	require.ErrorAs(t, err, &decErr)

	_, err = Decode(mips.EncodeR(1, 2, 3, 0x3F))
	require.ErrorAs(t, err, &decErr)
}
