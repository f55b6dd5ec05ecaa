package single

import (
	"github.com/minimips/minimips/msgo/mips"
)

// OpKind tags the decoded instruction format.
type OpKind uint8

const (
	KindR OpKind = iota
	KindI
	KindJ
	KindHalt
)

// Op is one decoded instruction. Fields that do not apply to the format are
// left zero. Register indices come from 5-bit fields and are always in
// [0,31].
type Op struct {
	Raw      uint32
	Kind     OpKind
	Mnemonic string

	Opcode uint32
	Funct  uint32

	Rs, Rt, Rd uint8

	// Imm is the 16-bit I-type immediate, sign-extended to 32 bits.
	Imm int32
	// Target is the 26-bit J-type target field.
	Target uint32
}

var functMnemonics = map[uint32]string{
	mips.FunctAdd: "add",
	mips.FunctSub: "sub",
	mips.FunctAnd: "and",
	mips.FunctOr:  "or",
	mips.FunctSlt: "slt",
}

var iTypeMnemonics = map[uint32]string{
	mips.OpAddi: "addi",
	mips.OpLw:   "lw",
	mips.OpSw:   "sw",
	mips.OpBeq:  "beq",
}

// Decode breaks a 32-bit instruction word into its fields. It is pure and
// side-effect free. A word outside the closed instruction set yields a
// DecodeError; the halt sentinel is recognized before opcode extraction
// since it is not a structurally valid encoding.
func Decode(word uint32) (Op, error) {
	if word == mips.HaltWord {
		return Op{Raw: word, Kind: KindHalt, Mnemonic: "halt"}, nil
	}
	opcode := word >> 26 & 0x3F
	switch opcode {
	case mips.OpRType:
		funct := word & 0x3F
		mnemonic, ok := functMnemonics[funct]
		if !ok {
			return Op{}, &DecodeError{Word: word}
		}
		return Op{
			Raw:      word,
			Kind:     KindR,
			Mnemonic: mnemonic,
			Opcode:   opcode,
			Funct:    funct,
			Rs:       uint8(word >> 21 & 0x1F),
			Rt:       uint8(word >> 16 & 0x1F),
			Rd:       uint8(word >> 11 & 0x1F),
		}, nil
	case mips.OpAddi, mips.OpLw, mips.OpSw, mips.OpBeq:
		return Op{
			Raw:      word,
			Kind:     KindI,
			Mnemonic: iTypeMnemonics[opcode],
			Opcode:   opcode,
			Rs:       uint8(word >> 21 & 0x1F),
			Rt:       uint8(word >> 16 & 0x1F),
			Imm:      int32(int16(word & 0xFFFF)),
		}, nil
	case mips.OpJ:
		return Op{
			Raw:      word,
			Kind:     KindJ,
			Mnemonic: "j",
			Opcode:   opcode,
			Target:   word & 0x3FFFFFF,
		}, nil
	default:
		return Op{}, &DecodeError{Word: word}
	}
}
