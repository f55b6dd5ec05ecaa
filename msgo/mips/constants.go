package mips

import "strconv"

// Encodings for the MIPS-like subset understood by the simulator.
//
// R-type: [opcode:6 = 0][rs:5][rt:5][rd:5][shamt:5 = 0][funct:6]
// I-type: [opcode:6][rs:5][rt:5][imm:16]
// J-type: [opcode:6][target:26]
const (
	OpRType uint32 = 0x00
	OpJ     uint32 = 0x02
	OpBeq   uint32 = 0x04
	OpAddi  uint32 = 0x08
	OpLw    uint32 = 0x23
	OpSw    uint32 = 0x2B

	FunctAdd uint32 = 0x20
	FunctSub uint32 = 0x22
	FunctAnd uint32 = 0x24
	FunctOr  uint32 = 0x25
	FunctSlt uint32 = 0x2A
)

// HaltWord stops the simulation. It is not a valid encoding of any listed
// opcode, so the decoder checks for it before extracting fields.
const HaltWord uint32 = 0xFFFFFFFF

// RegNames maps register indices to the conventional MIPS assembly names.
var RegNames = [32]string{
	"$zero", "$at", "$v0", "$v1",
	"$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1",
	"$gp", "$sp", "$fp", "$ra",
}

var regAlias = func() map[string]uint8 {
	m := make(map[string]uint8, 64)
	for i, name := range RegNames {
		m[name] = uint8(i)
	}
	for i := 0; i < 32; i++ {
		m["$r"+strconv.Itoa(i)] = uint8(i)
	}
	return m
}()

// RegIndex resolves a register alias (conventional name or $rN form) to its
// index.
func RegIndex(name string) (uint8, bool) {
	idx, ok := regAlias[name]
	return idx, ok
}

// EncodeR builds an R-type instruction word. shamt is always zero in this
// subset.
func EncodeR(rs, rt, rd uint8, funct uint32) uint32 {
	return OpRType<<26 | uint32(rs&0x1F)<<21 | uint32(rt&0x1F)<<16 | uint32(rd&0x1F)<<11 | funct&0x3F
}

// EncodeI builds an I-type instruction word. The immediate is truncated to
// its low 16 bits, so negative offsets encode as two's complement.
func EncodeI(op uint32, rs, rt uint8, imm int32) uint32 {
	return op<<26 | uint32(rs&0x1F)<<21 | uint32(rt&0x1F)<<16 | uint32(imm)&0xFFFF
}

// EncodeJ builds a J-type instruction word from a 26-bit target field.
func EncodeJ(op uint32, target uint32) uint32 {
	return op<<26 | target&0x3FFFFFF
}
