// Package asm is a two-pass assembler for the simulator's MIPS-like subset.
// It exists for authoring test programs and images; machine-code images
// produced elsewhere can be fed to the simulator directly.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minimips/minimips/msgo/mips"
)

type line struct {
	num  int
	text string
}

// Assemble translates assembly source into machine words. Labels stand on
// their own line ending in ':' and may be referenced by beq and j before or
// after their definition. '#' starts a comment.
func Assemble(r io.Reader) ([]uint32, error) {
	var cleaned []line
	labels := make(map[string]uint32)

	// First pass: strip comments, record label addresses.
	scanner := bufio.NewScanner(r)
	num := 0
	pc := uint32(0)
	for scanner.Scan() {
		num++
		s := scanner.Text()
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.HasSuffix(s, ":") {
			label := strings.TrimSpace(strings.TrimSuffix(s, ":"))
			if label == "" {
				return nil, fmt.Errorf("line %d: empty label", num)
			}
			if _, ok := labels[label]; ok {
				return nil, fmt.Errorf("line %d: duplicate label %q", num, label)
			}
			labels[label] = pc
			continue
		}
		cleaned = append(cleaned, line{num: num, text: s})
		pc += 4
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Second pass: encode.
	words := make([]uint32, 0, len(cleaned))
	pc = 0
	for _, ln := range cleaned {
		w, err := encodeLine(ln.text, pc, labels)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ln.num, err)
		}
		words = append(words, w)
		pc += 4
	}
	return words, nil
}

func encodeLine(s string, pc uint32, labels map[string]uint32) (uint32, error) {
	mnemonic, rest, _ := strings.Cut(strings.ReplaceAll(s, "\t", " "), " ")
	mnemonic = strings.ToLower(mnemonic)
	ops := splitOperands(rest)

	switch mnemonic {
	case "add", "sub", "and", "or", "slt":
		rd, rs, rt, err := threeRegs(ops)
		if err != nil {
			return 0, err
		}
		funct := map[string]uint32{
			"add": mips.FunctAdd, "sub": mips.FunctSub, "and": mips.FunctAnd,
			"or": mips.FunctOr, "slt": mips.FunctSlt,
		}[mnemonic]
		return mips.EncodeR(rs, rt, rd, funct), nil

	case "addi":
		if len(ops) != 3 {
			return 0, fmt.Errorf("addi wants rt, rs, imm")
		}
		rt, err := parseReg(ops[0])
		if err != nil {
			return 0, err
		}
		rs, err := parseReg(ops[1])
		if err != nil {
			return 0, err
		}
		imm, err := parseImm(ops[2])
		if err != nil {
			return 0, err
		}
		return mips.EncodeI(mips.OpAddi, rs, rt, imm), nil

	case "lw", "sw":
		if len(ops) != 2 {
			return 0, fmt.Errorf("%s wants rt, imm(rs)", mnemonic)
		}
		rt, err := parseReg(ops[0])
		if err != nil {
			return 0, err
		}
		imm, rs, err := parseOffsetAddr(ops[1])
		if err != nil {
			return 0, err
		}
		op := mips.OpLw
		if mnemonic == "sw" {
			op = mips.OpSw
		}
		return mips.EncodeI(op, rs, rt, imm), nil

	case "beq":
		if len(ops) != 3 {
			return 0, fmt.Errorf("beq wants rs, rt, label")
		}
		rs, err := parseReg(ops[0])
		if err != nil {
			return 0, err
		}
		rt, err := parseReg(ops[1])
		if err != nil {
			return 0, err
		}
		target, ok := labels[ops[2]]
		if !ok {
			return 0, fmt.Errorf("unknown label %q", ops[2])
		}
		// word offset relative to the instruction after the branch
		imm := (int32(target) - int32(pc+4)) / 4
		return mips.EncodeI(mips.OpBeq, rs, rt, imm), nil

	case "j":
		if len(ops) != 1 {
			return 0, fmt.Errorf("j wants a label")
		}
		target, ok := labels[ops[0]]
		if !ok {
			return 0, fmt.Errorf("unknown label %q", ops[0])
		}
		return mips.EncodeJ(mips.OpJ, target>>2), nil

	case "halt":
		return mips.HaltWord, nil

	default:
		return 0, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
}

func splitOperands(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func threeRegs(ops []string) (rd, rs, rt uint8, err error) {
	if len(ops) != 3 {
		return 0, 0, 0, fmt.Errorf("want rd, rs, rt")
	}
	if rd, err = parseReg(ops[0]); err != nil {
		return
	}
	if rs, err = parseReg(ops[1]); err != nil {
		return
	}
	rt, err = parseReg(ops[2])
	return
}

func parseReg(tok string) (uint8, error) {
	idx, ok := mips.RegIndex(tok)
	if !ok {
		return 0, fmt.Errorf("unknown register %q", tok)
	}
	return idx, nil
}

func parseImm(tok string) (int32, error) {
	base := 10
	neg := false
	if rest, ok := strings.CutPrefix(tok, "-"); ok {
		neg = true
		tok = rest
	}
	if rest, ok := strings.CutPrefix(strings.ToLower(tok), "0x"); ok {
		base = 16
		tok = rest
	}
	v, err := strconv.ParseInt(tok, base, 32)
	if err != nil {
		return 0, fmt.Errorf("bad immediate %q", tok)
	}
	if neg {
		v = -v
	}
	return int32(v), nil
}

// parseOffsetAddr parses an imm(rs) memory operand.
func parseOffsetAddr(tok string) (int32, uint8, error) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return 0, 0, fmt.Errorf("bad memory operand %q (want imm(rs))", tok)
	}
	imm, err := parseImm(strings.TrimSpace(tok[:open]))
	if err != nil {
		return 0, 0, err
	}
	rs, err := parseReg(strings.TrimSpace(tok[open+1 : len(tok)-1]))
	if err != nil {
		return 0, 0, err
	}
	return imm, rs, nil
}
