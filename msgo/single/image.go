package single

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseImage reads a program image in the textual format the assembler
// emits: one 32-bit word per line, hex (with or without an 0x prefix) or
// decimal, with '#' comment tails and blank lines ignored.
func ParseImage(r io.Reader) ([]uint32, error) {
	var words []uint32
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w, err := parseWord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func parseWord(s string) (uint32, error) {
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		w, err := strconv.ParseUint(rest, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("bad hex word %q: %w", s, err)
		}
		return uint32(w), nil
	}
	// Bare digits are read as hex first, matching assembler output; decimal
	// is the fallback.
	if w, err := strconv.ParseUint(s, 16, 32); err == nil {
		return uint32(w), nil
	}
	w, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad word %q", s)
	}
	return uint32(w), nil
}
