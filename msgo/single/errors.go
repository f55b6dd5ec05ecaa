package single

import (
	"errors"
	"fmt"
)

// Access identifies what kind of memory operation failed.
type Access uint8

const (
	AccessFetch Access = iota
	AccessRead
	AccessWrite
)

func (a Access) String() string {
	switch a {
	case AccessFetch:
		return "fetch"
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	default:
		return "unknown"
	}
}

var (
	// ErrUnaligned marks a word-size access at an address that is not a
	// multiple of four.
	ErrUnaligned = errors.New("unaligned word access")
	// ErrOutOfBounds marks an access outside the configured memory capacity.
	ErrOutOfBounds = errors.New("address out of bounds")
	// ErrHalted is returned by Step once the machine has halted. Stepping a
	// halted machine is a caller bug, not a recoverable condition.
	ErrHalted = errors.New("cpu already halted")
)

// MemError is a fatal memory fault. It carries the offending address and the
// access kind so the caller can report the simulated-program bug verbatim.
type MemError struct {
	Access Access
	Addr   uint32
	Err    error
}

func (e *MemError) Error() string {
	return fmt.Sprintf("%s at 0x%08x: %v", e.Access, e.Addr, e.Err)
}

func (e *MemError) Unwrap() error {
	return e.Err
}

// DecodeError marks an instruction word that matches no known
// opcode/function-code combination. The instruction set is closed, so this
// indicates a malformed program image rather than a runtime condition.
type DecodeError struct {
	Word uint32
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode instruction 0x%08x", e.Word)
}
