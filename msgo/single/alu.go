package single

// ALU primitives. All arithmetic wraps in two's complement; overflow is not
// trapped.

func add32(a, b uint32) uint32 {
	return a + b
}

func sub32(a, b uint32) uint32 {
	return a - b
}

func and32(a, b uint32) uint32 {
	return a & b
}

func or32(a, b uint32) uint32 {
	return a | b
}

// slt32 is a signed set-less-than: 1 if a < b as int32, else 0.
func slt32(a, b uint32) uint32 {
	if int32(a) < int32(b) {
		return 1
	}
	return 0
}
