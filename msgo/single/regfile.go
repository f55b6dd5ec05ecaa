package single

// RegisterFile holds the 32 general-purpose registers. Register 0 is
// hard-wired to zero: it always reads as 0 and writes to it are dropped,
// matching the hardware rather than treating them as errors.
type RegisterFile [32]uint32

func (r *RegisterFile) Read(idx uint8) uint32 {
	if idx == 0 {
		return 0
	}
	return r[idx]
}

func (r *RegisterFile) Write(idx uint8, v uint32) {
	if idx == 0 {
		return
	}
	r[idx] = v
}
