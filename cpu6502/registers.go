// Package cpu6502 implements a MOS 6502 core. Unlike cpu6809, every cycle
// here is a real bus transaction — including the dummy reads real 6502
// silicon performs on two-cycle implied instructions, on indexed zero-page
// before the index is applied, on the un-indexed page before an absolute,X/Y
// page-cross, and on the stack slot before a pull increments S. That
// per-cycle bus trace is what distinguishes this family from the 6809
// (spec §4.3.7/§8: the 6502 and Z80 single-step vectors assert the full
// cycle trace, the 6809's do not).
package cpu6502

// Registers holds the 6502's programmer-visible state.
type Registers struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8
}

const (
	flagC uint8 = 1 << iota
	flagZ
	flagI
	flagD
	flagB
	flagUnused // always reads back as 1
	flagV
	flagN
)
