// Package z80 implements a Zilog Z80 core: the third secondary emulation
// target (spec §4.3.7). Unlike cpu6809/cpu6800/cpu6502, every instruction
// fetch is an M1 cycle that increments the R refresh register (bit 7
// preserved across the increment, so LD R,A round-trips it intact), and the
// core tracks an internal MEMPTR (WZ) scratch register and a q flag (did the
// previous instruction modify F) purely to reproduce their leakage into the
// undocumented X/Y bits of F on BIT (HL) and SCF/CCF. No block I/O
// instructions are implemented, and the block copy/compare instructions take
// X/Y from their own result, not from MEMPTR.
package z80

// Registers holds the Z80's main register set plus the alternate (shadow)
// set exchanged by EX AF,AF' and EXX, the two index registers, and the
// interrupt/refresh machinery.
type Registers struct {
	A, F       uint8
	B, C       uint8
	D, E       uint8
	H, L       uint8
	A2, F2     uint8
	B2, C2     uint8
	D2, E2     uint8
	H2, L2     uint8
	IX, IY     uint16
	SP, PC     uint16
	I, R       uint8
	IFF1, IFF2 bool
	IM         uint8

	// memptr (WZ) is not architecturally visible but leaks into the
	// undocumented X/Y flags on BIT n,(HL); no other instruction takes flags
	// from it.
	memptr uint16
	// q records whether the just-completed instruction wrote F; SCF/CCF's
	// undocumented X/Y bits come from A ORed with F when q is set, from A
	// alone when it isn't (Sean Young's documented SCF/CCF quirk).
	q bool
}

const (
	flagC uint8 = 1 << iota
	flagN
	flagPV
	flagX  // undocumented, bit 3
	flagH
	flagY  // undocumented, bit 5
	flagZ
	flagS
)

func (r *Registers) bc() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) de() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) hl() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) setBC(v uint16) { r.B, r.C = uint8(v>>8), uint8(v) }
func (r *Registers) setDE(v uint16) { r.D, r.E = uint8(v>>8), uint8(v) }
func (r *Registers) setHL(v uint16) { r.H, r.L = uint8(v>>8), uint8(v) }
