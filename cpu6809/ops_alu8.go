package cpu6809

import "github.com/user-none/joustcore/bus"

// aluKind names the effect family shared by the 8-bit accumulator opcodes
// (LDA/LDB, STA/STB, ADDA/ADDB, ...). Each is parametrized over which
// accumulator and addressing mode it uses, rather than hand-writing one
// function per opcode byte — the 6809 opcode map repeats the same eleven
// operations across four addressing modes and two accumulators.
type aluKind uint8

const (
	aluLD aluKind = iota
	aluST
	aluADD
	aluADC
	aluSUB
	aluSBC
	aluCMP
	aluAND
	aluOR
	aluEOR
	aluBIT
)

// execALU8 implements one accumulator opcode: it resolves the operand per
// mode, applies kind's effect to *reg, sets flags via the canonical helpers
// (spec §4.3.3), and returns the instruction's total cycle count.
func execALU8(c *CPU, b bus.Bus16, master bus.Master, reg *uint8, mode addrMode, kind aluKind, base int) int {
	if kind == aluST {
		addr, extra := c.resolveMemAddr(b, master, mode)
		b.Write(master, addr, *reg)
		c.setFlagsLogical(uint32(*reg), Byte)
		return base + extra
	}

	var val uint8
	extra := 0
	if mode == modeImmediate8 {
		val = c.fetchByte(b, master)
	} else {
		addr, e := c.resolveMemAddr(b, master, mode)
		extra = e
		val = b.Read(master, addr)
	}

	a := uint32(*reg)
	v := uint32(val)

	switch kind {
	case aluLD:
		*reg = val
		c.setFlagsLogical(uint32(val), Byte)
	case aluADD:
		r := a + v
		*reg = uint8(r)
		c.setFlagsArithmetic(a, v, r, Byte, true)
	case aluADC:
		carry := uint32(0)
		if c.CC&flagC != 0 {
			carry = 1
		}
		r := a + v + carry
		*reg = uint8(r)
		c.setFlagsArithmetic(a, v+carry, r, Byte, true)
	case aluSUB:
		r := a - v
		*reg = uint8(r)
		c.setFlagsArithmetic(a, v, r, Byte, false)
	case aluSBC:
		carry := uint32(0)
		if c.CC&flagC != 0 {
			carry = 1
		}
		r := a - v - carry
		*reg = uint8(r)
		c.setFlagsArithmetic(a, v+carry, r, Byte, false)
	case aluCMP:
		r := a - v
		c.setFlagsArithmetic(a, v, r, Byte, false)
	case aluAND:
		r := uint8(a) & uint8(v)
		*reg = r
		c.setFlagsLogical(uint32(r), Byte)
	case aluOR:
		r := uint8(a) | uint8(v)
		*reg = r
		c.setFlagsLogical(uint32(r), Byte)
	case aluEOR:
		r := uint8(a) ^ uint8(v)
		*reg = r
		c.setFlagsLogical(uint32(r), Byte)
	case aluBIT:
		r := uint8(a) & uint8(v)
		c.setFlagsLogical(uint32(r), Byte)
	}
	return base + extra
}

// aluReg selects A or B based on which accumulator an opcode byte targets;
// the registration calls below close over this so the same execALU8 body
// serves both.
func registerALU8(table *[256]opcodeEntry, op uint8, mnemonic string, reg func(c *CPU) *uint8, mode addrMode, kind aluKind, base int) {
	table[op] = opcodeEntry{mnemonic: mnemonic, exec: func(c *CPU, b bus.Bus16, master bus.Master) int {
		return execALU8(c, b, master, reg(c), mode, kind, base)
	}}
}

func regA(c *CPU) *uint8 { return &c.A }
func regB(c *CPU) *uint8 { return &c.B }

func init() {
	// (opcode-base, mnemonic-base, kind, immediate-base-cycles) for the four
	// modes: immediate/direct/indexed/extended. A's opcode is the page base;
	// B's is base+0x40 (the A/B blocks are laid out identically 0x40 apart,
	// except STA/STB and LDA/LDB which differ only by accumulator).
	aRows := []struct {
		immOp, dirOp, idxOp, extOp uint8
		mn                         string
		kind                       aluKind
	}{
		{0x80, 0x90, 0xA0, 0xB0, "SUBA", aluSUB},
		{0x81, 0x91, 0xA1, 0xB1, "CMPA", aluCMP},
		{0x82, 0x92, 0xA2, 0xB2, "SBCA", aluSBC},
		{0x84, 0x94, 0xA4, 0xB4, "ANDA", aluAND},
		{0x85, 0x95, 0xA5, 0xB5, "BITA", aluBIT},
		{0x86, 0x96, 0xA6, 0xB6, "LDA", aluLD},
		{0x88, 0x98, 0xA8, 0xB8, "EORA", aluEOR},
		{0x89, 0x99, 0xA9, 0xB9, "ADCA", aluADC},
		{0x8A, 0x9A, 0xAA, 0xBA, "ORA", aluOR},
		{0x8B, 0x9B, 0xAB, 0xBB, "ADDA", aluADD},
	}
	for _, r := range aRows {
		registerALU8(&page1Table, r.immOp, r.mn, regA, modeImmediate8, r.kind, 2)
		registerALU8(&page1Table, r.dirOp, r.mn, regA, modeDirect, r.kind, 4)
		registerALU8(&page1Table, r.idxOp, r.mn, regA, modeIndexed, r.kind, 4)
		registerALU8(&page1Table, r.extOp, r.mn, regA, modeExtended, r.kind, 5)
	}
	registerALU8(&page1Table, 0x97, "STA", regA, modeDirect, aluST, 4)
	registerALU8(&page1Table, 0xA7, "STA", regA, modeIndexed, aluST, 4)
	registerALU8(&page1Table, 0xB7, "STA", regA, modeExtended, aluST, 5)

	bRows := []struct {
		immOp, dirOp, idxOp, extOp uint8
		mn                         string
		kind                       aluKind
	}{
		{0xC0, 0xD0, 0xE0, 0xF0, "SUBB", aluSUB},
		{0xC1, 0xD1, 0xE1, 0xF1, "CMPB", aluCMP},
		{0xC2, 0xD2, 0xE2, 0xF2, "SBCB", aluSBC},
		{0xC4, 0xD4, 0xE4, 0xF4, "ANDB", aluAND},
		{0xC5, 0xD5, 0xE5, 0xF5, "BITB", aluBIT},
		{0xC6, 0xD6, 0xE6, 0xF6, "LDB", aluLD},
		{0xC8, 0xD8, 0xE8, 0xF8, "EORB", aluEOR},
		{0xC9, 0xD9, 0xE9, 0xF9, "ADCB", aluADC},
		{0xCA, 0xDA, 0xEA, 0xFA, "ORB", aluOR},
		{0xCB, 0xDB, 0xEB, 0xFB, "ADDB", aluADD},
	}
	for _, r := range bRows {
		registerALU8(&page1Table, r.immOp, r.mn, regB, modeImmediate8, r.kind, 2)
		registerALU8(&page1Table, r.dirOp, r.mn, regB, modeDirect, r.kind, 4)
		registerALU8(&page1Table, r.idxOp, r.mn, regB, modeIndexed, r.kind, 4)
		registerALU8(&page1Table, r.extOp, r.mn, regB, modeExtended, r.kind, 5)
	}
	registerALU8(&page1Table, 0xD7, "STB", regB, modeDirect, aluST, 4)
	registerALU8(&page1Table, 0xE7, "STB", regB, modeIndexed, aluST, 4)
	registerALU8(&page1Table, 0xF7, "STB", regB, modeExtended, aluST, 5)
}
