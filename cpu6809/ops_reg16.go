package cpu6809

import "github.com/user-none/joustcore/bus"

// reg16Kind mirrors aluKind for the 16-bit register family: X, Y, U, S, D.
type reg16Kind uint8

const (
	reg16LD reg16Kind = iota
	reg16ST
	reg16CMP
	reg16ADD
	reg16SUB
)

// exec16 is the 16-bit analogue of execALU8; cycle counts here are
// approximate rather than hand-tuned per addressing mode,
// matching the level of timing fidelity the 6809 testable properties
// actually require (total cycle count, not a bus trace — spec §8).
func exec16(c *CPU, b bus.Bus16, master bus.Master, get func() uint16, set func(uint16), mode addrMode, kind reg16Kind, base int) int {
	if kind == reg16ST {
		addr, extra := c.resolveMemAddr(b, master, mode)
		v := get()
		b.Write(master, addr, uint8(v>>8))
		b.Write(master, addr+1, uint8(v))
		c.setFlagsLogical(uint32(v), Word)
		return base + extra
	}

	var val uint16
	extra := 0
	if mode == modeImmediate16 {
		val = c.fetchWord(b, master)
	} else {
		addr, e := c.resolveMemAddr(b, master, mode)
		extra = e
		hi := b.Read(master, addr)
		lo := b.Read(master, addr+1)
		val = uint16(hi)<<8 | uint16(lo)
	}

	a := uint32(get())
	v := uint32(val)
	switch kind {
	case reg16LD:
		set(val)
		c.setFlagsLogical(v, Word)
	case reg16ADD:
		r := a + v
		set(uint16(r))
		c.setFlagsArithmetic(a, v, r, Word, true)
	case reg16SUB:
		r := a - v
		set(uint16(r))
		c.setFlagsArithmetic(a, v, r, Word, false)
	case reg16CMP:
		r := a - v
		c.setFlagsArithmetic(a, v, r, Word, false)
	}
	return base + extra
}

func registerReg16(table *[256]opcodeEntry, op uint8, mnemonic string, get func(c *CPU) uint16, set func(c *CPU, v uint16), mode addrMode, kind reg16Kind, base int) {
	table[op] = opcodeEntry{mnemonic: mnemonic, exec: func(c *CPU, b bus.Bus16, master bus.Master) int {
		return exec16(c, b, master, func() uint16 { return get(c) }, func(v uint16) { set(c, v) }, mode, kind, base)
	}}
}

func init() {
	type row struct {
		table                      *[256]opcodeEntry
		immOp, dirOp, idxOp, extOp uint8
		mn                         string
		get                        func(c *CPU) uint16
		set                        func(c *CPU, v uint16)
		kind                       reg16Kind
	}

	rows := []row{
		{&page1Table, 0x8E, 0x9E, 0xAE, 0xBE, "LDX", func(c *CPU) uint16 { return c.X }, func(c *CPU, v uint16) { c.X = v }, reg16LD},
		{&page1Table, 0xCE, 0xDE, 0xEE, 0xFE, "LDU", func(c *CPU) uint16 { return c.U }, func(c *CPU, v uint16) { c.U = v }, reg16LD},
		{&page1Table, 0xCC, 0xDC, 0xEC, 0xFC, "LDD", func(c *CPU) uint16 { return c.D() }, func(c *CPU, v uint16) { c.SetD(v) }, reg16LD},
		{&page1Table, 0x8C, 0x9C, 0xAC, 0xBC, "CMPX", func(c *CPU) uint16 { return c.X }, nil, reg16CMP},
		{&page1Table, 0xC3, 0xD3, 0xE3, 0xF3, "ADDD", func(c *CPU) uint16 { return c.D() }, func(c *CPU, v uint16) { c.SetD(v) }, reg16ADD},
		{&page1Table, 0x83, 0x93, 0xA3, 0xB3, "SUBD", func(c *CPU) uint16 { return c.D() }, func(c *CPU, v uint16) { c.SetD(v) }, reg16SUB},

		{&page2Table, 0x8E, 0x9E, 0xAE, 0xBE, "LDY", func(c *CPU) uint16 { return c.Y }, func(c *CPU, v uint16) { c.Y = v }, reg16LD},
		{&page2Table, 0xCE, 0xDE, 0xEE, 0xFE, "LDS", func(c *CPU) uint16 { return c.S }, func(c *CPU, v uint16) { c.S = v }, reg16LD},
		{&page2Table, 0x83, 0x93, 0xA3, 0xB3, "CMPD", func(c *CPU) uint16 { return c.D() }, nil, reg16CMP},
		{&page2Table, 0x8C, 0x9C, 0xAC, 0xBC, "CMPY", func(c *CPU) uint16 { return c.Y }, nil, reg16CMP},

		{&page3Table, 0x83, 0x93, 0xA3, 0xB3, "CMPU", func(c *CPU) uint16 { return c.U }, nil, reg16CMP},
		{&page3Table, 0x8C, 0x9C, 0xAC, 0xBC, "CMPS", func(c *CPU) uint16 { return c.S }, nil, reg16CMP},
	}

	for _, r := range rows {
		registerReg16(r.table, r.immOp, r.mn, r.get, r.set, modeImmediate16, r.kind, 3)
		registerReg16(r.table, r.dirOp, r.mn, r.get, r.set, modeDirect, r.kind, 4)
		registerReg16(r.table, r.idxOp, r.mn, r.get, r.set, modeIndexed, r.kind, 4)
		registerReg16(r.table, r.extOp, r.mn, r.get, r.set, modeExtended, r.kind, 5)
	}

	// STX/STU/STD (page1), STY/STS (page2) — no compare/store overlap so
	// these are registered individually rather than folded into rows above.
	registerReg16(&page1Table, 0x9F, "STX", func(c *CPU) uint16 { return c.X }, func(c *CPU, v uint16) { c.X = v }, modeDirect, reg16ST, 4)
	registerReg16(&page1Table, 0xAF, "STX", func(c *CPU) uint16 { return c.X }, func(c *CPU, v uint16) { c.X = v }, modeIndexed, reg16ST, 4)
	registerReg16(&page1Table, 0xBF, "STX", func(c *CPU) uint16 { return c.X }, func(c *CPU, v uint16) { c.X = v }, modeExtended, reg16ST, 5)

	registerReg16(&page1Table, 0xDF, "STU", func(c *CPU) uint16 { return c.U }, func(c *CPU, v uint16) { c.U = v }, modeDirect, reg16ST, 4)
	registerReg16(&page1Table, 0xEF, "STU", func(c *CPU) uint16 { return c.U }, func(c *CPU, v uint16) { c.U = v }, modeIndexed, reg16ST, 4)
	registerReg16(&page1Table, 0xFF, "STU", func(c *CPU) uint16 { return c.U }, func(c *CPU, v uint16) { c.U = v }, modeExtended, reg16ST, 5)

	registerReg16(&page1Table, 0xDD, "STD", func(c *CPU) uint16 { return c.D() }, func(c *CPU, v uint16) { c.SetD(v) }, modeDirect, reg16ST, 4)
	registerReg16(&page1Table, 0xED, "STD", func(c *CPU) uint16 { return c.D() }, func(c *CPU, v uint16) { c.SetD(v) }, modeIndexed, reg16ST, 4)
	registerReg16(&page1Table, 0xFD, "STD", func(c *CPU) uint16 { return c.D() }, func(c *CPU, v uint16) { c.SetD(v) }, modeExtended, reg16ST, 5)

	registerReg16(&page2Table, 0x9F, "STY", func(c *CPU) uint16 { return c.Y }, func(c *CPU, v uint16) { c.Y = v }, modeDirect, reg16ST, 4)
	registerReg16(&page2Table, 0xAF, "STY", func(c *CPU) uint16 { return c.Y }, func(c *CPU, v uint16) { c.Y = v }, modeIndexed, reg16ST, 4)
	registerReg16(&page2Table, 0xBF, "STY", func(c *CPU) uint16 { return c.Y }, func(c *CPU, v uint16) { c.Y = v }, modeExtended, reg16ST, 5)

	registerReg16(&page2Table, 0xDF, "STS", func(c *CPU) uint16 { return c.S }, func(c *CPU, v uint16) { c.S = v }, modeDirect, reg16ST, 4)
	registerReg16(&page2Table, 0xEF, "STS", func(c *CPU) uint16 { return c.S }, func(c *CPU, v uint16) { c.S = v }, modeIndexed, reg16ST, 4)
	registerReg16(&page2Table, 0xFF, "STS", func(c *CPU) uint16 { return c.S }, func(c *CPU, v uint16) { c.S = v }, modeExtended, reg16ST, 5)
}
