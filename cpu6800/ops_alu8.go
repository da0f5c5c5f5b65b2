package cpu6800

import "github.com/user-none/joustcore/bus"

type aluKind int

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

func execALU8(c *CPU, b bus.Bus16, master bus.Master, reg *uint8, mode addrMode, kind aluKind, base int) int {
	if kind == aluST {
		addr, extra := c.resolveMemAddr(b, master, mode)
		b.Write(master, addr, *reg)
		c.setFlagsLogical(*reg)
		return base + extra
	}

	var operand uint8
	extra := 0
	if mode == modeImmediate8 {
		operand = c.fetchByte(b, master)
	} else {
		var addr uint16
		addr, extra = c.resolveMemAddr(b, master, mode)
		operand = b.Read(master, addr)
	}

	a := *reg
	switch kind {
	case aluLD:
		*reg = operand
		c.setFlagsLogical(operand)
	case aluADD:
		r := uint32(a) + uint32(operand)
		c.setFlagsArithmetic(uint32(a), uint32(operand), r, true)
		*reg = uint8(r)
	case aluADC:
		carry := uint32(0)
		if c.CC&flagC != 0 {
			carry = 1
		}
		r := uint32(a) + uint32(operand) + carry
		c.setFlagsArithmetic(uint32(a), uint32(operand)+carry, r, true)
		*reg = uint8(r)
	case aluSUB:
		r := uint32(a) - uint32(operand)
		c.setFlagsArithmetic(uint32(a), uint32(operand), r, false)
		*reg = uint8(r)
	case aluSBC:
		borrow := uint32(0)
		if c.CC&flagC != 0 {
			borrow = 1
		}
		r := uint32(a) - uint32(operand) - borrow
		c.setFlagsArithmetic(uint32(a), uint32(operand)+borrow, r, false)
		*reg = uint8(r)
	case aluCMP:
		r := uint32(a) - uint32(operand)
		c.setFlagsArithmetic(uint32(a), uint32(operand), r, false)
	case aluAND:
		*reg = a & operand
		c.setFlagsLogical(*reg)
	case aluOR:
		*reg = a | operand
		c.setFlagsLogical(*reg)
	case aluEOR:
		*reg = a ^ operand
		c.setFlagsLogical(*reg)
	case aluBIT:
		c.setFlagsLogical(a & operand)
	}
	return base + extra
}

func regA(c *CPU) *uint8 { return &c.A }
func regB(c *CPU) *uint8 { return &c.B }

func registerALU8(op uint8, mnemonic string, reg func(c *CPU) *uint8, mode addrMode, kind aluKind, base int) {
	register(op, mnemonic, func(c *CPU, b bus.Bus16, master bus.Master) int {
		return execALU8(c, b, master, reg(c), mode, kind, base)
	})
}

func init() {
	type row struct {
		op       uint8
		mnemonic string
		mode     addrMode
		kind     aluKind
		base     int
	}

	for _, side := range []struct {
		reg    func(c *CPU) *uint8
		suffix string
		imm    uint8
		dir    uint8
		idx    uint8
		ext    uint8
	}{
		{regA, "A", 0x80, 0x90, 0xA0, 0xB0},
		{regB, "B", 0xC0, 0xD0, 0xE0, 0xF0},
	} {
		rows := []row{
			{side.imm + 0x00, "SUB" + side.suffix, modeImmediate8, aluSUB, 2},
			{side.imm + 0x01, "CMP" + side.suffix, modeImmediate8, aluCMP, 2},
			{side.imm + 0x02, "SBC" + side.suffix, modeImmediate8, aluSBC, 2},
			{side.imm + 0x04, "AND" + side.suffix, modeImmediate8, aluAND, 2},
			{side.imm + 0x05, "BIT" + side.suffix, modeImmediate8, aluBIT, 2},
			{side.imm + 0x06, "LD" + side.suffix, modeImmediate8, aluLD, 2},
			{side.imm + 0x08, "EOR" + side.suffix, modeImmediate8, aluEOR, 2},
			{side.imm + 0x09, "ADC" + side.suffix, modeImmediate8, aluADC, 2},
			{side.imm + 0x0A, "OR" + side.suffix, modeImmediate8, aluOR, 2},
			{side.imm + 0x0B, "ADD" + side.suffix, modeImmediate8, aluADD, 2},

			{side.dir + 0x00, "SUB" + side.suffix, modeDirect, aluSUB, 3},
			{side.dir + 0x01, "CMP" + side.suffix, modeDirect, aluCMP, 3},
			{side.dir + 0x02, "SBC" + side.suffix, modeDirect, aluSBC, 3},
			{side.dir + 0x04, "AND" + side.suffix, modeDirect, aluAND, 3},
			{side.dir + 0x05, "BIT" + side.suffix, modeDirect, aluBIT, 3},
			{side.dir + 0x06, "LD" + side.suffix, modeDirect, aluLD, 3},
			{side.dir + 0x07, "ST" + side.suffix, modeDirect, aluST, 4},
			{side.dir + 0x08, "EOR" + side.suffix, modeDirect, aluEOR, 3},
			{side.dir + 0x09, "ADC" + side.suffix, modeDirect, aluADC, 3},
			{side.dir + 0x0A, "OR" + side.suffix, modeDirect, aluOR, 3},
			{side.dir + 0x0B, "ADD" + side.suffix, modeDirect, aluADD, 3},

			{side.idx + 0x00, "SUB" + side.suffix, modeIndexed, aluSUB, 4},
			{side.idx + 0x01, "CMP" + side.suffix, modeIndexed, aluCMP, 4},
			{side.idx + 0x02, "SBC" + side.suffix, modeIndexed, aluSBC, 4},
			{side.idx + 0x04, "AND" + side.suffix, modeIndexed, aluAND, 4},
			{side.idx + 0x05, "BIT" + side.suffix, modeIndexed, aluBIT, 4},
			{side.idx + 0x06, "LD" + side.suffix, modeIndexed, aluLD, 4},
			{side.idx + 0x07, "ST" + side.suffix, modeIndexed, aluST, 5},
			{side.idx + 0x08, "EOR" + side.suffix, modeIndexed, aluEOR, 4},
			{side.idx + 0x09, "ADC" + side.suffix, modeIndexed, aluADC, 4},
			{side.idx + 0x0A, "OR" + side.suffix, modeIndexed, aluOR, 4},
			{side.idx + 0x0B, "ADD" + side.suffix, modeIndexed, aluADD, 4},

			{side.ext + 0x00, "SUB" + side.suffix, modeExtended, aluSUB, 4},
			{side.ext + 0x01, "CMP" + side.suffix, modeExtended, aluCMP, 4},
			{side.ext + 0x02, "SBC" + side.suffix, modeExtended, aluSBC, 4},
			{side.ext + 0x04, "AND" + side.suffix, modeExtended, aluAND, 4},
			{side.ext + 0x05, "BIT" + side.suffix, modeExtended, aluBIT, 4},
			{side.ext + 0x06, "LD" + side.suffix, modeExtended, aluLD, 4},
			{side.ext + 0x07, "ST" + side.suffix, modeExtended, aluST, 5},
			{side.ext + 0x08, "EOR" + side.suffix, modeExtended, aluEOR, 4},
			{side.ext + 0x09, "ADC" + side.suffix, modeExtended, aluADC, 4},
			{side.ext + 0x0A, "OR" + side.suffix, modeExtended, aluOR, 4},
			{side.ext + 0x0B, "ADD" + side.suffix, modeExtended, aluADD, 4},
		}
		for _, r := range rows {
			registerALU8(r.op, r.mnemonic, side.reg, r.mode, r.kind, r.base)
		}
	}
}
