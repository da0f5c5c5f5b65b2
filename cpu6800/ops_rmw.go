package cpu6800

import "github.com/user-none/joustcore/bus"

type rmwKind int

const (
	rmwNEG rmwKind = iota
	rmwCOM
	rmwLSR
	rmwROR
	rmwASR
	rmwASL
	rmwROL
	rmwDEC
	rmwINC
	rmwTST
	rmwCLR
)

func applyRMW8(c *CPU, kind rmwKind, in uint8) uint8 {
	switch kind {
	case rmwNEG:
		r := -int8(in)
		c.setFlagsArithmetic(0, uint32(in), uint32(uint8(r)), false)
		return uint8(r)
	case rmwCOM:
		r := ^in
		c.setFlagsLogical(r)
		c.CC |= flagC
		return r
	case rmwLSR:
		carryOut := in&0x01 != 0
		r := in >> 1
		c.setFlagsShiftRight(r, carryOut)
		return r
	case rmwROR:
		carryIn := uint8(0)
		if c.CC&flagC != 0 {
			carryIn = 0x80
		}
		carryOut := in&0x01 != 0
		r := (in >> 1) | carryIn
		c.setFlagsShiftRight(r, carryOut)
		return r
	case rmwASR:
		carryOut := in&0x01 != 0
		r := (in >> 1) | (in & 0x80)
		c.setFlagsShiftRight(r, carryOut)
		return r
	case rmwASL:
		carryOut := in&0x80 != 0
		r := in << 1
		c.setFlagsShiftLeft(r, carryOut)
		return r
	case rmwROL:
		carryIn := uint8(0)
		if c.CC&flagC != 0 {
			carryIn = 0x01
		}
		carryOut := in&0x80 != 0
		r := (in << 1) | carryIn
		c.setFlagsShiftLeft(r, carryOut)
		return r
	case rmwDEC:
		r := in - 1
		c.CC &^= flagN | flagZ | flagV
		if r == 0 {
			c.CC |= flagZ
		}
		if r&0x80 != 0 {
			c.CC |= flagN
		}
		if in == 0x80 {
			c.CC |= flagV
		}
		return r
	case rmwINC:
		r := in + 1
		c.CC &^= flagN | flagZ | flagV
		if r == 0 {
			c.CC |= flagZ
		}
		if r&0x80 != 0 {
			c.CC |= flagN
		}
		if in == 0x7F {
			c.CC |= flagV
		}
		return r
	case rmwTST:
		c.setFlagsLogical(in)
		c.CC &^= flagC
		return in
	case rmwCLR:
		c.setFlagsLogical(0)
		c.CC &^= flagC
		return 0
	}
	return in
}

func execRMWReg(c *CPU, reg *uint8, kind rmwKind) int {
	*reg = applyRMW8(c, kind, *reg)
	return 2
}

func execRMWMem(c *CPU, b bus.Bus16, master bus.Master, mode addrMode, kind rmwKind, base int) int {
	addr, extra := c.resolveMemAddr(b, master, mode)
	v := b.Read(master, addr)
	v = applyRMW8(c, kind, v)
	b.Write(master, addr, v)
	return base + extra
}

func registerRMWReg(op uint8, mnemonic string, reg func(c *CPU) *uint8, kind rmwKind) {
	register(op, mnemonic, func(c *CPU, b bus.Bus16, master bus.Master) int {
		return execRMWReg(c, reg(c), kind)
	})
}

func registerRMWMem(op uint8, mnemonic string, mode addrMode, kind rmwKind, base int) {
	register(op, mnemonic, func(c *CPU, b bus.Bus16, master bus.Master) int {
		return execRMWMem(c, b, master, mode, kind, base)
	})
}

func init() {
	kinds := []struct {
		kind rmwKind
		name string
	}{
		{rmwNEG, "NEG"}, {rmwCOM, "COM"}, {rmwLSR, "LSR"}, {rmwROR, "ROR"},
		{rmwASR, "ASR"}, {rmwASL, "ASL"}, {rmwROL, "ROL"}, {rmwDEC, "DEC"},
		{rmwINC, "INC"}, {rmwTST, "TST"}, {rmwCLR, "CLR"},
	}
	offsets := map[rmwKind]uint8{
		rmwNEG: 0x0, rmwCOM: 0x3, rmwLSR: 0x4, rmwROR: 0x6, rmwASR: 0x7,
		rmwASL: 0x8, rmwROL: 0x9, rmwDEC: 0xA, rmwINC: 0xC, rmwTST: 0xD, rmwCLR: 0xF,
	}

	for _, k := range kinds {
		off := offsets[k.kind]
		registerRMWReg(0x40+off, k.name+"A", regA, k.kind)
		registerRMWReg(0x50+off, k.name+"B", regB, k.kind)
		registerRMWMem(0x60+off, k.name, modeIndexed, k.kind, 6)
		registerRMWMem(0x70+off, k.name, modeExtended, k.kind, 6)
	}

	register(0x6E, "JMP", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeIndexed)
		c.PC = addr
		return 4 + extra
	})
	register(0x7E, "JMP", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeExtended)
		c.PC = addr
		return 3 + extra
	})
}
