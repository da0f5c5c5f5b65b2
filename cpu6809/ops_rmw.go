package cpu6809

import "github.com/user-none/joustcore/bus"

// rmwKind names the read-modify-write family: NEG, COM, LSR, ROR, ASR, ASL
// (=LSL), ROL, DEC, INC, TST, CLR. JMP is handled separately below since it
// has no "modify" step.
type rmwKind uint8

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
		r := uint32(0) - uint32(in)
		c.setFlagsArithmetic(0, uint32(in), r, Byte, false)
		return uint8(r)
	case rmwCOM:
		r := ^in
		c.setFlagsLogical(uint32(r), Byte)
		c.CC |= flagC
		return r
	case rmwLSR:
		carry := in&0x01 != 0
		r := in >> 1
		c.setFlagsShiftRight(uint32(r), carry, Byte)
		c.CC &^= flagN // LSR always clears N: bit 7 in is shifted to 0
		return r
	case rmwROR:
		carryIn := uint8(0)
		if c.CC&flagC != 0 {
			carryIn = 0x80
		}
		carryOut := in&0x01 != 0
		r := (in >> 1) | carryIn
		c.setFlagsShiftRight(uint32(r), carryOut, Byte)
		return r
	case rmwASR:
		carry := in&0x01 != 0
		r := (in >> 1) | (in & 0x80)
		c.setFlagsShiftRight(uint32(r), carry, Byte)
		return r
	case rmwASL:
		carry := in&0x80 != 0
		r := in << 1
		c.setFlagsShiftLeft(uint32(r), carry, Byte)
		return r
	case rmwROL:
		carryIn := uint8(0)
		if c.CC&flagC != 0 {
			carryIn = 0x01
		}
		carryOut := in&0x80 != 0
		r := (in << 1) | carryIn
		c.setFlagsShiftLeft(uint32(r), carryOut, Byte)
		return r
	case rmwDEC:
		r := in - 1
		c.setFlagsLogical(uint32(r), Byte)
		if in == 0x80 {
			c.CC |= flagV
		} else {
			c.CC &^= flagV
		}
		return r
	case rmwINC:
		r := in + 1
		c.setFlagsLogical(uint32(r), Byte)
		if in == 0x7F {
			c.CC |= flagV
		} else {
			c.CC &^= flagV
		}
		return r
	case rmwTST:
		c.setFlagsLogical(uint32(in), Byte)
		return in
	case rmwCLR:
		c.CC &^= (flagN | flagV | flagC)
		c.CC |= flagZ
		return 0
	}
	return in
}

func execRMWMem(c *CPU, b bus.Bus16, master bus.Master, mode addrMode, kind rmwKind, base int) int {
	addr, extra := c.resolveMemAddr(b, master, mode)
	var in uint8
	if kind != rmwCLR {
		in = b.Read(master, addr)
	}
	out := applyRMW8(c, kind, in)
	if kind != rmwTST {
		b.Write(master, addr, out)
	}
	return base + extra
}

func execRMWReg(c *CPU, reg *uint8, kind rmwKind) int {
	*reg = applyRMW8(c, kind, *reg)
	return 2
}

func registerRMWMem(op uint8, mnemonic string, mode addrMode, kind rmwKind, base int) {
	register1(op, mnemonic, func(c *CPU, b bus.Bus16, master bus.Master) int {
		return execRMWMem(c, b, master, mode, kind, base)
	})
}

func registerRMWReg(op uint8, mnemonic string, reg func(c *CPU) *uint8, kind rmwKind) {
	register1(op, mnemonic, func(c *CPU, b bus.Bus16, master bus.Master) int {
		return execRMWReg(c, reg(c), kind)
	})
}

func init() {
	type memRow struct {
		dirOp, idxOp, extOp uint8
		mn                  string
		kind                rmwKind
	}
	memRows := []memRow{
		{0x00, 0x60, 0x70, "NEG", rmwNEG},
		{0x03, 0x63, 0x73, "COM", rmwCOM},
		{0x04, 0x64, 0x74, "LSR", rmwLSR},
		{0x06, 0x66, 0x76, "ROR", rmwROR},
		{0x07, 0x67, 0x77, "ASR", rmwASR},
		{0x08, 0x68, 0x78, "ASL", rmwASL},
		{0x09, 0x69, 0x79, "ROL", rmwROL},
		{0x0A, 0x6A, 0x7A, "DEC", rmwDEC},
		{0x0C, 0x6C, 0x7C, "INC", rmwINC},
		{0x0D, 0x6D, 0x7D, "TST", rmwTST},
		{0x0F, 0x6F, 0x7F, "CLR", rmwCLR},
	}
	for _, r := range memRows {
		registerRMWMem(r.dirOp, r.mn, modeDirect, r.kind, 6)
		registerRMWMem(r.idxOp, r.mn, modeIndexed, r.kind, 6)
		registerRMWMem(r.extOp, r.mn, modeExtended, r.kind, 7)
	}

	type regRow struct {
		aOp, bOp uint8
		mn       string
		kind     rmwKind
	}
	regRows := []regRow{
		{0x40, 0x50, "NEG", rmwNEG},
		{0x43, 0x53, "COM", rmwCOM},
		{0x44, 0x54, "LSR", rmwLSR},
		{0x46, 0x56, "ROR", rmwROR},
		{0x47, 0x57, "ASR", rmwASR},
		{0x48, 0x58, "ASL", rmwASL},
		{0x49, 0x59, "ROL", rmwROL},
		{0x4A, 0x5A, "DEC", rmwDEC},
		{0x4C, 0x5C, "INC", rmwINC},
		{0x4D, 0x5D, "TST", rmwTST},
		{0x4F, 0x5F, "CLR", rmwCLR},
	}
	for _, r := range regRows {
		registerRMWReg(r.aOp, r.mn+"A", regA, r.kind)
		registerRMWReg(r.bOp, r.mn+"B", regB, r.kind)
	}

	register1(0x0E, "JMP", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeDirect)
		c.PC = addr
		return 3 + extra
	})
	register1(0x6E, "JMP", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeIndexed)
		c.PC = addr
		return 3 + extra
	})
	register1(0x7E, "JMP", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeExtended)
		c.PC = addr
		return 4 + extra
	})
}
