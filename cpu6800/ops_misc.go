package cpu6800

import "github.com/user-none/joustcore/bus"

type reg16Kind int

const (
	reg16LD reg16Kind = iota
	reg16ST
	reg16CMP
)

func exec16(c *CPU, b bus.Bus16, master bus.Master, get func() uint16, set func(uint16), mode addrMode, kind reg16Kind, base int) int {
	if kind == reg16ST {
		addr, extra := c.resolveMemAddr(b, master, mode)
		v := get()
		b.Write(master, addr, uint8(v>>8))
		b.Write(master, addr+1, uint8(v))
		c.setFlagsLogical16(v)
		return base + extra
	}

	var operand uint16
	extra := 0
	if mode == modeImmediate16 {
		operand = c.fetchWord(b, master)
	} else {
		var addr uint16
		addr, extra = c.resolveMemAddr(b, master, mode)
		hi := b.Read(master, addr)
		lo := b.Read(master, addr+1)
		operand = uint16(hi)<<8 | uint16(lo)
	}

	switch kind {
	case reg16LD:
		set(operand)
		c.setFlagsLogical16(operand)
	case reg16CMP:
		a := get()
		r := uint32(a) - uint32(operand)
		c.CC &^= flagN | flagZ | flagV
		if uint16(r) == 0 {
			c.CC |= flagZ
		}
		if r&0x8000 != 0 {
			c.CC |= flagN
		}
		if (a^operand)&(uint16(r)^a)&0x8000 != 0 {
			c.CC |= flagV
		}
	}
	return base + extra
}

// setFlagsLogical16 mirrors setFlagsLogical for 16-bit loads/stores (LDX,
// LDS, STX, STS): NZ set from the full word, V cleared, C unchanged.
func (c *CPU) setFlagsLogical16(v uint16) {
	c.CC &^= flagN | flagZ | flagV
	if v == 0 {
		c.CC |= flagZ
	}
	if v&0x8000 != 0 {
		c.CC |= flagN
	}
}

func register16(op uint8, mnemonic string, get func(c *CPU) uint16, set func(c *CPU, v uint16), mode addrMode, kind reg16Kind, base int) {
	register(op, mnemonic, func(c *CPU, b bus.Bus16, master bus.Master) int {
		var s func(uint16)
		if set != nil {
			s = func(v uint16) { set(c, v) }
		}
		return exec16(c, b, master, func() uint16 { return get(c) }, s, mode, kind, base)
	})
}

func getX(c *CPU) uint16     { return c.X }
func setX(c *CPU, v uint16)  { c.X = v }
func getSP(c *CPU) uint16    { return c.SP }
func setSP(c *CPU, v uint16) { c.SP = v }

func init() {
	register16(0x8C, "CPX", getX, nil, modeImmediate16, reg16CMP, 3)
	register16(0x9C, "CPX", getX, nil, modeDirect, reg16CMP, 4)
	register16(0xAC, "CPX", getX, nil, modeIndexed, reg16CMP, 5)
	register16(0xBC, "CPX", getX, nil, modeExtended, reg16CMP, 5)

	register16(0x8E, "LDS", getSP, setSP, modeImmediate16, reg16LD, 3)
	register16(0x9E, "LDS", getSP, setSP, modeDirect, reg16LD, 4)
	register16(0xAE, "LDS", getSP, setSP, modeIndexed, reg16LD, 5)
	register16(0xBE, "LDS", getSP, setSP, modeExtended, reg16LD, 5)
	register16(0x9F, "STS", getSP, nil, modeDirect, reg16ST, 5)
	register16(0xAF, "STS", getSP, nil, modeIndexed, reg16ST, 6)
	register16(0xBF, "STS", getSP, nil, modeExtended, reg16ST, 6)

	register16(0xCE, "LDX", getX, setX, modeImmediate16, reg16LD, 3)
	register16(0xDE, "LDX", getX, setX, modeDirect, reg16LD, 4)
	register16(0xEE, "LDX", getX, setX, modeIndexed, reg16LD, 5)
	register16(0xFE, "LDX", getX, setX, modeExtended, reg16LD, 5)
	register16(0xDF, "STX", getX, nil, modeDirect, reg16ST, 5)
	register16(0xEF, "STX", getX, nil, modeIndexed, reg16ST, 6)
	register16(0xFF, "STX", getX, nil, modeExtended, reg16ST, 6)

	register(0x08, "INX", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.X++
		if c.X == 0 {
			c.CC |= flagZ
		} else {
			c.CC &^= flagZ
		}
		return 4
	})
	register(0x09, "DEX", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.X--
		if c.X == 0 {
			c.CC |= flagZ
		} else {
			c.CC &^= flagZ
		}
		return 4
	})
	register(0x30, "TSX", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.X = c.SP + 1
		return 4
	})
	register(0x35, "TXS", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.SP = c.X - 1
		return 4
	})
	register(0x31, "INS", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.SP++
		return 4
	})
	register(0x34, "DES", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.SP--
		return 4
	})

	register(0x36, "PSHA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.pushByte(b, master, c.A)
		return 4
	})
	register(0x37, "PSHB", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.pushByte(b, master, c.B)
		return 4
	})
	register(0x32, "PULA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.A = c.pullByte(b, master)
		return 4
	})
	register(0x33, "PULB", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.B = c.pullByte(b, master)
		return 4
	})

	register(0x9D, "JSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeDirect)
		c.pushWord(b, master, c.PC)
		c.PC = addr
		return 5 + extra
	})
	register(0xAD, "JSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeIndexed)
		c.pushWord(b, master, c.PC)
		c.PC = addr
		return 6 + extra
	})
	register(0xBD, "JSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeExtended)
		c.pushWord(b, master, c.PC)
		c.PC = addr
		return 6 + extra
	})
	register(0x39, "RTS", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.PC = c.pullWord(b, master)
		return 4
	})
	register(0x3B, "RTI", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.CC = c.pullByte(b, master)
		c.B = c.pullByte(b, master)
		c.A = c.pullByte(b, master)
		c.X = c.pullWord(b, master)
		c.PC = c.pullWord(b, master)
		return 10
	})
	register(0x3E, "WAI", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.pushWord(b, master, c.PC)
		c.pushWord(b, master, c.X)
		c.pushByte(b, master, c.A)
		c.pushByte(b, master, c.B)
		c.pushByte(b, master, c.CC)
		c.waiting = true
		c.state = State{Kind: StateWaitForInterrupt}
		return 9
	})
	register(0x3F, "SWI", func(c *CPU, b bus.Bus16, master bus.Master) int {
		return c.enterInterrupt(b, master, 0xFFFA, false)
	})
	register(0x01, "NOP", func(c *CPU, b bus.Bus16, master bus.Master) int {
		return 2
	})

	register(0x10, "SBA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		r := uint32(c.A) - uint32(c.B)
		c.setFlagsArithmetic(uint32(c.A), uint32(c.B), r, false)
		c.A = uint8(r)
		return 2
	})
	register(0x11, "CBA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		r := uint32(c.A) - uint32(c.B)
		c.setFlagsArithmetic(uint32(c.A), uint32(c.B), r, false)
		return 2
	})
	register(0x1B, "ABA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		r := uint32(c.A) + uint32(c.B)
		c.setFlagsArithmetic(uint32(c.A), uint32(c.B), r, true)
		c.A = uint8(r)
		return 2
	})

	register(0x06, "TAP", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.CC = c.A | ccUnusedBits
		return 2
	})
	register(0x07, "TPA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.A = c.CC
		return 2
	})

	register(0x0A, "CLV", func(c *CPU, b bus.Bus16, master bus.Master) int { c.CC &^= flagV; return 2 })
	register(0x0B, "SEV", func(c *CPU, b bus.Bus16, master bus.Master) int { c.CC |= flagV; return 2 })
	register(0x0C, "CLC", func(c *CPU, b bus.Bus16, master bus.Master) int { c.CC &^= flagC; return 2 })
	register(0x0D, "SEC", func(c *CPU, b bus.Bus16, master bus.Master) int { c.CC |= flagC; return 2 })
	register(0x0E, "CLI", func(c *CPU, b bus.Bus16, master bus.Master) int { c.CC &^= flagI; return 2 })
	register(0x0F, "SEI", func(c *CPU, b bus.Bus16, master bus.Master) int { c.CC |= flagI; return 2 })

	register(0x19, "DAA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		a := c.A
		lsn := a & 0x0F
		msn := a >> 4
		carry := c.CC&flagC != 0
		halfCarry := c.CC&flagH != 0

		var correction uint8
		newCarry := carry
		if halfCarry || lsn > 9 {
			correction += 0x06
		}
		if carry || msn > 9 || (msn >= 9 && lsn > 9) {
			correction += 0x60
			newCarry = true
		}
		r := a + correction
		c.setFlagsLogical(r)
		if newCarry {
			c.CC |= flagC
		}
		c.A = r
		return 2
	})
}
