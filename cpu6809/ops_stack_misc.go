package cpu6809

import "github.com/user-none/joustcore/bus"

// stackRegs lists the eight PSHS/PULS/PSHU/PULU postbyte bits from MSB to
// LSB: PC, {U or S}, Y, X, DP, B, A, CC. Push order starts at PC (ends up
// deepest on the stack); pull order is the reverse.
func (c *CPU) pushRegList(b bus.Bus16, master bus.Master, sp *uint16, mask uint8, other *uint16) int {
	n := 0
	if mask&0x80 != 0 {
		c.pushWord(b, master, sp, c.PC)
		n += 2
	}
	if mask&0x40 != 0 {
		c.pushWord(b, master, sp, *other)
		n += 2
	}
	if mask&0x20 != 0 {
		c.pushWord(b, master, sp, c.Y)
		n += 2
	}
	if mask&0x10 != 0 {
		c.pushWord(b, master, sp, c.X)
		n += 2
	}
	if mask&0x08 != 0 {
		c.pushByte(b, master, sp, c.DP)
		n++
	}
	if mask&0x04 != 0 {
		c.pushByte(b, master, sp, c.B)
		n++
	}
	if mask&0x02 != 0 {
		c.pushByte(b, master, sp, c.A)
		n++
	}
	if mask&0x01 != 0 {
		c.pushByte(b, master, sp, c.CC)
		n++
	}
	return n
}

func (c *CPU) pullRegList(b bus.Bus16, master bus.Master, sp *uint16, mask uint8, other *uint16) int {
	n := 0
	if mask&0x01 != 0 {
		c.CC = c.pullByte(b, master, sp)
		n++
	}
	if mask&0x02 != 0 {
		c.A = c.pullByte(b, master, sp)
		n++
	}
	if mask&0x04 != 0 {
		c.B = c.pullByte(b, master, sp)
		n++
	}
	if mask&0x08 != 0 {
		c.DP = c.pullByte(b, master, sp)
		n++
	}
	if mask&0x10 != 0 {
		c.X = c.pullWord(b, master, sp)
		n += 2
	}
	if mask&0x20 != 0 {
		c.Y = c.pullWord(b, master, sp)
		n += 2
	}
	if mask&0x40 != 0 {
		*other = c.pullWord(b, master, sp)
		n += 2
	}
	if mask&0x80 != 0 {
		c.PC = c.pullWord(b, master, sp)
		n += 2
	}
	return n
}

// tfrGet/tfrSet implement the EXG/TFR postbyte register codes (spec §9:
// undefined codes 6,7,C,D,E,F are treated as a no-op — EXG and TFR only act
// when both codes pass isTfr16 or both pass isTfr8, so a swap/copy involving
// an undefined code changes nothing observable).
func (c *CPU) tfrGet16(code uint8) uint16 {
	switch code {
	case 0x0:
		return c.D()
	case 0x1:
		return c.X
	case 0x2:
		return c.Y
	case 0x3:
		return c.U
	case 0x4:
		return c.S
	case 0x5:
		return c.PC
	}
	return 0
}

func (c *CPU) tfrSet16(code uint8, v uint16) {
	switch code {
	case 0x0:
		c.SetD(v)
	case 0x1:
		c.X = v
	case 0x2:
		c.Y = v
	case 0x3:
		c.U = v
	case 0x4:
		c.S = v
	case 0x5:
		c.PC = v
	}
}

func (c *CPU) tfrGet8(code uint8) uint8 {
	switch code {
	case 0x8:
		return c.A
	case 0x9:
		return c.B
	case 0xA:
		return c.CC
	case 0xB:
		return c.DP
	}
	return 0
}

func (c *CPU) tfrSet8(code uint8, v uint8) {
	switch code {
	case 0x8:
		c.A = v
	case 0x9:
		c.B = v
	case 0xA:
		c.CC = v
	case 0xB:
		c.DP = v
	}
}

func isTfr16(code uint8) bool { return code <= 0x5 }
func isTfr8(code uint8) bool  { return code >= 0x8 && code <= 0xB }

func init() {
	register1(0x34, "PSHS", func(c *CPU, b bus.Bus16, master bus.Master) int {
		mask := c.fetchByte(b, master)
		n := c.pushRegList(b, master, &c.S, mask, &c.U)
		return 5 + n
	})
	register1(0x35, "PULS", func(c *CPU, b bus.Bus16, master bus.Master) int {
		mask := c.fetchByte(b, master)
		n := c.pullRegList(b, master, &c.S, mask, &c.U)
		return 5 + n
	})
	register1(0x36, "PSHU", func(c *CPU, b bus.Bus16, master bus.Master) int {
		mask := c.fetchByte(b, master)
		n := c.pushRegList(b, master, &c.U, mask, &c.S)
		return 5 + n
	})
	register1(0x37, "PULU", func(c *CPU, b bus.Bus16, master bus.Master) int {
		mask := c.fetchByte(b, master)
		n := c.pullRegList(b, master, &c.U, mask, &c.S)
		return 5 + n
	})

	register1(0x30, "LEAX", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveIndexed(b, master)
		c.X = addr
		c.setFlagsLogical(uint32(addr), Word)
		return 4 + extra
	})
	register1(0x31, "LEAY", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveIndexed(b, master)
		c.Y = addr
		c.setFlagsLogical(uint32(addr), Word)
		return 4 + extra
	})
	register1(0x32, "LEAS", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveIndexed(b, master)
		c.S = addr
		return 4 + extra
	})
	register1(0x33, "LEAU", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveIndexed(b, master)
		c.U = addr
		return 4 + extra
	})

	register1(0x1E, "EXG", func(c *CPU, b bus.Bus16, master bus.Master) int {
		post := c.fetchByte(b, master)
		src, dst := post>>4, post&0x0F
		if isTfr16(src) && isTfr16(dst) {
			sv, dv := c.tfrGet16(src), c.tfrGet16(dst)
			c.tfrSet16(dst, sv)
			c.tfrSet16(src, dv)
		} else if isTfr8(src) && isTfr8(dst) {
			sv, dv := c.tfrGet8(src), c.tfrGet8(dst)
			c.tfrSet8(dst, sv)
			c.tfrSet8(src, dv)
		}
		// Mismatched width codes: undefined on real hardware, left as a
		// no-op here (spec §9).
		return 8
	})
	register1(0x1F, "TFR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		post := c.fetchByte(b, master)
		src, dst := post>>4, post&0x0F
		if isTfr16(src) && isTfr16(dst) {
			c.tfrSet16(dst, c.tfrGet16(src))
		} else if isTfr8(src) && isTfr8(dst) {
			c.tfrSet8(dst, c.tfrGet8(src))
		}
		return 6
	})

	register1(0x3A, "ABX", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.X += uint16(c.B)
		return 3
	})
	register1(0x3D, "MUL", func(c *CPU, b bus.Bus16, master bus.Master) int {
		product := uint16(c.A) * uint16(c.B)
		c.SetD(product)
		c.CC &^= flagZ | flagC
		if product == 0 {
			c.CC |= flagZ
		}
		if product&0x80 != 0 {
			c.CC |= flagC
		}
		return 11
	})
	register1(0x19, "DAA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		corr := uint8(0)
		carry := c.CC&flagC != 0
		lo := c.A & 0x0F
		hi := c.A >> 4
		if c.CC&flagH != 0 || lo > 9 {
			corr |= 0x06
		}
		if carry || hi > 9 || (hi == 9 && lo > 9) {
			corr |= 0x60
			carry = true
		}
		result := uint16(c.A) + uint16(corr)
		c.A = uint8(result)
		// V is explicitly cleared by setFlagsLogical, as in cpu6800's DAA.
		c.setFlagsLogical(uint32(c.A), Byte)
		if carry {
			c.CC |= flagC
		}
		return 2
	})
	register1(0x1D, "SEX", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.SetD(uint16(int16(int8(c.B))))
		c.setFlagsLogical(uint32(c.D()), Word)
		return 2
	})
	register1(0x1A, "ORCC", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.CC |= c.fetchByte(b, master)
		return 3
	})
	register1(0x1C, "ANDCC", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.CC &= c.fetchByte(b, master)
		return 3
	})
	register1(0x12, "NOP", func(c *CPU, b bus.Bus16, master bus.Master) int { return 2 })
	register1(0x13, "SYNC", func(c *CPU, b bus.Bus16, master bus.Master) int { return c.opSYNC() })
	register1(0x3C, "CWAI", func(c *CPU, b bus.Bus16, master bus.Master) int {
		imm := c.fetchByte(b, master)
		return c.opCWAI(b, master, imm)
	})
	register1(0x3F, "SWI", func(c *CPU, b bus.Bus16, master bus.Master) int {
		return c.opSWI(b, master, vecSWI, true)
	})
	register2(0x3F, "SWI2", func(c *CPU, b bus.Bus16, master bus.Master) int {
		return c.opSWI(b, master, vecSWI2, false)
	})
	register3(0x3F, "SWI3", func(c *CPU, b bus.Bus16, master bus.Master) int {
		return c.opSWI(b, master, vecSWI3, false)
	})
	register1(0x39, "RTS", func(c *CPU, b bus.Bus16, master bus.Master) int {
		c.PC = c.pullWord(b, master, &c.S)
		return 5
	})
	register1(0x3B, "RTI", func(c *CPU, b bus.Bus16, master bus.Master) int {
		return c.opRTI(b, master)
	})

	register1(0x9D, "JSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeDirect)
		c.pushWord(b, master, &c.S, c.PC)
		c.PC = addr
		return 7 + extra
	})
	register1(0xAD, "JSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeIndexed)
		c.pushWord(b, master, &c.S, c.PC)
		c.PC = addr
		return 7 + extra
	})
	register1(0xBD, "JSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		addr, extra := c.resolveMemAddr(b, master, modeExtended)
		c.pushWord(b, master, &c.S, c.PC)
		c.PC = addr
		return 8 + extra
	})
}
