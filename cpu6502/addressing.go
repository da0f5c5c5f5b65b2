package cpu6502

import "github.com/user-none/joustcore/bus"

type addrMode uint8

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirectX
	modeIndirectY
	modeRelative
)

// fixedAddrSteps resolves c.addr using the worst-case (always-take-the-extra-
// cycle) timing that store and read-modify-write instructions use on real
// 6502 silicon regardless of whether indexing actually crosses a page.
func fixedAddrSteps(mode addrMode) []step {
	switch mode {
	case modeZeroPage:
		return []step{zpLowByte}
	case modeZeroPageX:
		return []step{zpLowByte, zpIndexDummyThenAdd(func(c *CPU) uint8 { return c.X })}
	case modeZeroPageY:
		return []step{zpLowByte, zpIndexDummyThenAdd(func(c *CPU) uint8 { return c.Y })}
	case modeAbsolute:
		return []step{absLow, absHigh}
	case modeAbsoluteX:
		return []step{absLow, absHigh, indexedFixedDummy(func(c *CPU) uint8 { return c.X })}
	case modeAbsoluteY:
		return []step{absLow, absHigh, indexedFixedDummy(func(c *CPU) uint8 { return c.Y })}
	case modeIndirectX:
		return []step{
			zpLowByte,
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, uint16(c.lo)) },
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.base = uint16(b.Read(master, uint16(c.lo+c.X)))
			},
			func(c *CPU, b bus.Bus16, master bus.Master) {
				hi := b.Read(master, uint16(c.lo+c.X+1))
				c.addr = uint16(hi)<<8 | c.base
			},
		}
	case modeIndirectY:
		return []step{
			zpLowByte,
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.base = uint16(b.Read(master, uint16(c.lo)))
			},
			func(c *CPU, b bus.Bus16, master bus.Master) {
				hi := b.Read(master, uint16(c.lo+1))
				unindexed := uint16(hi)<<8 | c.base
				c.base = unindexed
				c.addr = unindexed + uint16(c.Y)
			},
			func(c *CPU, b bus.Bus16, master bus.Master) {
				b.Read(master, (c.base&0xFF00)|(c.addr&0x00FF))
			},
		}
	}
	return nil
}

func zpLowByte(c *CPU, b bus.Bus16, master bus.Master) {
	c.lo = b.Read(master, c.PC)
	c.PC++
}

func absLow(c *CPU, b bus.Bus16, master bus.Master) {
	c.lo = b.Read(master, c.PC)
	c.PC++
}

func absHigh(c *CPU, b bus.Bus16, master bus.Master) {
	c.hi = b.Read(master, c.PC)
	c.PC++
	c.base = uint16(c.hi)<<8 | uint16(c.lo)
	c.addr = c.base
}

func zpIndexDummyThenAdd(index func(c *CPU) uint8) step {
	return func(c *CPU, b bus.Bus16, master bus.Master) {
		b.Read(master, uint16(c.lo))
		c.addr = uint16(c.lo + index(c))
	}
}

func indexedFixedDummy(index func(c *CPU) uint8) step {
	return func(c *CPU, b bus.Bus16, master bus.Master) {
		addr := c.base + uint16(index(c))
		guess := (c.base & 0xFF00) | (addr & 0x00FF)
		b.Read(master, guess)
		c.addr = addr
	}
}

// conditionalRead builds a read-only program for the indexed/indirect modes
// whose extra cycle only appears on an actual page cross (spec §4.3.7
// example 5): LDA/ADC/AND/... absolute,X/Y and (zp),Y. The address-guess
// read doubles as the real read whenever it happens to land on the right
// page, matching real 6502 timing (4 cycles when no cross, 5 when crossed).
func conditionalRead(mode addrMode, apply func(c *CPU, v uint8)) []step {
	var index func(c *CPU) uint8
	switch mode {
	case modeAbsoluteX:
		index = func(c *CPU) uint8 { return c.X }
	case modeAbsoluteY, modeIndirectY:
		index = func(c *CPU) uint8 { return c.Y }
	}

	guess := func(c *CPU, b bus.Bus16, master bus.Master) {
		finalAddr := c.base + uint16(index(c))
		guessAddr := (c.base & 0xFF00) | (finalAddr & 0x00FF)
		v := b.Read(master, guessAddr)
		if guessAddr == finalAddr {
			apply(c, v)
			c.program = append(c.program[:c.idx+1], c.program[c.idx+2:]...)
		} else {
			c.addr = finalAddr
		}
	}
	final := func(c *CPU, b bus.Bus16, master bus.Master) {
		apply(c, b.Read(master, c.addr))
	}

	switch mode {
	case modeAbsoluteX, modeAbsoluteY:
		return []step{absLow, absHigh, guess, final}
	case modeIndirectY:
		return []step{
			zpLowByte,
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.base = uint16(b.Read(master, uint16(c.lo)))
			},
			func(c *CPU, b bus.Bus16, master bus.Master) {
				hi := b.Read(master, uint16(c.lo+1))
				c.base = uint16(hi)<<8 | c.base
			},
			guess, final,
		}
	}
	return nil
}

// buildRead assembles a program that resolves mode, reads the operand, and
// applies it. Immediate is inlined since it never computes c.addr; the
// indexed/indirect-Y modes use conditionalRead's page-cross-sensitive timing,
// everything else has a fixed cycle count.
func buildRead(mode addrMode, apply func(c *CPU, v uint8)) []step {
	switch mode {
	case modeImmediate:
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			v := b.Read(master, c.PC)
			c.PC++
			apply(c, v)
		}}
	case modeAbsoluteX, modeAbsoluteY, modeIndirectY:
		return conditionalRead(mode, apply)
	}
	prog := fixedAddrSteps(mode)
	return append(prog, func(c *CPU, b bus.Bus16, master bus.Master) {
		apply(c, b.Read(master, c.addr))
	})
}

func buildWrite(mode addrMode, reg func(c *CPU) uint8) []step {
	prog := fixedAddrSteps(mode)
	return append(prog, func(c *CPU, b bus.Bus16, master bus.Master) {
		b.Write(master, c.addr, reg(c))
	})
}

// buildRMW reads, writes the unmodified value back (the documented 6502 RMW
// quirk — spec §4.3.7 example 4), then writes the modified value.
func buildRMW(mode addrMode, apply func(c *CPU, v uint8) uint8) []step {
	prog := fixedAddrSteps(mode)
	prog = append(prog, func(c *CPU, b bus.Bus16, master bus.Master) {
		c.operand = b.Read(master, c.addr)
	})
	prog = append(prog, func(c *CPU, b bus.Bus16, master bus.Master) {
		b.Write(master, c.addr, c.operand) // dummy write-back of the original value
	})
	prog = append(prog, func(c *CPU, b bus.Bus16, master bus.Master) {
		b.Write(master, c.addr, apply(c, c.operand))
	})
	return prog
}

func buildAccumulatorRMW(apply func(c *CPU, v uint8) uint8) []step {
	return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
		b.Read(master, c.PC) // dummy read of the next opcode byte
		c.A = apply(c, c.A)
	}}
}

func buildImplied(apply func(c *CPU)) []step {
	return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
		b.Read(master, c.PC)
		apply(c)
	}}
}
