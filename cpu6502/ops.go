package cpu6502

import "github.com/user-none/joustcore/bus"

type opcodeEntry struct {
	mnemonic string
	build    func() []step
}

var table [256]opcodeEntry

func register(op uint8, mnemonic string, build func() []step) {
	table[op] = opcodeEntry{mnemonic: mnemonic, build: build}
}

func buildProgram(op uint8) []step {
	e := &table[op]
	if e.build == nil {
		return nil
	}
	return e.build()
}

func Mnemonic(op uint8) string { return table[op].mnemonic }

func init() {
	registerLoadsStores()
	registerALU()
	registerRMW()
	registerBranches()
	registerControlAndStack()
}

func registerLoadsStores() {
	allModes := []addrMode{
		modeImmediate, modeZeroPage, modeZeroPageX, modeAbsolute,
		modeAbsoluteX, modeAbsoluteY, modeIndirectX, modeIndirectY,
	}
	ldaOps := map[addrMode]uint8{
		modeImmediate: 0xA9, modeZeroPage: 0xA5, modeZeroPageX: 0xB5, modeAbsolute: 0xAD,
		modeAbsoluteX: 0xBD, modeAbsoluteY: 0xB9, modeIndirectX: 0xA1, modeIndirectY: 0xB1,
	}
	staOps := map[addrMode]uint8{
		modeZeroPage: 0x85, modeZeroPageX: 0x95, modeAbsolute: 0x8D,
		modeAbsoluteX: 0x9D, modeAbsoluteY: 0x99, modeIndirectX: 0x81, modeIndirectY: 0x91,
	}
	for _, mode := range allModes {
		if op, ok := ldaOps[mode]; ok {
			m := mode
			register(op, "LDA", func() []step {
				return buildRead(m, func(c *CPU, v uint8) { c.A = v; c.setFlagsLoad(v) })
			})
		}
		if op, ok := staOps[mode]; ok {
			m := mode
			register(op, "STA", func() []step {
				return buildWrite(m, func(c *CPU) uint8 { return c.A })
			})
		}
	}

	register(0xA2, "LDX", func() []step {
		return buildRead(modeImmediate, func(c *CPU, v uint8) { c.X = v; c.setFlagsLoad(v) })
	})
	register(0xA6, "LDX", func() []step {
		return buildRead(modeZeroPage, func(c *CPU, v uint8) { c.X = v; c.setFlagsLoad(v) })
	})
	register(0xB6, "LDX", func() []step {
		return buildRead(modeZeroPageY, func(c *CPU, v uint8) { c.X = v; c.setFlagsLoad(v) })
	})
	register(0xAE, "LDX", func() []step {
		return buildRead(modeAbsolute, func(c *CPU, v uint8) { c.X = v; c.setFlagsLoad(v) })
	})
	register(0xBE, "LDX", func() []step {
		return buildRead(modeAbsoluteY, func(c *CPU, v uint8) { c.X = v; c.setFlagsLoad(v) })
	})
	register(0x86, "STX", func() []step { return buildWrite(modeZeroPage, func(c *CPU) uint8 { return c.X }) })
	register(0x96, "STX", func() []step { return buildWrite(modeZeroPageY, func(c *CPU) uint8 { return c.X }) })
	register(0x8E, "STX", func() []step { return buildWrite(modeAbsolute, func(c *CPU) uint8 { return c.X }) })

	register(0xA0, "LDY", func() []step {
		return buildRead(modeImmediate, func(c *CPU, v uint8) { c.Y = v; c.setFlagsLoad(v) })
	})
	register(0xA4, "LDY", func() []step {
		return buildRead(modeZeroPage, func(c *CPU, v uint8) { c.Y = v; c.setFlagsLoad(v) })
	})
	register(0xB4, "LDY", func() []step {
		return buildRead(modeZeroPageX, func(c *CPU, v uint8) { c.Y = v; c.setFlagsLoad(v) })
	})
	register(0xAC, "LDY", func() []step {
		return buildRead(modeAbsolute, func(c *CPU, v uint8) { c.Y = v; c.setFlagsLoad(v) })
	})
	register(0xBC, "LDY", func() []step {
		return buildRead(modeAbsoluteX, func(c *CPU, v uint8) { c.Y = v; c.setFlagsLoad(v) })
	})
	register(0x84, "STY", func() []step { return buildWrite(modeZeroPage, func(c *CPU) uint8 { return c.Y }) })
	register(0x94, "STY", func() []step { return buildWrite(modeZeroPageX, func(c *CPU) uint8 { return c.Y }) })
	register(0x8C, "STY", func() []step { return buildWrite(modeAbsolute, func(c *CPU) uint8 { return c.Y }) })
}

func registerALU() {
	type kind struct {
		name string
		fn   func(c *CPU, v uint8)
		// opcodes indexed in the standard column-01 addressing-mode order:
		// (zp,X), zp, imm, abs, (zp),Y, zp,X, abs,Y, abs,X
		base uint8
	}
	// Every ADC/AND/CMP/EOR/ORA/SBC opcode shares this exact column layout
	// (aaa bbb 01), so one base opcode (the (zp,X) row) derives the rest.
	kinds := []kind{
		{"ORA", func(c *CPU, v uint8) { c.A |= v; c.setFlagsLoad(c.A) }, 0x01},
		{"AND", func(c *CPU, v uint8) { c.A &= v; c.setFlagsLoad(c.A) }, 0x21},
		{"EOR", func(c *CPU, v uint8) { c.A ^= v; c.setFlagsLoad(c.A) }, 0x41},
		{"ADC", func(c *CPU, v uint8) { c.addWithCarry(v) }, 0x61},
		{"CMP", func(c *CPU, v uint8) { c.compare(c.A, v) }, 0xC1},
		{"SBC", func(c *CPU, v uint8) { c.subtractWithCarry(v) }, 0xE1},
	}
	modeOffsets := []struct {
		mode addrMode
		off  uint8
	}{
		{modeIndirectX, 0x00}, {modeZeroPage, 0x04}, {modeImmediate, 0x08}, {modeAbsolute, 0x0C},
		{modeIndirectY, 0x10}, {modeZeroPageX, 0x14}, {modeAbsoluteY, 0x18}, {modeAbsoluteX, 0x1C},
	}
	for _, k := range kinds {
		for _, mo := range modeOffsets {
			m, apply := mo.mode, k.fn
			register(k.base+mo.off, k.name, func() []step { return buildRead(m, apply) })
		}
	}

	register(0x24, "BIT", func() []step {
		return buildRead(modeZeroPage, func(c *CPU, v uint8) {
			c.P &^= flagN | flagV | flagZ
			if c.A&v == 0 {
				c.P |= flagZ
			}
			c.P |= v & (flagN | flagV)
		})
	})
	register(0x2C, "BIT", func() []step {
		return buildRead(modeAbsolute, func(c *CPU, v uint8) {
			c.P &^= flagN | flagV | flagZ
			if c.A&v == 0 {
				c.P |= flagZ
			}
			c.P |= v & (flagN | flagV)
		})
	})

	register(0xE0, "CPX", func() []step {
		return buildRead(modeImmediate, func(c *CPU, v uint8) { c.compare(c.X, v) })
	})
	register(0xE4, "CPX", func() []step {
		return buildRead(modeZeroPage, func(c *CPU, v uint8) { c.compare(c.X, v) })
	})
	register(0xEC, "CPX", func() []step {
		return buildRead(modeAbsolute, func(c *CPU, v uint8) { c.compare(c.X, v) })
	})
	register(0xC0, "CPY", func() []step {
		return buildRead(modeImmediate, func(c *CPU, v uint8) { c.compare(c.Y, v) })
	})
	register(0xC4, "CPY", func() []step {
		return buildRead(modeZeroPage, func(c *CPU, v uint8) { c.compare(c.Y, v) })
	})
	register(0xCC, "CPY", func() []step {
		return buildRead(modeAbsolute, func(c *CPU, v uint8) { c.compare(c.Y, v) })
	})
}

func registerRMW() {
	type kind struct {
		name string
		fn   func(c *CPU, v uint8) uint8
	}
	asl := func(c *CPU, v uint8) uint8 {
		carry := v&0x80 != 0
		r := v << 1
		c.P &^= flagN | flagZ | flagC
		if carry {
			c.P |= flagC
		}
		c.setFlagsLoad(r)
		return r
	}
	lsr := func(c *CPU, v uint8) uint8 {
		carry := v&0x01 != 0
		r := v >> 1
		c.P &^= flagN | flagZ | flagC
		if carry {
			c.P |= flagC
		}
		c.setFlagsLoad(r)
		return r
	}
	rol := func(c *CPU, v uint8) uint8 {
		carryIn := uint8(0)
		if c.P&flagC != 0 {
			carryIn = 1
		}
		carryOut := v&0x80 != 0
		r := (v << 1) | carryIn
		c.P &^= flagC
		if carryOut {
			c.P |= flagC
		}
		c.setFlagsLoad(r)
		return r
	}
	ror := func(c *CPU, v uint8) uint8 {
		carryIn := uint8(0)
		if c.P&flagC != 0 {
			carryIn = 0x80
		}
		carryOut := v&0x01 != 0
		r := (v >> 1) | carryIn
		c.P &^= flagC
		if carryOut {
			c.P |= flagC
		}
		c.setFlagsLoad(r)
		return r
	}
	inc := func(c *CPU, v uint8) uint8 { r := v + 1; c.setFlagsLoad(r); return r }
	dec := func(c *CPU, v uint8) uint8 { r := v - 1; c.setFlagsLoad(r); return r }

	kinds := []kind{{"ASL", asl}, {"LSR", lsr}, {"ROL", rol}, {"ROR", ror}, {"INC", inc}, {"DEC", dec}}
	memOps := map[string]map[addrMode]uint8{
		"ASL": {modeZeroPage: 0x06, modeZeroPageX: 0x16, modeAbsolute: 0x0E, modeAbsoluteX: 0x1E},
		"LSR": {modeZeroPage: 0x46, modeZeroPageX: 0x56, modeAbsolute: 0x4E, modeAbsoluteX: 0x5E},
		"ROL": {modeZeroPage: 0x26, modeZeroPageX: 0x36, modeAbsolute: 0x2E, modeAbsoluteX: 0x3E},
		"ROR": {modeZeroPage: 0x66, modeZeroPageX: 0x76, modeAbsolute: 0x6E, modeAbsoluteX: 0x7E},
		"INC": {modeZeroPage: 0xE6, modeZeroPageX: 0xF6, modeAbsolute: 0xEE, modeAbsoluteX: 0xFE},
		"DEC": {modeZeroPage: 0xC6, modeZeroPageX: 0xD6, modeAbsolute: 0xCE, modeAbsoluteX: 0xDE},
	}
	accOps := map[string]uint8{"ASL": 0x0A, "LSR": 0x4A, "ROL": 0x2A, "ROR": 0x6A}

	for _, k := range kinds {
		apply := k.fn
		for mode, op := range memOps[k.name] {
			m := mode
			register(op, k.name, func() []step { return buildRMW(m, apply) })
		}
		if op, ok := accOps[k.name]; ok {
			register(op, k.name, func() []step { return buildAccumulatorRMW(apply) })
		}
	}

	register(0xE8, "INX", func() []step {
		return buildImplied(func(c *CPU) { c.X++; c.setFlagsLoad(c.X) })
	})
	register(0xCA, "DEX", func() []step {
		return buildImplied(func(c *CPU) { c.X--; c.setFlagsLoad(c.X) })
	})
	register(0xC8, "INY", func() []step {
		return buildImplied(func(c *CPU) { c.Y++; c.setFlagsLoad(c.Y) })
	})
	register(0x88, "DEY", func() []step {
		return buildImplied(func(c *CPU) { c.Y--; c.setFlagsLoad(c.Y) })
	})
}

func registerBranches() {
	conds := []struct {
		op   uint8
		name string
		test func(c *CPU) bool
	}{
		{0x10, "BPL", func(c *CPU) bool { return c.P&flagN == 0 }},
		{0x30, "BMI", func(c *CPU) bool { return c.P&flagN != 0 }},
		{0x50, "BVC", func(c *CPU) bool { return c.P&flagV == 0 }},
		{0x70, "BVS", func(c *CPU) bool { return c.P&flagV != 0 }},
		{0x90, "BCC", func(c *CPU) bool { return c.P&flagC == 0 }},
		{0xB0, "BCS", func(c *CPU) bool { return c.P&flagC != 0 }},
		{0xD0, "BNE", func(c *CPU) bool { return c.P&flagZ == 0 }},
		{0xF0, "BEQ", func(c *CPU) bool { return c.P&flagZ != 0 }},
	}
	for _, cnd := range conds {
		test := cnd.test
		register(cnd.op, cnd.name, func() []step {
			return []step{
				func(c *CPU, b bus.Bus16, master bus.Master) {
					offset := int8(b.Read(master, c.PC))
					c.PC++
					if !test(c) {
						c.program = c.program[:c.idx+1] // not taken: 2 cycles total
						return
					}
					base := c.PC
					c.addr = uint16(int32(base) + int32(offset))
					c.base = base
				},
				func(c *CPU, b bus.Bus16, master bus.Master) {
					b.Read(master, (c.base&0xFF00)|(c.addr&0x00FF))
					if c.addr&0xFF00 == c.base&0xFF00 {
						c.PC = c.addr // same page: 3 cycles total
						c.program = c.program[:c.idx+1]
					}
				},
				func(c *CPU, b bus.Bus16, master bus.Master) {
					b.Read(master, (c.base&0xFF00)|(c.addr&0x00FF))
					c.PC = c.addr
				},
			}
		})
	}
}

func registerControlAndStack() {
	register(0x18, "CLC", func() []step { return buildImplied(func(c *CPU) { c.P &^= flagC }) })
	register(0x38, "SEC", func() []step { return buildImplied(func(c *CPU) { c.P |= flagC }) })
	register(0x58, "CLI", func() []step { return buildImplied(func(c *CPU) { c.P &^= flagI }) })
	register(0x78, "SEI", func() []step { return buildImplied(func(c *CPU) { c.P |= flagI }) })
	register(0xB8, "CLV", func() []step { return buildImplied(func(c *CPU) { c.P &^= flagV }) })
	register(0xD8, "CLD", func() []step { return buildImplied(func(c *CPU) { c.P &^= flagD }) })
	register(0xF8, "SED", func() []step { return buildImplied(func(c *CPU) { c.P |= flagD }) })
	register(0xEA, "NOP", func() []step { return buildImplied(func(c *CPU) {}) })

	register(0xAA, "TAX", func() []step { return buildImplied(func(c *CPU) { c.X = c.A; c.setFlagsLoad(c.X) }) })
	register(0x8A, "TXA", func() []step { return buildImplied(func(c *CPU) { c.A = c.X; c.setFlagsLoad(c.A) }) })
	register(0xA8, "TAY", func() []step { return buildImplied(func(c *CPU) { c.Y = c.A; c.setFlagsLoad(c.Y) }) })
	register(0x98, "TYA", func() []step { return buildImplied(func(c *CPU) { c.A = c.Y; c.setFlagsLoad(c.A) }) })
	register(0xBA, "TSX", func() []step { return buildImplied(func(c *CPU) { c.X = c.SP; c.setFlagsLoad(c.X) }) })
	register(0x9A, "TXS", func() []step { return buildImplied(func(c *CPU) { c.SP = c.X }) })

	register(0x48, "PHA", func() []step {
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) { c.pushByte(b, master, c.A) }}
	})
	register(0x08, "PHP", func() []step {
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			c.pushByte(b, master, c.P|flagB|flagUnused)
		}}
	})
	register(0x68, "PLA", func() []step {
		return []step{
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, 0x0100 | uint16(c.SP)) },
			func(c *CPU, b bus.Bus16, master bus.Master) { c.A = c.pullByte(b, master); c.setFlagsLoad(c.A) },
		}
	})
	register(0x28, "PLP", func() []step {
		return []step{
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, 0x0100 | uint16(c.SP)) },
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.P = (c.pullByte(b, master) &^ flagB) | flagUnused
			},
		}
	})

	register(0x4C, "JMP", func() []step {
		return []step{
			absLow,
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.hi = b.Read(master, c.PC)
				c.PC = uint16(c.hi)<<8 | uint16(c.lo)
			},
		}
	})
	register(0x6C, "JMP", func() []step {
		// Indirect JMP page-wrap bug (spec §4.3.7): when the pointer's low
		// byte is $FF, the high byte is fetched from $xx00, not $(xx+1)00.
		return []step{
			absLow,
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.hi = b.Read(master, c.PC)
				c.base = uint16(c.hi)<<8 | uint16(c.lo)
			},
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.operand = b.Read(master, c.base)
			},
			func(c *CPU, b bus.Bus16, master bus.Master) {
				hiAddr := (c.base & 0xFF00) | uint16(uint8(c.base)+1)
				hi := b.Read(master, hiAddr)
				c.PC = uint16(hi)<<8 | uint16(c.operand)
			},
		}
	})

	register(0x20, "JSR", func() []step {
		return []step{
			absLow,
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, 0x0100 | uint16(c.SP)) },
			func(c *CPU, b bus.Bus16, master bus.Master) { c.pushByte(b, master, uint8(c.PC>>8)) },
			func(c *CPU, b bus.Bus16, master bus.Master) { c.pushByte(b, master, uint8(c.PC)) },
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.hi = b.Read(master, c.PC)
				c.PC = uint16(c.hi)<<8 | uint16(c.lo)
			},
		}
	})
	register(0x60, "RTS", func() []step {
		return []step{
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, c.PC) },
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, 0x0100 | uint16(c.SP)) },
			func(c *CPU, b bus.Bus16, master bus.Master) { c.lo = c.pullByte(b, master) },
			func(c *CPU, b bus.Bus16, master bus.Master) { c.hi = c.pullByte(b, master) },
			func(c *CPU, b bus.Bus16, master bus.Master) {
				b.Read(master, uint16(c.hi)<<8|uint16(c.lo))
				c.PC = uint16(c.hi)<<8 | uint16(c.lo) + 1
			},
		}
	})
	register(0x40, "RTI", func() []step {
		return []step{
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, c.PC) },
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, 0x0100 | uint16(c.SP)) },
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.P = (c.pullByte(b, master) &^ flagB) | flagUnused
			},
			func(c *CPU, b bus.Bus16, master bus.Master) { c.lo = c.pullByte(b, master) },
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.hi = c.pullByte(b, master)
				c.PC = uint16(c.hi)<<8 | uint16(c.lo)
			},
		}
	})
	register(0x00, "BRK", func() []step {
		return []step{
			func(c *CPU, b bus.Bus16, master bus.Master) { b.Read(master, c.PC); c.PC++ },
			func(c *CPU, b bus.Bus16, master bus.Master) { c.pushByte(b, master, uint8(c.PC>>8)) },
			func(c *CPU, b bus.Bus16, master bus.Master) { c.pushByte(b, master, uint8(c.PC)) },
			func(c *CPU, b bus.Bus16, master bus.Master) { c.pushByte(b, master, c.P|flagB|flagUnused) },
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.lo = b.Read(master, 0xFFFE)
				c.P |= flagI
			},
			func(c *CPU, b bus.Bus16, master bus.Master) {
				c.hi = b.Read(master, 0xFFFF)
				c.PC = uint16(c.hi)<<8 | uint16(c.lo)
			},
		}
	})
}
