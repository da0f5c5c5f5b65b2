package z80

import "github.com/user-none/joustcore/bus"

// The unprefixed instruction table. Register/step counts follow the real
// Z80 T-state tables; the opcode fetch itself has already charged 1 cycle
// in TickWithBus, so each build here only needs to account for the
// *remaining* T-states of the instruction, expressed as a handful of
// single-cycle pad steps terminating in the step that actually touches
// registers or the bus.
var mainOps [256]func() []step

// aluOps is the eight ALU-A operations selected by the "ooo" bits of ADD/ADC/
// SUB/SBC/AND/XOR/OR/CP, shared by the register form (10 ooo rrr), the
// immediate form (11 ooo 110), and the (IX+d)/(IY+d) indexed form.
var aluOps = []func(c *CPU, operand uint8){
	func(c *CPU, operand uint8) { c.A = c.setFlagsAdd8(c.A, operand, 0, true) },
	func(c *CPU, operand uint8) {
		cin := uint8(0)
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.setFlagsAdd8(c.A, operand, cin, true)
	},
	func(c *CPU, operand uint8) { c.A = c.setFlagsAdd8(c.A, operand, 0, false) },
	func(c *CPU, operand uint8) {
		cin := uint8(0)
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.setFlagsAdd8(c.A, operand, cin, false)
	},
	func(c *CPU, operand uint8) { c.A &= operand; c.setFlagsLogical(c.A, true) },
	func(c *CPU, operand uint8) { c.A ^= operand; c.setFlagsLogical(c.A, false) },
	func(c *CPU, operand uint8) { c.A |= operand; c.setFlagsLogical(c.A, false) },
	func(c *CPU, operand uint8) { c.setFlagsAdd8(c.A, operand, 0, false) }, // CP: discard result
}

func registerMain(op uint8, build func() []step) {
	mainOps[op] = build
}

func buildMain(op uint8) []step {
	if mainOps[op] == nil {
		return nil
	}
	return mainOps[op]()
}

func nopStep(c *CPU, b bus.Bus16, master bus.Master) {}

// padSteps returns a program of n single-cycle steps, the last of which is
// final; n must be >= 1.
func padSteps(n int, final step) []step {
	if n <= 1 {
		return []step{final}
	}
	s := make([]step, n)
	for i := 0; i < n-1; i++ {
		s[i] = nopStep
	}
	s[n-1] = final
	return s
}

// reg8 index order matches the Z80 opcode encoding: B C D E H L (HL) A.
func reg8Get(idx uint8) func(c *CPU, b bus.Bus16, master bus.Master) uint8 {
	switch idx {
	case 0:
		return func(c *CPU, b bus.Bus16, master bus.Master) uint8 { return c.B }
	case 1:
		return func(c *CPU, b bus.Bus16, master bus.Master) uint8 { return c.C }
	case 2:
		return func(c *CPU, b bus.Bus16, master bus.Master) uint8 { return c.D }
	case 3:
		return func(c *CPU, b bus.Bus16, master bus.Master) uint8 { return c.E }
	case 4:
		return func(c *CPU, b bus.Bus16, master bus.Master) uint8 { return c.H }
	case 5:
		return func(c *CPU, b bus.Bus16, master bus.Master) uint8 { return c.L }
	case 6:
		return func(c *CPU, b bus.Bus16, master bus.Master) uint8 { return b.Read(master, c.hl()) }
	default:
		return func(c *CPU, b bus.Bus16, master bus.Master) uint8 { return c.A }
	}
}

func reg8Set(idx uint8) func(c *CPU, b bus.Bus16, master bus.Master, v uint8) {
	switch idx {
	case 0:
		return func(c *CPU, b bus.Bus16, master bus.Master, v uint8) { c.B = v }
	case 1:
		return func(c *CPU, b bus.Bus16, master bus.Master, v uint8) { c.C = v }
	case 2:
		return func(c *CPU, b bus.Bus16, master bus.Master, v uint8) { c.D = v }
	case 3:
		return func(c *CPU, b bus.Bus16, master bus.Master, v uint8) { c.E = v }
	case 4:
		return func(c *CPU, b bus.Bus16, master bus.Master, v uint8) { c.H = v }
	case 5:
		return func(c *CPU, b bus.Bus16, master bus.Master, v uint8) { c.L = v }
	case 6:
		return func(c *CPU, b bus.Bus16, master bus.Master, v uint8) { b.Write(master, c.hl(), v) }
	default:
		return func(c *CPU, b bus.Bus16, master bus.Master, v uint8) { c.A = v }
	}
}

func init() {
	// LD r,r' — 0x40-0x7F except 0x76 (HALT).
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue
		}
		dst, src := uint8(op>>3)&7, uint8(op)&7
		setFn := reg8Set(dst)
		getFn := reg8Get(src)
		n := 1
		if dst == 6 || src == 6 {
			n = 4 // LD r,(HL) / LD (HL),r: 7 T-states total, 3 extra + fetch already counted +1 slack
		}
		registerMain(uint8(op), func() []step {
			return padSteps(n, func(c *CPU, b bus.Bus16, master bus.Master) {
				setFn(c, b, master, getFn(c, b, master))
			})
		})
	}

	// LD r,n — 00 rrr 110
	for _, e := range []struct{ op, dst uint8 }{
		{0x06, 0}, {0x0E, 1}, {0x16, 2}, {0x1E, 3}, {0x26, 4}, {0x2E, 5}, {0x36, 6}, {0x3E, 7},
	} {
		dst := e.dst
		setFn := reg8Set(dst)
		n := 3
		if dst == 6 {
			n = 6
		}
		registerMain(e.op, func() []step {
			return padSteps(n, func(c *CPU, b bus.Bus16, master bus.Master) {
				v := c.fetchByte(b, master)
				setFn(c, b, master, v)
			})
		})
	}

	// INC/DEC r — 00 rrr 100 / 00 rrr 101
	for r := uint8(0); r < 8; r++ {
		r := r
		get, set := reg8Get(r), reg8Set(r)
		n := 1
		if r == 6 {
			n = 7
		}
		registerMain(0x04|(r<<3), func() []step {
			return padSteps(n, func(c *CPU, b bus.Bus16, master bus.Master) {
				before := get(c, b, master)
				after := before + 1
				set(c, b, master, after)
				c.setFlagsIncDec8(before, after, true)
			})
		})
		registerMain(0x05|(r<<3), func() []step {
			return padSteps(n, func(c *CPU, b bus.Bus16, master bus.Master) {
				before := get(c, b, master)
				after := before - 1
				set(c, b, master, after)
				c.setFlagsIncDec8(before, after, false)
			})
		})
	}

	// ALU A,r — 10 ooo rrr
	for o := uint8(0); o < 8; o++ {
		for r := uint8(0); r < 8; r++ {
			o, r := o, r
			op := uint8(0x80) | (o << 3) | r
			get := reg8Get(r)
			n := 1
			if r == 6 {
				n = 4
			}
			registerMain(op, func() []step {
				return padSteps(n, func(c *CPU, b bus.Bus16, master bus.Master) {
					aluOps[o](c, get(c, b, master))
				})
			})
		}
	}

	// ALU A,n — 11 ooo 110
	aluImmOps := []uint8{0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE}
	for o, op := range aluImmOps {
		o := uint8(o)
		registerMain(op, func() []step {
			return padSteps(3, func(c *CPU, b bus.Bus16, master bus.Master) {
				operand := c.fetchByte(b, master)
				aluOps[o](c, operand)
			})
		})
	}

	registerMain(0x00, func() []step { return []step{nopStep} }) // NOP
	registerMain(0x76, func() []step {                           // HALT
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			c.state = State{Kind: StateHalted}
		}}
	})
	registerMain(0xF3, func() []step { // DI
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) { c.IFF1, c.IFF2 = false, false }}
	})
	registerMain(0xFB, func() []step { // EI
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) { c.IFF1, c.IFF2 = true, true }}
	})

	registerMain(0x07, func() []step { // RLCA
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			carry := c.A&0x80 != 0
			c.A = c.A<<1 | boolBit(carry)
			c.setRotateAFlags(carry)
		}}
	})
	registerMain(0x0F, func() []step { // RRCA
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			carry := c.A&0x01 != 0
			c.A = c.A>>1 | (boolBit(carry) << 7)
			c.setRotateAFlags(carry)
		}}
	})
	registerMain(0x17, func() []step { // RLA
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			carryIn := boolBit(c.F&flagC != 0)
			carryOut := c.A&0x80 != 0
			c.A = c.A<<1 | carryIn
			c.setRotateAFlags(carryOut)
		}}
	})
	registerMain(0x1F, func() []step { // RRA
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			carryIn := boolBit(c.F&flagC != 0)
			carryOut := c.A&0x01 != 0
			c.A = c.A>>1 | (carryIn << 7)
			c.setRotateAFlags(carryOut)
		}}
	})

	registerMain(0x2F, func() []step { // CPL
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			c.A = ^c.A
			c.F = (c.F & (flagS | flagZ | flagPV | flagC)) | flagH | flagN | (c.A & (flagX | flagY))
		}}
	})
	registerMain(0x3F, func() []step { return []step{ccf} }) // CCF
	registerMain(0x37, func() []step { return []step{scf} }) // SCF

	registerMain(0x08, func() []step { // EX AF,AF'
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			c.A, c.A2 = c.A2, c.A
			c.F, c.F2 = c.F2, c.F
		}}
	})
	registerMain(0xD9, func() []step { // EXX
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			c.B, c.B2 = c.B2, c.B
			c.C, c.C2 = c.C2, c.C
			c.D, c.D2 = c.D2, c.D
			c.E, c.E2 = c.E2, c.E
			c.H, c.H2 = c.H2, c.H
			c.L, c.L2 = c.L2, c.L
		}}
	})
	registerMain(0xEB, func() []step { // EX DE,HL
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) {
			c.D, c.H = c.H, c.D
			c.E, c.L = c.L, c.E
		}}
	})
	registerMain(0xE3, func() []step { // EX (SP),HL
		return padSteps(7, func(c *CPU, b bus.Bus16, master bus.Master) {
			lo := b.Read(master, c.SP)
			hi := b.Read(master, c.SP+1)
			b.Write(master, c.SP, c.L)
			b.Write(master, c.SP+1, c.H)
			c.L, c.H = lo, hi
			c.memptr = c.hl()
		})
	})

	// 16-bit register pair loads: LD dd,nn — 00 dd0 001
	pairs := []struct {
		op  uint8
		set func(c *CPU, v uint16)
	}{
		{0x01, func(c *CPU, v uint16) { c.setBC(v) }},
		{0x11, func(c *CPU, v uint16) { c.setDE(v) }},
		{0x21, func(c *CPU, v uint16) { c.setHL(v) }},
		{0x31, func(c *CPU, v uint16) { c.SP = v }},
	}
	for _, p := range pairs {
		set := p.set
		registerMain(p.op, func() []step {
			return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) {
				set(c, c.fetchWord(b, master))
			})
		})
	}
	registerMain(0xF9, func() []step { // LD SP,HL
		return padSteps(2, func(c *CPU, b bus.Bus16, master bus.Master) { c.SP = c.hl() })
	})

	registerMain(0x02, func() []step { // LD (BC),A
		return padSteps(3, func(c *CPU, b bus.Bus16, master bus.Master) {
			b.Write(master, c.bc(), c.A)
			c.memptr = uint16(c.A)<<8 | (c.bc()+1)&0xFF
		})
	})
	registerMain(0x12, func() []step { // LD (DE),A
		return padSteps(3, func(c *CPU, b bus.Bus16, master bus.Master) {
			b.Write(master, c.de(), c.A)
			c.memptr = uint16(c.A)<<8 | (c.de()+1)&0xFF
		})
	})
	registerMain(0x0A, func() []step { // LD A,(BC)
		return padSteps(3, func(c *CPU, b bus.Bus16, master bus.Master) {
			c.A = b.Read(master, c.bc())
			c.memptr = c.bc() + 1
		})
	})
	registerMain(0x1A, func() []step { // LD A,(DE)
		return padSteps(3, func(c *CPU, b bus.Bus16, master bus.Master) {
			c.A = b.Read(master, c.de())
			c.memptr = c.de() + 1
		})
	})
	registerMain(0x32, func() []step { // LD (nn),A
		return padSteps(9, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := c.fetchWord(b, master)
			b.Write(master, addr, c.A)
			c.memptr = uint16(c.A)<<8 | (addr+1)&0xFF
		})
	})
	registerMain(0x3A, func() []step { // LD A,(nn)
		return padSteps(9, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := c.fetchWord(b, master)
			c.A = b.Read(master, addr)
			c.memptr = addr + 1
		})
	})
	registerMain(0x22, func() []step { // LD (nn),HL
		return padSteps(12, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := c.fetchWord(b, master)
			b.Write(master, addr, c.L)
			b.Write(master, addr+1, c.H)
			c.memptr = addr + 1
		})
	})
	registerMain(0x2A, func() []step { // LD HL,(nn)
		return padSteps(12, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := c.fetchWord(b, master)
			c.L = b.Read(master, addr)
			c.H = b.Read(master, addr+1)
			c.memptr = addr + 1
		})
	})

	// INC/DEC rr
	incDecPairs := []struct {
		op  uint8
		get func(c *CPU) uint16
		set func(c *CPU, v uint16)
	}{
		{0x03, func(c *CPU) uint16 { return c.bc() }, func(c *CPU, v uint16) { c.setBC(v) }},
		{0x13, func(c *CPU) uint16 { return c.de() }, func(c *CPU, v uint16) { c.setDE(v) }},
		{0x23, func(c *CPU) uint16 { return c.hl() }, func(c *CPU, v uint16) { c.setHL(v) }},
		{0x33, func(c *CPU) uint16 { return c.SP }, func(c *CPU, v uint16) { c.SP = v }},
	}
	for _, p := range incDecPairs {
		get, set := p.get, p.set
		registerMain(p.op, func() []step {
			return padSteps(2, func(c *CPU, b bus.Bus16, master bus.Master) { set(c, get(c)+1) })
		})
		registerMain(p.op+8, func() []step {
			return padSteps(2, func(c *CPU, b bus.Bus16, master bus.Master) { set(c, get(c)-1) })
		})
	}

	// ADD HL,rr — 00 rr1 001
	addHLOps := []struct {
		op  uint8
		get func(c *CPU) uint16
	}{
		{0x09, func(c *CPU) uint16 { return c.bc() }},
		{0x19, func(c *CPU) uint16 { return c.de() }},
		{0x29, func(c *CPU) uint16 { return c.hl() }},
		{0x39, func(c *CPU) uint16 { return c.SP }},
	}
	for _, e := range addHLOps {
		get := e.get
		registerMain(e.op, func() []step {
			return padSteps(11, func(c *CPU, b bus.Bus16, master bus.Master) {
				hl := c.hl()
				operand := get(c)
				result := uint32(hl) + uint32(operand)
				c.setHL(uint16(result))
				c.F &^= flagN | flagC | flagH | flagX | flagY
				if (hl&0x0FFF)+(operand&0x0FFF) > 0x0FFF {
					c.F |= flagH
				}
				if result > 0xFFFF {
					c.F |= flagC
				}
				c.F |= uint8(result>>8) & (flagX | flagY)
				c.memptr = hl + 1
			})
		})
	}

	// PUSH/POP qq
	pushPop := []struct {
		op  uint8
		get func(c *CPU) uint16
		set func(c *CPU, v uint16)
	}{
		{0xC1, func(c *CPU) uint16 { return c.bc() }, func(c *CPU, v uint16) { c.setBC(v) }},
		{0xD1, func(c *CPU) uint16 { return c.de() }, func(c *CPU, v uint16) { c.setDE(v) }},
		{0xE1, func(c *CPU) uint16 { return c.hl() }, func(c *CPU, v uint16) { c.setHL(v) }},
		{0xF1, func(c *CPU) uint16 { return uint16(c.A)<<8 | uint16(c.F) }, func(c *CPU, v uint16) {
			c.A, c.F = uint8(v>>8), uint8(v)
		}},
	}
	for _, e := range pushPop {
		get, set := e.get, e.set
		registerMain(e.op, func() []step { // POP
			return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) { set(c, c.pullWord(b, master)) })
		})
		registerMain(e.op+4, func() []step { // PUSH: 0xC5/0xD5/0xE5/0xF5
			return padSteps(7, func(c *CPU, b bus.Bus16, master bus.Master) { c.pushWord(b, master, get(c)) })
		})
	}

	registerMain(0x18, jrOp(func(c *CPU) bool { return true }))
	registerMain(0x20, jrOp(func(c *CPU) bool { return c.F&flagZ == 0 }))
	registerMain(0x28, jrOp(func(c *CPU) bool { return c.F&flagZ != 0 }))
	registerMain(0x30, jrOp(func(c *CPU) bool { return c.F&flagC == 0 }))
	registerMain(0x38, jrOp(func(c *CPU) bool { return c.F&flagC != 0 }))

	registerMain(0x10, func() []step { // DJNZ e
		return padSteps(4, func(c *CPU, b bus.Bus16, master bus.Master) {
			e := int8(c.fetchByte(b, master))
			c.B--
			if c.B != 0 {
				c.PC = uint16(int32(c.PC) + int32(e))
				c.memptr = c.PC
				c.cycles += 5
			}
		})
	})

	registerMain(0xC3, func() []step { // JP nn
		return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := c.fetchWord(b, master)
			c.PC = addr
			c.memptr = addr
		})
	})
	jpCond := []struct {
		op   uint8
		test func(c *CPU) bool
	}{
		{0xC2, func(c *CPU) bool { return c.F&flagZ == 0 }},
		{0xCA, func(c *CPU) bool { return c.F&flagZ != 0 }},
		{0xD2, func(c *CPU) bool { return c.F&flagC == 0 }},
		{0xDA, func(c *CPU) bool { return c.F&flagC != 0 }},
		{0xE2, func(c *CPU) bool { return c.F&flagPV == 0 }},
		{0xEA, func(c *CPU) bool { return c.F&flagPV != 0 }},
		{0xF2, func(c *CPU) bool { return c.F&flagS == 0 }},
		{0xFA, func(c *CPU) bool { return c.F&flagS != 0 }},
	}
	for _, e := range jpCond {
		test := e.test
		registerMain(e.op, func() []step {
			return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) {
				addr := c.fetchWord(b, master)
				c.memptr = addr
				if test(c) {
					c.PC = addr
				}
			})
		})
	}
	registerMain(0xE9, func() []step { // JP (HL)
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) { c.PC = c.hl() }}
	})

	registerMain(0xCD, func() []step { // CALL nn
		return padSteps(13, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := c.fetchWord(b, master)
			c.memptr = addr
			c.pushWord(b, master, c.PC)
			c.PC = addr
		})
	})
	callCond := []struct {
		op   uint8
		test func(c *CPU) bool
	}{
		{0xC4, jpCond[0].test}, {0xCC, jpCond[1].test}, {0xD4, jpCond[2].test}, {0xDC, jpCond[3].test},
		{0xE4, jpCond[4].test}, {0xEC, jpCond[5].test}, {0xF4, jpCond[6].test}, {0xFC, jpCond[7].test},
	}
	for _, e := range callCond {
		test := e.test
		registerMain(e.op, func() []step {
			return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) {
				addr := c.fetchWord(b, master)
				c.memptr = addr
				if test(c) {
					c.pushWord(b, master, c.PC)
					c.PC = addr
					c.cycles += 7
				}
			})
		})
	}

	registerMain(0xC9, func() []step { // RET
		return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) {
			c.PC = c.pullWord(b, master)
			c.memptr = c.PC
		})
	})
	retCond := []struct {
		op   uint8
		test func(c *CPU) bool
	}{
		{0xC0, jpCond[0].test}, {0xC8, jpCond[1].test}, {0xD0, jpCond[2].test}, {0xD8, jpCond[3].test},
		{0xE0, jpCond[4].test}, {0xE8, jpCond[5].test}, {0xF0, jpCond[6].test}, {0xF8, jpCond[7].test},
	}
	for _, e := range retCond {
		test := e.test
		registerMain(e.op, func() []step {
			return padSteps(1, func(c *CPU, b bus.Bus16, master bus.Master) {
				if test(c) {
					c.PC = c.pullWord(b, master)
					c.memptr = c.PC
					c.cycles += 6
				}
			})
		})
	}

	for i := uint8(0); i < 8; i++ {
		i := i
		registerMain(0xC7|(i<<3), func() []step { // RST
			return padSteps(7, func(c *CPU, b bus.Bus16, master bus.Master) {
				c.pushWord(b, master, c.PC)
				c.PC = uint16(i) * 8
				c.memptr = c.PC
			})
		})
	}
}

func boolBit(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// setRotateAFlags mirrors setFlagsAdd8's undocumented-bit handling for the
// four accumulator rotate instructions: S/Z/PV untouched, H/N cleared,
// X/Y sourced from the new A, C from the bit rotated out.
func (c *CPU) setRotateAFlags(carryOut bool) {
	c.F &^= flagH | flagN | flagX | flagY | flagC
	c.F |= c.A & (flagX | flagY)
	if carryOut {
		c.F |= flagC
	}
	c.q = true
}

func ccf(c *CPU, b bus.Bus16, master bus.Master) {
	carryIn := c.F & flagC
	xy := c.A & (flagX | flagY)
	if c.q {
		xy = (c.A | c.F) & (flagX | flagY)
	}
	c.F = (c.F &^ (flagN | flagH | flagX | flagY | flagC)) | xy
	if carryIn != 0 {
		c.F |= flagH
	} else {
		c.F |= flagC
	}
	c.q = true
}

func scf(c *CPU, b bus.Bus16, master bus.Master) {
	xy := c.A & (flagX | flagY)
	if c.q {
		xy = (c.A | c.F) & (flagX | flagY)
	}
	c.F = (c.F &^ (flagN | flagH | flagX | flagY)) | flagC | xy
	c.q = true
}

func jrOp(test func(c *CPU) bool) func() []step {
	return func() []step {
		return padSteps(3, func(c *CPU, b bus.Bus16, master bus.Master) {
			e := int8(c.fetchByte(b, master))
			if test(c) {
				c.PC = uint16(int32(c.PC) + int32(e))
				c.memptr = c.PC
				c.cycles += 5
			}
		})
	}
}
