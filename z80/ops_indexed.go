package z80

import "github.com/user-none/joustcore/bus"

// indexedTable builds the DD- or FD-prefixed program for op, substituting
// IX or IY for HL per useIY. Only the (index+d) memory forms and the whole-
// register loads/arithmetic are implemented; the undocumented IXH/IXL/IYH/IYL
// half-register opcodes are left unimplemented and fall through to the
// shared "treated as NOP" debug path in CPU.TickWithBus.
func indexedTable(op uint8, useIY bool) []step {
	ixGet := func(c *CPU) uint16 {
		if useIY {
			return c.IY
		}
		return c.IX
	}
	ixSet := func(c *CPU, v uint16) {
		if useIY {
			c.IY = v
		} else {
			c.IX = v
		}
	}

	switch op {
	case 0x21: // LD IX,nn
		return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) {
			ixSet(c, c.fetchWord(b, master))
		})
	case 0x22: // LD (nn),IX
		return padSteps(12, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := c.fetchWord(b, master)
			v := ixGet(c)
			b.Write(master, addr, uint8(v))
			b.Write(master, addr+1, uint8(v>>8))
			c.memptr = addr + 1
		})
	case 0x2A: // LD IX,(nn)
		return padSteps(12, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := c.fetchWord(b, master)
			lo := b.Read(master, addr)
			hi := b.Read(master, addr+1)
			ixSet(c, uint16(hi)<<8|uint16(lo))
			c.memptr = addr + 1
		})
	case 0x23: // INC IX
		return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) { ixSet(c, ixGet(c)+1) })
	case 0x2B: // DEC IX
		return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) { ixSet(c, ixGet(c)-1) })
	case 0x09, 0x19, 0x29, 0x39: // ADD IX,rr
		return padSteps(11, func(c *CPU, b bus.Bus16, master bus.Master) {
			var operand uint16
			switch op {
			case 0x09:
				operand = c.bc()
			case 0x19:
				operand = c.de()
			case 0x29:
				operand = ixGet(c)
			case 0x39:
				operand = c.SP
			}
			ix := ixGet(c)
			result := uint32(ix) + uint32(operand)
			c.F &^= flagN | flagC | flagH | flagX | flagY
			if (ix&0x0FFF)+(operand&0x0FFF) > 0x0FFF {
				c.F |= flagH
			}
			if result > 0xFFFF {
				c.F |= flagC
			}
			c.F |= uint8(result>>8) & (flagX | flagY)
			ixSet(c, uint16(result))
			c.memptr = ix + 1
		})
	case 0xE1: // POP IX
		return padSteps(6, func(c *CPU, b bus.Bus16, master bus.Master) { ixSet(c, c.pullWord(b, master)) })
	case 0xE5: // PUSH IX
		return padSteps(7, func(c *CPU, b bus.Bus16, master bus.Master) { c.pushWord(b, master, ixGet(c)) })
	case 0xE3: // EX (SP),IX
		return padSteps(15, func(c *CPU, b bus.Bus16, master bus.Master) {
			lo := b.Read(master, c.SP)
			hi := b.Read(master, c.SP+1)
			v := ixGet(c)
			b.Write(master, c.SP, uint8(v))
			b.Write(master, c.SP+1, uint8(v>>8))
			ixSet(c, uint16(hi)<<8|uint16(lo))
			c.memptr = ixGet(c)
		})
	case 0xE9: // JP (IX)
		return []step{func(c *CPU, b bus.Bus16, master bus.Master) { c.PC = ixGet(c) }}
	case 0xF9: // LD SP,IX
		return padSteps(2, func(c *CPU, b bus.Bus16, master bus.Master) { c.SP = ixGet(c) })
	case 0x34: // INC (IX+d)
		return padSteps(11, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := indexedAddr(c, b, master, ixGet(c))
			before := b.Read(master, addr)
			after := before + 1
			b.Write(master, addr, after)
			c.setFlagsIncDec8(before, after, true)
		})
	case 0x35: // DEC (IX+d)
		return padSteps(11, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := indexedAddr(c, b, master, ixGet(c))
			before := b.Read(master, addr)
			after := before - 1
			b.Write(master, addr, after)
			c.setFlagsIncDec8(before, after, false)
		})
	case 0x36: // LD (IX+d),n
		return padSteps(11, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := indexedAddr(c, b, master, ixGet(c))
			v := c.fetchByte(b, master)
			b.Write(master, addr, v)
		})
	}

	// LD r,(IX+d) / LD (IX+d),r — 01 ddd sss with exactly one of ddd/sss == 6.
	if op >= 0x40 && op <= 0x7E && op != 0x76 {
		dst, src := (op>>3)&7, op&7
		if dst == 6 { // LD (IX+d),r
			get := reg8Get(src)
			return padSteps(9, func(c *CPU, b bus.Bus16, master bus.Master) {
				addr := indexedAddr(c, b, master, ixGet(c))
				v := get(c, b, master)
				b.Write(master, addr, v)
			})
		}
		if src == 6 { // LD r,(IX+d)
			set := reg8Set(dst)
			return padSteps(9, func(c *CPU, b bus.Bus16, master bus.Master) {
				addr := indexedAddr(c, b, master, ixGet(c))
				v := b.Read(master, addr)
				set(c, b, master, v)
			})
		}
	}

	// ALU A,(IX+d) — 10 ooo 110
	if op >= 0x80 && op <= 0xBE && op&7 == 6 {
		o := (op >> 3) & 7
		return padSteps(9, func(c *CPU, b bus.Bus16, master bus.Master) {
			addr := indexedAddr(c, b, master, ixGet(c))
			operand := b.Read(master, addr)
			aluOps[o](c, operand)
		})
	}

	return nil
}

// indexedAddr fetches the displacement byte and sets MEMPTR to the
// resulting address, as real Z80 (IX+d)/(IY+d) addressing does.
func indexedAddr(c *CPU, b bus.Bus16, master bus.Master, base uint16) uint16 {
	d := int8(c.fetchByte(b, master))
	addr := uint16(int32(base) + int32(d))
	c.memptr = addr
	return addr
}
