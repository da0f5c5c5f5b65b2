package z80

import "github.com/user-none/joustcore/bus"

// The ED-prefixed extended plane: a representative subset covering the
// interrupt/refresh registers, IM, RETN/RETI, 16-bit ADC/SBC HL,rr,
// extended 16-bit memory loads, and the block-copy/compare group's single
// and repeating forms.
var edOps = map[uint8]func() []step{}

func edTable(op uint8) []step {
	build, ok := edOps[op]
	if !ok {
		return nil
	}
	return build()
}

func init() {
	edOps[0x44] = func() []step { // NEG
		return padSteps(2, func(c *CPU, b bus.Bus16, master bus.Master) {
			before := c.A
			c.A = c.setFlagsAdd8(0, before, 0, false)
		})
	}
	edOps[0x46] = func() []step { return padSteps(2, func(c *CPU, b bus.Bus16, master bus.Master) { c.IM = 0 }) }
	edOps[0x56] = func() []step { return padSteps(2, func(c *CPU, b bus.Bus16, master bus.Master) { c.IM = 1 }) }
	edOps[0x5E] = func() []step { return padSteps(2, func(c *CPU, b bus.Bus16, master bus.Master) { c.IM = 2 }) }

	edOps[0x47] = func() []step { // LD I,A
		return padSteps(5, func(c *CPU, b bus.Bus16, master bus.Master) { c.I = c.A })
	}
	edOps[0x4F] = func() []step { // LD R,A
		return padSteps(5, func(c *CPU, b bus.Bus16, master bus.Master) { c.R = c.A })
	}
	edOps[0x57] = func() []step { // LD A,I
		return padSteps(5, func(c *CPU, b bus.Bus16, master bus.Master) {
			c.A = c.I
			c.F &^= flagS | flagZ | flagH | flagPV | flagN | flagX | flagY
			if c.A&0x80 != 0 {
				c.F |= flagS
			}
			if c.A == 0 {
				c.F |= flagZ
			}
			if c.IFF2 {
				c.F |= flagPV
			}
			c.F |= c.A & (flagX | flagY)
			c.q = true
		})
	}
	edOps[0x5F] = func() []step { // LD A,R
		return padSteps(5, func(c *CPU, b bus.Bus16, master bus.Master) {
			c.A = c.R
			c.F &^= flagS | flagZ | flagH | flagPV | flagN | flagX | flagY
			if c.A&0x80 != 0 {
				c.F |= flagS
			}
			if c.A == 0 {
				c.F |= flagZ
			}
			if c.IFF2 {
				c.F |= flagPV
			}
			c.F |= c.A & (flagX | flagY)
			c.q = true
		})
	}

	retn := func() []step {
		return padSteps(10, func(c *CPU, b bus.Bus16, master bus.Master) {
			c.PC = c.pullWord(b, master)
			c.IFF1 = c.IFF2
			c.memptr = c.PC
		})
	}
	edOps[0x45] = retn // RETN
	edOps[0x4D] = retn // RETI (same behavior modeled here; distinguished for debuggers/peripherals only)

	pairGet := map[uint8]func(c *CPU) uint16{
		0x42: func(c *CPU) uint16 { return c.bc() },
		0x52: func(c *CPU) uint16 { return c.de() },
		0x62: func(c *CPU) uint16 { return c.hl() },
		0x72: func(c *CPU) uint16 { return c.SP },
		0x4A: func(c *CPU) uint16 { return c.bc() },
		0x5A: func(c *CPU) uint16 { return c.de() },
		0x6A: func(c *CPU) uint16 { return c.hl() },
		0x7A: func(c *CPU) uint16 { return c.SP },
	}
	for op, get := range pairGet {
		op, get := op, get
		isAdc := op&0x08 != 0
		edOps[op] = func() []step {
			return padSteps(15, func(c *CPU, b bus.Bus16, master bus.Master) {
				hl := c.hl()
				operand := get(c)
				cin := uint8(0)
				if c.F&flagC != 0 {
					cin = 1
				}
				var result uint16
				if isAdc {
					full := uint32(hl) + uint32(operand) + uint32(cin)
					result = uint16(full)
					c.F &^= flagS | flagZ | flagH | flagPV | flagN | flagX | flagY | flagC
					if result&0x8000 != 0 {
						c.F |= flagS
					}
					if result == 0 {
						c.F |= flagZ
					}
					if (hl&0x0FFF)+(operand&0x0FFF)+uint16(cin) > 0x0FFF {
						c.F |= flagH
					}
					if (hl^operand^0x8000)&(operand^result)&0x8000 != 0 {
						c.F |= flagPV
					}
					if full > 0xFFFF {
						c.F |= flagC
					}
				} else {
					full := int32(hl) - int32(operand) - int32(cin)
					result = uint16(full)
					c.F &^= flagS | flagZ | flagH | flagPV | flagX | flagY | flagC
					c.F |= flagN
					if result&0x8000 != 0 {
						c.F |= flagS
					}
					if result == 0 {
						c.F |= flagZ
					}
					if int32(hl&0x0FFF)-int32(operand&0x0FFF)-int32(cin) < 0 {
						c.F |= flagH
					}
					if (hl^operand)&(hl^result)&0x8000 != 0 {
						c.F |= flagPV
					}
					if full < 0 {
						c.F |= flagC
					}
				}
				c.F |= uint8(result>>8) & (flagX | flagY)
				c.setHL(result)
				c.memptr = hl + 1
				c.q = true
			})
		}
	}

	extLoad := []struct {
		store, load uint8
		get         func(c *CPU) uint16
		set         func(c *CPU, v uint16)
	}{
		{0x43, 0x4B, func(c *CPU) uint16 { return c.bc() }, func(c *CPU, v uint16) { c.setBC(v) }},
		{0x53, 0x5B, func(c *CPU) uint16 { return c.de() }, func(c *CPU, v uint16) { c.setDE(v) }},
		{0x73, 0x7B, func(c *CPU) uint16 { return c.SP }, func(c *CPU, v uint16) { c.SP = v }},
	}
	for _, e := range extLoad {
		get, set := e.get, e.set
		edOps[e.store] = func() []step {
			return padSteps(16, func(c *CPU, b bus.Bus16, master bus.Master) {
				addr := c.fetchWord(b, master)
				v := get(c)
				b.Write(master, addr, uint8(v))
				b.Write(master, addr+1, uint8(v>>8))
				c.memptr = addr + 1
			})
		}
		edOps[e.load] = func() []step {
			return padSteps(16, func(c *CPU, b bus.Bus16, master bus.Master) {
				addr := c.fetchWord(b, master)
				lo := b.Read(master, addr)
				hi := b.Read(master, addr+1)
				set(c, uint16(hi)<<8|uint16(lo))
				c.memptr = addr + 1
			})
		}
	}

	edOps[0xA0] = func() []step { return padSteps(12, ldiStep) }  // LDI
	edOps[0xA8] = func() []step { return padSteps(12, lddStep) }  // LDD
	edOps[0xB0] = func() []step { return padSteps(12, ldirStep) } // LDIR
	edOps[0xB8] = func() []step { return padSteps(12, lddrStep) } // LDDR

	edOps[0xA1] = func() []step { return padSteps(12, cpiStep) }  // CPI
	edOps[0xA9] = func() []step { return padSteps(12, cpdStep) }  // CPD
	edOps[0xB1] = func() []step { return padSteps(12, cpirStep) } // CPIR
	edOps[0xB9] = func() []step { return padSteps(12, cpdrStep) } // CPDR
}

func ldiCommon(c *CPU, b bus.Bus16, master bus.Master, dir int16) {
	v := b.Read(master, c.hl())
	b.Write(master, c.de(), v)
	c.setHL(c.hl() + uint16(dir))
	c.setDE(c.de() + uint16(dir))
	c.setBC(c.bc() - 1)
	c.F &^= flagN | flagH | flagX | flagY | flagPV
	if c.bc() != 0 {
		c.F |= flagPV
	}
	n := v + c.A
	c.F |= n & flagX
	if n&0x02 != 0 {
		c.F |= flagY
	}
	c.q = true
}

func ldiStep(c *CPU, b bus.Bus16, master bus.Master) { ldiCommon(c, b, master, 1) }
func lddStep(c *CPU, b bus.Bus16, master bus.Master) { ldiCommon(c, b, master, -1) }

func ldirStep(c *CPU, b bus.Bus16, master bus.Master) {
	ldiCommon(c, b, master, 1)
	if c.bc() != 0 {
		c.PC -= 2
		c.memptr = c.PC + 1
		c.cycles += 5
	}
}

func lddrStep(c *CPU, b bus.Bus16, master bus.Master) {
	ldiCommon(c, b, master, -1)
	if c.bc() != 0 {
		c.PC -= 2
		c.memptr = c.PC + 1
		c.cycles += 5
	}
}

func cpiCommon(c *CPU, b bus.Bus16, master bus.Master, dir int16) {
	v := b.Read(master, c.hl())
	result := c.A - v
	halfBorrow := (c.A & 0x0F) < (v & 0x0F)
	c.setHL(c.hl() + uint16(dir))
	c.setBC(c.bc() - 1)
	c.F &^= flagS | flagZ | flagH | flagPV | flagX | flagY
	c.F |= flagN
	if result&0x80 != 0 {
		c.F |= flagS
	}
	if result == 0 {
		c.F |= flagZ
	}
	if halfBorrow {
		c.F |= flagH
	}
	if c.bc() != 0 {
		c.F |= flagPV
	}
	n := result
	if halfBorrow {
		n--
	}
	c.F |= n & flagX
	if n&0x02 != 0 {
		c.F |= flagY
	}
	c.memptr += uint16(dir)
	c.q = true
}

func cpiStep(c *CPU, b bus.Bus16, master bus.Master) { cpiCommon(c, b, master, 1) }
func cpdStep(c *CPU, b bus.Bus16, master bus.Master) { cpiCommon(c, b, master, -1) }

func cpirStep(c *CPU, b bus.Bus16, master bus.Master) {
	cpiCommon(c, b, master, 1)
	if c.bc() != 0 && c.F&flagZ == 0 {
		c.PC -= 2
		c.memptr = c.PC + 1
		c.cycles += 5
	}
}

func cpdrStep(c *CPU, b bus.Bus16, master bus.Master) {
	cpiCommon(c, b, master, -1)
	if c.bc() != 0 && c.F&flagZ == 0 {
		c.PC -= 2
		c.memptr = c.PC + 1
		c.cycles += 5
	}
}
