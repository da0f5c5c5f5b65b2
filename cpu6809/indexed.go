package cpu6809

import "github.com/user-none/joustcore/bus"

// indexRegister returns a pointer to the register selected by a postbyte's
// register-select field (bits 6-5): 00=X, 01=Y, 10=U, 11=S.
func (c *CPU) indexRegister(sel uint8) *uint16 {
	switch sel & 3 {
	case 0:
		return &c.X
	case 1:
		return &c.Y
	case 2:
		return &c.U
	default:
		return &c.S
	}
}

// resolveIndexed decodes a 6809 indexed-addressing postbyte and returns the
// effective address plus the extra bus cycles the submode costs beyond the
// opcode's own base cycle count (spec §4.3.2: "indexed addressing resolves
// a postbyte that encodes one of approximately two dozen sub-modes").
//
// Reserved postbyte encodings (spec §9 open question) are treated as
// no-ops: the effective address returned is the current PC and zero extra
// cycles are charged, matching the documented "execute as no-op with
// datasheet cycle count" policy — callers still charge the base opcode
// cost, so the instruction as a whole behaves like a same-size NOP.
func (c *CPU) resolveIndexed(b bus.Bus16, master bus.Master) (uint16, int) {
	post := c.fetchByte(b, master)

	if post&0x80 == 0 {
		// 5-bit constant offset, no indirect.
		reg := c.indexRegister(post >> 5)
		disp := int8(post<<3) >> 3 // sign-extend the low 5 bits
		return uint16(int32(*reg) + int32(disp)), 1
	}

	regSel := (post >> 5) & 3
	indirect := post&0x10 != 0
	var addr uint16
	extra := 0

	switch post & 0x0F {
	case 0x0: // ,R+ (post-increment by 1) — no indirect
		reg := c.indexRegister(regSel)
		addr = *reg
		*reg++
		extra = 2
	case 0x1: // ,R++ (post-increment by 2)
		reg := c.indexRegister(regSel)
		addr = *reg
		*reg += 2
		extra = 3
	case 0x2: // ,-R (pre-decrement by 1) — no indirect
		reg := c.indexRegister(regSel)
		*reg--
		addr = *reg
		extra = 2
	case 0x3: // ,--R (pre-decrement by 2)
		reg := c.indexRegister(regSel)
		*reg -= 2
		addr = *reg
		extra = 3
	case 0x4: // ,R (zero offset)
		addr = *c.indexRegister(regSel)
		extra = 0
	case 0x5: // B,R (accumulator offset)
		addr = uint16(int32(*c.indexRegister(regSel)) + int32(int8(c.B)))
		extra = 1
	case 0x6: // A,R (accumulator offset)
		addr = uint16(int32(*c.indexRegister(regSel)) + int32(int8(c.A)))
		extra = 1
	case 0x8: // n8,R
		disp := int8(c.fetchByte(b, master))
		addr = uint16(int32(*c.indexRegister(regSel)) + int32(disp))
		extra = 1
	case 0x9: // n16,R
		disp := int16(c.fetchWord(b, master))
		addr = uint16(int32(*c.indexRegister(regSel)) + int32(disp))
		extra = 4
	case 0xB: // D,R (accumulator offset)
		addr = uint16(int32(*c.indexRegister(regSel)) + int32(int16(c.D())))
		extra = 4
	case 0xC: // n8,PC
		disp := int8(c.fetchByte(b, master))
		addr = uint16(int32(c.PC) + int32(disp))
		extra = 1
	case 0xD: // n16,PC
		disp := int16(c.fetchWord(b, master))
		addr = uint16(int32(c.PC) + int32(disp))
		extra = 5
	case 0xF: // [n16] extended indirect (always indirect, register ignored)
		addr = c.fetchWord(b, master)
		extra = 2
		indirect = true
	default:
		// Reserved postbyte (0x7, 0xA, 0xE): treated as a no-op per §9.
		return c.PC, 0
	}

	if indirect {
		hi := b.Read(master, addr)
		lo := b.Read(master, addr+1)
		addr = uint16(hi)<<8 | uint16(lo)
		extra += 3
	}

	return addr, extra
}
