package cpu6809

import "github.com/user-none/joustcore/bus"

func init() {
	// Short conditional branches, 0x20-0x2F: cond = low nibble of the opcode.
	// All cost 3 cycles regardless of outcome (spec §4.3.1 branch timing).
	for op := 0x20; op <= 0x2F; op++ {
		cond := uint8(op & 0x0F)
		register1(uint8(op), branchMnemonic(cond, false), func(c *CPU, b bus.Bus16, master bus.Master) int {
			disp := int8(c.fetchByte(b, master))
			if c.testCondition(cond) {
				c.PC = uint16(int32(c.PC) + int32(disp))
			}
			return 3
		})
	}

	register1(0x16, "LBRA", func(c *CPU, b bus.Bus16, master bus.Master) int {
		disp := int16(c.fetchWord(b, master))
		c.PC = uint16(int32(c.PC) + int32(disp))
		return 5
	})
	register1(0x17, "LBSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		disp := int16(c.fetchWord(b, master))
		ret := c.PC
		c.PC = uint16(int32(c.PC) + int32(disp))
		c.pushWord(b, master, &c.S, ret)
		return 9
	})
	register1(0x8D, "BSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		disp := int8(c.fetchByte(b, master))
		ret := c.PC
		c.PC = uint16(int32(c.PC) + int32(disp))
		c.pushWord(b, master, &c.S, ret)
		return 7
	})

	// Long conditional branches, page2 0x21-0x2F (no LBRA/LBRN-always slot at
	// 0x20 — that role is covered by page1 LBRA/LBSR above). Cost excludes
	// the prefix byte, charged separately at dispatch (cpu.go tickFetch).
	for op := 0x21; op <= 0x2F; op++ {
		cond := uint8(op & 0x0F)
		register2(uint8(op), branchMnemonic(cond, true), func(c *CPU, b bus.Bus16, master bus.Master) int {
			disp := int16(c.fetchWord(b, master))
			if c.testCondition(cond) {
				c.PC = uint16(int32(c.PC) + int32(disp))
				return 5
			}
			return 4
		})
	}
}

func branchMnemonic(cond uint8, long bool) string {
	names := [...]string{
		"BRA", "BRN", "BHI", "BLS", "BHS", "BLO", "BNE", "BEQ",
		"BVC", "BVS", "BPL", "BMI", "BGE", "BLT", "BGT", "BLE",
	}
	mn := names[cond]
	if long {
		return "L" + mn
	}
	return mn
}
