package cpu6800

import "github.com/user-none/joustcore/bus"

// The 6800 has no long-branch forms and no page prefixes; all 16 short
// conditional branches live at 0x20-0x2F, same condition encoding/ordering
// cpu6809 inherited for its own 0x20-0x2F row.
var branchNames = [16]string{
	"BRA", "BRN", "BHI", "BLS", "BCC", "BCS", "BNE", "BEQ",
	"BVC", "BVS", "BPL", "BMI", "BGE", "BLT", "BGT", "BLE",
}

func init() {
	for i := 0; i < 16; i++ {
		cond := uint8(i)
		register(0x20+cond, branchNames[i], func(c *CPU, b bus.Bus16, master bus.Master) int {
			offset := int8(c.fetchByte(b, master))
			if c.testCondition(cond) {
				c.PC = uint16(int32(c.PC) + int32(offset))
			}
			return 4
		})
	}

	register(0x8D, "BSR", func(c *CPU, b bus.Bus16, master bus.Master) int {
		offset := int8(c.fetchByte(b, master))
		c.pushWord(b, master, c.PC)
		c.PC = uint16(int32(c.PC) + int32(offset))
		return 8
	})
}
