package cpu6800

import "github.com/user-none/joustcore/bus"

type addrMode uint8

const (
	modeInherent addrMode = iota
	modeImmediate8
	modeImmediate16
	modeDirect
	modeIndexed
	modeExtended
)

type opExec func(c *CPU, b bus.Bus16, master bus.Master) int

type opcodeEntry struct {
	mnemonic string
	exec     opExec
}

var page [256]opcodeEntry

func register(op uint8, mnemonic string, fn opExec) {
	page[op] = opcodeEntry{mnemonic: mnemonic, exec: fn}
}

// resolveMemAddr computes the effective address for Direct/Indexed/Extended.
// Indexed addressing on the 6800 is a single flavor: an unsigned 8-bit
// offset added to X — no postbyte, no accumulator offsets, no indirection
// (spec §4.3.7's "8-bit unsigned-only indexed offsets" family difference).
func (c *CPU) resolveMemAddr(b bus.Bus16, master bus.Master, mode addrMode) (uint16, int) {
	switch mode {
	case modeDirect:
		off := c.fetchByte(b, master)
		return uint16(off), 1
	case modeIndexed:
		off := c.fetchByte(b, master)
		return c.X + uint16(off), 2
	case modeExtended:
		return c.fetchWord(b, master), 2
	}
	return 0, 0
}
