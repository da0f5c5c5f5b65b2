package cpu6809

import "github.com/user-none/joustcore/bus"

// addrMode names a 6809 addressing mode used by the generic ALU/RMW/load-
// store executors below. Relative modes are handled directly by the branch
// opcodes instead, since their cycle accounting is condition-dependent.
type addrMode uint8

const (
	modeInherent addrMode = iota
	modeImmediate8
	modeImmediate16
	modeDirect
	modeIndexed
	modeExtended
)

// opExec performs every bus transaction and register/flag effect of one
// instruction and returns its total cycle count, including the opcode
// fetch itself (mirroring the teacher's m68k handlers, which fold the
// fetch cost into c.cycles +=). Page-2/3 prefix bytes are charged
// separately at dispatch time (see cpu.go tickFetch), so page2Table/
// page3Table entries list the cycle cost *after* the prefix.
type opExec func(c *CPU, b bus.Bus16, master bus.Master) int

type opcodeEntry struct {
	mnemonic string
	exec     opExec
}

var page1Table [256]opcodeEntry
var page2Table [256]opcodeEntry
var page3Table [256]opcodeEntry

func register1(op uint8, mnemonic string, fn opExec) {
	page1Table[op] = opcodeEntry{mnemonic: mnemonic, exec: fn}
}

func register2(op uint8, mnemonic string, fn opExec) {
	page2Table[op] = opcodeEntry{mnemonic: mnemonic, exec: fn}
}

func register3(op uint8, mnemonic string, fn opExec) {
	page3Table[op] = opcodeEntry{mnemonic: mnemonic, exec: fn}
}

// resolveMemAddr computes the effective address for Direct/Indexed/Extended
// modes along with the mode's extra fetch cycles (beyond the opcode's own
// base cost). Not valid for Inherent/Immediate.
func (c *CPU) resolveMemAddr(b bus.Bus16, master bus.Master, mode addrMode) (uint16, int) {
	switch mode {
	case modeDirect:
		off := c.fetchByte(b, master)
		return uint16(c.DP)<<8 | uint16(off), 1
	case modeIndexed:
		return c.resolveIndexed(b, master)
	case modeExtended:
		return c.fetchWord(b, master), 2
	}
	return 0, 0
}

// Mnemonic looks up the mnemonic registered for an opcode, for the disasm
// package. page is 1, 2, or 3.
func Mnemonic(page int, opcode uint8) string {
	switch page {
	case 2:
		return page2Table[opcode].mnemonic
	case 3:
		return page3Table[opcode].mnemonic
	default:
		return page1Table[opcode].mnemonic
	}
}
