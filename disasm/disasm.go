// Package disasm renders 6809 machine code as mnemonic text, in the style of
// a classic table-driven disassembler (grounded on the NES 6502
// disassembler's opcode-name/operand-length table approach).
package disasm

import (
	"fmt"

	"github.com/user-none/joustcore/cpu6809"
)

// operandLen reports how many bytes follow the opcode byte on the given
// page, based on the addressing mode the opcode map uses for that slot.
// Indexed-mode postbytes can themselves consume additional bytes (8/16-bit
// offsets, extended-indirect words); this table reports only the mandatory
// postbyte, so a few indexed instructions disassemble with their trailing
// offset bytes shown as the start of the next instruction. Exact indexed
// decode would require re-running the postbyte logic from cpu6809, which
// isn't exported — an acceptable limitation for a trace/debug tool.
func operandLen(page int, op uint8) int {
	switch page {
	case 2, 3:
		switch {
		case op >= 0x21 && op <= 0x2F: // LBcc
			return 2
		case op == 0x3F: // SWI2/SWI3
			return 0
		case op == 0x83, op == 0x8C, op == 0x8E, op == 0xCE: // imm16 forms
			return 2
		case op == 0x93, op == 0x9C, op == 0x9E, op == 0x9F,
			op == 0xDE, op == 0xDF: // direct
			return 1
		case op == 0xA3, op == 0xAC, op == 0xAE, op == 0xAF,
			op == 0xEE, op == 0xEF: // indexed (postbyte only)
			return 1
		case op == 0xB3, op == 0xBC, op == 0xBE, op == 0xBF,
			op == 0xFE, op == 0xFF: // extended
			return 2
		}
		return 0
	default:
		switch {
		case op <= 0x0F:
			return 1 // direct RMW/JMP
		case op == 0x16, op == 0x17:
			return 2 // LBRA/LBSR
		case op == 0x1A, op == 0x1C, op == 0x1E, op == 0x1F:
			return 1 // ORCC/ANDCC imm8, EXG/TFR postbyte
		case op >= 0x20 && op <= 0x2F:
			return 1 // short branches + BSR is handled below
		case op >= 0x30 && op <= 0x37:
			return 1 // LEA/PSH/PUL postbyte
		case op == 0x3C:
			return 1 // CWAI imm8
		case op >= 0x40 && op <= 0x5F:
			return 0 // inherent A/B RMW
		case op >= 0x60 && op <= 0x6F:
			return 1 // indexed RMW/JMP
		case op >= 0x70 && op <= 0x7F:
			return 2 // extended RMW/JMP
		case op >= 0x80 && op <= 0x8F:
			if op == 0x83 || op == 0x8C || op == 0x8E {
				return 2
			}
			return 1
		case op >= 0x90 && op <= 0x9F:
			return 1 // direct
		case op >= 0xA0 && op <= 0xAF:
			return 1 // indexed
		case op >= 0xB0 && op <= 0xBF:
			return 2 // extended
		case op >= 0xC0 && op <= 0xCF:
			if op == 0xC3 || op == 0xCC || op == 0xCE {
				return 2
			}
			return 1
		case op >= 0xD0 && op <= 0xDF:
			return 1
		case op >= 0xE0 && op <= 0xEF:
			return 1
		case op >= 0xF0 && op <= 0xFF:
			return 2
		}
		return 0
	}
}

// Instruction is one decoded instruction: its address, raw bytes, and
// rendered text.
type Instruction struct {
	Addr  uint16
	Bytes []byte
	Text  string
}

// Decode disassembles one instruction starting at mem[pc], returning the
// instruction and the address of the next one. mem is the full address
// space (e.g. a snapshot of board RAM/ROM), read directly rather than
// through the bus so disassembly has no side effects on device state.
func Decode(mem []byte, pc uint16) Instruction {
	start := pc
	read := func() uint8 {
		v := mem[int(pc)%len(mem)]
		pc++
		return v
	}

	page := 1
	op := read()
	switch op {
	case 0x10:
		page = 2
		op = read()
	case 0x11:
		page = 3
		op = read()
	}

	mn := cpu6809.Mnemonic(page, op)
	if mn == "" {
		mn = fmt.Sprintf("???($%02X)", op)
	}

	n := operandLen(page, op)
	operand := make([]byte, n)
	for i := 0; i < n; i++ {
		operand[i] = read()
	}

	text := mn
	switch n {
	case 1:
		text = fmt.Sprintf("%-6s $%02X", mn, operand[0])
	case 2:
		text = fmt.Sprintf("%-6s $%02X%02X", mn, operand[0], operand[1])
	}

	return Instruction{
		Addr:  start,
		Bytes: mem[int(start):int(pc)],
		Text:  text,
	}
}

// DecodeRange disassembles count instructions starting at pc.
func DecodeRange(mem []byte, pc uint16, count int) []Instruction {
	out := make([]Instruction, 0, count)
	for i := 0; i < count; i++ {
		ins := Decode(mem, pc)
		out = append(out, ins)
		pc = ins.Addr + uint16(len(ins.Bytes))
	}
	return out
}
