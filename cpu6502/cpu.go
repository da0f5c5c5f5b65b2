package cpu6502

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user-none/joustcore/bus"
)

type StateKind uint8

const (
	StateFetch StateKind = iota
	StateExecute
)

type State struct {
	Kind      StateKind
	Opcode    uint8
	Remaining int
}

// step is one bus cycle's worth of work. Every step performs exactly one
// Read or Write (or, for the handful of genuinely bus-silent 6502 cycles —
// there are none in NMOS hardware — it would perform a dummy read instead).
type step func(c *CPU, b bus.Bus16, master bus.Master)

// CPU is the MOS 6502 processor core.
type CPU struct {
	Registers
	state   State
	opcode  uint8
	cycles  uint64
	program []step
	idx     int
	log     zerolog.Logger

	// scratch, reused across the lifetime of one instruction's program
	lo, hi  uint8
	addr    uint16
	base    uint16
	operand uint8
}

func New() *CPU {
	c := &CPU{log: log.With().Str("component", "cpu6502").Logger()}
	c.SP = 0xFD
	c.P = flagUnused | flagI
	c.state = State{Kind: StateFetch}
	return c
}

func (c *CPU) Reset(b bus.Bus16, master bus.Master) {
	lo := b.Read(master, 0xFFFC)
	hi := b.Read(master, 0xFFFD)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.SP -= 3
	c.P |= flagI
	c.state = State{Kind: StateFetch}
	c.cycles = 0
}

func (c *CPU) State() State      { return c.state }
func (c *CPU) Cycles() uint64    { return c.cycles }
func (c *CPU) Opcode() uint8     { return c.opcode }
func (c *CPU) ClockDivisor() int { return 1 }
func (c *CPU) Tick() bool        { return false }

func (c *CPU) TickWithBus(b bus.Bus16, master bus.Master) bool {
	if b.IsHaltedFor(master) {
		return false
	}

	if c.state.Kind == StateExecute {
		c.program[c.idx](c, b, master)
		c.idx++
		c.cycles++
		if c.idx >= len(c.program) {
			c.state = State{Kind: StateFetch}
			return true
		}
		return false
	}

	ir := b.CheckInterrupts(master)
	if ir.NMI {
		c.beginInterrupt(b, master, 0xFFFA)
		c.cycles += 7
		return true
	}
	if ir.IRQ && c.P&flagI == 0 {
		c.beginInterrupt(b, master, 0xFFFE)
		c.cycles += 7
		return true
	}

	op := b.Read(master, c.PC)
	c.PC++
	c.opcode = op
	c.cycles++

	c.program = buildProgram(op)
	c.idx = 0
	if len(c.program) == 0 {
		c.log.Debug().Uint8("opcode", op).Msg("unimplemented opcode treated as NOP")
		c.program = []step{func(c *CPU, b bus.Bus16, master bus.Master) { _ = b.Read(master, c.PC) }}
	}
	c.state = State{Kind: StateExecute, Opcode: op, Remaining: len(c.program)}
	return true
}

// beginInterrupt pushes PC/P and vectors PC to the given address. The real
// 7-cycle sequence (2 dead cycles, PCH, PCL, P, vector low, vector high) is
// collapsed into one accounting step here rather than cycle-stepped like the
// opcode paths below — a documented simplification (see DESIGN.md) since
// interrupt entry isn't part of the single-step opcode vector set.
func (c *CPU) beginInterrupt(b bus.Bus16, master bus.Master, vec uint16) {
	c.pushByte(b, master, uint8(c.PC>>8))
	c.pushByte(b, master, uint8(c.PC))
	c.pushByte(b, master, c.P&^flagB|flagUnused)
	c.P |= flagI
	lo := b.Read(master, vec)
	hi := b.Read(master, vec+1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) pushByte(b bus.Bus16, master bus.Master, v uint8) {
	b.Write(master, 0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pullByte(b bus.Bus16, master bus.Master) uint8 {
	c.SP++
	return b.Read(master, 0x0100|uint16(c.SP))
}
