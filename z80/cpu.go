package z80

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user-none/joustcore/bus"
)

type StateKind uint8

const (
	StateFetch StateKind = iota
	StateExecute
	StateHalted
)

type State struct {
	Kind      StateKind
	Opcode    uint8
	Remaining int
}

type prefixKind uint8

const (
	prefixNone prefixKind = iota
	prefixCB
	prefixED
	prefixDD
	prefixFD
)

type step func(c *CPU, b bus.Bus16, master bus.Master)

// CPU is the Z80 processor core.
type CPU struct {
	Registers
	state   State
	opcode  uint8
	cycles  uint64
	program []step
	idx     int
	prefix  prefixKind
	log     zerolog.Logger

	lo, hi  uint8
	addr    uint16
	operand uint8
	disp    int8
}

func New() *CPU {
	c := &CPU{log: log.With().Str("component", "z80").Logger()}
	c.SP = 0xFFFF
	c.state = State{Kind: StateFetch}
	return c
}

func (c *CPU) Reset(b bus.Bus16, master bus.Master) {
	c.PC = 0
	c.SP = 0xFFFF
	c.I, c.R = 0, 0
	c.IFF1, c.IFF2 = false, false
	c.IM = 0
	c.prefix = prefixNone
	c.state = State{Kind: StateFetch}
	c.cycles = 0
}

func (c *CPU) State() State      { return c.state }
func (c *CPU) Cycles() uint64    { return c.cycles }
func (c *CPU) Opcode() uint8     { return c.opcode }
func (c *CPU) ClockDivisor() int { return 1 }
func (c *CPU) Tick() bool        { return false }

// bumpR increments the 7 low bits of R, preserving bit 7, on every M1
// (opcode fetch) cycle including prefix fetches — the behavior LD R,A and
// LD A,R must round-trip intact.
func (c *CPU) bumpR() {
	c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F)
}

func (c *CPU) TickWithBus(b bus.Bus16, master bus.Master) bool {
	if b.IsHaltedFor(master) {
		return false
	}

	if c.state.Kind == StateExecute {
		c.program[c.idx](c, b, master)
		c.idx++
		c.cycles++
		if c.idx >= len(c.program) {
			// A step (HALT) may have already set a different terminal state;
			// only the default case returns to Fetch.
			if c.state.Kind == StateExecute {
				c.state = State{Kind: StateFetch}
			}
			return true
		}
		return false
	}

	if c.state.Kind == StateHalted {
		ir := b.CheckInterrupts(master)
		if ir.NMI || (ir.IRQ && c.IFF1) {
			c.state = State{Kind: StateFetch}
		}
		b.Read(master, c.PC) // HALT keeps fetching and discarding NOPs
		c.cycles++
		return true
	}

	if c.prefix == prefixNone {
		ir := b.CheckInterrupts(master)
		if ir.NMI {
			c.IFF2 = c.IFF1
			c.IFF1 = false
			c.pushWord(b, master, c.PC)
			c.PC = 0x0066
			c.cycles += 11
			return true
		}
		if ir.IRQ && c.IFF1 {
			c.IFF1, c.IFF2 = false, false
			c.pushWord(b, master, c.PC)
			switch c.IM {
			case 0, 1:
				c.PC = 0x0038
			case 2:
				vec := uint16(c.I)<<8 | 0xFF
				lo := b.Read(master, vec)
				hi := b.Read(master, vec+1)
				c.PC = uint16(hi)<<8 | uint16(lo)
			}
			c.cycles += 13
			return true
		}
	}

	op := b.Read(master, c.PC)
	c.PC++
	c.bumpR()
	c.cycles++

	switch c.prefix {
	case prefixNone:
		switch op {
		case 0xCB:
			c.prefix = prefixCB
			return true
		case 0xED:
			c.prefix = prefixED
			return true
		case 0xDD:
			c.prefix = prefixDD
			return true
		case 0xFD:
			c.prefix = prefixFD
			return true
		}
		c.opcode = op
		c.program = buildMain(op)
	case prefixCB:
		c.prefix = prefixNone
		c.opcode = op
		c.program = buildCB(op)
	case prefixED:
		c.prefix = prefixNone
		c.opcode = op
		c.program = edTable(op)
	case prefixDD, prefixFD:
		useIY := c.prefix == prefixFD
		c.prefix = prefixNone
		if op == 0xCB {
			// Indexed bit-op compound plane (DD CB d op / FD CB d op) is not
			// implemented; consume the displacement+opcode bytes as a no-op.
			c.log.Debug().Msg("DDCB/FDCB indexed bit-op plane unimplemented")
			c.program = []step{
				func(c *CPU, b bus.Bus16, master bus.Master) { c.PC++ },
				func(c *CPU, b bus.Bus16, master bus.Master) { c.PC++ },
			}
			break
		}
		c.opcode = op
		c.program = indexedTable(op, useIY)
	}

	if len(c.program) == 0 {
		c.log.Debug().Uint8("opcode", op).Msg("unimplemented opcode treated as NOP")
		c.program = []step{func(c *CPU, b bus.Bus16, master bus.Master) {}}
	}
	c.state = State{Kind: StateExecute, Opcode: op, Remaining: len(c.program)}
	return true
}

func (c *CPU) fetchByte(b bus.Bus16, master bus.Master) uint8 {
	v := b.Read(master, c.PC)
	c.PC++
	return v
}

func (c *CPU) fetchWord(b bus.Bus16, master bus.Master) uint16 {
	lo := c.fetchByte(b, master)
	hi := c.fetchByte(b, master)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) pushByte(b bus.Bus16, master bus.Master, v uint8) {
	c.SP--
	b.Write(master, c.SP, v)
}

func (c *CPU) pullByte(b bus.Bus16, master bus.Master) uint8 {
	v := b.Read(master, c.SP)
	c.SP++
	return v
}

func (c *CPU) pushWord(b bus.Bus16, master bus.Master, v uint16) {
	c.pushByte(b, master, uint8(v>>8))
	c.pushByte(b, master, uint8(v))
}

func (c *CPU) pullWord(b bus.Bus16, master bus.Master) uint16 {
	lo := c.pullByte(b, master)
	hi := c.pullByte(b, master)
	return uint16(hi)<<8 | uint16(lo)
}
