// Package cpu6800 implements a Motorola 6800 core: the MC6809's ancestor and
// a secondary emulation target (spec §4.3.7 family differences). Differences
// from cpu6809 this core models: a single opcode page, no DP/Y/U registers
// (X is the only index register), 8-bit unsigned-only indexed offsets, CC
// bits 6-7 always read as 1, a 4-cycle INX/DEX, and TST clearing C as well
// as V. Right shifts leave V alone and DAA clears V, as on the 6809.
package cpu6800

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user-none/joustcore/bus"
)

// Registers holds the 6800's programmer-visible state: A, B, X, SP, PC, CC.
// There is no D pseudo-register, no DP, and only one index register.
type Registers struct {
	A, B uint8
	X    uint16
	SP   uint16
	PC   uint16
	CC   uint8
}

const (
	flagC uint8 = 1 << iota
	flagV
	flagZ
	flagN
	flagI
	flagH
	// Bits 6 and 7 are unused on the 6800 and always read back as 1.
)

const ccUnusedBits = 0xC0

type StateKind uint8

const (
	StateFetch StateKind = iota
	StateExecute
	StateHalted
	StateWaitForInterrupt
)

type State struct {
	Kind      StateKind
	Opcode    uint8
	Remaining int
}

// CPU is the MC6800 processor core.
type CPU struct {
	Registers
	state   State
	opcode  uint8
	cycles  uint64
	waiting bool
	log     zerolog.Logger
}

func New() *CPU {
	c := &CPU{log: log.With().Str("component", "cpu6800").Logger()}
	c.CC = flagI | ccUnusedBits
	c.state = State{Kind: StateFetch}
	return c
}

func (c *CPU) Reset(b bus.Bus16, master bus.Master) {
	hi := b.Read(master, 0xFFFE)
	lo := b.Read(master, 0xFFFF)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.CC = flagI | ccUnusedBits
	c.state = State{Kind: StateFetch}
	c.cycles = 0
}

func (c *CPU) State() State       { return c.state }
func (c *CPU) Cycles() uint64     { return c.cycles }
func (c *CPU) Opcode() uint8      { return c.opcode }
func (c *CPU) ClockDivisor() int  { return 1 }
func (c *CPU) Tick() bool         { return false }

func (c *CPU) TickWithBus(b bus.Bus16, master bus.Master) bool {
	if b.IsHaltedFor(master) {
		return false
	}
	switch c.state.Kind {
	case StateWaitForInterrupt:
		ir := b.CheckInterrupts(master)
		if ir.IRQ && c.CC&flagI == 0 {
			c.waiting = false
			n := c.enterInterrupt(b, master, 0xFFF8, true)
			c.cycles += uint64(n)
			c.state = State{Kind: StateFetch}
			return true
		}
		if ir.NMI {
			c.waiting = false
			n := c.enterInterrupt(b, master, 0xFFFC, true)
			c.cycles += uint64(n)
			c.state = State{Kind: StateFetch}
			return true
		}
		return false
	case StateExecute:
		c.state.Remaining--
		if c.state.Remaining <= 0 {
			c.state = State{Kind: StateFetch}
			return true
		}
		return false
	}

	ir := b.CheckInterrupts(master)
	if ir.NMI {
		n := c.enterInterrupt(b, master, 0xFFFC, false)
		c.cycles += uint64(n)
		c.state = State{Kind: StateExecute, Remaining: n - 1}
		return true
	}
	if ir.IRQ && c.CC&flagI == 0 {
		n := c.enterInterrupt(b, master, 0xFFF8, false)
		c.cycles += uint64(n)
		c.state = State{Kind: StateExecute, Remaining: n - 1}
		return true
	}

	op := c.fetchByte(b, master)
	c.opcode = op
	entry := &page[op]
	n := 2
	if entry.exec == nil {
		c.log.Debug().Uint8("opcode", op).Msg("unimplemented opcode treated as NOP")
	} else {
		n = entry.exec(c, b, master)
	}
	c.cycles += uint64(n)
	if n <= 1 {
		c.state = State{Kind: StateFetch}
	} else {
		c.state = State{Kind: StateExecute, Opcode: op, Remaining: n - 1}
	}
	return true
}

func (c *CPU) enterInterrupt(b bus.Bus16, master bus.Master, vec uint16, fromWAI bool) int {
	if !fromWAI {
		c.pushWord(b, master, c.PC)
		c.pushWord(b, master, c.X)
		c.pushByte(b, master, c.A)
		c.pushByte(b, master, c.B)
		c.pushByte(b, master, c.CC)
	}
	c.CC |= flagI
	hi := b.Read(master, vec)
	lo := b.Read(master, vec+1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	return 12
}

func (c *CPU) fetchByte(b bus.Bus16, master bus.Master) uint8 {
	v := b.Read(master, c.PC)
	c.PC++
	return v
}

func (c *CPU) fetchWord(b bus.Bus16, master bus.Master) uint16 {
	hi := c.fetchByte(b, master)
	lo := c.fetchByte(b, master)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) pushByte(b bus.Bus16, master bus.Master, v uint8) {
	b.Write(master, c.SP, v)
	c.SP--
}

func (c *CPU) pullByte(b bus.Bus16, master bus.Master) uint8 {
	c.SP++
	return b.Read(master, c.SP)
}

func (c *CPU) pushWord(b bus.Bus16, master bus.Master, v uint16) {
	c.pushByte(b, master, uint8(v))
	c.pushByte(b, master, uint8(v>>8))
}

func (c *CPU) pullWord(b bus.Bus16, master bus.Master) uint16 {
	hi := c.pullByte(b, master)
	lo := c.pullByte(b, master)
	return uint16(hi)<<8 | uint16(lo)
}
