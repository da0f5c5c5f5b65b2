package cpu6809

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user-none/joustcore/bus"
)

// CPU is the MC6809 processor core.
type CPU struct {
	Registers

	state State

	// entirePush records whether the most recent frame push was a full
	// machine-state frame. RTI does not read it: it decides what to pop from
	// the E bit of the CC byte it pulls off the stack.
	entirePush bool

	opcode uint8 // opcode of the instruction currently executing (introspection)

	// afterExecute names the state an opcode handler wants to land in once
	// its cycle countdown finishes. Reset to StateFetch before every
	// dispatch; CWAI and SYNC are the only handlers that change it.
	afterExecute StateKind

	pendingLatch bus.InterruptRecord // last-observed interrupt snapshot, latched at Fetch

	cycles uint64

	log zerolog.Logger
}

// New creates a 6809 CPU. Per spec §3 Lifecycle, registers other than CC and
// DP are left undefined (zero here, since Go has no uninitialized-memory
// concept); CC has I and F set (interrupts disabled) and DP is zero. State
// starts at Fetch. The reset-vector fetch described in spec §9's open
// question is implemented here: call Reset with a bus to read PC from
// $FFFE/$FFFF before the first fetch.
func New() *CPU {
	c := &CPU{
		log: log.With().Str("component", "cpu6809").Logger(),
	}
	c.CC = flagI | flagF
	c.state = State{Kind: StateFetch}
	return c
}

// Reset reads the reset vector at $FFFE/$FFFF (big-endian) and loads it into
// PC, matching real 6809 hardware. This resolves the open question in spec
// §9: the studied source deferred this; a correct implementation performs
// it on reset.
func (c *CPU) Reset(b bus.Bus16, master bus.Master) {
	hi := b.Read(master, 0xFFFE)
	lo := b.Read(master, 0xFFFF)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.CC = flagI | flagF
	c.DP = 0
	c.state = State{Kind: StateFetch}
	c.cycles = 0
}

// State returns the CPU's current per-cycle execution state.
func (c *CPU) State() State { return c.state }

// Cycles returns the total number of ticks consumed since construction or
// the last Reset. An instruction's full cost is added when it is dispatched,
// so the countdown ticks it has not yet run are subtracted here.
func (c *CPU) Cycles() uint64 {
	s := c.state
	if s.Kind == StateHalted && s.Suspended != nil {
		s = *s.Suspended
	}
	switch s.Kind {
	case StateExecute, StateExecutePage2, StateExecutePage3, StateInterrupt:
		return c.cycles - uint64(s.Remaining)
	}
	return c.cycles
}

// Opcode returns the opcode currently (or most recently) executing, for
// post-hoc introspection (disassembly, trace tooling).
func (c *CPU) Opcode() uint8 { return c.opcode }

// ClockDivisor reports that this core ticks at the board's base clock rate.
func (c *CPU) ClockDivisor() int { return 1 }

// Tick does nothing and returns false: every CPU state needs the bus to
// advance. Boards always drive the CPU through TickWithBus; Tick exists to
// satisfy component.Component.
func (c *CPU) Tick() bool { return false }

// TickWithBus advances the CPU by exactly one bus cycle: the half-open
// contract of component.BusComponent. Returns true when a notable event
// occurred (interrupt entry begun, instruction retired).
func (c *CPU) TickWithBus(b bus.Bus16, master bus.Master) bool {
	if b.IsHaltedFor(master) {
		if c.state.Kind != StateHalted {
			suspended := c.state
			c.state = State{Kind: StateHalted, Suspended: &suspended}
		}
		return false
	}
	if c.state.Kind == StateHalted {
		c.state = *c.state.Suspended
	}

	switch c.state.Kind {
	case StateFetch, stateFetchPage2, stateFetchPage3:
		return c.tickFetch(b, master)
	case StateExecute, StateExecutePage2, StateExecutePage3:
		return c.tickExecute(b, master)
	case StateInterrupt:
		return c.tickInterrupt(b, master)
	case StateWaitForInterrupt:
		return c.tickWaitForInterrupt(b, master)
	case StateSyncWait:
		return c.tickSyncWait(b, master)
	}
	return false
}

func (c *CPU) tickFetch(b bus.Bus16, master bus.Master) bool {
	switch c.state.Kind {
	case StateFetch:
		ir := b.CheckInterrupts(master)
		c.pendingLatch = ir
		if kind, ok := pendingUnmaskedInterrupt(ir, c.CC); ok {
			n := c.enterInterrupt(b, master, kind, false)
			c.cycles += uint64(n)
			if n <= 1 {
				c.state = State{Kind: StateFetch}
			} else {
				c.state = State{Kind: StateInterrupt, Remaining: n - 1}
			}
			return true
		}
		op := b.Read(master, c.PC)
		c.PC++
		switch op {
		case 0x10:
			c.cycles++ // prefix byte charged here; page2Table costs exclude it
			c.state = State{Kind: stateFetchPage2}
		case 0x11:
			c.cycles++
			c.state = State{Kind: stateFetchPage3}
		default:
			c.beginExecute(StateExecute, op, b, master)
		}
		return false
	case stateFetchPage2:
		op := b.Read(master, c.PC)
		c.PC++
		c.beginExecute(StateExecutePage2, op, b, master)
		return false
	case stateFetchPage3:
		op := b.Read(master, c.PC)
		c.PC++
		c.beginExecute(StateExecutePage3, op, b, master)
		return false
	}
	return false
}

// beginExecute dispatches to the opcode's handler, which performs every bus
// transaction and register/flag effect of the instruction immediately, then
// returns the instruction's total cycle count. The CPU then spends the
// remaining cycles counting down without further bus activity before
// returning to Fetch.
//
// This is a deliberate hybrid of the two alternatives in spec §9 ("design
// notes", state-machine vs run-to-completion): effects commit atomically
// like a run-to-completion core, but the tick/Remaining counter still makes
// the CPU suspendable by the bus's halt signal at one-cycle granularity, so
// the blitter can still stall it mid-instruction (spec §4.3.6). The 6809
// single-step test format checks final registers, RAM, and total cycle
// count — not a per-cycle bus trace (that requirement is stated for 6502
// and Z80 only, spec §8) — so this hybrid satisfies every 6809 testable
// property without hand-authoring a bus-accurate micro-sequence per opcode.
// See DESIGN.md.
func (c *CPU) beginExecute(kind StateKind, op uint8, b bus.Bus16, master bus.Master) {
	c.opcode = op
	var entry *opcodeEntry
	switch kind {
	case StateExecute:
		entry = &page1Table[op]
	case StateExecutePage2:
		entry = &page2Table[op]
	case StateExecutePage3:
		entry = &page3Table[op]
	}

	c.afterExecute = StateFetch

	n := 1
	if entry.exec == nil {
		// Undefined opcode: execute as NOP for the datasheet-documented
		// duration (spec §7 runtime anomaly policy). Unassigned table
		// entries default to a 2-cycle inherent NOP equivalent.
		c.log.Debug().Uint8("opcode", op).Str("page", kind.String()).Msg("unimplemented opcode treated as NOP")
		n = 2
	} else {
		n = entry.exec(c, b, master)
	}

	c.cycles += uint64(n)
	if n <= 1 {
		c.state = State{Kind: c.afterExecute}
	} else {
		c.state = State{Kind: kind, Opcode: op, Remaining: n - 1, After: c.afterExecute}
	}
}

func (c *CPU) tickExecute(b bus.Bus16, master bus.Master) bool {
	c.state.Remaining--
	if c.state.Remaining <= 0 {
		c.state = State{Kind: c.state.After}
		return true
	}
	return false
}

// fetchByte reads one byte at PC and advances PC.
func (c *CPU) fetchByte(b bus.Bus16, master bus.Master) uint8 {
	v := b.Read(master, c.PC)
	c.PC++
	return v
}

// fetchWord reads a big-endian 16-bit value at PC and advances PC by 2.
func (c *CPU) fetchWord(b bus.Bus16, master bus.Master) uint16 {
	hi := c.fetchByte(b, master)
	lo := c.fetchByte(b, master)
	return uint16(hi)<<8 | uint16(lo)
}

// pushByte predecrements sp and writes one byte, per the push invariant in
// spec §3 ("the pointer is decremented before the write").
func (c *CPU) pushByte(b bus.Bus16, master bus.Master, sp *uint16, v uint8) {
	*sp--
	b.Write(master, *sp, v)
}

func (c *CPU) pullByte(b bus.Bus16, master bus.Master, sp *uint16) uint8 {
	v := b.Read(master, *sp)
	*sp++
	return v
}

// pushWord pushes a 16-bit register: low byte first (at the higher of the
// two addresses), then the high byte (at the lower address, closest to the
// new stack pointer) — the conventional big-endian stack-frame layout also
// used by the interrupt return address.
func (c *CPU) pushWord(b bus.Bus16, master bus.Master, sp *uint16, v uint16) {
	c.pushByte(b, master, sp, uint8(v))
	c.pushByte(b, master, sp, uint8(v>>8))
}

func (c *CPU) pullWord(b bus.Bus16, master bus.Master, sp *uint16) uint16 {
	hi := c.pullByte(b, master, sp)
	lo := c.pullByte(b, master, sp)
	return uint16(hi)<<8 | uint16(lo)
}
