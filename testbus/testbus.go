// Package testbus provides the memory-only bus fabric used by single-step
// validation vectors. It is grounded on the teacher's testBus type
// (go-chip-m68k/testutil_test.go and cpu_test.go), promoted from a test
// helper to a real package because it is reused across four CPU families.
package testbus

import "github.com/user-none/joustcore/bus"

// Direction names which way a recorded transaction went.
type Direction uint8

const (
	DirRead Direction = iota
	DirWrite
	DirInternal // a cycle that consumed no bus transaction (only via RecordInternal)
)

func (d Direction) String() string {
	switch d {
	case DirRead:
		return "read"
	case DirWrite:
		return "write"
	default:
		return "internal"
	}
}

// Transaction is one recorded (address, data, direction) triple, matching
// the cycle-trace entries in the single-step test vector format (spec §6).
type Transaction struct {
	Addr uint16
	Data uint8
	Dir  Direction
}

// Bus is a non-persistent 64KiB in-memory bus. It reports never-halted and
// no-interrupts by default, and optionally records every transaction as a
// trace for cycle-level single-step comparisons (6502, Z80).
type Bus struct {
	Mem [65536]byte

	Recording bool
	Trace     []Transaction

	halted      map[bus.Master]bool
	interrupts  bus.InterruptRecord
}

// New returns a Bus with nothing halted and no interrupts pending.
func New() *Bus {
	return &Bus{halted: make(map[bus.Master]bool)}
}

func (b *Bus) Read(master bus.Master, addr uint16) uint8 {
	v := b.Mem[addr]
	if b.Recording {
		b.Trace = append(b.Trace, Transaction{Addr: addr, Data: v, Dir: DirRead})
	}
	return v
}

func (b *Bus) Write(master bus.Master, addr uint16, data uint8) {
	b.Mem[addr] = data
	if b.Recording {
		b.Trace = append(b.Trace, Transaction{Addr: addr, Data: data, Dir: DirWrite})
	}
}

// RecordInternal appends an internal (non-bus) cycle to the trace. None of
// the CPU cores in this module call it, so their recorded traces hold only
// bus reads and writes.
func (b *Bus) RecordInternal(data uint8) {
	if b.Recording {
		b.Trace = append(b.Trace, Transaction{Data: data, Dir: DirInternal})
	}
}

func (b *Bus) IsHaltedFor(master bus.Master) bool {
	if b.halted == nil {
		return false
	}
	return b.halted[master]
}

// SetHalted lets a test simulate arbitration without a real DMA device.
func (b *Bus) SetHalted(master bus.Master, halted bool) {
	if b.halted == nil {
		b.halted = make(map[bus.Master]bool)
	}
	b.halted[master] = halted
}

func (b *Bus) CheckInterrupts(master bus.Master) bus.InterruptRecord {
	return b.interrupts
}

// SetInterrupts lets a test assert interrupt lines without a real device.
func (b *Bus) SetInterrupts(r bus.InterruptRecord) {
	b.interrupts = r
}

// LoadRAM seeds memory from (address, value) pairs, matching the `ram`
// arrays in the single-step test vector schema.
func (b *Bus) LoadRAM(pairs [][2]uint32) {
	for _, p := range pairs {
		b.Mem[uint16(p[0])] = byte(p[1])
	}
}

// Reset clears the recorded trace without touching memory or the Recording
// switch.
func (b *Bus) Reset() {
	b.Trace = nil
}
