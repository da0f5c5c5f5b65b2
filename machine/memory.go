package machine

import (
	"github.com/user-none/joustcore/blitter"
	"github.com/user-none/joustcore/bus"
	"github.com/user-none/joustcore/configmem"
	"github.com/user-none/joustcore/pia"
)

// Memory map for the board, loosely modeled on the Williams-generation
// second-gen hardware (Joust): low RAM, a video-RAM window, two PIA
// register blocks, the blitter's control block, battery-backed config RAM,
// and masked ROM filling the top of the address space.
// Work RAM (16 KiB) plus VRAM (32 KiB) together fill the spec's 48 KiB
// "video/work RAM at the low end"; the register window plus config memory
// fill the small I/O gap below ROM, and ROM fills the top 12 KiB exactly
// (0xD000-0xFFFF = 0x3000 bytes).
const (
	addrWorkRAMStart  = 0x0000
	addrWorkRAMEnd    = 0x4000
	addrVRAMStart     = 0x4000
	addrVRAMEnd       = addrVRAMStart + machineVRAMSize
	addrPIA1Start     = 0xC000
	addrPIA2Start     = 0xC004
	addrBlitterStart  = 0xC008
	addrConfigMemBase = 0xC100
	addrROMStart      = 0xD000
)

const machineVRAMSize = FrameWidth * FrameHeight / 2

// Bus wires the CPU's generic bus.Bus16 interface to the board's memory
// map. Exported so machine.Board can expose it to board-level tooling
// (disasm, trace) without re-deriving the decode logic.
type Bus struct {
	WorkRAM [addrVRAMStart]byte
	ROM     []byte

	VRAM  *Framebuffer
	PIA1  *pia.PIA
	PIA2  *pia.PIA
	Blit  *blitter.Blitter
	Cfg   *configmem.Memory

	interrupts bus.InterruptRecord
	haltedFor  map[bus.Master]bool
}

func NewBus() *Bus {
	return &Bus{
		VRAM:      NewFramebuffer(),
		PIA1:      pia.New(),
		PIA2:      pia.New(),
		Blit:      blitter.New(),
		Cfg:       configmem.New(),
		haltedFor: make(map[bus.Master]bool),
	}
}

// LoadROM installs the masked-ROM image, which must exactly fill the
// address space from addrROMStart to the top of the map.
func (m *Bus) LoadROM(image []byte) error {
	want := 0x10000 - addrROMStart
	if len(image) != want {
		return newConfigError("rom", ErrROMSize)
	}
	m.ROM = image
	return nil
}

func (m *Bus) Read(master bus.Master, addr uint16) uint8 {
	switch {
	case addr < addrVRAMStart:
		return m.WorkRAM[addr]
	case addr < addrVRAMEnd:
		off := int(addr - addrVRAMStart)
		return m.VRAM.VRAM[off]
	case addr >= addrPIA1Start && addr < addrPIA1Start+4:
		return m.PIA1.Read(uint8(addr - addrPIA1Start))
	case addr >= addrPIA2Start && addr < addrPIA2Start+4:
		return m.PIA2.Read(uint8(addr - addrPIA2Start))
	case addr >= addrBlitterStart && addr < addrBlitterStart+blitter.RegBlockSize:
		return m.Blit.ReadReg(uint8(addr - addrBlitterStart))
	case addr >= addrConfigMemBase && int(addr-addrConfigMemBase) < configmem.Size:
		return m.Cfg.Read(addr - addrConfigMemBase)
	case addr >= addrROMStart && m.ROM != nil:
		return m.ROM[addr-addrROMStart]
	}
	return 0xFF // open bus
}

func (m *Bus) Write(master bus.Master, addr uint16, v uint8) {
	switch {
	case addr < addrVRAMStart:
		m.WorkRAM[addr] = v
	case addr < addrVRAMEnd:
		off := int(addr - addrVRAMStart)
		m.VRAM.VRAM[off] = v
	case addr >= addrPIA1Start && addr < addrPIA1Start+4:
		m.PIA1.Write(uint8(addr-addrPIA1Start), v)
	case addr >= addrPIA2Start && addr < addrPIA2Start+4:
		m.PIA2.Write(uint8(addr-addrPIA2Start), v)
	case addr >= addrBlitterStart && addr < addrBlitterStart+blitter.RegBlockSize:
		m.Blit.WriteReg(uint8(addr-addrBlitterStart), v)
	case addr >= addrConfigMemBase && int(addr-addrConfigMemBase) < configmem.Size:
		m.Cfg.Write(addr-addrConfigMemBase, v)
	// Writes into ROM space are ignored, matching real masked-ROM hardware.
	}
}

// SetHalted marks whether master is currently held off the bus — driven by
// the blitter's Busy state every tick (spec §4.3.6: DMA halts every other
// master for the duration of a transfer).
func (m *Bus) SetHalted(master bus.Master, halted bool) {
	if halted {
		m.haltedFor[master] = true
	} else {
		delete(m.haltedFor, master)
	}
}

func (m *Bus) IsHaltedFor(master bus.Master) bool {
	return m.haltedFor[master]
}

func (m *Bus) CheckInterrupts(master bus.Master) bus.InterruptRecord {
	return m.interrupts
}

// SetInterrupts lets the board's device-tick loop drive the shared
// interrupt lines (PIA IRQ ORed together onto the CPU's IRQ input, etc).
func (m *Bus) SetInterrupts(ir bus.InterruptRecord) { m.interrupts = ir }
