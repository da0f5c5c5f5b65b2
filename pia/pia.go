// Package pia implements a Motorola 6820/6821-style peripheral interface
// adapter: two independent 8-bit ports, each with a data-direction register
// and a control register, and edge-triggered interrupt latching on CA1/CB1
// (and optionally CA2/CB2 in input mode).
package pia

// Port is one of the PIA's two independent halves.
type Port struct {
	output    uint8 // bits driven by the CPU write to ORx
	direction uint8 // 1 = output, 0 = input (DDRx)
	control   uint8 // CRx: bit0 C1 edge polarity, bit1 C1 IRQ enable, bit2 DDR-select, bits 3-5 C2 control, bits 6-7 sticky IRQ flags

	input func() uint8 // board-supplied read of externally driven input lines

	c1Prev bool
	c2Prev bool
}

const (
	crIRQ1     = 1 << 7
	crIRQ2     = 1 << 6
	crDDRSel   = 1 << 2
	crC1Enable = 1 << 1 // interrupt-enable bit for the CA1/CB1 sticky flag
	crC2Enable = 1 << 4 // interrupt-enable bit for the CA2/CB2 sticky flag
)

// SetInputFunc attaches the board's external-line reader (joystick, DIP
// switches, video-sync tap, ...). Called lazily on reads of bits configured
// as inputs.
func (p *Port) SetInputFunc(f func() uint8) { p.input = f }

// ReadData implements an ORA/ORB access: output bits for direction=1 lines,
// external input for direction=0 lines. Reading the data register also
// clears the sticky IRQ flags in the control register (6820 quirk).
func (p *Port) ReadData() uint8 {
	p.control &^= crIRQ1 | crIRQ2
	ext := uint8(0)
	if p.input != nil {
		ext = p.input()
	}
	return (p.output & p.direction) | (ext &^ p.direction)
}

func (p *Port) WriteData(v uint8) { p.output = v }

// ReadDDR/WriteDDR access the data-direction register, selected by CRx bit2
// in the 6820's address-decode scheme (PIA.Read/Write below pick this vs
// ReadData based on ddrSelected).
func (p *Port) ReadDDR() uint8  { return p.direction }
func (p *Port) WriteDDR(v uint8) { p.direction = v }

func (p *Port) ReadControl() uint8 { return p.control }

func (p *Port) WriteControl(v uint8) {
	// Bits 6-7 (IRQ flags) are read-only from the CPU's perspective; only
	// bits 0-5 are writable.
	p.control = (p.control & (crIRQ1 | crIRQ2)) | (v & 0x3F)
}

// ddrSelected reports whether the next data-register access should hit the
// DDR instead of the data register (CRx bit2 clear selects DDR).
func (p *Port) ddrSelected() bool { return p.control&crDDRSel == 0 }

// latchC1 evaluates C1 against the control register's edge-polarity bit
// (bit0: 0=falling, 1=rising) and sets the sticky IRQ flag on a qualifying
// transition.
func (p *Port) latchC1(level bool) {
	rising := p.control&0x01 != 0
	edge := (rising && level && !p.c1Prev) || (!rising && !level && p.c1Prev)
	if edge {
		p.control |= crIRQ1
	}
	p.c1Prev = level
}

func (p *Port) latchC2(level bool) {
	// C2 only latches an interrupt flag while configured as input (bit5=0);
	// in output mode bits 3-5 instead drive handshake behavior this model
	// does not need for Joust's PIA usage (no handshake peripherals).
	if p.control&0x20 != 0 {
		return
	}
	rising := p.control&0x08 != 0
	edge := (rising && level && !p.c2Prev) || (!rising && !level && p.c2Prev)
	if edge {
		p.control |= crIRQ2
	}
	p.c2Prev = level
}

// IRQ reports whether this port's sticky flags are asserting an interrupt:
// the flag AND its own interrupt-enable bit, per spec (the chip's IRQ
// output follows the flag AND the enable bit, not the flag alone).
func (p *Port) IRQ() bool {
	irq1 := p.control&crIRQ1 != 0 && p.control&crC1Enable != 0
	irq2 := p.control&crIRQ2 != 0 && p.control&crC2Enable != 0
	return irq1 || irq2
}

// PIA is a complete two-port 6820. A is conventionally the lower four
// registers, B the upper four, in the board's four-register-wide address
// window (spec's PIA memory-mapped register block).
type PIA struct {
	A, B Port
}

// New returns a PIA with both ports' direction registers and outputs zeroed
// (6820 reset state: DDRs select, all direction bits clear, i.e. all lines
// input, per datasheet).
func New() *PIA {
	return &PIA{}
}

// Read services a CPU access to one of the four PIA registers, offset 0-3
// from the board's bus-decode (0=ORA/DDRA, 1=CRA, 2=ORB/DDRB, 3=CRB).
func (p *PIA) Read(offset uint8) uint8 {
	switch offset & 3 {
	case 0:
		if p.A.ddrSelected() {
			return p.A.ReadDDR()
		}
		return p.A.ReadData()
	case 1:
		return p.A.ReadControl()
	case 2:
		if p.B.ddrSelected() {
			return p.B.ReadDDR()
		}
		return p.B.ReadData()
	default:
		return p.B.ReadControl()
	}
}

func (p *PIA) Write(offset uint8, v uint8) {
	switch offset & 3 {
	case 0:
		if p.A.ddrSelected() {
			p.A.WriteDDR(v)
		} else {
			p.A.WriteData(v)
		}
	case 1:
		p.A.WriteControl(v)
	case 2:
		if p.B.ddrSelected() {
			p.B.WriteDDR(v)
		} else {
			p.B.WriteData(v)
		}
	default:
		p.B.WriteControl(v)
	}
}

// SetCA1/SetCB1/SetCA2/SetCB2 feed an externally driven control-line level
// change into the PIA's edge latches, called once per board tick from the
// owning machine with the current level of the corresponding board signal
// (vertical sync, coin door, watchdog, ...).
func (p *PIA) SetCA1(level bool) { p.A.latchC1(level) }
func (p *PIA) SetCB1(level bool) { p.B.latchC1(level) }
func (p *PIA) SetCA2(level bool) { p.A.latchC2(level) }
func (p *PIA) SetCB2(level bool) { p.B.latchC2(level) }

// IRQ reports whether either port is asserting its interrupt line. Boards
// typically OR two PIAs' IRQ outputs together onto the CPU's IRQ line.
func (p *PIA) IRQ() bool { return p.A.IRQ() || p.B.IRQ() }
