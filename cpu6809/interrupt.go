package cpu6809

import "github.com/user-none/joustcore/bus"

// Exception/interrupt vectors (big-endian word pointers), spec §4.3.4.
const (
	vecSWI3  uint16 = 0xFFF2
	vecSWI2  uint16 = 0xFFF4
	vecFIRQ  uint16 = 0xFFF6
	vecIRQ   uint16 = 0xFFF8
	vecSWI   uint16 = 0xFFFA
	vecNMI   uint16 = 0xFFFC
	vecReset uint16 = 0xFFFE
)

type interruptKind uint8

const (
	intNMI interruptKind = iota
	intFIRQ
	intIRQ
)

// pendingUnmaskedInterrupt returns the highest-priority unmasked interrupt
// in ir, if any. NMI is never maskable.
func pendingUnmaskedInterrupt(ir bus.InterruptRecord, cc uint8) (interruptKind, bool) {
	switch {
	case ir.NMI:
		return intNMI, true
	case ir.FIRQ && cc&flagF == 0:
		return intFIRQ, true
	case ir.IRQ && cc&flagI == 0:
		return intIRQ, true
	}
	return 0, false
}

// enterInterrupt processes a hardware interrupt: pushes the appropriate
// frame (unless alreadyPushed, as CWAI already pushed it), reads the
// vector, and returns the cycle cost. Callers (tickFetch, tickWaitForInterrupt,
// tickSyncWait) install the resulting State themselves.
func (c *CPU) enterInterrupt(b bus.Bus16, master bus.Master, kind interruptKind, alreadyPushed bool) int {
	if !alreadyPushed {
		if kind == intFIRQ {
			c.pushPartialFrame(b, master)
		} else {
			c.pushFullFrame(b, master)
		}
	}

	var vec uint16
	cycles := 19
	switch kind {
	case intNMI:
		vec = vecNMI
		c.CC |= flagI | flagF
	case intFIRQ:
		vec = vecFIRQ
		c.CC |= flagI | flagF
		cycles = 10
	case intIRQ:
		vec = vecIRQ
		c.CC |= flagI
	}
	if alreadyPushed {
		// CWAI already paid the push cost; only the vector fetch remains.
		cycles = 7
	}

	hi := b.Read(master, vec)
	lo := b.Read(master, vec+1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.opcode = 0
	return cycles
}

// pushFullFrame pushes PC, U, Y, X, DP, B, A, CC (CC last, on top of the
// frame) onto S, setting the Entire flag before the push so the value that
// lands on the stack already reflects a full-state frame (spec §4.3.4/§9).
func (c *CPU) pushFullFrame(b bus.Bus16, master bus.Master) {
	c.CC |= flagE
	sp := &c.S
	c.pushWord(b, master, sp, c.PC)
	c.pushWord(b, master, sp, c.U)
	c.pushWord(b, master, sp, c.Y)
	c.pushWord(b, master, sp, c.X)
	c.pushByte(b, master, sp, c.DP)
	c.pushByte(b, master, sp, c.B)
	c.pushByte(b, master, sp, c.A)
	c.pushByte(b, master, sp, c.CC)
	c.entirePush = true
}

// pushPartialFrame pushes PC then CC (CC on top), clearing Entire first —
// the FIRQ-only fast frame.
func (c *CPU) pushPartialFrame(b bus.Bus16, master bus.Master) {
	c.CC &^= flagE
	sp := &c.S
	c.pushWord(b, master, sp, c.PC)
	c.pushByte(b, master, sp, c.CC)
	c.entirePush = false
}

func (c *CPU) tickInterrupt(b bus.Bus16, master bus.Master) bool {
	c.state.Remaining--
	if c.state.Remaining <= 0 {
		c.state = State{Kind: StateFetch}
		return true
	}
	return false
}

func (c *CPU) tickWaitForInterrupt(b bus.Bus16, master bus.Master) bool {
	ir := b.CheckInterrupts(master)
	kind, ok := pendingUnmaskedInterrupt(ir, c.CC)
	if !ok {
		return false
	}
	n := c.enterInterrupt(b, master, kind, true)
	c.cycles += uint64(n)
	if n <= 1 {
		c.state = State{Kind: StateFetch}
	} else {
		c.state = State{Kind: StateInterrupt, Remaining: n - 1}
	}
	return true
}

func (c *CPU) tickSyncWait(b bus.Bus16, master bus.Master) bool {
	ir := b.CheckInterrupts(master)
	if !ir.Pending() {
		return false
	}
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
	// Asserted but masked: SYNC still wakes, just resumes without vectoring.
	c.state = State{Kind: StateFetch}
	return true
}

// opSWI is shared by the three software-interrupt opcodes, each with its
// own vector and masking behavior.
func (c *CPU) opSWI(b bus.Bus16, master bus.Master, vec uint16, setMask bool) int {
	c.pushFullFrame(b, master)
	if setMask {
		c.CC |= flagI | flagF
	}
	hi := b.Read(master, vec)
	lo := b.Read(master, vec+1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	return 19
}

// opRTI implements spec §4.3.5: read CC from the top of S; if the restored
// Entire flag is 1, pop the full frame; otherwise pop only PC.
func (c *CPU) opRTI(b bus.Bus16, master bus.Master) int {
	sp := &c.S
	c.CC = c.pullByte(b, master, sp)
	if c.CC&flagE == 0 {
		c.PC = c.pullWord(b, master, sp)
		return 6
	}
	c.A = c.pullByte(b, master, sp)
	c.B = c.pullByte(b, master, sp)
	c.DP = c.pullByte(b, master, sp)
	c.X = c.pullWord(b, master, sp)
	c.Y = c.pullWord(b, master, sp)
	c.U = c.pullWord(b, master, sp)
	c.PC = c.pullWord(b, master, sp)
	return 15
}

// opCWAI: AND #imm into CC, push the entire frame, then wait.
func (c *CPU) opCWAI(b bus.Bus16, master bus.Master, imm uint8) int {
	c.CC &= imm
	c.pushFullFrame(b, master)
	c.afterExecute = StateWaitForInterrupt
	return 20
}

// opSYNC transitions to SyncWait; the actual wake logic lives in
// tickSyncWait.
func (c *CPU) opSYNC() int {
	c.afterExecute = StateSyncWait
	return 2
}
