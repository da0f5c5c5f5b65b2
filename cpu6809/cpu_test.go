package cpu6809_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/user-none/joustcore/bus"
	"github.com/user-none/joustcore/cpu6809"
	"github.com/user-none/joustcore/testbus"
)

// runToFetch ticks the CPU until it settles back in Fetch (or a wait state),
// mirroring the teacher's run-one-instruction test helper.
func runToFetch(c *cpu6809.CPU, b *testbus.Bus, master bus.Master) {
	c.TickWithBus(b, master)
	for {
		k := c.State().Kind
		if k == cpu6809.StateFetch || k == cpu6809.StateWaitForInterrupt || k == cpu6809.StateSyncWait {
			return
		}
		c.TickWithBus(b, master)
	}
}

func newLoaded(t *testing.T, program ...uint8) (*cpu6809.CPU, *testbus.Bus, bus.Master) {
	t.Helper()
	b := testbus.New()
	master := bus.CPUMaster(0)
	for i, v := range program {
		b.Mem[0x0200+i] = v
	}
	b.Mem[0xFFFE] = 0x02
	b.Mem[0xFFFF] = 0x00
	c := cpu6809.New()
	c.Reset(b, master)
	return c, b, master
}

func TestLDAImmediateSetsZeroFlag(t *testing.T) {
	c, b, master := newLoaded(t, 0x86, 0x00) // LDA #$00
	runToFetch(c, b, master)
	require.Equal(t, uint8(0), c.A, spew.Sdump(c.State()))
	require.NotZero(t, c.CC&0x04, "Z flag should be set")
	require.EqualValues(t, 2, c.Cycles())
}

func TestADDASetsOverflowNotCarry(t *testing.T) {
	c, b, master := newLoaded(t, 0x86, 0x7F, 0x8B, 0x01) // LDA #$7F; ADDA #$01
	runToFetch(c, b, master)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x80), c.A)
	require.NotZero(t, c.CC&0x02, "V flag should be set on signed overflow")
	require.Zero(t, c.CC&0x01, "C flag should be clear")
}

func TestDirectAddressingUsesDP(t *testing.T) {
	c, b, master := newLoaded(t, 0x96, 0x10) // LDA $10 (direct)
	c.DP = 0x30
	b.Mem[0x3010] = 0x42
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x42), c.A)
}

func TestIndexedPostIncrementByTwo(t *testing.T) {
	c, b, master := newLoaded(t, 0xAE, 0x81) // LDX ,X++
	c.X = 0x4000
	b.Mem[0x4000] = 0x12
	b.Mem[0x4001] = 0x34
	runToFetch(c, b, master)
	require.EqualValues(t, 0x1234, c.X)
}

func TestBranchTakenSkipsNextInstruction(t *testing.T) {
	c, b, master := newLoaded(t, 0x27, 0x02, 0x86, 0xFF, 0x86, 0x11) // BEQ +2; LDA #$FF; LDA #$11
	c.CC |= 0x04                                                     // force Z so BEQ is taken
	runToFetch(c, b, master)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x11), c.A, "branch should have skipped the LDA #$FF")
}

func TestPSHSPULSRoundTrip(t *testing.T) {
	c, b, master := newLoaded(t, 0x34, 0x06, 0x35, 0x06) // PSHS A,B ; PULS A,B
	c.A = 0xAA
	c.B = 0xBB
	origS := c.S
	runToFetch(c, b, master)
	require.EqualValues(t, origS-2, c.S)
	c.A, c.B = 0, 0
	runToFetch(c, b, master)
	require.Equal(t, uint8(0xAA), c.A)
	require.Equal(t, uint8(0xBB), c.B)
	require.Equal(t, origS, c.S)
}

func TestSWIPushesFullFrameAndVectors(t *testing.T) {
	c, b, master := newLoaded(t, 0x3F) // SWI
	b.Mem[0xFFFA] = 0x90
	b.Mem[0xFFFB] = 0x00
	c.S = 0x0100 // keep the pushed frame clear of the vector table
	startS := c.S
	runToFetch(c, b, master)
	require.EqualValues(t, 0x9000, c.PC)
	require.Equal(t, startS-12, c.S, "SWI should push a 12-byte full frame")
	require.NotZero(t, c.CC&0x10, "I should be set")
	require.NotZero(t, c.CC&0x40, "F should be set")
}

func TestCWAIThenIRQWakesAndVectors(t *testing.T) {
	c, b, master := newLoaded(t, 0x3C, 0xEF) // CWAI #$EF (clears I)
	b.Mem[0xFFF8] = 0x80
	b.Mem[0xFFF9] = 0x00
	c.S = 0x0100 // keep the pushed frame clear of the vector table
	c.TickWithBus(b, master)
	for c.State().Kind != cpu6809.StateWaitForInterrupt {
		c.TickWithBus(b, master)
	}
	b.SetInterrupts(bus.InterruptRecord{IRQ: true})
	for c.State().Kind == cpu6809.StateWaitForInterrupt {
		c.TickWithBus(b, master)
	}
	require.EqualValues(t, 0x8000, c.PC)
}

func TestHaltSuspendsAndResumesMidInstruction(t *testing.T) {
	c, b, master := newLoaded(t, 0x7C, 0x30, 0x00) // INC $3000 (extended)
	b.Mem[0x3000] = 0x05
	c.TickWithBus(b, master) // opcode fetch + effect commit (hybrid model)
	require.Equal(t, uint8(0x06), b.Mem[0x3000], "effect commits atomically at Execute entry")
	require.Equal(t, cpu6809.StateExecute, c.State().Kind, "still counting down before Fetch")

	b.SetHalted(master, true)
	require.False(t, c.TickWithBus(b, master))
	require.Equal(t, cpu6809.StateHalted, c.State().Kind)
	b.SetHalted(master, false)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x06), b.Mem[0x3000], "halting mid-countdown must not re-execute the opcode")
	require.Equal(t, cpu6809.StateFetch, c.State().Kind)
}
