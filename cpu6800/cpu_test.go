package cpu6800_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user-none/joustcore/bus"
	"github.com/user-none/joustcore/cpu6800"
	"github.com/user-none/joustcore/testbus"
)

func runToFetch(c *cpu6800.CPU, b *testbus.Bus, master bus.Master) {
	for {
		c.TickWithBus(b, master)
		if c.State().Kind == cpu6800.StateFetch || c.State().Kind == cpu6800.StateWaitForInterrupt {
			return
		}
	}
}

func newLoaded(t *testing.T, program ...uint8) (*cpu6800.CPU, *testbus.Bus, bus.Master) {
	t.Helper()
	b := testbus.New()
	for i, v := range program {
		b.Mem[0x0200+i] = v
	}
	b.Mem[0xFFFE] = 0x02
	b.Mem[0xFFFF] = 0x00
	c := cpu6800.New()
	master := bus.CPUMaster(0)
	c.Reset(b, master)
	return c, b, master
}

func TestLDAAImmediateSetsZeroFlag(t *testing.T) {
	c, b, master := newLoaded(t, 0x86, 0x00) // LDAA #$00
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x00), c.A)
	require.NotZero(t, c.CC&0x04, "Z flag should be set")
}

func TestADDASetsOverflowNotCarry(t *testing.T) {
	c, b, master := newLoaded(t, 0x86, 0x7F, 0x8B, 0x01) // LDAA #$7F; ADDA #$01
	runToFetch(c, b, master)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x80), c.A)
	require.NotZero(t, c.CC&0x02, "V flag should be set on signed overflow")
	require.Zero(t, c.CC&0x01, "C flag should be clear")
}

func TestDirectAddressingHasNoDPUnlike6809(t *testing.T) {
	c, b, master := newLoaded(t, 0x96, 0x50) // LDAA $50 (direct)
	b.Mem[0x0050] = 0x77
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x77), c.A)
}

func TestIndexedAddressingAddsUnsignedOffsetToX(t *testing.T) {
	c, b, master := newLoaded(t, 0xCE, 0x30, 0x00, 0xA6, 0x05) // LDX #$3000; LDAA $05,X
	b.Mem[0x3005] = 0x42
	runToFetch(c, b, master)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x42), c.A)
}

func TestBranchTakenSkipsNextInstruction(t *testing.T) {
	c, b, master := newLoaded(t, 0x27, 0x02, 0x86, 0xFF, 0x86, 0x11) // BEQ +2; LDAA #$FF; LDAA #$11
	c.CC |= 0x04                                                     // force Z so BEQ is taken
	runToFetch(c, b, master)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x11), c.A)
}

func TestPSHAPULBRoundTrip(t *testing.T) {
	c, b, master := newLoaded(t, 0x86, 0x5A, 0x36, 0xC6, 0x00, 0x33) // LDAA #$5A; PSHA; LDAB #$00; PULB
	for i := 0; i < 4; i++ {
		runToFetch(c, b, master)
	}
	require.Equal(t, uint8(0x5A), c.B)
}

func TestClearMatchesSetFlagsLogicalAndClearsCarryDeliberately(t *testing.T) {
	c, b, master := newLoaded(t, 0x0D, 0x4F) // SEC; CLRA
	runToFetch(c, b, master)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0), c.A)
	require.Zero(t, c.CC&0x01, "CLRA clears C even after SEC")
	require.NotZero(t, c.Cycles(), "sanity: cycles accumulated")
}

func TestHaltSuspendsAndResumesMidInstruction(t *testing.T) {
	c, b, master := newLoaded(t, 0x7C, 0x30, 0x00) // INC $3000 (extended)
	b.Mem[0x3000] = 0x05

	c.TickWithBus(b, master)
	require.Equal(t, uint8(0x06), b.Mem[0x3000], "effect commits atomically at Execute entry")
	require.Equal(t, cpu6800.StateExecute, c.State().Kind)

	b.SetHalted(master, true)
	for i := 0; i < 3; i++ {
		c.TickWithBus(b, master)
	}
	require.Equal(t, uint8(0x06), b.Mem[0x3000], "halt must not re-execute or double-apply")

	b.SetHalted(master, false)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x06), b.Mem[0x3000])
}
