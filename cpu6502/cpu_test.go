package cpu6502_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user-none/joustcore/bus"
	"github.com/user-none/joustcore/cpu6502"
	"github.com/user-none/joustcore/testbus"
)

func runToFetch(c *cpu6502.CPU, b *testbus.Bus, master bus.Master) {
	for {
		c.TickWithBus(b, master)
		if c.State().Kind == cpu6502.StateFetch {
			return
		}
	}
}

func newLoaded(t *testing.T, program ...uint8) (*cpu6502.CPU, *testbus.Bus, bus.Master) {
	t.Helper()
	b := testbus.New()
	for i, v := range program {
		b.Mem[0x0200+i] = v
	}
	b.Mem[0xFFFC] = 0x00
	b.Mem[0xFFFD] = 0x02
	c := cpu6502.New()
	master := bus.CPUMaster(0)
	c.Reset(b, master)
	return c, b, master
}

func TestLDAImmediateSetsZeroFlag(t *testing.T) {
	c, b, master := newLoaded(t, 0xA9, 0x00) // LDA #$00
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x00), c.A)
	require.NotZero(t, c.P&0x02, "Z flag should be set")
	require.Equal(t, uint64(2), c.Cycles())
}

func TestRMWWritesOriginalValueBackBeforeModified(t *testing.T) {
	b := testbus.New()
	b.Mem[0x0200] = 0x06 // ASL $10
	b.Mem[0x0201] = 0x10
	b.Mem[0x0010] = 0x40
	b.Recording = true
	b.Mem[0xFFFC] = 0x00
	b.Mem[0xFFFD] = 0x02
	c := cpu6502.New()
	master := bus.CPUMaster(0)
	c.Reset(b, master)

	runToFetch(c, b, master)
	require.Equal(t, uint8(0x80), b.Mem[0x0010])

	var writes []testbus.Transaction
	for _, tr := range b.Trace {
		if tr.Dir == testbus.DirWrite {
			writes = append(writes, tr)
		}
	}
	require.Len(t, writes, 2, "RMW writes the original value back, then the modified value")
	require.Equal(t, uint8(0x40), writes[0].Data)
	require.Equal(t, uint8(0x80), writes[1].Data)
}

func TestAbsoluteIndexedPageCrossAddsDummyReadAndCycle(t *testing.T) {
	b := testbus.New()
	b.Mem[0x0200] = 0xBD // LDA $12FF,X
	b.Mem[0x0201] = 0xFF
	b.Mem[0x0202] = 0x12
	b.Mem[0x1300] = 0xBB
	b.Mem[0xFFFC] = 0x00
	b.Mem[0xFFFD] = 0x02
	c := cpu6502.New()
	master := bus.CPUMaster(0)
	c.Reset(b, master)
	c.X = 1

	runToFetch(c, b, master)
	require.Equal(t, uint8(0xBB), c.A)
	require.Equal(t, uint64(5), c.Cycles())
}

func TestBranchNotTakenIsTwoCycles(t *testing.T) {
	c, b, master := newLoaded(t, 0xF0, 0x10) // BEQ +16, Z clear after reset
	runToFetch(c, b, master)
	require.Equal(t, uint64(2), c.Cycles())
	require.Equal(t, uint16(0x0202), c.PC)
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, b, master := newLoaded(t, 0x6C, 0xFF, 0x10) // JMP ($10FF)
	b.Mem[0x10FF] = 0x34
	b.Mem[0x1000] = 0x12 // wraps to $xx00, NOT $1100
	b.Mem[0x1100] = 0xFF
	runToFetch(c, b, master)
	require.Equal(t, uint16(0x1234), c.PC)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, b, master := newLoaded(t, 0x20, 0x06, 0x02, 0xEA, 0xEA, 0xEA, 0x60) // JSR $0206; ...; RTS
	runToFetch(c, b, master)
	require.Equal(t, uint16(0x0206), c.PC)
	runToFetch(c, b, master)
	require.Equal(t, uint16(0x0203), c.PC)
}

func TestDecimalModeADC(t *testing.T) {
	c, b, master := newLoaded(t, 0xF8, 0xA9, 0x09, 0x69, 0x01) // SED; LDA #$09; ADC #$01
	runToFetch(c, b, master)
	runToFetch(c, b, master)
	runToFetch(c, b, master)
	require.Equal(t, uint8(0x10), c.A, "decimal-adjusted: 09 + 01 = 10 in BCD")
}
