package blitter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user-none/joustcore/blitter"
	"github.com/user-none/joustcore/bus"
	"github.com/user-none/joustcore/testbus"
)

func TestCopyTransfersBytesAndReportsCompletion(t *testing.T) {
	b := testbus.New()
	bl := blitter.New()
	b.Mem[0x1000] = 0xAA
	b.Mem[0x1001] = 0xBB
	b.Mem[0x1002] = 0xCC

	bl.WriteReg(blitter.RegSourceHi, 0x10)
	bl.WriteReg(blitter.RegSourceLo, 0x00)
	bl.WriteReg(blitter.RegDestHi, 0x20)
	bl.WriteReg(blitter.RegDestLo, 0x00)
	bl.WriteReg(blitter.RegCount, 3)
	bl.Mask = 0xFF
	bl.WriteReg(blitter.RegControl, blitter.CtrlGo)

	require.True(t, bl.Busy())
	for i := 0; i < 3; i++ {
		done := bl.TickWithBus(b, bus.DMAMaster)
		require.Equal(t, i == 2, done)
	}
	require.False(t, bl.Busy())
	require.Equal(t, uint8(0xAA), b.Mem[0x2000])
	require.Equal(t, uint8(0xBB), b.Mem[0x2001])
	require.Equal(t, uint8(0xCC), b.Mem[0x2002])
}

func TestTransparentSkipsMatchingByte(t *testing.T) {
	b := testbus.New()
	bl := blitter.New()
	b.Mem[0x1000] = 0x00
	b.Mem[0x1001] = 0x55
	b.Mem[0x2000] = 0xFF
	b.Mem[0x2001] = 0xFF

	bl.Source, bl.Dest, bl.Count = 0x1000, 0x2000, 2
	bl.Mask = 0xFF
	bl.TransparentByte = 0x00
	bl.Control = blitter.CtrlGo | blitter.CtrlTransparent
	bl.WriteReg(blitter.RegControl, bl.Control)

	bl.TickWithBus(b, bus.DMAMaster)
	bl.TickWithBus(b, bus.DMAMaster)
	require.Equal(t, uint8(0xFF), b.Mem[0x2000], "transparent byte must not be written")
	require.Equal(t, uint8(0x55), b.Mem[0x2001])
}

func TestPartialMaskPreservesDestinationBits(t *testing.T) {
	b := testbus.New()
	bl := blitter.New()
	b.Mem[0x1000] = 0xFF
	b.Mem[0x2000] = 0x0F

	bl.Source, bl.Dest, bl.Count = 0x1000, 0x2000, 1
	bl.Mask = 0xF0 // only the high nibble is written; low nibble preserved
	bl.Control = blitter.CtrlGo
	bl.WriteReg(blitter.RegControl, bl.Control)

	bl.TickWithBus(b, bus.DMAMaster)
	require.Equal(t, uint8(0xFF), b.Mem[0x2000], "high nibble from source, low nibble preserved from destination")
}

func TestRegistersExposeSolidMaskAndTransparent(t *testing.T) {
	bl := blitter.New()
	bl.WriteReg(blitter.RegSolid, 0x42)
	bl.WriteReg(blitter.RegMask, 0xF0)
	bl.WriteReg(blitter.RegTransparent, 0x0F)

	require.Equal(t, uint8(0x42), bl.Solid)
	require.Equal(t, uint8(0xF0), bl.Mask)
	require.Equal(t, uint8(0x0F), bl.TransparentByte)
	require.Equal(t, uint8(0x42), bl.ReadReg(blitter.RegSolid))
	require.Equal(t, uint8(0xF0), bl.ReadReg(blitter.RegMask))
	require.Equal(t, uint8(0x0F), bl.ReadReg(blitter.RegTransparent))
}

func TestSolidFill(t *testing.T) {
	b := testbus.New()
	bl := blitter.New()
	bl.Solid = 0x7E
	bl.Mask = 0xFF
	bl.Dest = 0x3000
	bl.WriteReg(blitter.RegCount, 2)
	bl.Control = blitter.CtrlGo | blitter.CtrlSolidColor
	bl.WriteReg(blitter.RegControl, bl.Control)

	for !bl.TickWithBus(b, bus.DMAMaster) {
	}
	require.Equal(t, uint8(0x7E), b.Mem[0x3000])
	require.Equal(t, uint8(0x7E), b.Mem[0x3001])
}
