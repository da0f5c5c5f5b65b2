package machine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user-none/joustcore/machine"
)

func romWithResetVector(pc uint16) []byte {
	rom := make([]byte, 0x10000-0xD000)
	rom[0xFFFE-0xD000] = byte(pc >> 8)
	rom[0xFFFF-0xD000] = byte(pc)
	return rom
}

func TestBoardResetLoadsPCFromVector(t *testing.T) {
	bd := machine.New()
	require.NoError(t, bd.LoadROM(romWithResetVector(0xD100)))
	bd.Reset()
	require.EqualValues(t, 0xD100, bd.CPU.PC)
}

func TestLoadROMRejectsWrongSize(t *testing.T) {
	bd := machine.New()
	err := bd.LoadROM([]byte{0x00})
	require.Error(t, err)
}

func TestTickFrameAdvancesCyclesAndDecodesFramebuffer(t *testing.T) {
	bd := machine.New()
	rom := romWithResetVector(0xD000)
	require.NoError(t, bd.LoadROM(rom))
	bd.Reset()

	fb := bd.TickFrame()
	require.NotNil(t, fb)
	require.Equal(t, uint64(machine.CyclesPerFrame), bd.CPU.Cycles(), "one frame should consume exactly CyclesPerFrame cycles when the blitter never halts the CPU")
}

func TestBlitterHaltsCPUDuringTransfer(t *testing.T) {
	bd := machine.New()
	require.NoError(t, bd.LoadROM(romWithResetVector(0xD000)))
	bd.Reset()

	bd.Bus.Blit.WriteReg(4, 4) // count = 4
	bd.Bus.Blit.WriteReg(5, 1) // control = CtrlGo

	before := bd.CPU.Cycles()
	bd.TickCycle()
	require.True(t, bd.Bus.Blit.Busy())
	require.Equal(t, before, bd.CPU.Cycles(), "CPU must not advance while the blitter owns the bus")
}
