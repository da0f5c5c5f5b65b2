package pia_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user-none/joustcore/pia"
)

func TestDirectionGatesOutputVsInput(t *testing.T) {
	p := pia.New()
	p.Write(1, 0x00) // CRA bit2 clear: DDRA selected
	p.Write(0, 0x0F) // low nibble output, high nibble input
	p.Write(1, 0x04) // CRA bit2 set: data register selected
	p.Write(0, 0xAA) // drive output bits

	p.A.SetInputFunc(func() uint8 { return 0xF0 })
	require.Equal(t, uint8(0xFA), p.Read(0), "low nibble from output latch, high nibble from input")
}

func TestControlRegisterLatchesEdgeAndClearsOnRead(t *testing.T) {
	p := pia.New()
	p.Write(1, 0x01) // CRA bit0 = 1: rising-edge C1
	p.SetCA1(false)
	p.SetCA1(true)
	require.NotZero(t, p.Read(1)&0x80, "IRQ1 flag should latch on rising edge")
	p.Write(1, 0x04) // select data register
	_ = p.Read(0)
	require.Zero(t, p.Read(1)&0x80, "reading the data register clears the sticky IRQ flag")
}

func TestIRQRequiresEnableBit(t *testing.T) {
	p := pia.New()
	require.False(t, p.IRQ())
	p.Write(1, 0x01) // CRA bit0: rising-edge C1, but IRQ is masked without the enable bit
	p.SetCA1(true)
	require.False(t, p.IRQ(), "IRQ must stay low until the interrupt-enable bit is set")

	p.Write(1, 0x03) // add bit1: C1 interrupt enable
	p.SetCA1(false)
	p.SetCA1(true)
	require.True(t, p.IRQ())
}
