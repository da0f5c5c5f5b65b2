// Package machine assembles the Joust arcade board: a 6809 CPU, dual PIAs,
// a DMA blitter, video RAM, battery-backed config memory, and masked ROM,
// all sharing one address bus.
package machine

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/user-none/joustcore/bus"
	"github.com/user-none/joustcore/cpu6809"
)

// CyclesPerFrame is the 6809 clock divided by the board's 60Hz frame rate,
// at the Williams-generation board's ~1.5MHz CPU clock.
const CyclesPerFrame = 1_500_000 / 60

// Board is a fully assembled, runnable machine.
type Board struct {
	CPU *cpu6809.CPU
	Bus *Bus

	master bus.Master
	log    zerolog.Logger

	// vsyncLevel toggles once per frame and is latched into both PIAs' CA1
	// inputs, the board's vertical-sync interrupt source.
	vsyncLevel bool
}

// New assembles a board with a fresh CPU and bus; call LoadROM and Reset
// before running.
func New() *Board {
	return &Board{
		CPU:    cpu6809.New(),
		Bus:    NewBus(),
		master: bus.CPUMaster(0),
		log:    log.With().Str("component", "machine").Logger(),
	}
}

// LoadROM installs the masked-ROM image.
func (bd *Board) LoadROM(image []byte) error {
	if err := bd.Bus.LoadROM(image); err != nil {
		bd.log.Error().Err(err).Msg("failed to load ROM")
		return err
	}
	return nil
}

// Reset pulses reset on the CPU, loading PC from the reset vector.
func (bd *Board) Reset() {
	bd.CPU.Reset(bd.Bus, bd.master)
}

// TickCycle advances the board by exactly one bus cycle: the blitter's halt
// state gates the CPU, and the blitter itself always runs (it's immune to
// its own halt signal — it IS the active bus master while busy).
func (bd *Board) TickCycle() {
	bd.Bus.SetHalted(bus.DMAMaster, false)
	halted := bd.Bus.Blit.Busy()
	bd.Bus.SetHalted(bd.master, halted)

	if halted {
		bd.Bus.Blit.TickWithBus(bd.Bus, bus.DMAMaster)
		return
	}
	bd.CPU.TickWithBus(bd.Bus, bd.master)
}

// TickFrame runs one frame's worth of cycles, then fans out the
// independent end-of-frame bookkeeping tasks (vsync edge latch into each
// PIA, framebuffer decode) concurrently and, once they are joined,
// recomputes the interrupt line from both PIAs — the fanned-out tasks
// read/write disjoint state, unlike the CPU/blitter cycle loop
// above, which must stay strictly sequential because both master the same
// bus.
func (bd *Board) TickFrame() *Framebuffer {
	for i := 0; i < CyclesPerFrame; i++ {
		bd.TickCycle()
	}

	bd.vsyncLevel = !bd.vsyncLevel

	var g errgroup.Group
	g.Go(func() error {
		bd.Bus.PIA1.SetCA1(bd.vsyncLevel)
		return nil
	})
	g.Go(func() error {
		bd.Bus.PIA2.SetCA1(bd.vsyncLevel)
		return nil
	})
	var frame *Framebuffer
	g.Go(func() error {
		frame = bd.Bus.VRAM
		frame.Decode()
		return nil
	})
	_ = g.Wait() // each goroutine above is infallible; error is always nil

	bd.Bus.SetInterrupts(bus.InterruptRecord{
		IRQ: bd.Bus.PIA1.IRQ() || bd.Bus.PIA2.IRQ(),
	})

	return frame
}

// SetPlayerInputs wires the board's two PIA input ports to joystick/button
// reader functions, the conventional Joust control layout (one PIA port
// per player).
func (bd *Board) SetPlayerInputs(player1, player2 func() uint8) {
	bd.Bus.PIA1.A.SetInputFunc(player1)
	bd.Bus.PIA2.A.SetInputFunc(player2)
}
