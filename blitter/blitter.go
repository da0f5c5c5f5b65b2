// Package blitter implements the Williams-generation DMA blitter: a
// bus-mastering block-copy/fill engine that steals the CPU's bus for the
// duration of a transfer, signaling a halt on the shared bus so the CPU core
// suspends mid-instruction and resumes exactly where it left off once the
// transfer completes (see bus.Bus16.IsHaltedFor and cpu6809's halt handling).
package blitter

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user-none/joustcore/bus"
)

// Register offsets within the blitter's memory-mapped control block.
const (
	RegSourceHi    = 0x0
	RegSourceLo    = 0x1
	RegDestHi      = 0x2
	RegDestLo      = 0x3
	RegCount       = 0x4
	RegControl     = 0x5
	RegRowCount    = 0x6 // 2D transfers: number of rows beyond the first
	RegRowOffset   = 0x7 // signed byte added to source/dest after each row
	RegSolid       = 0x8
	RegMask        = 0x9
	RegTransparent = 0xA
)

// RegBlockSize is the width of the blitter's memory-mapped register block,
// for boards sizing their I/O decode window.
const RegBlockSize = 0xB

// Control register bits.
const (
	CtrlGo          = 1 << 0 // writing this bit starts the transfer
	CtrlSolidColor  = 1 << 1 // fill with Solid instead of copying from Source
	CtrlTransparent = 1 << 2 // skip writing bytes equal to TransparentByte
	CtrlSourceShift = 1 << 3 // shift source nibbles by one before masking
	CtrlFlipX       = 1 << 4 // walk the source backward within each row
)

// Blitter is a DMA block-copy/fill engine. It occupies one bus.Master slot
// (bus.DMAMaster) and halts every other master while Busy.
type Blitter struct {
	Source, Dest    uint16
	Count           uint16
	RowCount        uint8
	RowOffset       int8
	Control         uint8
	Solid           uint8
	Mask            uint8 // per-bit write mask: 1 = write, 0 = preserve destination
	TransparentByte uint8

	busy      bool
	remaining uint16
	rowsLeft  uint8
	row       uint16

	log zerolog.Logger
}

func New() *Blitter {
	return &Blitter{log: log.With().Str("component", "blitter").Logger()}
}

// WriteReg handles a CPU write into the blitter's register block. Writing
// RegControl with CtrlGo set latches the current Source/Dest/Count/RowCount
// and begins a transfer (spec §4.3.6: the transfer itself is driven by
// Tick/TickWithBus, not performed instantaneously on this write).
func (bl *Blitter) WriteReg(offset uint8, v uint8) {
	switch offset {
	case RegSourceHi:
		bl.Source = bl.Source&0x00FF | uint16(v)<<8
	case RegSourceLo:
		bl.Source = bl.Source&0xFF00 | uint16(v)
	case RegDestHi:
		bl.Dest = bl.Dest&0x00FF | uint16(v)<<8
	case RegDestLo:
		bl.Dest = bl.Dest&0xFF00 | uint16(v)
	case RegCount:
		bl.Count = uint16(v)
		if bl.Count == 0 {
			bl.Count = 256
		}
	case RegRowCount:
		bl.RowCount = v
	case RegRowOffset:
		bl.RowOffset = int8(v)
	case RegControl:
		bl.Control = v
		if v&CtrlGo != 0 {
			bl.start()
		}
	case RegSolid:
		bl.Solid = v
	case RegMask:
		bl.Mask = v
	case RegTransparent:
		bl.TransparentByte = v
	}
}

func (bl *Blitter) ReadReg(offset uint8) uint8 {
	switch offset {
	case RegSourceHi:
		return uint8(bl.Source >> 8)
	case RegSourceLo:
		return uint8(bl.Source)
	case RegDestHi:
		return uint8(bl.Dest >> 8)
	case RegDestLo:
		return uint8(bl.Dest)
	case RegCount:
		return uint8(bl.Count)
	case RegRowCount:
		return bl.RowCount
	case RegRowOffset:
		return uint8(bl.RowOffset)
	case RegControl:
		ctrl := bl.Control
		if bl.busy {
			ctrl |= CtrlGo
		} else {
			ctrl &^= CtrlGo
		}
		return ctrl
	case RegSolid:
		return bl.Solid
	case RegMask:
		return bl.Mask
	case RegTransparent:
		return bl.TransparentByte
	}
	return 0
}

func (bl *Blitter) start() {
	bl.busy = true
	bl.remaining = bl.Count
	bl.rowsLeft = bl.RowCount
	bl.row = 0
	bl.log.Debug().Uint16("src", bl.Source).Uint16("dst", bl.Dest).Uint16("count", bl.Count).Msg("blit start")
}

// Busy reports whether a transfer is in progress; boards use this to drive
// the shared bus's halt signal for every master but the blitter itself.
func (bl *Blitter) Busy() bool { return bl.busy }

// ClockDivisor: the blitter moves one byte per tick, at the board's base
// clock rate.
func (bl *Blitter) ClockDivisor() int { return 1 }

// TickWithBus performs one byte of an in-progress transfer. Returns true once the
// whole transfer (all rows) completes.
func (bl *Blitter) TickWithBus(b bus.Bus16, master bus.Master) bool {
	if !bl.busy {
		return false
	}

	var v uint8
	if bl.Control&CtrlSolidColor != 0 {
		v = bl.Solid
	} else {
		v = b.Read(master, bl.Source)
		if bl.Control&CtrlSourceShift != 0 {
			v = (v << 4) | (v >> 4)
		}
	}
	skip := bl.Control&CtrlTransparent != 0 && v == bl.TransparentByte
	if !skip {
		dest := b.Read(master, bl.Dest)
		b.Write(master, bl.Dest, (v&bl.Mask)|(dest&^bl.Mask))
	}

	if bl.Control&CtrlFlipX != 0 {
		bl.Source--
	} else {
		bl.Source++
	}
	bl.Dest++
	bl.remaining--

	if bl.remaining == 0 {
		if bl.rowsLeft == 0 {
			bl.busy = false
			bl.Control &^= CtrlGo
			bl.log.Debug().Msg("blit complete")
			return true
		}
		bl.rowsLeft--
		bl.row++
		bl.remaining = bl.Count
		bl.Source = uint16(int32(bl.Source) + int32(bl.RowOffset))
		bl.Dest = uint16(int32(bl.Dest) + int32(bl.RowOffset))
	}
	return false
}

func (bl *Blitter) Tick() bool { return false }
