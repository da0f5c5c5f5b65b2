// Package component defines the clocked-device contracts shared by every
// peripheral, DMA engine, and CPU core on the board.
package component

import "github.com/user-none/joustcore/bus"

// Component is the contract every clocked device satisfies: advance one
// clock, report whether a notable event occurred (interrupt edge raised,
// transfer completed). Devices whose state evolves without bus access
// (PIA edge detection between externally-driven transitions) implement
// only this.
type Component interface {
	Tick() (eventOccurred bool)
}

// BusComponent is implemented by a device that must drive bus transactions
// during its own clock (a CPU core fetching and executing, a DMA engine
// streaming bytes). The bus and master identity are passed in rather than
// captured at construction time so the same device type can be reused
// across boards with different bus implementations.
type BusComponent interface {
	Component
	TickWithBus(b bus.Bus16, master bus.Master) (eventOccurred bool)
}

// ClockDivided is implemented by a device that ticks less often than the
// fastest clock in the system. The board's scheduler is responsible for
// honoring the divisor; the component itself only reports it.
type ClockDivided interface {
	ClockDivisor() int
}
