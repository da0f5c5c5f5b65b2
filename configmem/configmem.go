// Package configmem implements the board's battery-backed configuration
// memory: a small byte array (high-score table, coin/difficulty settings)
// that survives power cycles in the original hardware via an on-board
// battery, modeled here as a snapshot that callers persist and restore
// across process runs.
package configmem

import "github.com/pkg/errors"

// Size is the number of bytes of battery-backed memory on the board (1 KiB
// in the Joust target).
const Size = 1024

// ErrSnapshotSize is returned by Restore when the supplied snapshot isn't
// exactly Size bytes.
var ErrSnapshotSize = errors.New("configmem: snapshot must be exactly Size bytes")

// Memory is the battery-backed config RAM. The zero value is usable (all
// zero bytes), matching an uninitialized/dead battery.
type Memory struct {
	data  [Size]byte
	dirty bool
}

func New() *Memory { return &Memory{} }

func (m *Memory) Read(addr uint16) uint8 { return m.data[addr] }

func (m *Memory) Write(addr uint16, v uint8) {
	if m.data[addr] != v {
		m.dirty = true
	}
	m.data[addr] = v
}

// Dirty reports whether any byte has changed since the last Snapshot call,
// so a host can avoid needlessly rewriting unchanged battery-backed storage.
func (m *Memory) Dirty() bool { return m.dirty }

// Snapshot returns a copy of the current contents and clears Dirty.
func (m *Memory) Snapshot() [Size]byte {
	m.dirty = false
	return m.data
}

// Restore loads a previously captured snapshot, e.g. read from a save file
// at machine construction time.
func (m *Memory) Restore(snapshot []byte) error {
	if len(snapshot) != Size {
		return errors.Wrapf(ErrSnapshotSize, "got %d bytes", len(snapshot))
	}
	copy(m.data[:], snapshot)
	m.dirty = false
	return nil
}
