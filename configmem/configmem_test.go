package configmem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user-none/joustcore/configmem"
)

func TestWriteMarksDirtyAndSnapshotClears(t *testing.T) {
	m := configmem.New()
	require.False(t, m.Dirty())
	m.Write(0x10, 0x42)
	require.True(t, m.Dirty())
	snap := m.Snapshot()
	require.False(t, m.Dirty())
	require.Equal(t, uint8(0x42), snap[0x10])
}

func TestRestoreRejectsWrongSize(t *testing.T) {
	m := configmem.New()
	err := m.Restore([]byte{1, 2, 3})
	require.ErrorIs(t, err, configmem.ErrSnapshotSize)
}

func TestRestoreRoundTrip(t *testing.T) {
	m := configmem.New()
	m.Write(5, 0x99)
	snap := m.Snapshot()

	m2 := configmem.New()
	require.NoError(t, m2.Restore(snap[:]))
	require.Equal(t, uint8(0x99), m2.Read(5))
}
