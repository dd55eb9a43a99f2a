package notecrypt

import (
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) string {
	t.Helper()
	var k fernet.Key
	require.NoError(t, k.Generate())
	return k.Encode()
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := New(newKey(t))
	require.NoError(t, err)
	require.True(t, s.Enabled())

	sealed, err := s.Seal("CN-12345 CommSec")
	require.NoError(t, err)
	assert.NotEqual(t, "CN-12345 CommSec", sealed)

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "CN-12345 CommSec", opened)
}

func TestSealer_Disabled(t *testing.T) {
	for name, s := range map[string]*Sealer{"nil": nil, "empty": mustNew(t, "")} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, s.Enabled())
			sealed, err := s.Seal("note")
			require.NoError(t, err)
			assert.Equal(t, "note", sealed)
			opened, err := s.Open("note")
			require.NoError(t, err)
			assert.Equal(t, "note", opened)
		})
	}
}

func TestSealer_KeyRotation(t *testing.T) {
	oldKey, newKeyStr := newKey(t), newKey(t)

	old := mustNew(t, oldKey)
	sealed, err := old.Seal("legacy")
	require.NoError(t, err)

	rotated := mustNew(t, newKeyStr+","+oldKey)
	opened, err := rotated.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "legacy", opened)

	other := mustNew(t, newKeyStr)
	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestSealer_EmptyNote(t *testing.T) {
	s := mustNew(t, newKey(t))
	sealed, err := s.Seal("")
	require.NoError(t, err)
	assert.Empty(t, sealed)
}

func TestNew_InvalidKey(t *testing.T) {
	_, err := New("not-a-key")
	assert.Error(t, err)
}

func mustNew(t *testing.T, keys string) *Sealer {
	t.Helper()
	s, err := New(keys)
	require.NoError(t, err)
	return s
}
