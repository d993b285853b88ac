package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadReturnsDefaultsWhenMissing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	got := s.Load()
	assert.Equal(t, Defaults(), got)
}

func TestStore_SaveRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	want := Settings{
		Notifications:    false,
		BillingReminders: true,
		Currency:         "EUR",
		Theme:            "light",
	}
	require.NoError(t, s.Save(want))
	assert.Equal(t, want, s.Load())
}

func TestStore_LoadIgnoresCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "userSettings"), []byte("{broken"), 0o600))
	assert.Equal(t, Defaults(), s.Load())
}

func TestStore_Reset(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(Settings{Currency: "GBP"}))
	require.NoError(t, s.Reset())
	assert.Equal(t, Defaults(), s.Load())

	// Повторный сброс без файла не ошибка.
	require.NoError(t, s.Reset())
}
