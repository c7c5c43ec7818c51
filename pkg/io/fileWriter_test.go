package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeDirForFile(t *testing.T) {
	tmp := t.TempDir()
	for name, file := range map[string]string{
		"dump":     filepath.Join(tmp, "dumps", "2026", "accounts.bin"),
		"log":      filepath.Join(tmp, "log", "hello.log"),
		"bolt":     filepath.Join(tmp, "chains", "hello.bolt"),
		"existing": filepath.Join(tmp, "chains", "hello2.bolt"),
		"flat":     filepath.Join(tmp, "flat.bin"),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, MakeDirForFile(file, name))

			info, err := os.Stat(filepath.Dir(file))
			require.NoError(t, err)
			require.True(t, info.IsDir())
			require.NoError(t, os.WriteFile(file, []byte{1}, 0o644))
		})
	}
}

func TestMakeDirForFileUnderFile(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "accounts.bin")
	require.NoError(t, os.WriteFile(dump, []byte{0, 0, 0, 0}, 0o644))

	err := MakeDirForFile(filepath.Join(dump, "nested", "accounts.bin"), "dump")
	require.ErrorContains(t, err, "could not create dir for dump")
}
