package ips

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestApplyFile(t *testing.T) {
	dir := t.TempDir()
	rom := writeTemp(t, dir, "game.gba", make([]byte, 32))
	patch := writeTemp(t, dir, "seed.ips", container(literal(16, 0xAB, 0xCD), rle(40, 2, 0x11)))
	out := filepath.Join(dir, "game_patched.gba")

	var seen []Record
	res, err := ApplyFile(rom, patch, out, &ApplyOptions{
		OnRecord: func(rec Record) { seen = append(seen, rec) },
	})
	require.NoError(t, err)
	assert.Len(t, seen, 2)
	assert.Equal(t, out, res.OutputPath)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 1, res.RLERecords)
	assert.Equal(t, 4, res.BytesWritten)
	assert.True(t, res.Grown)
	assert.Equal(t, 42, res.OutputSize)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, got, 42)
	assert.Equal(t, []byte{0xAB, 0xCD}, got[16:18])
	assert.Equal(t, []byte{0x11, 0x11}, got[40:42])

	orig, err := os.ReadFile(rom)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 32), orig)
}

func TestApplyFile_FailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	rom := writeTemp(t, dir, "game.gba", make([]byte, 8))
	patch := writeTemp(t, dir, "bad.ips", append([]byte("PATCH"), 0, 0, 1, 0, 4, 1, 2))
	out := filepath.Join(dir, "out.gba")

	res, err := ApplyFile(rom, patch, out, nil)
	require.ErrorIs(t, err, ErrUnexpectedEndOfStream)
	assert.Nil(t, res)
	assert.NoFileExists(t, out)
}

func TestApplyFile_MissingInputs(t *testing.T) {
	dir := t.TempDir()
	rom := writeTemp(t, dir, "game.gba", []byte{1})

	_, err := ApplyFile(filepath.Join(dir, "nope.gba"), rom, filepath.Join(dir, "o"), nil)
	require.ErrorContains(t, err, "rom file not found")

	_, err = ApplyFile(rom, filepath.Join(dir, "nope.ips"), filepath.Join(dir, "o"), nil)
	require.ErrorContains(t, err, "patch file not found")
}

func TestApplyFile_InPlaceWithBackup(t *testing.T) {
	dir := t.TempDir()
	rom := writeTemp(t, dir, "game.gba", []byte{1, 2, 3})
	patch := writeTemp(t, dir, "p.ips", container(literal(1, 9)))

	_, err := ApplyFile(rom, patch, rom, &ApplyOptions{CreateBackup: true})
	require.NoError(t, err)

	got, err := os.ReadFile(rom)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 9, 3}, got)

	backup, err := os.ReadFile(rom + ".bak")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, backup)
}

func TestApplyFiles(t *testing.T) {
	dir := t.TempDir()
	rom := writeTemp(t, dir, "game.gba", make([]byte, 8))
	a := writeTemp(t, dir, "a.ips", container(literal(2, 1, 1)))
	b := writeTemp(t, dir, "b.ips", container(literal(3, 2)))
	out := filepath.Join(dir, "out.gba")

	var progress []int
	res, err := ApplyFiles(rom, []string{a, b}, out, &ApplyOptions{
		OnProgress: func(current, total int) { progress = append(progress, current*10+total) },
	})
	require.NoError(t, err)
	assert.Equal(t, []int{12, 22}, progress)
	assert.Len(t, res.Conflicts, 1)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 1, 2, 0, 0, 0, 0}, got)

	_, err = ApplyFiles(rom, []string{a, b}, filepath.Join(dir, "strict.gba"), &ApplyOptions{Strict: true})
	require.ErrorIs(t, err, ErrConflict)
	assert.NoFileExists(t, filepath.Join(dir, "strict.gba"))
}
