package ips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAll_NoConflicts(t *testing.T) {
	set, err := LoadAll([]NamedPatch{
		{Name: "base.ips", Data: container(literal(0, 1, 2), rle(8, 4, 0xEE))},
		{Name: "hacks.ips", Data: container(literal(2, 3), literal(12, 4))},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"base.ips", "hacks.ips"}, set.Names)
	assert.Empty(t, set.Conflicts)
	assert.Equal(t, 4, set.Len())

	out := set.Apply(make([]byte, 4))
	assert.Equal(t, []byte{1, 2, 3, 0, 0, 0, 0, 0, 0xEE, 0xEE, 0xEE, 0xEE, 4}, out)
}

func TestLoadAll_ConflictsReported(t *testing.T) {
	set, err := LoadAll([]NamedPatch{
		{Name: "a.ips", Data: container(literal(4, 1, 1, 1), literal(5, 7))},
		{Name: "b.ips", Data: container(rle(0, 6, 2), literal(20, 9))},
	}, nil)
	require.NoError(t, err)

	// a's two records overlap each other, which is not a conflict; each one
	// overlaps b's run.
	require.Len(t, set.Conflicts, 2)
	for _, c := range set.Conflicts {
		assert.Equal(t, "a.ips", c.A.Patch)
		assert.Equal(t, "b.ips", c.B.Patch)
		assert.Equal(t, uint32(0), c.B.Record.Offset)
	}
	assert.Contains(t, set.Conflicts[0].String(), "a.ips")

	// b loaded last, so its bytes win.
	out := set.Apply(make([]byte, 8))
	assert.Equal(t, byte(2), out[4])
	assert.Equal(t, byte(2), out[5])
	assert.Equal(t, byte(1), out[6])
}

func TestLoadAll_Strict(t *testing.T) {
	patches := []NamedPatch{
		{Name: "a.ips", Data: container(literal(4, 1))},
		{Name: "b.ips", Data: container(literal(4, 2))},
	}
	set, err := LoadAll(patches, &LoadOptions{Strict: true})
	require.ErrorIs(t, err, ErrConflict)
	assert.Nil(t, set)
	assert.Contains(t, err.Error(), "1 overlapping writes")
}

func TestLoadAll_SkipsDuplicateNames(t *testing.T) {
	data := container(literal(0, 1))
	set, err := LoadAll([]NamedPatch{
		{Name: "base.ips", Data: data},
		{Name: "base.ips", Data: data},
	}, &LoadOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"base.ips"}, set.Names)
	assert.Equal(t, []string{"base.ips"}, set.Skipped)
	assert.Equal(t, 1, set.Len())
}

func TestLoadAll_PropagatesDecodeErrors(t *testing.T) {
	_, err := LoadAll([]NamedPatch{
		{Name: "good.ips", Data: container(literal(0, 1))},
		{Name: "bad.ips", Data: []byte("NOPE!")},
	}, nil)
	require.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "bad.ips")

	_, err = LoadAll([]NamedPatch{{Name: "short.ips", Data: []byte("PATCH\x00")}}, nil)
	require.ErrorIs(t, err, ErrUnexpectedEndOfStream)
}

func TestSet_EncodeRoundTrip(t *testing.T) {
	set, err := LoadAll([]NamedPatch{
		{Name: "a.ips", Data: container(literal(0, 1, 2))},
		{Name: "b.ips", Data: container(rle(4, 3, 9))},
	}, nil)
	require.NoError(t, err)

	merged, err := set.Encode()
	require.NoError(t, err)
	assert.Equal(t, container(literal(0, 1, 2), rle(4, 3, 9)), merged)

	src := make([]byte, 8)
	viaSet := set.Apply(src)
	viaBytes, err := ApplyBytes(src, merged)
	require.NoError(t, err)
	assert.Equal(t, viaSet, viaBytes)
}

func TestSet_SourcesIsACopy(t *testing.T) {
	set, err := LoadAll([]NamedPatch{{Name: "a.ips", Data: container(literal(0, 1))}}, nil)
	require.NoError(t, err)
	sources := set.Sources()
	sources[0].Patch = "changed"
	assert.Equal(t, "a.ips", set.Sources()[0].Patch)
}
