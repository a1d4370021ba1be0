package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Empty(t *testing.T) {
	c := NewChain()
	assert.True(t, c.Empty())
	assert.False(t, c.Excluded("anything.txt", false))

	require.NoError(t, c.AddExclude("*.log"))
	assert.False(t, c.Empty())
}

func TestChain_BasenameGlob(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("*.log"))

	assert.True(t, c.Excluded("debug.log", false))
	assert.True(t, c.Excluded("sub/dir/debug.log", false))
	assert.False(t, c.Excluded("debug.txt", false))
	assert.False(t, c.Excluded("log", false))
}

func TestChain_DirOnly(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("build/"))

	assert.True(t, c.Excluded("build", true))
	assert.False(t, c.Excluded("build", false), "plain file named build is not excluded")
	assert.True(t, c.Excluded("sub/build", true))
}

func TestChain_AnchoredPath(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("tmp/cache"))

	assert.True(t, c.Excluded("tmp/cache", true))
	assert.False(t, c.Excluded("other/tmp/cache", true), "slash patterns anchor to the root")
}

func TestChain_QuestionMark(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("file?.txt"))

	assert.True(t, c.Excluded("file1.txt", false))
	assert.False(t, c.Excluded("file10.txt", false))
	assert.False(t, c.Excluded("file.txt", false))
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100", 100},
		{"100B", 100},
		{"1K", 1024},
		{"100M", 100 * 1024 * 1024},
		{"2G", 2 * 1024 * 1024 * 1024},
		{"1T", 1 << 40},
		{"1.5M", 1536 * 1024},
		{"100m", 100 * 1024 * 1024},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"", "M", "abc", "12X3"} {
		_, err := ParseSize(in)
		assert.Error(t, err, in)
	}
}
