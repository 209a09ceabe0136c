package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHunksSimpleChange(t *testing.T) {
	before := "one\ntwo\nthree\nfour\nfive\n"
	after := "one\ntwo\nTHREE\nfour\nfive\n"

	hunks := computeHunks(before, after, 1)
	require.Len(t, hunks, 1)

	h := hunks[0]
	assert.Equal(t, 2, h.OldStart)
	assert.Equal(t, 2, h.NewStart)
	assert.Equal(t, 1, h.Added)
	assert.Equal(t, 1, h.Removed)
	assert.Contains(t, h.Lines, "-three")
	assert.Contains(t, h.Lines, "+THREE")
	assert.Contains(t, h.Lines, " two")
	assert.Contains(t, h.Lines, " four")
}

func TestComputeHunksMergesTouchingWindows(t *testing.T) {
	before := "a\nb\nc\nd\ne\n"
	after := "A\nb\nc\nd\nE\n"

	// With two context lines the windows around both changes touch, so
	// they collapse into a single hunk.
	hunks := computeHunks(before, after, 2)
	assert.Len(t, hunks, 1)
}

func TestComputeHunksSeparateWindows(t *testing.T) {
	before := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\n"
	after := "A\nb\nc\nd\ne\nf\ng\nh\ni\nJ\n"

	hunks := computeHunks(before, after, 1)
	require.Len(t, hunks, 2)
	assert.Equal(t, 1, hunks[0].OldStart)
	assert.Equal(t, 9, hunks[1].OldStart)
}

func TestComputeHunksNoChanges(t *testing.T) {
	text := "same\ncontent\n"
	assert.Nil(t, computeHunks(text, text, 3))
}

func TestComputeHunksNewFile(t *testing.T) {
	hunks := computeHunks("", "line1\nline2\n", 3)
	require.Len(t, hunks, 1)

	h := hunks[0]
	assert.Equal(t, 2, h.Added)
	assert.Equal(t, 0, h.Removed)
	assert.Equal(t, 2, h.NewLines)
}

func TestComputeHunksDeletedFile(t *testing.T) {
	hunks := computeHunks("line1\nline2\n", "", 3)
	require.Len(t, hunks, 1)
	assert.Equal(t, 2, hunks[0].Removed)
	assert.Equal(t, 0, hunks[0].Added)
}

func TestIsBinary(t *testing.T) {
	assert.True(t, isBinary("PNG\x00\x01\x02"))
	assert.False(t, isBinary("plain text\nwith lines\n"))
	assert.False(t, isBinary(""))
}
