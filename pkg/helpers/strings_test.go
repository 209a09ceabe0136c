package helpers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exact", TruncateString("exact", 5))
	assert.Equal(t, "long st...", TruncateString("long string here", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "", TruncateString("abc", 0))
}

func TestTruncateStringKeepsValidUTF8(t *testing.T) {
	// The cut must never land inside a multi-byte rune.
	s := strings.Repeat("é", 40)
	for maxLen := 1; maxLen < 12; maxLen++ {
		out := TruncateString(s, maxLen)
		assert.True(t, utf8.ValidString(out), "maxLen=%d produced %q", maxLen, out)
		assert.LessOrEqual(t, len(out), maxLen)
	}

	assert.Equal(t, "a", TruncateString("aé", 2))
}

func TestSanitizeCommitMessage(t *testing.T) {
	assert.Equal(t, "fix: a\n\nbody", SanitizeCommitMessage("  fix: a\n\n\nbody "))
	assert.Equal(t, "", SanitizeCommitMessage("   "))
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "add feature", LowerFirst("Add feature"))
	assert.Equal(t, "already lower", LowerFirst("already lower"))
	assert.Equal(t, "", LowerFirst(""))
	assert.Equal(t, "123 numeric", LowerFirst("123 numeric"))
	assert.Equal(t, "über", LowerFirst("Über"))
}

func TestTrimTrailingPeriod(t *testing.T) {
	assert.Equal(t, "done", TrimTrailingPeriod("done."))
	assert.Equal(t, "no period", TrimTrailingPeriod("no period"))
	assert.Equal(t, "v1.2", TrimTrailingPeriod("v1.2."))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "short line", WrapText("short line", 20))
	assert.Equal(t, "one\ntwo", WrapText("one two", 3))
	assert.Equal(t, "keep\nexisting\nbreaks", WrapText("keep\nexisting\nbreaks", 20))
	assert.Equal(t, "unwrappable", WrapText("unwrappable", 5))
	assert.Equal(t, "as is", WrapText("as is", 0))
}
