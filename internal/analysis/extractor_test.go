package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitware/commitgen/internal/models"
	"github.com/commitware/commitgen/internal/services"
)

// fakeSource is an in-memory ChangeSource for extractor tests.
type fakeSource struct {
	entries   []services.StatusEntry
	hunks     map[string][]models.DiffHunk
	binary    map[string]bool
	hunkCalls int
}

func (f *fakeSource) StatusEntries() ([]services.StatusEntry, error) {
	return f.entries, nil
}

func (f *fakeSource) DiffHunks(path, oldPath string, staged bool, contextLines int) ([]models.DiffHunk, bool, error) {
	f.hunkCalls++
	if f.binary[path] {
		return nil, true, nil
	}
	return f.hunks[path], false, nil
}

func TestExtractFullMode(t *testing.T) {
	src := &fakeSource{
		entries: []services.StatusEntry{
			{Path: "src/main.go", Kind: models.KindModified, Staged: true},
			{Path: "assets/logo.png", Kind: models.KindModified},
		},
		hunks: map[string][]models.DiffHunk{
			"src/main.go": {{Added: 2, Removed: 1}},
		},
		binary: map[string]bool{"assets/logo.png": true},
	}

	changes, err := Extract(src, models.ModeFull, 3)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, "src/main.go", changes[0].Path)
	assert.Len(t, changes[0].Hunks, 1)
	assert.False(t, changes[0].Binary)

	assert.True(t, changes[1].Binary)
	assert.Empty(t, changes[1].Hunks)
}

func TestExtractLiteModeSkipsHunks(t *testing.T) {
	src := &fakeSource{
		entries: []services.StatusEntry{
			{Path: "src/main.go", Kind: models.KindModified, Staged: true},
			{Path: "src/other.go", Kind: models.KindDeleted},
		},
	}

	changes, err := Extract(src, models.ModeLite, 3)
	require.NoError(t, err)

	assert.Len(t, changes, 2)
	assert.Zero(t, src.hunkCalls)
	for _, change := range changes {
		assert.Empty(t, change.Hunks)
	}
}

func TestExtractDeduplicatesStagedFirst(t *testing.T) {
	// The same path changed in both the index and the worktree keeps its
	// staged record.
	src := &fakeSource{
		entries: []services.StatusEntry{
			{Path: "src/main.go", Kind: models.KindAdded, Staged: true},
			{Path: "src/main.go", Kind: models.KindModified},
		},
	}

	changes, err := Extract(src, models.ModeLite, 3)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.True(t, changes[0].Staged)
	assert.Equal(t, models.KindAdded, changes[0].Kind)
}

func TestExtractNoChanges(t *testing.T) {
	_, err := Extract(&fakeSource{}, models.ModeFull, 3)
	assert.ErrorIs(t, err, models.ErrNoChanges)
}

func TestExtractUntrackedOnlyIsNoChanges(t *testing.T) {
	src := &fakeSource{
		entries: []services.StatusEntry{
			{Path: "scratch.txt", Kind: models.KindUntracked},
		},
	}

	_, err := Extract(src, models.ModeFull, 3)
	assert.ErrorIs(t, err, models.ErrNoChanges)
	assert.Zero(t, src.hunkCalls)
}

// fakeStatusSource extends fakeSource with the snapshot primitives.
type fakeStatusSource struct {
	fakeSource
	branch    string
	ahead     int
	behind    int
	upstream  bool
	conflicts bool
}

func (f *fakeStatusSource) CurrentBranch() (string, error) {
	if f.branch == "" {
		return "", fmt.Errorf("no branch")
	}
	return f.branch, nil
}

func (f *fakeStatusSource) AheadBehind() (int, int, bool, error) {
	return f.ahead, f.behind, f.upstream, nil
}

func (f *fakeStatusSource) HasUnresolvedConflicts() (bool, error) {
	return f.conflicts, nil
}

func TestSummarize(t *testing.T) {
	src := &fakeStatusSource{
		fakeSource: fakeSource{
			entries: []services.StatusEntry{
				{Path: "a.go", Kind: models.KindModified, Staged: true},
				{Path: "b.go", Kind: models.KindModified, Staged: true},
				{Path: "c.go", Kind: models.KindModified},
				{Path: "d.txt", Kind: models.KindUntracked},
			},
		},
		branch:   "main",
		ahead:    2,
		behind:   1,
		upstream: true,
	}

	snap, err := Summarize(src)
	require.NoError(t, err)

	assert.Equal(t, "main", snap.Branch)
	assert.Equal(t, 2, snap.Staged)
	assert.Equal(t, 1, snap.Unstaged)
	assert.Equal(t, 1, snap.Untracked)
	assert.Equal(t, 2, snap.Ahead)
	assert.Equal(t, 1, snap.Behind)
	assert.True(t, snap.HasUpstream)
	assert.True(t, snap.ReadyToCommit)
	assert.True(t, snap.Dirty())
}

func TestSummarizeConflictsBlockCommit(t *testing.T) {
	src := &fakeStatusSource{
		fakeSource: fakeSource{
			entries: []services.StatusEntry{
				{Path: "a.go", Kind: models.KindModified, Staged: true},
			},
		},
		branch:    "feature",
		conflicts: true,
	}

	snap, err := Summarize(src)
	require.NoError(t, err)

	assert.True(t, snap.Conflicts)
	assert.False(t, snap.ReadyToCommit)
}

func TestSummarizeCleanTree(t *testing.T) {
	src := &fakeStatusSource{branch: "main"}

	snap, err := Summarize(src)
	require.NoError(t, err)

	assert.False(t, snap.Dirty())
	assert.False(t, snap.ReadyToCommit)
}

func TestGeneratePipeline(t *testing.T) {
	src := &fakeSource{
		entries: []services.StatusEntry{
			{Path: "README.md", Kind: models.KindModified, Staged: true},
		},
	}

	result, err := Generate(src, GenerateRequest{
		Mode:         models.ModeLite,
		ContextLines: 3,
		Description:  "expand the setup guide",
		Options:      DefaultSynthesizerOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, "docs: expand the setup guide", result.Message.Header)
	assert.Equal(t, models.TypeDocs, result.Classification.Type)
	assert.Len(t, result.Changes, 1)
}

func TestGenerateDerivedDescription(t *testing.T) {
	src := &fakeSource{
		entries: []services.StatusEntry{
			{Path: "README.md", Kind: models.KindModified, Staged: true},
		},
	}

	result, err := Generate(src, GenerateRequest{
		Mode:    models.ModeLite,
		Options: DefaultSynthesizerOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, "docs: update README.md", result.Message.Header)
	assert.Equal(t, models.ConfidenceLow, result.Classification.Confidence)
}

func TestGenerateAppliesOverrides(t *testing.T) {
	src := &fakeSource{
		entries: []services.StatusEntry{
			{Path: "src/auth/login.go", Kind: models.KindModified, Staged: true},
		},
	}

	result, err := Generate(src, GenerateRequest{
		Mode:          models.ModeLite,
		TypeOverride:  "perf",
		ScopeOverride: "login",
		Description:   "batch token lookups",
		Breaking:      true,
		Options:       DefaultSynthesizerOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, "perf(login)!: batch token lookups", result.Message.Header)
	assert.Equal(t, models.ConfidenceHigh, result.Classification.Confidence)
	assert.Contains(t, result.Classification.Rationale, "commit type supplied by caller")
}

func TestGenerateNoChanges(t *testing.T) {
	_, err := Generate(&fakeSource{}, GenerateRequest{Options: DefaultSynthesizerOptions()})
	assert.ErrorIs(t, err, models.ErrNoChanges)
}
