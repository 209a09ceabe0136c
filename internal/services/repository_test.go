package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitware/commitgen/internal/models"
)

var testSignature = &object.Signature{
	Name:  "Test Author",
	Email: "test@example.com",
	When:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
}

// newTestRepo creates a repository with one initial commit containing
// main.go and README.md.
func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()

	raw, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := raw.Worktree()
	require.NoError(t, err)

	writeFile(t, dir, "main.go", "package main\n\nfunc main() {\n}\n")
	writeFile(t, dir, "README.md", "# demo\n")
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &git.CommitOptions{Author: testSignature})
	require.NoError(t, err)

	repo, err := Open(dir)
	require.NoError(t, err)
	return repo, dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestOpenInvalidPath(t *testing.T) {
	_, err := Open(t.TempDir())

	var stateErr *models.RepositoryStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestStatusEntriesOrdering(t *testing.T) {
	repo, dir := newTestRepo(t)

	// One staged change, one unstaged change, one untracked file.
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n")
	require.NoError(t, repo.Stage([]string{"main.go"}))
	writeFile(t, dir, "README.md", "# demo\n\nmore\n")
	writeFile(t, dir, "notes.txt", "scratch\n")

	entries, err := repo.StatusEntries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "main.go", entries[0].Path)
	assert.True(t, entries[0].Staged)
	assert.Equal(t, models.KindModified, entries[0].Kind)

	assert.Equal(t, "README.md", entries[1].Path)
	assert.False(t, entries[1].Staged)

	assert.Equal(t, "notes.txt", entries[2].Path)
	assert.Equal(t, models.KindUntracked, entries[2].Kind)
}

func TestDiffHunksStagedAndUnstaged(t *testing.T) {
	repo, dir := newTestRepo(t)

	writeFile(t, dir, "main.go", "package main\n\nfunc main() {\n\tprintln(\"staged\")\n}\n")
	require.NoError(t, repo.Stage([]string{"main.go"}))
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {\n\tprintln(\"worktree\")\n}\n")

	staged, binary, err := repo.DiffHunks("main.go", "", true, 3)
	require.NoError(t, err)
	assert.False(t, binary)
	require.NotEmpty(t, staged)
	assert.Contains(t, staged[0].Lines, "+\tprintln(\"staged\")")

	unstaged, _, err := repo.DiffHunks("main.go", "", false, 3)
	require.NoError(t, err)
	require.NotEmpty(t, unstaged)
	assert.Contains(t, unstaged[0].Lines, "-\tprintln(\"staged\")")
	assert.Contains(t, unstaged[0].Lines, "+\tprintln(\"worktree\")")
}

func TestDiffHunksDeletedFile(t *testing.T) {
	repo, dir := newTestRepo(t)

	require.NoError(t, os.Remove(filepath.Join(dir, "README.md")))

	hunks, binary, err := repo.DiffHunks("README.md", "", false, 3)
	require.NoError(t, err)
	assert.False(t, binary)
	require.NotEmpty(t, hunks)
	assert.Equal(t, 1, hunks[0].Removed)
}

// newUnbornRepo initializes a repository with a staged file but no commits.
func newUnbornRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()

	raw, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := raw.Worktree()
	require.NoError(t, err)

	writeFile(t, dir, "main.go", "package main\n")
	_, err = wt.Add("main.go")
	require.NoError(t, err)

	repo, err := Open(dir)
	require.NoError(t, err)
	return repo, dir
}

func TestUnbornRepositoryIsNotAnError(t *testing.T) {
	repo, _ := newUnbornRepo(t)

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)

	ahead, behind, hasUpstream, err := repo.AheadBehind()
	require.NoError(t, err)
	assert.False(t, hasUpstream)
	assert.Zero(t, ahead)
	assert.Zero(t, behind)

	conflicts, err := repo.HasUnresolvedConflicts()
	require.NoError(t, err)
	assert.False(t, conflicts)

	entries, err := repo.StatusEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Staged)
	assert.Equal(t, models.KindAdded, entries[0].Kind)
}

func TestUnstageUnbornRepository(t *testing.T) {
	repo, _ := newUnbornRepo(t)

	require.NoError(t, repo.Unstage())

	entries, err := repo.StatusEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.KindUntracked, entries[0].Kind)
}

func TestCurrentBranch(t *testing.T) {
	repo, _ := newTestRepo(t)

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestAheadBehindNoUpstream(t *testing.T) {
	repo, _ := newTestRepo(t)

	ahead, behind, hasUpstream, err := repo.AheadBehind()
	require.NoError(t, err)
	assert.False(t, hasUpstream)
	assert.Zero(t, ahead)
	assert.Zero(t, behind)
}

func TestHasUnresolvedConflictsCleanRepo(t *testing.T) {
	repo, _ := newTestRepo(t)

	conflicts, err := repo.HasUnresolvedConflicts()
	require.NoError(t, err)
	assert.False(t, conflicts)
}

func TestStageAndUnstage(t *testing.T) {
	repo, dir := newTestRepo(t)

	writeFile(t, dir, "main.go", "package main\n\nfunc main() { println(1) }\n")
	require.NoError(t, repo.Stage([]string{"."}))

	entries, err := repo.StatusEntries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.True(t, entries[0].Staged)

	require.NoError(t, repo.Unstage())

	entries, err = repo.StatusEntries()
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, entry.Staged)
	}
}

func TestLog(t *testing.T) {
	repo, dir := newTestRepo(t)

	raw, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := raw.Worktree()
	require.NoError(t, err)
	writeFile(t, dir, "second.txt", "2\n")
	_, err = wt.Add("second.txt")
	require.NoError(t, err)
	_, err = wt.Commit("feat: add second file", &git.CommitOptions{Author: testSignature})
	require.NoError(t, err)

	records, err := repo.Log(10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "feat: add second file", records[0].Message)
	assert.Equal(t, "initial commit", records[1].Message)
	assert.Contains(t, records[0].Author, "Test Author")

	limited, err := repo.Log(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCreateBranchAndCheckout(t *testing.T) {
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.CreateBranch("feature", ""))

	branches, err := repo.Branches("local")
	require.NoError(t, err)
	assert.Contains(t, branches, "feature")
	assert.Contains(t, branches, "master")

	require.NoError(t, repo.Checkout("feature"))
	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

func TestBranchesInvalidKind(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Branches("bogus")
	assert.Error(t, err)
}

func TestShowInitialCommit(t *testing.T) {
	repo, _ := newTestRepo(t)

	out, err := repo.Show("HEAD")
	require.NoError(t, err)
	assert.Contains(t, out, "initial commit")
	assert.Contains(t, out, "Test Author")
	assert.Contains(t, out, "main.go")
}

func TestUnifiedDiff(t *testing.T) {
	repo, dir := newTestRepo(t)

	writeFile(t, dir, "README.md", "# demo\n\nextra line\n")

	out, err := repo.UnifiedDiff(false, 3)
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/README.md")
	assert.Contains(t, out, "+++ b/README.md")
	assert.Contains(t, out, "+extra line")
}

func TestDiffRevisionWorktreeChanges(t *testing.T) {
	repo, dir := newTestRepo(t)

	writeFile(t, dir, "README.md", "# demo\n\nextra line\n")

	out, err := repo.DiffRevision("HEAD", 3)
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/README.md")
	assert.Contains(t, out, "+extra line")
	assert.NotContains(t, out, "main.go")
}

func TestDiffRevisionOlderCommit(t *testing.T) {
	repo, dir := newTestRepo(t)

	// Commit a change, then diff the worktree against the first commit:
	// the committed change must appear even with a clean worktree.
	raw, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := raw.Worktree()
	require.NoError(t, err)
	writeFile(t, dir, "README.md", "# demo\n\ncommitted line\n")
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("docs: extend readme", &git.CommitOptions{Author: testSignature})
	require.NoError(t, err)

	records, err := repo.Log(2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	out, err := repo.DiffRevision(records[1].Hash, 3)
	require.NoError(t, err)
	assert.Contains(t, out, "+committed line")
}

func TestDiffRevisionIncludesStagedNewFile(t *testing.T) {
	repo, dir := newTestRepo(t)

	writeFile(t, dir, "notes.txt", "scratch\n")
	require.NoError(t, repo.Stage([]string{"notes.txt"}))

	out, err := repo.DiffRevision("HEAD", 3)
	require.NoError(t, err)
	assert.Contains(t, out, "+++ b/notes.txt")
	assert.Contains(t, out, "+scratch")
}

func TestDiffRevisionUnknownRevision(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.DiffRevision("does-not-exist", 3)
	assert.ErrorContains(t, err, "failed to resolve revision")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Init(dir))
	_, err := Open(dir)
	require.NoError(t, err)

	// A second init on the same path fails.
	assert.Error(t, Init(dir))
}
