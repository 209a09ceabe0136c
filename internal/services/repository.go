package services

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/commitware/commitgen/internal/models"
)

// binarySniffLen is how many leading bytes are scanned for a NUL byte when
// deciding whether a file is binary. Same heuristic git itself uses.
const binarySniffLen = 8000

// StatusEntry is one path reported by the repository status, before the
// extractor normalizes it into a FileChange.
type StatusEntry struct {
	Path    string
	OldPath string
	Kind    models.ChangeKind
	Staged  bool
}

// Repository wraps a local working copy opened with go-git. A Repository is
// short-lived: open one per request and discard it with the response.
type Repository struct {
	path string
	repo *git.Repository
}

// Open opens the repository at path. An invalid or missing repository yields
// a RepositoryStateError; retrying cannot succeed.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, &models.RepositoryStateError{Path: path, Err: err}
	}
	return &Repository{path: path, repo: repo}, nil
}

// Init creates a new empty repository at path.
func Init(path string) error {
	if _, err := git.PlainInit(path, false); err != nil {
		return fmt.Errorf("failed to initialize repository at %s: %v", path, err)
	}
	return nil
}

// Path returns the path the repository was opened with.
func (r *Repository) Path() string {
	return r.path
}

// StatusEntries lists every changed path, staged entries first, in
// deterministic order. A path modified in both the index and the worktree
// appears twice, once per side.
func (r *Repository) StatusEntries() ([]StatusEntry, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, &models.RepositoryStateError{Path: r.path, Err: err}
	}
	status, err := wt.Status()
	if err != nil {
		return nil, &models.RepositoryStateError{Path: r.path, Err: err}
	}

	paths := make([]string, 0, len(status))
	for p := range status {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var staged, unstaged, untracked []StatusEntry
	for _, p := range paths {
		fs := status[p]
		if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			untracked = append(untracked, StatusEntry{Path: p, Kind: models.KindUntracked})
			continue
		}
		if kind, ok := kindFromStatusCode(fs.Staging); ok {
			staged = append(staged, StatusEntry{Path: p, OldPath: fs.Extra, Kind: kind, Staged: true})
		}
		if kind, ok := kindFromStatusCode(fs.Worktree); ok {
			unstaged = append(unstaged, StatusEntry{Path: p, Kind: kind})
		}
	}

	entries := make([]StatusEntry, 0, len(staged)+len(unstaged)+len(untracked))
	entries = append(entries, staged...)
	entries = append(entries, unstaged...)
	entries = append(entries, untracked...)
	return entries, nil
}

func kindFromStatusCode(code git.StatusCode) (models.ChangeKind, bool) {
	switch code {
	case git.Added:
		return models.KindAdded, true
	case git.Modified, git.UpdatedButUnmerged:
		return models.KindModified, true
	case git.Deleted:
		return models.KindDeleted, true
	case git.Renamed:
		return models.KindRenamed, true
	case git.Copied:
		return models.KindCopied, true
	default:
		return "", false
	}
}

// DiffHunks computes the line-level diff for a single path. For staged
// changes it compares HEAD against the index; for unstaged changes the index
// (or HEAD when the path is not in the index yet) against the worktree.
// Binary content on either side short-circuits with binary=true and no hunks.
func (r *Repository) DiffHunks(path, oldPath string, staged bool, contextLines int) ([]models.DiffHunk, bool, error) {
	headPath := path
	if oldPath != "" {
		headPath = oldPath
	}

	var before, after string
	var err error
	if staged {
		before, err = r.headContent(headPath)
		if err != nil {
			return nil, false, err
		}
		after, err = r.indexContent(path)
		if err != nil {
			return nil, false, err
		}
	} else {
		before, err = r.indexContent(path)
		if err != nil {
			return nil, false, err
		}
		if before == "" {
			if before, err = r.headContent(headPath); err != nil {
				return nil, false, err
			}
		}
		after, err = r.worktreeContent(path)
		if err != nil {
			return nil, false, err
		}
	}

	if isBinary(before) || isBinary(after) {
		return nil, true, nil
	}
	return computeHunks(before, after, contextLines), false, nil
}

// headContent reads a file from the HEAD tree. Missing paths (and an unborn
// HEAD) read as empty, which diffs as a pure addition.
func (r *Repository) headContent(path string) (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", nil
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD commit: %v", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD tree: %v", err)
	}
	return treeContent(tree, path)
}

// treeContent reads a file from a commit tree; missing paths read as empty.
func treeContent(tree *object.Tree, path string) (string, error) {
	file, err := tree.File(path)
	if err != nil {
		return "", nil
	}
	content, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %s from tree: %v", path, err)
	}
	return content, nil
}

// indexContent reads the staged blob for a path, empty when not staged.
func (r *Repository) indexContent(path string) (string, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return "", fmt.Errorf("failed to read index: %v", err)
	}
	entry, err := idx.Entry(path)
	if err != nil {
		return "", nil
	}
	blob, err := r.repo.BlobObject(entry.Hash)
	if err != nil {
		return "", nil
	}
	reader, err := blob.Reader()
	if err != nil {
		return "", fmt.Errorf("failed to open blob for %s: %v", path, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read blob for %s: %v", path, err)
	}
	return string(data), nil
}

// worktreeContent reads a file from the working tree, empty when deleted.
func (r *Repository) worktreeContent(path string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %v", err)
	}
	file, err := wt.Filesystem.Open(path)
	if err != nil {
		return "", nil
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s from worktree: %v", path, err)
	}
	return string(data), nil
}

func isBinary(content string) bool {
	limit := len(content)
	if limit > binarySniffLen {
		limit = binarySniffLen
	}
	return strings.IndexByte(content[:limit], 0) >= 0
}

// CurrentBranch returns the short name of the checked-out branch, or the
// abbreviated commit hash on a detached HEAD. A freshly initialized
// repository has no commits yet; its branch name comes from the symbolic
// HEAD reference.
func (r *Repository) CurrentBranch() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return r.unbornBranch(), nil
		}
		return "", &models.RepositoryStateError{Path: r.path, Err: err}
	}
	if ref.Name().IsBranch() {
		return ref.Name().Short(), nil
	}
	return ref.Hash().String()[:8], nil
}

// unbornBranch reads the branch name HEAD points at before the first commit
// exists.
func (r *Repository) unbornBranch() string {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil || head.Type() != plumbing.SymbolicReference {
		return "HEAD"
	}
	return head.Target().Short()
}

// AheadBehind counts commits between the current branch and its configured
// upstream. hasUpstream is false when no upstream is configured or the
// remote-tracking ref does not exist locally; that is not an error.
func (r *Repository) AheadBehind() (ahead, behind int, hasUpstream bool, err error) {
	ref, err := r.repo.Head()
	if err != nil {
		// No commits yet means no upstream either.
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return 0, 0, false, nil
		}
		return 0, 0, false, &models.RepositoryStateError{Path: r.path, Err: err}
	}
	if !ref.Name().IsBranch() {
		return 0, 0, false, nil
	}

	cfg, err := r.repo.Config()
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to read repository config: %v", err)
	}
	branch := cfg.Branches[ref.Name().Short()]
	if branch == nil || branch.Merge == "" || branch.Remote == "" {
		return 0, 0, false, nil
	}

	upstreamName := plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short())
	upstream, err := r.repo.Reference(upstreamName, true)
	if err != nil {
		return 0, 0, false, nil
	}

	if ref.Hash() == upstream.Hash() {
		return 0, 0, true, nil
	}

	local, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to read local commit: %v", err)
	}
	remote, err := r.repo.CommitObject(upstream.Hash())
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to read upstream commit: %v", err)
	}

	bases, err := local.MergeBase(remote)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to find merge base: %v", err)
	}
	stop := make([]plumbing.Hash, 0, len(bases))
	for _, b := range bases {
		stop = append(stop, b.Hash)
	}

	ahead, err = countCommits(local, stop)
	if err != nil {
		return 0, 0, false, err
	}
	behind, err = countCommits(remote, stop)
	if err != nil {
		return 0, 0, false, err
	}
	return ahead, behind, true, nil
}

func countCommits(from *object.Commit, stop []plumbing.Hash) (int, error) {
	count := 0
	iter := object.NewCommitPreorderIter(from, nil, stop)
	err := iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk commits: %v", err)
	}
	return count, nil
}

// HasUnresolvedConflicts reports whether the index holds merge-conflict
// entries. Presence check only; no file content is read.
func (r *Repository) HasUnresolvedConflicts() (bool, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return false, fmt.Errorf("failed to read index: %v", err)
	}
	for _, entry := range idx.Entries {
		if entry.Stage != index.Merged {
			return true, nil
		}
	}
	return false, nil
}

// Stage adds the given paths to the index. A single "." stages everything,
// matching git add semantics.
func (r *Repository) Stage(files []string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %v", err)
	}
	if len(files) == 1 && files[0] == "." {
		if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
			return fmt.Errorf("failed to stage all changes: %v", err)
		}
		return nil
	}
	for _, f := range files {
		if _, err := wt.Add(f); err != nil {
			return fmt.Errorf("failed to stage %s: %v", f, err)
		}
	}
	return nil
}

// Unstage resets the index back to HEAD, leaving the worktree untouched.
func (r *Repository) Unstage() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %v", err)
	}
	ref, err := r.repo.Head()
	if err != nil {
		// Before the first commit there is nothing to reset to; unstaging
		// means clearing the index.
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			idx, err := r.repo.Storer.Index()
			if err != nil {
				return fmt.Errorf("failed to read index: %v", err)
			}
			idx.Entries = nil
			if err := r.repo.Storer.SetIndex(idx); err != nil {
				return fmt.Errorf("failed to clear index: %v", err)
			}
			return nil
		}
		return &models.RepositoryStateError{Path: r.path, Err: err}
	}
	if err := wt.Reset(&git.ResetOptions{Mode: git.MixedReset, Commit: ref.Hash()}); err != nil {
		return fmt.Errorf("failed to reset index: %v", err)
	}
	return nil
}

// Commit records the staged changes with the given message and returns the
// new commit hash. Author identity comes from the usual git configuration.
func (r *Repository) Commit(message string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %v", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %v", err)
	}
	return hash.String(), nil
}

// Log returns up to maxCount commits, newest first.
func (r *Repository) Log(maxCount int) ([]models.CommitRecord, error) {
	iter, err := r.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get repository log: %v", err)
	}
	var records []models.CommitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		if maxCount > 0 && len(records) >= maxCount {
			return storerIterStop
		}
		records = append(records, models.CommitRecord{
			Hash:    c.Hash.String(),
			Author:  fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
			When:    c.Author.When,
			Message: strings.TrimSpace(c.Message),
		})
		return nil
	})
	if err != nil && err != storerIterStop {
		return nil, err
	}
	return records, nil
}

// storerIterStop breaks out of go-git iterators early without reporting a
// real failure.
var storerIterStop = fmt.Errorf("stop iteration")

// CreateBranch creates branch name from base, or from HEAD when base is
// empty.
func (r *Repository) CreateBranch(name, base string) error {
	var hash plumbing.Hash
	if base == "" {
		ref, err := r.repo.Head()
		if err != nil {
			return &models.RepositoryStateError{Path: r.path, Err: err}
		}
		hash = ref.Hash()
	} else {
		resolved, err := r.repo.ResolveRevision(plumbing.Revision(base))
		if err != nil {
			return fmt.Errorf("failed to resolve base %s: %v", base, err)
		}
		hash = *resolved
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("failed to create branch %s: %v", name, err)
	}
	return nil
}

// Checkout switches the worktree to the given branch.
func (r *Repository) Checkout(branch string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %v", err)
	}
	opts := &git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)}
	if err := wt.Checkout(opts); err != nil {
		return fmt.Errorf("failed to checkout %s: %v", branch, err)
	}
	return nil
}

// Branches lists branch names. kind is "local", "remote" or "all".
func (r *Repository) Branches(kind string) ([]string, error) {
	var names []string
	if kind == "local" || kind == "all" {
		iter, err := r.repo.Branches()
		if err != nil {
			return nil, fmt.Errorf("failed to list branches: %v", err)
		}
		err = iter.ForEach(func(ref *plumbing.Reference) error {
			names = append(names, ref.Name().Short())
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if kind == "remote" || kind == "all" {
		refs, err := r.repo.References()
		if err != nil {
			return nil, fmt.Errorf("failed to list references: %v", err)
		}
		err = refs.ForEach(func(ref *plumbing.Reference) error {
			if ref.Name().IsRemote() {
				names = append(names, ref.Name().Short())
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if kind != "local" && kind != "remote" && kind != "all" {
		return nil, fmt.Errorf("invalid branch type: %s", kind)
	}
	sort.Strings(names)
	return names, nil
}

// Show renders a commit the way git show does: metadata followed by the
// patch against the first parent.
func (r *Repository) Show(revision string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %s: %v", revision, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("failed to get commit object: %v", err)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Commit: %s\n", commit.Hash.String())
	fmt.Fprintf(&out, "Author: %s <%s>\n", commit.Author.Name, commit.Author.Email)
	fmt.Fprintf(&out, "Date: %s\n", commit.Author.When)
	fmt.Fprintf(&out, "Message: %s\n", strings.TrimSpace(commit.Message))

	currentTree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to get tree for commit: %v", err)
	}
	var changes object.Changes
	parents := commit.Parents()
	firstParent, err := parents.Next()
	if err == nil {
		parentTree, err := firstParent.Tree()
		if err != nil {
			return "", fmt.Errorf("failed to get parent tree: %v", err)
		}
		changes, err = parentTree.Diff(currentTree)
		if err != nil {
			return "", fmt.Errorf("failed to compute diff: %v", err)
		}
	} else if err == io.EOF {
		changes, err = object.DiffTree(nil, currentTree)
		if err != nil {
			return "", fmt.Errorf("failed to compute diff for initial commit: %v", err)
		}
	} else {
		return "", fmt.Errorf("error getting parent commits: %v", err)
	}

	for _, change := range changes {
		patch, err := change.Patch()
		if err != nil {
			return "", fmt.Errorf("failed to generate patch: %v", err)
		}
		out.WriteString("\n")
		out.WriteString(patch.String())
	}
	return out.String(), nil
}
