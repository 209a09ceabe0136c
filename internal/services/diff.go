package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/commitware/commitgen/internal/models"
)

type lineOp struct {
	op   byte // '+', '-' or ' '
	text string
}

// lineDiff turns two text blobs into a flat sequence of per-line operations
// using go-diff's line mode.
func lineDiff(before, after string) []lineOp {
	dmp := diffmatchpatch.New()
	charsA, charsB, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lines)

	var ops []lineOp
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var op byte
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = '+'
		case diffmatchpatch.DiffDelete:
			op = '-'
		default:
			op = ' '
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			ops = append(ops, lineOp{op: op, text: line})
		}
	}
	return ops
}

// computeHunks diffs two blobs and groups the changed lines into hunks with
// the requested number of context lines. Adjacent change runs whose context
// windows touch are merged into one hunk, like unified diff output.
func computeHunks(before, after string, contextLines int) []models.DiffHunk {
	ops := lineDiff(before, after)

	// Indices of changed lines.
	var changed []int
	for i, op := range ops {
		if op.op != ' ' {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	// Group change indices into hunk windows.
	type window struct{ start, end int }
	var windows []window
	cur := window{
		start: max(0, changed[0]-contextLines),
		end:   min(len(ops), changed[0]+contextLines+1),
	}
	for _, idx := range changed[1:] {
		start := max(0, idx-contextLines)
		if start <= cur.end {
			cur.end = min(len(ops), idx+contextLines+1)
			continue
		}
		windows = append(windows, cur)
		cur = window{start: start, end: min(len(ops), idx+contextLines+1)}
	}
	windows = append(windows, cur)

	hunks := make([]models.DiffHunk, 0, len(windows))
	oldLine, newLine := 1, 1
	pos := 0
	for _, w := range windows {
		for ; pos < w.start; pos++ {
			if ops[pos].op != '+' {
				oldLine++
			}
			if ops[pos].op != '-' {
				newLine++
			}
		}
		hunk := models.DiffHunk{OldStart: oldLine, NewStart: newLine}
		for ; pos < w.end; pos++ {
			op := ops[pos]
			hunk.Lines = append(hunk.Lines, string(op.op)+op.text)
			switch op.op {
			case '+':
				hunk.Added++
				hunk.NewLines++
				newLine++
			case '-':
				hunk.Removed++
				hunk.OldLines++
				oldLine++
			default:
				hunk.OldLines++
				hunk.NewLines++
				oldLine++
				newLine++
			}
		}
		hunks = append(hunks, hunk)
	}
	return hunks
}

// UnifiedDiff renders the staged or unstaged changes as unified diff text.
// Used by the diff CLI command; the analysis path consumes hunks directly.
func (r *Repository) UnifiedDiff(staged bool, contextLines int) (string, error) {
	entries, err := r.StatusEntries()
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, entry := range entries {
		if entry.Staged != staged || entry.Kind == models.KindUntracked {
			continue
		}
		hunks, binary, err := r.DiffHunks(entry.Path, entry.OldPath, entry.Staged, contextLines)
		if err != nil {
			return "", err
		}
		oldPath := entry.Path
		if entry.OldPath != "" {
			oldPath = entry.OldPath
		}
		fmt.Fprintf(&out, "--- a/%s\n+++ b/%s\n", oldPath, entry.Path)
		if binary {
			fmt.Fprintf(&out, "Binary files differ\n")
			continue
		}
		writeHunks(&out, hunks)
	}
	return out.String(), nil
}

// DiffRevision renders the working tree against an arbitrary revision's
// tree, like git diff <revision>. Paths come from the union of the revision
// tree and the index, so files added since the revision show up too.
func (r *Repository) DiffRevision(revision string, contextLines int) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %s: %v", revision, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("failed to get commit object: %v", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to get tree for commit: %v", err)
	}

	paths := make(map[string]bool)
	err = tree.Files().ForEach(func(f *object.File) error {
		paths[f.Name] = true
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk tree: %v", err)
	}
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return "", fmt.Errorf("failed to read index: %v", err)
	}
	for _, entry := range idx.Entries {
		paths[entry.Name] = true
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var out strings.Builder
	for _, p := range sorted {
		before, err := treeContent(tree, p)
		if err != nil {
			return "", err
		}
		after, err := r.worktreeContent(p)
		if err != nil {
			return "", err
		}
		if before == after {
			continue
		}
		fmt.Fprintf(&out, "--- a/%s\n+++ b/%s\n", p, p)
		if isBinary(before) || isBinary(after) {
			fmt.Fprintf(&out, "Binary files differ\n")
			continue
		}
		writeHunks(&out, computeHunks(before, after, contextLines))
	}
	return out.String(), nil
}

func writeHunks(out *strings.Builder, hunks []models.DiffHunk) {
	for _, h := range hunks {
		fmt.Fprintf(out, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		for _, line := range h.Lines {
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}
}
