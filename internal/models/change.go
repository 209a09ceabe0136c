package models

// AnalysisMode selects how much information the extractor materializes for
// each changed file. Both modes produce the same FileChange shape; lite mode
// simply leaves Hunks empty.
type AnalysisMode int

const (
	// ModeFull retrieves diff hunks for every non-binary changed file.
	ModeFull AnalysisMode = iota
	// ModeLite retrieves only path, kind and staged flag. Default for polling.
	ModeLite
)

func (m AnalysisMode) String() string {
	if m == ModeLite {
		return "lite"
	}
	return "full"
}

// ChangeKind describes what happened to a path.
type ChangeKind string

const (
	KindAdded     ChangeKind = "added"
	KindModified  ChangeKind = "modified"
	KindDeleted   ChangeKind = "deleted"
	KindRenamed   ChangeKind = "renamed"
	KindCopied    ChangeKind = "copied"
	KindUntracked ChangeKind = "untracked"
)

// DiffHunk is a contiguous block of added/removed lines within a file diff.
// Lines carry their unified-diff prefix ("+", "-" or " ").
type DiffHunk struct {
	OldStart int      `json:"old_start"`
	OldLines int      `json:"old_lines"`
	NewStart int      `json:"new_start"`
	NewLines int      `json:"new_lines"`
	Added    int      `json:"added"`
	Removed  int      `json:"removed"`
	Lines    []string `json:"lines,omitempty"`
}

// FileChange is one modified path in a single analysis pass. Path is unique
// within the pass; OldPath is set only for renames and copies.
type FileChange struct {
	Path    string     `json:"path"`
	OldPath string     `json:"old_path,omitempty"`
	Kind    ChangeKind `json:"kind"`
	Staged  bool       `json:"staged"`
	Binary  bool       `json:"is_binary"`
	Hunks   []DiffHunk `json:"diff_hunks,omitempty"`
}

// LineDelta returns the total added and removed line counts across all hunks.
func (f FileChange) LineDelta() (added, removed int) {
	for _, h := range f.Hunks {
		added += h.Added
		removed += h.Removed
	}
	return added, removed
}
