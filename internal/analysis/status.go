package analysis

import (
	"github.com/commitware/commitgen/internal/models"
	"github.com/commitware/commitgen/internal/services"
)

// StatusSource is the slice of the repository adapter the summarizer needs.
// Every operation here is a cheap primitive; no diff content is ever read.
type StatusSource interface {
	StatusEntries() ([]services.StatusEntry, error)
	CurrentBranch() (string, error)
	AheadBehind() (ahead, behind int, hasUpstream bool, err error)
	HasUnresolvedConflicts() (bool, error)
}

// Summarize produces a repository health snapshot for fast polling. It is
// the lite path's companion: a caller can poll this between edits and only
// run a full analysis when ReadyToCommit flips to true.
func Summarize(src StatusSource) (models.StatusSnapshot, error) {
	var snap models.StatusSnapshot

	branch, err := src.CurrentBranch()
	if err != nil {
		return snap, err
	}
	snap.Branch = branch

	entries, err := src.StatusEntries()
	if err != nil {
		return snap, err
	}
	for _, entry := range entries {
		switch {
		case entry.Kind == models.KindUntracked:
			snap.Untracked++
		case entry.Staged:
			snap.Staged++
		default:
			snap.Unstaged++
		}
	}

	snap.Ahead, snap.Behind, snap.HasUpstream, err = src.AheadBehind()
	if err != nil {
		return snap, err
	}

	snap.Conflicts, err = src.HasUnresolvedConflicts()
	if err != nil {
		return snap, err
	}

	snap.ReadyToCommit = snap.Staged > 0 && !snap.Conflicts
	return snap, nil
}
