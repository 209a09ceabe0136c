// Package analysis turns repository state into a classified change set and a
// conventional commit message. Everything here is read-only: a request opens
// its own repository handle, runs to completion and discards all state.
package analysis

import (
	"github.com/commitware/commitgen/internal/models"
	"github.com/commitware/commitgen/internal/services"
)

// DefaultContextLines is the number of context lines requested around each
// hunk when none is configured.
const DefaultContextLines = 3

// ChangeSource is the slice of the repository adapter the extractor needs.
type ChangeSource interface {
	StatusEntries() ([]services.StatusEntry, error)
	DiffHunks(path, oldPath string, staged bool, contextLines int) ([]models.DiffHunk, bool, error)
}

// Extract normalizes repository status into an ordered FileChange sequence.
// Full mode retrieves hunks for every non-binary file; lite mode never
// requests hunk content so both modes produce the same shape. Returns
// ErrNoChanges when the staged and unstaged sets are both empty.
func Extract(src ChangeSource, mode models.AnalysisMode, contextLines int) ([]models.FileChange, error) {
	if contextLines <= 0 {
		contextLines = DefaultContextLines
	}
	entries, err := src.StatusEntries()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	var changes []models.FileChange
	tracked := 0
	for _, entry := range entries {
		// Entries arrive staged-first, so a path changed on both sides
		// keeps its staged record.
		if seen[entry.Path] {
			continue
		}
		seen[entry.Path] = true
		if entry.Kind != models.KindUntracked {
			tracked++
		}

		change := models.FileChange{
			Path:    entry.Path,
			OldPath: entry.OldPath,
			Kind:    entry.Kind,
			Staged:  entry.Staged,
		}
		if mode == models.ModeFull && entry.Kind != models.KindUntracked {
			hunks, binary, err := src.DiffHunks(entry.Path, entry.OldPath, entry.Staged, contextLines)
			if err != nil {
				return nil, err
			}
			change.Binary = binary
			if !binary {
				change.Hunks = hunks
			}
		}
		changes = append(changes, change)
	}

	if tracked == 0 {
		return nil, models.ErrNoChanges
	}
	return changes, nil
}
