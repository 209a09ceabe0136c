package analysis

import (
	"fmt"
	"strings"

	"github.com/commitware/commitgen/internal/models"
)

// genericRoots are source-layout wrapper directories that never make useful
// scopes on their own.
var genericRoots = map[string]bool{
	"src": true, "lib": true, "pkg": true, "internal": true,
	"app": true, "apps": true, "cmd": true, "source": true,
}

// Classify maps a change set to one commit type, an inferred scope and a
// confidence level. A commit is assumed to be one logical unit, so the whole
// set gets a single verdict: each file contributes one vote (path rules
// first, content rules when hunks are available) and the majority wins.
// Ambiguity never fails; it only lowers confidence.
func Classify(changes []models.FileChange) models.ClassificationResult {
	result := models.ClassificationResult{Scope: inferScope(changes)}

	// A lone rename with no content delta is a pure restructuring.
	if len(changes) == 1 && changes[0].Kind == models.KindRenamed && len(changes[0].Hunks) == 0 {
		result.Type = models.TypeRefactor
		result.Confidence = models.ConfidenceHigh
		result.Rationale = []string{fmt.Sprintf("renamed %s to %s with no content changes", changes[0].OldPath, changes[0].Path)}
		return result
	}

	var votes []vote
	pathRuleHits := 0
	contentRuleUsed := false
	for _, change := range changes {
		if v, ok := pathVote(change); ok {
			votes = append(votes, v)
			pathRuleHits++
			continue
		}
		if len(change.Hunks) > 0 {
			votes = append(votes, contentVote(change))
			contentRuleUsed = true
			continue
		}
		// Lite mode (or a binary file): only the change kind is available.
		votes = append(votes, kindVote(change))
		contentRuleUsed = true
	}

	winner, agreement := tally(votes)

	// Tests riding along with implementation changes classify by the
	// non-test majority.
	if winner == models.TypeTest {
		var rest []vote
		for _, v := range votes {
			if v.t != models.TypeTest {
				rest = append(rest, v)
			}
		}
		if len(rest) > 0 {
			var count float64
			winner, count = tally(rest)
			agreement = count * float64(len(rest)) / float64(len(votes))
			votes = append(votes, vote{t: winner, evidence: "test changes follow the implementation majority"})
		}
	}

	// A wave of brand-new top-level modules is a feature even when the
	// individual votes were inconclusive.
	if winner == models.TypeFix || winner == models.TypeChore || winner == models.TypeRefactor {
		if added, topLevel := countAdded(changes); added > len(changes)/2 && topLevel {
			winner = models.TypeFeat
			votes = append(votes, vote{t: winner, evidence: "majority of changes introduce new modules"})
		}
	}

	result.Type = winner
	for _, v := range votes {
		result.Rationale = append(result.Rationale, v.evidence)
	}

	// High confidence needs every file to agree via path rules alone.
	switch {
	case agreement < 0.6:
		result.Confidence = models.ConfidenceLow
		result.Rationale = append(result.Rationale, "mixed signals across changed files")
	case contentRuleUsed:
		result.Confidence = models.ConfidenceMedium
	case pathRuleHits > 0 && agreement == 1.0:
		result.Confidence = models.ConfidenceHigh
	case pathRuleHits > 0:
		result.Confidence = models.ConfidenceMedium
	default:
		result.Confidence = models.ConfidenceLow
	}

	if removed := removedPublicDeclarations(changes); len(removed) > 0 {
		result.Breaking = true
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("public declaration removed: %s", firstLine(removed[0])))
	}

	return result
}

// kindVote is the lite-mode fallback when neither path patterns nor hunk
// content are available.
func kindVote(change models.FileChange) vote {
	switch change.Kind {
	case models.KindAdded, models.KindUntracked:
		return vote{t: models.TypeFeat, evidence: "new file: " + change.Path}
	case models.KindRenamed:
		return vote{t: models.TypeRefactor, evidence: "renamed: " + change.Path}
	default:
		return vote{t: models.TypeChore, evidence: "modified without diff detail: " + change.Path}
	}
}

// tally picks the winning type by majority, breaking ties by the documented
// type order so results stay deterministic.
func tally(votes []vote) (models.CommitType, float64) {
	if len(votes) == 0 {
		return models.TypeChore, 0
	}
	counts := make(map[models.CommitType]int, len(votes))
	for _, v := range votes {
		counts[v.t]++
	}
	var winner models.CommitType
	best := -1
	for _, t := range models.KnownCommitTypes {
		if counts[t] > best {
			winner = t
			best = counts[t]
		}
	}
	return winner, float64(best) / float64(len(votes))
}

func countAdded(changes []models.FileChange) (int, bool) {
	added := 0
	topLevel := false
	for _, change := range changes {
		if change.Kind == models.KindAdded || change.Kind == models.KindUntracked {
			added++
			if !strings.Contains(strings.Trim(change.Path, "/"), "/") || newModuleDir(change.Path) {
				topLevel = true
			}
		}
	}
	return added, topLevel
}

// newModuleDir treats an added file one level under a generic source root as
// a new top-level module (for example src/parser/parser.go).
func newModuleDir(p string) bool {
	parts := strings.Split(p, "/")
	return len(parts) >= 2 && genericRoots[parts[0]]
}

// inferScope takes the shortest common path prefix across the changed files,
// skips generic source roots and keeps a single path segment. Files spanning
// unrelated top-level directories produce no scope.
func inferScope(changes []models.FileChange) string {
	if len(changes) == 0 {
		return ""
	}
	common := strings.Split(changes[0].Path, "/")
	common = common[:len(common)-1] // drop the file name
	for _, change := range changes[1:] {
		dir := strings.Split(change.Path, "/")
		dir = dir[:len(dir)-1]
		n := len(common)
		if len(dir) < n {
			n = len(dir)
		}
		matched := 0
		for i := 0; i < n; i++ {
			if common[i] != dir[i] {
				break
			}
			matched++
		}
		common = common[:matched]
	}
	for _, seg := range common {
		if !genericRoots[seg] {
			return seg
		}
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
