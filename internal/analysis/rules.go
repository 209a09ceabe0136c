package analysis

import (
	"path"
	"regexp"
	"strings"

	"github.com/commitware/commitgen/internal/models"
)

// vote is one piece of classification evidence contributed by a single file.
type vote struct {
	t        models.CommitType
	evidence string
}

// pathRule matches on the path alone and therefore works in lite mode too.
type pathRule struct {
	name  string
	t     models.CommitType
	match func(p string) bool
}

// pathRules is evaluated in priority order; the first match wins for a file.
var pathRules = []pathRule{
	{name: "test file", t: models.TypeTest, match: isTestPath},
	{name: "documentation", t: models.TypeDocs, match: isDocsPath},
	{name: "build config", t: models.TypeBuild, match: isBuildPath},
	{name: "ci config", t: models.TypeCI, match: isCIPath},
	{name: "formatter config", t: models.TypeStyle, match: isStylePath},
}

func pathVote(change models.FileChange) (vote, bool) {
	for _, rule := range pathRules {
		if rule.match(change.Path) {
			return vote{t: rule.t, evidence: rule.name + ": " + change.Path}, true
		}
	}
	return vote{}, false
}

func isTestPath(p string) bool {
	for _, seg := range strings.Split(path.Dir(p), "/") {
		switch seg {
		case "test", "tests", "testdata", "__tests__", "spec":
			return true
		}
	}
	base := path.Base(p)
	if strings.HasPrefix(base, "test_") {
		return true
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	if strings.HasSuffix(stem, "_test") {
		return true
	}
	return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.")
}

var docExtensions = map[string]bool{
	".md": true, ".markdown": true, ".rst": true, ".adoc": true, ".txt": true,
}

func isDocsPath(p string) bool {
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if seg == "docs" || seg == "doc" {
			return true
		}
	}
	return docExtensions[strings.ToLower(path.Ext(p))]
}

var buildFiles = map[string]bool{
	"go.mod": true, "go.sum": true,
	"package.json": true, "package-lock.json": true, "yarn.lock": true,
	"pnpm-lock.yaml": true,
	"cargo.toml":     true, "cargo.lock": true,
	"gemfile": true, "gemfile.lock": true,
	"pyproject.toml": true, "setup.py": true, "setup.cfg": true,
	"poetry.lock": true, "pipfile": true, "pipfile.lock": true,
	"makefile": true, "cmakelists.txt": true,
	"dockerfile": true, "docker-compose.yml": true, "docker-compose.yaml": true,
	"build.gradle": true, "pom.xml": true,
}

func isBuildPath(p string) bool {
	base := strings.ToLower(path.Base(p))
	if buildFiles[base] {
		return true
	}
	return strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt")
}

var ciFiles = map[string]bool{
	".gitlab-ci.yml": true, ".travis.yml": true, "jenkinsfile": true,
	"azure-pipelines.yml": true, ".drone.yml": true,
}

func isCIPath(p string) bool {
	if strings.HasPrefix(p, ".github/workflows/") || strings.HasPrefix(p, ".circleci/") {
		return true
	}
	return ciFiles[strings.ToLower(path.Base(p))]
}

var styleFiles = map[string]bool{
	".editorconfig": true, ".golangci.yml": true, ".golangci.yaml": true,
	"rustfmt.toml": true, ".rustfmt.toml": true, ".clang-format": true,
	".flake8": true, "ruff.toml": true, ".ruff.toml": true,
}

func isStylePath(p string) bool {
	base := strings.ToLower(path.Base(p))
	if styleFiles[base] {
		return true
	}
	return strings.HasPrefix(base, ".prettierrc") || strings.HasPrefix(base, ".eslintrc") ||
		strings.HasPrefix(base, ".stylelintrc")
}

// declRe matches new function, class or type declarations on added lines.
var declRe = regexp.MustCompile(`^\s*(func\s|def\s|class\s|type\s+\w+\s+(struct|interface)\b|(pub\s+)?fn\s|(public|private|protected)\s+\w+.*\(|(export\s+)?(async\s+)?function\s|(export\s+)?(const|class)\s+\w+\s*=?)`)

// fixKeywordRe marks hunk content that talks about defects.
var fixKeywordRe = regexp.MustCompile(`(?i)\b(fix(es|ed)?|bug|error|issue|crash|fail(s|ed|ure)?)\b`)

// publicDeclRe matches declarations that form a package's public surface.
var publicDeclRe = regexp.MustCompile(`^\s*(func\s+[A-Z]|func\s+\([^)]+\)\s+[A-Z]|type\s+[A-Z]|def\s|class\s|(pub|public|export)\b)`)

var commentPrefixes = []string{"//", "#", "/*", "*", "*/", "--", ";", "'''", `"""`}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	for _, prefix := range commentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// contentVote classifies a single file from its hunks. Only used in full
// mode, and only when no path rule matched. Rules run in priority order;
// fix is the default when nothing else applies.
func contentVote(change models.FileChange) vote {
	added, removed := change.LineDelta()

	if change.Kind == models.KindAdded && added > 0 {
		return vote{t: models.TypeFeat, evidence: "new file: " + change.Path}
	}

	if added+removed > 0 && commentOnlyChanges(change) {
		return vote{t: models.TypeDocs, evidence: "comment-only changes in " + change.Path}
	}

	if added > 0 && removed > 0 && whitespaceEquivalent(change) {
		return vote{t: models.TypeStyle, evidence: "whitespace-only changes in " + change.Path}
	}

	if removed == 0 && added > 0 && hasNewDeclarations(change) {
		return vote{t: models.TypeFeat, evidence: "new declarations added in " + change.Path}
	}

	if removed > 0 && hasFixKeywords(change) {
		return vote{t: models.TypeFix, evidence: "defect keywords near changes in " + change.Path}
	}

	if removed > 0 && nearZeroDelta(added, removed) {
		return vote{t: models.TypeRefactor, evidence: "balanced line delta in " + change.Path}
	}

	return vote{t: models.TypeFix, evidence: "modified logic in " + change.Path}
}

func commentOnlyChanges(change models.FileChange) bool {
	for _, h := range change.Hunks {
		for _, line := range h.Lines {
			if len(line) == 0 || (line[0] != '+' && line[0] != '-') {
				continue
			}
			if !isCommentLine(line[1:]) {
				return false
			}
		}
	}
	return true
}

// whitespaceEquivalent reports whether the removed and added sides are equal
// once every whitespace rune is deleted. This is the whitespace-insensitive
// comparison that separates style from refactor.
func whitespaceEquivalent(change models.FileChange) bool {
	var removed, added strings.Builder
	for _, h := range change.Hunks {
		for _, line := range h.Lines {
			if len(line) == 0 {
				continue
			}
			switch line[0] {
			case '-':
				removed.WriteString(stripWhitespace(line[1:]))
			case '+':
				added.WriteString(stripWhitespace(line[1:]))
			}
		}
	}
	return removed.String() == added.String()
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f' {
			return -1
		}
		return r
	}, s)
}

func hasNewDeclarations(change models.FileChange) bool {
	for _, h := range change.Hunks {
		for _, line := range h.Lines {
			if len(line) > 1 && line[0] == '+' && declRe.MatchString(line[1:]) {
				return true
			}
		}
	}
	return false
}

func hasFixKeywords(change models.FileChange) bool {
	for _, h := range change.Hunks {
		for _, line := range h.Lines {
			if len(line) > 1 && (line[0] == '+' || line[0] == '-') && fixKeywordRe.MatchString(line[1:]) {
				return true
			}
		}
	}
	return false
}

func nearZeroDelta(added, removed int) bool {
	delta := added - removed
	if delta < 0 {
		delta = -delta
	}
	total := added + removed
	return delta <= total/10+1
}

// removedPublicDeclarations returns the public declaration lines removed in
// this change set and never re-added. Used for the breaking-change heuristic.
func removedPublicDeclarations(changes []models.FileChange) []string {
	readded := make(map[string]bool)
	var removed []string
	for _, change := range changes {
		for _, h := range change.Hunks {
			for _, line := range h.Lines {
				if len(line) < 2 {
					continue
				}
				content := strings.TrimSpace(line[1:])
				switch line[0] {
				case '+':
					readded[content] = true
				case '-':
					if publicDeclRe.MatchString(line[1:]) {
						removed = append(removed, content)
					}
				}
			}
		}
	}
	var out []string
	for _, line := range removed {
		if !readded[line] {
			out = append(out, line)
		}
	}
	return out
}
