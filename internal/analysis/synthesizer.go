package analysis

import (
	"fmt"
	"path"
	"strings"

	"github.com/commitware/commitgen/internal/models"
	"github.com/commitware/commitgen/pkg/helpers"
)

// DefaultHeaderLength is the header budget when none is configured.
const DefaultHeaderLength = 72

// breakingPlaceholder is inserted when a breaking change is detected but the
// caller supplied no body text. It is surfaced, never silently dropped.
const breakingPlaceholder = "BREAKING CHANGE: <describe what breaks and how callers should migrate>"

// emojiByType maps commit types to their gitmoji-style markers for the emoji
// message style.
var emojiByType = map[models.CommitType]string{
	models.TypeFeat:     "✨",
	models.TypeFix:      "🐛",
	models.TypeDocs:     "📝",
	models.TypeStyle:    "💄",
	models.TypeRefactor: "♻️",
	models.TypePerf:     "⚡",
	models.TypeBuild:    "📦",
	models.TypeCI:       "👷",
	models.TypeTest:     "✅",
	models.TypeChore:    "🔧",
	models.TypeRevert:   "⏪",
}

// SynthesizerOptions is the formatting configuration consumed when building a
// message. Zero values fall back to the conventional defaults.
type SynthesizerOptions struct {
	Style                string // "conventional" (default) or "emoji"
	LowercaseFirstLetter bool
	RemovePeriod         bool
	DescriptionMaxLength int
	Body                 string
}

// DefaultSynthesizerOptions are the built-in message guidelines: imperative
// mood, lowercase start, no trailing period.
func DefaultSynthesizerOptions() SynthesizerOptions {
	return SynthesizerOptions{
		Style:                "conventional",
		LowercaseFirstLetter: true,
		RemovePeriod:         true,
		DescriptionMaxLength: DefaultHeaderLength,
	}
}

// Synthesize assembles a conventional commit message from a classification,
// an optional caller-supplied description and formatting options. When the
// description is derived rather than supplied, the returned classification is
// demoted to low confidence: the placeholder is meant for human editing.
// Pure function; nothing in the repository is touched.
func Synthesize(result models.ClassificationResult, description string, changes []models.FileChange, opts SynthesizerOptions) (models.CommitMessage, models.ClassificationResult) {
	if opts.DescriptionMaxLength <= 0 {
		opts.DescriptionMaxLength = DefaultHeaderLength
	}

	msg := models.CommitMessage{Breaking: result.Breaking}

	if description == "" {
		description = deriveDescription(result, changes)
		result.Confidence = models.ConfidenceLow
		result.Rationale = append(result.Rationale, "description auto-derived; edit before committing")
	}
	description = strings.TrimSpace(description)
	if opts.LowercaseFirstLetter {
		description = helpers.LowerFirst(description)
	}
	if opts.RemovePeriod {
		description = helpers.TrimTrailingPeriod(description)
	}

	prefix := headerPrefix(result, opts.Style)
	budget := opts.DescriptionMaxLength - len(prefix)
	if budget < 1 {
		budget = 1
	}
	if len(description) > budget {
		description = helpers.TruncateString(description, budget)
		msg.Warnings = append(msg.Warnings,
			fmt.Sprintf("description truncated to fit the %d character header budget", opts.DescriptionMaxLength))
	}
	msg.Header = prefix + description

	body := strings.TrimSpace(opts.Body)
	if result.Breaking && !strings.Contains(body, "BREAKING CHANGE:") {
		if body != "" {
			body += "\n\n"
		}
		body += breakingPlaceholder
		msg.Warnings = append(msg.Warnings, "breaking change detected; fill in the BREAKING CHANGE footer")
	}
	if body != "" {
		msg.Body = helpers.WrapText(body, DefaultHeaderLength)
	}

	return msg, result
}

func headerPrefix(result models.ClassificationResult, style string) string {
	var b strings.Builder
	if style == "emoji" {
		if emoji, ok := emojiByType[result.Type]; ok {
			b.WriteString(emoji)
			b.WriteString(" ")
		}
	}
	b.WriteString(string(result.Type))
	if result.Scope != "" {
		b.WriteString("(")
		b.WriteString(result.Scope)
		b.WriteString(")")
	}
	if result.Breaking {
		b.WriteString("!")
	}
	b.WriteString(": ")
	return b.String()
}

// deriveDescription builds a best-effort placeholder description from the
// change set when the caller supplied none.
func deriveDescription(result models.ClassificationResult, changes []models.FileChange) string {
	switch len(changes) {
	case 0:
		return "update files"
	case 1:
		return "update " + path.Base(changes[0].Path)
	}
	if result.Scope != "" {
		return fmt.Sprintf("update %d files in %s", len(changes), result.Scope)
	}
	return fmt.Sprintf("update %d files", len(changes))
}
