package models

import "time"

// CommitType is a Conventional Commits type token.
type CommitType string

const (
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypeDocs     CommitType = "docs"
	TypeStyle    CommitType = "style"
	TypeRefactor CommitType = "refactor"
	TypePerf     CommitType = "perf"
	TypeBuild    CommitType = "build"
	TypeCI       CommitType = "ci"
	TypeTest     CommitType = "test"
	TypeChore    CommitType = "chore"
	TypeRevert   CommitType = "revert"
)

// KnownCommitTypes lists every type the classifier can emit, in the order the
// original tool documents them.
var KnownCommitTypes = []CommitType{
	TypeFeat, TypeFix, TypeDocs, TypeStyle, TypeRefactor, TypePerf,
	TypeBuild, TypeCI, TypeTest, TypeChore, TypeRevert,
}

// IsValidCommitType reports whether s is one of the known type tokens.
func IsValidCommitType(s string) bool {
	for _, t := range KnownCommitTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Confidence is an ordinal trust level attached to a classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ClassificationResult is the classifier's verdict for a whole change set.
// Rationale holds short evidence strings in the order they were collected so
// a human or a downstream LLM step can judge how trustworthy the verdict is.
type ClassificationResult struct {
	Type       CommitType `json:"commit_type"`
	Scope      string     `json:"scope,omitempty"`
	Confidence Confidence `json:"confidence"`
	Rationale  []string   `json:"rationale"`
	Breaking   bool       `json:"breaking"`
}

// CommitMessage is the final synthesized artifact. Warnings carry soft
// problems such as description truncation; the message is still usable.
type CommitMessage struct {
	Header   string   `json:"header"`
	Body     string   `json:"body,omitempty"`
	Breaking bool     `json:"breaking"`
	Warnings []string `json:"warnings,omitempty"`
}

// String renders the message the way git expects it on disk.
func (m CommitMessage) String() string {
	if m.Body == "" {
		return m.Header
	}
	return m.Header + "\n\n" + m.Body
}

// CommitRecord is one entry from the commit log.
type CommitRecord struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	When    time.Time `json:"date"`
	Message string    `json:"message"`
}
