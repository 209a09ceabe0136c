package analysis

import (
	"github.com/commitware/commitgen/internal/models"
)

// GenerateRequest carries everything a single message-generation pass needs.
// TypeOverride and ScopeOverride, when set, replace classifier inference
// entirely: caller intent wins.
type GenerateRequest struct {
	Mode          models.AnalysisMode
	ContextLines  int
	TypeOverride  string
	ScopeOverride string
	Description   string
	Breaking      bool
	Options       SynthesizerOptions
}

// GenerateResult bundles the synthesized message with the classification and
// the change set it was derived from, so callers (and downstream LLM steps)
// can judge how much to trust the suggestion.
type GenerateResult struct {
	Message        models.CommitMessage        `json:"message"`
	Classification models.ClassificationResult `json:"classification"`
	Changes        []models.FileChange         `json:"changes"`
}

// Generate runs the full pipeline: extract, classify, synthesize. It is
// idempotent over an unchanged repository snapshot and safe to retry. An
// empty change set surfaces as ErrNoChanges, never as an empty message.
func Generate(src ChangeSource, req GenerateRequest) (*GenerateResult, error) {
	changes, err := Extract(src, req.Mode, req.ContextLines)
	if err != nil {
		return nil, err
	}

	result := Classify(changes)
	if req.TypeOverride != "" {
		result.Type = models.CommitType(req.TypeOverride)
		result.Confidence = models.ConfidenceHigh
		result.Rationale = append(result.Rationale, "commit type supplied by caller")
	}
	if req.ScopeOverride != "" {
		result.Scope = req.ScopeOverride
		result.Rationale = append(result.Rationale, "scope supplied by caller")
	}
	if req.Breaking {
		result.Breaking = true
	}

	message, result := Synthesize(result, req.Description, changes, req.Options)
	return &GenerateResult{
		Message:        message,
		Classification: result,
		Changes:        changes,
	}, nil
}
