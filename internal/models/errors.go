package models

import (
	"errors"
	"fmt"
)

// ErrNoChanges signals an empty change set. It is informational: callers
// surface it as "nothing to analyze", not as a failure.
var ErrNoChanges = errors.New("no staged or unstaged changes found")

// RepositoryStateError wraps a fatal repository problem: the path is not a
// git repository or the repository is corrupted. Retrying cannot succeed.
type RepositoryStateError struct {
	Path string
	Err  error
}

func (e *RepositoryStateError) Error() string {
	return fmt.Sprintf("invalid repository state at %s: %v", e.Path, e.Err)
}

func (e *RepositoryStateError) Unwrap() error {
	return e.Err
}
