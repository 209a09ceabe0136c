package models

// StatusSnapshot is a lightweight repository health summary produced without
// reading any file content. Ahead/Behind are only meaningful when HasUpstream
// is true.
type StatusSnapshot struct {
	Branch        string `json:"branch"`
	Staged        int    `json:"staged"`
	Unstaged      int    `json:"unstaged"`
	Untracked     int    `json:"untracked"`
	Ahead         int    `json:"ahead"`
	Behind        int    `json:"behind"`
	HasUpstream   bool   `json:"has_upstream"`
	Conflicts     bool   `json:"conflicts"`
	ReadyToCommit bool   `json:"ready_to_commit"`
}

// Dirty reports whether any staged, unstaged or untracked file separates the
// worktree from HEAD.
func (s StatusSnapshot) Dirty() bool {
	return s.Staged > 0 || s.Unstaged > 0 || s.Untracked > 0
}
