package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/commitware/commitgen/internal/analysis"
	"github.com/commitware/commitgen/internal/services"
)

// StatusAction prints a repository health snapshot. It never reads diff
// content, so it stays fast on large worktrees.
func StatusAction(ctx context.Context, cmd *cli.Command) error {
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}
	snapshot, err := analysis.Summarize(repo)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return printJSON(snapshot)
	}

	fmt.Printf("On branch %s\n", snapshot.Branch)
	if snapshot.HasUpstream {
		fmt.Printf("Ahead %d, behind %d of upstream\n", snapshot.Ahead, snapshot.Behind)
	}
	fmt.Printf("Staged: %d, unstaged: %d, untracked: %d\n",
		snapshot.Staged, snapshot.Unstaged, snapshot.Untracked)
	if snapshot.Conflicts {
		fmt.Println("Unresolved conflicts present; resolve them before committing.")
	}
	switch {
	case snapshot.ReadyToCommit:
		fmt.Println("Ready to commit.")
	case !snapshot.Dirty():
		fmt.Println("Working tree clean.")
	default:
		fmt.Println("Nothing staged yet.")
	}
	return nil
}
