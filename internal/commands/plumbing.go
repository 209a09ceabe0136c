package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/commitware/commitgen/internal/services"
)

// AddAction stages the given paths, or everything when none are given.
func AddAction(ctx context.Context, cmd *cli.Command) error {
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	if err := repo.Stage(paths); err != nil {
		return fmt.Errorf("failed to stage files: %v", err)
	}
	return nil
}

// CommitAction commits staged changes with the message supplied by the caller.
func CommitAction(ctx context.Context, cmd *cli.Command) error {
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}
	return commitStaged(repo, cmd.String("message"))
}

// ResetAction moves every staged entry back to the unstaged set.
func ResetAction(ctx context.Context, cmd *cli.Command) error {
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}
	if err := repo.Unstage(); err != nil {
		return fmt.Errorf("failed to unstage changes: %v", err)
	}
	return nil
}

// LogAction prints recent commits, newest first.
func LogAction(ctx context.Context, cmd *cli.Command) error {
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}
	records, err := repo.Log(int(cmd.Int("max-count")))
	if err != nil {
		return fmt.Errorf("failed to read log: %v", err)
	}
	if cmd.Bool("json") {
		return printJSON(records)
	}
	for _, record := range records {
		fmt.Printf("%s %s (%s, %s)\n",
			record.Hash[:8], firstLine(record.Message),
			record.Author, record.When.Format("2006-01-02"))
	}
	return nil
}

// BranchAction lists branches, or creates one when a name argument is given.
func BranchAction(ctx context.Context, cmd *cli.Command) error {
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}

	if name := cmd.Args().First(); name != "" {
		if err := repo.CreateBranch(name, cmd.String("base")); err != nil {
			return fmt.Errorf("failed to create branch %s: %v", name, err)
		}
		fmt.Printf("Created branch %s\n", name)
		return nil
	}

	kind := "local"
	if cmd.Bool("all") {
		kind = "all"
	} else if cmd.Bool("remotes") {
		kind = "remote"
	}
	branches, err := repo.Branches(kind)
	if err != nil {
		return fmt.Errorf("failed to list branches: %v", err)
	}
	current, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	for _, branch := range branches {
		marker := "  "
		if branch == current {
			marker = "* "
		}
		fmt.Println(marker + branch)
	}
	return nil
}

// CheckoutAction switches the worktree to another branch.
func CheckoutAction(ctx context.Context, cmd *cli.Command) error {
	branch := cmd.Args().First()
	if branch == "" {
		return fmt.Errorf("checkout requires a branch name")
	}
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}
	if err := repo.Checkout(branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %v", branch, err)
	}
	fmt.Printf("Switched to branch %s\n", branch)
	return nil
}

// ShowAction prints a commit with its diff against the first parent.
func ShowAction(ctx context.Context, cmd *cli.Command) error {
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}
	revision := cmd.Args().First()
	if revision == "" {
		revision = "HEAD"
	}
	out, err := repo.Show(revision)
	if err != nil {
		return fmt.Errorf("failed to show %s: %v", revision, err)
	}
	fmt.Print(out)
	return nil
}

// DiffAction prints pending changes as a unified diff. With a revision
// argument it diffs the worktree against that revision instead.
func DiffAction(ctx context.Context, cmd *cli.Command) error {
	repo, err := services.Open(cmd.String("repo"))
	if err != nil {
		return err
	}
	contextLines := int(cmd.Int("context-lines"))
	var out string
	if revision := cmd.Args().First(); revision != "" {
		out, err = repo.DiffRevision(revision, contextLines)
	} else {
		out, err = repo.UnifiedDiff(cmd.Bool("staged"), contextLines)
	}
	if err != nil {
		return fmt.Errorf("failed to compute diff: %v", err)
	}
	fmt.Print(out)
	return nil
}

// InitAction initializes a fresh repository at the given path.
func InitAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		path = cmd.String("repo")
	}
	if err := services.Init(path); err != nil {
		return fmt.Errorf("failed to initialize repository: %v", err)
	}
	fmt.Printf("Initialized empty repository in %s\n", path)
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
