// Package commands wires the CLI surface to the analysis engine. Each action
// opens its own repository handle, runs to completion and exits; no state is
// shared between invocations.
package commands

import (
	"github.com/urfave/cli/v3"
)

// Root builds the command tree. The repo flag lives on the root so every
// subcommand resolves the same repository path.
func Root() *cli.Command {
	return &cli.Command{
		Name:  "commitgen",
		Usage: "Classify working tree changes and generate conventional commit messages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "repo",
				Usage: "Path to the git repository",
				Value: ".",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Analyze pending changes and generate a commit message",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "type",
						Usage: "Override the inferred commit type (feat, fix, docs, ...)",
					},
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Override the inferred scope",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Commit description; derived from the change set when omitted",
					},
					&cli.StringFlag{
						Name:  "body",
						Usage: "Commit body text",
					},
					&cli.BoolFlag{
						Name:  "breaking",
						Usage: "Mark the commit as a breaking change",
					},
					&cli.BoolFlag{
						Name:  "lite",
						Usage: "Skip diff content analysis; classify from paths and statuses only",
					},
					&cli.IntFlag{
						Name:  "context-lines",
						Usage: "Diff context lines used in full analysis",
					},
					&cli.BoolFlag{
						Name:  "refine",
						Usage: "Refine the description with a local Ollama model",
					},
					&cli.BoolFlag{
						Name:  "commit",
						Usage: "Commit staged changes with the generated message",
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Review the message in a terminal UI before committing",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the full analysis result as JSON",
					},
				},
				Action: GenerateAction,
			},
			{
				Name:  "status",
				Usage: "Summarize repository state without reading file content",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the snapshot as JSON",
					},
				},
				Action: StatusAction,
			},
			{
				Name:      "add",
				Usage:     "Stage files for commit",
				ArgsUsage: "[path ...]",
				Action:    AddAction,
			},
			{
				Name:  "commit",
				Usage: "Commit staged changes with an explicit message",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "message",
						Aliases:  []string{"m"},
						Usage:    "Commit message",
						Required: true,
					},
				},
				Action: CommitAction,
			},
			{
				Name:   "reset",
				Usage:  "Unstage all staged changes",
				Action: ResetAction,
			},
			{
				Name:  "log",
				Usage: "Show recent commits",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max-count",
						Aliases: []string{"n"},
						Usage:   "Number of commits to show",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit commits as JSON",
					},
				},
				Action: LogAction,
			},
			{
				Name:      "branch",
				Usage:     "List branches, or create one when a name is given",
				ArgsUsage: "[name]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "base",
						Usage: "Revision the new branch starts from (defaults to HEAD)",
					},
					&cli.BoolFlag{
						Name:    "all",
						Aliases: []string{"a"},
						Usage:   "List local and remote branches",
					},
					&cli.BoolFlag{
						Name:    "remotes",
						Aliases: []string{"r"},
						Usage:   "List remote branches only",
					},
				},
				Action: BranchAction,
			},
			{
				Name:      "checkout",
				Usage:     "Switch to another branch",
				ArgsUsage: "<branch>",
				Action:    CheckoutAction,
			},
			{
				Name:      "show",
				Usage:     "Show a commit with its diff",
				ArgsUsage: "[revision]",
				Action:    ShowAction,
			},
			{
				Name:      "diff",
				Usage:     "Show pending changes, or the worktree against a revision",
				ArgsUsage: "[revision]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "staged",
						Usage: "Diff the index against HEAD instead of the worktree",
					},
					&cli.IntFlag{
						Name:  "context-lines",
						Usage: "Context lines around each hunk",
						Value: 3,
					},
				},
				Action: DiffAction,
			},
			{
				Name:      "init",
				Usage:     "Initialize a new git repository",
				ArgsUsage: "[path]",
				Action:    InitAction,
			},
		},
	}
}
