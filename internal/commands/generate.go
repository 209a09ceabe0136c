package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/commitware/commitgen/internal/analysis"
	"github.com/commitware/commitgen/internal/config"
	"github.com/commitware/commitgen/internal/models"
	"github.com/commitware/commitgen/internal/services"
	"github.com/commitware/commitgen/internal/ui"
	"github.com/commitware/commitgen/pkg/helpers"
)

// GenerateAction runs the extract, classify, synthesize pipeline and prints
// or commits the result. An empty change set is informational, not an error.
func GenerateAction(ctx context.Context, cmd *cli.Command) error {
	repoPath := cmd.String("repo")
	repo, err := services.Open(repoPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(repo.Path())
	if err != nil {
		return err
	}

	if t := cmd.String("type"); t != "" && !models.IsValidCommitType(t) {
		return fmt.Errorf("unknown commit type %q: must be one of %v", t, models.KnownCommitTypes)
	}

	req := buildRequest(cmd, cfg)
	result, err := analysis.Generate(repo, req)
	if errors.Is(err, models.ErrNoChanges) {
		fmt.Println("Nothing to analyze: no staged or unstaged changes found.")
		return nil
	}
	if err != nil {
		return err
	}

	// Refinement replaces the derived description, then re-runs the
	// pipeline so formatting and warnings stay consistent.
	if cmd.Bool("refine") && cmd.String("description") == "" {
		refined, err := refineDescription(ctx, cfg, result)
		if err != nil {
			slog.Warn("description refinement failed, keeping derived description", "error", err)
		} else {
			req.Description = refined
			result, err = analysis.Generate(repo, req)
			if err != nil {
				return err
			}
		}
	}

	if cmd.Bool("json") {
		return printJSON(result)
	}
	if cmd.Bool("interactive") {
		return reviewInteractive(repo, result)
	}

	fmt.Println(result.Message.String())
	for _, warning := range result.Message.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	slog.Info("classified change set",
		"type", result.Classification.Type,
		"scope", result.Classification.Scope,
		"confidence", result.Classification.Confidence,
		"files", len(result.Changes))

	if cmd.Bool("commit") {
		return commitStaged(repo, result.Message.String())
	}
	return nil
}

func buildRequest(cmd *cli.Command, cfg *config.Config) analysis.GenerateRequest {
	mode := models.ModeFull
	if cmd.Bool("lite") {
		mode = models.ModeLite
	}
	contextLines := int(cmd.Int("context-lines"))
	if contextLines <= 0 {
		contextLines = cfg.ContextLines
	}
	return analysis.GenerateRequest{
		Mode:          mode,
		ContextLines:  contextLines,
		TypeOverride:  cmd.String("type"),
		ScopeOverride: cmd.String("scope"),
		Description:   cmd.String("description"),
		Breaking:      cmd.Bool("breaking"),
		Options: analysis.SynthesizerOptions{
			Style:                cfg.Style,
			LowercaseFirstLetter: *cfg.LowercaseFirstLetter,
			RemovePeriod:         *cfg.RemovePeriod,
			DescriptionMaxLength: cfg.DescriptionMaxLength,
			Body:                 cmd.String("body"),
		},
	}
}

func refineDescription(ctx context.Context, cfg *config.Config, result *analysis.GenerateResult) (string, error) {
	if err := services.CheckOllamaAvailability(ctx); err != nil {
		return "", err
	}
	return services.RefineDescription(ctx, result.Classification, result.Changes, cfg.OllamaModel, cfg.OllamaTemperature)
}

func commitStaged(repo *services.Repository, message string) error {
	snapshot, err := analysis.Summarize(repo)
	if err != nil {
		return err
	}
	if snapshot.Conflicts {
		return fmt.Errorf("cannot commit: repository has unresolved conflicts")
	}
	if snapshot.Staged == 0 {
		return fmt.Errorf("cannot commit: no staged changes")
	}
	hash, err := repo.Commit(helpers.SanitizeCommitMessage(message))
	if err != nil {
		return fmt.Errorf("failed to commit: %v", err)
	}
	fmt.Printf("Committed %s\n", hash[:8])
	return nil
}

// reviewInteractive shows the generated message in the terminal UI and asks
// for confirmation before committing.
func reviewInteractive(repo *services.Repository, result *analysis.GenerateResult) error {
	snapshot, err := analysis.Summarize(repo)
	if err != nil {
		return err
	}

	ui.SetupTUI()
	go func() {
		if err := ui.App.SetRoot(ui.MainFlex, true).Run(); err != nil {
			panic(err)
		}
	}()
	// Give the terminal a moment to switch to the alternate screen.
	time.Sleep(100 * time.Millisecond)

	ui.ShowReview(result.Message, result.Classification, snapshot)
	ui.LogInfo("Generated %s message from %d changed files", result.Classification.Type, len(result.Changes))
	for _, warning := range result.Message.Warnings {
		ui.LogError("%s", warning)
	}
	ui.UpdateStatus("Review the message, then confirm or cancel")

	confirmed := ui.ShowConfirmationDialog("Commit staged changes with this message?")
	if !confirmed {
		ui.App.Stop()
		fmt.Println("Aborted; nothing committed.")
		return nil
	}
	if snapshot.Staged == 0 {
		ui.App.Stop()
		fmt.Println(result.Message.String())
		fmt.Fprintln(os.Stderr, "warning: nothing staged; message printed instead of committed")
		return nil
	}

	hash, err := repo.Commit(helpers.SanitizeCommitMessage(result.Message.String()))
	if err != nil {
		ui.App.Stop()
		return fmt.Errorf("failed to commit: %v", err)
	}
	ui.LogSuccess("Committed %s", hash[:8])
	time.Sleep(500 * time.Millisecond)
	ui.App.Stop()
	fmt.Printf("Committed %s\n", hash[:8])
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %v", err)
	}
	fmt.Println(string(data))
	return nil
}
