package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"github.com/commitware/commitgen/internal/models"
)

// maxDiffPreview bounds how much diff content is sent to the model.
const maxDiffPreview = 1500

// ollamaOutputFormat defines the JSON schema constraint for Ollama responses.
type ollamaOutputFormat struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required"`
}

// refinedDescription is the structured response the refiner expects back.
type refinedDescription struct {
	Description string `json:"description"`
}

// CheckOllamaAvailability checks if the Ollama server is available.
func CheckOllamaAvailability(ctx context.Context) error {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return fmt.Errorf("failed to create Ollama client: %v", err)
	}
	if _, err := client.List(ctx); err != nil {
		return fmt.Errorf("failed to connect to Ollama server: %v", err)
	}
	return nil
}

// RefineDescription asks a local Ollama model for an imperative one-line
// description of the classified change set. The classification, the changed
// file list and a bounded diff preview are the only inputs; the response is
// schema-constrained to a single description field.
func RefineDescription(ctx context.Context, result models.ClassificationResult, changes []models.FileChange, model string, temperature float64) (string, error) {
	if model == "" {
		return "", fmt.Errorf("Ollama model must be specified")
	}
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return "", fmt.Errorf("failed to create Ollama client: %v", err)
	}

	systemPrompt := "Act as a senior engineer enforcing Conventional Commits. " +
		"Given a classified set of file changes, output JSON with a single field " +
		"\"description\": one imperative, lower-case commit description under 50 " +
		"characters, no trailing period, no markdown. Describe what changed and why."

	format, err := json.Marshal(ollamaOutputFormat{
		Type: "object",
		Properties: map[string]interface{}{
			"description": map[string]interface{}{"type": "string"},
		},
		Required: []string{"description"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal response format: %v", err)
	}

	payload, err := json.Marshal(struct {
		Classification models.ClassificationResult `json:"classification"`
		Files          []string                    `json:"files"`
		DiffPreview    string                      `json:"diff_preview"`
	}{
		Classification: result,
		Files:          changePaths(changes),
		DiffPreview:    diffPreview(changes),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal change summary: %v", err)
	}

	messages := []ollama.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Write a commit description for these changes:"},
		{Role: "user", Content: string(payload)},
	}

	var response string
	respFunc := func(resp ollama.ChatResponse) error {
		response += resp.Message.Content
		return nil
	}
	err = client.Chat(
		ctx,
		&ollama.ChatRequest{
			Model:    model,
			Messages: messages,
			Format:   json.RawMessage(format),
			Options:  map[string]any{"temperature": temperature},
		},
		respFunc,
	)
	if err != nil {
		return "", fmt.Errorf("failed to send Ollama message: %v", err)
	}

	var refined refinedDescription
	if err := json.Unmarshal([]byte(response), &refined); err != nil {
		return "", fmt.Errorf("failed to unmarshal Ollama response: %v", err)
	}
	description := strings.TrimSpace(refined.Description)
	if description == "" {
		return "", fmt.Errorf("Ollama returned an empty description")
	}
	return description, nil
}

func changePaths(changes []models.FileChange) []string {
	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		paths = append(paths, fmt.Sprintf("%s (%s)", c.Path, c.Kind))
	}
	return paths
}

// diffPreview flattens the hunks into a single bounded preview string.
func diffPreview(changes []models.FileChange) string {
	var b strings.Builder
	for _, c := range changes {
		for _, h := range c.Hunks {
			for _, line := range h.Lines {
				if b.Len() >= maxDiffPreview {
					return b.String()[:maxDiffPreview]
				}
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
