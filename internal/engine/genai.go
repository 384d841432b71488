package engine

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"bootcheck/internal/domain"
)

// GenAIBackend talks to the Gemini API.
type GenAIBackend struct {
	client *genai.Client
}

func NewGenAIBackend(ctx context.Context, apiKey string) (Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIBackend{client: client}, nil
}

func (b *GenAIBackend) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	for m, err := range b.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("GenAI list models failed: %w", err)
		}
		models = append(models, ModelInfo{
			Name:             m.Name,
			SupportedActions: m.SupportedActions,
		})
	}
	return models, nil
}

// Generate sends the prompt followed by the images as one user turn.
func (b *GenAIBackend) Generate(ctx context.Context, model, prompt string, images []domain.Image) (string, error) {
	parts := make([]*genai.Part, 0, len(images)+1)
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := b.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	return resp.Text(), nil
}
