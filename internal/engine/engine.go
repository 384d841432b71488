// Package engine resolves the remote generation model once at startup and exposes
// it as an immutable Handle.
package engine

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"bootcheck/internal/domain"
)

// GenerateAction is the capability a model must advertise to be selectable.
const GenerateAction = "generateContent"

type ModelInfo struct {
	Name             string
	SupportedActions []string
}

func (m ModelInfo) Supports(action string) bool {
	for _, a := range m.SupportedActions {
		if a == action {
			return true
		}
	}
	return false
}

// Backend is the remote generation capability.
type Backend interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
	Generate(ctx context.Context, model, prompt string, images []domain.Image) (string, error)
}

// SelectionPolicy picks one model name from the candidates.
type SelectionPolicy interface {
	Select(candidates []string) (string, error)
}

var ErrNoCandidates = errors.New("no generation models available")

// PreferSubstring picks the first candidate containing Substring (case-insensitive),
// else the first candidate.
type PreferSubstring struct {
	Substring string
}

func (p PreferSubstring) Select(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	if p.Substring != "" {
		want := strings.ToLower(p.Substring)
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c), want) {
				return c, nil
			}
		}
	}
	return candidates[0], nil
}

// Handle is a resolved engine. It is safe for concurrent use.
type Handle struct {
	model   string
	backend Backend
}

func (h *Handle) Model() string { return h.model }

func (h *Handle) Generate(ctx context.Context, prompt string, images []domain.Image) (string, error) {
	return h.backend.Generate(ctx, h.model, prompt, images)
}

type ResolveOptions struct {
	APIKey string
	// Model skips probing when set.
	Model  string
	Policy SelectionPolicy
	// NewBackend is called only once the API key is known to be present.
	NewBackend func(ctx context.Context, apiKey string) (Backend, error)
	Logger     *zap.Logger
}

// Resolve runs once at process start. Every failure is a configuration error.
func Resolve(ctx context.Context, opts ResolveOptions) (*Handle, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, domain.ConfigurationError("missing API key: set GEMINI_API_KEY", nil)
	}
	if opts.NewBackend == nil {
		return nil, domain.ConfigurationError("no engine backend configured", nil)
	}

	backend, err := opts.NewBackend(ctx, opts.APIKey)
	if err != nil {
		return nil, domain.ConfigurationError("engine initialization failed", err)
	}

	if opts.Model != "" {
		log.Info("Engine model configured explicitly", zap.String("model", opts.Model))
		return &Handle{model: opts.Model, backend: backend}, nil
	}

	models, err := backend.ListModels(ctx)
	if err != nil {
		return nil, domain.ConfigurationError("listing engine models failed", err)
	}

	var candidates []string
	for _, m := range models {
		if m.Supports(GenerateAction) {
			candidates = append(candidates, m.Name)
		}
	}

	policy := opts.Policy
	if policy == nil {
		policy = PreferSubstring{}
	}
	model, err := policy.Select(candidates)
	if err != nil {
		return nil, domain.ConfigurationError("engine model selection failed", err)
	}

	log.Info("Engine model selected",
		zap.String("model", model),
		zap.Int("candidates", len(candidates)))

	return &Handle{model: model, backend: backend}, nil
}

// NewHandle wraps an already chosen model. Used by tests and tools that skip Resolve.
func NewHandle(model string, backend Backend) *Handle {
	return &Handle{model: model, backend: backend}
}
