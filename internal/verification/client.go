// Package verification sends an evidence bundle to the resolved engine and turns
// the free-text answer into a VerificationReport.
package verification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"bootcheck/internal/domain"
	"bootcheck/internal/engine"
)

const (
	DefaultTimeout  = 60 * time.Second
	DefaultLanguage = "English"
)

// Generator is satisfied by *engine.Handle.
type Generator interface {
	Model() string
	Generate(ctx context.Context, prompt string, images []domain.Image) (string, error)
}

type Options struct {
	Timeout  time.Duration
	Language string
	// ObserveLatency, when set, receives the duration of every engine request
	// that was actually sent, failed ones included.
	ObserveLatency func(time.Duration)
}

// Client makes exactly one engine request per Verify call. Responses are never cached.
type Client struct {
	gen  Generator
	opts Options
	log  *zap.Logger
	now  func() time.Time
}

// NewClient accepts a nil handle; such a client fails every call with "not configured".
func NewClient(handle *engine.Handle, opts Options, log *zap.Logger) *Client {
	var gen Generator
	if handle != nil {
		gen = handle
	}
	return newClient(gen, opts, log)
}

func newClient(gen Generator, opts Options, log *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gen: gen, opts: opts, log: log, now: time.Now}
}

func (c *Client) Configured() bool { return c.gen != nil }

func (c *Client) Verify(ctx context.Context, bundle *domain.EvidenceBundle) (*domain.VerificationReport, error) {
	if c.gen == nil {
		return nil, domain.EngineError("not configured", nil)
	}
	if bundle == nil {
		return nil, domain.ValidationError("no evidence bundle")
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	prompt := Instruction(bundle, c.opts.Language)
	images := bundle.Images()

	start := time.Now()
	text, err := c.gen.Generate(ctx, prompt, images)
	elapsed := time.Since(start)
	if c.opts.ObserveLatency != nil {
		c.opts.ObserveLatency(elapsed)
	}
	if err != nil {
		c.log.Error("Engine request failed",
			zap.String("model", c.gen.Model()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.EngineError(fmt.Sprintf("analysis timed out after %s", c.opts.Timeout), err)
		}
		return nil, domain.EngineError("analysis failed: "+err.Error(), err)
	}

	report := domain.NewVerificationReport(text, c.gen.Model(), c.now())

	c.log.Info("Verification completed",
		zap.String("brand", string(bundle.Brand())),
		zap.String("product_model", bundle.Model()),
		zap.String("tier", string(bundle.Tier())),
		zap.Int("images", len(images)),
		zap.String("status", report.Status.String()),
		zap.Duration("elapsed", elapsed))

	return report, nil
}

// Instruction is the single prompt sent alongside the images.
func Instruction(bundle *domain.EvidenceBundle, language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	weight := strconv.FormatFloat(bundle.WeightGrams(), 'f', -1, 64)
	return fmt.Sprintf(
		"Professional verification of %s %s (%s). Weight: %sg. "+
			"Verdict (LEGIT/FAKE), Score (0-100), detailed technical findings. %s only.",
		bundle.Brand(), bundle.Model(), bundle.Tier(), weight, language)
}
