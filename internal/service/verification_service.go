package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bootcheck/internal/domain"
	"bootcheck/internal/evidence"
	"bootcheck/internal/metrics"
	"bootcheck/internal/report"
	"bootcheck/internal/repository"
	"bootcheck/pkg/utils"
)

// Verifier is satisfied by *verification.Client.
type Verifier interface {
	Verify(ctx context.Context, bundle *domain.EvidenceBundle) (*domain.VerificationReport, error)
}

// Renderer is satisfied by *report.Renderer.
type Renderer interface {
	Render(rep *domain.VerificationReport, brand, model string) ([]byte, error)
}

// Outcome is the result of one verification action. A failed render leaves
// Document nil and RenderErr set; the report is still usable.
type Outcome struct {
	ID        string
	Report    *domain.VerificationReport
	Brand     string
	Model     string
	Document  []byte
	FileName  string
	RenderErr error
}

type VerificationService interface {
	Verify(ctx context.Context, in evidence.Input) (*Outcome, error)
	Render(rep *domain.VerificationReport, brand, model string) ([]byte, error)
}

type verificationService struct {
	verifier Verifier
	renderer Renderer
	archive  repository.ReportArchive
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewVerificationService wires the pipeline. archive may be nil.
func NewVerificationService(verifier Verifier, renderer Renderer, archive repository.ReportArchive, m *metrics.Metrics, log *zap.Logger) VerificationService {
	if m == nil {
		m = metrics.New()
	}
	return &verificationService{
		verifier: verifier,
		renderer: renderer,
		archive:  archive,
		metrics:  m,
		log:      log,
	}
}

// Verify runs build, verify and render in order. Validation failures return
// before the engine is contacted.
func (s *verificationService) Verify(ctx context.Context, in evidence.Input) (*Outcome, error) {
	bundle, err := evidence.Build(in)
	if err != nil {
		s.metrics.ObserveOutcome(metrics.OutcomeValidationError)
		s.log.Info("Evidence rejected", zap.Error(err))
		return nil, err
	}

	rep, err := s.verifier.Verify(ctx, bundle)
	if err != nil {
		s.metrics.ObserveOutcome(metrics.OutcomeEngineError)
		return nil, err
	}
	s.metrics.ObserveOutcome(rep.Status.String())

	out := &Outcome{
		ID:       uuid.NewString(),
		Report:   rep,
		Brand:    string(bundle.Brand()),
		Model:    bundle.Model(),
		FileName: report.FileName(bundle.Model()),
	}

	doc, err := s.Render(rep, out.Brand, out.Model)
	if err != nil {
		out.RenderErr = err
		return out, nil
	}
	out.Document = doc

	s.archiveDocument(ctx, out)

	return out, nil
}

func (s *verificationService) Render(rep *domain.VerificationReport, brand, model string) ([]byte, error) {
	doc, err := s.renderer.Render(rep, brand, model)
	if err != nil {
		s.metrics.ObserveRenderFailure()
		s.log.Warn("PDF render failed",
			zap.String("product_model", model),
			zap.Error(err))
		if !domain.HasKind(err, domain.KindRender) {
			err = domain.RenderError("PDF error: "+err.Error(), err)
		}
		return nil, err
	}
	return doc, nil
}

// Archive failures are logged only.
func (s *verificationService) archiveDocument(ctx context.Context, out *Outcome) {
	if s.archive == nil {
		return
	}
	key := "reports/" + out.ID + "/" + utils.SanitizeFilename(out.FileName)
	if err := s.archive.Store(ctx, key, out.Document, report.ContentType); err != nil {
		s.log.Warn("Report archive failed",
			zap.String("id", out.ID),
			zap.Error(err))
	}
}
