package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bootcheck/internal/config"
	"bootcheck/internal/domain"
	"bootcheck/internal/engine"
	"bootcheck/internal/evidence"
	"bootcheck/internal/report"
	"bootcheck/internal/service"
	"bootcheck/internal/verification"
	"bootcheck/pkg/logger"
	"bootcheck/pkg/utils"
)

var verifyFlags struct {
	brand  string
	model  string
	tier   string
	weight string
	images map[domain.ImageRole]*string
	out    string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a product from photos and write the PDF report",
	RunE:  runVerify,
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyFlags.brand, "brand", "", "Brand (Nike, Adidas, Puma, Mizuno, UA, New Balance)")
	f.StringVar(&verifyFlags.model, "model", "", "Model name")
	f.StringVar(&verifyFlags.tier, "tier", "", "Tier (Elite, Pro, Academy, Club)")
	f.StringVar(&verifyFlags.weight, "weight", "", "Measured weight in grams")
	f.StringVarP(&verifyFlags.out, "output", "o", "", "PDF output path (default BootCheck_<model>.pdf)")

	verifyFlags.images = make(map[domain.ImageRole]*string, len(domain.AllRoles))
	for _, role := range domain.AllRoles {
		verifyFlags.images[role] = f.String(string(role), "", role.Title()+" photo path")
	}

	for _, name := range []string{"brand", "model", "tier", "weight"} {
		_ = verifyCmd.MarkFlagRequired(name)
	}
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	images, err := loadImages(utils.NewImageInspector(log))
	if err != nil {
		return err
	}

	// Fail on bad input before spending a round trip on engine resolution.
	in := evidence.Input{
		Brand:  verifyFlags.brand,
		Model:  verifyFlags.model,
		Tier:   verifyFlags.tier,
		Weight: verifyFlags.weight,
		Images: images,
	}
	if _, err := evidence.Build(in); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	handle, err := resolveEngine(ctx, cfg, log)
	if err != nil {
		return err
	}

	client := verification.NewClient(handle, verification.Options{
		Timeout:  cfg.Engine.Timeout,
		Language: cfg.Engine.Language,
	}, log)
	svc := service.NewVerificationService(client, report.NewRenderer(), nil, nil, log)

	out, err := svc.Verify(ctx, in)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "STATUS: %s\n\n%s\n", out.Report.Status.Label(), out.Report.RawText)

	if out.RenderErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", out.RenderErr)
		return nil
	}

	path := verifyFlags.out
	if path == "" {
		path = utils.SanitizeFilename(out.FileName)
	}
	if err := os.WriteFile(path, out.Document, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(w, "\nReport written to %s\n", path)
	return nil
}

func loadImages(inspector *utils.ImageInspector) (map[domain.ImageRole]domain.Image, error) {
	images := make(map[domain.ImageRole]domain.Image)
	for _, role := range domain.AllRoles {
		path := *verifyFlags.images[role]
		if path == "" {
			continue
		}
		data, contentType, err := inspector.ReadImageFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s image: %w", role, err)
		}
		images[role] = domain.Image{Role: role, Filename: path, MIMEType: contentType, Data: data}
	}
	return images, nil
}

func resolveEngine(ctx context.Context, cfg *config.Config, log *zap.Logger) (*engine.Handle, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Engine.Timeout)
	defer cancel()
	return engine.Resolve(ctx, engine.ResolveOptions{
		APIKey:     cfg.Engine.APIKey,
		Model:      cfg.Engine.Model,
		Policy:     engine.PreferSubstring{Substring: cfg.Engine.Preference},
		NewBackend: engine.NewGenAIBackend,
		Logger:     log,
	})
}
