package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bootcheck/internal/config"
	"bootcheck/internal/domain"
	"bootcheck/internal/evidence"
	"bootcheck/internal/report"
	"bootcheck/internal/service"
	"bootcheck/internal/session"
	"bootcheck/pkg/utils"
)

const (
	SessionCookie = "bootcheck_session"
	downloadURL   = "/api/report/pdf"
)

type Handler struct {
	service   service.VerificationService
	sessions  *session.Store
	inspector *utils.ImageInspector
	cfg       *config.Config
	// engineErr is the configuration error from startup, if any. It blocks every verification.
	engineErr error
	log       *zap.Logger
}

func NewHandler(svc service.VerificationService, sessions *session.Store, cfg *config.Config, engineErr error, log *zap.Logger) *Handler {
	return &Handler{
		service:   svc,
		sessions:  sessions,
		inspector: utils.NewImageInspector(log),
		cfg:       cfg,
		engineErr: engineErr,
		log:       log,
	}
}

type reportResponse struct {
	ID          string `json:"id,omitempty"`
	Report      string `json:"report"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	EngineModel string `json:"engine_model"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	FileName    string `json:"file_name"`
	DownloadURL string `json:"download_url"`
	PDFWarning  string `json:"pdf_warning,omitempty"`
}

func newReportResponse(rep *domain.VerificationReport, brand, model string) reportResponse {
	return reportResponse{
		Report:      rep.RawText,
		Status:      rep.Status.String(),
		StatusLabel: rep.Status.Label(),
		EngineModel: rep.Model,
		Brand:       brand,
		Model:       model,
		FileName:    report.FileName(model),
		DownloadURL: downloadURL,
	}
}

func (h *Handler) VerifyEvidence(c *gin.Context) {
	if h.engineErr != nil {
		h.writeError(c, h.engineErr)
		return
	}

	limit := h.cfg.App.MaxUploadSize*int64(len(domain.AllRoles)) + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	images, err := h.readImages(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	in := evidence.Input{
		Brand:  c.PostForm("brand"),
		Model:  c.PostForm("model"),
		Tier:   c.PostForm("tier"),
		Weight: c.PostForm("weight"),
		Images: images,
	}

	out, err := h.service.Verify(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	sess := h.session(c)
	h.sessions.Put(session.Session{
		ID:     sess.ID,
		Report: out.Report,
		Brand:  out.Brand,
		Model:  out.Model,
	})

	resp := newReportResponse(out.Report, out.Brand, out.Model)
	resp.ID = out.ID
	if out.RenderErr != nil {
		resp.PDFWarning = out.RenderErr.Error()
	}

	c.JSON(http.StatusOK, resp)
}

// readImages collects every role field present in the multipart form.
func (h *Handler) readImages(c *gin.Context) (map[domain.ImageRole]domain.Image, error) {
	images := make(map[domain.ImageRole]domain.Image)
	for _, role := range domain.AllRoles {
		file, err := c.FormFile(string(role))
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, domain.ValidationError("upload too large")
			}
			// Not a multipart request at all: no images were supplied.
			if errors.Is(err, http.ErrNotMultipart) {
				return images, nil
			}
			return nil, domain.ValidationError(fmt.Sprintf("reading %s image: %v", role, err))
		}

		if file.Size > h.cfg.App.MaxUploadSize {
			return nil, domain.ValidationError(fmt.Sprintf("%s image is too large", role))
		}
		if !h.cfg.App.IsAllowedFormat(filepath.Ext(file.Filename)) {
			return nil, domain.ValidationError(fmt.Sprintf("%s image: only JPG, JPEG, PNG allowed", role))
		}

		f, err := file.Open()
		if err != nil {
			return nil, domain.ValidationError(fmt.Sprintf("opening %s image: %v", role, err))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, domain.ValidationError(fmt.Sprintf("reading %s image: %v", role, err))
		}

		contentType, err := h.inspector.Inspect(file.Filename, data)
		if err != nil {
			return nil, domain.ValidationError(fmt.Sprintf("%s image: %v", role, err))
		}

		images[role] = domain.Image{
			Role:     role,
			Filename: file.Filename,
			MIMEType: contentType,
			Data:     data,
		}
	}
	return images, nil
}

func (h *Handler) GetReport(c *gin.Context) {
	sess := h.session(c)
	if !sess.HasReport() {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "No report yet"})
		return
	}
	c.JSON(http.StatusOK, newReportResponse(sess.Report, sess.Brand, sess.Model))
}

// DownloadReport renders the session's last report on demand.
func (h *Handler) DownloadReport(c *gin.Context) {
	sess := h.session(c)
	if !sess.HasReport() {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "No report yet"})
		return
	}

	doc, err := h.service.Render(sess.Report, sess.Brand, sess.Model)
	if err != nil {
		h.writeError(c, err)
		return
	}

	name := utils.SanitizeFilename(report.FileName(sess.Model))
	c.Header("Content-Disposition", contentDisposition(name))
	c.Data(http.StatusOK, report.ContentType, doc)
}

// contentDisposition always carries an ASCII filename; non-ASCII names add an
// RFC 5987 filename* parameter with the exact UTF-8 name.
func contentDisposition(name string) string {
	var fallback strings.Builder
	ascii := true
	for _, r := range name {
		if r > 0x7e || r < 0x20 {
			ascii = false
			fallback.WriteByte('_')
			continue
		}
		fallback.WriteRune(r)
	}
	header := fmt.Sprintf("attachment; filename=%q", fallback.String())
	if ascii {
		return header
	}
	return header + "; filename*=UTF-8''" + encodeExtValue(name)
}

// encodeExtValue percent-encodes everything outside the RFC 5987 attr-char set.
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "OK",
		"engine": h.engineErr == nil,
	})
}

func (h *Handler) GetUI(c *gin.Context) {
	data := gin.H{
		"Brands": domain.Brands,
		"Tiers":  domain.Tiers,
		"Roles":  domain.AllRoles,
	}
	if h.engineErr != nil {
		data["ConfigError"] = h.engineErr.Error()
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// session returns the caller's session, issuing a cookie on first contact.
func (h *Handler) session(c *gin.Context) session.Session {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		id = session.NewID()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(session.DefaultTTL.Seconds()), "/", "", false, true)
	}
	return h.sessions.Get(id)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindEngine:
		status = http.StatusBadGateway
	case domain.KindConfiguration:
		status = http.StatusServiceUnavailable
	case domain.KindRender:
		status = http.StatusInternalServerError
	default:
		kind = "internal_error"
		h.log.Error("Unclassified error", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": string(kind), "message": err.Error()})
}
