package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootcheck/internal/domain"
)

var fixedDay = time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC)

func fixedRenderer() *Renderer {
	return NewRenderer(WithClock(func() time.Time { return fixedDay }))
}

func TestRenderProducesPDF(t *testing.T) {
	rep := domain.NewVerificationReport("VERIFIED AUTHENTIC. Score: 92. Stitching consistent.", "m", fixedDay)

	out, err := fixedRenderer().Render(rep, "Nike", "Phantom GX Elite")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "STATUS: VERIFIED AUTHENTIC", StatusLine(rep))
}

func TestRenderIsDeterministicForFixedDay(t *testing.T) {
	rep := domain.NewVerificationReport("LEGIT. Score 80.\nSecond paragraph.", "m", fixedDay)
	r := fixedRenderer()

	first, err := r.Render(rep, "Adidas", "Predator")
	require.NoError(t, err)
	second, err := r.Render(rep, "Adidas", "Predator")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, ProductLine("Adidas", "Predator"), ProductLine("Adidas", "Predator"))
}

func TestRenderEmptyReport(t *testing.T) {
	rep := domain.NewVerificationReport("", "m", fixedDay)
	out, err := fixedRenderer().Render(rep, "Puma", "Future")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "STATUS: INSPECTION REQUIRED", StatusLine(rep))

	out, err = fixedRenderer().Render(nil, "Puma", "Future")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderLongAndNonLatinText(t *testing.T) {
	long := bytes.Repeat([]byte("Stitching density inconsistent near the heel counter. "), 400)
	text := string(long) + " 検証 ✓ — “quoted” café"
	rep := domain.NewVerificationReport(text, "m", fixedDay)

	out, err := fixedRenderer().Render(rep, "Mizuno", "Morelia Neo")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestLines(t *testing.T) {
	assert.Equal(t, "PRODUCT: NEW BALANCE TEKELA V4", ProductLine("New Balance", "Tekela v4"))
	assert.Equal(t, "Issued on: 2026-10-16", IssueLine(fixedDay))
	assert.Equal(t, "BootCheck_Phantom GX Elite.pdf", FileName("Phantom GX Elite"))
}

func TestTransliterate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain ascii", "plain ascii"},
		{"café", "caf\xe9"},
		{"score ✓ 92", "score  92"},
		{"“quotes” — dash", "quotes  dash"},
		{"日本語", ""},
		{"line\nbreak", "line\nbreak"},
		{"ctrl\u0085x", "ctrlx"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Transliterate(tt.in))
		})
	}
}
