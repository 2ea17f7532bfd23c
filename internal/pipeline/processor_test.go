package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"open-denoise/internal/denoise"
	"open-denoise/internal/logger"
	"open-denoise/internal/models"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invertDenoiser struct {
	fail bool
}

func (invertDenoiser) Name() string { return "invert" }

func (d invertDenoiser) Denoise(ctx context.Context, img image.Image) (image.Image, error) {
	if d.fail {
		return nil, errors.New("boom")
	}
	return imaging.Invert(img), nil
}

func testRegistry(d denoise.Denoiser) *denoise.Registry {
	r := denoise.NewRegistry()
	r.Register(models.ModeCPU, "invert", func(float64) denoise.Denoiser { return d })
	return r
}

func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	img := imaging.New(8, 6, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func selection(paths ...string) []models.IndexedImage {
	set := models.NewSelectionSet()
	set.Replace(paths)
	return set.Selected()
}

func baseConfig() models.JobConfig {
	return models.JobConfig{
		Mode:         models.ModeCPU,
		Method:       "invert",
		Suffix:       "_denoised",
		OutputFormat: "source",
		JPEGQuality:  90,
		Workers:      2,
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		source string
		format string
		want   string
	}{
		{"keeps source format", "/in/cat.png", "source", "/out/cat_denoised.png"},
		{"lowercases extension", "/in/cat.JPG", "source", "/out/cat_denoised.jpg"},
		{"unknown source becomes png", "/in/cat.raw", "source", "/out/cat_denoised.png"},
		{"explicit jpg", "/in/cat.tif", "jpg", "/out/cat_denoised.jpg"},
		{"explicit webp", "/in/cat.png", "webp", "/out/cat_denoised.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputPath("/out", tt.source, "_denoised", tt.format)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestRunRejectsEmptySelection(t *testing.T) {
	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())

	_, err := p.Run(context.Background(), nil, baseConfig(), nil)
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestRunRequiresOutputDirectory(t *testing.T) {
	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	src := writeTestImage(t, t.TempDir(), "a.png")

	_, err := p.Run(context.Background(), selection(src), baseConfig(), nil)
	assert.ErrorIs(t, err, models.ErrNoOutputDirectory)
}

func TestRunWritesToChosenDirectory(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	a := writeTestImage(t, in, "a.png")
	b := writeTestImage(t, in, "b.jpg")

	cfg := baseConfig()
	cfg.Output = models.OutputTarget{Directory: out}

	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	report, err := p.Run(context.Background(), selection(a, b), cfg, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "invert", report.Backend)
	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, []string{out}, report.OutputDirectories())
	assert.FileExists(t, filepath.Join(out, "a_denoised.png"))
	assert.FileExists(t, filepath.Join(out, "b_denoised.jpg"))
	assert.False(t, p.Running())
}

func TestRunExportsNextToSource(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	a := writeTestImage(t, first, "a.png")
	b := writeTestImage(t, second, "b.png")

	cfg := baseConfig()
	cfg.Output = models.OutputTarget{ExportToOriginal: true}

	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	report, err := p.Run(context.Background(), selection(a, b), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded())
	assert.FileExists(t, filepath.Join(first, "a_denoised.png"))
	assert.FileExists(t, filepath.Join(second, "b_denoised.png"))
	assert.Len(t, report.OutputDirectories(), 2)
}

func TestRunContinuesAfterItemFailure(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	good := writeTestImage(t, in, "good.png")
	broken := filepath.Join(in, "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("not an image"), 0o644))

	cfg := baseConfig()
	cfg.Output = models.OutputTarget{Directory: out}

	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	report, err := p.Run(context.Background(), selection(broken, good), cfg, nil)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Error(t, report.Results[0].Err)
	assert.True(t, report.Results[1].Succeeded())
	assert.Equal(t, 1, report.Failed())
}

func TestRunReportsDenoiserFailure(t *testing.T) {
	in := t.TempDir()
	cfg := baseConfig()
	cfg.Output = models.OutputTarget{Directory: t.TempDir()}

	p := NewProcessor(testRegistry(invertDenoiser{fail: true}), NewLoader(logger.NewNop()), logger.NewNop())
	report, err := p.Run(context.Background(), selection(writeTestImage(t, in, "a.png")), cfg, nil)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.ErrorContains(t, report.Results[0].Err, "invert failed")
}

func TestRunMissingOutputDirectoryFailsItems(t *testing.T) {
	cfg := baseConfig()
	cfg.Output = models.OutputTarget{Directory: filepath.Join(t.TempDir(), "missing")}

	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	report, err := p.Run(context.Background(), selection(writeTestImage(t, t.TempDir(), "a.png")), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed())
}

func TestRunRefusesToOverwriteSource(t *testing.T) {
	in := t.TempDir()
	src := writeTestImage(t, in, "a.png")

	cfg := baseConfig()
	cfg.Suffix = ""
	cfg.Output = models.OutputTarget{ExportToOriginal: true}

	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	report, err := p.Run(context.Background(), selection(src), cfg, nil)
	require.NoError(t, err)

	assert.ErrorContains(t, report.Results[0].Err, "refusing to overwrite")
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := baseConfig()
	cfg.Output = models.OutputTarget{Directory: t.TempDir()}

	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	report, err := p.Run(ctx, selection(writeTestImage(t, t.TempDir(), "a.png")), cfg, nil)
	require.NoError(t, err)

	assert.True(t, report.Cancelled)
	assert.ErrorIs(t, report.Results[0].Err, context.Canceled)
}

func TestRunGPUFallsBackToCPU(t *testing.T) {
	cfg := baseConfig()
	cfg.Mode = models.ModeGPU
	cfg.Output = models.OutputTarget{Directory: t.TempDir()}

	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	report, err := p.Run(context.Background(), selection(writeTestImage(t, t.TempDir(), "a.png")), cfg, nil)
	require.NoError(t, err)

	assert.True(t, report.Fallback)
	assert.Equal(t, models.ModeGPU, report.Mode)
	assert.Equal(t, 1, report.Succeeded())
}

func TestRunDeliversFinalProgress(t *testing.T) {
	in := t.TempDir()
	paths := []string{
		writeTestImage(t, in, "a.png"),
		writeTestImage(t, in, "b.png"),
		writeTestImage(t, in, "c.png"),
	}

	cfg := baseConfig()
	cfg.Output = models.OutputTarget{Directory: t.TempDir()}

	var mu sync.Mutex
	var updates []Progress
	p := NewProcessor(testRegistry(invertDenoiser{}), NewLoader(logger.NewNop()), logger.NewNop())
	_, err := p.Run(context.Background(), selection(paths...), cfg, func(pr Progress) {
		mu.Lock()
		updates = append(updates, pr)
		mu.Unlock()
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.Equal(t, 3, last.Done)
	assert.Equal(t, 3, last.Total)
	assert.InDelta(t, 1.0, last.Fraction(), 1e-9)
}
