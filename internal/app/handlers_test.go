package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"sync"
	"testing"

	"open-denoise/internal/config"
	"open-denoise/internal/denoise"
	"open-denoise/internal/logger"
	"open-denoise/internal/models"
	"open-denoise/internal/pipeline"
	"open-denoise/internal/platform"
	"open-denoise/internal/services"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDisplay struct {
	mu         sync.Mutex
	rows       [][]services.Row
	stats      models.SelectionStats
	preview    string
	outputDir  string
	processing []bool
	openFolder bool
	reports    []models.BatchReport
	errors     []error
}

func (d *fakeDisplay) SetRows(rows []services.Row) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows = append(d.rows, rows)
}

func (d *fakeDisplay) SetSelectionStats(stats models.SelectionStats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = stats
}

func (d *fakeDisplay) SetPreview(_ image.Image, name string, _ int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preview = name
}

func (d *fakeDisplay) ClearPreview() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preview = ""
}

func (d *fakeDisplay) SetOutputDirectory(dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outputDir = dir
}

func (d *fakeDisplay) SetProcessing(active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.processing = append(d.processing, active)
}

func (d *fakeDisplay) ShowOpenFolder(show bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.openFolder = show
}

func (d *fakeDisplay) UpdateStatus(string)              {}
func (d *fakeDisplay) UpdateProgress(pipeline.Progress) {}

func (d *fakeDisplay) ShowReport(report models.BatchReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports = append(d.reports, report)
}

func (d *fakeDisplay) ShowError(_ string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, err)
}

type fakePicker struct {
	images []string
	dir    string
	err    error
}

func (f *fakePicker) PickImages(string) ([]string, error)  { return f.images, f.err }
func (f *fakePicker) PickDirectory(string) (string, error) { return f.dir, f.err }

type fakeOpener struct {
	urls []string
	dirs []string
	err  error
}

func (o *fakeOpener) OpenURL(rawURL string) error {
	o.urls = append(o.urls, rawURL)
	return o.err
}

func (o *fakeOpener) RevealDirectory(dir string) error {
	o.dirs = append(o.dirs, dir)
	return o.err
}

type fakeNotifier struct {
	mu     sync.Mutex
	bodies []string
}

func (n *fakeNotifier) Notify(_, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bodies = append(n.bodies, body)
	return nil
}

type passthrough struct{}

func (passthrough) Name() string { return "passthrough" }
func (passthrough) Denoise(_ context.Context, img image.Image) (image.Image, error) {
	return img, nil
}

type fixture struct {
	handlers *Handlers
	display  *fakeDisplay
	picker   *fakePicker
	opener   *fakeOpener
	notifier *fakeNotifier
}

// gate blocks every Denoise call until released or cancelled.
type gate struct {
	started chan struct{}
	once    sync.Once
}

func newGate() *gate {
	return &gate{started: make(chan struct{})}
}

func (g *gate) Name() string { return "gate" }
func (g *gate) Denoise(ctx context.Context, _ image.Image) (image.Image, error) {
	g.once.Do(func() { close(g.started) })
	<-ctx.Done()
	return nil, ctx.Err()
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, passthrough{})
}

func newFixtureWith(t *testing.T, d denoise.Denoiser) *fixture {
	t.Helper()

	log := logger.NewNop()
	settings := config.Default()
	settings.Processing.Method = "passthrough"
	settings.Processing.Workers = 2

	registry := denoise.NewRegistry()
	registry.Register(models.ModeCPU, "passthrough", func(float64) denoise.Denoiser { return d })

	picker := &fakePicker{}
	loader := pipeline.NewLoader(log)
	selection := services.NewSelectionService(models.NewSelectionSet(), picker, log, 2)
	output := services.NewOutputService(picker, log)
	processing := services.NewProcessingService(selection, output, pipeline.NewProcessor(registry, loader, log), settings, log)

	f := &fixture{
		display:  &fakeDisplay{},
		picker:   picker,
		opener:   &fakeOpener{},
		notifier: &fakeNotifier{},
	}
	f.handlers = NewHandlers(context.Background(), f.display, selection, output, processing, loader, f.opener, f.notifier, settings, log)
	return f
}

func (f *fixture) wait() {
	f.handlers.wg.Wait()
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(imaging.New(12, 8, color.NRGBA{G: 128, A: 255}), path))
	return path
}

func TestDropRendersRows(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	f.handlers.HandleDrop([]string{writeImage(t, dir, "a.png"), writeImage(t, dir, "b.jpg")})
	f.wait()

	require.NotEmpty(t, f.display.rows)
	rows := f.display.rows[len(f.display.rows)-1]
	require.Len(t, rows, 2)
	assert.Equal(t, "a.png", rows[0].Image.DisplayName())
	assert.Equal(t, "b.jpg", rows[1].Image.DisplayName())
	assert.Equal(t, models.SelectionStats{Total: 2, Selected: 2}, f.display.stats)
}

func TestCancelledDialogKeepsRows(t *testing.T) {
	f := newFixture(t)
	f.picker.err = platform.ErrCancelled

	f.handlers.HandleSelectImages()
	f.wait()

	assert.Empty(t, f.display.rows)
	assert.Empty(t, f.display.errors)
}

func TestClearRendersEmptyList(t *testing.T) {
	f := newFixture(t)
	f.handlers.HandleDrop([]string{"/missing/a.png"})
	f.wait()

	f.handlers.HandleClearImages()
	f.wait()

	rows := f.display.rows[len(f.display.rows)-1]
	assert.Empty(t, rows)
	assert.Zero(t, f.display.stats.Total)
}

func TestToggleUpdatesStats(t *testing.T) {
	f := newFixture(t)
	f.handlers.HandleDrop([]string{"/x/a.png", "/x/b.png"})
	f.wait()

	f.handlers.HandleToggle(0, false)
	assert.Equal(t, 1, f.display.stats.Selected)

	f.handlers.HandleToggle(7, false)
	assert.Equal(t, 1, f.display.stats.Selected)
}

func TestPreviewLoadsImage(t *testing.T) {
	f := newFixture(t)
	f.handlers.HandleDrop([]string{writeImage(t, t.TempDir(), "view.png")})
	f.wait()

	f.handlers.HandlePreview(0)
	f.wait()

	assert.Equal(t, "view.png", f.display.preview)
}

func TestProcessWithoutOutputDirectory(t *testing.T) {
	f := newFixture(t)
	f.handlers.HandleDrop([]string{writeImage(t, t.TempDir(), "a.png")})
	f.wait()

	f.handlers.HandleProcess()
	f.wait()

	require.Len(t, f.display.errors, 1)
	assert.ErrorIs(t, f.display.errors[0], models.ErrNoOutputDirectory)
	assert.Equal(t, []bool{true, false}, f.display.processing)
}

func TestProcessWritesAndOffersFolder(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()
	f.picker.dir = out

	f.handlers.HandleDrop([]string{writeImage(t, t.TempDir(), "a.png")})
	f.handlers.HandleSelectOutputDirectory()
	f.wait()
	assert.Equal(t, out, f.display.outputDir)

	f.handlers.HandleProcess()
	f.wait()

	require.Len(t, f.display.reports, 1)
	assert.Equal(t, 1, f.display.reports[0].Succeeded())
	assert.FileExists(t, filepath.Join(out, "a_denoised.png"))
	assert.True(t, f.display.openFolder)
	assert.Equal(t, 1, f.display.stats.Processed)
	assert.Len(t, f.notifier.bodies, 1)

	f.handlers.HandleOpenFolder()
	assert.Equal(t, []string{out}, f.opener.dirs)
}

func TestSecondProcessDuringBatchIsIgnored(t *testing.T) {
	g := newGate()
	f := newFixtureWith(t, g)
	f.picker.dir = t.TempDir()

	f.handlers.HandleDrop([]string{writeImage(t, t.TempDir(), "a.png")})
	f.handlers.HandleSelectOutputDirectory()
	f.wait()

	f.handlers.HandleProcess()
	<-g.started

	f.handlers.HandleProcess()
	f.display.mu.Lock()
	assert.Equal(t, []bool{true}, f.display.processing)
	f.display.mu.Unlock()

	f.handlers.HandleCancel()
	f.wait()

	assert.Empty(t, f.display.errors)
	assert.Equal(t, []bool{true, false}, f.display.processing)
	require.Len(t, f.display.reports, 1)
	assert.True(t, f.display.reports[0].Cancelled)
	assert.Empty(t, f.notifier.bodies)

	f.handlers.HandleProcess()
	f.handlers.HandleCancel()
	f.wait()
	assert.Equal(t, []bool{true, false, true, false}, f.display.processing)
}

func TestOpenURLFailureIsShown(t *testing.T) {
	f := newFixture(t)
	f.opener.err = errors.New("no browser")

	f.handlers.HandleOpenURL("https://example.com")

	assert.Equal(t, []string{"https://example.com"}, f.opener.urls)
	require.Len(t, f.display.errors, 1)
}

func TestShutdownIsSafeWhenIdle(t *testing.T) {
	f := newFixture(t)
	f.handlers.HandleCancel()
	f.handlers.Shutdown()
}
