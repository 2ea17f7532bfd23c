package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"open-denoise/internal/denoise"
	"open-denoise/internal/logger"
	"open-denoise/internal/models"

	"github.com/google/uuid"
	"github.com/remeh/sizedwaitgroup"
)

// Processor runs the denoiser over a batch of selected images and writes
// the results next to the resolved output directory.
type Processor struct {
	mu       sync.Mutex
	running  bool
	registry *denoise.Registry
	loader   ImageLoader
	logger   logger.Logger
}

func NewProcessor(registry *denoise.Registry, loader ImageLoader, log logger.Logger) *Processor {
	return &Processor{
		registry: registry,
		loader:   loader,
		logger:   log,
	}
}

func (p *Processor) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return false
	}
	p.running = true
	return true
}

func (p *Processor) end() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}

// Run processes items and returns one result per item in input order.
// Per-item failures are reported in the BatchReport, not as the returned error.
func (p *Processor) Run(ctx context.Context, items []models.IndexedImage, cfg models.JobConfig, progress ProgressFunc) (models.BatchReport, error) {
	if len(items) == 0 {
		return models.BatchReport{}, ErrNothingSelected
	}
	if !cfg.Output.ExportToOriginal && cfg.Output.Directory == "" {
		return models.BatchReport{}, models.ErrNoOutputDirectory
	}
	if !p.begin() {
		return models.BatchReport{}, ErrBatchRunning
	}
	defer p.end()

	denoiser, fallback, err := p.registry.Resolve(cfg.Mode, cfg.Method, cfg.Strength)
	if err != nil {
		return models.BatchReport{}, err
	}

	report := models.BatchReport{
		ID:        uuid.NewString(),
		Mode:      cfg.Mode,
		Backend:   denoiser.Name(),
		Fallback:  fallback,
		Results:   make([]models.ItemResult, len(items)),
		StartedAt: time.Now(),
	}

	if fallback {
		p.logger.Warning("Processor", "no back end for requested mode, using CPU", map[string]interface{}{
			"batch_id": report.ID,
			"mode":     cfg.Mode.String(),
			"method":   cfg.Method,
		})
	}

	p.logger.Info("Processor", "batch started", map[string]interface{}{
		"batch_id": report.ID,
		"items":    len(items),
		"backend":  report.Backend,
		"workers":  cfg.Workers,
	})

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	saver := NewSaver(p.logger, cfg.JPEGQuality)
	tracker := newProgressTracker(len(items), progress)
	swg := sizedwaitgroup.New(workers)

	for i, item := range items {
		if err := swg.AddWithContext(ctx); err != nil {
			report.Results[i] = models.ItemResult{
				Index:      item.Index,
				SourcePath: item.Image.Path(),
				Err:        err,
			}
			tracker.skip(item.Image.DisplayName())
			continue
		}

		go func(slot int, item models.IndexedImage) {
			defer swg.Done()
			result := p.processItem(ctx, denoiser, saver, item, cfg)
			report.Results[slot] = result
			tracker.advance(item.Image.DisplayName(), !result.Succeeded())
		}(i, item)
	}

	swg.Wait()

	report.Duration = time.Since(report.StartedAt)
	report.Cancelled = ctx.Err() != nil

	p.logger.Info("Processor", "batch finished", map[string]interface{}{
		"batch_id":  report.ID,
		"succeeded": report.Succeeded(),
		"failed":    report.Failed(),
		"cancelled": report.Cancelled,
		"duration":  report.Duration.String(),
	})

	return report, nil
}

func (p *Processor) processItem(ctx context.Context, denoiser denoise.Denoiser, saver ImageSaver, item models.IndexedImage, cfg models.JobConfig) models.ItemResult {
	start := time.Now()
	source := item.Image.Path()
	result := models.ItemResult{
		Index:      item.Index,
		SourcePath: source,
	}

	result.OutputPath, result.Err = p.processFile(ctx, denoiser, saver, source, cfg)
	result.Duration = time.Since(start)

	if result.Err != nil {
		p.logger.Warning("Processor", "item failed", map[string]interface{}{
			"path":  source,
			"error": result.Err.Error(),
		})
	} else {
		p.logger.Debug("Processor", "item written", map[string]interface{}{
			"path":     source,
			"output":   result.OutputPath,
			"duration": result.Duration.String(),
		})
	}

	return result
}

func (p *Processor) processFile(ctx context.Context, denoiser denoise.Denoiser, saver ImageSaver, source string, cfg models.JobConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := cfg.Output.Resolve(source)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("output directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output path %s is not a directory", dir)
	}

	target := OutputPath(dir, source, cfg.Suffix, cfg.OutputFormat)
	if samePath(target, source) {
		return "", fmt.Errorf("refusing to overwrite source %s", source)
	}

	data, err := p.loader.Load(ctx, source)
	if err != nil {
		return "", err
	}

	denoised, err := denoiser.Denoise(ctx, data.Image)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%s failed: %w", denoiser.Name(), err)
	}

	if err := saver.Save(denoised, target); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}

	return target, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
