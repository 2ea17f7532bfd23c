package services

import (
	"context"
	"sync"

	"open-denoise/internal/config"
	"open-denoise/internal/logger"
	"open-denoise/internal/models"
	"open-denoise/internal/pipeline"
)

// ProcessingService turns the current selection and output choice into a
// batch run and records the outcome back on the selection set.
type ProcessingService struct {
	selection *SelectionService
	output    *OutputService
	processor *pipeline.Processor
	settings  *config.Config
	logger    logger.Logger

	mu   sync.RWMutex
	mode models.ExecutionMode
}

func NewProcessingService(selection *SelectionService, output *OutputService, processor *pipeline.Processor, settings *config.Config, log logger.Logger) *ProcessingService {
	return &ProcessingService{
		selection: selection,
		output:    output,
		processor: processor,
		settings:  settings,
		logger:    log,
		mode:      models.ParseExecutionMode(settings.Processing.Mode),
	}
}

func (ps *ProcessingService) Mode() models.ExecutionMode {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.mode
}

func (ps *ProcessingService) SetMode(mode models.ExecutionMode) {
	ps.mu.Lock()
	ps.mode = mode
	ps.mu.Unlock()

	ps.logger.Debug("ProcessingService", "execution mode changed", map[string]interface{}{
		"mode": mode.String(),
	})
}

func (ps *ProcessingService) IsProcessing() bool {
	return ps.processor.Running()
}

// JobConfig snapshots the settings for the next run
func (ps *ProcessingService) JobConfig() models.JobConfig {
	return models.JobConfig{
		Mode:         ps.Mode(),
		Method:       ps.settings.Processing.Method,
		Strength:     ps.settings.Processing.Strength,
		Output:       ps.output.Target(),
		OutputFormat: ps.settings.Output.Format,
		Suffix:       ps.settings.Output.Suffix,
		JPEGQuality:  ps.settings.Output.JPEGQuality,
		Workers:      ps.settings.Processing.Workers,
	}
}

// ProcessAndSave runs the denoiser over every selected entry.
func (ps *ProcessingService) ProcessAndSave(ctx context.Context, progress pipeline.ProgressFunc) (models.BatchReport, error) {
	set := ps.selection.Set()
	items := set.Selected()

	report, err := ps.processor.Run(ctx, items, ps.JobConfig(), progress)
	if err != nil {
		ps.logger.Error("ProcessingService", err, map[string]interface{}{
			"selected": len(items),
		})
		return report, err
	}

	for _, result := range report.Results {
		if result.Succeeded() {
			set.MarkProcessed(result.Index, result.SourcePath)
		}
	}

	return report, nil
}
