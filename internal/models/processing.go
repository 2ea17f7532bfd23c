package models

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

var ErrNoOutputDirectory = errors.New("no output directory selected")

// ExecutionMode is the GPU/CPU radio choice
type ExecutionMode int

const (
	ModeCPU ExecutionMode = iota
	ModeGPU
)

func (m ExecutionMode) String() string {
	switch m {
	case ModeGPU:
		return "GPU"
	default:
		return "CPU"
	}
}

// ParseExecutionMode accepts the radio labels as well as config values.
func ParseExecutionMode(s string) ExecutionMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gpu", "use gpu":
		return ModeGPU
	default:
		return ModeCPU
	}
}

// CheckState mirrors a tri-state checkbox.
type CheckState int

const (
	Unchecked CheckState = iota
	PartiallyChecked
	Checked
)

func CheckStateOf(checked bool) CheckState {
	if checked {
		return Checked
	}
	return Unchecked
}

// ExportEnabled maps the export checkbox state to the export-to-original flag.
// Only a fully checked box enables it.
func ExportEnabled(state CheckState) bool {
	return state == Checked
}

// OutputTarget resolves where each processed image is written
type OutputTarget struct {
	Directory        string
	ExportToOriginal bool
}

// Resolve returns the destination directory for the image at sourcePath.
func (o OutputTarget) Resolve(sourcePath string) (string, error) {
	if o.ExportToOriginal {
		return filepath.Dir(sourcePath), nil
	}
	if o.Directory == "" {
		return "", ErrNoOutputDirectory
	}
	return o.Directory, nil
}

// PickerEnabled reports whether the output-directory button should accept input.
func (o OutputTarget) PickerEnabled() bool {
	return !o.ExportToOriginal
}

// JobConfig carries everything a batch run needs besides the images
type JobConfig struct {
	Mode         ExecutionMode
	Method       string
	Strength     float64
	Output       OutputTarget
	OutputFormat string
	Suffix       string
	JPEGQuality  int
	Workers      int
}

// ItemResult is the outcome for one processed entry
type ItemResult struct {
	Index      int
	SourcePath string
	OutputPath string
	Err        error
	Duration   time.Duration
}

func (r ItemResult) Succeeded() bool {
	return r.Err == nil
}

// BatchReport aggregates a processing run
type BatchReport struct {
	ID        string
	Mode      ExecutionMode
	Backend   string
	Fallback  bool
	Results   []ItemResult
	StartedAt time.Time
	Duration  time.Duration
	Cancelled bool
}

func (b BatchReport) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

func (b BatchReport) Failed() int {
	return len(b.Results) - b.Succeeded()
}

// OutputDirectories lists the distinct destination directories in first-use order
func (b BatchReport) OutputDirectories() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, r := range b.Results {
		if !r.Succeeded() {
			continue
		}
		dir := filepath.Dir(r.OutputPath)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
