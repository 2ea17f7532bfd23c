// Package denoise holds the denoising back ends invoked per image by the
// processing pipeline.
package denoise

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"open-denoise/internal/models"
)

var ErrUnknownMethod = errors.New("unknown denoise method")

// Denoiser removes noise from a single decoded image.
type Denoiser interface {
	Name() string
	Denoise(ctx context.Context, img image.Image) (image.Image, error)
}

// Factory builds a Denoiser for the requested strength.
type Factory func(strength float64) Denoiser

type backendKey struct {
	mode   models.ExecutionMode
	method string
}

type Registry struct {
	mu       sync.RWMutex
	backends map[backendKey]Factory
}

func NewRegistry() *Registry {
	return &Registry{backends: make(map[backendKey]Factory)}
}

// DefaultRegistry registers the CPU back ends. No GPU back end ships.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(models.ModeCPU, MethodNLMeans, func(strength float64) Denoiser { return NewNLMeans(strength) })
	r.Register(models.ModeCPU, MethodBlend, func(strength float64) Denoiser { return NewBlend(strength) })
	return r
}

func (r *Registry) Register(mode models.ExecutionMode, method string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[backendKey{mode: mode, method: method}] = factory
}

// Resolve returns the back end for mode and method. When mode has no back end
// for method the CPU one is used and fallback is true.
func (r *Registry) Resolve(mode models.ExecutionMode, method string, strength float64) (d Denoiser, fallback bool, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if factory, ok := r.backends[backendKey{mode: mode, method: method}]; ok {
		return factory(strength), false, nil
	}
	if mode != models.ModeCPU {
		if factory, ok := r.backends[backendKey{mode: models.ModeCPU, method: method}]; ok {
			return factory(strength), true, nil
		}
	}
	return nil, false, fmt.Errorf("%w: %s on %s", ErrUnknownMethod, method, mode)
}

// Methods lists the registered method names for mode.
func (r *Registry) Methods(mode models.ExecutionMode) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var methods []string
	for key := range r.backends {
		if key.mode == mode {
			methods = append(methods, key.method)
		}
	}
	sort.Strings(methods)
	return methods
}
