package denoise

import (
	"context"
	"image"
	"image/color"
	"testing"

	"open-denoise/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDenoiser struct{ name string }

func (s stubDenoiser) Name() string { return s.name }
func (s stubDenoiser) Denoise(_ context.Context, img image.Image) (image.Image, error) {
	return img, nil
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	r.Register(models.ModeCPU, "stub", func(float64) Denoiser { return stubDenoiser{name: "cpu"} })

	d, fallback, err := r.Resolve(models.ModeCPU, "stub", 10)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "cpu", d.Name())
}

func TestRegistryGPUFallsBackToCPU(t *testing.T) {
	r := NewRegistry()
	r.Register(models.ModeCPU, "stub", func(float64) Denoiser { return stubDenoiser{name: "cpu"} })

	d, fallback, err := r.Resolve(models.ModeGPU, "stub", 10)
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, "cpu", d.Name())

	r.Register(models.ModeGPU, "stub", func(float64) Denoiser { return stubDenoiser{name: "gpu"} })
	d, fallback, err = r.Resolve(models.ModeGPU, "stub", 10)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "gpu", d.Name())
}

func TestRegistryUnknownMethod(t *testing.T) {
	_, _, err := DefaultRegistry().Resolve(models.ModeCPU, "scunet", 10)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestDefaultRegistryMethods(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{MethodBlend, MethodNLMeans}, r.Methods(models.ModeCPU))
	assert.Empty(t, r.Methods(models.ModeGPU))
}

func TestBlendSmoothsIsolatedSpeck(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	grey := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			img.SetNRGBA(x, y, grey)
		}
	}
	img.SetNRGBA(2, 2, color.NRGBA{R: 130, G: 130, B: 130, A: 255})

	out, err := NewBlend(100).Denoise(context.Background(), img)
	require.NoError(t, err)

	got := out.(*image.NRGBA).NRGBAAt(2, 2)
	assert.Less(t, got.R, uint8(130))
	assert.GreaterOrEqual(t, got.R, uint8(100))
	assert.Equal(t, grey, out.(*image.NRGBA).NRGBAAt(0, 0), "border pixels are left alone")
	assert.Equal(t, uint8(130), img.NRGBAAt(2, 2).R, "input is not modified")
}

func TestBlendHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBlend(50).Denoise(ctx, image.NewNRGBA(image.Rect(0, 0, 10, 10)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestColourDist(t *testing.T) {
	a := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	assert.Zero(t, colourDist(a, a))
	assert.Equal(t, 1.0, colourDist(color.NRGBA{A: 255}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
}
