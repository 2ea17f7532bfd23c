package denoise

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

const MethodBlend = "blend"

const blendSharpness = 2.0

// Blend softens each pixel towards its horizontal and vertical neighbours.
// Neighbours with similar hue and brightness are blended more strongly.
type Blend struct {
	maxPercent float64
	sharpness  float64
}

// NewBlend maps strength (0, 100] onto a maximum blend of 0–50%.
func NewBlend(strength float64) *Blend {
	return &Blend{
		maxPercent: math.Min(math.Max(strength, 0), 100) / 200,
		sharpness:  blendSharpness,
	}
}

func (b *Blend) Name() string {
	return "neighbour blend"
}

func (b *Blend) Denoise(ctx context.Context, img image.Image) (image.Image, error) {
	src := imaging.Clone(img)
	dst := imaging.Clone(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	neighbours := []image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for y := 1; y < h-1; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 1; x < w-1; x++ {
			c := src.NRGBAAt(x, y)
			for _, n := range neighbours {
				ncol := src.NRGBAAt(x+n.X, y+n.Y)
				dist := colourDist(c, ncol)
				if dist >= 1 {
					continue
				}
				if blend := b.maxPercent * math.Pow(1-dist, b.sharpness); blend > 0 {
					c = mixColour(c, ncol, blend)
				}
			}
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst, nil
}

// colourDist returns a distance in [0,1] from hue and brightness.
func colourDist(a, b color.NRGBA) float64 {
	h1, s1, v1 := rgbToHSV(float64(a.R)/255, float64(a.G)/255, float64(a.B)/255)
	h2, s2, v2 := rgbToHSV(float64(b.R)/255, float64(b.G)/255, float64(b.B)/255)

	dh := math.Abs(h1 - h2)
	if dh > 180 {
		dh = 360 - dh
	}
	dh /= 360
	dv := math.Abs(v1 - v2)
	avgSat := (s1 + s2) / 2

	return math.Min(dh*avgSat+dv*(1-avgSat), 1)
}

func rgbToHSV(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max
	d := max - min
	if max == 0 {
		return 0, 0, 0
	}
	s = d / max
	if d == 0 {
		return 0, s, v
	}
	switch {
	case r == max:
		h = (g - b) / d
	case g == max:
		h = 2 + (b-r)/d
	default:
		h = 4 + (r-g)/d
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return
}

func mixColour(a, b color.NRGBA, p float64) color.NRGBA {
	inv := 1 - p
	return color.NRGBA{
		R: uint8(float64(a.R)*inv + float64(b.R)*p),
		G: uint8(float64(a.G)*inv + float64(b.G)*p),
		B: uint8(float64(a.B)*inv + float64(b.B)*p),
		A: uint8(float64(a.A)*inv + float64(b.A)*p),
	}
}
