package denoise

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const MethodNLMeans = "nlmeans"

const (
	nlmTemplateWindow = 7
	nlmSearchWindow   = 21
)

// NLMeans runs OpenCV's non-local means filter on the colour image.
type NLMeans struct {
	strength float32
}

func NewNLMeans(strength float64) *NLMeans {
	return &NLMeans{strength: float32(strength)}
}

func (n *NLMeans) Name() string {
	return "opencv non-local means"
}

func (n *NLMeans) Denoise(ctx context.Context, img image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to Mat: %w", err)
	}
	defer src.Close()

	if src.Empty() {
		return nil, errors.New("cannot denoise empty image")
	}

	dst := gocv.NewMat()
	defer dst.Close()

	gocv.FastNlMeansDenoisingColoredWithParams(src, &dst, n.strength, n.strength, nlmTemplateWindow, nlmSearchWindow)
	if dst.Empty() {
		return nil, errors.New("non-local means produced no output")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := dst.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert Mat to image: %w", err)
	}
	return out, nil
}
