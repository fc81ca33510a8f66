package face

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Descriptors are computed on a fixed-size equalized grayscale crop.
const (
	encodingSize   = 200
	histogramBins  = 256
	pixelMaxValue  = 255.0
	gradientKernel = 3
)

// ExtractFeatures computes the pixel, LBP and gradient descriptors for the
// face region of img.
func ExtractFeatures(img image.Image, region image.Rectangle) Encoding {
	gray := normalizedCrop(img, region)

	equalized := equalizeHistogram(gray)

	return Encoding{
		Pixels:    pixelFeatures(equalized),
		LBP:       lbpHistogram(equalized),
		Gradients: gradientHistogram(equalized),
	}
}

// normalizedCrop converts the face region to grayscale and resizes it to the
// canonical encoding size.
func normalizedCrop(img image.Image, region image.Rectangle) *image.Gray {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		region = img.Bounds()
	}

	crop := image.NewGray(image.Rect(0, 0, region.Dx(), region.Dy()))
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			crop.Set(x-region.Min.X, y-region.Min.Y, img.At(x, y))
		}
	}

	resized := image.NewGray(image.Rect(0, 0, encodingSize, encodingSize))
	xdraw.BiLinear.Scale(resized, resized.Bounds(), crop, crop.Bounds(), xdraw.Src, nil)

	return resized
}

// equalizeHistogram stretches the grayscale histogram for contrast, the same
// preprocessing the comparison descriptors are computed on.
func equalizeHistogram(gray *image.Gray) *image.Gray {
	pix := gray.Pix
	total := len(pix)
	if total == 0 {
		return gray
	}

	var hist [histogramBins]int
	for _, p := range pix {
		hist[p]++
	}

	var cdf [histogramBins]int
	sum := 0
	for i, h := range hist {
		sum += h
		cdf[i] = sum
	}

	minCDF := 0
	for _, c := range cdf {
		if c > 0 {
			minCDF = c
			break
		}
	}

	denom := total - minCDF
	out := image.NewGray(gray.Bounds())
	if denom <= 0 {
		copy(out.Pix, pix)
		return out
	}

	for i, p := range pix {
		out.Pix[i] = uint8((cdf[p] - minCDF) * 255 / denom)
	}

	return out
}

func pixelFeatures(gray *image.Gray) []float64 {
	out := make([]float64, len(gray.Pix))
	for i, p := range gray.Pix {
		out[i] = float64(p) / pixelMaxValue
	}
	return out
}

// lbpHistogram computes an 8-neighbor local binary pattern histogram. Border
// pixels have no full neighborhood and are skipped.
func lbpHistogram(gray *image.Gray) []float64 {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	hist := make([]float64, histogramBins)

	// Clockwise from the top-left neighbor.
	offsets := [8][2]int{
		{-1, -1}, {-1, 0}, {-1, 1}, {0, 1},
		{1, 1}, {1, 0}, {1, -1}, {0, -1},
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			center := gray.GrayAt(x, y).Y
			code := 0
			for k, off := range offsets {
				neighbor := gray.GrayAt(x+off[1], y+off[0]).Y
				if neighbor > center {
					code |= 1 << (7 - k)
				}
			}
			hist[code]++
		}
	}

	return normalizeHistogram(hist)
}

// gradientHistogram computes a histogram of Sobel gradient magnitudes clamped
// to the uint8 range.
func gradientHistogram(gray *image.Gray) []float64 {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	hist := make([]float64, histogramBins)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -int(gray.GrayAt(x-1, y-1).Y) + int(gray.GrayAt(x+1, y-1).Y) +
				-2*int(gray.GrayAt(x-1, y).Y) + 2*int(gray.GrayAt(x+1, y).Y) +
				-int(gray.GrayAt(x-1, y+1).Y) + int(gray.GrayAt(x+1, y+1).Y)

			gy := -int(gray.GrayAt(x-1, y-1).Y) - 2*int(gray.GrayAt(x, y-1).Y) - int(gray.GrayAt(x+1, y-1).Y) +
				int(gray.GrayAt(x-1, y+1).Y) + 2*int(gray.GrayAt(x, y+1).Y) + int(gray.GrayAt(x+1, y+1).Y)

			magnitude := math.Sqrt(float64(gx*gx + gy*gy))
			if magnitude > pixelMaxValue {
				magnitude = pixelMaxValue
			}

			hist[int(magnitude)]++
		}
	}

	return normalizeHistogram(hist)
}

func normalizeHistogram(hist []float64) []float64 {
	var sum float64
	for _, v := range hist {
		sum += v
	}
	if sum == 0 {
		return hist
	}

	for i := range hist {
		hist[i] /= sum
	}
	return hist
}
