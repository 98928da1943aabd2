package spectral

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

const (
	// lowFrequencyBlock is the side of the square zeroed around the zero-frequency bin.
	lowFrequencyBlock = 20
	epsilon           = 1e-8
)

// Score measures how much high-frequency energy the image carries relative to its peak.
// The result is in [0,1]; higher values point at synthetic upsampling artifacts.
func Score(img image.Image) float64 {
	if img == nil {
		return 0
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return 0
	}

	spectrum := transform(grayscale(img), w, h)
	magnitude := shiftedLogMagnitude(spectrum, w, h)
	zeroCenter(magnitude, w, h)

	mean := floats.Sum(magnitude) / float64(len(magnitude))
	peak := floats.Max(magnitude)
	return clamp(mean / (peak + epsilon))
}

// grayscale returns row-major ITU-R 601 luma values.
func grayscale(img image.Image) []complex128 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]complex128, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			out[y*w+x] = complex(float64(g.Y), 0)
		}
	}
	return out
}

// transform runs a separable 2-D DFT in place: rows first, then columns.
func transform(data []complex128, w, h int) []complex128 {
	rows := fourier.NewCmplxFFT(w)
	for y := 0; y < h; y++ {
		row := data[y*w : (y+1)*w]
		copy(row, rows.Coefficients(nil, row))
	}

	cols := fourier.NewCmplxFFT(h)
	column := make([]complex128, h)
	coeffs := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			column[y] = data[y*w+x]
		}
		cols.Coefficients(coeffs, column)
		for y := 0; y < h; y++ {
			data[y*w+x] = coeffs[y]
		}
	}
	return data
}

// shiftedLogMagnitude computes log(|F|+1) with the zero frequency moved to the grid center.
func shiftedLogMagnitude(spectrum []complex128, w, h int) []float64 {
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		sy := (y + h/2) % h
		for x := 0; x < w; x++ {
			sx := (x + w/2) % w
			v := spectrum[y*w+x]
			out[sy*w+sx] = math.Log(math.Hypot(real(v), imag(v)) + 1)
		}
	}
	return out
}

// zeroCenter clears the low-frequency block, clipped to the grid.
func zeroCenter(magnitude []float64, w, h int) {
	half := lowFrequencyBlock / 2
	y0, y1 := max(0, h/2-half), min(h, h/2+half)
	x0, x1 := max(0, w/2-half), min(w, w/2+half)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			magnitude[y*w+x] = 0
		}
	}
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
