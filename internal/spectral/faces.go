package spectral

import (
	"context"
	"image"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// MinFaceSize is the smallest crop side, in pixels, that is scored.
const MinFaceSize = 40

// Box is a detector bounding box in image pixel coordinates relative to the image origin.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// FaceDetector locates faces in a still image.
type FaceDetector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]Box, error)
}

// RegionScore reports the face-focused spectral score and how it was obtained.
type RegionScore struct {
	Score float64
	// Faces is the number of crops that contributed. Zero means the whole frame was scored.
	Faces int
}

// FullFrame reports whether the score fell back to the entire image.
func (r RegionScore) FullFrame() bool {
	return r.Faces == 0
}

// FaceScore averages the spectral score over usable face crops, falling back to the whole frame
// when the detector fails or finds nothing large enough.
func FaceScore(ctx context.Context, img image.Image, detector FaceDetector) RegionScore {
	if img == nil {
		return RegionScore{}
	}
	if detector == nil {
		return RegionScore{Score: Score(img)}
	}

	boxes, err := detector.DetectFaces(ctx, img)
	if err != nil {
		logrus.WithError(err).Debug("face detection failed, scoring full frame")
		return RegionScore{Score: Score(img)}
	}

	var (
		sum   float64
		count int
	)
	for _, box := range boxes {
		rect, ok := cropRect(box, img.Bounds())
		if !ok {
			continue
		}
		sum += Score(crop(img, rect))
		count++
	}
	if count == 0 {
		return RegionScore{Score: Score(img)}
	}
	return RegionScore{Score: sum / float64(count), Faces: count}
}

// cropRect truncates the box to integer pixels, clips it to the frame and rejects crops smaller
// than MinFaceSize on either side.
func cropRect(box Box, bounds image.Rectangle) (image.Rectangle, bool) {
	w, h := bounds.Dx(), bounds.Dy()
	x1 := clampInt(int(box.X1), 0, w)
	y1 := clampInt(int(box.Y1), 0, h)
	x2 := clampInt(int(box.X2), 0, w)
	y2 := clampInt(int(box.Y2), 0, h)
	if x2-x1 < MinFaceSize || y2-y1 < MinFaceSize {
		return image.Rectangle{}, false
	}
	return image.Rect(x1, y1, x2, y2).Add(bounds.Min), true
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func crop(img image.Image, rect image.Rectangle) image.Image {
	if sub, ok := img.(subImager); ok {
		return sub.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
