package gaze

import (
	"math"

	"github.com/gazekit/go-gaze/pkg/landmarks"
)

// Feature is the per-frame eye-position summary used for calibration and
// prediction: [leftNx, leftNy, rightNx, rightNy].
type Feature [4]float64

// minEyeSpan guards degenerate eye boxes when normalizing iris centers.
const minEyeSpan = 1e-6

// ExtractFeature computes the iris feature for one frame. The bool is
// false when the frame does not carry a full refined mesh.
func ExtractFeature(frame landmarks.Frame) (Feature, bool) {
	if !frame.Complete() {
		return Feature{}, false
	}

	leftNx, leftNy := normalizeIris(frame, landmarks.LeftIris, landmarks.LeftEyeOuter, landmarks.LeftEyeInner)
	rightNx, rightNy := normalizeIris(frame, landmarks.RightIris, landmarks.RightEyeInner, landmarks.RightEyeOuter)

	return Feature{leftNx, leftNy, rightNx, rightNy}, true
}

// irisCenter averages the iris boundary landmarks of one eye.
func irisCenter(frame landmarks.Frame, ring [4]int) (x, y float64) {
	for _, i := range ring {
		x += frame[i].X
		y += frame[i].Y
	}
	n := float64(len(ring))
	return x / n, y / n
}

// normalizeIris positions the iris center within the eye's
// corner-to-corner bounding box. Values are intentionally unclamped;
// extreme gaze angles can push them outside [0,1].
func normalizeIris(frame landmarks.Frame, ring [4]int, cornerA, cornerB int) (nx, ny float64) {
	cx, cy := irisCenter(frame, ring)

	a, b := frame[cornerA], frame[cornerB]
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y, b.Y)

	width := math.Max(maxX-minX, minEyeSpan)
	height := math.Max(maxY-minY, minEyeSpan)

	return (cx - minX) / width, (cy - minY) / height
}
