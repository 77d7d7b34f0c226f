// Package model holds the router/expert linear predictor embedded in MOEQIBIN
// streams.
package model

import (
	"fmt"
	"math"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// FeatureWidth is the length of every feature vector and weight row.
const FeatureWidth = 7

// Features is the per-pixel input of the router and the experts.
type Features [FeatureWidth]float32

// Model is a set of linear experts selected per pixel by a linear router.
// Row k of Router and Experts starts at k*FeatureWidth.
type Model struct {
	NumExperts uint16
	Router     []float32
	Experts    []float32
}

// Validate checks that both matrices hold NumExperts rows.
func (m *Model) Validate() error {
	want := int(m.NumExperts) * FeatureWidth
	if len(m.Router) != want {
		return fmt.Errorf("%w: router weights %d, want %d", common.ErrFormat, len(m.Router), want)
	}
	if len(m.Experts) != want {
		return fmt.Errorf("%w: expert weights %d, want %d", common.ErrFormat, len(m.Experts), want)
	}
	return nil
}

// RouterRow returns the router weights of expert k.
func (m *Model) RouterRow(k int) []float32 {
	return m.Router[k*FeatureWidth : (k+1)*FeatureWidth]
}

// ExpertRow returns the prediction weights of expert k.
func (m *Model) ExpertRow(k int) []float32 {
	return m.Experts[k*FeatureWidth : (k+1)*FeatureWidth]
}

// Dot7 sums w[i]*f[i] left to right. Each product is rounded to float32 on its
// own so the compiler cannot fuse multiply and add; encoder and decoder must
// agree bit for bit.
func Dot7(w []float32, f *Features) float32 {
	_ = w[FeatureWidth-1]
	s := float32(w[0] * f[0])
	s = float32(s + float32(w[1]*f[1]))
	s = float32(s + float32(w[2]*f[2]))
	s = float32(s + float32(w[3]*f[3]))
	s = float32(s + float32(w[4]*f[4]))
	s = float32(s + float32(w[5]*f[5]))
	s = float32(s + float32(w[6]*f[6]))
	return s
}

// Route returns the expert with the greatest router score. Ties keep the
// earliest expert; a model without experts routes to 0.
func (m *Model) Route(f *Features) int {
	best := 0
	bestScore := float32(math.Inf(-1))
	for k := 0; k < int(m.NumExperts); k++ {
		if z := Dot7(m.RouterRow(k), f); z > bestScore {
			bestScore = z
			best = k
		}
	}
	return best
}

// Predict routes f and returns the selected expert's prediction in pixel
// units, rounded half away from zero.
func (m *Model) Predict(f *Features) int32 {
	k := m.Route(f)
	mu := Dot7(m.ExpertRow(k), f)
	return RoundToInt32(float32(mu * 255))
}

// RoundToInt32 rounds half away from zero, saturating at the int32 range.
// NaN rounds to 0.
func RoundToInt32(v float32) int32 {
	r := math.Round(float64(v))
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt32:
		return math.MaxInt32
	case r <= math.MinInt32:
		return math.MinInt32
	}
	return int32(r)
}

// FeaturesAt builds the feature vector of pixel (x, y) in a w-wide plane from
// its left, up and up-left neighbours. Missing neighbours take the value of
// the pixel itself.
func FeaturesAt(plane []byte, w, x, y int) Features {
	idx := y*w + x
	cur := plane[idx]

	left, up, upLeft := cur, cur, cur
	if x > 0 {
		left = plane[idx-1]
	}
	if y > 0 {
		up = plane[idx-w]
	}
	if x > 0 && y > 0 {
		upLeft = plane[idx-w-1]
	}

	lf := float32(left) / 255
	uf := float32(up) / 255
	ulf := float32(upLeft) / 255

	return Features{
		1,
		lf,
		uf,
		ulf,
		lf - uf,
		lf - ulf,
		uf - ulf,
	}
}
