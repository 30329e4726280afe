// Package analysis turns a listener's top artists, top tracks and audio
// features into a MusicDNA profile. Every function here is pure and safe
// for concurrent use.
package analysis

import (
	"math"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// AverageFeatures returns the field-wise mean of samples rounded to three
// decimals. Missing fields count as 0; an empty input yields the zero vector.
func AverageFeatures(samples []domain.FeatureSample) domain.AudioFeatures {
	if len(samples) == 0 {
		return domain.AudioFeatures{}
	}

	var sum domain.AudioFeatures
	for _, s := range samples {
		sum = sum.Add(s.Features())
	}

	return mean(sum, len(samples))
}

func mean(sum domain.AudioFeatures, count int) domain.AudioFeatures {
	n := float64(count)
	return sum.Map(func(v float64) float64 {
		return round3(v / n)
	})
}

// round3 rounds half up at the third decimal. The explicit conversion
// keeps the compiler from fusing the multiply and add.
func round3(v float64) float64 {
	return math.Floor(float64(v*1000)+0.5) / 1000
}
