package domain

// AudioFeatures is the six-axis summary of a listener's sonic character.
// Values are expected in [0,1] but are never clamped.
type AudioFeatures struct {
	Danceability     float64 `json:"danceability" yaml:"danceability"`
	Energy           float64 `json:"energy" yaml:"energy"`
	Valence          float64 `json:"valence" yaml:"valence"`
	Acousticness     float64 `json:"acousticness" yaml:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness" yaml:"instrumentalness"`
	Speechiness      float64 `json:"speechiness" yaml:"speechiness"`
}

// IsZero reports whether every field is exactly zero.
func (f AudioFeatures) IsZero() bool {
	return f == AudioFeatures{}
}

// Add returns the field-wise sum of f and o.
func (f AudioFeatures) Add(o AudioFeatures) AudioFeatures {
	return AudioFeatures{
		Danceability:     f.Danceability + o.Danceability,
		Energy:           f.Energy + o.Energy,
		Valence:          f.Valence + o.Valence,
		Acousticness:     f.Acousticness + o.Acousticness,
		Instrumentalness: f.Instrumentalness + o.Instrumentalness,
		Speechiness:      f.Speechiness + o.Speechiness,
	}
}

// Map applies fn to every field.
func (f AudioFeatures) Map(fn func(float64) float64) AudioFeatures {
	return AudioFeatures{
		Danceability:     fn(f.Danceability),
		Energy:           fn(f.Energy),
		Valence:          fn(f.Valence),
		Acousticness:     fn(f.Acousticness),
		Instrumentalness: fn(f.Instrumentalness),
		Speechiness:      fn(f.Speechiness),
	}
}

// FeatureSample is a single per-track audio-feature record as reported upstream.
// Any field may be missing.
type FeatureSample struct {
	TrackID          string   `json:"id,omitempty"`
	Danceability     *float64 `json:"danceability,omitempty"`
	Energy           *float64 `json:"energy,omitempty"`
	Valence          *float64 `json:"valence,omitempty"`
	Acousticness     *float64 `json:"acousticness,omitempty"`
	Instrumentalness *float64 `json:"instrumentalness,omitempty"`
	Speechiness      *float64 `json:"speechiness,omitempty"`
}

// Features resolves the sample into a full vector, substituting 0 for missing fields.
func (s FeatureSample) Features() AudioFeatures {
	return AudioFeatures{
		Danceability:     valueOrZero(s.Danceability),
		Energy:           valueOrZero(s.Energy),
		Valence:          valueOrZero(s.Valence),
		Acousticness:     valueOrZero(s.Acousticness),
		Instrumentalness: valueOrZero(s.Instrumentalness),
		Speechiness:      valueOrZero(s.Speechiness),
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// FeatureSource records which producer supplied a profile's feature vector.
type FeatureSource string

const (
	SourceMeasured  FeatureSource = "measured"
	SourceEstimated FeatureSource = "estimated"
)
