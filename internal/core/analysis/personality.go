package analysis

import "github.com/ewilliams-labs/musicdna/internal/core/domain"

type personalityRule struct {
	personality domain.Personality
	matches     func(f domain.AudioFeatures) bool
}

// personalityRules are evaluated in order; regions overlap, so the first match wins.
var personalityRules = []personalityRule{
	{
		personality: domain.Personality{
			Label:       "The Party Starter",
			Description: "You live for the beat drop. Your playlists fuel dance floors and your energy is infectious.",
		},
		matches: func(f domain.AudioFeatures) bool { return f.Energy > 0.7 && f.Danceability > 0.7 },
	},
	{
		personality: domain.Personality{
			Label:       "The Euphoric Explorer",
			Description: "You chase musical highs. Your taste is uplifting, adventurous, and full of positive energy.",
		},
		matches: func(f domain.AudioFeatures) bool { return f.Valence > 0.65 && f.Energy > 0.65 },
	},
	{
		personality: domain.Personality{
			Label:       "The Acoustic Dreamer",
			Description: "Stripped-back sounds speak to your soul. You find beauty in simplicity and raw emotion.",
		},
		matches: func(f domain.AudioFeatures) bool { return f.Acousticness > 0.6 && f.Energy < 0.45 },
	},
	{
		personality: domain.Personality{
			Label:       "The Instrumental Voyager",
			Description: "Words aren't needed — you let the music do the talking. You're drawn to sonic textures and atmosphere.",
		},
		matches: func(f domain.AudioFeatures) bool { return f.Instrumentalness > 0.4 },
	},
	{
		personality: domain.Personality{
			Label:       "The Lyrical Poet",
			Description: "Words matter to you. You gravitate toward storytelling, rap, and spoken-word artistry.",
		},
		matches: func(f domain.AudioFeatures) bool { return f.Speechiness > 0.25 },
	},
	{
		personality: domain.Personality{
			Label:       "The Chill Optimist",
			Description: "Good vibes, low tempo. You keep things positive but relaxed — the perfect sunset playlist curator.",
		},
		matches: func(f domain.AudioFeatures) bool { return f.Valence > 0.55 && f.Energy < 0.5 },
	},
	{
		personality: domain.Personality{
			Label:       "The Intense Rebel",
			Description: "Dark energy runs through your veins. You're drawn to powerful, moody, and intense sounds.",
		},
		matches: func(f domain.AudioFeatures) bool { return f.Valence < 0.4 && f.Energy > 0.6 },
	},
	{
		personality: domain.Personality{
			Label:       "The Melancholic Thinker",
			Description: "You feel deeply through music. Introspective and emotional tracks are your comfort zone.",
		},
		matches: func(f domain.AudioFeatures) bool { return f.Valence < 0.4 && f.Energy < 0.45 },
	},
}

// EclecticSoul is the fallback when no rule matches.
var EclecticSoul = domain.Personality{
	Label:       "The Eclectic Soul",
	Description: "You can't be pinned down. Your taste spans genres and moods — a true musical omnivore.",
}

// Classify maps a feature vector to a personality.
func Classify(f domain.AudioFeatures) domain.Personality {
	for _, rule := range personalityRules {
		if rule.matches(f) {
			return rule.personality
		}
	}
	return EclecticSoul
}
