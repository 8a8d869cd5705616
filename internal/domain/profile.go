package domain

import (
	"fmt"
	"math"
	"sort"
)

// WeightTolerance is the allowed deviation from 1.0 for the sum of a
// weighted profile's weights.
const WeightTolerance = 1e-9

// Profile is a named weighting scheme converting sub-scores into one
// final ranking score. A Profile with Ordinary set ignores Weights and
// scores as the unweighted mean of all raw criteria with the negative
// ones inverted.
type Profile struct {
	// Name identifies the profile in ranking requests.
	Name string `yaml:"name" json:"name"`

	// Weights maps sub-scores to non-negative weights summing to 1.0.
	Weights map[SubScore]float64 `yaml:"weights" json:"weights"`

	// Ordinary marks the unweighted arithmetic-mean profile.
	Ordinary bool `yaml:"ordinary" json:"ordinary"`
}

// Validate checks weight non-negativity and conservation for weighted
// profiles. Ordinary profiles carry no weights.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: profile name cannot be empty", ErrInvalidConfiguration)
	}
	if p.Ordinary {
		return nil
	}
	if len(p.Weights) == 0 {
		return fmt.Errorf("%w: profile %q has no weights", ErrInvalidConfiguration, p.Name)
	}
	var sum float64
	for sub, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("%w: profile %q weight for %s is negative",
				ErrInvalidConfiguration, p.Name, sub)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("%w: profile %q weights sum to %.12f, want 1.0",
			ErrInvalidConfiguration, p.Name, sum)
	}
	return nil
}

// Built-in profile names.
const (
	ProfileCoteR           = "cote_r"
	ProfileApprentissage   = "apprentissage"
	ProfileChill           = "chill"
	ProfileStressMinimiser = "stress_minimiser"
	ProfileEquiteFocus     = "equite_focus"
	ProfileOrdinaire       = "ordinaire"
)

// BuiltinProfiles returns the fixed profile catalog keyed by name.
// The returned map is a fresh copy on every call.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		ProfileCoteR: {
			Name: ProfileCoteR,
			Weights: map[SubScore]float64{
				SubScorePedagogy:   0.25,
				SubScoreImpact:     0.40,
				SubScoreFairness:   0.20,
				SubScoreHelp:       0.10,
				SubScoreExperience: 0.05,
			},
		},
		ProfileApprentissage: {
			Name: ProfileApprentissage,
			Weights: map[SubScore]float64{
				SubScorePedagogy:   0.45,
				SubScoreImpact:     0.15,
				SubScoreFairness:   0.15,
				SubScoreHelp:       0.15,
				SubScoreExperience: 0.10,
			},
		},
		ProfileChill: {
			Name: ProfileChill,
			Weights: map[SubScore]float64{
				SubScorePedagogy:   0.30,
				SubScoreImpact:     0.20,
				SubScoreFairness:   0.15,
				SubScoreHelp:       0.15,
				SubScoreExperience: 0.20,
			},
		},
		ProfileStressMinimiser: {
			Name: ProfileStressMinimiser,
			Weights: map[SubScore]float64{
				SubScorePedagogy:   0.25,
				SubScoreImpact:     0.10,
				SubScoreFairness:   0.15,
				SubScoreHelp:       0.10,
				SubScoreExperience: 0.40,
			},
		},
		ProfileEquiteFocus: {
			Name: ProfileEquiteFocus,
			Weights: map[SubScore]float64{
				SubScorePedagogy:   0.20,
				SubScoreImpact:     0.10,
				SubScoreFairness:   0.40,
				SubScoreHelp:       0.10,
				SubScoreExperience: 0.20,
			},
		},
		ProfileOrdinaire: {
			Name:     ProfileOrdinaire,
			Ordinary: true,
		},
	}
}

// ProfileNames returns the catalog's profile names in sorted order.
func ProfileNames(profiles map[string]Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
