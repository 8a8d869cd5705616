package domain

import "fmt"

// Scale is the closed interval every criterion value must lie in.
// Historical data was collected on 1-5 and 1-10 scales across variants;
// the engine fixes one configurable interval and defaults to [0,10].
type Scale struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// DefaultScale returns the [0,10] scale used unless configured otherwise.
func DefaultScale() Scale { return Scale{Min: 0, Max: 10} }

// Validate checks that the interval is well formed.
func (s Scale) Validate() error {
	if s.Min >= s.Max {
		return fmt.Errorf("%w: scale min %.2f must be below max %.2f",
			ErrInvalidConfiguration, s.Min, s.Max)
	}
	return nil
}

// Contains reports whether v lies within the closed interval.
func (s Scale) Contains(v float64) bool { return v >= s.Min && v <= s.Max }

// Invert reflects a value across the scale midpoint. It maps negatively
// oriented criteria (stress, impact) onto the positive orientation:
// inverted = (max + min) - raw. The mapping is linear, so inverting a
// mean and averaging inverted values are equivalent; the engine inverts
// after averaging.
func (s Scale) Invert(v float64) float64 { return s.Max + s.Min - v }
