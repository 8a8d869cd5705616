package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeaupre/go-classement/internal/domain"
)

func TestNewLevenshteinResolver(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		wantError bool
	}{
		{name: "default threshold", threshold: DefaultThreshold},
		{name: "zero threshold", threshold: 0},
		{name: "max threshold", threshold: 100},
		{name: "negative threshold", threshold: -1, wantError: true},
		{name: "above 100", threshold: 100.5, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewLevenshteinResolver(tt.threshold)
			if tt.wantError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
				assert.Nil(t, r)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, r)
			}
		})
	}
}

func TestLevenshteinResolver_Resolve(t *testing.T) {
	tests := []struct {
		name          string
		submitted     string
		known         []string
		wantCanonical string
		wantNew       bool
		wantError     bool
	}{
		{
			name:          "empty known set makes submission canonical",
			submitted:     "  Jean Tremblay ",
			known:         nil,
			wantCanonical: "Jean Tremblay",
			wantNew:       true,
		},
		{
			name:          "whitespace and casing variation resolves",
			submitted:     "jean  tremblay ",
			known:         []string{"Jean Tremblay"},
			wantCanonical: "Jean Tremblay",
		},
		{
			name:          "accent typo resolves",
			submitted:     "Jean Tremblé",
			known:         []string{"Jean Tremblay"},
			wantCanonical: "Jean Tremblay",
		},
		{
			name:          "token order is irrelevant",
			submitted:     "Tremblay Jean",
			known:         []string{"Jean Tremblay"},
			wantCanonical: "Jean Tremblay",
		},
		{
			name:          "dissimilar name becomes new canonical",
			submitted:     "Marie Curie",
			known:         []string{"Jean Tremblay"},
			wantCanonical: "Marie Curie",
			wantNew:       true,
		},
		{
			name:          "best candidate wins",
			submitted:     "Jean Trembley",
			known:         []string{"Jeanne Trembled", "Jean Tremblay"},
			wantCanonical: "Jean Tremblay",
		},
		{
			name:          "ties resolve to first known entry",
			submitted:     "Jean Tremblay",
			known:         []string{"jean tremblay", "JEAN TREMBLAY"},
			wantCanonical: "jean tremblay",
		},
		{
			name:      "empty after trimming is rejected",
			submitted: "   ",
			known:     []string{"Jean Tremblay"},
			wantError: true,
		},
	}

	resolver, err := NewLevenshteinResolver(DefaultThreshold)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical, isNew, err := resolver.Resolve(context.Background(), tt.submitted, tt.known)
			if tt.wantError {
				require.Error(t, err)
				var ve *domain.ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCanonical, canonical)
			assert.Equal(t, tt.wantNew, isNew)
		})
	}
}

// Resolving a name that is already canonical must return the identical
// string no matter how the input is cased or spaced.
func TestLevenshteinResolver_Idempotence(t *testing.T) {
	resolver, err := NewLevenshteinResolver(DefaultThreshold)
	require.NoError(t, err)

	known := []string{"Jean Tremblay", "Marie Curie"}
	variants := []string{"Jean Tremblay", "JEAN TREMBLAY", " jean   tremblay  ", "Tremblay Jean"}
	for _, v := range variants {
		canonical, isNew, err := resolver.Resolve(context.Background(), v, known)
		require.NoError(t, err)
		assert.Equal(t, "Jean Tremblay", canonical, "variant %q", v)
		assert.False(t, isNew)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Jean   Tremblay ", "jean tremblay"},
		{"JEAN TREMBLAY", "jean tremblay"},
		{"", ""},
		{"   ", ""},
		{"Éric\tGagné", "éric gagné"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{name: "identical", a: "jean tremblay", b: "jean tremblay", min: 100, max: 100},
		{name: "token order ignored", a: "tremblay jean", b: "jean tremblay", min: 100, max: 100},
		{name: "one accent typo stays above threshold", a: "jean tremblé", b: "jean tremblay", min: 80, max: 90},
		{name: "unrelated names score low", a: "marie curie", b: "jean tremblay", min: 0, max: 40},
		{name: "both empty", a: "", b: "", min: 100, max: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}
