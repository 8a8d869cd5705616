// Package identity provides the pluggable submitter identity
// strategies behind the duplicate-vote guard: opaque per-session
// tokens, and validated institutional IDs.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

var (
	_ ports.IdentityStrategy = (*SessionStrategy)(nil)
	_ ports.IdentityStrategy = (*InstitutionalStrategy)(nil)
)

// SessionStrategy accepts any opaque non-empty token. Tokens are
// session-scoped random values minted by NewSessionToken; the strategy
// only guards against an absent identity.
type SessionStrategy struct{}

// NewSessionStrategy creates the session token strategy.
func NewSessionStrategy() *SessionStrategy { return &SessionStrategy{} }

// Name identifies the strategy in configuration.
func (*SessionStrategy) Name() string { return "session" }

// Verify rejects only empty tokens; any other opaque value is a valid
// session identity.
func (*SessionStrategy) Verify(token string) error {
	if token == "" {
		ve := domain.NewValidationError("submitter_token")
		ve.Addf("token is empty: %v", domain.ErrInvalidIdentifier)
		return ve
	}
	return nil
}

// NewSessionToken mints a random 16-byte hex token for one browser
// session.
func NewSessionToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("mint session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// institutionalIDPattern matches the 7-digit institutional ID format.
var institutionalIDPattern = regexp.MustCompile(`^[0-9]{7}$`)

// DefaultPrefixes lists the two-digit prefixes of valid institutional
// IDs at the institution this system was built for.
var DefaultPrefixes = []string{"20", "21", "22", "23"}

// InstitutionalStrategy validates tokens as institutional student IDs:
// exactly seven digits beginning with one of a restricted set of
// two-digit prefixes. Format validation is independent of the
// duplicate-vote logic.
type InstitutionalStrategy struct {
	prefixes map[string]bool
}

// NewInstitutionalStrategy creates the strategy for the given accepted
// prefixes; nil or empty means DefaultPrefixes.
func NewInstitutionalStrategy(prefixes []string) (*InstitutionalStrategy, error) {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	set := make(map[string]bool, len(prefixes))
	for _, p := range prefixes {
		if len(p) != 2 || p[0] < '0' || p[0] > '9' || p[1] < '0' || p[1] > '9' {
			return nil, fmt.Errorf("%w: institutional prefix %q must be two digits",
				domain.ErrInvalidConfiguration, p)
		}
		set[p] = true
	}
	return &InstitutionalStrategy{prefixes: set}, nil
}

// Name identifies the strategy in configuration.
func (*InstitutionalStrategy) Name() string { return "institutional" }

// Verify checks the 7-digit format and the leading prefix.
func (s *InstitutionalStrategy) Verify(token string) error {
	ve := domain.NewValidationError("submitter_token")
	if !institutionalIDPattern.MatchString(token) {
		ve.Addf("%q is not a 7-digit institutional ID: %v", token, domain.ErrInvalidIdentifier)
		return ve
	}
	if !s.prefixes[token[:2]] {
		ve.Addf("%q has an unrecognized prefix: %v", token, domain.ErrInvalidIdentifier)
		return ve
	}
	return nil
}
