package application

import (
	"fmt"
	"sort"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

// StaticCatalog is the in-memory Catalog implementation over the fixed
// program reference data. It is immutable after construction and safe
// for concurrent reads.
type StaticCatalog struct {
	programs map[string][]string
	names    []string
}

var _ ports.Catalog = (*StaticCatalog)(nil)

// NewStaticCatalog builds a catalog from program -> ordered course
// lists. Course order is preserved as given; program names are exposed
// sorted. Empty programs or duplicate courses are rejected.
func NewStaticCatalog(programs map[string][]string) (*StaticCatalog, error) {
	if len(programs) == 0 {
		return nil, fmt.Errorf("%w: catalog has no programs", domain.ErrInvalidConfiguration)
	}

	copied := make(map[string][]string, len(programs))
	names := make([]string, 0, len(programs))
	for program, courses := range programs {
		if program == "" {
			return nil, fmt.Errorf("%w: catalog program name cannot be empty", domain.ErrInvalidConfiguration)
		}
		if len(courses) == 0 {
			return nil, fmt.Errorf("%w: program %q has no courses", domain.ErrInvalidConfiguration, program)
		}
		seen := make(map[string]bool, len(courses))
		list := make([]string, 0, len(courses))
		for _, course := range courses {
			if course == "" {
				return nil, fmt.Errorf("%w: program %q has an empty course", domain.ErrInvalidConfiguration, program)
			}
			if seen[course] {
				return nil, fmt.Errorf("%w: program %q lists course %q twice", domain.ErrInvalidConfiguration, program, course)
			}
			seen[course] = true
			list = append(list, course)
		}
		copied[program] = list
		names = append(names, program)
	}
	sort.Strings(names)

	return &StaticCatalog{programs: copied, names: names}, nil
}

// DefaultCatalog returns the reference data the system ships with: the
// Sciences de la nature program and its common course codes.
func DefaultCatalog() *StaticCatalog {
	catalog, err := NewStaticCatalog(map[string][]string{
		"Sciences de la nature": {
			"MATH101", "MATH201", "PHYS101", "PHYS201",
			"CHIM101", "CHIM201", "BIO101", "BIO201",
		},
		"Sciences humaines": {
			"HIST101", "PSYCH101", "ECON101", "SOCIO101",
		},
	})
	if err != nil {
		// The built-in data is constant; a failure here is a programming error.
		panic(err)
	}
	return catalog
}

// Programs returns the program names in canonical (sorted) order.
func (c *StaticCatalog) Programs() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Courses returns the ordered course list for a program and whether the
// program exists.
func (c *StaticCatalog) Courses(program string) ([]string, bool) {
	courses, ok := c.programs[program]
	if !ok {
		return nil, false
	}
	out := make([]string, len(courses))
	copy(out, courses)
	return out, true
}
