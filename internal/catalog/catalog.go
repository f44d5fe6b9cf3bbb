package catalog

import (
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/banksim/internal/event"
)

// ErrInvalidCatalog marks a catalog that cannot be sampled from.
var ErrInvalidCatalog = errors.New("invalid catalog")

// InvalidError carries the reason a catalog was rejected. It matches
// ErrInvalidCatalog with errors.Is.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string { return "invalid catalog: " + e.Reason }

func (e *InvalidError) Is(target error) bool { return target == ErrInvalidCatalog }

// UnknownKindError is returned when a kind name is not in the catalog.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown event kind %q", e.Kind)
}

// Spec describes one event kind: its name, default severity and relative weight.
type Spec struct {
	Name     string
	Severity event.Severity
	Weight   float64
}

// Catalog is an ordered, read-only table of event kinds for one domain.
// It is immutable once built; reloads build a new Catalog.
type Catalog struct {
	specs []Spec
	index map[string]int
	total float64
}

// New validates specs and returns a Catalog holding a private copy of them.
func New(specs []Spec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, &InvalidError{Reason: "no event kinds"}
	}
	c := &Catalog{
		specs: make([]Spec, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	copy(c.specs, specs)
	for i, s := range c.specs {
		if s.Name == "" {
			return nil, &InvalidError{Reason: fmt.Sprintf("kinds[%d]: name is required", i)}
		}
		if _, dup := c.index[s.Name]; dup {
			return nil, &InvalidError{Reason: fmt.Sprintf("duplicate kind %q", s.Name)}
		}
		if !s.Severity.Valid() {
			return nil, &InvalidError{Reason: fmt.Sprintf("kind %q: invalid severity", s.Name)}
		}
		if s.Weight < 0 {
			return nil, &InvalidError{Reason: fmt.Sprintf("kind %q: negative weight %v", s.Name, s.Weight)}
		}
		c.index[s.Name] = i
		c.total += s.Weight
	}
	if c.total <= 0 {
		return nil, &InvalidError{Reason: "no kind has a positive weight"}
	}
	return c, nil
}

// MustNew is New for built-in tables; it panics on error.
func MustNew(specs []Spec) *Catalog {
	c, err := New(specs)
	if err != nil {
		panic(err)
	}
	return c
}

// List returns the kinds in catalog order. The slice is a copy.
func (c *Catalog) List() []Spec {
	out := make([]Spec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Lookup returns the spec for name.
func (c *Catalog) Lookup(name string) (Spec, error) {
	i, ok := c.index[name]
	if !ok {
		return Spec{}, &UnknownKindError{Kind: name}
	}
	return c.specs[i], nil
}

// SeverityOf returns the default severity of name.
func (c *Catalog) SeverityOf(name string) (event.Severity, error) {
	s, err := c.Lookup(name)
	if err != nil {
		return 0, err
	}
	return s.Severity, nil
}

// Total is the sum of all weights.
func (c *Catalog) Total() float64 { return c.total }

// Len returns the number of kinds.
func (c *Catalog) Len() int { return len(c.specs) }

// At returns the i-th kind without copying the table.
func (c *Catalog) At(i int) Spec { return c.specs[i] }
