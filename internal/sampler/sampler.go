package sampler

import (
	"math/rand/v2"

	"github.com/gyaneshwarpardhi/banksim/internal/catalog"
)

// Sampler draws event kinds proportionally to their catalog weight.
// Each draw is independent of the previous ones. A Sampler is not safe for
// concurrent use; each generator owns one.
type Sampler struct {
	rng *rand.Rand
}

// New returns a Sampler reading from rng. A nil rng gets a randomly seeded PCG source.
func New(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = NewRand()
	}
	return &Sampler{rng: rng}
}

// NewRand returns a PCG-backed generator seeded from the runtime source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Seeded returns a deterministic generator, for tests and reproducible runs.
func Seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Draw returns one kind name. It fails with catalog.ErrInvalidCatalog when
// cat is nil or has no positive weight.
func (s *Sampler) Draw(cat *catalog.Catalog) (string, error) {
	if cat == nil || cat.Len() == 0 || cat.Total() <= 0 {
		return "", &catalog.InvalidError{Reason: "nothing to draw from"}
	}
	r := s.rng.Float64() * cat.Total()
	last := ""
	for i := 0; i < cat.Len(); i++ {
		sp := cat.At(i)
		if sp.Weight <= 0 {
			continue
		}
		last = sp.Name
		if r < sp.Weight {
			return sp.Name, nil
		}
		r -= sp.Weight
	}
	// Float rounding can leave r marginally above the last bucket.
	return last, nil
}
