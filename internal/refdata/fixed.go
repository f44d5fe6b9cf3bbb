package refdata

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Fixed is a predictable Provider: strings carry Tag and a running counter,
// numbers come from a seeded PCG source. Used by tests and dry runs.
type Fixed struct {
	Tag string
	rng *rand.Rand
	n   int
}

// NewFixed returns a Fixed provider seeded with seed.
func NewFixed(tag string, seed uint64) *Fixed {
	return &Fixed{Tag: tag, rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (p *Fixed) next(kind string) string {
	p.n++
	return fmt.Sprintf("%s-%s-%d", p.Tag, kind, p.n)
}

func (p *Fixed) Name() string     { return p.next("name") }
func (p *Fixed) Username() string { return p.next("user") }
func (p *Fixed) Email() string    { return p.next("mail") + "@example.com" }
func (p *Fixed) Phone() string    { return p.Numerify("+7 9## ###-##-##") }
func (p *Fixed) City() string     { return p.next("city") }
func (p *Fixed) Company() string  { return p.next("company") }
func (p *Fixed) ID() string       { return p.next("id") }

func (p *Fixed) Numerify(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		if r == '#' {
			b.WriteByte(byte('0' + p.rng.IntN(10)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p *Fixed) Lexify(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		if r == '?' {
			b.WriteByte(byte('A' + p.rng.IntN(26)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p *Fixed) Hex(n int) string {
	const digits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[p.rng.IntN(16)]
	}
	return string(b)
}

func (p *Fixed) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + p.rng.IntN(max-min+1)
}

func (p *Fixed) Float64Range(min, max float64) float64 {
	return min + p.rng.Float64()*(max-min)
}

func (p *Fixed) Bool() bool { return p.rng.IntN(2) == 1 }

func (p *Fixed) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[p.rng.IntN(len(options))]
}

func (p *Fixed) Sample(options []string, k int) []string {
	if k > len(options) {
		k = len(options)
	}
	out := append([]string(nil), options...)
	p.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:k]
}
