// Package refdata supplies the synthetic people, accounts and scalar values
// that generated events are dressed with.
package refdata

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Provider is a source of plausible fake values. Nothing about its output is
// deterministic unless the implementation says so.
type Provider interface {
	Name() string
	Username() string
	Email() string
	Phone() string
	City() string
	Company() string
	ID() string
	// Numerify replaces each '#' in pattern with a digit.
	Numerify(pattern string) string
	// Lexify replaces each '?' in pattern with a letter.
	Lexify(pattern string) string
	Hex(n int) string
	IntRange(min, max int) int
	Float64Range(min, max float64) float64
	Bool() bool
	Pick(options []string) string
	// Sample returns k distinct elements of options in random order.
	Sample(options []string, k int) []string
}

// Faker is the gofakeit-backed Provider.
type Faker struct {
	f *gofakeit.Faker
}

// NewFaker returns a Provider. Seed 0 draws a random seed.
func NewFaker(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

func (p *Faker) Name() string     { return p.f.Name() }
func (p *Faker) Username() string { return p.f.Username() }
func (p *Faker) Email() string    { return p.f.Email() }
func (p *Faker) Phone() string    { return p.f.Phone() }
func (p *Faker) City() string     { return p.f.City() }
func (p *Faker) Company() string  { return p.f.Company() }

// ID returns a random v4 UUID.
// ID returns a version 4 UUID drawn from the faker's source, so a fixed
// seed repeats the same IDs.
func (p *Faker) ID() string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], p.f.Uint64())
	binary.BigEndian.PutUint64(b[8:], p.f.Uint64())
	id, err := uuid.NewRandomFromReader(bytes.NewReader(b[:]))
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (p *Faker) Numerify(pattern string) string { return p.f.Numerify(pattern) }
func (p *Faker) Lexify(pattern string) string   { return strings.ToUpper(p.f.Lexify(pattern)) }

func (p *Faker) Hex(n int) string {
	sum := sha256.Sum256([]byte(p.f.UUID()))
	s := hex.EncodeToString(sum[:])
	if n > 0 && n < len(s) {
		return s[:n]
	}
	return s
}

func (p *Faker) IntRange(min, max int) int { return p.f.IntRange(min, max) }

func (p *Faker) Float64Range(min, max float64) float64 { return p.f.Float64Range(min, max) }

func (p *Faker) Bool() bool { return p.f.Bool() }

func (p *Faker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[p.f.IntRange(0, len(options)-1)]
}

func (p *Faker) Sample(options []string, k int) []string {
	if k > len(options) {
		k = len(options)
	}
	shuffled := append([]string(nil), options...)
	p.f.ShuffleStrings(shuffled)
	return shuffled[:k]
}
