package sampler_test

import (
	"errors"
	"math"
	"testing"

	"github.com/gyaneshwarpardhi/banksim/internal/catalog"
	"github.com/gyaneshwarpardhi/banksim/internal/event"
	"github.com/gyaneshwarpardhi/banksim/internal/sampler"
)

func TestDraw_FrequenciesMatchWeights(t *testing.T) {
	weights := map[string]float64{"A": 70, "B": 15, "C": 3, "D": 5, "E": 4, "F": 2, "G": 1}
	var specs []catalog.Spec
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		specs = append(specs, catalog.Spec{Name: name, Severity: event.SeverityInfo, Weight: weights[name]})
	}
	cat := catalog.MustNew(specs)
	s := sampler.New(sampler.Seeded(42))

	const n = 200000
	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		k, err := s.Draw(cat)
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		counts[k]++
	}
	for name, w := range weights {
		got := float64(counts[name]) / n
		want := w / 100
		if math.Abs(got-want) > 0.005 {
			t.Errorf("%s: frequency %.4f, want %.4f ± 0.005", name, got, want)
		}
	}
}

func TestDraw_ZeroWeightNeverDrawn(t *testing.T) {
	cat := catalog.MustNew([]catalog.Spec{
		{Name: "never", Severity: event.SeverityInfo, Weight: 0},
		{Name: "always", Severity: event.SeverityInfo, Weight: 1},
		{Name: "never2", Severity: event.SeverityInfo, Weight: 0},
	})
	s := sampler.New(sampler.Seeded(7))
	for i := 0; i < 10000; i++ {
		k, err := s.Draw(cat)
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		if k != "always" {
			t.Fatalf("drew zero-weight kind %q", k)
		}
	}
}

func TestDraw_EqualWeightsUniform(t *testing.T) {
	cat := catalog.MustNew([]catalog.Spec{
		{Name: "x", Severity: event.SeverityInfo, Weight: 5},
		{Name: "y", Severity: event.SeverityInfo, Weight: 5},
	})
	s := sampler.New(sampler.Seeded(3))
	const n = 100000
	x := 0
	for i := 0; i < n; i++ {
		if k, _ := s.Draw(cat); k == "x" {
			x++
		}
	}
	if frac := float64(x) / n; math.Abs(frac-0.5) > 0.01 {
		t.Errorf("x frequency %.4f, want 0.5", frac)
	}
}

func TestDraw_InvalidCatalog(t *testing.T) {
	s := sampler.New(nil)
	if _, err := s.Draw(nil); !errors.Is(err, catalog.ErrInvalidCatalog) {
		t.Errorf("nil catalog: expected ErrInvalidCatalog, got %v", err)
	}
	if _, err := s.Draw(&catalog.Catalog{}); !errors.Is(err, catalog.ErrInvalidCatalog) {
		t.Errorf("empty catalog: expected ErrInvalidCatalog, got %v", err)
	}
}
