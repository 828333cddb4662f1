package rng

import (
	"errors"
	"math"
	"testing"
)

func TestDeterministicReplay(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("expected identical streams for identical seeds at draw %d", i)
		}
	}
	c := New(43)
	same := true
	d := New(42)
	for i := 0; i < 10; i++ {
		if c.Uint64() != d.Uint64() {
			same = false
		}
	}
	if same {
		t.Fatalf("expected different streams for different seeds")
	}
}

func TestDeriveIndependentStreams(t *testing.T) {
	root := New(7)
	s0 := root.Derive(0)
	s1 := root.Derive(1)
	s0again := New(7).Derive(0)
	identical := 0
	for i := 0; i < 50; i++ {
		v0 := s0.Uint64()
		if v0 == s1.Uint64() {
			identical++
		}
		if v0 != s0again.Uint64() {
			t.Fatalf("expected derived stream to be deterministic at draw %d", i)
		}
	}
	if identical > 2 {
		t.Fatalf("expected derived streams to differ, got %d identical draws", identical)
	}
}

func TestUniformBounds(t *testing.T) {
	g := New(1)
	for i := 0; i < 1000; i++ {
		v := g.Uniform(2, 5)
		if v < 2 || v >= 5 {
			t.Fatalf("expected value in [2, 5), got %v", v)
		}
	}
}

func TestFloat64HalfOpen(t *testing.T) {
	g := New(1)
	for i := 0; i < 1000; i++ {
		v := g.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("expected value in [0, 1), got %v", v)
		}
	}
}

func TestDiscreteIndexDistribution(t *testing.T) {
	g := New(99)
	weights := []float64{1, 0, 3}
	counts := make([]int, 3)
	const n = 40000
	for i := 0; i < n; i++ {
		idx, err := g.DiscreteIndex(weights)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		counts[idx]++
	}
	if counts[1] != 0 {
		t.Fatalf("expected zero-weight index never sampled, got %d", counts[1])
	}
	frac := float64(counts[2]) / float64(n)
	if math.Abs(frac-0.75) > 0.02 {
		t.Fatalf("expected index 2 sampled with frequency near 0.75, got %v", frac)
	}
}

func TestDiscreteIndexErrors(t *testing.T) {
	g := New(1)
	if _, err := g.DiscreteIndex([]float64{0, 0}); !errors.Is(err, ErrNoWeight) {
		t.Fatalf("expected ErrNoWeight for zero total, got %v", err)
	}
	if _, err := g.DiscreteIndex(nil); !errors.Is(err, ErrNoWeight) {
		t.Fatalf("expected ErrNoWeight for empty weights, got %v", err)
	}
	if _, err := g.DiscreteIndex([]float64{1, -0.5}); !errors.Is(err, ErrNegativeWeight) {
		t.Fatalf("expected ErrNegativeWeight, got %v", err)
	}
}

func TestRejectionBoundsAndShape(t *testing.T) {
	g := New(5)
	pdf := func(x float64) float64 { return x }
	var sum float64
	const n = 20000
	for i := 0; i < n; i++ {
		v, err := g.Rejection(pdf, 0, 1, 1)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		if v < 0 || v >= 1 {
			t.Fatalf("expected sample in [0, 1), got %v", v)
		}
		sum += v
	}
	// Linear density on [0, 1) has mean 2/3.
	mean := sum / float64(n)
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Fatalf("expected mean near 2/3, got %v", mean)
	}
}

func TestRejectionErrors(t *testing.T) {
	g := New(5)
	if _, err := g.Rejection(func(float64) float64 { return 1 }, 1, 1, 1); !errors.Is(err, ErrBadSupport) {
		t.Fatalf("expected ErrBadSupport for empty interval, got %v", err)
	}
	if _, err := g.Rejection(func(float64) float64 { return 1 }, 0, 1, 0); !errors.Is(err, ErrNoWeight) {
		t.Fatalf("expected ErrNoWeight for zero envelope, got %v", err)
	}
}
