// Package numeric implements the polynomial interpolation and special
// function helpers behind continuum sampling: Chebyshev interpolants with
// term-wise antiderivatives for building cumulative distributions and their
// inverses, bisection root finding, and the complex log-gamma function.
package numeric

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence indicates an adaptive interpolant build that failed to
// reach the requested tolerance within the node budget.
var ErrNoConvergence = errors.New("interpolant did not converge")

// ErrDegenerateDensity indicates a density whose integral over its support
// is not positive, so no cumulative distribution can be formed.
var ErrDegenerateDensity = errors.New("density integrates to a non-positive value")

const (
	startNodes = 64
	maxNodes   = 16384
)

// Chebyshev is a Chebyshev polynomial interpolant of a function on [a, b].
type Chebyshev struct {
	a, b   float64
	coeffs []float64
}

// NewChebyshev builds an interpolant of f on [a, b], doubling the node count
// until the high-order coefficient tail falls below tol relative to the
// largest coefficient.
func NewChebyshev(f func(float64) float64, a, b, tol float64) (*Chebyshev, error) {
	if b <= a {
		return nil, fmt.Errorf("interval [%v, %v] is empty", a, b)
	}
	for n := startNodes; n <= maxNodes; n *= 2 {
		c := NewChebyshevFixed(f, a, b, n)
		if c.tailConverged(tol) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no convergence to tolerance %v within %d nodes on [%v, %v]: %w",
		tol, maxNodes, a, b, ErrNoConvergence)
}

// NewChebyshevFixed builds an interpolant of f on [a, b] using exactly n+1
// Chebyshev-Lobatto nodes.
func NewChebyshevFixed(f func(float64) float64, a, b float64, n int) *Chebyshev {
	if n < 2 {
		n = 2
	}
	values := make([]float64, n+1)
	for k := 0; k <= n; k++ {
		y := math.Cos(math.Pi * float64(k) / float64(n))
		x := a + (b-a)*(y+1)/2
		values[k] = f(x)
	}
	coeffs := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		sum := values[0] / 2
		for k := 1; k < n; k++ {
			sum += values[k] * math.Cos(math.Pi*float64(j)*float64(k)/float64(n))
		}
		sum += values[n] * math.Cos(math.Pi*float64(j)) / 2
		coeffs[j] = 2 * sum / float64(n)
	}
	// Fold the half-weight convention for the first and last coefficients so
	// the interpolant is a plain sum over c_j T_j.
	coeffs[0] /= 2
	coeffs[n] /= 2
	return &Chebyshev{a: a, b: b, coeffs: coeffs}
}

func (c *Chebyshev) tailConverged(tol float64) bool {
	var largest float64
	for _, v := range c.coeffs {
		if av := math.Abs(v); av > largest {
			largest = av
		}
	}
	if largest == 0 {
		return true
	}
	var tail float64
	for _, v := range c.coeffs[len(c.coeffs)/2:] {
		if av := math.Abs(v); av > tail {
			tail = av
		}
	}
	return tail <= tol*largest
}

// Bounds returns the interpolation interval.
func (c *Chebyshev) Bounds() (a, b float64) { return c.a, c.b }

// Evaluate computes the interpolant at x using the Clenshaw recurrence.
func (c *Chebyshev) Evaluate(x float64) float64 {
	y := 2*(x-c.a)/(c.b-c.a) - 1
	var b1, b2 float64
	for j := len(c.coeffs) - 1; j >= 1; j-- {
		b1, b2 = 2*y*b1-b2+c.coeffs[j], b1
	}
	return y*b1 - b2 + c.coeffs[0]
}

// Antiderivative returns the term-wise antiderivative interpolant F with
// F(a) = 0.
func (c *Chebyshev) Antiderivative() *Chebyshev {
	n := len(c.coeffs) - 1
	scale := (c.b - c.a) / 2
	out := make([]float64, n+2)
	cat := func(j int) float64 {
		if j < 0 || j > n {
			return 0
		}
		return c.coeffs[j]
	}
	out[1] = scale * (2*cat(0) - cat(2)) / 2
	for k := 2; k <= n+1; k++ {
		out[k] = scale * (cat(k-1) - cat(k+1)) / (2 * float64(k))
	}
	// Fix the constant term so the antiderivative vanishes at the left
	// endpoint, where T_j(-1) = (-1)^j.
	var atA float64
	sign := -1.0
	for k := 1; k <= n+1; k++ {
		atA += sign * out[k]
		sign = -sign
	}
	out[0] = -atA
	return &Chebyshev{a: c.a, b: c.b, coeffs: out}
}

// CDF returns the normalized cumulative distribution of the density this
// interpolant represents. It fails when the density integrates to a
// non-positive total.
func (c *Chebyshev) CDF() (*Chebyshev, error) {
	f := c.Antiderivative()
	total := f.Evaluate(c.b)
	if total <= 0 || math.IsNaN(total) {
		return nil, fmt.Errorf("integral over [%v, %v] is %v: %w", c.a, c.b, total, ErrDegenerateDensity)
	}
	scaled := make([]float64, len(f.coeffs))
	for i, v := range f.coeffs {
		scaled[i] = v / total
	}
	return &Chebyshev{a: c.a, b: c.b, coeffs: scaled}, nil
}

// InverseCDF treats this interpolant as a probability density on [a, b] and
// returns the quantile interpolant on [0, 1]: a polynomial whose value at a
// uniform deviate is a sample from the density. Sampling therefore costs one
// polynomial evaluation after the one-time build.
func (c *Chebyshev) InverseCDF(tol float64) (*Chebyshev, error) {
	cdf, err := c.CDF()
	if err != nil {
		return nil, err
	}
	quantile := func(u float64) float64 {
		if u <= 0 {
			return c.a
		}
		if u >= 1 {
			return c.b
		}
		return Bisect(func(x float64) float64 { return cdf.Evaluate(x) - u }, c.a, c.b)
	}
	inv, err := NewChebyshev(quantile, 0, 1, tol)
	if err != nil {
		return nil, fmt.Errorf("building quantile interpolant: %w", err)
	}
	return inv, nil
}
