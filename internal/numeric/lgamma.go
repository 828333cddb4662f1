package numeric

import (
	"math"
	"math/cmplx"
)

// Lanczos approximation coefficients for g = 7.
var lanczos = [...]float64{
	0.99999999999980993,
	676.5203681218851,
	-1259.1392167224028,
	771.32342877765313,
	-176.61502916214059,
	12.507343278686905,
	-0.13857109526572012,
	9.9843695780195716e-6,
	1.5056327351493116e-7,
}

const logTwoPi = 1.8378770664093454836 // log(2*pi)

// GammaLn returns the principal branch of the log-gamma function for a
// complex argument.
func GammaLn(z complex128) complex128 {
	if real(z) < 0.5 {
		// Reflection formula: Gamma(z) Gamma(1-z) = pi / sin(pi z).
		return cmplx.Log(complex(math.Pi, 0)/cmplx.Sin(complex(math.Pi, 0)*z)) - GammaLn(1-z)
	}
	z -= 1
	x := complex(lanczos[0], 0)
	for i := 1; i < len(lanczos); i++ {
		x += complex(lanczos[i], 0) / (z + complex(float64(i), 0))
	}
	t := z + complex(7.5, 0)
	return complex(logTwoPi/2, 0) + (z+complex(0.5, 0))*cmplx.Log(t) - t + cmplx.Log(x)
}

// GammaMagSq returns |Gamma(z)|^2.
func GammaMagSq(z complex128) float64 {
	return math.Exp(2 * real(GammaLn(z)))
}
