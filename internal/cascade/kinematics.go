package cascade

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"nucascade/internal/rng"
	"nucascade/pkg/nucleus"
)

// cmMomentum returns the magnitude of either product's momentum when a
// system of invariant mass m decays into masses m1 and m2.
func cmMomentum(m, m1, m2 float64) float64 {
	arg := (m*m - (m1+m2)*(m1+m2)) * (m*m - (m1-m2)*(m1-m2))
	if arg <= 0 {
		return 0
	}
	return math.Sqrt(arg) / (2 * m)
}

// twoBodyDecay splits the parent into two products of the given PDG codes
// and masses, drawing an isotropic emission direction in the parent rest
// frame and boosting both products back to the lab frame. The released
// energy is fixed by the parent invariant mass.
func twoBodyDecay(parent nucleus.Particle, pdg1 int, m1 float64, pdg2 int, m2 float64, gen *rng.Generator) (nucleus.Particle, nucleus.Particle, error) {
	return splitParent(parent, pdg1, m1, pdg2, m2, parent.P4.M(), gen)
}

// twoBodyDecayKE is twoBodyDecay with the released energy supplied as the
// total center-of-mass kinetic energy of the product pair instead of being
// derived from the parent mass.
func twoBodyDecayKE(parent nucleus.Particle, pdg1 int, m1 float64, pdg2 int, m2, ke float64, gen *rng.Generator) (nucleus.Particle, nucleus.Particle, error) {
	if ke < 0 {
		return nucleus.Particle{}, nucleus.Particle{}, fmt.Errorf(
			"two-body decay with negative kinetic energy %v MeV", ke)
	}
	return splitParent(parent, pdg1, m1, pdg2, m2, m1+m2+ke, gen)
}

func splitParent(parent nucleus.Particle, pdg1 int, m1 float64, pdg2 int, m2, etot float64, gen *rng.Generator) (nucleus.Particle, nucleus.Particle, error) {
	if etot+1e-9 < m1+m2 {
		return nucleus.Particle{}, nucleus.Particle{}, fmt.Errorf(
			"two-body decay below threshold: %v MeV cannot produce %v + %v MeV", etot, m1, m2)
	}

	p := cmMomentum(etot, m1, m2)
	cosTheta := gen.Uniform(-1, 1)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	phi := gen.Uniform(0, 2*math.Pi)
	dir := r3.Vec{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: cosTheta,
	}

	p1 := r3.Scale(p, dir)
	p2 := r3.Scale(-p, dir)
	e1 := math.Sqrt(p*p + m1*m1)
	e2 := math.Sqrt(p*p + m2*m2)

	beta := r3.Scale(1/parent.TotalEnergy(), r3.Vec{
		X: parent.Px(),
		Y: parent.Py(),
		Z: parent.Pz(),
	})
	p1 = boost(p1, e1, beta)
	p2 = boost(p2, e2, beta)

	out1 := nucleus.NewParticle(pdg1, p1.X, p1.Y, p1.Z, m1)
	out2 := nucleus.NewParticle(pdg2, p2.X, p2.Y, p2.Z, m2)
	return out1, out2, nil
}

// boost transforms a momentum vector with energy e from a frame moving with
// velocity beta into the frame beta is measured in.
func boost(mom r3.Vec, e float64, beta r3.Vec) r3.Vec {
	b2 := r3.Norm2(beta)
	if b2 == 0 {
		return mom
	}
	gamma := 1 / math.Sqrt(1-b2)
	bp := r3.Dot(beta, mom)
	return r3.Add(mom, r3.Scale(gamma*gamma/(gamma+1)*bp+gamma*e, beta))
}
