// Package cosmology computes cosmological distances for FLRW models.
//
// The models carry the Hubble constant and present-day matter and dark-energy
// densities. Radiation is neglected, so the predefined flat models use
// Ode0 = 1 - Om0.
package cosmology

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// speed of light in km/s.
const speedOfLightKmS = 299792.458

// Curvature below this threshold is treated as flat.
const flatThreshold = 1e-8

// Cosmology errors.
var (
	ErrInvalidModel = errors.New("invalid cosmology model")
	ErrUnknownModel = errors.New("unknown cosmology model")
)

// Model is an FLRW cosmology fixed by H0 (km/s/Mpc) and the present-day
// matter and dark-energy densities. Distances are returned in Mpc.
type Model struct {
	Name string
	H0   float64
	Om0  float64
	Ode0 float64
}

// Predefined models from published CMB parameter sets.
var (
	Planck18 = Model{Name: "Planck18", H0: 67.66, Om0: 0.30966, Ode0: 0.69034}
	Planck15 = Model{Name: "Planck15", H0: 67.74, Om0: 0.3089, Ode0: 0.6911}
	Planck13 = Model{Name: "Planck13", H0: 67.77, Om0: 0.30712, Ode0: 0.69288}
	WMAP9    = Model{Name: "WMAP9", H0: 69.32, Om0: 0.2865, Ode0: 0.7135}
	WMAP7    = Model{Name: "WMAP7", H0: 70.4, Om0: 0.272, Ode0: 0.728}
)

// Default returns the model used when a caller does not supply one.
func Default() *Model {
	m := Planck18
	return &m
}

// ByName returns a copy of the predefined model with the given name,
// ignoring case.
func ByName(name string) (*Model, error) {
	for _, m := range predefined() {
		if strings.EqualFold(m.Name, name) {
			found := m
			return &found, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

// Names returns the names of all predefined models.
func Names() []string {
	models := predefined()

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}

	return names
}

func predefined() []Model {
	return []Model{Planck18, Planck15, Planck13, WMAP9, WMAP7}
}

// Validate checks that the model parameters are physically usable.
func (m Model) Validate() error {
	if m.H0 <= 0 {
		return fmt.Errorf("%w: H0 must be positive, got %v", ErrInvalidModel, m.H0)
	}

	if m.Om0 < 0 {
		return fmt.Errorf("%w: Om0 must be non-negative, got %v", ErrInvalidModel, m.Om0)
	}

	return nil
}

// Ok0 returns the present-day curvature density.
func (m Model) Ok0() float64 {
	return 1 - m.Om0 - m.Ode0
}

// HubbleDistance returns c/H0 in Mpc.
func (m Model) HubbleDistance() float64 {
	return speedOfLightKmS / m.H0
}

// efunc is E(z) = H(z)/H0.
func (m Model) efunc(z float64) float64 {
	zp1 := 1 + z
	return math.Sqrt(m.Om0*zp1*zp1*zp1 + m.Ok0()*zp1*zp1 + m.Ode0)
}

// ComovingDistance returns the line-of-sight comoving distance in Mpc.
func (m Model) ComovingDistance(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}

	if z == 0 {
		return 0
	}

	return m.HubbleDistance() * integrate(func(x float64) float64 {
		return 1 / m.efunc(x)
	}, 0, z)
}

// TransverseComovingDistance returns the transverse comoving distance in Mpc.
// It equals the comoving distance for flat models and applies the sinh or sin
// curvature scaling otherwise.
func (m Model) TransverseComovingDistance(z float64) float64 {
	dc := m.ComovingDistance(z)

	ok0 := m.Ok0()
	if math.Abs(ok0) < flatThreshold {
		return dc
	}

	dh := m.HubbleDistance()
	sqrtOk := math.Sqrt(math.Abs(ok0))

	if ok0 > 0 {
		return dh / sqrtOk * math.Sinh(sqrtOk*dc/dh)
	}

	return dh / sqrtOk * math.Sin(sqrtOk*dc/dh)
}

// LuminosityDistance returns the luminosity distance in Mpc.
func (m Model) LuminosityDistance(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}

	return (1 + z) * m.TransverseComovingDistance(z)
}

// integrate approximates the integral of f over [a, b] with composite
// Simpson's rule. The step count grows with the interval so that large
// redshifts stay accurate.
func integrate(f func(float64) float64, a, b float64) float64 {
	n := int(math.Ceil(math.Abs(b-a) * 256))
	if n < 64 {
		n = 64
	}

	if n%2 != 0 {
		n++
	}

	h := (b - a) / float64(n)

	sum := f(a) + f(b)

	for i := 1; i < n; i++ {
		x := a + float64(i)*h
		if i%2 == 0 {
			sum += 2 * f(x)
		} else {
			sum += 4 * f(x)
		}
	}

	return sum * h / 3
}
