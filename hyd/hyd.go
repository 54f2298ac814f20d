// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hyd implements the basic single-phase hydraulic correlations:
// Reynolds number, friction factors, flow-regime classification and the
// conversions between resistance coefficient, head and pressure drop.
package hyd

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// physical constants
const (
	Gravity      = 9.80665  // standard gravity [m/s²]
	RGas         = 8.31446  // universal gas constant [J/(mol・K)]
	MolarMassAir = 0.028964 // [kg/mol]
	MetrePerInch = 0.0254
	ErosionalC   = 122.0 // API RP 14E C-factor, SI units
)

// flow regime bounds
const (
	ReLaminar   = 2000.0
	ReTurbulent = 4000.0
)

// Area returns the internal flow area of a circular pipe
func Area(d float64) float64 {
	return math.Pi * d * d / 4.0
}

// Velocity returns the mean velocity for a mass flow through a circular pipe
func Velocity(mdot, rho, d float64) float64 {
	return mdot / (rho * Area(d))
}

// Reynolds computes the Reynolds number from the mean velocity.
// All inputs must be strictly positive.
func Reynolds(rho, mu, d, v float64) (float64, error) {
	if rho <= 0 || mu <= 0 || d <= 0 || v <= 0 {
		return 0, chk.Err("reynolds: inputs must be positive: rho=%g mu=%g d=%g v=%g", rho, mu, d, v)
	}
	return rho * v * d / mu, nil
}

// ReynoldsFromMassFlow computes the Reynolds number from a mass flow rate:
//   Re = 4・ṁ / (π・d・μ)
func ReynoldsFromMassFlow(mdot, mu, d float64) (float64, error) {
	if mdot <= 0 || mu <= 0 || d <= 0 {
		return 0, chk.Err("reynolds: inputs must be positive: mdot=%g mu=%g d=%g", mdot, mu, d)
	}
	return 4.0 * mdot / (math.Pi * d * mu), nil
}

// Regime classifies the flow regime from the Reynolds number
func Regime(re float64) string {
	switch {
	case re < ReLaminar:
		return "laminar"
	case re > ReTurbulent:
		return "turbulent"
	}
	return "transition"
}

// FrictionFactor returns the Darcy friction factor. Below Re=2000 the exact
// laminar solution 64/Re is used; otherwise the explicit correlation of
// Shacham (1980):
//   f = [ -2・log10( rr/3.7 − (5.02/Re)・log10( rr/3.7 + 14.5/Re ) ) ]⁻²
// where rr is the relative roughness ε/D.
func FrictionFactor(re, relRough float64) (float64, error) {
	if re <= 0 {
		return 0, chk.Err("frictionFactor: Re must be positive; got %g", re)
	}
	if relRough < 0 {
		return 0, chk.Err("frictionFactor: relative roughness must be non-negative; got %g", relRough)
	}
	if re < ReLaminar {
		return 64.0 / re, nil
	}
	inner := relRough/3.7 + 14.5/re
	if inner <= 0 {
		return 0, chk.Err("frictionFactor: inner logarithm argument is non-positive: %g", inner)
	}
	outer := relRough/3.7 - 5.02/re*math.Log10(inner)
	if outer <= 0 {
		return 0, chk.Err("frictionFactor: outer logarithm argument is non-positive: %g", outer)
	}
	x := -2.0 * math.Log10(outer)
	return 1.0 / (x * x), nil
}

// SwameeJain returns the Darcy friction factor by the Swamee-Jain
// approximation. This estimator is reserved for the swage and orifice
// correlation family; straight-pipe friction uses FrictionFactor.
func SwameeJain(re, relRough float64) float64 {
	x := math.Log10(relRough/3.7 + 5.74/math.Pow(re, 0.9))
	return 0.25 / (x * x)
}

// PipeK returns the resistance coefficient of a straight pipe run, clamped
// to zero for zero length or non-positive friction factor
func PipeK(f, length, d float64) float64 {
	if length <= 0 || f <= 0 || d <= 0 {
		return 0
	}
	return f * length / d
}

// PressureDropFromK returns ΔP = K・ρ・v²/2
func PressureDropFromK(k, rho, v float64) float64 {
	return k * rho * v * v / 2.0
}

// HeadToPressure returns ΔP = ρ・g・h. Pass g ≤ 0 for standard gravity.
func HeadToPressure(h, rho, g float64) float64 {
	if g <= 0 {
		g = Gravity
	}
	return rho * g * h
}

// PressureToHead returns h = ΔP/(ρ・g). Pass g ≤ 0 for standard gravity.
func PressureToHead(dp, rho, g float64) float64 {
	if g <= 0 {
		g = Gravity
	}
	return dp / (rho * g)
}

// ErosionalVelocity returns the API RP 14E erosional velocity limit C/√ρ
func ErosionalVelocity(rho float64) float64 {
	if rho <= 0 {
		return 0
	}
	return ErosionalC / math.Sqrt(rho)
}

// SoundSpeed returns the speed of sound in a real gas: √(γ・Z・R・T/M)
func SoundSpeed(gamma, z, t, molarMass float64) float64 {
	if gamma <= 0 || z <= 0 || t <= 0 || molarMass <= 0 {
		return 0
	}
	return math.Sqrt(gamma * z * RGas * t / molarMass)
}
