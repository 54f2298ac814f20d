// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gas implements steady compressible flow in constant-area ducts:
// isothermal flow with friction, adiabatic (Fanno) flow with friction, and
// adiabatic expansion between two known pressures. Both solvers detect
// choking and clamp the solution at the critical pressure.
package gas

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/may3rd/process-engineering-suite-sub004/hyd"
	"github.com/may3rd/process-engineering-suite-sub004/roots"
)

// solver constants
const (
	isoMaxIt  = 25   // isothermal fixed-point iteration cap
	isoRtol   = 1e-6 // isothermal relative tolerance
	machEps   = 1e-6 // subsonic bracket margin
	fldMaxExp = 50   // Fanno bracket expansions
	fldMaxIt  = 60   // Fanno bisection iterations
	fldRtol   = 1e-6 // Fanno bisection tolerance
	guessMax  = 50.0 // clamp ceiling for the unbracketed fallback guess
)

// State is an immutable snapshot of a gas at one end of a segment. Choking
// never mutates a State: the solvers build a fresh one at the critical
// pressure instead.
type State struct {
	P      float64 // pressure [Pa]
	T      float64 // temperature [K]
	R      float64 // density [kg/m³]
	V      float64 // velocity [m/s]
	Mach   float64 // Mach number
	M      float64 // molar mass [kg/mol]
	Z      float64 // compressibility factor
	Gamma  float64 // specific heat ratio
	Pcrit  float64 // critical (choking) pressure [Pa]; 0 when not evaluated
	Choked bool
}

// StateFromConditions builds a gas state from pressure, temperature, mass
// flow and duct bore. Density follows the ideal gas law with compressibility
// correction; velocity from continuity; Mach from the real-gas sound speed.
func StateFromConditions(p, t, mdot, d, molarMass, z, gamma float64) (*State, error) {
	if err := validate(p, t, d, molarMass, z, gamma, mdot); err != nil {
		return nil, err
	}
	rho := p * molarMass / (z * hyd.RGas * t)
	v := 0.0
	if mdot > 0 {
		v = mdot / (rho * hyd.Area(d))
	}
	a := hyd.SoundSpeed(gamma, z, t, molarMass)
	return &State{P: p, T: t, R: rho, V: v, Mach: v / a, M: molarMass, Z: z, Gamma: gamma}, nil
}

// CriticalPressureIsothermal returns the choking pressure of isothermal duct
// flow: P* = (ṁ/A)・√(Z・R・T/M)
func CriticalPressureIsothermal(mdot, d, t, molarMass, z float64) float64 {
	g := mdot / hyd.Area(d)
	return g * math.Sqrt(z*hyd.RGas*t/molarMass)
}

// CriticalPressureAdiabatic returns the Fanno-line sonic reference pressure
// of a state: P* = P・M・√( (2+(γ−1)M²) / (γ+1) )
func CriticalPressureAdiabatic(st *State) float64 {
	g := st.Gamma
	return st.P * st.Mach * math.Sqrt((2.0+(g-1.0)*st.Mach*st.Mach)/(g+1.0))
}

// FannoFLD returns the Fanno friction parameter 4fL*/D as a function of the
// Mach number:
//   (1−M²)/(γM²) + (γ+1)/(2γ)・ln( (γ+1)M² / (2+(γ−1)M²) )
func FannoFLD(mach, gamma float64) float64 {
	m2 := mach * mach
	return (1.0-m2)/(gamma*m2) + (gamma+1.0)/(2.0*gamma)*math.Log((gamma+1.0)*m2/(2.0+(gamma-1.0)*m2))
}

// SolveIsothermal solves the fundamental isothermal duct-flow relation
//   P1² − P2² = (ṁ/A)²・Z・R・T/M・( K + 2・ln(P1/P2) )
// for the unknown-end pressure: forward (P1 known, find P2) or backward
// (P2 known, find P1). Returns the solved pressure and the state at the
// unknown end, clamped at the critical pressure and flagged when choked.
func SolveIsothermal(p, t, mdot, d, k, molarMass, z float64, backward bool) (float64, *State, error) {
	if err := validate(p, t, d, molarMass, z, 0, mdot); err != nil {
		return 0, nil, err
	}
	if k < 0 {
		return 0, nil, chk.Err("gas: total resistance coefficient must be non-negative; got %g", k)
	}
	if mdot == 0 {
		st := &State{P: p, T: t, R: p * molarMass / (z * hyd.RGas * t), M: molarMass, Z: z}
		return p, st, nil
	}
	g := mdot / hyd.Area(d)
	c := g * g * z * hyd.RGas * t / molarMass // [Pa²]
	pcrit := CriticalPressureIsothermal(mdot, d, t, molarMass, z)

	choked := false
	var final float64
	if backward {
		p2 := p
		p1 := p2
		for it := 0; it < isoMaxIt; it++ {
			next := math.Sqrt(p2*p2 + c*(k+2.0*math.Log(p1/p2)))
			if math.Abs(next-p1) <= isoRtol*next {
				p1 = next
				break
			}
			p1 = next
		}
		final = p1
	} else {
		p1 := p
		p2 := p1
		for it := 0; it < isoMaxIt; it++ {
			arg := p1*p1 - c*(k+2.0*math.Log(p1/p2))
			if arg <= pcrit*pcrit {
				p2, choked = pcrit, true
				break
			}
			next := math.Sqrt(arg)
			if math.Abs(next-p2) <= isoRtol*next {
				p2 = next
				break
			}
			p2 = next
		}
		if p2 <= pcrit {
			p2, choked = pcrit, true
		}
		final = p2
	}

	rho := final * molarMass / (z * hyd.RGas * t)
	v := g / rho
	st := &State{P: final, T: t, R: rho, V: v, M: molarMass, Z: z, Pcrit: pcrit, Choked: choked}
	return final, st, nil
}

// SolveAdiabatic solves adiabatic (Fanno) flow through a resistance K for
// the unknown-end state: forward (inlet known, find outlet) or backward
// (outlet known, find inlet). The unknown-end Mach number is found by
// bisecting FannoFLD(M)−target over the subsonic branch; the isentropic
// ratios then give pressure and temperature. Both ends carry the Fanno
// critical pressure and the outlet is clamped there when choked.
func SolveAdiabatic(p, t, mdot, d, k, molarMass, z, gamma float64, backward bool) (inlet, outlet *State, err error) {
	if gamma <= 1 {
		return nil, nil, chk.Err("gas: specific heat ratio must exceed 1; got %g", gamma)
	}
	if k < 0 {
		return nil, nil, chk.Err("gas: total resistance coefficient must be non-negative; got %g", k)
	}
	known, err := StateFromConditions(p, t, mdot, d, molarMass, z, gamma)
	if err != nil {
		return nil, nil, err
	}
	if mdot == 0 {
		return known, known, nil
	}
	mK := known.Mach
	if mK >= 1 {
		mK = 1 - machEps
	}
	fldK := FannoFLD(mK, gamma)

	var target, lo, hi float64
	if backward {
		// unknown upstream Mach is smaller
		target = fldK + k
		lo, hi = machEps, mK
	} else {
		if k >= fldK {
			// the resistance exceeds the remaining friction budget: the duct
			// chokes with a sonic exit at the Fanno critical pressure
			pcrit := CriticalPressureAdiabatic(known)
			yK := 1.0 + (gamma-1.0)/2.0*mK*mK
			yS := (gamma + 1.0) / 2.0
			sonic, err := StateFromConditions(pcrit, t*yK/yS, mdot, d, molarMass, z, gamma)
			if err != nil {
				return nil, nil, err
			}
			in := *known
			in.Pcrit = pcrit
			sonic.Pcrit = pcrit
			sonic.Choked = true
			return &in, sonic, nil
		}
		target = fldK - k
		lo, hi = mK, 1-machEps
	}
	res := roots.BisectExpand(func(m float64) float64 {
		return FannoFLD(m, gamma) - target
	}, lo, hi, machEps, 1-machEps, math.Min(math.Max(mK, machEps), guessMax), fldMaxExp, fldMaxIt, fldRtol)
	if !res.Converged {
		return nil, nil, chk.Err("gas: Fanno solve did not converge: K=%g, M=%g, residual=%g", k, mK, res.Residual)
	}
	mU := res.X

	yK := 1.0 + (gamma-1.0)/2.0*mK*mK
	yU := 1.0 + (gamma-1.0)/2.0*mU*mU
	tU := t * yK / yU
	pU := p * (mK / mU) * math.Sqrt(yK/yU)

	unknown, err := StateFromConditions(pU, tU, mdot, d, molarMass, z, gamma)
	if err != nil {
		return nil, nil, err
	}
	if backward {
		inlet, outlet = unknown, known
	} else {
		inlet, outlet = known, unknown
	}
	return chokeCheck(inlet, outlet, mdot, d)
}

// SolveAdiabaticExpansion solves an adiabatic expansion between two known
// boundary pressures (the control-valve gas path). The downstream Mach
// number follows from continuity and the energy equation as a closed-form
// quadratic in M², with no iteration.
func SolveAdiabaticExpansion(p1, p2, t1, mdot, d, molarMass, z, gamma float64) (inlet, outlet *State, err error) {
	if gamma <= 1 {
		return nil, nil, chk.Err("gas: specific heat ratio must exceed 1; got %g", gamma)
	}
	if p2 <= 0 || p2 > p1 {
		return nil, nil, chk.Err("gas: downstream pressure must be within (0, P1]; got %g (P1=%g)", p2, p1)
	}
	inlet, err = StateFromConditions(p1, t1, mdot, d, molarMass, z, gamma)
	if err != nil {
		return nil, nil, err
	}
	if mdot == 0 {
		out := *inlet
		out.P = p2
		out.R = p2 * molarMass / (z * hyd.RGas * t1)
		return inlet, &out, nil
	}
	m1 := inlet.Mach
	y1 := 1.0 + (gamma-1.0)/2.0*m1*m1

	// P1²M1²/T1 = P2²M2²/T2 with T2 = T1・y1/y2 gives
	//   a・(M2²)² + b・M2² − c = 0
	a := (gamma - 1.0) / 2.0 * p2 * p2
	b := p2 * p2
	c := p1 * p1 * m1 * m1 * y1
	m2sq := (-b + math.Sqrt(b*b+4.0*a*c)) / (2.0 * a)
	if m2sq < 0 {
		m2sq = 0
	}
	m2 := math.Sqrt(m2sq)
	if m2 > 1 {
		m2 = 1
	}
	y2 := 1.0 + (gamma-1.0)/2.0*m2*m2
	t2 := t1 * y1 / y2

	outlet, err = StateFromConditions(p2, t2, mdot, d, molarMass, z, gamma)
	if err != nil {
		return nil, nil, err
	}
	return chokeCheck(inlet, outlet, mdot, d)
}

// chokeCheck stamps the Fanno critical pressure on both states and, when the
// outlet pressure has fallen to or below it, replaces the outlet with a
// fresh state clamped at the critical pressure.
func chokeCheck(inlet, outlet *State, mdot, d float64) (*State, *State, error) {
	pcrit := CriticalPressureAdiabatic(inlet)
	in := *inlet
	in.Pcrit = pcrit
	out := *outlet
	out.Pcrit = pcrit
	if out.P <= pcrit {
		clamped, err := StateFromConditions(pcrit, out.T, mdot, d, out.M, out.Z, out.Gamma)
		if err != nil {
			return nil, nil, err
		}
		out = *clamped
		out.Pcrit = pcrit
		out.Choked = true
	}
	return &in, &out, nil
}

// validate checks the physical preconditions shared by the solvers; gamma=0
// skips the heat-ratio check (isothermal path)
func validate(p, t, d, molarMass, z, gamma, mdot float64) error {
	if p <= 0 {
		return chk.Err("gas: pressure must be positive; got %g", p)
	}
	if t <= 0 {
		return chk.Err("gas: temperature must be positive; got %g", t)
	}
	if d <= 0 {
		return chk.Err("gas: diameter must be positive; got %g", d)
	}
	if molarMass <= 0 {
		return chk.Err("gas: molar mass must be positive; got %g", molarMass)
	}
	if z <= 0 {
		return chk.Err("gas: compressibility factor must be positive; got %g", z)
	}
	if gamma != 0 && gamma <= 1 {
		return chk.Err("gas: specific heat ratio must exceed 1; got %g", gamma)
	}
	if mdot < 0 {
		return chk.Err("gas: mass flow must be non-negative; got %g", mdot)
	}
	return nil
}
