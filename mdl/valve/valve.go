// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package valve implements control-valve sizing. Liquid service uses the
// direct algebraic Cv formulas; gas service uses the ISA universal gas
// sizing equation with choked-flow clamping of the pressure-drop ratio.
// Failed preconditions yield "not computable" results instead of errors:
// an unsizeable valve is a data state surfaced to the caller, not a bug.
package valve

import (
	"math"

	"github.com/may3rd/process-engineering-suite-sub004/roots"
)

// input modes
const (
	ModeCv   = "flow_coefficient" // Cv given, solve ΔP
	ModeDrop = "pressure_drop"    // ΔP given, solve Cv
)

// sizing constants
const (
	liquidCvConst = 11.56 // Cv = 11.56・Q・√(SG/ΔP_kPa), Q in m³/h
	gasN7         = 417.0 // ISA N7: Q in std m³/h, P in bar(a), T in K
	defaultXT     = 0.70  // pressure-drop ratio factor when not specified
	dropMaxIt     = 60
	dropRtol      = 1e-4
	minDrop       = 1.0 // Pa, lower bisection bound
)

// Spec is the independent-variable selection of one control valve
type Spec struct {
	InputMode string
	Cv        float64
	Drop      float64 // [Pa]
	XT        float64 // pressure-drop ratio factor; 0 means the 0.70 default
}

// Result holds a sizing outcome. OK=false means the valve is not sizeable
// with the current data.
type Result struct {
	Cv     float64
	Drop   float64 // [Pa]
	Choked bool
	OK     bool
}

// LiquidDrop returns the pressure drop [Pa] across a liquid valve:
//   ΔP_kPa = SG・(11.56・Q/Cv)²   with Q in m³/h
func LiquidDrop(cv, q, sg float64) (float64, bool) {
	if cv <= 0 || q <= 0 || sg <= 0 {
		return 0, false
	}
	x := liquidCvConst * q / cv
	return sg * x * x * 1e3, true
}

// LiquidCv returns the flow coefficient of a liquid valve:
//   Cv = 11.56・Q・√(SG/ΔP_kPa)
func LiquidCv(drop, q, sg float64) (float64, bool) {
	if drop <= 0 || q <= 0 || sg <= 0 {
		return 0, false
	}
	return liquidCvConst * q * math.Sqrt(sg/(drop*1e-3)), true
}

// GasRequiredCv returns the Cv needed to pass qstd [std m³/h] of gas across
// the given drop, by the ISA universal equation
//   Q = N7・Cv・P1・Y・√( x / (G・T・Z) )
// with x = ΔP/P1 capped at the choke limit xT・(γ/1.4) and the expansion
// factor Y = 1 − x/(3・Fk・xT).
func GasRequiredCv(drop, p1, t, qstd, g, gamma, z, xt float64) (cv float64, choked, ok bool) {
	if drop <= 0 || p1 <= 0 || t <= 0 || qstd <= 0 || g <= 0 || gamma <= 0 || z <= 0 {
		return 0, false, false
	}
	if xt <= 0 {
		xt = defaultXT
	}
	fk := gamma / 1.4
	xChoke := fk * xt
	x := drop / p1
	if x >= xChoke {
		x, choked = xChoke, true
	}
	y := 1.0 - x/(3.0*fk*xt)
	p1bar := p1 * 1e-5
	cv = qstd / (gasN7 * p1bar * y * math.Sqrt(x/(g*t*z)))
	return cv, choked, true
}

// GasDrop solves the ISA equation for the pressure drop that makes a valve
// of the given Cv pass qstd. The equation is not directly invertible for the
// drop, so it is bisected over [minDrop, P1・xT・(γ/1.4)]; the required Cv
// decreases monotonically as the drop grows, up to the choke limit, which
// justifies bisection. A Cv too small even at full choke clamps to the
// choked drop.
func GasDrop(cv, p1, t, qstd, g, gamma, z, xt float64) (drop float64, choked, ok bool) {
	if cv <= 0 || p1 <= 0 || t <= 0 || qstd <= 0 || g <= 0 || gamma <= 0 || z <= 0 {
		return 0, false, false
	}
	if xt <= 0 {
		xt = defaultXT
	}
	maxDrop := p1 * xt * gamma / 1.4
	cvAtChoke, _, ok2 := GasRequiredCv(maxDrop, p1, t, qstd, g, gamma, z, xt)
	if !ok2 {
		return 0, false, false
	}
	if cv <= cvAtChoke {
		return maxDrop, true, true
	}
	res := roots.Bisect(func(dp float64) float64 {
		need, _, _ := GasRequiredCv(dp, p1, t, qstd, g, gamma, z, xt)
		return need - cv
	}, minDrop, maxDrop, dropMaxIt, math.Max(dropRtol, 1e-6))
	if !res.Converged {
		return 0, false, false
	}
	return res.X, false, true
}

// SizeLiquid evaluates a liquid valve in its configured mode.
// q is the volumetric flow [m³/h] at line conditions, sg the specific
// gravity versus water.
func SizeLiquid(sp *Spec, q, sg float64) Result {
	switch sp.InputMode {
	case ModeCv:
		dp, ok := LiquidDrop(sp.Cv, q, sg)
		return Result{Cv: sp.Cv, Drop: dp, OK: ok}
	case ModeDrop:
		cv, ok := LiquidCv(sp.Drop, q, sg)
		return Result{Cv: cv, Drop: sp.Drop, OK: ok}
	}
	return Result{}
}

// SizeGas evaluates a gas valve in its configured mode. qstd is the
// volumetric flow [std m³/h], g the specific gravity versus air.
func SizeGas(sp *Spec, p1, t, qstd, g, gamma, z float64) Result {
	switch sp.InputMode {
	case ModeCv:
		dp, choked, ok := GasDrop(sp.Cv, p1, t, qstd, g, gamma, z, sp.XT)
		return Result{Cv: sp.Cv, Drop: dp, Choked: choked, OK: ok}
	case ModeDrop:
		cv, choked, ok := GasRequiredCv(sp.Drop, p1, t, qstd, g, gamma, z, sp.XT)
		return Result{Cv: cv, Drop: sp.Drop, Choked: choked, OK: ok}
	}
	return Result{}
}
