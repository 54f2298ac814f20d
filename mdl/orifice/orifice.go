// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package orifice implements the sharp-edged restriction orifice model
// (Idelchik, Diagram 4-15). The resistance referred to the pipe velocity
// head factors into a Reynolds-dependent flow term and a purely geometric
// term of the beta ratio.
package orifice

import (
	"math"

	"github.com/may3rd/process-engineering-suite-sub004/hyd"
	"github.com/may3rd/process-engineering-suite-sub004/roots"
)

// input modes
const (
	ModeBeta = "beta_ratio"    // β given, solve ΔP
	ModeDrop = "pressure_drop" // target ΔP given, solve β
)

// inverse-solve constants
const (
	betaLo    = 0.01
	betaHi    = 0.99
	invMaxIt  = 50
	invRtol   = 1e-4
	reLowHigh = 2500.0 // Idelchik low/high-Re switch
)

// Spec is the independent-variable selection of one orifice
type Spec struct {
	InputMode string  // ModeBeta or ModeDrop
	Beta      float64 // orifice-to-pipe diameter ratio
	Drop      float64 // pressure drop [Pa]
}

// Result holds a sizing outcome. OK=false means "not computable with the
// current data", which callers must treat as missing, not as zero.
type Result struct {
	K    float64 // loss coefficient referred to the pipe velocity head
	Drop float64 // pressure drop [Pa]
	Beta float64 // beta ratio (solved in ModeDrop)
	OK   bool
}

// K returns the orifice loss coefficient at the given Reynolds number
func K(re, beta float64) float64 {
	return flowFactor(re, beta) * geomFactor(beta)
}

// geomFactor is the geometric part: (1−β²)・(1/β⁴ − 1)
func geomFactor(beta float64) float64 {
	b2 := beta * beta
	return (1.0 - b2) * (1.0/(b2*b2) - 1.0)
}

// flowFactor is the Reynolds-dependent part, switching correlation at
// Re=2500 (continuous there)
func flowFactor(re, beta float64) float64 {
	shape := 1.0 + 0.5*beta*beta
	if re < reLowHigh {
		return (0.70 + 33.0/re) * shape
	}
	return 0.7132 * shape
}

// PressureDrop evaluates the orifice in its configured mode at the given
// pipe-flow conditions. In ModeBeta the drop follows directly from K; in
// ModeDrop the beta ratio reproducing the target drop is found by bisection
// over [0.01, 0.99] (ΔP is monotonically decreasing in β).
func PressureDrop(sp *Spec, re, rho, v float64) Result {
	if re <= 0 || rho <= 0 || v <= 0 {
		return Result{}
	}
	switch sp.InputMode {
	case ModeBeta:
		beta := sp.Beta
		if beta <= 0 || beta >= 1 {
			return Result{}
		}
		k := K(re, beta)
		return Result{K: k, Drop: hyd.PressureDropFromK(k, rho, v), Beta: beta, OK: true}
	case ModeDrop:
		target := sp.Drop
		if target <= 0 {
			return Result{}
		}
		res := roots.Bisect(func(beta float64) float64 {
			return hyd.PressureDropFromK(K(re, beta), rho, v) - target
		}, betaLo, betaHi, invMaxIt, invRtol)
		if !res.Converged && math.Abs(res.Residual) > invRtol*target {
			return Result{}
		}
		beta := res.X
		k := K(re, beta)
		return Result{K: k, Drop: hyd.PressureDropFromK(k, rho, v), Beta: beta, OK: true}
	}
	return Result{}
}
