// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package roots implements scalar root finders used by the inverse solvers.
// All finders are best effort: they run to a fixed iteration cap and return a
// tagged result instead of an error, because the callers (network propagation,
// sizing back-solves) must degrade to warnings rather than abort.
package roots

import "math"

// F is a scalar residual evaluator
type F func(x float64) float64

// Result holds the outcome of a root search
type Result struct {
	X         float64 // best estimate of the root
	Converged bool    // residual within tolerance at X
	Residual  float64 // f(X)
	Iters     int     // iterations actually spent
}

// Bisect finds a root of f in [a,b] assuming f changes sign over the bracket.
// Convergence is on the relative bracket width. If f(a) and f(b) share a
// sign the midpoint of the bracket is returned unconverged.
func Bisect(f F, a, b float64, maxIt int, rtol float64) (res Result) {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return Result{X: a, Converged: true}
	}
	if fb == 0 {
		return Result{X: b, Converged: true}
	}
	if fa*fb > 0 {
		x := 0.5 * (a + b)
		return Result{X: x, Residual: f(x)}
	}
	var x, fx float64
	for it := 1; it <= maxIt; it++ {
		x = 0.5 * (a + b)
		fx = f(x)
		res = Result{X: x, Residual: fx, Iters: it}
		if fx == 0 || (b-a) <= rtol*(math.Abs(x)+rtol) {
			res.Converged = true
			return
		}
		if fa*fx < 0 {
			b, fb = x, fx
		} else {
			a, fa = x, fx
		}
	}
	res.Converged = math.Abs(b-a) <= rtol*(math.Abs(x)+rtol)
	return
}

// BisectExpand widens [a,b] geometrically towards [lo,hi] (up to maxExpand
// times) until f changes sign, then bisects. When no sign change can be
// bracketed, guess clamped to [lo,hi] is returned unconverged.
func BisectExpand(f F, a, b, lo, hi, guess float64, maxExpand, maxIt int, rtol float64) Result {
	fa, fb := f(a), f(b)
	for n := 0; fa*fb > 0 && n < maxExpand; n++ {
		w := b - a
		a = math.Max(lo, a-0.5*w)
		b = math.Min(hi, b+0.5*w)
		fa, fb = f(a), f(b)
		if a == lo && b == hi {
			break
		}
	}
	if fa*fb > 0 {
		x := math.Min(math.Max(guess, lo), hi)
		return Result{X: x, Residual: f(x)}
	}
	return Bisect(f, a, b, maxIt, rtol)
}

// Secant searches for a positive root of f starting from trial points x0 < x1.
// Convergence is on the absolute residual. Safeguards for poorly behaved
// evaluators:
//   - near-zero slope between the trials: stretch the upper point by 50%
//   - trial at or below lo: reset to a point just inside the bracket
//   - step much larger than the current bracket: double (or halve) instead
func Secant(f F, x0, x1, lo float64, maxIt int, atol float64) (res Result) {
	f0, f1 := f(x0), f(x1)
	res = Result{X: x1, Residual: f1}
	for it := 1; it <= maxIt; it++ {
		res.Iters = it
		if math.Abs(f1) <= atol {
			res.X, res.Residual, res.Converged = x1, f1, true
			return
		}
		den := f1 - f0
		var xn float64
		switch {
		case math.Abs(den) < 1e-12*(1.0+math.Abs(f1)):
			xn = x1 * 1.5
		default:
			xn = x1 - f1*(x1-x0)/den
		}
		if xn <= lo {
			xn = lo + 0.05*math.Max(x1-lo, 1.0)
		}
		if d := math.Abs(xn - x1); d > 10.0*(math.Abs(x1-x0)+1.0) {
			if xn > x1 {
				xn = 2.0 * x1
			} else {
				xn = 0.5 * x1
			}
		}
		x0, f0 = x1, f1
		x1 = xn
		f1 = f(x1)
		res.X, res.Residual = x1, f1
	}
	res.Converged = math.Abs(f1) <= atol
	return
}
