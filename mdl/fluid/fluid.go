// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements the working-fluid property model
package fluid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/may3rd/process-engineering-suite-sub004/hyd"
)

// Model holds the transport and thermodynamic properties of the working
// fluid. For a gas the density may be derived from the ideal gas law with a
// compressibility correction; a liquid carries a fixed density and discards
// the molar quantities (they are not meaningful for the correlations used).
type Model struct {

	// material data
	Gas   bool    // gas instead of liquid?
	R0    float64 // density [kg/m³]; for gas, fallback when state is unknown
	Mu    float64 // dynamic viscosity [Pa・s]
	M     float64 // molar mass [kg/mol] (gas only)
	Z     float64 // compressibility factor (gas only)
	Gamma float64 // specific heat ratio (gas only)
}

// Init initialises the model from a named parameter set
func (o *Model) Init(prms dbf.Params) error {
	o.Z = 1.0
	for _, p := range prms {
		switch p.N {
		case "gas":
			o.Gas = p.V > 0
		case "R0":
			o.R0 = p.V
		case "mu":
			o.Mu = p.V
		case "M":
			o.M = p.V
		case "Z":
			o.Z = p.V
		case "gam":
			o.Gamma = p.V
		default:
			return chk.Err("fluid: parameter named %q is incorrect", p.N)
		}
	}
	if o.Mu <= 0 {
		return chk.Err("fluid: viscosity must be positive; got %g", o.Mu)
	}
	if o.Gas {
		if o.M <= 0 {
			return chk.Err("fluid: gas molar mass must be positive; got %g", o.M)
		}
		if o.Z <= 0 {
			return chk.Err("fluid: gas compressibility factor must be positive; got %g", o.Z)
		}
		if o.Gamma <= 1 {
			return chk.Err("fluid: gas specific heat ratio must exceed 1; got %g", o.Gamma)
		}
	} else {
		if o.R0 <= 0 {
			return chk.Err("fluid: liquid density must be positive; got %g", o.R0)
		}
		o.M, o.Z, o.Gamma = 0, 0, 0
	}
	return nil
}

// GetPrms gets (an example of) parameters
//  Note:
//   Gas variable is used to return dry air properties instead of water
func (o Model) GetPrms(example bool) dbf.Params {
	if example {
		if o.Gas {
			return dbf.Params{ // dry air
				&dbf.P{N: "gas", V: 1},
				&dbf.P{N: "R0", V: 1.225},   // [kg/m³]
				&dbf.P{N: "mu", V: 1.81e-5}, // [Pa・s]
				&dbf.P{N: "M", V: 0.028964}, // [kg/mol]
				&dbf.P{N: "Z", V: 1.0},      // [-]
				&dbf.P{N: "gam", V: 1.4},    // [-]
			}
		}
		return dbf.Params{ // water
			&dbf.P{N: "gas", V: 0},
			&dbf.P{N: "R0", V: 998.0}, // [kg/m³]
			&dbf.P{N: "mu", V: 1e-3},  // [Pa・s]
		}
	}
	var gas float64
	if o.Gas {
		gas = 1
	}
	return dbf.Params{
		&dbf.P{N: "gas", V: gas},
		&dbf.P{N: "R0", V: o.R0},
		&dbf.P{N: "mu", V: o.Mu},
		&dbf.P{N: "M", V: o.M},
		&dbf.P{N: "Z", V: o.Z},
		&dbf.P{N: "gam", V: o.Gamma},
	}
}

// Density returns the density at (p [Pa], t [K]). A liquid returns the fixed
// R0; a gas evaluates ρ = p・M/(Z・R・T), falling back to R0 when the state is
// incomplete.
func (o Model) Density(p, t float64) float64 {
	if !o.Gas {
		return o.R0
	}
	if p <= 0 || t <= 0 || o.M <= 0 || o.Z <= 0 {
		return o.R0
	}
	return p * o.M / (o.Z * hyd.RGas * t)
}

// SG returns the specific gravity: versus water (1000 kg/m³) for a liquid,
// versus air molar mass for a gas
func (o Model) SG() float64 {
	if o.Gas {
		return o.M / hyd.MolarMassAir
	}
	return o.R0 / 1000.0
}
