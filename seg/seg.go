// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package seg implements the pipeline segment aggregator: one call combines
// fitting losses, straight-pipe friction, elevation head, user-specified
// drop and (for components) valve/orifice sizing into the segment's total
// pressure drop and its inlet/outlet thermodynamic states.
package seg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"gonum.org/v1/gonum/floats"

	"github.com/may3rd/process-engineering-suite-sub004/gas"
	"github.com/may3rd/process-engineering-suite-sub004/hyd"
	"github.com/may3rd/process-engineering-suite-sub004/inp"
	"github.com/may3rd/process-engineering-suite-sub004/mdl/fitting"
	"github.com/may3rd/process-engineering-suite-sub004/mdl/fluid"
	"github.com/may3rd/process-engineering-suite-sub004/mdl/orifice"
	"github.com/may3rd/process-engineering-suite-sub004/mdl/valve"
)

// standard reference conditions for gas volumetric flow
const (
	stdPressure    = 101325.0 // [Pa]
	stdTemperature = 288.15   // [K]
)

// Context carries the per-calculation collaborators of a segment solve
type Context struct {
	Fluid *fluid.Model
}

// FluidModel builds the property model from an input fluid spec
func FluidModel(fs *inp.FluidSpec) (*fluid.Model, error) {
	if fs == nil {
		return nil, chk.Err("seg: fluid definition is missing")
	}
	if err := fs.CheckPhase(); err != nil {
		return nil, err
	}
	var gasFlag float64
	if fs.Phase == "gas" {
		gasFlag = 1
	}
	z := fs.Z
	if gasFlag > 0 && z == 0 {
		z = 1
	}
	m := new(fluid.Model)
	err := m.Init(dbf.Params{
		&dbf.P{N: "gas", V: gasFlag},
		&dbf.P{N: "R0", V: fs.Density},
		&dbf.P{N: "mu", V: fs.Viscosity},
		&dbf.P{N: "M", V: fs.MolarMass},
		&dbf.P{N: "Z", V: z},
		&dbf.P{N: "gam", V: fs.Gamma},
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Recalc recomputes the full hydraulics of one pipe from its boundary
// conditions, returning a fresh pipe with Results and Summary filled in.
// The input pipe is never mutated.
func Recalc(p *inp.Pipe, ctx *Context) (*inp.Pipe, error) {
	fl := ctx.Fluid
	mdot := p.FlowRate()
	if mdot <= 0 {
		return nil, chk.Err("segment %q: mass flow must be positive; got %g", p.ID, mdot)
	}
	if p.Diameter <= 0 {
		return nil, chk.Err("segment %q: diameter must be positive; got %g", p.ID, p.Diameter)
	}
	pIn, tIn := p.BoundaryPressure, p.BoundaryTemperature
	if pIn <= 0 {
		return nil, chk.Err("segment %q: boundary pressure must be positive; got %g", p.ID, pIn)
	}
	if fl.Gas && tIn <= 0 {
		return nil, chk.Err("segment %q: boundary temperature must be positive; got %g", p.ID, tIn)
	}

	out := p.Clone()
	res := new(inp.Results)
	out.Results = res

	// flow characterisation at inlet conditions
	rhoIn := fl.Density(pIn, tIn)
	v := hyd.Velocity(mdot, rhoIn, p.Diameter)
	re, err := hyd.ReynoldsFromMassFlow(mdot, fl.Mu, p.Diameter)
	if err != nil {
		return nil, err
	}
	f, err := hyd.FrictionFactor(re, p.Roughness/p.Diameter)
	if err != nil {
		return nil, err
	}
	res.Re, res.FrictionFactor, res.Regime = re, f, hyd.Regime(re)

	// loss coefficients
	bd, err := fitting.Losses(&fitting.Section{
		D:     p.Diameter,
		DIn:   p.InletDiameter,
		DOut:  p.OutletDiameter,
		Rough: p.Roughness,
		Items: fittingItems(p.Fittings),
	}, re)
	if err != nil {
		return nil, err
	}
	sfm := 1.0 + p.SafetyFactor/100.0
	kFit := bd.TotalK * sfm
	kPipe := hyd.PipeK(f, p.Length, p.Diameter) * sfm
	kExtra := p.ExtraK * sfm
	res.FittingK, res.PipeK, res.ExtraK = kFit, kPipe, kExtra
	res.TotalK = floats.Sum([]float64{kFit, kPipe, kExtra})
	for _, it := range bd.Items {
		res.Breakdown = append(res.Breakdown, inp.FittingK{
			Type: it.Type, Style: it.Style, Count: it.Count,
			KEach: it.KEach * sfm, KTotal: it.KTotal * sfm,
		})
	}

	// elevation and user-specified losses
	res.ElevationDrop = hyd.HeadToPressure(p.Elevation, rhoIn, 0)
	res.FixedDrop = p.FixedDrop

	// embedded component
	var gasOutState *gas.State
	if p.IsComponent() {
		gasOutState, err = componentDrop(out, ctx, res, mdot, re, rhoIn, v)
		if err != nil {
			return nil, err
		}
	}

	// frictional drop
	if fl.Gas {
		gasOutState, err = gasFrictionDrop(p, fl, res, mdot, res.TotalK, gasOutState)
		if err != nil {
			return nil, err
		}
	} else {
		res.FittingDrop = hyd.PressureDropFromK(kFit, rhoIn, v)
		res.FrictionDrop = hyd.PressureDropFromK(kPipe+kExtra, rhoIn, v)
	}

	res.TotalDrop = floats.Sum([]float64{
		res.FittingDrop, res.FrictionDrop, res.ElevationDrop, res.FixedDrop, res.ComponentDrop,
	})

	// inlet/outlet summary
	out.Summary = summarise(p, fl, mdot, pIn, tIn, rhoIn, v, res, gasOutState)
	return out, nil
}

// componentDrop sizes the embedded control valve or orifice, records its
// drop and writes the solved quantity back onto the sub-record
func componentDrop(out *inp.Pipe, ctx *Context, res *inp.Results, mdot, re, rhoIn, v float64) (*gas.State, error) {
	fl := ctx.Fluid
	p := out
	switch p.SectionType {
	case inp.SectionOrifice:
		if p.Orifice == nil {
			return nil, chk.Err("segment %q: orifice section has no orifice record", p.ID)
		}
		r := orifice.PressureDrop(&orifice.Spec{
			InputMode: p.Orifice.InputMode,
			Beta:      p.Orifice.Beta,
			Drop:      p.Orifice.Drop,
		}, re, rhoIn, v)
		if !r.OK {
			return nil, chk.Err("segment %q: orifice is not computable with the current data", p.ID)
		}
		res.ComponentDrop = r.Drop
		p.Orifice.Beta, p.Orifice.Drop = r.Beta, r.Drop
		return nil, nil

	case inp.SectionControlValve:
		if p.Valve == nil {
			return nil, chk.Err("segment %q: control-valve section has no valve record", p.ID)
		}
		sp := &valve.Spec{InputMode: p.Valve.InputMode, Cv: p.Valve.Cv, Drop: p.Valve.Drop, XT: p.Valve.XT}
		var r valve.Result
		if fl.Gas {
			rhoStd := stdPressure * fl.M / (hyd.RGas * stdTemperature)
			qstd := mdot / rhoStd * 3600.0
			r = valve.SizeGas(sp, p.BoundaryPressure, p.BoundaryTemperature, qstd, fl.SG(), fl.Gamma, fl.Z)
		} else {
			q := mdot / rhoIn * 3600.0
			r = valve.SizeLiquid(sp, q, fl.SG())
		}
		if !r.OK {
			return nil, chk.Err("segment %q: control valve is not computable with the current data", p.ID)
		}
		res.ComponentDrop = r.Drop
		res.Choked = res.Choked || r.Choked
		p.Valve.Cv, p.Valve.Drop = r.Cv, r.Drop

		// gas expansion across the valve gives the outlet state
		if fl.Gas && r.Drop < p.BoundaryPressure {
			_, st, err := gas.SolveAdiabaticExpansion(p.BoundaryPressure, p.BoundaryPressure-r.Drop,
				p.BoundaryTemperature, mdot, p.Diameter, fl.M, fl.Z, fl.Gamma)
			if err != nil {
				return nil, err
			}
			return st, nil
		}
		return nil, nil
	}
	return nil, nil
}

// gasFrictionDrop runs the compressible solver over the combined loss
// coefficient and splits the resulting drop between the fitting and
// friction contributions by K share
func gasFrictionDrop(p *inp.Pipe, fl *fluid.Model, res *inp.Results, mdot, totalK float64, prev *gas.State) (*gas.State, error) {
	if totalK <= 0 {
		return prev, nil
	}
	pStart := p.BoundaryPressure - res.ComponentDrop
	tStart := p.BoundaryTemperature
	if prev != nil {
		pStart, tStart = prev.P, prev.T
	}
	if pStart <= 0 {
		return nil, chk.Err("segment %q: component drop exhausts the inlet pressure", p.ID)
	}
	var st *gas.State
	var err error
	if p.FlowModel == inp.ModelIsothermal {
		_, st, err = gas.SolveIsothermal(pStart, tStart, mdot, p.Diameter, totalK, fl.M, fl.Z, false)
	} else {
		_, st, err = gas.SolveAdiabatic(pStart, tStart, mdot, p.Diameter, totalK, fl.M, fl.Z, fl.Gamma, false)
	}
	if err != nil {
		return nil, err
	}
	drop := pStart - st.P
	res.FittingDrop = drop * res.FittingK / totalK
	res.FrictionDrop = drop * (res.PipeK + res.ExtraK) / totalK
	res.CriticalP = st.Pcrit
	res.Choked = res.Choked || st.Choked
	return st, nil
}

// summarise builds the inlet/outlet end states
func summarise(p *inp.Pipe, fl *fluid.Model, mdot, pIn, tIn, rhoIn, vIn float64, res *inp.Results, gasOut *gas.State) *inp.Summary {
	s := new(inp.Summary)
	s.In = endState(fl, pIn, tIn, rhoIn, vIn, mdot, p.Diameter)
	pOut := pIn - res.TotalDrop
	tOut := tIn
	rhoOut := rhoIn
	vOut := vIn
	if gasOut != nil {
		tOut = gasOut.T
		rhoOut = gasOut.R
		vOut = gasOut.V
	} else if fl.Gas && pOut > 0 {
		rhoOut = fl.Density(pOut, tOut)
		vOut = hyd.Velocity(mdot, rhoOut, p.Diameter)
	}
	s.Out = endState(fl, pOut, tOut, rhoOut, vOut, mdot, p.Diameter)
	return s
}

// endState fills one end of the summary
func endState(fl *fluid.Model, pr, t, rho, v, mdot, d float64) inp.EndState {
	mach := 0.0
	if fl.Gas {
		if a := hyd.SoundSpeed(fl.Gamma, fl.Z, t, fl.M); a > 0 {
			mach = v / a
		}
	}
	return inp.EndState{
		Pressure:    pr,
		Temperature: t,
		Density:     rho,
		Velocity:    v,
		Mach:        mach,
		Erosional:   hyd.ErosionalVelocity(rho),
		Momentum:    rho * v * v,
	}
}

// fittingItems maps the input fitting list onto the loss-model items
func fittingItems(fts []inp.Fitting) []fitting.Item {
	items := make([]fitting.Item, len(fts))
	for i, ft := range fts {
		items[i] = fitting.Item{Type: ft.Type, Style: ft.Style, Count: ft.Count}
	}
	return items
}
