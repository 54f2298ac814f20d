// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package net implements the pressure propagation engine: a breadth-first
// traversal of the pipe/node graph from a chosen boundary node. Each edge
// copies the upstream state onto the pipe, infers missing pipe lengths or
// component drops against a known downstream pressure, recalculates the
// segment and carries its outlet state onto the downstream node. Data
// quality problems never abort the run: the affected edge is skipped and a
// human-readable warning is recorded, so an under-specified network still
// solves as far as it can.
package net

import (
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/may3rd/process-engineering-suite-sub004/inp"
	"github.com/may3rd/process-engineering-suite-sub004/roots"
	"github.com/may3rd/process-engineering-suite-sub004/seg"
	"github.com/may3rd/process-engineering-suite-sub004/units"
)

// RecalcFn recalculates one segment from its boundary conditions. The
// default wraps the local aggregator; callers may inject a remote or
// batched implementation.
type RecalcFn func(*inp.Pipe) (*inp.Pipe, error)

// Settings holds the engine's empirical tolerances. The zero value yields
// the documented defaults; they are exposed here because their correctness
// depends on the pressure scale in use.
type Settings struct {
	ResizeTol   float64 // [Pa] component re-size threshold (default 100)
	LengthTol   float64 // [Pa] gas length-search convergence (default 1)
	SeedLo      float64 // [m] first secant trial length (default 5)
	SeedHi      float64 // [m] second secant trial length (default 100)
	MaxLenIters int     // secant iteration cap (default 20)
	Verbose     bool    // print traversal progress
}

// withDefaults fills unset fields with the source defaults
func (o Settings) withDefaults() Settings {
	if o.ResizeTol == 0 {
		o.ResizeTol = 100.0
	}
	if o.LengthTol == 0 {
		o.LengthTol = 1.0
	}
	if o.SeedLo == 0 {
		o.SeedLo = 5.0
	}
	if o.SeedHi == 0 {
		o.SeedHi = 100.0
	}
	if o.MaxLenIters == 0 {
		o.MaxLenIters = 20
	}
	return o
}

// Outcome holds a propagation result: the nodes reached (with updated
// pressures/temperatures), the pipes actually recalculated, and the ordered
// warnings. An empty Warnings slice means full propagation succeeded.
type Outcome struct {
	Nodes    map[string]*inp.Node
	Pipes    map[string]*inp.Pipe
	Warnings []string
}

// DefaultRecalc returns the local segment aggregator bound to a network's
// fluid definitions (node overrides respected)
func DefaultRecalc(nw *inp.Network) RecalcFn {
	return func(p *inp.Pipe) (*inp.Pipe, error) {
		fl, err := seg.FluidModel(nw.NodeFluid(p.UpNode()))
		if err != nil {
			return nil, err
		}
		return seg.Recalc(p, &seg.Context{Fluid: fl})
	}
}

// Propagate runs a breadth-first pressure propagation from startID. The
// input network is never mutated: nodes are deep-copied before any update.
// Pass fn=nil for the local aggregator and s=nil for default settings.
func Propagate(startID string, nw *inp.Network, fn RecalcFn, s *Settings) *Outcome {
	var set Settings
	if s != nil {
		set = *s
	}
	set = set.withDefaults()
	if fn == nil {
		fn = DefaultRecalc(nw)
	}

	out := &Outcome{Nodes: make(map[string]*inp.Node), Pipes: make(map[string]*inp.Pipe)}
	all := nw.CloneNodes()

	start, ok := all[startID]
	if !ok {
		out.warn("start node %q does not exist", startID)
		return out
	}
	if pa := nodePressurePa(start); math.IsNaN(pa) {
		out.warn("start node %q has no defined pressure; nothing to propagate", startID)
		return out
	}
	out.Nodes[startID] = start

	queue := []string{startID}
	visited := map[string]bool{startID: true}

	for len(queue) > 0 {
		curID := queue[0]
		queue = queue[1:]
		cur := all[curID]

		pCur := nodePressurePa(cur)
		if math.IsNaN(pCur) {
			out.warn("node %q has no defined pressure; propagation halts there", curID)
			continue
		}
		tCur := nodeTemperatureK(cur)
		if set.Verbose {
			io.Pforan("node %q: P = %g Pa\n", curID, pCur)
		}

		for _, pipe := range nw.Pipes {
			if pipe.UpNode() != curID {
				continue
			}
			work := pipe.Clone()
			work.BoundaryPressure = pCur
			work.BoundaryTemperature = tCur

			downID := work.DownNode()
			down, okDown := all[downID]
			if !okDown {
				out.warn("pipe %q references unknown node %q", work.ID, downID)
				continue
			}
			pDown := nodePressurePa(down)
			gasPhase := nw.NodeFluid(curID) != nil && nw.NodeFluid(curID).Phase == "gas"

			// close the segment: infer missing length or re-size the component
			if work.Length <= 0 && !work.IsComponent() {
				if math.IsNaN(pDown) {
					out.warn("pipe %q has no length and node %q has no pressure; cannot close the segment", work.ID, downID)
					continue
				}
				if !out.inferLength(work, fn, pCur, pDown, gasPhase, set) {
					continue
				}
			}
			if work.IsComponent() && !math.IsNaN(pDown) {
				if !out.resizeComponent(work, pCur, pDown, set) {
					continue
				}
			}

			// recalculate the segment hydraulics
			solved, err := fn(work)
			if err != nil {
				out.warn("pipe %q: %v", work.ID, err)
				continue
			}
			drop := solved.Results.TotalDrop
			if drop >= pCur {
				// a clamp to zero would hide a physically invalid edge
				out.warn("pipe %q: pressure drop %g Pa exceeds the available pressure %g Pa; edge skipped", work.ID, drop, pCur)
				continue
			}
			out.Pipes[solved.ID] = solved

			// carry the outlet state onto the downstream node
			setNodePressure(down, pCur-drop)
			if solved.Summary != nil && solved.Summary.Out.Temperature > 0 {
				setNodeTemperature(down, solved.Summary.Out.Temperature)
			} else {
				setNodeTemperature(down, tCur) // isothermal assumption
			}
			out.Nodes[downID] = down

			if !visited[downID] {
				visited[downID] = true
				queue = append(queue, downID)
			}
		}
	}
	return out
}

// inferLength back-solves the pipe length that reproduces the known
// downstream pressure. Liquid uses two single-shot probes (a 1 m
// friction-only probe for the per-metre gradient, a zero-length probe for
// the fixed losses) combined linearly; gas needs a secant search because
// the compressible gradient depends on the local pressure. Returns false
// (with a warning) when the length cannot be determined.
func (o *Outcome) inferLength(work *inp.Pipe, fn RecalcFn, pCur, pDown float64, gasPhase bool, set Settings) bool {
	needed := pCur - pDown
	if needed <= 0 {
		o.warn("pipe %q: downstream pressure %g Pa is not below upstream %g Pa; impossible flow direction", work.ID, pDown, pCur)
		return false
	}

	if !gasPhase {
		fixed := work.Clone()
		fixed.Length = 0
		solvedFixed, err := fn(fixed)
		if err != nil {
			o.warn("pipe %q: length probe failed: %v", work.ID, err)
			return false
		}
		probe := work.Clone()
		probe.Length = 1
		probe.Fittings = nil
		probe.Elevation = 0
		probe.FixedDrop = 0
		probe.ExtraK = 0
		probe.InletDiameter = 0
		probe.OutletDiameter = 0
		solvedProbe, err := fn(probe)
		if err != nil {
			o.warn("pipe %q: length probe failed: %v", work.ID, err)
			return false
		}
		perMetre := solvedProbe.Results.TotalDrop
		fixedDrop := solvedFixed.Results.TotalDrop
		if perMetre <= 0 {
			o.warn("pipe %q: friction gradient is zero; length cannot be inferred", work.ID)
			return false
		}
		length := (needed - fixedDrop) / perMetre
		if length <= 0 {
			o.warn("pipe %q: fixed losses alone exceed the target drop; length cannot be inferred", work.ID)
			return false
		}
		work.Length = length
		return true
	}

	// gas: iterative search over trial lengths
	var probeErr error
	res := roots.Secant(func(length float64) float64 {
		trial := work.Clone()
		trial.Length = length
		solved, err := fn(trial)
		if err != nil {
			probeErr = err
			return 1e12
		}
		return (pCur - solved.Results.TotalDrop) - pDown
	}, set.SeedLo, set.SeedHi, 0, set.MaxLenIters, set.LengthTol)
	if probeErr != nil {
		o.warn("pipe %q: length probe failed: %v", work.ID, probeErr)
		return false
	}
	if !res.Converged {
		o.warn("pipe %q: length estimate did not converge (residual %g Pa after %d iterations)", work.ID, res.Residual, res.Iters)
		return false
	}
	work.Length = res.X
	return true
}

// resizeComponent back-calculates the drop a control valve or orifice must
// take to meet the known downstream pressure and forces the sub-record into
// pressure-drop-driven mode. Re-sizing is skipped when the discrepancy from
// the current setting is within the tolerance, avoiding needless churn.
func (o *Outcome) resizeComponent(work *inp.Pipe, pCur, pDown float64, set Settings) bool {
	needed := pCur - pDown
	if needed <= 0 {
		o.warn("pipe %q: downstream pressure %g Pa is not below upstream %g Pa; impossible flow direction", work.ID, pDown, pCur)
		return false
	}
	switch work.SectionType {
	case inp.SectionControlValve:
		if work.Valve == nil {
			o.warn("pipe %q: control-valve section has no valve record", work.ID)
			return false
		}
		if work.Valve.InputMode != inp.ModePressureDrop || math.Abs(work.Valve.Drop-needed) > set.ResizeTol {
			work.Valve.InputMode = inp.ModePressureDrop
			work.Valve.Drop = needed
		}
	case inp.SectionOrifice:
		if work.Orifice == nil {
			o.warn("pipe %q: orifice section has no orifice record", work.ID)
			return false
		}
		if work.Orifice.InputMode != inp.ModePressureDrop || math.Abs(work.Orifice.Drop-needed) > set.ResizeTol {
			work.Orifice.InputMode = inp.ModePressureDrop
			work.Orifice.Drop = needed
		}
	}
	return true
}

// warn appends one formatted warning
func (o *Outcome) warn(msg string, prm ...interface{}) {
	o.Warnings = append(o.Warnings, io.Sf(msg, prm...))
}

// nodePressurePa returns a node's pressure in Pa, or NaN when undefined.
// A node without a unit is taken as Pa already.
func nodePressurePa(n *inp.Node) float64 {
	if n == nil || n.Pressure == nil {
		return math.NaN()
	}
	if n.PressureUnit == "" {
		return *n.Pressure
	}
	return units.Convert(*n.Pressure, n.PressureUnit, "Pa")
}

// nodeTemperatureK returns a node's temperature in K (0 when undefined)
func nodeTemperatureK(n *inp.Node) float64 {
	if n == nil || n.Temperature == nil {
		return 0
	}
	if n.TemperatureUnit == "" {
		return *n.Temperature
	}
	return units.Convert(*n.Temperature, n.TemperatureUnit, "K")
}

// setNodePressure writes a pressure [Pa] back in the node's own unit
func setNodePressure(n *inp.Node, pa float64) {
	v := pa
	if n.PressureUnit != "" {
		v = units.Convert(pa, "Pa", n.PressureUnit)
	}
	n.Pressure = &v
}

// setNodeTemperature writes a temperature [K] back in the node's own unit
func setNodeTemperature(n *inp.Node, k float64) {
	v := k
	if n.TemperatureUnit != "" {
		v = units.Convert(k, "K", n.TemperatureUnit)
	}
	n.Temperature = &v
}
