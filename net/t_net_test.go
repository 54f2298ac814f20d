// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package net

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/may3rd/process-engineering-suite-sub004/inp"
)

// water through 100 m of smooth 100 mm line at 10 kg/s drops 13972 Pa
const waterDrop = 13972.0

func fptr(v float64) *float64 { return &v }

func waterNet(pipes ...*inp.Pipe) *inp.Network {
	return &inp.Network{
		Fluid: &inp.FluidSpec{Phase: "liquid", Density: 1000, Viscosity: 1e-3},
		Nodes: []*inp.Node{
			{ID: "n1", Pressure: fptr(5e5), PressureUnit: "Pa"},
			{ID: "n2"},
			{ID: "n3"},
		},
		Pipes: pipes,
	}
}

func waterPipe(id, from, to string) *inp.Pipe {
	return &inp.Pipe{
		ID: id, From: from, To: to, Direction: inp.DirForward,
		SectionType: inp.SectionPipe, FlowModel: inp.ModelAdiabatic,
		Length: 100, Diameter: 0.1, MassFlow: 10,
	}
}

func Test_prop01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prop01. two-hop liquid chain")

	nw := waterNet(waterPipe("p1", "n1", "n2"), waterPipe("p2", "n2", "n3"))
	out := Propagate("n1", nw, nil, nil)
	if len(out.Warnings) != 0 {
		tst.Errorf("unexpected warnings: %v\n", out.Warnings)
		return
	}
	chk.IntAssert(len(out.Nodes), 3)
	chk.IntAssert(len(out.Pipes), 2)
	chk.Scalar(tst, "n2 pressure", 50.0, *out.Nodes["n2"].Pressure, 5e5-waterDrop)
	chk.Scalar(tst, "n3 pressure", 100.0, *out.Nodes["n3"].Pressure, 5e5-2*waterDrop)

	// the input network is never mutated
	if nw.GetNode("n2").Pressure != nil {
		tst.Errorf("input node was mutated\n")
		return
	}
	if nw.Pipes[0].Results != nil {
		tst.Errorf("input pipe was mutated\n")
		return
	}

	// a second run reproduces the first
	again := Propagate("n1", nw, nil, nil)
	chk.Scalar(tst, "idempotent", 1e-12, *again.Nodes["n3"].Pressure, *out.Nodes["n3"].Pressure)
}

func Test_prop02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prop02. units and orientation")

	// the start pressure is given in bar(a) and written back in bar(a)
	nw := waterNet(waterPipe("p1", "n1", "n2"))
	nw.Nodes[0].Pressure = fptr(5.0)
	nw.Nodes[0].PressureUnit = "bara"
	nw.Nodes[1].PressureUnit = "bara"
	out := Propagate("n1", nw, nil, nil)
	if len(out.Warnings) != 0 {
		tst.Errorf("unexpected warnings: %v\n", out.Warnings)
		return
	}
	chk.Scalar(tst, "n2 in bara", 1e-3, *out.Nodes["n2"].Pressure, (5e5-waterDrop)*1e-5)

	// a backward pipe is traversed from its end node
	nw = waterNet(waterPipe("p1", "n2", "n1"))
	nw.Pipes[0].Direction = inp.DirBackward
	out = Propagate("n1", nw, nil, nil)
	if len(out.Warnings) != 0 {
		tst.Errorf("unexpected warnings: %v\n", out.Warnings)
		return
	}
	if out.Nodes["n2"] == nil || out.Nodes["n2"].Pressure == nil {
		tst.Errorf("backward pipe was not traversed\n")
		return
	}
	chk.Scalar(tst, "backward n2", 50.0, *out.Nodes["n2"].Pressure, 5e5-waterDrop)
}

func Test_prop03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prop03. under-specified starts")

	nw := waterNet(waterPipe("p1", "n1", "n2"))

	out := Propagate("nx", nw, nil, nil)
	chk.IntAssert(len(out.Nodes), 0)
	chk.IntAssert(len(out.Warnings), 1)

	nw.Nodes[0].Pressure = nil
	out = Propagate("n1", nw, nil, nil)
	chk.IntAssert(len(out.Nodes), 0)
	chk.IntAssert(len(out.Warnings), 1)
}

func Test_prop04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prop04. liquid length inference")

	// length unknown; the downstream pressure pins it down: the smooth-line
	// friction gradient is 139.72 Pa/m, so 50 kPa buys 357.9 m
	p := waterPipe("p1", "n1", "n2")
	p.Length = 0
	nw := waterNet(p)
	nw.Nodes[1].Pressure = fptr(4.5e5)
	nw.Nodes[1].PressureUnit = "Pa"
	out := Propagate("n1", nw, nil, nil)
	if len(out.Warnings) != 0 {
		tst.Errorf("unexpected warnings: %v\n", out.Warnings)
		return
	}
	chk.Scalar(tst, "inferred length", 0.5, out.Pipes["p1"].Length, 357.9)
	chk.Scalar(tst, "closed at target", 5.0, *out.Nodes["n2"].Pressure, 4.5e5)

	// without either length or downstream pressure the edge is skipped
	nw.Nodes[1].Pressure = nil
	out = Propagate("n1", nw, nil, nil)
	chk.IntAssert(len(out.Pipes), 0)
	chk.IntAssert(len(out.Warnings), 1)
}

func Test_prop05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prop05. gas length inference")

	// air at 10 bar, 300 K, 1 kg/s in a 50 mm line; 863653 Pa downstream
	// corresponds to 50 m of smooth pipe under the isothermal model
	nw := &inp.Network{
		Fluid: &inp.FluidSpec{Phase: "gas", Viscosity: 1.81e-5, MolarMass: 0.028964, Gamma: 1.4},
		Nodes: []*inp.Node{
			{ID: "n1", Pressure: fptr(10e5), PressureUnit: "Pa", Temperature: fptr(300.0), TemperatureUnit: "K"},
			{ID: "n2", Pressure: fptr(863653.0), PressureUnit: "Pa"},
		},
		Pipes: []*inp.Pipe{{
			ID: "p1", From: "n1", To: "n2", Direction: inp.DirForward,
			SectionType: inp.SectionPipe, FlowModel: inp.ModelIsothermal,
			Diameter: 0.05, MassFlow: 1,
		}},
	}
	out := Propagate("n1", nw, nil, nil)
	if len(out.Warnings) != 0 {
		tst.Errorf("unexpected warnings: %v\n", out.Warnings)
		return
	}
	chk.Scalar(tst, "inferred length", 0.5, out.Pipes["p1"].Length, 50.0)

	// the segment closes on the downstream boundary
	if math.Abs(*out.Nodes["n2"].Pressure-863653.0) > 100 {
		tst.Errorf("segment did not close: n2 = %g\n", *out.Nodes["n2"].Pressure)
	}
}

func Test_prop06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prop06. component re-sizing")

	// a valve between two pinned nodes is re-sized to take the 1 bar gap
	nw := waterNet(&inp.Pipe{
		ID: "cv1", From: "n1", To: "n2", Direction: inp.DirForward,
		SectionType: inp.SectionControlValve, FlowModel: inp.ModelAdiabatic,
		Diameter: 0.1, MassFlow: 10,
		Valve: &inp.ControlValve{InputMode: inp.ModeFlowCoefficient, Cv: 55},
	})
	nw.Nodes[1].Pressure = fptr(4e5)
	nw.Nodes[1].PressureUnit = "Pa"
	out := Propagate("n1", nw, nil, nil)
	if len(out.Warnings) != 0 {
		tst.Errorf("unexpected warnings: %v\n", out.Warnings)
		return
	}
	v := out.Pipes["cv1"].Valve
	chk.String(tst, v.InputMode, inp.ModePressureDrop)
	chk.Scalar(tst, "re-sized drop", 1e-9, v.Drop, 1e5)
	chk.Scalar(tst, "re-sized Cv", 1e-3, v.Cv, 41.616)
	chk.Scalar(tst, "n2 held", 1e-9, *out.Nodes["n2"].Pressure, 4e5)

	// the input record keeps its original mode
	chk.String(tst, nw.Pipes[0].Valve.InputMode, inp.ModeFlowCoefficient)
}

func Test_prop07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prop07. infeasible edges are skipped, not clamped")

	// 10 kPa upstream cannot supply a 14 kPa drop
	nw := waterNet(waterPipe("p1", "n1", "n2"))
	nw.Nodes[0].Pressure = fptr(10000.0)
	out := Propagate("n1", nw, nil, nil)
	chk.IntAssert(len(out.Warnings), 1)
	if out.Nodes["n2"] != nil {
		tst.Errorf("infeasible edge must not set the downstream node\n")
		return
	}
	chk.IntAssert(len(out.Pipes), 0)
}
