// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

func Test_reynolds01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("reynolds01. mass-flow and velocity forms agree")

	// water, 10 kg/s through a 0.1 m line
	rho, mu, d, mdot := 1000.0, 1e-3, 0.1, 10.0
	v := Velocity(mdot, rho, d)
	chk.Scalar(tst, "v", 1e-10, v, 1.2732395447351628)

	re1, err := Reynolds(rho, mu, d, v)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	re2, err := ReynoldsFromMassFlow(mdot, mu, d)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Scalar(tst, "Re (velocity form)", 1e-6, re1, 127323.95447351628)
	chk.Scalar(tst, "Re (mass-flow form)", 1e-6, re2, re1)

	if _, err := Reynolds(rho, mu, d, 0); err == nil {
		tst.Errorf("zero velocity must be rejected\n")
	}
	if _, err := ReynoldsFromMassFlow(-1, mu, d); err == nil {
		tst.Errorf("negative mass flow must be rejected\n")
	}
}

func Test_friction01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("friction01. laminar and Shacham branches")

	f, err := FrictionFactor(1000, 0)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Scalar(tst, "laminar 64/Re", 1e-12, f, 0.064)

	// smooth pipe at the reference scenario Reynolds number
	f, err = FrictionFactor(127323.95447351628, 0)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Scalar(tst, "Shacham smooth", 1e-3, f, 0.0172)

	// rough pipe: commercial steel in a 0.1 m line
	f, err = FrictionFactor(1e5, 4.5e-4)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if f < 0.015 || f > 0.030 {
		tst.Errorf("rough-pipe friction factor out of range: %g\n", f)
	}

	if _, err := FrictionFactor(0, 0); err == nil {
		tst.Errorf("zero Reynolds number must be rejected\n")
	}
	if _, err := FrictionFactor(1e5, -0.1); err == nil {
		tst.Errorf("negative roughness must be rejected\n")
	}
}

func Test_friction02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("friction02. continuity near the laminar bound")

	// the two branches need not match at Re=2000 but must stay the same
	// order of magnitude
	fLam, err := FrictionFactor(1999.9, 0)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	fTur, err := FrictionFactor(2000.1, 0)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	ratio := fTur / fLam
	if ratio < 0.5 || ratio > 2.0 {
		tst.Errorf("branch mismatch at Re=2000: laminar=%g turbulent=%g\n", fLam, fTur)
	}

	// on a smooth pipe the friction factor falls monotonically with Re
	prev := math.Inf(1)
	for _, re := range utl.LinSpace(2100, 50000, 25) {
		f, err := FrictionFactor(re, 0)
		if err != nil {
			tst.Errorf("%v\n", err)
			return
		}
		if f >= prev {
			tst.Errorf("friction factor must fall with Re: f(%g)=%g prev=%g\n", re, f, prev)
			return
		}
		prev = f
	}
}

func Test_regime01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("regime01. classification bounds")

	chk.String(tst, Regime(1500), "laminar")
	chk.String(tst, Regime(3000), "transition")
	chk.String(tst, Regime(2000), "transition")
	chk.String(tst, Regime(4000), "transition")
	chk.String(tst, Regime(5000), "turbulent")
}

func Test_pipek01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pipek01. resistance coefficient and drop")

	chk.Scalar(tst, "K = fL/d", 1e-12, PipeK(0.02, 100, 0.1), 20.0)
	chk.Scalar(tst, "K clamps at L=0", 1e-15, PipeK(0.02, 0, 0.1), 0)
	chk.Scalar(tst, "K clamps at f=0", 1e-15, PipeK(0, 100, 0.1), 0)

	// ΔP = K ρ v²/2
	chk.Scalar(tst, "drop", 1e-10, PressureDropFromK(20.0, 1000.0, 1.2732395447351628), 16211.389382774044)
}

func Test_head01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("head01. head and pressure conversions")

	chk.Scalar(tst, "10 m of water", 1e-9, HeadToPressure(10, 1000, 0), 98066.5)
	chk.Scalar(tst, "round trip", 1e-12, PressureToHead(HeadToPressure(10, 1000, 0), 1000, 0), 10.0)
	chk.Scalar(tst, "explicit gravity", 1e-12, HeadToPressure(1, 1000, 10.0), 10000.0)
}

func Test_limits01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("limits01. erosional velocity and sound speed")

	chk.Scalar(tst, "erosional, water", 1e-9, ErosionalVelocity(1000.0), 3.8581563690892586)
	chk.Scalar(tst, "erosional clamps", 1e-15, ErosionalVelocity(0), 0)

	// dry air at 288.15 K
	chk.Scalar(tst, "sound speed", 0.1, SoundSpeed(1.4, 1.0, 288.15, MolarMassAir), 340.3)
	chk.Scalar(tst, "sound speed clamps", 1e-15, SoundSpeed(1.4, 1.0, -1, MolarMassAir), 0)
}
