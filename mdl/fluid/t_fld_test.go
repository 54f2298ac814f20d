// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

func Test_fld01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fld01. liquid example parameters")

	var mdl Model
	err := mdl.Init(mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("cannot initialise model:\n%v\n", err)
		return
	}
	chk.Scalar(tst, "R0", 1e-15, mdl.R0, 998.0)
	chk.Scalar(tst, "mu", 1e-15, mdl.Mu, 1e-3)
	if mdl.Gas {
		tst.Errorf("example liquid flagged as gas\n")
		return
	}

	// liquid density is state independent
	chk.Scalar(tst, "rho @ 1 atm", 1e-15, mdl.Density(101325, 288.15), 998.0)
	chk.Scalar(tst, "rho @ 10 bar", 1e-15, mdl.Density(1e6, 350), 998.0)
	chk.Scalar(tst, "SG", 1e-15, mdl.SG(), 0.998)

	// molar quantities are meaningless for a liquid and must be cleared
	chk.Scalar(tst, "M cleared", 1e-15, mdl.M, 0)
	chk.Scalar(tst, "Z cleared", 1e-15, mdl.Z, 0)
}

func Test_fld02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fld02. gas example parameters")

	mdl := Model{Gas: true}
	err := mdl.Init(mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("cannot initialise model:\n%v\n", err)
		return
	}
	chk.Scalar(tst, "M", 1e-15, mdl.M, 0.028964)
	chk.Scalar(tst, "gam", 1e-15, mdl.Gamma, 1.4)

	// ideal gas at standard conditions
	chk.Scalar(tst, "rho @ std", 1e-4, mdl.Density(101325, 288.15), 1.2250)

	// unknown state falls back to the reference density
	chk.Scalar(tst, "rho fallback", 1e-15, mdl.Density(0, 0), 1.225)

	// specific gravity of air is one by definition
	chk.Scalar(tst, "SG", 1e-15, mdl.SG(), 1.0)
}

func Test_fld03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fld03. parameter validation")

	var mdl Model
	err := mdl.Init(dbf.Params{&dbf.P{N: "wrongname", V: 1}})
	if err == nil {
		tst.Errorf("unknown parameter name must be rejected\n")
		return
	}

	err = mdl.Init(dbf.Params{
		&dbf.P{N: "R0", V: 998},
		&dbf.P{N: "mu", V: -1},
	})
	if err == nil {
		tst.Errorf("non-positive viscosity must be rejected\n")
		return
	}

	err = mdl.Init(dbf.Params{
		&dbf.P{N: "gas", V: 1},
		&dbf.P{N: "R0", V: 1.2},
		&dbf.P{N: "mu", V: 1.8e-5},
		&dbf.P{N: "M", V: 0.029},
		&dbf.P{N: "gam", V: 1.0},
	})
	if err == nil {
		tst.Errorf("heat ratio not exceeding one must be rejected\n")
	}
}
