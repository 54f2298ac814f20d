// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/may3rd/process-engineering-suite-sub004/inp"
	"github.com/may3rd/process-engineering-suite-sub004/net"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "network", ".json", true)
	startID := io.ArgToString(1, "")
	verbose := io.ArgToBool(2, true)

	// message
	if verbose {
		io.PfWhite("\nPesuite -- steady-state hydraulic network solver\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"network file path", "fnamepath", fnamepath,
			"start node id", "startID", startID,
			"show messages", "verbose", verbose,
		))
	}

	// read network
	nw, err := inp.ReadNetwork("", fnamepath)
	if err != nil {
		chk.Panic("cannot read network:\n%v", err)
	}
	for _, w := range nw.Validate() {
		io.Pfyel("input: %s\n", w)
	}
	if startID == "" && len(nw.Nodes) > 0 {
		startID = nw.Nodes[0].ID
	}

	// propagate
	res := net.Propagate(startID, nw, nil, &net.Settings{Verbose: verbose})

	// report
	io.Pf("\n%-12s%-14s%-14s\n", "node", "P", "T")
	for _, n := range nw.Nodes {
		u, ok := res.Nodes[n.ID]
		if !ok {
			io.Pf("%-12s%-14s%-14s\n", n.ID, "-", "-")
			continue
		}
		p, t := "-", "-"
		if u.Pressure != nil {
			p = io.Sf("%.6g %s", *u.Pressure, u.PressureUnit)
		}
		if u.Temperature != nil {
			t = io.Sf("%.6g %s", *u.Temperature, u.TemperatureUnit)
		}
		io.Pf("%-12s%-14s%-14s\n", n.ID, p, t)
	}
	if len(res.Warnings) > 0 {
		io.Pf("\n")
		for _, w := range res.Warnings {
			io.Pfyel("warning: %s\n", w)
		}
	} else if verbose {
		io.Pf("\npropagation complete: no warnings\n")
	}
}
