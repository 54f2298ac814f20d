// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data model of a hydraulic network: fluid,
// nodes, pipe segments and their embedded control-valve/orifice sub-records,
// read from a JSON file. All values are plain data; a propagation run clones
// what it mutates and leaves the input untouched.
package inp

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/may3rd/process-engineering-suite-sub004/units"
)

// pipe section types
const (
	SectionPipe         = "pipe"
	SectionControlValve = "control valve"
	SectionOrifice      = "orifice"
)

// pipe directions
const (
	DirForward  = "forward"
	DirBackward = "backward"
)

// gas flow models
const (
	ModelAdiabatic  = "adiabatic"
	ModelIsothermal = "isothermal"
)

// component input modes
const (
	ModeFlowCoefficient = "flow_coefficient"
	ModeBetaRatio       = "beta_ratio"
	ModePressureDrop    = "pressure_drop"
)

// FluidSpec holds the fluid description as given in the input
type FluidSpec struct {
	Phase     string  `json:"phase"`                  // "liquid" or "gas"
	Density   float64 `json:"density"`                // [kg/m³]; gas may leave 0 to derive from Z
	Viscosity float64 `json:"viscosity"`              // [Pa・s]
	MolarMass float64 `json:"molecularWeight"`        // [kg/mol]
	Z         float64 `json:"compressibilityFactor"`  // [-]
	Gamma     float64 `json:"specificHeatRatio"`      // [-]
}

// Node is a pressure/temperature boundary point of the network. A nil
// pressure means "undefined": propagation halts along that branch with a
// warning instead of failing.
type Node struct {
	ID              string     `json:"id"`
	Label           string     `json:"label"`
	Pressure        *float64   `json:"pressure"`
	PressureUnit    string     `json:"pressureUnit"`
	Temperature     *float64   `json:"temperature"`
	TemperatureUnit string     `json:"temperatureUnit"`
	Fluid           *FluidSpec `json:"fluid,omitempty"` // overrides the network fluid
}

// Fitting is one {type, style, count} entry of a pipe's fitting list
type Fitting struct {
	Type  string `json:"type"`
	Style string `json:"style,omitempty"`
	Count int    `json:"count"`
}

// ControlValve is the embedded valve sizing sub-record. Exactly one of
// {Cv, Drop} drives the calculation, selected by InputMode.
type ControlValve struct {
	InputMode string  `json:"inputMode"` // "flow_coefficient" or "pressure_drop"
	Cv        float64 `json:"cv"`
	Drop      float64 `json:"pressureDrop"` // [Pa]
	XT        float64 `json:"xt,omitempty"` // gas pressure-drop ratio factor
}

// Orifice is the embedded orifice sizing sub-record. Exactly one of
// {Beta, Drop} drives the calculation, selected by InputMode.
type Orifice struct {
	InputMode string  `json:"inputMode"` // "beta_ratio" or "pressure_drop"
	Beta      float64 `json:"betaRatio"`
	Drop      float64 `json:"pressureDrop"` // [Pa]
}

// FittingK is one row of the per-fitting loss breakdown
type FittingK struct {
	Type   string  `json:"type"`
	Style  string  `json:"style,omitempty"`
	Count  int     `json:"count"`
	KEach  float64 `json:"kEach"`
	KTotal float64 `json:"kTotal"`
}

// Results holds the pressure-drop calculation breakdown of a pipe
type Results struct {
	Re             float64    `json:"reynolds"`
	FrictionFactor float64    `json:"frictionFactor"`
	Regime         string     `json:"flowRegime"`
	FittingK       float64    `json:"fittingK"`
	PipeK          float64    `json:"pipeK"`
	ExtraK         float64    `json:"extraK"`
	TotalK         float64    `json:"totalK"`
	Breakdown      []FittingK `json:"breakdown,omitempty"`
	FittingDrop    float64    `json:"fittingPressureDrop"`   // [Pa]
	FrictionDrop   float64    `json:"frictionPressureDrop"`  // [Pa]
	ElevationDrop  float64    `json:"elevationPressureDrop"` // [Pa]
	FixedDrop      float64    `json:"fixedPressureDrop"`     // [Pa]
	ComponentDrop  float64    `json:"componentPressureDrop"` // [Pa] valve/orifice
	TotalDrop      float64    `json:"totalPressureDrop"`     // [Pa]
	CriticalP      float64    `json:"criticalPressure"`      // [Pa]; 0 for liquid
	Choked         bool       `json:"isChoked"`
}

// EndState is the thermodynamic state at one end of a pipe
type EndState struct {
	Pressure    float64 `json:"pressure"`    // [Pa]
	Temperature float64 `json:"temperature"` // [K]
	Density     float64 `json:"density"`     // [kg/m³]
	Velocity    float64 `json:"velocity"`    // [m/s]
	Mach        float64 `json:"mach"`
	Erosional   float64 `json:"erosionalVelocity"` // [m/s]
	Momentum    float64 `json:"flowMomentum"`      // ρv² [Pa]
}

// Summary holds the inlet/outlet states of a pipe after recalculation
type Summary struct {
	In  EndState `json:"inlet"`
	Out EndState `json:"outlet"`
}

// Pipe is one segment of the network. Geometry is SI; boundary conditions
// are copied from the upstream node at solve time.
type Pipe struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	From      string `json:"startNode"`
	To        string `json:"endNode"`
	Direction string `json:"direction,omitempty"` // forward (default) or backward

	// geometry
	Length         float64 `json:"length"`   // [m]; 0 means unknown (inferred by propagation)
	Diameter       float64 `json:"diameter"` // [m]
	InletDiameter  float64 `json:"inletDiameter,omitempty"`
	OutletDiameter float64 `json:"outletDiameter,omitempty"`
	Roughness      float64 `json:"roughness"` // [m]
	Elevation      float64 `json:"elevation"` // outlet minus inlet [m]

	// boundary conditions (set by the engine)
	BoundaryPressure    float64 `json:"boundaryPressure,omitempty"`    // [Pa]
	BoundaryTemperature float64 `json:"boundaryTemperature,omitempty"` // [K]

	// contents
	SectionType string        `json:"pipeSectionType,omitempty"` // pipe (default), control valve, orifice
	FlowModel   string        `json:"flowModel,omitempty"`       // adiabatic (default) or isothermal, gas only
	Fittings    []Fitting     `json:"fittings,omitempty"`
	Valve       *ControlValve `json:"controlValve,omitempty"`
	Orifice     *Orifice      `json:"orifice,omitempty"`

	// flow specification
	MassFlow     float64 `json:"massFlowRate"`           // [kg/s]
	DesignMargin float64 `json:"designMargin,omitempty"` // [%], applied on top of MassFlow

	// user adjustments
	ExtraK       float64 `json:"additionalK,omitempty"`
	FixedDrop    float64 `json:"userPressureDrop,omitempty"` // [Pa]
	SafetyFactor float64 `json:"safetyFactor,omitempty"`     // [%] on the summed K

	// derived
	Results *Results `json:"pressureDropCalculationResults,omitempty"`
	Summary *Summary `json:"resultSummary,omitempty"`
}

// Network is the full input: nodes, pipes and the default fluid
type Network struct {
	Fluid *FluidSpec `json:"fluid"`
	Nodes []*Node    `json:"nodes"`
	Pipes []*Pipe    `json:"pipes"`
}

// FlowRate returns the mass flow with the design margin applied
func (o *Pipe) FlowRate() float64 {
	return o.MassFlow * (1.0 + o.DesignMargin/100.0)
}

// UpNode returns the id of the node feeding this pipe given its direction
func (o *Pipe) UpNode() string {
	if o.Direction == DirBackward {
		return o.To
	}
	return o.From
}

// DownNode returns the id of the node this pipe discharges into
func (o *Pipe) DownNode() string {
	if o.Direction == DirBackward {
		return o.From
	}
	return o.To
}

// IsComponent reports whether this pipe is a control-valve or orifice section
func (o *Pipe) IsComponent() bool {
	return o.SectionType == SectionControlValve || o.SectionType == SectionOrifice
}

// Clone returns a deep copy of a pipe
func (o *Pipe) Clone() *Pipe {
	c := *o
	if o.Fittings != nil {
		c.Fittings = append([]Fitting(nil), o.Fittings...)
	}
	if o.Valve != nil {
		v := *o.Valve
		c.Valve = &v
	}
	if o.Orifice != nil {
		r := *o.Orifice
		c.Orifice = &r
	}
	if o.Results != nil {
		r := *o.Results
		r.Breakdown = append([]FittingK(nil), o.Results.Breakdown...)
		c.Results = &r
	}
	if o.Summary != nil {
		s := *o.Summary
		c.Summary = &s
	}
	return &c
}

// Clone returns a deep copy of a node
func (o *Node) Clone() *Node {
	c := *o
	if o.Pressure != nil {
		p := *o.Pressure
		c.Pressure = &p
	}
	if o.Temperature != nil {
		t := *o.Temperature
		c.Temperature = &t
	}
	if o.Fluid != nil {
		f := *o.Fluid
		c.Fluid = &f
	}
	return &c
}

// GetNode returns a node by id
//  Note: returns nil if not found
func (o *Network) GetNode(id string) *Node {
	for _, n := range o.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// CloneNodes returns an owned id→node map deep-copied from the input
func (o *Network) CloneNodes() map[string]*Node {
	m := make(map[string]*Node, len(o.Nodes))
	for _, n := range o.Nodes {
		m[n.ID] = n.Clone()
	}
	return m
}

// NodeFluid returns the fluid in effect at a node: the node override when
// present, otherwise the network default
func (o *Network) NodeFluid(id string) *FluidSpec {
	if n := o.GetNode(id); n != nil && n.Fluid != nil {
		return n.Fluid
	}
	return o.Fluid
}

// ReadNetwork reads a network from a JSON file
func ReadNetwork(dir, fn string) (nw *Network, err error) {

	// read file
	b, err := io.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, err
	}

	// decode
	nw = new(Network)
	err = json.Unmarshal(b, nw)
	if err != nil {
		return nil, err
	}

	// defaults
	for _, p := range nw.Pipes {
		if p.Direction == "" {
			p.Direction = DirForward
		}
		if p.SectionType == "" {
			p.SectionType = SectionPipe
		}
		if p.FlowModel == "" {
			p.FlowModel = ModelAdiabatic
		}
	}
	return nw, nil
}

// Validate pre-flight checks the network and returns human-readable
// warnings: unknown unit names, dangling node references, non-positive
// geometry. An empty slice means the input is structurally sound. Warnings
// follow the engine's convention: the input is frequently under-specified
// mid-edit, so nothing here is a hard error.
func (o *Network) Validate() (warnings []string) {
	if o.Fluid == nil {
		warnings = append(warnings, "network has no fluid definition")
	}
	ids := make(map[string]bool, len(o.Nodes))
	for _, n := range o.Nodes {
		if ids[n.ID] {
			warnings = append(warnings, io.Sf("duplicate node id %q", n.ID))
		}
		ids[n.ID] = true
		if n.Pressure != nil && n.PressureUnit != "" {
			if _, err := units.ConvertStrict(*n.Pressure, n.PressureUnit, "Pa"); err != nil {
				warnings = append(warnings, io.Sf("node %q: %v", n.ID, err))
			}
		}
		if n.Temperature != nil && n.TemperatureUnit != "" {
			if _, err := units.ConvertStrict(*n.Temperature, n.TemperatureUnit, "K"); err != nil {
				warnings = append(warnings, io.Sf("node %q: %v", n.ID, err))
			}
		}
	}
	for _, p := range o.Pipes {
		if !ids[p.From] {
			warnings = append(warnings, io.Sf("pipe %q references unknown start node %q", p.ID, p.From))
		}
		if !ids[p.To] {
			warnings = append(warnings, io.Sf("pipe %q references unknown end node %q", p.ID, p.To))
		}
		if p.Diameter <= 0 {
			warnings = append(warnings, io.Sf("pipe %q has non-positive diameter %g", p.ID, p.Diameter))
		}
		if p.Length < 0 {
			warnings = append(warnings, io.Sf("pipe %q has negative length %g", p.ID, p.Length))
		}
		if p.MassFlow < 0 {
			warnings = append(warnings, io.Sf("pipe %q has negative mass flow %g", p.ID, p.MassFlow))
		}
	}
	return
}

// CheckPhase validates a fluid spec's phase tag
func (o *FluidSpec) CheckPhase() error {
	switch o.Phase {
	case "liquid", "gas":
		return nil
	}
	return chk.Err("fluid phase %q is incorrect; options are \"liquid\" and \"gas\"", o.Phase)
}
