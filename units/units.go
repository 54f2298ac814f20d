// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package units implements conversion between engineering units. Each physical
// quantity (pressure, viscosity, density, mass flow rate, volumetric flow
// rate, pressure gradient, temperature) forms a family whose units are linear
// transforms onto an SI anchor:
//   anchor = value・num/den + shift
// Gauge pressure units carry a constant shift equal to the standard
// atmosphere so gauge↔absolute conversions are exact.
package units

import (
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Atmospheric is the standard atmosphere [Pa] used as the gauge offset
const Atmospheric = 101325.0

// transform maps a unit onto its family anchor: anchor = v・num/den + shift
type transform struct {
	num   float64
	den   float64
	shift float64
}

// family names
const (
	Pressure       = "pressure"
	Viscosity      = "viscosity"
	Density        = "density"
	MassFlow       = "massFlowRate"
	VolumetricFlow = "volumetricFlowRate"
	PressureGrad   = "pressureGradient"
	Temperature    = "temperature"
)

// registry holds family → unit → transform. Built once at init; read-only after.
var registry map[string]map[string]transform

// familyOf holds unit → family for reverse lookup
var familyOf map[string]string

// aliases normalises informal spellings before lookup
var aliases = map[string]string{
	"bar(a)":  "bara",
	"bar(g)":  "barg",
	"kgf/cm2": "kg/cm2",
	"cp":      "cP",
	"cps":     "cP",
	"pa":      "Pa",
	"kpa":     "kPa",
	"mpa":     "MPa",
	"degC":    "C",
	"deg C":   "C",
	"°C":      "C",
	"degF":    "F",
	"deg F":   "F",
	"°F":      "F",
	"l/s":     "L/s",
	"l/min":   "L/min",
	"GPM":     "gpm",
}

func init() {
	registry = map[string]map[string]transform{
		Pressure: {
			"Pa":      {1, 1, 0},
			"kPa":     {1e3, 1, 0},
			"kPaa":    {1e3, 1, 0},
			"kPag":    {1e3, 1, Atmospheric},
			"MPa":     {1e6, 1, 0},
			"bar":     {1e5, 1, 0},
			"bara":    {1e5, 1, 0},
			"barg":    {1e5, 1, Atmospheric},
			"mbar":    {1e2, 1, 0},
			"atm":     {101325, 1, 0},
			"mmHg":    {133.322387415, 1, 0},
			"psi":     {6894.757293168, 1, 0},
			"psia":    {6894.757293168, 1, 0},
			"psig":    {6894.757293168, 1, Atmospheric},
			"kg/cm2":  {98066.5, 1, 0},
			"kg/cm2g": {98066.5, 1, Atmospheric},
		},
		Viscosity: {
			"Pa.s":    {1, 1, 0},
			"mPa.s":   {1e-3, 1, 0},
			"cP":      {1e-3, 1, 0},
			"P":       {0.1, 1, 0},
			"lb/ft.s": {1.488163944, 1, 0},
		},
		Density: {
			"kg/m3":  {1, 1, 0},
			"g/cm3":  {1e3, 1, 0},
			"g/L":    {1, 1, 0},
			"lb/ft3": {16.018463374, 1, 0},
		},
		MassFlow: {
			"kg/s":   {1, 1, 0},
			"kg/min": {1, 60, 0},
			"kg/h":   {1, 3600, 0},
			"t/h":    {1000, 3600, 0},
			"lb/s":   {0.45359237, 1, 0},
			"lb/h":   {0.45359237, 3600, 0},
		},
		VolumetricFlow: {
			"m3/s":  {1, 1, 0},
			"m3/h":  {1, 3600, 0},
			"L/s":   {1e-3, 1, 0},
			"L/min": {1e-3, 60, 0},
			"gpm":   {3.785411784e-3, 60, 0},
			"ft3/h": {0.028316846592, 3600, 0},
		},
		PressureGrad: {
			"Pa/m":      {1, 1, 0},
			"kPa/m":     {1e3, 1, 0},
			"bar/km":    {1e5, 1e3, 0},
			"psi/100ft": {6894.757293168, 30.48, 0},
		},
		Temperature: {
			"K": {1, 1, 0},
			"C": {1, 1, 273.15},
			"F": {5, 9, 255.3722222222222},
			"R": {5, 9, 0},
		},
	}
	familyOf = make(map[string]string)
	for fam, tbl := range registry {
		for u := range tbl {
			familyOf[u] = fam
		}
	}
}

// normalise strips spaces and resolves informal aliases
func normalise(u string) string {
	u = strings.TrimSpace(u)
	if a, ok := aliases[u]; ok {
		return a
	}
	return u
}

// Known reports whether the unit name belongs to any family
func Known(u string) bool {
	_, ok := familyOf[normalise(u)]
	return ok
}

// Family returns the family a unit belongs to, or "" if unknown
func Family(u string) string {
	return familyOf[normalise(u)]
}

// Convert converts value from one unit to another within the same family.
// Unknown unit names and cross-family pairs degrade to a no-op: the value is
// returned unchanged. Callers needing hard validation must use ConvertStrict;
// this permissive fallback is kept for robustness against half-edited inputs.
func Convert(value float64, from, to string) float64 {
	v, err := ConvertStrict(value, from, to)
	if err != nil {
		return value
	}
	return v
}

// ConvertStrict converts value from one unit to another, failing on unknown
// unit names or units from different families.
func ConvertStrict(value float64, from, to string) (float64, error) {
	from, to = normalise(from), normalise(to)
	if from == to {
		return value, nil
	}
	famA, okA := familyOf[from]
	if !okA {
		return value, chk.Err("units: unknown unit %q", from)
	}
	famB, okB := familyOf[to]
	if !okB {
		return value, chk.Err("units: unknown unit %q", to)
	}
	if famA != famB {
		return value, chk.Err("units: cannot convert %q (%s) to %q (%s)", from, famA, to, famB)
	}
	a := registry[famA][from]
	b := registry[famB][to]
	anchor := value*a.num/a.den + a.shift
	return (anchor - b.shift) * b.den / b.num, nil
}
