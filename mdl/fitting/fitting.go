// Copyright 2025 The Pesuite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fitting implements pipe-fitting resistance coefficients by the
// two-K method of Hooper:
//   K = K1/Re + K∞・(1 + 1/D_inch)
// with dedicated correlations for entrances, exits and diameter changes
// (swages). Coefficients are referenced to the velocity head in the main
// pipe bore.
package fitting

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"

	"github.com/may3rd/process-engineering-suite-sub004/hyd"
)

// Coeff holds one (K1, K∞) pair of the two-K database
type Coeff struct {
	K1   float64
	Kinf float64
}

// coeffs holds the two-K database keyed by fitting type and style variant.
// Values from Hooper (1981). The "default" style is the screwed/standard
// variant of each type.
var coeffs = map[string]map[string]Coeff{
	"elbow90": {
		"default":     {800, 0.40},
		"flanged":     {800, 0.25},
		"long-radius": {800, 0.20},
		"mitered":     {1000, 1.15},
	},
	"elbow45": {
		"default":     {500, 0.20},
		"long-radius": {500, 0.15},
		"mitered":     {500, 0.25},
	},
	"bend180": {
		"default": {1000, 0.60},
		"flanged": {1000, 0.35},
	},
	"tee-through": {
		"default": {200, 0.10},
		"flanged": {150, 0.05},
		"stub-in": {100, 0.00},
	},
	"tee-branch": {
		"default": {500, 0.70},
		"flanged": {800, 0.80},
		"stub-in": {1000, 1.00},
	},
	"valve-gate": {
		"default":      {300, 0.10},
		"reduced-trim": {500, 0.15},
	},
	"valve-ball": {
		"default":      {300, 0.10},
		"reduced-trim": {500, 0.15},
	},
	"valve-plug": {
		"default": {300, 0.10},
	},
	"valve-globe": {
		"default": {1500, 4.00},
	},
	"valve-angle": {
		"default":     {1000, 2.00},
		"globe-style": {1500, 4.00},
	},
	"valve-butterfly": {
		"default": {800, 0.25},
	},
	"valve-diaphragm": {
		"default": {1000, 2.00},
	},
	"check-swing": {
		"default": {1500, 1.50},
	},
	"check-disc": {
		"default": {1000, 0.50},
	},
	"check-lift": {
		"default": {2000, 10.0},
	},
}

// entrance/exit coefficients (Hooper): K∞ scaled by the port ratio to the 4th
const (
	entranceK1         = 160.0
	entranceNormalKinf = 0.5
	entranceRaisedKinf = 1.0
	exitKinf           = 1.0
)

// swage low-Re thresholds
const (
	reducerReLow  = 2500.0
	expanderReLow = 4000.0
)

// Item is one fitting instance of a piping section
type Item struct {
	Type  string // e.g. "elbow90"
	Style string // style variant; "" or "default" for standard
	Count int
}

// ItemK is the resolved resistance of one Item
type ItemK struct {
	Type   string
	Style  string
	Count  int
	KEach  float64
	KTotal float64
}

// Breakdown holds the total loss coefficient of a section and its parts
type Breakdown struct {
	Items  []ItemK
	TotalK float64
}

// Section describes the geometry a fitting set is attached to
type Section struct {
	D     float64 // pipe inside diameter [m]
	DIn   float64 // upstream connection diameter [m]; 0 means same as D
	DOut  float64 // downstream connection diameter [m]; 0 means same as D
	Rough float64 // absolute roughness [m] (swage friction sub-path)
	Items []Item
}

// TwoK evaluates the two-K correlation for one coefficient pair. dInch is
// the bore in inches; the inch-based size term is a convention of the method.
func TwoK(c Coeff, re, dInch float64) float64 {
	return c.K1/re + c.Kinf*(1.0+1.0/dInch)
}

// Losses computes the total loss coefficient of a section at the given
// Reynolds number, plus the per-fitting breakdown. Swage contributions from
// DIn/DOut are appended automatically when those diameters differ from the
// bore. A section with no active fittings yields TotalK=0.
func Losses(sec *Section, re float64) (*Breakdown, error) {
	if sec.D <= 0 {
		return nil, chk.Err("fitting: pipe diameter must be positive; got %g", sec.D)
	}
	if re <= 0 {
		return nil, chk.Err("fitting: Reynolds number must be positive; got %g", re)
	}
	dInch := sec.D / hyd.MetrePerInch
	bd := new(Breakdown)
	for _, it := range sec.Items {
		kEach, err := itemK(sec, it, re, dInch)
		if err != nil {
			return nil, err
		}
		if it.Count <= 0 {
			kEach = 0
		}
		r := ItemK{Type: it.Type, Style: it.Style, Count: it.Count, KEach: kEach, KTotal: kEach * float64(it.Count)}
		bd.Items = append(bd.Items, r)
	}

	// diameter changes at the section boundaries
	rr := sec.Rough / sec.D
	if sec.DIn > 0 && sec.DIn != sec.D {
		k := swageK(re, rr, sec.DIn, sec.D, sec.D)
		bd.Items = append(bd.Items, ItemK{Type: "swage-inlet", Count: 1, KEach: k, KTotal: k})
	}
	if sec.DOut > 0 && sec.DOut != sec.D {
		k := swageK(re, rr, sec.D, sec.DOut, sec.D)
		bd.Items = append(bd.Items, ItemK{Type: "swage-outlet", Count: 1, KEach: k, KTotal: k})
	}

	ks := make([]float64, len(bd.Items))
	for i, it := range bd.Items {
		ks[i] = it.KTotal
	}
	bd.TotalK = floats.Sum(ks)
	return bd, nil
}

// itemK resolves the loss coefficient of a single fitting instance
func itemK(sec *Section, it Item, re, dInch float64) (float64, error) {
	switch it.Type {
	case "entrance":
		kinf := entranceNormalKinf
		if it.Style == "raised" {
			kinf = entranceRaisedKinf
		}
		return entranceK1/re + kinf*portRatio4(sec.D, sec.DIn), nil
	case "exit":
		return exitKinf * portRatio4(sec.D, sec.DOut), nil
	}
	styles, ok := coeffs[it.Type]
	if !ok {
		return 0, chk.Err("fitting: type %q is not supported", it.Type)
	}
	style := it.Style
	if style == "" {
		style = "default"
	}
	c, ok := styles[style]
	if !ok {
		c = styles["default"]
	}
	return TwoK(c, re, dInch), nil
}

// portRatio4 returns (D_pipe/D_port)⁴; a zero port means port = pipe bore
func portRatio4(d, port float64) float64 {
	if port <= 0 {
		return 1
	}
	r := d / port
	return r * r * r * r
}

// swageK returns the resistance of a diameter change from dFrom to dTo,
// re-referenced to the velocity head in the bore dRef. Correlations from
// Hooper via Darby: closed forms at low Re, friction-factor dependent above,
// with the friction factor by Swamee-Jain (this sub-path's estimator; the
// straight-pipe Shacham correlation is never mixed into it).
func swageK(re, rr, dFrom, dTo, dRef float64) float64 {
	small, large := dFrom, dTo
	if small > large {
		small, large = large, small
	}
	if small <= 0 || large <= 0 {
		return 0
	}
	beta := small / large
	if beta >= 1 {
		return 0
	}
	f := hyd.SwameeJain(re, rr)
	var k float64 // referenced to the small-bore velocity head
	if dFrom > dTo { // reducer
		if re <= reducerReLow {
			k = (1.2 + 160.0/re) * (1.0/math.Pow(beta, 4) - 1.0)
		} else {
			b2 := beta * beta
			k = (0.6 + 0.48*f) * (1.0 / b2) * (1.0/b2 - 1.0)
		}
	} else { // expander
		if re < expanderReLow {
			k = 2.0 * (1.0 - math.Pow(beta, 4))
		} else {
			t := 1.0 - beta*beta
			k = (1.0 + 0.8*f) * t * t
		}
	}
	// re-reference: v_small = v_ref・(dRef/small)²
	return k * math.Pow(dRef/small, 4)
}

// Known reports whether a fitting type exists in the database
func Known(typ string) bool {
	if typ == "entrance" || typ == "exit" {
		return true
	}
	_, ok := coeffs[typ]
	return ok
}
