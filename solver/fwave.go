package solver

import "math"

// riemannInputs carries one interface's states after dry-cell
// normalization, together with the Einfeldt wave speed estimates and the
// flux difference (including the bathymetry source term) that both
// solver family members decompose.
type riemannInputs struct {
	hL, hR, huL, huR float64
	s1, s2           float64 // s1 <= s2
	df1, df2         float64
	wallLeft         bool // left cell is dry, updates into it are discarded
	wallRight        bool
	dryDry           bool
}

// prepare normalizes dry interfaces and computes Roe averages, Einfeldt
// speeds and the flux difference. A dry cell next to a wet one is
// replaced by the mirrored wet state (reflecting wall), and the updates
// aimed at it are suppressed afterwards, so the solver output stays
// well-defined without ever dividing by a near-zero height.
func prepare(hL, hR, huL, huR, bL, bR, dryTol float64) (in riemannInputs) {
	dryL := hL <= dryTol
	dryR := hR <= dryTol
	switch {
	case dryL && dryR:
		in.dryDry = true
		return
	case dryL:
		hL, huL, bL = hR, -huR, bR
		in.wallLeft = true
	case dryR:
		hR, huR, bR = hL, -huL, bL
		in.wallRight = true
	}

	uL := huL / hL
	uR := huR / hR

	sqrtHL := math.Sqrt(hL)
	sqrtHR := math.Sqrt(hR)
	hRoe := 0.5 * (hL + hR)
	uRoe := (uL*sqrtHL + uR*sqrtHR) / (sqrtHL + sqrtHR)
	cRoe := math.Sqrt(Gravity * hRoe)

	in.hL, in.hR, in.huL, in.huR = hL, hR, huL, huR
	in.s1 = math.Min(uL-math.Sqrt(Gravity*hL), uRoe-cRoe)
	in.s2 = math.Max(uR+math.Sqrt(Gravity*hR), uRoe+cRoe)

	in.df1 = huR - huL
	in.df2 = (huR*uR + 0.5*Gravity*hR*hR) - (huL*uL + 0.5*Gravity*hL*hL) +
		0.5*Gravity*(hL+hR)*(bR-bL)
	return
}

func (in riemannInputs) maxSpeed() float64 {
	return math.Max(math.Abs(in.s1), math.Abs(in.s2))
}

/*
	FWave decomposes the interface flux difference into two waves
	propagating at the Einfeldt speeds. Each wave is accumulated into the
	cell it travels towards; a standing wave is split evenly, preserving
	the conservation identity left+right == flux difference.
*/
type FWave struct {
	DryTol float64
}

func NewFWave() *FWave {
	return &FWave{DryTol: DefaultDryTol}
}

func (s *FWave) ComputeNetUpdates(hLeft, hRight, huLeft, huRight, bLeft, bRight float64) (
	hUpdateLeft, hUpdateRight, huUpdateLeft, huUpdateRight, maxWaveSpeed float64) {
	in := prepare(hLeft, hRight, huLeft, huRight, bLeft, bRight, s.DryTol)
	if in.dryDry {
		return
	}

	// Wave strengths from the 2x2 eigen decomposition of the flux
	// difference in the eigenbasis {(1,s1),(1,s2)}.
	ds := in.s2 - in.s1
	beta1 := (in.s2*in.df1 - in.df2) / ds
	beta2 := (in.df2 - in.s1*in.df1) / ds

	accumulate := func(beta, speed float64) {
		switch {
		case speed < 0:
			hUpdateLeft += beta
			huUpdateLeft += beta * speed
		case speed > 0:
			hUpdateRight += beta
			huUpdateRight += beta * speed
		default:
			hUpdateLeft += 0.5 * beta
			hUpdateRight += 0.5 * beta
		}
	}
	accumulate(beta1, in.s1)
	accumulate(beta2, in.s2)

	if in.wallLeft {
		hUpdateLeft, huUpdateLeft = 0, 0
	}
	if in.wallRight {
		hUpdateRight, huUpdateRight = 0, 0
	}
	maxWaveSpeed = in.maxSpeed()
	return
}
