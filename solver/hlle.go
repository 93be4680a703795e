package solver

/*
	HLLE computes net updates through the HLL middle state bounded by the
	Einfeldt speeds: the fluctuation s1*(qMiddle-qLeft) enters the left
	cell, s2*(qRight-qMiddle) the right cell. When both speeds share a
	sign (supercritical flow) the whole flux difference goes downstream.
*/
type HLLE struct {
	DryTol float64
}

func NewHLLE() *HLLE {
	return &HLLE{DryTol: DefaultDryTol}
}

func (s *HLLE) ComputeNetUpdates(hLeft, hRight, huLeft, huRight, bLeft, bRight float64) (
	hUpdateLeft, hUpdateRight, huUpdateLeft, huUpdateRight, maxWaveSpeed float64) {
	in := prepare(hLeft, hRight, huLeft, huRight, bLeft, bRight, s.DryTol)
	if in.dryDry {
		return
	}

	switch {
	case in.s1 >= 0:
		hUpdateRight = in.df1
		huUpdateRight = in.df2
	case in.s2 <= 0:
		hUpdateLeft = in.df1
		huUpdateLeft = in.df2
	default:
		ds := in.s2 - in.s1
		hMiddle := (in.s2*in.hR - in.s1*in.hL - in.df1) / ds
		huMiddle := (in.s2*in.huR - in.s1*in.huL - in.df2) / ds
		hUpdateLeft = in.s1 * (hMiddle - in.hL)
		huUpdateLeft = in.s1 * (huMiddle - in.huL)
		hUpdateRight = in.s2 * (in.hR - hMiddle)
		huUpdateRight = in.s2 * (in.huR - huMiddle)
	}

	if in.wallLeft {
		hUpdateLeft, huUpdateLeft = 0, 0
	}
	if in.wallRight {
		hUpdateRight, huUpdateRight = 0, 0
	}
	maxWaveSpeed = in.maxSpeed()
	return
}
