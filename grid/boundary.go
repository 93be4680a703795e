package grid

import (
	"fmt"
	"strings"
)

// Side identifies one edge of a rectangular block.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideBottom
	SideTop
)

const NumSides = 4

var sidePrintNames = []string{"Left", "Right", "Bottom", "Top"}

func (s Side) Print() (txt string) {
	txt = sidePrintNames[s]
	return
}

// Opposite returns the side facing s across a shared block edge. A copy
// layer sent from a neighbour's Right side fills this block's Left ghost
// column, and so on.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	case SideBottom:
		return SideTop
	case SideTop:
		return SideBottom
	}
	panic(fmt.Errorf("invalid side %d", s))
}

// Horizontal reports whether the side runs along the x-axis, so its edge
// spans nx cells rather than ny.
func (s Side) Horizontal() bool {
	return s == SideBottom || s == SideTop
}

type BoundaryType uint

const (
	WALL BoundaryType = iota
	OUTFLOW
	CONNECT
	PASSIVE
)

var (
	BoundaryNames = map[string]BoundaryType{
		"wall":    WALL,
		"outflow": OUTFLOW,
		"connect": CONNECT,
		"passive": PASSIVE,
	}
	BoundaryPrintNames = []string{"Wall", "Outflow", "Connect", "Passive"}
)

func (bt BoundaryType) Print() (txt string) {
	txt = BoundaryPrintNames[bt]
	return
}

func NewBoundaryType(label string) (bt BoundaryType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(label)
	if bt, ok = BoundaryNames[label]; !ok {
		err = fmt.Errorf("unable to use boundary type named %s", label)
		panic(err)
	}
	return
}
