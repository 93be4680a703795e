package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
	Float2D holds one conserved quantity on a block's Cartesian grid,
	including the one-cell ghost halo: allocation is (nx+2)x(ny+2) for an
	interior of nx x ny. An index of [x][y] is at the actual position x,y
	on the grid, so the interior occupies [1,nx]x[1,ny] and indices 0,
	nx+1 / ny+1 address the halo.

	The backing storage is a dense matrix with the x index selecting the
	row. Nothing outside this file may assume that layout; neighbours see
	edges only through ExtractEdge/InjectEdge.
*/
type Float2D struct {
	nx, ny int // interior cell counts
	m      *mat.Dense
}

func NewFloat2D(nx, ny int) Float2D {
	if nx < 1 || ny < 1 {
		panic(fmt.Errorf("invalid grid dimensions %dx%d", nx, ny))
	}
	return Float2D{nx: nx, ny: ny, m: mat.NewDense(nx+2, ny+2, nil)}
}

// Dims returns the interior cell counts, excluding the halo.
func (f Float2D) Dims() (nx, ny int) {
	return f.nx, f.ny
}

func (f Float2D) At(x, y int) float64 {
	return f.m.At(x, y)
}

func (f Float2D) Set(x, y int, v float64) {
	f.m.Set(x, y, v)
}

// Row exposes the backing slice for fixed x, indexed by y. Used by the
// sweep inner loops; edge traffic goes through ExtractEdge/InjectEdge.
func (f Float2D) Row(x int) []float64 {
	return f.m.RawRowView(x)
}

// EdgeLen is the number of interior cells along the given side.
func (f Float2D) EdgeLen(side Side) int {
	if side.Horizontal() {
		return f.nx
	}
	return f.ny
}

// ExtractEdge copies the innermost interior row/column adjacent to side
// into a fresh slice, ordered by the coordinate running along the edge.
func (f Float2D) ExtractEdge(side Side) (edge []float64) {
	switch side {
	case SideLeft:
		edge = make([]float64, f.ny)
		copy(edge, f.m.RawRowView(1)[1:f.ny+1])
	case SideRight:
		edge = make([]float64, f.ny)
		copy(edge, f.m.RawRowView(f.nx)[1:f.ny+1])
	case SideBottom:
		edge = make([]float64, f.nx)
		for x := 1; x <= f.nx; x++ {
			edge[x-1] = f.m.At(x, 1)
		}
	case SideTop:
		edge = make([]float64, f.nx)
		for x := 1; x <= f.nx; x++ {
			edge[x-1] = f.m.At(x, f.ny)
		}
	default:
		panic(fmt.Errorf("invalid side %d", side))
	}
	return
}

// InjectEdge writes a received edge into the ghost row/column on side.
// The corner halo cells are left alone.
func (f Float2D) InjectEdge(side Side, edge []float64) {
	if len(edge) != f.EdgeLen(side) {
		panic(fmt.Errorf("edge length %d does not match side %s (want %d)",
			len(edge), side.Print(), f.EdgeLen(side)))
	}
	switch side {
	case SideLeft:
		copy(f.m.RawRowView(0)[1:f.ny+1], edge)
	case SideRight:
		copy(f.m.RawRowView(f.nx+1)[1:f.ny+1], edge)
	case SideBottom:
		for x := 1; x <= f.nx; x++ {
			f.m.Set(x, 0, edge[x-1])
		}
	case SideTop:
		for x := 1; x <= f.nx; x++ {
			f.m.Set(x, f.ny+1, edge[x-1])
		}
	default:
		panic(fmt.Errorf("invalid side %d", side))
	}
}

// InteriorSum totals the quantity over the interior cells only.
func (f Float2D) InteriorSum() (sum float64) {
	for x := 1; x <= f.nx; x++ {
		sum += floats.Sum(f.m.RawRowView(x)[1 : f.ny+1])
	}
	return
}

// InteriorData flattens the interior into a row-major (x-major) slice,
// for writers and comparisons.
func (f Float2D) InteriorData() (data []float64) {
	data = make([]float64, 0, f.nx*f.ny)
	for x := 1; x <= f.nx; x++ {
		data = append(data, f.m.RawRowView(x)[1:f.ny+1]...)
	}
	return
}
