package swe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydrosolve/swe2d/grid"
	"github.com/hydrosolve/swe2d/solver"
)

// connectPair builds two blocks sharing a vertical edge: left block's
// Right side faces right block's Left side.
func connectPair(nx, ny int) (left, right *Block) {
	left = NewBlock(nx, ny, 1, 1, 0, 0, 0, 0, solver.NewFWave(), 1)
	right = NewBlock(nx, ny, 1, 1, float64(nx), 0, 1, 0, solver.NewFWave(), 1)

	left.InitScenario(linearScenario{}, [grid.NumSides]grid.BoundaryType{
		grid.WALL, grid.CONNECT, grid.WALL, grid.WALL})
	right.InitScenario(linearScenario{}, [grid.NumSides]grid.BoundaryType{
		grid.CONNECT, grid.WALL, grid.WALL, grid.WALL})

	left.ConnectSide(grid.SideRight, 1, right.Inbox())
	right.ConnectSide(grid.SideLeft, 0, left.Inbox())
	return
}

func TestExchangeMirrorsSides(t *testing.T) {
	left, right := connectPair(3, 4)

	// All sends issued before any receive is awaited.
	left.SendCopyLayers(true)
	right.SendCopyLayers(true)
	assert.NoError(t, left.ReceiveGhostLayers())
	assert.NoError(t, right.ReceiveGhostLayers())

	// A layer labeled Right fills the receiver's Left ghost column, and
	// vice versa; the exchange carries the innermost interior edge.
	for y := 1; y <= 4; y++ {
		assert.Equal(t, left.H.At(3, y), right.H.At(0, y))
		assert.Equal(t, left.Hu.At(3, y), right.Hu.At(0, y))
		assert.Equal(t, left.Hv.At(3, y), right.Hv.At(0, y))
		assert.Equal(t, left.B.At(3, y), right.B.At(0, y))

		assert.Equal(t, right.H.At(1, y), left.H.At(4, y))
		assert.Equal(t, right.B.At(1, y), left.B.At(4, y))
	}
}

func TestExchangeBathymetryOnlyWhenFlagged(t *testing.T) {
	left, right := connectPair(3, 4)

	left.SendCopyLayers(true)
	right.SendCopyLayers(true)
	assert.NoError(t, left.ReceiveGhostLayers())
	assert.NoError(t, right.ReceiveGhostLayers())

	// Mutate the sender's bathymetry; an unflagged exchange must not
	// propagate it.
	before := right.B.At(0, 2)
	left.B.Set(3, 2, 999)
	left.SendCopyLayers(false)
	right.SendCopyLayers(false)
	assert.NoError(t, left.ReceiveGhostLayers())
	assert.NoError(t, right.ReceiveGhostLayers())

	assert.Equal(t, before, right.B.At(0, 2))
	// Water state still travels.
	assert.Equal(t, left.H.At(3, 2), right.H.At(0, 2))
}

func TestExchangeNoConnectSidesSkipsWait(t *testing.T) {
	b := newTestBlock(3, 3, allWall())
	b.SendCopyLayers(true)
	// Must return immediately instead of waiting on an empty side set.
	assert.NoError(t, b.ReceiveGhostLayers())
}

func TestExchangeDuplicateLayerFails(t *testing.T) {
	left, right := connectPair(3, 4)
	// A second CONNECT side keeps the receiver waiting long enough to
	// see the duplicate.
	right.SetBoundaryType(grid.SideBottom, grid.CONNECT)

	left.SendCopyLayers(true)
	left.SendCopyLayers(true) // protocol violation: same iteration, same side
	err := right.ReceiveGhostLayers()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestExchangeClosedChannelIsCommFault(t *testing.T) {
	_, right := connectPair(3, 4)
	close(right.inbox)
	err := right.ReceiveGhostLayers()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDryDomain)
}

func TestExchangeWrongSideRejected(t *testing.T) {
	_, right := connectPair(3, 4)
	// A layer labeled Bottom would land on the receiver's Top side,
	// which is WALL here, not CONNECT.
	right.Inbox() <- &CopyLayer{
		Side: grid.SideBottom,
		H:    make([]float64, 3), Hu: make([]float64, 3), Hv: make([]float64, 3),
	}
	err := right.ReceiveGhostLayers()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not Connect")
}
