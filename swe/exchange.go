package swe

import (
	"fmt"

	"github.com/hydrosolve/swe2d/grid"
)

/*
	CopyLayer is the boundary-exchange message: one block's innermost
	interior edge, labeled with the side of the SENDER. The receiver
	mirrors the label across the shared edge, so a layer labeled Right
	fills the receiver's Left ghost column.

	Bathymetry rides along only when explicitly flagged - on the first
	iteration, or after a bathymetry change - since it is static
	otherwise.
*/
type CopyLayer struct {
	Side               grid.Side
	ContainsBathymetry bool
	H, Hu, Hv, B       []float64
}

// Inbox is the channel a neighbour sends this block's ghost layers to.
// Its capacity covers one message per side, which bounds how far any
// neighbour can run ahead, so issuing all sends before awaiting any
// receive can never deadlock.
func (b *Block) Inbox() chan<- *CopyLayer {
	return b.inbox
}

// ConnectSide wires the outgoing channel for one CONNECT side.
func (b *Block) ConnectSide(side grid.Side, neighbourIdx int, neighbourInbox chan<- *CopyLayer) {
	b.BoundaryTypes[side] = grid.CONNECT
	b.NeighbourIdx[side] = neighbourIdx
	b.outbox[side] = neighbourInbox
}

// SendCopyLayers issues the copy layer for every CONNECT side. All
// sends are issued before any receive is awaited.
func (b *Block) SendCopyLayers(sendBathymetry bool) {
	for s := 0; s < grid.NumSides; s++ {
		side := grid.Side(s)
		if b.BoundaryTypes[side] != grid.CONNECT {
			continue
		}
		if b.outbox[side] == nil {
			panic(fmt.Errorf("block (%d,%d): CONNECT side %s has no neighbour channel",
				b.PosX, b.PosY, side.Print()))
		}
		msg := &CopyLayer{
			Side:               side,
			ContainsBathymetry: sendBathymetry,
			H:                  b.H.ExtractEdge(side),
			Hu:                 b.Hu.ExtractEdge(side),
			Hv:                 b.Hv.ExtractEdge(side),
		}
		if sendBathymetry {
			msg.B = b.B.ExtractEdge(side)
		}
		b.outbox[side] <- msg
	}
}

// ReceiveGhostLayers blocks until every CONNECT side has received its
// copy layer for the current iteration. Each arriving layer is applied
// immediately and independently; the set of still-missing sides shrinks
// in arrival order. A block with no CONNECT sides returns at once.
func (b *Block) ReceiveGhostLayers() error {
	remaining := make(map[grid.Side]bool)
	for s := 0; s < grid.NumSides; s++ {
		if b.BoundaryTypes[s] == grid.CONNECT {
			remaining[grid.Side(s)] = true
		}
	}
	for len(remaining) > 0 {
		msg, ok := <-b.inbox
		if !ok {
			return fmt.Errorf("block (%d,%d): ghost layer channel closed with %d sides outstanding",
				b.PosX, b.PosY, len(remaining))
		}
		side, err := b.processCopyLayer(msg)
		if err != nil {
			return err
		}
		if !remaining[side] {
			return fmt.Errorf("block (%d,%d): duplicate ghost layer for side %s within one iteration",
				b.PosX, b.PosY, side.Print())
		}
		delete(remaining, side)
	}
	return nil
}

// processCopyLayer writes an incoming edge into the ghost layer of the
// side facing the sender and returns that side.
func (b *Block) processCopyLayer(msg *CopyLayer) (side grid.Side, err error) {
	side = msg.Side.Opposite()
	if b.BoundaryTypes[side] != grid.CONNECT {
		return side, fmt.Errorf("block (%d,%d): received ghost layer for side %s which is %s, not Connect",
			b.PosX, b.PosY, side.Print(), b.BoundaryTypes[side].Print())
	}
	b.H.InjectEdge(side, msg.H)
	b.Hu.InjectEdge(side, msg.Hu)
	b.Hv.InjectEdge(side, msg.Hv)
	if msg.ContainsBathymetry {
		b.B.InjectEdge(side, msg.B)
	}
	return side, nil
}
