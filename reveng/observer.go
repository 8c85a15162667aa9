package reveng

import (
	"github.com/robert-edward-lee/reveng/model"
	"github.com/robert-edward-lee/reveng/poly"
)

// An Observer receives search events as they happen. Found is called
// once per candidate model, in discovery order; Progress is called at
// fixed candidate intervals during a brute-force pass with a
// monotonically increasing sequence number starting at zero.
type Observer interface {
	Found(m model.Model)
	Progress(p poly.Poly, flags int, seq uint64)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Found(model.Model)               {}
func (NopObserver) Progress(poly.Poly, int, uint64) {}
