package grid

import "sync"

// scratch is the group-local fast memory: two staged input tiles and the
// per-element accumulator slab. It belongs to one pool worker and is reused
// (overwritten) across groups and phases; the clamp writes every slot of the
// staged tiles each phase, so only the accumulators need clearing.
type scratch struct {
	tileA []float32
	tileB []float32
	acc   []float32
}

func newScratch() *scratch {
	return &scratch{
		tileA: make([]float32, MaxTile*MaxTile),
		tileB: make([]float32, MaxTile*MaxTile),
		acc:   make([]float32, MaxTile*MaxTile),
	}
}

// group is one workgroup covering a single output tile. It steps through
// the per-phase state machine
//
//	LOAD -> SYNC_LOAD -> COMPUTE -> SYNC_COMPUTE -> (next phase | DONE)
//
// with the two barriers guarding the reused scratch tiles: the first makes
// every staged entry visible before any lane reads it, the second keeps a
// fast lane from overwriting scratch a slow lane is still reading.
type group struct {
	n, tile, phases           int
	a, b, c                   []float32
	aStride, bStride, cStride int
	rowBase, colBase          int

	tileA, tileB, acc []float32
	bar               *Barrier
}

// passBarrier is the no-op barrier for single-lane groups, where the state
// machine runs inline and both sync points are trivially satisfied.
var passBarrier = NewBarrier(1)

// runGroup executes one workgroup to completion on the calling worker.
func runGroup(t groupTask, s *scratch) {
	tile := t.params.Tile
	g := group{
		n:       t.params.N,
		tile:    tile,
		phases:  t.params.Phases,
		a:       t.a,
		b:       t.b,
		c:       t.c,
		aStride: t.aStride,
		bStride: t.bStride,
		cStride: t.cStride,
		rowBase: t.gy * tile,
		colBase: t.gx * tile,
		tileA:   s.tileA[:tile*tile],
		tileB:   s.tileB[:tile*tile],
		acc:     s.acc[:tile*tile],
		bar:     passBarrier,
	}
	clear(g.acc)

	if t.lanes <= 1 {
		g.run(0, tile)
		return
	}
	g.bar = NewBarrier(t.lanes)

	// Lanes each own a contiguous stripe of tile rows and meet at the
	// barrier between states. Accumulation order per output element is
	// unchanged, so lane count never affects the result bits.
	chunk := ceilDiv(tile, t.lanes)
	var wg sync.WaitGroup
	for lane := 0; lane < t.lanes; lane++ {
		r0 := lane * chunk
		r1 := min(r0+chunk, tile)
		wg.Add(1)
		go func(r0, r1 int) {
			defer wg.Done()
			g.run(r0, r1)
		}(r0, r1)
	}
	wg.Wait()
}

// run drives rows [r0,r1) of the group through every phase. Every lane
// reaches both barriers in every phase, including lanes whose stripe is
// empty or whose tile lies outside the matrix; skipping a barrier would be
// undefined behaviour on the shared scratch.
func (g *group) run(r0, r1 int) {
	for p := 0; p < g.phases; p++ {
		g.load(p, r0, r1)
		g.bar.Wait()
		g.compute(r0, r1)
		g.bar.Wait()
	}
	g.store(r0, r1)
}

// load stages the phase-p sub-blocks of A and B into the scratch tiles.
// Out-of-range sources are replaced by the additive identity, so border
// groups never read outside the matrices and padded slots cannot perturb
// the dot product.
func (g *group) load(phase, r0, r1 int) {
	tile := g.tile
	k0 := phase * tile
	for ly := r0; ly < r1; ly++ {
		row := g.rowBase + ly
		bRow := k0 + ly
		dst := ly * tile
		for lx := 0; lx < tile; lx++ {
			aCol := k0 + lx
			if row < g.n && aCol < g.n {
				g.tileA[dst+lx] = g.a[row*g.aStride+aCol]
			} else {
				g.tileA[dst+lx] = 0
			}
			col := g.colBase + lx
			if bRow < g.n && col < g.n {
				g.tileB[dst+lx] = g.b[bRow*g.bStride+col]
			} else {
				g.tileB[dst+lx] = 0
			}
		}
	}
}

// compute adds one tile-wide slice of the shared dimension into the
// accumulators. The reduction order is fixed: phase-major, then k ascending
// within the tile, which makes results deterministic for a fixed tile width.
func (g *group) compute(r0, r1 int) {
	tile := g.tile
	for ly := r0; ly < r1; ly++ {
		aRow := g.tileA[ly*tile : ly*tile+tile]
		accRow := g.acc[ly*tile : ly*tile+tile]
		for lx := 0; lx < tile; lx++ {
			sum := accRow[lx]
			for k := 0; k < tile; k++ {
				sum += aRow[k] * g.tileB[k*tile+lx]
			}
			accRow[lx] = sum
		}
	}
}

// store writes the accumulators to C. Elements whose coordinates fall
// outside the matrix are silently skipped; for border groups this is the
// expected no-op, not an error.
func (g *group) store(r0, r1 int) {
	tile := g.tile
	for ly := r0; ly < r1; ly++ {
		row := g.rowBase + ly
		if row >= g.n {
			return
		}
		accRow := g.acc[ly*tile : ly*tile+tile]
		cBase := row * g.cStride
		for lx := 0; lx < tile; lx++ {
			col := g.colBase + lx
			if col >= g.n {
				break
			}
			g.c[cBase+col] = accRow[lx]
		}
	}
}
