package lbm

// streamPull is the GPU-kernel formulation of streaming: instead of every
// cell scattering into its neighbors, every destination cell gathers from
// the neighbor opposite each direction. Each next-buffer slot is owned by
// exactly one (cell, direction) pair, which is the shape a data-parallel
// lane-per-cell kernel needs.
//
// The lookup rules mirror streamPush exactly: a solid or out-of-row source
// turns into a bounce of the cell's own opposite value, a source past the
// inlet/outlet columns leaves the slot for the column injections, and a
// fluid source propagates unchanged. Given the same current buffer and
// obstacle mask the two sweeps produce the same next buffer.
func (s *Solver) streamPull() (drag, lift float64) {
	g := s.g
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			idx := g.idx(x, y)
			if g.obstacle[idx] {
				continue
			}
			base := idx * q
			for i := 0; i < q; i++ {
				sx := x - ex[i]
				sy := y - ey[i]

				if sx < 0 || sx >= g.width {
					continue
				}
				if sy < 0 || sy >= g.height || g.obstacle[g.idx(sx, sy)] {
					j := opposite[i]
					fj := g.f[base+j]
					g.fNew[base+i] = fj
					if s.interiorObstacle(sx, sy) {
						drag += 2 * fj * float64(ex[j])
						lift += 2 * fj * float64(ey[j])
					}
					continue
				}
				g.fNew[base+i] = g.f[g.fidx(sx, sy, i)]
			}
		}
	}
	return drag, lift
}
