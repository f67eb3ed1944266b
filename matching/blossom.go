package matching

import (
	"fmt"
	"math"
	"sort"
)

// Scaling bounds for the integer cost domain used by the blossom search.
const (
	defaultScale = 1e6  // resolution of one millionth of a cost unit
	maxScaled    = 1e12 // keeps duals and slacks exactly representable in float64
)

// MinWeightPerfect returns a minimum-cost perfect matching over n vertices.
//
// Implementation:
//   - Available pairs become edges of weight C − round(cost·scale), where C
//     exceeds every scaled cost. A maximum-cardinality maximum-weight matching
//     on these weights is a minimum-cost perfect matching whenever a perfect
//     matching exists.
//   - The search is Edmonds' blossom algorithm with dual variables, in the
//     formulation by Galil (1986): stages grow alternating trees from every
//     free vertex, shrink odd cycles into blossoms, and adjust duals by the
//     smallest slack until an augmenting path appears.
//
// Errors: ErrNegativeSize, ErrOddCount, ErrBadCost, ErrNoMatching.
//
// Complexity: O(n³) time, O(n²) space.
func MinWeightPerfect(n int, cost CostFunc) (Result, error) {
	if err := checkSize(n); err != nil {
		return Result{}, err
	}
	if n == 0 {
		return Result{Pairs: []Pair{}}, nil
	}

	// Collect available pairs and their original costs.
	type pairCost struct {
		i, j int
		c    float64
	}
	pairs := make([]pairCost, 0, n*(n-1)/2)
	var maxCost float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c, ok := cost(i, j)
			if !ok {
				continue
			}
			if err := checkCost(i, j, c); err != nil {
				return Result{}, err
			}
			pairs = append(pairs, pairCost{i: i, j: j, c: c})
			maxCost = math.Max(maxCost, c)
		}
	}

	scale := scaleFor(maxCost)
	top := math.Round(maxCost*scale) + 1
	edges := make([]wedge, len(pairs))
	for k, p := range pairs {
		edges[k] = wedge{i: p.i, j: p.j, w: top - math.Round(p.c*scale)}
	}

	mate := newBlossom(n, edges).solve()

	res := Result{Pairs: make([]Pair, 0, n/2)}
	for _, p := range pairs {
		if mate[p.i] == p.j {
			res.Pairs = append(res.Pairs, Pair{I: p.i, J: p.j})
			res.Cost += p.c
		}
	}
	if len(res.Pairs) != n/2 {
		return Result{}, fmt.Errorf("%w: matched %d of %d vertices", ErrNoMatching, 2*len(res.Pairs), n)
	}
	sort.Slice(res.Pairs, func(a, b int) bool { return res.Pairs[a].I < res.Pairs[b].I })

	return res, nil
}

// scaleFor picks the integer resolution for costs up to maxCost.
func scaleFor(maxCost float64) float64 {
	if maxCost*defaultScale > maxScaled {
		return maxScaled / maxCost
	}

	return defaultScale
}

// wedge is an undirected weighted edge of the matching graph.
type wedge struct {
	i, j int
	w    float64
}

// blossom holds the state of one maximum-weight matching search.
//
// Vertices are 0..nv-1, blossoms nv..2nv-1. Edge k has endpoints 2k (edges[k].i)
// and 2k+1 (edges[k].j); an endpoint p reaches the vertex endpoint[p] and p^1 is
// the opposite end of the same edge.
//
// Labels: 0 free, 1 S (outer), 2 T (inner); scanBlossom temporarily uses 5.
type blossom struct {
	nv    int
	edges []wedge

	endpoint  []int
	neighbend [][]int // neighbend[v] lists remote endpoints of edges at v

	mate             []int // mate[v] is the remote endpoint of v's matched edge, or -1
	label            []int
	labelend         []int // endpoint through which the label was assigned
	inblossom        []int // top-level blossom containing vertex v
	blossomparent    []int
	blossomchilds    [][]int // sub-blossoms in cycle order starting at the base
	blossombase      []int
	blossomendps     [][]int // blossomendps[b][i] joins childs[i] and childs[i+1]
	bestedge         []int   // least-slack edge to an S-blossom
	blossombestedges [][]int // nil means "not computed"
	unusedblossoms   []int
	dualvar          []float64
	allowedge        []bool // edge has zero slack
	queue            []int  // S-vertices awaiting scan
}

func newBlossom(nv int, edges []wedge) *blossom {
	m := &blossom{nv: nv, edges: edges}
	ne := len(edges)

	maxWeight := 0.0
	for _, e := range edges {
		maxWeight = math.Max(maxWeight, e.w)
	}

	m.endpoint = make([]int, 2*ne)
	m.neighbend = make([][]int, nv)
	for k, e := range edges {
		m.endpoint[2*k] = e.i
		m.endpoint[2*k+1] = e.j
		m.neighbend[e.i] = append(m.neighbend[e.i], 2*k+1)
		m.neighbend[e.j] = append(m.neighbend[e.j], 2*k)
	}

	m.mate = filled(nv, -1)
	m.label = make([]int, 2*nv)
	m.labelend = filled(2*nv, -1)
	m.inblossom = make([]int, nv)
	for v := range m.inblossom {
		m.inblossom[v] = v
	}
	m.blossomparent = filled(2*nv, -1)
	m.blossomchilds = make([][]int, 2*nv)
	m.blossombase = filled(2*nv, -1)
	for v := 0; v < nv; v++ {
		m.blossombase[v] = v
	}
	m.blossomendps = make([][]int, 2*nv)
	m.bestedge = filled(2*nv, -1)
	m.blossombestedges = make([][]int, 2*nv)
	m.unusedblossoms = make([]int, 0, nv)
	for b := nv; b < 2*nv; b++ {
		m.unusedblossoms = append(m.unusedblossoms, b)
	}
	m.dualvar = make([]float64, 2*nv)
	for v := 0; v < nv; v++ {
		m.dualvar[v] = maxWeight
	}
	m.allowedge = make([]bool, ne)

	return m
}

// slack returns the reduced cost of edge k (twice the usual value).
func (m *blossom) slack(k int) float64 {
	e := m.edges[k]

	return m.dualvar[e.i] + m.dualvar[e.j] - 2*e.w
}

// leaves appends every vertex contained in blossom b to out.
func (m *blossom) leaves(b int, out []int) []int {
	if b < m.nv {
		return append(out, b)
	}
	for _, t := range m.blossomchilds[b] {
		if t < m.nv {
			out = append(out, t)
		} else {
			out = m.leaves(t, out)
		}
	}

	return out
}

// assignLabel labels the top-level blossom of w with t, reached through endpoint p.
func (m *blossom) assignLabel(w, t, p int) {
	b := m.inblossom[w]
	m.label[w], m.label[b] = t, t
	m.labelend[w], m.labelend[b] = p, p
	m.bestedge[w], m.bestedge[b] = -1, -1
	switch t {
	case 1:
		m.queue = m.leaves(b, m.queue)
	case 2:
		base := m.blossombase[b]
		m.assignLabel(m.endpoint[m.mate[base]], 1, m.mate[base]^1)
	}
}

// scanBlossom traces back from v and w to find a new blossom base, or -1 when
// the two trees differ and an augmenting path exists.
func (m *blossom) scanBlossom(v, w int) int {
	var (
		path []int
		base = -1
		b    int
	)
	for v != -1 || w != -1 {
		b = m.inblossom[v]
		if m.label[b]&4 != 0 {
			base = m.blossombase[b]
			break
		}
		path = append(path, b)
		m.label[b] = 5
		if m.labelend[b] == -1 {
			v = -1
		} else {
			v = m.endpoint[m.labelend[b]]
			b = m.inblossom[v]
			v = m.endpoint[m.labelend[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b = range path {
		m.label[b] = 1
	}

	return base
}

// addBlossom shrinks the cycle closed by edge k into a new blossom with the given base.
func (m *blossom) addBlossom(base, k int) {
	v, w := m.edges[k].i, m.edges[k].j
	bb := m.inblossom[base]
	bv := m.inblossom[v]
	bw := m.inblossom[w]

	b := m.unusedblossoms[len(m.unusedblossoms)-1]
	m.unusedblossoms = m.unusedblossoms[:len(m.unusedblossoms)-1]
	m.blossombase[b] = base
	m.blossomparent[b] = -1
	m.blossomparent[bb] = b

	path := make([]int, 0, 8)
	endps := make([]int, 0, 8)
	for bv != bb {
		m.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, m.labelend[bv])
		v = m.endpoint[m.labelend[bv]]
		bv = m.inblossom[v]
	}
	path = append(path, bb)
	reverseInts(path)
	reverseInts(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		m.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, m.labelend[bw]^1)
		w = m.endpoint[m.labelend[bw]]
		bw = m.inblossom[w]
	}
	m.blossomchilds[b] = path
	m.blossomendps[b] = endps

	m.label[b] = 1
	m.labelend[b] = m.labelend[bb]
	m.dualvar[b] = 0
	for _, lv := range m.leaves(b, nil) {
		if m.label[m.inblossom[lv]] == 2 {
			m.queue = append(m.queue, lv)
		}
		m.inblossom[lv] = b
	}

	// Compute the least-slack edges from b to every other S-blossom.
	bestedgeto := filled(2*m.nv, -1)
	for _, sub := range path {
		var nblists [][]int
		if m.blossombestedges[sub] == nil {
			for _, lv := range m.leaves(sub, nil) {
				lst := make([]int, 0, len(m.neighbend[lv]))
				for _, p := range m.neighbend[lv] {
					lst = append(lst, p/2)
				}
				nblists = append(nblists, lst)
			}
		} else {
			nblists = [][]int{m.blossombestedges[sub]}
		}
		for _, nblist := range nblists {
			for _, kk := range nblist {
				j := m.edges[kk].j
				if m.inblossom[j] == b {
					j = m.edges[kk].i
				}
				bj := m.inblossom[j]
				if bj != b && m.label[bj] == 1 &&
					(bestedgeto[bj] == -1 || m.slack(kk) < m.slack(bestedgeto[bj])) {
					bestedgeto[bj] = kk
				}
			}
		}
		m.blossombestedges[sub] = nil
		m.bestedge[sub] = -1
	}
	best := make([]int, 0, len(bestedgeto))
	for _, kk := range bestedgeto {
		if kk != -1 {
			best = append(best, kk)
		}
	}
	m.blossombestedges[b] = best
	m.bestedge[b] = -1
	for _, kk := range best {
		if m.bestedge[b] == -1 || m.slack(kk) < m.slack(m.bestedge[b]) {
			m.bestedge[b] = kk
		}
	}
}

// expandBlossom dissolves blossom b. Outside the end of a stage, a T-blossom's
// children are relabelled so the alternating tree stays valid.
func (m *blossom) expandBlossom(b int, endstage bool) {
	for _, s := range m.blossomchilds[b] {
		m.blossomparent[s] = -1
		switch {
		case s < m.nv:
			m.inblossom[s] = s
		case endstage && m.dualvar[s] == 0:
			m.expandBlossom(s, endstage)
		default:
			for _, lv := range m.leaves(s, nil) {
				m.inblossom[lv] = s
			}
		}
	}

	if !endstage && m.label[b] == 2 {
		childs := m.blossomchilds[b]
		endps := m.blossomendps[b]
		entrychild := m.inblossom[m.endpoint[m.labelend[b]^1]]
		j := indexOf(childs, entrychild)
		jstep, endptrick := -1, 1
		if j&1 != 0 {
			j -= len(childs)
			jstep, endptrick = 1, 0
		}
		p := m.labelend[b]
		for j != 0 {
			m.label[m.endpoint[p^1]] = 0
			m.label[m.endpoint[at(endps, j-endptrick)^endptrick^1]] = 0
			m.assignLabel(m.endpoint[p^1], 2, p)
			m.allowedge[at(endps, j-endptrick)/2] = true
			j += jstep
			p = at(endps, j-endptrick) ^ endptrick
			m.allowedge[p/2] = true
			j += jstep
		}
		bv := at(childs, j)
		m.label[m.endpoint[p^1]], m.label[bv] = 2, 2
		m.labelend[m.endpoint[p^1]], m.labelend[bv] = p, p
		m.bestedge[bv] = -1
		j += jstep
		for at(childs, j) != entrychild {
			bv = at(childs, j)
			if m.label[bv] == 1 {
				j += jstep
				continue
			}
			found := -1
			for _, lv := range m.leaves(bv, nil) {
				if m.label[lv] != 0 {
					found = lv
					break
				}
			}
			if found >= 0 {
				m.label[found] = 0
				m.label[m.endpoint[m.mate[m.blossombase[bv]]]] = 0
				m.assignLabel(found, 2, m.labelend[found])
			}
			j += jstep
		}
	}

	m.label[b], m.labelend[b] = -1, -1
	m.blossomchilds[b], m.blossomendps[b] = nil, nil
	m.blossombase[b] = -1
	m.blossombestedges[b] = nil
	m.bestedge[b] = -1
	m.unusedblossoms = append(m.unusedblossoms, b)
}

// augmentBlossom swaps matched and unmatched edges inside b along the even
// path from vertex v to the base, making v the new base.
func (m *blossom) augmentBlossom(b, v int) {
	t := v
	for m.blossomparent[t] != b {
		t = m.blossomparent[t]
	}
	if t >= m.nv {
		m.augmentBlossom(t, v)
	}
	childs := m.blossomchilds[b]
	endps := m.blossomendps[b]
	i := indexOf(childs, t)
	j := i
	jstep, endptrick := -1, 1
	if i&1 != 0 {
		j -= len(childs)
		jstep, endptrick = 1, 0
	}
	var p int
	for j != 0 {
		j += jstep
		t = at(childs, j)
		p = at(endps, j-endptrick) ^ endptrick
		if t >= m.nv {
			m.augmentBlossom(t, m.endpoint[p])
		}
		j += jstep
		t = at(childs, j)
		if t >= m.nv {
			m.augmentBlossom(t, m.endpoint[p^1])
		}
		m.mate[m.endpoint[p]] = p ^ 1
		m.mate[m.endpoint[p^1]] = p
	}
	m.blossomchilds[b] = rotateInts(childs, i)
	m.blossomendps[b] = rotateInts(endps, i)
	m.blossombase[b] = m.blossombase[m.blossomchilds[b][0]]
}

// augmentMatching flips the augmenting path through edge k.
func (m *blossom) augmentMatching(k int) {
	v, w := m.edges[k].i, m.edges[k].j
	for _, sp := range [2][2]int{{v, 2*k + 1}, {w, 2 * k}} {
		s, p := sp[0], sp[1]
		for {
			bs := m.inblossom[s]
			if bs >= m.nv {
				m.augmentBlossom(bs, s)
			}
			m.mate[s] = p
			if m.labelend[bs] == -1 {
				break
			}
			t := m.endpoint[m.labelend[bs]]
			bt := m.inblossom[t]
			s = m.endpoint[m.labelend[bt]]
			j := m.endpoint[m.labelend[bt]^1]
			if bt >= m.nv {
				m.augmentBlossom(bt, j)
			}
			m.mate[j] = m.labelend[bt]
			p = m.labelend[bt] ^ 1
		}
	}
}

// solve runs the stages and returns mate as vertex indices (-1 = unmatched).
// Cardinality is maximised first, weight second.
func (m *blossom) solve() []int {
	nv := m.nv
	for stage := 0; stage < nv; stage++ {
		for i := range m.label {
			m.label[i] = 0
			m.bestedge[i] = -1
		}
		for b := nv; b < 2*nv; b++ {
			m.blossombestedges[b] = nil
		}
		for k := range m.allowedge {
			m.allowedge[k] = false
		}
		m.queue = m.queue[:0]

		for v := 0; v < nv; v++ {
			if m.mate[v] == -1 && m.label[m.inblossom[v]] == 0 {
				m.assignLabel(v, 1, -1)
			}
		}

		augmented := false
		for {
			augmented = m.scanQueue()
			if augmented {
				break
			}
			if done := m.adjustDuals(); done {
				break
			}
		}
		if !augmented {
			break
		}

		// End of stage: expand S-blossoms with zero dual.
		for b := nv; b < 2*nv; b++ {
			if m.blossomparent[b] == -1 && m.blossombase[b] >= 0 &&
				m.label[b] == 1 && m.dualvar[b] == 0 {
				m.expandBlossom(b, true)
			}
		}
	}

	out := make([]int, nv)
	for v := 0; v < nv; v++ {
		out[v] = -1
		if m.mate[v] >= 0 {
			out[v] = m.endpoint[m.mate[v]]
		}
	}

	return out
}

// scanQueue grows the alternating forest from queued S-vertices over tight
// edges. It reports true after an augmentation.
func (m *blossom) scanQueue() bool {
	var (
		v, k, w, base int
		kslack        float64
	)
	for len(m.queue) > 0 {
		v = m.queue[len(m.queue)-1]
		m.queue = m.queue[:len(m.queue)-1]
		for _, p := range m.neighbend[v] {
			k = p / 2
			w = m.endpoint[p]
			if m.inblossom[v] == m.inblossom[w] {
				continue
			}
			if !m.allowedge[k] {
				kslack = m.slack(k)
				if kslack <= 0 {
					m.allowedge[k] = true
				}
			}
			switch {
			case m.allowedge[k]:
				switch {
				case m.label[m.inblossom[w]] == 0:
					m.assignLabel(w, 2, p^1)
				case m.label[m.inblossom[w]] == 1:
					base = m.scanBlossom(v, w)
					if base >= 0 {
						m.addBlossom(base, k)
					} else {
						m.augmentMatching(k)
						return true
					}
				case m.label[w] == 0:
					m.label[w] = 2
					m.labelend[w] = p ^ 1
				}
			case m.label[m.inblossom[w]] == 1:
				b := m.inblossom[v]
				if m.bestedge[b] == -1 || kslack < m.slack(m.bestedge[b]) {
					m.bestedge[b] = k
				}
			case m.label[w] == 0:
				if m.bestedge[w] == -1 || kslack < m.slack(m.bestedge[w]) {
					m.bestedge[w] = k
				}
			}
		}
	}

	return false
}

// adjustDuals performs one dual update. It reports true when the stage must
// end without augmentation (no further progress is possible).
func (m *blossom) adjustDuals() bool {
	nv := m.nv
	deltatype := -1
	var (
		delta        float64
		deltaedge    = -1
		deltablossom = -1
		d            float64
	)

	// Type 2: edge from an S-vertex to a free vertex.
	for v := 0; v < nv; v++ {
		if m.label[m.inblossom[v]] == 0 && m.bestedge[v] != -1 {
			d = m.slack(m.bestedge[v])
			if deltatype == -1 || d < delta {
				delta, deltatype, deltaedge = d, 2, m.bestedge[v]
			}
		}
	}
	// Type 3: edge between two S-blossoms.
	for b := 0; b < 2*nv; b++ {
		if m.blossomparent[b] == -1 && m.label[b] == 1 && m.bestedge[b] != -1 {
			d = m.slack(m.bestedge[b]) / 2
			if deltatype == -1 || d < delta {
				delta, deltatype, deltaedge = d, 3, m.bestedge[b]
			}
		}
	}
	// Type 4: T-blossom whose dual reaches zero.
	for b := nv; b < 2*nv; b++ {
		if m.blossombase[b] >= 0 && m.blossomparent[b] == -1 && m.label[b] == 2 &&
			(deltatype == -1 || m.dualvar[b] < delta) {
			delta, deltatype, deltablossom = m.dualvar[b], 4, b
		}
	}
	// Type 1: maximum cardinality reached; take the last possible step.
	if deltatype == -1 {
		deltatype = 1
		delta = math.Inf(1)
		for v := 0; v < nv; v++ {
			delta = math.Min(delta, m.dualvar[v])
		}
		delta = math.Max(0, delta)
	}

	for v := 0; v < nv; v++ {
		switch m.label[m.inblossom[v]] {
		case 1:
			m.dualvar[v] -= delta
		case 2:
			m.dualvar[v] += delta
		}
	}
	for b := nv; b < 2*nv; b++ {
		if m.blossombase[b] >= 0 && m.blossomparent[b] == -1 {
			switch m.label[b] {
			case 1:
				m.dualvar[b] += delta
			case 2:
				m.dualvar[b] -= delta
			}
		}
	}

	switch deltatype {
	case 1:
		return true
	case 2:
		m.allowedge[deltaedge] = true
		i, j := m.edges[deltaedge].i, m.edges[deltaedge].j
		if m.label[m.inblossom[i]] == 0 {
			i = j
		}
		m.queue = append(m.queue, i)
	case 3:
		m.allowedge[deltaedge] = true
		m.queue = append(m.queue, m.edges[deltaedge].i)
	case 4:
		m.expandBlossom(deltablossom, false)
	}

	return false
}

func filled(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func indexOf(s []int, x int) int {
	for i, v := range s {
		if v == x {
			return i
		}
	}

	return -1
}

// at indexes s with Python-style negative offsets.
func at(s []int, i int) int {
	if i < 0 {
		i += len(s)
	}

	return s[i]
}

func rotateInts(s []int, i int) []int {
	out := make([]int, 0, len(s))
	out = append(out, s[i:]...)

	return append(out, s[:i]...)
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
