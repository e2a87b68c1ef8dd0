package analyzer

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sarchlab/interroute/fif"
)

// ErrAlreadyJoined reports a longest-single-net query on a joined graph.
var ErrAlreadyJoined = errors.New("cannot find longest single net after joining")

// longestPath returns the vertices of a maximum-weight path in the DAG,
// weighing edges by wirelength.
func (a *Analyzer) longestPath() []int32 {
	n := len(a.nodes)
	if n == 0 {
		return nil
	}
	indeg := make([]int32, n)
	for _, es := range a.succ {
		for _, e := range es {
			indeg[e.to]++
		}
	}
	dist := make([]int64, n)
	pred := make([]int32, n)
	for i := range pred {
		pred[i] = -1
	}
	var queue []int32
	for i := int32(0); i < int32(n); i++ {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range a.succ[u] {
			if d := dist[u] + int64(e.wl); d > dist[e.to] {
				dist[e.to] = d
				pred[e.to] = u
			}
			if indeg[e.to]--; indeg[e.to] == 0 {
				queue = append(queue, e.to)
			}
		}
	}
	best := int32(0)
	for i := int32(1); i < int32(n); i++ {
		if dist[i] > dist[best] {
			best = i
		}
	}
	var rev []int32
	for v := best; v >= 0; v = pred[v] {
		rev = append(rev, v)
	}
	path := make([]int32, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

// extendToSink lengthens a longest path that stops at a combinatorial
// vertex. The maximum-weight path may end at, say, a LUT whose hop to the
// flip-flop next door is a zero-length intra-site edge the search had no
// reason to take; the first downstream placed belPin leaf is appended
// instead of presenting the truncated path.
func (a *Analyzer) extendToSink(lp []int32) []int32 {
	if len(lp) == 0 {
		return lp
	}
	last := lp[len(lp)-1]
	tail := a.firstValidSink(last, nil)
	if tail != nil {
		return append(lp, tail[1:]...)
	}
	cell := "unknown"
	if seg := a.nodes[last].seg; seg.Kind == fif.SegBelPin {
		if pl, ok := a.placements[belKey{seg.BelPin.Site, seg.BelPin.Bel}]; ok {
			cell = a.phys.StrList[pl.CellName]
		}
	}
	a.log.Warn("no valid sink found from cell; assuming that it drives a hierarchical port",
		zap.String("cell", cell))
	return lp
}

// firstValidSink searches depth-first from src for the first leaf whose
// segment is a belPin with a placed cell, returning the path to it.
func (a *Analyzer) firstValidSink(src int32, path []int32) []int32 {
	path = append(append([]int32(nil), path...), src)
	if len(a.succ[src]) == 0 {
		seg := a.nodes[src].seg
		if seg.Kind == fif.SegBelPin {
			if _, ok := a.placements[belKey{seg.BelPin.Site, seg.BelPin.Bel}]; ok {
				return path
			}
		}
		return nil
	}
	for _, e := range a.succ[src] {
		if ret := a.firstValidSink(e.to, path); ret != nil {
			return ret
		}
	}
	return nil
}

// FindLSN finds and prints the longest single routed net. It can only run
// before nets are joined.
func (a *Analyzer) FindLSN() ([]int32, error) {
	if a.joined {
		return nil, ErrAlreadyJoined
	}
	if a.verbosity > 0 {
		a.log.Info("finding longest single net")
	}
	tstart := time.Now()
	lsn := a.extendToSink(a.longestPath())
	if len(lsn) < 2 {
		return nil, errors.New("graph holds no routed net edges")
	}
	a.log.Info("found longest single net", zap.Duration("elapsed", time.Since(tstart)))
	name := a.netNameFromEdge(lsn[0], lsn[1])
	if err := a.prettyPrintPath(lsn, "Longest Single Net ("+name+")"); err != nil {
		return nil, err
	}
	return lsn, nil
}

// FindCriticalWirelength joins the nets and finds and prints the critical
// path.
func (a *Analyzer) FindCriticalWirelength() ([]int32, error) {
	if a.verbosity > 0 {
		a.log.Info("finding critical path")
	}
	if err := a.JoinNets(); err != nil {
		return nil, err
	}
	tstart := time.Now()
	cp := a.extendToSink(a.longestPath())
	if len(cp) < 2 {
		return nil, errors.New("graph holds no routed net edges")
	}
	a.log.Info("found critical path", zap.Duration("elapsed", time.Since(tstart)))
	if err := a.prettyPrintPath(cp, "Critical Path"); err != nil {
		return nil, err
	}
	return cp, nil
}

// ExpandEdge recovers the detailed routing behind one graph edge by
// searching the net's source tree for the path ending at the sink's
// segment. The graph itself keeps no per-PIP detail; expansion re-walks
// the netlist on demand.
func (a *Analyzer) ExpandEdge(source, sink int32) []*fif.RouteSegment {
	netIndex := a.nodes[source].net
	if netIndex < 0 {
		return nil
	}
	net := &a.phys.PhysNets[netIndex]
	if len(net.Sources) == 0 {
		return nil
	}
	target := a.nodes[sink].seg

	type frame struct {
		rb   *fif.RouteBranch
		path []*fif.RouteSegment
	}
	stack := []frame{{rb: &net.Sources[0]}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		path := append(append([]*fif.RouteSegment(nil), f.path...), &f.rb.RouteSegment)
		if len(f.rb.Branches) == 0 {
			if f.rb.RouteSegment.Equal(target) {
				return path
			}
			continue
		}
		// Pushed in reverse so the first branch is explored first.
		for i := len(f.rb.Branches) - 1; i >= 0; i-- {
			stack = append(stack, frame{rb: &f.rb.Branches[i], path: path})
		}
	}
	return nil
}
