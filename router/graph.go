// Package router builds the device routing graph from FPGA Interchange
// device resources, prepares the unrouted signal nets of a physical
// netlist, routes each sink with an unweighted shortest-path search, and
// writes the routed netlist back out.
package router

import (
	"fmt"

	"github.com/sarchlab/interroute/fif"
)

// NodeID identifies a routing-graph vertex. It equals the node's index in
// the device resources node list at insertion time.
type NodeID int32

// PIPData is one deduplicated (wire0, wire1, forward) triple shared by
// every edge that crosses the same wire pair.
type PIPData struct {
	Wire0   string
	Wire1   string
	Forward bool
}

// SitePin names an externally visible site pin.
type SitePin struct {
	Site string
	Pin  string
}

// edge is the per-edge record: target vertex plus two side-table indices.
// At device scale the graph holds hundreds of millions of these, so the
// record stays a slotted three-integer struct; everything else lives in
// side tables.
type edge struct {
	to   NodeID
	tile int32
	pip  int32
}

// HiddenEdge is an edge removed from the graph with enough state to
// reinsert it unchanged.
type HiddenEdge struct {
	From NodeID
	To   NodeID
	tile int32
	pip  int32
}

// Graph is the directed routing graph over device node indices. Node
// attributes are sparse and held in side maps: sink site pins and the
// per-net next-node sets recorded while routing.
type Graph struct {
	out      map[NodeID][]edge
	in       map[NodeID][]NodeID
	numEdges int

	tiles   []string
	tileIdx map[string]int32

	pipData []PIPData

	sinkPin map[NodeID]SitePin
	netNext map[NodeID]map[fif.StrIdx][]NodeID
}

// NewGraph returns an empty routing graph.
func NewGraph() *Graph {
	return &Graph{
		out:     make(map[NodeID][]edge),
		in:      make(map[NodeID][]NodeID),
		tileIdx: make(map[string]int32),
		sinkPin: make(map[NodeID]SitePin),
		netNext: make(map[NodeID]map[fif.StrIdx][]NodeID),
	}
}

// AddNode inserts a vertex. Inserting an existing vertex is a no-op.
func (g *Graph) AddNode(n NodeID) {
	if _, ok := g.out[n]; !ok {
		g.out[n] = nil
	}
}

// HasNode reports vertex membership.
func (g *Graph) HasNode(n NodeID) bool {
	_, ok := g.out[n]
	return ok
}

// NumNodes returns the vertex count.
func (g *Graph) NumNodes() int { return len(g.out) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return g.numEdges }

// InternTile returns the side-table index for a tile name.
func (g *Graph) InternTile(name string) int32 {
	if i, ok := g.tileIdx[name]; ok {
		return i
	}
	i := int32(len(g.tiles))
	g.tiles = append(g.tiles, name)
	g.tileIdx[name] = i
	return i
}

// AppendPIPData appends a wire-pair record and returns its index. Callers
// are responsible for deduplication.
func (g *Graph) AppendPIPData(d PIPData) int32 {
	g.pipData = append(g.pipData, d)
	return int32(len(g.pipData) - 1)
}

// NumPIPData returns the size of the wire-pair side table.
func (g *Graph) NumPIPData() int { return len(g.pipData) }

// AddEdge inserts the directed edge (u, v) carrying a tile index and a
// wire-pair index. Endpoints are inserted if absent; a second edge between
// the same pair replaces the first's attribute.
func (g *Graph) AddEdge(u, v NodeID, tile, pip int32) {
	g.AddNode(u)
	g.AddNode(v)
	for i, e := range g.out[u] {
		if e.to == v {
			g.out[u][i] = edge{to: v, tile: tile, pip: pip}
			return
		}
	}
	g.out[u] = append(g.out[u], edge{to: v, tile: tile, pip: pip})
	g.in[v] = append(g.in[v], u)
	g.numEdges++
}

// RemoveNode deletes a vertex together with its incident edges and sparse
// attributes.
func (g *Graph) RemoveNode(n NodeID) {
	if !g.HasNode(n) {
		return
	}
	for _, e := range g.out[n] {
		g.removePred(e.to, n)
		g.numEdges--
	}
	for _, p := range g.in[n] {
		g.removeSucc(p, n)
		g.numEdges--
	}
	delete(g.out, n)
	delete(g.in, n)
	delete(g.sinkPin, n)
	delete(g.netNext, n)
}

// RemoveOutEdges deletes every outgoing edge of u.
func (g *Graph) RemoveOutEdges(u NodeID) {
	for _, e := range g.out[u] {
		g.removePred(e.to, u)
		g.numEdges--
	}
	g.out[u] = nil
}

// OutDegree returns the number of outgoing edges of u.
func (g *Graph) OutDegree(u NodeID) int { return len(g.out[u]) }

// Successors returns u's outgoing neighbours in a freshly allocated slice.
func (g *Graph) Successors(u NodeID) []NodeID {
	es := g.out[u]
	succ := make([]NodeID, len(es))
	for i, e := range es {
		succ[i] = e.to
	}
	return succ
}

// Predecessors returns v's incoming neighbours.
func (g *Graph) Predecessors(v NodeID) []NodeID {
	return append([]NodeID(nil), g.in[v]...)
}

// HideInEdgesExcept removes every incoming edge of v other than the one
// from keep, appending the removed edges to buf so they can be restored.
func (g *Graph) HideInEdgesExcept(v, keep NodeID, buf []HiddenEdge) []HiddenEdge {
	preds := g.in[v]
	if len(preds) == 0 {
		return buf
	}
	kept := preds[:0]
	for _, u := range preds {
		if u == keep {
			kept = append(kept, u)
			continue
		}
		for i, e := range g.out[u] {
			if e.to == v {
				buf = append(buf, HiddenEdge{From: u, To: v, tile: e.tile, pip: e.pip})
				g.out[u] = append(g.out[u][:i], g.out[u][i+1:]...)
				g.numEdges--
				break
			}
		}
	}
	g.in[v] = kept
	return buf
}

// RestoreEdge reinserts an edge removed by HideInEdgesExcept.
func (g *Graph) RestoreEdge(e HiddenEdge) {
	g.AddEdge(e.From, e.To, e.tile, e.pip)
}

// GetPIP resolves the attribute of edge (u, v) into the full
// (tile, wire0, wire1, forward) tuple.
func (g *Graph) GetPIP(u, v NodeID) (tile, wire0, wire1 string, forward, ok bool) {
	for _, e := range g.out[u] {
		if e.to == v {
			d := g.pipData[e.pip]
			return g.tiles[e.tile], d.Wire0, d.Wire1, d.Forward, true
		}
	}
	return "", "", "", false, false
}

// MarkSinkPin attaches the sink site-pin attribute to a vertex.
func (g *Graph) MarkSinkPin(n NodeID, sp SitePin) error {
	if prev, ok := g.sinkPin[n]; ok {
		return fmt.Errorf("node %d already marked as sink pin %s/%s", n, prev.Site, prev.Pin)
	}
	g.sinkPin[n] = sp
	return nil
}

// SinkPinOf returns the sink site pin attached to a vertex, if any.
func (g *Graph) SinkPinOf(n NodeID) (SitePin, bool) {
	sp, ok := g.sinkPin[n]
	return sp, ok
}

// AddNetNext records that net uses the edge from u to v.
func (g *Graph) AddNetNext(u NodeID, net fif.StrIdx, v NodeID) {
	m := g.netNext[u]
	if m == nil {
		m = make(map[fif.StrIdx][]NodeID, 1)
		g.netNext[u] = m
	}
	for _, n := range m[net] {
		if n == v {
			return
		}
	}
	m[net] = append(m[net], v)
}

// NetNext returns the next nodes recorded for net at u.
func (g *Graph) NetNext(u NodeID, net fif.StrIdx) []NodeID {
	return g.netNext[u][net]
}

// UsedByNet reports whether net routes through u.
func (g *Graph) UsedByNet(u NodeID, net fif.StrIdx) bool {
	_, ok := g.netNext[u][net]
	return ok
}

// ShortestPath runs an unweighted breadth-first search from source to
// sink and returns the node sequence, or nil when sink is unreachable.
func (g *Graph) ShortestPath(source, sink NodeID) []NodeID {
	if !g.HasNode(source) || !g.HasNode(sink) {
		return nil
	}
	if source == sink {
		return []NodeID{source}
	}
	pred := map[NodeID]NodeID{source: source}
	queue := []NodeID{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range g.out[u] {
			if _, seen := pred[e.to]; seen {
				continue
			}
			pred[e.to] = u
			if e.to == sink {
				return g.backtrack(pred, source, sink)
			}
			queue = append(queue, e.to)
		}
	}
	return nil
}

func (g *Graph) backtrack(pred map[NodeID]NodeID, source, sink NodeID) []NodeID {
	var rev []NodeID
	for n := sink; ; n = pred[n] {
		rev = append(rev, n)
		if n == source {
			break
		}
	}
	path := make([]NodeID, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}

func (g *Graph) removePred(v, u NodeID) {
	preds := g.in[v]
	for i, p := range preds {
		if p == u {
			g.in[v] = append(preds[:i], preds[i+1:]...)
			return
		}
	}
}

func (g *Graph) removeSucc(u, v NodeID) {
	es := g.out[u]
	for i, e := range es {
		if e.to == v {
			g.out[u] = append(es[:i], es[i+1:]...)
			return
		}
	}
}
