// Package analyzer computes wirelength statistics over a routed physical
// netlist: the longest single routed net and the critical-path wirelength
// across combinatorial cells.
package analyzer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/sarchlab/interroute/devdata"
	"github.com/sarchlab/interroute/fif"
)

type belKey struct {
	site fif.StrIdx
	bel  fif.StrIdx
}

// node is the per-vertex record: the route segment it stands for plus the
// net index when the vertex is a net source (-1 otherwise). The graph
// holds one vertex per net root and per leaf, so the record stays this
// small on purpose.
type node struct {
	seg *fif.RouteSegment
	net int32
}

// aedge carries the single edge attribute, the accumulated wirelength.
type aedge struct {
	to int32
	wl int32
}

// Analyzer builds a graph of per-net trees from a routed netlist and
// answers longest-path queries over it.
type Analyzer struct {
	phys *fif.PhysNetlist
	data *devdata.DeviceData

	verbosity  int
	emitTiming bool
	out        io.Writer
	log        *zap.Logger

	nodes  []node
	succ   [][]aedge
	roots  []int32
	leaves []int32
	joined bool

	placements map[belKey]*fif.CellPlacement
	pipCache   map[fif.StrIdx]int32
	tileCache  map[fif.StrIdx]bool
}

// Builder configures and builds an Analyzer.
type Builder struct {
	phys       *fif.PhysNetlist
	data       *devdata.DeviceData
	verbosity  int
	emitTiming bool
	out        io.Writer
	log        *zap.Logger
}

// WithNetlist sets the routed physical netlist to analyze.
func (b Builder) WithNetlist(phys *fif.PhysNetlist) Builder {
	b.phys = phys
	return b
}

// WithDeviceData sets the device parameter tables. Defaults to XCVUP.
func (b Builder) WithDeviceData(d *devdata.DeviceData) Builder {
	b.data = d
	return b
}

// WithVerbosity sets the output verbosity (0, 1 or 2).
func (b Builder) WithVerbosity(v int) Builder {
	b.verbosity = v
	return b
}

// WithTimingCommands enables Vivado Tcl command emission after verbose
// path printing.
func (b Builder) WithTimingCommands(on bool) Builder {
	b.emitTiming = on
	return b
}

// WithOutput sets the report writer. Defaults to stdout.
func (b Builder) WithOutput(w io.Writer) Builder {
	b.out = w
	return b
}

// WithLogger sets the progress logger.
func (b Builder) WithLogger(l *zap.Logger) Builder {
	b.log = l
	return b
}

// Build constructs the analyzer and adds every scored signal net to its
// graph.
func (b Builder) Build() (*Analyzer, error) {
	a := &Analyzer{
		phys:       b.phys,
		data:       b.data,
		verbosity:  b.verbosity,
		emitTiming: b.emitTiming,
		out:        b.out,
		log:        b.log,
		placements: make(map[belKey]*fif.CellPlacement),
		pipCache:   make(map[fif.StrIdx]int32),
		tileCache:  make(map[fif.StrIdx]bool),
	}
	if a.data == nil {
		a.data = devdata.XCVUP()
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	for i := range a.phys.Placements {
		c := &a.phys.Placements[i]
		a.placements[belKey{c.Site, c.Bel}] = c
	}
	if err := a.addAllNets(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Analyzer) newNode(seg *fif.RouteSegment, net int32) int32 {
	id := int32(len(a.nodes))
	a.nodes = append(a.nodes, node{seg: seg, net: net})
	a.succ = append(a.succ, nil)
	return id
}

func (a *Analyzer) addEdge(u, v, wl int32) {
	a.succ[u] = append(a.succ[u], aedge{to: v, wl: wl})
}

func (a *Analyzer) edgeWirelength(u, v int32) int32 {
	for _, e := range a.succ[u] {
		if e.to == v {
			return e.wl
		}
	}
	return 0
}

// netIndexToName resolves a net index to its name.
func (a *Analyzer) netIndexToName(netIndex int32) string {
	return a.phys.StrList[a.phys.PhysNets[netIndex].Name]
}

// netNameFromEdge names the net an edge belongs to, falling back to the
// nearest net for join edges and to NULL when there is none.
func (a *Analyzer) netNameFromEdge(u, v int32) string {
	net := a.nodes[u].net
	if net < 0 {
		net = a.nodes[v].net
		if net < 0 {
			return "NULL"
		}
	}
	return a.netIndexToName(net)
}

// segmentWirelength prices one route segment. Only PIPs in interconnect
// tiles contribute; their end wire is matched against the ordered device
// table, first match wins. Both the tile classification and the wire
// lookup are cached by string index because the regex work dominates
// otherwise.
func (a *Analyzer) segmentWirelength(seg *fif.RouteSegment) (int32, error) {
	if seg.Kind != fif.SegPIP {
		return 0, nil
	}
	pip := seg.PIP
	sl := a.phys.StrList
	tileName := sl[pip.Tile]

	isIntTile, seen := a.tileCache[pip.Tile]
	if !seen {
		isIntTile = strings.HasPrefix(tileName, "INT_")
		a.tileCache[pip.Tile] = isIntTile
		if !isIntTile {
			m := a.data.TileRootName.FindStringSubmatch(tileName)
			if m == nil || !a.data.TileTypes[m[1]] {
				return 0, fmt.Errorf("%w: %s,%s,%s", devdata.ErrUnrecognizedTile,
					tileName, sl[pip.Wire0], sl[pip.Wire1])
			}
		}
	}
	if !isIntTile {
		return 0, nil
	}

	if wl, ok := a.pipCache[pip.Wire1]; ok {
		return wl, nil
	}
	wire1Name := sl[pip.Wire1]
	for _, p := range a.data.Pips {
		if p.Pattern.MatchString(wire1Name) {
			a.pipCache[pip.Wire1] = p.Length
			return p.Length, nil
		}
	}
	return 0, fmt.Errorf("%w: %s in tile %s", devdata.ErrUnrecognizedPIP, wire1Name, tileName)
}

// addNet walks the net rooted at branch depth-first, accumulating
// wirelength, and emits one vertex and one source edge per leaf.
func (a *Analyzer) addNet(source int32, branch *fif.RouteBranch) error {
	type item struct {
		rb *fif.RouteBranch
		wl int32
	}
	stack := make([]item, 0, len(branch.Branches))
	for i := range branch.Branches {
		stack = append(stack, item{rb: &branch.Branches[i]})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rb := it.rb
		w, err := a.segmentWirelength(&rb.RouteSegment)
		if err != nil {
			return err
		}
		wl := it.wl + w
		if len(rb.Branches) == 0 {
			sink := a.newNode(&rb.RouteSegment, -1)
			a.addEdge(source, sink, wl)
			switch rb.RouteSegment.Kind {
			case fif.SegSitePin:
				// Dangling site pin; not a join candidate.
			case fif.SegBelPin:
				a.leaves = append(a.leaves, sink)
			default:
				return fmt.Errorf("leaf segment %s on net %s is neither a belPin nor a sitePin",
					rb.RouteSegment.Format(a.phys.StrList), a.netNameFromEdge(source, sink))
			}
			continue
		}
		for i := range rb.Branches {
			stack = append(stack, item{rb: &rb.Branches[i], wl: wl})
		}
	}
	return nil
}

// addAllNets adds every scored signal net to the graph. Global nets
// (driven by a clock buffer), GLOBAL_USEDNET, sourceless stub nets
// (assumed hierarchical ports), and fanout-less sources are skipped.
// Stubs and extra sources on signal nets are tolerated and reported once.
func (a *Analyzer) addAllNets() error {
	tstart := time.Now()
	sl := a.phys.StrList
	netsWithStubs, stubCount := 0, 0
	netsWithMultipleSources, multiSourceCount := 0, 0

	for ni := range a.phys.PhysNets {
		n := &a.phys.PhysNets[ni]
		name := sl[n.Name]
		if n.Type != fif.NetSignal {
			if n.Type != fif.NetGnd && n.Type != fif.NetVcc {
				return fmt.Errorf("unknown type on net %s", name)
			}
			continue
		}
		if name == "GLOBAL_USEDNET" {
			continue
		}
		if len(n.Stubs) != 0 {
			if len(n.Sources) == 0 {
				continue
			}
			netsWithStubs++
			stubCount += len(n.Stubs)
		}
		if len(n.Sources) > 1 {
			netsWithMultipleSources++
			multiSourceCount += len(n.Sources)
		}
		for bi := range n.Sources {
			branch := &n.Sources[bi]
			if branch.RouteSegment.Kind != fif.SegBelPin {
				return fmt.Errorf("found root segment of kind %s on net %s",
					branch.RouteSegment.Kind, name)
			}
			// Sources with no fanout contribute nothing.
			if len(branch.Branches) == 0 {
				continue
			}
			if a.data.GlobalNetDrivers[sl[branch.RouteSegment.BelPin.Bel]] {
				if a.verbosity > 1 {
					fmt.Fprintln(a.out, "Skipping global net:", name)
				}
				continue
			}
			source := a.newNode(&branch.RouteSegment, int32(ni))
			a.roots = append(a.roots, source)
			if err := a.addNet(source, branch); err != nil {
				return err
			}
		}
	}

	if netsWithStubs != 0 {
		a.log.Warn("found stubs on signal nets",
			zap.Int("stubs", stubCount), zap.Int("nets", netsWithStubs))
	}
	if netsWithMultipleSources != 0 {
		a.log.Warn("found signal nets with multiple sources",
			zap.Int("sources", multiSourceCount), zap.Int("nets", netsWithMultipleSources))
	}
	a.log.Info("added nets to graph",
		zap.String("vertices", humanize.Comma(int64(len(a.nodes)))),
		zap.Duration("elapsed", time.Since(tstart)))
	return nil
}
