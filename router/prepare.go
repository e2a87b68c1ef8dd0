package router

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sarchlab/interroute/fif"
)

// Prepare selects the routable signal nets of the netlist and reserves
// the resources of everything else.
//
// A net is routable when it is a signal net with unrouted stubs, at least
// one of its source site pins resolves to an in-bounds graph node, and at
// least one of its sink site pins does too. Resolved sink nodes are
// marked with their site pin and stripped of outgoing edges so no net can
// route through them. Sinks of sourceless nets are removed outright.
// Non-signal nets (vcc/gnd) and fully routed signal nets have the node
// driven by each of their PIPs removed from the graph.
//
// Preparation drops the builder lookups when it finishes.
func (r *Router) Prepare(phys *fif.PhysNetlist) error {
	tstart := time.Now()
	r.phys = phys
	s := phys.StrList

	for ni := range phys.PhysNets {
		net := &phys.PhysNets[ni]
		if len(net.StubNodes) != 0 {
			return fmt.Errorf("net %s carries stub nodes", s[net.Name])
		}
		if net.Type == fif.NetSignal && len(net.Stubs) > 0 {
			if err := r.prepareSignalNet(net); err != nil {
				return err
			}
			continue
		}
		// Non-signal net (gnd/vcc) or fully routed signal net: walk its
		// routing and remove every driven node so no other net conflicts.
		r.reserveRoutedResources(net)
	}

	// The lookup tables exist only to resolve site pins and pre-routed
	// PIPs; free them before the search starts.
	r.lookups = nil

	r.log.Info("prepared site pins",
		zap.Int("nets", len(r.nets)),
		zap.Duration("elapsed", time.Since(tstart)))
	return nil
}

func (r *Router) prepareSignalNet(net *fif.PhysNet) error {
	s := r.phys.StrList
	sinkPins := extractSitePins(net.Stubs)
	if len(sinkPins) == 0 {
		return nil
	}

	var sources []SourcePin
	for _, sp := range extractSitePins(net.Sources) {
		site, pin := s[sp.Site], s[sp.Pin]
		node, ok := r.lookups.NodeFromSitePin(site, pin)
		if !ok {
			continue
		}
		sources = append(sources, SourcePin{Site: site, Pin: pin, Node: node})
	}

	var sinkNodes []NodeID
	for _, sp := range sinkPins {
		site, pin := s[sp.Site], s[sp.Pin]
		node, ok := r.lookups.NodeFromSitePin(site, pin)
		if !ok {
			continue
		}
		if len(sources) == 0 {
			// The net has no usable sources and cannot be routed; remove
			// its sink nodes so other nets cannot collide with them.
			if !r.g.HasNode(node) {
				return fmt.Errorf("sink node of %s/%s on net %s vanished from the graph",
					site, pin, s[net.Name])
			}
			r.g.RemoveNode(node)
			continue
		}
		sinkNodes = append(sinkNodes, node)
		if err := r.g.MarkSinkPin(node, SitePin{Site: site, Pin: pin}); err != nil {
			return fmt.Errorf("net %s: %w", s[net.Name], err)
		}
		// Stripping the sink's outgoing edges keeps other nets off it.
		// This also blocks later sinks of the same net from chaining
		// through it when the node is a pinbounce.
		r.g.RemoveOutEdges(node)
	}
	if len(sinkNodes) == 0 {
		return nil
	}

	pn := &PreparedNet{Name: net.Name, SourcePins: sources, SinkNodes: sinkNodes}
	r.nets = append(r.nets, pn)
	r.byName[net.Name] = pn
	return nil
}

func (r *Router) reserveRoutedResources(net *fif.PhysNet) {
	s := r.phys.StrList
	stack := make([]*fif.RouteBranch, 0, len(net.Sources))
	for i := range net.Sources {
		stack = append(stack, &net.Sources[i])
	}
	for len(stack) > 0 {
		rb := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if rb.RouteSegment.Kind == fif.SegPIP {
			pip := rb.RouteSegment.PIP
			// Tiles missing from the map are out of bounds.
			if w2n := r.lookups.TileWireNode[s[pip.Tile]]; w2n != nil {
				driven := pip.Wire1
				if !pip.Forward {
					driven = pip.Wire0
				}
				if node, ok := w2n[s[driven]]; ok {
					r.g.RemoveNode(node)
				}
			}
		}
		for i := range rb.Branches {
			stack = append(stack, &rb.Branches[i])
		}
	}
}
