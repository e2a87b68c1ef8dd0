package router

import (
	"go.uber.org/zap"

	"github.com/sarchlab/interroute/fif"
)

// SourcePin is one resolvable source site pin of a prepared net.
type SourcePin struct {
	Site string
	Pin  string
	Node NodeID
}

// PreparedNet holds the resolved source pins and sink nodes of one signal
// net awaiting routing, in discovery order.
type PreparedNet struct {
	Name       fif.StrIdx
	SourcePins []SourcePin
	SinkNodes  []NodeID
}

// Router routes the unrouted signal nets of a physical netlist over a
// previously built routing graph.
type Router struct {
	g       *Graph
	lookups *Lookups
	phys    *fif.PhysNetlist
	nets    []*PreparedNet
	byName  map[fif.StrIdx]*PreparedNet
	log     *zap.Logger
}

// New wraps a built graph and its lookups.
func New(g *Graph, lookups *Lookups, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		g:       g,
		lookups: lookups,
		byName:  make(map[fif.StrIdx]*PreparedNet),
		log:     log,
	}
}

// Graph exposes the underlying routing graph.
func (r *Router) Graph() *Graph { return r.g }

// PreparedNets returns the nets selected for routing, in netlist order.
func (r *Router) PreparedNets() []*PreparedNet { return r.nets }

// extractSitePins walks routing trees depth-first and collects every
// sitePin segment encountered, leaves and interior alike.
func extractSitePins(branches []fif.RouteBranch) []*fif.PhysSitePin {
	var pins []*fif.PhysSitePin
	stack := make([]*fif.RouteBranch, 0, len(branches))
	for i := range branches {
		stack = append(stack, &branches[i])
	}
	for len(stack) > 0 {
		rb := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if rb.RouteSegment.Kind == fif.SegSitePin {
			pins = append(pins, rb.RouteSegment.SitePin)
		}
		for i := range rb.Branches {
			stack = append(stack, &rb.Branches[i])
		}
	}
	return pins
}
