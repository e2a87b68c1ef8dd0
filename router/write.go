package router

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sarchlab/interroute/fif"
)

type spKey struct {
	site string
	pin  string
}

// WriteNetlist grafts the routed branches into each prepared net's source
// tree, shrinks the stub lists to the pins that failed to route, rebuilds
// the string table, and writes the netlist gzipped.
func (r *Router) WriteNetlist(path string) error {
	tstart := time.Now()
	strs := fif.NewStringIndexer(r.phys.StrList)
	oldLen := strs.Len()

	numPIPs := 0
	for ni := range r.phys.PhysNets {
		net := &r.phys.PhysNets[ni]
		pn := r.byName[net.Name]
		if pn == nil {
			// Net was not routed; nothing to update.
			continue
		}
		n, err := r.insertRoutes(net, pn, strs)
		if err != nil {
			return err
		}
		numPIPs += n
	}

	r.phys.StrList = strs.Strings()
	r.log.Info("inserted routing",
		zap.Int("pips", numPIPs),
		zap.Int("newStrings", strs.Len()-oldLen),
		zap.Duration("elapsed", time.Since(tstart)))

	return fif.WriteNetlist(path, r.phys)
}

func (r *Router) insertRoutes(net *fif.PhysNet, pn *PreparedNet, strs *fif.StringIndexer) (int, error) {
	s := r.phys.StrList
	netName := s[net.Name]

	// Detach the sink stubs, indexed by site pin.
	stubByPin := make(map[spKey]fif.RouteBranch, len(net.Stubs))
	stubOrder := make([]spKey, 0, len(net.Stubs))
	for i := range net.Stubs {
		rs := &net.Stubs[i].RouteSegment
		if rs.Kind != fif.SegSitePin {
			return 0, fmt.Errorf("stub on net %s is a %s, not a sitePin", netName, rs.Kind)
		}
		k := spKey{s[rs.SitePin.Site], s[rs.SitePin.Pin]}
		stubByPin[k] = net.Stubs[i]
		stubOrder = append(stubOrder, k)
	}
	net.Stubs = nil

	srcNodeByPin := make(map[spKey]NodeID, len(pn.SourcePins))
	for _, sp := range pn.SourcePins {
		srcNodeByPin[spKey{sp.Site, sp.Pin}] = sp.Node
	}

	// Walk the source trees looking for source site pins whose node the
	// net actually routed through, and graft the recorded next-node
	// chains under them.
	numPIPs := 0
	stack := make([]*fif.RouteBranch, 0, len(net.Sources))
	for i := range net.Sources {
		stack = append(stack, &net.Sources[i])
	}
	for len(stack) > 0 {
		rb := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range rb.Branches {
			stack = append(stack, &rb.Branches[i])
		}
		if rb.RouteSegment.Kind != fif.SegSitePin {
			continue
		}
		sp := rb.RouteSegment.SitePin
		srcNode, ok := srcNodeByPin[spKey{s[sp.Site], s[sp.Pin]}]
		if !ok {
			return 0, fmt.Errorf("source site pin %s/%s on net %s was never prepared",
				s[sp.Site], s[sp.Pin], netName)
		}
		if !r.g.UsedByNet(srcNode, net.Name) {
			// Source pin was not used by this net.
			continue
		}
		n, err := r.graftFrom(rb, srcNode, net.Name, netName, stubByPin, strs)
		if err != nil {
			return 0, err
		}
		numPIPs += n
	}

	// Whatever stubs remain belong to pins that failed to route.
	if len(stubByPin) > 0 {
		stubs := make([]fif.RouteBranch, 0, len(stubByPin))
		for _, k := range stubOrder {
			if rb, ok := stubByPin[k]; ok {
				stubs = append(stubs, rb)
			}
		}
		net.Stubs = stubs
	}
	return numPIPs, nil
}

type graftItem struct {
	rb   *fif.RouteBranch
	node NodeID
}

func (r *Router) graftFrom(
	root *fif.RouteBranch,
	srcNode NodeID,
	net fif.StrIdx,
	netName string,
	stubByPin map[spKey]fif.RouteBranch,
	strs *fif.StringIndexer,
) (int, error) {
	numPIPs := 0
	stack := []graftItem{{root, srcNode}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(it.rb.Branches) != 0 {
			return 0, fmt.Errorf("branch at node %d on net %s already has children", it.node, netName)
		}
		nexts := r.g.NetNext(it.node, net)
		if sp, isSink := r.g.SinkPinOf(it.node); isSink {
			// A sink site pin must reappear on the net: its stub becomes
			// this node's last branch. The stub structure is copied, not
			// re-parented, so the detached original stays intact.
			k := spKey{sp.Site, sp.Pin}
			stub, ok := stubByPin[k]
			if !ok {
				return 0, fmt.Errorf("no stub for sink pin %s/%s on net %s", sp.Site, sp.Pin, netName)
			}
			delete(stubByPin, k)
			it.rb.Branches = make([]fif.RouteBranch, len(nexts)+1)
			it.rb.Branches[len(nexts)] = stub
		} else {
			if len(nexts) == 0 {
				return 0, fmt.Errorf("routing of net %s dead-ends at node %d without a sink pin",
					netName, it.node)
			}
			it.rb.Branches = make([]fif.RouteBranch, len(nexts))
		}
		for i, next := range nexts {
			tile, wire0, wire1, forward, ok := r.g.GetPIP(it.node, next)
			if !ok {
				return 0, fmt.Errorf("edge %d -> %d used by net %s is gone", it.node, next, netName)
			}
			it.rb.Branches[i].RouteSegment = fif.RouteSegment{
				Kind: fif.SegPIP,
				PIP: &fif.PhysPIP{
					Tile:    strs.GetOrAdd(tile),
					Wire0:   strs.GetOrAdd(wire0),
					Wire1:   strs.GetOrAdd(wire1),
					Forward: forward,
				},
			}
			stack = append(stack, graftItem{&it.rb.Branches[i], next})
			numPIPs++
		}
	}
	return numPIPs, nil
}
