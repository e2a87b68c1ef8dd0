package router

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/interroute/config"
	"github.com/sarchlab/interroute/fif"
)

func buildTestGraph() (*Graph, *Lookups) {
	return Builder{}.
		WithDevice(testDevice()).
		WithRegion(config.Region{MinX: 0, MaxX: 5, MinY: 0, MaxY: 5}).
		Build()
}

var _ = Describe("Prepare", func() {
	var (
		g       *Graph
		lookups *Lookups
		r       *Router
	)

	BeforeEach(func() {
		g, lookups = buildTestGraph()
		r = New(g, lookups, nil)
	})

	It("should select signal nets with resolvable pins on both ends", func() {
		b := newNetBuilder()
		b.addNet("net_a", fif.NetSignal,
			[]fif.RouteBranch{b.sitePin("SITE0", "O")},
			[]fif.RouteBranch{b.sitePin("SITE1", "I")})
		phys := b.build()

		Expect(r.Prepare(phys)).To(Succeed())

		nets := r.PreparedNets()
		Expect(nets).To(HaveLen(1))
		Expect(nets[0].SourcePins).To(HaveLen(1))
		Expect(nets[0].SourcePins[0].Node).To(Equal(NodeID(0)))
		Expect(nets[0].SinkNodes).To(ConsistOf(NodeID(4)))
	})

	It("should strip outgoing edges from sink nodes", func() {
		b := newNetBuilder()
		b.addNet("net_a", fif.NetSignal,
			[]fif.RouteBranch{b.sitePin("SITE0", "O")},
			[]fif.RouteBranch{b.sitePin("SITE1", "I")})

		Expect(r.Prepare(b.build())).To(Succeed())

		for _, pn := range r.PreparedNets() {
			for _, sink := range pn.SinkNodes {
				_, marked := g.SinkPinOf(sink)
				Expect(marked).To(BeTrue())
				Expect(g.OutDegree(sink)).To(BeZero())
			}
		}
	})

	It("should skip nets whose pins do not resolve", func() {
		b := newNetBuilder()
		b.addNet("far", fif.NetSignal,
			[]fif.RouteBranch{b.sitePin("SITEFAR", "O")},
			[]fif.RouteBranch{b.sitePin("SITEFAR", "I")})

		Expect(r.Prepare(b.build())).To(Succeed())
		Expect(r.PreparedNets()).To(BeEmpty())
	})

	It("should remove the sinks of sourceless nets from the graph", func() {
		b := newNetBuilder()
		b.addNet("dangling", fif.NetSignal,
			nil,
			[]fif.RouteBranch{b.sitePin("SITE1", "I")})

		Expect(r.Prepare(b.build())).To(Succeed())
		Expect(r.PreparedNets()).To(BeEmpty())
		Expect(g.HasNode(4)).To(BeFalse())
	})

	It("should reserve the driven nodes of pre-routed nets", func() {
		b := newNetBuilder()
		src := b.pip("INT_X0Y0", "A", "B", true)
		b.addNet("vcc", fif.NetVcc, []fif.RouteBranch{src}, nil)

		Expect(r.Prepare(b.build())).To(Succeed())
		Expect(g.HasNode(1)).To(BeFalse())
		Expect(g.HasNode(0)).To(BeTrue())
	})

	It("should reserve the driven wire0 of reversed pips", func() {
		b := newNetBuilder()
		src := b.pip("INT_X0Y0", "B", "C", false)
		b.addNet("gnd", fif.NetGnd, []fif.RouteBranch{src}, nil)

		Expect(r.Prepare(b.build())).To(Succeed())
		// A reversed PIP drives wire0.
		Expect(g.HasNode(1)).To(BeFalse())
		Expect(g.HasNode(2)).To(BeTrue())
	})

	It("should reject nets carrying stub nodes", func() {
		b := newNetBuilder()
		b.phys.PhysNets = append(b.phys.PhysNets, fif.PhysNet{
			Name:      b.str("bad"),
			Type:      fif.NetSignal,
			StubNodes: []uint32{1},
		})

		Expect(r.Prepare(b.build())).ToNot(Succeed())
	})
})

var _ = Describe("Route", func() {
	It("should route a single sink along the shortest path", func() {
		g, lookups := buildTestGraph()
		r := New(g, lookups, nil)

		b := newNetBuilder()
		b.addNet("net_a", fif.NetSignal,
			[]fif.RouteBranch{b.sitePin("SITE0", "O")},
			[]fif.RouteBranch{b.sitePin("SITE1", "I")})
		phys := b.build()

		Expect(r.Prepare(phys)).To(Succeed())
		r.Route()

		netName := r.PreparedNets()[0].Name
		Expect(g.NetNext(0, netName)).To(Equal([]NodeID{1}))
		Expect(g.NetNext(1, netName)).To(Equal([]NodeID{2}))
		Expect(g.NetNext(2, netName)).To(Equal([]NodeID{3}))
		Expect(g.NetNext(3, netName)).To(Equal([]NodeID{4}))
	})

	It("should keep each net's routing a tree", func() {
		// Diamond with a shared trunk and two sinks.
		g := NewGraph()
		addEdge := func(u, v NodeID) {
			pip := g.AppendPIPData(PIPData{Wire0: "w0", Wire1: "w1", Forward: true})
			g.AddEdge(u, v, g.InternTile("T"), pip)
		}
		addEdge(0, 1)
		addEdge(0, 2)
		addEdge(1, 3)
		addEdge(2, 3)
		addEdge(3, 4)
		addEdge(3, 5)
		Expect(g.MarkSinkPin(4, SitePin{Site: "S", Pin: "P4"})).To(Succeed())
		Expect(g.MarkSinkPin(5, SitePin{Site: "S", Pin: "P5"})).To(Succeed())
		g.RemoveOutEdges(4)
		g.RemoveOutEdges(5)

		r := New(g, nil, nil)
		r.phys = &fif.PhysNetlist{StrList: []string{"n"}}
		pn := &PreparedNet{
			Name:       0,
			SourcePins: []SourcePin{{Site: "S", Pin: "O", Node: 0}},
			SinkNodes:  []NodeID{4, 5},
		}
		r.nets = append(r.nets, pn)
		r.byName[pn.Name] = pn

		r.Route()

		// Both sinks reached.
		preds := make(map[NodeID]int)
		reached := make(map[NodeID]bool)
		for u := NodeID(0); u <= 5; u++ {
			for _, v := range g.NetNext(u, 0) {
				preds[v]++
				reached[v] = true
			}
		}
		Expect(reached[4]).To(BeTrue())
		Expect(reached[5]).To(BeTrue())
		for v, c := range preds {
			Expect(c).To(Equal(1), "node %d has %d drivers", v, c)
		}

		// The transiently hidden edges are back.
		Expect(g.Predecessors(3)).To(ConsistOf(NodeID(1), NodeID(2)))
	})

	It("should skip unreachable sinks and keep going", func() {
		g, lookups := buildTestGraph()
		r := New(g, lookups, nil)

		b := newNetBuilder()
		b.addNet("net_b", fif.NetSignal,
			[]fif.RouteBranch{b.sitePin("SITE0", "O")},
			[]fif.RouteBranch{
				b.sitePin("SITE0", "I"),
				b.sitePin("SITE1", "I"),
			})
		phys := b.build()

		Expect(r.Prepare(phys)).To(Succeed())
		r.Route()

		// SITE0/I resolves to node 2, whose outgoing edges were stripped
		// when it was marked as a sink; SITE1/I (node 4) sits behind it
		// and is therefore unreachable.
		netName := r.PreparedNets()[0].Name
		Expect(g.NetNext(0, netName)).To(Equal([]NodeID{1}))
		Expect(g.NetNext(1, netName)).To(Equal([]NodeID{2}))
		Expect(g.NetNext(2, netName)).To(BeEmpty())
	})
})

var _ = Describe("WriteNetlist", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "router")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	// collectPIPs walks a branch tree and returns its pip tuples in
	// depth-first order, plus the site pins of its leaves.
	collectPIPs := func(phys *fif.PhysNetlist, branches []fif.RouteBranch) ([][4]string, []string) {
		var pips [][4]string
		var leaves []string
		sl := phys.StrList
		var walk func(rb *fif.RouteBranch)
		walk = func(rb *fif.RouteBranch) {
			if rb.RouteSegment.Kind == fif.SegPIP {
				p := rb.RouteSegment.PIP
				fwd := "rev"
				if p.Forward {
					fwd = "fwd"
				}
				pips = append(pips, [4]string{sl[p.Tile], sl[p.Wire0], sl[p.Wire1], fwd})
			}
			if len(rb.Branches) == 0 && rb.RouteSegment.Kind == fif.SegSitePin {
				leaves = append(leaves, sl[rb.RouteSegment.SitePin.Site]+"/"+sl[rb.RouteSegment.SitePin.Pin])
			}
			for i := range rb.Branches {
				walk(&rb.Branches[i])
			}
		}
		for i := range branches {
			walk(&branches[i])
		}
		return pips, leaves
	}

	It("should graft the routed branches and round-trip", func() {
		g, lookups := buildTestGraph()
		r := New(g, lookups, nil)

		b := newNetBuilder()
		b.addNet("net_a", fif.NetSignal,
			[]fif.RouteBranch{b.sitePin("SITE0", "O")},
			[]fif.RouteBranch{b.sitePin("SITE1", "I")})
		phys := b.build()
		oldStrings := append([]string(nil), phys.StrList...)

		Expect(r.Prepare(phys)).To(Succeed())
		r.Route()

		out := filepath.Join(dir, "routed.phys")
		Expect(r.WriteNetlist(out)).To(Succeed())

		got, err := fif.ReadNetlist(out)
		Expect(err).ToNot(HaveOccurred())

		// Previously present strings keep their indices.
		for i, s := range oldStrings {
			Expect(got.StrList[i]).To(Equal(s))
		}

		net := got.PhysNets[0]
		Expect(net.Stubs).To(BeEmpty())
		pips, leaves := collectPIPs(got, net.Sources)
		Expect(pips).To(Equal([][4]string{
			{"INT_X0Y0", "A", "B", "fwd"},
			{"INT_X0Y0", "B", "C", "fwd"},
			{"INT_X1Y0", "A", "B", "fwd"},
			{"INT_X1Y0", "B", "C", "fwd"},
		}))
		Expect(leaves).To(ConsistOf("SITE1/I"))
	})

	It("should keep unrouted pins as stubs", func() {
		g, lookups := buildTestGraph()
		r := New(g, lookups, nil)

		b := newNetBuilder()
		b.addNet("net_b", fif.NetSignal,
			[]fif.RouteBranch{b.sitePin("SITE0", "O")},
			[]fif.RouteBranch{
				b.sitePin("SITE0", "I"),
				b.sitePin("SITE1", "I"),
			})
		phys := b.build()

		Expect(r.Prepare(phys)).To(Succeed())
		r.Route()

		out := filepath.Join(dir, "partial.phys")
		Expect(r.WriteNetlist(out)).To(Succeed())

		got, err := fif.ReadNetlist(out)
		Expect(err).ToNot(HaveOccurred())

		net := got.PhysNets[0]
		Expect(net.Stubs).To(HaveLen(1))
		sp := net.Stubs[0].RouteSegment.SitePin
		Expect(got.StrList[sp.Site]).To(Equal("SITE1"))
		Expect(got.StrList[sp.Pin]).To(Equal("I"))

		_, leaves := collectPIPs(got, net.Sources)
		Expect(leaves).To(ConsistOf("SITE0/I"))
	})

	It("should round-trip the routed pip set through read and re-write", func() {
		g, lookups := buildTestGraph()
		r := New(g, lookups, nil)

		b := newNetBuilder()
		b.addNet("net_a", fif.NetSignal,
			[]fif.RouteBranch{b.sitePin("SITE0", "O")},
			[]fif.RouteBranch{b.sitePin("SITE1", "I")})

		Expect(r.Prepare(b.build())).To(Succeed())
		r.Route()

		out := filepath.Join(dir, "a.phys")
		Expect(r.WriteNetlist(out)).To(Succeed())
		first, err := fif.ReadNetlist(out)
		Expect(err).ToNot(HaveOccurred())

		out2 := filepath.Join(dir, "b.phys")
		Expect(fif.WriteNetlist(out2, first)).To(Succeed())
		second, err := fif.ReadNetlist(out2)
		Expect(err).ToNot(HaveOccurred())
		Expect(second).To(Equal(first))
	})
})
