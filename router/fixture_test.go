package router

import "github.com/sarchlab/interroute/fif"

// strTab interns strings while a fixture is assembled.
type strTab struct {
	strs []string
	idx  map[string]fif.StrIdx
}

func newStrTab() *strTab {
	return &strTab{idx: make(map[string]fif.StrIdx)}
}

func (t *strTab) str(s string) fif.StrIdx {
	if i, ok := t.idx[s]; ok {
		return i
	}
	i := fif.StrIdx(len(t.strs))
	t.strs = append(t.strs, s)
	t.idx[s] = i
	return i
}

// testDevice builds a two-tile interconnect column plus a CLE tile and an
// out-of-bounds tile:
//
//	INT_X0Y0: wires A -> B (directional PIP), B <-> C (bidirectional PIP)
//	INT_X1Y0: same tile type; its wire A shares a node with INT_X0Y0's C
//	CLE_X0Y1: one pseudo-cell PIP (must be filtered out)
//	INT_X9Y9: out of bounds for the test region
//
// Node numbering: n0={X0Y0/A} n1={X0Y0/B} n2={X0Y0/C, X1Y0/A} n3={X1Y0/B}
// n4={X1Y0/C} n5={CLE/A} n6={CLE/B} n7={X9Y9/A}.
//
// Each INT tile carries one site of type SLICE whose pin O maps to wire A
// and pin I to wire C.
func testDevice() *fif.Device {
	t := newStrTab()
	dev := &fif.Device{Name: t.str("testdev")}

	a, b, c := t.str("A"), t.str("B"), t.str("C")
	dev.SiteTypeList = []fif.SiteType{{
		Name: t.str("SLICE"),
		Pins: []fif.SitePinDef{{Name: t.str("O")}, {Name: t.str("I")}},
	}}
	dev.TileTypeList = []fif.TileType{
		{
			Name:  t.str("INT"),
			Wires: []fif.StrIdx{a, b, c},
			Pips: []fif.PIP{
				{Wire0: 0, Wire1: 1, Directional: true, Variant: fif.PIPConventional},
				{Wire0: 1, Wire1: 2, Directional: false, Variant: fif.PIPConventional},
			},
			SiteTypes: []fif.SiteTypeInTileType{{
				PrimaryType:            0,
				PrimaryPinsToTileWires: []fif.StrIdx{a, c},
			}},
		},
		{
			Name:  t.str("CLE"),
			Wires: []fif.StrIdx{a, b},
			Pips: []fif.PIP{
				{Wire0: 0, Wire1: 1, Directional: true, Variant: fif.PIPPseudoCells},
			},
		},
	}

	t0 := t.str("INT_X0Y0")
	t1 := t.str("INT_X1Y0")
	t2 := t.str("CLE_X0Y1")
	t3 := t.str("INT_X9Y9")
	dev.TileList = []fif.Tile{
		{Name: t0, Type: 0, Sites: []fif.Site{{Name: t.str("SITE0"), Type: 0}}},
		{Name: t1, Type: 0, Sites: []fif.Site{{Name: t.str("SITE1"), Type: 0}}},
		{Name: t2, Type: 1},
		{Name: t3, Type: 0, Sites: []fif.Site{{Name: t.str("SITEFAR"), Type: 0}}},
	}

	dev.Wires = []fif.Wire{
		{Tile: t0, Wire: a}, {Tile: t0, Wire: b}, {Tile: t0, Wire: c},
		{Tile: t1, Wire: a}, {Tile: t1, Wire: b}, {Tile: t1, Wire: c},
		{Tile: t2, Wire: a}, {Tile: t2, Wire: b},
		{Tile: t3, Wire: a},
	}
	dev.Nodes = []fif.Node{
		{Wires: []uint32{0}},
		{Wires: []uint32{1}},
		{Wires: []uint32{2, 3}},
		{Wires: []uint32{4}},
		{Wires: []uint32{5}},
		{Wires: []uint32{6}},
		{Wires: []uint32{7}},
		{Wires: []uint32{8}},
	}

	dev.StrList = t.strs
	return dev
}

// netBuilder assembles a physical netlist fixture.
type netBuilder struct {
	*strTab
	phys *fif.PhysNetlist
}

func newNetBuilder() *netBuilder {
	return &netBuilder{strTab: newStrTab(), phys: &fif.PhysNetlist{}}
}

func (b *netBuilder) build() *fif.PhysNetlist {
	b.phys.StrList = b.strs
	return b.phys
}

func (b *netBuilder) sitePin(site, pin string) fif.RouteBranch {
	return fif.RouteBranch{RouteSegment: fif.RouteSegment{
		Kind:    fif.SegSitePin,
		SitePin: &fif.PhysSitePin{Site: b.str(site), Pin: b.str(pin)},
	}}
}

func (b *netBuilder) pip(tile, wire0, wire1 string, forward bool) fif.RouteBranch {
	return fif.RouteBranch{RouteSegment: fif.RouteSegment{
		Kind: fif.SegPIP,
		PIP: &fif.PhysPIP{
			Tile:    b.str(tile),
			Wire0:   b.str(wire0),
			Wire1:   b.str(wire1),
			Forward: forward,
		},
	}}
}

func (b *netBuilder) addNet(name string, typ fif.NetType, sources, stubs []fif.RouteBranch) {
	b.phys.PhysNets = append(b.phys.PhysNets, fif.PhysNet{
		Name:    b.str(name),
		Type:    typ,
		Sources: sources,
		Stubs:   stubs,
	})
}
