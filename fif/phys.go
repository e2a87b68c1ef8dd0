package fif

// NetType classifies a physical net.
type NetType uint8

const (
	NetSignal NetType = iota
	NetGnd
	NetVcc
)

func (t NetType) String() string {
	switch t {
	case NetSignal:
		return "signal"
	case NetGnd:
		return "gnd"
	case NetVcc:
		return "vcc"
	}
	return "unknown"
}

// PhysNetlist is the parsed PhysicalNetlist message.
type PhysNetlist struct {
	Part       StrIdx          `cbor:"part"`
	Placements []CellPlacement `cbor:"placements"`
	PhysNets   []PhysNet       `cbor:"physNets"`
	StrList    []string        `cbor:"strList"`
}

// CellPlacement maps a logical cell onto a (site, bel) location.
type CellPlacement struct {
	CellName StrIdx `cbor:"cellName"`
	Type     StrIdx `cbor:"type"`
	Site     StrIdx `cbor:"site"`
	Bel      StrIdx `cbor:"bel"`
}

// PhysNet is one routed or partially routed net. Sources carry the routing
// trees rooted at driver pins; Stubs are unrouted sink branches.
type PhysNet struct {
	Name      StrIdx        `cbor:"name"`
	Type      NetType       `cbor:"type"`
	Sources   []RouteBranch `cbor:"sources"`
	Stubs     []RouteBranch `cbor:"stubs"`
	StubNodes []uint32      `cbor:"stubNodes,omitempty"`
}

// RouteBranch is a recursive routing-tree node.
type RouteBranch struct {
	RouteSegment RouteSegment  `cbor:"routeSegment"`
	Branches     []RouteBranch `cbor:"branches,omitempty"`
}

// SegmentKind tags the active variant of a RouteSegment.
type SegmentKind uint8

const (
	SegBelPin SegmentKind = iota
	SegSitePin
	SegPIP
	SegSitePIP
)

func (k SegmentKind) String() string {
	switch k {
	case SegBelPin:
		return "belPin"
	case SegSitePin:
		return "sitePin"
	case SegPIP:
		return "pip"
	case SegSitePIP:
		return "sitePIP"
	}
	return "unknown"
}

// RouteSegment is the tagged union carried by every RouteBranch. Exactly
// the field selected by Kind is non-nil.
type RouteSegment struct {
	Kind    SegmentKind  `cbor:"kind"`
	BelPin  *PhysBelPin  `cbor:"belPin,omitempty"`
	SitePin *PhysSitePin `cbor:"sitePin,omitempty"`
	PIP     *PhysPIP     `cbor:"pip,omitempty"`
	SitePIP *PhysSitePIP `cbor:"sitePIP,omitempty"`
}

// PhysBelPin is a pin on a BEL inside a site.
type PhysBelPin struct {
	Site StrIdx `cbor:"site"`
	Bel  StrIdx `cbor:"bel"`
	Pin  StrIdx `cbor:"pin"`
}

// PhysSitePin is an externally visible pin of a site.
type PhysSitePin struct {
	Site StrIdx `cbor:"site"`
	Pin  StrIdx `cbor:"pin"`
}

// PhysPIP is a traversed programmable interconnect point. Forward reports
// whether the PIP drives wire1 from wire0.
type PhysPIP struct {
	Tile    StrIdx `cbor:"tile"`
	Wire0   StrIdx `cbor:"wire0"`
	Wire1   StrIdx `cbor:"wire1"`
	Forward bool   `cbor:"forward"`
	IsFixed bool   `cbor:"isFixed"`
}

// PhysSitePIP is a site-internal routing mux setting.
type PhysSitePIP struct {
	Site    StrIdx `cbor:"site"`
	Bel     StrIdx `cbor:"bel"`
	Pin     StrIdx `cbor:"pin"`
	IsFixed bool   `cbor:"isFixed"`
}
