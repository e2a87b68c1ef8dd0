package router

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/sarchlab/interroute/config"
	"github.com/sarchlab/interroute/fif"
)

var reTileNameXY = regexp.MustCompile(`^[A-Z0-9_]+_X(\d+)Y(\d+)`)

// SiteTypePin keys a site-pin-to-wire lookup within one tile type. The
// site type is the index into the tile type's SiteTypes list.
type SiteTypePin struct {
	SiteType uint32
	Pin      string
}

// TileAndTypes locates a site: its tile name plus tile-type and in-tile
// site-type indices.
type TileAndTypes struct {
	Tile     string
	TileType uint32
	SiteType uint32
}

// Lookups are the side tables built alongside the graph and needed only
// between construction and net preparation. Preparation drops them to
// reclaim memory before routing.
type Lookups struct {
	// TileTypeSitePinWire maps tileType -> (siteType, pinName) -> wire name.
	TileTypeSitePinWire map[uint32]map[SiteTypePin]string
	// SiteTileAndTypes maps a site name to its tile and type indices.
	SiteTileAndTypes map[string]TileAndTypes
	// TileWireNode maps tile name -> wire name -> graph node.
	TileWireNode map[string]map[string]NodeID
}

// NodeFromSitePin resolves a site pin to its graph node. Sites outside
// the in-bounds region (or pins whose wire joined no in-bounds node)
// report ok=false.
func (l *Lookups) NodeFromSitePin(site, pin string) (NodeID, bool) {
	tt, ok := l.SiteTileAndTypes[site]
	if !ok {
		return 0, false
	}
	wireName, ok := l.TileTypeSitePinWire[tt.TileType][SiteTypePin{tt.SiteType, pin}]
	if !ok {
		return 0, false
	}
	node, ok := l.TileWireNode[tt.Tile][wireName]
	return node, ok
}

// Builder constructs the routing graph for the in-bounds rectangle of a
// device.
type Builder struct {
	device *fif.Device
	region config.Region
	log    *zap.Logger
}

// WithDevice sets the parsed device resources.
func (b Builder) WithDevice(d *fif.Device) Builder {
	b.device = d
	return b
}

// WithRegion sets the in-bounds rectangle.
func (b Builder) WithRegion(r config.Region) Builder {
	b.region = r
	return b
}

// WithLogger sets the progress logger.
func (b Builder) WithLogger(l *zap.Logger) Builder {
	b.log = l
	return b
}

// Build constructs the graph and its side lookups.
//
// Vertices are device node indices whose base wire (the node's first
// wire) lies in an in-bounds tile. Edges come from the PIPs of in-bounds
// tiles whose both wires resolved to a vertex; bidirectional PIPs yield a
// reverse edge as well.
func (b Builder) Build() (*Graph, *Lookups) {
	log := b.log
	if log == nil {
		log = zap.NewNop()
	}
	dev := b.device
	s := dev.StrList
	g := NewGraph()
	log.Info("building routing graph")

	tstart := time.Now()

	// Collect the in-bounds tiles.
	tileNames := make(map[fif.StrIdx]bool)
	var tiles []*fif.Tile
	for ti := range dev.TileList {
		tile := &dev.TileList[ti]
		m := reTileNameXY.FindStringSubmatch(s[tile.Name])
		if m == nil {
			continue
		}
		x, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		if !b.region.Contains(x, y) {
			continue
		}
		tileNames[tile.Name] = true
		tiles = append(tiles, tile)
	}

	// Insert nodes. The device provides node -> wire; the reverse wire ->
	// node map is built here, keyed by string indices for now.
	wires := dev.Wires
	tileWireNode := make(map[fif.StrIdx]map[fif.StrIdx]NodeID)
	for nodeIdx := range dev.Nodes {
		node := &dev.Nodes[nodeIdx]
		baseWire := wires[node.Wires[0]]
		if !tileNames[baseWire.Tile] {
			// Node is rooted in an out-of-bounds tile.
			continue
		}
		g.AddNode(NodeID(nodeIdx))
		for _, wireIdx := range node.Wires {
			wire := wires[wireIdx]
			w2n := tileWireNode[wire.Tile]
			if w2n == nil {
				w2n = make(map[fif.StrIdx]NodeID)
				tileWireNode[wire.Tile] = w2n
			}
			w2n[wire.Wire] = NodeID(nodeIdx)
		}
	}
	log.Info("built graph nodes",
		zap.String("nodes", humanize.Comma(int64(g.NumNodes()))),
		zap.Duration("elapsed", time.Since(tstart)))
	tstart = time.Now()

	// Insert edges. The tile type holds the superset of PIPs that can
	// exist; device-boundary irregularity shows up as a PIP wire with no
	// node, which drops the PIP.
	type pipKey struct {
		wire0   fif.StrIdx
		wire1   fif.StrIdx
		forward bool
	}
	pipDataIdx := make(map[pipKey]int32)
	internPIP := func(w0, w1 fif.StrIdx, forward bool) int32 {
		k := pipKey{w0, w1, forward}
		if i, ok := pipDataIdx[k]; ok {
			return i
		}
		i := g.AppendPIPData(PIPData{Wire0: s[w0], Wire1: s[w1], Forward: forward})
		pipDataIdx[k] = i
		return i
	}
	for _, tile := range tiles {
		wire2node := tileWireNode[tile.Name]
		if wire2node == nil {
			// No nodes in this tile.
			continue
		}
		tileName := s[tile.Name]
		// CLE tiles carry LUT route-thrus that traverse an entire site,
		// RCLK tiles carry BUFCE route-thrus into the global network;
		// neither is ordinary interconnect the router may use.
		isCleOrRclk := strings.HasPrefix(tileName, "CLE") || strings.HasPrefix(tileName, "RCLK")
		tileType := &dev.TileTypeList[tile.Type]
		tileWires := tileType.Wires
		tileIdx := g.InternTile(tileName)
		for pi := range tileType.Pips {
			pip := &tileType.Pips[pi]
			if isCleOrRclk && pip.Variant != fif.PIPConventional {
				continue
			}
			wire0Name := tileWires[pip.Wire0]
			node0, ok := wire2node[wire0Name]
			if !ok {
				continue
			}
			wire1Name := tileWires[pip.Wire1]
			node1, ok := wire2node[wire1Name]
			if !ok {
				continue
			}
			g.AddEdge(node0, node1, tileIdx, internPIP(wire0Name, wire1Name, true))
			if !pip.Directional {
				g.AddEdge(node1, node0, tileIdx, internPIP(wire0Name, wire1Name, false))
			}
		}
	}
	log.Info("built graph edges",
		zap.String("edges", humanize.Comma(int64(g.NumEdges()))),
		zap.Duration("elapsed", time.Since(tstart)))
	tstart = time.Now()

	lookups := b.buildLookups(tiles, tileWireNode)
	log.Info("built lookups", zap.Duration("elapsed", time.Since(tstart)))
	return g, lookups
}

func (b Builder) buildLookups(
	tiles []*fif.Tile,
	tileWireNode map[fif.StrIdx]map[fif.StrIdx]NodeID,
) *Lookups {
	dev := b.device
	s := dev.StrList
	l := &Lookups{
		TileTypeSitePinWire: make(map[uint32]map[SiteTypePin]string),
		SiteTileAndTypes:    make(map[string]TileAndTypes),
		TileWireNode:        make(map[string]map[string]NodeID, len(tileWireNode)),
	}

	// Site type -> ordered pin names.
	siteTypePinNames := make([][]string, len(dev.SiteTypeList))
	for sti := range dev.SiteTypeList {
		st := &dev.SiteTypeList[sti]
		names := make([]string, len(st.Pins))
		for pi, pin := range st.Pins {
			names[pi] = s[pin.Name]
		}
		siteTypePinNames[sti] = names
	}

	for tti := range dev.TileTypeList {
		tileType := &dev.TileTypeList[tti]
		for sti := range tileType.SiteTypes {
			st := &tileType.SiteTypes[sti]
			pinNames := siteTypePinNames[st.PrimaryType]
			m := l.TileTypeSitePinWire[uint32(tti)]
			if m == nil {
				m = make(map[SiteTypePin]string)
				l.TileTypeSitePinWire[uint32(tti)] = m
			}
			for pinIndex, wireName := range st.PrimaryPinsToTileWires {
				m[SiteTypePin{uint32(sti), pinNames[pinIndex]}] = s[wireName]
			}
		}
	}

	for _, tile := range tiles {
		for _, site := range tile.Sites {
			l.SiteTileAndTypes[s[site.Name]] = TileAndTypes{
				Tile:     s[tile.Name],
				TileType: tile.Type,
				SiteType: site.Type,
			}
		}
	}

	// Rewrite the wire-to-node map onto string keys so that it outlives
	// the device string table.
	for tileName, w2n := range tileWireNode {
		byName := make(map[string]NodeID, len(w2n))
		for wireName, node := range w2n {
			byName[s[wireName]] = node
		}
		l.TileWireNode[s[tileName]] = byName
	}
	return l
}
