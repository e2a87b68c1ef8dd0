// Package fif defines the passive data model for FPGA Interchange device
// resources and physical netlists, together with a gzip-aware reader and
// writer for both message kinds.
//
// All string data inside a message is interned in a per-file string table;
// every other field that references a string does so by index (StrIdx).
package fif

// StrIdx indexes into a message's string table.
type StrIdx uint32

// Device is the parsed DeviceResources message.
type Device struct {
	Name         StrIdx     `cbor:"name"`
	StrList      []string   `cbor:"strList"`
	TileList     []Tile     `cbor:"tileList"`
	TileTypeList []TileType `cbor:"tileTypeList"`
	SiteTypeList []SiteType `cbor:"siteTypeList"`
	Wires        []Wire     `cbor:"wires"`
	Nodes        []Node     `cbor:"nodes"`
}

// Tile is a physical grid location, named <type>_X<x>Y<y>.
type Tile struct {
	Name  StrIdx `cbor:"name"`
	Type  uint32 `cbor:"type"`
	Sites []Site `cbor:"sites"`
}

// Site is a named placement slot inside a tile. Type indexes into the
// owning tile type's SiteTypes list, not into Device.SiteTypeList.
type Site struct {
	Name StrIdx `cbor:"name"`
	Type uint32 `cbor:"type"`
}

// TileType is the template shared by all tiles of one type.
type TileType struct {
	Name      StrIdx               `cbor:"name"`
	Wires     []StrIdx             `cbor:"wires"`
	Pips      []PIP                `cbor:"pips"`
	SiteTypes []SiteTypeInTileType `cbor:"siteTypes"`
}

// PIPVariant distinguishes ordinary interconnect PIPs from route-thru
// forms that borrow site-internal resources.
type PIPVariant uint8

const (
	PIPConventional PIPVariant = iota
	PIPPseudoCells
)

// PIP is a programmable connection between two wires of a tile type.
// Wire0 and Wire1 index into the tile type's Wires list.
type PIP struct {
	Wire0       uint32     `cbor:"wire0"`
	Wire1       uint32     `cbor:"wire1"`
	Directional bool       `cbor:"directional"`
	Variant     PIPVariant `cbor:"variant"`
}

// SiteTypeInTileType relates a site slot of a tile type to its primary
// site type and maps the site's pin indices to tile wire names.
type SiteTypeInTileType struct {
	PrimaryType            uint32   `cbor:"primaryType"`
	PrimaryPinsToTileWires []StrIdx `cbor:"primaryPinsToTileWires"`
}

// SiteType is a template for sites; its pin list is ordered and indexed
// by SiteTypeInTileType.PrimaryPinsToTileWires.
type SiteType struct {
	Name StrIdx       `cbor:"name"`
	Pins []SitePinDef `cbor:"pins"`
}

// SitePinDef names one externally visible pin of a site type.
type SitePinDef struct {
	Name StrIdx `cbor:"name"`
}

// Wire identifies a wire by its tile name index and wire name index.
type Wire struct {
	Tile StrIdx `cbor:"tile"`
	Wire StrIdx `cbor:"wire"`
}

// Node is an electrical equivalence class of wires, potentially spanning
// tiles. Entries index into Device.Wires.
type Node struct {
	Wires []uint32 `cbor:"wires"`
}
