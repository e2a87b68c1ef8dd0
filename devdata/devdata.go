// Package devdata carries the per-device parameter tables consumed by the
// wirelength analyzer: cell connectivity rules, the PIP wirelength table,
// and the sets of recognized tile roots and global-net-driving BELs.
package devdata

import (
	"errors"
	"regexp"
)

// Sentinel errors for unrecognized device data. Hitting one of these means
// the tables below need to be extended before the input can be analyzed.
var (
	ErrUnrecognizedTile = errors.New("unrecognized tile on PIP")
	ErrUnrecognizedPIP  = errors.New("unrecognized pip wire")
	ErrUnknownCells     = errors.New("unrecognized cells")
)

// ConnectivityKind tags the variant of a cell connectivity rule.
type ConnectivityKind uint8

const (
	// Sequential cells form register boundaries: no output is
	// combinatorially reachable from any input.
	Sequential ConnectivityKind = iota
	// Combinatorial cells connect every input to every output.
	Combinatorial
	// Tabulated cells carry a hand-written output-to-inputs table.
	Tabulated
)

// Connectivity describes which input pins of a cell are combinatorially
// connected to a given output pin.
type Connectivity struct {
	Kind  ConnectivityKind
	Table map[string]PinSet
}

// Inputs returns the set of input pins reachable backwards from the given
// output pin. For tabulated cells an unknown output pin reports ok=false.
func (c Connectivity) Inputs(outputPin string) (PinSet, bool) {
	switch c.Kind {
	case Sequential:
		return PinSet{}, true
	case Combinatorial:
		return PinSet{universal: true}, true
	}
	s, ok := c.Table[outputPin]
	return s, ok
}

// SequentialCell returns the connectivity of a register boundary.
func SequentialCell() Connectivity { return Connectivity{Kind: Sequential} }

// CombinatorialCell returns the all-to-all connectivity.
func CombinatorialCell() Connectivity { return Connectivity{Kind: Combinatorial} }

// TabulatedCell builds a cell-specific connectivity from an
// output-pin-to-input-pins table.
func TabulatedCell(table map[string][]string) Connectivity {
	t := make(map[string]PinSet, len(table))
	for out, ins := range table {
		t[out] = NewPinSet(ins...)
	}
	return Connectivity{Kind: Tabulated, Table: t}
}

// PinSet is a set of pin names. The universal set (every pin is a member)
// is a sentinel rather than a materialized collection.
type PinSet struct {
	universal bool
	pins      map[string]struct{}
}

// NewPinSet builds a set from explicit pin names.
func NewPinSet(pins ...string) PinSet {
	m := make(map[string]struct{}, len(pins))
	for _, p := range pins {
		m[p] = struct{}{}
	}
	return PinSet{pins: m}
}

// Contains reports membership.
func (s PinSet) Contains(pin string) bool {
	if s.universal {
		return true
	}
	_, ok := s.pins[pin]
	return ok
}

// PipClass pairs a wire-name pattern with the wirelength assigned to PIPs
// whose end wire matches it. Patterns must match the whole wire name.
type PipClass struct {
	Pattern *regexp.Regexp
	Length  int32
}

// DeviceData is the full parameter set for one device family.
type DeviceData struct {
	// Cells maps a cell type to its connectivity rule.
	Cells map[string]Connectivity
	// Pips is the ordered wirelength table; first match wins.
	Pips []PipClass
	// TileRootName strips the _X<x>Y<y> location suffix; group 1 is the root.
	TileRootName *regexp.Regexp
	// TileTypes is the set of recognized non-interconnect tile roots.
	TileTypes map[string]bool
	// GlobalNetDrivers names the BELs whose outputs feed global routing.
	GlobalNetDrivers map[string]bool
}

// fullMatch compiles a pattern that must cover the entire wire name.
func fullMatch(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)$`)
}
