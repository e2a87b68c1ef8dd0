// Package netprint renders the route trees of chosen nets the way they
// appear in a physical netlist file.
package netprint

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/interroute/fif"
)

// PrintNets prints the route trees of every net whose name appears in
// names. Trunk branches are marked with [{ ... }] and side branches with
// { ... }; sibling branches print before the trunk continues.
func PrintNets(w io.Writer, phys *fif.PhysNetlist, names []string) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	sl := phys.StrList
	sep := strings.Repeat("=", 60)
	first := true
	for ni := range phys.PhysNets {
		n := &phys.PhysNets[ni]
		if !wanted[sl[n.Name]] {
			continue
		}
		if first {
			fmt.Fprintln(w, sep)
			first = false
		}
		fmt.Fprintln(w, "Route tree for net:", sl[n.Name])
		for i := range n.Sources {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "    Source:", i)
			printBranch(w, sl, &n.Sources[i], true, true)
		}
		for i := range n.Stubs {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "    Stub:", i)
			printBranch(w, sl, &n.Stubs[i], true, true)
		}
		fmt.Fprintln(w, sep)
	}
}

func printBranch(w io.Writer, sl []string, rb *fif.RouteBranch, first, trunk bool) {
	prefix := "    "
	switch {
	case first && trunk:
		prefix += "[{"
	case first:
		prefix += " {"
	default:
		prefix += "  "
	}
	prefix += "   "
	switch {
	case len(rb.Branches) == 0 && trunk:
		prefix += "}] "
	case len(rb.Branches) == 0:
		prefix += "}  "
	default:
		prefix += "   "
	}
	fmt.Fprint(w, prefix)
	fmt.Fprintln(w, rb.RouteSegment.Format(sl))

	if len(rb.Branches) >= 2 {
		for i := 1; i < len(rb.Branches); i++ {
			printBranch(w, sl, &rb.Branches[i], true, false)
		}
	}
	if len(rb.Branches) > 0 {
		printBranch(w, sl, &rb.Branches[0], false, trunk)
	}
}
