package analyzer

import (
	"fmt"
	"strings"

	"github.com/sarchlab/interroute/fif"
)

// prettyPrintPath formats and prints a path through the graph.
//
// At verbosity 0 only the path name and total wirelength are printed. At
// verbosity 1 the sources and sinks of every net along the path appear
// with a running wirelength total and the cells that join consecutive
// nets; the detailed routing is elided. At verbosity 2 each edge is
// expanded to its full PIP sequence.
//
// A path alternates net-source and net-leaf vertices, so the scored edges
// are the consecutive pairs at even offsets; the odd pairs are the
// zero-length join hops.
func (a *Analyzer) prettyPrintPath(path []int32, pathName string) error {
	var length int64
	var formatted []string
	var cellsOnPath []string
	sl := a.phys.StrList

	appendLine := func(segLen *int32, running *int64, segment, net string) {
		var b strings.Builder
		b.WriteString("   ")
		if segLen != nil {
			fmt.Fprintf(&b, "%5d", *segLen)
		} else {
			b.WriteString("     ")
		}
		b.WriteString("|")
		if running != nil {
			fmt.Fprintf(&b, "    %5d", *running)
		} else {
			b.WriteString("         ")
		}
		b.WriteString("|")
		if segment != "" {
			b.WriteString(" " + segment)
		}
		if net != "" {
			b.WriteString(" " + net)
		}
		formatted = append(formatted, b.String())
	}

	formatted = append(formatted,
		"Segment | Running |",
		"Length  |  Total  | Segment Name",
		"--------+---------+-----------------------------------------")

	firstSeg := a.nodes[path[0]].seg
	firstCell, ok := a.placements[belKey{firstSeg.BelPin.Site, firstSeg.BelPin.Bel}]
	if !ok {
		return fmt.Errorf("no cell placed on path source %s", firstSeg.Format(sl))
	}
	appendLine(nil, &length, "cell    "+sl[firstCell.CellName], "")
	cellsOnPath = append(cellsOnPath, sl[firstCell.CellName])

	for i := 0; i+1 < len(path); i += 2 {
		u, v := path[i], path[i+1]
		wl := a.edgeWirelength(u, v)
		length += int64(wl)
		if a.verbosity < 1 {
			continue
		}

		netName := a.netIndexToName(a.nodes[u].net)
		sourceSeg := a.nodes[u].seg
		sinkSeg := a.nodes[v].seg

		sourceLen, err := a.segmentWirelength(sourceSeg)
		if err != nil {
			return err
		}
		sinkLen, err := a.segmentWirelength(sinkSeg)
		if err != nil {
			return err
		}

		appendLine(&sourceLen, nil, sourceSeg.Format(sl), "(start of net: "+netName+")")

		if a.verbosity <= 1 {
			appendLine(&wl, nil, "...", "")
		} else {
			expanded := a.ExpandEdge(u, v)
			if expanded == nil {
				return fmt.Errorf("cannot expand edge %s -> %s on net %s",
					sourceSeg.Format(sl), sinkSeg.Format(sl), netName)
			}
			for _, seg := range expanded[1 : len(expanded)-1] {
				w, err := a.segmentWirelength(seg)
				if err != nil {
					return err
				}
				appendLine(&w, nil, seg.Format(sl), "")
			}
		}

		appendLine(&sinkLen, nil, sinkSeg.Format(sl), "")

		joinCell, ok := a.placements[belKey{sinkSeg.BelPin.Site, sinkSeg.BelPin.Bel}]
		if !ok {
			return fmt.Errorf("no cell placed on path sink %s", sinkSeg.Format(sl))
		}
		cellsOnPath = append(cellsOnPath, sl[joinCell.CellName])
		appendLine(nil, &length, "cell    "+sl[joinCell.CellName], "")
	}

	if a.verbosity < 1 {
		fmt.Fprintln(a.out, pathName, "Wirelength:", length)
		return nil
	}

	sep := strings.Repeat("=", 60)
	fmt.Fprintln(a.out, sep)
	fmt.Fprintln(a.out, "Routing path for", pathName)
	fmt.Fprintln(a.out, "Wirelength:", length)
	for _, l := range formatted {
		fmt.Fprintln(a.out, l)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, sep)
	if a.emitTiming {
		fmt.Fprintln(a.out)
		for _, cmd := range VivadoTimingCommands(cellsOnPath) {
			fmt.Fprintln(a.out, cmd)
			fmt.Fprintln(a.out)
		}
	}
	return nil
}

// VivadoTimingCommands renders two Vivado Tcl commands over the cells of
// a path: a report_timing from the first cell, through every intermediate
// cell, to the last cell, and a select_objects over the same cells.
func VivadoTimingCommands(cellsOnPath []string) []string {
	var b strings.Builder
	b.WriteString("report_timing -from {" + cellsOnPath[0] + "} ")
	if n := len(cellsOnPath); n > 1 {
		for _, cell := range cellsOnPath[1 : n-1] {
			b.WriteString("-through {" + cell + "} ")
		}
		b.WriteString("-to {" + cellsOnPath[n-1] + "} ")
	}
	b.WriteString("-delay_type min_max -max_paths 10 -sort_by group -input_pins -routable_nets -name timing_1")
	report := b.String()

	b.Reset()
	b.WriteString("select_objects [get_cells {")
	for _, cell := range cellsOnPath {
		b.WriteString(cell + " ")
	}
	b.WriteString("}]")
	return []string{report, b.String()}
}

// Segment returns the route segment behind a graph vertex.
func (a *Analyzer) Segment(v int32) *fif.RouteSegment { return a.nodes[v].seg }

// Wirelength sums the scored edges of a path, mirroring what the printer
// reports.
func (a *Analyzer) Wirelength(path []int32) int64 {
	var length int64
	for i := 0; i+1 < len(path); i += 2 {
		length += int64(a.edgeWirelength(path[i], path[i+1]))
	}
	return length
}
