package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sarchlab/interroute/devdata"
)

// JoinNets connects leaf vertices to root vertices through the
// combinatorial logic of shared BELs, turning the forest of per-net trees
// into one DAG. Every added edge carries zero wirelength.
//
// For each BEL the leaves driving its input pins are collected; for each
// root it drives, the cell placed on the BEL determines (through the
// device connectivity tables) which of those inputs reach the root's
// output pin. Cell types missing from the tables are collected and
// reported in one fatal error.
func (a *Analyzer) JoinNets() error {
	tstart := time.Now()
	sl := a.phys.StrList

	joinPoints := make(map[belKey]map[string]int32)
	for _, l := range a.leaves {
		leaf := a.nodes[l].seg.BelPin
		k := belKey{leaf.Site, leaf.Bel}
		m := joinPoints[k]
		if m == nil {
			m = make(map[string]int32)
			joinPoints[k] = m
		}
		m[sl[leaf.Pin]] = l
	}

	type unknownCell struct {
		cellType string
		bel      string
	}
	unknown := make(map[unknownCell][]string)

	for _, r := range a.roots {
		root := a.nodes[r].seg.BelPin
		k := belKey{root.Site, root.Bel}
		belInputs := joinPoints[k]
		if len(belInputs) == 0 {
			continue
		}
		pl, ok := a.placements[k]
		if !ok {
			return fmt.Errorf("no cell placed on %s/%s driving net %s",
				sl[root.Site], sl[root.Bel], a.netNameFromEdge(r, a.succ[r][0].to))
		}
		cellType := sl[pl.Type]
		conn, ok := a.data.Cells[cellType]
		if !ok {
			uk := unknownCell{cellType: cellType, bel: sl[root.Bel]}
			unknown[uk] = append(unknown[uk], a.netNameFromEdge(r, a.succ[r][0].to))
			continue
		}
		connections, ok := conn.Inputs(sl[root.Pin])
		if !ok {
			return fmt.Errorf("cell type %s has no connectivity entry for output pin %s",
				cellType, sl[root.Pin])
		}
		for pin, leaf := range belInputs {
			if connections.Contains(pin) {
				a.addEdge(leaf, r, 0)
			}
		}
	}

	if len(unknown) > 0 {
		var entries []string
		for uk, nets := range unknown {
			entries = append(entries, fmt.Sprintf("(%s, %s): %v", uk.cellType, uk.bel, nets))
		}
		sort.Strings(entries)
		return fmt.Errorf("%w: %s", devdata.ErrUnknownCells, strings.Join(entries, "; "))
	}

	a.joined = true
	a.log.Info("joined nets", zap.Duration("elapsed", time.Since(tstart)))
	return nil
}
