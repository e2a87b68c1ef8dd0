package router

import (
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Route finds a routing tree for every prepared net.
//
// Each sink is routed from the first source that reaches it with an
// unweighted breadth-first search; an unreachable sink is logged and
// skipped. While a multi-sink net is in flight, every incoming edge of a
// committed node other than its on-path predecessor is hidden so the
// net's routing stays a tree; the hidden edges return to the graph before
// the next net runs, so different nets may still share nodes.
func (r *Router) Route() {
	tstart := time.Now()
	total := 0
	for _, pn := range r.nets {
		total += len(pn.SinkNodes)
	}
	r.log.Info("routing pins", zap.String("pins", humanize.Comma(int64(total))))

	routed := 0
	var hidden []HiddenEdge
	s := r.phys.StrList
	for _, pn := range r.nets {
		multiSink := len(pn.SinkNodes) > 1
		for _, sink := range pn.SinkNodes {
			var path []NodeID
			for _, src := range pn.SourcePins {
				if path = r.g.ShortestPath(src.Node, sink); path != nil {
					break
				}
			}
			if path == nil {
				sp, _ := r.g.SinkPinOf(sink)
				r.log.Warn("unable to route sink pin",
					zap.String("site", sp.Site),
					zap.String("pin", sp.Pin),
					zap.String("net", s[pn.Name]))
				continue
			}
			for i := 0; i+1 < len(path); i++ {
				u, v := path[i], path[i+1]
				r.g.AddNetNext(u, pn.Name, v)
				if multiSink {
					hidden = r.g.HideInEdgesExcept(v, u, hidden)
				}
			}
			routed++
			if routed%10000 == 0 {
				r.log.Info("routed pins",
					zap.String("pins", humanize.Comma(int64(routed))),
					zap.Duration("elapsed", time.Since(tstart)))
			}
		}
		// Make the hidden edges available to the remaining nets.
		for _, e := range hidden {
			r.g.RestoreEdge(e)
		}
		hidden = hidden[:0]
	}
	r.log.Info("routing done",
		zap.String("pins", humanize.Comma(int64(routed))),
		zap.Duration("elapsed", time.Since(tstart)))
}
