package fif

import "fmt"

// Format renders a segment for diagnostics, resolving string indices
// through the given string table.
func (s *RouteSegment) Format(strs []string) string {
	if s == nil {
		return "NULL"
	}
	switch s.Kind {
	case SegBelPin:
		return fmt.Sprintf("%-7s %s %s %s", s.Kind,
			strs[s.BelPin.Site], strs[s.BelPin.Bel], strs[s.BelPin.Pin])
	case SegSitePin:
		return fmt.Sprintf("%-7s %s %s", s.Kind,
			strs[s.SitePin.Site], strs[s.SitePin.Pin])
	case SegPIP:
		return fmt.Sprintf("%-7s %s %s %s %t %t", s.Kind,
			strs[s.PIP.Tile], strs[s.PIP.Wire0], strs[s.PIP.Wire1],
			s.PIP.Forward, s.PIP.IsFixed)
	case SegSitePIP:
		return fmt.Sprintf("%-7s %s %s %s %t", s.Kind,
			strs[s.SitePIP.Site], strs[s.SitePIP.Bel], strs[s.SitePIP.Pin],
			s.SitePIP.IsFixed)
	}
	return s.Kind.String()
}

// Equal reports structural equality of two segments.
func (s *RouteSegment) Equal(o *RouteSegment) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case SegBelPin:
		return *s.BelPin == *o.BelPin
	case SegSitePin:
		return *s.SitePin == *o.SitePin
	case SegPIP:
		return *s.PIP == *o.PIP
	case SegSitePIP:
		return *s.SitePIP == *o.SitePIP
	}
	return false
}
