package netprint

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/interroute/fif"
)

// The fixture net is a three-segment trunk with one side branch:
//
//	belPin S0 AFF Q
//	 +- pip INT_X0Y0 A B       (trunk)
//	 |   +- sitePin S1 I       (trunk leaf)
//	 +- sitePin S0 AQ          (side branch)
func fixture() *fif.PhysNetlist {
	strs := []string{"n1", "S0", "AFF", "Q", "INT_X0Y0", "A", "B", "S1", "I", "AQ", "n2"}
	idx := func(s string) fif.StrIdx {
		for i, v := range strs {
			if v == s {
				return fif.StrIdx(i)
			}
		}
		panic(s)
	}
	return &fif.PhysNetlist{
		StrList: strs,
		PhysNets: []fif.PhysNet{
			{
				Name: idx("n1"),
				Type: fif.NetSignal,
				Sources: []fif.RouteBranch{{
					RouteSegment: fif.RouteSegment{
						Kind:   fif.SegBelPin,
						BelPin: &fif.PhysBelPin{Site: idx("S0"), Bel: idx("AFF"), Pin: idx("Q")},
					},
					Branches: []fif.RouteBranch{
						{
							RouteSegment: fif.RouteSegment{
								Kind: fif.SegPIP,
								PIP: &fif.PhysPIP{
									Tile: idx("INT_X0Y0"), Wire0: idx("A"), Wire1: idx("B"),
									Forward: true,
								},
							},
							Branches: []fif.RouteBranch{{
								RouteSegment: fif.RouteSegment{
									Kind:    fif.SegSitePin,
									SitePin: &fif.PhysSitePin{Site: idx("S1"), Pin: idx("I")},
								},
							}},
						},
						{
							RouteSegment: fif.RouteSegment{
								Kind:    fif.SegSitePin,
								SitePin: &fif.PhysSitePin{Site: idx("S0"), Pin: idx("AQ")},
							},
						},
					},
				}},
			},
			{Name: idx("n2"), Type: fif.NetSignal},
		},
	}
}

var _ = Describe("PrintNets", func() {
	It("should print side branches before continuing the trunk", func() {
		var buf bytes.Buffer
		PrintNets(&buf, fixture(), []string{"n1"})

		expected := strings.Join([]string{
			"============================================================",
			"Route tree for net: n1",
			"",
			"    Source: 0",
			"    [{      belPin  S0 AFF Q",
			"     {   }  sitePin S0 AQ",
			"            pip     INT_X0Y0 A B true false",
			"         }] sitePin S1 I",
			"============================================================",
			"",
		}, "\n")
		Expect(buf.String()).To(Equal(expected))
	})

	It("should print nothing for unknown nets", func() {
		var buf bytes.Buffer
		PrintNets(&buf, fixture(), []string{"nope"})
		Expect(buf.String()).To(BeEmpty())
	})

	It("should only print the requested nets", func() {
		var buf bytes.Buffer
		PrintNets(&buf, fixture(), []string{"n2"})
		Expect(buf.String()).To(ContainSubstring("Route tree for net: n2"))
		Expect(buf.String()).ToNot(ContainSubstring("n1"))
	})
})
