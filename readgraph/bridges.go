package readgraph

// FlagBridges marks every edge e=(a,b) for which no path of length
// <= radius between a and b survives e's removal (spec.md §4.5 "bridge
// edges"): such an edge is a cut edge in its local neighborhood, and the
// read pair it connects is the sole evidence tying its two sides
// together. Bridges are flagged, not removed, so later stages (e.g.
// marker graph cleaning) can decide how cautiously to trust them.
func (g *Graph) FlagBridges(radius int) {
	for _, e := range g.edges {
		if !e.Kept {
			continue
		}
		if !g.reachableWithinExcluding(e.OrientedReadId0, e.OrientedReadId1, radius, e) {
			e.Bridge = true
		}
	}
}
