package instance

// ClashGraph is a directed adjacency structure over AbstractIDs,
// adapted from the teacher repo's session ConflictGraph: there, nodes
// were ClassSessions and edges were inferred time/teacher overlaps;
// here, nodes are abstracts and each edge comes directly from one of
// the two explicit Clash/SpeakerClash references an abstract carries.
//
// Edges are NOT made symmetric: per DESIGN.md Open Question 1, the
// penalty is evaluated per declaring abstract, so a one-directional
// Clash reference contributes exactly once, and two abstracts that
// mutually reference each other (as in spec.md E5) each contribute
// their own edge independently, for a combined cost of 2 — not 4. An
// abstract whose Clash and SpeakerClash both point at the same target
// does get two entries in its own list, which is the intended "both
// relations present" case.
type ClashGraph struct {
	neighbours map[AbstractID][]AbstractID
	// declarers is the reverse index: declarers[t] lists abstracts that
	// name t as a Clash or SpeakerClash target. A delta evaluator that
	// only walks Neighbours(touched) would miss abstracts whose own
	// position didn't change but whose declared target's timeblock did
	// — declarers lets it find those too.
	declarers map[AbstractID][]AbstractID
}

func buildClashGraph(abstracts []Abstract) *ClashGraph {
	g := &ClashGraph{
		neighbours: make(map[AbstractID][]AbstractID, len(abstracts)),
		declarers:  make(map[AbstractID][]AbstractID, len(abstracts)),
	}
	add := func(a, target AbstractID) {
		g.neighbours[a] = append(g.neighbours[a], target)
		g.declarers[target] = append(g.declarers[target], a)
	}
	for _, a := range abstracts {
		if a.Clash != EMPTY && a.Clash != a.ID {
			add(a.ID, a.Clash)
		}
		if a.SpeakerClash != EMPTY && a.SpeakerClash != a.ID {
			add(a.ID, a.SpeakerClash)
		}
	}
	return g
}

// Neighbours returns the (possibly repeated) list of abstracts whose
// presence in the same timeblock as `a` incurs a clash penalty charged
// to `a`. Repeats occur when `a`'s Clash and SpeakerClash point at the
// same target.
func (g *ClashGraph) Neighbours(a AbstractID) []AbstractID {
	return g.neighbours[a]
}

// Declarers returns the abstracts that name `a` as one of their own
// Clash/SpeakerClash targets.
func (g *ClashGraph) Declarers(a AbstractID) []AbstractID {
	return g.declarers[a]
}

// HasAny reports whether `a` declares any clash relation of its own.
func (g *ClashGraph) HasAny(a AbstractID) bool {
	return len(g.neighbours[a]) > 0
}
