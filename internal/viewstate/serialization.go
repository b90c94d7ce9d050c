package viewstate

// Snapshot is the JSON-serializable representation of a ViewState.
type Snapshot struct {
	Nodes  map[string]NodeGeometry  `json:"node"`
	Groups map[string]GroupGeometry `json:"group"`
	Edges  map[string]EdgeGeometry  `json:"edge"`
	Layout map[string]string        `json:"layout"`
}

// ToSnapshot converts vs into its JSON-serializable form. Layout modes
// are written as their String() form ("LOCK"/"FREE") so a hand-inspected
// snapshot file is self-explanatory.
func (vs *ViewState) ToSnapshot() Snapshot {
	s := Snapshot{
		Nodes:  make(map[string]NodeGeometry, len(vs.nodes)),
		Groups: make(map[string]GroupGeometry, len(vs.groups)),
		Edges:  make(map[string]EdgeGeometry, len(vs.edges)),
		Layout: make(map[string]string, len(vs.layout)),
	}
	for id, g := range vs.nodes {
		s.Nodes[id] = g
	}
	for id, g := range vs.groups {
		s.Groups[id] = g
	}
	for id, e := range vs.edges {
		s.Edges[id] = e
	}
	for id, m := range vs.layout {
		s.Layout[id] = m.String()
	}
	return s
}

// FromSnapshot reconstructs a ViewState from s. An unrecognized layout
// mode string is treated as ModeFree (the restoration default), never
// as an error.
func FromSnapshot(s Snapshot) *ViewState {
	vs := New()
	for id, g := range s.Nodes {
		vs.nodes[id] = g
	}
	for id, g := range s.Groups {
		vs.groups[id] = g
	}
	for id, e := range s.Edges {
		vs.edges[id] = e
	}
	for id, m := range s.Layout {
		if m == "LOCK" {
			vs.layout[id] = ModeLock
		} else {
			vs.layout[id] = ModeFree
		}
	}
	return vs
}
