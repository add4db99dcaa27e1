package models

// Competitor is a named entrant whose matches are played by an external
// player process. Command is handed to the referee verbatim.
type Competitor struct {
	ID      string `json:"id" yaml:"id"`
	Command string `json:"command" yaml:"command"`
}

// Group is a named set of competitors playing a round-robin within one round.
type Group struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Size returns the number of members in the group.
func (g Group) Size() int {
	return len(g.Members)
}

// Has reports whether the competitor belongs to the group.
func (g Group) Has(competitor string) bool {
	for _, m := range g.Members {
		if m == competitor {
			return true
		}
	}
	return false
}

// Members flattens the membership of all groups, preserving group order.
func Members(groups []Group) []string {
	out := make([]string, 0)
	for _, g := range groups {
		out = append(out, g.Members...)
	}
	return out
}
