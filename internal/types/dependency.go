package types

// Dependency is one entity blocking (or informationally related to) a
// deletion. RelatedEntities carries child counts for display, keyed by kind.
type Dependency struct {
	Type            string         `json:"type"`
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	ActionRequired  string         `json:"actionRequired,omitempty"`
	RelatedEntities map[string]int `json:"relatedEntities,omitempty"`
}

// DependencyReport is produced fresh on every delete attempt and never
// persisted. It is returned even when CanDelete is true so callers can log
// zero-dependency confirmations uniformly.
type DependencyReport struct {
	CanDelete         bool           `json:"canDelete"`
	TotalDependencies int            `json:"totalDependencies"`
	Summary           map[string]int `json:"summary"`
	Dependencies      []Dependency   `json:"dependencies"`
}
