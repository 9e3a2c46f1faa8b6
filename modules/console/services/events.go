package services

// ForestLoaded is published after a kind's records were fetched and built.
type ForestLoaded struct {
	Kind        string
	Records     int
	Roots       int
	Diagnostics int
}

// ForestInvalidated is published when a kind is marked for reload. All is set by
// InvalidateAll, in which case Kind is empty.
type ForestInvalidated struct {
	Kind string
	All  bool
}

func (e *ForestInvalidated) Affects(kind string) bool {
	return e.All || e.Kind == kind
}
