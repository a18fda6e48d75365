package entities

// WorkingTreeStatus is a point-in-time snapshot of the working tree.
// It is read fresh before every guarded operation and never cached.
type WorkingTreeStatus struct {
	Current    string
	Added      []string
	Created    []string
	Modified   []string
	Deleted    []string
	Renamed    []string
	Conflicted []string
}

// HasConflicts reports whether any path is unmerged.
func (s WorkingTreeStatus) HasConflicts() bool {
	return len(s.Conflicted) > 0
}

// HasChanges reports whether anything needs to be committed.
func (s WorkingTreeStatus) HasChanges() bool {
	return len(s.Added) > 0 ||
		len(s.Created) > 0 ||
		len(s.Modified) > 0 ||
		len(s.Deleted) > 0 ||
		len(s.Renamed) > 0
}

// ChangedPaths returns every path that would be staged by a commit.
func (s WorkingTreeStatus) ChangedPaths() []string {
	paths := make([]string, 0, len(s.Added)+len(s.Created)+len(s.Modified)+len(s.Deleted)+len(s.Renamed))
	paths = append(paths, s.Added...)
	paths = append(paths, s.Created...)
	paths = append(paths, s.Modified...)
	paths = append(paths, s.Deleted...)
	paths = append(paths, s.Renamed...)
	return paths
}
