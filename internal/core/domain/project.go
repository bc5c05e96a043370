package domain

// ProjectInstance is the evaluated, mutable state of one project that a
// Configuration references. Evaluation itself happens outside this core; the
// instance holds just enough state to be shipped to a node or spilled to disk.
type ProjectInstance struct {
	ToolsVersion   string
	Properties     *PropertySet
	Items          map[string][]string
	DefaultTargets []string
	InitialTargets []string
}

// NewProjectInstance creates an empty project instance for the given tools version.
func NewProjectInstance(toolsVersion string) *ProjectInstance {
	return &ProjectInstance{
		ToolsVersion: toolsVersion,
		Properties:   NewPropertySet(),
		Items:        make(map[string][]string),
	}
}

// Snapshot returns a properties/items-only copy of the instance. The copy is
// suitable for reporting post-build state upstream; it is not guaranteed to be
// buildable.
func (p *ProjectInstance) Snapshot() *ProjectInstance {
	items := make(map[string][]string, len(p.Items))
	for kind, specs := range p.Items {
		items[kind] = append([]string(nil), specs...)
	}
	return &ProjectInstance{
		ToolsVersion: p.ToolsVersion,
		Properties:   p.Properties.Clone(),
		Items:        items,
	}
}
