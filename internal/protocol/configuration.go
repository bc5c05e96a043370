package protocol

import (
	"sort"

	"go.trai.ch/forge/internal/core/domain"
)

// ConfigurationPacket registers a configuration on a node. The project
// instance travels only when the controller already has one loaded; nodes
// otherwise load it themselves from the path.
type ConfigurationPacket struct {
	ConfigurationID int32
	Path            string
	ToolsVersion    string
	Properties      *domain.PropertySet
	Project         *domain.ProjectInstance
}

// Type implements Packet.
func (p *ConfigurationPacket) Type() PacketType { return TypeConfiguration }

// Translate implements Packet.
func (p *ConfigurationPacket) Translate(t *Translator) {
	t.Int32(&p.ConfigurationID)
	t.String(&p.Path)
	t.String(&p.ToolsVersion)
	t.Properties(&p.Properties)
	TranslateOptional(t, &p.Project, newProjectInstance, TranslateProjectInstance)
}

func newProjectInstance(_ Version) *domain.ProjectInstance {
	return &domain.ProjectInstance{}
}

// TranslateProjectInstance transfers an evaluated project instance: its tools
// version, property and item snapshots, and resolved target lists. The same
// layout backs both configuration packets and the on-disk configuration
// cache.
func TranslateProjectInstance(t *Translator, p *domain.ProjectInstance) {
	t.String(&p.ToolsVersion)
	t.Properties(&p.Properties)
	t.StringSlice(&p.DefaultTargets)
	t.StringSlice(&p.InitialTargets)

	if t.Mode() == TranslateWrite {
		kinds := make([]string, 0, len(p.Items))
		for kind := range p.Items {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		n := int32(len(kinds))
		if p.Items == nil {
			n = -1
		}
		t.length(&n)
		for _, kind := range kinds {
			specs := p.Items[kind]
			t.String(&kind)
			t.StringSlice(&specs)
		}
		return
	}

	var n int32
	t.length(&n)
	if t.Err() != nil {
		return
	}
	if n < 0 {
		p.Items = nil
		return
	}
	p.Items = make(map[string][]string, n)
	for i := int32(0); i < n; i++ {
		var kind string
		var specs []string
		t.String(&kind)
		t.StringSlice(&specs)
		if t.Err() != nil {
			return
		}
		p.Items[kind] = specs
	}
}
