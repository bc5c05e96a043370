package configstore

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	adapterconfig "go.trai.ch/forge/internal/adapters/config"
)

// NodeID is the unique identifier for the configuration store Graft node.
const NodeID graft.ID = "core.configstore"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{adapterconfig.NodeID},
		Run: func(ctx context.Context) (*Store, error) {
			settings, err := graft.Dep[*adapterconfig.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(
				DefaultResolver{},
				settings.DefaultToolsVersion,
				filepath.Join(settings.CacheDir, "configs"),
			), nil
		},
	})
}
