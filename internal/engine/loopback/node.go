package loopback

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/configstore"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the loopback engine Graft node.
const NodeID graft.ID = "engine.loopback"

func init() {
	graft.Register(graft.Node[ports.RequestEngine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{configstore.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.RequestEngine, error) {
			configs, err := graft.Dep[*configstore.Store](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(configs, log), nil
		},
	})
}
