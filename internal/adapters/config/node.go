package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the settings Graft node.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[*Settings]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Settings, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewLoader().Load(cwd)
		},
	})
}
