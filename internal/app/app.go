// Package app assembles the process components and drives the node-serving
// entry point used by the CLI.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/grindlemire/graft"
	adapterconfig "go.trai.ch/forge/internal/adapters/config"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/configstore"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/loopback"
	"go.trai.ch/forge/internal/host"
	"go.trai.ch/forge/internal/node"
	"go.trai.ch/forge/internal/resultstore"
	"go.trai.ch/forge/internal/transport"
	"go.trai.ch/zerr"
)

// ClearProjectCacheEnv is the operator override that drops in-memory project
// instances during node teardown regardless of reuse.
const ClearProjectCacheEnv = "FORGE_CLEAR_PROJECT_CACHE"

// Components are the resolved process collaborators.
type Components struct {
	Settings *adapterconfig.Settings
	Logger   ports.Logger
	Host     *host.Host

	App *App
}

// NodeID is the unique identifier for the components Graft node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			adapterconfig.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			configstore.NodeID,
			resultstore.NodeID,
			loopback.NodeID,
		},
		Run: buildComponents,
	})
}

func buildComponents(ctx context.Context) (*Components, error) {
	settings, err := graft.Dep[*adapterconfig.Settings](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	configs, err := graft.Dep[*configstore.Store](ctx)
	if err != nil {
		return nil, err
	}
	results, err := graft.Dep[*resultstore.Store](ctx)
	if err != nil {
		return nil, err
	}
	engine, err := graft.Dep[ports.RequestEngine](ctx)
	if err != nil {
		return nil, err
	}

	log.SetJSON(settings.LogJSON)

	h := BuildHost(settings, log, tracer, configs, results, engine)
	c := &Components{
		Settings: settings,
		Logger:   log,
		Host:     h,
	}
	c.App = New(h, settings, log)
	return c, nil
}

// BuildHost wires the resolved components into a component host. Each
// component registers under its kind; nodes pull what they need.
func BuildHost(
	settings *adapterconfig.Settings,
	log ports.Logger,
	tracer ports.Tracer,
	configs *configstore.Store,
	results *resultstore.Store,
	engine ports.RequestEngine,
) *host.Host {
	h := host.New()
	h.RegisterFactory(ports.ComponentLoggingService, func() (any, error) { return log, nil })
	h.RegisterFactory(ports.ComponentTracer, func() (any, error) { return tracer, nil })
	h.RegisterFactory(ports.ComponentConfigCache, func() (any, error) { return configs, nil })
	h.RegisterFactory(ports.ComponentResultCache, func() (any, error) { return results, nil })
	h.RegisterFactory(ports.ComponentRequestEngine, func() (any, error) { return engine, nil })
	h.RegisterFactory(ports.ComponentToolsetResolver, func() (any, error) { return configstore.DefaultResolver{}, nil })
	h.RegisterFactory(ports.ComponentRegisteredObjects, func() (any, error) { return host.NewRegisteredObjects(), nil })
	return h
}

// App is the node-serving application.
type App struct {
	host     *host.Host
	settings *adapterconfig.Settings
	logger   ports.Logger
}

// New creates an App over a wired host.
func New(h *host.Host, settings *adapterconfig.Settings, log ports.Logger) *App {
	return &App{host: h, settings: settings, logger: log}
}

// ServeNode runs one out-of-process worker node: bind the process socket,
// wait for the controller, serve builds until a terminal shutdown.
func (a *App) ServeNode(ctx context.Context) error {
	opts := node.Options{
		Role:              node.RoleOutOfProc,
		EnableReuse:       a.settings.NodeReuse,
		FreeMemory:        a.settings.FreeMemory,
		IdleTimeout:       a.settings.IdleTimeout,
		ClearProjectCache: os.Getenv(ClearProjectCacheEnv) != "",
	}

	n, err := node.New(a.host, opts)
	if err != nil {
		return err
	}

	socketPath := transport.NodeSocketPath(os.Getpid())
	a.logger.Info(fmt.Sprintf("node listening on %s", socketPath))

	endpoint, err := transport.BindNodeSocket(ctx, socketPath, n.Factory())
	if err != nil {
		return zerr.Wrap(err, "unable to bind node socket")
	}
	defer os.Remove(socketPath)

	reason, err := n.Run(ctx, endpoint)
	a.logger.Info(fmt.Sprintf("node exited: %s", reason))
	if err != nil && reason != domain.ShutdownComplete {
		return err
	}
	return nil
}
