package node

import (
	"context"
	"fmt"
	"os"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/protocol"
	"go.trai.ch/zerr"
)

// buildDispatchTable registers every packet kind this node understands. A
// kind missing here that still arrives is an internal-consistency failure
// surfaced by Factory.Route as a fatal error.
func (n *Node) buildDispatchTable() *protocol.Factory {
	f := protocol.NewFactory()

	f.Register(protocol.TypeNodeConfiguration,
		func() protocol.Packet { return &protocol.NodeConfiguration{} },
		packetHandler(n.handleNodeConfiguration))

	f.Register(protocol.TypeBuildRequest,
		func() protocol.Packet { return &protocol.BuildRequest{} },
		packetHandler(func(p *protocol.BuildRequest) error {
			return n.engine.SubmitBuildRequest(p)
		}))

	f.Register(protocol.TypeConfiguration,
		func() protocol.Packet { return &protocol.ConfigurationPacket{} },
		packetHandler(n.handleConfiguration))

	f.Register(protocol.TypeConfigurationResponse,
		func() protocol.Packet { return &protocol.ConfigurationResponse{} },
		packetHandler(func(p *protocol.ConfigurationResponse) error {
			return n.engine.ReportConfigurationResponse(p)
		}))

	f.Register(protocol.TypeRequestUnblocked,
		func() protocol.Packet { return &protocol.RequestUnblockedPacket{} },
		packetHandler(func(p *protocol.RequestUnblockedPacket) error {
			return n.engine.UnblockBuildRequest(p)
		}))

	f.Register(protocol.TypeNodeBuildComplete,
		func() protocol.Packet { return &protocol.NodeBuildComplete{} },
		packetHandler(func(p *protocol.NodeBuildComplete) error {
			reason := domain.ShutdownComplete
			if p.PrepareForReuse {
				reason = domain.ShutdownReuse
			}
			n.requestShutdown(reason, nil)
			return nil
		}))

	return f
}

// packetHandler adapts a typed handler to protocol.HandlerFunc. A kind/type
// mismatch can only come from a corrupted dispatch table, so it is loud.
func packetHandler[T protocol.Packet](handle func(T) error) protocol.HandlerFunc {
	return func(p protocol.Packet) error {
		typed, ok := p.(T)
		if !ok {
			return domain.WithDetail(domain.ErrMalformedPacket, "type", p.Type().String())
		}
		return handle(typed)
	}
}

// handleNodeConfiguration drives the Idle to Running transition. Any failure
// along the way shuts the node down with the error as cause; the caller
// re-raises it.
func (n *Node) handleNodeConfiguration(p *protocol.NodeConfiguration) error {
	if n.State() != StateIdle && n.State() != StateAwaitingReuse {
		err := domain.WithDetail(domain.ErrNodeNotIdle, "state", int(n.State()))
		n.requestShutdown(domain.ShutdownError, err)
		return err
	}

	if err := n.configure(p); err != nil {
		n.requestShutdown(domain.ShutdownError, err)
		return err
	}
	n.setState(StateRunning)
	return nil
}

// configure applies a node-configuration packet: snapshot the pristine
// environment, adopt the incoming one, attach logging and initialize the
// engine. Side effects happen in this order so teardown can undo them in
// reverse.
func (n *Node) configure(p *protocol.NodeConfiguration) error {
	n.env = captureEnvironment()

	applyEnvironment(p.Environment)
	if p.WorkingDirectory != "" {
		if err := os.Chdir(p.WorkingDirectory); err != nil {
			return zerr.Wrap(err, "unable to adopt working directory")
		}
	}
	if p.Locale != "" {
		os.Setenv("LANG", p.Locale)
		os.Setenv("LC_ALL", p.Locale)
	}

	n.stateMu.Lock()
	n.nodeID = p.NodeID
	n.stateMu.Unlock()
	n.objects.Register("node.id", p.NodeID)

	if p.TraceEnabled {
		_, span := n.tracer.Start(context.Background(), "node.configure",
			ports.WithAttribute("node.id", fmt.Sprintf("%d", p.NodeID)))
		span.End()
	}
	n.logger.Info(fmt.Sprintf("node %d configured, %d logger description(s)",
		p.NodeID, len(p.LoggerDescriptions)))
	n.setState(StateConfigured)

	if err := n.engine.InitializeForBuild(context.Background(), n); err != nil {
		return zerr.Wrap(err, "engine initialization failed")
	}
	return nil
}

// handleConfiguration registers a controller-sent configuration. In-process
// nodes share the controller's store and treat the packet as already applied.
func (n *Node) handleConfiguration(p *protocol.ConfigurationPacket) error {
	if n.opts.Role == RoleInProc {
		return nil
	}

	n.stateMu.Lock()
	_, known := n.knownConfigs[p.ConfigurationID]
	if !known {
		n.knownConfigs[p.ConfigurationID] = struct{}{}
	}
	n.stateMu.Unlock()
	if known {
		return nil
	}

	cfg := domain.NewConfiguration(p.ConfigurationID, p.Path, p.ToolsVersion, p.Properties)
	if p.Project != nil {
		if err := cfg.AttachProject(p.Project); err != nil {
			return err
		}
	}
	return n.configs.Register(cfg)
}
