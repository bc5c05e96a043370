// Package node implements the worker node: a long-running loop that owns a
// transport endpoint, receives packets, dispatches them to handlers and
// manages a shutdown/reuse state machine. One Node type serves both the
// in-process and out-of-process variants, parameterized over the transport.
package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/forge/internal/configstore"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/host"
	"go.trai.ch/forge/internal/protocol"
	"go.trai.ch/forge/internal/resultstore"
)

// Role says which side of the process boundary a node runs on.
type Role int

const (
	// RoleInProc nodes share the controller's process and configuration
	// store; configuration packets are a no-op for them.
	RoleInProc Role = iota
	// RoleOutOfProc nodes run in their own process behind a byte-stream
	// endpoint and maintain their own configuration store.
	RoleOutOfProc
)

// State is the node lifecycle state.
type State int

const (
	// StateIdle means the node awaits a node-configuration packet.
	StateIdle State = iota
	// StateConfigured means configuration succeeded; transient.
	StateConfigured
	// StateRunning means the node is dispatching packets.
	StateRunning
	// StateShuttingDown means teardown is in progress.
	StateShuttingDown
	// StateExited means the run loop has returned.
	StateExited
	// StateAwaitingReuse means the node went back to idle after a
	// reuse-eligible shutdown.
	StateAwaitingReuse
)

// Options configure a node's variant-specific behavior.
type Options struct {
	Role Role

	// EnableReuse lets the node await a fresh configuration after a
	// reuse-eligible shutdown instead of exiting.
	EnableReuse bool

	// StayWarm skips the full teardown between builds for in-process
	// nodes. Host-level flag, never a per-message field.
	StayWarm bool

	// ClearProjectCache unconditionally drops in-memory project instances
	// during teardown. Operator override, read from the environment by the
	// bootstrap.
	ClearProjectCache bool

	// FreeMemory runs a best-effort garbage pass after cache teardown,
	// returning memory to the OS before the node awaits reuse or exits.
	FreeMemory bool

	// IdleTimeout exits an idle node that received no configuration within
	// the window. Zero disables the timeout.
	IdleTimeout time.Duration
}

// Node is one worker execution context.
type Node struct {
	opts    Options
	logger  ports.Logger
	tracer  ports.Tracer
	engine  ports.RequestEngine
	configs *configstore.Store
	results *resultstore.Store
	objects *host.RegisteredObjects
	factory *protocol.Factory

	endpoint ports.Endpoint

	queueMu       sync.Mutex
	queue         []protocol.Packet
	packetArrived chan struct{}

	stateMu      sync.Mutex
	state        State
	shutdownCh   chan struct{}
	shutdownSet  bool
	reason       domain.ShutdownReason
	shutdownErr  error
	nodeID       int32
	knownConfigs map[int32]struct{}

	env environmentSnapshot
}

// New constructs an idle node, resolving its collaborators from the host.
func New(h ports.ComponentHost, opts Options) (*Node, error) {
	logger, err := host.Component[ports.Logger](h, ports.ComponentLoggingService)
	if err != nil {
		return nil, err
	}
	tracer, err := host.Component[ports.Tracer](h, ports.ComponentTracer)
	if err != nil {
		return nil, err
	}
	engine, err := host.Component[ports.RequestEngine](h, ports.ComponentRequestEngine)
	if err != nil {
		return nil, err
	}
	configs, err := host.Component[*configstore.Store](h, ports.ComponentConfigCache)
	if err != nil {
		return nil, err
	}
	results, err := host.Component[*resultstore.Store](h, ports.ComponentResultCache)
	if err != nil {
		return nil, err
	}
	objects, err := host.Component[*host.RegisteredObjects](h, ports.ComponentRegisteredObjects)
	if err != nil {
		return nil, err
	}

	n := &Node{
		opts:          opts,
		logger:        logger,
		tracer:        tracer,
		engine:        engine,
		configs:       configs,
		results:       results,
		objects:       objects,
		packetArrived: make(chan struct{}, 1),
		shutdownCh:    make(chan struct{}),
		knownConfigs:  make(map[int32]struct{}),
	}
	n.factory = n.buildDispatchTable()
	return n, nil
}

// Factory exposes the node's packet factory so the transport can deserialize
// inbound frames into the packets the dispatch table expects.
func (n *Node) Factory() *protocol.Factory { return n.factory }

// State returns the current lifecycle state.
func (n *Node) State() State {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.state
}

func (n *Node) setState(s State) {
	n.stateMu.Lock()
	n.state = s
	n.stateMu.Unlock()
}

// Run executes the node's wait/dispatch loop over the endpoint until a
// non-reusable shutdown, reporting the shutdown reason and any terminal
// error. With reuse enabled, reuse-eligible shutdowns return the node to
// idle for a fresh configuration instead of returning.
func (n *Node) Run(ctx context.Context, endpoint ports.Endpoint) (domain.ShutdownReason, error) {
	n.endpoint = endpoint
	if err := endpoint.Listen(n.deliverPacket); err != nil {
		return domain.ShutdownConnectionFailed, err
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go n.watchLink(watchCtx)

	for {
		reason, err := n.runBuild(ctx)
		if reason.ReuseEligible() && n.opts.EnableReuse {
			n.setState(StateAwaitingReuse)
			n.resetForReuse()
			continue
		}
		n.setState(StateExited)
		return reason, err
	}
}

// runBuild processes one build: wait for packets or a shutdown signal,
// dispatch in arrival order, then tear down.
func (n *Node) runBuild(ctx context.Context) (domain.ShutdownReason, error) {
	var idleC <-chan time.Time
	if n.opts.IdleTimeout > 0 {
		timer := time.NewTimer(n.opts.IdleTimeout)
		defer timer.Stop()
		idleC = timer.C
	}

	for {
		select {
		case <-idleC:
			// Still unconfigured after the window: nobody wants this
			// node, leave quietly.
			if s := n.State(); s == StateIdle || s == StateAwaitingReuse {
				n.requestShutdown(domain.ShutdownComplete, nil)
			}
			idleC = nil
		case <-n.shutdownSignal():
			// Cooperative shutdown: packets already queued at the
			// moment of the signal still dispatch; later arrivals
			// are abandoned or picked up after reuse.
			for _, p := range n.drainQueue() {
				n.dispatch(p)
			}
			return n.performShutdown(ctx)
		case <-n.packetArrived:
			for _, p := range n.drainQueue() {
				n.dispatch(p)
			}
		case <-ctx.Done():
			n.requestShutdown(domain.ShutdownError, ctx.Err())
		}
	}
}

// deliverPacket is called from transport and engine callback goroutines. The
// queue lock covers only the append; dispatch happens on the control
// goroutine.
func (n *Node) deliverPacket(p protocol.Packet) {
	n.queueMu.Lock()
	n.queue = append(n.queue, p)
	n.queueMu.Unlock()

	select {
	case n.packetArrived <- struct{}{}:
	default:
	}
}

func (n *Node) drainQueue() []protocol.Packet {
	n.queueMu.Lock()
	q := n.queue
	n.queue = nil
	n.queueMu.Unlock()
	return q
}

func (n *Node) dispatch(p protocol.Packet) {
	if err := n.factory.Route(p); err != nil {
		n.logger.Error(err)
		n.requestShutdown(domain.ShutdownError, err)
	}
}

// requestShutdown records the first shutdown cause and wakes the control
// loop. Later requests are ignored; the first reason wins.
func (n *Node) requestShutdown(reason domain.ShutdownReason, err error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	if n.shutdownSet {
		return
	}
	n.shutdownSet = true
	n.reason = reason
	n.shutdownErr = err
	close(n.shutdownCh)
}

func (n *Node) shutdownSignal() <-chan struct{} {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.shutdownCh
}

func (n *Node) shutdownCause() (domain.ShutdownReason, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.reason, n.shutdownErr
}

func (n *Node) shuttingDown() bool {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.shutdownSet
}

func (n *Node) resetForReuse() {
	n.stateMu.Lock()
	n.shutdownSet = false
	n.shutdownCh = make(chan struct{})
	n.reason = domain.ShutdownComplete
	n.shutdownErr = nil
	n.state = StateIdle
	n.knownConfigs = make(map[int32]struct{})
	n.stateMu.Unlock()
}

// watchLink turns a transport failure into a connection-failed shutdown.
func (n *Node) watchLink(ctx context.Context) {
	statusCh := n.endpoint.StatusChanged()
	for {
		select {
		case <-ctx.Done():
			return
		case status := <-statusCh:
			if status == ports.LinkFailed || status == ports.LinkConnectionFailed {
				n.requestShutdown(domain.ShutdownConnectionFailed, domain.ErrLinkFailed)
			}
		}
	}
}

// sendPacket transmits upstream. Send failures during shutdown are dropped
// silently; at any other time a dead link is a shutdown cause of its own.
func (n *Node) sendPacket(p protocol.Packet) {
	if err := n.endpoint.SendData(p); err != nil {
		if n.shuttingDown() {
			return
		}
		n.logger.Error(err)
		n.requestShutdown(domain.ShutdownConnectionFailed, err)
	}
}

// OnEngineError implements ports.EngineObserver.
func (n *Node) OnEngineError(err error) {
	n.logger.Error(err)
	n.requestShutdown(domain.ShutdownError, err)
}

// OnNewConfigurationRequest implements ports.EngineObserver.
func (n *Node) OnNewConfigurationRequest(config *domain.Configuration) {
	n.sendPacket(&protocol.ConfigurationPacket{
		ConfigurationID: config.ID(),
		Path:            config.Path(),
		ToolsVersion:    config.ToolsVersion(),
		Properties:      config.Properties(),
	})
}

// OnRequestBlocked implements ports.EngineObserver. The packet is an engine
// extension; it goes upstream unexamined.
func (n *Node) OnRequestBlocked(packet protocol.Packet) {
	n.sendPacket(packet)
}

// OnRequestComplete implements ports.EngineObserver.
func (n *Node) OnRequestComplete(request *protocol.BuildRequest, result *domain.BuildResult) {
	if err := n.results.AddResult(result); err != nil {
		n.logger.Error(err)
		n.requestShutdown(domain.ShutdownError, err)
		return
	}
	n.logger.Info(fmt.Sprintf("request %d complete, overall success: %t",
		request.GlobalRequestID, result.OverallSuccess()))
	n.sendPacket(&protocol.BuildResultPacket{Result: result})
}

var _ ports.EngineObserver = (*Node)(nil)
