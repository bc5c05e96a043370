package node_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/configstore"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/host"
	"go.trai.ch/forge/internal/node"
	"go.trai.ch/forge/internal/protocol"
	"go.trai.ch/forge/internal/resultstore"
	"go.trai.ch/forge/internal/transport"
	"go.uber.org/mock/gomock"
)

type runResult struct {
	reason domain.ShutdownReason
	err    error
}

// rig wires one node against an in-memory endpoint pair, with a mock engine
// and real stores, and runs it on its own goroutine the way the bootstrap
// does.
type rig struct {
	node       *node.Node
	engine     *mocks.MockRequestEngine
	configs    *configstore.Store
	results    *resultstore.Store
	objects    *host.RegisteredObjects
	controller *transport.InMemoryEndpoint
	fromNode   chan protocol.Packet
	done       chan runResult
	cancel     context.CancelFunc

	observer ports.EngineObserver
}

func newRig(t *testing.T, opts node.Options, setup func(r *rig)) *rig {
	t.Helper()
	ctrl := gomock.NewController(t)

	r := &rig{
		engine:   mocks.NewMockRequestEngine(ctrl),
		configs:  configstore.NewStore(configstore.DefaultResolver{}, "Current", t.TempDir()),
		results:  resultstore.NewStore(),
		objects:  host.NewRegisteredObjects(),
		fromNode: make(chan protocol.Packet, 32),
		done:     make(chan runResult, 1),
	}

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	h := host.New()
	h.RegisterFactory(ports.ComponentLoggingService, func() (any, error) { return log, nil })
	h.RegisterFactory(ports.ComponentTracer, func() (any, error) { return telemetry.NewNoOpTracer(), nil })
	h.RegisterFactory(ports.ComponentRequestEngine, func() (any, error) { return r.engine, nil })
	h.RegisterFactory(ports.ComponentConfigCache, func() (any, error) { return r.configs, nil })
	h.RegisterFactory(ports.ComponentResultCache, func() (any, error) { return r.results, nil })
	h.RegisterFactory(ports.ComponentRegisteredObjects, func() (any, error) { return r.objects, nil })

	if setup != nil {
		setup(r)
	} else {
		r.expectEngineLifecycle()
	}

	n, err := node.New(h, opts)
	require.NoError(t, err)
	r.node = n

	controller, nodeEnd := transport.NewPair()
	r.controller = controller
	require.NoError(t, controller.Listen(func(p protocol.Packet) { r.fromNode <- p }))

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	t.Cleanup(cancel)
	go func() {
		reason, err := n.Run(ctx, nodeEnd)
		r.done <- runResult{reason: reason, err: err}
	}()
	return r
}

// expectEngineLifecycle installs the permissive default engine expectations,
// capturing the observer the node registers.
func (r *rig) expectEngineLifecycle() {
	r.engine.EXPECT().
		InitializeForBuild(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, obs ports.EngineObserver) error {
			r.observer = obs
			return nil
		}).
		AnyTimes()
	r.engine.EXPECT().CleanupForBuild().Return(nil).AnyTimes()
}

func (r *rig) send(t *testing.T, p protocol.Packet) {
	t.Helper()
	require.NoError(t, r.controller.SendData(p))
}

func (r *rig) configure(t *testing.T, p *protocol.NodeConfiguration) {
	t.Helper()
	r.send(t, p)
	require.Eventually(t, func() bool {
		return r.node.State() == node.StateRunning
	}, 2*time.Second, 5*time.Millisecond, "node never reached the running state")
}

func (r *rig) waitDone(t *testing.T) runResult {
	t.Helper()
	select {
	case res := <-r.done:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("node run loop never returned")
		return runResult{}
	}
}

func (r *rig) waitShutdownPacket(t *testing.T) *protocol.NodeShutdownPacket {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case p := <-r.fromNode:
			if sp, ok := p.(*protocol.NodeShutdownPacket); ok {
				return sp
			}
		case <-deadline:
			t.Fatal("no shutdown packet arrived")
			return nil
		}
	}
}

func (r *rig) waitResultPacket(t *testing.T) *protocol.BuildResultPacket {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case p := <-r.fromNode:
			if rp, ok := p.(*protocol.BuildResultPacket); ok {
				return rp
			}
		case <-deadline:
			t.Fatal("no build result packet arrived")
			return nil
		}
	}
}

func TestNode_CompleteLifecycle(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)

	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})
	r.objects.Register("extra", "x")
	r.send(t, &protocol.NodeBuildComplete{})

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownComplete, res.reason)
	assert.NoError(t, res.err)
	assert.Equal(t, node.StateExited, r.node.State())

	sp := r.waitShutdownPacket(t)
	assert.Equal(t, int32(domain.ShutdownComplete), sp.Reason)
	assert.False(t, sp.Err.Valid)

	assert.Zero(t, r.objects.Len(), "registered objects are build-scoped")
}

func TestNode_TwoRequestsMergeIntoOverallFailure(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, func(r *rig) {
		r.expectEngineLifecycle()
		r.engine.EXPECT().
			SubmitBuildRequest(gomock.Any()).
			DoAndReturn(func(req *protocol.BuildRequest) error {
				result := domain.NewBuildResult(req.SubmissionID, req.ConfigurationID,
					req.GlobalRequestID, req.ParentGlobalRequestID, req.NodeRequestID)
				for _, target := range req.Targets {
					state := domain.TargetSuccess
					if target == "T2" {
						state = domain.TargetFailure
					}
					_ = result.AddTargetResult(target, domain.TargetResult{State: state})
				}
				r.observer.OnRequestComplete(req, result)
				return nil
			}).
			Times(2)
	})

	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})
	r.send(t, &protocol.BuildRequest{GlobalRequestID: 100, ConfigurationID: 7, NodeRequestID: 1, Targets: []string{"T1"}})
	r.send(t, &protocol.BuildRequest{GlobalRequestID: 100, ConfigurationID: 7, NodeRequestID: 2, Targets: []string{"T2"}})

	// The first packet shares its result object with the store entry the
	// second fragment merges into, so only the second fragment's state is
	// stable to assert on here.
	first := r.waitResultPacket(t)
	assert.True(t, first.Result.HasTarget("T1"))
	second := r.waitResultPacket(t)
	assert.True(t, second.Result.HasTarget("T2"))
	assert.False(t, second.Result.OverallSuccess())

	merged, err := r.results.GetResult(100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"T1", "T2"}, merged.TargetNames())
	assert.False(t, merged.OverallSuccess(), "one failed fragment fails the merged request")

	r.send(t, &protocol.NodeBuildComplete{})
	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownComplete, res.reason)

	_, err = r.results.GetResult(100)
	assert.ErrorIs(t, err, domain.ErrResultNotFound, "results are build-scoped")
}

func TestNode_EnvironmentRestoredAfterShutdown(t *testing.T) {
	t.Setenv("FORGE_NODE_TEST_KEEP", "original")

	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)
	r.configure(t, &protocol.NodeConfiguration{
		NodeID: 1,
		Environment: map[string]string{
			"FORGE_NODE_TEST_KEEP": "overridden",
			"FORGE_NODE_TEST_NEW":  "added",
		},
	})
	assert.Equal(t, "overridden", os.Getenv("FORGE_NODE_TEST_KEEP"))
	assert.Equal(t, "added", os.Getenv("FORGE_NODE_TEST_NEW"))

	r.send(t, &protocol.NodeBuildComplete{})
	r.waitDone(t)

	assert.Equal(t, "original", os.Getenv("FORGE_NODE_TEST_KEEP"), "changed values roll back")
	_, present := os.LookupEnv("FORGE_NODE_TEST_NEW")
	assert.False(t, present, "variables the build introduced are removed")
}

func TestNode_ReuseCycle(t *testing.T) {
	initCount := 0
	r := newRig(t, node.Options{Role: node.RoleOutOfProc, EnableReuse: true}, func(r *rig) {
		r.engine.EXPECT().
			InitializeForBuild(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, obs ports.EngineObserver) error {
				r.observer = obs
				initCount++
				return nil
			}).
			Times(2)
		r.engine.EXPECT().CleanupForBuild().Return(nil).Times(2)
	})

	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})
	r.send(t, &protocol.NodeBuildComplete{PrepareForReuse: true})

	sp := r.waitShutdownPacket(t)
	assert.Equal(t, int32(domain.ShutdownReuse), sp.Reason)
	require.Eventually(t, func() bool {
		return r.node.State() == node.StateIdle
	}, 2*time.Second, 5*time.Millisecond, "node never returned to idle")

	// The link survived the reuse shutdown; a fresh configuration starts
	// the next build.
	r.configure(t, &protocol.NodeConfiguration{NodeID: 2})
	r.send(t, &protocol.NodeBuildComplete{})

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownComplete, res.reason)
	assert.Equal(t, 2, initCount)

	sp = r.waitShutdownPacket(t)
	assert.Equal(t, int32(domain.ShutdownComplete), sp.Reason)
}

func TestNode_ReuseNotEligibleWithoutOption(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)

	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})
	r.send(t, &protocol.NodeBuildComplete{PrepareForReuse: true})

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownReuse, res.reason)
	assert.Equal(t, node.StateExited, r.node.State(), "without reuse enabled the node exits anyway")
}

func TestNode_SecondConfigurationWhileRunning(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)

	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})
	r.send(t, &protocol.NodeConfiguration{NodeID: 2})

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownError, res.reason)
	assert.ErrorIs(t, res.err, domain.ErrNodeNotIdle)

	sp := r.waitShutdownPacket(t)
	assert.Equal(t, int32(domain.ShutdownError), sp.Reason)
	assert.True(t, sp.Err.Valid, "an error shutdown carries the terminal error text")
}

func TestNode_UnroutablePacketShutsDown(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)

	// The node never registers a handler for the shutdown notification it
	// emits itself; receiving one is an internal-consistency failure.
	r.send(t, &protocol.NodeShutdownPacket{})

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownError, res.reason)
	assert.ErrorIs(t, res.err, domain.ErrUnknownPacketType)
}

func TestNode_IdleTimeout(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc, IdleTimeout: 50 * time.Millisecond}, nil)

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownComplete, res.reason)
	assert.NoError(t, res.err)
}

func TestNode_ContextCancellation(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)

	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})
	r.cancel()

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownError, res.reason)
	assert.ErrorIs(t, res.err, context.Canceled)
}

func TestNode_RegistersConfigurations(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)
	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})

	props := domain.NewPropertySet(domain.Property{Name: "Platform", Value: "x64"})
	r.send(t, &protocol.ConfigurationPacket{
		ConfigurationID: 7,
		Path:            "/work/app.proj",
		ToolsVersion:    "Current",
		Properties:      props,
		Project:         domain.NewProjectInstance("Current"),
	})

	require.Eventually(t, func() bool {
		_, ok := r.configs.Get(7)
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	cfg, _ := r.configs.Get(7)
	assert.Equal(t, "/work/app.proj", cfg.Path())
	assert.NotNil(t, cfg.Project())

	// A repeat for a known id is ignored, whatever it claims.
	r.send(t, &protocol.ConfigurationPacket{ConfigurationID: 7, Path: "/elsewhere.proj", ToolsVersion: "4.0"})
	r.send(t, &protocol.NodeBuildComplete{})
	r.waitDone(t)

	assert.Equal(t, "/work/app.proj", cfg.Path())
}

func TestNode_InProcIgnoresConfigurationPackets(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleInProc}, nil)
	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})

	r.send(t, &protocol.ConfigurationPacket{ConfigurationID: 7, Path: "/work/app.proj", ToolsVersion: "Current"})
	r.send(t, &protocol.NodeBuildComplete{})
	r.waitDone(t)

	_, ok := r.configs.Get(7)
	assert.False(t, ok, "in-process nodes share the controller's store and skip registration")
}

func TestNode_ObserverCallbacksFlowUpstream(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)
	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})
	require.NotNil(t, r.observer)

	cfg := domain.NewConfiguration(-3, "/work/new.proj", "Current",
		domain.NewPropertySet(domain.Property{Name: "A", Value: "1"}))
	r.observer.OnNewConfigurationRequest(cfg)

	deadline := time.After(2 * time.Second)
	for {
		var p protocol.Packet
		select {
		case p = <-r.fromNode:
		case <-deadline:
			t.Fatal("no configuration request packet arrived")
		}
		cp, ok := p.(*protocol.ConfigurationPacket)
		if !ok {
			continue
		}
		assert.Equal(t, int32(-3), cp.ConfigurationID)
		assert.Equal(t, "/work/new.proj", cp.Path)
		break
	}

	blocked := &protocol.RequestUnblockedPacket{GlobalRequestID: 9}
	r.observer.OnRequestBlocked(blocked)
	select {
	case p := <-r.fromNode:
		assert.Same(t, blocked, p, "blocked-request packets go upstream unexamined")
	case <-time.After(2 * time.Second):
		t.Fatal("no forwarded packet arrived")
	}

	r.send(t, &protocol.NodeBuildComplete{})
	r.waitDone(t)
}

func TestNode_EngineErrorShutsDown(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)
	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})
	require.NotNil(t, r.observer)

	r.observer.OnEngineError(domain.ErrEngineNotActive)

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownError, res.reason)
	assert.ErrorIs(t, res.err, domain.ErrEngineNotActive)
}

func TestNode_LinkFailureShutsDown(t *testing.T) {
	r := newRig(t, node.Options{Role: node.RoleOutOfProc}, nil)
	r.configure(t, &protocol.NodeConfiguration{NodeID: 1})

	require.NoError(t, r.controller.Disconnect())

	res := r.waitDone(t)
	assert.Equal(t, domain.ShutdownConnectionFailed, res.reason)
}
