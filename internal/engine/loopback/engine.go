// Package loopback provides a request engine that completes every submitted
// target in-process without running tasks. It is the default engine wired
// into standalone nodes and the workhorse of the integration tests; a real
// target executor replaces it behind the same port.
package loopback

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.trai.ch/forge/internal/configstore"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/protocol"
	"golang.org/x/sync/semaphore"
)

// Engine implements ports.RequestEngine. Each submitted request runs on its
// own goroutine, bounded by a concurrency semaphore; CleanupForBuild waits
// for all of them and detaches the observer, so no event outlives the build
// that caused it.
type Engine struct {
	configs *configstore.Store
	logger  ports.Logger
	slots   *semaphore.Weighted

	mu       sync.Mutex
	observer ports.EngineObserver
	inflight sync.WaitGroup
}

// New creates an engine over the given configuration store. Concurrency is
// capped at the machine's logical CPU count.
func New(configs *configstore.Store, logger ports.Logger) *Engine {
	return &Engine{
		configs: configs,
		logger:  logger,
		slots:   semaphore.NewWeighted(int64(runtime.NumCPU())),
	}
}

// InitializeForBuild implements ports.RequestEngine.
func (e *Engine) InitializeForBuild(_ context.Context, observer ports.EngineObserver) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.observer != nil {
		return domain.ErrEngineActive
	}
	e.observer = observer
	return nil
}

// CleanupForBuild implements ports.RequestEngine. After it returns the
// observer is detached and receives nothing further.
func (e *Engine) CleanupForBuild() error {
	e.inflight.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = nil
	return nil
}

func (e *Engine) currentObserver() (ports.EngineObserver, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.observer == nil {
		return nil, domain.ErrEngineNotActive
	}
	return e.observer, nil
}

// SubmitBuildRequest implements ports.RequestEngine.
func (e *Engine) SubmitBuildRequest(request *protocol.BuildRequest) error {
	observer, err := e.currentObserver()
	if err != nil {
		return err
	}

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		if err := e.slots.Acquire(context.Background(), 1); err != nil {
			observer.OnEngineError(err)
			return
		}
		defer e.slots.Release(1)
		e.execute(observer, request)
	}()
	return nil
}

// execute resolves the configuration, runs every requested target to trivial
// success and reports the result. Failures surface through the observer, not
// a return value, because the submitter has long since moved on.
func (e *Engine) execute(observer ports.EngineObserver, request *protocol.BuildRequest) {
	cfg, ok := e.configs.Get(request.ConfigurationID)
	if !ok {
		observer.OnEngineError(domain.WithDetail(domain.ErrInvalidConfigurationID,
			"id", int(request.ConfigurationID)))
		return
	}

	if err := cfg.BeginExecution(); err != nil {
		observer.OnEngineError(err)
		return
	}
	defer cfg.EndExecution()

	targets := request.Targets
	if len(targets) == 0 {
		targets = cfg.DefaultTargets()
	}

	result := domain.NewBuildResult(
		request.SubmissionID,
		request.ConfigurationID,
		request.GlobalRequestID,
		request.ParentGlobalRequestID,
		request.NodeRequestID,
	)
	for _, target := range targets {
		if err := result.AddTargetResult(target, domain.TargetResult{State: domain.TargetSuccess}); err != nil {
			observer.OnEngineError(err)
			return
		}
	}

	e.logger.Info(fmt.Sprintf("request %d: %d target(s) completed",
		request.GlobalRequestID, len(targets)))
	observer.OnRequestComplete(request, result)
}

// ReportConfigurationResponse implements ports.RequestEngine, reconciling the
// node-local id with the controller-assigned one.
func (e *Engine) ReportConfigurationResponse(response *protocol.ConfigurationResponse) error {
	if _, err := e.currentObserver(); err != nil {
		return err
	}
	return e.configs.ReconcileID(response.NodeConfigurationID, response.ConfigurationID)
}

// UnblockBuildRequest implements ports.RequestEngine. The loopback engine
// never blocks a request, so an unblock is only acknowledged.
func (e *Engine) UnblockBuildRequest(unblocker *protocol.RequestUnblockedPacket) error {
	if _, err := e.currentObserver(); err != nil {
		return err
	}
	e.logger.Info(fmt.Sprintf("request %d unblocked", unblocker.GlobalRequestID))
	return nil
}

var _ ports.RequestEngine = (*Engine)(nil)
