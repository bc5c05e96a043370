package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/protocol"
)

// EngineObserver receives events from the request engine while a build is
// active. The node registers an observer in InitializeForBuild and the engine
// must stop calling it after CleanupForBuild returns, so a reused node never
// receives events from a previous build.
//
//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks
type EngineObserver interface {
	// OnEngineError reports an exception raised while building. The node
	// treats it as fatal and shuts down with the error as cause.
	OnEngineError(err error)

	// OnNewConfigurationRequest reports a configuration the engine
	// discovered that needs a controller-assigned id.
	OnNewConfigurationRequest(config *domain.Configuration)

	// OnRequestBlocked reports an engine-extension packet describing a
	// blocked request. The node forwards it upstream unexamined.
	OnRequestBlocked(packet protocol.Packet)

	// OnRequestComplete reports a finished build request and its result.
	OnRequestComplete(request *protocol.BuildRequest, result *domain.BuildResult)
}

// RequestEngine is the boundary to the target/task execution engine. The core
// only submits opaque build requests and receives results; evaluating project
// graphs and running tasks is the engine's business.
type RequestEngine interface {
	// InitializeForBuild prepares the engine for one build and attaches the
	// observer that will receive its events.
	InitializeForBuild(ctx context.Context, observer EngineObserver) error

	// CleanupForBuild stops the engine for this build and detaches the
	// observer registered by InitializeForBuild.
	CleanupForBuild() error

	// SubmitBuildRequest hands a build request to the engine.
	SubmitBuildRequest(request *protocol.BuildRequest) error

	// ReportConfigurationResponse delivers a controller id assignment the
	// engine is waiting on.
	ReportConfigurationResponse(response *protocol.ConfigurationResponse) error

	// UnblockBuildRequest resumes a request the engine reported blocked.
	UnblockBuildRequest(unblocker *protocol.RequestUnblockedPacket) error
}
