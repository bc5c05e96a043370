package node

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/protocol"
)

// performShutdown tears the build context down in a fixed order: engine
// first, then caches, then the environment rollback, then the final upstream
// notification and the link itself. A stay-warm in-process node keeps its
// engine and caches alive between builds and only notifies upstream.
func (n *Node) performShutdown(ctx context.Context) (domain.ShutdownReason, error) {
	n.setState(StateShuttingDown)
	reason, cause := n.shutdownCause()

	_, span := n.tracer.Start(ctx, "node.shutdown")
	defer span.End()
	span.SetAttribute("shutdown.reason", reason.String())

	stayWarm := n.opts.StayWarm && n.opts.Role == RoleInProc && reason.ReuseEligible()
	if !stayWarm {
		if err := n.engine.CleanupForBuild(); err != nil {
			n.logger.Error(err)
		}

		if n.opts.ClearProjectCache {
			n.configs.DropLoadedProjects()
		}
		n.results.ClearBuildScoped()
		n.configs.ClearBuildScoped()
		if !reason.ReuseEligible() || !n.opts.EnableReuse {
			n.objects.Clear()
		}

		n.env.restore()
		n.env = environmentSnapshot{}
	}

	n.logger.Info(fmt.Sprintf("node %d shutting down: %s", n.nodeID, reason))
	n.flushLogger()

	notice := &protocol.NodeShutdownPacket{Reason: int32(reason)}
	if cause != nil {
		notice.Err = protocol.NullStringOf(cause.Error())
	}
	n.sendPacket(notice)

	if !reason.ReuseEligible() || !n.opts.EnableReuse {
		n.endpoint.Disconnect()
	}

	if n.opts.FreeMemory && !stayWarm {
		runtime.GC()
		debug.FreeOSMemory()
	}

	return reason, cause
}

// flushLogger pushes buffered log output out before the link drops, when the
// sink supports it.
func (n *Node) flushLogger() {
	if f, ok := n.logger.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}
