package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/protocol"
	"go.trai.ch/zerr"
)

const socketPerm = 0o600

// NodeSocketPath names the transport endpoint for a worker-node process. The
// name derives from the process identity so a controller can find the node it
// just spawned.
func NodeSocketPath(pid int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("forge-node-%d.sock", pid))
}

// StreamEndpoint is a ports.Endpoint over a byte stream. Packets are framed
// and serialized through the protocol translator; received frames are
// reconstructed through the endpoint's packet factory.
type StreamEndpoint struct {
	conn    net.Conn
	factory *protocol.Factory

	writeMu sync.Mutex

	mu       sync.Mutex
	status   ports.LinkStatus
	statusCh chan ports.LinkStatus
	closed   bool
}

// NewStreamEndpoint wraps an established connection.
func NewStreamEndpoint(conn net.Conn, factory *protocol.Factory) *StreamEndpoint {
	return &StreamEndpoint{
		conn:     conn,
		factory:  factory,
		status:   ports.LinkActive,
		statusCh: make(chan ports.LinkStatus, 4),
	}
}

// Listen implements ports.Endpoint. The read pump runs until the stream
// ends: a locally initiated disconnect leaves the link inactive; a remote
// close, read error or malformed frame marks it failed so the watching node
// shuts down rather than hanging on a dead peer. There is no
// partial-message recovery.
func (e *StreamEndpoint) Listen(deliver ports.PacketDeliveryFunc) error {
	go func() {
		r := bufio.NewReader(e.conn)
		for {
			p, err := protocol.ReadPacket(r, e.factory)
			if err != nil {
				if e.isClosed() {
					e.setStatus(ports.LinkInactive)
				} else {
					e.setStatus(ports.LinkFailed)
				}
				return
			}
			deliver(p)
		}
	}()
	return nil
}

// SendData implements ports.Endpoint.
func (e *StreamEndpoint) SendData(p protocol.Packet) error {
	if e.Status() != ports.LinkActive {
		return domain.ErrLinkFailed
	}
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if err := protocol.WritePacket(e.conn, p); err != nil {
		e.setStatus(ports.LinkFailed)
		return domain.WithDetail(domain.ErrLinkFailed, "cause", err.Error())
	}
	return nil
}

// Disconnect implements ports.Endpoint.
func (e *StreamEndpoint) Disconnect() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	err := e.conn.Close()
	e.setStatus(ports.LinkInactive)
	return err
}

// Status implements ports.Endpoint.
func (e *StreamEndpoint) Status() ports.LinkStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// StatusChanged implements ports.Endpoint.
func (e *StreamEndpoint) StatusChanged() <-chan ports.LinkStatus {
	return e.statusCh
}

func (e *StreamEndpoint) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *StreamEndpoint) setStatus(status ports.LinkStatus) {
	e.mu.Lock()
	if e.status == status {
		e.mu.Unlock()
		return
	}
	e.status = status
	e.mu.Unlock()

	select {
	case e.statusCh <- status:
	default:
	}
}

var _ ports.Endpoint = (*StreamEndpoint)(nil)

// BindNodeSocket binds the named endpoint for this node process and waits for
// the controller to connect. The stale socket from a previous process with
// the same pid is removed first.
func BindNodeSocket(ctx context.Context, socketPath string, factory *protocol.Factory) (*StreamEndpoint, error) {
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return nil, zerr.Wrap(err, "failed to remove stale node socket")
	}

	lis, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to listen on node socket")
	}
	if err := os.Chmod(socketPath, socketPerm); err != nil {
		_ = lis.Close()
		return nil, zerr.Wrap(err, "failed to set node socket permissions")
	}

	type acceptResult struct {
		conn net.Conn
		err  error
	}
	acceptCh := make(chan acceptResult, 1)
	go func() {
		conn, err := lis.Accept()
		acceptCh <- acceptResult{conn: conn, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = lis.Close()
		_ = os.Remove(socketPath)
		return nil, ctx.Err()
	case res := <-acceptCh:
		_ = lis.Close()
		if res.err != nil {
			_ = os.Remove(socketPath)
			return nil, zerr.Wrap(res.err, "node socket accept failed")
		}
		return NewStreamEndpoint(res.conn, factory), nil
	}
}

// DialNode connects a controller to a worker node's socket.
func DialNode(socketPath string, factory *protocol.Factory) (*StreamEndpoint, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, zerr.Wrap(err, "node connection failed")
	}
	return NewStreamEndpoint(conn, factory), nil
}
