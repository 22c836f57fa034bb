// Package server owns the TCP listener, the bounded worker pool that gates
// how many connections are serviced concurrently, and the per-connection
// request/reply loop.
package server

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/respkv/respkv/internal/kvindex"
	"go.uber.org/zap"
)

// Server accepts connections on a TCP listener and services each one in its
// own goroutine, bounded by a slot pool sized to the configured worker
// pool. Command execution itself is handled entirely by the shared Index.
type Server struct {
	log  *zap.Logger
	idx  *kvindex.Index
	pool *slotPool

	nextConnID atomic.Int64
}

// New constructs a Server that dispatches commands to idx, bounded to
// poolSize concurrently-serviced connections.
func New(log *zap.Logger, idx *kvindex.Index, poolSize int) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if poolSize < 1 {
		poolSize = 1
	}
	return &Server{
		log:  log.Named("server"),
		idx:  idx,
		pool: newSlotPool(poolSize),
	}
}

// ActiveConnections reports how many connections are currently being
// serviced (held a slot), for the debug/stats surface.
func (s *Server) ActiveConnections() int {
	return s.pool.current()
}

// PoolSize reports the configured worker pool capacity.
func (s *Server) PoolSize() int {
	return s.pool.capacityOf()
}

// Serve accepts connections on ln until ctx is cancelled or Accept fails.
// It blocks the caller; run it in its own goroutine (the bootstrap
// coordinates this with errgroup).
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}

		id := s.nextConnID.Add(1)
		s.pool.acquire(id)
		go func() {
			defer s.pool.release(id)
			handleConn(conn, s.idx, s.log)
		}()
	}
}
