// Package server exposes the analysis engines over MCP: workspace
// indexing, per-file structural graphs, handler reports and impact
// queries.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codeatlas/internal/scanner"
	"codeatlas/internal/store"
)

// IndexStatus tracks the lifecycle of workspace indexing.
type IndexStatus string

const (
	IndexStatusIdle       IndexStatus = "idle"
	IndexStatusInProgress IndexStatus = "in_progress"
	IndexStatusReady      IndexStatus = "ready"
	IndexStatusFailed     IndexStatus = "failed"
)

// Server wires the scanner and store behind an MCP server.
type Server struct {
	mcpServer    *mcp.Server
	scanner      *scanner.Scanner
	store        *store.Store
	log          *slog.Logger
	systemPrompt string

	indexMu       sync.RWMutex
	indexStatus   IndexStatus
	indexErr      error
	indexDuration time.Duration
	indexReady    chan struct{}
	snapshotID    string
}

// New builds a Server and registers its tools and resources.
func New(sc *scanner.Scanner, st *store.Store, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "codeatlas",
			Version: version,
		}, nil),
		scanner:      sc,
		store:        st,
		log:          logger,
		systemPrompt: usageGuidelines,
		indexStatus:  IndexStatusIdle,
		indexReady:   make(chan struct{}),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdio until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) setIndexStatus(status IndexStatus, err error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	start := s.indexStatus
	s.indexStatus = status
	s.indexErr = err
	if status == IndexStatusReady || status == IndexStatusFailed {
		select {
		case <-s.indexReady:
		default:
			close(s.indexReady)
		}
	}
	if start != status {
		s.log.Debug("index status changed", "from", string(start), "to", string(status))
	}
}

// GetIndexStatus returns the current status, last error and last duration.
func (s *Server) GetIndexStatus() (IndexStatus, error, time.Duration) {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.indexStatus, s.indexErr, s.indexDuration
}

// WaitForIndex blocks until indexing completes or ctx expires. Returns
// immediately when no index run has started yet.
func (s *Server) WaitForIndex(ctx context.Context) error {
	s.indexMu.RLock()
	status := s.indexStatus
	ready := s.indexReady
	s.indexMu.RUnlock()

	if status == IndexStatusIdle || status == IndexStatusReady || status == IndexStatusFailed {
		return nil
	}
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) currentSnapshot() string {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.snapshotID
}
