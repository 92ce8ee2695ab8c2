package mcp

import (
	"context"
	"fmt"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/mcpforge/internal/common"
	"github.com/bobmcallan/mcpforge/internal/config"
)

// CorrelationHeader carries a caller supplied correlation ID.
const CorrelationHeader = "X-Correlation-ID"

// Handler owns the mcpforge MCP server and its streamable HTTP transport.
type Handler struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates the MCP server with every generator tool registered.
func NewHandler(cfg *config.Config, logger *common.Logger) (*Handler, error) {
	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}
	tools, err := NewTools(target, logger)
	if err != nil {
		return nil, err
	}

	mcpSrv := mcpserver.NewMCPServer(
		cfg.MCP.Name,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)
	toolCount := RegisterTools(mcpSrv, tools)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", toolCount).
		Str("target", target.Name()).
		Msg("MCP handler initialized")

	return &Handler{
		server:     mcpSrv,
		streamable: streamable,
		logger:     logger,
	}, nil
}

// Server returns the underlying MCP server.
func (h *Handler) Server() *mcpserver.MCPServer {
	return h.server
}

// ServeHTTP attaches a correlation ID to the request context and delegates to
// the mcp-go StreamableHTTPServer. An ID already set by middleware wins.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := common.GetCorrelationID(r.Context()); ok {
		h.streamable.ServeHTTP(w, r)
		return
	}
	id := r.Header.Get(CorrelationHeader)
	if id == "" {
		id = common.NewCorrelationID()
	}
	h.streamable.ServeHTTP(w, r.WithContext(common.WithCorrelationID(r.Context(), id)))
}

// ServeStdio serves MCP over stdin and stdout until the input closes.
func (h *Handler) ServeStdio() error {
	h.logger.Info().Msg("serving MCP over stdio")
	if err := mcpserver.ServeStdio(h.server); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

// Start serves streamable MCP on addr until ctx is done.
func (h *Handler) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", h)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info().Str("addr", addr).Msg("serving MCP over streamable HTTP")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("mcp http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}
