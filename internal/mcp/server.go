// Package mcp exposes the back-office data operations as MCP tools.
package mcp

import (
	"log/slog"

	"github.com/agencyops/backoffice/internal/domain/board"
	"github.com/agencyops/backoffice/internal/domain/collection"
	"github.com/agencyops/backoffice/internal/domain/schema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `Back-office registry for a marketing agency.

The grouped modules (sites, google_my_business, content, traffic, videos,
rsg_avaliacoes) hold client rows in named month groups; rows carry
user-defined columns of type text or status. The tasks board holds ordered
columns of ordered tasks. All data is a shared workspace: every caller sees
the same rows. Start with list_modules, then get_module or get_board.`

// Services bundles the per-module domain services the tools dispatch to.
type Services struct {
	Collections map[string]*collection.Store
	Registries  map[string]*schema.Registry
	Board       *board.Engine
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "backoffice",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

func (s Services) store(module string) (*collection.Store, error) {
	if st, ok := s.Collections[module]; ok {
		return st, nil
	}
	return nil, errUnknownModule
}

func (s Services) registry(module string) (*schema.Registry, error) {
	if reg, ok := s.Registries[module]; ok {
		return reg, nil
	}
	return nil, errUnknownModule
}
