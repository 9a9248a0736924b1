// ABOUTME: MCP server exposing a Memos instance to AI agents.
// ABOUTME: Registers tools, resources, and prompts once and serves them over stdio.

package mcp

import (
	"context"

	"github.com/harper/memos-mcp/internal/memos"
	"github.com/harper/memos-mcp/internal/models"
	"github.com/harper/memos-mcp/internal/telemetry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// MemoService is the slice of the Memos client the server needs.
type MemoService interface {
	CreateMemo(ctx context.Context, content string, visibility models.Visibility) (*models.Memo, error)
	ListMemos(ctx context.Context, opts memos.ListOptions) (*memos.MemoPage, error)
	GetMemo(ctx context.Context, name string) (*models.Memo, error)
	UpdateMemo(ctx context.Context, name string, patch memos.MemoPatch) (*models.Memo, error)
	DeleteMemo(ctx context.Context, name string) error
	SearchMemos(ctx context.Context, opts memos.SearchOptions) (*memos.MemoPage, error)
	ListTags(ctx context.Context) ([]string, error)
}

var _ MemoService = (*memos.Client)(nil)

const serverInstructions = `Memos is a self-hosted note service. Use create_memo to capture a note ` +
	`(markdown, #hashtags become tags), list_memos or search_memos to find notes, get_memo to read one ` +
	`by name (memos/<id>), update_memo to edit, archive (row_status=ARCHIVED) or change visibility, ` +
	`and delete_memo to remove it permanently. get_tags lists every tag in use.`

type Server struct {
	server  *mcp.Server
	client  MemoService
	logger  *zap.Logger
	metrics telemetry.Metrics
	tools   map[string]bool
	version string
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMetrics(m telemetry.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTools limits registration to the given tool names. A nil set
// registers every tool.
func WithTools(allowlist map[string]bool) Option {
	return func(s *Server) {
		s.tools = allowlist
	}
}

func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

func NewServer(client MemoService, opts ...Option) *Server {
	s := &Server{
		client:  client,
		logger:  zap.NewNop(),
		metrics: telemetry.NewNoopMetrics(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "memos-mcp",
			Version: s.version,
		},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// Serve blocks until stdin closes or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio", zap.Strings("tools", s.ToolNames()))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport, which is how tests
// and embedders drive it without stdio.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

// ToolNames lists the registered tools in registration order.
func (s *Server) ToolNames() []string {
	var names []string
	for _, op := range operations {
		if s.enabled(op.Name) {
			names = append(names, op.Name)
		}
	}
	return names
}

func (s *Server) enabled(tool string) bool {
	return s.tools == nil || s.tools[tool]
}
