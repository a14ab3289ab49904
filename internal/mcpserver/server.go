// Package mcpserver is the plugin-integration glue the spec names out of
// scope for the core: a thin MCP tool-registration layer over the
// Coordinator's transport-agnostic request contract (spec §6), following
// the teacher's internal/mcp server (mcp.NewServer + AddTool per request
// kind) rather than inventing a new transport.
package mcpserver

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/tldrs/internal/coordinator"
	"github.com/standardbeagle/tldrs/internal/debug"
	"github.com/standardbeagle/tldrs/internal/diffsource"
)

// Server owns one Coordinator and exposes its request contract as MCP
// tools over stdio. One Server serves one workspace, mirroring the
// Coordinator's own one-workspace-per-instance contract.
type Server struct {
	coord     *coordinator.Coordinator
	workspace string
	server    *mcp.Server
}

// New wires a Server around coord, registering one tool per Coordinator
// request kind (BuildIndex, ResolveEntry, Pack, DiffPack, Status).
func New(coord *coordinator.Coordinator, workspace string) *Server {
	s := &Server{
		coord:     coord,
		workspace: workspace,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "tldrs-mcp-server",
			Version: "0.1.0",
		}, nil),
	}
	s.registerTools()
	return s
}

// Start runs the server over stdio until ctx is cancelled or the client
// disconnects. debug.SetSilent is the caller's responsibility (the stdio
// transport requires a clean byte stream on stdout).
func (s *Server) Start(ctx context.Context) error {
	debug.Printf("starting MCP server over stdio for workspace %s", s.workspace)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func strSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func intSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: desc}
}

func boolSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: desc}
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "build_index",
		Description: "Build (or rebuild) the project index for the configured workspace, returning a fingerprint of its symbols and their signatures (body-only edits do not change it).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"include_sources":           boolSchema("Cache file contents in the index for later rendering"),
				"include_ranges":            boolSchema("Build the symbol line-range index"),
				"include_reverse_adjacency": boolSchema("Build the reverse call-graph adjacency"),
			},
		},
	}, s.handleBuildIndex)

	s.server.AddTool(&mcp.Tool{
		Name:        "resolve_entry",
		Description: "Resolve a short name, qualified name, or \"path:name\" entry against the built index.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"entry": strSchema("Short name, qualified name, or \"path:name\" to resolve"),
			},
			Required: []string{"entry"},
		},
	}, s.handleResolveEntry)

	s.server.AddTool(&mcp.Tool{
		Name:        "pack",
		Description: "Build a token-budgeted context pack around one or more seed symbols, expanded by the candidate builder.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"seed": {
					Type:        "array",
					Items:       strSchema(""),
					Description: "SymbolIds to seed the candidate builder with",
				},
				"depth":            intSchema("Call-graph expansion depth from each seed"),
				"budget":           intSchema("Token budget for the pack"),
				"zoom":             strSchema("map|index|sketch|windowed|full (default full)"),
				"compress":         strSchema("none|blocks|two_stage|chunk_summary (default none)"),
				"strip_comments":   boolSchema("Strip comments from rendered code"),
				"compress_imports": boolSchema("Collapse import blocks"),
				"session_id":       strSchema("Delta session id; omit for a stateless pack"),
				"format":           strSchema("json|text|ultracompact|cache_friendly (default json)"),
			},
			Required: []string{"seed", "budget"},
		},
	}, s.handlePack)

	s.server.AddTool(&mcp.Tool{
		Name:        "diff_pack",
		Description: "Build a context pack seeded from changed hunks (explicit, or the workspace's uncommitted git changes when omitted).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"hunks": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"file":      strSchema("File path the hunk belongs to"),
							"old_start": intSchema("1-based start line in the old file"),
							"old_count": intSchema("Line count in the old file"),
							"new_start": intSchema("1-based start line in the new file"),
							"new_count": intSchema("Line count in the new file"),
						},
						Required: []string{"file", "new_start", "new_count"},
					},
					Description: "Changed hunks; omit to diff the workspace's uncommitted git changes",
				},
				"depth":            intSchema("Call-graph expansion depth from each diff-touched symbol"),
				"budget":           intSchema("Token budget for the pack"),
				"zoom":             strSchema("map|index|sketch|windowed|full (default full)"),
				"compress":         strSchema("none|blocks|two_stage|chunk_summary (default none)"),
				"strip_comments":   boolSchema("Strip comments from rendered code"),
				"compress_imports": boolSchema("Collapse import blocks"),
				"session_id":       strSchema("Delta session id; omit for a stateless pack"),
				"format":           strSchema("json|text|ultracompact|cache_friendly (default json)"),
			},
			Required: []string{"budget"},
		},
	}, s.handleDiffPack)

	s.server.AddTool(&mcp.Tool{
		Name:        "status",
		Description: "Report the current index's age, symbol count, file count, and active session count.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleStatus)
}

// diffSource resolves a Source for a DiffPack call with no explicit hunks:
// the workspace's uncommitted git changes, falling back to an empty source
// when the workspace isn't a git repository (spec §6 "Diff source" is
// explicitly replaceable, and a non-git workspace is not an error).
func (s *Server) diffSource() diffsource.Source {
	src, err := diffsource.NewGitSource(s.workspace)
	if err != nil {
		debug.Printf("workspace %s is not a git repository, diff_pack requires explicit hunks: %v", s.workspace, err)
		return diffsource.NewStaticSource(nil)
	}
	return src
}
