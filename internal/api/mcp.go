package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/redditpersona/internal/persona"
	"github.com/kalambet/redditpersona/internal/pipeline"
	"github.com/kalambet/redditpersona/internal/storage"
)

// MCPGenerator runs one persona generation.
type MCPGenerator interface {
	Generate(ctx context.Context, profileURL string) (pipeline.Result, error)
}

// MCPPersonaReader reads back stored personas.
type MCPPersonaReader interface {
	LoadPersona(username string) (string, error)
	ListPersonas() ([]string, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Generator MCPGenerator
	Personas  MCPPersonaReader
	// Ready is called before generating until it first succeeds; nil skips it.
	Ready func(ctx context.Context) error
}

// NewMCPServer creates an MCP server with the persona tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"persona",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("persona: builds a user persona document from a Reddit profile using a local model."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_persona",
			mcp.WithDescription("Fetch a Reddit user's recent posts and comments, analyze them with the local model and save a persona document."),
			mcp.WithString("url", mcp.Description("Profile URL, e.g. https://www.reddit.com/user/spez/"), mcp.Required()),
		),
		mcpGeneratePersona(deps),
	)

	s.AddTool(
		mcp.NewTool("parse_analysis",
			mcp.WithDescription("Extract persona fields and sections from raw model output. Missing entries come back as sentinels."),
			mcp.WithString("text", mcp.Description("Raw model response"), mcp.Required()),
		),
		mcpParseAnalysis(),
	)

	s.AddTool(
		mcp.NewTool("get_persona",
			mcp.WithDescription("Return a previously generated persona document."),
			mcp.WithString("username", mcp.Description("Reddit username"), mcp.Required()),
		),
		mcpGetPersona(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"persona://index",
			"Generated Personas",
			mcp.WithResourceDescription("Usernames with a stored persona document"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceIndex(deps),
	)

	return s
}

func mcpGeneratePersona(deps MCPDeps) server.ToolHandlerFunc {
	var (
		mu    sync.Mutex
		ready bool
	)
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := req.RequireString("url")
		if err != nil {
			return mcpError("url is required"), nil
		}

		if deps.Ready != nil {
			mu.Lock()
			if !ready {
				if err := deps.Ready(ctx); err != nil {
					mu.Unlock()
					return mcpError(pipeline.Describe(err)), nil
				}
				ready = true
			}
			mu.Unlock()
		}

		res, err := deps.Generator.Generate(ctx, url)
		if err != nil {
			return mcpError(pipeline.Describe(err)), nil
		}

		out := struct {
			RunID          string `json:"run_id"`
			Username       string `json:"username"`
			Path           string `json:"path"`
			ExampleCreated bool   `json:"example_created"`
			Document       string `json:"document"`
		}{
			RunID:          res.RunID.String(),
			Username:       res.Username,
			Path:           res.Path,
			ExampleCreated: res.ExampleCreated,
			Document:       res.Document,
		}
		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpParseAnalysis() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}

		a := persona.Parse(text)
		out := struct {
			Fields   map[persona.Field]string   `json:"fields"`
			Sections map[persona.Section]string `json:"sections"`
		}{a.Fields, a.Sections}

		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal analysis: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetPersona(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		username, err := req.RequireString("username")
		if err != nil {
			return mcpError("username is required"), nil
		}

		doc, err := deps.Personas.LoadPersona(username)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("no persona stored for %s", username)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to load persona: %v", err)), nil
		}
		return mcpText(doc), nil
	}
}

func mcpResourceIndex(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := deps.Personas.ListPersonas()
		if err != nil {
			return nil, fmt.Errorf("failed to list personas: %w", err)
		}
		if names == nil {
			names = []string{}
		}

		b, err := json.Marshal(names)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal personas: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
