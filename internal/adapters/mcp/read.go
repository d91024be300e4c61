package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"filerename/internal/application"
	"filerename/internal/application/commands"
	"filerename/internal/config"
	"filerename/internal/ports"
)

// Deps are the collaborators shared by every tool handler
type Deps struct {
	FS     ports.FileSystem
	Locker ports.DirectoryLocker
	Log    ports.Logger
	Config *config.Config
}

// RegisterReadTools adds the tools that never touch files on disk.
func RegisterReadTools(s *server.MCPServer, deps Deps) {
	s.AddTool(previewTool(), previewHandler(deps))
	s.AddTool(markersTool(), markersHandler())
}

// --- preview_rename ---

func previewTool() mcp.Tool {
	return mcp.NewTool("preview_rename",
		mcp.WithDescription("Dry-run a rename: list every matching file under root and the name it would get. Nothing on disk changes."),
		withTaskParams()...,
	)
}

func previewHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		task, err := newTask(req, deps, true)
		if err != nil {
			return toolError(err)
		}
		result, err := task.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatResult(result)), nil
	}
}

// --- list_markers ---

func markersTool() mcp.Tool {
	return mcp.NewTool("list_markers",
		mcp.WithDescription("Describe the <<MARKER|ARGS>> placeholders usable in rename templates."),
	)
}

var markerHelp = map[string]string{
	"E":  "<<E>> or <<E|%03d>> (output only): running number shared by all files of one rename, printf-style format, starts at 0",
	"R":  "<<R|regex>> (input) and optional <<R>> (output): copies the text matched by regex",
	"TS": "<<TS|yyyyMMdd>> (input and output): date parsed from the name with the input pattern and rewritten with the output pattern",
	"CD": "<<CD>> or <<CD|yyyy-MM-dd>> (output only): file creation date, default pattern yyyy-MM-dd'T'HH:mm:ss",
}

func markersHandler() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var b strings.Builder
		for _, abbr := range application.KnownMarkers() {
			fmt.Fprintf(&b, "%s: %s\n", abbr, markerHelp[abbr])
		}
		b.WriteString("Markers must be followed by a .suffix. Literal template text is a regular expression.")
		return mcp.NewToolResultText(b.String()), nil
	}
}

// --- helpers ---

func withTaskParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("root",
			mcp.Description("Directory containing the files to rename"),
			mcp.Required(),
		),
		mcp.WithString("input_template",
			mcp.Description("Pattern matched against file names, e.g. IMG_<<TS|yyyyMMdd_HHmmss>>.jpg"),
			mcp.Required(),
		),
		mcp.WithString("output_template",
			mcp.Description("Pattern for new names, e.g. <<TS|yyyy-MM-dd>>_<<E|%03d>>.jpg"),
			mcp.Required(),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Descend into subdirectories"),
		),
		mcp.WithString("collision",
			mcp.Description("FAIL or ENUMERATE when a target name already exists"),
		),
	}
}

func newTask(req mcp.CallToolRequest, deps Deps, dryRun bool) (*commands.RenameTask, error) {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	collision := cfg.CollisionStrategy()
	if raw := req.GetString("collision", ""); raw != "" {
		parsed, err := application.ParseCollisionStrategy(raw)
		if err != nil {
			return nil, err
		}
		collision = parsed
	}

	root := req.GetString("root", "")
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		root = abs
		if err := application.ValidateDirectory("root", root); err != nil {
			return nil, err
		}
	}

	maxDepth := 1
	if req.GetBool("recursive", cfg.Recursive) {
		maxDepth = 0
	}

	return commands.NewRenameTask(deps.FS, deps.Log, commands.TaskArguments{
		Root:             root,
		InputTemplate:    req.GetString("input_template", ""),
		OutputTemplate:   req.GetString("output_template", ""),
		MaxDepth:         maxDepth,
		Copy:             req.GetBool("copy", cfg.Copy),
		DryRun:           dryRun,
		Collision:        collision,
		MaxRetries:       cfg.MaxRetries,
		Concurrency:      cfg.Concurrency,
		EnumerationStart: cfg.EnumerationStart,
	}), nil
}

func formatResult(r *commands.TaskResult) string {
	var b strings.Builder
	b.WriteString(r.Summary())
	b.WriteString("\n")
	for _, j := range r.Jobs {
		fmt.Fprintf(&b, "%s\n", formatJob(j))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatJob(j commands.JobReport) string {
	switch {
	case j.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", j.Status, filepath.Base(j.Source), j.Err)
	case j.Unchanged:
		return fmt.Sprintf("[%s] %s (unchanged)", j.Status, filepath.Base(j.Source))
	default:
		return fmt.Sprintf("[%s] %s -> %s", j.Status, filepath.Base(j.Source), filepath.Base(j.Target))
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
