package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterWriteTools adds the tools that rename or copy files on disk.
func RegisterWriteTools(s *server.MCPServer, deps Deps) {
	s.AddTool(renameTool(), renameHandler(deps))
}

// --- rename ---

func renameTool() mcp.Tool {
	opts := append(withTaskParams(),
		mcp.WithDescription("Rename (or copy) every file under root that matches input_template to the name built from output_template. Run preview_rename first."),
		mcp.WithBoolean("copy",
			mcp.Description("Copy files instead of moving them"),
		),
	)
	return mcp.NewTool("rename", opts...)
}

func renameHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		task, err := newTask(req, deps, false)
		if err != nil {
			return toolError(err)
		}
		if err := task.Validate(); err != nil {
			return toolError(err)
		}

		if deps.Locker != nil {
			release, err := deps.Locker.TryAcquire(task.Args.Root)
			if err != nil {
				return toolError(err)
			}
			defer release()
		}

		result, err := task.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatResult(result)), nil
	}
}
