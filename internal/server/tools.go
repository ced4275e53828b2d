package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codeatlas/util"
)

// Arguments structs

type IndexArgs struct {
	Path  string `json:"path" jsonschema:"description:Workspace root to index; defaults to the enclosing git repository"`
	Force bool   `json:"force" jsonschema:"description:Force a full re-index even if an index already exists"`
}

type IndexStatusArgs struct{}

type AnalyzeFileArgs struct {
	FilePath string `json:"file_path" jsonschema:"required,description:The absolute path of the source file to analyze"`
}

type AnalyzeHandlerArgs struct {
	FilePath string `json:"file_path" jsonschema:"required,description:The absolute path of the source file containing the handler class"`
}

type FindImpactArgs struct {
	SymbolName string `json:"symbol_name" jsonschema:"required,description:The label of the symbol to analyze for impact"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "index",
		Description: "Scans the workspace and rebuilds the dependency graph snapshot",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args IndexArgs) (*mcp.CallToolResult, any, error) {
		s.indexMu.RLock()
		currentStatus := s.indexStatus
		s.indexMu.RUnlock()

		if currentStatus == IndexStatusInProgress {
			return errorResult("Indexing already in progress"), nil, nil
		}
		if currentStatus == IndexStatusReady && !args.Force {
			return textResult("Index already built; pass force to re-index"), nil, nil
		}

		if currentStatus == IndexStatusReady || currentStatus == IndexStatusFailed {
			s.indexMu.Lock()
			s.indexReady = make(chan struct{})
			s.indexMu.Unlock()
		}

		root := args.Path
		if root == "" {
			var err error
			root, err = util.FindGitRoot()
			if err != nil {
				return errorResult(fmt.Sprintf("Failed to locate workspace root: %v", err)), nil, nil
			}
		}

		s.setIndexStatus(IndexStatusInProgress, nil)
		startTime := time.Now()

		results, err := s.scanner.Scan(ctx, root)
		if err != nil {
			s.setIndexStatus(IndexStatusFailed, fmt.Errorf("scan failed: %w", err))
			return errorResult(fmt.Sprintf("Scan failed: %v", err)), nil, nil
		}

		snapshotID, err := s.store.NewSnapshot(ctx, root)
		if err != nil {
			s.setIndexStatus(IndexStatusFailed, fmt.Errorf("failed to create snapshot: %w", err))
			return errorResult(fmt.Sprintf("Failed to create snapshot: %v", err)), nil, nil
		}

		var validFiles []string
		nodeCount, edgeCount, handlerCount := 0, 0, 0
		for _, r := range results {
			validFiles = append(validFiles, r.RelPath)
			if err := s.store.SaveGraph(ctx, snapshotID, r.RelPath, r.Graph); err != nil {
				s.setIndexStatus(IndexStatusFailed, fmt.Errorf("failed to store graph: %w", err))
				return errorResult(fmt.Sprintf("Failed to store graph: %v", err)), nil, nil
			}
			nodeCount += len(r.Graph.Nodes)
			edgeCount += len(r.Graph.Edges)
			if r.Handler != nil {
				if err := s.store.SaveHandler(ctx, snapshotID, r.RelPath, r.Handler); err != nil {
					s.log.Warn("failed to store handler descriptor", "file", r.RelPath, "error", err)
				} else {
					handlerCount++
				}
			}
		}

		if err := s.store.PruneStaleFiles(ctx, snapshotID, validFiles); err != nil {
			s.log.Warn("failed to prune stale files", "error", err)
		}

		s.indexMu.Lock()
		s.snapshotID = snapshotID
		s.indexDuration = time.Since(startTime)
		s.indexMu.Unlock()
		s.setIndexStatus(IndexStatusReady, nil)

		msg := fmt.Sprintf("Indexed %d files: %d nodes, %d edges, %d handlers in %.2fs",
			len(results), nodeCount, edgeCount, handlerCount, time.Since(startTime).Seconds())
		return textResult(msg), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "index_status",
		Description: "Returns the current indexing status of the workspace",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args IndexStatusArgs) (*mcp.CallToolResult, any, error) {
		status, err, duration := s.GetIndexStatus()

		result := map[string]any{
			"status": string(status),
		}
		if duration > 0 {
			result["duration_seconds"] = duration.Seconds()
		}
		if err != nil {
			result["error"] = err.Error()
		}

		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_file",
		Description: "Returns the structural dependency graph of one source file",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeFileArgs) (*mcp.CallToolResult, any, error) {
		result, err := s.scanner.AnalyzeFile(args.FilePath)
		if err != nil {
			return errorResult(fmt.Sprintf("Analysis failed: %v", err)), nil, nil
		}

		payload := map[string]any{
			"file":  util.PathToURI(args.FilePath),
			"graph": result.Graph,
		}
		jsonBytes, _ := json.MarshalIndent(payload, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_handler",
		Description: "Extracts constructor-injected dependencies of the first handler class in a file",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeHandlerArgs) (*mcp.CallToolResult, any, error) {
		result, err := s.scanner.AnalyzeFile(args.FilePath)
		if err != nil {
			return errorResult(fmt.Sprintf("Analysis failed: %v", err)), nil, nil
		}
		if result.Handler == nil {
			return textResult("No handler class found."), nil, nil
		}

		payload := map[string]any{
			"file":    util.PathToURI(args.FilePath),
			"handler": result.Handler,
		}
		jsonBytes, _ := json.MarshalIndent(payload, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_impact",
		Description: "Finds downstream dependents of a symbol in the indexed workspace",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FindImpactArgs) (*mcp.CallToolResult, any, error) {
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.WaitForIndex(waitCtx); err != nil {
			return errorResult(fmt.Sprintf("Indexing wait failed: %v", err)), nil, nil
		}

		snapshotID := s.currentSnapshot()
		if snapshotID == "" {
			var err error
			snapshotID, err = s.store.LatestSnapshot(ctx)
			if err != nil || snapshotID == "" {
				return errorResult("No index available; run the index tool first"), nil, nil
			}
		}

		impacted, err := s.store.FindImpact(ctx, snapshotID, args.SymbolName)
		if err != nil {
			return errorResult(fmt.Sprintf("Query failed: %v", err)), nil, nil
		}
		if len(impacted) == 0 {
			return textResult("No impacted symbols found."), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(impacted, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
