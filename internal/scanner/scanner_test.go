package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/graph"
)

const handlerSource = `
class OrderHandler {
  constructor(private orderService: OrderService) {}

  handleOrder(id: string): void {
    this.orderService.process(id);
  }
}
`

func newTestScanner(maxFileBytes int64) *Scanner {
	return New(graph.NewExtractor(graph.Config{}), nil, maxFileBytes)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(results []FileResult) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.RelPath)
	}
	return out
}

func TestScanFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\nskipped.ts\n")
	writeFile(t, root, "src/app.ts", handlerSource)
	writeFile(t, root, "src/util.js", "function add(a, b) { return a + b; }")
	writeFile(t, root, "skipped.ts", "class Skipped {}")
	writeFile(t, root, "generated/gen.ts", "class Gen {}")
	writeFile(t, root, "node_modules/dep/index.ts", "class Dep {}")
	writeFile(t, root, "dist/bundle.js", "function x() {}")
	writeFile(t, root, "README.md", "# docs")

	results, err := newTestScanner(0).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"src/app.ts", "src/util.js"}, relPaths(results))
}

func TestScanResultContents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "order.ts", handlerSource)
	writeFile(t, root, "plain.ts", "function run(): void {}")

	results, err := newTestScanner(0).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byRel := map[string]FileResult{}
	for _, r := range results {
		byRel[r.RelPath] = r
	}

	order := byRel["order.ts"]
	require.NotNil(t, order.Graph)
	require.NotNil(t, order.Handler)
	assert.Equal(t, "OrderHandler", order.Handler.HandlerName)
	assert.Equal(t, []string{"OrderService"}, order.Handler.Dependencies.Services)

	plain := byRel["plain.ts"]
	require.NotNil(t, plain.Graph)
	assert.Nil(t, plain.Handler, "no class means no handler descriptor")
	require.Len(t, plain.Graph.Nodes, 1)
	assert.Equal(t, "run", plain.Graph.Nodes[0].Label)
}

func TestScanSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.ts", "function a() {}")
	writeFile(t, root, "big.ts", "function b() {}"+strings.Repeat("//x\n", 100))

	results, err := newTestScanner(64).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"small.ts"}, relPaths(results))
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "function a() {}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner(0).Scan(ctx, root)
	assert.Error(t, err)
}

func TestAnalyzeFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "handler.ts", handlerSource)

	result, err := newTestScanner(0).AnalyzeFile(filepath.Join(root, "handler.ts"))
	require.NoError(t, err)
	assert.Equal(t, "handler.ts", result.RelPath)
	require.NotNil(t, result.Handler)
	assert.Equal(t, "OrderHandler", result.Handler.HandlerName)
}

func TestAnalyzeFileUnsupported(t *testing.T) {
	_, err := newTestScanner(0).AnalyzeFile("schema.sql")
	assert.Error(t, err)
}

func TestAnalyzeFileMissing(t *testing.T) {
	_, err := newTestScanner(0).AnalyzeFile(filepath.Join(t.TempDir(), "missing.ts"))
	assert.Error(t, err)
}
