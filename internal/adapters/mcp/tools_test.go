package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"filerename/internal/adapters/filelock"
	"filerename/internal/adapters/filesystem"
	"filerename/internal/config"
	"filerename/internal/logger"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	return Deps{
		FS:     filesystem.New(),
		Locker: filelock.NewDirectoryLocker(t.TempDir()),
		Log:    logger.NopLogger{},
		Config: config.DefaultConfig(),
	}
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func setupPhotos(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{"IMG_20220115_103522.jpg", "IMG_20230301_080000.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(name), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

func TestPreviewRename_DoesNotTouchFiles(t *testing.T) {
	root := setupPhotos(t)

	res, err := previewHandler(testDeps(t))(context.Background(), request(map[string]any{
		"root":            root,
		"input_template":  "IMG_<<TS|yyyyMMdd_HHmmss>>.jpg",
		"output_template": "<<TS|yyyy-MM-dd>>.jpg",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	text := resultText(t, res)
	for _, want := range []string{"[DRY]", "IMG_20220115_103522.jpg -> 2022-01-15.jpg", "IMG_20230301_080000.jpg -> 2023-03-01.jpg"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in:\n%s", want, text)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "IMG_20220115_103522.jpg")); err != nil {
		t.Error("preview must not rename files")
	}
}

func TestPreviewRename_TemplateError(t *testing.T) {
	res, err := previewHandler(testDeps(t))(context.Background(), request(map[string]any{
		"root":            t.TempDir(),
		"input_template":  "foo<<TS|yyyyMMdd>>.bar",
		"output_template": "bar.jpg",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if text := resultText(t, res); !strings.Contains(text, "source pattern but not target pattern") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestRename_EnumeratesCollisions(t *testing.T) {
	root := setupPhotos(t)

	res, err := renameHandler(testDeps(t))(context.Background(), request(map[string]any{
		"root":            root,
		"input_template":  "IMG_<<R|\\d{8}>>_\\d{6}.jpg",
		"output_template": "photo.jpg",
		"collision":       "enumerate",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	for _, name := range []string{"photo.jpg", "photo-1.jpg", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("expected %s to exist", name)
		}
	}
}

func TestRename_InvalidCollision(t *testing.T) {
	res, _ := renameHandler(testDeps(t))(context.Background(), request(map[string]any{
		"root":            t.TempDir(),
		"input_template":  "a.jpg",
		"output_template": "b.jpg",
		"collision":       "overwrite",
	}))
	if !res.IsError {
		t.Error("expected tool error for unknown collision strategy")
	}
}

func TestListMarkers(t *testing.T) {
	res, err := markersHandler()(context.Background(), request(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := resultText(t, res)
	for _, abbr := range []string{"E:", "R:", "TS:", "CD:"} {
		if !strings.Contains(text, abbr) {
			t.Errorf("missing %s in %s", abbr, text)
		}
	}
}

func TestPreviewRename_MissingRoot(t *testing.T) {
	res, err := previewHandler(testDeps(t))(context.Background(), request(map[string]any{
		"root":            filepath.Join(t.TempDir(), "missing"),
		"input_template":  "a.jpg",
		"output_template": "b.jpg",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for a missing root")
	}
	if text := resultText(t, res); !strings.Contains(text, "cannot access") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestRename_RefusesLockedRoot(t *testing.T) {
	deps := testDeps(t)
	root := setupPhotos(t)

	release, err := deps.Locker.TryAcquire(root)
	if err != nil {
		t.Fatalf("TryAcquire failed: %v", err)
	}
	defer release()

	res, err := renameHandler(deps)(context.Background(), request(map[string]any{
		"root":            root,
		"input_template":  "notes.txt",
		"output_template": "renamed.txt",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "locked") {
		t.Errorf("expected locked error, got %q", resultText(t, res))
	}
	if _, err := os.Stat(filepath.Join(root, "notes.txt")); err != nil {
		t.Error("locked root must not be modified")
	}
}
