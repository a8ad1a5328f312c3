package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// gateway is a minimal storage API used by the command tests.
type gateway struct {
	listing string

	mu      sync.Mutex
	uploads []map[string]string
	apiKeys []string
}

func (g *gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.apiKeys = append(g.apiKeys, r.Header.Get("x-api-key"))
	g.mu.Unlock()

	switch r.URL.Path {
	case "/directory":
		_, _ = io.WriteString(w, g.listing)
	case "/upload":
		fields := map[string]string{}
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				fields[k] = v[0]
			}
		}
		g.mu.Lock()
		g.uploads = append(g.uploads, fields)
		g.mu.Unlock()
		_, _ = io.WriteString(w, `{"success":true}`)
	default:
		http.NotFound(w, r)
	}
}

// setupApp starts a gateway and writes a config file pointing at it.
func setupApp(t *testing.T, g *gateway) (*App, *bytes.Buffer, *bytes.Buffer, string) {
	t.Helper()
	srv := httptest.NewServer(g)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "name: iagon-test\n" +
		"storage:\n" +
		"  base_url: " + srv.URL + "\n" +
		"  api_key: cli-key\n" +
		"  password: pw\n" +
		"logging:\n" +
		"  level: error\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	return app, &stdout, &stderr, configPath
}

func baseArgs(configPath string, args ...string) []string {
	return append([]string{"-c", configPath, "--env-file", filepath.Join(filepath.Dir(configPath), "absent.env")}, args...)
}

func TestApp_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "iagon-agent version") {
		t.Errorf("version output missing 'iagon-agent version', got: %s", stdout.String())
	}
}

func TestApp_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	output := stdout.String()
	for _, want := range []string{"Iagon", "serve", "upload", "directory-id", "tools"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q, got: %s", want, output)
		}
	}
}

func TestApp_Upload(t *testing.T) {
	g := &gateway{listing: `{"data":{"directories":[{"_id":"d1","directory_name":"docs"}]}}`}
	app, stdout, _, configPath := setupApp(t, g)

	file := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(file, []byte("pdf"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	err := app.ExecuteWithArgs(context.Background(), baseArgs(configPath, "upload", file, "--directory", "docs"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "File successfully uploaded: ") {
		t.Errorf("output = %q", stdout.String())
	}

	if len(g.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(g.uploads))
	}
	fields := g.uploads[0]
	if fields["directoryId"] != "d1" || fields["filename"] != "report.pdf" || fields["password"] != "pw" {
		t.Errorf("fields = %v", fields)
	}
	for _, key := range g.apiKeys {
		if key != "cli-key" {
			t.Errorf("x-api-key = %q, want cli-key", key)
		}
	}
}

func TestApp_UploadExportsMetrics(t *testing.T) {
	g := &gateway{listing: `{"data":{"directories":[]}}`}
	app, _, stderr, configPath := setupApp(t, g)

	f, err := os.OpenFile(configPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	if _, err := io.WriteString(f, "metrics:\n  enabled: true\n  exporter: stdout\n"); err != nil {
		t.Fatalf("append config: %v", err)
	}
	_ = f.Close()

	file := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := app.ExecuteWithArgs(context.Background(), baseArgs(configPath, "upload", file)); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	out := stderr.String()
	for _, name := range []string{"iagon.upload.outcomes", "iagon.tool.invocations", "iagon.tool.duration"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %s on stderr, got %q", name, out)
		}
	}
}

func TestApp_UploadDirectoryNotFound(t *testing.T) {
	g := &gateway{listing: `{"data":{"directories":[]}}`}
	app, stdout, _, configPath := setupApp(t, g)

	file := filepath.Join(t.TempDir(), "report.pdf")
	_ = os.WriteFile(file, []byte("pdf"), 0o600)

	err := app.ExecuteWithArgs(context.Background(), baseArgs(configPath, "upload", file, "--directory", "docs"))
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "Directory 'docs' not found" {
		t.Errorf("output = %q", stdout.String())
	}
	if len(g.uploads) != 0 {
		t.Errorf("expected no uploads, got %d", len(g.uploads))
	}
}

func TestApp_DirectoryID(t *testing.T) {
	g := &gateway{listing: `{"data":{"directories":[{"_id":"d1","directory_name":"docs"}]}}`}
	app, stdout, _, configPath := setupApp(t, g)

	if err := app.ExecuteWithArgs(context.Background(), baseArgs(configPath, "directory-id", "docs")); err != nil {
		t.Fatalf("directory-id failed: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "d1" {
		t.Errorf("output = %q, want d1", stdout.String())
	}
}

func TestApp_DirectoryIDJSON(t *testing.T) {
	g := &gateway{listing: `{"data":{"directories":[]}}`}
	app, stdout, _, configPath := setupApp(t, g)

	err := app.ExecuteWithArgs(context.Background(), baseArgs(configPath, "directory-id", "docs", "--json"))
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if out["kind"] != "not_found" || out["message"] != "Directory 'docs' not found or error occurred." {
		t.Errorf("output = %v", out)
	}
}

func TestApp_Tools(t *testing.T) {
	app, stdout, _, configPath := setupApp(t, &gateway{})

	if err := app.ExecuteWithArgs(context.Background(), baseArgs(configPath, "tools")); err != nil {
		t.Fatalf("tools failed: %v", err)
	}
	output := stdout.String()
	for _, want := range []string{"Tools (2)", "iagon_upload_file (Upload File)", "iagon_get_directory_id (Get Directory ID)"} {
		if !strings.Contains(output, want) {
			t.Errorf("tools output missing %q, got: %s", want, output)
		}
	}
}

func TestApp_ToolsJSON(t *testing.T) {
	app, stdout, _, configPath := setupApp(t, &gateway{})

	if err := app.ExecuteWithArgs(context.Background(), baseArgs(configPath, "tools", "--json")); err != nil {
		t.Fatalf("tools failed: %v", err)
	}

	var defs []struct {
		Name        string          `json:"name"`
		InputSchema json.RawMessage `json:"inputSchema"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &defs); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(defs) != 2 || defs[0].Name != "iagon_get_directory_id" || defs[1].Name != "iagon_upload_file" {
		t.Fatalf("defs = %+v", defs)
	}
	if !strings.Contains(string(defs[1].InputSchema), "file_path") {
		t.Errorf("upload schema = %s", defs[1].InputSchema)
	}
}

func TestApp_MissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"-c", filepath.Join(t.TempDir(), "nope.yaml"), "tools"})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to load configuration") {
		t.Errorf("error = %v", err)
	}
}

func TestApp_UploadRequiresFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"upload"}); err == nil {
		t.Fatal("expected error without a file argument")
	}
}

func TestApp_ServeUnknownTransport(t *testing.T) {
	app, _, _, configPath := setupApp(t, &gateway{})

	err := app.ExecuteWithArgs(context.Background(), baseArgs(configPath, "serve", "--transport", "smoke-signals"))
	if err == nil || !strings.Contains(err.Error(), "unknown transport") {
		t.Fatalf("expected unknown transport error, got %v", err)
	}
}
