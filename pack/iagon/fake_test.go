package iagon

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// capturedUpload is one POST /upload as the fake gateway saw it.
type capturedUpload struct {
	APIKey   string
	Fields   map[string]string
	FileName string
	Content  string

	ContentLength    int64
	TransferEncoding []string
}

// fakeGateway is an in-process stand-in for the storage API.
type fakeGateway struct {
	ListingStatus int
	ListingBody   string
	UploadStatus  int
	UploadBody    string

	mu       sync.Mutex
	listings []*http.Request
	uploads  []capturedUpload
}

func newFakeGateway(t *testing.T, g *fakeGateway) (*httptest.Server, *Client) {
	t.Helper()
	if g.ListingStatus == 0 {
		g.ListingStatus = http.StatusOK
	}
	if g.UploadStatus == 0 {
		g.UploadStatus = http.StatusOK
	}
	if g.UploadBody == "" {
		g.UploadBody = `{"success":true,"data":{"_id":"f1"}}`
	}

	srv := httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Password:   "secret",
		HTTPClient: srv.Client(),
	})
	return srv, client
}

func (g *fakeGateway) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/directory":
		g.mu.Lock()
		g.listings = append(g.listings, r.Clone(r.Context()))
		g.mu.Unlock()
		w.WriteHeader(g.ListingStatus)
		_, _ = io.WriteString(w, g.ListingBody)

	case r.Method == http.MethodPost && r.URL.Path == "/upload":
		captured := capturedUpload{
			APIKey:           r.Header.Get("x-api-key"),
			Fields:           map[string]string{},
			ContentLength:    r.ContentLength,
			TransferEncoding: r.TransferEncoding,
		}
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				captured.Fields[k] = v[0]
			}
			if f, h, err := r.FormFile("file"); err == nil {
				data, _ := io.ReadAll(f)
				_ = f.Close()
				captured.FileName = h.Filename
				captured.Content = string(data)
			}
		}
		g.mu.Lock()
		g.uploads = append(g.uploads, captured)
		g.mu.Unlock()
		w.WriteHeader(g.UploadStatus)
		_, _ = io.WriteString(w, g.UploadBody)

	default:
		http.NotFound(w, r)
	}
}

func (g *fakeGateway) listingCalls() []*http.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*http.Request(nil), g.listings...)
}

func (g *fakeGateway) uploadCalls() []capturedUpload {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]capturedUpload(nil), g.uploads...)
}

// writeTempFile creates name with content in a fresh directory.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const docsListing = `{"data":{"directories":[{"_id":"d1","directory_name":"docs"}]}}`
