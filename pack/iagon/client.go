package iagon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/felixgeelhaar/agent-iagon/domain/storage"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/logging"
)

// DefaultBaseURL is the public Iagon storage gateway.
const DefaultBaseURL = "https://gw.iagon.com/api/v2/storage"

// apiKeyHeader carries the account API key on every request.
const apiKeyHeader = "x-api-key"

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the API root (default: DefaultBaseURL).
	BaseURL string

	// APIKey is sent with every request, even when empty.
	APIKey string

	// Password protects private uploads when non-empty.
	Password string

	// HTTPClient performs the requests. The default has an instrumented
	// transport and no timeout.
	HTTPClient *http.Client
}

// Client talks to the Iagon storage API. It holds only immutable
// configuration and is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	password string
	http     *http.Client
}

// NewClient creates a client from cfg.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		password: cfg.Password,
		http:     httpClient,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError reports a reply with a status other than 200.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// listingResponse is the envelope of GET /directory.
type listingResponse struct {
	Data struct {
		Directories []storage.DirectoryRecord `json:"directories"`
	} `json:"data"`
}

// ListDirectories fetches the first page of the directory index.
func (c *Client) ListDirectories(ctx context.Context, visibility storage.Visibility) ([]storage.DirectoryRecord, error) {
	query := url.Values{}
	query.Set("visibility", visibility.OrDefault().String())
	query.Set("listingType", "index")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/directory?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list directories: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return listing.Data.Directories, nil
}

// ResolveDirectory returns the ID of the directory named name. Only the
// first page of the listing is searched. A non-200 listing reply is
// reported as not found, like an absent name.
func (c *Client) ResolveDirectory(ctx context.Context, name string, visibility storage.Visibility) (string, error) {
	records, err := c.ListDirectories(ctx, visibility)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			logging.Debug().
				Add(logging.Component("iagon")).
				Add(logging.Directory(name)).
				Add(logging.StatusCode(statusErr.StatusCode)).
				Msg("directory listing rejected")
			return "", &storage.DirectoryNotFoundError{Name: name}
		}
		return "", err
	}

	id, ok := storage.FindDirectory(records, name)
	if !ok {
		return "", &storage.DirectoryNotFoundError{Name: name}
	}
	return id, nil
}

// Upload sends one file. Every failure mode is reported in the returned
// result; Upload never fails with a Go error.
func (c *Client) Upload(ctx context.Context, req storage.UploadRequest) storage.UploadResult {
	start := time.Now()
	result := c.upload(ctx, req)

	event := logging.Info()
	if !result.OK() {
		event = logging.Warn()
	}
	event.Add(logging.Component("iagon")).
		Add(logging.Operation("upload")).
		Add(logging.Visibility(req.Visibility.OrDefault().String())).
		Add(logging.Outcome(string(result.Kind))).
		Add(logging.Duration(time.Since(start))).
		Msg("upload finished")
	return result
}

func (c *Client) upload(ctx context.Context, req storage.UploadRequest) storage.UploadResult {
	visibility := req.Visibility.OrDefault()

	fields := [][2]string{
		{"filename", req.EffectiveName()},
		{"visibility", visibility.String()},
	}

	if req.DirectoryName != "" {
		id, err := c.ResolveDirectory(ctx, req.DirectoryName, visibility)
		if err != nil {
			if errors.Is(err, storage.ErrDirectoryNotFound) {
				return storage.DirectoryMissing(req.DirectoryName)
			}
			return storage.LocalFailure(err)
		}
		fields = append(fields, [2]string{"directoryId", id})
	}

	if visibility.IsPrivate() && c.password != "" {
		fields = append(fields, [2]string{"password", c.password})
	}

	file, err := os.Open(req.FilePath)
	if err != nil {
		return storage.LocalFailure(err)
	}
	defer file.Close()

	body, size, contentType, err := multipartBody(file, filepath.Base(req.FilePath), fields)
	if err != nil {
		return storage.LocalFailure(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return storage.LocalFailure(err)
	}
	httpReq.ContentLength = size
	httpReq.Header.Set(apiKeyHeader, c.apiKey)
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return storage.LocalFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return storage.LocalFailure(fmt.Errorf("read upload response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return storage.HTTPFailed(resp.StatusCode, string(raw))
	}
	if !json.Valid(raw) {
		return storage.LocalFailure(fmt.Errorf("decode upload response: invalid JSON: %q", truncate(string(raw), 200)))
	}
	return storage.Succeeded(json.RawMessage(raw))
}

// multipartBody frames fields and the file as multipart form data. The
// part headers and closing boundary are rendered up front so the request
// carries an exact Content-Length; the file content is streamed between them.
func multipartBody(file *os.File, fileName string, fields [][2]string) (io.Reader, int64, string, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, 0, "", err
	}
	if info.IsDir() {
		return nil, 0, "", fmt.Errorf("read %s: is a directory", fileName)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, 0, "", err
		}
	}
	if _, err := mw.CreateFormFile("file", fileName); err != nil {
		return nil, 0, "", err
	}
	headLen := buf.Len()
	if err := mw.Close(); err != nil {
		return nil, 0, "", err
	}

	framing := buf.Bytes()
	head, tail := framing[:headLen], framing[headLen:]
	body := io.MultiReader(bytes.NewReader(head), file, bytes.NewReader(tail))
	return body, int64(len(framing)) + info.Size(), mw.FormDataContentType(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
