// Package iagon provides tools for the Iagon decentralized storage API:
// uploading files and resolving directory names to identifiers.
package iagon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/agent-iagon/domain/pack"
	"github.com/felixgeelhaar/agent-iagon/domain/storage"
	"github.com/felixgeelhaar/agent-iagon/domain/tool"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/logging"
)

// Tool names.
const (
	UploadFileTool     = "iagon_upload_file"
	GetDirectoryIDTool = "iagon_get_directory_id"
)

// OutcomeRecorder receives the outcome of every upload.
type OutcomeRecorder interface {
	RecordUploadOutcome(ctx context.Context, kind string, visibility string)
}

// Config configures the iagon pack.
type Config struct {
	// Client performs the API calls (required).
	Client *Client

	// ReadOnly registers only the directory lookup tool.
	ReadOnly bool

	// Recorder is notified of upload outcomes when set.
	Recorder OutcomeRecorder
}

// Option configures the iagon pack.
type Option func(*Config)

// WithReadOnly leaves out the upload tool.
func WithReadOnly() Option {
	return func(c *Config) {
		c.ReadOnly = true
	}
}

// WithOutcomeRecorder reports every upload outcome to r.
func WithOutcomeRecorder(r OutcomeRecorder) Option {
	return func(c *Config) {
		c.Recorder = r
	}
}

// New creates the iagon pack.
func New(client *Client, opts ...Option) (*pack.Pack, error) {
	if client == nil {
		return nil, errors.New("iagon client is required")
	}

	cfg := Config{Client: client}
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := pack.NewBuilder("iagon").
		WithDescription("Iagon decentralized storage: file upload and directory lookup").
		WithVersion("1.0.0").
		WithMetadata("base_url", client.BaseURL())

	if !cfg.ReadOnly {
		builder = builder.AddTools(uploadFileTool(&cfg))
	}
	builder = builder.AddTools(getDirectoryIDTool(&cfg))

	p, err := builder.Build()
	if err != nil {
		return nil, err
	}
	for _, t := range p.Tools {
		p.Metadata["display_name."+t.Name()] = t.Title()
	}
	return p, nil
}

// uploadFileOutput is the output for the iagon_upload_file tool.
type uploadFileOutput struct {
	OK         bool            `json:"ok"`
	Kind       string          `json:"kind"`
	Message    string          `json:"message"`
	FileName   string          `json:"file_name,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	Directory  string          `json:"directory,omitempty"`
	StatusCode int             `json:"status_code,omitempty"`
	Body       string          `json:"body,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func uploadFileTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(UploadFileTool).
		WithTitle("Upload File").
		WithDescription("Uploads a file to Iagon storage, optionally to a specified directory.").
		WithInputSchema(tool.MustSchemaFor[storage.UploadRequest]()).
		WithRiskLevel(tool.RiskLow).
		WithTags("storage", "upload").
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var req storage.UploadRequest
			if err := decodeInput(input, &req); err != nil {
				return tool.Result{}, err
			}

			result := cfg.Client.Upload(ctx, req)
			if cfg.Recorder != nil {
				cfg.Recorder.RecordUploadOutcome(ctx, string(result.Kind), req.Visibility.OrDefault().String())
			}

			return tool.JSONResult(uploadFileOutput{
				OK:         result.OK(),
				Kind:       string(result.Kind),
				Message:    result.Message(),
				FileName:   req.EffectiveName(),
				Response:   result.Response,
				Directory:  result.Directory,
				StatusCode: result.StatusCode,
				Body:       result.Body,
				Error:      result.Error,
			})
		}).
		MustBuild()
}

// getDirectoryIDOutput is the output for the iagon_get_directory_id tool.
type getDirectoryIDOutput struct {
	OK          bool   `json:"ok"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Directory   string `json:"directory"`
	DirectoryID string `json:"directory_id,omitempty"`
}

func getDirectoryIDTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(GetDirectoryIDTool).
		WithTitle("Get Directory ID").
		WithDescription("Retrieves the ID of a specified directory from Iagon storage.").
		WithInputSchema(tool.MustSchemaFor[storage.DirectoryLookupRequest]()).
		ReadOnly().
		Idempotent().
		WithTags("storage", "lookup").
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var req storage.DirectoryLookupRequest
			if err := decodeInput(input, &req); err != nil {
				return tool.Result{}, err
			}

			id, err := cfg.Client.ResolveDirectory(ctx, req.DirectoryName, req.Visibility)
			if err != nil {
				if !errors.Is(err, storage.ErrDirectoryNotFound) {
					logging.Warn().
						Add(logging.Component("iagon")).
						Add(logging.Directory(req.DirectoryName)).
						Add(logging.ErrorField(err)).
						Msg("directory lookup failed")
				}
				return tool.JSONResult(getDirectoryIDOutput{
					Kind:      "not_found",
					Message:   fmt.Sprintf("Directory '%s' not found or error occurred.", req.DirectoryName),
					Directory: req.DirectoryName,
				})
			}

			return tool.JSONResult(getDirectoryIDOutput{
				OK:          true,
				Kind:        "found",
				Message:     id,
				Directory:   req.DirectoryName,
				DirectoryID: id,
			})
		}).
		MustBuild()
}

// decodeInput unmarshals tool input, reporting malformed JSON as invalid input.
func decodeInput(input json.RawMessage, v any) error {
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("%w: %v", tool.ErrInvalidInput, err)
	}
	return nil
}
