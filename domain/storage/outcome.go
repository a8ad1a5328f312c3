package storage

import (
	"encoding/json"
	"fmt"
)

// OutcomeKind discriminates the variants of UploadResult.
type OutcomeKind string

const (
	OutcomeSuccess           OutcomeKind = "success"
	OutcomeDirectoryNotFound OutcomeKind = "directory_not_found"
	OutcomeHTTPFailure       OutcomeKind = "http_failure"
	OutcomeLocalError        OutcomeKind = "local_error"
)

// UploadResult is the outcome of an upload. Exactly the fields belonging
// to Kind are populated.
type UploadResult struct {
	Kind OutcomeKind `json:"kind"`

	// Response is the provider's parsed reply (success).
	Response json.RawMessage `json:"response,omitempty"`

	// Directory is the name that failed to resolve (directory_not_found).
	Directory string `json:"directory,omitempty"`

	// StatusCode and Body describe a rejected request (http_failure).
	StatusCode int    `json:"status_code,omitempty"`
	Body       string `json:"body,omitempty"`

	// Error describes a local failure (local_error).
	Error string `json:"error,omitempty"`
}

// Succeeded returns a success outcome.
func Succeeded(response json.RawMessage) UploadResult {
	return UploadResult{Kind: OutcomeSuccess, Response: response}
}

// DirectoryMissing returns a directory-not-found outcome.
func DirectoryMissing(name string) UploadResult {
	return UploadResult{Kind: OutcomeDirectoryNotFound, Directory: name}
}

// HTTPFailed returns an outcome for a non-200 reply.
func HTTPFailed(statusCode int, body string) UploadResult {
	return UploadResult{Kind: OutcomeHTTPFailure, StatusCode: statusCode, Body: body}
}

// LocalFailure returns an outcome for file, network or decoding errors.
func LocalFailure(err error) UploadResult {
	return UploadResult{Kind: OutcomeLocalError, Error: err.Error()}
}

// OK reports whether the upload succeeded.
func (r UploadResult) OK() bool {
	return r.Kind == OutcomeSuccess
}

// Message renders the outcome as a human-readable summary.
func (r UploadResult) Message() string {
	switch r.Kind {
	case OutcomeSuccess:
		return fmt.Sprintf("File successfully uploaded: %s", r.Response)
	case OutcomeDirectoryNotFound:
		return fmt.Sprintf("Directory '%s' not found", r.Directory)
	case OutcomeHTTPFailure:
		return fmt.Sprintf("Upload failed with status %d: %s", r.StatusCode, r.Body)
	case OutcomeLocalError:
		return fmt.Sprintf("Upload failed with error: %s", r.Error)
	default:
		return fmt.Sprintf("Upload finished with unknown outcome %q", r.Kind)
	}
}
