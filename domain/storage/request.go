package storage

import "path/filepath"

// UploadRequest describes one file upload. It is also the input type of the
// upload tool; the struct tags drive the schema advertised to hosts.
type UploadRequest struct {
	// FilePath references a readable local file.
	FilePath string `json:"file_path" jsonschema:"required,description=Path to the file to upload"`

	// Visibility of the uploaded file; empty means private.
	Visibility Visibility `json:"visibility,omitempty" jsonschema:"description=Visibility of the upload: private (default) or public"`

	// DisplayName overrides the stored file name.
	DisplayName string `json:"file_name,omitempty" jsonschema:"description=Optional custom name for the uploaded file"`

	// DirectoryName targets a named directory when set.
	DirectoryName string `json:"directory_name,omitempty" jsonschema:"description=Optional directory name to upload to"`
}

// EffectiveName is the display name, or the file's base name when unset.
func (r UploadRequest) EffectiveName() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return filepath.Base(r.FilePath)
}

// DirectoryLookupRequest asks for the identifier of a named directory.
type DirectoryLookupRequest struct {
	DirectoryName string     `json:"directory_name" jsonschema:"required,description=Name of the directory to find"`
	Visibility    Visibility `json:"visibility,omitempty" jsonschema:"description=Visibility of the directory: private (default) or public"`
}

// DirectoryRecord is one entry of a directory listing.
type DirectoryRecord struct {
	ID            string `json:"_id"`
	DirectoryName string `json:"directory_name"`
}

// FindDirectory returns the ID of the first record named exactly name.
// Matching is case-sensitive; records without an ID never match and later
// duplicates are ignored.
func FindDirectory(records []DirectoryRecord, name string) (string, bool) {
	for _, r := range records {
		if r.DirectoryName == name && r.ID != "" {
			return r.ID, true
		}
	}
	return "", false
}
