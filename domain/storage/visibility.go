// Package storage provides the domain model for remote file storage:
// visibility scopes, directory records, upload requests and their outcomes.
package storage

// Visibility is the access scope of a stored object or directory.
// Values other than the two constants are passed to the provider as-is.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"

	// DefaultVisibility applies when a request leaves visibility unset.
	DefaultVisibility = VisibilityPrivate
)

// OrDefault returns v, or DefaultVisibility when v is empty.
func (v Visibility) OrDefault() Visibility {
	if v == "" {
		return DefaultVisibility
	}
	return v
}

// IsPrivate reports whether v is exactly the private scope.
func (v Visibility) IsPrivate() bool {
	return v == VisibilityPrivate
}

// String returns the wire value.
func (v Visibility) String() string {
	return string(v)
}
