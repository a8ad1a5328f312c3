// Package agentiagon provides the version information for agent-iagon.
package agentiagon

// Version is the current version of agent-iagon.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
