// Package mcp exposes registered tools to agent hosts over the Model
// Context Protocol, using github.com/felixgeelhaar/mcp-go.
package mcp

// Transports accepted by Serve.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)
