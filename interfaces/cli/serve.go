package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agent-iagon/infrastructure/logging"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/mcp"
)

const serverInstructions = `Use iagon_upload_file to upload a local file to Iagon storage. Pass
directory_name to place it into an existing directory and visibility
"public" to make it publicly readable (default "private"). Use
iagon_get_directory_id to look up the identifier of a directory by name.
Both tools return a JSON object with "ok", "kind" and "message".`

// serveOptions holds options for the serve command.
type serveOptions struct {
	transport string
	addr      string
}

// newServeCmd creates the serve command.
func (a *App) newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the storage tools over MCP",
		Long: `Start a Model Context Protocol server exposing the Iagon tools to agent hosts.

Examples:
  # Serve over stdio (for desktop agent hosts)
  iagon-agent serve

  # Serve over HTTP
  iagon-agent serve --transport http --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(func(rt *runtime) error {
				return a.serve(cmd.Context(), rt, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", "", "Transport: stdio or http (overrides config)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address for the http transport (overrides config)")

	return cmd
}

// serve runs the MCP server until ctx is canceled.
func (a *App) serve(ctx context.Context, rt *runtime, opts *serveOptions) error {
	transport := rt.config.Server.Transport
	if opts.transport != "" {
		transport = opts.transport
	}
	addr := rt.config.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	srv := mcp.NewAgentServer(mcp.AgentServerConfig{
		Name:         rt.config.Name,
		Version:      Version,
		Description:  "Iagon decentralized storage tools",
		Instructions: serverInstructions,
		Registry:     rt.registry,
		Invoker:      rt.invoker,
	})

	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Str("transport", transport)).
		Add(logging.Str("addr", addr)).
		Add(logging.Str("tools", fmt.Sprint(rt.registry.Names()))).
		Msg("starting MCP server")

	err := srv.Serve(ctx, transport, addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
