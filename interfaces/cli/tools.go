package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agent-iagon/infrastructure/mcp"
)

// newToolsCmd creates the tools command.
func (a *App) newToolsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Long: `List the tools this server exposes, with their input parameters.

Use --json to print the MCP tool definitions including input schemas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(func(rt *runtime) error {
				defs := mcp.ToolDefs(rt.registry)
				if jsonOutput {
					data, err := json.MarshalIndent(defs, "", "  ")
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(a.stdout, string(data))
					return nil
				}

				_, _ = fmt.Fprintf(a.stdout, "Tools (%d):\n", len(defs))
				for _, t := range rt.registry.List() {
					_, _ = fmt.Fprintf(a.stdout, "\n  %s (%s)\n", t.Name(), t.Title())
					_, _ = fmt.Fprintf(a.stdout, "    %s\n", t.Description())
					if t.Annotations().ReadOnly {
						_, _ = fmt.Fprintf(a.stdout, "    ReadOnly: true\n")
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output tool definitions as JSON")

	return cmd
}
