package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agent-iagon/domain/middleware"
	"github.com/felixgeelhaar/agent-iagon/domain/storage"
	"github.com/felixgeelhaar/agent-iagon/pack/iagon"
)

// toolOutcome is the common part of every iagon tool output.
type toolOutcome struct {
	OK      bool   `json:"ok"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// uploadOptions holds options for the upload command.
type uploadOptions struct {
	visibility string
	name       string
	directory  string
	jsonOutput bool
}

// newUploadCmd creates the upload command.
func (a *App) newUploadCmd() *cobra.Command {
	opts := &uploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to Iagon storage",
		Long: `Upload a local file to Iagon storage.

Private uploads are protected with the configured password when one is set.

Examples:
  # Upload privately under the file's own name
  iagon-agent upload report.pdf

  # Upload publicly into the "docs" directory under another name
  iagon-agent upload ./out/r1.pdf --visibility public --directory docs --name report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := json.Marshal(storage.UploadRequest{
				FilePath:      args[0],
				Visibility:    storage.Visibility(opts.visibility),
				DisplayName:   opts.name,
				DirectoryName: opts.directory,
			})
			if err != nil {
				return err
			}
			return a.withRuntime(func(rt *runtime) error {
				return a.invokeAndPrint(cmd.Context(), rt, iagon.UploadFileTool, input, opts.jsonOutput)
			})
		},
	}

	cmd.Flags().StringVar(&opts.visibility, "visibility", string(storage.DefaultVisibility), "Visibility of the upload (private or public)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Stored file name (default: the file's base name)")
	cmd.Flags().StringVar(&opts.directory, "directory", "", "Name of an existing directory to upload into")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the raw JSON result")

	return cmd
}

// directoryIDOptions holds options for the directory-id command.
type directoryIDOptions struct {
	visibility string
	jsonOutput bool
}

// newDirectoryIDCmd creates the directory-id command.
func (a *App) newDirectoryIDCmd() *cobra.Command {
	opts := &directoryIDOptions{}

	cmd := &cobra.Command{
		Use:   "directory-id <name>",
		Short: "Print the identifier of a named directory",
		Long: `Look up a directory by exact, case-sensitive name and print its identifier.

Only the first page of the directory listing is searched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := json.Marshal(storage.DirectoryLookupRequest{
				DirectoryName: args[0],
				Visibility:    storage.Visibility(opts.visibility),
			})
			if err != nil {
				return err
			}
			return a.withRuntime(func(rt *runtime) error {
				return a.invokeAndPrint(cmd.Context(), rt, iagon.GetDirectoryIDTool, input, opts.jsonOutput)
			})
		},
	}

	cmd.Flags().StringVar(&opts.visibility, "visibility", string(storage.DefaultVisibility), "Visibility of the directory (private or public)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the raw JSON result")

	return cmd
}

// invokeAndPrint runs a tool, prints its message and turns a failure
// outcome into ErrToolFailed.
func (a *App) invokeAndPrint(ctx context.Context, rt *runtime, name string, input json.RawMessage, raw bool) error {
	result, err := rt.invoker.Invoke(ctx, middleware.SourceCLI, name, input)
	if err != nil {
		return err
	}

	var out toolOutcome
	if err := result.Decode(&out); err != nil {
		return fmt.Errorf("decode %s output: %w", name, err)
	}

	if raw {
		_, _ = fmt.Fprintln(a.stdout, result.OutputString())
	} else {
		_, _ = fmt.Fprintln(a.stdout, out.Message)
	}

	if !out.OK {
		return fmt.Errorf("%w: %s", ErrToolFailed, out.Kind)
	}
	return nil
}
