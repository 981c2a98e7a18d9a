package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	formpage "github.com/goliatone/go-formpage"
	"github.com/goliatone/go-formpage/pkg/page"
)

// renderCmd writes one page, fetched from the backend for update pages, to
// stdout or a file. The tui renderer prompts for every field and writes the
// collected values instead of markup.
func renderCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <page-id>",
		Short: "Render a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			output, _ := cmd.Flags().GetString("output")
			stylesheets, _ := cmd.Flags().GetStringSlice("stylesheet")

			p, err := rt.page(args[0])
			if err != nil {
				return err
			}
			backend, err := rt.backend()
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("renderer")
			registry, err := rt.renderers(stylesheets)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(name)
			if err != nil {
				return fmt.Errorf("%w (available: %v)", err, registry.List())
			}
			body, err := formpage.Render(cmd.Context(), p, backend, renderer,
				page.WithRecordID(id),
				page.WithLogger(rt.log()),
			)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = rt.out.Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(rt.out, "Form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().String("id", "", "record id of update-profile pages")
	cmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
	cmd.Flags().String("renderer", "vanilla", "renderer name (vanilla or tui)")
	cmd.Flags().StringSlice("stylesheet", nil, "stylesheet href to link, repeatable")
	return cmd
}
