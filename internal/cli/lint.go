package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpage/pkg/openapi"
)

// ErrLintFindings is returned when any page endpoint disagrees with the
// backend description.
var ErrLintFindings = errors.New("page endpoints disagree with the openapi document")

// lintCmd checks every configured endpoint against an OpenAPI document.
func lintCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check page endpoints against the backend OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			location, _ := cmd.Flags().GetString("source")
			if location == "" {
				location = rt.cfg.OpenAPI
			}
			if location == "" {
				return errors.New("no openapi document: pass --source or set FORMPAGE_OPENAPI")
			}

			src, err := openapi.ParseSource(location)
			if err != nil {
				return err
			}
			doc, err := openapi.Load(cmd.Context(), src, openapi.WithTimeout(rt.cfg.RequestTimeout))
			if err != nil {
				return err
			}
			store, err := rt.pages()
			if err != nil {
				return err
			}
			report, err := openapi.Lint(cmd.Context(), doc, store.Pages())
			if err != nil {
				return err
			}

			for _, finding := range report.Findings {
				fmt.Fprintln(rt.out, finding.String())
			}
			fmt.Fprintf(rt.out, "%d endpoints checked, %d findings\n", report.Checked, len(report.Findings))
			if !report.OK() {
				return ErrLintFindings
			}
			return nil
		},
	}
	cmd.Flags().String("source", "", "openapi file or url (overrides FORMPAGE_OPENAPI)")
	return cmd
}
