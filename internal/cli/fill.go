package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpage/pkg/notify"
	"github.com/goliatone/go-formpage/pkg/page"
	"github.com/goliatone/go-formpage/pkg/renderers/tui"
)

const maxFillAttempts = 3

// fillCmd prompts every field of a page in the terminal and submits it.
// Invalid answers show the alert panel and prompt again.
func fillCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <page-id>",
		Short: "Fill and submit a page interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			restore, _ := cmd.Flags().GetBool("restore")
			ctx := cmd.Context()

			p, err := rt.page(args[0])
			if err != nil {
				return err
			}
			backend, err := rt.backend()
			if err != nil {
				return err
			}
			updater, release, err := rt.session()
			if err != nil {
				return err
			}
			defer release()

			ctrl, err := page.New(p, backend,
				page.WithRecordID(id),
				page.WithLogger(rt.log()),
				page.WithNotifier(notify.Multi{notify.Console{Out: rt.out}, notify.Logger{Entry: rt.log()}}),
				page.WithNavigator(page.NavigatorFunc(func(path string) {
					fmt.Fprintf(rt.out, "→ %s\n", path)
				})),
				page.WithSessionUpdater(updater),
				page.WithServerErrors(rt.cfg.SurfaceServerErrors),
			)
			if err != nil {
				return err
			}
			defer ctrl.Unmount()
			if err := ctrl.Mount(ctx); err != nil {
				return err
			}

			if restore {
				_, err := ctrl.Restore(ctx)
				return err
			}

			renderer, err := rt.terminal(tui.OutputFormatPrettyText)
			if err != nil {
				return err
			}

			for attempt := 1; ; attempt++ {
				if err := renderer.Fill(ctx, p, ctrl.RenderOptions(), ctrl.Data, ctrl.Handlers()); err != nil {
					return err
				}
				ok, err := renderer.Confirm(ctx, "Lưu thay đổi?", true)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(rt.out, "Đã hủy.")
					return nil
				}

				// the next Fill prints the alert panel in its header
				_, err = ctrl.Submit(ctx)
				if !errors.Is(err, page.ErrInvalid) || attempt == maxFillAttempts {
					return err
				}
			}
		},
	}
	cmd.Flags().String("id", "", "record id of update-profile pages")
	cmd.Flags().Bool("restore", false, "restore the defaults of a settings page instead of filling it")
	return cmd
}
