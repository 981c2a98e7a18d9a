package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpage/internal/server"
)

// serveCmd runs the admin HTTP host until interrupted.
func serveCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form pages over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				rt.cfg.Addr = addr
			}
			if base, _ := cmd.Flags().GetString("api"); base != "" {
				rt.cfg.APIBaseURL = base
			}

			pages, err := rt.pages()
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

			srv, err := server.New(
				server.WithPages(pages),
				server.WithBackend(backend),
				server.WithSessionUpdater(updater),
				server.WithLogger(rt.log()),
				server.WithServerErrors(rt.cfg.SurfaceServerErrors),
				server.WithShutdownGrace(rt.cfg.ShutdownGrace),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, rt.cfg.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides FORMPAGE_ADDR)")
	cmd.Flags().String("api", "", "backend base url (overrides FORMPAGE_API_BASE_URL)")
	return cmd
}
