package root

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"habitforge/internal/companion"
	"habitforge/internal/engine"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the companion server (HTTP + WebSocket)",
		Long:  "Serves the live snapshot over HTTP and pushes updates to connected\ncompanion apps over WebSocket. Stops on SIGINT/SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var server *companion.Server
			coord, cfg, cleanup, err := openCoordinator(ctx, engine.WithOnChange(func() {
				if server != nil {
					server.PushSnapshot()
				}
			}))
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = cfg.ListenAddr
			}
			server = companion.NewServer(addr, coord, cfg.Logger())

			coord.Start(ctx)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (default from HF_LISTEN_ADDR)")
	return cmd
}
