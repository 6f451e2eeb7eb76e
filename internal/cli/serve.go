package cli

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nicolas44373/clientes/internal/api"
)

func newServeCommand(o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the customer JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cfg, closeFn, err := o.openService(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			if addr == "" {
				addr = cfg.Addr
			}
			if err := svc.Load(ctx); err != nil {
				log.Printf("initial load failed, serving demonstration data: %v", err)
			}

			log.Printf("listening on %s (store %s)", addr, cfg.Store)
			return api.NewServer(api.Config{Addr: addr}, svc).Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (env CLIENTES_ADDR)")
	return cmd
}
