package cmd

import (
	"github.com/spf13/cobra"

	"github.com/selimozcann/linktracer/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the tracer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracer, err := a.newTracer()
			if err != nil {
				return err
			}
			a.printBanner(cmd)
			sc := a.cfg.Server
			srv := server.New(server.Config{
				Addr:              sc.Addr,
				ReadHeaderTimeout: sc.ReadHeaderTimeout,
				ShutdownTimeout:   sc.ShutdownTimeout,
			}, tracer, a.logger)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
