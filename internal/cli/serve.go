package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"RMGScale/internal/config"
	"RMGScale/internal/metrics"
	"RMGScale/internal/server"
)

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New(a.cfg, a.logger, metrics.NewRecorder())
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return srv.Run(ctx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.cfg.Addr, config.FlagAddr, a.cfg.Addr, "listen address")
	f.StringVar(&a.cfg.TLSCert, config.FlagTLSCert, a.cfg.TLSCert, "TLS certificate file")
	f.StringVar(&a.cfg.TLSKey, config.FlagTLSKey, a.cfg.TLSKey, "TLS key file")
	f.DurationVar(&a.cfg.ShutdownTimeout, config.FlagShutdownTimeout, a.cfg.ShutdownTimeout, "graceful shutdown timeout")
	f.Float64Var(&a.cfg.RateLimit, config.FlagRateLimit, a.cfg.RateLimit, "requests per second per client")
	f.IntVar(&a.cfg.RateBurst, config.FlagRateBurst, a.cfg.RateBurst, "request burst per client")
	f.StringVar(&a.cfg.AuthKey, config.FlagAuthKey, a.cfg.AuthKey, "HS256 key; enables bearer tokens on /api")
	f.StringSliceVar(&a.cfg.CORSOrigins, config.FlagCORSOrigins, a.cfg.CORSOrigins, "allowed CORS origins")
	return cmd
}
