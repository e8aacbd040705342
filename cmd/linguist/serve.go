package main

import (
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve run and compare over HTTP until interrupted.

Endpoints:
  POST /v1/run        single-provider run
  POST /v1/compare    compare run (optional "providers", "retry_failed")
  GET  /v1/providers  credential status
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics

Credential files are watched and reloaded when they change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := []server.Option{
			server.WithDefaults(defaultsRequest(a.cfg.Defaults)),
			server.WithRedactor(a.store.Vault().RedactString),
			server.WithVersion(Version()),
		}
		if a.history != nil {
			opts = append(opts, server.WithHistory(a.history))
		}
		srv := server.New(server.RequiredConfig{Runner: a.runner, Credentials: a.store}, opts...)

		addr := serveAddr
		if addr == "" {
			addr = a.cfg.Server.Addr
		}
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config)")
}
