package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/fplmate/fplmate/internal/config"
	"github.com/fplmate/fplmate/internal/logger"
	"github.com/fplmate/fplmate/internal/metrics"
	"github.com/fplmate/fplmate/internal/report"
	"github.com/fplmate/fplmate/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis tools over MCP streamable HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}
			m := metrics.New()
			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           newHandler(a, cfg, m),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			a.log.Info().Str("addr", cfg.Server.Addr).Str("path", cfg.Server.MCPPath).Msg("MCP HTTP server listening")

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			a.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}

func newMCPServer(a *app, cfg config.Config, m *metrics.Metrics) (*mcp.Server, []toolInfo) {
	server := mcp.NewServer(&mcp.Implementation{Name: "fplmate", Version: version}, nil)
	ts := &toolset{
		store:   store.NewJSONStore(cfg.RawRoot),
		opts:    baseOptions(cfg),
		builder: report.NewBuilder(logger.Component(a.log, "report", "builder"), m),
	}
	registry := make([]toolInfo, 0, 9)
	ts.register(server, &registry, m)
	return server, registry
}

func newHandler(a *app, cfg config.Config, m *metrics.Metrics) http.Handler {
	server, registry := newMCPServer(a, cfg, m)
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	r := mux.NewRouter()
	r.Use(withAuth(cfg.Server.APIKey, cfg.Server.AuthHeader))
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	}).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.Handle(cfg.Server.MCPPath, handler)
	return r
}

// withAuth accepts the key in header or as a bearer token. An empty apiKey
// disables the check.
func withAuth(apiKey, header string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(header))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
