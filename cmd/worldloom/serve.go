package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/worldloom/internal/api"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if addr == "" {
					addr = d.Config.Server.Addr
				}

				server := api.NewServer(d.Worlds, d.Populate, d.Admin, d.Logger)
				httpServer := &http.Server{
					Addr:    addr,
					Handler: server.Router(),
				}

				errCh := make(chan error, 1)
				go func() {
					errCh <- httpServer.ListenAndServe()
				}()
				d.Logger.Info("serving", "addr", addr)

				select {
				case err := <-errCh:
					return err
				case <-cmd.Context().Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (defaults to config)")

	return cmd
}
