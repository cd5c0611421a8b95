package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/molecule-lab/internal/collab"
)

const shutdownTimeout = 5 * time.Second

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a shared scene over websockets",
		Long: `Starts the collaboration server. Clients connect to /ws and send edit ops
as JSON text frames; every resulting history entry is broadcast to all
clients. GET /scene returns the current scene, /metrics exposes Prometheus
metrics.`,
		Run: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: config server.addr)")
	cmd.Flags().String("template", "", "Start from a built-in template (id or hotkey)")
	cmd.Flags().String("from", "", "Start from a stored molecule key")
	cmd.Flags().Bool("no-auto-bond", false, "Disable automatic bonding")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	tpl, _ := cmd.Flags().GetString("template")
	from, _ := cmd.Flags().GetString("from")
	noAutoBond, _ := cmd.Flags().GetBool("no-auto-bond")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ed := newEditor(!noAutoBond)
	if err := preload(cmd.Context(), ed, tpl, from); err != nil {
		exitErr("serve", err)
	}

	srv := collab.NewServer(ed, logger)
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("collab server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		exitErr("serve", err)
	}
}
