// Command respkv-server boots the in-memory key/value server: it loads
// configuration, wires the index and typed stores, starts the RESP
// connection server and the debug/stats HTTP surface, and on SIGINT/SIGTERM
// stops accepting connections, shuts down the debug surface and exits.
// Connections still being serviced at that point are not waited for.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/respkv/respkv/internal/config"
	"github.com/respkv/respkv/internal/debugapi"
	"github.com/respkv/respkv/internal/kvindex"
	"github.com/respkv/respkv/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	fs := pflag.NewFlagSet("respkv-server", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to a properties/YAML config file")
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	idx := kvindex.New(log)
	srv := server.New(log, idx, cfg.PoolSize)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Fatal("listen failed", zap.Error(err), zap.String("addr", cfg.Addr()))
	}
	log.Info("command server listening", zap.String("addr", cfg.Addr()), zap.Int("pool_size", cfg.PoolSize))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})

	var debugSrv *http.Server
	if cfg.DebugEnabled {
		debugSrv = &http.Server{
			Addr:    cfg.DebugAddr(),
			Handler: debugapi.Router(log, idx, srv),
		}
		g.Go(func() error {
			log.Info("debug surface listening", zap.String("addr", cfg.DebugAddr()))
			if err := debugSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return debugSrv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("shutting down")
}
