package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// AppInfo 包含了启动一个服务所需的特定信息。
type AppInfo struct {
	ServiceName string
	Port        int
	// RegisterHandlers 允许每个服务注册自己的 HTTP 路由
	RegisterHandlers func(mux *http.ServeMux)
	// Background 中的任务与 HTTP server 一起运行，ctx 结束时应当返回
	Background []func(ctx context.Context) error
	// Closers 在关停时按注册的相反顺序执行
	Closers []func(ctx context.Context) error
}

// StartService 启动服务并阻塞，直到收到 SIGINT/SIGTERM。
func StartService(info AppInfo) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, info)
}

// Serve 运行 HTTP server 和后台任务，ctx 结束后优雅关停。
func Serve(ctx context.Context, info AppInfo) error {
	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(mux)
	}

	ln, err := net.Listen("tcp", ":"+strconv.Itoa(info.Port))
	if err != nil {
		return errors.Wrapf(err, "listen on port %d", info.Port)
	}
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("service", info.ServiceName).Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	for _, task := range info.Background {
		task := task
		g.Go(func() error { return task(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("service", info.ServiceName).Msg("Shutting down service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down http server")
		}
		// 后进先出
		for i := len(info.Closers) - 1; i >= 0; i-- {
			if err := info.Closers[i](shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Error running closer")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Str("service", info.ServiceName).Msg("Service gracefully shut down")
	return nil
}
