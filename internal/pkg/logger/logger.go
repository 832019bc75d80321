package logger

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init 初始化全局 zerolog，并把它设置为 context 的默认 logger。
// 返回的 logger 已经带上了 service 字段。
func Init(service, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

// Ctx 返回 ctx 中的 logger，没有时回退到全局默认值。
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithOrder 返回一个带 order_id 字段的新 context。
func WithOrder(ctx context.Context, orderID string) context.Context {
	l := zerolog.Ctx(ctx).With().Str("order_id", orderID).Logger()
	return l.WithContext(ctx)
}
