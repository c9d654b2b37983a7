// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Init 初始化全局 zerolog
// 本地调试时设置 LOG_PRETTY=1 切换到彩色控制台输出，默认输出 JSON
func Init(serviceName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	var out = zerolog.New(os.Stdout)
	if os.Getenv("LOG_PRETTY") == "1" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = out.With().Timestamp().Str("service", serviceName).Logger()
}

// Ctx 返回绑定了当前 trace_id 的 logger，便于日志和链路追踪互查
func Ctx(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return &log.Logger
	}
	l := log.With().Str("trace_id", sc.TraceID().String()).Logger()
	return &l
}
