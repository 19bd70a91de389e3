package redis

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/rsalab/log"
)

// DebugHook 记录命令耗时与慢查询
type DebugHook struct {
	logger          *log.Logger
	slowQueryThresh time.Duration
}

func NewDebugHook(logger *log.Logger, slowQueryThresh time.Duration) *DebugHook {
	return &DebugHook{logger: logger, slowQueryThresh: slowQueryThresh}
}

func (h *DebugHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Warn().Str("addr", addr).Dur("duration", time.Since(start)).Err(err).Msg("redis dial failed")
		}
		return conn, err
	}
}

func (h *DebugHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(cmd.FullName(), time.Since(start), err)
		return err
	}
}

func (h *DebugHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.record("pipeline", time.Since(start), err)
		return err
	}
}

func (h *DebugHook) record(name string, d time.Duration, err error) {
	switch {
	case err != nil && err != redis.Nil:
		h.logger.Warn().Str("cmd", name).Dur("duration", d).Err(err).Msg("redis command failed")
	case h.slowQueryThresh > 0 && d > h.slowQueryThresh:
		h.logger.Warn().Str("cmd", name).Dur("duration", d).Dur("threshold", h.slowQueryThresh).Msg("slow query detected")
	default:
		h.logger.Debug().Str("cmd", name).Dur("duration", d).Msg("redis command")
	}
}
