package weather

import (
	"context"
	"errors"
	"fmt"
)

// Error categories. Components wrap these with %w; callers classify with errors.Is.
var (
	// ErrConfiguration is fatal and only raised at startup (e.g. missing credentials).
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound means the place could not be resolved to coordinates.
	ErrNotFound = errors.New("place not found")

	// ErrRateLimited means the forecast source answered with a rate-limit status.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransport covers every other outbound failure: non-2xx, timeout, bad payload.
	ErrTransport = errors.New("transport failure")

	// ErrDayOutOfRange means a day beyond the fetched horizon was requested.
	ErrDayOutOfRange = errors.New("day out of range")

	// ErrPipelineExhausted means the turn budget ran out before the pipeline finished.
	ErrPipelineExhausted = errors.New("pipeline exhausted")

	// ErrCancelled means the caller cancelled the query before it completed.
	ErrCancelled = errors.New("query cancelled")
)

// Stable message prefixes, one per error category.
const (
	PrefixNotFound      = "❌ 不支持的城市"
	PrefixRateLimited   = "⏳ 请求过于频繁"
	PrefixTransport     = "❌ 天气服务暂不可用"
	PrefixDayOutOfRange = "❌ 数据不足"
	PrefixExhausted     = "❌ 协作未收敛"
	PrefixCancelled     = "⛔ 查询已取消"
	PrefixConfiguration = "❌ 配置错误"
	PrefixFailed        = "❌ 查询失败"
)

// Kind names the category of err, for logs and API payloads.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrDayOutOfRange):
		return "day_out_of_range"
	case errors.Is(err, ErrPipelineExhausted):
		return "pipeline_exhausted"
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return "transport"
	default:
		return "internal"
	}
}

// Describe renders err as a user-facing message that starts with the
// category prefix. place may be empty.
func Describe(err error, place string) string {
	switch Kind(err) {
	case "ok":
		return ""
	case "not_found":
		return fmt.Sprintf("%s：%s，请检查城市名称是否正确", PrefixNotFound, place)
	case "rate_limited":
		return fmt.Sprintf("%s，天气接口有频率限制，请稍后再试", PrefixRateLimited)
	case "day_out_of_range":
		return fmt.Sprintf("%s：没有%s对应日期的天气数据", PrefixDayOutOfRange, place)
	case "pipeline_exhausted":
		return fmt.Sprintf("%s：在轮次上限内未能完成查询", PrefixExhausted)
	case "cancelled":
		return PrefixCancelled
	case "configuration":
		return fmt.Sprintf("%s：%v", PrefixConfiguration, err)
	case "transport":
		return fmt.Sprintf("%s，请稍后重试", PrefixTransport)
	default:
		return fmt.Sprintf("%s：%v", PrefixFailed, err)
	}
}
