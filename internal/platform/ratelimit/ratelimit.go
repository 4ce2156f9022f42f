// Package ratelimit はRedisを使ったクライアントIP単位のリクエスト数制限を提供します。
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"meishi_backend/internal/api"
)

const (
	defaultWindow    = time.Minute
	defaultNamespace = "ratelimit"

	// MsgTooManyRequests は制限超過時のメッセージです。
	MsgTooManyRequests = "リクエストが多すぎます。しばらくしてから再度お試しください"
)

// Limiter は固定ウィンドウ方式でキーごとのリクエスト数を数えます。
// rdbがnilの場合は常に許可します。
type Limiter struct {
	rdb       *redis.Client
	limit     int64
	window    time.Duration
	namespace string
	now       func() time.Time
}

// NewLimiter はLimiterを生成します。windowとnamespaceが未指定の場合は既定値を使います。
func NewLimiter(rdb *redis.Client, limit int, window time.Duration, namespace string) *Limiter {
	if window <= 0 {
		window = defaultWindow
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &Limiter{
		rdb:       rdb,
		limit:     int64(limit),
		window:    window,
		namespace: namespace,
		now:       time.Now,
	}
}

// Result は1回の判定結果です。
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Allow はkeyのカウントを1増やし、上限内かどうかを返します。
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	if l.rdb == nil || l.limit <= 0 {
		return Result{Allowed: true, Remaining: l.limit}, nil
	}

	now := l.now()
	windowStart := now.Truncate(l.window)
	k := l.key(key, windowStart)

	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("incr %s: %w", k, err)
	}
	// 最初のリクエストでウィンドウの有効期限を設定
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("expire %s: %w", k, err)
		}
	}

	if n > l.limit {
		return Result{Allowed: false, RetryAfter: windowStart.Add(l.window).Sub(now)}, nil
	}
	return Result{Allowed: true, Remaining: l.limit - n}, nil
}

func (l *Limiter) key(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", l.namespace, safe(key), windowStart.Unix())
}

// safe はRedisキーで問題になる文字を置き換えます。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

// Middleware はクライアントIPごとにリクエスト数を制限するginミドルウェアを返します。
// Redisに接続できない場合はリクエストを通します。
func Middleware(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("レート制限の確認に失敗", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(l.limit, 10))
		if !res.Allowed {
			secs := int(res.RetryAfter.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.Header("X-RateLimit-Remaining", "0")
			slog.Info("レート制限を超過", "remote_addr", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Error: MsgTooManyRequests})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		c.Next()
	}
}
