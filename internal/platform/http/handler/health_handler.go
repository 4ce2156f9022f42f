// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meishi_backend/internal/api"
)

// checkTimeout は依存サービス1件あたりの確認時間の上限です。
const checkTimeout = 2 * time.Second

// Check は依存サービス（Redis・スキャン記録DBなど）の疎通確認です。
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler は /healthz エンドポイントを処理します。
type HealthHandler struct {
	checks []Check
}

// NewHealthHandler はHealthHandlerを生成します。checksが空の場合は常にokを返します。
func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status, body := http.StatusOK, api.HealthResponse{Status: "ok"}
	if failed := h.run(c.Request.Context()); failed != "" {
		status, body = http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable: " + failed}
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}

// run は各チェックを順に実行し、最初に失敗したチェック名を返します。
func (h *HealthHandler) run(ctx context.Context) string {
	for _, chk := range h.checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := chk.Ping(cctx)
		cancel()
		if err != nil {
			slog.Warn("ヘルスチェックに失敗", "check", chk.Name, "error", err)
			return chk.Name
		}
	}
	return ""
}
