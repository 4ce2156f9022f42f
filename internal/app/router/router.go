// Package router はHTTPルーティングを定義します。
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	cardscanhandler "meishi_backend/internal/feature/cardscan/transport/handler"
	"meishi_backend/internal/feature/cardscan/transport/view"
	scanloghandler "meishi_backend/internal/feature/scanlog/transport/handler"
	platformhandler "meishi_backend/internal/platform/http/handler"
	"meishi_backend/internal/platform/logger"
	"meishi_backend/internal/platform/ratelimit"
)

// Handlers はルーターに登録するハンドラーです。Statsがnilの場合は統計エンドポイントを登録しません。
type Handlers struct {
	Health   *platformhandler.HealthHandler
	CardScan *cardscanhandler.CardScanHandler
	Stats    *scanloghandler.StatsHandler
}

// NewRouter はルーターを生成します。limiterはスキャン・企業検索のエンドポイントにのみ適用します。
// trustedProxiesが空の場合、X-Forwarded-Forは使わず接続元アドレスをクライアントIPとします。
func NewRouter(h Handlers, limiter *ratelimit.Limiter, trustedProxies []string) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		slog.Warn("信頼するプロキシの設定に失敗", "error", err, "proxies", trustedProxies)
	}
	r.Use(gin.Recovery(), logger.Middleware(), gin.Logger())
	r.SetHTMLTemplate(view.Templates())

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// 画面
	r.GET("/", h.CardScan.Index)

	// 外部APIを呼び出すルート
	scan := r.Group("/")
	scan.Use(ratelimit.Middleware(limiter))
	{
		scan.POST("/scan", h.CardScan.ScanPage)
		scan.POST("/v1/cards/scan", h.CardScan.ScanAPI)
		scan.POST("/v1/cards/research", h.CardScan.ResearchCompany)
	}

	if h.Stats != nil {
		r.GET("/v1/scans/stats", h.Stats.Stats)
	}

	return r
}
