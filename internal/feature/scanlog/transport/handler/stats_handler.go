// Package handler はscanlogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meishi_backend/internal/api"
	"meishi_backend/internal/feature/scanlog/domain/entity"
	"meishi_backend/internal/feature/scanlog/usecase"
)

// StatsUsecase はスキャン統計のユースケースインターフェースです。
type StatsUsecase interface {
	Stats(ctx context.Context, window time.Duration) (*entity.Stats, error)
}

// StatsHandler はスキャン統計のHTTPリクエストを処理します。
type StatsHandler struct {
	uc StatsUsecase
}

// NewStatsHandler はStatsHandlerの新しいインスタンスを生成します。
func NewStatsHandler(uc StatsUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Stats はスキャン結果ごとの件数を返します。
//
// エンドポイント: GET /v1/scans/stats?window=24h
func (h *StatsHandler) Stats(c *gin.Context) {
	var params api.GetV1ScansStatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "クエリが不正です"})
		return
	}

	var window time.Duration
	if params.Window != nil && *params.Window != "" {
		d, err := time.ParseDuration(*params.Window)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "windowの形式が不正です（例: 24h）"})
			return
		}
		window = d
	}

	stats, err := h.uc.Stats(c.Request.Context(), window)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "windowの範囲が不正です"})
			return
		}
		slog.Error("スキャン統計の取得に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "統計の取得に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, api.ScanStatsResponse{
		Success:       stats.Success,
		FieldsMissing: stats.FieldsMissing,
		Malformed:     stats.Malformed,
		Failed:        stats.Failed,
		Total:         stats.Total(),
	})
}
