// Package handler はcardscanフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"meishi_backend/internal/api"
	"meishi_backend/internal/feature/cardscan/domain"
	"meishi_backend/internal/feature/cardscan/domain/entity"
	"meishi_backend/internal/feature/cardscan/presenter"
	"meishi_backend/internal/feature/cardscan/transport/view"
	"meishi_backend/internal/platform/logger"
)

// multipartOverhead はマルチパートのヘッダー等に許容する追加バイト数です。
const multipartOverhead = 64 * 1024

// アップロードを受け付ける拡張子とMIMEタイプ。
var (
	allowedExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	allowedMIMETypes  = []string{"image/png", "image/jpeg"}
)

// CardScanUsecase は名刺スキャンのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CardScanUsecase interface {
	Scan(ctx context.Context, imageData []byte) (*entity.ScanResult, error)
	ResearchCompany(ctx context.Context, companyName string) (*entity.CompanyResearch, error)
}

// CardScanHandler は名刺スキャンのHTTPリクエストを処理します。
type CardScanHandler struct {
	uc           CardScanUsecase
	maxImageSize int64
}

// NewCardScanHandler はCardScanHandlerの新しいインスタンスを生成します。
func NewCardScanHandler(uc CardScanUsecase, maxImageSize int64) *CardScanHandler {
	return &CardScanHandler{uc: uc, maxImageSize: maxImageSize}
}

// Index はアップロード画面を表示します。
//
// エンドポイント: GET /
func (h *CardScanHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, view.IndexTemplate, gin.H{
		"MaxImageMB": h.maxImageSize / (1024 * 1024),
	})
}

// ScanPage は名刺画像をスキャンして結果画面を表示します。
//
// エンドポイント: POST /scan
// Content-Type: multipart/form-data
// フィールド: image（PNG/JPEG）
func (h *CardScanHandler) ScanPage(c *gin.Context) {
	log := logger.Get(c.Request.Context())
	requestID := c.Writer.Header().Get(logger.RequestIDHeader)

	imageData, err := h.readImage(c)
	if err != nil {
		log.Warn("画像の受け付けに失敗", "error", err, "remote_addr", c.ClientIP())
		v := presenter.PresentError(imageData, err)
		v.RequestID = requestID
		c.HTML(statusFor(err), view.ResultTemplate, v)
		return
	}

	res, err := h.uc.Scan(c.Request.Context(), imageData)
	if err != nil {
		log.Error("名刺スキャンに失敗", "error", err)
		v := presenter.PresentError(imageData, err)
		v.RequestID = requestID
		c.HTML(statusFor(err), view.ResultTemplate, v)
		return
	}

	v := presenter.Present(imageData, res)
	v.RequestID = requestID
	c.HTML(http.StatusOK, view.ResultTemplate, v)
}

// ScanAPI は名刺画像をスキャンして結果をJSONで返します。
// 氏名・会社名が揃わなかった場合もスキャン自体は完了しているため200を返します。
//
// エンドポイント: POST /v1/cards/scan
// Content-Type: multipart/form-data
// フィールド: image（PNG/JPEG）
func (h *CardScanHandler) ScanAPI(c *gin.Context) {
	log := logger.Get(c.Request.Context())

	imageData, err := h.readImage(c)
	if err != nil {
		log.Warn("画像の受け付けに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(statusFor(err), api.ErrorResponse{Error: presenter.ErrorMessage(err)})
		return
	}

	res, err := h.uc.Scan(c.Request.Context(), imageData)
	if err != nil {
		log.Error("名刺スキャンに失敗", "error", err)
		c.JSON(statusFor(err), api.ErrorResponse{Error: presenter.ErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, toScanResponse(res))
}

// ResearchCompany は企業名から会社概要を検索します。
//
// エンドポイント: POST /v1/cards/research
// Content-Type: application/json
func (h *CardScanHandler) ResearchCompany(c *gin.Context) {
	log := logger.Get(c.Request.Context())

	var req api.CompanyResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("企業検索リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "企業名が必要です"})
		return
	}

	research, err := h.uc.ResearchCompany(c.Request.Context(), req.CompanyName)
	switch {
	case errors.Is(err, domain.ErrCompanyNameRequired):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "企業名が必要です"})
		return
	case errors.Is(err, domain.ErrCompanyNameTooLong):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "企業名が長すぎます"})
		return
	case err != nil:
		log.Error("企業検索に失敗", "error", err, "company", req.CompanyName)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "企業情報の検索に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, api.CompanyResearchResponse{
		CompanyName: research.CompanyName,
		Summary:     research.Summary,
	})
}

// readImage はフォームの image フィールドを読み込み、拡張子と中身の両方がPNG/JPEGであることを確認します。
// 形式チェックに失敗した場合も、読み込めたバイト列は返します。
func (h *CardScanHandler) readImage(c *gin.Context) ([]byte, error) {
	if h.maxImageSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageSize+multipartOverhead)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, domain.ErrImageTooLarge
		}
		return nil, domain.ErrEmptyImage
	}
	if h.maxImageSize > 0 && fh.Size > h.maxImageSize {
		return nil, domain.ErrImageTooLarge
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
		return nil, domain.ErrUnsupportedImageType
	}

	var file openapi_types.File
	file.InitFromMultipart(fh)
	imageData, err := file.Bytes()
	if err != nil {
		return nil, err
	}
	if len(imageData) == 0 {
		return nil, domain.ErrEmptyImage
	}
	if mime := mimetype.Detect(imageData); !mimetype.EqualsAny(mime.String(), allowedMIMETypes...) {
		return imageData, domain.ErrUnsupportedImageType
	}
	return imageData, nil
}

// statusFor はエラーをHTTPステータスコードに変換します。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedImageType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadGateway
	}
}

func toScanResponse(res *entity.ScanResult) api.ScanResponse {
	out := api.ScanResponse{
		Outcome: api.ScanOutcome(res.Outcome),
		Message: presenter.ResultMessage(res),
	}
	if res.Extraction.HasName() {
		out.Name = &res.Extraction.Name
	}
	if res.Extraction.HasCompany() {
		out.Company = &res.Extraction.Company
	}
	if res.Succeeded() {
		out.Research = &res.Research
	}
	return out
}
