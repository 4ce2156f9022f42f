package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meishi_backend/internal/feature/cardscan/domain"
	"meishi_backend/internal/feature/cardscan/domain/entity"
	"meishi_backend/internal/feature/cardscan/presenter"
	"meishi_backend/internal/feature/cardscan/transport/handler"
	"meishi_backend/internal/feature/cardscan/transport/view"
	"meishi_backend/internal/feature/cardscan/usecase"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

// mockCardScanUsecase はCardScanUsecaseインターフェースのモック実装です。
type mockCardScanUsecase struct {
	ScanFunc            func(ctx context.Context, imageData []byte) (*entity.ScanResult, error)
	ResearchCompanyFunc func(ctx context.Context, companyName string) (*entity.CompanyResearch, error)
	scanCalls           int
}

func (m *mockCardScanUsecase) Scan(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
	m.scanCalls++
	return m.ScanFunc(ctx, imageData)
}

func (m *mockCardScanUsecase) ResearchCompany(ctx context.Context, companyName string) (*entity.CompanyResearch, error) {
	return m.ResearchCompanyFunc(ctx, companyName)
}

// createMultipartRequest はテスト用のマルチパートリクエストを生成するヘルパー関数です。
func createMultipartRequest(t *testing.T, path, fieldName, fileName string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = io.Copy(part, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func successResult() *entity.ScanResult {
	return &entity.ScanResult{
		Outcome:    entity.OutcomeSuccess,
		Extraction: entity.ExtractionResult{Name: "Taro Yamada", Company: "Acme Corp"},
		Research:   "Acme Corpは元気な会社です",
		Stage:      entity.StageDone,
	}
}

func newRouter(uc handler.CardScanUsecase, maxImageSize int64) *gin.Engine {
	h := handler.NewCardScanHandler(uc, maxImageSize)

	router := gin.New()
	router.SetHTMLTemplate(view.Templates())
	router.GET("/", h.Index)
	router.POST("/scan", h.ScanPage)
	router.POST("/v1/cards/scan", h.ScanAPI)
	router.POST("/v1/cards/research", h.ResearchCompany)
	return router
}

func TestCardScanHandler_ScanAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupRequest   func(t *testing.T) *http.Request
		mockFunc       func(ctx context.Context, imageData []byte) (*entity.ScanResult, error)
		expectedStatus int
		expectedBody   string
		expectScan     bool
	}{
		{
			name: "success: both fields present",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/v1/cards/scan", "image", "card.png", pngHeader)
			},
			mockFunc: func(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
				return successResult(), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"outcome":"success","name":"Taro Yamada","company":"Acme Corp",` +
				`"research":"Acme Corpは元気な会社です","message":"Acme CorpのTaro Yamadaさんと名刺交換したんですね！📇"}`,
			expectScan: true,
		},
		{
			name: "success: jpeg with upper-case extension",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/v1/cards/scan", "image", "CARD.JPG", jpegHeader)
			},
			mockFunc: func(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
				return successResult(), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"outcome":"success","name":"Taro Yamada","company":"Acme Corp",` +
				`"research":"Acme Corpは元気な会社です","message":"Acme CorpのTaro Yamadaさんと名刺交換したんですね！📇"}`,
			expectScan: true,
		},
		{
			name: "fields missing is a handled outcome",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/v1/cards/scan", "image", "card.png", pngHeader)
			},
			mockFunc: func(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
				return &entity.ScanResult{
					Outcome:    entity.OutcomeFieldsMissing,
					Extraction: entity.ExtractionResult{Company: "Acme Corp"},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"outcome":"fields_missing","company":"Acme Corp","message":"` + presenter.MsgExtractionFailed + `"}`,
			expectScan:     true,
		},
		{
			name: "error: no image field",
			setupRequest: func(t *testing.T) *http.Request {
				req, _ := http.NewRequest(http.MethodPost, "/v1/cards/scan", io.NopCloser(bytes.NewReader(nil)))
				return req
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"画像ファイルが必要です"}`,
		},
		{
			name: "error: wrong field name",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/v1/cards/scan", "file", "card.png", pngHeader)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"画像ファイルが必要です"}`,
		},
		{
			name: "error: unsupported extension",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/v1/cards/scan", "image", "card.gif", pngHeader)
			},
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedBody:   `{"error":"JPG/PNG形式の画像をアップロードしてください"}`,
		},
		{
			name: "error: content is not an image",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/v1/cards/scan", "image", "card.png", []byte("%PDF-1.7 not a card"))
			},
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedBody:   `{"error":"JPG/PNG形式の画像をアップロードしてください"}`,
		},
		{
			name: "error: empty file",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/v1/cards/scan", "image", "card.png", nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"画像ファイルが必要です"}`,
		},
		{
			name: "error: upstream failure",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/v1/cards/scan", "image", "card.png", pngHeader)
			},
			mockFunc: func(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
				return nil, &usecase.StageError{Stage: entity.StageExtracting, Err: errors.New("azure API error")}
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"` + presenter.MsgUpstreamFailed + `"}`,
			expectScan:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCardScanUsecase{ScanFunc: tt.mockFunc}
			router := newRouter(mockUC, usecase.DefaultMaxImageSize)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.setupRequest(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			if tt.expectScan {
				assert.Equal(t, 1, mockUC.scanCalls)
			} else {
				assert.Equal(t, 0, mockUC.scanCalls, "pipeline must not run for rejected uploads")
			}
		})
	}
}

func TestCardScanHandler_ScanAPI_PassesImageBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got []byte
	mockUC := &mockCardScanUsecase{
		ScanFunc: func(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
			got = imageData
			return successResult(), nil
		},
	}
	router := newRouter(mockUC, usecase.DefaultMaxImageSize)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, createMultipartRequest(t, "/v1/cards/scan", "image", "card.png", pngHeader))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngHeader, got)
}

func TestCardScanHandler_ScanAPI_TooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockCardScanUsecase{}
	router := newRouter(mockUC, 16)

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, createMultipartRequest(t, "/v1/cards/scan", "image", "card.png", content))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"`+presenter.MsgImageTooLarge+`"}`, w.Body.String())
	assert.Equal(t, 0, mockUC.scanCalls)
}

func TestCardScanHandler_ScanPage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		req            func(t *testing.T) *http.Request
		mockFunc       func(ctx context.Context, imageData []byte) (*entity.ScanResult, error)
		expectedStatus int
		contains       []string
		excludes       []string
	}{
		{
			name: "success",
			req: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/scan", "image", "card.png", pngHeader)
			},
			mockFunc: func(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
				return successResult(), nil
			},
			expectedStatus: http.StatusOK,
			contains: []string{
				"Acme CorpのTaro Yamadaさんと名刺交換したんですね！📇",
				"検索結果",
				"Acme Corpは元気な会社です",
				presenter.ImageCaption,
			},
		},
		{
			name: "name only: error message, no research",
			req: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/scan", "image", "card.png", pngHeader)
			},
			mockFunc: func(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
				return &entity.ScanResult{
					Outcome:    entity.OutcomeFieldsMissing,
					Extraction: entity.ExtractionResult{Name: "Taro Yamada"},
				}, nil
			},
			expectedStatus: http.StatusOK,
			contains:       []string{presenter.MsgExtractionFailed},
			excludes:       []string{"名刺交換したんですね", "検索結果"},
		},
		{
			name: "upstream failure",
			req: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/scan", "image", "card.png", pngHeader)
			},
			mockFunc: func(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
				return nil, &usecase.StageError{Stage: entity.StageResearching, Err: errors.New("web search error")}
			},
			expectedStatus: http.StatusBadGateway,
			contains:       []string{presenter.MsgUpstreamFailed},
		},
		{
			name: "unsupported file",
			req: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/scan", "image", "card.txt", []byte("hello"))
			},
			expectedStatus: http.StatusUnsupportedMediaType,
			contains:       []string{presenter.MsgUnsupportedType},
			excludes:       []string{"<img"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCardScanUsecase{ScanFunc: tt.mockFunc}
			router := newRouter(mockUC, usecase.DefaultMaxImageSize)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.req(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, w.Body.String(), s)
			}
		})
	}
}

func TestCardScanHandler_Index(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newRouter(&mockCardScanUsecase{}, usecase.DefaultMaxImageSize)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "使い方")
	assert.Contains(t, w.Body.String(), `action="/scan"`)
	assert.Contains(t, w.Body.String(), "10MBまで")
}

func TestCardScanHandler_ResearchCompany(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    string
		mockFunc       func(ctx context.Context, companyName string) (*entity.CompanyResearch, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "success: research generated",
			requestBody: `{"company_name":"任天堂"}`,
			mockFunc: func(ctx context.Context, companyName string) (*entity.CompanyResearch, error) {
				assert.Equal(t, "任天堂", companyName)
				return &entity.CompanyResearch{CompanyName: "任天堂", Summary: "任天堂はゲームの会社やで"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"company_name":"任天堂","summary":"任天堂はゲームの会社やで"}`,
		},
		{
			name:           "error: empty request body",
			requestBody:    `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"企業名が必要です"}`,
		},
		{
			name:           "error: invalid json",
			requestBody:    `invalid`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"企業名が必要です"}`,
		},
		{
			name:        "error: blank company name",
			requestBody: `{"company_name":"   "}`,
			mockFunc: func(ctx context.Context, companyName string) (*entity.CompanyResearch, error) {
				return nil, domain.ErrCompanyNameRequired
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"企業名が必要です"}`,
		},
		{
			name:        "error: company name too long",
			requestBody: `{"company_name":"` + strings.Repeat("あ", 101) + `"}`,
			mockFunc: func(ctx context.Context, companyName string) (*entity.CompanyResearch, error) {
				return nil, domain.ErrCompanyNameTooLong
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"企業名が長すぎます"}`,
		},
		{
			name:        "error: usecase returns error",
			requestBody: `{"company_name":"テスト企業"}`,
			mockFunc: func(ctx context.Context, companyName string) (*entity.CompanyResearch, error) {
				return nil, errors.New("web search API error")
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"企業情報の検索に失敗しました"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCardScanUsecase{ResearchCompanyFunc: tt.mockFunc}
			router := newRouter(mockUC, usecase.DefaultMaxImageSize)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/v1/cards/research", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
