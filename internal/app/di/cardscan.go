// Package di はアプリケーションのコンポーネントを組み立てるファクトリーを提供します。
package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"meishi_backend/internal/app/config"
	"meishi_backend/internal/feature/cardscan/adapters/gemini"
	"meishi_backend/internal/feature/cardscan/adapters/openai"
	"meishi_backend/internal/feature/cardscan/adapters/throttled"
	"meishi_backend/internal/feature/cardscan/adapters/vision"
	"meishi_backend/internal/feature/cardscan/transport/handler"
	"meishi_backend/internal/feature/cardscan/usecase"
	infrahttp "meishi_backend/internal/platform/http"
	"meishi_backend/internal/shared/ratelimiter"
)

// CardScan は組み立て済みのユースケースと、終了時に閉じるリソースです。
type CardScan struct {
	Usecase handler.CardScanUsecase
	closers []func() error
}

// Close は外部クライアントを閉じます。
func (c *CardScan) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewCardScan は設定に従って外部APIクライアントを生成し、名刺スキャンのユースケースを組み立てます。
// 3つの外部呼び出しは同じリミッターを共有します。
func NewCardScan(ctx context.Context, cfg *config.Config, recorder usecase.ScanRecorder) (*CardScan, error) {
	httpClient := infrahttp.NewHTTPClient(cfg.OutboundTimeout)
	limiter := ratelimiter.NewRateLimiter(cfg.OutboundRatePerMinute, time.Minute)
	out := &CardScan{}

	azure := openai.NewAzureClient(openai.AzureConfig{
		Endpoint:   cfg.AzureEndpoint,
		APIVersion: cfg.AzureAPIVersion,
		APIKey:     cfg.AzureAPIKey,
	}, httpClient, cfg.OutboundMaxRetries)

	var extractor usecase.TextExtractor
	switch cfg.OCRBackend {
	case config.OCRBackendVision:
		v, err := vision.NewVisionTextExtractor(ctx)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, v.Close)
		extractor = v
	default:
		extractor = openai.NewChatTextExtractor(azure, cfg.ModelDeployment)
	}

	researcher, err := newCompanyResearcher(ctx, cfg, httpClient)
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	out.Usecase = usecase.NewCardScanUsecase(
		throttled.NewTextExtractor(extractor, limiter),
		throttled.NewFieldParser(openai.NewJSONFieldParser(azure, cfg.ModelDeployment), limiter),
		throttled.NewCompanyResearcher(researcher, limiter),
		usecase.WithRecorder(recorder),
		usecase.WithBackends(usecase.Backends{OCR: cfg.OCRBackend, Research: cfg.ResearchBackend}),
		usecase.WithMaxImageSize(cfg.MaxImageBytes),
	)
	return out, nil
}

func newCompanyResearcher(ctx context.Context, cfg *config.Config, httpClient *http.Client) (usecase.CompanyResearcher, error) {
	switch cfg.ResearchBackend {
	case config.ResearchBackendGemini:
		r, err := gemini.NewGeminiResearcher(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, httpClient)
		if err != nil {
			return nil, fmt.Errorf("creating gemini researcher: %w", err)
		}
		return r, nil
	default:
		client := openai.NewClient(cfg.OpenAIAPIKey, httpClient, cfg.OutboundMaxRetries)
		return openai.NewWebSearchResearcher(client, cfg.WebSearchModel, openai.SearchOptions{
			ContextSize: cfg.SearchContextSize,
			Country:     cfg.SearchCountry,
			City:        cfg.SearchCity,
			Region:      cfg.SearchRegion,
		}), nil
	}
}
