// Package throttled はcardscanの外部APIクライアントに呼び出し頻度の制限をかけるデコレーターを提供します。
// すべてのデコレーターで同じリミッターを共有すると、1回のスキャンで行う3回の呼び出しがまとめて数えられます。
package throttled

import (
	"context"
	"fmt"

	"meishi_backend/internal/feature/cardscan/usecase"
	"meishi_backend/internal/shared/ratelimiter"
)

// TextExtractor はTextExtractorの呼び出し前にリミッターで待機します。
type TextExtractor struct {
	inner   usecase.TextExtractor
	limiter ratelimiter.RateLimiterInterface
}

var _ usecase.TextExtractor = (*TextExtractor)(nil)

// NewTextExtractor はTextExtractorをリミッターでラップします。
func NewTextExtractor(inner usecase.TextExtractor, limiter ratelimiter.RateLimiterInterface) *TextExtractor {
	return &TextExtractor{inner: inner, limiter: limiter}
}

func (t *TextExtractor) ExtractText(ctx context.Context, imageB64 string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return t.inner.ExtractText(ctx, imageB64)
}

// FieldParser はFieldParserの呼び出し前にリミッターで待機します。
type FieldParser struct {
	inner   usecase.FieldParser
	limiter ratelimiter.RateLimiterInterface
}

var _ usecase.FieldParser = (*FieldParser)(nil)

// NewFieldParser はFieldParserをリミッターでラップします。
func NewFieldParser(inner usecase.FieldParser, limiter ratelimiter.RateLimiterInterface) *FieldParser {
	return &FieldParser{inner: inner, limiter: limiter}
}

func (p *FieldParser) ExtractFields(ctx context.Context, text string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return p.inner.ExtractFields(ctx, text)
}

// CompanyResearcher はCompanyResearcherの呼び出し前にリミッターで待機します。
type CompanyResearcher struct {
	inner   usecase.CompanyResearcher
	limiter ratelimiter.RateLimiterInterface
}

var _ usecase.CompanyResearcher = (*CompanyResearcher)(nil)

// NewCompanyResearcher はCompanyResearcherをリミッターでラップします。
func NewCompanyResearcher(inner usecase.CompanyResearcher, limiter ratelimiter.RateLimiterInterface) *CompanyResearcher {
	return &CompanyResearcher{inner: inner, limiter: limiter}
}

func (r *CompanyResearcher) Research(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return r.inner.Research(ctx, prompt)
}
