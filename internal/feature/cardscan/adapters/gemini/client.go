// Package gemini はGoogle Gemini APIのGoogle検索グラウンディングを使用した企業検索クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"meishi_backend/internal/feature/cardscan/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// generator はgenai.Modelsのうち本パッケージが使うメソッドです。
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiResearcher はGoogle検索ツールを有効にしたGeminiで企業情報を調べます。
type GeminiResearcher struct {
	models generator
	model  string
}

// GeminiResearcherがCompanyResearcherを実装していることをコンパイル時に検証します。
var _ usecase.CompanyResearcher = (*GeminiResearcher)(nil)

// NewGeminiResearcher はAPIキーを使用してGeminiResearcherの新しいインスタンスを生成します。
func NewGeminiResearcher(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GeminiResearcher, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiResearcher{models: client.Models, model: model}, nil
}

// Research はプロンプトを送信し、モデルの出力テキストを返します。
func (g *GeminiResearcher) Research(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return resp.Text(), nil
}
