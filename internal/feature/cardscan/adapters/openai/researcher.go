package openai

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"meishi_backend/internal/feature/cardscan/usecase"
)

const (
	// DefaultWebSearchModel はWeb検索に使うデフォルトモデルです。
	DefaultWebSearchModel = "gpt-4.1"
)

// SearchOptions はWeb検索ツールの設定です。
type SearchOptions struct {
	ContextSize string // low / medium / high
	Country     string // ISO 3166-1 alpha-2 (例: JP)
	City        string
	Region      string
}

// WebSearchResearcher はResponses APIのweb_search_previewツールで企業情報を調べます。
type WebSearchResearcher struct {
	client openaisdk.Client
	model  string
	search SearchOptions
}

// WebSearchResearcherがCompanyResearcherを実装していることをコンパイル時に検証します。
var _ usecase.CompanyResearcher = (*WebSearchResearcher)(nil)

// NewWebSearchResearcher はWebSearchResearcherの新しいインスタンスを生成します。
func NewWebSearchResearcher(client openaisdk.Client, model string, search SearchOptions) *WebSearchResearcher {
	if model == "" {
		model = DefaultWebSearchModel
	}
	return &WebSearchResearcher{client: client, model: model, search: search}
}

// Research はプロンプトを1件の入力として送信し、output_textをそのまま返します。
func (r *WebSearchResearcher) Research(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: r.model,
		Input: responses.ResponseNewParamsInputUnion{OfString: openaisdk.String(prompt)},
		Tools: []responses.ToolUnionParam{{OfWebSearchPreview: r.webSearchTool()}},
	})
	if err != nil {
		return "", fmt.Errorf("web search request failed: %w", err)
	}

	return resp.OutputText(), nil
}

// webSearchTool は検索コンテキストサイズとおおよその利用者所在地を持つツール定義を組み立てます。
func (r *WebSearchResearcher) webSearchTool() *responses.WebSearchToolParam {
	tool := &responses.WebSearchToolParam{
		Type:              responses.WebSearchToolTypeWebSearchPreview,
		SearchContextSize: responses.WebSearchToolSearchContextSize(r.search.ContextSize),
	}
	loc := responses.WebSearchToolUserLocationParam{}
	if r.search.Country != "" {
		loc.Country = openaisdk.String(r.search.Country)
	}
	if r.search.City != "" {
		loc.City = openaisdk.String(r.search.City)
	}
	if r.search.Region != "" {
		loc.Region = openaisdk.String(r.search.Region)
	}
	tool.UserLocation = loc
	return tool
}
