// Package openai はOpenAI / Azure OpenAI APIを使用した文字起こし・項目抽出・企業検索クライアントを提供します。
package openai

import (
	"errors"
	"net/http"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// errNoChoices はChat Completionsの応答に選択肢が含まれていない場合のエラーです。
var errNoChoices = errors.New("openai: completion has no choices")

// AzureConfig はAzure OpenAIへの接続設定です。
type AzureConfig struct {
	Endpoint   string // 例: https://<resource>.openai.azure.com
	APIVersion string // 例: 2024-12-01-preview
	APIKey     string
}

// NewAzureClient はAzure OpenAI用のクライアントを生成します。
// httpClientのタイムアウトが1回の呼び出しの上限になり、一時的な失敗はmaxRetries回まで再試行されます。
func NewAzureClient(cfg AzureConfig, httpClient *http.Client, maxRetries int, opts ...option.RequestOption) openaisdk.Client {
	base := []option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(maxRetries),
	}
	if httpClient != nil {
		base = append(base, option.WithHTTPClient(httpClient))
	}
	return openaisdk.NewClient(append(base, opts...)...)
}

// NewClient はOpenAI API用のクライアントを生成します。
func NewClient(apiKey string, httpClient *http.Client, maxRetries int, opts ...option.RequestOption) openaisdk.Client {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(maxRetries),
	}
	if httpClient != nil {
		base = append(base, option.WithHTTPClient(httpClient))
	}
	return openaisdk.NewClient(append(base, opts...)...)
}

// firstChoiceContent はChat Completionsの最初の選択肢の本文を返します。
func firstChoiceContent(c *openaisdk.ChatCompletion) (string, error) {
	if c == nil || len(c.Choices) == 0 {
		return "", errNoChoices
	}
	return c.Choices[0].Message.Content, nil
}
