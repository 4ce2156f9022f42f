package openai

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"

	"meishi_backend/internal/feature/cardscan/usecase"
)

// JSONFieldParser はJSONモードのChat Completionsモデルで氏名・会社名を抽出します。
type JSONFieldParser struct {
	client openaisdk.Client
	model  string
}

// JSONFieldParserがFieldParserを実装していることをコンパイル時に検証します。
var _ usecase.FieldParser = (*JSONFieldParser)(nil)

// NewJSONFieldParser はJSONFieldParserの新しいインスタンスを生成します。
func NewJSONFieldParser(client openaisdk.Client, model string) *JSONFieldParser {
	return &JSONFieldParser{client: client, model: model}
}

// ExtractFields はOCRテキストを送信し、モデルが返したJSON文字列を解釈せずに返します。
func (p *JSONFieldParser) ExtractFields(ctx context.Context, text string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: p.model,
		ResponseFormat: openaisdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openaisdk.ResponseFormatJSONObjectParam{},
		},
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(usecase.FieldsSystemPrompt),
			openaisdk.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("field extraction request failed: %w", err)
	}

	return firstChoiceContent(completion)
}
