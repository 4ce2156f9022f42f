package openai

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"

	"meishi_backend/internal/feature/cardscan/usecase"
)

// ChatTextExtractor はビジョン対応のChat Completionsモデルで名刺画像を文字起こしします。
type ChatTextExtractor struct {
	client openaisdk.Client
	model  string
}

// ChatTextExtractorがTextExtractorを実装していることをコンパイル時に検証します。
var _ usecase.TextExtractor = (*ChatTextExtractor)(nil)

// NewChatTextExtractor はChatTextExtractorの新しいインスタンスを生成します。
// Azureの場合、modelにはデプロイ名を指定します。
func NewChatTextExtractor(client openaisdk.Client, model string) *ChatTextExtractor {
	return &ChatTextExtractor{client: client, model: model}
}

// ExtractText は画像をデータURIとして送信し、モデルが返した文字列をそのまま返します。
// 温度は0.0に固定します。
func (e *ChatTextExtractor) ExtractText(ctx context.Context, imageB64 string) (string, error) {
	completion, err := e.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       e.model,
		Temperature: openaisdk.Float(0.0),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(usecase.OCRSystemPrompt),
			openaisdk.UserMessage([]openaisdk.ChatCompletionContentPartUnionParam{
				openaisdk.ImageContentPart(openaisdk.ChatCompletionContentPartImageImageURLParam{
					URL: usecase.ImageDataURI(imageB64),
				}),
			}),
		},
	})
	if err != nil {
		return "", fmt.Errorf("ocr completion request failed: %w", err)
	}

	return firstChoiceContent(completion)
}
