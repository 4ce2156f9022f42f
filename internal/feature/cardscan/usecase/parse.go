package usecase

import (
	"encoding/json"
	"strings"

	"meishi_backend/internal/feature/cardscan/domain/entity"
)

// ParseFields は抽出モデルの応答テキストを解釈します。
// JSONオブジェクトとして解釈できない場合はエラーにせず、ParseStatusMalformedを返します。
// name / company が無い・nullである・文字列でない場合は「抽出できなかった」として空文字列になります。
func ParseFields(raw string) entity.ParseOutcome {
	var fields map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &fields); err != nil || fields == nil {
		return entity.ParseOutcome{Status: entity.ParseStatusMalformed, Raw: raw}
	}

	return entity.ParseOutcome{
		Status: entity.ParseStatusSuccess,
		Extraction: entity.ExtractionResult{
			Name:    stringField(fields, "name"),
			Company: stringField(fields, "company"),
		},
		Raw: raw,
	}
}

// stringField はキーの値が文字列であれば前後の空白を除いて返します。
func stringField(fields map[string]any, key string) string {
	s, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// stripCodeFence はモデルが付けることのあるMarkdownのコードフェンスを取り除きます。
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
