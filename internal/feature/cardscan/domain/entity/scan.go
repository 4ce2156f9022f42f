package entity

import "time"

// Stage はパイプラインの進行状態です。
// Idle → Uploaded → Extracting → Parsing → (Researching | Erroring) → Done の順に一方向へ進みます。
type Stage string

const (
	StageIdle        Stage = "idle"
	StageUploaded    Stage = "uploaded"
	StageExtracting  Stage = "extracting"
	StageParsing     Stage = "parsing"
	StageResearching Stage = "researching"
	StageErroring    Stage = "erroring"
	StageDone        Stage = "done"
)

// Outcome は1回のスキャンの最終結果です。
type Outcome string

const (
	// OutcomeSuccess は氏名・会社名が揃い、企業検索まで完了したことを表します。
	OutcomeSuccess Outcome = "success"
	// OutcomeFieldsMissing は氏名または会社名が抽出できなかったことを表します。
	OutcomeFieldsMissing Outcome = "fields_missing"
	// OutcomeMalformed は抽出モデルの出力がJSONとして解釈できなかったことを表します。
	OutcomeMalformed Outcome = "malformed"
	// OutcomeFailed は外部APIの呼び出しに失敗したことを表します。
	OutcomeFailed Outcome = "failed"
)

// ScanResult は名刺画像1枚分のパイプライン実行結果です。リクエスト終了後は破棄されます。
type ScanResult struct {
	Outcome    Outcome
	Extraction ExtractionResult
	OCRText    string
	Research   string // Outcome == OutcomeSuccess のときのみ設定されます
	Stage      Stage
	Timings    StageTimings
}

// Succeeded は企業検索まで完了したかを返します。
func (r *ScanResult) Succeeded() bool {
	return r != nil && r.Outcome == OutcomeSuccess
}

// StageTimings は各段階の所要時間です。
type StageTimings struct {
	Extract  time.Duration
	Parse    time.Duration
	Research time.Duration
}

// CompanyResearch は企業検索の結果を表します。
type CompanyResearch struct {
	CompanyName string // 検索対象の企業名
	Summary     string // 検索モデルの出力（加工なし）
}
